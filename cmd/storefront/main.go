package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Renanlucass/loja-virtual/internal/cache"
	"github.com/Renanlucass/loja-virtual/internal/catalog"
	"github.com/Renanlucass/loja-virtual/internal/checkout"
	"github.com/Renanlucass/loja-virtual/internal/httpapi"
	"github.com/Renanlucass/loja-virtual/internal/observability"
	"github.com/Renanlucass/loja-virtual/internal/orders"
	"github.com/Renanlucass/loja-virtual/internal/postal"
	"github.com/Renanlucass/loja-virtual/internal/repository"
	"github.com/Renanlucass/loja-virtual/internal/service"
	"github.com/Renanlucass/loja-virtual/internal/whatsapp"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	ViaCEPBaseURL   string
	CartStore       string // "mongo" or "memory"
	MongoURI        string
	MongoDBName     string
	MongoMaxPool    uint64
	RedisAddr       string
	RedisPassword   string
	StoreWhatsApp   string
	PublicBaseURL   string
	OTLPEndpoint    string
	LogFormat       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:3000/api"),
		ViaCEPBaseURL:   getEnv("VIACEP_BASE_URL", postal.DefaultBaseURL),
		CartStore:       getEnv("CART_STORE", "mongo"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		MongoMaxPool:    getEnvUint("MONGO_MAX_POOL", 20),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		StoreWhatsApp:   getEnv("STORE_WHATSAPP", "5589981016717"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseUint(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log := logrus.New()
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx := context.Background()

	tp, err := observability.InitTracer(ctx, "storefront", cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("failed to init tracer")
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.WithError(err).Error("tracer shutdown failed")
			}
		}()
	}

	// Cart persistence
	var cartRepo repository.CartRepository
	switch cfg.CartStore {
	case "memory":
		cartRepo = repository.NewMemoryRepository()
		log.Warn("using in-memory cart store, carts do not survive restarts")
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		db, err := repository.ConnectMongoDB(connectCtx, cfg.MongoURI, cfg.MongoDBName, repository.MongoOptions{
			MaxPoolSize: cfg.MongoMaxPool,
		})
		cancel()
		if err != nil {
			log.WithError(err).Fatal("failed to connect to MongoDB")
		}
		cartRepo = repository.NewMongoRepository(db)
		defer func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				log.WithError(err).Error("mongo disconnect failed")
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	defer redisClient.Close()

	cartCache := cache.NewRedisCache(redisClient)
	carts := service.NewCartService(cartRepo, cartCache, log)

	// Commerce API clients share an instrumented transport
	outbound := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	catalogClient := catalog.NewClient(cfg.APIBaseURL, outbound, log)
	ordersClient := orders.NewClient(cfg.APIBaseURL, outbound, log)
	postalClient := postal.NewClient(cfg.ViaCEPBaseURL, outbound)

	notifier := whatsapp.NewNotifier(cfg.StoreWhatsApp, cfg.PublicBaseURL)
	checkoutSvc := checkout.NewService(carts, ordersClient, notifier, log)

	router := httpapi.NewRouter(
		httpapi.NewCartHandler(carts, catalogClient, log),
		httpapi.NewCheckoutHandler(checkoutSvc, log),
		httpapi.NewCatalogHandler(catalogClient, ordersClient, postalClient, log),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
}
