// Package httpapi is the storefront's HTTP surface: session-scoped cart
// endpoints, checkout, and read-through proxies for the commerce API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the chi router with the global middleware chain
// and every route under /api/v1.
func NewRouter(cart *CartHandler, checkout *CheckoutHandler, catalog *CatalogHandler, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Delete("/", cart.ClearCart)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{product_id}", cart.UpdateQuantity)
			r.Delete("/items/{product_id}", cart.RemoveItem)
		})

		r.Post("/checkout/quote", checkout.Quote)
		r.Post("/checkout", checkout.Checkout)

		r.Get("/products", catalog.ListProducts)
		r.Get("/products/{id}", catalog.GetProduct)
		r.Get("/categories", catalog.ListCategories)
		r.Get("/categories/{id}", catalog.GetCategory)
		r.Get("/slides", catalog.ListSlides)
		r.Get("/config", catalog.GetStoreConfig)

		r.Get("/orders/{id}", catalog.GetOrder)
		r.Get("/cep/{cep}", catalog.LookupCEP)
	})

	return r
}
