package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestListProducts_QueryParams(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/produtos", r.URL.Path)
		gotQuery = map[string]string{
			"page":     r.URL.Query().Get("page"),
			"limit":    r.URL.Query().Get("limit"),
			"search":   r.URL.Query().Get("search"),
			"destaque": r.URL.Query().Get("destaque"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ProductPage{
			Products: []Product{
				{ID: 1, Name: "Laço rosa", Price: decimal.RequireFromString("19.90"), Stock: 5},
			},
			Page:       2,
			TotalPages: 3,
			Total:      25,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	page, err := client.ListProducts(context.Background(), ListParams{
		Page: 2, Limit: 12, Search: "laço", Featured: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "2", gotQuery["page"])
	assert.Equal(t, "12", gotQuery["limit"])
	assert.Equal(t, "laço", gotQuery["search"])
	assert.Equal(t, "true", gotQuery["destaque"])

	require.Len(t, page.Products, 1)
	assert.Equal(t, "Laço rosa", page.Products[0].Name)
	assert.True(t, page.Products[0].Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, 3, page.TotalPages)
}

func TestGetProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	_, err := client.GetProduct(context.Background(), 42)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_ServerErrorsOpenTheBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := client.GetProduct(ctx, 1)
		assert.ErrorIs(t, err, ErrUnavailable)
	}

	// Breaker is open now; the next call must fail without reaching the server.
	srv.Close()
	_, err := client.GetProduct(ctx, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStoreConfig_CachedAcrossCalls(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/configuracoes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(StoreConfig{
			ContactPhone: "(89) 98101-6717",
			HoursMonday:  "08:00 às 18:00",
			HoursSunday:  "Fechado",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	ctx := context.Background()

	first, err := client.StoreConfig(ctx)
	require.NoError(t, err)
	second, err := client.StoreConfig(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load(), "second read must come from cache")
	assert.Equal(t, first.ContactPhone, second.ContactPhone)
	assert.Equal(t, "08:00 às 18:00", first.HoursMonday)
}

func TestStoreConfig_StaleServedOnUpstreamFailure(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(StoreConfig{ContactPhone: "123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	ctx := context.Background()

	_, err := client.StoreConfig(ctx)
	require.NoError(t, err)

	// Expire the cache and make the upstream fail.
	client.mu.Lock()
	client.configExp = client.configExp.Add(-2 * configTTL)
	client.mu.Unlock()
	fail.Store(true)

	cfg, err := client.StoreConfig(ctx)
	require.NoError(t, err, "stale config should be served on failure")
	assert.Equal(t, "123", cfg.ContactPhone)
}

func TestListCategoriesAndSlides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/categorias":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]Category{{ID: 1, Name: "Laços"}, {ID: 2, Name: "Bolsas"}})
		case "/slides":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]Slide{{ID: 1, ImageURL: "https://cdn/banner1.jpg"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	ctx := context.Background()

	categories, err := client.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	slides, err := client.ListSlides(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "https://cdn/banner1.jpg", slides[0].ImageURL)
}
