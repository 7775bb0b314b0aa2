package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Renanlucass/loja-virtual/internal/catalog"
	"github.com/Renanlucass/loja-virtual/internal/orders"
	"github.com/Renanlucass/loja-virtual/internal/postal"
)

const defaultPageLimit = 12

// Catalog is the read surface of the commerce API the storefront
// proxies.
type Catalog interface {
	ListProducts(ctx context.Context, params catalog.ListParams) (*catalog.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	GetCategory(ctx context.Context, id int64) (*catalog.Category, error)
	ListSlides(ctx context.Context) ([]catalog.Slide, error)
	StoreConfig(ctx context.Context) (*catalog.StoreConfig, error)
}

type OrderReader interface {
	Get(ctx context.Context, id int64) (*orders.Order, error)
}

type PostalLookup interface {
	Lookup(ctx context.Context, cep string) (*postal.Address, error)
}

type CatalogHandler struct {
	catalog Catalog
	orders  OrderReader
	postal  PostalLookup
	log     *logrus.Logger
	now     func() time.Time
}

func NewCatalogHandler(cat Catalog, ord OrderReader, post PostalLookup, log *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, orders: ord, postal: post, log: log, now: time.Now}
}

type StoreConfigDTO struct {
	catalog.StoreConfig
	OpenNow bool `json:"aberta_agora"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := catalog.ListParams{
		Page:     1,
		Limit:    defaultPageLimit,
		Search:   q.Get("search"),
		Featured: q.Get("destaque") == "true",
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}

	page, err := h.catalog.ListProducts(r.Context(), params)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) ListSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.catalog.ListSlides(r.Context())
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, slides)
}

func (h *CatalogHandler) GetStoreConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.catalog.StoreConfig(r.Context())
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, StoreConfigDTO{
		StoreConfig: *cfg,
		OpenNow:     cfg.OpenAt(h.now()),
	})
}

func (h *CatalogHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *CatalogHandler) LookupCEP(w http.ResponseWriter, r *http.Request) {
	address, err := h.postal.Lookup(r.Context(), chi.URLParam(r, "cep"))
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, address)
}
