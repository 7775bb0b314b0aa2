package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Renanlucass/loja-virtual/internal/catalog"
	"github.com/Renanlucass/loja-virtual/internal/domain"
)

// CartService is what the cart endpoints need from the cart layer.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, line domain.CartLine) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// ProductFetcher resolves a product so cart lines carry the catalog
// price, never a client-supplied one.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type CartHandler struct {
	carts    CartService
	products ProductFetcher
	log      *logrus.Logger
}

func NewCartHandler(carts CartService, products ProductFetcher, log *logrus.Logger) *CartHandler {
	return &CartHandler{carts: carts, products: products, log: log}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"produto_id"`
	Quantity  int   `json:"quantidade"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantidade"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	cart, err := h.carts.GetCart(r.Context(), sessionID)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "produto_id must be positive")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), sessionID, domain.CartLine{
		ProductID:  product.ID,
		Name:       product.Name,
		ImageURL:   product.ImageURL,
		UnitPrice:  product.Price,
		Quantity:   req.Quantity,
		StockLimit: product.Stock,
	})
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// quantity <= 0 removes the line, same as the delete endpoint
	cart, err := h.carts.UpdateQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), sessionID, productID)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	if err := h.carts.ClearCart(r.Context(), sessionID); err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
