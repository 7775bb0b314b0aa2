package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Renanlucass/loja-virtual/internal/checkout"
	"github.com/Renanlucass/loja-virtual/internal/pricing"
)

// CheckoutService is what the checkout endpoints need from the
// checkout flow.
type CheckoutService interface {
	Quote(ctx context.Context, sessionID string, sel pricing.Selection) (subtotal, total decimal.Decimal, err error)
	BuildDraft(ctx context.Context, sessionID string, form checkout.Form) (*checkout.Draft, error)
	Submit(ctx context.Context, draft *checkout.Draft) (*checkout.Result, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	log      *logrus.Logger
}

func NewCheckoutHandler(svc CheckoutService, log *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, log: log}
}

type QuoteResponseDTO struct {
	Subtotal string `json:"subtotal"`
	Total    string `json:"total_pedido"`
}

type CheckoutResponseDTO struct {
	OrderID     int64  `json:"pedido_id"`
	WhatsAppURL string `json:"whatsapp_url"`
	Subtotal    string `json:"subtotal"`
	Total       string `json:"total_pedido"`
}

// Quote prices the current cart under a payment selection without
// submitting anything.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var sel pricing.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	subtotal, total, err := h.checkout.Quote(r.Context(), sessionID, sel)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, QuoteResponseDTO{
		Subtotal: subtotal.StringFixed(2),
		Total:    total.StringFixed(2),
	})
}

// Checkout validates the form, freezes the cart into a draft and
// submits it to the commerce API in one step.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	draft, err := h.checkout.BuildDraft(r.Context(), sessionID, form)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	result, err := h.checkout.Submit(r.Context(), draft)
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:     result.Order.ID,
		WhatsAppURL: result.WhatsAppURL,
		Subtotal:    draft.Subtotal.StringFixed(2),
		Total:       draft.Total.StringFixed(2),
	})
}
