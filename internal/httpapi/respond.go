package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Renanlucass/loja-virtual/internal/catalog"
	"github.com/Renanlucass/loja-virtual/internal/checkout"
	"github.com/Renanlucass/loja-virtual/internal/orders"
	"github.com/Renanlucass/loja-virtual/internal/postal"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logrus.WithError(err).Error("failed to encode response")
		}
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleDomainError maps known failures to HTTP statuses. Anything
// unrecognized is a 500.
func handleDomainError(w http.ResponseWriter, log *logrus.Logger, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, postal.ErrInvalidCEP):
		respondError(w, http.StatusBadRequest, "invalid_cep", "cep must have 8 digits")
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, postal.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", "an order submission is already in progress")
	case errors.Is(err, catalog.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "upstream_unavailable", "catalog temporarily unavailable")
	case errors.Is(err, orders.ErrSubmitFailed):
		respondError(w, http.StatusBadGateway, "submit_failed", "order submission failed")
	default:
		log.WithError(err).Error("unhandled error")
		respondError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
