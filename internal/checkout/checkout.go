// Package checkout sequences the cart store, the order-total calculator
// and the commerce API into the order submission flow.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Renanlucass/loja-virtual/internal/domain"
	"github.com/Renanlucass/loja-virtual/internal/pricing"
)

const (
	DeliveryHome   = "entrega"
	DeliveryPickup = "retirada"

	pickupAddress = "Retirar no local (a combinar com o vendedor)"
)

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to check out")
	ErrSubmissionInFlight = errors.New("an order submission is already in flight for this session")
)

// ValidationError marks form problems the shopper can fix.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Form carries the checkout fields as submitted by the shopper.
type Form struct {
	Name           string            `json:"nome"`
	Phone          string            `json:"telefone"`
	DeliveryMethod string            `json:"metodo_entrega"`
	Street         string            `json:"rua"`
	Number         string            `json:"numero"`
	Neighborhood   string            `json:"bairro"`
	City           string            `json:"cidade"`
	State          string            `json:"estado"`
	CEP            string            `json:"cep"`
	Payment        pricing.Selection `json:"pagamento"`
}

func (f Form) validate() error {
	if f.Name == "" {
		return &ValidationError{Field: "nome", Reason: "required"}
	}
	if f.Phone == "" {
		return &ValidationError{Field: "telefone", Reason: "required"}
	}

	switch f.DeliveryMethod {
	case DeliveryPickup:
	case DeliveryHome:
		required := []struct{ field, value string }{
			{"rua", f.Street},
			{"numero", f.Number},
			{"bairro", f.Neighborhood},
			{"cidade", f.City},
			{"estado", f.State},
			{"cep", f.CEP},
		}
		for _, r := range required {
			if r.value == "" {
				return &ValidationError{Field: r.field, Reason: "required for delivery"}
			}
		}
	default:
		return &ValidationError{Field: "metodo_entrega", Reason: "must be entrega or retirada"}
	}

	if err := f.Payment.Validate(); err != nil {
		return &ValidationError{Field: "pagamento", Reason: err.Error()}
	}
	if f.Payment.Method == pricing.MethodNone {
		return &ValidationError{Field: "pagamento", Reason: "required"}
	}
	return nil
}

// address formats the full delivery address, or the pickup placeholder.
func (f Form) address() string {
	if f.DeliveryMethod == DeliveryPickup {
		return pickupAddress
	}
	return fmt.Sprintf("%s, Nº %s, %s, %s - %s, CEP: %s",
		f.Street, f.Number, f.Neighborhood, f.City, f.State, f.CEP)
}

// Draft is the frozen order: cart snapshot, form and computed totals at
// the moment the shopper asked for confirmation. Immutable once built.
type Draft struct {
	SessionID string
	Lines     []domain.CartLine
	Form      Form
	Address   string
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
	FrozenAt  time.Time
}
