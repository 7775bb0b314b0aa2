// Package pricing computes the payable order total from the cart subtotal
// and the chosen payment method, applying card surcharges.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodNone Method = ""
	MethodPix  Method = "pix"
	MethodCash Method = "dinheiro"
	MethodCard Method = "cartao"
)

type CardType string

const (
	CardNone   CardType = ""
	CardCredit CardType = "credito"
	CardDebit  CardType = "debito"
)

var (
	creditSingle      = decimal.RequireFromString("1.05")  // credit, 1 installment
	creditInstallment = decimal.RequireFromString("1.054") // credit, 2-3 installments
	debit             = decimal.RequireFromString("1.02")
)

var (
	ErrUnknownMethod   = errors.New("unknown payment method")
	ErrUnknownCardType = errors.New("unknown card type")
	ErrMissingCardType = errors.New("card payments require a card type")
	ErrBadInstallments = errors.New("credit installments must be between 1 and 3")
	ErrStrayCardFields = errors.New("card type and installments only apply to card payments")
)

// Selection is the shopper's payment choice. It is transient and never
// persisted; totals are derived from it on demand.
type Selection struct {
	Method       Method   `json:"forma_pagamento"`
	CardType     CardType `json:"tipo_cartao,omitempty"`
	Installments int      `json:"parcelas"`
}

func NewSelection() Selection {
	return Selection{Installments: 1}
}

// SetMethod switches the payment method and drops the card fields, so a
// surcharge from a previous method can never leak into the new one.
func (s *Selection) SetMethod(m Method) {
	s.Method = m
	s.CardType = CardNone
	s.Installments = 1
}

func (s Selection) Validate() error {
	switch s.Method {
	case MethodNone, MethodPix, MethodCash:
		if s.CardType != CardNone {
			return ErrStrayCardFields
		}
		if s.Installments > 1 {
			return ErrStrayCardFields
		}
		return nil
	case MethodCard:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, s.Method)
	}

	switch s.CardType {
	case CardDebit:
		if s.Installments > 1 {
			return ErrBadInstallments
		}
		return nil
	case CardCredit:
		if s.Installments < 1 || s.Installments > 3 {
			return ErrBadInstallments
		}
		return nil
	case CardNone:
		return ErrMissingCardType
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCardType, s.CardType)
	}
}

// Surcharge returns the multiplier the selection applies to the subtotal.
// Combinations outside the documented table carry no surcharge; callers are
// expected to reject them with Validate before quoting.
func (s Selection) Surcharge() decimal.Decimal {
	if s.Method != MethodCard {
		return decimal.NewFromInt(1)
	}
	switch s.CardType {
	case CardCredit:
		if s.Installments == 1 {
			return creditSingle
		}
		if s.Installments >= 2 && s.Installments <= 3 {
			return creditInstallment
		}
		return decimal.NewFromInt(1)
	case CardDebit:
		return debit
	default:
		return decimal.NewFromInt(1)
	}
}

// Total applies the selection's surcharge to the subtotal. Pure: same inputs
// always produce the same output, full precision is kept (round only when
// presenting or serializing).
func Total(subtotal decimal.Decimal, sel Selection) decimal.Decimal {
	return subtotal.Mul(sel.Surcharge())
}
