package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotal_SurchargeTable(t *testing.T) {
	subtotal := decimal.RequireFromString("100.00")

	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{"no method", Selection{Installments: 1}, "100.00"},
		{"pix", Selection{Method: MethodPix, Installments: 1}, "100.00"},
		{"cash", Selection{Method: MethodCash, Installments: 1}, "100.00"},
		{"credit 1x", Selection{Method: MethodCard, CardType: CardCredit, Installments: 1}, "105.00"},
		{"credit 2x", Selection{Method: MethodCard, CardType: CardCredit, Installments: 2}, "105.40"},
		{"credit 3x", Selection{Method: MethodCard, CardType: CardCredit, Installments: 3}, "105.40"},
		{"debit", Selection{Method: MethodCard, CardType: CardDebit, Installments: 1}, "102.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(subtotal, tt.sel)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"Total(%s, %+v) = %s, want %s", subtotal, tt.sel, got, tt.want)
		})
	}
}

func TestTotal_Idempotent(t *testing.T) {
	subtotal := decimal.RequireFromString("73.90")
	sel := Selection{Method: MethodCard, CardType: CardCredit, Installments: 2}

	first := Total(subtotal, sel)
	second := Total(subtotal, sel)

	assert.True(t, first.Equal(second))
}

func TestSetMethod_ResetsCardFields(t *testing.T) {
	sel := NewSelection()
	sel.Method = MethodCard
	sel.CardType = CardCredit
	sel.Installments = 3

	sel.SetMethod(MethodPix)

	assert.Equal(t, MethodPix, sel.Method)
	assert.Equal(t, CardNone, sel.CardType)
	assert.Equal(t, 1, sel.Installments)

	// surcharge from the old selection must not survive the switch
	subtotal := decimal.RequireFromString("100.00")
	assert.True(t, Total(subtotal, sel).Equal(subtotal))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sel     Selection
		wantErr error
	}{
		{"pix ok", Selection{Method: MethodPix, Installments: 1}, nil},
		{"empty method ok", Selection{Installments: 1}, nil},
		{"credit 3x ok", Selection{Method: MethodCard, CardType: CardCredit, Installments: 3}, nil},
		{"debit ok", Selection{Method: MethodCard, CardType: CardDebit, Installments: 1}, nil},
		{"card without type", Selection{Method: MethodCard, Installments: 1}, ErrMissingCardType},
		{"credit 0x", Selection{Method: MethodCard, CardType: CardCredit, Installments: 0}, ErrBadInstallments},
		{"credit 4x", Selection{Method: MethodCard, CardType: CardCredit, Installments: 4}, ErrBadInstallments},
		{"debit 2x", Selection{Method: MethodCard, CardType: CardDebit, Installments: 2}, ErrBadInstallments},
		{"pix with card type", Selection{Method: MethodPix, CardType: CardDebit, Installments: 1}, ErrStrayCardFields},
		{"bogus method", Selection{Method: "cheque", Installments: 1}, ErrUnknownMethod},
		{"bogus card type", Selection{Method: MethodCard, CardType: "vale", Installments: 1}, ErrUnknownCardType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSurcharge_OutOfRangeCreditHasNoMarkup(t *testing.T) {
	// Unreachable through the API (Validate rejects it) but the table is
	// explicit: anything outside 1-3 credit installments carries no markup.
	sel := Selection{Method: MethodCard, CardType: CardCredit, Installments: 12}
	assert.True(t, sel.Surcharge().Equal(decimal.NewFromInt(1)))
}
