package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart holds the lines a shopper intends to buy in the current session.
// Lines keep insertion order and there is at most one line per product.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartLine struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"image_url,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	StockLimit int             `json:"stock_limit,omitempty"` // 0 means unknown
	AddedAt    time.Time       `json:"added_at"`
}

func NewCart(sessionID string) *Cart {
	now := time.Now()
	return &Cart{
		SessionID: sessionID,
		Lines:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Line returns the line for productID, or nil.
func (c *Cart) Line(productID int64) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// AddLine merges line into the cart: an existing line for the same product
// gets its quantity incremented, otherwise the line is appended. Quantities
// below 1 count as 1.
func (c *Cart) AddLine(line CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if existing := c.Line(line.ProductID); existing != nil {
		existing.Quantity += line.Quantity
		c.UpdatedAt = time.Now()
		return
	}
	if line.AddedAt.IsZero() {
		line.AddedAt = time.Now()
	}
	c.Lines = append(c.Lines, line)
	c.UpdatedAt = time.Now()
}

// SetQuantity sets the quantity of the line for productID. A quantity of
// zero or less removes the line. Unknown products are a no-op.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveLine(productID)
		return
	}
	if line := c.Line(productID); line != nil {
		line.Quantity = quantity
		c.UpdatedAt = time.Now()
	}
}

// RemoveLine deletes the line for productID; no-op if absent.
func (c *Cart) RemoveLine(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now()
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
	c.UpdatedAt = time.Now()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Subtotal sums unit price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Copy returns a deep copy so callers can hold a snapshot without racing
// later mutations.
func (c *Cart) Copy() *Cart {
	cp := *c
	cp.Lines = make([]CartLine, len(c.Lines))
	copy(cp.Lines, c.Lines)
	return &cp
}
