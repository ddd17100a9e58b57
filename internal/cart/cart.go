package cart

import (
	"github.com/shopspring/decimal"

	"github.com/adbroadcast/website-backend/internal/catalog"
)

// Line is a snapshot of a product taken when it was first added. Later
// catalog changes do not affect lines already in the cart.
type Line struct {
	ProductID int64           `json:"id"`
	SKU       string          `json:"sku,omitempty"`
	Title     string          `json:"title"`
	HasPrice  bool            `json:"has_price"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Quantity  int             `json:"qty"`
}

// Subtotal returns price times quantity for priced lines.
func (l Line) Subtotal() (decimal.Decimal, bool) {
	if !l.HasPrice {
		return decimal.Zero, false
	}
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))), true
}

// Cart is an ordered list of distinct lines keyed by product id. It lives
// for one session and is never persisted.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add increments the quantity of an existing line or appends a new one.
func (c *Cart) Add(p catalog.Product) Line {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return c.lines[i]
		}
	}
	price, hasPrice := p.EffectivePrice()
	line := Line{
		ProductID: p.ID,
		SKU:       p.SKU,
		Title:     p.Title,
		HasPrice:  hasPrice,
		Price:     price,
		Currency:  p.CurrencyOrDefault(),
		Quantity:  1,
	}
	c.lines = append(c.lines, line)
	return line
}

// Remove drops the line for productID. Absent ids are ignored.
func (c *Cart) Remove(productID int64) bool {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}
