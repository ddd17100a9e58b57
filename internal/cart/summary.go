package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/adbroadcast/website-backend/internal/catalog"
)

const (
	noticeQuoted = "Items without prices will be quoted by our team based on configuration."
	EmptyMessage = "Your request list is currently empty."
)

// Summary splits the cart into the indicative priced total and a flag for
// lines that need a quote.
type Summary struct {
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	HasPriced   bool            `json:"has_priced"`
	HasUnpriced bool            `json:"has_unpriced"`
	ItemCount   int             `json:"item_count"`
}

// Summarize totals priced lines. The display currency is that of the first
// priced line; mixed-currency carts are not reconciled.
func (c *Cart) Summarize() Summary {
	s := Summary{Total: decimal.Zero}
	for _, line := range c.lines {
		s.ItemCount += line.Quantity
		sub, ok := line.Subtotal()
		if !ok {
			s.HasUnpriced = true
			continue
		}
		if !s.HasPriced {
			s.Currency = line.Currency
		}
		s.HasPriced = true
		s.Total = s.Total.Add(sub)
	}
	if s.HasPriced && s.Currency == "" {
		s.Currency = catalog.DefaultCurrency
	}
	return s
}

// Notice renders the summary text shown under the cart lines.
func (s Summary) Notice() string {
	var b strings.Builder
	if s.HasPriced {
		b.WriteString("Indicative total for priced items: ")
		b.WriteString(s.Currency)
		b.WriteString(" ")
		b.WriteString(s.Total.String())
		b.WriteString(". ")
	}
	if s.HasUnpriced {
		b.WriteString(noticeQuoted)
	}
	return b.String()
}
