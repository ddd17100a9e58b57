package catalog

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency applies to products that do not name one.
const DefaultCurrency = "USD"

// Product is one catalog entry as published in the products document.
type Product struct {
	ID        int64               `json:"id"`
	SKU       string              `json:"sku,omitempty"`
	Title     string              `json:"title"`
	ShortDesc string              `json:"short_desc,omitempty"`
	Details   string              `json:"details,omitempty"`
	Category  string              `json:"category,omitempty"`
	Brand     string              `json:"brand,omitempty"`
	Tags      []string            `json:"tags,omitempty"`
	Images    []string            `json:"images,omitempty"`
	HasPrice  bool                `json:"has_price"`
	Price     decimal.NullDecimal `json:"price"`
	Currency  string              `json:"currency,omitempty"`
}

// UnmarshalJSON decodes a product, tolerating any price value. The price is
// dropped when has_price is false, and a listed price that does not parse
// leaves the product unpriced.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var aux struct {
		plain
		Price json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Product(aux.plain)
	p.Price = decimal.NullDecimal{}
	if !p.HasPrice {
		return nil
	}
	if err := p.Price.UnmarshalJSON(aux.Price); err != nil || !p.Price.Valid {
		p.Price = decimal.NullDecimal{}
		p.HasPrice = false
	}
	return nil
}

// EffectivePrice returns the listed price. Products without a listed price
// report false even when the document carries a stray value.
func (p Product) EffectivePrice() (decimal.Decimal, bool) {
	if !p.HasPrice || !p.Price.Valid {
		return decimal.Zero, false
	}
	return p.Price.Decimal, true
}

// CurrencyOrDefault returns the product currency, falling back to USD.
func (p Product) CurrencyOrDefault() string {
	if c := strings.TrimSpace(p.Currency); c != "" {
		return c
	}
	return DefaultCurrency
}

// searchText is the lower-cased haystack free-text queries match against.
func (p Product) searchText() string {
	parts := []string{p.Title, p.SKU, p.ShortDesc, p.Details, p.Brand, p.Category, strings.Join(p.Tags, " ")}
	return strings.ToLower(strings.Join(parts, " "))
}
