package catalog

import (
	"sort"
	"strings"

	"github.com/adbroadcast/website-backend/pkg/enums"
)

// Criteria narrows the catalog. Zero values match everything.
type Criteria struct {
	Category  string
	Brand     string
	PriceMode enums.PriceMode
	Query     string
}

// Matches reports whether p satisfies every criterion.
func (c Criteria) Matches(p Product) bool {
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if c.Brand != "" && p.Brand != c.Brand {
		return false
	}
	switch c.PriceMode {
	case enums.PriceModePriced:
		if !p.HasPrice {
			return false
		}
	case enums.PriceModeRequest:
		if p.HasPrice {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		if !strings.Contains(p.searchText(), q) {
			return false
		}
	}
	return true
}

// Filter returns the products matching c in catalog order.
func Filter(products []Product, c Criteria) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Option is one entry of a filter dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists the values for the category and brand filters. The first
// entry of each list is the "All" sentinel with an empty value.
type Options struct {
	Categories []Option `json:"categories"`
	Brands     []Option `json:"brands"`
}

// BuildOptions derives sorted, de-duplicated filter values from products.
func BuildOptions(products []Product) Options {
	categories := make([]string, 0, len(products))
	brands := make([]string, 0, len(products))
	for _, p := range products {
		categories = append(categories, p.Category)
		brands = append(brands, p.Brand)
	}
	return Options{
		Categories: withAll("All categories", distinctSorted(categories)),
		Brands:     withAll("All brands", distinctSorted(brands)),
	}
}

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func withAll(label string, values []string) []Option {
	out := make([]Option, 0, len(values)+1)
	out = append(out, Option{Value: "", Label: label})
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}
