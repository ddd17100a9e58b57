package enums

import (
	"fmt"
	"strings"
)

// PriceMode narrows the catalog to listed-price or quote-only products.
type PriceMode string

const (
	PriceModeAny     PriceMode = ""
	PriceModePriced  PriceMode = "priced"
	PriceModeRequest PriceMode = "request"
)

// String implements fmt.Stringer.
func (m PriceMode) String() string {
	return string(m)
}

// ParsePriceMode converts raw input into a PriceMode; blank input means any.
func ParsePriceMode(value string) (PriceMode, error) {
	switch PriceMode(strings.ToLower(strings.TrimSpace(value))) {
	case PriceModeAny:
		return PriceModeAny, nil
	case PriceModePriced:
		return PriceModePriced, nil
	case PriceModeRequest:
		return PriceModeRequest, nil
	}
	return "", fmt.Errorf("invalid price mode %q", value)
}
