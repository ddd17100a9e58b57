package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/adbroadcast/website-backend/internal/cart"
	"github.com/adbroadcast/website-backend/pkg/enums"
)

// Contact holds the checkout form fields.
type Contact struct {
	Name             string
	Email            string
	Phone            string
	Company          string
	Notes            string
	Country          string
	ContactMethod    string
	DeliveryLocation string
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c Contact) Trimmed() Contact {
	return Contact{
		Name:             strings.TrimSpace(c.Name),
		Email:            strings.TrimSpace(c.Email),
		Phone:            strings.TrimSpace(c.Phone),
		Company:          strings.TrimSpace(c.Company),
		Notes:            strings.TrimSpace(c.Notes),
		Country:          strings.TrimSpace(c.Country),
		ContactMethod:    strings.TrimSpace(c.ContactMethod),
		DeliveryLocation: strings.TrimSpace(c.DeliveryLocation),
	}
}

// Item is one cart line as sent to the intake endpoint.
type Item struct {
	ID       int64            `json:"id"`
	SKU      string           `json:"sku"`
	Title    string           `json:"title"`
	Quantity int              `json:"qty"`
	HasPrice bool             `json:"has_price"`
	Price    *decimal.Decimal `json:"price"`
	Currency string           `json:"currency"`
}

// Request is the payload posted to the shop intake endpoint.
type Request struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Company          string `json:"company"`
	Notes            string `json:"notes"`
	Country          string `json:"country"`
	ContactMethod    string `json:"contact_method"`
	DeliveryLocation string `json:"delivery_location"`
	Source           string `json:"source"`
	Items            []Item `json:"items"`
}

// BuildRequest copies the contact fields and cart lines verbatim.
func BuildRequest(lines []cart.Line, contact Contact) Request {
	contact = contact.Trimmed()
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		item := Item{
			ID:       line.ProductID,
			SKU:      line.SKU,
			Title:    line.Title,
			Quantity: line.Quantity,
			HasPrice: line.HasPrice,
			Currency: line.Currency,
		}
		if line.HasPrice {
			price := line.Price
			item.Price = &price
		}
		items = append(items, item)
	}
	return Request{
		Name:             contact.Name,
		Email:            contact.Email,
		Phone:            contact.Phone,
		Company:          contact.Company,
		Notes:            contact.Notes,
		Country:          contact.Country,
		ContactMethod:    contact.ContactMethod,
		DeliveryLocation: contact.DeliveryLocation,
		Source:           enums.LeadSourceShop.String(),
		Items:            items,
	}
}
