package storefront

import (
	"context"
	"fmt"

	"github.com/adbroadcast/website-backend/internal/cart"
	"github.com/adbroadcast/website-backend/internal/catalog"
	"github.com/adbroadcast/website-backend/internal/checkout"
	pkgerrors "github.com/adbroadcast/website-backend/pkg/errors"
	"github.com/adbroadcast/website-backend/pkg/pagination"
)

// Submitter sends a cart to the intake endpoint.
type Submitter interface {
	Submit(ctx context.Context, c *cart.Cart, contact checkout.Contact) (checkout.Outcome, error)
}

// Page is the rendered slice of the filtered catalog.
type Page struct {
	Products   []catalog.Product    `json:"products"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	TotalItems int                  `json:"total_items"`
	Controls   []pagination.Control `json:"controls,omitempty"`
}

// CartView is the drawer content.
type CartView struct {
	Lines   []cart.Line  `json:"lines"`
	Summary cart.Summary `json:"summary"`
	Notice  string       `json:"notice"`
	Open    bool         `json:"open"`
}

// CheckoutResult tells the caller how to update the page after a checkout.
type CheckoutResult struct {
	Outcome   checkout.Outcome `json:"outcome"`
	ResetForm bool             `json:"reset_form"`
}

// Session is the state of one visitor's shop page: filters, the filtered
// list, the current page, the cart and whether the cart drawer is open.
// A Session is not safe for concurrent use.
type Session struct {
	store     *catalog.Store
	submitter Submitter

	criteria   catalog.Criteria
	filtered   []catalog.Product
	pager      *pagination.Pager
	cart       *cart.Cart
	drawerOpen bool
}

// NewSession starts a session showing the whole catalog on page 1 with an
// empty cart. submitter may be nil for read-only sessions.
func NewSession(store *catalog.Store, submitter Submitter) *Session {
	if store == nil {
		store = catalog.NewStaticStore(nil)
	}
	s := &Session{
		store:     store,
		submitter: submitter,
		cart:      cart.New(),
	}
	s.filtered = store.Filter(s.criteria)
	s.pager = pagination.New(pagination.DefaultPageSize, len(s.filtered))
	return s
}

// Criteria returns the active filters.
func (s *Session) Criteria() catalog.Criteria {
	return s.criteria
}

// Options returns the filter dropdown values for the full catalog.
func (s *Session) Options() catalog.Options {
	return s.store.Options()
}

// ApplyFilters replaces the active filters and returns to page 1.
func (s *Session) ApplyFilters(c catalog.Criteria) Page {
	s.criteria = c
	s.filtered = s.store.Filter(c)
	s.pager.Reset(len(s.filtered))
	return s.CurrentPage()
}

// Refresh re-runs the active filters, e.g. after the catalog finished
// loading, keeping the current page when it still exists.
func (s *Session) Refresh() Page {
	s.filtered = s.store.Filter(s.criteria)
	s.pager.Resize(len(s.filtered))
	return s.CurrentPage()
}

// GoToPage moves to page n without touching the filters. Out-of-range pages
// are rejected and the current page is kept.
func (s *Session) GoToPage(n int) (Page, error) {
	if err := s.pager.SetPage(n); err != nil {
		return s.CurrentPage(), pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()).
			WithDetails(map[string]any{"page": n, "total_pages": s.pager.TotalPages()})
	}
	return s.CurrentPage(), nil
}

// CurrentPage renders the current slice of the filtered list.
func (s *Session) CurrentPage() Page {
	return Page{
		Products:   pagination.Slice(s.filtered, s.pager),
		Page:       s.pager.Current(),
		PageSize:   s.pager.Size(),
		TotalPages: s.pager.TotalPages(),
		TotalItems: s.pager.Count(),
		Controls:   s.pager.Controls(),
	}
}

// AddToCart adds the catalog product with id and opens the drawer.
func (s *Session) AddToCart(id int64) (cart.Line, error) {
	p, ok := s.store.Product(id)
	if !ok {
		return cart.Line{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
	}
	line := s.cart.Add(p)
	s.drawerOpen = true
	return line, nil
}

// RemoveFromCart drops a line; unknown ids are ignored.
func (s *Session) RemoveFromCart(id int64) {
	s.cart.Remove(id)
}

// Cart renders the drawer.
func (s *Session) Cart() CartView {
	summary := s.cart.Summarize()
	notice := summary.Notice()
	if s.cart.IsEmpty() {
		notice = cart.EmptyMessage
	}
	return CartView{
		Lines:   s.cart.Lines(),
		Summary: summary,
		Notice:  notice,
		Open:    s.drawerOpen,
	}
}

func (s *Session) OpenDrawer()  { s.drawerOpen = true }
func (s *Session) CloseDrawer() { s.drawerOpen = false }

// Checkout submits the cart. An accepted request clears the cart and asks
// the caller to reset the contact form; anything else leaves both intact.
func (s *Session) Checkout(ctx context.Context, contact checkout.Contact) (CheckoutResult, error) {
	if s.submitter == nil {
		return CheckoutResult{}, pkgerrors.New(pkgerrors.CodeInternal, "checkout is not configured")
	}
	outcome, err := s.submitter.Submit(ctx, s.cart, contact)
	if err != nil {
		return CheckoutResult{}, err
	}
	if !outcome.Accepted() {
		return CheckoutResult{Outcome: outcome}, nil
	}
	s.cart.Clear()
	return CheckoutResult{Outcome: outcome, ResetForm: true}, nil
}
