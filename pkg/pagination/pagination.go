package pagination

import (
	"fmt"
)

const (
	// DefaultPageSize is the number of products shown per shop grid page.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows any page can request.
	MaxPageSize = 100
)

// ErrPageOutOfRange is returned when a page outside [1, TotalPages] is requested.
type ErrPageOutOfRange struct {
	Page       int
	TotalPages int
}

func (e ErrPageOutOfRange) Error() string {
	return fmt.Sprintf("page %d out of range [1, %d]", e.Page, e.TotalPages)
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Pager tracks the current page over a result set of known length.
type Pager struct {
	size    int
	count   int
	current int
}

// New builds a pager positioned on page 1.
func New(size, count int) *Pager {
	p := &Pager{size: NormalizePageSize(size)}
	p.Reset(count)
	return p
}

// Size returns the fixed page size.
func (p *Pager) Size() int { return p.size }

// Count returns the number of items being paged.
func (p *Pager) Count() int { return p.count }

// Current returns the 1-based current page.
func (p *Pager) Current() int { return p.current }

// TotalPages returns ceil(count / size); zero when there are no items.
func (p *Pager) TotalPages() int {
	if p.count <= 0 {
		return 0
	}
	return (p.count + p.size - 1) / p.size
}

// Reset points the pager at a new result set and returns to page 1.
// Filter changes always go through Reset.
func (p *Pager) Reset(count int) {
	if count < 0 {
		count = 0
	}
	p.count = count
	p.current = 1
}

// Resize updates the item count while keeping the current page when it is
// still valid, clamping it into [1, TotalPages] otherwise.
func (p *Pager) Resize(count int) {
	if count < 0 {
		count = 0
	}
	p.count = count
	total := p.TotalPages()
	if p.current > total {
		p.current = total
	}
	if p.current < 1 {
		p.current = 1
	}
}

// SetPage moves to page n. Out-of-range pages are rejected and leave the
// pager unchanged.
func (p *Pager) SetPage(n int) error {
	total := p.TotalPages()
	if n < 1 || n > total {
		return ErrPageOutOfRange{Page: n, TotalPages: total}
	}
	p.current = n
	return nil
}

// HasPrevious reports whether a previous page exists.
func (p *Pager) HasPrevious() bool {
	return p.current > 1
}

// HasNext reports whether a following page exists.
func (p *Pager) HasNext() bool {
	return p.current < p.TotalPages()
}

// Bounds returns the half-open [start, end) index range of the current page.
func (p *Pager) Bounds() (int, int) {
	if p.count == 0 {
		return 0, 0
	}
	start := (p.current - 1) * p.size
	end := start + p.size
	if end > p.count {
		end = p.count
	}
	return start, end
}

// Slice returns the current page of items.
func Slice[T any](items []T, p *Pager) []T {
	start, end := p.Bounds()
	if start >= len(items) {
		return []T{}
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
