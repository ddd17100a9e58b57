package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/adbroadcast/website-backend/pkg/logger"
	"golang.org/x/sync/singleflight"
)

var errInvalidDocument = errors.New("catalog document has no products list")

type document struct {
	Products *[]Product `json:"products"`
}

// Store holds the full product list, fetched once from its Source.
type Store struct {
	source Source
	logg   *logger.Logger

	group singleflight.Group

	mu       sync.RWMutex
	products []Product
	loaded   bool
}

// NewStore builds an empty store bound to source.
func NewStore(source Source, logg *logger.Logger) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{source: source, logg: logg}
}

// NewStaticStore builds a store that is already loaded with products.
func NewStaticStore(products []Product) *Store {
	s := &Store{logg: logger.Nop(), loaded: true}
	s.products = normalize(products)
	return s
}

// Load fetches the catalog the first time it is called and returns the
// number of products held. Failures are logged and leave the store empty so
// callers render an empty shop instead of failing. Concurrent callers share
// one fetch.
func (s *Store) Load(ctx context.Context) int {
	s.mu.RLock()
	if s.loaded {
		n := len(s.products)
		s.mu.RUnlock()
		return n
	}
	s.mu.RUnlock()

	v, _, _ := s.group.Do("load", func() (any, error) {
		s.mu.RLock()
		if s.loaded {
			n := len(s.products)
			s.mu.RUnlock()
			return n, nil
		}
		s.mu.RUnlock()

		products, err := s.fetch(ctx)
		if err != nil {
			s.logg.WarnErr(s.logg.WithField(ctx, "source", s.sourceName()), "catalog.load_failed", err)
			return 0, nil
		}

		s.mu.Lock()
		s.products = products
		s.loaded = true
		s.mu.Unlock()

		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"source":   s.sourceName(),
			"products": len(products),
		}), "catalog.loaded")
		return len(products), nil
	})
	n, _ := v.(int)
	return n
}

func (s *Store) fetch(ctx context.Context) ([]Product, error) {
	if s.source == nil {
		return nil, errors.New("catalog source not configured")
	}
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Products == nil {
		return nil, errInvalidDocument
	}
	return normalize(*doc.Products), nil
}

func (s *Store) sourceName() string {
	if s.source == nil {
		return ""
	}
	return s.source.String()
}

// Loaded reports whether a fetch has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Products returns a copy of the full catalog.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product looks up a product by id.
func (s *Store) Product(id int64) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Filter applies criteria to the full catalog.
func (s *Store) Filter(c Criteria) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.products, c)
}

// Options derives the category and brand filter values.
func (s *Store) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BuildOptions(s.products)
}

func normalize(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		p.Currency = p.CurrencyOrDefault()
		out[i] = p
	}
	return out
}
