package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adbroadcast/website-backend/pkg/enums"
)

const sampleDocument = `{
  "products": [
    {"id": 1, "sku": "CAM-4K-01", "title": "Studio Camera 4K", "category": "Cameras", "brand": "Blackmagic", "has_price": true, "price": 1295.00, "tags": ["studio"]},
    {"id": 2, "sku": "CAM-HD-02", "title": "HD Camcorder", "category": "Cameras", "brand": "Sony", "has_price": false, "price": 800},
    {"id": 3, "sku": "SW-01", "title": "Production Switcher", "details": "Supports 4K inputs", "category": "Switchers", "brand": "Blackmagic", "has_price": true, "price": "499.5", "currency": "UGX"},
    {"id": 4, "sku": "CAM-PTZ", "title": "PTZ Camera", "category": "Cameras", "brand": "Panasonic", "has_price": false, "tags": ["4k", "ptz"]}
  ]
}`

type stubSource struct {
	raw   []byte
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (s *stubSource) Fetch(ctx context.Context) ([]byte, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	return s.raw, s.err
}

func (s *stubSource) String() string { return "stub" }

func loadedStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(&stubSource{raw: []byte(sampleDocument)}, nil)
	require.Equal(t, 4, store.Load(context.Background()))
	return store
}

func ids(products []Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilter_CategoryAndQueryAreAnded(t *testing.T) {
	store := loadedStore(t)

	got := store.Filter(Criteria{Category: "Cameras", Query: "4k"})
	assert.Equal(t, []int64{1, 4}, ids(got))

	for _, p := range got {
		assert.Equal(t, "Cameras", p.Category)
	}
}

func TestFilter_QueryIsCaseInsensitiveAcrossFields(t *testing.T) {
	store := loadedStore(t)

	assert.Equal(t, []int64{1, 3, 4}, ids(store.Filter(Criteria{Query: "  4K "})))
	assert.Equal(t, []int64{2}, ids(store.Filter(Criteria{Query: "cam-hd"})))
	assert.Equal(t, []int64{4}, ids(store.Filter(Criteria{Query: "PTZ"})))
}

func TestFilter_PriceModeAndBrand(t *testing.T) {
	store := loadedStore(t)

	assert.Equal(t, []int64{1, 3}, ids(store.Filter(Criteria{PriceMode: enums.PriceModePriced})))
	assert.Equal(t, []int64{2, 4}, ids(store.Filter(Criteria{PriceMode: enums.PriceModeRequest})))
	assert.Equal(t, []int64{1, 3}, ids(store.Filter(Criteria{Brand: "Blackmagic"})))
	assert.Empty(t, store.Filter(Criteria{Brand: "Blackmagic", PriceMode: enums.PriceModeRequest}))
	assert.Len(t, store.Filter(Criteria{}), 4)
}

func TestStore_LoadToleratesStrayPriceValues(t *testing.T) {
	raw := `{"products": [
		{"id": 1, "title": "Encoder", "has_price": true, "price": 10},
		{"id": 2, "title": "Receiver", "has_price": false, "price": ""},
		{"id": 3, "title": "Switcher", "has_price": false, "price": "Price on request"},
		{"id": 4, "title": "Router", "has_price": true, "price": "call us"},
		{"id": 5, "title": "Monitor", "has_price": true, "price": null}
	]}`
	store := NewStore(&stubSource{raw: []byte(raw)}, nil)

	require.Equal(t, 5, store.Load(context.Background()))
	assert.True(t, store.Loaded())

	first, ok := store.Product(1)
	require.True(t, ok)
	price, priced := first.EffectivePrice()
	require.True(t, priced)
	assert.True(t, price.Equal(decimal.NewFromInt(10)))

	for _, id := range []int64{2, 3, 4, 5} {
		p, ok := store.Product(id)
		require.True(t, ok)
		assert.False(t, p.HasPrice, "product %d should be unpriced", id)
		assert.False(t, p.Price.Valid, "product %d should carry no price", id)
	}
	assert.Equal(t, []int64{2, 3, 4, 5}, ids(store.Filter(Criteria{PriceMode: enums.PriceModeRequest})))
}

func TestProduct_EffectivePriceIgnoresUnpricedValue(t *testing.T) {
	store := loadedStore(t)
	products := store.Products()

	price, ok := products[0].EffectivePrice()
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("1295")))

	_, ok = products[1].EffectivePrice()
	assert.False(t, ok, "has_price=false must ignore the stray price")

	assert.Equal(t, DefaultCurrency, products[0].Currency)
	assert.Equal(t, "UGX", products[2].Currency)
}

func TestOptions_SortedDistinctWithAllSentinel(t *testing.T) {
	opts := loadedStore(t).Options()

	require.Len(t, opts.Categories, 3)
	assert.Equal(t, Option{Value: "", Label: "All categories"}, opts.Categories[0])
	assert.Equal(t, "Cameras", opts.Categories[1].Value)
	assert.Equal(t, "Switchers", opts.Categories[2].Value)

	brands := make([]string, 0, len(opts.Brands))
	for _, o := range opts.Brands {
		brands = append(brands, o.Value)
	}
	assert.Equal(t, []string{"", "Blackmagic", "Panasonic", "Sony"}, brands)
}

func TestOptions_EmptyCatalogStillHasSentinel(t *testing.T) {
	opts := BuildOptions(nil)
	assert.Len(t, opts.Categories, 1)
	assert.Len(t, opts.Brands, 1)
}

func TestLoad_FailsSoft(t *testing.T) {
	cases := map[string]*stubSource{
		"unreachable":      {err: errors.New("connection refused")},
		"invalid json":     {raw: []byte("{not json")},
		"missing products": {raw: []byte(`{"items": []}`)},
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			store := NewStore(src, nil)
			assert.Equal(t, 0, store.Load(context.Background()))
			assert.False(t, store.Loaded())
			assert.Empty(t, store.Filter(Criteria{}))
		})
	}
}

func TestLoad_FetchesOnce(t *testing.T) {
	src := &stubSource{raw: []byte(sampleDocument), gate: make(chan struct{})}
	store := NewStore(src, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Load(context.Background())
		}()
	}
	close(src.gate)
	wg.Wait()

	assert.Equal(t, 4, store.Load(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o600))

	store := NewStore(FileSource{Path: path}, nil)
	assert.Equal(t, 4, store.Load(context.Background()))

	missing := NewStore(FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}, nil)
	assert.Equal(t, 0, missing.Load(context.Background()))
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/data/products.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer srv.Close()

	ok := NewStore(NewHTTPSource(srv.URL+"/assets/data/products.json", 0), nil)
	assert.Equal(t, 4, ok.Load(context.Background()))

	notFound := NewStore(NewHTTPSource(srv.URL+"/missing.json", 0), nil)
	assert.Equal(t, 0, notFound.Load(context.Background()))
}
