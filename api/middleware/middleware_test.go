package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/adbroadcast/website-backend/pkg/config"
	"github.com/adbroadcast/website-backend/pkg/redis"
	"github.com/adbroadcast/website-backend/pkg/types"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func postFrom(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/shop_request", strings.NewReader(`{}`))
	req.RemoteAddr = ip + ":5678"
	return req
}

func TestIntakeRateLimit_BlocksAfterLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := NewIntakeRateLimitPolicy("shop", time.Minute, 2)
	handler := IntakeRateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, postFrom("1.2.3.4"))

		if i < 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("expected success before limit, got %d", rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") != "60" {
			t.Fatalf("unexpected Retry-After %q", rec.Header().Get("Retry-After"))
		}
		var body types.LeadResult
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.OK || body.Message != RateLimitedMessage {
			t.Fatalf("unexpected body %+v", body)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postFrom("5.6.7.8"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected other IPs unaffected, got %d", rec.Code)
	}
}

func TestIntakeRateLimit_FailsOpenOnStoreError(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	handler := IntakeRateLimit(NewIntakeRateLimitPolicy("shop", time.Minute, 1), store, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postFrom("1.2.3.4"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request through on store error, got %d", rec.Code)
	}
}

func TestIntakeRateLimit_DisabledWithoutStore(t *testing.T) {
	handler := IntakeRateLimit(NewIntakeRateLimitPolicy("shop", time.Minute, 1), nil, nil)(okHandler())
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, postFrom("1.2.3.4"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected disabled limiter, got %d", rec.Code)
		}
	}
}

func TestIntakeRateLimit_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	handler := IntakeRateLimit(NewIntakeRateLimitPolicy("contact", time.Minute, 1), client, nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, postFrom("9.9.9.9"))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, postFrom("9.9.9.9"))

	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %d then %d", first.Code, second.Code)
	}
	if !mr.Exists("adb:rate_limit:ip:contact:9.9.9.9") {
		t.Fatal("expected namespaced rate limit key")
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("unexpected ip %q", got)
	}
}

func TestRequestIDPropagatesOrMints(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") != "abc-123" {
		t.Fatalf("expected propagated id, got %q", rec.Header().Get("X-Request-Id"))
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("x", 200))
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); len(got) != 36 {
		t.Fatalf("expected minted uuid, got %q", got)
	}
}

func TestRecovererReturnsInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("panic value leaked: %s", rec.Body.String())
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusOK)
	if rec.status != http.StatusTeapot {
		t.Fatalf("expected first status kept, got %d", rec.status)
	}
}
