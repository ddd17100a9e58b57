package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adbroadcast/website-backend/internal/leads"
	"github.com/adbroadcast/website-backend/pkg/config"
	"github.com/adbroadcast/website-backend/pkg/db/models"
	"github.com/adbroadcast/website-backend/pkg/logger"
	"github.com/adbroadcast/website-backend/pkg/mailer"
	"github.com/adbroadcast/website-backend/pkg/types"
)

type nopSender struct{}

func (nopSender) Send(ctx context.Context, msg mailer.Message) error { return nil }

type brokenRepo struct{}

func (brokenRepo) Create(ctx context.Context, lead *models.Lead) error {
	return errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
}

func newLeadService(t *testing.T, repo interface {
	Create(context.Context, *models.Lead) error
}) leads.Service {
	t.Helper()
	notifier := leads.NewNotifier(nopSender{}, config.MailConfig{SupportAddress: "support@ad-ug.com"}, nil, nil).
		WithRunner(func(f func()) { f() })
	svc, err := leads.NewService(leads.ServiceParams{Repo: repo, Notifier: notifier})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sqliteRepo(t *testing.T) (*leads.Repository, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "leads.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Lead{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return leads.NewRepository(conn), conn
}

func decodeLeadResult(t *testing.T, rec *httptest.ResponseRecorder) types.LeadResult {
	t.Helper()
	var body types.LeadResult
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestShopRequest_Success(t *testing.T) {
	repo, conn := sqliteRepo(t)
	handler := ShopRequest(newLeadService(t, repo), logger.Nop())

	body := `{"name":"Jane","email":"jane@example.com","phone":"123","items":[{"id":5},{"id":5},{"id":"x"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/shop_request", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeLeadResult(t, rec)
	if !result.OK || result.Message != leads.ShopSuccessMessage {
		t.Fatalf("unexpected result %+v", result)
	}

	var stored models.Lead
	if err := conn.First(&stored).Error; err != nil {
		t.Fatalf("load lead: %v", err)
	}
	if stored.ItemsJSON == nil || *stored.ItemsJSON != "[5]" {
		t.Fatalf("expected [5], got %v", stored.ItemsJSON)
	}
}

func TestShopRequest_FormEncodedFallback(t *testing.T) {
	repo, conn := sqliteRepo(t)
	handler := ShopRequest(newLeadService(t, repo), logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/shop_request", strings.NewReader("name=Jane&email=jane%40example.com&items%5B0%5D%5Bid%5D=12"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var stored models.Lead
	if err := conn.First(&stored).Error; err != nil {
		t.Fatalf("load lead: %v", err)
	}
	if stored.Name != "Jane" || stored.ItemsJSON == nil || *stored.ItemsJSON != "[12]" {
		t.Fatalf("unexpected stored lead %+v", stored)
	}
}

func TestShopRequest_InvalidEmailIs422(t *testing.T) {
	repo, _ := sqliteRepo(t)
	handler := ShopRequest(newLeadService(t, repo), logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/shop_request", strings.NewReader(`{"name":"Jane","email":"not-an-email","phone":"123"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	result := decodeLeadResult(t, rec)
	if result.OK || !strings.Contains(result.Message, "email") {
		t.Fatalf("expected email message, got %+v", result)
	}
}

func TestShopRequest_InsertFailureIs500WithoutDetail(t *testing.T) {
	handler := ShopRequest(newLeadService(t, brokenRepo{}), logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/shop_request", strings.NewReader(`{"name":"Jane","email":"jane@example.com"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	result := decodeLeadResult(t, rec)
	if result.OK || result.Message != leads.ShopFailureMessage {
		t.Fatalf("unexpected result %+v", result)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestShopRequest_MethodNotAllowed(t *testing.T) {
	handler := ShopRequest(newLeadService(t, brokenRepo{}), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shop_request", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("expected Allow header, got %q", rec.Header().Get("Allow"))
	}
	if result := decodeLeadResult(t, rec); result.OK || result.Message != "Method not allowed." {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestContactForm(t *testing.T) {
	repo, conn := sqliteRepo(t)
	handler := ContactForm(newLeadService(t, repo), logger.Nop())

	missing := httptest.NewRecorder()
	handler.ServeHTTP(missing, httptest.NewRequest(http.MethodPost, "/api/form_contact", strings.NewReader(`{"name":"Jane","email":"jane@example.com"}`)))
	if missing.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without message, got %d", missing.Code)
	}

	ok := httptest.NewRecorder()
	handler.ServeHTTP(ok, httptest.NewRequest(http.MethodPost, "/api/form_contact", strings.NewReader(`{"name":"Jane","email":"jane@example.com","subject":"Hi","message":"Call me"}`)))
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ok.Code)
	}
	if result := decodeLeadResult(t, ok); result.Message != leads.ContactSuccessMessage {
		t.Fatalf("unexpected result %+v", result)
	}

	var stored models.Lead
	if err := conn.First(&stored).Error; err != nil {
		t.Fatalf("load lead: %v", err)
	}
	if stored.Message == nil || *stored.Message != "Subject: Hi\n\nCall me" {
		t.Fatalf("unexpected message %v", stored.Message)
	}
}
