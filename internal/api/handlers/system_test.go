package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fernet/fernet-go"

	"github.com/growwtrack/portfolio-tracker-backend/internal/api/handlers"
	"github.com/growwtrack/portfolio-tracker-backend/internal/service"
	"github.com/growwtrack/portfolio-tracker-backend/internal/testutil"
	"github.com/growwtrack/portfolio-tracker-backend/internal/version"
)

// tokenApplierSpy records the tokens applied to the quote client.
type tokenApplierSpy struct {
	applied []string
}

func (s *tokenApplierSpy) SetToken(token string) {
	s.applied = append(s.applied, token)
}

// TestSystemHandler_Health tests the health endpoint.
//
// WHY: Deployment probes depend on the status code contract: 200 when the
// database responds, 503 when it does not.
func TestSystemHandler_Health(t *testing.T) {
	t.Run("reports healthy with a connected database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSystemHandler(
			service.NewSystemService(db),
			testutil.NewTestSettingsService(t, db, ""),
			&tokenApplierSpy{},
		)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		rec := httptest.NewRecorder()
		handler.Health(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}

		var resp handlers.HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Status != "healthy" || resp.Database != "connected" {
			t.Errorf("Unexpected health payload: %+v", resp)
		}
	})

	t.Run("reports unhealthy when the database is down", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSystemHandler(
			service.NewSystemService(db),
			testutil.NewTestSettingsService(t, db, ""),
			&tokenApplierSpy{},
		)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		rec := httptest.NewRecorder()
		handler.Health(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503, got %d", rec.Code)
		}
	})
}

// TestSystemHandler_Version tests the version endpoint.
func TestSystemHandler_Version(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewSystemHandler(
		service.NewSystemService(db),
		testutil.NewTestSettingsService(t, db, ""),
		&tokenApplierSpy{},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
	rec := httptest.NewRecorder()
	handler.Version(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp handlers.VersionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.AppVersion != version.Version {
		t.Errorf("Expected version %q, got %q", version.Version, resp.AppVersion)
	}
}

// TestSystemHandler_SetToken tests token storage over HTTP.
//
// WHY: The endpoint distinguishes caller mistakes (400), a deployment
// without an encryption key (409), and storage failures (500); the UI keys
// its messaging off these codes.
func TestSystemHandler_SetToken(t *testing.T) {
	newHandler := func(t *testing.T, tokenKey string) (*handlers.SystemHandler, *tokenApplierSpy) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		spy := &tokenApplierSpy{}
		handler := handlers.NewSystemHandler(
			service.NewSystemService(db),
			testutil.NewTestSettingsService(t, db, tokenKey),
			spy,
		)
		return handler, spy
	}

	generateKey := func(t *testing.T) string {
		t.Helper()
		var key fernet.Key
		if err := key.Generate(); err != nil {
			t.Fatalf("Failed to generate fernet key: %v", err)
		}
		return key.Encode()
	}

	t.Run("stores a token and returns 204", func(t *testing.T) {
		handler, _ := newHandler(t, generateKey(t))

		req := httptest.NewRequest(http.MethodPost, "/api/system/token",
			strings.NewReader(`{"token":"secret"}`))
		rec := httptest.NewRecorder()
		handler.SetToken(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("applies the stored token to the quote client immediately", func(t *testing.T) {
		handler, spy := newHandler(t, generateKey(t))

		req := httptest.NewRequest(http.MethodPost, "/api/system/token",
			strings.NewReader(`{"token":"secret"}`))
		rec := httptest.NewRecorder()
		handler.SetToken(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", rec.Code)
		}
		if len(spy.applied) != 1 || spy.applied[0] != "secret" {
			t.Errorf("Expected the token to be applied once, got %v", spy.applied)
		}
	})

	t.Run("rejects an invalid body", func(t *testing.T) {
		handler, _ := newHandler(t, generateKey(t))

		req := httptest.NewRequest(http.MethodPost, "/api/system/token",
			strings.NewReader(`not json`))
		rec := httptest.NewRecorder()
		handler.SetToken(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects an empty token", func(t *testing.T) {
		handler, _ := newHandler(t, generateKey(t))

		req := httptest.NewRequest(http.MethodPost, "/api/system/token",
			strings.NewReader(`{"token":""}`))
		rec := httptest.NewRecorder()
		handler.SetToken(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("reports conflict when no encryption key is configured", func(t *testing.T) {
		handler, spy := newHandler(t, "")

		req := httptest.NewRequest(http.MethodPost, "/api/system/token",
			strings.NewReader(`{"token":"secret"}`))
		rec := httptest.NewRecorder()
		handler.SetToken(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d", rec.Code)
		}
		if len(spy.applied) != 0 {
			t.Errorf("Expected no token to be applied on failure, got %v", spy.applied)
		}
	})
}
