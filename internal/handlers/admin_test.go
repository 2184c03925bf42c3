package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhakacartapp/dhakacart/internal/shipping"
)

func issueTestToken(t *testing.T, h *Handlers) string {
	t.Helper()

	rec := httptest.NewRecorder()
	h.IssueToken(rec, jsonRequest(http.MethodPost, "/auth/token", `{"access_key":"`+testAdminAccessKey+`"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("IssueToken status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	return resp.Token
}

func TestIssueToken_RejectsWrongAccessKey(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.IssueToken(rec, jsonRequest(http.MethodPost, "/auth/token", `{"access_key":"wrong"}`))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	token := issueTestToken(t, h)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + token, wantStatus: http.StatusNoContent},
		{name: "missing token", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/admin/zones", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			h.RequireAdmin(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestAdminZones(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.AdminZones(rec, httptest.NewRequest(http.MethodGet, "/admin/zones", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Zones []shipping.Zone `json:"zones"`
	}
	decodeBody(t, rec, &resp)

	if len(resp.Zones) != len(shipping.DefaultZones()) {
		t.Fatalf("zones = %d, want %d", len(resp.Zones), len(shipping.DefaultZones()))
	}
}

func TestAdminReloadZones_FromFile(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	path := filepath.Join(t.TempDir(), "zones.yaml")
	content := `zones:
  - id: everywhere
    name: Everywhere
    brackets:
      - min_weight: 0
        max_weight: 2
        rate: 40
    per_kg_rate: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write zones file: %v", err)
	}
	h.config.ShippingZonesPath = path

	rec := httptest.NewRecorder()
	h.AdminReloadZones(rec, httptest.NewRequest(http.MethodPost, "/admin/zones/reload", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	zones := h.checkoutService.Calculator().Zones()
	if len(zones) != 1 || zones[0].ID != "everywhere" {
		t.Fatalf("zones after reload = %+v", zones)
	}
}

func TestAdminReloadZones_RestoresDefaults(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	h.checkoutService.ReplaceZones([]shipping.Zone{{
		ID:       "stub",
		Name:     "Stub",
		Brackets: []shipping.RateBracket{{MinWeight: 0, MaxWeight: 1, Rate: 10}},
	}})

	rec := httptest.NewRecorder()
	h.AdminReloadZones(rec, httptest.NewRequest(http.MethodPost, "/admin/zones/reload", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := len(h.checkoutService.Calculator().Zones()); got != len(shipping.DefaultZones()) {
		t.Fatalf("zones after reload = %d, want defaults", got)
	}
}

func TestAdminReloadZones_BadFile(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	h.config.ShippingZonesPath = filepath.Join(t.TempDir(), "missing.yaml")

	rec := httptest.NewRecorder()
	h.AdminReloadZones(rec, httptest.NewRequest(http.MethodPost, "/admin/zones/reload", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminPurgeCache(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	ctx := httptest.NewRequest(http.MethodPost, "/admin/cache/purge", nil).Context()
	if err := h.cacheProvider.Set(ctx, "catalog:product:1", "{}", 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	rec := httptest.NewRecorder()
	h.AdminPurgeCache(rec, httptest.NewRequest(http.MethodPost, "/admin/cache/purge", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := h.cacheProvider.Get(ctx, "catalog:product:1"); err == nil {
		t.Fatal("cache entry survived purge")
	}
}
