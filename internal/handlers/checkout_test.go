package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dhakacartapp/dhakacart/internal/services"
	"github.com/dhakacartapp/dhakacart/internal/shipping"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestShippingQuote(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	body := `{"items":[{"product_id":2,"quantity":1,"weight":1.5}],"zone":"inside_dhaka"}`
	rec := httptest.NewRecorder()
	h.ShippingQuote(rec, jsonRequest(http.MethodPost, "/api/shipping/quote", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var quote shipping.Quote
	decodeBody(t, rec, &quote)

	if quote.Cost != 90 {
		t.Fatalf("cost = %v, want 90", quote.Cost)
	}
	if quote.ZoneID != "inside_dhaka" {
		t.Fatalf("zone = %q", quote.ZoneID)
	}
}

func TestShippingQuote_BadRequests(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing zone", body: `{"items":[{"product_id":2,"quantity":1}]}`},
		{name: "unknown zone", body: `{"items":[{"product_id":2,"quantity":1}],"zone":"atlantis"}`},
		{name: "invalid json", body: `{`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ShippingQuote(rec, jsonRequest(http.MethodPost, "/api/shipping/quote", tc.body))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
		})
	}
}

func TestShippingOptions(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	body := `{"items":[{"product_id":2,"quantity":1,"weight":0.4}]}`
	rec := httptest.NewRecorder()
	h.ShippingOptions(rec, jsonRequest(http.MethodPost, "/api/shipping/options", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Options []shipping.Quote `json:"options"`
	}
	decodeBody(t, rec, &resp)

	if len(resp.Options) != len(shipping.DefaultZones()) {
		t.Fatalf("expected a quote per zone, got %d", len(resp.Options))
	}
}

func TestCartQuote(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	body := `{"items":[{"product_id":1,"variant_id":11,"quantity":2,"weight":0.5},{"product_id":2,"quantity":1,"weight":500,"weight_unit":"g"}],"zone":"inside_dhaka"}`
	rec := httptest.NewRecorder()
	h.CartQuote(rec, jsonRequest(http.MethodPost, "/api/cart/quote", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var quote services.CartQuote
	decodeBody(t, rec, &quote)

	if quote.Subtotal != 950 {
		t.Fatalf("subtotal = %v, want 950", quote.Subtotal)
	}
	if quote.Total != 1040 {
		t.Fatalf("total = %v, want 1040", quote.Total)
	}
}

func TestCartQuote_RejectsOutOfStock(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	body := `{"items":[{"product_id":1,"variant_id":12,"quantity":1}],"zone":"inside_dhaka"}`
	rec := httptest.NewRecorder()
	h.CartQuote(rec, jsonRequest(http.MethodPost, "/api/cart/quote", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCheckout_DisabledWithoutStripe(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	body := `{"items":[{"product_id":2,"quantity":1}],"zone":"inside_dhaka"}`
	rec := httptest.NewRecorder()
	h.Checkout(rec, jsonRequest(http.MethodPost, "/api/checkout", body))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
