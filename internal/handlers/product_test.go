package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/dhakacartapp/dhakacart/internal/services"
)

func productRequest(t *testing.T, method, target, body, productID string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"id": productID})
}

func TestProductView(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ProductView(rec, productRequest(t, http.MethodGet, "/api/products/1", "", "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var view services.ProductView
	decodeBody(t, rec, &view)

	if view.Product.Name != "Panjabi" {
		t.Fatalf("product name = %q", view.Product.Name)
	}
	if view.SelectedVariant != nil {
		t.Fatal("empty selection must not resolve a variant")
	}
	if len(view.Variations) != 2 {
		t.Fatalf("expected 2 axes, got %d", len(view.Variations))
	}
}

func TestProductView_SelectionQuery(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ProductView(rec, productRequest(t, http.MethodGet, "/api/products/1?opt=Color:101&opt=Size:201", "", "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var view services.ProductView
	decodeBody(t, rec, &view)

	if view.SelectedVariant == nil || view.SelectedVariant.SKU != "PANJABI-RED-S" {
		t.Fatalf("selected variant = %+v", view.SelectedVariant)
	}
	if !view.AllSelected {
		t.Fatal("expected a complete selection")
	}
}

func TestProductView_BadRequests(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	tests := []struct {
		name       string
		target     string
		productID  string
		wantStatus int
	}{
		{name: "invalid id", target: "/api/products/abc", productID: "abc", wantStatus: http.StatusBadRequest},
		{name: "malformed opt", target: "/api/products/1?opt=Color", productID: "1", wantStatus: http.StatusBadRequest},
		{name: "unknown product", target: "/api/products/99", productID: "99", wantStatus: http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ProductView(rec, productRequest(t, http.MethodGet, tc.target, "", tc.productID))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestToggleOption(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	body := `{"selected_options":{"Color":"101"},"axis":"Size","value_id":"201"}`
	rec := httptest.NewRecorder()
	h.ToggleOption(rec, productRequest(t, http.MethodPost, "/api/products/1/selection", body, "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var view services.ProductView
	decodeBody(t, rec, &view)

	if view.SelectedVariant == nil || view.SelectedVariant.ID != 11 {
		t.Fatalf("selected variant = %+v", view.SelectedVariant)
	}
}

func TestToggleOption_DeselectsOnRepeat(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	body := `{"selected_options":{"Color":"101"},"axis":"Color","value_id":"101"}`
	rec := httptest.NewRecorder()
	h.ToggleOption(rec, productRequest(t, http.MethodPost, "/api/products/1/selection", body, "1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var view services.ProductView
	decodeBody(t, rec, &view)

	if len(view.SelectedOptions) != 0 {
		t.Fatalf("selection = %v, want empty after re-click", view.SelectedOptions)
	}
}

func TestToggleOption_RequiresAxisAndValue(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ToggleOption(rec, productRequest(t, http.MethodPost, "/api/products/1/selection", `{"axis":"Color"}`, "1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
