package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dhakacartapp/dhakacart/internal/services"
	"github.com/dhakacartapp/dhakacart/internal/shipping"
)

func cartItems(lines []services.CartLine) []shipping.CartItem {
	items := make([]shipping.CartItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, shipping.CartItem{
			Weight:     line.Weight,
			WeightUnit: line.WeightUnit,
			Quantity:   line.Quantity,
		})
	}
	return items
}

type shippingQuoteRequest struct {
	Items []services.CartLine `json:"items"`
	Zone  string              `json:"zone"`
}

// ShippingQuote prices a cart's shipping for one zone.
func (h *Handlers) ShippingQuote(w http.ResponseWriter, r *http.Request) {
	var req shippingQuoteRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Zone) == "" {
		h.writeError(w, r, http.StatusBadRequest, "zone is required")
		return
	}

	calculator := h.checkoutService.Calculator()
	items := cartItems(req.Items)
	quote, err := calculator.Cost(calculator.TotalWeight(items), req.Zone)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, r, http.StatusOK, quote)
}

type shippingOptionsRequest struct {
	Items []services.CartLine `json:"items"`
}

// ShippingOptions prices the cart against every configured zone.
func (h *Handlers) ShippingOptions(w http.ResponseWriter, r *http.Request) {
	var req shippingOptionsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"options": h.checkoutService.ShippingOptions(req.Items),
	})
}

type cartQuoteRequest struct {
	Items []services.CartLine `json:"items"`
	Zone  string              `json:"zone"`
}

// CartQuote prices the full cart: engine pricing per line plus shipping.
func (h *Handlers) CartQuote(w http.ResponseWriter, r *http.Request) {
	var req cartQuoteRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.checkoutService.Quote(r.Context(), req.Items, req.Zone)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, r, http.StatusOK, quote)
}

type checkoutRequest struct {
	Items         []services.CartLine `json:"items"`
	Zone          string              `json:"zone"`
	CustomerEmail string              `json:"customer_email,omitempty"`
}

// Checkout quotes the cart and opens a hosted payment session.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	url, err := h.checkoutService.CreateCheckoutSession(r.Context(), req.Items, req.Zone, req.CustomerEmail)
	if err != nil {
		if errors.Is(err, services.ErrCheckoutDisabled) {
			h.writeError(w, r, http.StatusServiceUnavailable, "checkout is not enabled")
			return
		}
		h.loggerFromContext(r.Context()).Error("checkout failed", "error", err)
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{"checkout_url": url})
}
