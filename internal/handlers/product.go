package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dhakacartapp/dhakacart/internal/catalog"
	"github.com/dhakacartapp/dhakacart/internal/storefront"
)

// ProductView serves the product page view. The caller's current selection
// rides in repeatable `opt=Axis:valueID` query parameters.
func (h *Handlers) ProductView(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productIDFromRequest(w, r)
	if !ok {
		return
	}

	selected, err := selectionFromQuery(r.URL.Query()["opt"])
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.productService.GetProductView(r.Context(), productID, selected)
	if err != nil {
		h.handleProductError(w, r, productID, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, view)
}

type toggleOptionRequest struct {
	SelectedOptions catalog.SelectedOptions `json:"selected_options"`
	Axis            string                  `json:"axis"`
	ValueID         string                  `json:"value_id"`
}

// ToggleOption applies one option click and returns the resulting view.
func (h *Handlers) ToggleOption(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productIDFromRequest(w, r)
	if !ok {
		return
	}

	var req toggleOptionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Axis) == "" || strings.TrimSpace(req.ValueID) == "" {
		h.writeError(w, r, http.StatusBadRequest, "axis and value_id are required")
		return
	}

	view, err := h.productService.ToggleOption(r.Context(), productID, req.SelectedOptions, req.Axis, req.ValueID)
	if err != nil {
		h.handleProductError(w, r, productID, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, view)
}

func (h *Handlers) productIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || productID <= 0 {
		h.writeError(w, r, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return productID, true
}

func (h *Handlers) handleProductError(w http.ResponseWriter, r *http.Request, productID int64, err error) {
	if errors.Is(err, storefront.ErrProductNotFound) {
		h.writeError(w, r, http.StatusNotFound, "product not found")
		return
	}
	h.loggerFromContext(r.Context()).Error("product request failed", "product_id", productID, "error", err)
	h.writeError(w, r, http.StatusBadGateway, "catalog unavailable")
}

// selectionFromQuery parses repeatable "Axis:valueID" pairs.
func selectionFromQuery(pairs []string) (catalog.SelectedOptions, error) {
	selected := catalog.SelectedOptions{}
	for _, pair := range pairs {
		axis, valueID, found := strings.Cut(pair, ":")
		if !found || strings.TrimSpace(axis) == "" || strings.TrimSpace(valueID) == "" {
			return nil, errors.New("opt must be of the form Axis:valueID")
		}
		selected[strings.TrimSpace(axis)] = strings.TrimSpace(valueID)
	}
	return selected, nil
}
