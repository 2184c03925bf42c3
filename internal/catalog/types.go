package catalog

// Package catalog implements the storefront's product, variant and pricing model.

import (
	"strconv"
	"strings"
)

// Product is the base catalog entity as returned by the remote product API.
// Monetary fields arrive as decimal strings and are parsed on demand.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Price         string  `json:"price"`
	SalePrice     *string `json:"sale_price,omitempty"`
	StockQuantity int     `json:"stock_quantity"`
	InStock       bool    `json:"in_stock"`
}

// OptionValue is a single value on a variation axis, e.g. Color=Red.
type OptionValue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Variant is a concrete purchasable combination of option values.
//
// FinalPrice is the effective price computed upstream by the product API
// (the price override when present, otherwise the base price). The pricing
// engine trusts it rather than re-deriving override logic.
type Variant struct {
	ID                 int64                    `json:"id"`
	SKU                string                   `json:"sku"`
	Quantity           int                      `json:"quantity"`
	PriceOverride      *string                  `json:"price_override,omitempty"`
	OfferPriceOverride *string                  `json:"offer_price_override,omitempty"`
	FinalPrice         string                   `json:"final_price"`
	FinalOfferPrice    *string                  `json:"final_offer_price,omitempty"`
	Combinations       map[string][]OptionValue `json:"combinations"`
}

// SelectedOptions maps a variation axis name to the chosen value id.
// A key is present only while its value is actively selected; toggling the
// same value off removes the key entirely.
type SelectedOptions map[string]string

// Clone returns an independent copy of the selection.
func (s SelectedOptions) Clone() SelectedOptions {
	out := make(SelectedOptions, len(s))
	for axis, valueID := range s {
		out[axis] = valueID
	}
	return out
}

// ParseAmount parses a decimal-string price leniently. Empty or malformed
// values come back as 0 so a bad API payload degrades to a zero price
// instead of an error surfacing mid-render.
func ParseAmount(value string) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return amount
}

// FormatAmount renders an amount without trailing zeros ("200", "90.5").
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func parseOptionalAmount(value *string) (float64, bool) {
	if value == nil {
		return 0, false
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
