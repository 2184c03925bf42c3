package catalog

import "fmt"

// PricingInfo is the price of a single candidate (a variant or the base
// product) as the storefront should display it.
type PricingInfo struct {
	RegularPrice float64  `json:"regular_price"`
	OfferPrice   *float64 `json:"offer_price,omitempty"`
	FinalPrice   float64  `json:"final_price"`
	HasDiscount  bool     `json:"has_discount"`
	Savings      float64  `json:"savings"`
}

// PricingAnalysis summarizes pricing across every variant plus the base
// product, for the undecided no-selection state.
type PricingAnalysis struct {
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
	MaxSavings       float64 `json:"max_savings"`
	HasVariedPricing bool    `json:"has_varied_pricing"`
	HasAnyDiscounts  bool    `json:"has_any_discounts"`
}

// PricingDisplay composes pricing into UI-ready flags and text.
type PricingDisplay struct {
	ShowPriceRange        bool             `json:"show_price_range"`
	Pricing               PricingInfo      `json:"pricing"`
	Analysis              *PricingAnalysis `json:"analysis,omitempty"`
	SavingsText           string           `json:"savings_text,omitempty"`
	ShowSavingsBadge      bool             `json:"show_savings_badge"`
	HasStrikethroughPrice bool             `json:"has_strikethrough_price"`
}

// PricingEngine computes display pricing for a product, either for a
// resolved variant or for the undecided state across all variants. Like
// the selection engine it is rebuilt per interaction and holds no state
// beyond its constructor inputs.
type PricingEngine struct {
	product  Product
	variants []Variant
	selected *Variant
}

// NewPricingEngine builds an engine for the product. selected is the
// currently resolved variant, or nil when no full selection exists.
func NewPricingEngine(product Product, variants []Variant, selected *Variant) *PricingEngine {
	return &PricingEngine{
		product:  product,
		variants: variants,
		selected: selected,
	}
}

// CurrentPricing returns pricing for whichever is current: the resolved
// variant when one exists, otherwise the base product.
func (e *PricingEngine) CurrentPricing() PricingInfo {
	if e.selected != nil {
		return e.variantPricing(*e.selected)
	}
	return e.basePricing()
}

// variantPricing applies the variant discount rules:
//   - an explicit offer override is always the offer price, discounting
//     only when strictly below the variant's regular price;
//   - a variant with no price override at all inherits the base product's
//     sale price when that is strictly lower;
//   - a variant that overrides price without overriding offer shows no
//     discount. Catalog managers repricing a variant opt out of the base
//     sale until they set an offer explicitly.
func (e *PricingEngine) variantPricing(variant Variant) PricingInfo {
	info := PricingInfo{RegularPrice: ParseAmount(variant.FinalPrice)}

	if offer, ok := parseOptionalAmount(variant.OfferPriceOverride); ok {
		info.OfferPrice = &offer
		info.HasDiscount = offer < info.RegularPrice
	} else if variant.PriceOverride == nil {
		if sale, ok := parseOptionalAmount(e.product.SalePrice); ok && sale < info.RegularPrice {
			info.OfferPrice = &sale
			info.HasDiscount = true
		}
	}

	return finishPricing(info)
}

func (e *PricingEngine) basePricing() PricingInfo {
	info := PricingInfo{RegularPrice: ParseAmount(e.product.Price)}

	if sale, ok := parseOptionalAmount(e.product.SalePrice); ok {
		info.OfferPrice = &sale
		info.HasDiscount = sale < info.RegularPrice
	}

	return finishPricing(info)
}

// finishPricing derives FinalPrice and Savings from the regular/offer pair.
// The final price drops to the offer only on a real discount, so an offer
// at or above regular never raises the displayed price.
func finishPricing(info PricingInfo) PricingInfo {
	info.FinalPrice = info.RegularPrice
	if info.HasDiscount && info.OfferPrice != nil {
		info.FinalPrice = *info.OfferPrice
		info.Savings = info.RegularPrice - info.FinalPrice
	}
	return info
}

// Analysis computes the min/max price spread across every variant plus the
// base product. Returns nil when the product has no variants; callers must
// check before use.
func (e *PricingEngine) Analysis() *PricingAnalysis {
	if len(e.variants) == 0 {
		return nil
	}

	entries := make([]PricingInfo, 0, len(e.variants)+1)
	for _, variant := range e.variants {
		entries = append(entries, e.variantPricing(variant))
	}
	entries = append(entries, e.basePricing())

	analysis := &PricingAnalysis{
		MinPrice: entries[0].FinalPrice,
		MaxPrice: entries[0].FinalPrice,
	}
	for _, entry := range entries {
		if entry.FinalPrice < analysis.MinPrice {
			analysis.MinPrice = entry.FinalPrice
		}
		if entry.FinalPrice > analysis.MaxPrice {
			analysis.MaxPrice = entry.FinalPrice
		}
		if entry.HasDiscount {
			analysis.HasAnyDiscounts = true
			if entry.Savings > analysis.MaxSavings {
				analysis.MaxSavings = entry.Savings
			}
		}
	}
	analysis.HasVariedPricing = analysis.MinPrice != analysis.MaxPrice

	return analysis
}

// DisplayData composes current pricing and the analysis into the flags the
// product page renders from. A price range is shown only while variants
// exist and none is resolved; a strikethrough only on a resolved single
// discounted price, never on a range.
func (e *PricingEngine) DisplayData() PricingDisplay {
	display := PricingDisplay{
		ShowPriceRange: len(e.variants) > 0 && e.selected == nil,
		Pricing:        e.CurrentPricing(),
		Analysis:       e.Analysis(),
	}

	if !display.ShowPriceRange {
		if display.Pricing.HasDiscount {
			display.SavingsText = fmt.Sprintf("You save BDT %s", FormatAmount(display.Pricing.Savings))
			display.ShowSavingsBadge = true
		}
	} else if display.Analysis != nil && display.Analysis.HasAnyDiscounts {
		display.SavingsText = fmt.Sprintf("Save up to %s BDT", FormatAmount(display.Analysis.MaxSavings))
		display.ShowSavingsBadge = true
	}

	display.HasStrikethroughPrice = display.Pricing.HasDiscount && !display.ShowPriceRange

	return display
}

// AvailableForPurchase reports whether the current candidate (resolved
// variant or base product) can be bought right now.
func (e *PricingEngine) AvailableForPurchase() bool {
	return e.product.InStock && e.CurrentStock() > 0
}

// HasAnyStock reports whether any purchasable stock exists at all, used
// before a variant is resolved to decide whether selection is worth
// offering.
func (e *PricingEngine) HasAnyStock() bool {
	if !e.product.InStock {
		return false
	}
	if len(e.variants) == 0 {
		return e.product.StockQuantity > 0
	}
	for _, variant := range e.variants {
		if variant.Quantity > 0 {
			return true
		}
	}
	return false
}

// CurrentStock returns the resolved variant's quantity, or the base stock
// quantity when no variant is resolved.
func (e *PricingEngine) CurrentStock() int {
	if e.selected != nil {
		return e.selected.Quantity
	}
	return e.product.StockQuantity
}
