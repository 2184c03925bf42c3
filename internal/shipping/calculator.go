package shipping

import (
	"fmt"
	"strings"
)

// Weight a cart line falls back to when the product has none recorded, in kg.
const defaultItemWeightKg = 0.1

// Flat rate charged for legacy method names nothing maps anymore.
const legacyFallbackRate = 130

// CartItem is the shippable shape of a cart line. Weight is per unit;
// grams are converted before any rate lookup.
type CartItem struct {
	Weight     *float64 `json:"weight,omitempty"`
	WeightUnit string   `json:"weight_unit,omitempty"`
	Quantity   int      `json:"quantity"`
}

// Quote is a priced shipping option with the breakdown the checkout page
// and order audit trail display.
type Quote struct {
	ZoneID           string  `json:"zone_id"`
	ZoneName         string  `json:"zone_name"`
	TotalWeight      float64 `json:"total_weight"`
	Cost             float64 `json:"cost"`
	BaseRate         float64 `json:"base_rate"`
	AdditionalWeight float64 `json:"additional_weight"`
	AdditionalCost   float64 `json:"additional_cost"`
}

// Calculator looks up weight-tiered shipping rates across configured zones.
// Zones are static reference data; the calculator itself is stateless.
type Calculator struct {
	zones []Zone
}

// NewCalculator builds a calculator over the given zones, falling back to
// the built-in defaults when none are provided.
func NewCalculator(zones []Zone) *Calculator {
	if len(zones) == 0 {
		zones = DefaultZones()
	}
	return &Calculator{zones: zones}
}

// Zones returns the configured zone table.
func (c *Calculator) Zones() []Zone {
	return c.zones
}

// TotalWeight sums weight × quantity across the cart in kg. Items without
// a recorded weight count as 0.1kg; gram weights are converted first.
func (c *Calculator) TotalWeight(items []CartItem) float64 {
	total := 0.0
	for _, item := range items {
		weight := defaultItemWeightKg
		if item.Weight != nil {
			weight = *item.Weight
			if strings.EqualFold(strings.TrimSpace(item.WeightUnit), "g") {
				weight /= 1000
			}
		}
		total += weight * float64(item.Quantity)
	}
	return total
}

// Cost prices a total weight for one zone. Weights inside the bracket
// table use the matching flat rate; anything heavier pays the last
// bracket's rate plus the per-kg rate on the excess. A weight no bracket
// covers (zero or negative totals) falls back to the last bracket rather
// than failing.
func (c *Calculator) Cost(totalWeight float64, zoneID string) (Quote, error) {
	zone, err := c.zone(zoneID)
	if err != nil {
		return Quote{}, err
	}

	last := zone.Brackets[len(zone.Brackets)-1]
	quote := Quote{
		ZoneID:      zone.ID,
		ZoneName:    zone.Name,
		TotalWeight: totalWeight,
		BaseRate:    last.Rate,
	}

	if totalWeight > last.MaxWeight {
		quote.AdditionalWeight = totalWeight - last.MaxWeight
		quote.AdditionalCost = quote.AdditionalWeight * zone.PerKgRate
		quote.Cost = quote.BaseRate + quote.AdditionalCost
		return quote, nil
	}

	for _, bracket := range zone.Brackets {
		if totalWeight > bracket.MinWeight && totalWeight <= bracket.MaxWeight {
			quote.BaseRate = bracket.Rate
			break
		}
	}
	quote.Cost = quote.BaseRate

	return quote, nil
}

// OptionsForCart prices the cart against every configured zone so the UI
// can show a comparison.
func (c *Calculator) OptionsForCart(items []CartItem) []Quote {
	totalWeight := c.TotalWeight(items)

	quotes := make([]Quote, 0, len(c.zones))
	for _, zone := range c.zones {
		quote, err := c.Cost(totalWeight, zone.ID)
		if err != nil {
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes
}

// LegacyRate maps pre-zone shipping method names onto today's zone table,
// priced at a nominal 0.1kg. Unmapped names get a flat 130. Kept only for
// older call sites; new code should quote by zone.
func (c *Calculator) LegacyRate(method string) float64 {
	zoneID, ok := legacyMethodZone(method)
	if !ok {
		return legacyFallbackRate
	}

	quote, err := c.Cost(defaultItemWeightKg, zoneID)
	if err != nil {
		return legacyFallbackRate
	}
	return quote.Cost
}

func legacyMethodZone(method string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(method))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	switch normalized {
	case "inside_dhaka", "dhaka_city", "dhaka":
		return "inside_dhaka", true
	case "dhaka_suburb", "suburb", "savar", "keraniganj":
		return "dhaka_suburb", true
	case "outside_dhaka", "nationwide", "courier":
		return "outside_dhaka", true
	default:
		return "", false
	}
}

func (c *Calculator) zone(zoneID string) (Zone, error) {
	for _, zone := range c.zones {
		if zone.ID == zoneID {
			return zone, nil
		}
	}
	return Zone{}, fmt.Errorf("unknown shipping zone: %s", zoneID)
}
