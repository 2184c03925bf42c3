package catalog

import (
	"testing"
)

func colorSizeVariants() []Variant {
	// Variants exist for (Red,S) and (Blue,M) only.
	return []Variant{
		{
			ID:         1,
			SKU:        "TSHIRT-RED-S",
			Quantity:   3,
			FinalPrice: "500",
			Combinations: map[string][]OptionValue{
				"Color": {{ID: 11, Name: "Red"}},
				"Size":  {{ID: 21, Name: "S"}},
			},
		},
		{
			ID:         2,
			SKU:        "TSHIRT-BLUE-M",
			Quantity:   5,
			FinalPrice: "550",
			Combinations: map[string][]OptionValue{
				"Color": {{ID: 12, Name: "Blue"}},
				"Size":  {{ID: 22, Name: "M"}},
			},
		},
	}
}

func TestSelectionEngine_DerivesAxes(t *testing.T) {
	t.Parallel()

	engine := NewSelectionEngine(colorSizeVariants(), SelectedOptions{})

	if !engine.HasVariations() {
		t.Fatal("expected variations")
	}

	axes := engine.Axes()
	if len(axes) != 2 {
		t.Fatalf("expected 2 axes, got %d", len(axes))
	}

	colors := engine.AvailableOptionsFor("Color")
	if len(colors) != 2 {
		t.Fatalf("expected 2 color values, got %d", len(colors))
	}

	if options := engine.AvailableOptionsFor("Material"); len(options) != 0 {
		t.Fatalf("expected no values for unknown axis, got %d", len(options))
	}
}

func TestSelectionEngine_DeduplicatesValuesByID(t *testing.T) {
	t.Parallel()

	variants := colorSizeVariants()
	variants = append(variants, Variant{
		ID:         3,
		SKU:        "TSHIRT-RED-M",
		FinalPrice: "500",
		Combinations: map[string][]OptionValue{
			"Color": {{ID: 11, Name: "Red"}},
			"Size":  {{ID: 22, Name: "M"}},
		},
	})

	engine := NewSelectionEngine(variants, SelectedOptions{})
	if colors := engine.AvailableOptionsFor("Color"); len(colors) != 2 {
		t.Fatalf("expected Red to be deduplicated, got %d color values", len(colors))
	}
}

func TestSelectionEngine_NoVariations(t *testing.T) {
	t.Parallel()

	engine := NewSelectionEngine(nil, SelectedOptions{})

	if engine.HasVariations() {
		t.Fatal("expected no variations for empty variant list")
	}
	if variant := engine.SelectedVariant(); variant != nil {
		t.Fatalf("expected nil variant, got %v", variant.ID)
	}
}

func TestSelectionEngine_IsOptionAvailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		selected SelectedOptions
		axis     string
		valueID  string
		want     bool
	}{
		{
			name:     "everything available with empty selection",
			selected: SelectedOptions{},
			axis:     "Size",
			valueID:  "22",
			want:     true,
		},
		{
			name:     "red excludes size M",
			selected: SelectedOptions{"Color": "11"},
			axis:     "Size",
			valueID:  "22",
			want:     false,
		},
		{
			name:     "red keeps size S",
			selected: SelectedOptions{"Color": "11"},
			axis:     "Size",
			valueID:  "21",
			want:     true,
		},
		{
			name:     "replacing the selected axis value is allowed",
			selected: SelectedOptions{"Color": "11"},
			axis:     "Color",
			valueID:  "12",
			want:     true,
		},
		{
			name:     "candidate with no variant at all",
			selected: SelectedOptions{"Color": "11"},
			axis:     "Size",
			valueID:  "999",
			want:     false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			engine := NewSelectionEngine(colorSizeVariants(), tc.selected)
			if got := engine.IsOptionAvailable(tc.axis, tc.valueID); got != tc.want {
				t.Fatalf("IsOptionAvailable(%q, %q) = %v, want %v", tc.axis, tc.valueID, got, tc.want)
			}
		})
	}
}

func TestSelectionEngine_PartialSelectionNeverResolves(t *testing.T) {
	t.Parallel()

	engine := NewSelectionEngine(colorSizeVariants(), SelectedOptions{"Color": "11"})

	if engine.AllVariationsSelected() {
		t.Fatal("one of two axes selected, expected AllVariationsSelected false")
	}
	if variant := engine.SelectedVariant(); variant != nil {
		t.Fatalf("partial selection resolved to variant %d", variant.ID)
	}
}

func TestSelectionEngine_FullSelectionResolves(t *testing.T) {
	t.Parallel()

	engine := NewSelectionEngine(colorSizeVariants(), SelectedOptions{"Color": "12", "Size": "22"})

	if !engine.AllVariationsSelected() {
		t.Fatal("expected AllVariationsSelected true")
	}
	variant := engine.SelectedVariant()
	if variant == nil {
		t.Fatal("expected resolved variant")
	}
	if variant.SKU != "TSHIRT-BLUE-M" {
		t.Fatalf("resolved wrong variant: %s", variant.SKU)
	}
}

func TestSelectionEngine_OrderIndependence(t *testing.T) {
	t.Parallel()

	// The same full selection resolves identically regardless of the order
	// axes were chosen in.
	variants := colorSizeVariants()

	first, _ := NewSelectionEngine(variants, SelectedOptions{}).UpdateSelection("Color", "11")
	first, resolvedA := NewSelectionEngine(variants, first).UpdateSelection("Size", "21")

	second, _ := NewSelectionEngine(variants, SelectedOptions{}).UpdateSelection("Size", "21")
	second, resolvedB := NewSelectionEngine(variants, second).UpdateSelection("Color", "11")

	if resolvedA == nil || resolvedB == nil {
		t.Fatal("expected both orders to resolve")
	}
	if resolvedA.ID != resolvedB.ID {
		t.Fatalf("selection order changed the resolved variant: %d vs %d", resolvedA.ID, resolvedB.ID)
	}
	if len(first) != len(second) {
		t.Fatalf("selection maps diverged: %v vs %v", first, second)
	}
}

func TestSelectionEngine_UpdateSelectionToggles(t *testing.T) {
	t.Parallel()

	variants := colorSizeVariants()
	original := SelectedOptions{"Size": "21"}

	selected, _ := NewSelectionEngine(variants, original).UpdateSelection("Color", "11")
	if selected["Color"] != "11" {
		t.Fatalf("expected Color=11 after select, got %v", selected)
	}

	// Feeding the new state back in and re-clicking the same value deselects.
	selected, variant := NewSelectionEngine(variants, selected).UpdateSelection("Color", "11")
	if _, ok := selected["Color"]; ok {
		t.Fatalf("expected Color removed after toggle, got %v", selected)
	}
	if variant != nil {
		t.Fatalf("deselected state resolved to variant %d", variant.ID)
	}
	if selected["Size"] != original["Size"] || len(selected) != len(original) {
		t.Fatalf("toggle did not return to original mapping: %v", selected)
	}
}

func TestSelectionEngine_UpdateSelectionReplacesValue(t *testing.T) {
	t.Parallel()

	engine := NewSelectionEngine(colorSizeVariants(), SelectedOptions{"Color": "11"})

	selected, _ := engine.UpdateSelection("Color", "12")
	if selected["Color"] != "12" {
		t.Fatalf("expected Color replaced with 12, got %v", selected)
	}
}

func TestSelectionEngine_UpdateSelectionDoesNotMutateEngine(t *testing.T) {
	t.Parallel()

	original := SelectedOptions{"Color": "11"}
	engine := NewSelectionEngine(colorSizeVariants(), original)

	engine.UpdateSelection("Size", "21")

	if len(original) != 1 || original["Color"] != "11" {
		t.Fatalf("UpdateSelection mutated caller state: %v", original)
	}
	if variant := engine.SelectedVariant(); variant != nil {
		t.Fatalf("engine picked up uncommitted selection, resolved %d", variant.ID)
	}
}

func TestSelectionEngine_VariantMissingAxisNeverMatches(t *testing.T) {
	t.Parallel()

	variants := colorSizeVariants()
	variants = append(variants, Variant{
		ID:         9,
		SKU:        "TSHIRT-NO-SIZE",
		FinalPrice: "500",
		Combinations: map[string][]OptionValue{
			"Color": {{ID: 13, Name: "Green"}},
		},
	})

	engine := NewSelectionEngine(variants, SelectedOptions{"Color": "13", "Size": "21"})
	if variant := engine.SelectedVariant(); variant != nil {
		t.Fatalf("variant missing the Size axis matched anyway: %d", variant.ID)
	}
}

func TestSelectionEngine_DuplicateCombinationFirstWins(t *testing.T) {
	t.Parallel()

	// Dirty data: two variants carry the identical full combination. The
	// winner is not a contract, but resolution must stay deterministic.
	variants := []Variant{
		{
			ID:         1,
			FinalPrice: "100",
			Combinations: map[string][]OptionValue{
				"Color": {{ID: 11, Name: "Red"}},
			},
		},
		{
			ID:         2,
			FinalPrice: "100",
			Combinations: map[string][]OptionValue{
				"Color": {{ID: 11, Name: "Red"}},
			},
		},
	}

	for i := 0; i < 5; i++ {
		engine := NewSelectionEngine(variants, SelectedOptions{"Color": "11"})
		variant := engine.SelectedVariant()
		if variant == nil {
			t.Fatal("expected a resolved variant")
		}
		if variant.ID != 1 {
			t.Fatalf("expected first variant in list order, got %d", variant.ID)
		}
	}
}
