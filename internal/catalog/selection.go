package catalog

import "strconv"

// SelectionEngine answers which variant (if any) a set of chosen options
// resolves to, and which option values are still selectable given the
// current partial selection.
//
// An engine is built fresh from the variant list and the caller's current
// selection on every interaction; it never mutates its inputs. All answers
// derive from the constructor arguments.
type SelectionEngine struct {
	variants []Variant
	selected SelectedOptions

	axes   []string
	values map[string][]OptionValue
}

// NewSelectionEngine derives the axes-and-values table by scanning every
// variant's combination set once, deduplicating values by id per axis.
// Axis order is first-seen order across the variant list.
func NewSelectionEngine(variants []Variant, selected SelectedOptions) *SelectionEngine {
	engine := &SelectionEngine{
		variants: variants,
		selected: selected,
		values:   make(map[string][]OptionValue),
	}

	seen := make(map[string]map[int64]bool)
	for _, variant := range variants {
		for axis, options := range variant.Combinations {
			if seen[axis] == nil {
				seen[axis] = make(map[int64]bool)
				engine.axes = append(engine.axes, axis)
			}
			for _, option := range options {
				if seen[axis][option.ID] {
					continue
				}
				seen[axis][option.ID] = true
				engine.values[axis] = append(engine.values[axis], option)
			}
		}
	}

	return engine
}

// HasVariations reports whether the product varies along at least one axis.
func (e *SelectionEngine) HasVariations() bool {
	return len(e.axes) > 0
}

// Axes returns the variation axis names in first-seen order.
func (e *SelectionEngine) Axes() []string {
	return e.axes
}

// AvailableOptionsFor lists every value the axis could take, unfiltered by
// the current selection. Use IsOptionAvailable to decide enabled state.
func (e *SelectionEngine) AvailableOptionsFor(axis string) []OptionValue {
	return e.values[axis]
}

// IsOptionAvailable reports whether choosing valueID on axis is compatible
// with the current selection. With nothing selected every option is
// available. Otherwise the current selection plus this one candidate must
// be jointly satisfiable by at least one variant; axes the candidate
// selection does not mention stay unconstrained. This is deliberately
// looser than variant resolution so the UI can grey out impossible
// combinations without forcing a full selection first.
func (e *SelectionEngine) IsOptionAvailable(axis, valueID string) bool {
	if len(e.selected) == 0 {
		return true
	}

	candidate := e.selected.Clone()
	candidate[axis] = valueID

	for _, variant := range e.variants {
		if variantSatisfies(variant, candidate) {
			return true
		}
	}
	return false
}

// UpdateSelection toggles an option: re-selecting the axis's current value
// removes the axis entry, anything else sets or replaces it. The engine is
// not mutated; the new selection and the variant it resolves to (nil for
// partial selections) are returned for the caller to adopt.
func (e *SelectionEngine) UpdateSelection(axis, valueID string) (SelectedOptions, *Variant) {
	next := e.selected.Clone()
	if current, ok := next[axis]; ok && current == valueID {
		delete(next, axis)
	} else {
		next[axis] = valueID
	}

	return next, e.resolve(next)
}

// AllVariationsSelected reports whether every axis has a chosen value.
func (e *SelectionEngine) AllVariationsSelected() bool {
	return len(e.selected) == len(e.axes)
}

// SelectedVariant resolves the current selection to a single variant.
// Partial selections never resolve.
func (e *SelectionEngine) SelectedVariant() *Variant {
	if !e.AllVariationsSelected() {
		return nil
	}
	return e.resolve(e.selected)
}

// resolve matches a selection against the variant list. Only a full
// selection (one choice per axis) can match; the first variant in list
// order satisfying every chosen axis wins. Well-formed catalogs have at
// most one candidate, so first-wins only matters for dirty data.
func (e *SelectionEngine) resolve(selection SelectedOptions) *Variant {
	if len(selection) != len(e.axes) || len(e.axes) == 0 {
		return nil
	}

	for i := range e.variants {
		if variantSatisfies(e.variants[i], selection) {
			return &e.variants[i]
		}
	}
	return nil
}

// variantSatisfies checks every axis the selection constrains. A variant
// missing an axis entirely has no value there and never satisfies a
// selection constraining it.
func variantSatisfies(variant Variant, selection SelectedOptions) bool {
	for axis, valueID := range selection {
		if !combinationHasValue(variant.Combinations[axis], valueID) {
			return false
		}
	}
	return true
}

func combinationHasValue(options []OptionValue, valueID string) bool {
	for _, option := range options {
		if FormatOptionID(option.ID) == valueID {
			return true
		}
	}
	return false
}

// FormatOptionID renders an option value id the way selections carry it.
func FormatOptionID(id int64) string {
	return strconv.FormatInt(id, 10)
}
