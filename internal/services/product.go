package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/dhakacartapp/dhakacart/internal/catalog"
	"github.com/dhakacartapp/dhakacart/internal/logging"
	"github.com/dhakacartapp/dhakacart/internal/observability"
)

// CatalogFetcher provides product data from the remote catalog API.
type CatalogFetcher interface {
	GetProduct(ctx context.Context, productID int64) (*catalog.Product, error)
	GetVariants(ctx context.Context, productID int64) ([]catalog.Variant, error)
}

// OptionView is one selectable value with its UI enabled/selected state.
type OptionView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
}

// VariationView is one axis with all its values.
type VariationView struct {
	Axis    string       `json:"axis"`
	Options []OptionView `json:"options"`
}

// ProductView is everything the product page renders from: the product,
// per-option availability, the resolved variant if the selection is
// complete, display pricing and stock.
type ProductView struct {
	Product         catalog.Product         `json:"product"`
	SelectedOptions catalog.SelectedOptions `json:"selected_options"`
	Variations      []VariationView         `json:"variations"`
	AllSelected     bool                    `json:"all_selected"`
	SelectedVariant *catalog.Variant        `json:"selected_variant,omitempty"`
	Pricing         catalog.PricingDisplay  `json:"pricing"`
	Stock           int                     `json:"stock"`
	Purchasable     bool                    `json:"purchasable"`
	HasAnyStock     bool                    `json:"has_any_stock"`
}

// ProductService composes the selection and pricing engines into product
// page views. Engines are rebuilt from fresh catalog data on every call;
// the service itself holds no per-product state.
type ProductService struct {
	catalog CatalogFetcher
	logger  *slog.Logger
}

func NewProductService(fetcher CatalogFetcher, logger *slog.Logger) *ProductService {
	return &ProductService{catalog: fetcher, logger: logger}
}

// GetProductView builds the view for a product under the caller's current
// selection.
func (s *ProductService) GetProductView(ctx context.Context, productID int64, selected catalog.SelectedOptions) (*ProductView, error) {
	span := sentry.StartSpan(
		ctx,
		"service.product.get_view",
		sentry.WithOpName("service.product"),
		sentry.WithDescription("GetProductView"),
	)
	defer span.Finish()
	ctx = span.Context()

	product, variants, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	return buildProductView(*product, variants, selected), nil
}

// ToggleOption applies one click: toggles the axis value through the
// selection engine and returns the view for the resulting selection. The
// new selection rides back on the view for the caller to adopt.
func (s *ProductService) ToggleOption(ctx context.Context, productID int64, selected catalog.SelectedOptions, axis, valueID string) (*ProductView, error) {
	span := sentry.StartSpan(
		ctx,
		"service.product.toggle_option",
		sentry.WithOpName("service.product"),
		sentry.WithDescription("ToggleOption"),
	)
	defer span.Finish()
	ctx = span.Context()

	meter := observability.MeterFromContext(ctx)
	meter.Count("product.option.toggled", 1, sentry.WithAttributes(
		attribute.String("axis", axis),
	))

	product, variants, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	engine := catalog.NewSelectionEngine(variants, selected)
	next, _ := engine.UpdateSelection(axis, valueID)

	return buildProductView(*product, variants, next), nil
}

func (s *ProductService) load(ctx context.Context, productID int64) (*catalog.Product, []catalog.Variant, error) {
	logger := logging.FromContext(ctx, s.logger)

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}

	variants, err := s.catalog.GetVariants(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch variants for product %d: %w", productID, err)
	}

	logger.Debug("loaded product", "product_id", productID, "variants", len(variants))
	return product, variants, nil
}

// buildProductView runs both engines over one consistent snapshot.
func buildProductView(product catalog.Product, variants []catalog.Variant, selected catalog.SelectedOptions) *ProductView {
	if selected == nil {
		selected = catalog.SelectedOptions{}
	}

	selection := catalog.NewSelectionEngine(variants, selected)
	resolved := selection.SelectedVariant()
	pricing := catalog.NewPricingEngine(product, variants, resolved)

	variations := make([]VariationView, 0, len(selection.Axes()))
	for _, axis := range selection.Axes() {
		options := selection.AvailableOptionsFor(axis)
		views := make([]OptionView, 0, len(options))
		for _, option := range options {
			id := catalog.FormatOptionID(option.ID)
			views = append(views, OptionView{
				ID:        id,
				Name:      option.Name,
				Available: selection.IsOptionAvailable(axis, id),
				Selected:  selected[axis] == id,
			})
		}
		variations = append(variations, VariationView{Axis: axis, Options: views})
	}

	return &ProductView{
		Product:         product,
		SelectedOptions: selected,
		Variations:      variations,
		AllSelected:     selection.AllVariationsSelected(),
		SelectedVariant: resolved,
		Pricing:         pricing.DisplayData(),
		Stock:           pricing.CurrentStock(),
		Purchasable:     pricing.AvailableForPurchase(),
		HasAnyStock:     pricing.HasAnyStock(),
	}
}
