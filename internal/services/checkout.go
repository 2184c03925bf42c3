package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/stripe/stripe-go/v84"

	"github.com/dhakacartapp/dhakacart/internal/catalog"
	"github.com/dhakacartapp/dhakacart/internal/logging"
	"github.com/dhakacartapp/dhakacart/internal/observability"
	"github.com/dhakacartapp/dhakacart/internal/payments"
	"github.com/dhakacartapp/dhakacart/internal/shipping"
)

// ErrCheckoutDisabled is returned when no payment provider is configured.
var ErrCheckoutDisabled = errors.New("checkout is not enabled")

// CartLine is one line of the cart as the storefront submits it.
type CartLine struct {
	ProductID  int64    `json:"product_id"`
	VariantID  *int64   `json:"variant_id,omitempty"`
	Quantity   int      `json:"quantity"`
	Weight     *float64 `json:"weight,omitempty"`
	WeightUnit string   `json:"weight_unit,omitempty"`
}

// QuotedLine is a cart line priced through the pricing engine.
type QuotedLine struct {
	ProductID int64   `json:"product_id"`
	VariantID *int64  `json:"variant_id,omitempty"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// CartQuote is the full priced cart: lines, shipping and the grand total.
type CartQuote struct {
	Lines    []QuotedLine   `json:"lines"`
	Subtotal float64        `json:"subtotal"`
	Shipping shipping.Quote `json:"shipping"`
	Total    float64        `json:"total"`
}

// CheckoutPayments creates payment sessions for quoted carts.
type CheckoutPayments interface {
	CreateCheckoutSession(ctx context.Context, params payments.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// CheckoutService prices carts (engine pricing per line plus weight-tiered
// shipping) and hands the result to the payment provider.
type CheckoutService struct {
	catalog  CatalogFetcher
	payments CheckoutPayments
	baseURL  string
	logger   *slog.Logger

	mu         sync.RWMutex
	calculator *shipping.Calculator
}

func NewCheckoutService(fetcher CatalogFetcher, calculator *shipping.Calculator, checkoutPayments CheckoutPayments, baseURL string, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		catalog:    fetcher,
		calculator: calculator,
		payments:   checkoutPayments,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Calculator exposes the current shipping calculator for zone listings.
func (s *CheckoutService) Calculator() *shipping.Calculator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calculator
}

// ReplaceZones swaps the zone table, used by the admin reload endpoint.
// Calculators are immutable, so in-flight quotes keep the table they
// started with.
func (s *CheckoutService) ReplaceZones(zones []shipping.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculator = shipping.NewCalculator(zones)
}

// Quote prices every cart line and adds shipping for the zone.
func (s *CheckoutService) Quote(ctx context.Context, lines []CartLine, zoneID string) (*CartQuote, error) {
	span := sentry.StartSpan(
		ctx,
		"service.checkout.quote",
		sentry.WithOpName("service.checkout"),
		sentry.WithDescription("Quote"),
	)
	defer span.Finish()
	ctx = span.Context()

	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	quote := &CartQuote{Lines: make([]QuotedLine, 0, len(lines))}
	items := make([]shipping.CartItem, 0, len(lines))

	for i, line := range lines {
		priced, err := s.priceLine(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("cart line %d: %w", i, err)
		}
		quote.Lines = append(quote.Lines, priced)
		quote.Subtotal += priced.LineTotal
		items = append(items, shipping.CartItem{
			Weight:     line.Weight,
			WeightUnit: line.WeightUnit,
			Quantity:   line.Quantity,
		})
	}

	calculator := s.Calculator()
	shippingQuote, err := calculator.Cost(calculator.TotalWeight(items), zoneID)
	if err != nil {
		return nil, err
	}
	quote.Shipping = shippingQuote
	quote.Total = quote.Subtotal + shippingQuote.Cost

	return quote, nil
}

// ShippingOptions prices the cart's weight against every zone.
func (s *CheckoutService) ShippingOptions(lines []CartLine) []shipping.Quote {
	items := make([]shipping.CartItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, shipping.CartItem{
			Weight:     line.Weight,
			WeightUnit: line.WeightUnit,
			Quantity:   line.Quantity,
		})
	}
	return s.Calculator().OptionsForCart(items)
}

// CreateCheckoutSession quotes the cart and opens a Stripe checkout
// session for it. Returns the hosted payment page URL.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, lines []CartLine, zoneID, customerEmail string) (string, error) {
	span := sentry.StartSpan(
		ctx,
		"service.checkout.create_session",
		sentry.WithOpName("service.checkout"),
		sentry.WithDescription("CreateCheckoutSession"),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := logging.FromContext(ctx, s.logger)
	meter := observability.MeterFromContext(ctx)

	if s.payments == nil {
		return "", ErrCheckoutDisabled
	}

	quote, err := s.Quote(ctx, lines, zoneID)
	if err != nil {
		meter.Count("checkout.session.failed", 1, sentry.WithAttributes(
			attribute.String("reason", "quote_failed"),
		))
		return "", err
	}

	items := make([]payments.LineItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		name := line.Name
		if line.SKU != "" {
			name = fmt.Sprintf("%s (%s)", line.Name, line.SKU)
		}
		items = append(items, payments.LineItem{
			Name:       name,
			UnitAmount: line.UnitPrice,
			Quantity:   int64(line.Quantity),
		})
	}

	session, err := s.payments.CreateCheckoutSession(ctx, payments.CheckoutSessionParams{
		Items:         items,
		ShippingCost:  quote.Shipping.Cost,
		ShippingLabel: fmt.Sprintf("Delivery (%s)", quote.Shipping.ZoneName),
		CustomerEmail: customerEmail,
		SuccessURL:    s.baseURL + "/checkout/success",
		CancelURL:     s.baseURL + "/checkout/cancel",
		Metadata: map[string]string{
			"shipping_zone": quote.Shipping.ZoneID,
		},
	})
	if err != nil {
		meter.Count("checkout.session.failed", 1, sentry.WithAttributes(
			attribute.String("reason", "create_failed"),
		))
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	meter.Count("checkout.session.created", 1)
	logger.Info("checkout session created", "session_id", session.ID, "total", quote.Total)

	return session.URL, nil
}

// priceLine prices one cart line with the pricing engine: variant pricing
// when the line names a variant, base pricing otherwise. Stock is checked
// against the requested quantity.
func (s *CheckoutService) priceLine(ctx context.Context, line CartLine) (QuotedLine, error) {
	if line.Quantity <= 0 {
		return QuotedLine{}, fmt.Errorf("quantity must be positive")
	}

	product, err := s.catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		return QuotedLine{}, fmt.Errorf("failed to fetch product %d: %w", line.ProductID, err)
	}

	variants, err := s.catalog.GetVariants(ctx, line.ProductID)
	if err != nil {
		return QuotedLine{}, fmt.Errorf("failed to fetch variants for product %d: %w", line.ProductID, err)
	}

	var selected *catalog.Variant
	var sku string
	if line.VariantID != nil {
		for i := range variants {
			if variants[i].ID == *line.VariantID {
				selected = &variants[i]
				sku = variants[i].SKU
				break
			}
		}
		if selected == nil {
			return QuotedLine{}, fmt.Errorf("variant %d not found for product %d", *line.VariantID, line.ProductID)
		}
	}

	engine := catalog.NewPricingEngine(*product, variants, selected)
	if !engine.AvailableForPurchase() {
		return QuotedLine{}, fmt.Errorf("product %d is not available for purchase", line.ProductID)
	}
	if line.Quantity > engine.CurrentStock() {
		return QuotedLine{}, fmt.Errorf("insufficient stock for product %d: requested %d, have %d", line.ProductID, line.Quantity, engine.CurrentStock())
	}

	unitPrice := engine.CurrentPricing().FinalPrice

	return QuotedLine{
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Name:      product.Name,
		SKU:       sku,
		Quantity:  line.Quantity,
		UnitPrice: unitPrice,
		LineTotal: unitPrice * float64(line.Quantity),
	}, nil
}
