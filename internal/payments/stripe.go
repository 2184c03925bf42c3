package payments

// Package payments wraps Stripe checkout session creation.

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v84"
)

// LineItem is one priced cart line ready for checkout.
type LineItem struct {
	Name       string
	UnitAmount float64 // major units, converted to minor units for Stripe
	Quantity   int64
}

// CheckoutSessionParams holds parameters for creating a checkout session.
type CheckoutSessionParams struct {
	Items         []LineItem
	ShippingCost  float64
	ShippingLabel string
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutClient creates Stripe checkout sessions for quoted carts.
type CheckoutClient struct {
	client   *stripe.Client
	currency string
}

func NewCheckoutClient(secretKey, currency string) *CheckoutClient {
	return &CheckoutClient{
		client:   stripe.NewClient(secretKey),
		currency: currency,
	}
}

// CreateCheckoutSession creates a payment-mode checkout session with one
// Stripe line item per cart line plus a fixed shipping option.
func (c *CheckoutClient) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if len(params.Items) == 0 {
		return nil, fmt.Errorf("at least one line item is required")
	}

	currency := params.Currency
	if currency == "" {
		currency = c.currency
	}

	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(params.Items))
	for _, item := range params.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(toMinorUnits(item.UnitAmount)),
			},
			Quantity: stripe.Int64(quantity),
		})
	}

	shippingLabel := params.ShippingLabel
	if shippingLabel == "" {
		shippingLabel = "Shipping"
	}

	sessionParams := &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
		LineItems:          lineItems,
		ShippingOptions: []*stripe.CheckoutSessionCreateShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionCreateShippingOptionShippingRateDataParams{
					DisplayName: stripe.String(shippingLabel),
					Type:        stripe.String(string(stripe.ShippingRateTypeFixedAmount)),
					FixedAmount: &stripe.CheckoutSessionCreateShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(toMinorUnits(params.ShippingCost)),
						Currency: stripe.String(currency),
					},
				},
			},
		},
		Metadata: params.Metadata,
	}

	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}

	sess, err := c.client.V1CheckoutSessions.Create(ctx, sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess, nil
}

// toMinorUnits converts a major-unit amount to the minor units Stripe
// expects, rounding half away from zero.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
