package payment

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeProvider charges through Stripe Checkout sessions.
type StripeProvider struct {
	currency string
}

func NewStripeProvider(secretKey, currency string) *StripeProvider {
	stripe.Key = secretKey
	if currency == "" {
		currency = "inr"
	}
	return &StripeProvider{currency: currency}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) InitiateCheckout(req CheckoutRequest) (*CheckoutResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = p.currency
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(req.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Description),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		ClientReferenceID: stripe.String(req.OrderID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
	}
	params.IdempotencyKey = stripe.String(req.IdempotencyKey)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout: %w", err)
	}
	resp := &CheckoutResponse{
		Reference:   sess.ID,
		Status:      "PENDING",
		CheckoutURL: sess.URL,
	}
	if sess.ExpiresAt > 0 {
		t := time.Unix(sess.ExpiresAt, 0)
		resp.ExpiresAt = &t
	}
	return resp, nil
}

// ConstructEvent verifies a Stripe webhook payload against its
// signature header, with tolerance for clock drift.
func ConstructEvent(payload []byte, signature, webhookSecret string) (stripe.Event, error) {
	return webhook.ConstructEventWithTolerance(payload, signature, webhookSecret, 5*time.Minute)
}
