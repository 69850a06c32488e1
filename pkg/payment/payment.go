package payment

import (
	"time"
)

// CheckoutRequest describes a one-off charge: a paid lead purchase or a
// subscription checkout.
type CheckoutRequest struct {
	VendorID       uint
	AmountCents    int64
	Currency       string
	OrderID        string
	IdempotencyKey string
	Description    string
	SuccessURL     string
	CancelURL      string
}

type CheckoutResponse struct {
	Reference   string
	Status      string
	CheckoutURL string
	ExpiresAt   *time.Time
}

// Provider is the trusted payment boundary. Implementations must be
// safe for concurrent use.
type Provider interface {
	Name() string
	InitiateCheckout(req CheckoutRequest) (*CheckoutResponse, error)
}
