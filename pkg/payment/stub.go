package payment

import (
	"fmt"
	"time"
)

// StubProvider is a no-op provider for development and tests.
type StubProvider struct{}

func (s *StubProvider) Name() string { return "stub" }

func (s *StubProvider) InitiateCheckout(req CheckoutRequest) (*CheckoutResponse, error) {
	expires := time.Now().Add(30 * time.Minute)
	return &CheckoutResponse{
		Reference:   fmt.Sprintf("stub_%s", req.OrderID),
		Status:      "PENDING",
		CheckoutURL: "",
		ExpiresAt:   &expires,
	}, nil
}
