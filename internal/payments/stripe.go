package payments

import (
	"context"
	"math"
	"os"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// DepositClient wraps stripe-go for booking-deposit hold/capture/release.
// A deposit is held when the user confirms a slot, captured when the job
// completes, and released on reschedule.
type DepositClient struct{}

// NewDepositClient initializes the stripe client with the STRIPE_API_KEY env var.
func NewDepositClient() *DepositClient {
	stripe.Key = os.Getenv("STRIPE_API_KEY")
	return &DepositClient{}
}

// HoldDeposit creates a manual-capture PaymentIntent for the given amount
// (in the currency's major unit, e.g. dollars) and returns its ID.
func (c *DepositClient) HoldDeposit(ctx context.Context, amount float64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(currency),
	}
	params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// CaptureDeposit finalizes a previously-held deposit.
func (c *DepositClient) CaptureDeposit(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Capture(paymentIntentID, nil)
	return err
}

// ReleaseDeposit cancels the hold, e.g. when the user reschedules.
func (c *DepositClient) ReleaseDeposit(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Cancel(paymentIntentID, nil)
	return err
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
