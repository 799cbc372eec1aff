// Package card creates card payment intents with Stripe.
package card

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrNotConfigured = errors.New("card gateway: not configured")

type Stripe struct {
	api *client.API
}

func NewStripe(secretKey string) *Stripe {
	if secretKey == "" {
		return &Stripe{}
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}
}

// CreatePaymentIntent registers a card-only intent for amountCents and returns
// the client secret the browser needs to confirm it.
func (s *Stripe) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	if s.api == nil {
		return "", ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
