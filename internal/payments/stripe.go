// Package payments collects the booking deposit through Stripe. Payments are
// best effort from the booking flow's point of view: a Stripe outage must not
// stop customers from requesting appointments.
package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/glowdesk/salon-bookings/pkg/config"
)

type Service interface {
	// CreateDepositIntent opens a PaymentIntent for the booking deposit and
	// returns its ID and client secret.
	CreateDepositIntent(ctx context.Context, bookingID int64, amountCents int64) (intentID, clientSecret string, err error)
	// RefundDeposit refunds the deposit held under the given intent.
	RefundDeposit(ctx context.Context, intentID string) error
	// Enabled reports whether a Stripe key is configured.
	Enabled() bool
}

type stripeService struct {
	api      *client.API
	currency string
	enabled  bool
}

func NewStripeService(cfg config.StripeConfig) Service {
	s := &stripeService{
		currency: cfg.Currency,
		enabled:  cfg.SecretKey != "",
	}
	if s.enabled {
		s.api = &client.API{}
		s.api.Init(cfg.SecretKey, nil)
	}
	return s
}

func (s *stripeService) Enabled() bool {
	return s.enabled
}

func (s *stripeService) CreateDepositIntent(ctx context.Context, bookingID int64, amountCents int64) (string, string, error) {
	if !s.enabled {
		return "", "", fmt.Errorf("stripe not configured")
	}

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", fmt.Sprintf("%d", bookingID))

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	return intent.ID, intent.ClientSecret, nil
}

func (s *stripeService) RefundDeposit(ctx context.Context, intentID string) error {
	if !s.enabled {
		return fmt.Errorf("stripe not configured")
	}
	if intentID == "" {
		return fmt.Errorf("no payment intent to refund")
	}

	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(intentID),
	}

	if _, err := s.api.Refunds.New(params); err != nil {
		return fmt.Errorf("failed to refund payment intent: %w", err)
	}

	return nil
}
