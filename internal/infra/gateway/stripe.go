package gateway

import (
	"context"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"edu-vouchers/internal/pkg/config"
	"edu-vouchers/internal/pkg/errs"
	"edu-vouchers/internal/usecase/commands"
)

// StripeGateway talks to Stripe's PaymentIntent API. The account key is
// process-global in stripe-go, set once at construction.
type StripeGateway struct {
	cfg config.StripeConfig
}

func NewStripeGateway(cfg config.StripeConfig) commands.PaymentGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{cfg: cfg}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*commands.IntentRef, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, errs.Wrap(err, "stripe payment intent creation failed")
	}

	return &commands.IntentRef{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*commands.IntentStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExpand("latest_charge")

	intent, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, errs.Wrap(err, "stripe payment intent retrieval failed")
	}

	status := &commands.IntentStatus{
		ID:    intent.ID,
		State: mapIntentState(intent.Status),
	}
	if intent.LatestCharge != nil && intent.LatestCharge.ID != "" {
		chargeID := intent.LatestCharge.ID
		status.ChargeRef = &chargeID
	}
	return status, nil
}

func mapIntentState(s stripe.PaymentIntentStatus) commands.IntentState {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return commands.IntentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return commands.IntentFailed
	default:
		return commands.IntentPending
	}
}
