package commands

import "context"

type IntentState string

const (
	IntentSucceeded IntentState = "succeeded"
	IntentPending   IntentState = "pending"
	IntentFailed    IntentState = "failed"
)

// IntentRef identifies a freshly created payment intent at the processor.
type IntentRef struct {
	ID           string
	ClientSecret string
}

// IntentStatus is the processor's view of an existing intent.
type IntentStatus struct {
	ID        string
	State     IntentState
	ChargeRef *string
}

// PaymentGateway is the single contract point with the external payment
// processor. Amounts are in the processor's minor unit (cents).
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*IntentRef, error)
	RetrieveIntent(ctx context.Context, intentID string) (*IntentStatus, error)
}
