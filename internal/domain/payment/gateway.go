package payment

import (
	"context"
	"errors"
)

var (
	// ErrDeclined covers charges the provider rejected, including charge
	// results returned without error whose status is not succeeded.
	ErrDeclined = errors.New("payment: charge declined")
	// ErrUnavailable covers transport failures reaching the provider.
	ErrUnavailable = errors.New("payment: gateway unavailable")
)

const StatusSucceeded = "succeeded"

type ChargeRequest struct {
	// AmountMinor is the charge amount in the smallest currency unit.
	AmountMinor int64
	Currency    string
	Token       string
	// IdempotencyKey is unique per place-order attempt so a retried
	// transport call cannot double-charge.
	IdempotencyKey string
	// Capture requests immediate confirmation rather than a two-phase
	// authorize/capture split.
	Capture bool
}

type ChargeResult struct {
	ID     string
	Status string
}

// Gateway is the outbound port for the payment provider.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
