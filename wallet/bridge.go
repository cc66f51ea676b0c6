// Package wallet defines the capability surface this process consumes from
// in-browser wallet bridges (OKX Aptos bridge, TON connect). The real
// implementations live in the wallet extension; this side only holds the
// contract and a simulated bridge for tests.
package wallet

import (
	"context"
	"errors"
)

// ErrNotConnected is returned when an operation needs an active bridge
// session. It is recoverable by prompting the user to connect.
var ErrNotConnected = errors.New("wallet not connected")

// Bridge signs and submits a transaction payload with the connected
// account. Payload shape is family-specific (entry-function JSON for
// Aptos, message body for TON).
type Bridge interface {
	Connected() bool
	Account() string
	SignAndSubmit(ctx context.Context, payload any) (txHash string, err error)
}
