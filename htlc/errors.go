package htlc

import (
	"fmt"

	"github.com/unite-defi/fusion-go/chains"
)

// ChainExecutionError wraps an RPC or contract rejection from a chain
// executor. It is terminal for the attempt; a retried swap starts over
// with a fresh secret and swap id.
type ChainExecutionError struct {
	Family chains.Family
	Op     string
	Err    error
}

func (e *ChainExecutionError) Error() string {
	return fmt.Sprintf("%s execution failed during %s: %v", e.Family, e.Op, e.Err)
}

func (e *ChainExecutionError) Unwrap() error { return e.Err }

// UnsupportedOperationError marks a code path that is deliberately not
// implemented, e.g. Solana HTLC creation or raw-key submission on families
// where only a wallet-bridge flow is viable.
type UnsupportedOperationError struct {
	Family chains.Family
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Family, e.Reason)
}
