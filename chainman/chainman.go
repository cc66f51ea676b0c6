// Package chainman holds the thin executors for the chain families beyond
// EVM and Aptos. Each executor builds its family's HTLC-creation payload;
// TON submits through the wallet bridge, while the families whose only
// conceivable flow here is raw-key signing stop with a clear
// UnsupportedOperationError instead of attempting a partial transaction.
package chainman

import (
	"fmt"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
)

func unsupportedRawKey(family chains.Family) error {
	return &htlc.UnsupportedOperationError{
		Family: family,
		Reason: "raw-key transaction signing is not implemented; this leg needs a wallet-bridge flow",
	}
}

func validateCreate(p *htlc.CreateParams, family chains.Family) error {
	if p.Recipient == "" {
		return fmt.Errorf("%s: missing recipient", family)
	}
	if p.Amount == nil || p.Amount.Sign() <= 0 {
		return fmt.Errorf("%s: amount must be positive", family)
	}
	if p.Timelock <= 0 {
		return fmt.Errorf("%s: timelock must be set", family)
	}
	return nil
}
