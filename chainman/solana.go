package chainman

import (
	"context"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
)

// Solana HTLCs need an on-chain program and PDA design that does not
// exist yet. Fail before any transaction construction.
type Solana struct{}

func (s *Solana) Family() chains.Family { return chains.FamilySolana }

func (s *Solana) CreateHTLC(_ context.Context, _ *htlc.CreateParams) (string, error) {
	return "", &htlc.UnsupportedOperationError{
		Family: chains.FamilySolana,
		Reason: "HTLC program not implemented",
	}
}
