package htlc

import (
	"context"
	"math/big"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/wallet"
)

// CreateParams carries everything an executor needs to lock funds on its
// chain. Amount is already converted to the chain's smallest unit.
type CreateParams struct {
	Chain     *chains.Descriptor
	Token     string // chain-native token address/symbol; empty or sentinel = native coin
	Recipient string
	Amount    *big.Int
	Hashlock  Hashlock
	Timelock  int64 // absolute unix seconds

	Credentials Credentials
}

// Credentials is the per-call signing material. Exactly the fields the
// source chain family needs are consulted; it is never stored on a shared
// client, so one request's keys cannot leak into another's.
type Credentials struct {
	// EVMPrivateKey is a hex-encoded secp256k1 key for EVM chains.
	EVMPrivateKey string

	// Bridge is the connected wallet bridge, required for Aptos and TON.
	Bridge wallet.Bridge

	// PrivateKey is raw key material for the remaining non-EVM families.
	PrivateKey string
}

// Executor creates the source-chain HTLC for one chain family.
// Implementations must not report success without a transaction reference:
// the orchestrator records nothing until CreateHTLC returns.
type Executor interface {
	Family() chains.Family
	CreateHTLC(ctx context.Context, params *CreateParams) (txRef string, err error)
}
