// Aptos chain-family executor. Aptos swaps are signed in the browser: the
// wallet bridge is the only signing authority, so this side builds the
// entry-function payload and hands it over. Raw keys are never accepted.
package aptosman

import (
	"context"
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk"
	logger "github.com/sirupsen/logrus"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
	"github.com/unite-defi/fusion-go/wallet"
)

type Aptosman struct {
	moduleAddress aptos.AccountAddress
}

// NewAptosman parses and pins the HTLC module address. The address comes
// from the chain registry entry for Aptos.
func NewAptosman(moduleAddress string) (*Aptosman, error) {
	addr := aptos.AccountAddress{}
	if err := addr.ParseStringRelaxed(moduleAddress); err != nil {
		return nil, fmt.Errorf("bad Aptos module address %q: %w", moduleAddress, err)
	}
	return &Aptosman{moduleAddress: addr}, nil
}

func (a *Aptosman) Family() chains.Family { return chains.FamilyAptos }

// CreateHTLC builds the fusion_htlc::create_htlc entry-function payload
// and submits it through the connected wallet bridge.
func (a *Aptosman) CreateHTLC(ctx context.Context, p *htlc.CreateParams) (string, error) {
	bridge := p.Credentials.Bridge
	if bridge == nil || !bridge.Connected() {
		return "", wallet.ErrNotConnected
	}

	payload, err := a.BuildCreatePayload(p)
	if err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyAptos, Op: "buildPayload", Err: err}
	}

	txHash, err := bridge.SignAndSubmit(ctx, payload)
	if err != nil {
		if err == wallet.ErrNotConnected {
			return "", err
		}
		return "", &htlc.ChainExecutionError{Family: chains.FamilyAptos, Op: "signAndSubmit", Err: err}
	}

	logger.WithFields(logger.Fields{
		"txHash":   txHash,
		"module":   a.moduleAddress.String(),
		"timelock": p.Timelock,
	}).Info("submitted Aptos HTLC")
	return txHash, nil
}

// BuildCreatePayload constructs the wallet-bridge payload. The hashlock is
// encoded as an array of small integers: the bridge's serializer rejects
// hex or base64 strings for vector<u8> arguments.
func (a *Aptosman) BuildCreatePayload(p *htlc.CreateParams) (*EntryFunctionPayload, error) {
	recipient := aptos.AccountAddress{}
	if err := recipient.ParseStringRelaxed(p.Recipient); err != nil {
		return nil, fmt.Errorf("bad Aptos recipient %q: %w", p.Recipient, err)
	}
	if !p.Amount.IsUint64() {
		return nil, fmt.Errorf("amount %s overflows u64", p.Amount.String())
	}

	return &EntryFunctionPayload{
		Function:      fmt.Sprintf("%s::%s::%s", a.moduleAddress.String(), htlcModuleName, htlcCreateFn),
		TypeArguments: []string{aptosCoinTypeTag},
		FunctionArguments: []any{
			a.moduleAddress.String(),
			recipient.String(),
			fmt.Sprintf("%d", p.Amount.Uint64()),
			byteArgs(p.Hashlock[:]),
			fmt.Sprintf("%d", p.Timelock),
		},
	}, nil
}

// EntryFunctionPayload is the JSON shape Aptos wallet bridges expect for
// entry-function transactions.
type EntryFunctionPayload struct {
	Function          string   `json:"function"`
	TypeArguments     []string `json:"typeArguments"`
	FunctionArguments []any    `json:"functionArguments"`
}

func byteArgs(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

// IsValidAddress reports whether s parses as an Aptos account address.
func IsValidAddress(s string) bool {
	addr := aptos.AccountAddress{}
	return addr.ParseStringRelaxed(s) == nil
}
