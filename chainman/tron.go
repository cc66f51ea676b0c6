package chainman

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
)

// Tron builds the triggersmartcontract request for the deployed HTLC
// contract, paying the amount in Sun as call value.
type Tron struct {
	ContractAddress string
}

func (t *Tron) Family() chains.Family { return chains.FamilyTron }

// TriggerRequest matches the TronGrid wallet/triggersmartcontract body.
type TriggerRequest struct {
	OwnerAddress     string `json:"owner_address"`
	ContractAddress  string `json:"contract_address"`
	FunctionSelector string `json:"function_selector"`
	Parameter        string `json:"parameter"`
	CallValue        int64  `json:"call_value"`
	FeeLimit         int64  `json:"fee_limit"`
	Visible          bool   `json:"visible"`
}

func (t *Tron) BuildTriggerRequest(p *htlc.CreateParams, owner string) (*TriggerRequest, error) {
	if err := validateCreate(p, chains.FamilyTron); err != nil {
		return nil, err
	}
	if !p.Amount.IsInt64() {
		return nil, fmt.Errorf("tron: amount %s overflows call value", p.Amount.String())
	}
	return &TriggerRequest{
		OwnerAddress:     owner,
		ContractAddress:  t.ContractAddress,
		FunctionSelector: "createHTLC(address,bytes32,uint256)",
		Parameter:        encodeTriggerParams(p),
		CallValue:        p.Amount.Int64(),
		FeeLimit:         100_000_000,
		Visible:          true,
	}, nil
}

// encodeTriggerParams ABI-encodes (receiver, hashlock, timelock) the way
// triggersmartcontract expects: concatenated 32-byte words, no selector.
func encodeTriggerParams(p *htlc.CreateParams) string {
	buf := make([]byte, 0, 96)
	buf = append(buf, leftPad(addressWord(p.Recipient), 32)...)
	buf = append(buf, p.Hashlock[:]...)
	timelock := make([]byte, 32)
	for i, shift := 31, p.Timelock; shift > 0 && i >= 0; i, shift = i-1, shift>>8 {
		timelock[i] = byte(shift & 0xff)
	}
	buf = append(buf, timelock...)
	return hex.EncodeToString(buf)
}

func addressWord(addr string) []byte {
	// Tron base58 addresses decode to 21 bytes with a 0x41 prefix; hex
	// forms are accepted verbatim. Either way the low 20 bytes go in the
	// word. Decoding failures yield a zero word, caught by the contract.
	b, err := hex.DecodeString(trimHexPrefix(addr))
	if err != nil || len(b) < 20 {
		return make([]byte, 20)
	}
	return b[len(b)-20:]
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "41") {
		if s[:2] == "0x" {
			return s[2:]
		}
	}
	return s
}

func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

func (t *Tron) CreateHTLC(_ context.Context, p *htlc.CreateParams) (string, error) {
	if _, err := t.BuildTriggerRequest(p, ""); err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyTron, Op: "buildTrigger", Err: err}
	}
	return "", unsupportedRawKey(chains.FamilyTron)
}
