package chainman

import (
	"context"
	"encoding/json"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
)

// Cosmos builds the MsgExecuteContract wrapping a create_htlc message,
// with the locked funds attached in the chain's base micro-denomination.
type Cosmos struct {
	ContractAddress string
	Denom           string // e.g. "uatom"
}

func (c *Cosmos) Family() chains.Family { return chains.FamilyCosmos }

type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type MsgExecuteContract struct {
	Sender   string          `json:"sender"`
	Contract string          `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    []Coin          `json:"funds"`
}

func (c *Cosmos) BuildExecuteMsg(p *htlc.CreateParams, sender string) (*MsgExecuteContract, error) {
	if err := validateCreate(p, chains.FamilyCosmos); err != nil {
		return nil, err
	}
	msg, err := json.Marshal(map[string]any{
		"create_htlc": map[string]any{
			"recipient": p.Recipient,
			"hashlock":  p.Hashlock.Hex(),
			"timelock":  p.Timelock,
		},
	})
	if err != nil {
		return nil, err
	}
	return &MsgExecuteContract{
		Sender:   sender,
		Contract: c.ContractAddress,
		Msg:      msg,
		Funds:    []Coin{{Denom: c.Denom, Amount: p.Amount.String()}},
	}, nil
}

func (c *Cosmos) CreateHTLC(_ context.Context, p *htlc.CreateParams) (string, error) {
	if _, err := c.BuildExecuteMsg(p, ""); err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyCosmos, Op: "buildMsg", Err: err}
	}
	return "", unsupportedRawKey(chains.FamilyCosmos)
}
