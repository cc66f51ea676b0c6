package chainman

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
	"github.com/unite-defi/fusion-go/wallet"
)

// TON sends the HTLC-creation message through the TON connect bridge, the
// same way Aptos swaps run: the browser wallet is the signing authority.
type TON struct {
	ContractAddress string
}

func (t *TON) Family() chains.Family { return chains.FamilyTON }

// Message is the wallet-bridge message for the HTLC contract. Amount is
// nanoTON carried by the message itself; Payload encodes the operation.
type Message struct {
	Address string     `json:"address"`
	Amount  string     `json:"amount"`
	Payload TonPayload `json:"payload"`
}

type TonPayload struct {
	Op        string `json:"op"`
	Recipient string `json:"recipient"`
	Hashlock  string `json:"hashlock"`
	Timelock  int64  `json:"timelock"`
}

func (t *TON) BuildMessage(p *htlc.CreateParams) (*Message, error) {
	if err := validateCreate(p, chains.FamilyTON); err != nil {
		return nil, err
	}
	if t.ContractAddress == "" {
		return nil, fmt.Errorf("ton: no HTLC contract deployed")
	}
	return &Message{
		Address: t.ContractAddress,
		Amount:  p.Amount.String(),
		Payload: TonPayload{
			Op:        "create_htlc",
			Recipient: p.Recipient,
			Hashlock:  p.Hashlock.Hex(),
			Timelock:  p.Timelock,
		},
	}, nil
}

func (t *TON) CreateHTLC(ctx context.Context, p *htlc.CreateParams) (string, error) {
	bridge := p.Credentials.Bridge
	if bridge == nil || !bridge.Connected() {
		return "", wallet.ErrNotConnected
	}

	msg, err := t.BuildMessage(p)
	if err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyTON, Op: "buildMessage", Err: err}
	}

	txHash, err := bridge.SignAndSubmit(ctx, msg)
	if err != nil {
		if err == wallet.ErrNotConnected {
			return "", err
		}
		return "", &htlc.ChainExecutionError{Family: chains.FamilyTON, Op: "signAndSubmit", Err: err}
	}

	logger.WithFields(logger.Fields{
		"txHash":   txHash,
		"contract": t.ContractAddress,
	}).Info("submitted TON HTLC")
	return txHash, nil
}
