package chainman

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
)

// Sui builds the programmable-transaction Move call for the fusion HTLC
// package. Submission needs a wallet signer this process does not hold.
type Sui struct {
	PackageID string
}

func (s *Sui) Family() chains.Family { return chains.FamilySui }

// MoveCall is the programmable-transaction step for create_htlc, with
// pure-encoded arguments.
type MoveCall struct {
	Target    string   `json:"target"`
	Arguments []string `json:"arguments"`
}

func (s *Sui) BuildCreateCall(p *htlc.CreateParams) (*MoveCall, error) {
	if err := validateCreate(p, chains.FamilySui); err != nil {
		return nil, err
	}
	if s.PackageID == "" {
		return nil, fmt.Errorf("sui: no HTLC package deployed")
	}
	return &MoveCall{
		Target: fmt.Sprintf("%s::fusion_htlc::create_htlc", s.PackageID),
		Arguments: []string{
			p.Recipient,
			p.Amount.String(),
			"0x" + hex.EncodeToString(p.Hashlock[:]),
			fmt.Sprintf("%d", p.Timelock),
		},
	}, nil
}

func (s *Sui) CreateHTLC(_ context.Context, p *htlc.CreateParams) (string, error) {
	if _, err := s.BuildCreateCall(p); err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilySui, Op: "buildCall", Err: err}
	}
	return "", unsupportedRawKey(chains.FamilySui)
}
