package chainman

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
)

// Near builds the create_htlc function call on the NEAR HTLC account.
// The locked amount travels as the attached deposit in yoctoNEAR.
type Near struct {
	ContractID string
}

func (n *Near) Family() chains.Family { return chains.FamilyNear }

// FunctionCall is the NEAR action this leg would attach to a transaction.
// Args is the base64 of the JSON argument object, Deposit is yoctoNEAR.
type FunctionCall struct {
	ContractID string `json:"contractId"`
	MethodName string `json:"methodName"`
	Args       string `json:"args"`
	Deposit    string `json:"deposit"`
	Gas        string `json:"gas"`
}

func (n *Near) BuildCreateCall(p *htlc.CreateParams) (*FunctionCall, error) {
	if err := validateCreate(p, chains.FamilyNear); err != nil {
		return nil, err
	}
	args, err := json.Marshal(map[string]any{
		"receiver_id": p.Recipient,
		"hashlock":    p.Hashlock.Hex(),
		"timelock":    p.Timelock,
	})
	if err != nil {
		return nil, err
	}
	return &FunctionCall{
		ContractID: n.ContractID,
		MethodName: "create_htlc",
		Args:       base64.StdEncoding.EncodeToString(args),
		Deposit:    p.Amount.String(),
		Gas:        "30000000000000",
	}, nil
}

func (n *Near) CreateHTLC(_ context.Context, p *htlc.CreateParams) (string, error) {
	if _, err := n.BuildCreateCall(p); err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyNear, Op: "buildCall", Err: err}
	}
	return "", unsupportedRawKey(chains.FamilyNear)
}
