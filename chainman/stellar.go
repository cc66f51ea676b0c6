package chainman

import (
	"context"
	"strconv"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
)

// Stellar builds a two-operation transaction: an invokeContractFunction
// for create_htlc plus a companion native-asset payment carrying the
// amount. Keypair signing is not implemented here.
type Stellar struct {
	ContractID string
}

func (s *Stellar) Family() chains.Family { return chains.FamilyStellar }

type InvokeOperation struct {
	Contract string   `json:"contract"`
	Function string   `json:"function"`
	Args     []string `json:"args"`
}

type PaymentOperation struct {
	Destination string `json:"destination"`
	Asset       string `json:"asset"`
	Amount      string `json:"amount"` // stroops
}

type StellarTx struct {
	Invoke  InvokeOperation  `json:"invoke"`
	Payment PaymentOperation `json:"payment"`
}

func (s *Stellar) BuildCreateTx(p *htlc.CreateParams) (*StellarTx, error) {
	if err := validateCreate(p, chains.FamilyStellar); err != nil {
		return nil, err
	}
	return &StellarTx{
		Invoke: InvokeOperation{
			Contract: s.ContractID,
			Function: "create_htlc",
			Args: []string{
				p.Recipient,
				p.Hashlock.Hex(),
				strconv.FormatInt(p.Timelock, 10),
			},
		},
		Payment: PaymentOperation{
			Destination: s.ContractID,
			Asset:       "native",
			Amount:      p.Amount.String(),
		},
	}, nil
}

func (s *Stellar) CreateHTLC(_ context.Context, p *htlc.CreateParams) (string, error) {
	if _, err := s.BuildCreateTx(p); err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyStellar, Op: "buildTx", Err: err}
	}
	return "", unsupportedRawKey(chains.FamilyStellar)
}
