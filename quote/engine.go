// Package quote prices swaps. Same-chain EVM pairs go through the 1inch
// aggregator; cross-chain and non-EVM pairs are synthesized from USD
// reference prices.
package quote

import (
	"context"
	"math/big"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/unite-defi/fusion-go/aggregator"
	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/units"
)

// baseTimeSeconds is the fixed overhead added on top of both chains'
// finality when estimating swap duration.
const baseTimeSeconds = 60

// Request identifies the pair and amount to price.
type Request struct {
	FromChain chains.Ref
	ToChain   chains.Ref
	FromToken string
	ToToken   string
	Amount    string
}

// Quote is the priced result. Seq orders quotes within a session: the UI
// must only act on the highest Seq it has seen (last-write-wins by request
// order, not arrival time), so a stale slow response cannot overwrite a
// fresher fast one.
type Quote struct {
	ID         string `json:"id"`
	Seq        uint64 `json:"seq"`
	FromAmount string `json:"fromAmount"`
	ToAmount   string `json:"toAmount"`
	Rate       string `json:"rate"`

	// EstimatedGas sums the create-HTLC (source) and claim-HTLC
	// (destination) fee estimates. EstimatedTime is in seconds.
	EstimatedGas  string   `json:"estimatedGas"`
	EstimatedTime int      `json:"estimatedTime"`
	Route         []string `json:"route"`

	// Degraded marks a 1:1 fallback rate after a failed price lookup.
	// It is a low-confidence estimate, not an error.
	Degraded bool `json:"degraded"`
}

// PriceSource is the external USD price reference.
type PriceSource interface {
	Prices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// FeeEstimator supplies a live source-chain fee estimate in the chain's
// smallest units, from current gas prices.
type FeeEstimator interface {
	EstimateSwapFee(ctx context.Context, chainID int64) (*big.Int, error)
}

// Engine prices swap requests. Construct once and share; it holds no
// per-request state beyond the sequence counter.
type Engine struct {
	registry   *chains.Registry
	aggregator *aggregator.Client
	prices     PriceSource
	fees       FeeEstimator
	seq        atomic.Uint64
}

// NewEngine builds an engine. fees may be nil; EVM-side gas estimates then
// come from the static per-chain fee table alone.
func NewEngine(registry *chains.Registry, agg *aggregator.Client, prices PriceSource, fees FeeEstimator) *Engine {
	return &Engine{registry: registry, aggregator: agg, prices: prices, fees: fees}
}

// Supersedes reports whether quote a should replace quote b in the UI.
func Supersedes(a, b *Quote) bool {
	return b == nil || a.Seq > b.Seq
}

// GetQuote prices one request. Chain resolution and amount validation
// happen before any network call. A total price-lookup failure degrades to
// a flagged 1:1 rate rather than failing the request.
func (e *Engine) GetQuote(ctx context.Context, req *Request) (*Quote, error) {
	from, err := e.registry.Describe(req.FromChain)
	if err != nil {
		return nil, err
	}
	to, err := e.registry.Describe(req.ToChain)
	if err != nil {
		return nil, err
	}

	fromDecimals := chains.TokenDecimals(from, req.FromToken)
	amountUnits, err := units.ParsePositive(req.Amount, fromDecimals)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		ID:            uuid.NewString(),
		Seq:           e.seq.Add(1),
		FromAmount:    req.Amount,
		EstimatedGas:  e.estimatedGas(ctx, from, to),
		EstimatedTime: baseTimeSeconds + from.FinalitySeconds + to.FinalitySeconds,
	}

	if from == to && from.Family == chains.FamilyEVM {
		if err := e.aggregatorQuote(ctx, q, from, req, amountUnits); err != nil {
			return nil, err
		}
		q.Route = []string{from.Key, "1inch", to.Key}
		return q, nil
	}

	e.referenceQuote(ctx, q, from, to, req)
	q.Route = []string{from.Key, "fusion-htlc", to.Key}
	return q, nil
}

func (e *Engine) aggregatorQuote(ctx context.Context, q *Quote, d *chains.Descriptor, req *Request, amountUnits *big.Int) error {
	resp, err := e.aggregator.Quote(ctx, d.EVMID, aggregator.QuoteParams{
		Src:    tokenAddress(d, req.FromToken),
		Dst:    tokenAddress(d, req.ToToken),
		Amount: amountUnits.String(),
	})
	if err != nil {
		return err
	}

	dstUnits, ok := new(big.Int).SetString(resp.DstAmount, 10)
	if !ok {
		dstUnits = big.NewInt(0)
	}
	toDecimals := chains.TokenDecimals(d, req.ToToken)
	q.ToAmount = units.FromSmallestUnit(dstUnits, toDecimals)
	q.Rate = ratio(q.ToAmount, req.Amount)
	return nil
}

func (e *Engine) referenceQuote(ctx context.Context, q *Quote, from, to *chains.Descriptor, req *Request) {
	fromSym := tokenSymbol(from, req.FromToken)
	toSym := tokenSymbol(to, req.ToToken)

	prices, err := e.prices.Prices(ctx, []string{fromSym, toSym})
	if err != nil {
		logger.WithError(err).WithFields(logger.Fields{
			"from": fromSym, "to": toSym,
		}).Warn("price lookup failed, quoting 1:1")
	}
	pf, okF := prices[fromSym]
	pt, okT := prices[toSym]
	if err != nil || !okF || !okT || pf <= 0 || pt <= 0 {
		q.ToAmount = req.Amount
		q.Rate = "1"
		q.Degraded = true
		return
	}

	rate := new(big.Rat).Quo(floatRat(pf), floatRat(pt))
	amount, _ := new(big.Rat).SetString(req.Amount)
	out := new(big.Rat).Mul(amount, rate)

	toDecimals := chains.TokenDecimals(to, req.ToToken)
	q.ToAmount = ratString(out, toDecimals)
	q.Rate = ratString(rate, 8)
}

// estimatedGas sums the source-side create fee and the destination-side
// claim fee. An EVM source chain with a fee estimator gets a live estimate;
// everything else falls back to the static fee tables.
func (e *Engine) estimatedGas(ctx context.Context, from, to *chains.Descriptor) string {
	if e.fees != nil && from.Family == chains.FamilyEVM {
		fee, err := e.fees.EstimateSwapFee(ctx, from.EVMID)
		if err == nil {
			return sumFees(units.FromSmallestUnit(fee, from.NativeDecimals), to.ClaimFee)
		}
		logger.WithError(err).WithField("chain", from.Key).Debug("live fee estimate failed, using fee table")
	}
	return sumFees(from.CreateFee, to.ClaimFee)
}

// tokenAddress maps native-token requests to the aggregator's sentinel.
func tokenAddress(d *chains.Descriptor, token string) string {
	if chains.IsNativeToken(d, token) {
		return aggregator.NativeTokenAddress
	}
	return token
}

// tokenSymbol resolves a token identifier to the symbol the price
// reference understands. The price source keys its results by upper-cased
// symbol, so the lookup key is normalized the same way.
func tokenSymbol(d *chains.Descriptor, token string) string {
	if chains.IsNativeToken(d, token) {
		return strings.ToUpper(d.NativeSymbol)
	}
	return strings.ToUpper(token)
}

func sumFees(a, b string) string {
	ra, okA := new(big.Rat).SetString(a)
	rb, okB := new(big.Rat).SetString(b)
	if !okA || !okB {
		return "0"
	}
	return ratString(new(big.Rat).Add(ra, rb), 8)
}

func ratio(num, den string) string {
	rn, okN := new(big.Rat).SetString(num)
	rd, okD := new(big.Rat).SetString(den)
	if !okN || !okD || rd.Sign() == 0 {
		return "0"
	}
	return ratString(new(big.Rat).Quo(rn, rd), 8)
}

func floatRat(f float64) *big.Rat {
	return new(big.Rat).SetFloat64(f)
}

// ratString renders a rational with at most prec fractional digits,
// trailing zeros trimmed.
func ratString(r *big.Rat, prec int) string {
	s := r.FloatString(prec)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '0' {
			continue
		}
		if s[i] == '.' {
			return s[:i]
		}
		return s[:i+1]
	}
	return "0"
}
