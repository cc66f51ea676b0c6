// Package swap orchestrates cross-chain atomic swaps: secret and hashlock
// generation, source-chain HTLC creation through the chain-family
// executors, status persistence and resolver hand-off. Same-chain EVM
// pairs bypass the HTLC machinery entirely and go through the aggregator.
package swap

import (
	"context"
	"fmt"
	"math/big"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/unite-defi/fusion-go/aggregator"
	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
	"github.com/unite-defi/fusion-go/metrics"
	"github.com/unite-defi/fusion-go/quote"
	"github.com/unite-defi/fusion-go/resolver"
	"github.com/unite-defi/fusion-go/state"
	"github.com/unite-defi/fusion-go/units"
)

// defaultSlippage is the percent slippage passed to the aggregator when
// the caller does not set one.
const defaultSlippage = 1.0

// Quoter prices swap requests.
type Quoter interface {
	GetQuote(ctx context.Context, req *quote.Request) (*quote.Quote, error)
}

// RemoteStore is the off-chain side of a swap: the resolver hand-off and
// the shared status backend.
type RemoteStore interface {
	Notify(ctx context.Context, n *resolver.Notification) error
	PostStatus(ctx context.Context, s *state.SwapStatus) error
	GetStatus(ctx context.Context, swapID string) (*state.SwapStatus, error)
}

// AggregatorAPI is the slice of the 1inch client the fast path uses.
type AggregatorAPI interface {
	ApproveSpender(ctx context.Context, chainID int64) (string, error)
	BuildSwap(ctx context.Context, chainID int64, p aggregator.SwapParams) (*aggregator.SwapResponse, error)
}

// PrebuiltSubmitter signs and sends aggregator-built transactions.
type PrebuiltSubmitter interface {
	SubmitPrebuiltSwap(ctx context.Context, chainID int64, swapTx *aggregator.SwapTx, token, spender string, amount *big.Int, privateKey string) (string, error)
}

// Request describes one swap to execute.
type Request struct {
	FromChain chains.Ref
	ToChain   chains.Ref
	FromToken string
	ToToken   string
	Amount    string

	Sender    string
	Recipient string // defaults to Sender

	// Slippage is percent tolerance for the same-chain fast path.
	Slippage float64

	Credentials htlc.Credentials
}

// Result reports what was submitted. Cross-chain swaps carry both the
// correlation id and the source-chain lock transaction; same-chain fast
// path swaps carry only the transaction hash.
type Result struct {
	SwapID string `json:"swapId,omitempty"`
	TxHash string `json:"txHash"`
}

// Config wires an Orchestrator. Registry, Quoter, Executors, Store and
// Remote are required; Aggregator and EVM only if the fast path is wanted.
type Config struct {
	Registry  *chains.Registry
	Quoter    Quoter
	Executors []htlc.Executor
	Store     *state.StateDB
	Remote    RemoteStore

	Aggregator AggregatorAPI
	EVM        PrebuiltSubmitter

	// RequireSharedHashlock rejects pairs whose chains hash preimages
	// differently. Only needed for resolvers that cannot handle a
	// per-side hashlock.
	RequireSharedHashlock bool

	Now func() time.Time
}

type Orchestrator struct {
	cfg       Config
	executors map[chains.Family]htlc.Executor
	now       func() time.Time
}

func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Registry == nil || cfg.Quoter == nil || cfg.Store == nil || cfg.Remote == nil {
		return nil, fmt.Errorf("registry, quoter, store and remote are required")
	}
	executors := make(map[chains.Family]htlc.Executor, len(cfg.Executors))
	for _, ex := range cfg.Executors {
		if _, dup := executors[ex.Family()]; dup {
			return nil, fmt.Errorf("duplicate executor for family %s", ex.Family())
		}
		executors[ex.Family()] = ex
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{cfg: cfg, executors: executors, now: now}, nil
}

// GetSwapQuote prices a request.
func (o *Orchestrator) GetSwapQuote(ctx context.Context, req *quote.Request) (*quote.Quote, error) {
	q, err := o.cfg.Quoter.GetQuote(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.QuotesServed.Inc()
	if q.Degraded {
		metrics.QuotesDegraded.Inc()
	}
	return q, nil
}

// ExecuteSwap runs one swap end to end up to the source-chain lock.
//
// Nothing is persisted and no resolver is notified until the source chain
// has accepted the lock and returned a transaction reference; a failure
// before that point leaves no trace anywhere. After the lock, bookkeeping
// failures are reported alongside a non-nil Result: funds are locked
// on-chain even though the off-chain record is incomplete.
func (o *Orchestrator) ExecuteSwap(ctx context.Context, req *Request) (*Result, error) {
	from, err := o.cfg.Registry.Describe(req.FromChain)
	if err != nil {
		return nil, err
	}
	to, err := o.cfg.Registry.Describe(req.ToChain)
	if err != nil {
		return nil, err
	}

	amount, err := units.ParsePositive(req.Amount, chains.TokenDecimals(from, req.FromToken))
	if err != nil {
		return nil, err
	}
	if err := o.checkCredentials(from, &req.Credentials); err != nil {
		metrics.SwapsFailed.WithLabelValues(string(from.Family)).Inc()
		return nil, err
	}

	if from == to && from.Family == chains.FamilyEVM {
		return o.executeSameChain(ctx, from, req, amount)
	}
	return o.executeCrossChain(ctx, from, to, req, amount)
}

// GetSwapStatus reads the local record first and falls back to the shared
// backend, so a swap initiated elsewhere is still visible here.
func (o *Orchestrator) GetSwapStatus(ctx context.Context, swapID string) (*state.SwapStatus, error) {
	s, ok, err := o.cfg.Store.GetSwap(swapID)
	if err != nil {
		return nil, err
	}
	if ok {
		return s, nil
	}
	return o.cfg.Remote.GetStatus(ctx, swapID)
}

// RunExpiry periodically flips overdue PENDING records to EXPIRED until
// the context is cancelled.
func (o *Orchestrator) RunExpiry(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := o.cfg.Store.ExpireOverdue(o.now())
			if err != nil {
				logger.WithError(err).Error("expiry sweep failed")
				continue
			}
			if n > 0 {
				logger.WithField("expired", n).Info("marked overdue swaps expired")
			}
		}
	}
}

func (o *Orchestrator) executeSameChain(ctx context.Context, d *chains.Descriptor, req *Request, amount *big.Int) (*Result, error) {
	if o.cfg.Aggregator == nil || o.cfg.EVM == nil {
		return nil, &htlc.UnsupportedOperationError{
			Family: d.Family, Reason: "same-chain swaps need the aggregator configured",
		}
	}

	spender, err := o.cfg.Aggregator.ApproveSpender(ctx, d.EVMID)
	if err != nil {
		metrics.SwapsFailed.WithLabelValues(string(d.Family)).Inc()
		return nil, err
	}

	slippage := req.Slippage
	if slippage <= 0 {
		slippage = defaultSlippage
	}
	src := req.FromToken
	if chains.IsNativeToken(d, src) {
		src = aggregator.NativeTokenAddress
	}
	dst := req.ToToken
	if chains.IsNativeToken(d, dst) {
		dst = aggregator.NativeTokenAddress
	}

	built, err := o.cfg.Aggregator.BuildSwap(ctx, d.EVMID, aggregator.SwapParams{
		Src:      src,
		Dst:      dst,
		Amount:   amount.String(),
		From:     req.Sender,
		Slippage: slippage,
		Receiver: req.Recipient,
	})
	if err != nil {
		metrics.SwapsFailed.WithLabelValues(string(d.Family)).Inc()
		return nil, err
	}

	token := ""
	if src != aggregator.NativeTokenAddress {
		token = src
	}
	txHash, err := o.cfg.EVM.SubmitPrebuiltSwap(ctx, d.EVMID, &built.Tx, token, spender, amount, req.Credentials.EVMPrivateKey)
	if err != nil {
		metrics.SwapsFailed.WithLabelValues(string(d.Family)).Inc()
		return nil, err
	}

	metrics.SwapsExecuted.WithLabelValues(string(d.Family)).Inc()
	logger.WithFields(logger.Fields{
		"chain":  d.Key,
		"txHash": txHash,
	}).Info("submitted same-chain swap")
	return &Result{TxHash: txHash}, nil
}

func (o *Orchestrator) executeCrossChain(ctx context.Context, from, to *chains.Descriptor, req *Request, amount *big.Int) (*Result, error) {
	if o.cfg.RequireSharedHashlock && !chains.HashCompatible(from, to) {
		return nil, &HashAlgorithmMismatchError{From: from, To: to}
	}
	executor, ok := o.executors[from.Family]
	if !ok {
		return nil, &htlc.UnsupportedOperationError{
			Family: from.Family, Reason: "no executor registered",
		}
	}

	secret, err := htlc.NewSecret()
	if err != nil {
		return nil, err
	}
	hashlockFrom := htlc.HashFor(secret, from)
	hashlockTo := htlc.HashFor(secret, to)

	swapID, err := htlc.NewSwapID()
	if err != nil {
		return nil, err
	}
	timelock := htlc.NewTimelock(o.now())

	recipient := req.Recipient
	if recipient == "" {
		recipient = req.Sender
	}

	log := logger.WithFields(logger.Fields{
		"swapId": swapID,
		"from":   from.Key,
		"to":     to.Key,
	})
	log.Info("creating source-chain HTLC")

	txRef, err := executor.CreateHTLC(ctx, &htlc.CreateParams{
		Chain:       from,
		Token:       req.FromToken,
		Recipient:   recipient,
		Amount:      amount,
		Hashlock:    hashlockFrom,
		Timelock:    timelock,
		Credentials: req.Credentials,
	})
	if err != nil {
		metrics.SwapsFailed.WithLabelValues(string(from.Family)).Inc()
		return nil, err
	}
	if txRef == "" {
		metrics.SwapsFailed.WithLabelValues(string(from.Family)).Inc()
		return nil, &htlc.ChainExecutionError{
			Family: from.Family, Op: "createHTLC",
			Err: fmt.Errorf("executor reported success without a transaction reference"),
		}
	}
	metrics.SwapsExecuted.WithLabelValues(string(from.Family)).Inc()
	log.WithField("fromChainTx", txRef).Info("source-chain HTLC created")

	status := &state.SwapStatus{
		SwapID:      swapID,
		Status:      state.StatusPending,
		FromChainTx: txRef,
		Timestamp:   o.now().UnixMilli(),
		Secret:      secret.Hex(),
		Hashlock:    hashlockFrom.Hex(),
		ExpiryTime:  timelock * 1000,
	}

	var bookkeeping error
	if err := o.cfg.Store.InsertSwap(status); err != nil {
		bookkeeping = &resolver.PersistenceError{Op: "local status insert", Err: err}
	}

	// The shared backend never sees the secret before reveal.
	remote := *status
	remote.Secret = ""
	if err := o.cfg.Remote.PostStatus(ctx, &remote); err != nil {
		bookkeeping = err
	}

	if err := o.cfg.Remote.Notify(ctx, &resolver.Notification{
		SwapID:       swapID,
		FromChain:    from.Key,
		ToChain:      to.Key,
		FromToken:    req.FromToken,
		ToToken:      req.ToToken,
		Amount:       amount.String(),
		Recipient:    recipient,
		HashlockFrom: hashlockFrom.Hex(),
		HashlockTo:   hashlockTo.Hex(),
		Timelock:     timelock,
	}); err != nil {
		bookkeeping = err
	}

	if bookkeeping != nil {
		metrics.PersistenceFailures.Inc()
		log.WithError(bookkeeping).Error("swap locked on-chain but bookkeeping failed")
		return &Result{SwapID: swapID, TxHash: txRef}, bookkeeping
	}
	return &Result{SwapID: swapID, TxHash: txRef}, nil
}

// checkCredentials fails fast when the source family's signing material is
// missing, before any hashlock or network work.
func (o *Orchestrator) checkCredentials(from *chains.Descriptor, c *htlc.Credentials) error {
	switch from.Family {
	case chains.FamilyEVM:
		if c.EVMPrivateKey == "" {
			return &MissingCredentialError{Family: from.Family, Need: "a hex private key"}
		}
	case chains.FamilyAptos, chains.FamilyTON:
		if c.Bridge == nil || !c.Bridge.Connected() {
			return &MissingCredentialError{Family: from.Family, Need: "a connected wallet bridge"}
		}
	case chains.FamilySolana:
		// Rejected by the executor; no credential shape is defined yet.
	default:
		if c.PrivateKey == "" {
			return &MissingCredentialError{Family: from.Family, Need: "an explicit private key"}
		}
	}
	return nil
}
