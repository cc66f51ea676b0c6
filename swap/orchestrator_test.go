package swap

import (
	"context"
	"database/sql"
	"errors"
	"math/big"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/unite-defi/fusion-go/aggregator"
	"github.com/unite-defi/fusion-go/chainman"
	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
	"github.com/unite-defi/fusion-go/quote"
	"github.com/unite-defi/fusion-go/resolver"
	"github.com/unite-defi/fusion-go/state"
	"github.com/unite-defi/fusion-go/wallet"
)

const (
	testSender    = "0x1111111111111111111111111111111111111111"
	testRecipient = "0x2222222222222222222222222222222222222222"
	testKey       = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
)

type fixture struct {
	orchestrator *Orchestrator
	store        *state.StateDB
	remote       *SimulatedRemote
	log          *EventLog
	executors    map[chains.Family]*SimulatedExecutor
}

func newFixture(t *testing.T, cfg func(*Config)) *fixture {
	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	store, err := state.NewStateDB(sqlDB)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		store.Close()
		sqlDB.Close()
	})

	log := &EventLog{}
	remote := &SimulatedRemote{Log: log}
	executors := map[chains.Family]*SimulatedExecutor{}
	var list []htlc.Executor
	for _, fam := range []chains.Family{
		chains.FamilyEVM, chains.FamilyAptos, chains.FamilyNear, chains.FamilySui,
	} {
		ex := &SimulatedExecutor{ChainFamily: fam, TxRef: "0xlock-" + string(fam), Log: log}
		executors[fam] = ex
		list = append(list, ex)
	}

	c := Config{
		Registry:  chains.NewRegistry(),
		Quoter:    &SimulatedQuoter{Quote: &quote.Quote{ID: "q1", Seq: 1}},
		Executors: list,
		Store:     store,
		Remote:    remote,
		Now:       func() time.Time { return time.Unix(1_700_000_000, 0) },
	}
	if cfg != nil {
		cfg(&c)
	}
	o, err := NewOrchestrator(c)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{orchestrator: o, store: store, remote: remote, log: log, executors: executors}
}

func crossChainRequest() *Request {
	return &Request{
		FromChain:   chains.EVMRef(1),
		ToChain:     chains.NameRef("APTOS"),
		FromToken:   "",
		ToToken:     "",
		Amount:      "1.5",
		Sender:      testSender,
		Recipient:   testRecipient,
		Credentials: htlc.Credentials{EVMPrivateKey: testKey},
	}
}

func TestExecuteSwapCrossChain(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	assert.NoError(t, err)
	assert.Len(t, res.SwapID, 32)
	assert.Equal(t, "0xlock-EVM", res.TxHash)

	// lock strictly precedes any off-chain bookkeeping
	assert.Equal(t, []string{"lock", "post", "notify"}, f.log.Events())

	params := f.executors[chains.FamilyEVM].Params()
	assert.Len(t, params, 1)
	p := params[0]
	assert.Equal(t, "1500000000000000000", p.Amount.String())
	assert.Equal(t, int64(1_700_000_000+7200), p.Timelock)
	assert.Equal(t, testRecipient, p.Recipient)

	notes := f.remote.Notifications()
	assert.Len(t, notes, 1)
	n := notes[0]
	assert.Equal(t, res.SwapID, n.SwapID)
	assert.Equal(t, "ETHEREUM", n.FromChain)
	assert.Equal(t, "APTOS", n.ToChain)
	assert.Equal(t, "1500000000000000000", n.Amount)
	assert.Equal(t, testRecipient, n.Recipient)
	assert.Equal(t, p.Timelock, n.Timelock)
	// keccak on the EVM side, sha-256 on the Move side
	assert.NotEqual(t, n.HashlockFrom, n.HashlockTo)
	assert.Equal(t, p.Hashlock.Hex(), n.HashlockFrom)

	// local record holds the secret, remote copy never does
	local, ok, err := f.store.GetSwap(res.SwapID)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, state.StatusPending, local.Status)
	assert.Equal(t, res.TxHash, local.FromChainTx)
	assert.NotEmpty(t, local.Secret)
	assert.Equal(t, p.Timelock*1000, local.ExpiryTime)

	posted := f.remote.Statuses()
	assert.Len(t, posted, 1)
	assert.Empty(t, posted[0].Secret)
	assert.Equal(t, local.Hashlock, posted[0].Hashlock)
}

func TestExecuteSwapLockReceiverIsRequestRecipient(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	assert.NoError(t, err)
	assert.Equal(t, testRecipient, f.executors[chains.FamilyEVM].Params()[0].Recipient)

	// an omitted recipient falls back to the sender on both legs
	req := crossChainRequest()
	req.Recipient = ""
	_, err = f.orchestrator.ExecuteSwap(context.Background(), req)
	assert.NoError(t, err)
	params := f.executors[chains.FamilyEVM].Params()
	assert.Equal(t, testSender, params[1].Recipient)
	assert.Equal(t, testSender, f.remote.Notifications()[1].Recipient)
}

func TestExecuteSwapFreshMaterialPerSwap(t *testing.T) {
	f := newFixture(t, nil)

	a, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	assert.NoError(t, err)
	b, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	assert.NoError(t, err)

	assert.NotEqual(t, a.SwapID, b.SwapID)

	sa, _, _ := f.store.GetSwap(a.SwapID)
	sb, _, _ := f.store.GetSwap(b.SwapID)
	assert.NotEqual(t, sa.Secret, sb.Secret)
	assert.NotEqual(t, sa.Hashlock, sb.Hashlock)
}

func TestExecuteSwapSameHashWithinFamily(t *testing.T) {
	f := newFixture(t, nil)

	req := crossChainRequest()
	req.ToChain = chains.EVMRef(56) // ETHEREUM -> BSC, both keccak
	_, err := f.orchestrator.ExecuteSwap(context.Background(), req)
	assert.NoError(t, err)

	n := f.remote.Notifications()[0]
	assert.Equal(t, n.HashlockFrom, n.HashlockTo)
}

func TestExecuteSwapExecutorFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t, nil)
	f.executors[chains.FamilyEVM].Err = &htlc.ChainExecutionError{
		Family: chains.FamilyEVM, Op: "createHTLC", Err: errors.New("reverted"),
	}

	_, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	var chainErr *htlc.ChainExecutionError
	assert.ErrorAs(t, err, &chainErr)

	assert.Empty(t, f.log.Events())
	assert.Empty(t, f.remote.Notifications())
	assert.Empty(t, f.remote.Statuses())
	pending, _ := f.store.PendingSwaps()
	assert.Empty(t, pending)
}

func TestExecuteSwapEmptyTxRefIsAFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.executors[chains.FamilyEVM].TxRef = ""

	_, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	var chainErr *htlc.ChainExecutionError
	assert.ErrorAs(t, err, &chainErr)
	assert.Empty(t, f.remote.Notifications())
}

func TestExecuteSwapUnknownChain(t *testing.T) {
	f := newFixture(t, nil)

	req := crossChainRequest()
	req.ToChain = chains.NameRef("DOGECHAIN")
	_, err := f.orchestrator.ExecuteSwap(context.Background(), req)
	var unknown *chains.UnknownChainError
	assert.ErrorAs(t, err, &unknown)
	assert.Empty(t, f.log.Events())
}

func TestExecuteSwapMissingCredentials(t *testing.T) {
	f := newFixture(t, nil)

	var missing *MissingCredentialError

	req := crossChainRequest()
	req.Credentials = htlc.Credentials{}
	_, err := f.orchestrator.ExecuteSwap(context.Background(), req)
	assert.ErrorAs(t, err, &missing)

	// Aptos needs a connected bridge, not a raw key
	req = crossChainRequest()
	req.FromChain = chains.NameRef("APTOS")
	req.ToChain = chains.EVMRef(1)
	req.Credentials = htlc.Credentials{PrivateKey: "raw"}
	_, err = f.orchestrator.ExecuteSwap(context.Background(), req)
	assert.ErrorAs(t, err, &missing)

	bridge := wallet.NewSimulatedBridge("0xaptos")
	bridge.Disconnect()
	req.Credentials = htlc.Credentials{Bridge: bridge}
	_, err = f.orchestrator.ExecuteSwap(context.Background(), req)
	assert.ErrorAs(t, err, &missing)

	// NEAR takes an explicit key
	req = crossChainRequest()
	req.FromChain = chains.NameRef("NEAR")
	req.ToChain = chains.EVMRef(1)
	req.Amount = "2"
	req.Credentials = htlc.Credentials{}
	_, err = f.orchestrator.ExecuteSwap(context.Background(), req)
	assert.ErrorAs(t, err, &missing)

	assert.Empty(t, f.log.Events())
}

func TestExecuteSwapNoExecutorForFamily(t *testing.T) {
	f := newFixture(t, nil)

	req := crossChainRequest()
	req.FromChain = chains.NameRef("TON")
	req.ToChain = chains.EVMRef(1)
	req.Credentials = htlc.Credentials{Bridge: wallet.NewSimulatedBridge("ton-wallet")}
	_, err := f.orchestrator.ExecuteSwap(context.Background(), req)
	var unsupported *htlc.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
}

func TestExecuteSwapSolanaUnsupported(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.Executors = append(c.Executors, &chainman.Solana{})
	})

	req := crossChainRequest()
	req.FromChain = chains.NameRef("SOLANA")
	req.ToChain = chains.EVMRef(1)
	req.Amount = "1"
	req.Credentials = htlc.Credentials{}
	_, err := f.orchestrator.ExecuteSwap(context.Background(), req)
	var unsupported *htlc.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
	assert.Empty(t, f.log.Events())
}

func TestExecuteSwapSharedHashlockGuard(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.RequireSharedHashlock = true })

	_, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	var mismatch *HashAlgorithmMismatchError
	assert.ErrorAs(t, err, &mismatch)
	assert.Empty(t, f.log.Events())

	// compatible pairs still pass
	req := crossChainRequest()
	req.ToChain = chains.EVMRef(137)
	_, err = f.orchestrator.ExecuteSwap(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecuteSwapPostLockPersistenceFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.remote.PostErr = errors.New("backend down")

	res, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	// funds are locked: the caller gets the result and the error
	assert.NotNil(t, res)
	assert.NotEmpty(t, res.SwapID)
	var persist *resolver.PersistenceError
	assert.ErrorAs(t, err, &persist)

	// the local record still exists
	_, ok, dbErr := f.store.GetSwap(res.SwapID)
	assert.NoError(t, dbErr)
	assert.True(t, ok)
}

func TestExecuteSwapNotifyFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.remote.NotifyErr = errors.New("resolver down")

	res, err := f.orchestrator.ExecuteSwap(context.Background(), crossChainRequest())
	assert.NotNil(t, res)
	assert.Error(t, err)
	assert.Equal(t, []string{"lock", "post"}, f.log.Events())
}

func TestExecuteSwapSameChainFastPath(t *testing.T) {
	agg := &fakeAggregator{
		spender: "0x3333333333333333333333333333333333333333",
		resp: &aggregator.SwapResponse{
			DstAmount: "987",
			Tx:        aggregator.SwapTx{To: "0xrouter", Data: "0xdead", Value: "0", Gas: 210000},
		},
	}
	sub := &fakeSubmitter{txHash: "0xfastpath"}
	f := newFixture(t, func(c *Config) {
		c.Aggregator = agg
		c.EVM = sub
	})

	req := crossChainRequest()
	req.ToChain = chains.EVMRef(1)
	req.FromToken = "USDC"
	req.ToToken = "" // native out
	req.Amount = "250"
	res, err := f.orchestrator.ExecuteSwap(context.Background(), req)
	assert.NoError(t, err)
	assert.Empty(t, res.SwapID)
	assert.Equal(t, "0xfastpath", res.TxHash)

	// USDC has 6 decimals; native side maps to the aggregator sentinel
	assert.Equal(t, "250000000", agg.gotParams.Amount)
	assert.Equal(t, "USDC", agg.gotParams.Src)
	assert.Equal(t, aggregator.NativeTokenAddress, agg.gotParams.Dst)
	assert.Equal(t, agg.spender, sub.gotSpender)
	assert.Equal(t, "USDC", sub.gotToken)

	// no HTLC machinery ran
	assert.Empty(t, f.executors[chains.FamilyEVM].Params())
	assert.Empty(t, f.remote.Notifications())
}

func TestExecuteSwapSameChainNeedsAggregator(t *testing.T) {
	f := newFixture(t, nil)

	req := crossChainRequest()
	req.ToChain = chains.EVMRef(1)
	_, err := f.orchestrator.ExecuteSwap(context.Background(), req)
	var unsupported *htlc.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
}

func TestGetSwapStatusFallsBackToRemote(t *testing.T) {
	f := newFixture(t, nil)

	remoteOnly := state.RandSwapStatus(state.StatusCompleted)
	assert.NoError(t, f.remote.PostStatus(context.Background(), remoteOnly))

	got, err := f.orchestrator.GetSwapStatus(context.Background(), remoteOnly.SwapID)
	assert.NoError(t, err)
	assert.Equal(t, remoteOnly.SwapID, got.SwapID)

	_, err = f.orchestrator.GetSwapStatus(context.Background(), "missing-everywhere")
	assert.Error(t, err)
}

func TestGetSwapQuoteDelegates(t *testing.T) {
	f := newFixture(t, nil)

	q, err := f.orchestrator.GetSwapQuote(context.Background(), &quote.Request{
		FromChain: chains.EVMRef(1),
		ToChain:   chains.NameRef("APTOS"),
		Amount:    "1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "q1", q.ID)
}

type fakeAggregator struct {
	spender   string
	resp      *aggregator.SwapResponse
	gotParams aggregator.SwapParams
}

func (f *fakeAggregator) ApproveSpender(_ context.Context, _ int64) (string, error) {
	return f.spender, nil
}

func (f *fakeAggregator) BuildSwap(_ context.Context, _ int64, p aggregator.SwapParams) (*aggregator.SwapResponse, error) {
	f.gotParams = p
	return f.resp, nil
}

type fakeSubmitter struct {
	txHash     string
	gotSpender string
	gotToken   string
}

func (f *fakeSubmitter) SubmitPrebuiltSwap(_ context.Context, _ int64, _ *aggregator.SwapTx, token, spender string, _ *big.Int, _ string) (string, error) {
	f.gotToken = token
	f.gotSpender = spender
	return f.txHash, nil
}
