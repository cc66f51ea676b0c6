package reporter

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
	"github.com/unite-defi/fusion-go/quote"
	"github.com/unite-defi/fusion-go/state"
	"github.com/unite-defi/fusion-go/swap"
)

const testEVMKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func newTestReporter(t *testing.T) (*HttpReporter, *gin.Engine, *state.StateDB) {
	gin.SetMode(gin.TestMode)

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	statedb, err := state.NewStateDB(sqlDB)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		statedb.Close()
		sqlDB.Close()
	})

	registry := chains.NewRegistry()
	orchestrator, err := swap.NewOrchestrator(swap.Config{
		Registry: registry,
		Quoter: &swap.SimulatedQuoter{Quote: &quote.Quote{
			ID: "q-test", Seq: 1, FromAmount: "1", ToAmount: "300", Rate: "300",
		}},
		Executors: []htlc.Executor{
			&swap.SimulatedExecutor{ChainFamily: chains.FamilyEVM, TxRef: "0xlocked"},
		},
		Store:  statedb,
		Remote: &swap.SimulatedRemote{},
		Now:    func() time.Time { return time.Unix(1_700_000_000, 0) },
	})
	if err != nil {
		t.Fatal(err)
	}

	h := NewHttpReporter("127.0.0.1", "0", orchestrator, registry, statedb)
	return h, h.SetupRouter(), statedb
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthRoute(t *testing.T) {
	_, router, _ := newTestReporter(t)

	w := doJSON(router, http.MethodGet, ROUTE_HEALTH, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestChainsRoute(t *testing.T) {
	_, router, _ := newTestReporter(t)

	w := doJSON(router, http.MethodGet, ROUTE_CHAINS, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ETHEREUM")
	assert.Contains(t, w.Body.String(), "APTOS")
}

func TestQuoteRoute(t *testing.T) {
	_, router, _ := newTestReporter(t)

	w := doJSON(router, http.MethodPost, ROUTE_QUOTE, map[string]any{
		"fromChain": 1,
		"toChain":   "APTOS",
		"amount":    "1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var q quote.Quote
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, "q-test", q.ID)
	assert.Equal(t, "300", q.Rate)
}

func TestQuoteRouteRejectsBadChain(t *testing.T) {
	_, router, _ := newTestReporter(t)

	w := doJSON(router, http.MethodPost, ROUTE_QUOTE, map[string]any{
		"fromChain": true,
		"toChain":   "APTOS",
		"amount":    "1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSwapRoute(t *testing.T) {
	_, router, statedb := newTestReporter(t)

	w := doJSON(router, http.MethodPost, ROUTE_SWAP, map[string]any{
		"fromChain":  1,
		"toChain":    "APTOS",
		"amount":     "1.5",
		"sender":     "0x1111111111111111111111111111111111111111",
		"recipient":  "0xaptosrecipient",
		"privateKey": testEVMKey,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var res swap.Result
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.SwapID)
	assert.Equal(t, "0xlocked", res.TxHash)

	_, ok, err := statedb.GetSwap(res.SwapID)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestSwapRouteErrorMapping(t *testing.T) {
	_, router, _ := newTestReporter(t)

	// unknown chain -> 400
	w := doJSON(router, http.MethodPost, ROUTE_SWAP, map[string]any{
		"fromChain":  "DOGECHAIN",
		"toChain":    "APTOS",
		"amount":     "1",
		"sender":     "0x1111111111111111111111111111111111111111",
		"privateKey": testEVMKey,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing credentials -> 400
	w = doJSON(router, http.MethodPost, ROUTE_SWAP, map[string]any{
		"fromChain": 1,
		"toChain":   "APTOS",
		"amount":    "1",
		"sender":    "0x1111111111111111111111111111111111111111",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// no executor for the family -> 501
	w = doJSON(router, http.MethodPost, ROUTE_SWAP, map[string]any{
		"fromChain":  "NEAR",
		"toChain":    1,
		"amount":     "1",
		"sender":     "sender.near",
		"privateKey": "ed25519:key",
	})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestStatusRoutes(t *testing.T) {
	_, router, _ := newTestReporter(t)

	record := state.RandSwapStatus(state.StatusPending)
	w := doJSON(router, http.MethodPost, ROUTE_STATUS, record)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/status/"+record.SwapID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got state.SwapStatus
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, record.SwapID, got.SwapID)

	// posting again updates in place
	record.Status = state.StatusCompleted
	record.ToChainTx = "0xclaimed"
	w = doJSON(router, http.MethodPost, ROUTE_STATUS, record)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/status/"+record.SwapID, nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, state.StatusCompleted, got.Status)
	assert.Equal(t, "0xclaimed", got.ToChainTx)

	w = doJSON(router, http.MethodGet, "/status/unknown-swap", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotifyInbox(t *testing.T) {
	_, router, _ := newTestReporter(t)

	w := doJSON(router, http.MethodPost, ROUTE_NOTIFY, map[string]any{
		"swapId":       "abc123",
		"fromChain":    "ETHEREUM",
		"toChain":      "APTOS",
		"amount":       "1500000000000000000",
		"recipient":    "0xr",
		"hashlockFrom": "0xaaaa",
		"hashlockTo":   "0xbbbb",
		"timelock":     1700007200,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, ROUTE_NOTIFICATIONS, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abc123")
	assert.Contains(t, w.Body.String(), "0xbbbb")
}
