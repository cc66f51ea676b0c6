// This is the http surface of the swap service.
// It exposes quoting, swap execution and status lookups,
// and can also play the status-backend role for other clients.

package reporter

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
	"github.com/unite-defi/fusion-go/quote"
	"github.com/unite-defi/fusion-go/resolver"
	"github.com/unite-defi/fusion-go/state"
	"github.com/unite-defi/fusion-go/swap"
	"github.com/unite-defi/fusion-go/units"
)

const (
	ROUTE_HEALTH        = "/health"
	ROUTE_CHAINS        = "/chains"
	ROUTE_QUOTE         = "/quote"
	ROUTE_SWAP          = "/swap"
	ROUTE_STATUS        = "/status"
	ROUTE_STATUS_BY_ID  = "/status/:swapId"
	ROUTE_NOTIFY        = "/resolver/notify"
	ROUTE_NOTIFICATIONS = "/resolver/notifications"
	ROUTE_METRICS       = "/metrics"
)

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	// upstream data sources
	orchestrator *swap.Orchestrator
	registry     *chains.Registry
	statedb      *state.StateDB

	// inbox of notifications received while playing the backend role
	mu    sync.Mutex
	inbox []resolver.Notification
}

func NewHttpReporter(serverIP, serverPort string, orchestrator *swap.Orchestrator, registry *chains.Registry, statedb *state.StateDB) *HttpReporter {
	return &HttpReporter{
		serverIP:     serverIP,
		serverPort:   serverPort,
		orchestrator: orchestrator,
		registry:     registry,
		statedb:      statedb,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET(ROUTE_HEALTH, Health)
	router.GET(ROUTE_CHAINS, h.Chains)
	router.POST(ROUTE_QUOTE, h.Quote)
	router.POST(ROUTE_SWAP, h.Swap)
	router.GET(ROUTE_STATUS_BY_ID, h.Status)
	router.POST(ROUTE_STATUS, h.RecordStatus)
	router.POST(ROUTE_NOTIFY, h.Notify)
	router.GET(ROUTE_NOTIFICATIONS, h.Notifications)
	router.GET(ROUTE_METRICS, gin.WrapH(promhttp.Handler()))

	return router
}

// Hook up router & ip:port
func (h *HttpReporter) Run() error {
	router := h.SetupRouter()
	address := h.serverIP + ":" + h.serverPort
	return router.Run(address)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Chains lists the registered chain keys.
func (h *HttpReporter) Chains(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": h.registry.Keys()})
}

type quoteBody struct {
	FromChain any    `json:"fromChain"`
	ToChain   any    `json:"toChain"`
	FromToken string `json:"fromToken"`
	ToToken   string `json:"toToken"`
	Amount    string `json:"amount"`
}

func (h *HttpReporter) Quote(c *gin.Context) {
	var body quoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fromRef, err := toRef(body.FromChain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	toChainRef, err := toRef(body.ToChain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.orchestrator.GetSwapQuote(c.Request.Context(), &quote.Request{
		FromChain: fromRef,
		ToChain:   toChainRef,
		FromToken: body.FromToken,
		ToToken:   body.ToToken,
		Amount:    body.Amount,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, q)
}

type swapBody struct {
	quoteBody

	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Slippage  float64 `json:"slippage"`

	// PrivateKey signs over this surface; bridge-wallet families cannot
	// be driven over HTTP and are rejected with a credential error.
	PrivateKey string `json:"privateKey"`
}

func (h *HttpReporter) Swap(c *gin.Context) {
	var body swapBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fromRef, err := toRef(body.FromChain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	toChainRef, err := toRef(body.ToChain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.orchestrator.ExecuteSwap(c.Request.Context(), &swap.Request{
		FromChain: fromRef,
		ToChain:   toChainRef,
		FromToken: body.FromToken,
		ToToken:   body.ToToken,
		Amount:    body.Amount,
		Sender:    body.Sender,
		Recipient: body.Recipient,
		Slippage:  body.Slippage,
		Credentials: htlc.Credentials{
			EVMPrivateKey: body.PrivateKey,
			PrivateKey:    body.PrivateKey,
		},
	})
	if err != nil {
		if res != nil {
			// Locked on-chain, bookkeeping incomplete. Report both.
			c.JSON(http.StatusAccepted, gin.H{"result": res, "warning": err.Error()})
			return
		}
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *HttpReporter) Status(c *gin.Context) {
	swapID := c.Param("swapId")
	if swapID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "swapId must be provided"})
		return
	}
	s, err := h.orchestrator.GetSwapStatus(c.Request.Context(), swapID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

// RecordStatus accepts a status record from another client, making this
// node usable as the shared backend.
func (h *HttpReporter) RecordStatus(c *gin.Context) {
	var s state.SwapStatus
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.SwapID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "swapId must be provided"})
		return
	}

	if _, ok, err := h.statedb.GetSwap(s.SwapID); err == nil && ok {
		err = h.statedb.UpdateStatus(s.SwapID, s.Status, s.ToChainTx, s.Secret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": s.SwapID})
		return
	}
	if err := h.statedb.InsertSwap(&s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": s.SwapID})
}

// Notify is the resolver-side inbox, kept so two of these nodes can talk
// to each other in integration setups.
func (h *HttpReporter) Notify(c *gin.Context) {
	var n resolver.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mu.Lock()
	h.inbox = append(h.inbox, n)
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"accepted": n.SwapID})
}

func (h *HttpReporter) Notifications(c *gin.Context) {
	h.mu.Lock()
	out := make([]resolver.Notification, len(h.inbox))
	copy(out, h.inbox)
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// toRef accepts a chain as a numeric EVM chain id or a name string.
func toRef(v any) (chains.Ref, error) {
	switch t := v.(type) {
	case float64:
		return chains.EVMRef(int64(t)), nil
	case string:
		if id, err := strconv.ParseInt(t, 10, 64); err == nil {
			return chains.EVMRef(id), nil
		}
		return chains.NameRef(t), nil
	default:
		return chains.Ref{}, errors.New("chain must be a chain id or a chain name")
	}
}

// statusForError maps the known error families onto http statuses.
func statusForError(err error) int {
	var (
		unknownChain *chains.UnknownChainError
		badAmount    *units.InvalidAmountError
		unsupported  *htlc.UnsupportedOperationError
		missingCreds *swap.MissingCredentialError
		mismatch     *swap.HashAlgorithmMismatchError
	)
	switch {
	case errors.As(err, &unknownChain), errors.As(err, &badAmount),
		errors.As(err, &missingCreds), errors.As(err, &mismatch):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
