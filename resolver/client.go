// Package resolver speaks to the off-chain collaborators: the resolver
// that creates the destination-chain HTLC, and the backend store that
// tracks swap status. Both calls happen after funds are locked on the
// source chain, so failures here are retried with backoff and surfaced as
// PersistenceError rather than dropped.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/unite-defi/fusion-go/state"
)

// Notification is the hand-off message. Field names are part of the wire
// contract with deployed resolvers; do not rename.
//
// Trust boundary: the resolver receives both hashlocks and is trusted to
// lock the destination funds under hashlockTo with a suitably shorter
// timelock. No on-chain cross-check ties the two hashes together.
type Notification struct {
	SwapID       string `json:"swapId"`
	FromChain    string `json:"fromChain"`
	ToChain      string `json:"toChain"`
	FromToken    string `json:"fromToken"`
	ToToken      string `json:"toToken"`
	Amount       string `json:"amount"`
	Recipient    string `json:"recipient"`
	HashlockFrom string `json:"hashlockFrom"`
	HashlockTo   string `json:"hashlockTo"`
	Timelock     int64  `json:"timelock"`
}

// PersistenceError marks off-chain bookkeeping that failed after an
// on-chain lock succeeded. Funds are locked but untracked; operators must
// see this, it is never conflated with a failed swap.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("post-lock %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Client posts notifications and status records over HTTP.
type Client struct {
	resolverURL string
	backendURL  string
	http        *http.Client
}

func NewClient(resolverURL, backendURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 4
	rc.RetryWaitMin = 1 * time.Second
	rc.RetryWaitMax = 15 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	return &Client{
		resolverURL: resolverURL,
		backendURL:  backendURL,
		http:        rc.StandardClient(),
	}
}

// Notify hands the swap to the resolver so it can create the matching
// destination-chain HTLC.
func (c *Client) Notify(ctx context.Context, n *Notification) error {
	if err := c.postJSON(ctx, c.resolverURL+"/resolver/notify", n); err != nil {
		logger.WithError(err).WithField("swapId", n.SwapID).Error("resolver notification failed")
		return &PersistenceError{Op: "resolver notify", Err: err}
	}
	return nil
}

// PostStatus persists a swap status record to the backend store.
func (c *Client) PostStatus(ctx context.Context, s *state.SwapStatus) error {
	if err := c.postJSON(ctx, c.backendURL+"/status", s); err != nil {
		logger.WithError(err).WithField("swapId", s.SwapID).Error("status persistence failed")
		return &PersistenceError{Op: "status persist", Err: err}
	}
	return nil
}

// GetStatus fetches the current record by swap id.
func (c *Client) GetStatus(ctx context.Context, swapID string) (*state.SwapStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.backendURL+"/status/"+swapID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("swap %s not found", swapID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status fetch returned %d", resp.StatusCode)
	}

	var s state.SwapStatus
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("POST %s returned %d: %s", url, resp.StatusCode, string(snippet))
	}
	return nil
}
