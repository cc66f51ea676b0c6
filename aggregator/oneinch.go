// Package aggregator wraps the 1inch swap REST API. The service treats it
// as an opaque capability: quotes and prebuilt swap transactions for
// same-chain EVM pairs. No routing logic is reimplemented here.
package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.1inch.dev/swap/v6.0"

// NativeTokenAddress is the sentinel 1inch uses for a chain's native coin.
const NativeTokenAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

// Client calls the 1inch API for one or more EVM chains. The chain id is a
// per-call parameter, not client state, so one client serves all chains.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 300 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil

	return &Client{baseURL: baseURL, apiKey: apiKey, http: rc.StandardClient()}
}

// QuoteParams mirrors the aggregator's quote query. Amount is in the source
// token's minimal divisible units.
type QuoteParams struct {
	Src    string
	Dst    string
	Amount string
}

type QuoteResponse struct {
	DstAmount string          `json:"dstAmount"`
	Gas       int64           `json:"gas"`
	Protocols json.RawMessage `json:"protocols"`
}

// SwapParams mirrors the aggregator's swap-build query. Slippage is in
// percent (1 = 1%).
type SwapParams struct {
	Src      string
	Dst      string
	Amount   string
	From     string
	Slippage float64
	Receiver string
}

type SwapTx struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	Gas      int64  `json:"gas"`
	GasPrice string `json:"gasPrice"`
}

type SwapResponse struct {
	DstAmount string `json:"dstAmount"`
	Tx        SwapTx `json:"tx"`
}

type ProtocolInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Img   string `json:"img,omitempty"`
}

type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
}

func (c *Client) Quote(ctx context.Context, chainID int64, p QuoteParams) (*QuoteResponse, error) {
	q := url.Values{}
	q.Set("src", p.Src)
	q.Set("dst", p.Dst)
	q.Set("amount", p.Amount)
	q.Set("includeGas", "true")

	var out QuoteResponse
	if err := c.get(ctx, fmt.Sprintf("/%d/quote", chainID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BuildSwap(ctx context.Context, chainID int64, p SwapParams) (*SwapResponse, error) {
	q := url.Values{}
	q.Set("src", p.Src)
	q.Set("dst", p.Dst)
	q.Set("amount", p.Amount)
	q.Set("from", p.From)
	q.Set("slippage", fmt.Sprintf("%g", p.Slippage))
	if p.Receiver != "" {
		q.Set("receiver", p.Receiver)
	}

	var out SwapResponse
	if err := c.get(ctx, fmt.Sprintf("/%d/swap", chainID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveSpender returns the router address that must hold an ERC20
// allowance before a token swap.
func (c *Client) ApproveSpender(ctx context.Context, chainID int64) (string, error) {
	var out struct {
		Address string `json:"address"`
	}
	if err := c.get(ctx, fmt.Sprintf("/%d/approve/spender", chainID), nil, &out); err != nil {
		return "", err
	}
	return out.Address, nil
}

// ApproveCalldata returns a prebuilt approval transaction for the router.
// An empty amount approves the maximum.
func (c *Client) ApproveCalldata(ctx context.Context, chainID int64, token, amount string) (*SwapTx, error) {
	q := url.Values{}
	q.Set("tokenAddress", token)
	if amount != "" {
		q.Set("amount", amount)
	}
	var out SwapTx
	if err := c.get(ctx, fmt.Sprintf("/%d/approve/transaction", chainID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Tokens(ctx context.Context, chainID int64) (map[string]TokenInfo, error) {
	var out struct {
		Tokens map[string]TokenInfo `json:"tokens"`
	}
	if err := c.get(ctx, fmt.Sprintf("/%d/tokens", chainID), nil, &out); err != nil {
		return nil, err
	}
	return out.Tokens, nil
}

// LiquiditySources lists the DEX protocols the router can route through.
func (c *Client) LiquiditySources(ctx context.Context, chainID int64) ([]ProtocolInfo, error) {
	var out struct {
		Protocols []ProtocolInfo `json:"protocols"`
	}
	if err := c.get(ctx, fmt.Sprintf("/%d/liquidity-sources", chainID), nil, &out); err != nil {
		return nil, err
	}
	return out.Protocols, nil
}

// GasPrice returns the aggregator's current gas price tiers in wei.
func (c *Client) GasPrice(ctx context.Context, chainID int64) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := c.get(ctx, fmt.Sprintf("/%d/gas-price", chainID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchTokens(ctx context.Context, chainID int64, query string) ([]TokenInfo, error) {
	q := url.Values{}
	q.Set("query", query)
	var out []TokenInfo
	if err := c.get(ctx, fmt.Sprintf("/%d/token/search", chainID), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Balances returns wallet balances in minimal units, keyed by token address.
func (c *Client) Balances(ctx context.Context, chainID int64, walletAddress string, tokens []string) (map[string]string, error) {
	path := fmt.Sprintf("/%d/balances/%s", chainID, walletAddress)
	if len(tokens) == 0 {
		var out map[string]string
		if err := c.get(ctx, path, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	body, err := json.Marshal(map[string][]string{"tokens": tokens})
	if err != nil {
		return nil, err
	}
	var out map[string]string
	if err := c.post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("aggregator request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.WithFields(logger.Fields{
			"status": resp.StatusCode,
			"url":    req.URL.Path,
		}).Warn("aggregator call rejected")
		return fmt.Errorf("aggregator returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
