// Package pricefeed looks up USD reference prices by token symbol.
// It backs the cross-chain quote path where no aggregator route exists.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"

	// cacheTTL bounds call volume; quotes tolerate slightly stale prices.
	cacheTTL = 30 * time.Second
)

// coingeckoIDs maps token symbols to CoinGecko coin ids.
var coingeckoIDs = map[string]string{
	"ETH":   "ethereum",
	"BTC":   "bitcoin",
	"BNB":   "binancecoin",
	"MATIC": "matic-network",
	"AVAX":  "avalanche-2",
	"SOL":   "solana",
	"APT":   "aptos",
	"SUI":   "sui",
	"NEAR":  "near",
	"ATOM":  "cosmos",
	"TRX":   "tron",
	"XLM":   "stellar",
	"TON":   "the-open-network",

	"USDT": "tether",
	"USDC": "usd-coin",
	"DAI":  "dai",
	"BUSD": "binance-usd",

	"WETH":   "ethereum",
	"WBNB":   "binancecoin",
	"WMATIC": "matic-network",
	"WAVAX":  "avalanche-2",
	"WSOL":   "solana",

	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"AAVE":  "aave",
	"CRV":   "curve-dao-token",
	"SUSHI": "sushi",
	"1INCH": "1inch",
}

type cachedPrice struct {
	price float64
	at    time.Time
}

// Client is a CoinGecko market-price client with a short in-process cache
// and a client-side rate limit. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter

	mu    sync.Mutex
	cache map[string]cachedPrice
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL: baseURL,
		http:    rc.StandardClient(),
		// The free tier allows roughly 30 calls/min; stay under it.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 5),
		cache:   make(map[string]cachedPrice),
	}
}

type marketEntry struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"current_price"`
}

// Prices returns USD prices for the given symbols. Symbols without an id
// mapping or without market data are absent from the result; callers decide
// how to degrade.
func (c *Client) Prices(ctx context.Context, symbols []string) (map[string]float64, error) {
	out := make(map[string]float64)

	var misses []string
	now := time.Now()
	c.mu.Lock()
	for _, s := range symbols {
		sym := strings.ToUpper(s)
		if _, dup := out[sym]; dup {
			continue
		}
		if hit, ok := c.cache[sym]; ok && now.Sub(hit.at) < cacheTTL {
			out[sym] = hit.price
		} else {
			misses = append(misses, sym)
		}
	}
	c.mu.Unlock()

	if len(misses) == 0 {
		return out, nil
	}

	var ids []string
	idToSymbol := make(map[string]string)
	for _, sym := range misses {
		id, ok := coingeckoIDs[sym]
		if !ok {
			logger.WithField("symbol", sym).Warn("no coingecko id mapping")
			continue
		}
		ids = append(ids, id)
		idToSymbol[id] = sym
	}
	if len(ids) == 0 {
		return out, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return out, err
	}

	u := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	var entries []marketEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return out, fmt.Errorf("failed to decode coingecko response: %w", err)
	}

	c.mu.Lock()
	for _, e := range entries {
		sym, ok := idToSymbol[e.ID]
		if !ok {
			continue
		}
		out[sym] = e.CurrentPrice
		c.cache[sym] = cachedPrice{price: e.CurrentPrice, at: now}
	}
	c.mu.Unlock()

	return out, nil
}

// Price is the single-symbol convenience wrapper.
func (c *Client) Price(ctx context.Context, symbol string) (float64, bool, error) {
	prices, err := c.Prices(ctx, []string{symbol})
	if err != nil {
		return 0, false, err
	}
	p, ok := prices[strings.ToUpper(symbol)]
	return p, ok, nil
}

// KnownSymbol reports whether a symbol has a CoinGecko id mapping.
func KnownSymbol(symbol string) bool {
	_, ok := coingeckoIDs[strings.ToUpper(symbol)]
	return ok
}
