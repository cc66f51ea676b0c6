package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func marketServer(t *testing.T, calls *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"ethereum","symbol":"eth","current_price":3000.5},
			{"id":"aptos","symbol":"apt","current_price":10.25}
		]`))
	}))
}

func TestPrices(t *testing.T) {
	calls := 0
	server := marketServer(t, &calls)
	defer server.Close()

	c := NewClient(server.URL)
	prices, err := c.Prices(context.Background(), []string{"ETH", "APT"})
	assert.NoError(t, err)
	assert.Equal(t, 3000.5, prices["ETH"])
	assert.Equal(t, 10.25, prices["APT"])
	assert.Equal(t, 1, calls)
}

func TestPricesServesFromCache(t *testing.T) {
	calls := 0
	server := marketServer(t, &calls)
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.Prices(context.Background(), []string{"eth"})
	assert.NoError(t, err)

	// lower/upper case hit the same cache entry, no second call
	prices, err := c.Prices(context.Background(), []string{"ETH"})
	assert.NoError(t, err)
	assert.Equal(t, 3000.5, prices["ETH"])
	assert.Equal(t, 1, calls)
}

func TestPricesSkipsUnknownSymbols(t *testing.T) {
	calls := 0
	server := marketServer(t, &calls)
	defer server.Close()

	c := NewClient(server.URL)
	prices, err := c.Prices(context.Background(), []string{"NOPE"})
	assert.NoError(t, err)
	assert.Empty(t, prices)
	assert.Equal(t, 0, calls)
}

func TestPrice(t *testing.T) {
	calls := 0
	server := marketServer(t, &calls)
	defer server.Close()

	c := NewClient(server.URL)
	p, ok, err := c.Price(context.Background(), "eth")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3000.5, p)

	_, ok, err = c.Price(context.Background(), "NOPE")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestKnownSymbol(t *testing.T) {
	assert.True(t, KnownSymbol("eth"))
	assert.True(t, KnownSymbol("USDC"))
	assert.False(t, KnownSymbol("NOPE"))
}
