package wallet

import (
	"context"
	"fmt"
	"sync"
)

// SimulatedBridge is an in-memory Bridge for tests. It records every
// submitted payload and hands out deterministic fake transaction hashes.
type SimulatedBridge struct {
	mu        sync.Mutex
	account   string
	connected bool
	payloads  []any
	failNext  error
}

func NewSimulatedBridge(account string) *SimulatedBridge {
	return &SimulatedBridge{account: account, connected: true}
}

func (b *SimulatedBridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *SimulatedBridge) Account() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.account
}

func (b *SimulatedBridge) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = false
}

// FailNext makes the next SignAndSubmit return err, simulating a user
// rejection or bridge failure.
func (b *SimulatedBridge) FailNext(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = err
}

func (b *SimulatedBridge) SignAndSubmit(_ context.Context, payload any) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return "", ErrNotConnected
	}
	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return "", err
	}
	b.payloads = append(b.payloads, payload)
	return fmt.Sprintf("0xsimulated%04d", len(b.payloads)), nil
}

// Payloads returns everything submitted so far.
func (b *SimulatedBridge) Payloads() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]any, len(b.payloads))
	copy(out, b.payloads)
	return out
}
