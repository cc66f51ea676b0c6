package swap

import (
	"context"
	"fmt"
	"sync"

	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
	"github.com/unite-defi/fusion-go/quote"
	"github.com/unite-defi/fusion-go/resolver"
	"github.com/unite-defi/fusion-go/state"
)

// EventLog records the order side effects happen in, shared between the
// simulated executor and remote so ordering invariants can be asserted.
type EventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *EventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *EventLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

// SimulatedExecutor is an in-memory htlc.Executor for tests.
type SimulatedExecutor struct {
	ChainFamily chains.Family
	TxRef       string
	Err         error
	Log         *EventLog

	mu     sync.Mutex
	params []*htlc.CreateParams
}

func (s *SimulatedExecutor) Family() chains.Family { return s.ChainFamily }

func (s *SimulatedExecutor) CreateHTLC(_ context.Context, p *htlc.CreateParams) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.mu.Lock()
	s.params = append(s.params, p)
	s.mu.Unlock()
	if s.Log != nil {
		s.Log.add("lock")
	}
	return s.TxRef, nil
}

func (s *SimulatedExecutor) Params() []*htlc.CreateParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*htlc.CreateParams, len(s.params))
	copy(out, s.params)
	return out
}

// SimulatedRemote is an in-memory RemoteStore.
type SimulatedRemote struct {
	PostErr   error
	NotifyErr error
	Log       *EventLog

	mu            sync.Mutex
	statuses      []*state.SwapStatus
	notifications []*resolver.Notification
}

func (r *SimulatedRemote) Notify(_ context.Context, n *resolver.Notification) error {
	if r.NotifyErr != nil {
		return &resolver.PersistenceError{Op: "resolver notify", Err: r.NotifyErr}
	}
	r.mu.Lock()
	r.notifications = append(r.notifications, n)
	r.mu.Unlock()
	if r.Log != nil {
		r.Log.add("notify")
	}
	return nil
}

func (r *SimulatedRemote) PostStatus(_ context.Context, s *state.SwapStatus) error {
	if r.PostErr != nil {
		return &resolver.PersistenceError{Op: "status persist", Err: r.PostErr}
	}
	cp := *s
	r.mu.Lock()
	r.statuses = append(r.statuses, &cp)
	r.mu.Unlock()
	if r.Log != nil {
		r.Log.add("post")
	}
	return nil
}

func (r *SimulatedRemote) GetStatus(_ context.Context, swapID string) (*state.SwapStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.statuses) - 1; i >= 0; i-- {
		if r.statuses[i].SwapID == swapID {
			return r.statuses[i], nil
		}
	}
	return nil, fmt.Errorf("swap %s not found", swapID)
}

func (r *SimulatedRemote) Notifications() []*resolver.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*resolver.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func (r *SimulatedRemote) Statuses() []*state.SwapStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*state.SwapStatus, len(r.statuses))
	copy(out, r.statuses)
	return out
}

// SimulatedQuoter returns a fixed quote.
type SimulatedQuoter struct {
	Quote *quote.Quote
	Err   error
}

func (q *SimulatedQuoter) GetQuote(_ context.Context, _ *quote.Request) (*quote.Quote, error) {
	if q.Err != nil {
		return nil, q.Err
	}
	return q.Quote, nil
}
