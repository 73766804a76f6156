package services

import (
	"context"
	"sync"
)

// RequestGuard hands out tickets for one kind of user action. Beginning a new
// request cancels the previous one, and only the newest ticket stays current.
// A result carried by a stale ticket must not be displayed.
type RequestGuard struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Ticket identifies a single in-flight request.
type Ticket struct {
	guard  *RequestGuard
	seq    uint64
	cancel context.CancelFunc
}

// NewRequestGuard creates a new request guard.
func NewRequestGuard() *RequestGuard {
	return &RequestGuard{}
}

// Begin cancels any in-flight request and starts a new one.
// The returned context is cancelled when a newer request begins or the ticket is done.
func (g *RequestGuard) Begin(ctx context.Context) (context.Context, *Ticket) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	g.seq++
	g.cancel = cancel

	return reqCtx, &Ticket{guard: g, seq: g.seq, cancel: cancel}
}

// Cancel invalidates the in-flight request, if any, without starting a new one.
func (g *RequestGuard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.seq++
}

// Seq returns the sequence number of the newest request.
func (g *RequestGuard) Seq() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Seq returns the ticket's sequence number.
func (t *Ticket) Seq() uint64 {
	return t.seq
}

// Current returns true if no newer request has begun since this ticket.
func (t *Ticket) Current() bool {
	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()
	return t.guard.seq == t.seq
}

// Done releases the ticket's context.
func (t *Ticket) Done() {
	t.cancel()

	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()
	if t.guard.seq == t.seq {
		t.guard.cancel = nil
	}
}
