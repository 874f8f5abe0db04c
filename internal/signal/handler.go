// Package signal turns SIGINT and SIGTERM into context cancellation for a
// project-creation run.
//
// The first signal cancels the run context so the pipeline can record a
// cancelled state and the CLI can exit with code 130. A second signal calls
// the force callback, which exits immediately.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context on the first interrupt signal.
type Handler struct {
	ctx         context.Context //nolint:containedctx // the handler owns the run context's lifetime
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal
	onForce     func(os.Signal)

	mu       sync.Mutex
	received os.Signal
	count    int
	stopOnce sync.Once
}

// Option configures a Handler.
type Option func(*Handler)

// WithForce registers fn to run when a second signal arrives.
func WithForce(fn func(os.Signal)) Option {
	return func(h *Handler) { h.onForce = fn }
}

// NewHandler starts listening for SIGINT and SIGTERM. Call Stop when done.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := orchestrator.Create(h.Context(), in)
func NewHandler(parent context.Context, opts ...Option) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 2),
	}
	for _, opt := range opts {
		opt(h)
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()
	return h
}

// Context returns the run context. It is cancelled by the first signal or by
// Stop.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted closes when the first signal arrives.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Signal returns the first signal received, or nil.
func (h *Handler) Signal() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop stops listening and cancels the context. Safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) handle(sig os.Signal) {
	h.mu.Lock()
	h.count++
	count := h.count
	if count == 1 {
		h.received = sig
	}
	h.mu.Unlock()

	switch {
	case count == 1:
		h.cancel()
		close(h.interrupted)
	case h.onForce != nil:
		h.onForce(sig)
	}
}

// listen keeps draining signals after the first so a second Ctrl+C can force
// an exit even while the run context is already cancelled.
func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handle(sig)
		}
	}
}
