package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler coordinates graceful shutdown: registered functions run in
// reverse registration order so dependents stop before their
// dependencies (HTTP server before the database).
type Handler struct {
	mu      sync.Mutex
	funcs   []func(context.Context) error
	timeout time.Duration
	sigChan chan os.Signal
	started bool
}

// New creates a shutdown handler with the given overall timeout
func New(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		sigChan: make(chan os.Signal, 1),
	}
}

// Register adds a shutdown function. Functions run LIFO.
func (h *Handler) Register(fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.funcs = append(h.funcs, fn)
}

// Wait blocks until SIGINT or SIGTERM, then runs the shutdown sequence
func (h *Handler) Wait() error {
	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-h.sigChan
	return h.Shutdown()
}

// Trigger initiates shutdown programmatically
func (h *Handler) Trigger() {
	select {
	case h.sigChan <- syscall.SIGTERM:
	default:
	}
}

// Shutdown runs all registered functions in reverse order within the
// configured timeout. The first error is returned but every function
// still runs.
func (h *Handler) Shutdown() error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return nil
	}
	h.started = true
	funcs := h.funcs
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var firstErr error
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	return firstErr
}
