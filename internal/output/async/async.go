// Package async moves report delivery off the request path. The server wraps
// slow sinks (webhooks) in it so an analysis returns as soon as the page is
// highlighted.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crimson-sun/pagepulse/internal/model"
	"github.com/crimson-sun/pagepulse/internal/output"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("async: output closed")

const (
	defaultBufferSize   = 64
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel capacity. Default: 64.
func WithBufferSize(n int) Option {
	return func(a *Async) {
		if n > 0 {
			a.bufSize = n
		}
	}
}

// WithDrainTimeout bounds how long Close waits for queued reports.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// WithOnError sets the callback invoked when the inner output's Write fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write return immediately, dropping the report, when
// the buffer is full instead of blocking.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// Async queues reports on a buffered channel drained by one goroutine into
// the wrapped output. Errors from the inner output go to errFunc and are
// never returned to the writer.
type Async struct {
	inner        output.Output
	ch           chan model.Report
	done         chan struct{}
	ctx          context.Context // passed to inner.Write, cancelled on drain timeout
	cancel       context.CancelFunc
	errFunc      func(error)
	bufSize      int
	drainTimeout time.Duration
	dropOnFull   bool

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// New wraps inner and starts the drain goroutine.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
		errFunc:      func(err error) { slog.Warn("async output write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.Report, a.bufSize)
	a.done = make(chan struct{})
	a.ctx, a.cancel = context.WithCancel(context.Background())
	go a.drain()
	return a
}

// Write queues the report. It blocks while the buffer is full unless
// WithDropOnFull was given, or until ctx is done.
func (a *Async) Write(ctx context.Context, report model.Report) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	if a.dropOnFull {
		select {
		case a.ch <- report:
		default:
			a.dropped.Add(1)
			slog.Warn("async output buffer full, dropping report",
				"run_id", report.RunID, "target", report.Target)
		}
		return nil
	}

	select {
	case a.ch <- report:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped reports how many reports were discarded because the buffer was full.
func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Pending reports how many reports are queued but not yet delivered.
func (a *Async) Pending() int { return len(a.ch) }

// Close stops accepting reports and waits for the queue to drain. After the
// drain timeout the in-flight write is cancelled through its context and the
// rest of the queue is discarded. The inner output is closed only once the
// drain goroutine has returned, so inner never sees Write and Close at the
// same time.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()

	timer := time.NewTimer(a.drainTimeout)
	defer timer.Stop()
	select {
	case <-a.done:
	case <-timer.C:
		slog.Warn("async output drain timed out", "pending", len(a.ch))
		a.cancel()
		<-a.done
	}
	a.cancel()
	return a.inner.Close()
}

func (a *Async) drain() {
	defer close(a.done)
	discarded := 0
	for report := range a.ch {
		if a.ctx.Err() != nil {
			discarded++
			continue
		}
		if err := a.inner.Write(a.ctx, report); err != nil {
			a.errFunc(err)
		}
	}
	if discarded > 0 {
		slog.Warn("async output discarded queued reports", "count", discarded)
	}
}
