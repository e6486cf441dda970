// Package worker runs blocking remote calls off the UI loop, one at a time.
package worker

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned for work submitted after Close.
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher is a bounded pool of background slots. The app uses a width of 1 so
// remote calls never overlap.
type Dispatcher struct {
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// New creates a dispatcher with the given number of slots. Widths below 1 are
// treated as 1.
func New(width int) *Dispatcher {
	if width < 1 {
		width = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sem:    semaphore.NewWeighted(int64(width)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Close stops accepting work and cancels the context of in-flight calls. It does
// not wait for them to return.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.cancel()
}

// Closed reports whether Close has been called.
func (d *Dispatcher) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Call runs fn on a dispatcher slot and returns its result, or ctx's error if the
// caller gives up first. fn sees a context that is cancelled when either ctx or
// the dispatcher is done. An abandoned fn keeps its slot until it returns.
func Call[T any](ctx context.Context, d *Dispatcher, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if d.Closed() {
		return zero, ErrClosed
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(d.ctx, cancel)
	defer stop()

	if err := d.sem.Acquire(callCtx, 1); err != nil {
		return zero, doneErr(ctx)
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer d.sem.Release(1)
		v, err := fn(callCtx)
		done <- result{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-callCtx.Done():
		select {
		case r := <-done:
			return r.val, r.err
		default:
		}
		return zero, doneErr(ctx)
	}
}

func doneErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrClosed
}

// Go is Call for work with no result.
func Go(ctx context.Context, d *Dispatcher, fn func(context.Context) error) error {
	_, err := Call(ctx, d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
