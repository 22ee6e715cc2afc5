package broker

import (
	"context"

	"github.com/indigo-web/reqqueue/http"
	"github.com/indigo-web/reqqueue/http/status"
)

// Receive is a pending receive operation. It's resolved exactly once: with a request, or
// with one of status.ErrMoreData, status.ErrCancelled and status.ErrConnectionInvalid.
type Receive struct {
	queue *Queue
	opts  http.ReceiveOptions
	done  chan struct{}
	// guarded by the server's lock until done is closed, immutable afterwards
	resolved bool
	req      *http.Request
	err      error
}

func newReceive(queue *Queue, opts http.ReceiveOptions) *Receive {
	return &Receive{
		queue: queue,
		opts:  opts,
		done:  make(chan struct{}),
	}
}

// Done is closed as soon as the receive is resolved.
func (r *Receive) Done() <-chan struct{} {
	return r.done
}

// Result returns the outcome of a resolved receive, or status.ErrPending if it's still
// waiting. When the error is status.ErrMoreData, the request carries only the id to retry
// the receive with.
func (r *Receive) Result() (*http.Request, error) {
	select {
	case <-r.done:
		return r.req, r.err
	default:
		return nil, status.ErrPending
	}
}

// Wait blocks until the receive is resolved. If the context is done first, the receive is
// cancelled and the context's error is returned.
func (r *Receive) Wait(ctx context.Context) (*http.Request, error) {
	select {
	case <-r.done:
		return r.req, r.err
	case <-ctx.Done():
	}

	if r.Cancel() {
		return nil, ctx.Err()
	}

	// got resolved concurrently with the cancellation
	return r.req, r.err
}

// Cancel resolves the receive with status.ErrCancelled and removes it from the queue.
// It reports false if the receive had already been resolved.
func (r *Receive) Cancel() bool {
	s := r.queue.server
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.resolved {
		return false
	}

	r.queue.removePending(r)
	r.resolve(nil, status.ErrCancelled)
	return true
}

// resolve must be called with the server's lock held.
func (r *Receive) resolve(req *http.Request, err error) {
	if r.resolved {
		return
	}

	r.resolved = true
	r.req, r.err = req, err
	close(r.done)
}
