package broker

import (
	"context"
	"errors"
	"slices"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/reqqueue/http"
	"github.com/indigo-web/reqqueue/http/status"
	"github.com/indigo-web/reqqueue/internal/urlprefix"
)

const labelLength = 8

// Queue is a request queue. At most one url may be bound to it at a time, every request
// addressed to the url is handed out to the queue's receivers in arrival order.
type Queue struct {
	server *Server
	label  string
	// prefix is valid only while bound is set.
	prefix   urlprefix.Prefix
	bound    bool
	context  uint64
	listener *listener
	pending  []*Receive
	closed   bool
}

// Open creates a new queue with no url bound. Queues opened after the server is closed
// are closed as well.
func (s *Server) Open() *Queue {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := &Queue{
		server: s,
		label:  uniuri.NewLen(labelLength),
		closed: s.closed,
	}
	if q.closed {
		return q
	}

	s.queues = append(s.queues, q)
	s.log.Debug("created queue", "queue", q.label)

	return q
}

// Label is a random name distinguishing the queue in logs.
func (q *Queue) Label() string {
	return q.label
}

// URL returns the bound url, or an empty string.
func (q *Queue) URL() string {
	q.server.mu.Lock()
	defer q.server.mu.Unlock()

	if !q.bound {
		return ""
	}

	return q.prefix.Raw
}

// AddURL binds the url to the queue. The context is passed through as is in every request
// routed by this url. Queues binding the same port share a single listening socket.
func (q *Queue) AddURL(url string, context uint64) error {
	s := q.server
	log := s.log.With("queue", q.label, "url", url)

	prefix, err := urlprefix.Parse(url)
	if err != nil {
		if errors.Is(err, status.ErrHTTPS) {
			log.Warn("HTTPS support not implemented")
		}

		return err
	}

	if prefix.IsRelative() {
		log.Warn("binding to relative URIs not implemented, binding to all URIs instead")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if q.closed {
		return status.ErrQueueClosed
	}

	if q.bound {
		if q.prefix.Raw == url {
			return status.ErrNameCollision
		}

		log.Warn("binding to multiple URLs not implemented", "bound", q.prefix.Raw)
		return status.ErrMultipleURLs
	}

	l, err := s.acquireListener(prefix.Port)
	if err != nil {
		return err
	}

	q.prefix, q.bound, q.context, q.listener = prefix, true, context, l
	log.Debug("added url")

	// requests which arrived before the url was bound may be addressed to it
	for _, conn := range slices.Clone(s.conns) {
		if conn.state == stateAvailable && conn.queue == nil && prefix.Matches(conn.authority()) {
			conn.queue = q
			s.tryComplete(conn)
		}
	}

	return nil
}

// RemoveURL unbinds the url. Already accepted connections stay alive.
func (q *Queue) RemoveURL(url string) error {
	s := q.server
	s.mu.Lock()
	defer s.mu.Unlock()

	if !q.bound || q.prefix.Raw != url {
		return status.ErrNotFound
	}

	s.unbind(q)
	s.log.Debug("removed url", "queue", q.label, "url", url)
	return nil
}

// ReceiveRequest hands out the next request routed to the queue. The returned receive is
// already resolved if such a request is buffered, otherwise it waits for one.
//
// Setting opts.ID retries a receive, which failed with status.ErrMoreData. Such receives
// never wait: the request is either still there or status.ErrConnectionInvalid is returned.
func (q *Queue) ReceiveRequest(opts http.ReceiveOptions) *Receive {
	s := q.server
	s.mu.Lock()
	defer s.mu.Unlock()

	r := newReceive(q, opts)
	if q.closed {
		r.resolve(nil, status.ErrQueueClosed)
		return r
	}

	if opts.ID != http.NullID {
		conn := s.connByID(opts.ID)
		if conn == nil || conn.state != stateAvailable || conn.queue != q {
			r.resolve(nil, status.ErrConnectionInvalid)
			return r
		}

		r.resolve(s.complete(conn, opts))
		return r
	}

	for _, conn := range s.conns {
		if conn.state == stateAvailable && conn.queue == q {
			r.resolve(s.complete(conn, opts))
			return r
		}
	}

	q.pending = append(q.pending, r)
	s.metrics.pending.Add(bg, 1)
	return r
}

// Next waits for the next request with no size limit.
func (q *Queue) Next(ctx context.Context, flags http.Flags) (*http.Request, error) {
	return q.ReceiveRequest(http.ReceiveOptions{Flags: flags}).Wait(ctx)
}

// SendResponse writes the response of the request. The bytes are sent as is, so they must
// form a complete HTTP response. Unread body bytes are discarded and the connection
// proceeds to the next request.
func (q *Queue) SendResponse(id http.RequestID, response []byte) error {
	return q.server.sendResponse(id, response)
}

// ReceiveBody copies the next part of the request's body into the buffer. io.EOF is
// returned when the body is over.
func (q *Queue) ReceiveBody(id http.RequestID, buff []byte) (int, error) {
	return q.server.receiveBody(id, buff)
}

// Close cancels every pending receive and unbinds the url. Requests routed to the queue,
// but not yet received, get routed anew. Dispatched requests stay answerable.
func (q *Queue) Close() error {
	s := q.server
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeQueue(q)
	return nil
}

func (s *Server) closeQueue(q *Queue) {
	if q.closed {
		return
	}

	q.closed = true
	for _, r := range q.pending {
		r.resolve(nil, status.ErrCancelled)
	}
	s.metrics.pending.Add(bg, -int64(len(q.pending)))
	q.pending = nil

	if q.bound {
		s.unbind(q)
	}

	if i := slices.Index(s.queues, q); i != -1 {
		s.queues = slices.Delete(s.queues, i, i+1)
	}

	for _, conn := range slices.Clone(s.conns) {
		if conn.queue != q {
			continue
		}

		conn.queue = nil
		if conn.state == stateAvailable && !s.closed {
			conn.queue = s.route(conn)
			s.tryComplete(conn)
		}
	}

	s.log.Debug("closed queue", "queue", q.label)
}

func (s *Server) unbind(q *Queue) {
	s.releaseListener(q.listener)
	q.prefix, q.bound, q.listener = urlprefix.Prefix{}, false, nil
}

func (q *Queue) popPending() *Receive {
	if len(q.pending) == 0 {
		return nil
	}

	r := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	q.server.metrics.pending.Add(bg, -1)
	return r
}

func (q *Queue) removePending(r *Receive) {
	if i := slices.Index(q.pending, r); i != -1 {
		q.pending = slices.Delete(q.pending, i, i+1)
		q.server.metrics.pending.Add(bg, -1)
	}
}
