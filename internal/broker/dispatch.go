package broker

import (
	"fmt"
	"io"

	"github.com/indigo-web/reqqueue/http"
	"github.com/indigo-web/reqqueue/http/headers"
	"github.com/indigo-web/reqqueue/http/method"
	"github.com/indigo-web/reqqueue/http/status"
)

// route returns the first bound queue the available request is addressed to.
func (s *Server) route(conn *connection) *Queue {
	authority := conn.authority()
	for _, q := range s.queues {
		if q.bound && q.prefix.Matches(authority) {
			return q
		}
	}

	s.log.Debug("no queue matches request", "remote", conn.client.Remote(), "authority", authority)
	return nil
}

// tryComplete hands the available request out to the first waiting receive of its queue.
func (s *Server) tryComplete(conn *connection) {
	if conn.queue == nil {
		return
	}

	r := conn.queue.popPending()
	if r == nil {
		return
	}

	r.resolve(s.complete(conn, r.opts))
}

// complete dispatches the available request. If it doesn't fit into the buffer size,
// the connection stays available and only the id is reported back.
func (s *Server) complete(conn *connection, opts http.ReceiveOptions) (*http.Request, error) {
	if conn.id == http.NullID {
		conn.id = s.nextID()
	}

	req := s.buildRequest(conn, opts.Flags)
	if opts.BufferSize > 0 && req.Size() > opts.BufferSize {
		s.log.Debug("request does not fit into the buffer",
			"id", conn.id, "size", req.Size(), "buffer", opts.BufferSize,
		)
		return &http.Request{ID: conn.id}, status.ErrMoreData
	}

	conn.buff.Consume(conn.req.HeaderLen)
	conn.remaining = conn.req.ContentLength
	if len(req.Body) > 0 {
		conn.buff.Consume(len(req.Body))
		conn.remaining -= len(req.Body)
	}

	conn.state = stateDispatched
	s.metrics.dispatched.Add(bg, 1)
	s.log.Debug("dispatched request", "id", conn.id, "queue", conn.queue.label, "url", req.URL)

	return req, nil
}

// buildRequest copies the parsed request out of the connection buffer.
func (s *Server) buildRequest(conn *connection, flags http.Flags) *http.Request {
	data := conn.buff.Bytes()
	parsed := &conn.req

	hdrs := headers.NewPrealloc(len(parsed.Headers))
	for _, h := range parsed.Headers {
		hdrs.Add(string(h.Name.Of(data)), string(h.Value.Of(data)))
	}

	req := &http.Request{
		ID:            conn.id,
		Context:       conn.queue.context,
		Method:        parsed.Method,
		RawMethod:     string(parsed.RawMethod.Of(data)),
		URL:           string(parsed.URL.Of(data)),
		Host:          string(parsed.Authority(data)),
		Version:       parsed.Version,
		Headers:       hdrs,
		ContentLength: uint64(parsed.ContentLength),
		Chunked:       parsed.TransferEncoding,
		Remote:        conn.client.Remote(),
		Local:         conn.client.Local(),
	}

	if req.Method == method.Unknown {
		s.log.Debug("unknown method", "method", req.RawMethod)
	}

	if flags&http.FlagCopyBody != 0 && parsed.ContentLength > 0 {
		preview := min(parsed.ContentLength, s.cfg.Body.PreviewSize)
		body := data[parsed.HeaderLen : parsed.HeaderLen+preview]
		req.Body = append(make([]byte, 0, len(body)), body...)
	}

	return req
}

func (s *Server) sendResponse(id http.RequestID, response []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn := s.connByID(id)
	if conn == nil {
		return status.ErrConnectionInvalid
	}

	if err := conn.client.Write(response); err != nil {
		s.log.Error("failed to send response", "id", id, "remote", conn.client.Remote(), "error", err)
		s.closeConnection(conn)
		return fmt.Errorf("send response: %w", err)
	}

	switch conn.state {
	case stateDispatched:
		conn.buff.Consume(conn.remaining)
	case stateAvailable:
		// answered without receiving, e.g. after status.ErrMoreData
		conn.buff.Consume(conn.req.Len())
	}

	s.log.Debug("sent response", "id", id, "bytes", len(response))

	conn.remaining = 0
	conn.queue = nil
	conn.id = http.NullID
	conn.state = stateWaiting
	s.parseRequest(conn)

	return nil
}

func (s *Server) receiveBody(id http.RequestID, buff []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn := s.connByID(id)
	if conn == nil || conn.state != stateDispatched {
		return 0, status.ErrConnectionInvalid
	}

	if conn.remaining == 0 {
		return 0, io.EOF
	}

	n := copy(buff, conn.buff.Bytes()[:conn.remaining])
	conn.buff.Consume(n)
	conn.remaining -= n

	return n, nil
}
