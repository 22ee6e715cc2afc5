package broker

import (
	"errors"
	"io"
	"net"
	"slices"
	"time"

	"github.com/indigo-web/reqqueue/http"
	"github.com/indigo-web/reqqueue/internal/buffer"
	"github.com/indigo-web/reqqueue/internal/protocol/http1"
	"github.com/indigo-web/reqqueue/internal/tcp"
	"github.com/indigo-web/utils/uf"
)

type connState uint8

const (
	// stateWaiting means the connection is waiting for a request to arrive.
	stateWaiting connState = iota
	// stateAvailable means a complete request is buffered and waits to be received. The
	// queue is nil if no bound url matches it yet. The id is already assigned if a consumer
	// tried to receive it into a too small buffer.
	stateAvailable
	// stateDispatched means the request was handed out and the response is awaited.
	stateDispatched
)

func (c connState) String() string {
	switch c {
	case stateWaiting:
		return "waiting"
	case stateAvailable:
		return "available"
	case stateDispatched:
		return "dispatched"
	}

	return ""
}

type connection struct {
	client tcp.Client
	buff   *buffer.Buffer
	state  connState
	// queue isn't owned by the connection. Closing the queue resets it.
	queue *Queue
	id    http.RequestID
	// req is valid while the connection is available or dispatched. Its spans point into
	// buff until the request is dispatched, after that only the counters stay meaningful.
	req http1.Request
	// remaining is the number of body bytes at the head of buff not received yet.
	remaining int
	readable  chan struct{}
	done      chan struct{}
	closed    bool
}

func (s *Server) acceptConnection(l *listener, netConn net.Conn) {
	if s.closed || l.tcp.Closed() {
		_ = netConn.Close()
		return
	}

	conn := &connection{
		client:   tcp.NewClient(netConn, s.cfg.NET.WriteTimeout, make([]byte, s.cfg.NET.ReadBufferSize)),
		buff:     buffer.New(s.cfg.Buffer.Default, s.cfg.Buffer.Maximal),
		readable: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	s.conns = append(s.conns, conn)
	s.metrics.accepted.Add(bg, 1)
	s.log.Debug("accepted connection", "remote", netConn.RemoteAddr(), "addr", l.addr)

	s.workers.Add(1)
	go s.pump(conn)
	conn.arm()
}

// pump reads the connection whenever it's armed and hands the data over to the reactor.
// Only one chunk is in flight at a time, the next read happens after the reactor consumed
// the previous one and armed the connection again.
func (s *Server) pump(conn *connection) {
	defer s.workers.Done()

	for {
		select {
		case <-conn.readable:
		case <-conn.done:
			return
		case <-s.stop:
			return
		}

		data, err := conn.client.Read()
		if !s.deliver(event{kind: eventData, conn: conn, data: data, err: err}, conn.done) {
			return
		}

		if err != nil {
			return
		}
	}
}

// arm allows the pump to read the next chunk.
func (c *connection) arm() {
	select {
	case c.readable <- struct{}{}:
	default:
	}
}

func (s *Server) receiveData(conn *connection, data []byte, err error) {
	if conn.closed {
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			s.log.Debug("connection was shut down by peer", "remote", conn.client.Remote())
		case errors.Is(err, net.ErrClosed):
		default:
			s.log.Error("got error, shutting down connection", "remote", conn.client.Remote(), "error", err)
		}

		s.closeConnection(conn)
		return
	}

	if !conn.buff.Append(data) {
		s.log.Error("connection buffer limit exceeded", "remote", conn.client.Remote(), "limit", s.cfg.Buffer.Maximal)
		s.closeConnection(conn)
		return
	}

	s.log.Debug("received data", "remote", conn.client.Remote(), "bytes", len(data))

	if conn.state != stateWaiting {
		return
	}

	s.parseRequest(conn)
}

// parseRequest runs the parser over everything buffered by a waiting connection.
func (s *Server) parseRequest(conn *connection) {
	req, verdict := http1.Parse(conn.buff.Bytes())
	switch verdict {
	case http1.Incomplete:
		if req.Need > 0 && !conn.buff.Reserve(req.Need) {
			s.log.Error("request is too large", "remote", conn.client.Remote(), "length", req.Need)
			s.closeConnection(conn)
			return
		}

		conn.arm()
	case http1.Invalid:
		s.log.Warn("failed to parse request, shutting down connection", "remote", conn.client.Remote())
		s.metrics.rejected.Add(bg, 1)
		s.sendBadRequest(conn)
		s.closeConnection(conn)
	case http1.Complete:
		s.requestReady(conn, req)
	}
}

// requestReady makes the parsed request available. Reads stay disarmed until the response
// is sent, so a connection never has more than one request in flight.
func (s *Server) requestReady(conn *connection, req http1.Request) {
	s.log.Debug("received a full request", "remote", conn.client.Remote(), "length", req.Len())
	if req.TransferEncoding {
		s.log.Warn("unhandled Transfer-Encoding header", "remote", conn.client.Remote())
	}

	s.metrics.parsed.Add(bg, 1)
	conn.req = req
	conn.state = stateAvailable
	conn.queue = s.route(conn)
	s.tryComplete(conn)
}

// authority returns the host[:port] the available request is addressed to. The result
// shares memory with the connection buffer.
func (c *connection) authority() string {
	return uf.B2S(c.req.Authority(c.buff.Bytes()))
}

func (s *Server) sendBadRequest(conn *connection) {
	if err := conn.client.Write(http1.AppendBadRequest(nil, time.Now())); err != nil {
		s.log.Error("failed to send 400 response", "remote", conn.client.Remote(), "error", err)
	}
}

func (s *Server) closeConnection(conn *connection) {
	if conn.closed {
		return
	}

	conn.closed = true
	close(conn.done)
	_ = conn.client.Close()
	conn.buff = nil
	conn.queue = nil

	if i := slices.Index(s.conns, conn); i != -1 {
		s.conns = slices.Delete(s.conns, i, i+1)
	}

	s.metrics.closed.Add(bg, 1)
	s.log.Debug("closed connection", "remote", conn.client.Remote(), "state", conn.state)
}
