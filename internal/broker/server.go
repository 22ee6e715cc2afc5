// Package broker is the heart of the request queue. It owns every accepted connection and
// every opened queue, parses requests as they arrive and hands them out to the consumers
// of the queues they are routed to.
//
// All the state lives in Server and is guarded by a single mutex. The reactor (Serve)
// takes the mutex for every network event, consumers take it for every API call.
package broker

import (
	"context"
	"log/slog"
	"net"
	"slices"
	"sync"

	"github.com/indigo-web/reqqueue/config"
	"github.com/indigo-web/reqqueue/http"
)

type eventKind uint8

const (
	eventAccept eventKind = iota + 1
	eventData
)

type event struct {
	kind     eventKind
	listener *listener
	netConn  net.Conn
	conn     *connection
	data     []byte
	err      error
}

type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	metrics metrics

	mu        sync.Mutex
	conns     []*connection
	queues    []*Queue
	listeners map[string]*listener
	lastID    http.RequestID
	closed    bool

	events   chan event
	stop     chan struct{}
	stopOnce sync.Once
	workers  sync.WaitGroup
}

func New(cfg *config.Config) (*Server, error) {
	m, err := newMetrics(cfg.MeterProvider)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		log:       cfg.Logger,
		metrics:   m,
		listeners: make(map[string]*listener),
		events:    make(chan event),
		stop:      make(chan struct{}),
	}, nil
}

// Serve runs the reactor until the context is done or the server is closed. Every network
// event is processed while holding the registries lock.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Debug("starting request loop")
	defer s.log.Debug("stopping request loop")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case ev := <-s.events:
			s.mu.Lock()
			s.handle(ev)
			s.mu.Unlock()
		}
	}
}

func (s *Server) handle(ev event) {
	switch ev.kind {
	case eventAccept:
		s.acceptConnection(ev.listener, ev.netConn)
	case eventData:
		s.receiveData(ev.conn, ev.data, ev.err)
	}
}

// Close stops the reactor, closes every connection and every queue. Pending receives are
// cancelled. It waits until all the background goroutines are gone.
func (s *Server) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	s.mu.Lock()
	s.closed = true
	for _, conn := range slices.Clone(s.conns) {
		s.closeConnection(conn)
	}
	for _, queue := range slices.Clone(s.queues) {
		s.closeQueue(queue)
	}
	s.mu.Unlock()

	s.workers.Wait()
	return nil
}

// deliver passes an event to the reactor. It gives up if the server is stopped or the
// abort channel fires first.
func (s *Server) deliver(ev event, abort <-chan struct{}) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.stop:
		return false
	case <-abort:
		return false
	}
}

func (s *Server) nextID() http.RequestID {
	s.lastID++
	return s.lastID
}

func (s *Server) connByID(id http.RequestID) *connection {
	if id == http.NullID {
		return nil
	}

	for _, conn := range s.conns {
		if conn.id == id {
			return conn
		}
	}

	return nil
}
