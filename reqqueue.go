// Package reqqueue is an in-process HTTP request queue. Consumers open queues, bind urls
// to them and pull parsed requests out, answering each with a raw response.
package reqqueue

import (
	"context"
	"errors"

	"github.com/indigo-web/reqqueue/config"
	"github.com/indigo-web/reqqueue/internal/broker"
)

type (
	// Queue receives requests addressed to the url bound to it.
	Queue = broker.Queue
	// Receive is a receive operation, which may complete later.
	Receive = broker.Receive
)

// Server owns all the queues and connections. Requests are processed only while Serve runs.
type Server struct {
	broker *broker.Server
	hooks  hooks
}

// New returns a new Server instance. Nil config means config.Default().
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	b, err := broker.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Server{broker: b}, nil
}

// NotifyOnStart calls the callback right before the server starts processing events.
func (s *Server) NotifyOnStart(cb func()) *Server {
	s.hooks.OnStart = cb
	return s
}

// NotifyOnStop calls the callback once the server is down. By the time it's called, every
// connection is closed and every pending receive is cancelled.
func (s *Server) NotifyOnStop(cb func()) *Server {
	s.hooks.OnStop = cb
	return s
}

// Open creates a new queue. Urls may be bound to it both before and after Serve is called,
// but requests are accepted only while the server runs.
func (s *Server) Open() *Queue {
	return s.broker.Open()
}

// Serve processes network events until the context is cancelled or Close is called.
// Both are considered a normal shutdown, so nil is returned.
func (s *Server) Serve(ctx context.Context) error {
	callIfNotNil(s.hooks.OnStart)
	err := s.broker.Serve(ctx)
	if closeErr := s.broker.Close(); err == nil {
		err = closeErr
	}
	callIfNotNil(s.hooks.OnStop)

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// Close stops the server. It's safe to call it multiple times and concurrently with Serve.
func (s *Server) Close() error {
	return s.broker.Close()
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
