package broker

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/indigo-web/reqqueue/http/status"
	"github.com/indigo-web/reqqueue/internal/tcp"
)

// listener is a listening socket shared by every queue bound to the same port.
type listener struct {
	addr string
	tcp  *tcp.Listener
	refs int
}

func (s *Server) acquireListener(port string) (*listener, error) {
	addr := net.JoinHostPort(s.cfg.NET.Host, port)
	if l, found := s.listeners[addr]; found {
		l.refs++
		return l, nil
	}

	sock, err := s.cfg.NET.Listen("tcp", addr)
	if err != nil {
		s.log.Warn("failed to bind socket", "addr", addr, "error", err)
		return nil, bindError(err)
	}

	l := &listener{
		addr: addr,
		tcp:  tcp.NewListener(sock),
		refs: 1,
	}
	s.listeners[addr] = l
	s.log.Debug("listening", "addr", sock.Addr())

	s.workers.Add(1)
	go s.acceptLoop(l)

	return l, nil
}

func (s *Server) releaseListener(l *listener) {
	if l.refs--; l.refs > 0 {
		return
	}

	delete(s.listeners, l.addr)
	if err := l.tcp.Close(); err != nil {
		s.log.Warn("failed to close listener", "addr", l.addr, "error", err)
	}
}

func (s *Server) acceptLoop(l *listener) {
	defer s.workers.Done()

	err := l.tcp.Serve(func(conn net.Conn) {
		if !s.deliver(event{kind: eventAccept, listener: l, netConn: conn}, nil) {
			_ = conn.Close()
		}
	})
	if err != nil {
		s.log.Error("accept loop failed", "addr", l.addr, "error", err)
	}
}

func bindError(err error) error {
	switch {
	case errors.Is(err, syscall.EADDRINUSE):
		return fmt.Errorf("%w: %w", status.ErrSharingViolation, err)
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return fmt.Errorf("%w: %w", status.ErrAccessDenied, err)
	default:
		return fmt.Errorf("%w: %w", status.ErrUnsuccessful, err)
	}
}
