package tcp

import (
	"net"
	"sync/atomic"
)

type onConnection func(net.Conn)

// Listener runs the accept loop of a single listening socket.
type Listener struct {
	sock   net.Listener
	closed atomic.Bool
}

func NewListener(sock net.Listener) *Listener {
	return &Listener{sock: sock}
}

// Serve accepts connections until the listener is closed. Closing the listener is not
// considered an error, so nil is returned in that case.
func (l *Listener) Serve(onConn onConnection) error {
	for {
		conn, err := l.sock.Accept()
		if err != nil {
			if l.closed.Load() {
				return nil
			}

			return err
		}

		onConn(conn)
	}
}

func (l *Listener) Addr() net.Addr {
	return l.sock.Addr()
}

func (l *Listener) Closed() bool {
	return l.closed.Load()
}

// Close stops the accept loop. Already accepted connections are left untouched.
func (l *Listener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}

	return l.sock.Close()
}
