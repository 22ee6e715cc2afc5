package tcp

import (
	"net"
	"time"
)

// Client is a single accepted connection as the broker sees it.
type Client interface {
	// Read returns the next chunk of data. The returned slice is owned by the client and is
	// overwritten by the next Read.
	Read() ([]byte, error)
	Write([]byte) error
	Remote() net.Addr
	Local() net.Addr
	Close() error
}

type client struct {
	conn         net.Conn
	buff         []byte
	writeTimeout time.Duration
}

func NewClient(conn net.Conn, writeTimeout time.Duration, buff []byte) Client {
	return &client{
		conn:         conn,
		buff:         buff,
		writeTimeout: writeTimeout,
	}
}

func (c *client) Read() ([]byte, error) {
	for {
		n, err := c.conn.Read(c.buff)
		if n > 0 || err != nil {
			return c.buff[:n], err
		}
	}
}

func (c *client) Write(b []byte) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}

	_, err := c.conn.Write(b)
	return err
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Local() net.Addr {
	return c.conn.LocalAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
