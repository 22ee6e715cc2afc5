package http

import (
	"net"

	"github.com/indigo-web/reqqueue/http/headers"
	"github.com/indigo-web/reqqueue/http/method"
	"github.com/indigo-web/reqqueue/http/proto"
)

// RequestID identifies a request handed out to a consumer. It stays valid until the
// response is sent or the connection dies. Zero is never assigned to a request.
type RequestID uint64

const NullID RequestID = 0

// Flags alter the way a request is received.
type Flags uint8

const (
	// FlagCopyBody copies the already buffered part of the body into Request.Body. Copied
	// bytes are consumed, so ReceiveBody returns only what's left after them.
	FlagCopyBody Flags = 1 << iota
)

// Request is a copy of everything the broker parsed out of a request head. It shares no
// memory with the connection, so it stays valid after the response is sent.
type Request struct {
	ID RequestID
	// Context is the opaque value passed together with the url the request was routed by.
	Context uint64
	Method  method.Method
	// RawMethod always holds the method token, including ones Method reports as Unknown.
	RawMethod string
	// URL is the request target exactly as it was presented in the request line.
	URL     string
	Host    string
	Version proto.Version
	Headers *headers.Headers
	// ContentLength is the full length of the body, Body may hold only its head.
	ContentLength uint64
	Body          []byte
	// Chunked is set when the client announced a transfer encoding. Such bodies aren't
	// decoded, Content-Length is the only framing the broker understands.
	Chunked bool
	Remote  net.Addr
	Local   net.Addr
}

// ReceiveOptions parametrize a single receive operation.
type ReceiveOptions struct {
	// ID must be NullID for a fresh receive. It's set to the id returned alongside
	// status.ErrMoreData to retry the same request with a larger buffer.
	ID    RequestID
	Flags Flags
	// BufferSize limits the size of a request the caller is ready to accept, as reported by
	// Request.Size. Zero disables the limit.
	BufferSize int
}

// Size estimates the memory the request occupies. It's the value BufferSize is
// compared against.
func (r *Request) Size() int {
	size := len(r.RawMethod) + len(r.URL) + len(r.Host) + len(r.Body)
	if r.Headers != nil {
		for _, header := range r.Headers.Expose() {
			size += len(header.Name) + len(header.Value)
		}
	}

	return size
}
