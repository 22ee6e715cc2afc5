package http1

import (
	"bytes"

	"github.com/indigo-web/reqqueue/http/headers"
	"github.com/indigo-web/reqqueue/http/method"
	"github.com/indigo-web/reqqueue/http/proto"
	"github.com/indigo-web/utils/uf"
)

const maxVersionComponent = 1<<16 - 1

// Span locates a token inside the parsed data. Spans stay meaningful only as long as the
// data they were parsed from isn't shifted.
type Span struct {
	Offset, Length int
}

func (s Span) Of(data []byte) []byte {
	return data[s.Offset : s.Offset+s.Length]
}

type Header struct {
	Name, Value Span
	ID          headers.ID
}

// Request is the parsed request head. It holds no memory of its own, every textual field
// points into the data it was parsed from.
type Request struct {
	Method method.Method
	// RawMethod is set for both known and unknown methods.
	RawMethod Span
	URL       Span
	Host      Span
	HasHost   bool
	Version   proto.Version
	Headers   []Header
	// ContentLength is zero when the header is absent.
	ContentLength int
	// TransferEncoding is set when the header was met. It isn't processed in any way.
	TransferEncoding bool
	// HeaderLen is the length of the request line together with headers and the final CRLF.
	HeaderLen int
	// Need is the total length of the request when the head is complete but the body isn't.
	// It's zero in every other case.
	Need int
}

// Len returns the number of bytes the request occupies.
func (r *Request) Len() int {
	return r.HeaderLen + r.ContentLength
}

// OriginForm reports whether the request target is an absolute path.
func (r *Request) OriginForm(data []byte) bool {
	return r.URL.Length > 0 && data[r.URL.Offset] == '/'
}

// Authority returns the host[:port] the request is addressed to. For origin-form targets
// that's the Host header, otherwise the authority part of the target itself.
func (r *Request) Authority(data []byte) []byte {
	if r.OriginForm(data) {
		return r.Host.Of(data)
	}

	target := r.URL.Of(data)
	if scheme := bytes.Index(target, []byte("://")); scheme != -1 {
		target = target[scheme+len("://"):]
		if slash := bytes.IndexByte(target, '/'); slash != -1 {
			target = target[:slash]
		}

		return target
	}

	// asterisk- and authority-form targets
	if r.HasHost {
		return r.Host.Of(data)
	}

	return target
}

// Parse parses the request at the beginning of data. It keeps no state between calls, so
// after Incomplete the same data, extended with whatever arrived since, must be passed
// again. Running out of data is never an error.
func Parse(data []byte) (req Request, verdict Verdict) {
	var (
		p, n, q int
		end     = len(data)
		major   int
		minor   int
	)

	if end == 0 {
		return req, Incomplete
	}

	// method
	n = tokenLen(data)
	if n >= end {
		return req, Incomplete
	}
	if n == 0 || data[n] != ' ' {
		return req, Invalid
	}

	req.RawMethod = Span{Offset: 0, Length: n}
	req.Method = method.Parse(uf.B2S(data[:n]))
	p = n + 1

	// request target
	q = p
	for p < end && isGraph(data[p]) {
		p++
	}
	if p >= end {
		return req, Incomplete
	}
	if p == q {
		return req, Invalid
	}

	req.URL = Span{Offset: q, Length: p - q}

	// protocol version
	if verdict, ok := expect(data[p:], " HTTP/"); !ok {
		return req, verdict
	}
	p += len(" HTTP/")

	major, q = number(data, p, maxVersionComponent)
	if q >= end {
		return req, Incomplete
	}
	if q == p || q < 0 || data[q] != '.' {
		return req, Invalid
	}

	p = q + 1
	if p >= end {
		return req, Incomplete
	}

	minor, q = number(data, p, maxVersionComponent)
	if q >= end {
		return req, Incomplete
	}
	if q == p || q < 0 {
		return req, Invalid
	}

	req.Version = proto.Version{Major: uint16(major), Minor: uint16(minor)}
	p = q
	if verdict, ok := expect(data[p:], "\r\n"); !ok {
		return req, verdict
	}
	p += len("\r\n")

	// headers
	for {
		if end-p >= 2 {
			if data[p] == '\r' && data[p+1] == '\n' {
				break
			}
		} else if end-p == 0 || data[p] == '\r' {
			return req, Incomplete
		}

		name := p
		n = tokenLen(data[p:])
		if p+n >= end {
			return req, Incomplete
		}
		if n == 0 {
			return req, Invalid
		}

		header := Header{
			Name: Span{Offset: name, Length: n},
			ID:   headers.Identify(uf.B2S(data[name : name+n])),
		}

		p = skipWS(data, p+n)
		if p >= end {
			return req, Incomplete
		}
		if data[p] != ':' {
			return req, Invalid
		}
		p = skipWS(data, p+1)

		value := p
		switch header.ID {
		case headers.ContentLength:
			req.ContentLength, q = number(data, p, maxContentLength)
			if q >= end {
				return req, Incomplete
			}
			if q == p || q < 0 {
				return req, Invalid
			}

			p = skipWS(data, q)
			if p < end && data[p] != '\r' {
				return req, Invalid
			}
		case headers.TransferEncoding:
			req.TransferEncoding = true
		}

		for p < end && isValueChar(data[p]) {
			p++
		}

		valueEnd := p
		for valueEnd > value && (data[valueEnd-1] == ' ' || data[valueEnd-1] == '\t') {
			valueEnd--
		}
		header.Value = Span{Offset: value, Length: valueEnd - value}

		if verdict, ok := expect(data[p:], "\r\n"); !ok {
			return req, verdict
		}
		p += len("\r\n")

		if header.ID == headers.Host && !req.HasHost {
			req.Host, req.HasHost = header.Value, true
		}

		req.Headers = append(req.Headers, header)
	}

	p += len("\r\n")
	req.HeaderLen = p

	if req.OriginForm(data) && !req.HasHost {
		return req, Invalid
	}

	if end-p < req.ContentLength {
		req.Need = p + req.ContentLength
		return req, Incomplete
	}

	return req, Complete
}

// expect compares the beginning of data with the literal. ok is false either when they
// don't match (Invalid) or when data ends before the literal does (Incomplete).
func expect(data []byte, literal string) (verdict Verdict, ok bool) {
	for i := 0; i < len(literal); i++ {
		if i >= len(data) {
			return Incomplete, false
		}
		if data[i] != literal[i] {
			return Invalid, false
		}
	}

	return Complete, true
}

// number parses an unsigned decimal starting at data[p]. It returns the value and the
// offset of the first non-digit (or len(data) if digits run till the end). The offset is
// negative if the value exceeds the limit.
func number(data []byte, p int, limit int) (value int, next int) {
	for ; p < len(data); p++ {
		c := data[p]
		if c < '0' || c > '9' {
			break
		}

		digit := int(c - '0')
		if value > (limit-digit)/10 {
			return 0, -1
		}

		value = value*10 + digit
	}

	return value, p
}

func skipWS(data []byte, p int) int {
	for p < len(data) && (data[p] == ' ' || data[p] == '\t') {
		p++
	}

	return p
}

// tokenLen returns the length of a token, as defined in RFC 2616 section 2.2.
func tokenLen(data []byte) int {
	for i, c := range data {
		if !isTokenChar(c) {
			return i
		}
	}

	return len(data)
}
