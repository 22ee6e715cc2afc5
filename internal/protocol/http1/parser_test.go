package http1

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/reqqueue/http/headers"
	"github.com/indigo-web/reqqueue/http/method"
	"github.com/indigo-web/reqqueue/http/proto"
	"github.com/stretchr/testify/require"
)

func parseString(raw string) ([]byte, Request, Verdict) {
	data := []byte(raw)
	req, verdict := Parse(data)
	return data, req, verdict
}

func headerValue(data []byte, req Request, name string) (string, bool) {
	for _, header := range req.Headers {
		if strings.EqualFold(string(header.Name.Of(data)), name) {
			return string(header.Value.Of(data)), true
		}
	}

	return "", false
}

func TestParse(t *testing.T) {
	t.Run("simple GET", func(t *testing.T) {
		raw := "GET /foo HTTP/1.1\r\nHost: a\r\n\r\n"
		data, req, verdict := parseString(raw)
		require.Equal(t, Complete, verdict)
		require.Equal(t, method.GET, req.Method)
		require.Equal(t, "GET", string(req.RawMethod.Of(data)))
		require.Equal(t, "/foo", string(req.URL.Of(data)))
		require.Equal(t, proto.HTTP11, req.Version)
		require.True(t, req.HasHost)
		require.Equal(t, "a", string(req.Host.Of(data)))
		require.Zero(t, req.ContentLength)
		require.Equal(t, len(raw), req.Len())
		require.Equal(t, len(raw), req.HeaderLen)
		require.Zero(t, req.Need)
	})

	t.Run("with body", func(t *testing.T) {
		raw := "POST /submit HTTP/1.0\r\nHost: example.com:8080\r\nContent-Length: 13\r\n\r\nHello, world!"
		data, req, verdict := parseString(raw)
		require.Equal(t, Complete, verdict)
		require.Equal(t, method.POST, req.Method)
		require.Equal(t, proto.HTTP10, req.Version)
		require.Equal(t, 13, req.ContentLength)
		require.Equal(t, len(raw), req.Len())
		require.Equal(t, "Hello, world!", string(data[req.HeaderLen:req.Len()]))
	})

	t.Run("trailing data is not consumed", func(t *testing.T) {
		first := "GET / HTTP/1.1\r\nHost: a\r\n\r\n"
		_, req, verdict := parseString(first + "GET /second HTTP/1.1\r\n")
		require.Equal(t, Complete, verdict)
		require.Equal(t, len(first), req.Len())
	})

	t.Run("unknown method", func(t *testing.T) {
		data, req, verdict := parseString("BREW /pot HTTP/1.1\r\nHost: kitchen\r\n\r\n")
		require.Equal(t, Complete, verdict)
		require.Equal(t, method.Unknown, req.Method)
		require.Equal(t, "BREW", string(req.RawMethod.Of(data)))
	})

	t.Run("absolute uri needs no host", func(t *testing.T) {
		data, req, verdict := parseString("GET http://example.com:81/index.html HTTP/1.1\r\n\r\n")
		require.Equal(t, Complete, verdict)
		require.False(t, req.HasHost)
		require.Equal(t, "example.com:81", string(req.Authority(data)))
	})

	t.Run("origin form authority", func(t *testing.T) {
		data, req, verdict := parseString("GET / HTTP/1.1\r\nhost: Example.com\r\n\r\n")
		require.Equal(t, Complete, verdict)
		require.Equal(t, "Example.com", string(req.Authority(data)))
	})

	t.Run("header whitespace", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nHost \t: \t a.b  \t\r\nX-Empty:\r\nX-Tabbed:\tone\ttwo\r\n\r\n"
		data, req, verdict := parseString(raw)
		require.Equal(t, Complete, verdict)
		require.Equal(t, "a.b", string(req.Host.Of(data)))

		value, found := headerValue(data, req, "X-Empty")
		require.True(t, found)
		require.Empty(t, value)

		value, _ = headerValue(data, req, "x-tabbed")
		require.Equal(t, "one\ttwo", value)
	})

	t.Run("well-known header ids", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nHost: a\r\nUser-Agent: test\r\nX-Custom: 1\r\n\r\n"
		_, req, verdict := parseString(raw)
		require.Equal(t, Complete, verdict)
		require.Len(t, req.Headers, 3)
		require.Equal(t, headers.Host, req.Headers[0].ID)
		require.Equal(t, headers.UserAgent, req.Headers[1].ID)
		require.Equal(t, headers.Unknown, req.Headers[2].ID)
	})

	t.Run("transfer encoding is only flagged", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nHost: a\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n"
		_, req, verdict := parseString(raw)
		require.Equal(t, Complete, verdict)
		require.True(t, req.TransferEncoding)
		require.Zero(t, req.ContentLength)
	})

	t.Run("version components", func(t *testing.T) {
		_, req, verdict := parseString("GET / HTTP/12.345\r\nHost: a\r\n\r\n")
		require.Equal(t, Complete, verdict)
		require.Equal(t, proto.Version{Major: 12, Minor: 345}, req.Version)
	})

	t.Run("many random headers", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("GET / HTTP/1.1\r\nHost: random\r\n")
		for i := 0; i < 50; i++ {
			value := uniuri.NewLen(16)
			fmt.Fprintf(&b, "X-%d: %s\r\n", i, value)
		}
		b.WriteString("\r\n")

		data, req, verdict := parseString(b.String())
		require.Equal(t, Complete, verdict)
		require.Len(t, req.Headers, 51)
		require.Equal(t, "X-49", string(req.Headers[50].Name.Of(data)))
		require.Len(t, req.Headers[50].Value.Of(data), 16)
	})
}

func TestParse_Incomplete(t *testing.T) {
	requests := []string{
		"GET /foo HTTP/1.1\r\nHost: a\r\n\r\n",
		"POST /upload HTTP/1.1\r\nHost: example.com:8080\r\nContent-Length: 11\r\nX-Spaced :  v  \r\n\r\nhello world",
		"OPTIONS * HTTP/1.0\r\nHost: a\r\n\r\n",
		"GET http://a:80/ HTTP/1.1\r\n\r\n",
	}

	for _, raw := range requests {
		data := []byte(raw)
		_, verdict := Parse(data)
		require.Equal(t, Complete, verdict, raw)

		for i := 0; i < len(data); i++ {
			_, verdict = Parse(data[:i])
			require.Equal(t, Incomplete, verdict, "prefix %q", raw[:i])
		}
	}
}

func TestParse_Need(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nHost: a\r\nContent-Length: 100\r\n\r\nabc"
	req, verdict := Parse([]byte(raw))
	require.Equal(t, Incomplete, verdict)
	require.Equal(t, len(raw)-3+100, req.Need)

	req, verdict = Parse([]byte("POST / HTTP/1.1\r\nHost: a\r\nContent-Len"))
	require.Equal(t, Incomplete, verdict)
	require.Zero(t, req.Need)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		Name, Raw string
	}{
		{"empty method", " / HTTP/1.1\r\n\r\n"},
		{"separator in method", "GE(T / HTTP/1.1\r\n\r\n"},
		{"method terminated by tab", "GET\t/ HTTP/1.1\r\n\r\n"},
		{"empty url", "GET  HTTP/1.1\r\n\r\n"},
		{"lowercase protocol", "GET / http/1.1\r\n\r\n"},
		{"missing minor", "GET / HTTP/1.\r\n\r\n"},
		{"missing major", "GET / HTTP/.1\r\n\r\n"},
		{"no dot", "GET / HTTP/11\r\n\r\n"},
		{"version overflow", "GET / HTTP/1.65536\r\n\r\n"},
		{"bare LF", "GET / HTTP/1.1\nHost: a\n\n"},
		{"missing colon", "GET / HTTP/1.1\r\nHost a\r\n\r\n"},
		{"empty header name", "GET / HTTP/1.1\r\n: a\r\n\r\n"},
		{"control char in value", "GET / HTTP/1.1\r\nHost: a\x01b\r\n\r\n"},
		{"missing host", "GET /foo HTTP/1.1\r\nAccept: */*\r\n\r\n"},
		{"non-numeric content length", "POST / HTTP/1.1\r\nHost: a\r\nContent-Length: abc\r\n\r\n"},
		{"garbage after content length", "POST / HTTP/1.1\r\nHost: a\r\nContent-Length: 12abc\r\n\r\n"},
		{"content length overflow", "POST / HTTP/1.1\r\nHost: a\r\nContent-Length: 99999999999999999999\r\n\r\n"},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			_, verdict := Parse([]byte(tc.Raw))
			require.Equal(t, Invalid, verdict)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	raw := []byte("PUT /x HTTP/1.1\r\nHost: a\r\nContent-Length: 3\r\n\r\nabc")
	snapshot := append([]byte(nil), raw...)

	first, verdict := Parse(raw)
	require.Equal(t, Complete, verdict)
	second, _ := Parse(raw)
	require.Equal(t, first, second)
	require.Equal(t, snapshot, raw)
}
