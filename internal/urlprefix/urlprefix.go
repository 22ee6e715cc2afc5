// Package urlprefix validates the urls queues are bound to and matches request authorities
// against them.
package urlprefix

import (
	"strconv"
	"strings"

	"github.com/indigo-web/reqqueue/http/status"
	"github.com/indigo-web/utils/strcomp"
)

const (
	scheme       = "http://"
	secureScheme = "https://"
	// Wildcard is the host matching every authority with the same port.
	Wildcard = "+"
	// DefaultPort is assumed for authorities without an explicit port.
	DefaultPort = "80"
)

// Prefix is a parsed url a queue is bound to, e.g. http://example.com:8080/
type Prefix struct {
	// Raw is the url exactly as it was passed.
	Raw  string
	Host string
	Port string
	// Path is everything starting from the slash after the port. It's "/" for root bindings.
	Path string
}

// Parse validates the url. Only plain http urls with an explicit non-zero port and a
// trailing slash are accepted.
func Parse(url string) (Prefix, error) {
	if strings.HasPrefix(url, secureScheme) {
		return Prefix{}, status.ErrHTTPS
	}
	if !strings.HasPrefix(url, scheme) {
		return Prefix{}, status.ErrBadScheme
	}
	if !strings.HasSuffix(url, "/") {
		return Prefix{}, status.ErrNoTrailingSlash
	}

	rest := url[len(scheme):]
	slash := strings.IndexByte(rest, '/')
	authority, path := rest[:slash], rest[slash:]
	host, port, hasPort := splitHostPort(authority)
	if !hasPort || len(host) == 0 {
		return Prefix{}, status.ErrBadPort
	}

	portNum, err := strconv.ParseUint(port, 10, 16)
	if err != nil || portNum == 0 {
		return Prefix{}, status.ErrBadPort
	}

	return Prefix{
		Raw:  url,
		Host: host,
		Port: port,
		Path: path,
	}, nil
}

// IsWildcard reports whether the prefix matches any host.
func (p Prefix) IsWildcard() bool {
	return p.Host == Wildcard
}

// IsRelative reports whether the prefix has a path below the root. Such prefixes are
// matched as if they were bound to the root.
func (p Prefix) IsRelative() bool {
	return p.Path != "/"
}

// Matches tells whether a request addressed to the authority belongs to the prefix. Hosts
// are compared case-insensitively, ports must be equal. An authority without a port is
// considered to be using the default one.
func (p Prefix) Matches(authority string) bool {
	host, port, hasPort := splitHostPort(authority)
	if !hasPort {
		port = DefaultPort
	}

	if port != p.Port {
		return false
	}

	return p.IsWildcard() || strcomp.EqualFold(host, p.Host)
}

// splitHostPort separates an authority into its host and port. Bracketed IPv6 literals
// keep their brackets in the host.
func splitHostPort(authority string) (host, port string, hasPort bool) {
	colon := strings.LastIndexByte(authority, ':')
	if colon == -1 || strings.IndexByte(authority[colon:], ']') != -1 {
		return authority, "", false
	}

	return authority[:colon], authority[colon+1:], true
}
