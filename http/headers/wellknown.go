package headers

import "github.com/indigo-web/utils/strcomp"

// ID identifies a well-known request header. Headers which aren't known are reported
// with the Unknown id and keep their name only as a string.
type ID uint8

const (
	CacheControl ID = iota
	Connection
	Date
	KeepAlive
	Pragma
	Trailer
	TransferEncoding
	Upgrade
	Via
	Warning
	Allow
	ContentLength
	ContentType
	ContentEncoding
	ContentLanguage
	ContentLocation
	ContentMD5
	ContentRange
	Expires
	LastModified
	Accept
	AcceptCharset
	AcceptEncoding
	AcceptLanguage
	Authorization
	Cookie
	Expect
	From
	Host
	IfMatch
	IfModifiedSince
	IfNoneMatch
	IfRange
	IfUnmodifiedSince
	MaxForwards
	ProxyAuthorization
	Referer
	Range
	TE
	Translate
	UserAgent

	// Unknown is also the number of well-known headers.
	Unknown
)

var wellKnown = [...]string{
	CacheControl:       "Cache-Control",
	Connection:         "Connection",
	Date:               "Date",
	KeepAlive:          "Keep-Alive",
	Pragma:             "Pragma",
	Trailer:            "Trailer",
	TransferEncoding:   "Transfer-Encoding",
	Upgrade:            "Upgrade",
	Via:                "Via",
	Warning:            "Warning",
	Allow:              "Allow",
	ContentLength:      "Content-Length",
	ContentType:        "Content-Type",
	ContentEncoding:    "Content-Encoding",
	ContentLanguage:    "Content-Language",
	ContentLocation:    "Content-Location",
	ContentMD5:         "Content-MD5",
	ContentRange:       "Content-Range",
	Expires:            "Expires",
	LastModified:       "Last-Modified",
	Accept:             "Accept",
	AcceptCharset:      "Accept-Charset",
	AcceptEncoding:     "Accept-Encoding",
	AcceptLanguage:     "Accept-Language",
	Authorization:      "Authorization",
	Cookie:             "Cookie",
	Expect:             "Expect",
	From:               "From",
	Host:               "Host",
	IfMatch:            "If-Match",
	IfModifiedSince:    "If-Modified-Since",
	IfNoneMatch:        "If-None-Match",
	IfRange:            "If-Range",
	IfUnmodifiedSince:  "If-Unmodified-Since",
	MaxForwards:        "Max-Forwards",
	ProxyAuthorization: "Proxy-Authorization",
	Referer:            "Referer",
	Range:              "Range",
	TE:                 "TE",
	Translate:          "Translate",
	UserAgent:          "User-Agent",
}

// Identify returns the id of a header name, comparing case-insensitively.
func Identify(name string) ID {
	for id, known := range wellKnown {
		if len(known) == len(name) && strcomp.EqualFold(known, name) {
			return ID(id)
		}
	}

	return Unknown
}

// String returns the canonical name of the header, or an empty string for Unknown.
func (id ID) String() string {
	if id >= Unknown {
		return ""
	}

	return wellKnown[id]
}
