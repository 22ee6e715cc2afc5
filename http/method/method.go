package method

type Method uint8

const (
	Unknown Method = iota
	OPTIONS
	GET
	HEAD
	POST
	PUT
	DELETE
	TRACE
	CONNECT
	TRACK
	MOVE
	COPY
	PROPFIND
	PROPPATCH
	MKCOL
	LOCK
	UNLOCK
	SEARCH

	// Count is the last one enum, so contains the greatest integer value of all the
	// methods. So real number of methods is lower by 1
	Count = iota - 1
)

// List contains all the recognized methods, sorted by their integer value. Unknown is not
// included, so in order to index the List, you must subtract 1 first.
var List = []Method{
	OPTIONS, GET, HEAD, POST, PUT, DELETE, TRACE, CONNECT, TRACK, MOVE, COPY,
	PROPFIND, PROPPATCH, MKCOL, LOCK, UNLOCK, SEARCH,
}

var names = [...]string{
	Unknown:   "",
	OPTIONS:   "OPTIONS",
	GET:       "GET",
	HEAD:      "HEAD",
	POST:      "POST",
	PUT:       "PUT",
	DELETE:    "DELETE",
	TRACE:     "TRACE",
	CONNECT:   "CONNECT",
	TRACK:     "TRACK",
	MOVE:      "MOVE",
	COPY:      "COPY",
	PROPFIND:  "PROPFIND",
	PROPPATCH: "PROPPATCH",
	MKCOL:     "MKCOL",
	LOCK:      "LOCK",
	UNLOCK:    "UNLOCK",
	SEARCH:    "SEARCH",
}

// String returns the method token. Unknown methods are rendered as an empty string, the
// raw token is kept in Request.RawMethod.
func (m Method) String() string {
	if int(m) >= len(names) {
		return ""
	}

	return names[m]
}

// Parse returns the method matching the token exactly (methods are case-sensitive).
// Tokens which aren't recognized result in Unknown.
func Parse(str string) Method {
	switch len(str) {
	case 3:
		if str == "GET" {
			return GET
		} else if str == "PUT" {
			return PUT
		}
	case 4:
		switch str {
		case "HEAD":
			return HEAD
		case "POST":
			return POST
		case "MOVE":
			return MOVE
		case "COPY":
			return COPY
		case "LOCK":
			return LOCK
		}
	case 5:
		if str == "TRACE" {
			return TRACE
		} else if str == "TRACK" {
			return TRACK
		} else if str == "MKCOL" {
			return MKCOL
		}
	case 6:
		switch str {
		case "DELETE":
			return DELETE
		case "UNLOCK":
			return UNLOCK
		case "SEARCH":
			return SEARCH
		}
	case 7:
		if str == "OPTIONS" {
			return OPTIONS
		} else if str == "CONNECT" {
			return CONNECT
		}
	case 8:
		if str == "PROPFIND" {
			return PROPFIND
		}
	case 9:
		if str == "PROPPATCH" {
			return PROPPATCH
		}
	}

	return Unknown
}
