package http1

import "math"

// maxContentLength is the largest body the parser accepts. The whole body is buffered
// before a request is handed out, so anything bigger couldn't be served anyway.
const maxContentLength = math.MaxInt32

const separators = "()<>@,;:\\\"/[]?={}"

var (
	graphChars = newCharset(func(c byte) bool {
		return c > ' ' && c < 0x7f
	})
	tokenChars = newCharset(func(c byte) bool {
		if c <= ' ' || c >= 0x7f {
			return false
		}

		for i := 0; i < len(separators); i++ {
			if separators[i] == c {
				return false
			}
		}

		return true
	})
	// header values may contain obs-text, but never control characters besides HT
	valueChars = newCharset(func(c byte) bool {
		return c == '\t' || (c >= ' ' && c != 0x7f)
	})
)

func newCharset(predicate func(c byte) bool) (set [256]bool) {
	for c := 0; c < len(set); c++ {
		set[c] = predicate(byte(c))
	}

	return set
}

func isGraph(c byte) bool {
	return graphChars[c]
}

func isTokenChar(c byte) bool {
	return tokenChars[c]
}

func isValueChar(c byte) bool {
	return valueChars[c]
}
