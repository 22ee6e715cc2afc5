package http1

// Verdict is what the parser concludes about the buffered data.
type Verdict uint8

const (
	// Incomplete means the data is a valid prefix of a request. Nothing is decided yet, the
	// same data plus whatever arrives next must be parsed again.
	Incomplete Verdict = iota
	// Invalid means the data can never become a valid request.
	Invalid
	// Complete means the request head is valid and the whole body is buffered.
	Complete
)

func (v Verdict) String() string {
	switch v {
	case Incomplete:
		return "incomplete"
	case Invalid:
		return "invalid"
	case Complete:
		return "complete"
	}

	return ""
}
