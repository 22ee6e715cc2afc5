package headers

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Header struct {
	Name, Value string
	// ID is Unknown for every header not listed in the well-known table.
	ID ID
}

// Headers keeps request headers in the order they arrived. Lookups are linear, which
// is faster than a map on the usual amount of headers per request.
type Headers struct {
	pairs []Header
}

func New() *Headers {
	return new(Headers)
}

// NewPrealloc returns an instance with pre-allocated underlying storage.
func NewPrealloc(n int) *Headers {
	return &Headers{
		pairs: make([]Header, 0, n),
	}
}

// Add appends a new pair, identifying the name against the well-known table.
func (h *Headers) Add(name, value string) *Headers {
	h.pairs = append(h.pairs, Header{
		Name:  name,
		Value: value,
		ID:    Identify(name),
	})
	return h
}

// Get returns the first value of the header and whether it was found at all.
func (h *Headers) Get(name string) (value string, found bool) {
	for _, pair := range h.pairs {
		if strcomp.EqualFold(pair.Name, name) {
			return pair.Value, true
		}
	}

	return "", false
}

// Value returns the first value of the header, or an empty string.
func (h *Headers) Value(name string) string {
	value, _ := h.Get(name)
	return value
}

// Known returns the first value of a well-known header.
func (h *Headers) Known(id ID) (value string, found bool) {
	for _, pair := range h.pairs {
		if pair.ID == id {
			return pair.Value, true
		}
	}

	return "", false
}

// Values returns all the values of the header in order of appearance. Returns nil if
// the header isn't presented.
func (h *Headers) Values(name string) (values []string) {
	for _, pair := range h.pairs {
		if strcomp.EqualFold(pair.Name, name) {
			values = append(values, pair.Value)
		}
	}

	return values
}

// Unknown returns all headers not listed in the well-known table.
func (h *Headers) Unknown() []Header {
	var unknown []Header
	for _, pair := range h.pairs {
		if pair.ID == Unknown {
			unknown = append(unknown, pair)
		}
	}

	return unknown
}

func (h *Headers) Has(name string) bool {
	_, found := h.Get(name)
	return found
}

// Iter returns an iterator over the name-value pairs.
func (h *Headers) Iter() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range h.pairs {
			if !yield(pair.Name, pair.Value) {
				return
			}
		}
	}
}

func (h *Headers) Len() int {
	return len(h.pairs)
}

// Expose exposes the underlying pairs slice.
func (h *Headers) Expose() []Header {
	return h.pairs
}
