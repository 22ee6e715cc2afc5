package buffer

// Buffer accumulates the bytes received on a single connection. Data is appended at the
// tail and consumed from the head, so the head of the buffer is always the first byte
// nobody has looked at yet.
type Buffer struct {
	memory  []byte
	maxSize int
}

func New(initialSize, maxSize int) *Buffer {
	return &Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data, checking whether the new amount of elements (bytes) doesn't exceed the
// limit, otherwise discarding the data and returning false.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// Reserve grows the capacity to exactly total bytes, if it's lower. It's used when the
// length of the whole request is already known, so the rest of it fits without any
// further reallocations.
func (b *Buffer) Reserve(total int) (ok bool) {
	if total > b.maxSize {
		return false
	}

	if total > cap(b.memory) {
		memory := make([]byte, len(b.memory), total)
		copy(memory, b.memory)
		b.memory = memory
	}

	return true
}

// Consume drops the first n bytes, moving the rest to the beginning. Capacity is never
// given back.
func (b *Buffer) Consume(n int) {
	if n >= len(b.memory) {
		b.memory = b.memory[:0]
		return
	}

	rest := copy(b.memory, b.memory[n:])
	b.memory = b.memory[:rest]
}

// Bytes returns the buffered data. The slice is valid only until the next Append, Reserve
// or Consume.
func (b *Buffer) Bytes() []byte {
	return b.memory
}

func (b *Buffer) Len() int {
	return len(b.memory)
}

func (b *Buffer) Cap() int {
	return cap(b.memory)
}
