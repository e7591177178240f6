// Package ring provides the fixed-capacity circular buffers shared by the meters:
// History, an overwriting trailing window owned by a single goroutine, and Queue, a lossy
// single-producer/single-consumer transfer buffer.
package ring

// History keeps the most recent Cap() values written to it.
// The write cursor only ever moves forward, modulo capacity.
type History[T any] struct {
	buf    []T
	pos    int
	filled int
}

// NewHistory allocates a History holding up to capacity values (minimum 1).
func NewHistory[T any](capacity int) *History[T] {
	return &History[T]{buf: make([]T, max(capacity, 1))}
}

// Write stores value at the cursor and advances it.
// It returns true when the cursor wrapped back to the start of the buffer.
func (h *History[T]) Write(value T) bool {
	h.buf[h.pos] = value

	h.pos++
	if h.filled < len(h.buf) {
		h.filled++
	}

	if h.pos == len(h.buf) {
		h.pos = 0

		return true
	}

	return false
}

// Last returns the n most recent values, oldest first, as two contiguous segments.
// n is clamped to the available history; tail is empty unless the range wraps.
func (h *History[T]) Last(n int) (head, tail []T) {
	n = min(max(n, 0), h.filled)
	if n == 0 {
		return nil, nil
	}

	start := h.pos - n
	if start >= 0 {
		return h.buf[start:h.pos], nil
	}

	return h.buf[len(h.buf)+start:], h.buf[:h.pos]
}

// Len is the number of values available for reading.
func (h *History[T]) Len() int {
	return h.filled
}

// Cap is the fixed capacity.
func (h *History[T]) Cap() int {
	return len(h.buf)
}

// Reset zeroes the storage and rewinds the cursor.
func (h *History[T]) Reset() {
	clear(h.buf)

	h.pos = 0
	h.filled = 0
}
