package ring

import "sync/atomic"

// Queue moves fixed-size payloads from exactly one producer goroutine to exactly one
// consumer goroutine without locks. It is lossy: a full queue rejects the payload and the
// producer moves on.
//
// A slot is writable when (write+1) % capacity != read, so a Queue of capacity n holds at most
// n-1 payloads. Slot contents are written before the write index is published and read after
// it is observed, which the sync/atomic happens-before guarantees make visible to the consumer.
type Queue[T any] struct {
	slots   [][]T
	lengths []int
	write   atomic.Uint64
	read    atomic.Uint64
}

// NewQueue preallocates capacity slots of slotLen elements each. Capacity is raised to 2 so
// that at least one payload fits.
func NewQueue[T any](capacity, slotLen int) *Queue[T] {
	capacity = max(capacity, 2)
	slotLen = max(slotLen, 1)

	backing := make([]T, capacity*slotLen)
	slots := make([][]T, capacity)

	for i := range slots {
		slots[i] = backing[i*slotLen : (i+1)*slotLen : (i+1)*slotLen]
	}

	return &Queue[T]{
		slots:   slots,
		lengths: make([]int, capacity),
	}
}

// Push copies data into the next free slot. It returns false, leaving the queue untouched,
// when the queue is full or data does not fit in a slot. Producer side only.
func (q *Queue[T]) Push(data []T) bool {
	capacity := uint64(len(q.slots))

	current := q.write.Load()
	next := (current + 1) % capacity

	if next == q.read.Load() || len(data) > len(q.slots[current]) {
		return false
	}

	q.lengths[current] = copy(q.slots[current], data)
	q.write.Store(next)

	return true
}

// Pop copies the oldest payload into dest and frees its slot. It returns the number of
// elements copied, and false when nothing is available. Consumer side only.
func (q *Queue[T]) Pop(dest []T) (int, bool) {
	capacity := uint64(len(q.slots))

	current := q.read.Load()
	if current == q.write.Load() {
		return 0, false
	}

	n := copy(dest, q.slots[current][:q.lengths[current]])
	q.read.Store((current + 1) % capacity)

	return n, true
}

// Len is the number of payloads waiting. It is only a hint when called concurrently.
func (q *Queue[T]) Len() int {
	capacity := uint64(len(q.slots))
	write, read := q.write.Load(), q.read.Load()

	return int((write + capacity - read) % capacity) //nolint:gosec // bounded by capacity
}

// Cap is the number of slots, one more than the number of payloads the queue can hold.
func (q *Queue[T]) Cap() int {
	return len(q.slots)
}

// SlotLen is the maximum payload length.
func (q *Queue[T]) SlotLen() int {
	return len(q.slots[0])
}
