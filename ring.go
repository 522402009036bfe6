package vmem

// Ring is a fixed-capacity FIFO queue of T built on a Mirror. Because
// the storage is double-mapped, a read of any run of queued elements is
// always a single contiguous slice, even when it spans the wrap
// boundary; there is no wrap-handling branch anywhere.
//
// Ring is not safe for concurrent use; callers coordinating a producer
// and a consumer must synchronize externally.
type Ring[T any] struct {
	mirror *Mirror[T]
	buf    []T
	cap    uint64
	head   uint64 // next element to pop
	tail   uint64 // next free slot
}

// NewRing creates a ring with capacity for at least minCap elements.
// The actual capacity is Cap and may be larger due to rounding.
func NewRing[T any](minCap int) (*Ring[T], error) {
	m, err := NewMirror[T](2 * minCap)
	if err != nil {
		return nil, err
	}
	return &Ring[T]{
		mirror: m,
		buf:    m.Slice(),
		cap:    uint64(m.Cap()),
	}, nil
}

// Cap returns the number of elements the ring can hold.
func (r *Ring[T]) Cap() int { return int(r.cap) }

// Len returns the number of elements currently queued.
func (r *Ring[T]) Len() int { return int(r.tail - r.head) }

// Push appends v to the ring. Reports false when the ring is full.
func (r *Ring[T]) Push(v T) bool {
	if r.tail-r.head == r.cap {
		return false
	}
	r.buf[r.tail%r.cap] = v
	r.tail++
	return true
}

// Pop removes and returns the oldest element. Reports false when the
// ring is empty.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.tail == r.head {
		return zero, false
	}
	v := r.buf[r.head%r.cap]
	r.head++
	return v, true
}

// Peek returns the oldest n queued elements as one contiguous slice
// without removing them. The slice is valid until the next Pop or
// Close. n larger than Len is a contract violation and panics.
func (r *Ring[T]) Peek(n int) []T {
	if n < 0 || uint64(n) > r.tail-r.head {
		panic("vmem: peek beyond ring contents")
	}
	start := r.head % r.cap
	return r.buf[start : start+uint64(n)]
}

// Close releases the ring's storage.
func (r *Ring[T]) Close() error {
	r.buf = nil
	return r.mirror.Close()
}
