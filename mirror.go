package vmem

import (
	"sync/atomic"
	"unsafe"
)

// Mirror is a double-mapped memory region exposed as a slice of T in
// which index i and index i+Cap() alias the same storage. Writes to one
// half are immediately visible in the other, which makes wrap-free ring
// buffers possible: any read of up to Cap() contiguous elements starting
// anywhere in the first half lands in valid, correctly-aliased memory.
//
// A Mirror owns its mapping and backing Object; Close releases both.
type Mirror[T any] struct {
	obj    *Object
	bytes  []byte
	data   []T
	half   Length
	closed atomic.Bool
	log    *Logger
}

// MirrorOption configures Mirror construction.
type MirrorOption func(*mirrorOptions)

type mirrorOptions struct {
	logger *Logger
}

// WithMirrorLogger attaches a logger to the mirror's lifecycle events.
func WithMirrorLogger(l *Logger) MirrorOption {
	return func(o *mirrorOptions) {
		o.logger = l
	}
}

// NewMirror creates a mirror with capacity for at least minLen elements
// of T, all bit-pattern zero. The backing region is born zero-filled,
// so no initialization pass is needed.
func NewMirror[T any](minLen int, opts ...MirrorOption) (*Mirror[T], error) {
	return newMirror[T](minLen, nil, opts)
}

// NewMirrorWithValue creates a mirror with every element set to value.
func NewMirrorWithValue[T any](minLen int, value T, opts ...MirrorOption) (*Mirror[T], error) {
	return newMirror[T](minLen, func() T { return value }, opts)
}

// NewMirrorWithFunc creates a mirror with every element produced by fn.
func NewMirrorWithFunc[T any](minLen int, fn func() T, opts ...MirrorOption) (*Mirror[T], error) {
	if fn == nil {
		panic("vmem: mirror fill function must not be nil")
	}
	return newMirror[T](minLen, fn, opts)
}

func newMirror[T any](minLen int, fill func() T, opts []MirrorOption) (*Mirror[T], error) {
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if elem == 0 {
		panic("vmem: mirror element type must have nonzero size")
	}
	if minLen <= 0 {
		panic("vmem: mirror length must be positive")
	}

	options := mirrorOptions{logger: logger()}
	for _, opt := range opts {
		opt(&options)
	}

	// One half holds ceil(minLen/2) elements, rounded up to a mappable
	// length that is also a whole number of elements so that the alias
	// of element i is exactly element i+Cap().
	halfElems := (minLen + 1) / 2
	half := RoundUpLength(halfElems * elem)
	for half.Int()%elem != 0 {
		half = RoundUpLength(half.Int() + 1)
	}

	obj, err := Anonymous(int64(half.Int()), false)
	if err != nil {
		return nil, err
	}
	view, ok := obj.ViewMut(OffsetZero(), half, AccessWrite)
	if !ok {
		// Anonymous objects are always writable.
		panic("vmem: anonymous object rejected writable view")
	}
	bytes, err := MapMultipleMut([]ViewMut{view, view})
	if err != nil {
		_ = obj.Close()
		return nil, err
	}

	n := 2 * half.Int() / elem
	m := &Mirror[T]{
		obj:   obj,
		bytes: bytes,
		data:  unsafe.Slice((*T)(unsafe.Pointer(&bytes[0])), n),
		half:  half,
		log:   options.logger,
	}
	if fill != nil {
		// Only the first half needs the values; the second half is the
		// same physical memory.
		for i := 0; i < n/2; i++ {
			m.data[i] = fill()
		}
	}
	m.log.Debug("created mirror", "elements", n, "half_bytes", half.Int())
	return m, nil
}

// Slice returns the mirrored elements. Its length is even, at least the
// requested minimum, and exactly twice Cap. The slice is valid only
// until Close; after Close it returns nil.
func (m *Mirror[T]) Slice() []T {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Len returns the total number of mirrored elements (both halves).
func (m *Mirror[T]) Len() int { return len(m.data) }

// Cap returns the number of distinct elements, i.e. half of Len.
func (m *Mirror[T]) Cap() int { return len(m.data) / 2 }

// Close unmaps both halves and releases the backing Object. It is
// idempotent.
func (m *Mirror[T]) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	err := Unmap(m.bytes, []Length{m.half, m.half})
	if cerr := m.obj.Close(); cerr != nil && err == nil {
		err = cerr
	}
	m.log.Debug("closed mirror", "half_bytes", m.half.Int(), "err", err)
	return err
}
