package vmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirror_Zeroed(t *testing.T) {
	m, err := NewMirror[uint64](100)
	require.NoError(t, err)
	defer m.Close()

	buf := m.Slice()
	require.GreaterOrEqual(t, len(buf), 100)
	assert.Zero(t, len(buf)%2)
	assert.Equal(t, m.Cap()*2, m.Len())

	for i, v := range buf {
		require.Zero(t, v, "element %d", i)
	}
}

func TestMirror_WithValue(t *testing.T) {
	m, err := NewMirrorWithValue[int32](5, 42)
	require.NoError(t, err)
	defer m.Close()

	buf := m.Slice()
	n := len(buf)
	require.GreaterOrEqual(t, n, 5)
	require.Zero(t, n%2)
	for i, v := range buf {
		require.Equal(t, int32(42), v, "element %d", i)
	}

	// The two halves alias the same storage.
	buf[0] = 99
	assert.Equal(t, int32(99), buf[n/2])
	buf[n-1] = 77
	assert.Equal(t, int32(77), buf[n/2-1])

	// And the other direction.
	buf[n/2+1] = 13
	assert.Equal(t, int32(13), buf[1])
}

func TestMirror_WithFunc(t *testing.T) {
	next := int64(0)
	m, err := NewMirrorWithFunc[int64](8, func() int64 {
		next++
		return next
	})
	require.NoError(t, err)
	defer m.Close()

	buf := m.Slice()
	half := len(buf) / 2
	assert.Equal(t, int64(1), buf[0])
	assert.Equal(t, int64(half), buf[half-1])
	assert.Equal(t, buf[:half], buf[half:], "second half mirrors the first")
}

func TestMirror_OddElementSize(t *testing.T) {
	type rgb [3]byte
	m, err := NewMirror[rgb](4)
	require.NoError(t, err)
	defer m.Close()

	buf := m.Slice()
	n := len(buf)
	require.Zero(t, n%2, "element count stays even for element sizes that do not divide the granularity")

	buf[2] = rgb{1, 2, 3}
	assert.Equal(t, rgb{1, 2, 3}, buf[n/2+2])
}

func TestMirror_Close(t *testing.T) {
	m, err := NewMirrorWithValue[byte](10, 0xFF)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")
	assert.Nil(t, m.Slice())
}

func TestMirror_InvalidArguments(t *testing.T) {
	assert.Panics(t, func() { NewMirror[byte](0) })
	assert.Panics(t, func() { NewMirror[struct{}](4) })
	assert.Panics(t, func() { NewMirrorWithFunc[byte](4, nil) })
}
