package vmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestMap_SharedVisibility(t *testing.T) {
	length := pageLength(t, 1)
	obj, err := Anonymous(int64(length.Int()), false)
	require.NoError(t, err)
	defer obj.Close()

	wview, ok := obj.ViewMut(OffsetZero(), length, AccessWrite)
	require.True(t, ok)
	rview, ok := obj.View(OffsetZero(), length, AccessRead)
	require.True(t, ok)

	wdata, err := MapMut(wview)
	require.NoError(t, err)
	rdata, err := Map(rview)
	require.NoError(t, err)

	assert.Equal(t, byte(0), rdata[42], "anonymous backing is zero-filled")
	wdata[42] = 0x5A
	assert.Equal(t, byte(0x5A), rdata[42], "shared mappings of one object alias its storage")

	require.NoError(t, Unmap(wdata, []Length{length}))
	require.NoError(t, Unmap(rdata, []Length{length}))
}

func TestMap_ViewAtOffset(t *testing.T) {
	g := LengthGranularity()
	total := pageLength(t, 2)
	page := pageLength(t, 1)
	obj, err := Anonymous(int64(total.Int()), false)
	require.NoError(t, err)
	defer obj.Close()

	whole, ok := obj.ViewMut(OffsetZero(), total, AccessWrite)
	require.True(t, ok)
	wdata, err := MapMut(whole)
	require.NoError(t, err)
	wdata[g] = 0xC3 // first byte of the second page

	offset, ok := ExactOffset(int64(g))
	require.True(t, ok)
	second, ok := obj.View(offset, page, AccessRead)
	require.True(t, ok)
	rdata, err := Map(second)
	require.NoError(t, err)

	assert.Len(t, rdata, g)
	assert.Equal(t, byte(0xC3), rdata[0])

	require.NoError(t, Unmap(rdata, []Length{page}))
	require.NoError(t, Unmap(wdata, []Length{total}))
}

func TestMapMultiple_Contiguous(t *testing.T) {
	g := LengthGranularity()
	page := pageLength(t, 1)
	total := pageLength(t, 2)
	obj, err := Anonymous(int64(total.Int()), false)
	require.NoError(t, err)
	defer obj.Close()

	offset, ok := ExactOffset(int64(g))
	require.True(t, ok)
	first, ok := obj.ViewMut(OffsetZero(), page, AccessWrite)
	require.True(t, ok)
	second, ok := obj.ViewMut(offset, page, AccessWrite)
	require.True(t, ok)

	data, err := MapMultipleMut([]ViewMut{first, second})
	require.NoError(t, err)
	require.Len(t, data, 2*g, "combined mapping covers exactly the summed view lengths")

	// Write across the seam between the two sub-mappings.
	data[g-1] = 0x11
	data[g] = 0x22

	// Both writes must have landed in the backing object at the
	// expected positions: no gap, no overlap.
	whole, ok := obj.View(OffsetZero(), total, AccessRead)
	require.True(t, ok)
	check, err := Map(whole)
	require.NoError(t, err)
	assert.Equal(t, byte(0x11), check[g-1])
	assert.Equal(t, byte(0x22), check[g])

	require.NoError(t, Unmap(check, []Length{total}))
	require.NoError(t, Unmap(data, []Length{page, page}))
}

func TestMapMultiple_AcrossObjects(t *testing.T) {
	page := pageLength(t, 1)
	a, err := Anonymous(int64(page.Int()), false)
	require.NoError(t, err)
	defer a.Close()
	b, err := Anonymous(int64(page.Int()), false)
	require.NoError(t, err)
	defer b.Close()

	va, ok := a.ViewMut(OffsetZero(), page, AccessWrite)
	require.True(t, ok)
	vb, ok := b.ViewMut(OffsetZero(), page, AccessWrite)
	require.True(t, ok)

	data, err := MapMultipleMut([]ViewMut{va, vb})
	require.NoError(t, err)
	g := page.Int()
	data[0] = 0xA1
	data[g] = 0xB2

	// Each write must be visible through its own object only.
	ra, ok := a.View(OffsetZero(), page, AccessRead)
	require.True(t, ok)
	rb, ok := b.View(OffsetZero(), page, AccessRead)
	require.True(t, ok)
	checkA, err := Map(ra)
	require.NoError(t, err)
	checkB, err := Map(rb)
	require.NoError(t, err)
	assert.Equal(t, byte(0xA1), checkA[0])
	assert.Equal(t, byte(0), checkA[g-1])
	assert.Equal(t, byte(0xB2), checkB[0])

	require.NoError(t, Unmap(checkA, []Length{page}))
	require.NoError(t, Unmap(checkB, []Length{page}))
	require.NoError(t, Unmap(data, []Length{page, page}))
}

func TestMapMultipleMut_RejectsZeroValueView(t *testing.T) {
	page := pageLength(t, 1)
	obj, err := Anonymous(int64(page.Int()), false)
	require.NoError(t, err)
	defer obj.Close()

	view, ok := obj.ViewMut(OffsetZero(), page, AccessWrite)
	require.True(t, ok)

	_, err = MapMultipleMut([]ViewMut{view, {}})
	assert.ErrorIs(t, err, ErrAccessDenied, "the whole batch fails before any OS call")
}

func TestUnmap_LengthMismatchPanics(t *testing.T) {
	page := pageLength(t, 1)
	obj, err := Anonymous(int64(page.Int()), false)
	require.NoError(t, err)
	defer obj.Close()

	view, ok := obj.ViewMut(OffsetZero(), page, AccessWrite)
	require.True(t, ok)
	data, err := MapMut(view)
	require.NoError(t, err)
	defer func() { require.NoError(t, Unmap(data, []Length{page})) }()

	assert.Panics(t, func() { _ = Unmap(data, []Length{page, page}) })
}

func TestMapMultiple_Concurrent(t *testing.T) {
	page := pageLength(t, 1)

	var eg errgroup.Group
	for w := 0; w < 8; w++ {
		w := w
		eg.Go(func() error {
			for i := 0; i < 50; i++ {
				obj, err := Anonymous(int64(page.Int()), false)
				if err != nil {
					return err
				}
				view, _ := obj.ViewMut(OffsetZero(), page, AccessWrite)
				data, err := MapMultipleMut([]ViewMut{view, view})
				if err != nil {
					obj.Close()
					return err
				}
				g := page.Int()
				data[w] = byte(i)
				if data[g+w] != byte(i) {
					obj.Close()
					return assert.AnError
				}
				if err := Unmap(data, []Length{page, page}); err != nil {
					obj.Close()
					return err
				}
				if err := obj.Close(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
}

func TestAdvise(t *testing.T) {
	page := pageLength(t, 1)
	obj, err := Anonymous(int64(page.Int()), false)
	require.NoError(t, err)
	defer obj.Close()

	view, ok := obj.ViewMut(OffsetZero(), page, AccessWrite)
	require.True(t, ok)
	data, err := MapMut(view)
	require.NoError(t, err)
	defer func() { require.NoError(t, Unmap(data, []Length{page})) }()

	for _, pattern := range []AccessPattern{
		AccessDefault, AccessSequential, AccessRandom, AccessWillNeed,
	} {
		assert.NoError(t, Advise(data, pattern))
	}
}
