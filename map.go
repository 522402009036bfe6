package vmem

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/vmem/internal/sysmap"
)

// AccessPattern provides hints to the kernel about how a mapped range
// will be accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects the range to be accessed sequentially.
	AccessSequential
	// AccessRandom expects the range to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects the range to be accessed in the near future.
	AccessWillNeed
	// AccessDontNeed expects the range to not be accessed in the near future.
	AccessDontNeed
)

func (p AccessPattern) sys() sysmap.Advice {
	switch p {
	case AccessSequential:
		return sysmap.AdviceSequential
	case AccessRandom:
		return sysmap.AdviceRandom
	case AccessWillNeed:
		return sysmap.AdviceWillNeed
	case AccessDontNeed:
		return sysmap.AdviceDontNeed
	default:
		return sysmap.AdviceNormal
	}
}

// Map maps a read-only or executable view at a kernel-chosen address
// and returns the mapped bytes. The returned slice covers exactly the
// view's length and stays valid until unmapped with Unmap.
func Map(v View) ([]byte, error) {
	sv, err := v.sys()
	if err != nil {
		return nil, err
	}
	return mapOne(sv)
}

// MapMut maps a writable view at a kernel-chosen address and returns the
// mapped bytes.
func MapMut(v ViewMut) ([]byte, error) {
	sv, err := v.sys()
	if err != nil {
		return nil, err
	}
	return mapOne(sv)
}

func mapOne(sv sysmap.View) ([]byte, error) {
	addr, err := sysmap.MapView(sv)
	if err != nil {
		return nil, translateError("map view", err)
	}
	logger().Debug("mapped view", "addr", addr, "bytes", sv.Length)
	return rangeToSlice(addr, sv.Length), nil
}

// MapMultiple maps the views back to back, in order, in one contiguous
// address range and returns the combined bytes. The result behaves as a
// single buffer of the summed view lengths; unmap it with Unmap and the
// original per-view lengths.
//
// An empty batch is a contract violation and panics.
func MapMultiple(views []View) ([]byte, error) {
	if len(views) == 0 {
		panic("vmem: no views to map")
	}
	svs := make([]sysmap.View, len(views))
	for i, v := range views {
		sv, err := v.sys()
		if err != nil {
			return nil, err
		}
		svs[i] = sv
	}
	return placeAll(svs)
}

// MapMultipleMut is MapMultiple for writable views. Every view in the
// batch must carry a writable mode; a zero-value or otherwise
// non-writable entry fails the whole batch with ErrAccessDenied before
// any OS call is made.
func MapMultipleMut(views []ViewMut) ([]byte, error) {
	if len(views) == 0 {
		panic("vmem: no views to map")
	}
	svs := make([]sysmap.View, len(views))
	for i, v := range views {
		if !v.access.sys().Mutable() || v.object == nil {
			return nil, fmt.Errorf("%w: view %d is not writable", ErrAccessDenied, i)
		}
		sv, err := v.sys()
		if err != nil {
			return nil, err
		}
		svs[i] = sv
	}
	return placeAll(svs)
}

func placeAll(svs []sysmap.View) ([]byte, error) {
	addr, total, err := sysmap.PlaceContiguous(svs)
	if err != nil {
		return nil, translateError("map views contiguously", err)
	}
	logger().Debug("placed views contiguously", "addr", addr, "views", len(svs), "bytes", total)
	return rangeToSlice(addr, total), nil
}

// Unmap releases a mapping produced by Map, MapMut, MapMultiple, or
// MapMultipleMut. lengths must be the original per-view lengths in the
// original order: a contiguous placement is torn down as the same
// sequence of independent sub-mappings it was built from. A failed
// sub-unmap does not stop the remaining ones; the first error observed
// is returned.
//
// A lengths sequence that does not cover data exactly is a contract
// violation and panics.
func Unmap(data []byte, lengths []Length) error {
	total := 0
	for _, l := range lengths {
		total += l.Int()
	}
	if total != len(data) || len(data) == 0 {
		panic("vmem: view lengths do not cover the mapping")
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	var firstErr error
	offset := 0
	for _, l := range lengths {
		if err := sysmap.UnmapRange(addr+uintptr(offset), l.Int()); err != nil && firstErr == nil {
			firstErr = translateError("unmap view", err)
		}
		offset += l.Int()
	}
	logger().Debug("unmapped views", "addr", addr, "views", len(lengths), "bytes", total)
	return firstErr
}

// Advise passes an access-pattern hint for a mapped range to the
// kernel. Hints are advisory; on platforms without an equivalent this
// is a no-op.
func Advise(data []byte, pattern AccessPattern) error {
	return translateError("advise", sysmap.MemAdvise(data, pattern.sys()))
}

// Sync flushes modified pages of a shared writable mapping to its
// backing object and waits for the write-back to complete. Meaningful
// for file-backed mappings; a no-op for lengths of zero.
func Sync(data []byte) error {
	return translateError("sync", sysmap.MemSync(data))
}

func rangeToSlice(addr uintptr, length int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
}
