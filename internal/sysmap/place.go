package sysmap

import "fmt"

// maxPlaceAttempts bounds the retry loop of the placement protocol. The
// reservation race is expected to be rare, so a small cap keeps worst
// case latency bounded without giving up on the first collision.
const maxPlaceAttempts = 10

// placeOps is the per-platform capability set used by placeContiguous.
//
// reserve returns the base of a free range of the requested length. On
// platforms where the views are then written over the live reservation
// (atomic == true) no other thread can claim the range, and release is
// used only to return untouched reservation tail on a failure path. On
// platforms where the reservation must be given back before mapping
// (atomic == false), release is a no-op and mapAt can lose the range to
// a concurrent mapping, which surfaces as a mapAt error.
type placeOps struct {
	atomic  bool
	reserve func(length int) (uintptr, error)
	release func(addr uintptr, length int) error
	mapAt   func(addr uintptr, v View) error
	unmap   func(addr uintptr, length int) error
}

// placeContiguous maps views back to back in one contiguous range, in
// the order supplied, and returns the base address and total length.
func placeContiguous(ops placeOps, views []View) (uintptr, int, error) {
	total := 0
	for _, v := range views {
		total += v.Length
	}

	var lastErr error
	for attempt := 1; attempt <= maxPlaceAttempts; attempt++ {
		base, err := ops.reserve(total)
		if err != nil {
			return 0, 0, err
		}
		if err := fillReserved(ops, base, total, views); err != nil {
			if ops.atomic {
				// The range was exclusively ours, so the failure is a
				// genuine mapping error and retrying cannot help.
				return 0, 0, err
			}
			lastErr = err
			continue
		}
		return base, total, nil
	}
	return 0, 0, fmt.Errorf("%w after %d attempts: %w", ErrRace, maxPlaceAttempts, lastErr)
}

// fillReserved maps each view at its sub-offset of base. On failure it
// unmaps every view placed so far and releases the untouched tail of
// the reservation, leaving no trace of the attempt.
func fillReserved(ops placeOps, base uintptr, total int, views []View) error {
	offset := 0
	for i, v := range views {
		if err := ops.mapAt(base+uintptr(offset), v); err != nil {
			undo := 0
			for _, placed := range views[:i] {
				_ = ops.unmap(base+uintptr(undo), placed.Length)
				undo += placed.Length
			}
			if offset < total {
				_ = ops.release(base+uintptr(offset), total-offset)
			}
			return err
		}
		offset += v.Length
	}
	return nil
}
