// Package vmem provides cross-platform virtual memory mapping: anonymous
// or file-backed mappable objects, permissioned views of their contents,
// and a mapping engine that can place several views contiguously in one
// address range.
//
// # Overview
//
// An Object owns one shareable backing resource (a descriptor on unix, a
// section handle on Windows). Views describe permissioned sub-ranges of
// an Object without owning anything; the mapping engine turns views into
// addressable memory. The same Object can be mapped many times, which is
// the basis for shared-memory IPC channels, executable code buffers, and
// the Mirror double mapping used to build wrap-free ring buffers.
//
// # Usage
//
//	length := vmem.RoundUpLength(1 << 20)
//	obj, err := vmem.Anonymous(int64(length.Int()), false)
//	if err != nil { ... }
//	defer obj.Close()
//
//	view, _ := obj.ViewMut(vmem.OffsetZero(), length, vmem.AccessWrite)
//	data, err := vmem.MapMut(view)
//	if err != nil { ... }
//	defer vmem.Unmap(data, []vmem.Length{view.Length()})
//
// # Contiguous placement
//
// MapMultiple and MapMultipleMut guarantee that the supplied views end
// up back to back, in order, in one contiguous range. On unix the range
// is reserved with an inaccessible mapping and filled in place, so
// placement succeeds or fails in a single attempt. On Windows the
// reservation must be released before the views can be mapped, leaving
// a window in which another thread can claim part of the range; the
// engine detects the collision, retries with a fresh reservation a
// bounded number of times, and reports ErrRaceCondition once the budget
// is exhausted. Both platforms expose the same contract.
//
// # Thread Safety
//
// All operations are synchronous and may be called from any goroutine.
// Objects use idempotent close semantics; views are immutable values.
// A mapping must not outlive its Object: unmap every mapping derived
// from an Object before closing it.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_FIXED placement,
//     memfd_create(2) on Linux or unlinked temporary files elsewhere
//     for anonymous backing storage
//   - Windows: CreateFileMapping/MapViewOfFileEx with a
//     VirtualAlloc-probed placement address
package vmem
