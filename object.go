package vmem

import (
	"os"
	"sync/atomic"

	"github.com/hupe1980/vmem/internal/sysmap"
)

// Object owns exactly one platform backing resource for a shareable
// memory region of known size. Destroying the Object releases the
// resource; views of it must be unmapped first.
type Object struct {
	inner   *sysmap.Object
	size    int64
	write   bool
	execute bool
	closed  atomic.Bool
}

// Anonymous creates an Object backed by a fresh, zero-filled, shareable
// memory region of size bytes. The region is always writable. An Object
// not created executable can never produce an executable view.
//
// A non-positive size is a contract violation and panics.
func Anonymous(size int64, executable bool) (*Object, error) {
	if size <= 0 {
		panic("vmem: object size must be positive")
	}
	inner, err := sysmap.NewAnonymous(size, executable)
	if err != nil {
		return nil, translateError("create anonymous object", err)
	}
	logger().Debug("created anonymous object", "size", size, "executable", executable)
	return &Object{inner: inner, size: size, write: true, execute: executable}, nil
}

// FilePermissions is the permission set requested for a file-backed
// Object.
type FilePermissions struct {
	// Write allows shared writable views. Requires the file to be open
	// read-write and not in append mode.
	Write bool
	// Execute allows executable views.
	Execute bool
}

// WithFile creates an Object backed by an already-open file. The open
// mode of the file is checked against the requested permissions before
// any OS mapping object is created; an incompatible mode fails with
// ErrAccessDenied. The Object holds its own reference to the file, so
// f may be closed afterwards.
//
// The caller is responsible for ensuring the file is not truncated
// while mapped; shrinking a mapped file makes accesses past the new end
// fault.
func WithFile(f *os.File, perms FilePermissions) (*Object, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, translateError("stat file", err)
	}
	inner, err := sysmap.NewFromFile(f, perms.Write, perms.Execute)
	if err != nil {
		return nil, translateError("open file mapping", err)
	}
	logger().Debug("created file-backed object",
		"size", fi.Size(), "write", perms.Write, "execute", perms.Execute)
	return &Object{inner: inner, size: fi.Size(), write: perms.Write, execute: perms.Execute}, nil
}

// Size returns the byte size of the backing region.
func (o *Object) Size() int64 { return o.size }

// View derives a readable view of the Object. access must be AccessRead
// or AccessExecute; anything else is a contract violation and panics.
//
// Reports false when the capability is not available: an executable
// view of a non-executable Object, or any view of a closed Object. This
// is a capability check, not an OS failure, so no error is produced.
func (o *Object) View(offset Offset, length Length, access Access) (View, bool) {
	if access != AccessRead && access != AccessExecute {
		panic("vmem: View requires AccessRead or AccessExecute")
	}
	if o.closed.Load() {
		return View{}, false
	}
	if access == AccessExecute && !o.execute {
		return View{}, false
	}
	return View{object: o, offset: offset, length: length, access: access}, true
}

// ViewMut derives a writable view of the Object. access must be
// AccessWrite or AccessCopyOnWrite; anything else is a contract
// violation and panics.
//
// Reports false when the capability is not available: a shared writable
// view of a non-writable Object, or any view of a closed Object.
// Copy-on-write views are always available, since their stores never
// reach the backing resource.
func (o *Object) ViewMut(offset Offset, length Length, access Access) (ViewMut, bool) {
	if access != AccessWrite && access != AccessCopyOnWrite {
		panic("vmem: ViewMut requires AccessWrite or AccessCopyOnWrite")
	}
	if o.closed.Load() {
		return ViewMut{}, false
	}
	if access == AccessWrite && !o.write {
		return ViewMut{}, false
	}
	return ViewMut{object: o, offset: offset, length: length, access: access}, true
}

// Close releases the backing resource. It is idempotent; only the first
// call has any effect. Mappings derived from the Object must be
// unmapped before closing.
func (o *Object) Close() error {
	if o.closed.Swap(true) {
		return nil
	}
	return translateError("close object", o.inner.Close())
}
