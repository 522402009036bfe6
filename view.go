package vmem

import "github.com/hupe1980/vmem/internal/sysmap"

// Access is the unified permission taxonomy for views. Read and Execute
// modes produce immutable views; Write and CopyOnWrite produce mutable
// ones.
type Access int

const (
	// AccessRead maps the view read-only.
	AccessRead Access = iota + 1
	// AccessExecute maps the view readable and executable.
	AccessExecute
	// AccessWrite maps the view readable and writable; stores propagate
	// to the backing object and every other shared mapping of it.
	AccessWrite
	// AccessCopyOnWrite maps the view readable and writable, but stores
	// stay private to the mapping and never reach the backing object.
	AccessCopyOnWrite
)

func (a Access) sys() sysmap.Access {
	switch a {
	case AccessExecute:
		return sysmap.AccessExecute
	case AccessWrite:
		return sysmap.AccessWrite
	case AccessCopyOnWrite:
		return sysmap.AccessCopyOnWrite
	default:
		return sysmap.AccessRead
	}
}

// View describes a readable (and possibly executable) sub-range of an
// Object. Views are immutable values and own no resources; a View is
// valid only as long as its Object is open.
type View struct {
	object *Object
	offset Offset
	length Length
	access Access
}

// Offset returns the position within the Object at which the view begins.
func (v View) Offset() Offset { return v.offset }

// Length returns the byte size of the view.
func (v View) Length() Length { return v.length }

// Access returns the permission mode of the view.
func (v View) Access() Access { return v.access }

func (v View) sys() (sysmap.View, error) {
	return sysView(v.object, v.offset, v.length, v.access)
}

// ViewMut describes a writable (shared or copy-on-write) sub-range of
// an Object. Like View it is an immutable, non-owning value.
type ViewMut struct {
	object *Object
	offset Offset
	length Length
	access Access
}

// Offset returns the position within the Object at which the view begins.
func (v ViewMut) Offset() Offset { return v.offset }

// Length returns the byte size of the view.
func (v ViewMut) Length() Length { return v.length }

// Access returns the permission mode of the view.
func (v ViewMut) Access() Access { return v.access }

func (v ViewMut) sys() (sysmap.View, error) {
	return sysView(v.object, v.offset, v.length, v.access)
}

func sysView(obj *Object, offset Offset, length Length, access Access) (sysmap.View, error) {
	if obj == nil || obj.closed.Load() {
		return sysmap.View{}, ErrClosed
	}
	return sysmap.View{
		Object: obj.inner,
		Offset: offset.Bytes(),
		Length: length.Int(),
		Access: access.sys(),
	}, nil
}
