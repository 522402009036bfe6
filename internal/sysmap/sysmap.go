package sysmap

import "errors"

// Access is the permission mode requested for a mapped view.
type Access int

const (
	// AccessRead maps the view read-only.
	AccessRead Access = iota + 1
	// AccessExecute maps the view readable and executable.
	AccessExecute
	// AccessWrite maps the view readable and writable, shared with the
	// backing object.
	AccessWrite
	// AccessCopyOnWrite maps the view readable and writable, but writes
	// stay private to the mapping.
	AccessCopyOnWrite
)

// Mutable reports whether the mode permits stores through the mapping.
func (a Access) Mutable() bool {
	return a == AccessWrite || a == AccessCopyOnWrite
}

// Advice is a kernel access-pattern hint for a mapped range.
type Advice int

const (
	// AdviceNormal is the default access pattern (no specific advice).
	AdviceNormal Advice = iota
	// AdviceSequential expects the range to be accessed sequentially.
	AdviceSequential
	// AdviceRandom expects the range to be accessed randomly.
	AdviceRandom
	// AdviceWillNeed expects the range to be accessed in the near future.
	AdviceWillNeed
	// AdviceDontNeed expects the range to not be accessed in the near future.
	AdviceDontNeed
)

// View describes one region of an object to place in the address space.
type View struct {
	Object *Object
	Offset int64
	Length int
	Access Access
}

var (
	// ErrDenied is returned when a requested permission is incompatible
	// with how the backing file was opened. Detected before any mapping
	// call is made where the platform allows it.
	ErrDenied = errors.New("sysmap: permission incompatible with file open mode")
	// ErrRace is returned when the contiguous placement protocol ran out
	// of retries because other address-space users kept claiming the
	// reserved range.
	ErrRace = errors.New("sysmap: contiguous placement retries exhausted")
)
