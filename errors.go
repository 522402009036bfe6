package vmem

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/hupe1980/vmem/internal/sysmap"
)

var (
	// ErrAccessDenied is returned when a requested permission is
	// recognized as incompatible before any mapping call is made, e.g.
	// a writable view of a file that was not opened read-write.
	ErrAccessDenied = errors.New("vmem: access denied")
	// ErrRaceCondition is returned when contiguous placement repeatedly
	// lost its reserved address range to concurrent address-space users
	// and ran out of retries. The operation may be retried by the caller.
	ErrRaceCondition = errors.New("vmem: contiguous placement lost the address-space race")
	// ErrClosed is returned when an operation is attempted on a closed
	// Object or with a zero-value view.
	ErrClosed = errors.New("vmem: object is closed")
)

// SystemError wraps an opaque platform error from a mapping operation.
//
// The underlying OS error can be accessed via errors.Unwrap; callers
// needing finer-grained classification can branch on Code.
type SystemError struct {
	Op    string
	cause error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("vmem: %s: %v", e.Op, e.cause)
}

func (e *SystemError) Unwrap() error { return e.cause }

// Code returns the raw platform error code (errno on unix, the system
// error code on Windows), or 0 if none is attached.
func (e *SystemError) Code() int {
	var errno syscall.Errno
	if errors.As(e.cause, &errno) {
		return int(errno)
	}
	return 0
}

// translateError lifts backend errors into the public taxonomy. The
// distinguished outcomes keep their sentinel identity; everything else
// becomes an opaque SystemError.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sysmap.ErrDenied) {
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}
	if errors.Is(err, sysmap.ErrRace) {
		return fmt.Errorf("%w: %w", ErrRaceCondition, err)
	}
	return &SystemError{Op: op, cause: err}
}
