//go:build unix

package sysmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Object owns the file descriptor backing a mappable memory region.
// Exactly one Object owns a descriptor; Close releases it.
type Object struct {
	fd         int
	executable bool
}

// NewAnonymous creates a zero-filled, shareable backing region of size
// bytes. The region is always writable; executable controls whether
// views of it may later be mapped with execute permission.
func NewAnonymous(size int64, executable bool) (*Object, error) {
	fd, err := anonymousFd(size)
	if err != nil {
		return nil, err
	}
	return &Object{fd: fd, executable: executable}, nil
}

// NewFromFile derives a backing region from an already-open file. The
// descriptor is duplicated, so the Object's lifetime is independent of f.
//
// Write access requires the file to be open read-write and not in
// append mode; mmap cannot honor O_APPEND, and a read-only descriptor
// cannot back a shared writable mapping. The check happens here, before
// any mapping call, so an incompatible file fails with ErrDenied rather
// than an opaque mapping failure later.
func NewFromFile(f *os.File, write, execute bool) (*Object, error) {
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, os.NewSyscallError("dup", err)
	}
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		_ = unix.Close(fd)
		return nil, os.NewSyscallError("fcntl", err)
	}
	if write && (flags&unix.O_ACCMODE != unix.O_RDWR || flags&unix.O_APPEND != 0) {
		_ = unix.Close(fd)
		return nil, ErrDenied
	}
	return &Object{fd: fd, executable: execute}, nil
}

// Close releases the backing descriptor.
func (o *Object) Close() error {
	return os.NewSyscallError("close", unix.Close(o.fd))
}

func (v View) prot() int {
	switch v.Access {
	case AccessExecute:
		return unix.PROT_READ | unix.PROT_EXEC
	case AccessWrite, AccessCopyOnWrite:
		return unix.PROT_READ | unix.PROT_WRITE
	default:
		return unix.PROT_READ
	}
}

func (v View) flags() int {
	if v.Access == AccessCopyOnWrite {
		return unix.MAP_PRIVATE
	}
	return unix.MAP_SHARED
}

// MapView maps a single view at a kernel-chosen address.
func MapView(v View) (uintptr, error) {
	p, err := unix.MmapPtr(v.Object.fd, v.Offset, nil, uintptr(v.Length), v.prot(), v.flags())
	if err != nil {
		return 0, os.NewSyscallError("mmap", err)
	}
	return uintptr(p), nil
}

// mapViewAt maps a view at exactly addr, replacing whatever private
// reservation currently occupies that range. MAP_FIXED is safe here
// because the caller only ever passes addresses inside a reservation it
// obtained itself.
func mapViewAt(addr uintptr, v View) error {
	_, err := unix.MmapPtr(v.Object.fd, v.Offset, unsafe.Pointer(addr), uintptr(v.Length),
		v.prot(), v.flags()|unix.MAP_FIXED)
	return os.NewSyscallError("mmap", err)
}

// reserve claims a contiguous range of address space with an
// inaccessible anonymous mapping. The reservation stays live; the
// placement protocol overwrites it piecewise with MAP_FIXED, so no
// other thread can take the range in between.
func reserve(length int) (uintptr, error) {
	p, err := unix.MmapPtr(-1, 0, nil, uintptr(length), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0, os.NewSyscallError("mmap", err)
	}
	return uintptr(p), nil
}

// UnmapRange unmaps length bytes starting at addr.
func UnmapRange(addr uintptr, length int) error {
	return os.NewSyscallError("munmap", unix.MunmapPtr(unsafe.Pointer(addr), uintptr(length)))
}

// PlaceContiguous maps views back to back in one contiguous range.
// Filling a live reservation with MAP_FIXED reserves and maps in one
// kernel-arbitrated step per view, so placement needs a single attempt.
func PlaceContiguous(views []View) (uintptr, int, error) {
	return placeContiguous(placeOps{
		atomic:  true,
		reserve: reserve,
		release: UnmapRange,
		mapAt:   mapViewAt,
		unmap:   UnmapRange,
	}, views)
}

// OffsetGranularity returns the required alignment of view offsets.
func OffsetGranularity() int64 {
	return int64(os.Getpagesize())
}

// LengthGranularity returns the required alignment of view lengths.
func LengthGranularity() int {
	return os.Getpagesize()
}

// MemAdvise passes an access-pattern hint for data to the kernel.
func MemAdvise(data []byte, advice Advice) error {
	if len(data) == 0 {
		return nil
	}
	var adv int
	switch advice {
	case AdviceSequential:
		adv = unix.MADV_SEQUENTIAL
	case AdviceRandom:
		adv = unix.MADV_RANDOM
	case AdviceWillNeed:
		adv = unix.MADV_WILLNEED
	case AdviceDontNeed:
		adv = unix.MADV_DONTNEED
	default:
		adv = unix.MADV_NORMAL
	}
	err := unix.Madvise(data, adv)
	if err == unix.EINVAL {
		// The hint is advisory; an alignment complaint is not worth
		// failing the caller over.
		return nil
	}
	return os.NewSyscallError("madvise", err)
}

// MemSync flushes modified pages of a shared mapping to the backing
// object and waits for the write-back to complete.
func MemSync(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return os.NewSyscallError("msync", unix.Msync(data, unix.MS_SYNC))
}
