//go:build windows

package sysmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Constants not surfaced by x/sys/windows.
const (
	secCommit      = 0x8000000 // SEC_COMMIT
	fileMapExecute = 0x0020    // FILE_MAP_EXECUTE
)

var (
	modkernel32         = windows.NewLazySystemDLL("kernel32.dll")
	procMapViewOfFileEx = modkernel32.NewProc("MapViewOfFileEx")
	procGetSystemInfo   = modkernel32.NewProc("GetSystemInfo")
)

// Object owns the section handle backing a mappable memory region.
// Exactly one Object owns a handle; Close releases it.
type Object struct {
	handle     windows.Handle
	executable bool
}

func splitOffset(v int64) (hi, lo uint32) {
	return uint32(uint64(v) >> 32), uint32(uint64(v))
}

// NewAnonymous creates a zero-filled, shareable backing region of size
// bytes as a pagefile-backed section. The region is always writable;
// executable controls whether views of it may later be mapped with
// execute permission.
func NewAnonymous(size int64, executable bool) (*Object, error) {
	prot := uint32(windows.PAGE_READWRITE | secCommit)
	if executable {
		prot = windows.PAGE_EXECUTE_READWRITE | secCommit
	}
	hi, lo := splitOffset(size)
	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil, prot, hi, lo, nil)
	if err != nil {
		return nil, os.NewSyscallError("CreateFileMapping", err)
	}
	return &Object{handle: h, executable: executable}, nil
}

// NewFromFile derives a backing section from an already-open file. The
// section holds its own reference to the file, so the Object's lifetime
// is independent of f.
//
// Windows offers no cheap interrogation of a handle's granted access
// mask, so an incompatible open mode is detected by the section
// creation itself; ERROR_ACCESS_DENIED is normalized to ErrDenied.
func NewFromFile(f *os.File, write, execute bool) (*Object, error) {
	var prot uint32
	switch {
	case write && execute:
		prot = windows.PAGE_EXECUTE_READWRITE
	case execute:
		prot = windows.PAGE_EXECUTE_READ
	case write:
		prot = windows.PAGE_READWRITE
	default:
		prot = windows.PAGE_READONLY
	}
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, prot, 0, 0, nil)
	if err != nil {
		if err == windows.ERROR_ACCESS_DENIED {
			return nil, ErrDenied
		}
		return nil, os.NewSyscallError("CreateFileMapping", err)
	}
	return &Object{handle: h, executable: execute}, nil
}

// Close releases the backing section handle.
func (o *Object) Close() error {
	return os.NewSyscallError("CloseHandle", windows.CloseHandle(o.handle))
}

func (v View) accessFlags() uint32 {
	switch v.Access {
	case AccessExecute:
		return windows.FILE_MAP_READ | fileMapExecute
	case AccessWrite:
		return windows.FILE_MAP_READ | windows.FILE_MAP_WRITE
	case AccessCopyOnWrite:
		return windows.FILE_MAP_READ | windows.FILE_MAP_COPY
	default:
		return windows.FILE_MAP_READ
	}
}

func mapViewOfFileEx(h windows.Handle, access uint32, offset int64, length int, base uintptr) (uintptr, error) {
	hi, lo := splitOffset(offset)
	addr, _, err := procMapViewOfFileEx.Call(
		uintptr(h), uintptr(access), uintptr(hi), uintptr(lo), uintptr(length), base)
	if addr == 0 {
		return 0, os.NewSyscallError("MapViewOfFileEx", err)
	}
	return addr, nil
}

// MapView maps a single view at a kernel-chosen address.
func MapView(v View) (uintptr, error) {
	return mapViewOfFileEx(v.Object.handle, v.accessFlags(), v.Offset, v.Length, 0)
}

// mapViewAt maps a view at exactly addr. The call fails if any part of
// the range has been claimed since the reservation was released, which
// the placement protocol treats as a lost race.
func mapViewAt(addr uintptr, v View) error {
	_, err := mapViewOfFileEx(v.Object.handle, v.accessFlags(), v.Offset, v.Length, addr)
	return err
}

// reserve finds a free contiguous range of address space by reserving
// it and immediately releasing it again. MapViewOfFileEx cannot map
// into a live reservation, so the range must be returned before the
// views are placed; between the release and the placement another
// thread may claim part of the range.
func reserve(length int) (uintptr, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(length), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return 0, os.NewSyscallError("VirtualAlloc", err)
	}
	if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
		return 0, os.NewSyscallError("VirtualFree", err)
	}
	return addr, nil
}

// releaseTail is a no-op: the reservation was already released in
// reserve, so a failed attempt leaves nothing behind beyond the views
// the protocol unmaps itself.
func releaseTail(addr uintptr, length int) error {
	return nil
}

// UnmapRange unmaps the view that starts at addr. length is part of the
// cross-platform contract but unused here; a view can only be unmapped
// whole.
func UnmapRange(addr uintptr, length int) error {
	return os.NewSyscallError("UnmapViewOfFile", windows.UnmapViewOfFile(addr))
}

// PlaceContiguous maps views back to back in one contiguous range,
// retrying with a fresh reservation when another thread wins the range
// between the release and the placement.
func PlaceContiguous(views []View) (uintptr, int, error) {
	return placeContiguous(placeOps{
		atomic:  false,
		reserve: reserve,
		release: releaseTail,
		mapAt:   mapViewAt,
		unmap:   UnmapRange,
	}, views)
}

type systemInfo struct {
	processorArchitecture     uint16
	reserved                  uint16
	pageSize                  uint32
	minimumApplicationAddress uintptr
	maximumApplicationAddress uintptr
	activeProcessorMask       uintptr
	numberOfProcessors        uint32
	processorType             uint32
	allocationGranularity     uint32
	processorLevel            uint16
	processorRevision         uint16
}

func querySystemInfo() systemInfo {
	var si systemInfo
	_, _, _ = procGetSystemInfo.Call(uintptr(unsafe.Pointer(&si)))
	return si
}

// OffsetGranularity returns the required alignment of view offsets.
func OffsetGranularity() int64 {
	return int64(querySystemInfo().pageSize)
}

// LengthGranularity returns the required alignment of view lengths.
func LengthGranularity() int {
	return int(querySystemInfo().allocationGranularity)
}

// MemAdvise is a no-op: Windows has no madvise equivalent, and the page
// cache handles sequential access well without hints.
func MemAdvise(data []byte, advice Advice) error {
	return nil
}

// MemSync flushes modified pages of a shared mapping to the backing
// object.
func MemSync(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	return os.NewSyscallError("FlushViewOfFile", windows.FlushViewOfFile(addr, uintptr(len(data))))
}
