//go:build linux

package sysmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// anonymousFd creates an anonymous shareable backing descriptor of size
// bytes via memfd_create(2). The descriptor lives entirely in memory,
// needs no filesystem namespace entry, and is freed when the last
// mapping and descriptor referencing it are gone.
func anonymousFd(size int64) (int, error) {
	fd, err := unix.MemfdCreate("vmem", unix.MFD_CLOEXEC)
	if err != nil {
		return -1, os.NewSyscallError("memfd_create", err)
	}
	if err := unix.Ftruncate(fd, size); err != nil {
		_ = unix.Close(fd)
		return -1, os.NewSyscallError("ftruncate", err)
	}
	return fd, nil
}
