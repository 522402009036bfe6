//go:build unix && !linux

package sysmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// anonymousFd creates an anonymous shareable backing descriptor of size
// bytes from an unlinked temporary file. Once the name is removed the
// storage is reachable only through the descriptor, which matches the
// lifetime of a POSIX shared memory object without depending on
// shm_open being exposed on every unix flavor.
func anonymousFd(size int64) (int, error) {
	f, err := os.CreateTemp("", "vmem-*")
	if err != nil {
		return -1, err
	}
	name := f.Name()
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return -1, os.NewSyscallError("dup", err)
	}
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}
	if err := unix.Ftruncate(fd, size); err != nil {
		_ = unix.Close(fd)
		return -1, os.NewSyscallError("ftruncate", err)
	}
	return fd, nil
}
