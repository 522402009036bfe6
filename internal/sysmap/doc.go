// Package sysmap contains the platform backends of the mapping engine.
//
// It owns the raw OS resources (file descriptors on unix, section handles
// on Windows) behind mappable objects, performs the actual map/unmap
// system calls, and implements the contiguous placement protocol that
// lays several views back to back in one address range.
//
// The package works in raw addresses (uintptr) rather than byte slices;
// the public vmem package is responsible for turning placed ranges into
// slices and for translating backend errors into the public taxonomy.
package sysmap
