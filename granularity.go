package vmem

import (
	"sync"

	"github.com/hupe1980/vmem/internal/sysmap"
)

// The granularities are fixed platform properties, queried once and
// cached for the life of the process.
var (
	offsetGranularity = sync.OnceValue(sysmap.OffsetGranularity)
	lengthGranularity = sync.OnceValue(sysmap.LengthGranularity)
)

// OffsetGranularity returns the alignment every view offset must be a
// multiple of. Always a power of two.
func OffsetGranularity() int64 { return offsetGranularity() }

// LengthGranularity returns the alignment every view length must be a
// multiple of. Always a power of two; on some platforms coarser than
// the offset granularity (an allocation granularity above page size).
func LengthGranularity() int { return lengthGranularity() }

// Offset is a validated byte position within an Object at which a view
// begins. The zero value is a valid offset of zero bytes.
type Offset struct {
	bytes int64
}

// OffsetZero returns the offset at the start of an Object.
func OffsetZero() Offset { return Offset{} }

// ExactOffset validates v as an offset. Reports false when v is not a
// multiple of OffsetGranularity. Negative values are a contract
// violation and panic.
func ExactOffset(v int64) (Offset, bool) {
	if v < 0 {
		panic("vmem: offset must not be negative")
	}
	if v%OffsetGranularity() != 0 {
		return Offset{}, false
	}
	return Offset{bytes: v}, true
}

// RoundUpOffset returns the smallest valid offset >= v.
func RoundUpOffset(v int64) Offset {
	if v < 0 {
		panic("vmem: offset must not be negative")
	}
	g := OffsetGranularity()
	return Offset{bytes: (v + g - 1) / g * g}
}

// RoundDownOffset returns the largest valid offset <= v.
func RoundDownOffset(v int64) Offset {
	if v < 0 {
		panic("vmem: offset must not be negative")
	}
	g := OffsetGranularity()
	return Offset{bytes: v / g * g}
}

// Bytes returns the offset value.
func (o Offset) Bytes() int64 { return o.bytes }

// Length is a validated byte size of a view or mapping. Lengths are
// always positive: a zero-sized view would describe no mapping at all,
// so zero is rejected everywhere.
type Length struct {
	bytes int
}

// ExactLength validates v as a length. Reports false when v is not a
// multiple of LengthGranularity. Non-positive values are a contract
// violation and panic.
func ExactLength(v int) (Length, bool) {
	if v <= 0 {
		panic("vmem: length must be positive")
	}
	if v%LengthGranularity() != 0 {
		return Length{}, false
	}
	return Length{bytes: v}, true
}

// RoundUpLength returns the smallest valid length >= v.
func RoundUpLength(v int) Length {
	if v <= 0 {
		panic("vmem: length must be positive")
	}
	g := LengthGranularity()
	return Length{bytes: (v + g - 1) / g * g}
}

// RoundDownLength returns the largest valid length <= v. Values smaller
// than the granularity would round down to an empty length and panic.
func RoundDownLength(v int) Length {
	if v <= 0 {
		panic("vmem: length must be positive")
	}
	g := LengthGranularity()
	if v < g {
		panic("vmem: length rounds down to zero")
	}
	return Length{bytes: v / g * g}
}

// Int returns the length value.
func (l Length) Int() int { return l.bytes }
