// Package safeconv converts between integer widths where the value is known
// to fit, and panics when it does not.
package safeconv

import "math"

// MustIntToUint64 converts a non-negative int, such as a length, to uint64.
func MustIntToUint64(v int) uint64 {
	if v < 0 {
		panic("safeconv: negative int to uint64 conversion")
	}

	return uint64(v)
}

// MustInt64ToUint64 converts a non-negative size to uint64.
func MustInt64ToUint64(v int64) uint64 {
	if v < 0 {
		panic("safeconv: negative int64 to uint64 conversion")
	}

	return uint64(v)
}

// MustUint64ToInt64 converts v to int64, panics on overflow.
func MustUint64ToInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		panic("safeconv: uint64 to int64 overflow")
	}

	return int64(v)
}

// MustIntToUint16 converts v to uint16, panics on bounds violation.
// Class file counts and lengths are u2 values.
func MustIntToUint16(v int) uint16 {
	if v < 0 || v > math.MaxUint16 {
		panic("safeconv: int to uint16 out of bounds")
	}

	return uint16(v)
}

// MustIntToUint32 converts v to uint32, panics on bounds violation.
func MustIntToUint32(v int) uint32 {
	if v < 0 || v > math.MaxUint32 {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}
