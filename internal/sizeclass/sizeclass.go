package sizeclass

import (
	"math/bits"
	"unsafe"
)

// HeaderSize is the width of the generation header in front of every payload.
const HeaderSize = uintptr(unsafe.Sizeof(uint64(0)))

// MaxAlign caps the alignment of a block. Payload types never need more.
const MaxAlign = uintptr(64)

// RoundUp returns the smallest power of two that is >= n.
// RoundUp(0) is 1, so zero-sized payloads still occupy a byte.
func RoundUp(n uintptr) uintptr {
	if n <= 1 {
		return 1
	}
	return uintptr(1) << bits.Len64(uint64(n-1))
}

// Of returns the size class for a payload of n bytes.
func Of(n uintptr) uintptr {
	return HeaderSize + RoundUp(n)
}

// Align returns the alignment for a block of the given size class: the
// largest power of two dividing size, clamped to [HeaderSize, MaxAlign].
func Align(size uintptr) uintptr {
	if size == 0 {
		return HeaderSize
	}
	align := size & -size
	if align < HeaderSize {
		return HeaderSize
	}
	if align > MaxAlign {
		return MaxAlign
	}
	return align
}

// IsPowerOfTwo reports whether n is a power of two.
func IsPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}
