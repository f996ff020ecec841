package mem

import (
	"unsafe"
)

// DefaultAlignment is the cache-line alignment used when none is given.
const DefaultAlignment = 64

// Aligned allocates a zeroed byte slice of the given size whose first byte is
// aligned to align bytes. align must be a power of two; values <= 0 mean
// DefaultAlignment.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func Aligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= 0 {
		align = DefaultAlignment
	}
	if align&(align-1) != 0 {
		panic("mem: alignment must be a power of two")
	}

	buf := make([]byte, size+align)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	mask := uintptr(align - 1)
	offset := (uintptr(align) - (addr & mask)) & mask

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}
