//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func osMapAnon(size int) ([]byte, error) {
	// MEM_COMMIT is demand-paged, like an anonymous Unix mapping.
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil //nolint:gosec // unsafe is required to view the mapping
}

func osAdvise([]byte, AccessPattern) error {
	return nil
}
