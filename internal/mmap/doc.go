// Package mmap provides anonymous memory mappings used as off-heap backing
// store for allocator chunks.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//
//	// Zero-filled, page-aligned, read-write memory
//	data := m.Bytes()
//
//	// Kernel hint for the expected access pattern
//	_ = m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) for hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (advice is a no-op)
//
// # Garbage Collector
//
// Mapped memory is invisible to the Go garbage collector. Values stored in it
// must not contain Go pointers.
package mmap
