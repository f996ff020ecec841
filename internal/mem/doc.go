// Package mem provides aligned Go-heap buffers.
//
// # Aligned Allocation
//
// Aligned returns a zeroed byte slice whose first element sits on the
// requested power-of-two boundary. The allocator uses it for heap-backed
// chunks.
package mem
