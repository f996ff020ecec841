// Package arena acquires backing memory for the generational allocator.
//
// The arena hands out raw, zero-filled blocks carved from large chunks with a
// bump pointer. Chunks come either from the Go heap or from anonymous mmap
// regions outside the garbage collector, and are kept for the lifetime of the
// arena: carved blocks are recycled by the allocator's free list, never given
// back to the arena.
//
// # Features
//
//   - Heap or off-heap (mmap) chunks, 1MB by default
//   - Power-of-two alignment per block
//   - Optional memory budget via MemoryAcquirer
//   - Address lookup (Contains) for pointer validation
//
// # Concurrency
//
// An Arena is not safe for concurrent use.
package arena
