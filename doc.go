// Package genalloc provides a generational block allocator that detects use
// after free at dereference time.
//
// Every block carries an 8-byte generation header in front of its payload.
// Freeing a block increments the generation and queues the block for reuse by
// the next request of the same size class. Wrappers remember the generation
// they were created with and compare it with the header on every access, so
// a reference to a freed (and possibly reused) block is caught instead of
// silently reading someone else's data.
//
// # Quick Start
//
//	a, _ := genalloc.NewAllocator()
//
//	owner := genalloc.NewOwned(a, Point{X: 1, Y: 2})
//	ref := owner.Downgrade()
//
//	ref.Update(func(p *Point) { p.X = 10 })
//	fmt.Println(owner.Get().X) // 10
//
//	owner.Release()
//	ref.Get() // panics: use after free
//
// # Raw API
//
// Alloc, Free and Generation expose the block allocator directly:
//
//	b := genalloc.Alloc[Point](a)   // b.Ptr, b.Gen
//	genalloc.Free(a, b.Ptr)
//	genalloc.Generation(b.Ptr)      // b.Gen + 1
//
// # Size Classes
//
// A block for T occupies HeaderSize + RoundUp(sizeof(T)) bytes, where RoundUp
// is the next power of two. Types with the same size class share blocks, and
// a reused block keeps the bytes of its previous occupant.
//
// # Payload Types
//
// Block memory is not scanned by the garbage collector. Payload types must be
// free of Go pointers: booleans, numbers, and arrays or structs of those.
// Anything else panics with ErrUnsupportedType on first allocation.
//
// # Failure Model
//
// Use after free (ErrStaleReference) and backing memory exhaustion
// (ErrAllocationFailure) are programming errors and panic with typed error
// values; there is no recoverable path. Configuration errors from
// NewAllocator are returned.
//
// # Thread Safety
//
// Allocators are not synchronized. An Allocator and everything derived from
// it must be used from one goroutine at a time, including the process-wide
// Default allocator.
package genalloc
