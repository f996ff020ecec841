package genalloc

import (
	"reflect"
	"unsafe"

	"github.com/hupe1980/genalloc/internal/sizeclass"
)

// Block is the result of a raw allocation: the payload pointer and the
// block's generation at the time it was issued.
type Block[T any] struct {
	Ptr *T
	Gen uint64
}

// Alloc issues a block for a T.
//
// A block of the same size class waiting on the free list is reused first;
// its payload keeps whatever bytes the previous occupant left, and Gen is the
// generation recorded when it was freed. Otherwise a fresh zero-filled block
// is carved with generation 0.
//
// T must not contain Go pointers (see ErrUnsupportedType). Alloc panics with
// an *AllocationFailureError when backing memory cannot be acquired.
func Alloc[T any](a *Allocator) Block[T] {
	a = orDefault(a)
	class := a.payload(reflect.TypeFor[T]())
	p, gen := a.allocate(class)
	return Block[T]{Ptr: (*T)(p), Gen: gen}
}

// Free increments the block's generation and puts it on the free list.
// Every reference remembering an older generation becomes stale.
//
// p must have been returned by Alloc[T] on the same allocator; anything else
// panics with ErrForeignPointer. Freeing a block twice without an
// allocation in between bumps its generation again but does not queue it twice.
func Free[T any](a *Allocator, p *T) {
	a = orDefault(a)
	class := a.payload(reflect.TypeFor[T]())
	a.release(unsafe.Pointer(p), class)
}

// Generation returns the live generation of the block p points into.
// The result is undefined for pointers not returned by Alloc.
func Generation[T any](p *T) uint64 {
	return *header(unsafe.Pointer(p))
}

// SizeClassOf returns the size class blocks for T are drawn from:
// HeaderSize plus the size of T rounded up to a power of two.
func SizeClassOf[T any]() uintptr {
	var zero T
	return sizeclass.Of(unsafe.Sizeof(zero))
}
