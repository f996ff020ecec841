package genalloc

import (
	"unsafe"
)

// handle is the address/generation pair shared by Owned and Ref.
type handle[T any] struct {
	a   *Allocator
	ptr *T
	gen uint64
}

// checkAlive compares the remembered generation with the block header and
// panics with a *StaleReferenceError on mismatch.
func (h handle[T]) checkAlive() {
	if h.ptr == nil {
		panic(ErrNilReference)
	}
	got := *header(unsafe.Pointer(h.ptr))
	if got == h.gen {
		return
	}

	addr := uintptr(unsafe.Pointer(h.ptr))
	if h.a != nil {
		h.a.counters.stale++
		h.a.metrics.RecordStale()
		h.a.logger.LogStale(addr, h.gen, got)
	}
	panic(&StaleReferenceError{Addr: addr, Want: h.gen, Got: got})
}

// Alive reports whether the block still holds the remembered generation.
// Unlike the accessors it never panics.
func (h handle[T]) Alive() bool {
	if h.ptr == nil {
		return false
	}
	return *header(unsafe.Pointer(h.ptr)) == h.gen
}

// Get returns a copy of the payload.
func (h handle[T]) Get() T {
	h.checkAlive()
	return *h.ptr
}

// Set overwrites the payload.
func (h handle[T]) Set(v T) {
	h.checkAlive()
	*h.ptr = v
}

// Update calls fn with a pointer to the payload. The pointer must not be
// retained after fn returns.
func (h handle[T]) Update(fn func(*T)) {
	h.checkAlive()
	fn(h.ptr)
}

// Ptr returns the payload pointer after a liveness check. The pointer is only
// meaningful until the block is released; later accesses should go through
// the wrapper again so they are re-checked.
func (h handle[T]) Ptr() *T {
	h.checkAlive()
	return h.ptr
}

// Gen returns the remembered generation.
func (h handle[T]) Gen() uint64 {
	return h.gen
}

// Addr returns the payload address.
func (h handle[T]) Addr() uintptr {
	return uintptr(unsafe.Pointer(h.ptr))
}

func (h handle[T]) same(o handle[T]) bool {
	return h.ptr == o.ptr && h.gen == o.gen
}
