package genalloc

// Owned is the unique owner of one block.
//
// Exactly one Owned may exist per block; copying the value does not create a
// second owner, it only duplicates the handle, and only one copy may be
// released. Release is the only way a block returns to the free list:
//
//	o := genalloc.NewOwned(a, Point{X: 1})
//	defer o.Release()
//
// Every accessor checks the block's generation first and panics with a
// *StaleReferenceError if the block was freed since the owner was created.
type Owned[T any] struct {
	handle[T]
}

// NewOwned allocates a block for v and returns its owner.
// A nil allocator means Default().
func NewOwned[T any](a *Allocator, v T) Owned[T] {
	a = orDefault(a)
	b := Alloc[T](a)
	*b.Ptr = v
	return Owned[T]{handle[T]{a: a, ptr: b.Ptr, gen: b.Gen}}
}

// Release frees the block. The generation is checked first, so releasing
// the same owner twice panics with a *StaleReferenceError instead of
// freeing a block that may already belong to someone else.
func (o Owned[T]) Release() {
	o.checkAlive()
	Free(o.a, o.ptr)
}

// Downgrade returns a non-owning reference to the same block and generation.
func (o Owned[T]) Downgrade() Ref[T] {
	return Ref[T](o)
}

// Equal reports whether both owners name the same block at the same generation.
func (o Owned[T]) Equal(other Owned[T]) bool {
	return o.same(other.handle)
}
