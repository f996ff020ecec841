package genalloc

// Ref is a copyable, non-owning reference to a block.
//
// A Ref may outlive the block it names. Every access re-validates the
// generation and panics with a *StaleReferenceError once the owner has
// released the block. Dropping a Ref has no effect on the block.
type Ref[T any] struct {
	handle[T]
}

// Equal reports whether both references name the same block at the same
// generation. A reference to a reused block never equals one taken before
// the reuse.
func (r Ref[T]) Equal(other Ref[T]) bool {
	return r.same(other.handle)
}

// Is reports whether r was downgraded from o, i.e. names the same block at
// the same generation.
func (r Ref[T]) Is(o Owned[T]) bool {
	return r.same(o.handle)
}
