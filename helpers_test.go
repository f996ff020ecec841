package genalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int32
}

type pair struct {
	A, B uint32
}

type big struct {
	V [5]uint64
}

func newTestAllocator(t testing.TB, opts ...Option) *Allocator {
	t.Helper()
	a, err := NewAllocator(opts...)
	require.NoError(t, err)
	return a
}

// panicError runs fn and returns the error value it panicked with.
func panicError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		e, ok := r.(error)
		require.Truef(t, ok, "panic value %v (%T) is not an error", r, r)
		err = e
	}()
	fn()
	return nil
}
