package genalloc

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/hupe1980/genalloc/internal/arena"
)

var (
	// ErrStaleReference is the cause of every use-after-free panic.
	ErrStaleReference = errors.New("use after free: stale reference")
	// ErrAllocationFailure is the cause of every panic raised when backing memory cannot be acquired.
	ErrAllocationFailure = errors.New("allocation failure")
	// ErrForeignPointer is raised when Free is given a pointer the allocator did not issue.
	ErrForeignPointer = errors.New("pointer not issued by this allocator")
	// ErrUnsupportedType is raised when a payload type contains Go pointers.
	ErrUnsupportedType = errors.New("unsupported payload type")
	// ErrNilReference is raised when a zero Owned or Ref is dereferenced.
	ErrNilReference = errors.New("nil reference")
	// ErrInvalidChunkSize is returned by NewAllocator for a negative or oversized chunk size.
	ErrInvalidChunkSize = errors.New("invalid chunk size")
	// ErrInvalidBacking is returned by NewAllocator for an unknown Backing.
	ErrInvalidBacking = errors.New("invalid backing")
)

// StaleReferenceError reports a dereference through a wrapper whose
// remembered generation no longer matches the block header.
//
// errors.Is(err, ErrStaleReference) holds for every StaleReferenceError.
type StaleReferenceError struct {
	Addr uintptr // payload address
	Want uint64  // generation remembered by the wrapper
	Got  uint64  // generation found in the block header
}

func (e *StaleReferenceError) Error() string {
	return fmt.Sprintf("use after free: block %#x is at generation %d, reference remembers %d", e.Addr, e.Got, e.Want)
}

func (e *StaleReferenceError) Unwrap() error { return ErrStaleReference }

// AllocationFailureError reports that the backing store could not satisfy a
// block request.
//
// Both ErrAllocationFailure and the underlying cause can be matched with errors.Is.
type AllocationFailureError struct {
	Size  uintptr // size class
	Align uintptr
	cause error
}

func (e *AllocationFailureError) Error() string {
	return fmt.Sprintf("allocation failure: size class %d, align %d: %v", e.Size, e.Align, e.cause)
}

func (e *AllocationFailureError) Unwrap() []error {
	return []error{ErrAllocationFailure, e.cause}
}

// UnsupportedTypeError reports a payload type that holds a Go pointer.
type UnsupportedTypeError struct {
	Type reflect.Type
	Path string // location of the first pointer-bearing field, e.g. "T.Name"
	Kind reflect.Kind
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported payload type %s: %s is a %s", e.Type, e.Path, e.Kind)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, arena.ErrInvalidBacking) {
		return fmt.Errorf("%w: %w", ErrInvalidBacking, err)
	}
	return err
}
