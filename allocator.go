package genalloc

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/genalloc/internal/arena"
	"github.com/hupe1980/genalloc/internal/conv"
	"github.com/hupe1980/genalloc/internal/freelist"
	"github.com/hupe1980/genalloc/internal/resource"
	"github.com/hupe1980/genalloc/internal/sizeclass"
)

// Backing selects where an allocator's chunks come from.
type Backing = arena.Backing

const (
	// BackingHeap carves blocks from Go byte slices.
	BackingHeap = arena.BackingHeap
	// BackingMmap carves blocks from anonymous mappings outside the Go heap.
	BackingMmap = arena.BackingMmap
)

// HeaderSize is the width of the generation header stored in front of every payload.
const HeaderSize = sizeclass.HeaderSize

type payloadInfo struct {
	class uintptr
	err   error
}

type counters struct {
	allocs uint64
	frees  uint64
	stale  uint64
}

// Allocator is an allocation context: a backing arena, the size-class free
// list and the bookkeeping around them.
//
// An Allocator is not safe for concurrent use. All blocks, owners and
// references derived from it must stay on one goroutine at a time.
type Allocator struct {
	arena    *arena.Arena
	free     *freelist.List
	issued   map[uintptr]*roaring64.Bitmap // payload addresses carved per size class
	budget   *resource.Controller          // nil if unlimited
	payloads map[reflect.Type]payloadInfo
	logger   *Logger
	metrics  MetricsCollector
	counters counters
}

// NewAllocator creates an allocation context.
func NewAllocator(optFns ...Option) (*Allocator, error) {
	o := applyOptions(optFns)

	if o.chunkSize < 0 || o.chunkSize > arena.MaxChunkSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, o.chunkSize)
	}

	a := &Allocator{
		free:     freelist.New(),
		issued:   make(map[uintptr]*roaring64.Bitmap),
		payloads: make(map[reflect.Type]payloadInfo),
		logger:   o.logger,
		metrics:  o.metricsCollector,
	}

	arenaOpts := []arena.Option{
		arena.WithBacking(o.backing),
		arena.WithGrowHook(a.onGrow),
	}
	if o.memoryLimit > 0 {
		a.budget = resource.NewController(resource.Config{MemoryLimitBytes: o.memoryLimit})
		arenaOpts = append(arenaOpts, arena.WithMemoryAcquirer(a.budget))
	}

	ar, err := arena.New(o.chunkSize, arenaOpts...)
	if err != nil {
		return nil, translateError(err)
	}
	a.arena = ar

	return a, nil
}

var defaultAllocator = sync.OnceValue(func() *Allocator {
	a, err := NewAllocator()
	if err != nil {
		panic(err)
	}
	return a
})

// Default returns the process-wide allocator, creating it on first use with
// default options. Every API that takes an *Allocator treats nil as Default().
//
// Like any Allocator, the default one is not safe for concurrent use.
func Default() *Allocator {
	return defaultAllocator()
}

func orDefault(a *Allocator) *Allocator {
	if a == nil {
		return Default()
	}
	return a
}

func (a *Allocator) onGrow(chunk, bytes int) {
	a.logger.LogGrow(chunk, bytes, a.arena.Backing())
	a.metrics.RecordGrow(bytes)
}

// payload returns the size class for rt, validating the type on first use.
func (a *Allocator) payload(rt reflect.Type) uintptr {
	info, ok := a.payloads[rt]
	if !ok {
		info = payloadInfo{
			class: sizeclass.Of(rt.Size()),
			err:   validatePayload(rt),
		}
		a.payloads[rt] = info
	}
	if info.err != nil {
		panic(info.err)
	}
	return info.class
}

// allocate hands out a block of the given class and its live generation.
func (a *Allocator) allocate(class uintptr) (unsafe.Pointer, uint64) {
	if e, ok := a.free.Pop(class); ok {
		a.counters.allocs++
		a.metrics.RecordAlloc(class, true)
		// The header was bumped at free time and already equals e.Gen.
		return e.Addr, e.Gen
	}

	align := sizeclass.Align(class)
	block, err := a.carve(class, align)
	if err != nil {
		a.logger.LogAllocFailure(class, align, err)
		panic(&AllocationFailureError{Size: class, Align: align, cause: err})
	}

	*(*uint64)(block) = 0
	p := unsafe.Add(block, HeaderSize)

	set, ok := a.issued[class]
	if !ok {
		set = roaring64.New()
		a.issued[class] = set
	}
	set.Add(addrKey(p))

	a.counters.allocs++
	a.metrics.RecordAlloc(class, false)

	return p, 0
}

func (a *Allocator) carve(class, align uintptr) (unsafe.Pointer, error) {
	size, err := conv.UintptrToInt(class)
	if err != nil {
		return nil, err
	}
	return a.arena.Carve(size, int(align)) //nolint:gosec // align <= sizeclass.MaxAlign
}

// release bumps the block's generation and queues it for reuse.
func (a *Allocator) release(p unsafe.Pointer, class uintptr) {
	if p == nil {
		panic(ErrNilReference)
	}
	// Only the exact payload start of a block carved for this class is
	// accepted. Interior pointers and blocks of another class would turn
	// payload bytes into a header.
	if set := a.issued[class]; set == nil || !set.Contains(addrKey(p)) {
		panic(fmt.Errorf("%w: %#x is not the start of a size class %d block", ErrForeignPointer, uintptr(p), class))
	}

	hdr := header(p)
	*hdr++

	dup := a.free.Contains(p)
	a.free.Push(freelist.Entry{Class: class, Addr: p, Gen: *hdr})
	a.counters.frees++
	if dup {
		a.logger.WithClass(class).LogDoubleFree(uintptr(p), *hdr)
	}
	a.metrics.RecordFree(class, dup)
}

// Owns reports whether p is the payload address of a block carved by this
// allocator.
func (a *Allocator) Owns(p unsafe.Pointer) bool {
	if p == nil || !a.arena.Contains(unsafe.Add(p, -int(HeaderSize))) {
		return false
	}
	k := addrKey(p)
	for _, set := range a.issued {
		if set.Contains(k) {
			return true
		}
	}
	return false
}

// FreeBlocks returns the number of blocks of the given size class waiting on
// the free list.
func (a *Allocator) FreeBlocks(class uintptr) int {
	return a.free.LenClass(class)
}

// FreeClasses returns the size classes that currently have free blocks.
func (a *Allocator) FreeClasses() []uintptr {
	return a.free.Classes()
}

func addrKey(p unsafe.Pointer) uint64 {
	return uint64(uintptr(p))
}

func header(p unsafe.Pointer) *uint64 {
	return (*uint64)(unsafe.Add(p, -int(HeaderSize)))
}
