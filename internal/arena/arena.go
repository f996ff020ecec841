package arena

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"unsafe"

	"github.com/hupe1980/genalloc/internal/conv"
	"github.com/hupe1980/genalloc/internal/mem"
	"github.com/hupe1980/genalloc/internal/mmap"
	"github.com/hupe1980/genalloc/internal/sizeclass"
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrMaxChunksExceeded is returned when the arena exceeds the maximum number of chunks.
	ErrMaxChunksExceeded = errors.New("arena: max chunks exceeded")
	// ErrBlockTooLarge is returned when a block does not fit into the largest chunk.
	ErrBlockTooLarge = errors.New("arena: block too large")
	// ErrInvalidSize is returned for non-positive block sizes.
	ErrInvalidSize = errors.New("arena: invalid block size")
	// ErrInvalidAlignment is returned when the alignment is not a power of two.
	ErrInvalidAlignment = errors.New("arena: alignment must be a power of two")
	// ErrInvalidBacking is returned for an unknown Backing value.
	ErrInvalidBacking = errors.New("arena: invalid backing")
)

const (
	// DefaultChunkSize is the default size of a chunk (1MB).
	DefaultChunkSize = 1024 * 1024
	// MinChunkSize is the smallest chunk the arena will create (one page).
	MinChunkSize = 4096
	// MaxChunkSize bounds a single chunk, including dedicated chunks for large blocks.
	MaxChunkSize = 1 << 30
	// MaxChunks limits the number of chunks to prevent excessive memory usage.
	MaxChunks = 65536
)

// Backing selects where chunks come from.
type Backing int

const (
	// BackingHeap allocates chunks as Go byte slices.
	BackingHeap Backing = iota
	// BackingMmap allocates chunks as anonymous memory mappings outside the Go heap.
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMmap:
		return "mmap"
	default:
		return fmt.Sprintf("Backing(%d)", int(b))
	}
}

// Stats tracks arena memory usage metrics.
//
// Note on semantics:
//   - BytesReserved: total memory held in chunks
//   - BytesUsed: bytes handed out as blocks
//   - BytesWasted: alignment padding between blocks
//   - ChunksAllocated: number of chunks held
//   - TotalAllocs: number of blocks carved
type Stats struct {
	ChunksAllocated uint64
	BytesReserved   uint64
	BytesUsed       uint64
	BytesWasted     uint64
	TotalAllocs     uint64
}

type chunk struct {
	data    []byte
	mapping *mmap.Mapping // Holds the off-heap mapping (if applicable)
	base    uintptr
	offset  int
	index   uint32
}

func (c *chunk) contains(addr uintptr) bool {
	return addr >= c.base && addr < c.base+uintptr(len(c.data))
}

// Arena carves fixed blocks out of large chunks.
type Arena struct {
	chunkSize int
	backing   Backing
	chunks    []*chunk // in allocation order
	byAddr    []*chunk // sorted by base address
	current   *chunk
	stats     Stats
	acquirer  MemoryAcquirer
	onGrow    func(index, size int)
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithMemoryAcquirer sets the memory acquirer for the arena.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// WithBacking selects the chunk source.
func WithBacking(b Backing) Option {
	return func(a *Arena) {
		a.backing = b
	}
}

// WithGrowHook registers fn to be called after each new chunk.
func WithGrowHook(fn func(index, size int)) Option {
	return func(a *Arena) {
		a.onGrow = fn
	}
}

// New creates a new Arena with the given chunk size.
// Sizes <= 0 mean DefaultChunkSize; others are rounded up to a power of two
// of at least MinChunkSize.
func New(chunkSize int, opts ...Option) (*Arena, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize > MaxChunkSize {
		return nil, fmt.Errorf("arena: chunk size %d exceeds %d", chunkSize, MaxChunkSize)
	}

	a := &Arena{
		chunkSize: roundChunk(chunkSize),
		backing:   BackingHeap,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.backing != BackingHeap && a.backing != BackingMmap {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBacking, int(a.backing))
	}

	return a, nil
}

func roundChunk(n int) int {
	if n < MinChunkSize {
		n = MinChunkSize
	}
	return 1 << bits.Len(uint(n-1)) //nolint:gosec // n > 0
}

// ChunkSize returns the size of a regular chunk.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// Backing returns the chunk source.
func (a *Arena) Backing() Backing {
	return a.backing
}

// Carve returns a zero-filled block of size bytes aligned to align.
// Blocks larger than a regular chunk get a dedicated chunk.
func (a *Arena) Carve(size, align int) (unsafe.Pointer, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if align <= 0 || !sizeclass.IsPowerOfTwo(uintptr(align)) {
		return nil, ErrInvalidAlignment
	}

	if a.current != nil {
		if p, ok := a.tryCarve(a.current, size, align); ok {
			return p, nil
		}
	}

	need := size + align
	chunkSize := a.chunkSize
	if need > chunkSize {
		if need > MaxChunkSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrBlockTooLarge, size)
		}
		chunkSize = roundChunk(need)
	}

	if err := a.allocateChunk(chunkSize); err != nil {
		return nil, err
	}

	p, ok := a.tryCarve(a.current, size, align)
	if !ok {
		// Unreachable: the new chunk holds at least size+align bytes.
		return nil, fmt.Errorf("arena: fresh chunk cannot hold %d bytes", size)
	}
	return p, nil
}

func (a *Arena) tryCarve(c *chunk, size, align int) (unsafe.Pointer, bool) {
	mask := uintptr(align - 1)
	aligned := (c.base + uintptr(c.offset) + mask) &^ mask
	start := int(aligned - c.base) //nolint:gosec // bounded by chunk length
	end := start + size

	if end > len(c.data) {
		return nil, false
	}

	a.stats.BytesWasted += uint64(start - c.offset) //nolint:gosec // start >= offset
	a.stats.BytesUsed += uint64(size)               //nolint:gosec // size > 0
	a.stats.TotalAllocs++
	c.offset = end

	return unsafe.Pointer(&c.data[start]), true //nolint:gosec // unsafe is required for arena implementation
}

func (a *Arena) allocateChunk(size int) error {
	idx := len(a.chunks)
	if idx >= MaxChunks {
		// This is a critical failure for the arena.
		return ErrMaxChunksExceeded
	}

	index, err := conv.IntToUint32(idx)
	if err != nil {
		return err
	}
	budget, err := conv.IntToInt64(size)
	if err != nil {
		return err
	}
	reserved, err := conv.IntToUint64(size)
	if err != nil {
		return err
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(budget); err != nil {
			return err
		}
	}

	c := &chunk{index: index}

	switch a.backing {
	case BackingMmap:
		mapping, err := mmap.MapAnon(size)
		if err != nil {
			if a.acquirer != nil {
				a.acquirer.ReleaseMemory(budget)
			}
			return fmt.Errorf("failed to map anonymous memory for chunk: %w", err)
		}
		// Blocks are reused in free-list order, not address order.
		_ = mapping.Advise(mmap.AccessRandom)
		c.mapping = mapping
		c.data = mapping.Bytes()
	default:
		c.data = mem.Aligned(size, mem.DefaultAlignment)
	}
	c.base = uintptr(unsafe.Pointer(&c.data[0])) //nolint:gosec // unsafe is required for arena implementation

	a.chunks = append(a.chunks, c)
	pos := sort.Search(len(a.byAddr), func(i int) bool { return a.byAddr[i].base > c.base })
	a.byAddr = append(a.byAddr, nil)
	copy(a.byAddr[pos+1:], a.byAddr[pos:])
	a.byAddr[pos] = c

	a.current = c
	a.stats.ChunksAllocated++
	a.stats.BytesReserved += reserved

	if a.onGrow != nil {
		a.onGrow(idx, size)
	}
	return nil
}

// Contains reports whether p points into memory owned by this arena.
func (a *Arena) Contains(p unsafe.Pointer) bool {
	addr := uintptr(p)
	i := sort.Search(len(a.byAddr), func(i int) bool { return a.byAddr[i].base > addr })
	if i == 0 {
		return false
	}
	return a.byAddr[i-1].contains(addr)
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return a.stats
}

// Usage returns the memory usage percentage.
func (a *Arena) Usage() float64 {
	if a.stats.BytesReserved == 0 {
		return 0
	}
	return float64(a.stats.BytesUsed) / float64(a.stats.BytesReserved) * 100
}
