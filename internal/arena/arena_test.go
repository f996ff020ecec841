package arena

import (
	"errors"
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type budget struct {
	limit, used int64
	released    int64
}

var errBudget = errors.New("budget exhausted")

func (b *budget) AcquireMemory(n int64) error {
	if b.used+n > b.limit {
		return errBudget
	}
	b.used += n
	return nil
}

func (b *budget) ReleaseMemory(n int64) {
	b.used -= n
	b.released += n
}

func TestArena_New(t *testing.T) {
	t.Run("default chunk size", func(t *testing.T) {
		a, err := New(0)
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, a.ChunkSize())
		assert.Equal(t, BackingHeap, a.Backing())
		assert.Zero(t, a.Stats().ChunksAllocated, "chunks are acquired lazily")
	})

	t.Run("rounded chunk size", func(t *testing.T) {
		a, err := New(5000)
		require.NoError(t, err)
		assert.Equal(t, 8192, a.ChunkSize())

		a, err = New(1)
		require.NoError(t, err)
		assert.Equal(t, MinChunkSize, a.ChunkSize())
	})

	t.Run("invalid backing", func(t *testing.T) {
		_, err := New(0, WithBacking(Backing(7)))
		assert.ErrorIs(t, err, ErrInvalidBacking)
	})

	t.Run("chunk size too large", func(t *testing.T) {
		_, err := New(MaxChunkSize + 1)
		assert.Error(t, err)
	})
}

func TestArena_Carve(t *testing.T) {
	for _, backing := range []Backing{BackingHeap, BackingMmap} {
		t.Run(backing.String(), func(t *testing.T) {
			a, err := New(MinChunkSize, WithBacking(backing))
			require.NoError(t, err)

			sizes := []int{9, 16, 24, 40, 72, 136}
			aligns := []int{8, 16, 8, 8, 8, 8}
			seen := map[uintptr]bool{}

			for i, size := range sizes {
				p, err := a.Carve(size, aligns[i])
				require.NoError(t, err)
				require.NotNil(t, p)

				addr := uintptr(p)
				assert.Zero(t, addr%uintptr(aligns[i]), "size=%d not aligned", size)
				assert.False(t, seen[addr], "blocks must not overlap")
				seen[addr] = true

				block := unsafe.Slice((*byte)(p), size)
				for j, b := range block {
					assert.Zero(t, b, "byte %d of fresh block not zero", j)
				}
				for j := range block {
					block[j] = 0xFF
				}
				assert.True(t, a.Contains(p))
			}

			st := a.Stats()
			assert.Equal(t, uint64(1), st.ChunksAllocated)
			assert.Equal(t, uint64(len(sizes)), st.TotalAllocs)
			assert.Equal(t, uint64(9+16+24+40+72+136), st.BytesUsed)
			assert.Equal(t, uint64(7), st.BytesWasted, "9-byte block pads 7 bytes before the 16-aligned one")
			assert.Equal(t, uint64(MinChunkSize), st.BytesReserved)
		})
	}
}

func TestArena_Grow(t *testing.T) {
	var grown []int
	a, err := New(MinChunkSize, WithGrowHook(func(index, size int) {
		grown = append(grown, size)
	}))
	require.NoError(t, err)

	// 4096 / 64 = 64 blocks per chunk.
	for i := 0; i < 200; i++ {
		_, err := a.Carve(64, 64)
		require.NoError(t, err)
	}

	st := a.Stats()
	assert.Equal(t, uint64(4), st.ChunksAllocated)
	assert.Equal(t, []int{MinChunkSize, MinChunkSize, MinChunkSize, MinChunkSize}, grown)
	assert.InDelta(t, 200.0*64/(4*MinChunkSize)*100, a.Usage(), 0.01)
}

func TestArena_LargeBlock(t *testing.T) {
	a, err := New(MinChunkSize)
	require.NoError(t, err)

	p, err := a.Carve(3*MinChunkSize, 64)
	require.NoError(t, err)
	assert.True(t, a.Contains(p))
	assert.True(t, a.Contains(unsafe.Add(p, 3*MinChunkSize-1)))
	assert.Equal(t, uint64(4*MinChunkSize), a.Stats().BytesReserved)

	_, err = a.Carve(MaxChunkSize, 8)
	assert.ErrorIs(t, err, ErrBlockTooLarge)
}

func TestArena_InvalidArgs(t *testing.T) {
	a, err := New(0)
	require.NoError(t, err)

	_, err = a.Carve(0, 8)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = a.Carve(16, 12)
	assert.ErrorIs(t, err, ErrInvalidAlignment)

	_, err = a.Carve(16, 0)
	assert.ErrorIs(t, err, ErrInvalidAlignment)
}

func TestArena_Contains(t *testing.T) {
	a, err := New(MinChunkSize)
	require.NoError(t, err)

	var outside uint64
	assert.False(t, a.Contains(unsafe.Pointer(&outside)), "empty arena owns nothing")

	var ptrs []unsafe.Pointer
	for i := 0; i < 300; i++ {
		p, err := a.Carve(32, 8)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}
	for _, p := range ptrs {
		assert.True(t, a.Contains(p))
	}
	assert.False(t, a.Contains(unsafe.Pointer(&outside)))
	assert.False(t, a.Contains(nil))
}

func TestArena_MemoryAcquirer(t *testing.T) {
	b := &budget{limit: 2 * MinChunkSize}
	a, err := New(MinChunkSize, WithMemoryAcquirer(b))
	require.NoError(t, err)

	for i := 0; i < 2*MinChunkSize/64; i++ {
		_, err := a.Carve(64, 64)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2*MinChunkSize), b.used)

	_, err = a.Carve(64, 64)
	assert.ErrorIs(t, err, errBudget)
	assert.Equal(t, uint64(2), a.Stats().ChunksAllocated)
}

func TestBacking_String(t *testing.T) {
	assert.Equal(t, "heap", BackingHeap.String())
	assert.Equal(t, "mmap", BackingMmap.String())
	assert.Equal(t, "Backing(9)", Backing(9).String())
}

func BenchmarkArena_Carve(b *testing.B) {
	for _, backing := range []Backing{BackingHeap, BackingMmap} {
		b.Run(fmt.Sprintf("backing=%s", backing), func(b *testing.B) {
			a, err := New(0, WithBacking(backing))
			require.NoError(b, err)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := a.Carve(24, 8); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
