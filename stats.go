package genalloc

import "fmt"

// Stats is a snapshot of allocator activity.
type Stats struct {
	Allocs          uint64 // blocks issued, fresh or reused
	Reuses          uint64 // blocks issued from the free list
	Frees           uint64 // Free calls, including double frees
	DoubleFrees     uint64 // frees of blocks already on the free list
	StaleReferences uint64 // failed liveness checks
	FreeBlocks      int    // blocks currently waiting for reuse

	ChunkSize     int     // size of a regular backing chunk
	Chunks        uint64  // backing chunks acquired
	BytesReserved uint64  // backing memory held
	BytesUsed     uint64  // backing memory carved into blocks
	BytesWasted   uint64  // alignment padding between blocks
	Usage         float64 // BytesUsed as a percentage of BytesReserved

	MemoryLimit int64 // 0 if unlimited
	MemoryUsed  int64 // backing memory charged against the limit, 0 if unlimited
	PeakMemory  int64 // high-water mark of MemoryUsed
}

// LiveBlocks returns the number of blocks currently owned.
func (s Stats) LiveBlocks() uint64 {
	return s.Allocs - (s.Frees - s.DoubleFrees)
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"Allocator{live: %d, free: %d, allocs: %d, reuses: %d, frees: %d, stale: %d, chunks: %d, reserved: %.2f MB, used: %.2f MB, usage: %.1f%%}",
		s.LiveBlocks(),
		s.FreeBlocks,
		s.Allocs,
		s.Reuses,
		s.Frees,
		s.StaleReferences,
		s.Chunks,
		float64(s.BytesReserved)/(1024*1024),
		float64(s.BytesUsed)/(1024*1024),
		s.Usage,
	)
}

// Stats returns the current allocator statistics.
func (a *Allocator) Stats() Stats {
	as := a.arena.Stats()
	return Stats{
		Allocs:          a.counters.allocs,
		Reuses:          a.free.Popped(),
		Frees:           a.counters.frees,
		DoubleFrees:     a.counters.frees - a.free.Pushed(),
		StaleReferences: a.counters.stale,
		FreeBlocks:      a.free.Len(),
		ChunkSize:       a.arena.ChunkSize(),
		Chunks:          as.ChunksAllocated,
		BytesReserved:   as.BytesReserved,
		BytesUsed:       as.BytesUsed,
		BytesWasted:     as.BytesWasted,
		Usage:           a.arena.Usage(),
		MemoryLimit:     a.budget.MemoryLimit(),
		MemoryUsed:      a.budget.MemoryUsage(),
		PeakMemory:      a.budget.PeakMemoryUsage(),
	}
}

func (a *Allocator) String() string {
	return a.Stats().String()
}
