package genalloc

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting allocator metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAlloc is called for every issued block.
	// reused is true when the block came from the free list.
	RecordAlloc(class uintptr, reused bool)

	// RecordFree is called for every Free. doubleFree is true when the block
	// was already waiting on the free list.
	RecordFree(class uintptr, doubleFree bool)

	// RecordGrow is called when a new backing chunk of bytes is acquired.
	RecordGrow(bytes int)

	// RecordStale is called when a liveness check fails, right before the panic.
	RecordStale()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(uintptr, bool) {}
func (NoopMetricsCollector) RecordFree(uintptr, bool)  {}
func (NoopMetricsCollector) RecordGrow(int)            {}
func (NoopMetricsCollector) RecordStale()              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount      atomic.Int64
	ReuseCount      atomic.Int64
	FreeCount       atomic.Int64
	DoubleFreeCount atomic.Int64
	GrowCount       atomic.Int64
	GrowBytes       atomic.Int64
	StaleCount      atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(_ uintptr, reused bool) {
	b.AllocCount.Add(1)
	if reused {
		b.ReuseCount.Add(1)
	}
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree(_ uintptr, doubleFree bool) {
	b.FreeCount.Add(1)
	if doubleFree {
		b.DoubleFreeCount.Add(1)
	}
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(bytes int) {
	b.GrowCount.Add(1)
	b.GrowBytes.Add(int64(bytes))
}

// RecordStale implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStale() {
	b.StaleCount.Add(1)
}

// MetricsStats is a point-in-time copy of BasicMetricsCollector.
type MetricsStats struct {
	AllocCount      int64
	ReuseCount      int64
	FreeCount       int64
	DoubleFreeCount int64
	GrowCount       int64
	GrowBytes       int64
	StaleCount      int64
	ReuseRatio      float64
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() MetricsStats {
	s := MetricsStats{
		AllocCount:      b.AllocCount.Load(),
		ReuseCount:      b.ReuseCount.Load(),
		FreeCount:       b.FreeCount.Load(),
		DoubleFreeCount: b.DoubleFreeCount.Load(),
		GrowCount:       b.GrowCount.Load(),
		GrowBytes:       b.GrowBytes.Load(),
		StaleCount:      b.StaleCount.Load(),
	}
	if s.AllocCount > 0 {
		s.ReuseRatio = float64(s.ReuseCount) / float64(s.AllocCount)
	}
	return s
}
