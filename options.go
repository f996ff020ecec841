package genalloc

import (
	"log/slog"
)

type options struct {
	chunkSize        int
	backing          Backing
	memoryLimit      int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Allocator.
type Option func(*options)

// WithChunkSize sets the size of the backing chunks blocks are carved from.
// The value is rounded up to a power of two of at least one page.
// Zero selects the 1MB default.
func WithChunkSize(bytes int) Option {
	return func(o *options) {
		o.chunkSize = bytes
	}
}

// WithBacking selects where backing chunks come from.
//
// BackingHeap (default) uses Go byte slices. BackingMmap uses anonymous
// memory mappings outside the garbage collector's heap, which keeps large
// block populations out of GC accounting.
func WithBacking(b Backing) Option {
	return func(o *options) {
		o.backing = b
	}
}

// WithMemoryLimit bounds the total backing memory the allocator may acquire.
// Once the limit is reached, allocations that cannot be served from the free
// list fail with ErrAllocationFailure. Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &genalloc.BasicMetricsCollector{}
//	a, _ := genalloc.NewAllocator(genalloc.WithMetricsCollector(metrics))
//	// ... use a ...
//	stats := metrics.GetStats()
//	fmt.Printf("Allocs: %d, reuse ratio: %.2f\n", stats.AllocCount, stats.ReuseRatio)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for allocator events.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := genalloc.NewJSONLogger(slog.LevelDebug)
//	a, _ := genalloc.NewAllocator(genalloc.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		backing:          BackingHeap,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
