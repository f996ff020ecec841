// Package resource implements the memory budget for allocator backing store.
//
// A Controller tracks how many bytes of backing memory have been acquired and,
// when configured with a limit, refuses requests that would exceed it.
// AcquireMemory never blocks: the allocator has no reclamation strategy under
// pressure, so a refused request surfaces immediately as an allocation
// failure.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20, // 64MB of chunks
//	})
//
//	if err := rc.AcquireMemory(1 << 20); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional limits without nil checks everywhere.
package resource
