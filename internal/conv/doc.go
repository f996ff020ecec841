// Package conv provides checked integer conversions for the places where
// size classes (uintptr) meet the arena's int-based offsets and the
// int64-based memory budget.
//
// For conversions that are provably safe by construction (loop indices,
// bounded counters), use direct type casts instead.
package conv
