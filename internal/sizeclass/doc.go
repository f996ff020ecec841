// Package sizeclass computes block footprints for the generational allocator.
//
// # Layout
//
// Every block starts with an 8-byte generation header followed by the
// payload. The payload width is rounded up to the next power of two, so the
// size class of a type is:
//
//	class = HeaderSize + RoundUp(sizeof(T))
//
// Two types with the same class share blocks.
//
// # Alignment
//
// Align returns the alignment in bytes (a power of two), not its exponent.
// Blocks are never aligned below HeaderSize so the header can always be read
// as a uint64.
package sizeclass
