// Package freelist keeps freed blocks grouped by size class until they are
// handed out again.
//
// Each class is a LIFO stack, so the block freed most recently is reused
// first. A roaring64 bitmap keyed by payload address tracks which blocks are
// currently on the list; it is what lets the allocator notice a second free of
// a block that is already waiting for reuse.
//
// The list is not safe for concurrent use.
package freelist

import (
	"slices"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Entry describes one freed block.
type Entry struct {
	Class uintptr        // size class (header + rounded payload)
	Addr  unsafe.Pointer // payload address
	Gen   uint64         // generation the header held after the free
}

// List is a size-class indexed free list.
type List struct {
	classes map[uintptr][]Entry
	members *roaring64.Bitmap
	pushed  uint64
	popped  uint64
}

// New returns an empty free list.
func New() *List {
	return &List{
		classes: make(map[uintptr][]Entry),
		members: roaring64.New(),
	}
}

func key(p unsafe.Pointer) uint64 {
	return uint64(uintptr(p))
}

// Push records a freed block.
//
// If the block is already on the list, no second entry is added; the existing
// entry's generation is refreshed instead.
func (l *List) Push(e Entry) {
	k := key(e.Addr)
	if l.members.Contains(k) {
		stack := l.classes[e.Class]
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].Addr == e.Addr {
				stack[i].Gen = e.Gen
				break
			}
		}
		return
	}

	l.members.Add(k)
	l.classes[e.Class] = append(l.classes[e.Class], e)
	l.pushed++
}

// Pop removes and returns the most recently freed block of the given class.
func (l *List) Pop(class uintptr) (Entry, bool) {
	stack := l.classes[class]
	if len(stack) == 0 {
		return Entry{}, false
	}

	e := stack[len(stack)-1]
	stack[len(stack)-1] = Entry{}
	l.classes[class] = stack[:len(stack)-1]
	l.members.Remove(key(e.Addr))
	l.popped++
	return e, true
}

// Contains reports whether the block with the given payload address is on
// the list.
func (l *List) Contains(addr unsafe.Pointer) bool {
	return l.members.Contains(key(addr))
}

// Len returns the number of blocks on the list.
func (l *List) Len() int {
	return int(l.members.GetCardinality()) //nolint:gosec // bounded by the number of carved blocks
}

// LenClass returns the number of free blocks of one size class.
func (l *List) LenClass(class uintptr) int {
	return len(l.classes[class])
}

// Classes returns the size classes that currently hold free blocks, sorted.
func (l *List) Classes() []uintptr {
	out := make([]uintptr, 0, len(l.classes))
	for class, stack := range l.classes {
		if len(stack) > 0 {
			out = append(out, class)
		}
	}
	slices.Sort(out)
	return out
}

// Pushed returns the number of entries ever added. Refreshes of an entry
// already on the list are not counted.
func (l *List) Pushed() uint64 { return l.pushed }

// Popped returns the number of entries ever consumed.
func (l *List) Popped() uint64 { return l.popped }
