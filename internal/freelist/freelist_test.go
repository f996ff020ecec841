package freelist

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addrs(n int) []unsafe.Pointer {
	buf := make([]uint64, n)
	out := make([]unsafe.Pointer, n)
	for i := range buf {
		out[i] = unsafe.Pointer(&buf[i])
	}
	return out
}

func TestList_PushPop(t *testing.T) {
	l := New()
	p := addrs(3)

	l.Push(Entry{Class: 16, Addr: p[0], Gen: 1})
	l.Push(Entry{Class: 16, Addr: p[1], Gen: 4})
	l.Push(Entry{Class: 24, Addr: p[2], Gen: 2})
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 2, l.LenClass(16))
	assert.Equal(t, []uintptr{16, 24}, l.Classes())

	t.Run("lifo within a class", func(t *testing.T) {
		e, ok := l.Pop(16)
		require.True(t, ok)
		assert.Equal(t, p[1], e.Addr)
		assert.Equal(t, uint64(4), e.Gen)
		assert.Equal(t, uintptr(16), e.Class)
	})

	t.Run("consumed entries are removed", func(t *testing.T) {
		assert.False(t, l.Contains(p[1]))
		e, ok := l.Pop(16)
		require.True(t, ok)
		assert.Equal(t, p[0], e.Addr)

		_, ok = l.Pop(16)
		assert.False(t, ok, "a single free must never be issued twice")
	})

	t.Run("classes do not mix", func(t *testing.T) {
		_, ok := l.Pop(32)
		assert.False(t, ok)
		e, ok := l.Pop(24)
		require.True(t, ok)
		assert.Equal(t, p[2], e.Addr)
	})

	assert.Zero(t, l.Len())
	assert.Empty(t, l.Classes())
	assert.Equal(t, uint64(3), l.Pushed())
	assert.Equal(t, uint64(3), l.Popped())
}

func TestList_DuplicatePush(t *testing.T) {
	l := New()
	p := addrs(2)

	l.Push(Entry{Class: 16, Addr: p[0], Gen: 1})
	l.Push(Entry{Class: 16, Addr: p[1], Gen: 1})

	require.True(t, l.Contains(p[0]))
	l.Push(Entry{Class: 16, Addr: p[0], Gen: 2})
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, uint64(2), l.Pushed(), "a refresh is not a new entry")
	assert.Equal(t, 2, l.LenClass(16))

	_, _ = l.Pop(16)
	e, ok := l.Pop(16)
	require.True(t, ok)
	assert.Equal(t, p[0], e.Addr)
	assert.Equal(t, uint64(2), e.Gen, "duplicate push refreshes the recorded generation")

	_, ok = l.Pop(16)
	assert.False(t, ok)
}

func TestList_ReuseAfterPop(t *testing.T) {
	l := New()
	p := addrs(1)

	for gen := uint64(1); gen <= 5; gen++ {
		require.False(t, l.Contains(p[0]))
		l.Push(Entry{Class: 40, Addr: p[0], Gen: gen})
		assert.True(t, l.Contains(p[0]))
		e, ok := l.Pop(40)
		require.True(t, ok)
		assert.Equal(t, gen, e.Gen)
		assert.False(t, l.Contains(p[0]))
	}
}

func BenchmarkList_PushPop(b *testing.B) {
	l := New()
	p := addrs(64)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, a := range p {
			l.Push(Entry{Class: 16, Addr: a, Gen: uint64(i)})
		}
		for range p {
			l.Pop(16)
		}
	}
}
