package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	in := NewInput("a.js", []byte("one\ntwo\nthree"))
	line, col := in.Locate(0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = in.Locate(5) // 'w' in "two"
	require.Equal(t, 2, line)
	require.Equal(t, 2, col)

	line, col = in.Locate(8) // 't' in "three"
	require.Equal(t, 3, line)
	require.Equal(t, 1, col)
}

func TestLine(t *testing.T) {
	in := NewInput("a.js", []byte("one\ntwo\r\nthree"))
	s, ok := in.Line(1)
	require.True(t, ok)
	require.Equal(t, "one", s)
	s, ok = in.Line(2)
	require.True(t, ok)
	require.Equal(t, "two", s)
	_, ok = in.Line(9)
	require.False(t, ok)
}

func TestSlice(t *testing.T) {
	in := NewInput("a.js", []byte("hello world"))
	s := NewSlice(in, 6, 5)
	require.Equal(t, "world", s.String())
	require.Equal(t, 11, s.End())
	require.True(t, s.IsValid())
	require.False(t, Slice{}.IsValid())
}

func TestJoin(t *testing.T) {
	in := NewInput("a.js", []byte("hello world"))
	a := NewSlice(in, 0, 5)
	b := NewSlice(in, 6, 5)
	j := Join(a, b)
	require.Equal(t, "hello world", j.String())
	// Order doesn't matter.
	require.Equal(t, "hello world", Join(b, a).String())
}

func TestCharsAppendAndLen(t *testing.T) {
	c := NewChars([]byte("ab"))
	c.Append('c').AppendString("de")
	require.Equal(t, "abcde", c.String())
	require.Equal(t, 5, c.Len())
}

func TestCharsRetainPinsAgainstSweep(t *testing.T) {
	c := NewChars(nil)
	require.False(t, c.Pinned())
	c.Retain()
	require.True(t, c.Pinned())
	c.Release()
	require.False(t, c.Pinned())
}

func TestCharsMarkCycle(t *testing.T) {
	c := NewChars(nil)
	require.False(t, c.Marked())
	c.Mark()
	require.True(t, c.Marked())
	c.ClearMark()
	require.False(t, c.Marked())
}

func TestNilCharsAccessors(t *testing.T) {
	var c *Chars
	require.Equal(t, "", c.String())
	require.Equal(t, 0, c.Len())
}
