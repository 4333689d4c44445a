// Package text holds the source-level primitives shared by the lexer,
// parser and interpreter: an Input (raw source plus a lazily built line
// table) and Slice, an immutable view into an Input's bytes.
package text

import "sync"

// Input owns the raw bytes of one compilation unit along with a display
// name used in diagnostics. The line-start table is built lazily on first
// use, mirroring the teacher's preference for one-shot memoized passes
// over eagerly precomputed ones.
type Input struct {
	Name  string
	Bytes []byte

	once       sync.Once
	lineStarts []int
}

// NewInput wraps raw source bytes with a display name for diagnostics.
func NewInput(name string, src []byte) *Input {
	return &Input{Name: name, Bytes: src}
}

// LineStarts returns the byte offset of the start of each line, 0-indexed.
// The first entry is always 0.
func (in *Input) LineStarts() []int {
	in.once.Do(in.buildLineStarts)
	return in.lineStarts
}

func (in *Input) buildLineStarts() {
	starts := []int{0}
	for i, b := range in.Bytes {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	in.lineStarts = starts
}

// Locate converts a byte offset into a 1-based line and column.
func (in *Input) Locate(offset int) (line, col int) {
	starts := in.LineStarts()
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - starts[lo] + 1
}

// Line returns the raw bytes of the 1-based line, without its terminator.
func (in *Input) Line(line int) (string, bool) {
	starts := in.LineStarts()
	if line < 1 || line > len(starts) {
		return "", false
	}
	start := starts[line-1]
	end := len(in.Bytes)
	if line < len(starts) {
		end = starts[line] - 1
	}
	for end > start && (in.Bytes[end-1] == '\n' || in.Bytes[end-1] == '\r') {
		end--
	}
	return string(in.Bytes[start:end]), true
}

// Slice is an immutable view into an Input's bytes, used both as a token's
// lexeme and as the text-span blamed in a diagnostic.
type Slice struct {
	Input  *Input
	Offset int
	Length int
}

// NewSlice builds a Slice over [offset, offset+length) of in.
func NewSlice(in *Input, offset, length int) Slice {
	return Slice{Input: in, Offset: offset, Length: length}
}

// Bytes returns the raw bytes covered by the slice.
func (s Slice) Bytes() []byte {
	if s.Input == nil {
		return nil
	}
	return s.Input.Bytes[s.Offset : s.Offset+s.Length]
}

// String returns the slice decoded as UTF-8 text.
func (s Slice) String() string {
	return string(s.Bytes())
}

// IsValid reports whether the slice carries a real Input.
func (s Slice) IsValid() bool {
	return s.Input != nil
}

// End returns the exclusive end offset of the slice.
func (s Slice) End() int {
	return s.Offset + s.Length
}

// Join returns the smallest slice spanning both a and b. Both must share
// the same Input.
func Join(a, b Slice) Slice {
	start := a.Offset
	if b.Offset < start {
		start = b.Offset
	}
	end := a.End()
	if b.End() > end {
		end = b.End()
	}
	return Slice{Input: a.Input, Offset: start, Length: end - start}
}
