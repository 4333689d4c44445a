// Package regexp implements the engine's own regular-expression engine:
// a pattern compiler producing a linear bytecode program (spec.md §4.5)
// and a backtracking virtual machine that executes it. It has no
// dependency on the interpreter's Value type — the host (internal/engine)
// converts between script strings and the []byte/rune view this package
// works over, the same separation the teacher draws between its
// wazeroir bytecode and the engine that executes it.
package regexp

// OpCode enumerates the instructions a compiled Program is made of.
type OpCode byte

const (
	OpStart      OpCode = iota // ^
	OpEnd                      // $
	OpBoundary                 // \b
	OpNotBoundary              // \B
	OpAny                      // . (any character except a newline)
	OpDigit
	OpNotDigit
	OpSpace
	OpNotSpace
	OpWord
	OpNotWord
	OpBytes    // literal run, stored as written; compared case-folded at match time when /i
	OpClass    // character class: set of ranges, optionally negated
	OpRef      // backreference to capture N
	OpSaveOpen // capture N begins here
	OpSaveClose
	OpSplit      // fork: try Next first; on failure jump to Alt
	OpJump       // unconditional jump to Next
	OpRedo       // bounded-repeat loop header (min, max, clears captures in Clears)
	OpLookahead  // positive lookahead over the sub-program at Body (ending in its own OpMatch); Next continues
	OpNLookahead // negative lookahead
	OpMatch      // accept
)

// Range is an inclusive rune range used by OpClass.
type Range struct {
	Lo, Hi rune
}

// Node is one compiled instruction. Not every field is meaningful for
// every Op — which ones are is determined by Op, mirroring the spec's
// description of a Node as {opcode, offset, bytes}.
type Node struct {
	Op OpCode

	Bytes   []byte  // OpBytes literal run
	Ranges  []Range // OpClass
	Negate  bool    // OpClass
	Capture int     // OpRef, OpSaveOpen, OpSaveClose

	Next int // primary successor (absolute index into Program)
	Alt  int // secondary successor (OpSplit's fallback)

	Min, Max int   // OpRedo bounds; Max < 0 means unbounded
	Lazy     bool  // OpRedo / OpSplit: prefer the shorter match first
	Clears   []int // capture indices to reset on each OpRedo iteration
	Body     int   // OpRedo/OpLookahead/OpNLookahead: start of the sub-program
}

// Program is a compiled pattern: a flat Node array terminated by OpMatch.
type Program struct {
	Nodes        []Node
	CaptureCount int // including the implicit whole-match capture 0
	IgnoreCase   bool
	Multiline    bool
}
