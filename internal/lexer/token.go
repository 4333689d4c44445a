// Package lexer turns a text.Input into a flat token stream, the first
// stage of spec.md §4.1's pipeline. Grounded on the teacher's wat
// package token design (wasm/wat/token_test.go's `{kind, line, col,
// lexeme}` shape) adapted to byte offsets (via text.Slice) rather than
// precomputed line/column pairs, since this engine's diagnostics derive
// line/col lazily from an Input's line table instead of stamping it at
// scan time.
package lexer

import "github.com/emberlang/ember/internal/text"

// Kind discriminates a Token's grammatical category.
type Kind int

const (
	EOF Kind = iota
	Ident
	Keyword
	Reserved
	NumberInt
	NumberFloat
	String
	Regex
	Punct
)

// Token is one lexeme: its category, the exact source span, and for
// literals a pre-decoded Value so the parser never re-scans digits or
// escape sequences.
type Token struct {
	Kind Kind
	Text text.Slice

	// Raw is the token's literal bytes for Ident/Keyword/Punct/Regex —
	// for Regex it is "pattern\x00flags" split on the first NUL, chosen
	// over a struct field because every other Token variant needs only
	// one string.
	Raw string

	// NumberValue holds the decoded numeric literal for NumberInt/NumberFloat.
	NumberValue float64

	// StringChars holds the escape-decoded bytes for a String token that
	// contained at least one escape sequence; StringRaw is true when the
	// literal had none, in which case the parser should use Text's raw
	// bytes directly (spec.md §4.1's "un-escaped literal preserves its
	// raw bytes as a Text slice").
	StringChars []byte
	StringRaw   bool

	// DidLineBreak reports whether a line terminator appeared anywhere
	// in the whitespace/comments preceding this token; the parser's
	// semicolon-insertion rule and the restricted productions (return,
	// labeled break/continue) consult it.
	DidLineBreak bool
}

// keywords is matched by exact text, per spec.md §4.1's keyword table.
var keywords = map[string]bool{
	"break": true, "case": true, "catch": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "finally": true, "for": true, "function": true,
	"if": true, "in": true, "instanceof": true, "new": true,
	"return": true, "switch": true, "typeof": true, "throw": true,
	"try": true, "var": true, "void": true, "while": true, "with": true,
	"null": true, "true": true, "false": true, "this": true,
}

// reservedWords are a lex error only inside a strict-mode scope
// (spec.md §4.1); the lexer always classifies them as Reserved and lets
// the parser decide whether the current scope rejects them.
var reservedWords = map[string]bool{
	"class": true, "const": true, "enum": true, "export": true,
	"extends": true, "import": true, "implements": true,
	"interface": true, "let": true, "package": true, "private": true,
	"protected": true, "public": true, "static": true, "super": true,
	"yield": true,
}
