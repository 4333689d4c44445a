// Package errkit holds the engine's error-kind table and the
// host-facing error type, grounded on flosch/pongo2's Error type
// (error.go): a struct carrying filename/line/column/token plus a
// RawLine helper that re-renders the offending source line for a
// caret-style diagnostic.
package errkit

import (
	"fmt"
	"strings"

	"github.com/emberlang/ember/internal/text"
)

// Kind distinguishes the error's prototype (spec.md §7). Input is
// internal-only: parser diagnostics, never exposed as a catchable script
// value.
type Kind int

const (
	Generic Kind = iota
	Range
	Reference
	Syntax
	Type
	URI
	Input
)

func (k Kind) String() string {
	switch k {
	case Generic:
		return "Error"
	case Range:
		return "RangeError"
	case Reference:
		return "ReferenceError"
	case Syntax:
		return "SyntaxError"
	case Type:
		return "TypeError"
	case URI:
		return "URIError"
	case Input:
		return "InputError"
	default:
		return "Error"
	}
}

// EngineError is returned across the host boundary (Runtime.Eval) when
// evaluation ends in an uncaught throw or a parse failure.
type EngineError struct {
	Kind    Kind
	Message string
	At      text.Slice
}

// New builds an EngineError, mirroring pongo2.Error's constructor-by-
// literal style (pongo2 callers fill the struct directly rather than via
// a builder function).
func New(kind Kind, message string, at text.Slice) *EngineError {
	return &EngineError{Kind: kind, Message: message, At: at}
}

// Error renders "[Kind in name | Line L Col C] message", grounded line
// for line on pongo2.Error.Error()'s bracketed composition.
func (e *EngineError) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(e.Kind.String())
	if e.At.IsValid() {
		b.WriteString(" in ")
		b.WriteString(e.At.Input.Name)
		line, col := e.At.Input.Locate(e.At.Offset)
		fmt.Fprintf(&b, " | Line %d Col %d", line, col)
	}
	b.WriteString("] ")
	b.WriteString(e.Message)
	return b.String()
}

// RawLine returns the source line the error points at, grounded on
// pongo2.Error.RawLine's file-line lookup, adapted to read from the
// already-buffered Input rather than reopening a file.
func (e *EngineError) RawLine() (string, bool) {
	if !e.At.IsValid() {
		return "", false
	}
	line, _ := e.At.Input.Locate(e.At.Offset)
	return e.At.Input.Line(line)
}

// Caret renders the RawLine followed by a second line with a '^' under
// the offending column, the printLastThrow diagnostic from spec.md §7.
func (e *EngineError) Caret() string {
	raw, ok := e.RawLine()
	if !ok {
		return ""
	}
	_, col := e.At.Input.Locate(e.At.Offset)
	pad := col - 1
	if pad < 0 {
		pad = 0
	}
	return raw + "\n" + strings.Repeat(" ", pad) + "^"
}
