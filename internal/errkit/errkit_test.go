package errkit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/text"
)

func TestErrorRendersLocation(t *testing.T) {
	in := text.NewInput("script.js", []byte("var x = ;\n"))
	e := New(Syntax, "unexpected token", text.NewSlice(in, 8, 1))
	require.Equal(t, "[SyntaxError in script.js | Line 1 Col 9] unexpected token", e.Error())
}

func TestErrorWithoutLocation(t *testing.T) {
	e := &EngineError{Kind: Type, Message: "not a function"}
	require.Equal(t, "[TypeError] not a function", e.Error())
	_, ok := e.RawLine()
	require.False(t, ok)
	require.Equal(t, "", e.Caret())
}

func TestRawLineAndCaret(t *testing.T) {
	in := text.NewInput("script.js", []byte("first\nbad line here\nlast"))
	e := New(Reference, "nope", text.NewSlice(in, 10, 4))
	raw, ok := e.RawLine()
	require.True(t, ok)
	require.Equal(t, "bad line here", raw)
	require.Equal(t, "bad line here\n    ^", e.Caret())
}

func TestKindStrings(t *testing.T) {
	require.Equal(t, "Error", Generic.String())
	require.Equal(t, "RangeError", Range.String())
	require.Equal(t, "ReferenceError", Reference.String())
	require.Equal(t, "SyntaxError", Syntax.String())
	require.Equal(t, "TypeError", Type.String())
	require.Equal(t, "URIError", URI.String())
	require.Equal(t, "InputError", Input.String())
}
