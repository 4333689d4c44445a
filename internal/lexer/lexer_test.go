package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/text"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New(text.NewInput("test.js", []byte(src)))
	var out []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Kind == EOF {
			return out
		}
		out = append(out, tok)
	}
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks := lexAll(t, "var $x _y if ifx")
	require.Equal(t, []Kind{Keyword, Ident, Ident, Keyword, Ident}, kinds(toks))
	require.Equal(t, "$x", toks[1].Raw)
	require.Equal(t, "ifx", toks[4].Raw)
}

func TestReservedWordsAreClassified(t *testing.T) {
	toks := lexAll(t, "class let")
	require.Equal(t, []Kind{Reserved, Reserved}, kinds(toks))
}

func TestNumberLiterals(t *testing.T) {
	toks := lexAll(t, "0 42 3.5 1e3 0xFF 2147483648")
	require.Equal(t, []Kind{NumberInt, NumberInt, NumberFloat, NumberFloat, NumberInt, NumberFloat}, kinds(toks))
	require.Equal(t, float64(42), toks[1].NumberValue)
	require.Equal(t, 3.5, toks[2].NumberValue)
	require.Equal(t, float64(1000), toks[3].NumberValue)
	require.Equal(t, float64(255), toks[4].NumberValue)
}

func TestLetterAfterNumberIsError(t *testing.T) {
	l := New(text.NewInput("test.js", []byte("3px")))
	_, err := l.Next()
	require.Error(t, err)
}

func TestStringWithoutEscapesIsRaw(t *testing.T) {
	toks := lexAll(t, `'hello'`)
	require.True(t, toks[0].StringRaw)
	require.Equal(t, `'hello'`, toks[0].Text.String())
}

func TestStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\x41B\101\0"`)
	require.False(t, toks[0].StringRaw)
	require.Equal(t, []byte("a\nbAB" + "A" + "\x00"), toks[0].StringChars)
}

func TestUnterminatedStringIsError(t *testing.T) {
	l := New(text.NewInput("test.js", []byte("'abc")))
	_, err := l.Next()
	require.Error(t, err)
}

func TestNewlineInStringIsError(t *testing.T) {
	l := New(text.NewInput("test.js", []byte("'a\nb'")))
	_, err := l.Next()
	require.Error(t, err)
}

func TestMaximalMunchPunctuators(t *testing.T) {
	toks := lexAll(t, ">>>= >>> >>= >> >= > === == = !== != ++ +=")
	want := []string{">>>=", ">>>", ">>=", ">>", ">=", ">", "===", "==", "=", "!==", "!=", "++", "+="}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equal(t, Punct, toks[i].Kind)
		require.Equal(t, w, toks[i].Raw)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := lexAll(t, "a // line\n/* block\nstill */ b")
	require.Equal(t, []Kind{Ident, Ident}, kinds(toks))
	require.True(t, toks[1].DidLineBreak)
}

func TestUnterminatedBlockCommentIsError(t *testing.T) {
	l := New(text.NewInput("test.js", []byte("/* nope")))
	_, err := l.Next()
	require.Error(t, err)
}

func TestRegexVersusDivision(t *testing.T) {
	toks := lexAll(t, "a / b")
	require.Equal(t, []Kind{Ident, Punct, Ident}, kinds(toks))

	toks = lexAll(t, "= /ab+c/gi")
	require.Equal(t, []Kind{Punct, Regex}, kinds(toks))
	require.Equal(t, "ab+c\x00gi", toks[1].Raw)

	// A slash after `return` starts a regex, after `)` it divides.
	toks = lexAll(t, "return /x/")
	require.Equal(t, []Kind{Keyword, Regex}, kinds(toks))
	toks = lexAll(t, "(a) / 2")
	require.Equal(t, []Kind{Punct, Ident, Punct, Punct, NumberInt}, kinds(toks))
}

func TestRegexClassWithSlash(t *testing.T) {
	toks := lexAll(t, "= /[/]/")
	require.Equal(t, Regex, toks[1].Kind)
	require.Equal(t, "[/]\x00", toks[1].Raw)
}

func TestDidLineBreakTracking(t *testing.T) {
	toks := lexAll(t, "a\nb c")
	require.False(t, toks[0].DidLineBreak)
	require.True(t, toks[1].DidLineBreak)
	require.False(t, toks[2].DidLineBreak)
}
