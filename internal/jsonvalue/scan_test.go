package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSkipSpace(t *testing.T) {
	require.Equal(t, 3, SkipSpace([]byte(" \t\nx"), 0))
	require.Equal(t, 1, SkipSpace([]byte("ab"), 1))
	require.Equal(t, 2, SkipSpace([]byte("  "), 0))
}

func TestScanString(t *testing.T) {
	s, next, err := ScanString([]byte(`"hello" tail`), 0)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.Equal(t, 7, next)
}

func TestScanStringEscapes(t *testing.T) {
	s, _, err := ScanString([]byte(`"a\n\t\"\\A"`), 0)
	require.NoError(t, err)
	require.Equal(t, "a\n\t\"\\A", s)
}

func TestScanStringErrors(t *testing.T) {
	_, _, err := ScanString([]byte(`"unterminated`), 0)
	require.ErrorIs(t, err, ErrUnexpectedEnd)
	_, _, err = ScanString([]byte(`"bad\q"`), 0)
	require.ErrorIs(t, err, ErrInvalid)
	_, _, err = ScanString([]byte("\"ctrl\x01\""), 0)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestScanNumber(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"-1", -1},
		{"3.25", 3.25},
		{"1e3", 1000},
		{"-2.5E-1", -0.25},
	} {
		v, next, err := ScanNumber([]byte(tc.in), 0)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, v, tc.in)
		require.Equal(t, len(tc.in), next, tc.in)
	}
}

func TestScanNumberRejectsMalformed(t *testing.T) {
	for _, in := range []string{"-", ".5", "1.", "1e", "1e+"} {
		_, _, err := ScanNumber([]byte(in), 0)
		require.Error(t, err, in)
	}
}

func TestQuoteString(t *testing.T) {
	require.Equal(t, `"plain"`, QuoteString("plain"))
	require.Equal(t, `"a\"b\\c"`, QuoteString(`a"b\c`))
	require.Equal(t, `"line\nbreak"`, QuoteString("line\nbreak"))
	require.Equal(t, "\"\\u0001\"", QuoteString("\x01"))
}
