package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/text"
)

func TestZeroValueIsNone(t *testing.T) {
	var v Value
	require.True(t, v.IsNone())
	require.False(t, v.IsUndefined())
}

func TestIdenticalNumbers(t *testing.T) {
	require.True(t, Identical(Integer(3), Integer(3)))
	require.True(t, Identical(Integer(3), Binary(3)))
	require.False(t, Identical(Integer(3), Integer(4)))
	require.False(t, Identical(Binary(math.NaN()), Binary(math.NaN())))
	require.True(t, Identical(Binary(0), Binary(math.Copysign(0, -1))))
}

func TestIdenticalStringsAcrossRepresentations(t *testing.T) {
	in := text.NewInput("t", []byte("abc"))
	slice := TextValue(text.NewSlice(in, 0, 3))
	chars := CharsValue(text.NewChars([]byte("abc")))
	require.True(t, Identical(slice, chars))
	require.True(t, Identical(chars, chars))
	require.False(t, Identical(slice, CharsValue(text.NewChars([]byte("abd")))))
}

func TestIdenticalAcrossTypes(t *testing.T) {
	require.True(t, Identical(Undefined(), Undefined()))
	require.True(t, Identical(Null(), Null()))
	require.False(t, Identical(Null(), Undefined()))
	require.False(t, Identical(Integer(0), Boolean(false)))
}

func TestNumberPicksIntegerRepresentation(t *testing.T) {
	require.Equal(t, KindInteger, Number(7).Kind)
	require.Equal(t, KindBinary, Number(7.5).Kind)
	require.Equal(t, KindBinary, Number(1e10).Kind)
	// Negative zero must not collapse to integer zero.
	require.Equal(t, KindBinary, Number(math.Copysign(0, -1)).Kind)
}

func TestToGoStringFormats(t *testing.T) {
	require.Equal(t, "undefined", ToGoString(Undefined()))
	require.Equal(t, "null", ToGoString(Null()))
	require.Equal(t, "true", ToGoString(Boolean(true)))
	require.Equal(t, "42", ToGoString(Integer(42)))
	require.Equal(t, "1.5", ToGoString(Binary(1.5)))
	require.Equal(t, "NaN", ToGoString(Binary(math.NaN())))
	require.Equal(t, "Infinity", ToGoString(Binary(math.Inf(1))))
	require.Equal(t, "-Infinity", ToGoString(Binary(math.Inf(-1))))
}

func TestToBoolean(t *testing.T) {
	require.False(t, ToBoolean(Undefined()))
	require.False(t, ToBoolean(Null()))
	require.False(t, ToBoolean(Integer(0)))
	require.False(t, ToBoolean(Binary(math.NaN())))
	require.False(t, ToBoolean(CharsValue(text.NewChars(nil))))
	require.True(t, ToBoolean(Integer(1)))
	require.True(t, ToBoolean(CharsValue(text.NewChars([]byte("x")))))
}

func TestToNumberPrimitive(t *testing.T) {
	require.True(t, math.IsNaN(ToNumberPrimitive(Undefined())))
	require.Equal(t, float64(0), ToNumberPrimitive(Null()))
	require.Equal(t, float64(1), ToNumberPrimitive(Boolean(true)))
	require.Equal(t, float64(42), ToNumberPrimitive(CharsValue(text.NewChars([]byte(" 42 ")))))
	require.Equal(t, float64(255), ToNumberPrimitive(CharsValue(text.NewChars([]byte("0xff")))))
	require.Equal(t, float64(0), ToNumberPrimitive(CharsValue(text.NewChars(nil))))
	require.True(t, math.IsNaN(ToNumberPrimitive(CharsValue(text.NewChars([]byte("zz"))))))
}

func TestToInt32Wrapping(t *testing.T) {
	require.Equal(t, int32(0), ToInt32(math.NaN()))
	require.Equal(t, int32(0), ToInt32(math.Inf(1)))
	require.Equal(t, int32(-2147483648), ToInt32(2147483648))
	require.Equal(t, int32(-1), ToInt32(4294967295))
	require.Equal(t, int32(1), ToInt32(1.9))
}

func TestToUint32Wrapping(t *testing.T) {
	require.Equal(t, uint32(0), ToUint32(math.NaN()))
	require.Equal(t, uint32(4294967295), ToUint32(-1))
	require.Equal(t, uint32(1), ToUint32(4294967297))
}

func TestIndexFromKeyText(t *testing.T) {
	idx, ok := IndexFromKeyText("0")
	require.True(t, ok)
	require.Equal(t, uint32(0), idx)

	idx, ok = IndexFromKeyText("42")
	require.True(t, ok)
	require.Equal(t, uint32(42), idx)

	for _, bad := range []string{"", "01", "-1", "1.5", "a", "4294967296"} {
		_, ok := IndexFromKeyText(bad)
		require.False(t, ok, bad)
	}
}

func TestBreakerEncoding(t *testing.T) {
	b := BreakBreaker(3)
	require.True(t, b.IsBreakBreaker())
	require.Equal(t, 3, b.BreakerLevels())
	b = b.DecrementedBreaker()
	require.Equal(t, 2, b.BreakerLevels())

	c := ContinueBreaker(0)
	require.True(t, c.IsContinueBreaker())
	require.Equal(t, c, c.DecrementedBreaker())

	r := ReturnBreaker(Integer(5))
	require.True(t, r.IsReturnBreaker())
	require.Equal(t, int32(5), r.ReturnValue().AsInteger())
}
