package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/text"
)

// TextValue wraps an unescaped literal's Text slice as a Value, used by
// the lexer for string literals that contain no escape sequences
// (spec.md §4.1: "An un-escaped literal preserves its raw bytes as a
// Text slice").
func TextValue(s text.Slice) Value {
	return Value{Kind: KindText, ref: s}
}

// CharsValue wraps an owning *text.Chars buffer as a Value.
func CharsValue(c *text.Chars) Value {
	return Value{Kind: KindChars, ref: c}
}

func (v Value) AsTextSlice() text.Slice {
	s, _ := v.ref.(text.Slice)
	return s
}

func (v Value) AsChars() *text.Chars {
	c, _ := v.ref.(*text.Chars)
	return c
}

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }

// trackedChars allocates and pool-tracks a Chars buffer preloaded with
// s, the common constructor every builtin that returns a fresh string
// goes through.
func trackedChars(ctx *Context, s string) *text.Chars {
	c := text.NewChars(nil)
	c.AppendString(s)
	ctx.Pool.Track(c)
	return c
}

// charsValueFromGoString boxes a freshly computed Go string as a
// tracked Chars Value, the common path for any builtin or op handler
// that produces a new string at runtime rather than slicing source text.
func charsValueFromGoString(f *Frame, s string) Value {
	c := text.NewChars(nil)
	c.AppendString(s)
	f.Ctx.Pool.Track(c)
	return CharsValue(c)
}

// ToGoString converts a primitive Value (never KindObject) to its Go
// string representation, the pure half of the abstract ToString
// operation. Object coercion additionally needs to invoke toString via
// the call mechanism and lives on *Frame (frame_convert.go).
func ToGoString(v Value) string {
	switch v.Kind {
	case KindNone, KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(int64(v.AsInteger()), 10)
	case KindBinary:
		return formatBinary(v.AsBinary())
	case KindKey:
		return keys.TextOf(keys.Key(v.AsKey()))
	case KindText:
		return v.AsTextSlice().String()
	case KindChars:
		return v.AsChars().String()
	default:
		return ""
	}
}

func formatBinary(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// ToBoolean implements the abstract ToBoolean operation. It never needs
// to invoke script code: every object is truthy regardless of valueOf.
func ToBoolean(v Value) bool {
	switch v.Kind {
	case KindNone, KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.AsBoolean()
	case KindInteger:
		return v.AsInteger() != 0
	case KindBinary:
		f := v.AsBinary()
		return f != 0 && !math.IsNaN(f)
	case KindText:
		return v.AsTextSlice().Length > 0
	case KindChars:
		return v.AsChars().Len() > 0
	case KindKey:
		return true
	case KindObject:
		return true
	default:
		return false
	}
}

// ToNumberPrimitive implements ToNumber for non-object values. Objects
// must be reduced via ToPrimitive(hint=number) first, which requires the
// call mechanism (frame_convert.go).
func ToNumberPrimitive(v Value) float64 {
	switch v.Kind {
	case KindNone, KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBoolean:
		if v.AsBoolean() {
			return 1
		}
		return 0
	case KindInteger, KindBinary:
		return v.AsBinary()
	case KindText, KindChars:
		return stringToNumber(ToGoString(v))
	default:
		return math.NaN()
	}
}

func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if t == "Infinity" || t == "+Infinity" {
		return math.Inf(1)
	}
	if t == "-Infinity" {
		return math.Inf(-1)
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		n, err := strconv.ParseInt(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToInt32 implements the abstract ToInt32 used by bitwise operators.
func ToInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := math.Trunc(f)
	m := math.Mod(n, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	if m >= 2147483648 {
		m -= 4294967296
	}
	return int32(m)
}

// ToUint32 implements the abstract ToUint32 used by >>> and array length
// coercion.
func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	n := math.Trunc(f)
	m := math.Mod(n, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// IndexFromKeyText reports whether s looks like a canonical array index
// ("0", "1", "23", never "01" or "-1") and returns it, used by
// getProperty/setProperty to decide between the element vector and the
// hashmap (spec.md §4.3).
func IndexFromKeyText(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}
