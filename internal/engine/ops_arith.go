package engine

import (
	"math"

	"github.com/emberlang/ember/internal/text"
)

// opAdd implements `+`, including the string-concatenation branch of
// the abstract AddOperation (spec.md §4.3): if either ToPrimitive
// result is a string, concatenate; otherwise add numerically.
func opAdd(f *Frame, op *Op) Value {
	l := f.Next()
	r := f.Next()
	lp := f.ToPrimitive(l)
	rp := f.ToPrimitive(r)
	if lp.IsString() || rp.IsString() {
		c := text.NewChars(nil)
		c.AppendString(f.ToStringValue(lp))
		c.AppendString(f.ToStringValue(rp))
		f.Ctx.Pool.Track(c)
		return CharsValue(c)
	}
	return Number(ToNumberOf(f, lp) + ToNumberOf(f, rp))
}

func arith(f *Frame, fn func(a, b float64) float64) Value {
	l := f.Next()
	r := f.Next()
	a := ToNumberOf(f, l)
	b := ToNumberOf(f, r)
	return Number(fn(a, b))
}

func opSub(f *Frame, op *Op) Value { return arith(f, func(a, b float64) float64 { return a - b }) }
func opMul(f *Frame, op *Op) Value { return arith(f, func(a, b float64) float64 { return a * b }) }
func opDiv(f *Frame, op *Op) Value { return arith(f, func(a, b float64) float64 { return a / b }) }
func opMod(f *Frame, op *Op) Value { return arith(f, math.Mod) }

func opNeg(f *Frame, op *Op) Value {
	v := f.Next()
	return Number(-ToNumberOf(f, v))
}

func opPlus(f *Frame, op *Op) Value {
	v := f.Next()
	return Number(ToNumberOf(f, v))
}

func opNot(f *Frame, op *Op) Value {
	v := f.Next()
	return Boolean(!ToBooleanOf(f, v))
}

func bitwise(f *Frame, fn func(a, b int32) int32) Value {
	l := f.Next()
	r := f.Next()
	a := ToInt32(ToNumberOf(f, l))
	b := ToInt32(ToNumberOf(f, r))
	return Integer(fn(a, b))
}

func opBitAnd(f *Frame, op *Op) Value { return bitwise(f, func(a, b int32) int32 { return a & b }) }
func opBitOr(f *Frame, op *Op) Value  { return bitwise(f, func(a, b int32) int32 { return a | b }) }
func opBitXor(f *Frame, op *Op) Value { return bitwise(f, func(a, b int32) int32 { return a ^ b }) }

func opBitNot(f *Frame, op *Op) Value {
	v := f.Next()
	return Integer(^ToInt32(ToNumberOf(f, v)))
}

func opShl(f *Frame, op *Op) Value {
	l, r := f.Next(), f.Next()
	a := ToInt32(ToNumberOf(f, l))
	shift := ToUint32(ToNumberOf(f, r)) & 31
	return Integer(a << shift)
}

func opShr(f *Frame, op *Op) Value {
	l, r := f.Next(), f.Next()
	a := ToInt32(ToNumberOf(f, l))
	shift := ToUint32(ToNumberOf(f, r)) & 31
	return Integer(a >> shift)
}

func opUShr(f *Frame, op *Op) Value {
	l, r := f.Next(), f.Next()
	a := ToUint32(ToNumberOf(f, l))
	shift := ToUint32(ToNumberOf(f, r)) & 31
	return Number(float64(a >> shift))
}
