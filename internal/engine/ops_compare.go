package engine

import "math"

// opIdentical/opNotIdentical implement `===`/`!==` via the pure,
// frame-free Identical function (value.go).
func opIdentical(f *Frame, op *Op) Value {
	l, r := f.Next(), f.Next()
	return Boolean(Identical(l, r))
}

func opNotIdentical(f *Frame, op *Op) Value {
	l, r := f.Next(), f.Next()
	return Boolean(!Identical(l, r))
}

// opEqual/opNotEqual implement `==`/`!=`, the abstract equality
// comparison (spec.md §4.3): same-kind falls back to Identical;
// otherwise a fixed coercion ladder (null~undefined, number~string,
// boolean~anything, object~primitive via ToPrimitive) converges on a
// numeric or identical comparison.
func opEqual(f *Frame, op *Op) Value {
	l, r := f.Next(), f.Next()
	return Boolean(f.abstractEqual(l, r))
}

func opNotEqual(f *Frame, op *Op) Value {
	l, r := f.Next(), f.Next()
	return Boolean(!f.abstractEqual(l, r))
}

func (f *Frame) abstractEqual(a, b Value) bool {
	if a.Kind == b.Kind || (a.IsNumber() && b.IsNumber()) || (a.IsString() && b.IsString()) {
		return Identical(a, b)
	}
	if a.IsNullOrUndefined() && b.IsNullOrUndefined() {
		return true
	}
	if a.IsNullOrUndefined() || b.IsNullOrUndefined() {
		return false
	}
	if a.IsNumber() && b.IsString() {
		return ToNumberOf(f, a) == ToNumberOf(f, b)
	}
	if a.IsString() && b.IsNumber() {
		return ToNumberOf(f, a) == ToNumberOf(f, b)
	}
	if a.IsBoolean() {
		return f.abstractEqual(Number(ToNumberOf(f, a)), b)
	}
	if b.IsBoolean() {
		return f.abstractEqual(a, Number(ToNumberOf(f, b)))
	}
	if a.IsObject() && (b.IsNumber() || b.IsString()) {
		return f.abstractEqual(f.ToPrimitive(a), b)
	}
	if b.IsObject() && (a.IsNumber() || a.IsString()) {
		return f.abstractEqual(a, f.ToPrimitive(b))
	}
	return false
}

// relational implements `<`, `>`, `<=`, `>=` via the abstract
// LessThan comparison: string operands compare lexically by byte,
// everything else coerces to number and NaN makes every relation false.
func relational(lessOK, greaterOK, eqOK bool) func(f *Frame, op *Op) Value {
	return func(f *Frame, op *Op) Value {
		l, r := f.Next(), f.Next()
		lp, rp := f.ToPrimitive(l), f.ToPrimitive(r)
		if lp.IsString() && rp.IsString() {
			a, b := f.ToStringValue(lp), f.ToStringValue(rp)
			switch {
			case a < b:
				return Boolean(lessOK)
			case a > b:
				return Boolean(greaterOK)
			default:
				return Boolean(eqOK)
			}
		}
		a, b := ToNumberOf(f, lp), ToNumberOf(f, rp)
		if math.IsNaN(a) || math.IsNaN(b) {
			return Boolean(false)
		}
		switch {
		case a < b:
			return Boolean(lessOK)
		case a > b:
			return Boolean(greaterOK)
		default:
			return Boolean(eqOK)
		}
	}
}

var opLess = relational(true, false, false)
var opGreater = relational(false, true, false)
var opLessEqual = relational(true, false, true)
var opGreaterEqual = relational(false, true, true)
