package engine

import (
	"math"

	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/text"
)

// applyAdd/applySub/... are the pure combinators compound-assignment ops
// share with their non-assigning counterparts in ops_arith.go; unlike
// opAdd et al. they never call f.Next() themselves, since the caller has
// already read both the old value and the right-hand side exactly once
// (spec.md §4.3's "reference values are consumed atomically" contract).
func applyAdd(f *Frame, a, b Value) Value {
	ap, bp := f.ToPrimitive(a), f.ToPrimitive(b)
	if ap.IsString() || bp.IsString() {
		c := text.NewChars(nil)
		c.AppendString(f.ToStringValue(ap))
		c.AppendString(f.ToStringValue(bp))
		f.Ctx.Pool.Track(c)
		return CharsValue(c)
	}
	return Number(ToNumberOf(f, ap) + ToNumberOf(f, bp))
}

func numericApply(fn func(a, b float64) float64) func(f *Frame, a, b Value) Value {
	return func(f *Frame, a, b Value) Value {
		return Number(fn(ToNumberOf(f, a), ToNumberOf(f, b)))
	}
}

func int32Apply(fn func(a, b int32) int32) func(f *Frame, a, b Value) Value {
	return func(f *Frame, a, b Value) Value {
		return Integer(fn(ToInt32(ToNumberOf(f, a)), ToInt32(ToNumberOf(f, b))))
	}
}

var (
	applySub    = numericApply(func(a, b float64) float64 { return a - b })
	applyMul    = numericApply(func(a, b float64) float64 { return a * b })
	applyDiv    = numericApply(func(a, b float64) float64 { return a / b })
	applyMod    = numericApply(math.Mod)
	applyBitAnd = int32Apply(func(a, b int32) int32 { return a & b })
	applyBitOr  = int32Apply(func(a, b int32) int32 { return a | b })
	applyBitXor = int32Apply(func(a, b int32) int32 { return a ^ b })
)

func applyShl(f *Frame, a, b Value) Value {
	v := ToInt32(ToNumberOf(f, a))
	shift := ToUint32(ToNumberOf(f, b)) & 31
	return Integer(v << shift)
}

func applyShr(f *Frame, a, b Value) Value {
	v := ToInt32(ToNumberOf(f, a))
	shift := ToUint32(ToNumberOf(f, b)) & 31
	return Integer(v >> shift)
}

func applyUShr(f *Frame, a, b Value) Value {
	v := ToUint32(ToNumberOf(f, a))
	shift := ToUint32(ToNumberOf(f, b)) & 31
	return Number(float64(v >> shift))
}

// compoundAssignIdentifier builds the NativeOp for `id OP= expr`: read
// the binding once, apply the combinator, write the result back once.
// For a plain data binding the slot is taken as a reference Value and
// consumed inside this same handler — the spec's reference contract: a
// mutable slot address that never escapes the op that produced it. An
// accessor binding (a `with` target property with a getter/setter) has
// no addressable slot and goes through the call-based read/write path.
func compoundAssignIdentifier(apply func(f *Frame, a, b Value) Value) NativeOp {
	return func(f *Frame, op *Op) Value {
		k := keys.Key(op.Value.AsKey())
		rhs := f.Next()
		slot, owner := f.LookupEnv(k)
		if slot == nil {
			panic(&errkit.EngineError{Kind: errkit.Reference, Message: keys.TextOf(k) + " is not defined", At: op.Text})
		}
		if slot.isAccessor() {
			result := apply(f, f.readSlot(slot, owner), rhs)
			f.writeSlot(slot, owner, result)
			return result
		}
		ref := reference(&slot.value)
		target := ref.AsReferenceSlot()
		result := apply(f, *target, rhs)
		if slot.writable() {
			*target = result
		}
		return result
	}
}

// compoundAssignProperty builds the NativeOp for `obj.name OP= expr` /
// `obj[expr] OP= expr`, following opGetProperty/opSetProperty's
// op.Value convention (a literal Key, or KindNone when the key comes
// from the next op).
func compoundAssignProperty(apply func(f *Frame, a, b Value) Value) NativeOp {
	return func(f *Frame, op *Op) Value {
		base := f.Next()
		key := op.Value
		if key.IsNone() {
			key = f.Next()
		}
		rhs := f.Next()
		result := apply(f, f.getMember(base, key), rhs)
		f.setMember(base, key, result, op.Text)
		return result
	}
}

var (
	opAddAssignIdentifier   = compoundAssignIdentifier(applyAdd)
	opSubAssignIdentifier   = compoundAssignIdentifier(applySub)
	opMulAssignIdentifier   = compoundAssignIdentifier(applyMul)
	opDivAssignIdentifier   = compoundAssignIdentifier(applyDiv)
	opModAssignIdentifier   = compoundAssignIdentifier(applyMod)
	opShlAssignIdentifier   = compoundAssignIdentifier(applyShl)
	opShrAssignIdentifier   = compoundAssignIdentifier(applyShr)
	opUShrAssignIdentifier  = compoundAssignIdentifier(applyUShr)
	opBitAndAssignIdentifier = compoundAssignIdentifier(applyBitAnd)
	opBitOrAssignIdentifier  = compoundAssignIdentifier(applyBitOr)
	opBitXorAssignIdentifier = compoundAssignIdentifier(applyBitXor)

	opAddAssignProperty   = compoundAssignProperty(applyAdd)
	opSubAssignProperty   = compoundAssignProperty(applySub)
	opMulAssignProperty   = compoundAssignProperty(applyMul)
	opDivAssignProperty   = compoundAssignProperty(applyDiv)
	opModAssignProperty   = compoundAssignProperty(applyMod)
	opShlAssignProperty   = compoundAssignProperty(applyShl)
	opShrAssignProperty   = compoundAssignProperty(applyShr)
	opUShrAssignProperty  = compoundAssignProperty(applyUShr)
	opBitAndAssignProperty = compoundAssignProperty(applyBitAnd)
	opBitOrAssignProperty  = compoundAssignProperty(applyBitOr)
	opBitXorAssignProperty = compoundAssignProperty(applyBitXor)
)

// incDecIdentifier builds prefix/postfix `++`/`--` over an identifier,
// with the same reference-slot fast path as compoundAssignIdentifier.
func incDecIdentifier(delta float64, prefix bool) NativeOp {
	return func(f *Frame, op *Op) Value {
		k := keys.Key(op.Value.AsKey())
		slot, owner := f.LookupEnv(k)
		if slot == nil {
			panic(&errkit.EngineError{Kind: errkit.Reference, Message: keys.TextOf(k) + " is not defined", At: op.Text})
		}
		if slot.isAccessor() {
			old := ToNumberOf(f, f.readSlot(slot, owner))
			updated := Number(old + delta)
			f.writeSlot(slot, owner, updated)
			if prefix {
				return updated
			}
			return Number(old)
		}
		target := reference(&slot.value).AsReferenceSlot()
		old := ToNumberOf(f, *target)
		updated := Number(old + delta)
		if slot.writable() {
			*target = updated
		}
		if prefix {
			return updated
		}
		return Number(old)
	}
}

// incDecProperty builds prefix/postfix `++`/`--` over a member target.
func incDecProperty(delta float64, prefix bool) NativeOp {
	return func(f *Frame, op *Op) Value {
		base := f.Next()
		key := op.Value
		if key.IsNone() {
			key = f.Next()
		}
		old := ToNumberOf(f, f.getMember(base, key))
		updated := Number(old + delta)
		f.setMember(base, key, updated, op.Text)
		if prefix {
			return updated
		}
		return Number(old)
	}
}

var (
	opPreIncIdentifier  = incDecIdentifier(1, true)
	opPreDecIdentifier  = incDecIdentifier(-1, true)
	opPostIncIdentifier = incDecIdentifier(1, false)
	opPostDecIdentifier = incDecIdentifier(-1, false)

	opPreIncProperty  = incDecProperty(1, true)
	opPreDecProperty  = incDecProperty(-1, true)
	opPostIncProperty = incDecProperty(1, false)
	opPostDecProperty = incDecProperty(-1, false)
)
