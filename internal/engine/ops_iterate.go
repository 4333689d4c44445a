package engine

import (
	"math"

	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
)

// The iterate*Ref ops are the compiler's specialization of the classic
// integer counting loop (spec.md §4.2): a three-clause `for` whose test
// compares a plain identifier against a bound with < <= > >= and whose
// update steps the same identifier by a small integer constant. The
// handler keeps the counter on an int32 fast path and deoptimizes to
// the generic float64 comparison the moment either side stops being an
// integer (overflow included, since stepping past int32 range produces
// a Binary value).
//
// op.Value packs the loop variable's key handle in the low 16 bits and
// the signed step in the next 8; the bound expression and the body
// follow as the op's two subtrees, the bound re-evaluated before every
// iteration exactly as the generic loop would.

func packIterate(k keys.Key, step int8) Value {
	return Integer(int32(uint32(uint16(k)) | uint32(uint8(step))<<16))
}

func unpackIterate(v Value) (keys.Key, int8) {
	bits := uint32(v.AsInteger())
	return keys.Key(uint16(bits & 0xFFFF)), int8(uint8(bits >> 16))
}

func iterateRef(intCmp func(a, b int32) bool, floatCmp func(a, b float64) bool) NativeOp {
	return func(f *Frame, op *Op) Value {
		k, step := unpackIterate(op.Value)
		boundPC := f.pc
		bodyPC := f.after(boundPC)
		for {
			f.Jump(boundPC)
			bound := f.Next()

			slot, owner := f.LookupEnv(k)
			if slot == nil {
				panic(&errkit.EngineError{Kind: errkit.Reference, Message: keys.TextOf(k) + " is not defined", At: op.Text})
			}
			cur := f.readSlot(slot, owner)

			ok := false
			if cur.Kind == KindInteger && bound.Kind == KindInteger {
				ok = intCmp(cur.AsInteger(), bound.AsInteger())
			} else {
				a := ToNumberOf(f, cur)
				b := ToNumberOf(f, bound)
				ok = !math.IsNaN(a) && !math.IsNaN(b) && floatCmp(a, b)
			}
			if !ok {
				f.Jump(bodyPC)
				f.Skip()
				return Undefined()
			}

			f.Jump(bodyPC)
			if v, done := handleLoopBody(f, f.Next()); done {
				f.Jump(bodyPC)
				f.Skip()
				return v
			}

			// Step after the body; the binding is re-resolved because the
			// body may have rebound or shadowed it.
			slot, owner = f.LookupEnv(k)
			if slot == nil {
				panic(&errkit.EngineError{Kind: errkit.Reference, Message: keys.TextOf(k) + " is not defined", At: op.Text})
			}
			cur = f.readSlot(slot, owner)
			if cur.Kind == KindInteger {
				next := int64(cur.AsInteger()) + int64(step)
				if next >= math.MinInt32 && next <= math.MaxInt32 {
					f.writeSlot(slot, owner, Integer(int32(next)))
					continue
				}
				// Overflowed the integer range; deoptimize to Binary.
				f.writeSlot(slot, owner, Binary(float64(next)))
				continue
			}
			f.writeSlot(slot, owner, Number(ToNumberOf(f, cur)+float64(step)))
		}
	}
}

var (
	opIterateLessRef = iterateRef(
		func(a, b int32) bool { return a < b },
		func(a, b float64) bool { return a < b })
	opIterateLessOrEqualRef = iterateRef(
		func(a, b int32) bool { return a <= b },
		func(a, b float64) bool { return a <= b })
	opIterateMoreRef = iterateRef(
		func(a, b int32) bool { return a > b },
		func(a, b float64) bool { return a > b })
	opIterateMoreOrEqualRef = iterateRef(
		func(a, b int32) bool { return a >= b },
		func(a, b float64) bool { return a >= b })
)

var iterateNatives = map[string]NativeOp{
	"<":  opIterateLessRef,
	"<=": opIterateLessOrEqualRef,
	">":  opIterateMoreRef,
	">=": opIterateMoreOrEqualRef,
}
