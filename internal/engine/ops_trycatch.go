package engine

import (
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
)

// scriptThrow wraps a value a script `throw` statement raised, kept
// distinct from *errkit.EngineError (which only ever carries a host- or
// grammar-level diagnostic) so arbitrary thrown values — not just
// Error objects — round-trip through panic/recover unchanged.
type scriptThrow struct{ Value Value }

// opThrow implements `throw expr`, using a Go panic as the non-local
// transfer spec.md §4.3 asks for — the direct analogue of the original
// engine's setjmp/longjmp, grounded here on the teacher's own
// panic/recover boundary in moduleEngine.Call.
func opThrow(f *Frame, op *Op) Value {
	v := f.Next()
	panic(scriptThrow{Value: v})
}

// opTry implements try/catch/finally. The op stream lays out three
// single-subtree clauses after the try header: the try block, the
// catch block (always present, empty if the source had no catch), and
// the finally block (same). op.Value holds the catch parameter's Key,
// or KindNone if the source had no catch clause at all — in which case
// a thrown value simply runs finally and then re-propagates.
func opTry(f *Frame, op *Op) Value {
	tryPC := f.pc
	catchPC := f.after(tryPC)
	finallyPC := f.after(catchPC)
	hasCatch := op.Value.Kind == KindKey

	var bodyResult Value
	var thrown any
	func() {
		defer func() {
			if r := recover(); r != nil {
				thrown = r
			}
		}()
		f.Jump(tryPC)
		bodyResult = f.Next()
	}()

	if thrown != nil && hasCatch {
		f.Jump(catchPC)
		k := keys.Key(op.Value.AsKey())
		f.Env.DefineOwn(k, f.catchValue(thrown), flagWritable|flagEnumerable)
		thrown = nil
		func() {
			defer func() {
				if r := recover(); r != nil {
					thrown = r
				}
			}()
			bodyResult = f.Next()
		}()
	} else {
		f.Jump(catchPC)
		f.Skip()
	}

	f.Jump(finallyPC)
	finallyResult := f.Next()
	if finallyResult.IsBreaker() {
		// finally's own control flow (return/break/continue) wins over
		// whatever the try/catch was about to produce or rethrow.
		return finallyResult
	}
	if thrown != nil {
		panic(thrown)
	}
	return bodyResult
}

// catchValue turns whatever panic/recover caught into the Value a
// catch clause binds: a script throw's payload unwrapped as-is, or a
// freshly built Error object for a host-raised EngineError.
func (f *Frame) catchValue(r any) Value {
	switch e := r.(type) {
	case scriptThrow:
		return e.Value
	case *errkit.EngineError:
		return f.errorObjectFromEngineError(e)
	default:
		panic(r)
	}
}

func (f *Frame) errorObjectFromEngineError(e *errkit.EngineError) Value {
	o := NewObjectKind(f.Ctx.Pool, ObjectError, f.Ctx.Protos.Error)
	o.DefineOwn(keys.Intern("name"), charsValueFromGoString(f, e.Kind.String()), defaultDataFlags)
	o.DefineOwn(keys.Intern("message"), charsValueFromGoString(f, e.Message), defaultDataFlags)
	return o.Value()
}
