package engine

import (
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
)

// opLiteral pushes the Op's own constant payload — a number, string,
// boolean, null, undefined, a key handle, or the global object the
// compiler supplies as a bare call's receiver. Array, object and
// function literals compile to their own ops instead.
func opLiteral(f *Frame, op *Op) Value { return op.Value }

// opThis pushes the current frame's `this` binding.
func opThis(f *Frame, op *Op) Value { return f.This }

// opGetIdentifier resolves op.Value's interned Key up the environment
// chain; an unresolved identifier is a ReferenceError, per spec.md
// §4.3.
func opGetIdentifier(f *Frame, op *Op) Value {
	k := keys.Key(op.Value.AsKey())
	slot, owner := f.LookupEnv(k)
	if slot == nil {
		panic(&errkit.EngineError{Kind: errkit.Reference, Message: keys.TextOf(k) + " is not defined", At: op.Text})
	}
	return f.readSlot(slot, owner)
}

// opSetIdentifier assigns the next value to the identifier named by
// op.Value, creating it on the global object if it's unresolved and the
// frame isn't strict (spec.md §4.3's "implicit global" edge case);
// strict mode turns that into a ReferenceError instead.
func opSetIdentifier(f *Frame, op *Op) Value {
	k := keys.Key(op.Value.AsKey())
	v := f.Next()
	slot, owner := f.LookupEnv(k)
	if slot == nil {
		if f.Strict {
			panic(&errkit.EngineError{Kind: errkit.Reference, Message: keys.TextOf(k) + " is not defined", At: op.Text})
		}
		f.Ctx.Global.DefineOwn(k, v, defaultDataFlags)
		return v
	}
	f.writeSlot(slot, owner, v)
	return v
}

func (f *Frame) readSlot(slot *propSlot, owner *Object) Value {
	if slot.isAccessor() {
		if slot.getter.IsUndefined() {
			return Undefined()
		}
		fn := slot.getter.AsObject().Extra.(*Function)
		result, _ := f.CallFunction(fn, owner.Value(), nil)
		return result
	}
	return slot.value
}

func (f *Frame) writeSlot(slot *propSlot, owner *Object, v Value) {
	if slot.isAccessor() {
		if slot.setter.IsUndefined() {
			return
		}
		fn := slot.setter.AsObject().Extra.(*Function)
		f.CallFunction(fn, owner.Value(), []Value{v})
		return
	}
	if !slot.writable() {
		return
	}
	slot.value = v
}

// opDeclareVar materializes a `var` binding on the frame's own
// environment object (not the global object, unless the function body
// *is* the global scope), with no initial value beyond Undefined —
// hoisting itself happens at parse/compile time by emitting these ops
// before any other statement in the enclosing function.
func opDeclareVar(f *Frame, op *Op) Value {
	k := keys.Key(op.Value.AsKey())
	if f.Env.GetOwn(k) == nil {
		f.Env.DefineOwn(k, Undefined(), flagWritable|flagEnumerable)
	}
	return Undefined()
}

// opPop discards the next value, used after an expression statement
// whose result nobody consumes.
func opPop(f *Frame, op *Op) Value {
	f.Next()
	return Undefined()
}
