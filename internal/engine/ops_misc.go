package engine

import (
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
)

// opLogicalAnd/opLogicalOr implement `&&`/`||`'s short-circuit contract:
// the right operand's subtree is compiled right after the left operand's,
// and is skipped via Width when short-circuiting applies.
func opLogicalAnd(f *Frame, op *Op) Value {
	l := f.Next()
	if !ToBooleanOf(f, l) {
		f.Skip()
		return l
	}
	return f.Next()
}

func opLogicalOr(f *Frame, op *Op) Value {
	l := f.Next()
	if ToBooleanOf(f, l) {
		f.Skip()
		return l
	}
	return f.Next()
}

// opComma implements the comma operator over N operands (op.Value's
// Integer payload), evaluating each in order and returning the last.
func opComma(f *Frame, op *Op) Value {
	count := int(op.Value.AsInteger())
	var last Value
	for i := 0; i < count; i++ {
		last = f.Next()
	}
	return last
}

// opVoid discards its operand's value, always yielding undefined.
func opVoid(f *Frame, op *Op) Value {
	f.Next()
	return Undefined()
}

// opTypeof implements `typeof expr`. The parser routes a bare-identifier
// operand through opGetIdentifierSafe rather than opGetIdentifier so
// `typeof undeclaredName` yields "undefined" instead of throwing.
func opTypeof(f *Frame, op *Op) Value {
	return charsValueFromGoString(f, typeofString(f.Next()))
}

func typeofString(v Value) string {
	switch {
	case v.IsUndefined(), v.IsNone():
		return "undefined"
	case v.IsNull():
		return "object"
	case v.IsBoolean():
		return "boolean"
	case v.IsNumber():
		return "number"
	case v.IsString():
		return "string"
	case v.IsObject():
		if _, ok := calleeFunction(v); ok {
			return "function"
		}
		return "object"
	default:
		return "undefined"
	}
}

// opGetIdentifierSafe resolves an identifier without throwing on an
// unresolved name — `typeof`'s one exception to the usual ReferenceError
// contract (spec.md §4.1's reserved-word table has no equivalent; this
// mirrors the well-known ES3 typeof carve-out).
func opGetIdentifierSafe(f *Frame, op *Op) Value {
	slot, owner := f.LookupEnv(keys.Key(op.Value.AsKey()))
	if slot == nil {
		return Undefined()
	}
	return f.readSlot(slot, owner)
}

// opDebugger is a statement-level no-op; the engine has no debugger to
// break into.
func opDebugger(f *Frame, op *Op) Value { return Undefined() }

// opWith implements `with (expr) stmt`: for the dynamic extent of the
// body, identifier lookups first check the target object's own-and-
// inherited properties before falling through to the normal lexical
// scope chain. Rejecting `with` in strict-mode source is the parser's
// job; this handler only ever runs in sloppy code.
func opWith(f *Frame, op *Op) Value {
	target := f.Next()
	if !target.IsObject() {
		panic(&errkit.EngineError{Kind: errkit.Type, Message: "with target is not an object", At: op.Text})
	}
	prev := f.withTarget
	f.withTarget = target.AsObject()
	result := f.Next()
	f.withTarget = prev
	return result
}
