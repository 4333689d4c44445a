package engine

import (
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
)

// RunProgram executes a compiled top-level program against the Context's
// global object. The returned Value is the last statement's value (the
// eval result); on an uncaught throw the thrown value is returned
// alongside a non-nil *errkit.EngineError — the "thrown Value is left in
// the result register" contract of spec.md §6.
func RunProgram(ctx *Context, fn *Function, this Value) (result Value, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch e := r.(type) {
		case scriptThrow:
			result = e.Value
			err = engineErrorFromThrown(ctx, e.Value)
		case *errkit.EngineError:
			result = errorValueFor(ctx, e)
			err = e
		default:
			panic(r)
		}
	}()

	f := NewFrame(ctx, fn, ctx.Global, this, nil)
	result = Undefined()
	for f.HasMore() {
		v := f.Next()
		if v.IsReturnBreaker() {
			return v.ReturnValue(), nil
		}
		if v.IsBreaker() {
			return Undefined(), nil
		}
		result = v
	}
	return result, nil
}

// engineErrorFromThrown maps an uncaught script value onto the host
// error type, recovering the error Kind from a thrown Error object's
// name so `throw new TypeError(...)` crosses the boundary as Type.
func engineErrorFromThrown(ctx *Context, v Value) *errkit.EngineError {
	kind := errkit.Generic
	if v.IsObject() && v.AsObject().Kind == ObjectError {
		if slot, _ := v.AsObject().Resolve(keys.Intern("name")); slot != nil {
			kind = kindFromName(ToGoString(slot.value))
		}
	}
	return &errkit.EngineError{Kind: kind, Message: safeToString(ctx, v)}
}

func kindFromName(name string) errkit.Kind {
	switch name {
	case "RangeError":
		return errkit.Range
	case "ReferenceError":
		return errkit.Reference
	case "SyntaxError":
		return errkit.Syntax
	case "TypeError":
		return errkit.Type
	case "URIError":
		return errkit.URI
	default:
		return errkit.Generic
	}
}

// errorValueFor materializes a host-raised EngineError as the script
// Error object left in the result register, mirroring what a catch
// clause would have bound (ops_trycatch.go's catchValue).
func errorValueFor(ctx *Context, e *errkit.EngineError) Value {
	root := &Frame{Ctx: ctx}
	return root.errorObjectFromEngineError(e)
}

// safeToString stringifies v for a diagnostic without letting a
// misbehaving toString re-enter the throw path.
func safeToString(ctx *Context, v Value) (s string) {
	defer func() {
		if recover() != nil {
			s = "uncaught exception"
		}
	}()
	root := &Frame{Ctx: ctx}
	return root.ToStringValue(v)
}

// CoercePrimitive applies ToPrimitive to an eval result, for the host's
// coerce-result-to-primitive eval flag.
func CoercePrimitive(ctx *Context, v Value) Value {
	root := &Frame{Ctx: ctx}
	return root.ToPrimitive(v)
}

// CoerceString applies the full ToString to an eval result, returning a
// fresh pool-tracked string Value.
func CoerceString(ctx *Context, v Value) Value {
	root := &Frame{Ctx: ctx}
	return charsValueFromGoString(root, root.ToStringValue(v))
}

// DefineGlobal installs a named value on the global object with plain
// data-property flags, the host's installation hook (spec.md §6).
func (c *Context) DefineGlobal(name string, v Value) {
	c.Global.DefineOwn(keys.Intern(name), v, defaultDataFlags)
}

// NewNativeFunction wraps a Go function as a callable script value, the
// engine's HostFunctionBuilder analogue: the host installs these on the
// global object to expose embedder functionality.
func NewNativeFunction(ctx *Context, name string, length int, fn Native) Value {
	return nativeFunction(ctx, name, length, fn)
}
