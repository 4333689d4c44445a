package engine

import "github.com/emberlang/ember/internal/keys"

// nativeFunction wraps a Go func as a callable Function object, the
// engine's equivalent of the teacher's api.GoModuleFunction: every
// builtin method and constructor is one of these rather than a special
// case in the interpreter.
func nativeFunction(ctx *Context, name string, length int, fn Native) Value {
	obj := NewObjectKind(ctx.Pool, ObjectFunction, ctx.Protos.Function)
	f := &Function{Name: name, Native: fn}
	ctx.Pool.Track(f)
	obj.Extra = f
	obj.DefineOwn(keys.Intern("name"), goStringValue(ctx, name), 0)
	obj.DefineOwn(keys.Intern("length"), Integer(int32(length)), 0)
	return obj.Value()
}

func goStringValue(ctx *Context, s string) Value {
	return CharsValue(trackedChars(ctx, s))
}

func defineMethod(ctx *Context, o *Object, name string, length int, fn Native) {
	o.DefineOwn(keys.Intern(name), nativeFunction(ctx, name, length, fn), flagWritable|flagConfigurable)
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined()
}

// BootstrapGlobals wires every builtin prototype, constructor and
// global function into ctx, the single entry point a Runtime calls once
// right after NewContext — grounded on the teacher's moduleBuilder
// pattern of assembling a whole module's exports before instantiating
// it.
func BootstrapGlobals(ctx *Context) {
	// Function.prototype must exist before any nativeFunction call (every
	// builtin method is one), so it is allocated ahead of the rest.
	ctx.Protos.Function = NewObject(ctx.Pool, ctx.Protos.Object)
	setupObjectPrototype(ctx)
	setupFunctionPrototype(ctx)
	ctx.Protos.Array = NewObject(ctx.Pool, ctx.Protos.Object)
	ctx.Protos.String = NewObject(ctx.Pool, ctx.Protos.Object)
	ctx.Protos.Number = NewObject(ctx.Pool, ctx.Protos.Object)
	ctx.Protos.Boolean = NewObject(ctx.Pool, ctx.Protos.Object)
	ctx.Protos.Error = NewObject(ctx.Pool, ctx.Protos.Object)
	ctx.Protos.RegExp = NewObject(ctx.Pool, ctx.Protos.Object)
	ctx.Protos.Date = NewObject(ctx.Pool, ctx.Protos.Object)

	setupArrayPrototype(ctx)
	setupStringPrototype(ctx)
	setupNumberPrototype(ctx)
	setupErrorPrototype(ctx)
	setupRegExpPrototype(ctx)
	setupDatePrototype(ctx)

	g := ctx.Global
	define := func(name string, v Value) {
		g.DefineOwn(keys.Intern(name), v, flagWritable|flagConfigurable)
	}

	define("Object", objectConstructor(ctx))
	define("Array", arrayConstructor(ctx))
	define("String", stringConstructor(ctx))
	define("Number", numberConstructor(ctx))
	define("Boolean", booleanConstructor(ctx))
	define("Function", functionConstructor(ctx))
	define("RegExp", regexpConstructor(ctx))
	define("Date", dateConstructor(ctx))
	define("Math", mathObject(ctx))
	define("JSON", jsonObject(ctx))
	for _, name := range []string{"Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "URIError"} {
		define(name, errorConstructor(ctx, name))
	}
	define("NaN", Binary(nan()))
	define("Infinity", Binary(inf()))
	define("undefined", Undefined())

	define("parseInt", nativeFunction(ctx, "parseInt", 2, builtinParseInt))
	define("parseFloat", nativeFunction(ctx, "parseFloat", 1, builtinParseFloat))
	define("isNaN", nativeFunction(ctx, "isNaN", 1, builtinIsNaN))
	define("isFinite", nativeFunction(ctx, "isFinite", 1, builtinIsFinite))
}

func setupObjectPrototype(ctx *Context) {
	p := ctx.Protos.Object
	defineMethod(ctx, p, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		tag := "Object"
		if this.IsObject() {
			tag = this.AsObject().Kind.ClassName()
		}
		return goStringValue(ctx, "[object "+tag+"]"), nil
	})
	defineMethod(ctx, p, "valueOf", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return this, nil
	})
	defineMethod(ctx, p, "hasOwnProperty", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		if !this.IsObject() {
			return Boolean(false), nil
		}
		name := ToGoString(arg(args, 0))
		o := this.AsObject()
		if idx, ok := IndexFromKeyText(name); ok {
			_, ok := o.GetElement(idx)
			return Boolean(ok), nil
		}
		return Boolean(o.GetOwn(keys.Intern(name)) != nil), nil
	})
	defineMethod(ctx, p, "isPrototypeOf", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		other := arg(args, 0)
		if !this.IsObject() || !other.IsObject() {
			return Boolean(false), nil
		}
		self := this.AsObject()
		for cur := other.AsObject().Prototype; cur != nil; cur = cur.Prototype {
			if cur == self {
				return Boolean(true), nil
			}
		}
		return Boolean(false), nil
	})
}

func setupFunctionPrototype(ctx *Context) {
	p := ctx.Protos.Function
	defineMethod(ctx, p, "call", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		fn, ok := calleeFunction(this)
		if !ok {
			return Undefined(), errkitType("Function.prototype.call target is not callable")
		}
		var rest []Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return callFunctionBare(ctx, fn, arg(args, 0), rest)
	})
	defineMethod(ctx, p, "apply", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		fn, ok := calleeFunction(this)
		if !ok {
			return Undefined(), errkitType("Function.prototype.apply target is not callable")
		}
		var rest []Value
		if arr := arg(args, 1); arr.IsObject() {
			o := arr.AsObject()
			for i := uint32(0); i < o.Length(); i++ {
				v, _ := o.GetElement(i)
				rest = append(rest, v)
			}
		}
		return callFunctionBare(ctx, fn, arg(args, 0), rest)
	})
	defineMethod(ctx, p, "bind", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		fn, ok := calleeFunction(this)
		if !ok {
			return Undefined(), errkitType("Function.prototype.bind target is not callable")
		}
		boundThis := arg(args, 0)
		var preset []Value
		if len(args) > 1 {
			preset = append(preset, args[1:]...)
		}
		bound := &Function{Name: "bound " + fn.Name, UseBoundThis: true, BoundThis: boundThis}
		bound.Native = func(innerCtx *Context, _ Value, callArgs []Value) (Value, error) {
			return callFunctionBare(innerCtx, fn, boundThis, append(append([]Value{}, preset...), callArgs...))
		}
		ctx.Pool.Track(bound)
		obj := NewObjectKind(ctx.Pool, ObjectFunction, ctx.Protos.Function)
		obj.Extra = bound
		return obj.Value(), nil
	})
	defineMethod(ctx, p, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		name := ""
		if fn, ok := calleeFunction(this); ok {
			name = fn.Name
		}
		return goStringValue(ctx, "function "+name+"() { [native code] }"), nil
	})
}

// callFunctionBare invokes fn without an existing Frame, used by
// builtins (call/apply/bind, Array.prototype.sort's comparator, JSON's
// reviver) that run outside any script call site.
func callFunctionBare(ctx *Context, fn *Function, this Value, args []Value) (Value, error) {
	if fn.Native != nil {
		return fn.Native(ctx, this, args)
	}
	root := &Frame{Ctx: ctx}
	return root.CallFunction(fn, this, args)
}

func errkitType(msg string) error { return goError{msg} }

type goError struct{ msg string }

func (e goError) Error() string { return e.msg }
