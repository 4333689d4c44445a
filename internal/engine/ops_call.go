package engine

import (
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
)

// CallFunction is the engine's one call mechanism, used both by the
// `call`/`new` op handlers and internally by ToPrimitive's valueOf/
// toString dispatch. Every call — script or native — goes through here,
// mirroring how the teacher's moduleEngine.Call is the single entry
// point whether the callee is a compiled wasm function or a host-bound
// Go function.
func (f *Frame) CallFunction(fn *Function, this Value, args []Value) (Value, error) {
	if fn.Native != nil {
		return fn.Native(f.Ctx, this, args)
	}

	f.Ctx.EnterCall(fn.Source)
	defer f.Ctx.ExitCall()

	env := NewObject(f.Ctx.Pool, fn.Closure)
	for i, name := range fn.Params {
		var v Value
		if i < len(args) {
			v = args[i]
		} else {
			v = Undefined()
		}
		env.DefineOwn(keys.Intern(name), v, flagWritable|flagEnumerable)
	}

	actualThis := this
	if fn.UseBoundThis {
		actualThis = fn.BoundThis
	}

	callee := NewFrame(f.Ctx, fn, env, actualThis, f)
	if fn.NeedArguments {
		argsObj := NewObjectKind(f.Ctx.Pool, ObjectArguments, f.Ctx.Protos.Object)
		for i, a := range args {
			argsObj.SetElement(uint32(i), a)
		}
		argsObj.DefineOwn(keys.Intern("length"), Integer(int32(len(args))), flagWritable)
		callee.Arguments = argsObj
		env.DefineOwn(keys.Intern("arguments"), argsObj.Value(), flagWritable)
	}

	result := callee.run()
	if result.IsReturnBreaker() {
		return result.ReturnValue(), nil
	}
	return Undefined(), nil
}

// run drives a fresh call's Frame to completion, the threaded
// dispatch loop's top level (every nested construct below it advances
// the cursor via recursive Next() calls instead).
func (f *Frame) run() Value {
	for f.HasMore() {
		v := f.Next()
		if v.IsBreaker() {
			return v
		}
	}
	return Undefined()
}

// opMakeFunction instantiates a fresh closure from the compile-time
// Function template the parser attached as op.Value (boxed in a
// throwaway Object so it fits the Value union), binding Closure to the
// frame's current environment — the capture step itself, run once per
// evaluation of a function expression/declaration.
func opMakeFunction(f *Frame, op *Op) Value {
	template := op.Value.AsObject().Extra.(*Function)
	fn := &Function{
		Name:          template.Name,
		Params:        template.Params,
		Ops:           template.Ops,
		Closure:       f.Env,
		NeedHeap:      template.NeedHeap,
		NeedArguments: template.NeedArguments,
		Strict:        template.Strict,
		Source:        template.Source,
	}
	f.Ctx.Pool.Track(fn)

	obj := NewObjectKind(f.Ctx.Pool, ObjectFunction, f.Ctx.Protos.Function)
	obj.Extra = fn

	proto := NewObject(f.Ctx.Pool, f.Ctx.Protos.Object)
	proto.DefineOwn(keys.Intern("constructor"), obj.Value(), flagWritable|flagConfigurable)
	obj.DefineOwn(keys.Intern("prototype"), proto.Value(), flagWritable)
	obj.DefineOwn(keys.Intern("length"), Integer(int32(len(fn.Params))), 0)
	if fn.Name != "" {
		obj.DefineOwn(keys.Intern("name"), charsValueFromGoString(f, fn.Name), 0)
	}
	return obj.Value()
}

func calleeFunction(v Value) (*Function, bool) {
	if !v.IsObject() {
		return nil, false
	}
	fn, ok := v.AsObject().Extra.(*Function)
	return fn, ok
}

// opCall implements a call expression `callee(args...)`. op.Value's
// Integer payload is the argument count; the callee and the this-value
// the compiler supplied (the global object in sloppy code, Undefined in
// strict code; `obj.method()` compiles to opCallMethod instead) precede
// the arguments in the flat op stream.
func opCall(f *Frame, op *Op) Value {
	calleeVal := f.Next()
	thisVal := f.Next()
	argc := int(op.Value.AsInteger())
	args := make([]Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = f.Next()
	}
	fn, ok := calleeFunction(calleeVal)
	if !ok {
		panic(&errkit.EngineError{Kind: errkit.Type, Message: "value is not a function", At: op.Text})
	}
	result, err := f.CallFunction(fn, thisVal, args)
	if err != nil {
		panic(&errkit.EngineError{Kind: errkit.Generic, Message: err.Error(), At: op.Text})
	}
	return result
}

// opCallMethod implements `base.name(args...)` and `base[expr](args...)`.
// Unlike opCall it evaluates the receiver exactly once and uses it both
// to resolve the callee and as the call's `this` — the parser routes
// every member-expression callee here so a chain like
// `arr.sort(f).map(g)` never re-runs the receiver expression. op.Value's
// Integer payload is the argument count; the key is always the op right
// after the receiver subtree (a constant key op for dotted access, an
// arbitrary expression for bracket access).
func opCallMethod(f *Frame, op *Op) Value {
	base := f.Next()
	key := f.Next()
	argc := int(op.Value.AsInteger())
	args := make([]Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = f.Next()
	}
	callee := f.getMember(base, key)
	fn, ok := calleeFunction(callee)
	if !ok {
		panic(&errkit.EngineError{Kind: errkit.Type, Message: f.ToStringValue(key) + " is not a function", At: op.Text})
	}
	result, err := f.CallFunction(fn, base, args)
	if err != nil {
		panic(&errkit.EngineError{Kind: errkit.Generic, Message: err.Error(), At: op.Text})
	}
	return result
}

// opNew implements `new Ctor(args...)`: allocates a fresh object whose
// prototype is Ctor.prototype (falling back to Object.prototype if it
// isn't an object), calls Ctor with that object as `this`, and returns
// the constructor's own return value if it returned an object, or the
// freshly allocated instance otherwise (spec.md §4.3's construct rule).
func opNew(f *Frame, op *Op) Value {
	ctorVal := f.Next()
	argc := int(op.Value.AsInteger())
	args := make([]Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = f.Next()
	}
	fn, ok := calleeFunction(ctorVal)
	if !ok {
		panic(&errkit.EngineError{Kind: errkit.Type, Message: "value is not a constructor", At: op.Text})
	}
	proto := f.Ctx.Protos.Object
	if slot := ctorVal.AsObject().GetOwn(keys.Intern("prototype")); slot != nil && slot.value.IsObject() {
		proto = slot.value.AsObject()
	}
	instance := NewObject(f.Ctx.Pool, proto)
	result, err := f.CallFunction(fn, instance.Value(), args)
	if err != nil {
		panic(&errkit.EngineError{Kind: errkit.Generic, Message: err.Error(), At: op.Text})
	}
	if result.IsObject() {
		return result
	}
	return instance.Value()
}
