package engine

import (
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/sortutil"
)

func arrayConstructor(ctx *Context) Value {
	ctor := nativeFunction(ctx, "Array", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		arr := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
		if len(args) == 1 && args[0].IsNumber() {
			arr.Resize(ToUint32(ToNumberPrimitive(args[0])))
			return arr.Value(), nil
		}
		for i, v := range args {
			arr.SetElement(uint32(i), v)
		}
		return arr.Value(), nil
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), ctx.Protos.Array.Value(), 0)
	ctx.Protos.Array.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)
	defineMethod(ctx, ctorObj, "isArray", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		v := arg(args, 0)
		return Boolean(v.IsObject() && v.AsObject().Kind == ObjectArray), nil
	})
	return ctor
}

func arrayElements(this Value) []Value {
	if !this.IsObject() {
		return nil
	}
	o := this.AsObject()
	out := make([]Value, o.Length())
	for i := range out {
		v, _ := o.GetElement(uint32(i))
		out[i] = v
	}
	return out
}

func setupArrayPrototype(ctx *Context) {
	p := ctx.Protos.Array

	defineMethod(ctx, p, "push", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		o := this.AsObject()
		n := o.Length()
		for i, v := range args {
			o.SetElement(n+uint32(i), v)
		}
		return Number(float64(o.Length())), nil
	})
	defineMethod(ctx, p, "pop", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		o := this.AsObject()
		n := o.Length()
		if n == 0 {
			return Undefined(), nil
		}
		v, _ := o.GetElement(n - 1)
		o.Resize(n - 1)
		return v, nil
	})
	defineMethod(ctx, p, "shift", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		elems := arrayElements(this)
		if len(elems) == 0 {
			return Undefined(), nil
		}
		first := elems[0]
		o := this.AsObject()
		o.Resize(0)
		for i, v := range elems[1:] {
			o.SetElement(uint32(i), v)
		}
		return first, nil
	})
	defineMethod(ctx, p, "unshift", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		elems := arrayElements(this)
		o := this.AsObject()
		o.Resize(0)
		combined := append(append([]Value{}, args...), elems...)
		for i, v := range combined {
			o.SetElement(uint32(i), v)
		}
		return Number(float64(len(combined))), nil
	})
	defineMethod(ctx, p, "slice", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		elems := arrayElements(this)
		start, end := sliceBounds(len(elems), args)
		result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
		for i, v := range elems[start:end] {
			result.SetElement(uint32(i), v)
		}
		return result.Value(), nil
	})
	defineMethod(ctx, p, "splice", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		elems := arrayElements(this)
		n := len(elems)
		start := clampIndex(int(ToNumberPrimitive(arg(args, 0))), n)
		deleteCount := n - start
		if len(args) > 1 {
			deleteCount = clampIndex(int(ToNumberPrimitive(args[1])), n-start)
		}
		removed := append([]Value{}, elems[start:start+deleteCount]...)
		var inserted []Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		rebuilt := append(append(append([]Value{}, elems[:start]...), inserted...), elems[start+deleteCount:]...)
		o := this.AsObject()
		o.Resize(0)
		for i, v := range rebuilt {
			o.SetElement(uint32(i), v)
		}
		result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
		for i, v := range removed {
			result.SetElement(uint32(i), v)
		}
		return result.Value(), nil
	})
	defineMethod(ctx, p, "concat", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
		idx := uint32(0)
		add := func(v Value) {
			if v.IsObject() && v.AsObject().Kind == ObjectArray {
				for _, e := range arrayElements(v) {
					result.SetElement(idx, e)
					idx++
				}
				return
			}
			result.SetElement(idx, v)
			idx++
		}
		add(this)
		for _, a := range args {
			add(a)
		}
		return result.Value(), nil
	})
	defineMethod(ctx, p, "join", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		sep := ","
		if len(args) > 0 && !args[0].IsUndefined() {
			sep = ToGoString(args[0])
		}
		elems := arrayElements(this)
		var out string
		for i, v := range elems {
			if i > 0 {
				out += sep
			}
			if !v.IsNullOrUndefined() {
				out += ToGoString(v)
			}
		}
		return goStringValue(ctx, out), nil
	})
	defineMethod(ctx, p, "reverse", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		o := this.AsObject()
		elems := arrayElements(this)
		for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
			elems[i], elems[j] = elems[j], elems[i]
		}
		for i, v := range elems {
			o.SetElement(uint32(i), v)
		}
		return this, nil
	})
	defineMethod(ctx, p, "indexOf", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		target := arg(args, 0)
		for i, v := range arrayElements(this) {
			if Identical(v, target) {
				return Number(float64(i)), nil
			}
		}
		return Number(-1), nil
	})
	defineMethod(ctx, p, "forEach", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		fn, ok := calleeFunction(arg(args, 0))
		if !ok {
			return Undefined(), errkitType("forEach callback is not a function")
		}
		for i, v := range arrayElements(this) {
			if _, err := callFunctionBare(ctx, fn, Undefined(), []Value{v, Number(float64(i)), this}); err != nil {
				return Undefined(), err
			}
		}
		return Undefined(), nil
	})
	defineMethod(ctx, p, "map", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		fn, ok := calleeFunction(arg(args, 0))
		if !ok {
			return Undefined(), errkitType("map callback is not a function")
		}
		result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
		for i, v := range arrayElements(this) {
			mapped, err := callFunctionBare(ctx, fn, Undefined(), []Value{v, Number(float64(i)), this})
			if err != nil {
				return Undefined(), err
			}
			result.SetElement(uint32(i), mapped)
		}
		return result.Value(), nil
	})
	defineMethod(ctx, p, "filter", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		fn, ok := calleeFunction(arg(args, 0))
		if !ok {
			return Undefined(), errkitType("filter callback is not a function")
		}
		result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
		var idx uint32
		for i, v := range arrayElements(this) {
			keep, err := callFunctionBare(ctx, fn, Undefined(), []Value{v, Number(float64(i)), this})
			if err != nil {
				return Undefined(), err
			}
			if ToBoolean(keep) {
				result.SetElement(idx, v)
				idx++
			}
		}
		return result.Value(), nil
	})
	defineMethod(ctx, p, "sort", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		elems := arrayElements(this)
		var compareErr error
		comparator, hasComparator := calleeFunction(arg(args, 0))
		less := sortutil.Less[Value](func(a, b Value) (bool, error) {
			if hasComparator {
				result, err := callFunctionBare(ctx, comparator, Undefined(), []Value{a, b})
				if err != nil {
					compareErr = err
					return false, err
				}
				return ToNumberPrimitive(result) < 0, nil
			}
			return ToGoString(a) < ToGoString(b), nil
		})
		if err := sortutil.Sort(elems, less); err != nil {
			return Undefined(), err
		}
		if compareErr != nil {
			return Undefined(), compareErr
		}
		o := this.AsObject()
		for i, v := range elems {
			o.SetElement(uint32(i), v)
		}
		return this, nil
	})
	defineMethod(ctx, p, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		var out string
		for i, v := range arrayElements(this) {
			if i > 0 {
				out += ","
			}
			if !v.IsNullOrUndefined() {
				out += ToGoString(v)
			}
		}
		return goStringValue(ctx, out), nil
	})
}

func sliceBounds(n int, args []Value) (int, int) {
	start := 0
	end := n
	if len(args) > 0 {
		start = clampIndex(int(ToNumberPrimitive(args[0])), n)
	}
	if len(args) > 1 && !args[1].IsUndefined() {
		end = clampIndex(int(ToNumberPrimitive(args[1])), n)
	}
	if end < start {
		end = start
	}
	return start, end
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
