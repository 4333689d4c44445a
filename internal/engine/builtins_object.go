package engine

import "github.com/emberlang/ember/internal/keys"

func objectConstructor(ctx *Context) Value {
	ctor := nativeFunction(ctx, "Object", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		v := arg(args, 0)
		if v.IsObject() {
			return v, nil
		}
		if v.IsNullOrUndefined() || v.IsNone() {
			return NewObject(ctx.Pool, ctx.Protos.Object).Value(), nil
		}
		// primitive -> wrapper object, the same boxing getMember does.
		root := &Frame{Ctx: ctx}
		return root.toObjectForMember(v).Value(), nil
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), ctx.Protos.Object.Value(), 0)
	ctx.Protos.Object.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)

	defineMethod(ctx, ctorObj, "keys", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		v := arg(args, 0)
		result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
		if !v.IsObject() {
			return result.Value(), nil
		}
		o := v.AsObject()
		var idx uint32
		for i := uint32(0); i < o.Length(); i++ {
			if _, ok := o.GetElement(i); ok {
				result.SetElement(idx, goStringValue(ctx, uitoa(i)))
				idx++
			}
		}
		for _, k := range o.OwnKeysInOrder() {
			if slot := o.GetOwn(k); slot != nil && slot.enumerable() {
				result.SetElement(idx, goStringValue(ctx, keys.TextOf(k)))
				idx++
			}
		}
		return result.Value(), nil
	})
	defineMethod(ctx, ctorObj, "getPrototypeOf", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		v := arg(args, 0)
		if !v.IsObject() || v.AsObject().Prototype == nil {
			return Null(), nil
		}
		return v.AsObject().Prototype.Value(), nil
	})
	return ctor
}

func uitoa(i uint32) string {
	return ToGoString(Number(float64(i)))
}
