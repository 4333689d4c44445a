package engine

import "github.com/emberlang/ember/internal/keys"

func setupErrorPrototype(ctx *Context) {
	p := ctx.Protos.Error
	p.DefineOwn(keys.Intern("name"), goStringValue(ctx, "Error"), defaultDataFlags)
	p.DefineOwn(keys.Intern("message"), goStringValue(ctx, ""), defaultDataFlags)
	defineMethod(ctx, p, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		name := "Error"
		msg := ""
		if this.IsObject() {
			o := this.AsObject()
			if slot, _ := o.Resolve(keys.Intern("name")); slot != nil {
				name = ToGoString(slot.value)
			}
			if slot, _ := o.Resolve(keys.Intern("message")); slot != nil {
				msg = ToGoString(slot.value)
			}
		}
		if msg == "" {
			return goStringValue(ctx, name), nil
		}
		return goStringValue(ctx, name+": "+msg), nil
	})
}

// errorConstructor builds one of the Error-family constructors (Error
// itself plus the six ES3 subtypes); each gets its own prototype
// chained to Error.prototype so `e instanceof Error` holds for all of
// them, matching spec.md §6's error-kind table.
func errorConstructor(ctx *Context, name string) Value {
	proto := ctx.Protos.Error
	if name != "Error" {
		proto = NewObject(ctx.Pool, ctx.Protos.Error)
		proto.DefineOwn(keys.Intern("name"), goStringValue(ctx, name), defaultDataFlags)
	}
	ctor := nativeFunction(ctx, name, 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		var o *Object
		if this.IsObject() && this.AsObject().Kind == ObjectError {
			o = this.AsObject()
		} else {
			o = NewObjectKind(ctx.Pool, ObjectError, proto)
		}
		if len(args) > 0 && !args[0].IsUndefined() {
			o.DefineOwn(keys.Intern("message"), goStringValue(ctx, ToGoString(args[0])), defaultDataFlags)
		}
		return o.Value(), nil
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), proto.Value(), 0)
	proto.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)
	return ctor
}
