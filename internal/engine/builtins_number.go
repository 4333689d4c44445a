package engine

import (
	"strconv"

	"github.com/emberlang/ember/internal/keys"
)

func numberConstructor(ctx *Context) Value {
	ctor := nativeFunction(ctx, "Number", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return Integer(0), nil
		}
		return Number(ToNumberPrimitive(args[0])), nil
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), ctx.Protos.Number.Value(), 0)
	ctx.Protos.Number.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)
	ctorObj.DefineOwn(keys.Intern("MAX_VALUE"), Binary(1.7976931348623157e308), 0)
	ctorObj.DefineOwn(keys.Intern("MIN_VALUE"), Binary(5e-324), 0)
	ctorObj.DefineOwn(keys.Intern("NaN"), Binary(nan()), 0)
	ctorObj.DefineOwn(keys.Intern("POSITIVE_INFINITY"), Binary(inf()), 0)
	ctorObj.DefineOwn(keys.Intern("NEGATIVE_INFINITY"), Binary(-inf()), 0)
	return ctor
}

func thisNumber(this Value) float64 {
	if this.IsObject() {
		if v, ok := this.AsObject().Extra.(Value); ok {
			return ToNumberPrimitive(v)
		}
	}
	return ToNumberPrimitive(this)
}

func setupNumberPrototype(ctx *Context) {
	p := ctx.Protos.Number
	defineMethod(ctx, p, "toString", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		n := thisNumber(this)
		radix := 10
		if len(args) > 0 && !args[0].IsUndefined() {
			radix = int(ToNumberPrimitive(args[0]))
		}
		if radix == 10 {
			return goStringValue(ctx, ToGoString(Number(n))), nil
		}
		return goStringValue(ctx, strconv.FormatInt(int64(n), radix)), nil
	})
	defineMethod(ctx, p, "valueOf", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(thisNumber(this)), nil
	})
	defineMethod(ctx, p, "toFixed", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		n := thisNumber(this)
		digits := 0
		if len(args) > 0 {
			digits = int(ToNumberPrimitive(args[0]))
		}
		return goStringValue(ctx, strconv.FormatFloat(n, 'f', digits, 64)), nil
	})
}

func booleanConstructor(ctx *Context) Value {
	ctor := nativeFunction(ctx, "Boolean", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Boolean(ToBoolean(arg(args, 0))), nil
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), ctx.Protos.Boolean.Value(), 0)
	ctx.Protos.Boolean.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)
	defineMethod(ctx, ctx.Protos.Boolean, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		b := false
		if this.IsObject() {
			if v, ok := this.AsObject().Extra.(Value); ok {
				b = ToBoolean(v)
			}
		} else {
			b = ToBoolean(this)
		}
		return goStringValue(ctx, ToGoString(Boolean(b))), nil
	})
	defineMethod(ctx, ctx.Protos.Boolean, "valueOf", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		if this.IsObject() {
			if v, ok := this.AsObject().Extra.(Value); ok {
				return v, nil
			}
		}
		return this, nil
	})
	return ctor
}

func functionConstructor(ctx *Context) Value {
	ctor := nativeFunction(ctx, "Function", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Undefined(), errkitType("the Function constructor cannot compile source at runtime")
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), ctx.Protos.Function.Value(), 0)
	ctx.Protos.Function.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)
	return ctor
}
