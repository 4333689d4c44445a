package engine

import (
	"math"

	"github.com/emberlang/ember/internal/keys"
)

// mathObject builds the Math object: a plain object whose methods are
// thin wrappers over the Go math package, the one builtin area where
// the standard library is the idiomatic choice on both sides of this
// port (spec.md's own reference implementation calls libm directly).
func mathObject(ctx *Context) Value {
	o := NewObject(ctx.Pool, ctx.Protos.Object)
	o.DefineOwn(keys.Intern("PI"), Binary(math.Pi), 0)
	o.DefineOwn(keys.Intern("E"), Binary(math.E), 0)
	o.DefineOwn(keys.Intern("LN2"), Binary(math.Ln2), 0)
	o.DefineOwn(keys.Intern("LN10"), Binary(math.Log(10)), 0)
	o.DefineOwn(keys.Intern("SQRT2"), Binary(math.Sqrt2), 0)

	unary := func(name string, fn func(float64) float64) {
		defineMethod(ctx, o, name, 1, func(ctx *Context, this Value, args []Value) (Value, error) {
			return Number(fn(ToNumberPrimitive(arg(args, 0)))), nil
		})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("log", math.Log)
	unary("exp", math.Exp)

	defineMethod(ctx, o, "pow", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(math.Pow(ToNumberPrimitive(arg(args, 0)), ToNumberPrimitive(arg(args, 1)))), nil
	})
	defineMethod(ctx, o, "max", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return Binary(-inf()), nil
		}
		best := ToNumberPrimitive(args[0])
		for _, a := range args[1:] {
			v := ToNumberPrimitive(a)
			if math.IsNaN(v) {
				return Binary(nan()), nil
			}
			if v > best {
				best = v
			}
		}
		return Number(best), nil
	})
	defineMethod(ctx, o, "min", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return Binary(inf()), nil
		}
		best := ToNumberPrimitive(args[0])
		for _, a := range args[1:] {
			v := ToNumberPrimitive(a)
			if math.IsNaN(v) {
				return Binary(nan()), nil
			}
			if v < best {
				best = v
			}
		}
		return Number(best), nil
	})
	defineMethod(ctx, o, "random", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(ctx.random()), nil
	})
	return o.Value()
}
