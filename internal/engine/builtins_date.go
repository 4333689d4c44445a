package engine

import (
	"time"

	"github.com/emberlang/ember/internal/keys"
)

// thisDate extracts the millisecond timestamp an ObjectDate wrapper
// carries in Extra, the same pattern thisNumber/thisString use for
// their boxed primitives.
func thisDate(this Value) float64 {
	if !this.IsObject() {
		return nan()
	}
	ms, _ := this.AsObject().Extra.(float64)
	return ms
}

func dateFromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

// dateConstructor builds the Date global: new Date() snapshots the
// current wall clock (the one place this engine reaches for time.Now,
// grounded the same way Math.random reaches for math/rand — there is no
// library in the pack that models calendar time better than the
// standard library does).
func dateConstructor(ctx *Context) Value {
	ctor := nativeFunction(ctx, "Date", 7, func(ctx *Context, this Value, args []Value) (Value, error) {
		var ms float64
		switch len(args) {
		case 0:
			ms = float64(time.Now().UnixMilli())
		case 1:
			ms = ToNumberPrimitive(args[0])
		default:
			year := int(ToNumberPrimitive(arg(args, 0)))
			month := int(ToNumberPrimitive(arg(args, 1)))
			day := 1
			if len(args) > 2 {
				day = int(ToNumberPrimitive(args[2]))
			}
			hour, min, sec, msec := 0, 0, 0, 0
			if len(args) > 3 {
				hour = int(ToNumberPrimitive(args[3]))
			}
			if len(args) > 4 {
				min = int(ToNumberPrimitive(args[4]))
			}
			if len(args) > 5 {
				sec = int(ToNumberPrimitive(args[5]))
			}
			if len(args) > 6 {
				msec = int(ToNumberPrimitive(args[6]))
			}
			t := time.Date(year, time.Month(month+1), day, hour, min, sec, msec*1e6, time.UTC)
			ms = float64(t.UnixMilli())
		}
		o := NewObjectKind(ctx.Pool, ObjectDate, ctx.Protos.Date)
		o.Extra = ms
		return o.Value(), nil
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), ctx.Protos.Date.Value(), 0)
	ctx.Protos.Date.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)
	defineMethod(ctx, ctorObj, "now", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(time.Now().UnixMilli())), nil
	})
	return ctor
}

func setupDatePrototype(ctx *Context) {
	p := ctx.Protos.Date
	defineMethod(ctx, p, "getTime", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(thisDate(this)), nil
	})
	defineMethod(ctx, p, "valueOf", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(thisDate(this)), nil
	})
	defineMethod(ctx, p, "setTime", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		ms := ToNumberPrimitive(arg(args, 0))
		this.AsObject().Extra = ms
		return Number(ms), nil
	})
	defineMethod(ctx, p, "getFullYear", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(dateFromMillis(thisDate(this)).Year())), nil
	})
	defineMethod(ctx, p, "getMonth", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(dateFromMillis(thisDate(this)).Month() - 1)), nil
	})
	defineMethod(ctx, p, "getDate", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(dateFromMillis(thisDate(this)).Day())), nil
	})
	defineMethod(ctx, p, "getDay", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(dateFromMillis(thisDate(this)).Weekday())), nil
	})
	defineMethod(ctx, p, "getHours", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(dateFromMillis(thisDate(this)).Hour())), nil
	})
	defineMethod(ctx, p, "getMinutes", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(dateFromMillis(thisDate(this)).Minute())), nil
	})
	defineMethod(ctx, p, "getSeconds", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(dateFromMillis(thisDate(this)).Second())), nil
	})
	defineMethod(ctx, p, "getMilliseconds", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return Number(float64(dateFromMillis(thisDate(this)).Nanosecond() / 1e6)), nil
	})
	defineMethod(ctx, p, "toISOString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return goStringValue(ctx, dateFromMillis(thisDate(this)).Format("2006-01-02T15:04:05.000Z")), nil
	})
	defineMethod(ctx, p, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return goStringValue(ctx, dateFromMillis(thisDate(this)).Format("Mon Jan 02 2006 15:04:05 GMT+0000")), nil
	})
}
