package engine

import (
	"strings"

	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/regexp"
)

func stringConstructor(ctx *Context) Value {
	ctor := nativeFunction(ctx, "String", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := ""
		if len(args) > 0 {
			s = ToGoString(args[0])
		}
		return goStringValue(ctx, s), nil
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), ctx.Protos.String.Value(), 0)
	ctx.Protos.String.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)
	defineMethod(ctx, ctorObj, "fromCharCode", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteRune(rune(int32(ToNumberPrimitive(a))))
		}
		return goStringValue(ctx, b.String()), nil
	})
	return ctor
}

func thisString(this Value) string {
	if this.IsObject() {
		if v, ok := this.AsObject().Extra.(Value); ok {
			return ToGoString(v)
		}
	}
	return ToGoString(this)
}

func setupStringPrototype(ctx *Context) {
	p := ctx.Protos.String
	p.DefineOwn(keys.Intern("length"), Integer(0), 0)

	defineMethod(ctx, p, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return goStringValue(ctx, thisString(this)), nil
	})
	defineMethod(ctx, p, "valueOf", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return goStringValue(ctx, thisString(this)), nil
	})
	defineMethod(ctx, p, "charAt", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		i := int(ToNumberPrimitive(arg(args, 0)))
		if i < 0 || i >= len(s) {
			return goStringValue(ctx, ""), nil
		}
		return goStringValue(ctx, string(s[i])), nil
	})
	defineMethod(ctx, p, "charCodeAt", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		i := int(ToNumberPrimitive(arg(args, 0)))
		if i < 0 || i >= len(s) {
			return Binary(nan()), nil
		}
		return Number(float64(s[i])), nil
	})
	defineMethod(ctx, p, "indexOf", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		sub := ToGoString(arg(args, 0))
		return Number(float64(strings.Index(s, sub))), nil
	})
	defineMethod(ctx, p, "lastIndexOf", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		sub := ToGoString(arg(args, 0))
		return Number(float64(strings.LastIndex(s, sub))), nil
	})
	defineMethod(ctx, p, "slice", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		start, end := sliceBounds(len(s), args)
		return goStringValue(ctx, s[start:end]), nil
	})
	defineMethod(ctx, p, "substring", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		n := len(s)
		a := clampIndex(int(ToNumberPrimitive(arg(args, 0))), n)
		b := n
		if len(args) > 1 && !args[1].IsUndefined() {
			b = clampIndex(int(ToNumberPrimitive(args[1])), n)
		}
		if a > b {
			a, b = b, a
		}
		return goStringValue(ctx, s[a:b]), nil
	})
	defineMethod(ctx, p, "toUpperCase", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return goStringValue(ctx, strings.ToUpper(thisString(this))), nil
	})
	defineMethod(ctx, p, "toLowerCase", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return goStringValue(ctx, strings.ToLower(thisString(this))), nil
	})
	defineMethod(ctx, p, "concat", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		for _, a := range args {
			s += ToGoString(a)
		}
		return goStringValue(ctx, s), nil
	})
	defineMethod(ctx, p, "split", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
		if len(args) == 0 || args[0].IsUndefined() {
			result.SetElement(0, goStringValue(ctx, s))
			return result.Value(), nil
		}
		sep := ToGoString(args[0])
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		for i, part := range parts {
			result.SetElement(uint32(i), goStringValue(ctx, part))
		}
		return result.Value(), nil
	})
	defineMethod(ctx, p, "trim", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		return goStringValue(ctx, strings.TrimSpace(thisString(this))), nil
	})
	defineMethod(ctx, p, "replace", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		pattern := arg(args, 0)
		replacement := arg(args, 1)
		if pattern.IsObject() && pattern.AsObject().Kind == ObjectRegExp {
			re := pattern.AsObject().Extra.(*regexp.Regexp)
			return goStringValue(ctx, replaceRegexp(ctx, s, re, replacement)), nil
		}
		old := ToGoString(pattern)
		repl := ToGoString(replacement)
		return goStringValue(ctx, strings.Replace(s, old, repl, 1)), nil
	})
	defineMethod(ctx, p, "match", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := thisString(this)
		pattern := arg(args, 0)
		if !pattern.IsObject() || pattern.AsObject().Kind != ObjectRegExp {
			return Null(), nil
		}
		re := pattern.AsObject().Extra.(*regexp.Regexp)
		if re.Global {
			// Global match collects every match's whole text, captures
			// dropped, per the ES3 String.prototype.match contract.
			all := re.FindAll([]byte(s))
			if len(all) == 0 {
				return Null(), nil
			}
			result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
			for i, m := range all {
				result.SetElement(uint32(i), goStringValue(ctx, s[m.Start:m.End]))
			}
			return result.Value(), nil
		}
		m := re.Find([]byte(s), 0)
		if m == nil {
			return Null(), nil
		}
		return matchToArray(ctx, s, m), nil
	})
}

func replaceRegexp(ctx *Context, s string, re *regexp.Regexp, replacement Value) string {
	m := re.Find([]byte(s), 0)
	if m == nil {
		return s
	}
	var repl string
	if fn, ok := calleeFunction(replacement); ok {
		callArgs := []Value{goStringValue(ctx, s[m.Start:m.End])}
		for _, g := range m.Groups[1:] {
			if g.Ok {
				callArgs = append(callArgs, goStringValue(ctx, s[g.Start:g.End]))
			} else {
				callArgs = append(callArgs, Undefined())
			}
		}
		callArgs = append(callArgs, Number(float64(m.Start)), goStringValue(ctx, s))
		result, err := callFunctionBare(ctx, fn, Undefined(), callArgs)
		if err == nil {
			repl = ToGoString(result)
		}
	} else {
		repl = ToGoString(replacement)
	}
	return s[:m.Start] + repl + s[m.End:]
}

func matchToArray(ctx *Context, s string, m *regexp.Match) Value {
	result := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
	for i, g := range m.Groups {
		if g.Ok {
			result.SetElement(uint32(i), goStringValue(ctx, s[g.Start:g.End]))
		} else {
			result.SetElement(uint32(i), Undefined())
		}
	}
	result.DefineOwn(keys.Intern("index"), Number(float64(m.Start)), defaultDataFlags)
	result.DefineOwn(keys.Intern("input"), goStringValue(ctx, s), defaultDataFlags)
	return result.Value()
}
