package engine

import (
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/regexp"
)

func setupRegExpPrototype(ctx *Context) {
	p := ctx.Protos.RegExp
	defineMethod(ctx, p, "exec", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		o := this.AsObject()
		re, ok := o.Extra.(*regexp.Regexp)
		if !ok {
			return Null(), nil
		}
		s := ToGoString(arg(args, 0))
		from := 0
		if re.Global {
			from = re.LastIndex
		}
		m := re.Find([]byte(s), from)
		if m == nil {
			re.LastIndex = 0
			return Null(), nil
		}
		if re.Global {
			if m.End == m.Start {
				re.LastIndex = m.End + 1
			} else {
				re.LastIndex = m.End
			}
		}
		return matchToArray(ctx, s, m), nil
	})
	defineMethod(ctx, p, "test", 1, func(ctx *Context, this Value, args []Value) (Value, error) {
		o := this.AsObject()
		re, ok := o.Extra.(*regexp.Regexp)
		if !ok {
			return Boolean(false), nil
		}
		s := ToGoString(arg(args, 0))
		// test advances lastIndex exactly like exec so a global regexp
		// steps through the subject across alternating test/exec calls.
		from := 0
		if re.Global {
			from = re.LastIndex
		}
		m := re.Find([]byte(s), from)
		if m == nil {
			re.LastIndex = 0
			return Boolean(false), nil
		}
		if re.Global {
			if m.End == m.Start {
				re.LastIndex = m.End + 1
			} else {
				re.LastIndex = m.End
			}
		}
		return Boolean(true), nil
	})
	defineMethod(ctx, p, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, error) {
		o := this.AsObject()
		re, ok := o.Extra.(*regexp.Regexp)
		if !ok {
			return goStringValue(ctx, "/(?:)/"), nil
		}
		return goStringValue(ctx, "/"+re.Source+"/"+re.Flags), nil
	})
}

func regexpConstructor(ctx *Context) Value {
	ctor := nativeFunction(ctx, "RegExp", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		pattern := ""
		flags := ""
		if a := arg(args, 0); a.IsObject() && a.AsObject().Kind == ObjectRegExp {
			existing := a.AsObject().Extra.(*regexp.Regexp)
			pattern, flags = existing.Source, existing.Flags
		} else {
			pattern = ToGoString(a)
		}
		if len(args) > 1 && !args[1].IsUndefined() {
			flags = ToGoString(args[1])
		}
		re, err := regexp.New(pattern, flags)
		if err != nil {
			return Undefined(), &errkit.EngineError{Kind: errkit.Syntax, Message: err.Error()}
		}
		o := NewObjectKind(ctx.Pool, ObjectRegExp, ctx.Protos.RegExp)
		o.Extra = re
		o.DefineOwn(keys.Intern("source"), goStringValue(ctx, pattern), 0)
		o.DefineOwn(keys.Intern("global"), Boolean(re.Global), 0)
		o.DefineOwn(keys.Intern("lastIndex"), Integer(0), flagWritable)
		return o.Value(), nil
	})
	ctorObj := ctor.AsObject()
	ctorObj.DefineOwn(keys.Intern("prototype"), ctx.Protos.RegExp.Value(), 0)
	ctx.Protos.RegExp.DefineOwn(keys.Intern("constructor"), ctor, flagWritable|flagConfigurable)
	return ctor
}
