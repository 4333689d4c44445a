package engine

import (
	"strings"

	"github.com/emberlang/ember/internal/jsonvalue"
	"github.com/emberlang/ember/internal/keys"
)

// jsonObject wires JSON.parse/stringify. Scanning (whitespace, string
// escapes, number grammar) comes from internal/jsonvalue; the tree
// construction, reviver and replacer logic below is engine-specific
// since it walks and builds engine.Value trees that jsonvalue
// deliberately knows nothing about (spec.md §4.6).
func jsonObject(ctx *Context) Value {
	o := NewObject(ctx.Pool, ctx.Protos.Object)
	defineMethod(ctx, o, "parse", 2, func(ctx *Context, this Value, args []Value) (Value, error) {
		s := ToGoString(arg(args, 0))
		v, err := jsonParseValue(ctx, []byte(s), jsonvalue.SkipSpace([]byte(s), 0))
		if err != nil {
			return Undefined(), errkitSyntax(err.Error())
		}
		if reviver, ok := calleeFunction(arg(args, 1)); ok {
			holder := NewObject(ctx.Pool, ctx.Protos.Object)
			holder.DefineOwn(keys.Intern(""), v, defaultDataFlags)
			return jsonRevive(ctx, reviver, holder.Value(), "")
		}
		return v, nil
	})
	defineMethod(ctx, o, "stringify", 3, func(ctx *Context, this Value, args []Value) (Value, error) {
		js := newJSONStringifier(ctx, arg(args, 1), arg(args, 2))
		out, ok, err := js.run(arg(args, 0))
		if err != nil {
			return Undefined(), err
		}
		if !ok {
			return Undefined(), nil
		}
		return goStringValue(ctx, out), nil
	})
	return o.Value()
}

func errkitSyntax(msg string) error { return goError{msg} }

type jsonCursor struct {
	ctx  *Context
	data []byte
	pos  int
}

func jsonParseValue(ctx *Context, data []byte, pos int) (Value, error) {
	c := &jsonCursor{ctx: ctx, data: data, pos: pos}
	v, err := c.value()
	if err != nil {
		return Undefined(), err
	}
	return v, nil
}

func (c *jsonCursor) skip() { c.pos = jsonvalue.SkipSpace(c.data, c.pos) }

func (c *jsonCursor) value() (Value, error) {
	c.skip()
	if c.pos >= len(c.data) {
		return Undefined(), jsonvalue.ErrUnexpectedEnd
	}
	switch c.data[c.pos] {
	case '{':
		return c.object()
	case '[':
		return c.array()
	case '"':
		s, next, err := jsonvalue.ScanString(c.data, c.pos)
		if err != nil {
			return Undefined(), err
		}
		c.pos = next
		return CharsValue(trackedChars(c.ctx, s)), nil
	case 't':
		if c.literal("true") {
			return Boolean(true), nil
		}
		return Undefined(), jsonvalue.ErrInvalid
	case 'f':
		if c.literal("false") {
			return Boolean(false), nil
		}
		return Undefined(), jsonvalue.ErrInvalid
	case 'n':
		if c.literal("null") {
			return Null(), nil
		}
		return Undefined(), jsonvalue.ErrInvalid
	default:
		n, next, err := jsonvalue.ScanNumber(c.data, c.pos)
		if err != nil {
			return Undefined(), err
		}
		c.pos = next
		return Number(n), nil
	}
}

func (c *jsonCursor) literal(word string) bool {
	if c.pos+len(word) > len(c.data) || string(c.data[c.pos:c.pos+len(word)]) != word {
		return false
	}
	c.pos += len(word)
	return true
}

func (c *jsonCursor) object() (Value, error) {
	o := NewObject(c.ctx.Pool, c.ctx.Protos.Object)
	c.pos++ // '{'
	c.skip()
	if c.pos < len(c.data) && c.data[c.pos] == '}' {
		c.pos++
		return o.Value(), nil
	}
	for {
		c.skip()
		if c.pos >= len(c.data) || c.data[c.pos] != '"' {
			return Undefined(), jsonvalue.ErrInvalid
		}
		key, next, err := jsonvalue.ScanString(c.data, c.pos)
		if err != nil {
			return Undefined(), err
		}
		c.pos = next
		c.skip()
		if c.pos >= len(c.data) || c.data[c.pos] != ':' {
			return Undefined(), jsonvalue.ErrInvalid
		}
		c.pos++
		v, err := c.value()
		if err != nil {
			return Undefined(), err
		}
		o.DefineOwn(keys.Intern(key), v, defaultDataFlags)
		c.skip()
		if c.pos >= len(c.data) {
			return Undefined(), jsonvalue.ErrUnexpectedEnd
		}
		if c.data[c.pos] == ',' {
			c.pos++
			continue
		}
		if c.data[c.pos] == '}' {
			c.pos++
			break
		}
		return Undefined(), jsonvalue.ErrInvalid
	}
	return o.Value(), nil
}

func (c *jsonCursor) array() (Value, error) {
	o := NewObjectKind(c.ctx.Pool, ObjectArray, c.ctx.Protos.Array)
	c.pos++ // '['
	c.skip()
	if c.pos < len(c.data) && c.data[c.pos] == ']' {
		c.pos++
		return o.Value(), nil
	}
	var idx uint32
	for {
		v, err := c.value()
		if err != nil {
			return Undefined(), err
		}
		o.SetElement(idx, v)
		idx++
		c.skip()
		if c.pos >= len(c.data) {
			return Undefined(), jsonvalue.ErrUnexpectedEnd
		}
		if c.data[c.pos] == ',' {
			c.pos++
			continue
		}
		if c.data[c.pos] == ']' {
			c.pos++
			break
		}
		return Undefined(), jsonvalue.ErrInvalid
	}
	return o.Value(), nil
}

// jsonRevive implements JSON.parse's reviver walk (spec.md §4.6):
// depth-first and bottom-up, each property's value revived before the
// reviver is called for the object holding it, each value replaced by
// reviver.call(holder, key, value); a reviver returning undefined
// deletes that property.
func jsonRevive(ctx *Context, reviver *Function, holder Value, key string) (Value, error) {
	o := holder.AsObject()
	v, _ := o.Resolve(keys.Intern(key))
	var raw Value
	if v != nil {
		raw = v.value
	}
	if raw.IsObject() {
		owner := raw.AsObject()
		if owner.Kind == ObjectArray {
			for i := uint32(0); i < owner.Length(); i++ {
				elemVal, _ := owner.GetElement(i)
				child := NewObject(ctx.Pool, ctx.Protos.Object)
				child.DefineOwn(keys.Intern(uitoa(i)), elemVal, defaultDataFlags)
				revived, err := jsonRevive(ctx, reviver, child.Value(), uitoa(i))
				if err != nil {
					return Undefined(), err
				}
				if revived.IsUndefined() {
					owner.DeleteElement(i)
				} else {
					owner.SetElement(i, revived)
				}
			}
		} else {
			for _, k := range append([]keys.Key{}, owner.OwnKeysInOrder()...) {
				name := keys.TextOf(k)
				revived, err := jsonRevive(ctx, reviver, owner.Value(), name)
				if err != nil {
					return Undefined(), err
				}
				if revived.IsUndefined() {
					owner.DeleteOwn(k)
				} else {
					owner.DefineOwn(k, revived, defaultDataFlags)
				}
			}
		}
	}
	return callFunctionBare(ctx, reviver, holder, []Value{goStringValue(ctx, key), raw})
}

// jsonStringifier implements JSON.stringify for the common data shapes
// (objects, arrays, strings, numbers, booleans, null), honoring the
// three stringify parameters of spec.md §4.6: a function replacer
// (called per property, holder bound as `this`), an array replacer (an
// allow-list of property names, applied to named object properties
// only, never to array indices), and a space parameter (a string used
// verbatim, or an integer clamped to 0..10 spaces). It does not detect
// cycles: a cyclic structure recurses until the Go runtime's stack
// limit, which ends the process with a fatal stack-overflow error rather
// than a catchable script exception.
type jsonStringifier struct {
	ctx    *Context
	fn     *Function
	filter map[string]bool // nil when no array replacer was given
	indent string
}

func newJSONStringifier(ctx *Context, replacer, space Value) *jsonStringifier {
	js := &jsonStringifier{ctx: ctx}
	js.fn, _ = calleeFunction(replacer)
	if js.fn == nil && replacer.IsObject() && replacer.AsObject().Kind == ObjectArray {
		root := &Frame{Ctx: ctx}
		o := replacer.AsObject()
		js.filter = make(map[string]bool, o.Length())
		for i := uint32(0); i < o.Length(); i++ {
			if name, ok := o.GetElement(i); ok {
				js.filter[root.ToStringValue(name)] = true
			}
		}
	}
	switch {
	case space.IsString():
		js.indent = ToGoString(space)
	case space.IsNumber():
		n := int(ToNumberPrimitive(space))
		if n < 0 {
			n = 0
		}
		if n > 10 {
			n = 10
		}
		js.indent = strings.Repeat(" ", n)
	}
	return js
}

// run applies the replacer to the top value under the empty key (the
// value itself as holder, as the original does) and stringifies it.
func (js *jsonStringifier) run(v Value) (string, bool, error) {
	v, err := js.replace("", v, v)
	if err != nil {
		return "", false, err
	}
	return js.stringify(v, 0)
}

func (js *jsonStringifier) replace(key string, v, holder Value) (Value, error) {
	if js.fn == nil {
		return v, nil
	}
	return callFunctionBare(js.ctx, js.fn, holder, []Value{goStringValue(js.ctx, key), v})
}

func (js *jsonStringifier) stringify(v Value, depth int) (string, bool, error) {
	switch {
	case v.IsUndefined(), v.IsNone():
		return "", false, nil
	case v.IsObject() && v.AsObject().Kind == ObjectFunction:
		return "", false, nil
	case v.IsNull():
		return "null", true, nil
	case v.IsBoolean():
		return ToGoString(v), true, nil
	case v.IsNumber():
		n := ToNumberPrimitive(v)
		if n != n { // NaN
			return "null", true, nil
		}
		return ToGoString(v), true, nil
	case v.IsString():
		return jsonvalue.QuoteString(ToGoString(v)), true, nil
	case v.IsObject():
		o := v.AsObject()
		if o.Kind == ObjectArray {
			var parts []string
			for i := uint32(0); i < o.Length(); i++ {
				elem, _ := o.GetElement(i)
				elem, err := js.replace(uitoa(i), elem, v)
				if err != nil {
					return "", false, err
				}
				s, ok, err := js.stringify(elem, depth+1)
				if err != nil {
					return "", false, err
				}
				if !ok {
					s = "null"
				}
				parts = append(parts, s)
			}
			return js.wrap("[", "]", parts, depth), true, nil
		}
		colon := ":"
		if js.indent != "" {
			colon = ": "
		}
		var parts []string
		for _, k := range o.OwnKeysInOrder() {
			slot := o.GetOwn(k)
			if slot == nil || !slot.enumerable() {
				continue
			}
			name := keys.TextOf(k)
			if js.filter != nil && !js.filter[name] {
				continue
			}
			val, err := js.replace(name, slot.value, v)
			if err != nil {
				return "", false, err
			}
			s, ok, err := js.stringify(val, depth+1)
			if err != nil {
				return "", false, err
			}
			if !ok {
				continue
			}
			parts = append(parts, jsonvalue.QuoteString(name)+colon+s)
		}
		return js.wrap("{", "}", parts, depth), true, nil
	default:
		return "", false, nil
	}
}

// wrap joins a container's rendered entries, either compactly or — when
// an indent is set — one entry per line at depth+1 with the closer back
// at the container's own depth.
func (js *jsonStringifier) wrap(open, close string, parts []string, depth int) string {
	if len(parts) == 0 {
		return open + close
	}
	if js.indent == "" {
		return open + strings.Join(parts, ",") + close
	}
	inner := strings.Repeat(js.indent, depth+1)
	return open + "\n" + inner + strings.Join(parts, ",\n"+inner) + "\n" + strings.Repeat(js.indent, depth) + close
}
