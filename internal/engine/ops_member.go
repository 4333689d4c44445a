package engine

import (
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/text"
)

// opGetProperty implements `obj.name`/`obj[expr]` reads. op.Value
// carries the interned Key when the accessor is a dotted identifier
// (`.name`); KindNone means the key comes from the next op instead
// (bracket access with a computed expression), matching how the parser
// emits one or the other depending on which syntax it saw.
func opGetProperty(f *Frame, op *Op) Value {
	base := f.Next()
	key := op.Value
	if key.IsNone() {
		key = f.Next()
	}
	return f.getMember(base, key)
}

func (f *Frame) getMember(base, key Value) Value {
	o := f.toObjectForMember(base)
	if o == nil {
		return Undefined()
	}
	keyText := f.ToStringValue(key)
	if idx, ok := IndexFromKeyText(keyText); ok {
		if v, ok := o.GetElement(idx); ok {
			return v
		}
		if o.Kind == ObjectString {
			return f.stringIndexFallback(o, idx)
		}
	}
	if keyText == "length" {
		switch o.Kind {
		case ObjectArray:
			// Array length is derived from the element vector, never a
			// stored property.
			return Number(float64(o.Length()))
		case ObjectString:
			prim, _ := o.Extra.(Value)
			return Integer(int32(len(ToGoString(prim))))
		}
	}
	k := keys.Intern(keyText)
	slot, owner := o.Resolve(k)
	if slot == nil {
		return Undefined()
	}
	return f.readSlot(slot, owner)
}

func (f *Frame) stringIndexFallback(o *Object, idx uint32) Value {
	prim, _ := o.Extra.(Value)
	s := ToGoString(prim)
	if int(idx) >= len(s) {
		return Undefined()
	}
	c := text.NewChars([]byte{s[idx]})
	f.Ctx.Pool.Track(c)
	return CharsValue(c)
}

// toObjectForMember boxes a primitive receiver into its wrapper object
// form just long enough to resolve the property, rather than
// permanently allocating one — spec.md §4.3's "member access on a
// primitive behaves as if boxed".
func (f *Frame) toObjectForMember(base Value) *Object {
	switch {
	case base.IsObject():
		return base.AsObject()
	case base.IsString():
		o := NewObjectKind(f.Ctx.Pool, ObjectString, f.Ctx.Protos.String)
		o.Extra = base
		return o
	case base.IsNumber():
		o := NewObjectKind(f.Ctx.Pool, ObjectNumber, f.Ctx.Protos.Number)
		o.Extra = base
		return o
	case base.IsBoolean():
		o := NewObjectKind(f.Ctx.Pool, ObjectBoolean, f.Ctx.Protos.Boolean)
		o.Extra = base
		return o
	default:
		return nil
	}
}

// opSetProperty implements `obj.name = v`/`obj[expr] = v`.
func opSetProperty(f *Frame, op *Op) Value {
	base := f.Next()
	key := op.Value
	if key.IsNone() {
		key = f.Next()
	}
	v := f.Next()
	f.setMember(base, key, v, op.Text)
	return v
}

// setMember writes a property, honoring accessor pairs and property
// flags. A rejected write — read-only property, non-extensible target,
// truncating a sealed array through length — is silent in sloppy mode
// and a TypeError in strict mode (spec.md §4.3).
func (f *Frame) setMember(base, key, v Value, at text.Slice) {
	if !base.IsObject() {
		return // writes through a boxed primitive are silently dropped, matching non-strict ES3
	}
	o := base.AsObject()
	keyText := f.ToStringValue(key)
	if idx, ok := IndexFromKeyText(keyText); ok {
		o.SetElement(idx, v)
		return
	}
	if keyText == "length" && o.Kind == ObjectArray {
		n := ToUint32(ToNumberOf(f, v))
		if n < o.Length() && !o.Extensible {
			if f.Strict {
				panic(&errkit.EngineError{Kind: errkit.Type, Message: "cannot truncate a sealed array", At: at})
			}
			return
		}
		o.Resize(n)
		return
	}
	k := keys.Intern(keyText)
	if slot, owner := o.Resolve(k); slot != nil && slot.isAccessor() {
		f.writeSlot(slot, owner, v)
		return
	}
	if slot := o.GetOwn(k); slot != nil {
		if slot.writable() {
			slot.value = v
			return
		}
		if f.Strict {
			panic(&errkit.EngineError{Kind: errkit.Type, Message: "cannot assign to read-only property " + keyText, At: at})
		}
		return
	}
	if !o.Extensible {
		if f.Strict {
			panic(&errkit.EngineError{Kind: errkit.Type, Message: "cannot add property " + keyText + " to a non-extensible object", At: at})
		}
		return
	}
	o.DefineOwn(k, v, defaultDataFlags)
}

// opDeleteProperty implements `delete obj.name`/`delete obj[expr]`.
func opDeleteProperty(f *Frame, op *Op) Value {
	base := f.Next()
	key := op.Value
	if key.IsNone() {
		key = f.Next()
	}
	if !base.IsObject() {
		return Boolean(true)
	}
	o := base.AsObject()
	keyText := f.ToStringValue(key)
	if idx, ok := IndexFromKeyText(keyText); ok {
		o.DeleteElement(idx)
		return Boolean(true)
	}
	k := keys.Intern(keyText)
	if slot := o.GetOwn(k); slot != nil && !slot.configurable() {
		if f.Strict {
			panic(&errkit.EngineError{Kind: errkit.Type, Message: "property is not configurable", At: op.Text})
		}
		return Boolean(false)
	}
	o.DeleteOwn(k)
	return Boolean(true)
}

// opIn implements `key in obj`.
func opIn(f *Frame, op *Op) Value {
	key := f.Next()
	base := f.Next()
	if !base.IsObject() {
		panic(&errkit.EngineError{Kind: errkit.Type, Message: "in applied to non-object", At: op.Text})
	}
	o := base.AsObject()
	keyText := f.ToStringValue(key)
	if idx, ok := IndexFromKeyText(keyText); ok {
		_, ok := o.GetElement(idx)
		return Boolean(ok)
	}
	slot, _ := o.Resolve(keys.Intern(keyText))
	return Boolean(slot != nil)
}

// opInstanceOf implements `obj instanceof fn`.
func opInstanceOf(f *Frame, op *Op) Value {
	base := f.Next()
	ctor := f.Next()
	if !base.IsObject() || !ctor.IsObject() {
		panic(&errkit.EngineError{Kind: errkit.Type, Message: "instanceof applied to non-object", At: op.Text})
	}
	if _, ok := ctor.AsObject().Extra.(*Function); !ok {
		panic(&errkit.EngineError{Kind: errkit.Type, Message: "right-hand side is not callable", At: op.Text})
	}
	protoSlot := ctor.AsObject().GetOwn(keys.Intern("prototype"))
	if protoSlot == nil || !protoSlot.value.IsObject() {
		return Boolean(false)
	}
	proto := protoSlot.value.AsObject()
	for cur := base.AsObject().Prototype; cur != nil; cur = cur.Prototype {
		if cur == proto {
			return Boolean(true)
		}
	}
	return Boolean(false)
}
