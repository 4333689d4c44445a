package engine

import (
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/pool"
)

// ObjectKind discriminates an Object's subkind, the Go analogue of
// spec.md §4.4's tagged object "type" field — a Plain object and a
// Function object share the same element/hashmap machinery but differ
// in what Extra holds and in which builtin methods apply.
type ObjectKind uint8

const (
	ObjectPlain ObjectKind = iota
	ObjectArray
	ObjectArguments
	ObjectFunction
	ObjectString
	ObjectNumber
	ObjectBoolean
	ObjectDate
	ObjectRegExp
	ObjectError
)

func (k ObjectKind) ClassName() string {
	switch k {
	case ObjectArray:
		return "Array"
	case ObjectArguments:
		return "Arguments"
	case ObjectFunction:
		return "Function"
	case ObjectString:
		return "String"
	case ObjectNumber:
		return "Number"
	case ObjectBoolean:
		return "Boolean"
	case ObjectDate:
		return "Date"
	case ObjectRegExp:
		return "RegExp"
	case ObjectError:
		return "Error"
	default:
		return "Object"
	}
}

// element is one slot of the ordered array-like vector; ok=false is a
// sparse hole, distinct from a slot holding Undefined.
type element struct {
	value Value
	ok    bool
}

// Object is the prototype-chained object spec.md §3–§4.4 describes: an
// ordered element vector for array-like access plus a hashmap trie for
// named properties, sharing one Object struct the way the teacher's
// wasm.ModuleInstance combines several logically distinct tables
// (exports, globals, memory) under a single struct rather than
// splitting them across types.
type Object struct {
	Kind       ObjectKind
	Prototype  *Object
	Extensible bool

	elements []element
	props    *hashmap

	// Extra holds subkind-specific payload: *Function for
	// ObjectFunction, *regexp.Regexp for ObjectRegExp, a primitive Value
	// for String/Number/Boolean wrapper objects, float64 milliseconds for Date.
	Extra any

	marked bool
	pinned bool
}

// NewObject allocates a fresh Plain object with the given prototype and
// tracks it with pool. proto may be nil (Object.prototype itself, whose
// own prototype is nil).
func NewObject(p *pool.Pool, proto *Object) *Object {
	o := &Object{Kind: ObjectPlain, Prototype: proto, Extensible: true, props: newHashmap()}
	p.Track(o)
	return o
}

// NewObjectKind is NewObject plus an explicit subkind, used by the
// builtin constructors (Array, Function's own Function objects, RegExp,
// Date, Error, and the primitive wrapper objects).
func NewObjectKind(p *pool.Pool, kind ObjectKind, proto *Object) *Object {
	o := NewObject(p, proto)
	o.Kind = kind
	return o
}

func (o *Object) Value() Value { return objectValue(o) }

// --- pool.Trackable ---

func (o *Object) Mark() {
	if o.marked {
		return
	}
	o.marked = true
	if o.Prototype != nil {
		o.Prototype.Mark()
	}
	for _, e := range o.elements {
		markValue(e.value)
	}
	if o.props != nil {
		for _, k := range o.props.order {
			if slot := o.props.get(k); slot != nil {
				markValue(slot.value)
				if slot.isAccessor() {
					markValue(slot.getter)
					markValue(slot.setter)
				}
			}
		}
	}
	switch extra := o.Extra.(type) {
	case *Function:
		extra.Mark()
	case Value:
		markValue(extra)
	}
}

func markValue(v Value) {
	switch v.Kind {
	case KindObject:
		if o := v.AsObject(); o != nil {
			o.Mark()
		}
	case KindChars:
		if c := v.AsChars(); c != nil {
			c.Mark()
		}
	}
}

func (o *Object) Marked() bool  { return o.marked }
func (o *Object) ClearMark()    { o.marked = false }
func (o *Object) Pinned() bool  { return o.pinned }
func (o *Object) Pin(b bool)    { o.pinned = b }

// --- elements (array-like ordered vector) ---

// Length reports the element vector's logical length: one past the
// highest occupied index, matching Array.prototype.length semantics.
func (o *Object) Length() uint32 { return uint32(len(o.elements)) }

func (o *Object) GetElement(i uint32) (Value, bool) {
	if i >= uint32(len(o.elements)) {
		return Value{}, false
	}
	e := o.elements[i]
	if !e.ok {
		return Value{}, false
	}
	return e.value, true
}

// SetElement writes index i, growing the vector (with sparse holes) as
// needed.
func (o *Object) SetElement(i uint32, v Value) {
	if i >= uint32(len(o.elements)) {
		grown := make([]element, i+1)
		copy(grown, o.elements)
		o.elements = grown
	}
	o.elements[i] = element{value: v, ok: true}
}

func (o *Object) DeleteElement(i uint32) {
	if i < uint32(len(o.elements)) {
		o.elements[i] = element{}
	}
}

// Resize truncates or extends the element vector to exactly n entries,
// per spec.md §4.4's explicit length-assignment rule: growing pads with
// holes, shrinking drops trailing elements. Element slots carry no
// per-index flags in this model, so the only truncation guard is the
// sealed-object check at setMember's length-assignment site, which
// knows about strict mode.
func (o *Object) Resize(n uint32) {
	switch {
	case n == uint32(len(o.elements)):
		return
	case n < uint32(len(o.elements)):
		o.elements = o.elements[:n]
	default:
		grown := make([]element, n)
		copy(grown, o.elements)
		o.elements = grown
	}
}

// --- named properties ---

// GetOwn returns the property slot defined directly on o (not walking
// the prototype chain), or nil.
func (o *Object) GetOwn(k keys.Key) *propSlot {
	if o.props == nil {
		return nil
	}
	return o.props.get(k)
}

// Resolve walks the prototype chain looking for k, returning the slot
// and the object that owns it.
func (o *Object) Resolve(k keys.Key) (*propSlot, *Object) {
	for cur := o; cur != nil; cur = cur.Prototype {
		if slot := cur.GetOwn(k); slot != nil {
			return slot, cur
		}
	}
	return nil, nil
}

// DefineOwn creates or overwrites a data property directly on o with
// the given flags, bypassing writable checks (used by the parser's
// literal-construction ops and by builtin setup, which always define
// rather than assign).
func (o *Object) DefineOwn(k keys.Key, v Value, flags propFlags) *propSlot {
	if o.props == nil {
		o.props = newHashmap()
	}
	slot, _ := o.props.ensure(k)
	slot.value = v
	slot.flags = flags &^ flagAccessor
	return slot
}

// DefineAccessor creates or overwrites an accessor property.
func (o *Object) DefineAccessor(k keys.Key, getter, setter Value, flags propFlags) *propSlot {
	if o.props == nil {
		o.props = newHashmap()
	}
	slot, _ := o.props.ensure(k)
	slot.getter = getter
	slot.setter = setter
	slot.flags = flags | flagAccessor
	return slot
}

func (o *Object) DeleteOwn(k keys.Key) bool {
	if o.props == nil {
		return false
	}
	return o.props.delete(k)
}

// OwnKeysInOrder returns every named property key defined directly on o,
// in insertion order. Used by for-in (after prototype-chain walk
// de-duplication) and by JSON.stringify's key enumeration.
func (o *Object) OwnKeysInOrder() []keys.Key {
	if o.props == nil {
		return nil
	}
	return o.props.keysInOrder()
}
