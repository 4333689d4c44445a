// Package engine implements the value and object model, the operation
// list and its threaded dispatch, and the call-frame/context machinery
// spec.md §3 and §4.2–§4.3 describe. Value and Object live in one
// package — not split the way the lexer and parser are — because the
// spec ties them together tightly (an object subkind IS a Value
// payload, a property slot holds a Value, a Function object owns its
// own operation list which in turn produces Values): the same choice the
// teacher makes for its own wasm package, which holds value types,
// module instances and call contexts together rather than splitting
// "data model" from "runtime state" across package boundaries.
package engine

import "math"

// Kind discriminates the payload a Value carries. The zero Kind,
// KindNone, denotes "no value" — spec.md §3's invariant that a zeroed
// Value never denotes `undefined`.
type Kind byte

const (
	KindNone Kind = iota
	KindUndefined
	KindNull
	KindBoolean
	KindInteger // int32, stored in bits
	KindBinary  // float64, stored in bits via math.Float64bits
	KindKey     // a property-key handle used as a first-class value
	KindText    // pointer to a text.Slice (unescaped string literal)
	KindChars   // owning pointer to a *text.Chars buffer
	KindObject  // pointer to an *Object (subkind in Object.Kind)

	// Internal-only sentinels; a handler must never let these escape
	// past the op boundary that produced them (spec.md §4.3).
	KindReference
	KindBreaker
)

// Value is the tagged variant spec.md §3 describes, realized as a plain
// Go struct: bits holds an int32/float64/key payload, ref holds anything
// pointer-shaped (Object, Chars, Text slice, or — for KindReference — a
// *Value slot address; for KindBreaker, bits holds the breaker kind in
// its high 32 bits and the unwind levels in its low 32 bits, and ref
// holds a return breaker's value).
type Value struct {
	Kind Kind
	bits uint64
	ref  any
}

// Undefined, Null and the canonical booleans are cheap to construct
// freshly; they're exposed as functions rather than package vars so a
// caller can't accidentally mutate a shared Value (Value has no
// mutable fields, but functions keep the API symmetric with
// Integer/Binary/etc).
func Undefined() Value { return Value{Kind: KindUndefined} }
func Null() Value      { return Value{Kind: KindNull} }
func None() Value      { return Value{} }

func Boolean(b bool) Value {
	var bits uint64
	if b {
		bits = 1
	}
	return Value{Kind: KindBoolean, bits: bits}
}

func Integer(i int32) Value {
	return Value{Kind: KindInteger, bits: uint64(uint32(i))}
}

func Binary(f float64) Value {
	return Value{Kind: KindBinary, bits: math.Float64bits(f)}
}

// Number picks Integer when f round-trips exactly through int32,
// otherwise Binary — mirroring the lexer's integerToken/binaryToken
// split (spec.md §4.1) at the value-construction boundary so every
// arithmetic op can reuse the same rule.
func Number(f float64) Value {
	if i := int32(f); float64(i) == f && !(f == 0 && math.Signbit(f)) {
		return Integer(i)
	}
	return Binary(f)
}

func KeyValue(k uint16) Value {
	return Value{Kind: KindKey, bits: uint64(k)}
}

// object wraps an *Object as a Value. Unexported: callers go through
// (*Object).Value() so every Object is reachable as a Value only via a
// method on the thing that owns it.
func objectValue(o *Object) Value {
	return Value{Kind: KindObject, ref: o}
}

func reference(slot *Value) Value {
	return Value{Kind: KindReference, ref: slot}
}

func breaker(count int) Value {
	return Value{Kind: KindBreaker, bits: uint64(int64(count))}
}

// IsUndefined, IsNull, etc. — narrow predicates used throughout the op
// handlers in preference to switching on Kind directly.
func (v Value) IsUndefined() bool { return v.Kind == KindUndefined }
func (v Value) IsNull() bool      { return v.Kind == KindNull }
func (v Value) IsNone() bool      { return v.Kind == KindNone }
func (v Value) IsNullOrUndefined() bool {
	return v.Kind == KindNull || v.Kind == KindUndefined
}
func (v Value) IsObject() bool { return v.Kind == KindObject }
func (v Value) IsBoolean() bool { return v.Kind == KindBoolean }
func (v Value) IsNumber() bool  { return v.Kind == KindInteger || v.Kind == KindBinary }
func (v Value) IsString() bool  { return v.Kind == KindText || v.Kind == KindChars }
func (v Value) IsReference() bool { return v.Kind == KindReference }
func (v Value) IsBreaker() bool   { return v.Kind == KindBreaker }

func (v Value) AsBoolean() bool { return v.bits != 0 }

func (v Value) AsInteger() int32 { return int32(uint32(v.bits)) }

func (v Value) AsBinary() float64 {
	if v.Kind == KindInteger {
		return float64(v.AsInteger())
	}
	return math.Float64frombits(v.bits)
}

func (v Value) AsKey() uint16 { return uint16(v.bits) }

func (v Value) AsObject() *Object {
	o, _ := v.ref.(*Object)
	return o
}

func (v Value) AsReferenceSlot() *Value {
	s, _ := v.ref.(*Value)
	return s
}

func (v Value) BreakerCount() int { return int(int64(v.bits)) }

// Identical implements the `identical` op's strict-equality contract
// (spec.md §4.3): same type and same bits; NaN != NaN, +0 == -0.
func Identical(a, b Value) bool {
	if a.Kind != b.Kind {
		// Integer and Binary values of the same numeric magnitude are
		// the same type for script purposes (there's one Number type),
		// and a Text slice and a Chars buffer are both the string type.
		if a.IsNumber() && b.IsNumber() {
			return numericIdentical(a.AsBinary(), b.AsBinary())
		}
		if a.IsString() && b.IsString() {
			return ToGoString(a) == ToGoString(b)
		}
		return false
	}
	switch a.Kind {
	case KindNone, KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.AsBoolean() == b.AsBoolean()
	case KindInteger, KindBinary:
		return numericIdentical(a.AsBinary(), b.AsBinary())
	case KindKey:
		return a.AsKey() == b.AsKey()
	case KindText, KindChars:
		return ToGoString(a) == ToGoString(b)
	case KindObject:
		return a.AsObject() == b.AsObject()
	default:
		return false
	}
}

func numericIdentical(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return a == b
}
