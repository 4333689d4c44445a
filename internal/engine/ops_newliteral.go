package engine

import (
	"strings"

	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/regexp"
)

// opArrayLiteral builds a fresh Array object each time it runs — unlike
// a function literal's template/clone split, an array literal has no
// shared compile-time state to clone, so the parser just emits "make
// this many elements" and the handler allocates. op.Value's Integer
// payload is the element count, including elisions; an elided element
// compiles to opHole, which this handler recognizes by IsNone() and
// leaves as a sparse gap rather than writing Undefined into it.
func opArrayLiteral(f *Frame, op *Op) Value {
	count := int(op.Value.AsInteger())
	o := NewObjectKind(f.Ctx.Pool, ObjectArray, f.Ctx.Protos.Array)
	o.Resize(uint32(count))
	for i := 0; i < count; i++ {
		v := f.Next()
		if !v.IsNone() {
			o.SetElement(uint32(i), v)
		}
	}
	return o.Value()
}

// opHole is an array literal elision (`[1, , 3]`'s middle slot): it
// contributes nothing, signalled to opArrayLiteral via the None Value
// rather than Undefined so the slot stays a genuine hole.
func opHole(f *Frame, op *Op) Value { return None() }

// opObjectLiteral builds a fresh Plain object from count key/value
// pairs, each compiled as two consecutive ops (key expression, value
// expression) regardless of whether the source key was an identifier, a
// string, or a numeric literal — ToStringValue normalizes all three to
// the same property-name coercion a bracket-access key would get.
func opObjectLiteral(f *Frame, op *Op) Value {
	count := int(op.Value.AsInteger())
	o := NewObject(f.Ctx.Pool, f.Ctx.Protos.Object)
	for i := 0; i < count; i++ {
		keyVal := f.Next()
		val := f.Next()
		k := keys.Intern(f.ToStringValue(keyVal))
		o.DefineOwn(k, val, defaultDataFlags)
	}
	return o.Value()
}

// opRegexLiteral builds a fresh RegExp object on every evaluation, per
// spec.md §4.1's regex-literal slicing: op.Value carries the lexer's
// "pattern\x00flags" encoding unchanged, so the pattern is only ever
// compiled once at parse time into that string and re-parsed into a
// *regexp.Regexp here — evaluating a regex literal twice yields two
// distinct RegExp objects, each with its own lastIndex.
func opRegexLiteral(f *Frame, op *Op) Value {
	raw := ToGoString(op.Value)
	pattern, flags, _ := strings.Cut(raw, "\x00")
	re, err := regexp.New(pattern, flags)
	if err != nil {
		panic(&errkit.EngineError{Kind: errkit.Syntax, Message: err.Error(), At: op.Text})
	}
	o := NewObjectKind(f.Ctx.Pool, ObjectRegExp, f.Ctx.Protos.RegExp)
	o.Extra = re
	o.DefineOwn(keys.Intern("source"), charsValueFromGoString(f, pattern), 0)
	o.DefineOwn(keys.Intern("global"), Boolean(re.Global), 0)
	o.DefineOwn(keys.Intern("lastIndex"), Integer(0), flagWritable)
	return o.Value()
}
