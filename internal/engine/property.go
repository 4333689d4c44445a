package engine

import "github.com/emberlang/ember/internal/keys"

// propFlags are the per-property attribute bits spec.md §4.4 describes:
// writable/enumerable/configurable plus two engine-internal bits
// (accessor pairs, and hidden properties that never appear to script,
// such as a bound function's target).
type propFlags uint8

const (
	flagWritable propFlags = 1 << iota
	flagEnumerable
	flagConfigurable
	flagAccessor
	flagHidden
)

// defaultDataFlags is what a plain script-assigned property gets:
// writable, enumerable, configurable, matching an ordinary assignment's
// semantics in spec.md §4.3.
const defaultDataFlags = flagWritable | flagEnumerable | flagConfigurable

// propSlot is one property: either a data slot (Value) or an accessor
// pair (getter/setter, either of which may be Undefined).
type propSlot struct {
	key   keys.Key
	value Value
	getter,
	setter Value
	flags propFlags
}

func (p *propSlot) isAccessor() bool    { return p.flags&flagAccessor != 0 }
func (p *propSlot) writable() bool      { return p.flags&flagWritable != 0 }
func (p *propSlot) enumerable() bool    { return p.flags&flagEnumerable != 0 }
func (p *propSlot) configurable() bool  { return p.flags&flagConfigurable != 0 }
func (p *propSlot) hidden() bool        { return p.flags&flagHidden != 0 }

func (p *propSlot) setWritable(b bool)     { p.setFlag(flagWritable, b) }
func (p *propSlot) setEnumerable(b bool)   { p.setFlag(flagEnumerable, b) }
func (p *propSlot) setConfigurable(b bool) { p.setFlag(flagConfigurable, b) }

func (p *propSlot) setFlag(f propFlags, on bool) {
	if on {
		p.flags |= f
	} else {
		p.flags &^= f
	}
}
