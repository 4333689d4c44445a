package engine

import "github.com/emberlang/ember/internal/text"

// Native is a host-implemented function body, wired to a Function the
// same way the teacher's api.GoModuleFunction wraps a Go func as a
// callable module export.
type Native func(ctx *Context, this Value, args []Value) (Value, error)

// Function is the callable payload behind an ObjectFunction Object. A
// script function owns its own flat Op list (produced once by the
// parser) and a template of the lexical environment it closes over;
// calling it allocates a fresh per-call Frame rather than mutating
// shared state, matching the teacher's separation between a compiled
// FunctionInstance (shared, immutable) and a per-call callEngine frame.
type Function struct {
	Name   string
	Params []string
	Ops    []Op

	// Closure is the environment Object captured at function-creation
	// time; a call's own Environment chains to it via Prototype so free
	// variable lookups fall through to the defining scope.
	Closure *Object

	NeedHeap      bool // a nested closure captures a local, forcing heap allocation
	NeedArguments bool // the body references `arguments`
	Strict        bool
	UseBoundThis  bool
	BoundThis     Value

	Native Native // non-nil for a host-implemented builtin; Ops is unused

	Source text.Slice

	marked bool
	pinned bool
}

func (f *Function) Mark() {
	if f.marked {
		return
	}
	f.marked = true
	if f.Closure != nil {
		f.Closure.Mark()
	}
	if f.UseBoundThis {
		markValue(f.BoundThis)
	}
	for _, op := range f.Ops {
		markValue(op.Value)
	}
}

func (f *Function) Marked() bool { return f.marked }
func (f *Function) ClearMark()   { f.marked = false }
func (f *Function) Pinned() bool { return f.pinned }
