package engine

import "github.com/emberlang/ember/internal/keys"

// Frame is one call's execution state: the threaded cursor over its
// Function's Op list, the lexical environment chain, and the binding
// for `this`/`arguments`. A fresh Frame is allocated per call rather
// than reused, grounded on the teacher's callEngine allocating a new
// callFrame per invocation rather than pooling them — simplicity over
// an allocator optimization the teacher itself doesn't take either.
type Frame struct {
	Ctx  *Context
	Fn   *Function
	Ops  []Op
	pc   int

	Env       *Object
	This      Value
	Arguments *Object
	Parent    *Frame
	Strict    bool

	forInBindingName string
	withTarget       *Object
}

// NewFrame builds the Frame for one call to fn. env is the freshly
// allocated (or, for a non-heap function, stack-simulated) lexical
// scope object, already chained to fn.Closure.
func NewFrame(ctx *Context, fn *Function, env *Object, this Value, parent *Frame) *Frame {
	return &Frame{
		Ctx:    ctx,
		Fn:     fn,
		Ops:    fn.Ops,
		Env:    env,
		This:   this,
		Parent: parent,
		Strict: fn.Strict,
	}
}

// Next executes the op at the current cursor and advances past it. Op
// handlers call this to pull their own operands; the flat op list plus
// this single shared cursor is the whole of the interpreter's dispatch
// mechanism (spec.md §4.2).
func (f *Frame) Next() Value {
	op := &f.Ops[f.pc]
	f.pc++
	return op.Native(f, op)
}

// HasMore reports whether the cursor has reached the end of the op
// list, used by a block handler to know when to stop pulling statements.
func (f *Frame) HasMore() bool { return f.pc < len(f.Ops) }

// Jump sets the cursor directly, used by if/loop/switch handlers whose
// compiled target is an absolute index into the same Op slice.
func (f *Frame) Jump(pc int) { f.pc = pc }

// Skip advances the cursor past the subtree starting at the current
// position without running any of it, using that op's precomputed
// Width. Used to skip an untaken if/else branch, a for-in body whose
// target is not an object, or a loop body once the loop has finished.
func (f *Frame) Skip() {
	w := f.Ops[f.pc].Width
	if w <= 0 {
		w = 1
	}
	f.pc += w
}

func (f *Frame) PC() int { return f.pc }

// after returns the position just past the subtree whose head op sits at
// pc, the sibling-hop a loop/try handler needs to find its next clause.
func (f *Frame) after(pc int) int {
	w := f.Ops[pc].Width
	if w <= 0 {
		w = 1
	}
	return pc + w
}

// LookupEnv resolves an identifier by Key up the environment chain,
// returning the slot that owns it (for read or write) and whether it
// was found at all (an unresolved identifier is a ReferenceError at the
// op-handler layer, not here).
func (f *Frame) LookupEnv(k keys.Key) (*propSlot, *Object) {
	if f.withTarget != nil {
		if slot, owner := f.withTarget.Resolve(k); slot != nil {
			return slot, owner
		}
	}
	return f.Env.Resolve(k)
}
