package engine

import "github.com/emberlang/ember/internal/text"

// NativeOp is one threaded-interpreter instruction body. Unlike a
// tree-walking evaluator, a NativeOp does not receive its operands as
// arguments: it pulls them itself by calling f.Next() as many times as
// its arity requires, which recursively runs whatever op sits next in
// the flat list. This is spec.md §4.2's "operation list" dispatch,
// grounded on the teacher's interpreter.interpreterOp loop — the
// difference is the teacher's ops are an explicit program counter over
// a flat slice with no recursion, while a NativeOp may recurse several
// frames deep fetching nested operands; both still walk one flat Op
// slice with a single shared cursor.
type NativeOp func(f *Frame, op *Op) Value

// Op is one slot in a Function's flat body: a native handler plus
// whatever literal payload it was compiled with (a constant Value, a
// property Key, a jump target encoded as an Integer Value) and the
// source span for diagnostics.
type Op struct {
	Native NativeOp
	Value  Value
	Text   text.Slice

	// Width is the number of flat slots this op's entire subtree
	// occupies, including itself (ops[i : i+ops[i].Width]). Dispatch
	// itself never needs it — recursive Next() calls naturally advance
	// the cursor past exactly what they consumed — but a control
	// construct that must skip a branch *without* running it (the
	// untaken side of an if, an empty for-in) has no other way to know
	// how far to jump. The parser fills this in once a subtree's ops
	// are fully emitted, the same bookkeeping wazeroir's compiler does
	// when back-patching branch targets after emitting a block's body.
	Width int
}
