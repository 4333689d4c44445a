package engine

import (
	"math"

	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/parser"
	"github.com/emberlang/ember/internal/text"
)

// compiler walks the parser's AST and emits the flat Op list the
// interpreter threads over (spec.md §4.2). The encoding is strictly
// pre-order: each construct is one head op followed by its operand
// subtrees, and the head's Width is back-patched to the subtree's total
// slot count once its children are emitted — the same back-patching
// wazeroir's compiler does for branch targets after a block's body is
// fully lowered.
type compiler struct {
	ctx    *Context
	strict bool
	ops    []Op

	// ctrl is the labeled-break depth stack (spec.md §4.2): one entry per
	// enclosing loop or switch, carrying whatever labels named it. break
	// and continue statements compile to a breaker level counted against
	// this stack.
	ctrl          []ctrlEntry
	pendingLabels []string

	// popResult makes expression statements discard their value through
	// opPop. It is off for the top-level program, whose last expression
	// statement's value is the eval result.
	popResult bool
}

type ctrlEntry struct {
	labels []string
	isLoop bool
}

// CompileProgram lowers a parsed program into a callable top-level
// Function whose environment is the global object. Compile-time errors
// (an unresolvable break label) surface the same way parse errors do.
func CompileProgram(ctx *Context, prog *parser.Program, strict bool) (fn *Function, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*errkit.EngineError); ok {
				fn, err = nil, e
				return
			}
			panic(r)
		}
	}()
	c := &compiler{ctx: ctx, strict: strict}
	c.hoist(prog.Body)
	for _, s := range prog.Body {
		c.stmt(s)
	}
	fn = &Function{Ops: c.ops, Strict: strict, Source: prog.Span()}
	ctx.Pool.Track(fn)
	return fn, nil
}

// RaiseFunction builds the single-op function a failed parse compiles to
// (spec.md §7: parser errors are reported in-band), whose only op throws
// e at the remembered source position when the host eventually runs it.
func RaiseFunction(ctx *Context, e *errkit.EngineError) *Function {
	fn := &Function{
		Ops: []Op{{
			Native: func(f *Frame, op *Op) Value { panic(e) },
			Text:   e.At,
			Width:  1,
		}},
		Source: e.At,
	}
	ctx.Pool.Track(fn)
	return fn
}

func (c *compiler) emit(native NativeOp, v Value, at text.Slice) int {
	c.ops = append(c.ops, Op{Native: native, Value: v, Text: at})
	return len(c.ops) - 1
}

// seal back-patches head's Width now that its subtree is fully emitted.
func (c *compiler) seal(head int) {
	c.ops[head].Width = len(c.ops) - head
}

// leaf emits a childless op, sealed immediately.
func (c *compiler) leaf(native NativeOp, v Value, at text.Slice) {
	c.seal(c.emit(native, v, at))
}

func internKey(name string) Value {
	return KeyValue(uint16(keys.Intern(name)))
}

func (c *compiler) fail(msg string, at text.Slice) {
	panic(&errkit.EngineError{Kind: errkit.Syntax, Message: msg, At: at})
}

// --- hoisting ---

// hoist emits the declaration prologue for one function (or program)
// body: every `var` and function-declaration name becomes an opDeclareVar
// so reads before the declaring statement see undefined rather than
// throwing, then each function declaration is bound eagerly — the
// "hoisted into the enclosing function environment" rule of spec.md §4.2.
func (c *compiler) hoist(stmts []parser.Node) {
	names, decls := collectHoisted(stmts)
	for _, name := range names {
		c.leaf(opDeclareVar, internKey(name), text.Slice{})
	}
	for _, d := range decls {
		head := c.emit(opSetIdentifier, internKey(d.Name), d.Span())
		c.leaf(opMakeFunction, c.functionTemplate(d.Fn).Value(), d.Span())
		c.seal(head)
	}
}

func collectHoisted(stmts []parser.Node) (vars []string, fns []*parser.FunctionDecl) {
	seen := map[string]bool{}
	addVar := func(name string) {
		if !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
	}
	var walk func(n parser.Node)
	walk = func(n parser.Node) {
		switch s := n.(type) {
		case *parser.VarStmt:
			for _, d := range s.Decls {
				addVar(d.Name)
			}
		case *parser.BlockStmt:
			for _, b := range s.Body {
				walk(b)
			}
		case *parser.IfStmt:
			walk(s.Then)
			if s.Else != nil {
				walk(s.Else)
			}
		case *parser.WhileStmt:
			walk(s.Body)
		case *parser.DoWhileStmt:
			walk(s.Body)
		case *parser.ForStmt:
			if s.Init != nil {
				walk(s.Init)
			}
			walk(s.Body)
		case *parser.ForInStmt:
			if s.DeclaresVar {
				addVar(s.Target)
			}
			walk(s.Body)
		case *parser.WithStmt:
			walk(s.Body)
		case *parser.SwitchStmt:
			for _, cs := range s.Cases {
				for _, b := range cs.Body {
					walk(b)
				}
			}
		case *parser.TryStmt:
			walk(s.Block)
			if s.HasCatch {
				walk(s.CatchBlock)
			}
			if s.HasFinally {
				walk(s.FinallyBlock)
			}
		case *parser.LabeledStmt:
			walk(s.Body)
		case *parser.FunctionDecl:
			addVar(s.Name)
			fns = append(fns, s)
		}
	}
	for _, s := range stmts {
		walk(s)
	}
	return vars, fns
}

// --- statements ---

func (c *compiler) takeLabels() []string {
	labels := c.pendingLabels
	c.pendingLabels = nil
	return labels
}

func (c *compiler) stmt(n parser.Node) {
	switch s := n.(type) {
	case *parser.BlockStmt:
		head := c.emit(opBlock, Integer(int32(len(s.Body))), s.Span())
		for _, b := range s.Body {
			c.stmt(b)
		}
		c.seal(head)

	case *parser.VarStmt:
		c.varStmt(s)

	case *parser.ExprStmt:
		if c.popResult {
			head := c.emit(opPop, None(), s.Span())
			c.expr(s.Expr)
			c.seal(head)
			return
		}
		c.expr(s.Expr)

	case *parser.EmptyStmt:
		c.leaf(opLiteral, Undefined(), s.Span())

	case *parser.IfStmt:
		head := c.emit(opIf, None(), s.Span())
		c.expr(s.Test)
		c.stmt(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		} else {
			c.leaf(opBlock, Integer(0), s.Span())
		}
		c.seal(head)

	case *parser.WhileStmt:
		c.pushLoop()
		head := c.emit(opWhile, None(), s.Span())
		c.expr(s.Test)
		c.stmt(s.Body)
		c.seal(head)
		c.popCtrl()

	case *parser.DoWhileStmt:
		c.pushLoop()
		head := c.emit(opDoWhile, None(), s.Span())
		c.stmt(s.Body)
		c.expr(s.Test)
		c.seal(head)
		c.popCtrl()

	case *parser.ForStmt:
		if c.tryIterateLoop(s) {
			return
		}
		c.pushLoop()
		head := c.emit(opFor, None(), s.Span())
		if s.Init != nil {
			c.stmt(s.Init)
		} else {
			c.leaf(opLiteral, Undefined(), s.Span())
		}
		if s.Test != nil {
			c.expr(s.Test)
		} else {
			c.leaf(opLiteral, Boolean(true), s.Span())
		}
		if s.Update != nil {
			c.expr(s.Update)
		} else {
			c.leaf(opLiteral, Undefined(), s.Span())
		}
		c.stmt(s.Body)
		c.seal(head)
		c.popCtrl()

	case *parser.ForInStmt:
		c.pushLoop()
		head := c.emit(opForIn, None(), s.Span())
		c.expr(s.Object)
		// The body is wrapped so each iteration first binds the current
		// key to the loop variable, then runs the user statement.
		body := c.emit(opBlock, Integer(2), s.Span())
		assign := c.emit(opSetIdentifier, internKey(s.Target), s.Span())
		c.leaf(opForInBindName, None(), s.Span())
		c.seal(assign)
		c.stmt(s.Body)
		c.seal(body)
		c.seal(head)
		c.popCtrl()

	case *parser.BreakStmt:
		levels, ok := c.breakerLevels(s.Label, false)
		if !ok {
			c.fail("break outside loop or switch", s.Span())
		}
		c.leaf(opBreak, Integer(int32(levels)), s.Span())

	case *parser.ContinueStmt:
		levels, ok := c.breakerLevels(s.Label, true)
		if !ok {
			c.fail("continue outside loop", s.Span())
		}
		c.leaf(opContinue, Integer(int32(levels)), s.Span())

	case *parser.ReturnStmt:
		if s.Value == nil {
			c.leaf(opReturn, Integer(0), s.Span())
			return
		}
		head := c.emit(opReturn, Integer(1), s.Span())
		c.expr(s.Value)
		c.seal(head)

	case *parser.WithStmt:
		head := c.emit(opWith, None(), s.Span())
		c.expr(s.Object)
		c.stmt(s.Body)
		c.seal(head)

	case *parser.SwitchStmt:
		labels := c.takeLabels()
		c.ctrl = append(c.ctrl, ctrlEntry{labels: labels})
		head := c.emit(opSwitch, Integer(int32(len(s.Cases))), s.Span())
		c.expr(s.Discriminant)
		for _, cs := range s.Cases {
			marker := Integer(1)
			if cs.IsDefault {
				marker = Integer(0)
			}
			c.leaf(opCaseHeader, marker, s.Span())
			if !cs.IsDefault {
				c.expr(cs.Test)
			}
			body := c.emit(opBlock, Integer(int32(len(cs.Body))), s.Span())
			for _, b := range cs.Body {
				c.stmt(b)
			}
			c.seal(body)
		}
		c.seal(head)
		c.popCtrl()

	case *parser.ThrowStmt:
		head := c.emit(opThrow, None(), s.Span())
		c.expr(s.Value)
		c.seal(head)

	case *parser.TryStmt:
		v := None()
		if s.HasCatch {
			v = internKey(s.CatchParam)
		}
		head := c.emit(opTry, v, s.Span())
		c.stmt(s.Block)
		if s.HasCatch {
			c.stmt(s.CatchBlock)
		} else {
			c.leaf(opBlock, Integer(0), s.Span())
		}
		if s.HasFinally {
			c.stmt(s.FinallyBlock)
		} else {
			c.leaf(opBlock, Integer(0), s.Span())
		}
		c.seal(head)

	case *parser.DebuggerStmt:
		c.leaf(opDebugger, None(), s.Span())

	case *parser.LabeledStmt:
		c.pendingLabels = append(c.pendingLabels, s.Label)
		c.stmt(s.Body)
		c.pendingLabels = nil

	case *parser.FunctionDecl:
		// Bound by the hoisting prologue; the declaration itself is inert
		// in statement position.
		c.leaf(opLiteral, Undefined(), s.Span())

	default:
		c.fail("unsupported statement", n.Span())
	}
}

// tryIterateLoop recognizes the integer counting loop spec.md §4.2's
// optimization pass targets — `for (init; i OP bound; i±=step)` with a
// relational test on a plain identifier and a constant small-integer
// step — and emits the specialized iterate*Ref op instead of the
// generic opFor. Returns false when the loop doesn't fit the shape.
func (c *compiler) tryIterateLoop(s *parser.ForStmt) bool {
	test, ok := s.Test.(*parser.BinaryExpr)
	if !ok {
		return false
	}
	native, ok := iterateNatives[test.Op]
	if !ok {
		return false
	}
	ident, ok := test.Left.(*parser.Ident)
	if !ok {
		return false
	}
	step, ok := iterateStep(s.Update, ident.Name)
	if !ok {
		return false
	}
	c.pushLoop()
	if s.Init != nil {
		head := c.emit(opBlock, Integer(2), s.Span())
		c.stmt(s.Init)
		c.iterateLoop(native, ident.Name, step, test.Right, s.Body, s.Span())
		c.seal(head)
	} else {
		c.iterateLoop(native, ident.Name, step, test.Right, s.Body, s.Span())
	}
	c.popCtrl()
	return true
}

func (c *compiler) iterateLoop(native NativeOp, name string, step int8, bound, body parser.Node, at text.Slice) {
	head := c.emit(native, packIterate(keys.Intern(name), step), at)
	c.expr(bound)
	c.stmt(body)
	c.seal(head)
}

// iterateStep extracts the constant per-iteration step from the loop's
// update clause: ++/-- of the counter, or counter += / -= of a small
// positive integer literal.
func iterateStep(update parser.Node, name string) (int8, bool) {
	switch u := update.(type) {
	case *parser.UpdateExpr:
		ident, ok := u.Operand.(*parser.Ident)
		if !ok || ident.Name != name {
			return 0, false
		}
		if u.Op == "++" {
			return 1, true
		}
		return -1, true
	case *parser.AssignExpr:
		ident, ok := u.Target.(*parser.Ident)
		if !ok || ident.Name != name {
			return 0, false
		}
		lit, ok := u.Value.(*parser.NumberLit)
		if !ok {
			return 0, false
		}
		n := lit.Value
		if n != math.Trunc(n) || n < 1 || n > 127 {
			return 0, false
		}
		switch u.Op {
		case "+=":
			return int8(n), true
		case "-=":
			return int8(-n), true
		}
	}
	return 0, false
}

func (c *compiler) pushLoop() {
	c.ctrl = append(c.ctrl, ctrlEntry{labels: c.takeLabels(), isLoop: true})
}

func (c *compiler) popCtrl() {
	c.ctrl = c.ctrl[:len(c.ctrl)-1]
}

// breakerLevels resolves a break/continue to the unwind count its
// breaker Value carries (spec.md §4.2's labeled-break depth stack).
// Switches never consume a continue breaker at run time, so they are
// skipped without counting when resolving one.
func (c *compiler) breakerLevels(label string, isContinue bool) (int, bool) {
	levels := 0
	for i := len(c.ctrl) - 1; i >= 0; i-- {
		e := c.ctrl[i]
		if isContinue && !e.isLoop {
			continue
		}
		if label == "" || containsLabel(e.labels, label) {
			return levels, true
		}
		levels++
	}
	return 0, false
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func (c *compiler) varStmt(s *parser.VarStmt) {
	var inits []parser.VarDecl
	for _, d := range s.Decls {
		if d.Init != nil {
			inits = append(inits, d)
		}
	}
	switch len(inits) {
	case 0:
		c.leaf(opLiteral, Undefined(), s.Span())
	case 1:
		c.varInit(inits[0], s.Span())
	default:
		head := c.emit(opBlock, Integer(int32(len(inits))), s.Span())
		for _, d := range inits {
			c.varInit(d, s.Span())
		}
		c.seal(head)
	}
}

func (c *compiler) varInit(d parser.VarDecl, at text.Slice) {
	head := c.emit(opSetIdentifier, internKey(d.Name), at)
	c.expr(d.Init)
	c.seal(head)
}

// --- expressions ---

var binaryNatives = map[string]NativeOp{
	"+": opAdd, "-": opSub, "*": opMul, "/": opDiv, "%": opMod,
	"==": opEqual, "!=": opNotEqual, "===": opIdentical, "!==": opNotIdentical,
	"<": opLess, ">": opGreater, "<=": opLessEqual, ">=": opGreaterEqual,
	"&": opBitAnd, "|": opBitOr, "^": opBitXor,
	"<<": opShl, ">>": opShr, ">>>": opUShr,
	"in": opIn, "instanceof": opInstanceOf,
}

var compoundIdentNatives = map[string]NativeOp{
	"+=": opAddAssignIdentifier, "-=": opSubAssignIdentifier,
	"*=": opMulAssignIdentifier, "/=": opDivAssignIdentifier,
	"%=": opModAssignIdentifier, "<<=": opShlAssignIdentifier,
	">>=": opShrAssignIdentifier, ">>>=": opUShrAssignIdentifier,
	"&=": opBitAndAssignIdentifier, "|=": opBitOrAssignIdentifier,
	"^=": opBitXorAssignIdentifier,
}

var compoundPropNatives = map[string]NativeOp{
	"+=": opAddAssignProperty, "-=": opSubAssignProperty,
	"*=": opMulAssignProperty, "/=": opDivAssignProperty,
	"%=": opModAssignProperty, "<<=": opShlAssignProperty,
	">>=": opShrAssignProperty, ">>>=": opUShrAssignProperty,
	"&=": opBitAndAssignProperty, "|=": opBitOrAssignProperty,
	"^=": opBitXorAssignProperty,
}

func (c *compiler) expr(n parser.Node) {
	switch e := n.(type) {
	case *parser.Ident:
		c.leaf(opGetIdentifier, internKey(e.Name), e.Span())

	case *parser.ThisExpr:
		c.leaf(opThis, None(), e.Span())

	case *parser.NullLit:
		c.leaf(opLiteral, Null(), e.Span())

	case *parser.BoolLit:
		c.leaf(opLiteral, Boolean(e.Value), e.Span())

	case *parser.NumberLit:
		c.leaf(opLiteral, Number(e.Value), e.Span())

	case *parser.StringLit:
		c.leaf(opLiteral, c.stringLitValue(e), e.Span())

	case *parser.RegexLit:
		c.leaf(opRegexLiteral, CharsValue(trackedChars(c.ctx, e.Pattern+"\x00"+e.Flags)), e.Span())

	case *parser.ArrayLit:
		head := c.emit(opArrayLiteral, Integer(int32(len(e.Elements))), e.Span())
		for _, el := range e.Elements {
			if el == nil {
				c.leaf(opHole, None(), e.Span())
			} else {
				c.expr(el)
			}
		}
		c.seal(head)

	case *parser.ObjectLit:
		head := c.emit(opObjectLiteral, Integer(int32(len(e.Props))), e.Span())
		for _, prop := range e.Props {
			c.propertyKey(prop.Key)
			c.expr(prop.Value)
		}
		c.seal(head)

	case *parser.FunctionExpr:
		c.leaf(opMakeFunction, c.functionTemplate(e).Value(), e.Span())

	case *parser.UnaryExpr:
		c.unary(e)

	case *parser.UpdateExpr:
		c.update(e)

	case *parser.BinaryExpr:
		native, ok := binaryNatives[e.Op]
		if !ok {
			c.fail("unsupported operator "+e.Op, e.Span())
		}
		head := c.emit(native, None(), e.Span())
		c.expr(e.Left)
		c.expr(e.Right)
		c.seal(head)

	case *parser.LogicalExpr:
		native := opLogicalAnd
		if e.Op == "||" {
			native = opLogicalOr
		}
		head := c.emit(native, None(), e.Span())
		c.expr(e.Left)
		c.expr(e.Right)
		c.seal(head)

	case *parser.ConditionalExpr:
		head := c.emit(opIf, None(), e.Span())
		c.expr(e.Test)
		c.expr(e.Then)
		c.expr(e.Else)
		c.seal(head)

	case *parser.AssignExpr:
		c.assign(e)

	case *parser.MemberExpr:
		head := c.emit(opGetProperty, c.memberKeyValue(e), e.Span())
		c.expr(e.Object)
		if e.Computed {
			c.expr(e.Property)
		}
		c.seal(head)

	case *parser.CallExpr:
		c.call(e)

	case *parser.NewExpr:
		head := c.emit(opNew, Integer(int32(len(e.Args))), e.Span())
		c.expr(e.Callee)
		for _, a := range e.Args {
			c.expr(a)
		}
		c.seal(head)

	case *parser.SequenceExpr:
		head := c.emit(opComma, Integer(int32(len(e.Exprs))), e.Span())
		for _, sub := range e.Exprs {
			c.expr(sub)
		}
		c.seal(head)

	default:
		c.fail("unsupported expression", n.Span())
	}
}

func (c *compiler) stringLitValue(lit *parser.StringLit) Value {
	if lit.IsRaw {
		// Strip the surrounding quotes; the literal's bytes are served
		// straight from the source buffer (spec.md §4.1).
		raw := lit.Raw
		return TextValue(text.NewSlice(raw.Input, raw.Offset+1, raw.Length-2))
	}
	ch := text.NewChars(lit.Bytes)
	c.ctx.Pool.Track(ch)
	return CharsValue(ch)
}

// propertyKey emits the key op of one object-literal property; all three
// source forms (identifier, string, number) become a constant the
// handler coerces with the same rule as a computed bracket key.
func (c *compiler) propertyKey(key parser.Node) {
	switch k := key.(type) {
	case *parser.Ident:
		c.leaf(opLiteral, internKey(k.Name), k.Span())
	case *parser.StringLit:
		c.leaf(opLiteral, c.stringLitValue(k), k.Span())
	case *parser.NumberLit:
		c.leaf(opLiteral, Number(k.Value), k.Span())
	default:
		c.fail("unsupported property key", key.Span())
	}
}

// memberKeyValue returns the op.Value for a member access: the interned
// key for dotted access, or None to signal the key is the next op.
func (c *compiler) memberKeyValue(m *parser.MemberExpr) Value {
	if m.Computed {
		return None()
	}
	return internKey(m.Property.(*parser.Ident).Name)
}

func (c *compiler) functionTemplate(fe *parser.FunctionExpr) *Object {
	sub := &compiler{ctx: c.ctx, strict: c.strict, popResult: true}
	sub.hoist(fe.Body.Body)
	for _, s := range fe.Body.Body {
		sub.stmt(s)
	}
	fn := &Function{
		Name:          fe.Name,
		Params:        fe.Params,
		Ops:           sub.ops,
		NeedHeap:      fe.Body.NeedHeap,
		NeedArguments: fe.Body.NeedArguments,
		Strict:        c.strict,
		Source:        fe.Span(),
	}
	c.ctx.Pool.Track(fn)
	box := NewObjectKind(c.ctx.Pool, ObjectFunction, c.ctx.Protos.Function)
	box.Extra = fn
	return box
}

func (c *compiler) unary(e *parser.UnaryExpr) {
	switch e.Op {
	case "delete":
		switch target := e.Operand.(type) {
		case *parser.MemberExpr:
			head := c.emit(opDeleteProperty, c.memberKeyValue(target), e.Span())
			c.expr(target.Object)
			if target.Computed {
				c.expr(target.Property)
			}
			c.seal(head)
		case *parser.Ident:
			// Deleting an unqualified name targets the global object:
			// declared globals carry no configurable flag and refuse,
			// implicit ones delete cleanly.
			head := c.emit(opDeleteProperty, internKey(target.Name), e.Span())
			c.leaf(opLiteral, c.ctx.Global.Value(), e.Span())
			c.seal(head)
		default:
			// `delete <non-reference>` evaluates the operand and yields true.
			head := c.emit(opComma, Integer(2), e.Span())
			c.expr(e.Operand)
			c.leaf(opLiteral, Boolean(true), e.Span())
			c.seal(head)
		}
	case "void":
		head := c.emit(opVoid, None(), e.Span())
		c.expr(e.Operand)
		c.seal(head)
	case "typeof":
		head := c.emit(opTypeof, None(), e.Span())
		if ident, ok := e.Operand.(*parser.Ident); ok {
			c.leaf(opGetIdentifierSafe, internKey(ident.Name), ident.Span())
		} else {
			c.expr(e.Operand)
		}
		c.seal(head)
	case "+":
		head := c.emit(opPlus, None(), e.Span())
		c.expr(e.Operand)
		c.seal(head)
	case "-":
		head := c.emit(opNeg, None(), e.Span())
		c.expr(e.Operand)
		c.seal(head)
	case "~":
		head := c.emit(opBitNot, None(), e.Span())
		c.expr(e.Operand)
		c.seal(head)
	case "!":
		head := c.emit(opNot, None(), e.Span())
		c.expr(e.Operand)
		c.seal(head)
	default:
		c.fail("unsupported unary operator "+e.Op, e.Span())
	}
}

func (c *compiler) update(e *parser.UpdateExpr) {
	inc := e.Op == "++"
	switch target := e.Operand.(type) {
	case *parser.Ident:
		var native NativeOp
		switch {
		case inc && e.Prefix:
			native = opPreIncIdentifier
		case inc:
			native = opPostIncIdentifier
		case e.Prefix:
			native = opPreDecIdentifier
		default:
			native = opPostDecIdentifier
		}
		c.leaf(native, internKey(target.Name), e.Span())
	case *parser.MemberExpr:
		var native NativeOp
		switch {
		case inc && e.Prefix:
			native = opPreIncProperty
		case inc:
			native = opPostIncProperty
		case e.Prefix:
			native = opPreDecProperty
		default:
			native = opPostDecProperty
		}
		head := c.emit(native, c.memberKeyValue(target), e.Span())
		c.expr(target.Object)
		if target.Computed {
			c.expr(target.Property)
		}
		c.seal(head)
	default:
		c.fail("invalid increment/decrement target", e.Span())
	}
}

func (c *compiler) assign(e *parser.AssignExpr) {
	if e.Op == "=" {
		switch target := e.Target.(type) {
		case *parser.Ident:
			head := c.emit(opSetIdentifier, internKey(target.Name), e.Span())
			c.expr(e.Value)
			c.seal(head)
		case *parser.MemberExpr:
			head := c.emit(opSetProperty, c.memberKeyValue(target), e.Span())
			c.expr(target.Object)
			if target.Computed {
				c.expr(target.Property)
			}
			c.expr(e.Value)
			c.seal(head)
		default:
			c.fail("invalid assignment target", e.Span())
		}
		return
	}
	switch target := e.Target.(type) {
	case *parser.Ident:
		native, ok := compoundIdentNatives[e.Op]
		if !ok {
			c.fail("unsupported operator "+e.Op, e.Span())
		}
		head := c.emit(native, internKey(target.Name), e.Span())
		c.expr(e.Value)
		c.seal(head)
	case *parser.MemberExpr:
		native, ok := compoundPropNatives[e.Op]
		if !ok {
			c.fail("unsupported operator "+e.Op, e.Span())
		}
		head := c.emit(native, c.memberKeyValue(target), e.Span())
		c.expr(target.Object)
		if target.Computed {
			c.expr(target.Property)
		}
		c.expr(e.Value)
		c.seal(head)
	default:
		c.fail("invalid assignment target", e.Span())
	}
}

// call lowers a call expression. A member-expression callee goes through
// opCallMethod so the receiver is evaluated once and doubles as `this`;
// a bare callee gets the sloppy-mode global (or strict-mode undefined)
// receiver compiled in as a constant.
func (c *compiler) call(e *parser.CallExpr) {
	if m, ok := e.Callee.(*parser.MemberExpr); ok {
		head := c.emit(opCallMethod, Integer(int32(len(e.Args))), e.Span())
		c.expr(m.Object)
		if m.Computed {
			c.expr(m.Property)
		} else {
			c.leaf(opLiteral, internKey(m.Property.(*parser.Ident).Name), m.Span())
		}
		for _, a := range e.Args {
			c.expr(a)
		}
		c.seal(head)
		return
	}
	head := c.emit(opCall, Integer(int32(len(e.Args))), e.Span())
	c.expr(e.Callee)
	if c.strict {
		c.leaf(opLiteral, Undefined(), e.Span())
	} else {
		c.leaf(opLiteral, c.ctx.Global.Value(), e.Span())
	}
	for _, a := range e.Args {
		c.expr(a)
	}
	c.seal(head)
}
