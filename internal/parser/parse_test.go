package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/text"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseProgram(text.NewInput("test.js", []byte(src)), false)
	require.NoError(t, err)
	return prog
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	_, err := ParseProgram(text.NewInput("test.js", []byte(src)), false)
	require.Error(t, err)
	return err
}

func TestPrecedenceLadder(t *testing.T) {
	prog := parse(t, "1 + 2 * 3;")
	stmt := prog.Body[0].(*ExprStmt)
	add := stmt.Expr.(*BinaryExpr)
	require.Equal(t, "+", add.Op)
	mul := add.Right.(*BinaryExpr)
	require.Equal(t, "*", mul.Op)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	prog := parse(t, "a = b = 1;")
	outer := prog.Body[0].(*ExprStmt).Expr.(*AssignExpr)
	require.Equal(t, "a", outer.Target.(*Ident).Name)
	inner := outer.Value.(*AssignExpr)
	require.Equal(t, "b", inner.Target.(*Ident).Name)
}

func TestNewCallMemberChain(t *testing.T) {
	// new X(1).m(2) parses as a call on a member of the new-expression.
	prog := parse(t, "new X(1).m(2);")
	call := prog.Body[0].(*ExprStmt).Expr.(*CallExpr)
	member := call.Callee.(*MemberExpr)
	require.False(t, member.Computed)
	_, isNew := member.Object.(*NewExpr)
	require.True(t, isNew)
}

func TestVarDeclarationList(t *testing.T) {
	prog := parse(t, "var a = 1, b, c = 3;")
	vs := prog.Body[0].(*VarStmt)
	require.Len(t, vs.Decls, 3)
	require.Equal(t, "b", vs.Decls[1].Name)
	require.Nil(t, vs.Decls[1].Init)
}

func TestForInVersusClassicFor(t *testing.T) {
	prog := parse(t, "for (var k in o) ; for (var i = 0; i < 3; i++) ;")
	_, isForIn := prog.Body[0].(*ForInStmt)
	require.True(t, isForIn)
	_, isFor := prog.Body[1].(*ForStmt)
	require.True(t, isFor)
}

func TestInSuppressedInForInit(t *testing.T) {
	// `a in b` in the init slot reads as a for-in header, never as the
	// relational `in` operator.
	prog := parse(t, "for (a in b) ;")
	_, isForIn := prog.Body[0].(*ForInStmt)
	require.True(t, isForIn)

	// Outside that slot `in` is an ordinary relational operator.
	prog = parse(t, "x = 'a' in o;")
	bin := prog.Body[0].(*ExprStmt).Expr.(*AssignExpr).Value.(*BinaryExpr)
	require.Equal(t, "in", bin.Op)
}

func TestLabeledStatement(t *testing.T) {
	prog := parse(t, "loop: while (true) break loop;")
	labeled := prog.Body[0].(*LabeledStmt)
	require.Equal(t, "loop", labeled.Label)
	w := labeled.Body.(*WhileStmt)
	require.Equal(t, "loop", w.Body.(*BreakStmt).Label)
}

func TestTryRequiresCatchOrFinally(t *testing.T) {
	parseErr(t, "try { }")
	prog := parse(t, "try { } finally { }")
	ts := prog.Body[0].(*TryStmt)
	require.False(t, ts.HasCatch)
	require.True(t, ts.HasFinally)
}

func TestWithRejectedInStrictMode(t *testing.T) {
	_, err := ParseProgram(text.NewInput("test.js", []byte("with (o) { }")), true)
	require.Error(t, err)
}

func TestFunctionScopeFlags(t *testing.T) {
	prog := parse(t, "var f = function(){ return arguments.length; };")
	fn := prog.Body[0].(*VarStmt).Decls[0].Init.(*FunctionExpr)
	require.True(t, fn.Body.NeedArguments)
	require.False(t, fn.Body.NeedHeap)

	prog = parse(t, "var g = function(){ return function(){}; };")
	fn = prog.Body[0].(*VarStmt).Decls[0].Init.(*FunctionExpr)
	require.True(t, fn.Body.NeedHeap)
}

func TestFunctionDeclarationRequiresName(t *testing.T) {
	parseErr(t, "function () { }")
}

func TestInvalidAssignmentTarget(t *testing.T) {
	parseErr(t, "1 = 2;")
	parseErr(t, "a + b = 2;")
}

func TestSwitchCases(t *testing.T) {
	prog := parse(t, "switch (x) { case 1: a(); case 2: default: b(); }")
	sw := prog.Body[0].(*SwitchStmt)
	require.Len(t, sw.Cases, 3)
	require.False(t, sw.Cases[0].IsDefault)
	require.Empty(t, sw.Cases[1].Body)
	require.True(t, sw.Cases[2].IsDefault)
}

func TestObjectLiteralKeyForms(t *testing.T) {
	prog := parse(t, "o = {a: 1, 'b': 2, 3: 4};")
	lit := prog.Body[0].(*ExprStmt).Expr.(*AssignExpr).Value.(*ObjectLit)
	require.Len(t, lit.Props, 3)
	_, isIdent := lit.Props[0].Key.(*Ident)
	require.True(t, isIdent)
	_, isStr := lit.Props[1].Key.(*StringLit)
	require.True(t, isStr)
	_, isNum := lit.Props[2].Key.(*NumberLit)
	require.True(t, isNum)
}

func TestArrayElision(t *testing.T) {
	prog := parse(t, "a = [1, , 3];")
	lit := prog.Body[0].(*ExprStmt).Expr.(*AssignExpr).Value.(*ArrayLit)
	require.Len(t, lit.Elements, 3)
	require.Nil(t, lit.Elements[1])
}

func TestSemicolonInsertionAtLineBreak(t *testing.T) {
	prog := parse(t, "var a = 1\nvar b = 2")
	require.Len(t, prog.Body, 2)
}

func TestSemicolonInsertionBeforeBrace(t *testing.T) {
	prog := parse(t, "function f(){ return 1 }")
	fn := prog.Body[0].(*FunctionDecl)
	require.Len(t, fn.Fn.Body.Body, 1)
}

func TestMissingSemicolonOnOneLineIsError(t *testing.T) {
	parseErr(t, "var a = 1 var b = 2")
}

func TestRestrictedReturn(t *testing.T) {
	prog := parse(t, "function f(){ return\n42 }")
	body := prog.Body[0].(*FunctionDecl).Fn.Body.Body
	require.Len(t, body, 2)
	require.Nil(t, body[0].(*ReturnStmt).Value)
}

func TestConditionalExpressionParses(t *testing.T) {
	prog := parse(t, "x = a ? b : c;")
	cond := prog.Body[0].(*ExprStmt).Expr.(*AssignExpr).Value.(*ConditionalExpr)
	require.Equal(t, "b", cond.Then.(*Ident).Name)
	require.Equal(t, "c", cond.Else.(*Ident).Name)
}

func TestSequenceExpression(t *testing.T) {
	prog := parse(t, "x = (1, 2, 3);")
	seq := prog.Body[0].(*ExprStmt).Expr.(*AssignExpr).Value.(*SequenceExpr)
	require.Len(t, seq.Exprs, 3)
}
