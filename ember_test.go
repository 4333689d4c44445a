package ember

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/engine"
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/text"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	ctx := context.Background()
	rt := NewRuntime(ctx, Config{})
	t.Cleanup(func() { rt.Close(ctx) })
	return rt
}

func input(src string) *text.Input {
	return text.NewInput("test.js", []byte(src))
}

func TestEvalReturnsLastStatementValue(t *testing.T) {
	rt := newTestRuntime(t)
	v, err := rt.Eval(context.Background(), input("var a = 20; a + 22"))
	require.NoError(t, err)
	require.Equal(t, int32(42), v.AsInteger())
}

func TestEvalCoerceResultToString(t *testing.T) {
	rt := newTestRuntime(t)
	v, err := rt.Eval(context.Background(), input("[1,2,3]"), WithCoerceResultToString())
	require.NoError(t, err)
	require.Equal(t, "1,2,3", engine.ToGoString(v))
}

func TestEvalCoerceResultToPrimitive(t *testing.T) {
	rt := newTestRuntime(t)
	v, err := rt.Eval(context.Background(), input("({valueOf: function(){ return 9; }})"), WithCoerceResultToPrimitive())
	require.NoError(t, err)
	require.Equal(t, int32(9), v.AsInteger())
}

func TestEvalWithGlobalThis(t *testing.T) {
	rt := newTestRuntime(t)
	v, err := rt.Eval(context.Background(), input("this === undefined"), WithGlobalThis())
	require.NoError(t, err)
	require.False(t, v.AsBoolean())
}

func TestEvalStrictMode(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.Eval(context.Background(), input("undeclared = 1"), WithStrictMode())
	var ee *errkit.EngineError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, errkit.Reference, ee.Kind)
}

func TestEvalSyntaxErrorIsInBand(t *testing.T) {
	rt := newTestRuntime(t)
	v, err := rt.Eval(context.Background(), input("var = ;"))
	var ee *errkit.EngineError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, errkit.Syntax, ee.Kind)
	// The result register holds the raised error value.
	require.True(t, v.IsObject())
}

func TestUncaughtThrowCrossesBoundary(t *testing.T) {
	rt := newTestRuntime(t)
	v, err := rt.Eval(context.Background(), input("throw 'kaboom'"))
	require.Error(t, err)
	require.Equal(t, "kaboom", engine.ToGoString(v))
}

func TestInstallFuncCallableFromScript(t *testing.T) {
	rt := newTestRuntime(t)
	var got string
	rt.InstallFunc("emit", func(ctx *engine.Context, this engine.Value, args []engine.Value) (engine.Value, error) {
		got = engine.ToGoString(args[0])
		return engine.Integer(7), nil
	})
	v, err := rt.Eval(context.Background(), input("emit('hi') + 1"))
	require.NoError(t, err)
	require.Equal(t, "hi", got)
	require.Equal(t, int32(8), v.AsInteger())
}

func TestInstallValue(t *testing.T) {
	rt := newTestRuntime(t)
	rt.Install("answer", engine.Integer(42))
	v, err := rt.Eval(context.Background(), input("answer"))
	require.NoError(t, err)
	require.Equal(t, int32(42), v.AsInteger())
}

func TestCompiledProgramSurvivesGC(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t)
	prog, err := rt.CompileModule(ctx, input("var n = (n || 0) + 1; n"))
	require.NoError(t, err)

	v, err := prog.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), v.AsInteger())

	rt.GC(ctx)

	v, err = prog.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(2), v.AsInteger())
}

func TestGCReclaimsGarbage(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t)
	_, err := rt.Eval(ctx, input("(function(){ var junk = [1,2,3,4,5]; return 0; })()"))
	require.NoError(t, err)

	before := rt.Context().Pool.Len()
	rt.GC(ctx)
	require.Less(t, rt.Context().Pool.Len(), before)
}

func TestGlobalStateSharedAcrossEvals(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t)
	_, err := rt.Eval(ctx, input("var counter = 10;"))
	require.NoError(t, err)
	v, err := rt.Eval(ctx, input("counter + 1"))
	require.NoError(t, err)
	require.Equal(t, int32(11), v.AsInteger())
}

func TestErrorCarriesSourcePosition(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.Eval(context.Background(), input("var ok = 1;\nmissing()"))
	var ee *errkit.EngineError
	require.ErrorAs(t, err, &ee)
	require.True(t, ee.At.IsValid())
	raw, ok := ee.RawLine()
	require.True(t, ok)
	require.Equal(t, "missing()", raw)
}
