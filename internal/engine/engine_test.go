package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/parser"
	"github.com/emberlang/ember/internal/text"
)

func evalSource(t *testing.T, src string) (Value, error) {
	t.Helper()
	ctx := NewContext(128)
	BootstrapGlobals(ctx)
	in := text.NewInput("test.js", []byte(src))
	prog, err := parser.ParseProgram(in, false)
	require.NoError(t, err)
	fn, err := CompileProgram(ctx, prog, false)
	require.NoError(t, err)
	return RunProgram(ctx, fn, ctx.Global.Value())
}

func mustEval(t *testing.T, src string) Value {
	t.Helper()
	v, err := evalSource(t, src)
	require.NoError(t, err)
	return v
}

func evalString(t *testing.T, src string) string {
	t.Helper()
	return ToGoString(mustEval(t, src))
}

func evalNumber(t *testing.T, src string) float64 {
	t.Helper()
	v := mustEval(t, src)
	require.True(t, v.IsNumber(), "expected a number, got kind %d", v.Kind)
	return v.AsBinary()
}

func TestArithmeticPrecedence(t *testing.T) {
	v := mustEval(t, "1 + 2 * 3")
	require.Equal(t, KindInteger, v.Kind)
	require.Equal(t, int32(7), v.AsInteger())
}

func TestClosureCounter(t *testing.T) {
	v := mustEval(t, "var f = (function(){ var n=0; return function(){ return ++n; } })(); f(); f(); f();")
	require.Equal(t, int32(3), v.AsInteger())
}

func TestTryCatchFinally(t *testing.T) {
	require.Equal(t, "x!", evalString(t, "var s=''; try { throw 'x'; } catch(e) { s+=e; } finally { s+='!'; } s"))
}

func TestRegexCapture(t *testing.T) {
	require.Equal(t, "abbbbc,bbbb", evalString(t, "/a(b+)c/.exec('zabbbbc').toString()"))
}

func TestSortStability(t *testing.T) {
	src := "[{k:1,v:'a'},{k:1,v:'b'},{k:0,v:'c'}].sort(function(x,y){return x.k-y.k}).map(function(o){return o.v}).join('')"
	require.Equal(t, "cab", evalString(t, src))
}

func TestJSONReviver(t *testing.T) {
	v := mustEval(t, `JSON.parse('{"n":"42"}', function(k,v){return k==='n'?parseInt(v,10):v}).n`)
	require.Equal(t, int32(42), v.AsInteger())
}

func TestStringConcatenation(t *testing.T) {
	require.Equal(t, "1a", evalString(t, "1 + 'a'"))
	require.Equal(t, "a1", evalString(t, "'a' + 1"))
	require.Equal(t, float64(3), evalNumber(t, "'1' * 3"))
}

func TestWhileLoop(t *testing.T) {
	require.Equal(t, float64(10), evalNumber(t, "var i=0, s=0; while (i<5) { s+=i; i++; } s"))
}

func TestDoWhileRunsOnce(t *testing.T) {
	require.Equal(t, float64(1), evalNumber(t, "var n=0; do { n++; } while (false); n"))
}

func TestForLoop(t *testing.T) {
	require.Equal(t, float64(45), evalNumber(t, "var s=0; for (var i=0;i<10;i++) s+=i; s"))
}

func TestIterateLoopSpecialization(t *testing.T) {
	// The counting-loop shapes the compiler lowers to iterate*Ref ops
	// must behave exactly like the generic loop they replace.
	require.Equal(t, float64(45), evalNumber(t, "var s=0; for (var i=0;i<10;i++) s+=i; s"))
	require.Equal(t, float64(45), evalNumber(t, "var s=0; for (var i=9;i>=0;i--) s+=i; s"))
	require.Equal(t, float64(20), evalNumber(t, "var s=0; for (var i=0;i<=8;i+=2) s+=i; s"))
	// Counter mutated inside the body still terminates correctly.
	require.Equal(t, float64(5), evalNumber(t, "var n=0; for (var i=0;i<10;i++) { i++; n++; } n"))
	// Break and continue unwind through the specialized loop too.
	require.Equal(t, float64(3), evalNumber(t, "var n=0; for (var i=0;i<10;i++) { if (i==3) break; n++; } n"))
	require.Equal(t, float64(5), evalNumber(t, "var n=0; for (var i=0;i<10;i++) { if (i%2==0) continue; n++; } n"))
}

func TestIterateLoopDeoptimizesOnFloats(t *testing.T) {
	require.Equal(t, float64(2.5), evalNumber(t, "var last=0; for (var i=0.5;i<3;i++) last=i; last"))
}

func TestForLoopEmptyClauses(t *testing.T) {
	require.Equal(t, float64(3), evalNumber(t, "var i=0; for (;;) { i++; if (i==3) break; } i"))
}

func TestNestedLoopsWithLabels(t *testing.T) {
	src := `
var r = '';
outer: for (var i=0;i<3;i++) {
  for (var j=0;j<3;j++) {
    if (j==1) { continue outer; }
    if (i==2) { break outer; }
    r += '' + i + j;
  }
}
r`
	require.Equal(t, "0010", evalString(t, src))
}

func TestSwitchFallthrough(t *testing.T) {
	src := `
function f(x){ var r=''; switch(x){ case 1: r+='a'; case 2: r+='b'; break; default: r+='d'; } return r; }
f(1) + f(2) + f(9)`
	require.Equal(t, "abbd", evalString(t, src))
}

func TestConditionalExpression(t *testing.T) {
	require.Equal(t, "yes", evalString(t, "1 < 2 ? 'yes' : 'no'"))
	require.Equal(t, "no", evalString(t, "1 > 2 ? 'yes' : 'no'"))
}

func TestLogicalShortCircuit(t *testing.T) {
	require.Equal(t, float64(0), evalNumber(t, "var n=0; false && n++; n"))
	require.Equal(t, float64(0), evalNumber(t, "var n=0; true || n++; n"))
	require.Equal(t, "b", evalString(t, "'' || 'b'"))
	require.Equal(t, "b", evalString(t, "'a' && 'b'"))
}

func TestCompoundAssignment(t *testing.T) {
	require.Equal(t, float64(6), evalNumber(t, "var n=2; n*=3; n"))
	require.Equal(t, float64(1), evalNumber(t, "var n=9; n%=4; n%=3; n"))
	require.Equal(t, float64(12), evalNumber(t, "var o={n:3}; o.n<<=2; o.n"))
}

func TestPrefixPostfixUpdate(t *testing.T) {
	require.Equal(t, float64(0), evalNumber(t, "var n=0; n++"))
	require.Equal(t, float64(1), evalNumber(t, "var n=0; n++; n"))
	require.Equal(t, float64(0), evalNumber(t, "var n=0; var old=n++; old"))
	require.Equal(t, float64(1), evalNumber(t, "var n=0; ++n"))
}

func TestObjectLiteralAndMemberAccess(t *testing.T) {
	require.Equal(t, float64(3), evalNumber(t, "var o = {a:1, 'b':2}; o.a + o['b']"))
	require.Equal(t, "undefined", evalString(t, "typeof ({}).missing"))
}

func TestMethodCallReceiverEvaluatedOnce(t *testing.T) {
	src := `
var calls = 0;
function make(){ calls++; return [3,1,2]; }
make().sort().join('');
calls`
	require.Equal(t, float64(1), evalNumber(t, src))
}

func TestArrayPushLength(t *testing.T) {
	require.Equal(t, float64(3), evalNumber(t, "var a=[1,2]; a.push(9); a.length"))
	require.Equal(t, float64(9), evalNumber(t, "var a=[1,2]; a.push(9); a[a.length-1]"))
}

func TestArrayLengthTruncation(t *testing.T) {
	require.Equal(t, "1,2", evalString(t, "var a=[1,2,3,4]; a.length=2; a.join(',')"))
}

func TestArrayLiteralElision(t *testing.T) {
	require.Equal(t, float64(3), evalNumber(t, "[1, , 3].length"))
	require.Equal(t, "undefined", evalString(t, "typeof [1, , 3][1]"))
}

func TestForInEnumerationOrder(t *testing.T) {
	src := "var o={b:1,a:2}; o[0]=9; var r=''; for (var k in o) r+=k+';'; r"
	require.Equal(t, "0;b;a;", evalString(t, src))
}

func TestForInSkipsDeletedProperty(t *testing.T) {
	src := "var o={a:1,b:2,c:3}; var r=''; for (var k in o) { if (k=='a') delete o.c; r+=k; } r"
	require.Equal(t, "ab", evalString(t, src))
}

func TestForInWalksPrototypeChain(t *testing.T) {
	src := `
function T(){ this.own = 1; }
T.prototype.inherited = 2;
var r = '';
for (var k in new T()) r += k + ';';
r`
	require.Equal(t, "own;inherited;", evalString(t, src))
}

func TestTypeofOperator(t *testing.T) {
	require.Equal(t, "undefined", evalString(t, "typeof neverDeclared"))
	require.Equal(t, "number", evalString(t, "typeof 1"))
	require.Equal(t, "string", evalString(t, "typeof 'x'"))
	require.Equal(t, "boolean", evalString(t, "typeof true"))
	require.Equal(t, "object", evalString(t, "typeof null"))
	require.Equal(t, "object", evalString(t, "typeof {}"))
	require.Equal(t, "function", evalString(t, "typeof function(){}"))
}

func TestDeleteProperty(t *testing.T) {
	require.Equal(t, "undefined", evalString(t, "var o={a:1}; delete o.a; typeof o.a"))
	v := mustEval(t, "var o={a:1}; delete o.a")
	require.True(t, v.AsBoolean())
}

func TestInOperator(t *testing.T) {
	require.True(t, mustEval(t, "'a' in {a:1}").AsBoolean())
	require.False(t, mustEval(t, "'b' in {a:1}").AsBoolean())
	require.True(t, mustEval(t, "'toString' in {}").AsBoolean())
}

func TestInstanceOfAndPrototypes(t *testing.T) {
	src := `
function Animal(name){ this.name = name; }
Animal.prototype.speak = function(){ return this.name + ' speaks'; };
var a = new Animal('Rex');
(a instanceof Animal) + ';' + a.speak()`
	require.Equal(t, "true;Rex speaks", evalString(t, src))
}

func TestConstructorReturningObjectWins(t *testing.T) {
	require.Equal(t, float64(5), evalNumber(t, "function C(){ return {x:5}; } new C().x"))
}

func TestAbstractEquality(t *testing.T) {
	require.True(t, mustEval(t, "null == undefined").AsBoolean())
	require.False(t, mustEval(t, "null == 0").AsBoolean())
	require.True(t, mustEval(t, "'42' == 42").AsBoolean())
	require.True(t, mustEval(t, "true == 1").AsBoolean())
	require.False(t, mustEval(t, "'42' === 42").AsBoolean())
	require.False(t, mustEval(t, "NaN === NaN").AsBoolean())
	require.True(t, mustEval(t, "0 === -0").AsBoolean())
}

func TestStringComparisonIsLexicographic(t *testing.T) {
	require.True(t, mustEval(t, "'a' < 'b'").AsBoolean())
	require.False(t, mustEval(t, "'b' <= 'a'").AsBoolean())
	require.True(t, mustEval(t, "'10' < '9'").AsBoolean())
	require.True(t, mustEval(t, "10 < 9 ? false : true").AsBoolean())
}

func TestBitwiseAndShifts(t *testing.T) {
	require.Equal(t, float64(4), evalNumber(t, "12 & 6"))
	require.Equal(t, float64(14), evalNumber(t, "12 | 6"))
	require.Equal(t, float64(10), evalNumber(t, "12 ^ 6"))
	require.Equal(t, float64(48), evalNumber(t, "12 << 2"))
	require.Equal(t, float64(-1), evalNumber(t, "-1 >> 1"))
	require.Equal(t, float64(2147483647), evalNumber(t, "-1 >>> 1"))
}

func TestArgumentsObject(t *testing.T) {
	require.Equal(t, float64(41), evalNumber(t, "function f(){ return arguments.length + arguments[0]; } f(40)"))
}

func TestCallAndApply(t *testing.T) {
	src := "function f(a,b){ return this.base + a + b; } f.call({base:10}, 1, 2) + ';' + f.apply({base:20}, [3,4])"
	require.Equal(t, "13;27", evalString(t, src))
}

func TestWithStatement(t *testing.T) {
	require.Equal(t, float64(5), evalNumber(t, "var o={x:5}; var r; with (o) { r = x; } r"))
}

func TestStringMethods(t *testing.T) {
	require.Equal(t, "B", evalString(t, "'abc'.charAt(1).toUpperCase()"))
	require.Equal(t, float64(3), evalNumber(t, "'abc'.length"))
	require.Equal(t, "b", evalString(t, "'abc'[1]"))
	require.Equal(t, "a-b-c", evalString(t, "['a','b','c'].join('-')"))
	require.Equal(t, "x,y", evalString(t, "'x;y'.split(';').toString()"))
}

func TestGlobalRegexPersistsLastIndex(t *testing.T) {
	require.Equal(t, "0;1", evalString(t, "var re=/a/g; re.exec('aa').index + ';' + re.exec('aa').index"))
}

func TestGlobalRegexTestAdvancesLastIndex(t *testing.T) {
	// test and exec share lastIndex on a global regexp, so alternating
	// calls step through the subject.
	require.Equal(t, "true;1", evalString(t, "var re=/a/g; re.test('aa') + ';' + re.exec('aa').index"))
	require.Equal(t, "true;true;false", evalString(t, "var re=/a/g; var s='aa'; re.test(s) + ';' + re.test(s) + ';' + re.test(s)"))
}

func TestStringMatchGlobal(t *testing.T) {
	require.Equal(t, "a,a,a", evalString(t, "'banana'.match(/a/g).toString()"))
	require.Equal(t, "null", evalString(t, "'' + 'banana'.match(/z/g)"))
}

func TestStringReplace(t *testing.T) {
	require.Equal(t, "a-bXc", evalString(t, "'aXbXc'.replace(/X/, '-')"))
	require.Equal(t, "aB!c", evalString(t, "'abc'.replace(/b/, function(m){ return m.toUpperCase() + '!'; })"))
}

func TestJSONStringify(t *testing.T) {
	require.Equal(t, `{"a":[1,2],"b":"x"}`, evalString(t, "JSON.stringify({a:[1,2],b:'x'})"))
	require.Equal(t, "null", evalString(t, "JSON.stringify(NaN)"))
}

func TestJSONStringifyFunctionReplacer(t *testing.T) {
	src := "JSON.stringify({a:1,b:2}, function(k,v){ return k==='b' ? undefined : v; })"
	require.Equal(t, `{"a":1}`, evalString(t, src))
}

func TestJSONStringifyArrayReplacer(t *testing.T) {
	// The allow-list applies to named properties at every depth; array
	// indices are never filtered.
	src := "JSON.stringify({a:1,b:{a:2,c:3},c:[4,5]}, ['a','c'])"
	require.Equal(t, `{"a":1,"c":[4,5]}`, evalString(t, src))
}

func TestJSONStringifySpace(t *testing.T) {
	require.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    2\n  ]\n}",
		evalString(t, "JSON.stringify({a:1,b:[2]}, null, 2)"))
	require.Equal(t, "{\n--\"a\": 1\n}",
		evalString(t, "JSON.stringify({a:1}, null, '--')"))
	// The integer form clamps to at most ten spaces.
	require.Equal(t, "{\n          \"a\": 1\n}",
		evalString(t, "JSON.stringify({a:1}, null, 99)"))
	require.Equal(t, "{}", evalString(t, "JSON.stringify({}, null, 2)"))
}

func TestJSONStringifyReplacerThrowPropagates(t *testing.T) {
	_, err := evalSource(t, "JSON.stringify({a:1}, function(){ throw new TypeError('no'); })")
	ee, ok := err.(*errkit.EngineError)
	require.True(t, ok)
	require.Equal(t, errkit.Type, ee.Kind)
}

func TestJSONRoundTrip(t *testing.T) {
	src := "var v = {a:[1,2.5,null,true], s:'hi'}; JSON.stringify(JSON.parse(JSON.stringify(v)))"
	require.Equal(t, `{"a":[1,2.5,null,true],"s":"hi"}`, evalString(t, src))
}

func TestUncaughtThrowLeavesValueInResult(t *testing.T) {
	v, err := evalSource(t, "throw 'boom'")
	require.Error(t, err)
	require.Equal(t, "boom", ToGoString(v))
	ee, ok := err.(*errkit.EngineError)
	require.True(t, ok)
	require.Equal(t, errkit.Generic, ee.Kind)
}

func TestUncaughtTypeErrorKeepsKind(t *testing.T) {
	_, err := evalSource(t, "throw new TypeError('bad')")
	ee, ok := err.(*errkit.EngineError)
	require.True(t, ok)
	require.Equal(t, errkit.Type, ee.Kind)
}

func TestReferenceErrorOnUndefinedRead(t *testing.T) {
	_, err := evalSource(t, "missing + 1")
	ee, ok := err.(*errkit.EngineError)
	require.True(t, ok)
	require.Equal(t, errkit.Reference, ee.Kind)
}

func TestCatchBindsBuiltinErrors(t *testing.T) {
	require.Equal(t, "TypeError", evalString(t, "var n; try { null.x(); } catch (e) { n = e.name; } n"))
}

func TestFinallyControlFlowWins(t *testing.T) {
	require.Equal(t, float64(2), evalNumber(t, "function f(){ try { return 1; } finally { return 2; } } f()"))
}

func TestCallDepthLimit(t *testing.T) {
	ctx := NewContext(16)
	BootstrapGlobals(ctx)
	in := text.NewInput("test.js", []byte("function f(){ return f(); } f()"))
	prog, err := parser.ParseProgram(in, false)
	require.NoError(t, err)
	fn, err := CompileProgram(ctx, prog, false)
	require.NoError(t, err)
	_, err = RunProgram(ctx, fn, ctx.Global.Value())
	ee, ok := err.(*errkit.EngineError)
	require.True(t, ok)
	require.Equal(t, errkit.Range, ee.Kind)
}

func TestStrictModeAssignToUndeclared(t *testing.T) {
	ctx := NewContext(64)
	BootstrapGlobals(ctx)
	in := text.NewInput("test.js", []byte("undeclared = 1"))
	prog, err := parser.ParseProgram(in, true)
	require.NoError(t, err)
	fn, err := CompileProgram(ctx, prog, true)
	require.NoError(t, err)
	_, err = RunProgram(ctx, fn, ctx.Global.Value())
	ee, ok := err.(*errkit.EngineError)
	require.True(t, ok)
	require.Equal(t, errkit.Reference, ee.Kind)
}

func TestStrictModeReadOnlyWrite(t *testing.T) {
	ctx := NewContext(64)
	BootstrapGlobals(ctx)
	in := text.NewInput("test.js", []byte("Math.PI = 3"))
	prog, err := parser.ParseProgram(in, true)
	require.NoError(t, err)
	fn, err := CompileProgram(ctx, prog, true)
	require.NoError(t, err)
	_, err = RunProgram(ctx, fn, ctx.Global.Value())
	ee, ok := err.(*errkit.EngineError)
	require.True(t, ok)
	require.Equal(t, errkit.Type, ee.Kind)

	// The same write in sloppy mode is silently dropped.
	require.Equal(t, "number", evalString(t, "Math.PI = 3; typeof Math.PI"))
	v := mustEval(t, "Math.PI = 3; Math.PI === 3")
	require.False(t, v.AsBoolean())
}

func TestStrictModeNonExtensibleWrite(t *testing.T) {
	ctx := NewContext(64)
	BootstrapGlobals(ctx)
	sealed := NewObject(ctx.Pool, ctx.Protos.Object)
	sealed.Extensible = false
	key := CharsValue(text.NewChars([]byte("x")))

	strict := &Frame{Ctx: ctx, Strict: true}
	require.Panics(t, func() { strict.setMember(sealed.Value(), key, Integer(1), text.Slice{}) })

	sloppy := &Frame{Ctx: ctx}
	sloppy.setMember(sealed.Value(), key, Integer(1), text.Slice{})
	require.Nil(t, sealed.GetOwn(keys.Intern("x")))
}

func TestStrictModeSealedArrayTruncation(t *testing.T) {
	ctx := NewContext(64)
	BootstrapGlobals(ctx)
	arr := NewObjectKind(ctx.Pool, ObjectArray, ctx.Protos.Array)
	arr.SetElement(0, Integer(1))
	arr.SetElement(1, Integer(2))
	arr.Extensible = false
	lengthKey := CharsValue(text.NewChars([]byte("length")))

	strict := &Frame{Ctx: ctx, Strict: true}
	require.Panics(t, func() { strict.setMember(arr.Value(), lengthKey, Integer(0), text.Slice{}) })
	require.Equal(t, uint32(2), arr.Length())

	sloppy := &Frame{Ctx: ctx}
	sloppy.setMember(arr.Value(), lengthKey, Integer(0), text.Slice{})
	require.Equal(t, uint32(2), arr.Length())
}

func TestSloppyModeImplicitGlobal(t *testing.T) {
	require.Equal(t, float64(1), evalNumber(t, "function f(){ implicit = 1; } f(); implicit"))
}

func TestHoistingAllowsForwardCall(t *testing.T) {
	require.Equal(t, float64(7), evalNumber(t, "var r = f(); function f(){ return 7; } r"))
}

func TestVarHoistingReadsUndefined(t *testing.T) {
	require.Equal(t, "undefined", evalString(t, "var r = typeof x; var x = 1; r"))
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	require.Equal(t, float64(3), evalNumber(t, "var a = 1\nvar b = 2\na + b"))
	require.Equal(t, "undefined", evalString(t, "function f(){ return\n42 }\ntypeof f()"))
}

func TestGarbageCollectionReclaimsUnreachable(t *testing.T) {
	ctx := NewContext(64)
	BootstrapGlobals(ctx)
	in := text.NewInput("test.js", []byte("(function(){ var big = [1,2,3,4]; return 1; })()"))
	prog, err := parser.ParseProgram(in, false)
	require.NoError(t, err)
	fn, err := CompileProgram(ctx, prog, false)
	require.NoError(t, err)
	_, err = RunProgram(ctx, fn, ctx.Global.Value())
	require.NoError(t, err)

	before := ctx.Pool.Len()
	ctx.Pool.Collect(func() {
		ctx.MarkRoots()
		fn.Mark()
	})
	after := ctx.Pool.Len()
	require.Less(t, after, before)

	// Everything reachable from the global object survives.
	_, err = RunProgram(ctx, fn, ctx.Global.Value())
	require.NoError(t, err)
}

func TestHasOwnPropertyMatchesEnumeration(t *testing.T) {
	src := `
var o = {a:1, b:2};
var ok = true;
for (var k in o) { if (!o.hasOwnProperty(k)) ok = false; }
ok && o.hasOwnProperty('a') && !o.hasOwnProperty('c')`
	require.True(t, mustEval(t, src).AsBoolean())
}

func TestCommaOperator(t *testing.T) {
	require.Equal(t, float64(3), evalNumber(t, "var n = (1, 2, 3); n"))
}

func TestVoidAndNegation(t *testing.T) {
	require.Equal(t, "undefined", evalString(t, "void 0"))
	require.Equal(t, float64(-5), evalNumber(t, "-(2+3)"))
	require.Equal(t, float64(-6), evalNumber(t, "~5"))
	require.True(t, mustEval(t, "!0").AsBoolean())
}
