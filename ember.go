// Package ember is the host-facing surface of the ember scripting
// engine: an ECMAScript-3-family interpreter built as a lexer, a flat
// operation-list compiler, a threaded operation interpreter, a
// prototype-chained object model, a backtracking regular-expression
// engine and a mark-and-sweep allocation pool. The package mirrors the
// runtime/compile/eval split of tetratelabs/wazero's top-level package:
// a Runtime owns engine-wide state, CompileModule front-loads the
// parse+lower work, Eval runs source against the runtime's global
// object, and Close releases what Setup acquired.
package ember

import (
	"context"

	"github.com/emberlang/ember/internal/engine"
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/parser"
	"github.com/emberlang/ember/internal/text"
)

// Config carries the knobs a Runtime is constructed with. The zero value
// is usable; NewRuntime fills in defaults.
type Config struct {
	// MaxCallDepth bounds script recursion; exceeding it raises a
	// RangeError (spec.md §5's stack discipline). Defaults to 256.
	MaxCallDepth int
}

// Runtime is one interpreter instance: a global object, its builtin
// library, and the allocation pool behind every value the instance
// creates. Multiple Runtimes share the process-wide key-intern table
// via reference-counted setup/teardown.
type Runtime struct {
	ctx      *engine.Context
	programs []*engine.Function
}

// NewRuntime constructs a ready-to-eval Runtime with the builtin
// globals installed. The context parameter follows the wazero
// convention for instantiation-time plumbing and is currently unused.
func NewRuntime(_ context.Context, cfg Config) *Runtime {
	if cfg.MaxCallDepth <= 0 {
		cfg.MaxCallDepth = 256
	}
	ctx := engine.NewContext(cfg.MaxCallDepth)
	engine.BootstrapGlobals(ctx)
	return &Runtime{ctx: ctx}
}

// CompiledProgram is a parsed and lowered script, bound to the Runtime
// that compiled it (its op list references the runtime's interned
// constants and builtin prototypes).
type CompiledProgram struct {
	rt *Runtime
	fn *engine.Function
}

// evalConfig is the per-eval flag set from spec.md §6.
type evalConfig struct {
	globalThis  bool
	toPrimitive bool
	toString    bool
	strict      bool
}

// EvalOption adjusts one evaluation, builder-style.
type EvalOption func(*evalConfig)

// WithGlobalThis binds the global object as the program's `this` rather
// than undefined.
func WithGlobalThis() EvalOption { return func(c *evalConfig) { c.globalThis = true } }

// WithCoerceResultToPrimitive reduces an object result to a primitive
// via the engine's ToPrimitive before returning it.
func WithCoerceResultToPrimitive() EvalOption { return func(c *evalConfig) { c.toPrimitive = true } }

// WithCoerceResultToString stringifies the result before returning it.
func WithCoerceResultToString() EvalOption { return func(c *evalConfig) { c.toString = true } }

// WithStrictMode parses and runs the input as strict-mode code.
func WithStrictMode() EvalOption { return func(c *evalConfig) { c.strict = true } }

// CompileModule parses and lowers input without running it. The returned
// program may be evaluated any number of times; it stays valid across
// Runtime.GC cycles.
func (r *Runtime) CompileModule(_ context.Context, input *text.Input, opts ...EvalOption) (*CompiledProgram, error) {
	var cfg evalConfig
	for _, o := range opts {
		o(&cfg)
	}
	fn, err := r.compile(input, cfg.strict)
	if err != nil {
		return nil, err
	}
	return &CompiledProgram{rt: r, fn: fn}, nil
}

func (r *Runtime) compile(input *text.Input, strict bool) (*engine.Function, error) {
	prog, err := parser.ParseProgram(input, strict)
	if err != nil {
		return nil, err
	}
	fn, err := engine.CompileProgram(r.ctx, prog, strict)
	if err != nil {
		return nil, err
	}
	r.programs = append(r.programs, fn)
	return fn, nil
}

// Eval parses, lowers and runs input in one step. The result Value is
// the program's last statement value; an uncaught throw returns the
// thrown value alongside a non-nil *errkit.EngineError, and a parse
// failure runs the in-band raising op so the two error paths are
// indistinguishable to the caller (spec.md §7).
func (r *Runtime) Eval(_ context.Context, input *text.Input, opts ...EvalOption) (engine.Value, error) {
	var cfg evalConfig
	for _, o := range opts {
		o(&cfg)
	}
	fn, err := r.compile(input, cfg.strict)
	if err != nil {
		ee, ok := err.(*errkit.EngineError)
		if !ok {
			return engine.Undefined(), err
		}
		fn = engine.RaiseFunction(r.ctx, ee)
	}
	return r.run(fn, cfg)
}

// Run evaluates an already-compiled program.
func (p *CompiledProgram) Run(_ context.Context, opts ...EvalOption) (engine.Value, error) {
	var cfg evalConfig
	for _, o := range opts {
		o(&cfg)
	}
	return p.rt.run(p.fn, cfg)
}

func (r *Runtime) run(fn *engine.Function, cfg evalConfig) (engine.Value, error) {
	this := engine.Undefined()
	if cfg.globalThis {
		this = r.ctx.Global.Value()
	}
	result, err := engine.RunProgram(r.ctx, fn, this)
	if err != nil {
		return result, err
	}
	if cfg.toString {
		return engine.CoerceString(r.ctx, result), nil
	}
	if cfg.toPrimitive {
		return engine.CoercePrimitive(r.ctx, result), nil
	}
	return result, nil
}

// Global returns the runtime's global object, on which the host may
// define values directly.
func (r *Runtime) Global() *engine.Object {
	return r.ctx.Global
}

// Context exposes the engine-level Context for host code that works with
// engine values directly (native functions, conversions).
func (r *Runtime) Context() *engine.Context {
	return r.ctx
}

// Install defines a named value on the global object.
func (r *Runtime) Install(name string, v engine.Value) {
	r.ctx.DefineGlobal(name, v)
}

// InstallFunc wraps fn as a callable script function and installs it
// under name, the HostFunctionBuilder analogue for this engine: native
// functions receive the engine Context and return a Value (spec.md §6).
func (r *Runtime) InstallFunc(name string, fn engine.Native) {
	r.ctx.DefineGlobal(name, engine.NewNativeFunction(r.ctx, name, 0, fn))
}

// GC runs one full mark-and-sweep cycle over the runtime's pool. The
// global object and every compiled program are the roots; values held
// only by the host stay alive while a program referencing them does.
func (r *Runtime) GC(_ context.Context) {
	r.ctx.Pool.Collect(func() {
		r.ctx.MarkRoots()
		for _, p := range r.programs {
			p.Mark()
		}
	})
}

// Close releases the runtime's pool reference and its share of the
// process-wide key table. The Runtime must not be used afterwards.
func (r *Runtime) Close(_ context.Context) error {
	r.ctx.Close()
	return nil
}
