package engine

import (
	"math/rand"
	"time"

	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/keys"
	"github.com/emberlang/ember/internal/pool"
	"github.com/emberlang/ember/internal/text"
)

// Prototypes holds every builtin prototype object the engine wires up
// at startup, grounded on the teacher's moduleBuilder pattern of
// collecting a module's exports in one struct before instantiation.
type Prototypes struct {
	Object   *Object
	Function *Object
	Array    *Object
	String   *Object
	Number   *Object
	Boolean  *Object
	Error    *Object
	RegExp   *Object
	Date     *Object
}

// Context is the engine-wide state a Runtime owns: the allocation pool,
// the global object, the builtin prototype table and the call-depth
// ceiling. It plays the role the teacher's wasm.Store plays for a
// collection of module instances — one per Runtime, shared by every
// Frame that runtime creates.
type Context struct {
	Pool       *pool.Pool
	Global     *Object
	Protos     Prototypes
	MaxDepth   int
	depth      int
	sourceName string
	rng        *rand.Rand
}

func (c *Context) random() float64 {
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c.rng.Float64()
}

// NewContext allocates a Context with a fresh Pool and an empty global
// object; the caller (ember.Runtime) is responsible for calling
// BootstrapGlobals to populate builtins before running any script. The
// process-wide key table's reference count is taken here and released by
// Close, so key lifetime spans every live interpreter instance.
func NewContext(maxDepth int) *Context {
	keys.Setup()
	p := pool.New()
	p.Setup()
	ctx := &Context{Pool: p, MaxDepth: maxDepth}
	ctx.Protos.Object = NewObject(p, nil)
	ctx.Global = NewObjectKind(p, ObjectPlain, ctx.Protos.Object)
	return ctx
}

// Close releases the Context's pool and key-table references. It does
// not invalidate any Value already produced; it simply lets a future
// Collect reclaim everything once nothing else holds the pool open.
func (c *Context) Close() {
	c.Pool.Teardown()
	keys.Teardown()
}

// EnterCall increments the call-depth counter, panicking with a
// RangeError-kind EngineError once MaxDepth is exceeded — the
// recursion-ceiling guard grounded on the teacher's callEngine stack
// overflow check in pushFrame.
func (c *Context) EnterCall(at text.Slice) {
	c.depth++
	if c.depth > c.MaxDepth {
		c.depth--
		panic(&errkit.EngineError{Kind: errkit.Range, Message: "call stack size exceeded", At: at})
	}
}

func (c *Context) ExitCall() {
	if c.depth > 0 {
		c.depth--
	}
}

// MarkRoots marks the global object and is passed to Pool.Collect by
// Runtime.GC. Call-frame roots (locals still on the Go stack during a
// GC triggered mid-call) are intentionally out of scope: this engine
// only collects between top-level Eval calls, never during one, since
// Go's own stack already keeps in-flight Frame state alive.
func (c *Context) MarkRoots() {
	c.Global.Mark()
}
