// Package pool implements the mark-and-sweep allocator that backs every
// Chars buffer, Object and Function the engine creates, grounded on the
// teacher's own pattern of guarding a process-wide, mutex-protected
// registry of long-lived allocations
// (tetratelabs/wazero's internal/engine/interpreter.engine.codes map) and
// reference-counted setup/teardown
// (tetratelabs/wazero's internal/wasm.Store lifecycle).
package pool

import "sync"

// Trackable is implemented by every pool-managed allocation: Chars,
// Object and Function. Mark is called from a GC root during the mark
// phase and must recursively mark anything the allocation references;
// ClearMark/Marked are used by the pool itself between and during sweeps.
type Trackable interface {
	Mark()
	Marked() bool
	ClearMark()
	// Pinned reports whether the allocation must survive this sweep
	// regardless of reachability (e.g. an explicit Chars.Retain()).
	Pinned() bool
}

// Pool tracks every dynamically-allocated Chars/Object/Function so a
// mark-sweep cycle can reclaim what's no longer reachable. Multiple
// interpreter instances may share one Pool the way multiple wazero
// Engines may share compiled module state; access is serialized by a
// single mutex since the interpreter itself never runs two goroutines
// concurrently against the same Pool.
type Pool struct {
	mu      sync.Mutex
	live    []Trackable
	marks   []func()
	refs    int
}

// New creates an empty Pool.
func New() *Pool {
	return &Pool{}
}

// Setup increments the reference count on a shared Pool, mirroring the
// Key table's lifecycle (internal/keys.Setup).
func (p *Pool) Setup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refs++
}

// Teardown decrements the reference count. It does not free the pool;
// callers decide when to stop using it.
func (p *Pool) Teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refs > 0 {
		p.refs--
	}
}

// Track registers a new allocation with the pool. Every Chars, Object and
// Function must be tracked exactly once, at construction.
func (p *Pool) Track(t Trackable) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live = append(p.live, t)
}

// GetIndices returns an opaque marker for the pool's current allocation
// count, to be passed later to CollectUnreferencedFromIndices. This is
// the "young generation" mechanism from spec.md §3: a caller that knows a
// lexical scope didn't let anything escape can cheaply sweep only what
// was allocated since the marker.
func (p *Pool) GetIndices() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// CollectUnreferencedFromIndices sweeps allocations created at or after
// the marker returned by GetIndices that are unmarked and unpinned. markRoots
// is invoked first to mark anything still reachable from the caller's
// roots (e.g. a captured closure that escaped the scope after all).
func (p *Pool) CollectUnreferencedFromIndices(marker int, markRoots func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if marker > len(p.live) {
		return
	}
	for _, t := range p.live[marker:] {
		t.ClearMark()
	}
	markRoots()
	kept := p.live[:marker]
	for _, t := range p.live[marker:] {
		if t.Marked() || t.Pinned() {
			kept = append(kept, t)
		}
	}
	p.live = kept
}

// Collect runs a full mark-and-sweep cycle: it clears every mark bit,
// invokes markRoots to re-mark everything reachable from the engine's
// roots (global object, call-stack environments, the result register),
// then drops anything left unmarked and unpinned.
func (p *Pool) Collect(markRoots func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.live {
		t.ClearMark()
	}
	p.mu.Unlock()
	markRoots()
	p.mu.Lock()

	kept := p.live[:0:0]
	for _, t := range p.live {
		if t.Marked() || t.Pinned() {
			kept = append(kept, t)
		}
	}
	p.live = kept
}

// Len reports the number of allocations currently tracked. Exposed for
// tests and diagnostics.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}
