// Package keys interns property names into compact 16-bit handles, the
// way the teacher interns compiled function bodies under a
// sync.RWMutex-guarded map keyed by module identity
// (tetratelabs/wazero's internal/engine/interpreter.engine.codes).
package keys

import "sync"

// Key is an interned property name: a handle bijective with its text
// within one process lifetime. The zero Key is reserved and never
// returned by Intern.
type Key uint16

// table is the process-wide intern table. Like the teacher's engine.codes
// map, it is shared across every caller and guarded by a single mutex —
// there is no per-caller contention strategy because the interpreter
// itself is single-threaded; the mutex exists only to let multiple
// Runtime instances share one Key space safely.
type table struct {
	mu      sync.RWMutex
	byText  map[string]Key
	byKey   []string
	refs    int
}

var global = &table{byKey: []string{""}}

// Setup increments the process-wide reference count, initializing the
// table on first use. Teardown must be called an equal number of times.
func Setup() {
	global.mu.Lock()
	defer global.mu.Unlock()
	if global.byText == nil {
		global.byText = make(map[string]Key)
	}
	global.refs++
}

// Teardown decrements the reference count; the table itself is never
// freed mid-process (Keys must remain bijective for the interpreter's
// lifetime), matching the spec's "Keys live from first use to shutdown"
// lifecycle note.
func Teardown() {
	global.mu.Lock()
	defer global.mu.Unlock()
	if global.refs > 0 {
		global.refs--
	}
}

// Intern returns the Key for text, allocating a new handle on first use.
func Intern(text string) Key {
	global.mu.RLock()
	if k, ok := global.byText[text]; ok {
		global.mu.RUnlock()
		return k
	}
	global.mu.RUnlock()

	global.mu.Lock()
	defer global.mu.Unlock()
	if k, ok := global.byText[text]; ok {
		return k
	}
	k := Key(len(global.byKey))
	global.byKey = append(global.byKey, text)
	global.byText[text] = k
	return k
}

// TextOf returns the text interned under k. Testable property (spec.md
// §8): for every Key k, TextOf(k) returns the same Text slice across the
// interpreter's lifetime.
func TextOf(k Key) string {
	global.mu.RLock()
	defer global.mu.RUnlock()
	if int(k) >= len(global.byKey) {
		return ""
	}
	return global.byKey[k]
}

// Count returns the number of interned keys, including the reserved zero
// key. Exposed for tests and diagnostics only.
func Count() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return len(global.byKey)
}
