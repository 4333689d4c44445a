package engine

import "github.com/emberlang/ember/internal/keys"

// opBlock runs a fixed-size sequence of statement ops and forwards the
// first breaker it sees (return/break/continue) without consuming it —
// only a loop, a switch (for break) or a function call boundary consumes
// a breaker, per
// spec.md §4.3's unwind contract. A block is the one control construct
// whose sub-ops are siblings rather than a single nested subtree, so
// unlike if/while/for it must be told how many statements follow:
// op.Value carries that count as an Integer.
func opBlock(f *Frame, op *Op) Value {
	count := int(op.Value.AsInteger())
	for i := 0; i < count; i++ {
		v := f.Next()
		if v.IsBreaker() {
			return v
		}
	}
	return Undefined()
}

// opIf evaluates its condition then runs exactly one of its two
// branches; a missing `else` compiles to an empty block so there are
// always exactly two single-op branches following the condition.
func opIf(f *Frame, op *Op) Value {
	cond := f.Next()
	if ToBooleanOf(f, cond) {
		result := f.Next()
		f.Skip() // else branch, never run
		return result
	}
	f.Skip() // then branch, never run
	return f.Next()
}

// opWhile runs body repeatedly while cond holds. cond and body are each
// exactly one op — possibly a deeply nested expression/block subtree —
// so the loop only needs their two starting positions to re-run them.
func opWhile(f *Frame, op *Op) Value {
	condPC := f.pc
	bodyPC := f.after(condPC)
	for {
		f.Jump(condPC)
		if !ToBooleanOf(f, f.Next()) {
			f.Jump(bodyPC)
			f.Skip()
			return Undefined()
		}
		f.Jump(bodyPC)
		if v, done := handleLoopBody(f, f.Next()); done {
			f.Jump(bodyPC)
			f.Skip()
			return v
		}
	}
}

// handleLoopBody interprets a loop body's result: false,_ means "keep
// looping", true,v means "stop the loop and return v up the call chain"
// (v may be Undefined for a plain break).
func handleLoopBody(f *Frame, v Value) (Value, bool) {
	switch {
	case v.IsBreakBreaker():
		if v.BreakerLevels() == 0 {
			return Undefined(), true
		}
		return v.DecrementedBreaker(), true
	case v.IsContinueBreaker():
		if v.BreakerLevels() != 0 {
			return v.DecrementedBreaker(), true
		}
		return Undefined(), false
	case v.IsReturnBreaker():
		return v, true
	default:
		return Undefined(), false
	}
}

// opDoWhile runs body at least once, then loops while cond holds.
func opDoWhile(f *Frame, op *Op) Value {
	bodyPC := f.pc
	condPC := f.after(bodyPC)
	for {
		f.Jump(bodyPC)
		if v, done := handleLoopBody(f, f.Next()); done {
			f.Jump(condPC)
			f.Skip()
			return v
		}
		f.Jump(condPC)
		if !ToBooleanOf(f, f.Next()) {
			break
		}
	}
	return Undefined()
}

// opFor implements the classic three-clause `for`: init runs once,
// cond/update/body repeat. Any clause may be an empty-statement op
// compiled in its place when the source omitted it, so the handler
// never special-cases a missing clause.
func opFor(f *Frame, op *Op) Value {
	f.Next() // init, once
	condPC := f.pc
	updatePC := f.after(condPC)
	bodyPC := f.after(updatePC)
	for {
		f.Jump(condPC)
		if !ToBooleanOf(f, f.Next()) {
			f.Jump(bodyPC)
			f.Skip()
			return Undefined()
		}
		f.Jump(bodyPC)
		if v, done := handleLoopBody(f, f.Next()); done {
			f.Jump(bodyPC)
			f.Skip()
			return v
		}
		f.Jump(updatePC)
		f.Next()
	}
}

// opForIn implements `for (key in obj)`: snapshots the target's own and
// inherited enumerable keys once at loop entry, per spec.md §4.3's
// delete-during-iteration rule — a property removed mid-loop after the
// snapshot is simply skipped, because its slot is gone by the time the
// loop reaches that key.
func opForIn(f *Frame, op *Op) Value {
	target := f.Next()
	bodyPC := f.pc

	if !target.IsObject() {
		f.Skip()
		return Undefined()
	}

	seen := map[string]bool{}
	var names []string
	for cur := target.AsObject(); cur != nil; cur = cur.Prototype {
		// Own dense elements come first in index order, then named
		// properties in insertion order (spec.md §4.3's enumeration rule).
		for i := uint32(0); i < cur.Length(); i++ {
			if _, ok := cur.GetElement(i); !ok {
				continue
			}
			name := uitoa(i)
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		for _, k := range cur.OwnKeysInOrder() {
			slot := cur.GetOwn(k)
			name := keys.TextOf(k)
			if slot == nil || seen[name] {
				continue
			}
			seen[name] = true
			if slot.enumerable() {
				names = append(names, name)
			}
		}
	}

	for _, name := range names {
		// A property deleted after the snapshot but before its turn is
		// dropped from the remaining enumeration (spec.md §9's
		// delete-during-iteration semantics, pinned by the test suite).
		if !hasPropertyAnywhere(target.AsObject(), name) {
			continue
		}
		f.forInBindingName = name
		f.Jump(bodyPC)
		if v, done := handleLoopBody(f, f.Next()); done {
			f.Jump(bodyPC)
			f.Skip()
			return v
		}
	}
	f.Jump(bodyPC)
	f.Skip()
	return Undefined()
}

func hasPropertyAnywhere(o *Object, name string) bool {
	if idx, ok := IndexFromKeyText(name); ok {
		for cur := o; cur != nil; cur = cur.Prototype {
			if _, ok := cur.GetElement(idx); ok {
				return true
			}
		}
		return false
	}
	slot, _ := o.Resolve(keys.Intern(name))
	return slot != nil
}

// opForInBindName pushes the current for-in iteration's key as a
// string Value, for the parser-generated assignment at the top of the
// loop body.
func opForInBindName(f *Frame, op *Op) Value {
	return charsValueFromGoString(f, f.forInBindingName)
}

// opCaseHeader is never dispatched through Next(); opSwitch reads its
// Value/position directly as clause metadata (op.Value's Integer payload
// is 1 for a `case` clause, 0 for `default`) the same way Skip() reads
// Width without invoking a handler. Its Native exists only so the Op is
// well-formed if something ever walks the list generically.
func opCaseHeader(f *Frame, op *Op) Value { return Undefined() }

// opSwitch implements switch/case/default with fallthrough. op.Value's
// Integer payload is the clause count. The discriminant is compared
// against each non-default clause's test via strict equality, in source
// order; the first match (or, failing that, the default clause) starts
// execution, which then runs every remaining clause body in sequence
// until a break or the switch's own end — fallthrough is simply "keep
// going," not a separate mechanism.
func opSwitch(f *Frame, op *Op) Value {
	clauseCount := int(op.Value.AsInteger())
	discriminant := f.Next()

	type clause struct {
		testPC, bodyPC int
		isDefault      bool
	}
	clauses := make([]clause, clauseCount)
	defaultIdx := -1

	pc := f.pc
	for i := 0; i < clauseCount; i++ {
		header := f.Ops[pc]
		isDefault := header.Value.AsInteger() == 0
		pc++
		testPC := 0
		if !isDefault {
			testPC = pc
			pc += f.Ops[pc].Width
		}
		bodyPC := pc
		pc += f.Ops[bodyPC].Width
		clauses[i] = clause{testPC: testPC, bodyPC: bodyPC, isDefault: isDefault}
		if isDefault {
			defaultIdx = i
		}
	}
	endPC := pc

	matchIdx := -1
	for i, c := range clauses {
		if c.isDefault {
			continue
		}
		f.Jump(c.testPC)
		if Identical(discriminant, f.Next()) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		matchIdx = defaultIdx
	}
	if matchIdx == -1 {
		f.Jump(endPC)
		return Undefined()
	}

	for i := matchIdx; i < clauseCount; i++ {
		f.Jump(clauses[i].bodyPC)
		v := f.Next()
		switch {
		case v.IsBreakBreaker():
			f.Jump(endPC)
			if v.BreakerLevels() == 0 {
				return Undefined()
			}
			return v.DecrementedBreaker()
		case v.IsContinueBreaker(), v.IsReturnBreaker():
			f.Jump(endPC)
			return v
		}
	}
	f.Jump(endPC)
	return Undefined()
}

// opBreak/opContinue build a breaker carrying the labeled depth the
// parser resolved at compile time (0 for the innermost loop).
func opBreak(f *Frame, op *Op) Value {
	return BreakBreaker(int(op.Value.AsInteger()))
}

func opContinue(f *Frame, op *Op) Value {
	return ContinueBreaker(int(op.Value.AsInteger()))
}

// opReturn wraps its operand (or Undefined, for a bare `return;`) in a
// return breaker. op.Value is a nonzero Integer when an expression
// follows.
func opReturn(f *Frame, op *Op) Value {
	if op.Value.AsInteger() == 0 {
		return ReturnBreaker(Undefined())
	}
	return ReturnBreaker(f.Next())
}
