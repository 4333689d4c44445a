package regexp

// generate lowers one ast node into prog.Nodes in execution order,
// appending as it goes and patching forward-branch targets once the
// branch's extent is known — the recursive analogue of the parser's
// forward-label patching (spec.md §4.2's peephole/branch-resolution
// idiom, here applied at pattern-compile time instead of script-compile
// time).
func generate(prog *Program, node ast) {
	switch n := node.(type) {
	case *astConcat:
		for _, part := range n.parts {
			generate(prog, part)
		}
	case *astAlt:
		generateAlt(prog, n.branches)
	case *astLiteral:
		emit(prog, Node{Op: OpBytes, Bytes: n.bytes})
	case *astAny:
		emit(prog, Node{Op: OpAny})
	case *astClass:
		emit(prog, Node{Op: OpClass, Ranges: n.ranges, Negate: n.negate})
	case *astPerlClass:
		emit(prog, Node{Op: n.op})
	case *astAnchor:
		emit(prog, Node{Op: n.op})
	case *astBoundary:
		if n.negate {
			emit(prog, Node{Op: OpNotBoundary})
		} else {
			emit(prog, Node{Op: OpBoundary})
		}
	case *astGroup:
		if n.capture == 0 {
			generate(prog, n.body)
			return
		}
		emit(prog, Node{Op: OpSaveOpen, Capture: n.capture})
		generate(prog, n.body)
		emit(prog, Node{Op: OpSaveClose, Capture: n.capture})
	case *astBackref:
		emit(prog, Node{Op: OpRef, Capture: n.n})
	case *astLookahead:
		op := OpLookahead
		if n.negate {
			op = OpNLookahead
		}
		idx := emit(prog, Node{Op: op})
		prog.Nodes[idx].Body = len(prog.Nodes)
		generate(prog, n.body)
		emit(prog, Node{Op: OpMatch})
		prog.Nodes[idx].Next = len(prog.Nodes)
	case *astRepeat:
		generateRepeat(prog, n)
	default:
		panic("regexp: unhandled ast node in generate")
	}
}

func emit(prog *Program, n Node) int {
	prog.Nodes = append(prog.Nodes, n)
	return len(prog.Nodes) - 1
}

// generateAlt lowers N branches into a right-leaning chain of splits, one
// per branch boundary, matching the teacher's preference for iterative
// rather than balanced-tree code generation when order doesn't matter.
func generateAlt(prog *Program, branches []ast) {
	if len(branches) == 1 {
		generate(prog, branches[0])
		return
	}
	splitIdx := emit(prog, Node{Op: OpSplit})
	prog.Nodes[splitIdx].Next = len(prog.Nodes)
	generate(prog, branches[0])
	jumpIdx := emit(prog, Node{Op: OpJump})
	prog.Nodes[splitIdx].Alt = len(prog.Nodes)
	generateAlt(prog, branches[1:])
	prog.Nodes[jumpIdx].Next = len(prog.Nodes)
}

func generateRepeat(prog *Program, n *astRepeat) {
	switch {
	case n.min == 0 && n.max == 1:
		generateQuest(prog, n.body, n.lazy)
	case n.min == 0 && n.max < 0:
		generateStar(prog, n.body, n.lazy)
	case n.min == 1 && n.max < 0:
		generatePlus(prog, n.body, n.lazy)
	default:
		generateRedo(prog, n.body, n.min, n.max, n.lazy)
	}
}

func generateQuest(prog *Program, body ast, lazy bool) {
	splitIdx := emit(prog, Node{Op: OpSplit, Lazy: lazy})
	bodyStart := len(prog.Nodes)
	generate(prog, body)
	end := len(prog.Nodes)
	if !lazy {
		prog.Nodes[splitIdx].Next, prog.Nodes[splitIdx].Alt = bodyStart, end
	} else {
		prog.Nodes[splitIdx].Next, prog.Nodes[splitIdx].Alt = end, bodyStart
	}
}

func generateStar(prog *Program, body ast, lazy bool) {
	splitIdx := emit(prog, Node{Op: OpSplit, Lazy: lazy})
	bodyStart := len(prog.Nodes)
	generate(prog, body)
	jumpIdx := emit(prog, Node{Op: OpJump})
	prog.Nodes[jumpIdx].Next = splitIdx
	end := len(prog.Nodes)
	if !lazy {
		prog.Nodes[splitIdx].Next, prog.Nodes[splitIdx].Alt = bodyStart, end
	} else {
		prog.Nodes[splitIdx].Next, prog.Nodes[splitIdx].Alt = end, bodyStart
	}
}

func generatePlus(prog *Program, body ast, lazy bool) {
	bodyStart := len(prog.Nodes)
	generate(prog, body)
	splitIdx := emit(prog, Node{Op: OpSplit, Lazy: lazy})
	end := len(prog.Nodes)
	if !lazy {
		prog.Nodes[splitIdx].Next, prog.Nodes[splitIdx].Alt = bodyStart, end
	} else {
		prog.Nodes[splitIdx].Next, prog.Nodes[splitIdx].Alt = end, bodyStart
	}
}

// generateRedo lowers a bounded {m,n} quantifier to a single OpRedo loop
// header rather than unrolling, per spec.md §4.5: "{m,n} → body + redo
// (min=m, max=n)... The redo op tracks its own iteration count and clears
// the capture slots of any bracket within the repeated body".
func generateRedo(prog *Program, body ast, min, max int, lazy bool) {
	redoIdx := emit(prog, Node{Op: OpRedo, Min: min, Max: max, Lazy: lazy, Clears: collectCaptures(body)})
	prog.Nodes[redoIdx].Body = len(prog.Nodes)
	generate(prog, body)
	jumpBack := emit(prog, Node{Op: OpJump})
	prog.Nodes[jumpBack].Next = redoIdx
	prog.Nodes[redoIdx].Next = len(prog.Nodes)
}

// collectCaptures walks body for astGroup capture indices so the loop
// header knows which capture slots to reset on each iteration.
func collectCaptures(node ast) []int {
	var out []int
	var walk func(ast)
	walk = func(n ast) {
		switch v := n.(type) {
		case *astConcat:
			for _, p := range v.parts {
				walk(p)
			}
		case *astAlt:
			for _, b := range v.branches {
				walk(b)
			}
		case *astGroup:
			if v.capture != 0 {
				out = append(out, v.capture)
			}
			walk(v.body)
		case *astLookahead:
			walk(v.body)
		case *astRepeat:
			walk(v.body)
		}
	}
	walk(node)
	return out
}
