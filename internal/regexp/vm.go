package regexp

// maxNodeDepth bounds recursion on a single node to catch pathological
// nested-repeat blowup, per spec.md §4.5's "the matcher refuses to
// recurse past 255 on a single node".
const maxNodeDepth = 255

// state is the matcher's per-search scratch: bounds, captures and the
// anti-backtrack bookkeeping that keeps a zero-width repeat from looping
// forever. Unlike spec.md §4.5's capture-indexed tombstone array, this
// implementation keys the tombstone by the loop header's program
// position (an OpRedo node, or the OpSplit heading a `*` loop) rather
// than by capture slot — a deliberate simplification
// (see DESIGN.md) that preserves the same termination guarantee without
// requiring every capture write to carry a owning-loop back-reference.
type state struct {
	prog  *Program
	input []byte

	captureStart []int
	captureEnd   []int
	matchEnd     int

	redoCount   map[int]int
	redoLastPos map[int]int
	depth       map[int]int
	loopPos     map[int]int
}

// Match describes one successful search.
type Match struct {
	Start, End int
	Groups     []Group // index 0 is the whole match
}

// Group is one capture's byte range within the subject, or Ok=false if
// that capture didn't participate in the match.
type Group struct {
	Start, End int
	Ok         bool
}

func newState(prog *Program, input []byte) *state {
	return &state{
		prog:         prog,
		input:        input,
		captureStart: make([]int, prog.CaptureCount),
		captureEnd:   make([]int, prog.CaptureCount),
		redoCount:    map[int]int{},
		redoLastPos:  map[int]int{},
		depth:        map[int]int{},
		loopPos:      map[int]int{},
	}
}

func (s *state) resetCaptures() {
	for i := range s.captureStart {
		s.captureStart[i] = -1
		s.captureEnd[i] = -1
	}
}

// Exec searches input starting at or after from for the leftmost match.
func Exec(prog *Program, input []byte, from int) *Match {
	for start := from; start <= len(input); start++ {
		st := newState(prog, input)
		st.resetCaptures()
		st.captureStart[0] = start
		if st.matchAt(0, start) {
			st.captureEnd[0] = st.matchEnd
			groups := make([]Group, prog.CaptureCount)
			for i := range groups {
				if st.captureStart[i] >= 0 && st.captureEnd[i] >= 0 {
					groups[i] = Group{Start: st.captureStart[i], End: st.captureEnd[i], Ok: true}
				}
			}
			return &Match{Start: start, End: st.matchEnd, Groups: groups}
		}
	}
	return nil
}

// matchEnd is set by matchAt when it reaches OpMatch; it's a field on
// state rather than a return value so the deeply recursive backtracking
// calls don't need to thread it through every frame.
func (s *state) setMatchEnd(pos int) { s.matchEnd = pos }

func (s *state) matchAt(pc, pos int) bool {
	if s.depth[pc] >= maxNodeDepth {
		return false
	}
	s.depth[pc]++
	defer func() { s.depth[pc]-- }()

	node := &s.prog.Nodes[pc]
	switch node.Op {
	case OpMatch:
		s.setMatchEnd(pos)
		return true
	case OpStart:
		if pos == 0 || (s.prog.Multiline && pos > 0 && s.input[pos-1] == '\n') {
			return s.matchAt(pc+1, pos)
		}
		return false
	case OpEnd:
		if pos == len(s.input) || (s.prog.Multiline && pos < len(s.input) && s.input[pos] == '\n') {
			return s.matchAt(pc+1, pos)
		}
		return false
	case OpBoundary, OpNotBoundary:
		atBoundary := s.isWordBoundary(pos)
		if atBoundary == (node.Op == OpBoundary) {
			return s.matchAt(pc+1, pos)
		}
		return false
	case OpAny:
		if pos < len(s.input) && s.input[pos] != '\n' {
			return s.matchAt(pc+1, pos+1)
		}
		return false
	case OpDigit, OpNotDigit, OpSpace, OpNotSpace, OpWord, OpNotWord:
		if pos < len(s.input) && classMatches(node.Op, s.input[pos]) {
			return s.matchAt(pc+1, pos+1)
		}
		return false
	case OpBytes:
		if matchLiteral(s.input, pos, node.Bytes, s.prog.IgnoreCase) {
			return s.matchAt(pc+1, pos+len(node.Bytes))
		}
		return false
	case OpClass:
		if pos < len(s.input) && classRangeMatches(node, rune(s.input[pos]), s.prog.IgnoreCase) {
			return s.matchAt(pc+1, pos+1)
		}
		return false
	case OpRef:
		return s.matchBackref(node, pc, pos)
	case OpSaveOpen:
		old := s.captureStart[node.Capture]
		s.captureStart[node.Capture] = pos
		if s.matchAt(pc+1, pos) {
			return true
		}
		s.captureStart[node.Capture] = old
		return false
	case OpSaveClose:
		old := s.captureEnd[node.Capture]
		s.captureEnd[node.Capture] = pos
		if s.matchAt(pc+1, pos) {
			return true
		}
		s.captureEnd[node.Capture] = old
		return false
	case OpJump:
		// The back-edge of a `*` loop refuses an iteration that consumed
		// nothing since its OpSplit header was entered.
		if last, ok := s.loopPos[node.Next]; ok && node.Next < pc && last == pos {
			return false
		}
		return s.matchAt(node.Next, pos)
	case OpSplit:
		prevPos, hadPrev := s.loopPos[pc]
		s.loopPos[pc] = pos
		defer func() {
			if hadPrev {
				s.loopPos[pc] = prevPos
			} else {
				delete(s.loopPos, pc)
			}
		}()
		// The generator already put a lazy split's preferred arm in Next.
		first, second := node.Next, node.Alt
		if s.matchAt(first, pos) {
			return true
		}
		return s.matchAt(second, pos)
	case OpRedo:
		return s.matchRedo(node, pc, pos)
	case OpLookahead:
		return s.matchLookahead(node, pos, true)
	case OpNLookahead:
		return s.matchLookahead(node, pos, false)
	default:
		return false
	}
}

func (s *state) matchLookahead(node *Node, pos int, want bool) bool {
	savedStart := append([]int(nil), s.captureStart...)
	savedEnd := append([]int(nil), s.captureEnd...)
	ok := s.matchAt(node.Body, pos)
	if ok != want {
		copy(s.captureStart, savedStart)
		copy(s.captureEnd, savedEnd)
		return false
	}
	if ok {
		// Positive lookahead keeps captures set inside it; negative
		// lookahead never reaches here with ok==true.
	}
	return s.matchAt(node.Next, pos)
}

func (s *state) matchRedo(node *Node, pc, pos int) bool {
	count := s.redoCount[pc]
	lastPos, hadLast := s.redoLastPos[pc]

	tryLoop := func() bool {
		if !(count < node.Max || node.Max < 0) {
			return false
		}
		if hadLast && lastPos == pos && count > 0 {
			return false
		}
		savedStarts := make(map[int]int, len(node.Clears))
		savedEnds := make(map[int]int, len(node.Clears))
		for _, ci := range node.Clears {
			savedStarts[ci] = s.captureStart[ci]
			savedEnds[ci] = s.captureEnd[ci]
			s.captureStart[ci] = -1
			s.captureEnd[ci] = -1
		}
		s.redoCount[pc] = count + 1
		prevLast, prevHad := lastPos, hadLast
		s.redoLastPos[pc] = pos
		if s.matchAt(node.Body, pos) {
			return true
		}
		s.redoCount[pc] = count
		if prevHad {
			s.redoLastPos[pc] = prevLast
		} else {
			delete(s.redoLastPos, pc)
		}
		for _, ci := range node.Clears {
			s.captureStart[ci] = savedStarts[ci]
			s.captureEnd[ci] = savedEnds[ci]
		}
		return false
	}
	tryExit := func() bool {
		if count < node.Min {
			return false
		}
		return s.matchAt(node.Next, pos)
	}

	if !node.Lazy {
		if tryLoop() {
			return true
		}
		return tryExit()
	}
	if tryExit() {
		return true
	}
	return tryLoop()
}

func (s *state) matchBackref(node *Node, pc, pos int) bool {
	start, end := s.captureStart[node.Capture], s.captureEnd[node.Capture]
	if start < 0 || end < 0 {
		// An unmatched group's backreference matches the empty string.
		return s.matchAt(pc+1, pos)
	}
	ref := s.input[start:end]
	if matchLiteral(s.input, pos, ref, s.prog.IgnoreCase) {
		return s.matchAt(pc+1, pos+len(ref))
	}
	return false
}

func (s *state) isWordBoundary(pos int) bool {
	before := pos > 0 && isWordByte(s.input[pos-1])
	after := pos < len(s.input) && isWordByte(s.input[pos])
	return before != after
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func classMatches(op OpCode, b byte) bool {
	switch op {
	case OpDigit:
		return b >= '0' && b <= '9'
	case OpNotDigit:
		return !(b >= '0' && b <= '9')
	case OpSpace:
		return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
	case OpNotSpace:
		return !(b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v')
	case OpWord:
		return isWordByte(b)
	case OpNotWord:
		return !isWordByte(b)
	}
	return false
}

func classRangeMatches(node *Node, r rune, ignoreCase bool) bool {
	in := rangesContain(node.Ranges, r)
	if !in && ignoreCase {
		in = rangesContain(node.Ranges, foldRune(r))
	}
	if node.Negate {
		return !in
	}
	return in
}

func rangesContain(ranges []Range, r rune) bool {
	for _, rg := range ranges {
		if r >= rg.Lo && r <= rg.Hi {
			return true
		}
	}
	return false
}

func foldRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r - 'a' + 'A'
	case r >= 'A' && r <= 'Z':
		return r - 'A' + 'a'
	default:
		return r
	}
}

func matchLiteral(input []byte, pos int, lit []byte, ignoreCase bool) bool {
	if pos+len(lit) > len(input) {
		return false
	}
	for i, b := range lit {
		c := input[pos+i]
		if c == b {
			continue
		}
		if ignoreCase && foldRune(rune(c)) == rune(b) {
			continue
		}
		return false
	}
	return true
}
