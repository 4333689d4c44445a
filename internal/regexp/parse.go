package regexp

import (
	"fmt"
)

// parser turns a pattern string into an ast, tracking the number of
// capturing groups seen so Program.CaptureCount can be sized.
type parser struct {
	src      []rune
	pos      int
	captures int
}

// Compile parses pattern and lowers it to an executable Program. flags
// may contain any of "g", "i", "m"; unknown flag letters are a compile
// error, mirroring the lexer's rule (spec.md §4.1) that a regex literal's
// trailing letters must all be recognized flags.
func Compile(pattern, flags string) (*Program, error) {
	p := &parser{src: []rune(pattern)}
	tree, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("regexp: unexpected %q at %d", p.src[p.pos], p.pos)
	}

	prog := &Program{CaptureCount: p.captures + 1}
	for _, f := range flags {
		switch f {
		case 'i':
			prog.IgnoreCase = true
		case 'm':
			prog.Multiline = true
		case 'g':
			// global flag is stateful (lastIndex) behavior owned by the
			// engine's RegExp object, not the compiled program.
		default:
			return nil, fmt.Errorf("regexp: invalid flag %q", f)
		}
	}
	generate(prog, tree)
	emit(prog, Node{Op: OpMatch})
	return prog, nil
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) next() (rune, bool) {
	r, ok := p.peek()
	if ok {
		p.pos++
	}
	return r, ok
}

func (p *parser) parseAlt() (ast, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	branches := []ast{first}
	for {
		c, ok := p.peek()
		if !ok || c != '|' {
			break
		}
		p.pos++
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}
	if len(branches) == 1 {
		return first, nil
	}
	return &astAlt{branches: branches}, nil
}

func (p *parser) parseConcat() (ast, error) {
	var parts []ast
	for {
		c, ok := p.peek()
		if !ok || c == '|' || c == ')' {
			break
		}
		part, err := p.parseQuantified()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &astConcat{parts: parts}, nil
}

func (p *parser) parseQuantified() (ast, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	c, ok := p.peek()
	if !ok {
		return atom, nil
	}
	var min, max int
	switch c {
	case '*':
		min, max = 0, -1
		p.pos++
	case '+':
		min, max = 1, -1
		p.pos++
	case '?':
		min, max = 0, 1
		p.pos++
	case '{':
		save := p.pos
		m, n, ok := p.tryParseBounds()
		if !ok {
			p.pos = save
			return atom, nil
		}
		min, max = m, n
	default:
		return atom, nil
	}
	lazy := false
	if c2, ok := p.peek(); ok && c2 == '?' {
		lazy = true
		p.pos++
	}
	return &astRepeat{body: atom, min: min, max: max, lazy: lazy}, nil
}

// tryParseBounds parses "{m}", "{m,}" or "{m,n}" at the current '{'.
func (p *parser) tryParseBounds() (min, max int, ok bool) {
	pos := p.pos
	if pos >= len(p.src) || p.src[pos] != '{' {
		return 0, 0, false
	}
	pos++
	start := pos
	for pos < len(p.src) && p.src[pos] >= '0' && p.src[pos] <= '9' {
		pos++
	}
	if pos == start {
		return 0, 0, false
	}
	min = parseDigits(p.src[start:pos])
	max = min
	if pos < len(p.src) && p.src[pos] == ',' {
		pos++
		start = pos
		for pos < len(p.src) && p.src[pos] >= '0' && p.src[pos] <= '9' {
			pos++
		}
		if pos == start {
			max = -1
		} else {
			max = parseDigits(p.src[start:pos])
		}
	}
	if pos >= len(p.src) || p.src[pos] != '}' {
		return 0, 0, false
	}
	p.pos = pos + 1
	return min, max, true
}

func parseDigits(rs []rune) int {
	n := 0
	for _, r := range rs {
		n = n*10 + int(r-'0')
	}
	return n
}

func (p *parser) parseAtom() (ast, error) {
	c, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("regexp: unexpected end of pattern")
	}
	switch c {
	case '^':
		return &astAnchor{op: OpStart}, nil
	case '$':
		return &astAnchor{op: OpEnd}, nil
	case '.':
		return &astAny{}, nil
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '\\':
		return p.parseEscape()
	case '*', '+', '?':
		return nil, fmt.Errorf("regexp: quantifier with nothing to repeat")
	default:
		return &astLiteral{bytes: []byte(string(c))}, nil
	}
}

func (p *parser) parseGroup() (ast, error) {
	capture := 0
	negLook := false
	isLook := false
	if c, ok := p.peek(); ok && c == '?' {
		p.pos++
		c2, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("regexp: unterminated group")
		}
		switch c2 {
		case ':':
			// non-capturing
		case '=':
			isLook = true
		case '!':
			isLook = true
			negLook = true
		default:
			return nil, fmt.Errorf("regexp: unsupported group modifier (?%c", c2)
		}
	} else {
		p.captures++
		capture = p.captures
	}
	body, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if c, ok := p.next(); !ok || c != ')' {
		return nil, fmt.Errorf("regexp: unterminated group")
	}
	if isLook {
		return &astLookahead{body: body, negate: negLook}, nil
	}
	return &astGroup{body: body, capture: capture}, nil
}

func (p *parser) parseClass() (ast, error) {
	negate := false
	if c, ok := p.peek(); ok && c == '^' {
		negate = true
		p.pos++
	}
	var ranges []Range
	first := true
	for {
		c, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("regexp: unterminated character class")
		}
		if c == ']' && !first {
			break
		}
		first = false
		var lo rune
		if c == '\\' {
			esc, ok := p.next()
			if !ok {
				return nil, fmt.Errorf("regexp: unterminated escape in class")
			}
			switch esc {
			case 'd':
				ranges = append(ranges, Range{'0', '9'})
				continue
			case 'D':
				ranges = append(ranges, Range{0, '0' - 1}, Range{'9' + 1, 0x10FFFF})
				continue
			case 'w':
				ranges = append(ranges, wordRanges...)
				continue
			case 'W':
				ranges = append(ranges, negateRanges(wordRanges)...)
				continue
			case 's':
				ranges = append(ranges, spaceRanges...)
				continue
			case 'S':
				ranges = append(ranges, negateRanges(spaceRanges)...)
				continue
			default:
				lo = decodeClassEscape(esc)
			}
		} else {
			lo = c
		}
		hi := lo
		if c2, ok := p.peek(); ok && c2 == '-' {
			savedPos := p.pos
			p.pos++
			if c3, ok3 := p.peek(); ok3 && c3 != ']' {
				end, ok4 := p.next()
				if !ok4 {
					return nil, fmt.Errorf("regexp: unterminated character class")
				}
				if end == '\\' {
					esc, ok5 := p.next()
					if !ok5 {
						return nil, fmt.Errorf("regexp: unterminated escape in class")
					}
					end = decodeClassEscape(esc)
				}
				hi = end
			} else {
				p.pos = savedPos
			}
		}
		ranges = append(ranges, Range{lo, hi})
	}
	return &astClass{ranges: ranges, negate: negate}, nil
}

func decodeClassEscape(esc rune) rune {
	switch esc {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	case 'b':
		return '\b'
	case '0':
		return 0
	default:
		return esc
	}
}

var wordRanges = []Range{{'a', 'z'}, {'A', 'Z'}, {'0', '9'}, {'_', '_'}}
var spaceRanges = []Range{{' ', ' '}, {'\t', '\t'}, {'\n', '\n'}, {'\r', '\r'}, {'\f', '\f'}, {'\v', '\v'}}

// negateRanges computes the complement of a sorted, non-overlapping range
// set against the full rune space; used for \W and \S inside [...] where
// the surrounding class can't itself carry OpNotWord/OpNotSpace.
func negateRanges(rs []Range) []Range {
	var out []Range
	lo := rune(0)
	for _, r := range rs {
		if r.Lo > lo {
			out = append(out, Range{lo, r.Lo - 1})
		}
		if r.Hi+1 > lo {
			lo = r.Hi + 1
		}
	}
	out = append(out, Range{lo, 0x10FFFF})
	return out
}

func (p *parser) parseEscape() (ast, error) {
	c, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("regexp: trailing backslash")
	}
	switch c {
	case 'd':
		return &astPerlClass{op: OpDigit}, nil
	case 'D':
		return &astPerlClass{op: OpNotDigit}, nil
	case 'w':
		return &astPerlClass{op: OpWord}, nil
	case 'W':
		return &astPerlClass{op: OpNotWord}, nil
	case 's':
		return &astPerlClass{op: OpSpace}, nil
	case 'S':
		return &astPerlClass{op: OpNotSpace}, nil
	case 'b':
		return &astBoundary{negate: false}, nil
	case 'B':
		return &astBoundary{negate: true}, nil
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n := int(c - '0')
		for c2, ok := p.peek(); ok && c2 >= '0' && c2 <= '9'; c2, ok = p.peek() {
			n = n*10 + int(c2-'0')
			p.pos++
		}
		return &astBackref{n: n}, nil
	default:
		return &astLiteral{bytes: []byte(string(decodeClassEscape(c)))}, nil
	}
}
