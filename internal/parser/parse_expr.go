package parser

import (
	"github.com/emberlang/ember/internal/lexer"
)

// parseExpression is the comma operator: the widest expression grammar,
// used wherever a statement wants "any expression" (expression
// statements, for-loop clauses outside the init slot).
func (p *Parser) parseExpression(noIn bool) (Node, error) {
	start := p.cur.Text
	first, err := p.parseAssignExpr(noIn)
	if err != nil {
		return nil, err
	}
	if !p.isPunct(",") {
		return first, nil
	}
	exprs := []Node{first}
	for p.isPunct(",") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseAssignExpr(noIn)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	return &SequenceExpr{base{start}, exprs}, nil
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true, "^=": true,
}

// parseAssignExpr parses a conditional expression and, if followed by
// an assignment operator, wraps it as the target of an AssignExpr — the
// grammar's assignment tier binds right-associatively, one level above
// the ternary.
func (p *Parser) parseAssignExpr(noIn bool) (Node, error) {
	start := p.cur.Text
	left, err := p.parseConditional(noIn)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.Punct || !assignOps[p.cur.Raw] {
		return left, nil
	}
	op := p.cur.Raw
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAssignExpr(noIn)
	if err != nil {
		return nil, err
	}
	if !isAssignable(left) {
		return nil, p.syntaxErr("invalid assignment target")
	}
	return &AssignExpr{base{start}, op, left, right}, nil
}

func isAssignable(n Node) bool {
	switch n.(type) {
	case *Ident, *MemberExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseConditional(noIn bool) (Node, error) {
	start := p.cur.Text
	test, err := p.parseLogicalOr(noIn)
	if err != nil {
		return nil, err
	}
	if !p.isPunct("?") {
		return test, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseAssignExpr(false)
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseAssignExpr(noIn)
	if err != nil {
		return nil, err
	}
	return &ConditionalExpr{base{start}, test, thenExpr, elseExpr}, nil
}

func (p *Parser) parseLogicalOr(noIn bool) (Node, error) {
	left, err := p.parseLogicalAnd(noIn)
	if err != nil {
		return nil, err
	}
	for p.isPunct("||") {
		start := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseLogicalAnd(noIn)
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{base{start}, "||", left, right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd(noIn bool) (Node, error) {
	left, err := p.parseBitOr(noIn)
	if err != nil {
		return nil, err
	}
	for p.isPunct("&&") {
		start := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBitOr(noIn)
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{base{start}, "&&", left, right}
	}
	return left, nil
}

// binaryTier builds one left-associative binary-operator precedence
// level: try each op in ops at the current token, and if matched,
// consume it and recurse into next for the right operand.
func (p *Parser) binaryTier(noIn bool, next func(bool) (Node, error), ops ...string) (Node, error) {
	left, err := next(noIn)
	if err != nil {
		return nil, err
	}
	for {
		matched := ""
		if p.cur.Kind == lexer.Punct {
			for _, o := range ops {
				if p.cur.Raw == o {
					matched = o
					break
				}
			}
		}
		if matched == "" {
			return left, nil
		}
		start := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next(noIn)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base{start}, matched, left, right}
	}
}

func (p *Parser) parseBitOr(noIn bool) (Node, error) {
	return p.binaryTier(noIn, p.parseBitXor, "|")
}
func (p *Parser) parseBitXor(noIn bool) (Node, error) {
	return p.binaryTier(noIn, p.parseBitAnd, "^")
}
func (p *Parser) parseBitAnd(noIn bool) (Node, error) {
	return p.binaryTier(noIn, p.parseEquality, "&")
}
func (p *Parser) parseEquality(noIn bool) (Node, error) {
	return p.binaryTier(noIn, p.parseRelational, "===", "!==", "==", "!=")
}

// parseRelational handles the one context-sensitive operator in the
// ladder: `in` is a valid relational operator except directly inside a
// for-loop's init clause, where it would be ambiguous with `for (x in
// obj)` — noIn suppresses it there (spec.md §4.2).
func (p *Parser) parseRelational(noIn bool) (Node, error) {
	left, err := p.parseShift(noIn)
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.isPunct("<="), p.isPunct(">="), p.isPunct("<"), p.isPunct(">"):
			op = p.cur.Raw
		case p.isKeyword("instanceof"):
			op = "instanceof"
		case !noIn && p.isKeyword("in"):
			op = "in"
		default:
			return left, nil
		}
		start := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseShift(noIn)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base{start}, op, left, right}
	}
}

func (p *Parser) parseShift(noIn bool) (Node, error) {
	return p.binaryTier(noIn, p.parseAdditive, "<<", ">>", ">>>")
}
func (p *Parser) parseAdditive(noIn bool) (Node, error) {
	return p.binaryTier(noIn, p.parseMultiplicative, "+", "-")
}
func (p *Parser) parseMultiplicative(noIn bool) (Node, error) {
	return p.binaryTier(noIn, p.parseUnary, "*", "/", "%")
}

var unaryOps = map[string]bool{"+": true, "-": true, "~": true, "!": true}

func (p *Parser) parseUnary(noIn bool) (Node, error) {
	start := p.cur.Text
	switch {
	case p.isKeyword("delete"), p.isKeyword("void"), p.isKeyword("typeof"):
		op := p.cur.Raw
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary(noIn)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{base{start}, op, operand, true}, nil
	case p.isPunct("++"), p.isPunct("--"):
		op := p.cur.Raw
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary(noIn)
		if err != nil {
			return nil, err
		}
		if !isAssignable(operand) {
			return nil, p.syntaxErr("invalid increment/decrement target")
		}
		return &UpdateExpr{base{start}, op, true, operand}, nil
	case p.cur.Kind == lexer.Punct && unaryOps[p.cur.Raw]:
		op := p.cur.Raw
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary(noIn)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{base{start}, op, operand, true}, nil
	default:
		return p.parsePostfix(noIn)
	}
}

func (p *Parser) parsePostfix(noIn bool) (Node, error) {
	operand, err := p.parseLeftHandSide(noIn)
	if err != nil {
		return nil, err
	}
	// Postfix ++/-- must sit on the same line as their operand (the
	// third restricted production), so `a\n++b` parses as two statements.
	if (p.isPunct("++") || p.isPunct("--")) && !p.cur.DidLineBreak {
		if !isAssignable(operand) {
			return nil, p.syntaxErr("invalid increment/decrement target")
		}
		op := p.cur.Raw
		start := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &UpdateExpr{base{start}, op, false, operand}, nil
	}
	return operand, nil
}

// parseLeftHandSide implements the new/member/call tier uniformly: it
// walks `new`, `.name`, `[expr]` and `(args)` suffixes in source order,
// building MemberExpr/CallExpr/NewExpr nodes outside-in as it goes —
// compile.go's pre-order walk takes care of turning that into the
// op list's head-first encoding later.
func (p *Parser) parseLeftHandSide(noIn bool) (Node, error) {
	var expr Node
	var err error
	if p.isKeyword("new") {
		expr, err = p.parseNewExpr()
	} else {
		expr, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("."):
			start := p.cur.Text
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, nameSpan, err := p.expectIdentName()
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{base{start}, expr, &Ident{base{nameSpan}, name}, false}
		case p.isPunct("["):
			start := p.cur.Text
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.parseExpression(false)
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			expr = &MemberExpr{base{start}, expr, key, true}
		case p.isPunct("("):
			start := p.cur.Text
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &CallExpr{base{start}, expr, args}
		default:
			return expr, nil
		}
	}
}

// parseNewExpr parses `new Callee(args)` or a bare `new Callee`
// (equivalent to zero args), including chained `new` (`new new F()`)
// via recursing back into parseLeftHandSide-style member access on the
// callee before looking for the argument list.
func (p *Parser) parseNewExpr() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil { // 'new'
		return nil, err
	}
	var callee Node
	var err error
	if p.isKeyword("new") {
		callee, err = p.parseNewExpr()
	} else {
		callee, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, nameSpan, err := p.expectIdentName()
			if err != nil {
				return nil, err
			}
			callee = &MemberExpr{base{nameSpan}, callee, &Ident{base{nameSpan}, name}, false}
		case p.isPunct("["):
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.parseExpression(false)
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			callee = &MemberExpr{base{start}, callee, key, true}
		default:
			goto doneMember
		}
	}
doneMember:
	var args []Node
	if p.isPunct("(") {
		args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
	}
	return &NewExpr{base{start}, callee, args}, nil
}

func (p *Parser) parseArguments() ([]Node, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []Node
	for !p.isPunct(")") {
		arg, err := p.parseAssignExpr(false)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return args, p.advance()
}

func (p *Parser) parsePrimary() (Node, error) {
	start := p.cur.Text
	switch {
	case p.isKeyword("this"):
		return &ThisExpr{base{start}}, p.advance()
	case p.isKeyword("null"):
		return &NullLit{base{start}}, p.advance()
	case p.isKeyword("true"):
		return &BoolLit{base{start}, true}, p.advance()
	case p.isKeyword("false"):
		return &BoolLit{base{start}, false}, p.advance()
	case p.isKeyword("function"):
		fn, err := p.parseFunctionRest(false)
		if err != nil {
			return nil, err
		}
		return fn, nil
	case p.cur.Kind == lexer.Ident:
		name := p.cur.Raw
		p.noteIdentUse(name)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Ident{base{start}, name}, nil
	case p.cur.Kind == lexer.NumberInt, p.cur.Kind == lexer.NumberFloat:
		v := p.cur.NumberValue
		return &NumberLit{base{start}, v}, p.advance()
	case p.cur.Kind == lexer.String:
		lit := &StringLit{base: base{start}, IsRaw: p.cur.StringRaw}
		if p.cur.StringRaw {
			lit.Raw = p.cur.Text
		} else {
			lit.Bytes = p.cur.StringChars
		}
		return lit, p.advance()
	case p.cur.Kind == lexer.Regex:
		pattern, flags := splitRegexRaw(p.cur.Raw)
		return &RegexLit{base{start}, pattern, flags}, p.advance()
	case p.isPunct("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(false)
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return expr, nil
	case p.isPunct("["):
		return p.parseArrayLit()
	case p.isPunct("{"):
		return p.parseObjectLit()
	default:
		return nil, p.syntaxErr("unexpected token")
	}
}

func splitRegexRaw(raw string) (pattern, flags string) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == 0 {
			return raw[:i], raw[i+1:]
		}
	}
	return raw, ""
}

func (p *Parser) parseArrayLit() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	var elems []Node
	for !p.isPunct("]") {
		if p.isPunct(",") {
			elems = append(elems, nil)
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		el, err := p.parseAssignExpr(false)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ArrayLit{base{start}, elems}, nil
}

func (p *Parser) parseObjectLit() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	var props []ObjectProp
	for !p.isPunct("}") {
		var key Node
		switch {
		case p.cur.Kind == lexer.String:
			lit := &StringLit{base: base{p.cur.Text}, IsRaw: p.cur.StringRaw}
			if p.cur.StringRaw {
				lit.Raw = p.cur.Text
			} else {
				lit.Bytes = p.cur.StringChars
			}
			key = lit
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.cur.Kind == lexer.NumberInt, p.cur.Kind == lexer.NumberFloat:
			key = &NumberLit{base{p.cur.Text}, p.cur.NumberValue}
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.cur.Kind == lexer.Ident, p.cur.Kind == lexer.Keyword, p.cur.Kind == lexer.Reserved:
			key = &Ident{base{p.cur.Text}, p.cur.Raw}
			if err := p.advance(); err != nil {
				return nil, err
			}
		default:
			return nil, p.syntaxErr("expected property name")
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		val, err := p.parseAssignExpr(false)
		if err != nil {
			return nil, err
		}
		props = append(props, ObjectProp{Key: key, Value: val})
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ObjectLit{base{start}, props}, nil
}
