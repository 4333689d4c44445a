package parser

import (
	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/lexer"
	"github.com/emberlang/ember/internal/text"
)

// scopeInfo tracks the two scope facts parse.go collects while walking
// a single function's (or the program's) direct statement tree, per
// spec.md §4.2: referencing `arguments` or seeing a nested function
// literal forces that information up onto the enclosing FunctionBody.
type scopeInfo struct {
	needArguments bool
	needHeap      bool
}

// Parser turns a token stream into an AST. It buffers exactly one token
// of lookahead beyond the current token, which is all this grammar's
// ambiguities need (labeled statement vs. expression statement,
// `function` declaration vs. expression in statement position).
type Parser struct {
	in     *text.Input
	lex    *lexer.Lexer
	cur    lexer.Token
	peek   lexer.Token
	peekOk bool

	strict bool
	scopes []*scopeInfo
}

// New builds a Parser over in, ready to produce a Program via
// ParseProgram.
func New(in *text.Input, strict bool) (*Parser, error) {
	p := &Parser{in: in, lex: lexer.New(in), strict: strict}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) syntaxErr(msg string) error {
	return &errkit.EngineError{Kind: errkit.Syntax, Message: msg, At: p.cur.Text}
}

// advance consumes p.cur and lexes the next token into it.
func (p *Parser) advance() error {
	if p.peekOk {
		p.cur = p.peek
		p.peekOk = false
		return nil
	}
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) lookahead() (lexer.Token, error) {
	if !p.peekOk {
		tok, err := p.lex.Next()
		if err != nil {
			return lexer.Token{}, err
		}
		p.peek = tok
		p.peekOk = true
	}
	return p.peek, nil
}

func (p *Parser) isPunct(s string) bool {
	return p.cur.Kind == lexer.Punct && p.cur.Raw == s
}

func (p *Parser) isKeyword(s string) bool {
	return p.cur.Kind == lexer.Keyword && p.cur.Raw == s
}

func (p *Parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.syntaxErr("expected '" + s + "'")
	}
	return p.advance()
}

func (p *Parser) expectKeyword(s string) error {
	if !p.isKeyword(s) {
		return p.syntaxErr("expected '" + s + "'")
	}
	return p.advance()
}

// expectSemicolon consumes a statement terminator, applying the classic
// automatic-insertion rule: an explicit `;` is eaten; otherwise a `}` or
// end of input or a line terminator before the current token counts as a
// virtual semicolon and nothing is consumed.
func (p *Parser) expectSemicolon() error {
	if p.isPunct(";") {
		return p.advance()
	}
	if p.cur.Kind == lexer.EOF || p.isPunct("}") || p.cur.DidLineBreak {
		return nil
	}
	return p.syntaxErr("expected ';'")
}

func (p *Parser) expectIdentName() (string, text.Slice, error) {
	if p.cur.Kind != lexer.Ident {
		return "", text.Slice{}, p.syntaxErr("expected identifier")
	}
	name, span := p.cur.Raw, p.cur.Text
	return name, span, p.advance()
}

func (p *Parser) pushScope() { p.scopes = append(p.scopes, &scopeInfo{}) }
func (p *Parser) popScope() *scopeInfo {
	s := p.scopes[len(p.scopes)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]
	return s
}
func (p *Parser) curScope() *scopeInfo {
	if len(p.scopes) == 0 {
		return nil
	}
	return p.scopes[len(p.scopes)-1]
}

func (p *Parser) noteIdentUse(name string) {
	if name == "arguments" {
		if s := p.curScope(); s != nil {
			s.needArguments = true
		}
	}
}

func (p *Parser) noteNestedFunction() {
	if s := p.curScope(); s != nil {
		s.needHeap = true
	}
}

// ParseProgram consumes the whole input as a top-level script.
func ParseProgram(in *text.Input, strict bool) (*Program, error) {
	p, err := New(in, strict)
	if err != nil {
		return nil, err
	}
	p.pushScope()
	start := p.cur.Text
	var body []Node
	for p.cur.Kind != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.popScope()
	return &Program{base: base{start}, Body: body}, nil
}

// --- statements ---

func (p *Parser) parseStatement() (Node, error) {
	switch {
	case p.isPunct("{"):
		return p.parseBlock()
	case p.isKeyword("var"):
		return p.parseVarStatement()
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("do"):
		return p.parseDoWhile()
	case p.isKeyword("while"):
		return p.parseWhile()
	case p.isKeyword("for"):
		return p.parseFor()
	case p.isKeyword("continue"):
		return p.parseContinue()
	case p.isKeyword("break"):
		return p.parseBreak()
	case p.isKeyword("return"):
		return p.parseReturn()
	case p.isKeyword("with"):
		return p.parseWith()
	case p.isKeyword("switch"):
		return p.parseSwitch()
	case p.isKeyword("throw"):
		return p.parseThrow()
	case p.isKeyword("try"):
		return p.parseTry()
	case p.isKeyword("debugger"):
		return p.parseDebugger()
	case p.isKeyword("function"):
		return p.parseFunctionDecl()
	case p.isPunct(";"):
		start := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &EmptyStmt{base{start}}, nil
	case p.cur.Kind == lexer.Ident:
		return p.parseIdentLeadStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseIdentLeadStatement resolves the one real ambiguity in statement
// position: `ident:` is a label, anything else starting with an
// identifier is an expression statement.
func (p *Parser) parseIdentLeadStatement() (Node, error) {
	next, err := p.lookahead()
	if err != nil {
		return nil, err
	}
	if next.Kind == lexer.Punct && next.Raw == ":" {
		start := p.cur.Text
		label := p.cur.Raw
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil { // consume ':'
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &LabeledStmt{base{start}, label, body}, nil
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlock() (Node, error) {
	start := p.cur.Text
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var body []Node
	for !p.isPunct("}") {
		if p.cur.Kind == lexer.EOF {
			return nil, p.syntaxErr("unterminated block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &BlockStmt{base{start}, body}, nil
}

func (p *Parser) parseVarStatement() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil { // 'var'
		return nil, err
	}
	var decls []VarDecl
	for {
		name, _, err := p.expectIdentName()
		if err != nil {
			return nil, err
		}
		var init Node
		if p.isPunct("=") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			init, err = p.parseAssignExpr(false)
			if err != nil {
				return nil, err
			}
		}
		decls = append(decls, VarDecl{Name: name, Init: init})
		if !p.isPunct(",") {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return &VarStmt{base{start}, decls}, nil
}

func (p *Parser) parseExpressionStatement() (Node, error) {
	start := p.cur.Text
	expr, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return &ExprStmt{base{start}, expr}, nil
}

func (p *Parser) parseParenExpr() (Node, error) {
	if err := p.expectPunct("("); err != nil {
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
}

func (p *Parser) parseIf() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	test, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	thenStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt Node
	if p.isKeyword("else") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{base{start}, test, thenStmt, elseStmt}, nil
}

func (p *Parser) parseWhile() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	test, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{base{start}, test, body}, nil
}

func (p *Parser) parseDoWhile() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("while"); err != nil {
		return nil, err
	}
	test, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return &DoWhileStmt{base{start}, body, test}, nil
}

// parseFor disambiguates `for (init; test; update)` from
// `for (x in obj)` by trying a var/identifier binding first and
// checking for a following `in`.
func (p *Parser) parseFor() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	if p.isKeyword("var") {
		varStart := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, _, err := p.expectIdentName()
		if err != nil {
			return nil, err
		}
		if p.isKeyword("in") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			obj, err := p.parseExpression(false)
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			body, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return &ForInStmt{base{start}, true, name, obj, body}, nil
		}
		var init Node
		if p.isPunct("=") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			initExpr, err := p.parseAssignExpr(true)
			if err != nil {
				return nil, err
			}
			init = &VarStmt{base{varStart}, []VarDecl{{Name: name, Init: initExpr}}}
		} else {
			init = &VarStmt{base{varStart}, []VarDecl{{Name: name}}}
		}
		for p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			nm, _, err := p.expectIdentName()
			if err != nil {
				return nil, err
			}
			var in Node
			if p.isPunct("=") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				in, err = p.parseAssignExpr(true)
				if err != nil {
					return nil, err
				}
			}
			init.(*VarStmt).Decls = append(init.(*VarStmt).Decls, VarDecl{Name: nm, Init: in})
		}
		return p.finishClassicFor(start, init)
	}

	if p.isPunct(";") {
		return p.finishClassicFor(start, nil)
	}

	initExpr, err := p.parseExpression(true)
	if err != nil {
		return nil, err
	}
	if p.isKeyword("in") {
		ident, ok := initExpr.(*Ident)
		if !ok {
			return nil, p.syntaxErr("invalid for-in target")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		obj, err := p.parseExpression(false)
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ForInStmt{base{start}, false, ident.Name, obj, body}, nil
	}
	return p.finishClassicFor(start, &ExprStmt{base{initExpr.Span()}, initExpr})
}

func (p *Parser) finishClassicFor(start text.Slice, init Node) (Node, error) {
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	var test Node
	if !p.isPunct(";") {
		var err error
		test, err = p.parseExpression(false)
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	var update Node
	if !p.isPunct(")") {
		var err error
		update, err = p.parseExpression(false)
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ForStmt{base{start}, init, test, update, body}, nil
}

func (p *Parser) parseOptionalLabel() (string, error) {
	// Same restricted production as return: the label must sit on the
	// same line as its break/continue.
	if p.cur.Kind == lexer.Ident && !p.cur.DidLineBreak {
		label := p.cur.Raw
		if err := p.advance(); err != nil {
			return "", err
		}
		return label, nil
	}
	return "", nil
}

func (p *Parser) parseContinue() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	label, err := p.parseOptionalLabel()
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return &ContinueStmt{base{start}, label}, nil
}

func (p *Parser) parseBreak() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	label, err := p.parseOptionalLabel()
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return &BreakStmt{base{start}, label}, nil
}

func (p *Parser) parseReturn() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	var value Node
	// A line terminator after `return` ends the statement (the restricted-
	// production half of semicolon insertion), so `return\nx` is a bare
	// return followed by an expression statement.
	if !p.isPunct(";") && !p.isPunct("}") && p.cur.Kind != lexer.EOF && !p.cur.DidLineBreak {
		var err error
		value, err = p.parseExpression(false)
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return &ReturnStmt{base{start}, value}, nil
}

func (p *Parser) parseWith() (Node, error) {
	start := p.cur.Text
	if p.strict {
		return nil, p.syntaxErr("'with' is not allowed in strict mode")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	obj, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WithStmt{base{start}, obj, body}, nil
}

func (p *Parser) parseSwitch() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	disc, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var cases []SwitchCase
	for !p.isPunct("}") {
		var c SwitchCase
		if p.isKeyword("case") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			c.Test, err = p.parseExpression(false)
			if err != nil {
				return nil, err
			}
		} else if p.isKeyword("default") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			c.IsDefault = true
		} else {
			return nil, p.syntaxErr("expected 'case' or 'default'")
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		for !p.isPunct("}") && !p.isKeyword("case") && !p.isKeyword("default") {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			c.Body = append(c.Body, stmt)
		}
		cases = append(cases, c)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &SwitchStmt{base{start}, disc, cases}, nil
}

func (p *Parser) parseThrow() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(false)
	if err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return &ThrowStmt{base{start}, value}, nil
}

func (p *Parser) parseTry() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	t := &TryStmt{base: base{start}, Block: block}
	if p.isKeyword("catch") {
		t.HasCatch = true
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		name, _, err := p.expectIdentName()
		if err != nil {
			return nil, err
		}
		t.CatchParam = name
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		t.CatchBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	if p.isKeyword("finally") {
		t.HasFinally = true
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		t.FinallyBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	if !t.HasCatch && !t.HasFinally {
		return nil, p.syntaxErr("missing catch or finally after try")
	}
	return t, nil
}

func (p *Parser) parseDebugger() (Node, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectSemicolon(); err != nil {
		return nil, err
	}
	return &DebuggerStmt{base{start}}, nil
}

func (p *Parser) parseFunctionDecl() (Node, error) {
	start := p.cur.Text
	fn, err := p.parseFunctionRest(true)
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{base{start}, fn.Name, fn}, nil
}

// parseFunctionRest parses everything after the `function` keyword: an
// optional name (required for a declaration), the parameter list and
// the body.
func (p *Parser) parseFunctionRest(nameRequired bool) (*FunctionExpr, error) {
	start := p.cur.Text
	if err := p.advance(); err != nil { // 'function'
		return nil, err
	}
	name := ""
	if p.cur.Kind == lexer.Ident {
		name = p.cur.Raw
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else if nameRequired {
		return nil, p.syntaxErr("function declaration requires a name")
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []string
	for !p.isPunct(")") {
		pname, _, err := p.expectIdentName()
		if err != nil {
			return nil, err
		}
		params = append(params, pname)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.advance(); err != nil { // ')'
		return nil, err
	}

	p.pushScope()
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	info := p.popScope()
	p.noteNestedFunction()

	return &FunctionExpr{
		base:   base{start},
		Name:   name,
		Params: params,
		Body: &FunctionBody{
			Body:          block.(*BlockStmt).Body,
			NeedArguments: info.needArguments,
			NeedHeap:      info.needHeap,
		},
	}, nil
}
