package lexer

import (
	"strconv"
	"strings"

	"github.com/emberlang/ember/internal/errkit"
	"github.com/emberlang/ember/internal/text"
)

// Lexer scans one text.Input into a token stream, pulled one token at a
// time by the parser — the teacher's wat lexer works the same way
// (lexTokens drains a whole buffer, but nextToken is the primitive it's
// built from; here the parser drives one call per token instead of
// pre-draining, since a recursive-descent parser wants lookahead control).
type Lexer struct {
	in  *text.Input
	pos int

	// lastSignificant classifies the previous token returned, used only
	// to disambiguate `/` between division and a regex literal (spec.md
	// §4.1's `allowRegex` flag, reframed here as "infer it from context"
	// rather than threading an explicit flag through every call site).
	lastSignificant Kind
	lastText        string
}

// New builds a Lexer positioned at the start of in's bytes.
func New(in *text.Input) *Lexer {
	return &Lexer{in: in}
}

func (l *Lexer) byteAt(i int) byte {
	if i < 0 || i >= len(l.in.Bytes) {
		return 0
	}
	return l.in.Bytes[i]
}

func (l *Lexer) slice(start, end int) text.Slice {
	return text.NewSlice(l.in, start, end-start)
}

func (l *Lexer) syntaxErr(msg string, at int) error {
	return &errkit.EngineError{Kind: errkit.Syntax, Message: msg, At: l.slice(at, at+1)}
}

// Next scans and returns the next token, skipping whitespace and
// comments first.
func (l *Lexer) Next() (Token, error) {
	didBreak, err := l.skipTrivia()
	if err != nil {
		return Token{}, err
	}
	start := l.pos
	if l.pos >= len(l.in.Bytes) {
		tok := Token{Kind: EOF, Text: l.slice(start, start), DidLineBreak: didBreak}
		l.remember(tok)
		return tok, nil
	}

	c := l.byteAt(l.pos)
	var tok Token
	switch {
	case isIdentStart(c):
		tok, err = l.scanIdent(start)
	case c >= '0' && c <= '9', c == '.' && isDigit(l.byteAt(l.pos+1)):
		tok, err = l.scanNumber(start)
	case c == '"' || c == '\'':
		tok, err = l.scanString(start, c)
	case c == '/' && l.regexAllowedHere():
		tok, err = l.scanRegex(start)
	default:
		tok, err = l.scanPunct(start)
	}
	if err != nil {
		return Token{}, err
	}
	tok.DidLineBreak = didBreak
	l.remember(tok)
	return tok, nil
}

func (l *Lexer) remember(t Token) {
	l.lastSignificant = t.Kind
	l.lastText = t.Raw
}

// regexAllowedHere implements the classic division-vs-regex heuristic:
// a `/` starts a regex literal unless the previous token could itself
// be the end of a value-producing expression (an operand, a closing
// `)`/`]`, or a postfix-able identifier/literal).
func (l *Lexer) regexAllowedHere() bool {
	switch l.lastSignificant {
	case Ident, NumberInt, NumberFloat, String, Regex:
		return false
	case Keyword:
		switch l.lastText {
		case "this", "null", "true", "false":
			return false
		}
		return true
	case Punct:
		return l.lastText != ")" && l.lastText != "]"
	default:
		return true
	}
}

func (l *Lexer) skipTrivia() (bool, error) {
	didBreak := false
	for l.pos < len(l.in.Bytes) {
		c := l.byteAt(l.pos)
		switch {
		case c == '\n':
			didBreak = true
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
			l.pos++
		case c == '/' && l.byteAt(l.pos+1) == '/':
			for l.pos < len(l.in.Bytes) && l.byteAt(l.pos) != '\n' {
				l.pos++
			}
		case c == '/' && l.byteAt(l.pos+1) == '*':
			start := l.pos
			l.pos += 2
			closed := false
			for l.pos < len(l.in.Bytes) {
				if l.byteAt(l.pos) == '\n' {
					didBreak = true
				}
				if l.byteAt(l.pos) == '*' && l.byteAt(l.pos+1) == '/' {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				return didBreak, l.syntaxErr("unterminated block comment", start)
			}
		default:
			return didBreak, nil
		}
	}
	return didBreak, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) scanIdent(start int) (Token, error) {
	l.pos++
	for l.pos < len(l.in.Bytes) && isIdentPart(l.byteAt(l.pos)) {
		l.pos++
	}
	text := string(l.in.Bytes[start:l.pos])
	kind := Ident
	if keywords[text] {
		kind = Keyword
	} else if reservedWords[text] {
		kind = Reserved
	}
	return Token{Kind: kind, Text: l.slice(start, l.pos), Raw: text}, nil
}

// scanNumber implements spec.md §4.1's numeric grammar: hex integers,
// decimal with optional fraction and exponent. A trailing letter is a
// syntax error (guards against `0x10px`-style typos silently truncating).
func (l *Lexer) scanNumber(start int) (Token, error) {
	isFloat := false
	if l.byteAt(l.pos) == '0' && (l.byteAt(l.pos+1) == 'x' || l.byteAt(l.pos+1) == 'X') {
		l.pos += 2
		hexStart := l.pos
		for l.pos < len(l.in.Bytes) && isHexDigit(l.byteAt(l.pos)) {
			l.pos++
		}
		if l.pos == hexStart {
			return Token{}, l.syntaxErr("malformed hex literal", start)
		}
		if isIdentPart(l.byteAt(l.pos)) {
			return Token{}, l.syntaxErr("unexpected character after numeric literal", l.pos)
		}
		n, err := strconv.ParseUint(string(l.in.Bytes[hexStart:l.pos]), 16, 64)
		if err != nil {
			return Token{}, l.syntaxErr("malformed hex literal", start)
		}
		return l.numberToken(start, float64(n), false)
	}

	for l.pos < len(l.in.Bytes) && isDigit(l.byteAt(l.pos)) {
		l.pos++
	}
	if l.byteAt(l.pos) == '.' {
		isFloat = true
		l.pos++
		for l.pos < len(l.in.Bytes) && isDigit(l.byteAt(l.pos)) {
			l.pos++
		}
	}
	if l.byteAt(l.pos) == 'e' || l.byteAt(l.pos) == 'E' {
		save := l.pos
		l.pos++
		if l.byteAt(l.pos) == '+' || l.byteAt(l.pos) == '-' {
			l.pos++
		}
		if !isDigit(l.byteAt(l.pos)) {
			l.pos = save
		} else {
			isFloat = true
			for l.pos < len(l.in.Bytes) && isDigit(l.byteAt(l.pos)) {
				l.pos++
			}
		}
	}
	if isIdentPart(l.byteAt(l.pos)) {
		return Token{}, l.syntaxErr("unexpected character after numeric literal", l.pos)
	}
	n, err := strconv.ParseFloat(string(l.in.Bytes[start:l.pos]), 64)
	if err != nil {
		return Token{}, l.syntaxErr("malformed numeric literal", start)
	}
	return l.numberToken(start, n, isFloat)
}

func (l *Lexer) numberToken(start int, n float64, forceFloat bool) (Token, error) {
	tok := Token{Text: l.slice(start, l.pos), NumberValue: n}
	if !forceFloat {
		if i := int32(n); float64(i) == n {
			tok.Kind = NumberInt
			return tok, nil
		}
	}
	tok.Kind = NumberFloat
	return tok, nil
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanString implements spec.md §4.1's string grammar: `'…'`/`"…"` with
// the documented escape table. An un-escaped literal is returned with
// StringRaw=true so the parser can reuse the raw Text slice directly
// rather than allocate a Chars copy.
func (l *Lexer) scanString(start int, quote byte) (Token, error) {
	l.pos++ // opening quote
	hadEscape := false
	var buf []byte
	for {
		if l.pos >= len(l.in.Bytes) {
			return Token{}, l.syntaxErr("unterminated string literal", start)
		}
		c := l.byteAt(l.pos)
		if c == quote {
			l.pos++
			break
		}
		if c == '\n' {
			return Token{}, l.syntaxErr("newline in string literal", l.pos)
		}
		if c == '\\' {
			hadEscape = true
			if buf == nil {
				buf = append(buf, l.in.Bytes[start+1:l.pos]...)
			}
			decoded, err := l.scanEscape()
			if err != nil {
				return Token{}, err
			}
			buf = append(buf, decoded...)
			continue
		}
		if hadEscape {
			buf = append(buf, c)
		}
		l.pos++
	}
	tok := Token{Kind: String, Text: l.slice(start, l.pos)}
	if hadEscape {
		tok.StringChars = buf
	} else {
		tok.StringRaw = true
	}
	return tok, nil
}

// scanEscape decodes one `\...` sequence at l.pos (which must be on the
// backslash), advancing past it, per spec.md §4.1: `\0 \b \f \n \r \t
// \v`, `\xHH`, `\uHHHH`, octal `\NNN` up to 0xFF, `\cX`, and any other
// character passed through literally.
func (l *Lexer) scanEscape() ([]byte, error) {
	start := l.pos
	l.pos++ // backslash
	c := l.byteAt(l.pos)
	switch c {
	case '0':
		if !isDigit(l.byteAt(l.pos + 1)) {
			l.pos++
			return []byte{0}, nil
		}
		return l.scanOctalEscape(start)
	case 'b':
		l.pos++
		return []byte{'\b'}, nil
	case 'f':
		l.pos++
		return []byte{'\f'}, nil
	case 'n':
		l.pos++
		return []byte{'\n'}, nil
	case 'r':
		l.pos++
		return []byte{'\r'}, nil
	case 't':
		l.pos++
		return []byte{'\t'}, nil
	case 'v':
		l.pos++
		return []byte{'\v'}, nil
	case 'x':
		l.pos++
		if !isHexDigit(l.byteAt(l.pos)) || !isHexDigit(l.byteAt(l.pos+1)) {
			return nil, l.syntaxErr("malformed \\x escape", start)
		}
		n, _ := strconv.ParseUint(string(l.in.Bytes[l.pos:l.pos+2]), 16, 8)
		l.pos += 2
		return []byte{byte(n)}, nil
	case 'u':
		l.pos++
		if l.pos+4 > len(l.in.Bytes) {
			return nil, l.syntaxErr("malformed \\u escape", start)
		}
		n, err := strconv.ParseUint(string(l.in.Bytes[l.pos:l.pos+4]), 16, 32)
		if err != nil {
			return nil, l.syntaxErr("malformed \\u escape", start)
		}
		l.pos += 4
		return []byte(string(rune(n))), nil
	case 'c':
		l.pos++
		ctrl := l.byteAt(l.pos)
		l.pos++
		return []byte{ctrl & 0x1f}, nil
	case '1', '2', '3', '4', '5', '6', '7':
		return l.scanOctalEscape(start)
	case '\n':
		l.pos++
		return nil, nil
	default:
		l.pos++
		return []byte{c}, nil
	}
}

func (l *Lexer) scanOctalEscape(start int) ([]byte, error) {
	n := 0
	count := 0
	for count < 3 && isOctalDigit(l.byteAt(l.pos)) {
		n = n*8 + int(l.byteAt(l.pos)-'0')
		l.pos++
		count++
	}
	if n > 0xFF {
		return nil, l.syntaxErr("octal escape out of range", start)
	}
	return []byte{byte(n)}, nil
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

// scanRegex implements spec.md §4.1's regex-literal slicing: from `/` to
// the matching unescaped `/`, then a trailing alphabetic flag run. The
// pattern body is not parsed here — internal/regexp.New does that lazily
// when the RegExp object is constructed.
func (l *Lexer) scanRegex(start int) (Token, error) {
	l.pos++ // opening slash
	inClass := false
	for {
		if l.pos >= len(l.in.Bytes) || l.byteAt(l.pos) == '\n' {
			return Token{}, l.syntaxErr("unterminated regular expression literal", start)
		}
		c := l.byteAt(l.pos)
		if c == '\\' {
			l.pos += 2
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			break
		}
		l.pos++
	}
	patternEnd := l.pos
	l.pos++ // closing slash
	flagsStart := l.pos
	for l.pos < len(l.in.Bytes) && isIdentPart(l.byteAt(l.pos)) {
		l.pos++
	}
	pattern := string(l.in.Bytes[start+1 : patternEnd])
	flags := string(l.in.Bytes[flagsStart:l.pos])
	return Token{Kind: Regex, Text: l.slice(start, l.pos), Raw: pattern + "\x00" + flags}, nil
}

// punctuators lists every multi-character punctuator by descending
// length so scanPunct's linear scan implements maximal munch without a
// hand-nested if/else ladder (spec.md §4.1's disambiguation table).
var punctuators = []string{
	">>>=",
	"===", "!==", "<<=", ">>=", ">>>",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ".", ";", ",", "<", ">", "+", "-",
	"*", "/", "%", "&", "|", "^", "!", "~", "?", ":", "=",
}

func (l *Lexer) scanPunct(start int) (Token, error) {
	rest := l.in.Bytes[start:]
	for _, p := range punctuators {
		if strings.HasPrefix(string(rest), p) {
			l.pos = start + len(p)
			return Token{Kind: Punct, Text: l.slice(start, l.pos), Raw: p}, nil
		}
	}
	return Token{}, l.syntaxErr("unexpected character", start)
}
