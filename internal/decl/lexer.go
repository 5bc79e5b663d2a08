package decl

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reoring/goblockly/internal/ir"
)

// Lexer tokenizes declaration source text.
type Lexer struct {
	src string
	off int

	line, col int
	start     ir.Pos

	tokBuff *strings.Builder

	sawNewline bool
	doc        string
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:     src,
		line:    1,
		col:     1,
		tokBuff: &strings.Builder{},
	}
}

// NextToken returns the next token. At end of input it returns a TokEOF
// token; further calls keep returning it.
func (l *Lexer) NextToken() (Token, error) {
	for {
		c := l.peek()
		if c == -1 {
			break
		}

		switch {
		case c == '\n':
			l.sawNewline = true
			l.skip()
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f' || c == '\uFEFF':
			l.skip()
		case c == '/' && (l.peekAt(1) == '/' || l.peekAt(1) == '*'):
			if err := l.skipComment(); err != nil {
				return Token{}, err
			}
		case c == '"' || c == '\'':
			return l.lexString(c)
		case c == '`':
			return l.lexTemplate()
		case isDecimalDigit(c) || (c == '.' && isDecimalDigit(l.peekAt(1))):
			return l.lexNumber()
		case isFirstIdentChar(c):
			return l.lexIdent()
		default:
			return l.lexPunct()
		}
	}

	l.mark()
	return l.makeToken(TokEOF, ""), nil
}

// -----------------------------------------------------------------------------

// symbolPatterns lists the punctuation the lexer recognizes; multi-rune
// symbols are matched greedily.
var symbolPatterns = map[string]struct{}{
	"{": {}, "}": {}, "(": {}, ")": {}, "[": {}, "]": {},
	"<": {}, ">": {}, ",": {}, ";": {}, ":": {}, "?": {},
	"|": {}, "&": {}, "=": {}, ".": {}, "-": {}, "+": {},
	"*": {}, "!": {}, "@": {}, "#": {}, "~": {}, "^": {},
	"%": {}, "/": {},
	"=>": {}, "...": {}, "..": {},
}

func (l *Lexer) lexPunct() (Token, error) {
	l.mark()
	l.eat()

	if _, ok := symbolPatterns[l.tokBuff.String()]; !ok {
		return Token{}, malformed(l.start, "unexpected character %q", l.tokBuff.String())
	}

	for {
		c := l.peek()
		if c == -1 {
			break
		}
		if _, ok := symbolPatterns[l.tokBuff.String()+string(c)]; !ok {
			break
		}
		l.eat()
	}

	if l.tokBuff.String() == ".." {
		return Token{}, malformed(l.start, "unexpected '..'")
	}
	return l.makeToken(TokPunct, l.tokBuff.String()), nil
}

func (l *Lexer) lexIdent() (Token, error) {
	l.mark()
	l.eat()
	for isIdentChar(l.peek()) {
		l.eat()
	}
	return l.makeToken(TokIdent, l.tokBuff.String()), nil
}

func (l *Lexer) lexNumber() (Token, error) {
	l.mark()
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X' || l.peekAt(1) == 'b' || l.peekAt(1) == 'B' || l.peekAt(1) == 'o' || l.peekAt(1) == 'O') {
		l.eat()
		l.eat()
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.eat()
		}
		return l.makeToken(TokNumber, l.tokBuff.String()), nil
	}

	for isDecimalDigit(l.peek()) || l.peek() == '_' {
		l.eat()
	}
	if l.peek() == '.' && l.peekAt(1) != '.' {
		l.eat()
		for isDecimalDigit(l.peek()) || l.peek() == '_' {
			l.eat()
		}
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		l.eat()
		if c := l.peek(); c == '+' || c == '-' {
			l.eat()
		}
		if !isDecimalDigit(l.peek()) {
			return Token{}, malformed(l.start, "malformed numeric literal %q", l.tokBuff.String())
		}
		for isDecimalDigit(l.peek()) {
			l.eat()
		}
	}
	if l.peek() == 'n' {
		l.eat()
	}
	return l.makeToken(TokNumber, l.tokBuff.String()), nil
}

func (l *Lexer) lexString(quote rune) (Token, error) {
	l.mark()
	l.skip()

	var value strings.Builder
	for {
		c := l.peek()
		switch c {
		case -1:
			return Token{}, incompleteAt(l.start, "unterminated string literal")
		case '\n':
			return Token{}, malformed(l.start, "unterminated string literal")
		case quote:
			l.skip()
			return l.makeToken(TokString, value.String()), nil
		case '\\':
			l.skip()
			r, err := l.readEscape()
			if err != nil {
				return Token{}, err
			}
			if r >= 0 {
				value.WriteRune(r)
			}
		default:
			l.skip()
			value.WriteRune(c)
		}
	}
}

// readEscape decodes the escape sequence after a backslash. A line
// continuation yields -1.
func (l *Lexer) readEscape() (rune, error) {
	c := l.peek()
	if c == -1 {
		return 0, incompleteAt(l.start, "unterminated string literal")
	}
	l.skip()
	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case '0':
		return 0, nil
	case '\n':
		return -1, nil
	case 'x', 'u':
		n := 2
		if c == 'u' {
			n = 4
		}
		var hex strings.Builder
		for i := 0; i < n; i++ {
			h := l.peek()
			if !isHexDigit(h) {
				return 0, malformed(l.start, "invalid escape sequence")
			}
			l.skip()
			hex.WriteRune(h)
		}
		v, err := strconv.ParseUint(hex.String(), 16, 32)
		if err != nil {
			return 0, malformed(l.start, "invalid escape sequence")
		}
		return rune(v), nil
	}
	return c, nil
}

func (l *Lexer) lexTemplate() (Token, error) {
	l.mark()
	l.eat()
	for {
		c := l.peek()
		if c == -1 {
			return Token{}, incompleteAt(l.start, "unterminated template literal")
		}
		l.eat()
		if c == '\\' && l.peek() != -1 {
			l.eat()
			continue
		}
		if c == '`' {
			return l.makeToken(TokTemplate, l.tokBuff.String()), nil
		}
	}
}

func (l *Lexer) skipComment() error {
	start := l.pos()
	l.skip()
	if l.peek() == '/' {
		for c := l.peek(); c != -1 && c != '\n'; c = l.peek() {
			l.skip()
		}
		return nil
	}

	l.skip() // '*'
	isDoc := l.peek() == '*' && l.peekAt(1) != '/'
	var body strings.Builder
	for {
		c := l.peek()
		if c == -1 {
			return incompleteAt(start, "unterminated comment")
		}
		if c == '*' && l.peekAt(1) == '/' {
			l.skip()
			l.skip()
			break
		}
		if c == '\n' {
			l.sawNewline = true
		}
		body.WriteRune(c)
		l.skip()
	}
	if isDoc {
		l.doc = docSummary(body.String())
	}
	return nil
}

// docSummary extracts the description of a JSDoc body: the text before the
// first @tag, with leading asterisks removed and lines joined.
func docSummary(body string) string {
	var parts []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if strings.HasPrefix(line, "@") {
			break
		}
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// -----------------------------------------------------------------------------

func (l *Lexer) pos() ir.Pos {
	return ir.Pos{Line: l.line, Col: l.col, Offset: l.off}
}

// mark marks the beginning of a token.
func (l *Lexer) mark() {
	l.start = l.pos()
	l.tokBuff.Reset()
}

func (l *Lexer) makeToken(kind TokenKind, text string) Token {
	tok := Token{Kind: kind, Text: text, Pos: l.start, NewlineBefore: l.sawNewline, Doc: l.doc}
	l.sawNewline = false
	l.doc = ""
	return tok
}

func (l *Lexer) peek() rune { return l.peekAt(0) }

// peekAt returns the rune n runes ahead, or -1 past the end.
func (l *Lexer) peekAt(n int) rune {
	off := l.off
	for {
		if off >= len(l.src) {
			return -1
		}
		r, size := utf8.DecodeRuneInString(l.src[off:])
		if n == 0 {
			return r
		}
		off += size
		n--
	}
}

// eat consumes the current rune into the token buffer.
func (l *Lexer) eat() {
	r := l.peek()
	l.skip()
	l.tokBuff.WriteRune(r)
}

// skip consumes the current rune without buffering it.
func (l *Lexer) skip() {
	if l.off >= len(l.src) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func incompleteAt(pos ir.Pos, msg string) *SyntaxError {
	e := malformed(pos, "%s", msg)
	e.incomplete = true
	return e
}

func isDecimalDigit(c rune) bool { return '0' <= c && c <= '9' }

func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isFirstIdentChar(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c)
}

func isIdentChar(c rune) bool {
	return isFirstIdentChar(c) || unicode.IsDigit(c)
}
