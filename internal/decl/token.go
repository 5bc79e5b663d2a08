package decl

import "github.com/reoring/goblockly/internal/ir"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokString
	TokNumber
	TokTemplate
	TokPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokIdent:
		return "identifier"
	case TokString:
		return "string literal"
	case TokNumber:
		return "numeric literal"
	case TokTemplate:
		return "template literal"
	}
	return "punctuation"
}

// Token is a single lexeme. For string literals Text holds the unquoted,
// unescaped value.
type Token struct {
	Kind TokenKind
	Text string
	Pos  ir.Pos

	// NewlineBefore is set when a line break separates this token from the
	// previous one.
	NewlineBefore bool

	// Doc is the summary of the /** */ comment directly preceding the token.
	Doc string
}

// Is reports whether the token is the given punctuation or identifier text.
func (t Token) Is(text string) bool {
	return (t.Kind == TokPunct || t.Kind == TokIdent) && t.Text == text
}

func (t Token) describe() string {
	switch t.Kind {
	case TokEOF:
		return "end of input"
	case TokString:
		return "string literal"
	}
	return "'" + t.Text + "'"
}
