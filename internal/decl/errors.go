package decl

import (
	"errors"
	"fmt"

	"github.com/reoring/goblockly/internal/ir"
)

// Failure codes. They match the issue codes of the root package.
const (
	CodeUnsupported = "unsupported_syntax"
	CodeMalformed   = "malformed_declaration"
)

// SyntaxError reports the first construct the parser could not accept.
// Kind names the offending construct using TypeScript syntax kind names
// (ObjectBindingPattern, ArrayType, ...).
type SyntaxError struct {
	Code    string
	Kind    string
	Message string
	Pos     ir.Pos

	// incomplete is set when the input ended before the construct did.
	incomplete bool
}

func (e *SyntaxError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%d:%d: %s: %s (%s)", e.Pos.Line, e.Pos.Col, e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Pos.Line, e.Pos.Col, e.Code, e.Message)
}

// IsIncomplete reports whether err was caused by input ending too early,
// i.e. more text could still make it parse.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.incomplete
}

func unsupported(pos ir.Pos, kind, msg string, args ...any) *SyntaxError {
	return &SyntaxError{Code: CodeUnsupported, Kind: kind, Message: fmt.Sprintf(msg, args...), Pos: pos}
}

func malformed(pos ir.Pos, msg string, args ...any) *SyntaxError {
	return &SyntaxError{Code: CodeMalformed, Message: fmt.Sprintf(msg, args...), Pos: pos}
}

// Warning is a non-fatal diagnostic, e.g. a skipped namespace statement.
type Warning struct {
	Kind    string
	Message string
	Pos     ir.Pos
}

func (w Warning) String() string {
	return fmt.Sprintf("%d:%d: %s (%s)", w.Pos.Line, w.Pos.Col, w.Message, w.Kind)
}
