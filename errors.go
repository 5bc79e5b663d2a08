package goblockly

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/goblockly/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Declaration batches.
	CodeUnsupportedSyntax    = "unsupported_syntax"
	CodeMalformedDeclaration = "malformed_declaration"
	CodeSynthesisPolicy      = "synthesis_policy"
	CodeNameCollision        = "name_collision"
	// Code generation.
	CodeNoGenerator       = "no_generator"
	CodeMissingInput      = "missing_input"
	CodeInvalidField      = "invalid_field"
	CodeInvalidConnection = "invalid_connection"
	CodeInvalidWorkspace  = "invalid_workspace"
	// Toolbox manifests.
	CodeInvalidManifest = "invalid_manifest"
)

// Issue represents a single compiler failure.
type Issue struct {
	Code string // One of the codes listed above.
	// Kind names the offending construct: a declaration syntax kind such as
	// ObjectBindingPattern, or a block type during code generation.
	Kind string
	// Path locates the issue: a dotted member name ("gpio.on"), a block id,
	// or a manifest category.
	Path    string
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.

	// Line and Col are 1-based source positions (0 when unknown).
	Line, Col int
	// Offset is the byte offset in the declaration text (-1 when unknown).
	Offset int64
}

// Localized returns the message for the issue code in the current i18n
// language, followed by the issue's own message.
func (it Issue) Localized() string {
	base := i18n.T(it.Code, map[string]string{"kind": it.Kind, "path": it.Path})
	if it.Message == "" {
		return base
	}
	return base + ": " + it.Message
}

func (it Issue) Unwrap() error { return it.Cause }

// Issues is a collection of compiler failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unsupported_syntax ObjectBindingPattern at 3:19: destructured parameters are not supported
		b.WriteString(it.Code)
		if it.Kind != "" {
			b.WriteString(" " + it.Kind)
		}
		switch {
		case it.Line > 0:
			fmt.Fprintf(b, " at %d:%d", it.Line, it.Col)
		case it.Path != "":
			fmt.Fprintf(b, " at %s", it.Path)
		}
		if it.Message != "" {
			b.WriteString(": " + it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes of the issues to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	var errs []error
	for _, it := range iss {
		if it.Cause != nil {
			errs = append(errs, it.Cause)
		}
	}
	return errs
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// issuef builds a single-issue error without position information.
func issuef(code, kind, path, format string, args ...any) Issues {
	return Issues{{Code: code, Kind: kind, Path: path, Message: fmt.Sprintf(format, args...), Offset: -1}}
}
