package goblockly

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Indent is the prefix applied to statement sequences nested in a
// statement input.
const Indent = "  "

// maxDepth bounds block nesting so a cyclic graph fails instead of
// recursing forever.
const maxDepth = 4096

// Generator produces the code of one block. Statement generators return
// complete lines ending in a newline; expression generators return bare
// expression text.
type Generator func(b *Block, c *Context) (string, error)

// Entry binds a block type to its kind and generator.
type Entry struct {
	ID   string
	Kind Kind
	Gen  Generator
}

// Table is the generator table: an ordered, additive map from block type
// to generator. Entries are never replaced or removed.
type Table struct {
	entries map[string]Entry
	order   []string
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{entries: map[string]Entry{}} }

// Register adds one generator. A duplicate id fails with name_collision.
func (t *Table) Register(id string, kind Kind, gen Generator) error {
	return t.RegisterAll(Entry{ID: id, Kind: kind, Gen: gen})
}

// RegisterAll adds entries atomically: either every id is free and all are
// added, or the table is left unchanged.
func (t *Table) RegisterAll(entries ...Entry) error {
	var iss Issues
	seen := map[string]bool{}
	for _, e := range entries {
		switch {
		case e.ID == "":
			iss = AppendIssues(iss, Issue{Code: CodeNameCollision, Message: "empty block type", Offset: -1})
		case e.Gen == nil:
			iss = AppendIssues(iss, Issue{Code: CodeNoGenerator, Kind: e.ID, Message: "nil generator", Offset: -1})
		case t.Has(e.ID) || seen[e.ID]:
			iss = AppendIssues(iss, Issue{Code: CodeNameCollision, Kind: e.ID, Message: fmt.Sprintf("block type %q is already registered", e.ID), Offset: -1})
		}
		seen[e.ID] = true
	}
	if len(iss) > 0 {
		return iss
	}
	for _, e := range entries {
		t.entries[e.ID] = e
		t.order = append(t.order, e.ID)
	}
	return nil
}

// Has reports whether id is registered.
func (t *Table) Has(id string) bool {
	_, ok := t.entries[id]
	return ok
}

// Lookup returns the entry for id.
func (t *Table) Lookup(id string) (Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// IDs returns the registered ids in registration order.
func (t *Table) IDs() []string { return append([]string(nil), t.order...) }

// Len returns the number of registered generators.
func (t *Table) Len() int { return len(t.order) }

// Context carries one compilation: generators call back into it to render
// their children.
type Context struct {
	table    *Table
	warnings Warnings
	depth    int
}

// NewContext returns a compilation context over t.
func NewContext(t *Table) *Context { return &Context{table: t} }

// Warnf records a non-fatal diagnostic.
func (c *Context) Warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// Diag returns the warnings recorded so far.
func (c *Context) Diag() Diag { return append(Warnings(nil), c.warnings...) }

func (c *Context) generate(b *Block, want Kind, input string, parent *Block) (string, error) {
	e, ok := c.table.Lookup(b.Type)
	if !ok {
		return "", issuef(CodeNoGenerator, b.Type, b.ref(), "no generator registered for block type %q", b.Type)
	}
	if e.Kind != want {
		path := b.ref()
		if parent != nil {
			path = parent.ref() + "/" + input
		}
		return "", issuef(CodeInvalidConnection, b.Type, path, "%s block connected where a %s is required", e.Kind, want)
	}
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxDepth {
		return "", issuef(CodeInvalidWorkspace, b.Type, b.ref(), "block nesting exceeds %d", maxDepth)
	}
	return e.Gen(b, c)
}

// ValueToCode renders the expression connected to a value input. An empty
// input fails with missing_input.
func (c *Context) ValueToCode(b *Block, input string) (string, error) {
	child := b.Input(input)
	if child == nil || child.Disabled {
		return "", issuef(CodeMissingInput, b.Type, b.ref()+"/"+input, "input %q is empty", input)
	}
	return c.generate(child, KindExpression, input, b)
}

// OptionalValueToCode renders a value input, returning def when the input
// is empty.
func (c *Context) OptionalValueToCode(b *Block, input, def string) (string, error) {
	child := b.Input(input)
	if child == nil || child.Disabled {
		return def, nil
	}
	return c.generate(child, KindExpression, input, b)
}

// StatementToCode renders the sequence connected to a statement input,
// indented by one level. An empty input renders as "".
func (c *Context) StatementToCode(b *Block, input string) (string, error) {
	code, err := c.sequence(b.Input(input), input, b)
	if err != nil {
		return "", err
	}
	return PrefixLines(code, Indent), nil
}

func (c *Context) sequence(first *Block, input string, parent *Block) (string, error) {
	var sb strings.Builder
	for cur, n := first, 0; cur != nil; cur, n = cur.Next, n+1 {
		if n > maxDepth {
			return "", issuef(CodeInvalidWorkspace, cur.Type, cur.ref(), "statement sequence exceeds %d blocks", maxDepth)
		}
		if cur.Disabled {
			continue
		}
		code, err := c.generate(cur, KindStatement, input, parent)
		if err != nil {
			return "", err
		}
		sb.WriteString(code)
		parent, input = cur, "next"
	}
	return sb.String(), nil
}

// FieldValue returns the value of a field, failing with invalid_field when
// it is absent.
func (c *Context) FieldValue(b *Block, name string) (string, error) {
	v, ok := b.Field(name)
	if !ok {
		return "", issuef(CodeInvalidField, b.Type, b.ref()+"/"+name, "field %q is not set", name)
	}
	return v, nil
}

// Compile renders every top-level statement sequence of ws, in order.
// Top-level expression blocks have no statement to belong to and are
// skipped with a warning.
func Compile(t *Table, ws *Workspace) (string, Diag, error) {
	c := NewContext(t)
	var sb strings.Builder
	for _, top := range ws.Blocks {
		if top == nil || top.Disabled {
			continue
		}
		if e, ok := t.Lookup(top.Type); ok && e.Kind == KindExpression {
			c.Warnf("skipped top-level expression block %s (%s)", top.Type, top.ref())
			continue
		}
		code, err := c.sequence(top, "", nil)
		if err != nil {
			return "", c.Diag(), err
		}
		sb.WriteString(code)
	}
	return sb.String(), c.Diag(), nil
}

// PrefixLines prefixes every line of code, leaving a trailing newline
// unprefixed.
func PrefixLines(code, prefix string) string {
	if code == "" {
		return ""
	}
	trailing := strings.HasSuffix(code, "\n")
	body := strings.TrimSuffix(code, "\n")
	out := prefix + strings.ReplaceAll(body, "\n", "\n"+prefix)
	if trailing {
		out += "\n"
	}
	return out
}

// QuoteJS renders s as a double-quoted JavaScript string literal. HTML
// characters are kept as is; U+2028 and U+2029 are escaped.
func QuoteJS(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
