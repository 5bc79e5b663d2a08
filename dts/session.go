// Package dts loads declaration batches into a generator table.
//
// A Session owns the name registry and the table it fills. Every Load is
// transactional: the batch is parsed, synthesized against a fork of the
// registry and checked against the table before anything is registered,
// so a failing batch leaves both untouched.
package dts

import (
	"errors"
	"fmt"
	"io/fs"

	goblockly "github.com/reoring/goblockly"
	"github.com/reoring/goblockly/internal/decl"
	"github.com/reoring/goblockly/internal/gen"
)

// supportedHint is attached to unsupported-syntax issues.
const supportedHint = "supported: function, variable and namespace declarations over number, string, boolean, void, any, literal, Promise<T>, inline object, function and string-literal union types"

// Session is one editor session: a generator table plus the registry that
// keeps block identifiers unique across batches.
type Session struct {
	table *goblockly.Table
	reg   *gen.Registry
	defs  []goblockly.Definition
}

// NewSession returns a session filling tbl. Identifiers already in tbl are
// reserved. A nil tbl starts an empty table.
func NewSession(tbl *goblockly.Table) *Session {
	if tbl == nil {
		tbl = goblockly.NewTable()
	}
	reg := gen.NewRegistry()
	reg.Reserve(tbl.IDs()...)
	return &Session{table: tbl, reg: reg}
}

// Table returns the generator table the session fills.
func (s *Session) Table() *goblockly.Table { return s.table }

// Definitions returns every block definition added so far, in order.
func (s *Session) Definitions() []goblockly.Definition {
	return append([]goblockly.Definition(nil), s.defs...)
}

// Batch is the contribution of one successful Load.
type Batch struct {
	Category    string
	Definitions []goblockly.Definition
	Warnings    goblockly.Warnings
}

// IDs returns the block identifiers the batch registered, in order.
func (b *Batch) IDs() []string {
	ids := make([]string, len(b.Definitions))
	for i, d := range b.Definitions {
		ids[i] = d.Type
	}
	return ids
}

// Diag exposes the parser warnings of the batch.
func (b *Batch) Diag() goblockly.Diag { return b.Warnings }

// Load parses src and registers one block per declared callable or value.
// On failure it returns Issues and registers nothing.
func (s *Session) Load(src string, opts goblockly.Options) (*Batch, error) {
	f, err := decl.Parse(src)
	if err != nil {
		return nil, syntaxIssues(err, opts.Category)
	}

	fork := s.reg.Fork()
	fork.Reserve(s.table.IDs()...)
	out, err := gen.Synthesize(f.Members, fork, opts)
	if err != nil {
		return nil, withCategory(err, opts.Category)
	}
	if err := s.table.RegisterAll(out.Entries...); err != nil {
		return nil, withCategory(err, opts.Category)
	}
	s.reg = fork
	s.defs = append(s.defs, out.Definitions...)

	b := &Batch{Category: opts.Category, Definitions: out.Definitions}
	for _, w := range f.Warnings {
		b.Warnings = append(b.Warnings, w.String())
	}
	return b, nil
}

// LoadFS reads a declaration file from fsys and loads it.
func (s *Session) LoadFS(fsys fs.FS, name string, opts goblockly.Options) (*Batch, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read declarations %s: %w", name, err)
	}
	return s.Load(string(src), opts)
}

// Register adds fixed (hand-written) blocks. Their identifiers are
// reserved so later batches derive around them.
func (s *Session) Register(defs []goblockly.Definition, entries ...goblockly.Entry) error {
	if err := s.table.RegisterAll(entries...); err != nil {
		return err
	}
	for _, e := range entries {
		s.reg.Reserve(e.ID)
	}
	s.defs = append(s.defs, defs...)
	return nil
}

func syntaxIssues(err error, category string) error {
	var se *decl.SyntaxError
	if !errors.As(err, &se) {
		return err
	}
	it := goblockly.Issue{
		Code:    se.Code,
		Kind:    se.Kind,
		Path:    category,
		Message: se.Message,
		Cause:   err,
		Line:    se.Pos.Line,
		Col:     se.Pos.Col,
		Offset:  int64(se.Pos.Offset),
	}
	if se.Code == decl.CodeUnsupported {
		it.Hint = supportedHint
	}
	return goblockly.Issues{it}
}

// withCategory prefixes issue paths with the batch category.
func withCategory(err error, category string) error {
	iss, ok := goblockly.AsIssues(err)
	if !ok || category == "" {
		return err
	}
	out := make(goblockly.Issues, len(iss))
	for i, it := range iss {
		if it.Path == "" {
			it.Path = category
		} else {
			it.Path = category + ":" + it.Path
		}
		out[i] = it
	}
	return out
}
