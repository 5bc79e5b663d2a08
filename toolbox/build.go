package toolbox

import (
	"fmt"
	"io/fs"

	goblockly "github.com/reoring/goblockly"
	"github.com/reoring/goblockly/dts"
	"github.com/reoring/goblockly/stdblocks"
)

// Result is an assembled palette together with the session holding every
// block definition and generator it references.
type Result struct {
	Toolbox  *Toolbox
	Session  *dts.Session
	Warnings goblockly.Warnings
}

// Definitions returns the definitions of every custom block in the
// palette, in registration order.
func (r *Result) Definitions() []goblockly.Definition { return r.Session.Definitions() }

// Table returns the generator table of the palette.
func (r *Result) Table() *goblockly.Table { return r.Session.Table() }

// Build runs one declaration batch per manifest category, reading
// declaration files from fsys. The standard generators (statement
// wrapper, literals, control flow) are always registered. The first
// failing category aborts the build.
func Build(m *Manifest, fsys fs.FS) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	sess := dts.NewSession(nil)
	if err := stdblocks.Core().RegisterInto(sess); err != nil {
		return nil, err
	}

	res := &Result{Toolbox: &Toolbox{}, Session: sess}
	if !m.SkipBuiltins {
		res.Toolbox.Contents = append(res.Toolbox.Contents, Builtins()...)
	}
	for i, e := range m.Entries {
		if e.Kind == entrySeparator {
			res.Toolbox.Contents = append(res.Toolbox.Contents, Separator{})
			continue
		}
		if _, taken := res.Toolbox.Category(e.ID); taken {
			return nil, manifestIssue(fmt.Sprintf("toolbox[%d]", i), nil, "category id %q is already used", e.ID)
		}
		cat, warnings, err := buildCategory(sess, e, fsys)
		if err != nil {
			return nil, err
		}
		res.Toolbox.Contents = append(res.Toolbox.Contents, cat)
		res.Warnings = append(res.Warnings, warnings...)
	}
	return res, nil
}

func buildCategory(sess *dts.Session, e Entry, fsys fs.FS) (*Category, goblockly.Warnings, error) {
	cat := &Category{Name: e.Name, ID: e.ID, Colour: e.Colour}
	var warnings goblockly.Warnings
	if e.Core {
		cat.Blocks = append(cat.Blocks, stdblocks.ExprStatementType)
	}
	if e.Declarations != "" {
		b, err := sess.LoadFS(fsys, e.Declarations, goblockly.Options{Colour: e.BlockColour, Category: e.Name})
		if err != nil {
			return nil, nil, err
		}
		cat.Blocks = append(cat.Blocks, b.IDs()...)
		for _, w := range b.Warnings {
			warnings = append(warnings, e.Name+": "+w)
		}
	}
	if len(e.Imports) > 0 {
		imports := stdblocks.Imports(e.Imports...)
		if err := imports.RegisterInto(sess); err != nil {
			return nil, nil, err
		}
		cat.Blocks = append(cat.Blocks, imports.IDs()...)
	}
	return cat, warnings, nil
}
