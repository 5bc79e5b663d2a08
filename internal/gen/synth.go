package gen

import (
	"fmt"
	"slices"
	"strings"

	goblockly "github.com/reoring/goblockly"
	"github.com/reoring/goblockly/internal/ir"
)

// Batch is the output of one synthesis run: block definitions and their
// generators, both in declaration order.
type Batch struct {
	Definitions []goblockly.Definition
	Entries     []goblockly.Entry
}

// IDs returns the block identifiers of the batch in order.
func (b *Batch) IDs() []string {
	ids := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		ids[i] = e.ID
	}
	return ids
}

// Synthesize turns declared members into block definitions and
// generators. Identifiers are drawn from reg. The first policy violation
// aborts the run and nothing of the batch is returned.
func Synthesize(members []ir.Member, reg *Registry, opts goblockly.Options) (*Batch, error) {
	s := &synth{reg: reg, opts: opts.WithDefaults(), out: &Batch{}}
	for _, m := range members {
		s.pos = m.Position()
		var err error
		switch m := m.(type) {
		case *ir.Func:
			err = s.function(m.Name, m.Sig, m.Doc)
		case *ir.Var:
			err = s.value(m.Name, m.Type, m.Doc)
		case *ir.Module:
			for _, v := range m.Members {
				s.pos = v.Pos
				if err = s.value(m.Name+s.opts.Separator+v.Name, v.Type, v.Doc); err != nil {
					break
				}
			}
		default:
			err = fmt.Errorf("gen: unhandled member %T", m)
		}
		if err != nil {
			return nil, err
		}
	}
	return s.out, nil
}

type synth struct {
	reg  *Registry
	opts goblockly.Options
	out  *Batch
	pos  ir.Pos
}

func (s *synth) policy(kind, path, format string, args ...any) error {
	return goblockly.Issues{{
		Code:    goblockly.CodeSynthesisPolicy,
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Line:    s.pos.Line,
		Col:     s.pos.Col,
		Offset:  int64(s.pos.Offset),
	}}
}

func (s *synth) add(def goblockly.Definition, kind goblockly.Kind, gen goblockly.Generator) {
	def.Kind = kind
	def.Colour = s.opts.Colour
	s.out.Definitions = append(s.out.Definitions, def)
	s.out.Entries = append(s.out.Entries, goblockly.Entry{ID: def.Type, Kind: kind, Gen: gen})
}

// value synthesizes a variable or namespace/object member named name.
func (s *synth) value(name string, t ir.Type, doc string) error {
	return ir.Visit[error](t, memberVisitor{s: s, name: name, doc: doc})
}

// memberVisitor decides how a named value flattens into blocks.
type memberVisitor struct {
	s    *synth
	name string
	doc  string
}

func (v memberVisitor) Simple(t *ir.Simple) error { return v.s.variable(v.name, t, v.doc) }

func (v memberVisitor) Function(t *ir.Function) error { return v.s.function(v.name, t, v.doc) }

func (v memberVisitor) Object(t *ir.Object) error {
	for _, p := range t.Props {
		if err := v.s.value(v.name+v.s.opts.Separator+p.Name, p.Type, p.Doc); err != nil {
			return err
		}
	}
	return nil
}

func (v memberVisitor) Promise(t *ir.Promise) error { return v.unsupported(t) }
func (v memberVisitor) Array(t *ir.Array) error     { return v.unsupported(t) }
func (v memberVisitor) Literal(t *ir.Literal) error { return v.unsupported(t) }
func (v memberVisitor) StrEnum(t *ir.StrEnum) error { return v.unsupported(t) }

func (v memberVisitor) unsupported(t ir.Type) error {
	return v.s.policy(t.Kind().String(), v.name, "%s member of type %s cannot become a block", v.name, ir.Describe(t))
}

// variable emits a zero-input expression block reading name.
func (s *synth) variable(name string, t *ir.Simple, doc string) error {
	check, err := s.check(t, name)
	if err != nil {
		return err
	}
	def := goblockly.Definition{
		Type:    s.reg.Unique(name),
		Inputs:  []goblockly.Input{{Kind: goblockly.InputDummy, Fields: []goblockly.Field{goblockly.Label(name)}}},
		Output:  check,
		Tooltip: doc,
	}
	s.add(def, goblockly.KindExpression, func(*goblockly.Block, *goblockly.Context) (string, error) {
		return name, nil
	})
	return nil
}

// function emits a call block for name. The generator always calls name,
// whatever identifier the block was registered under.
func (s *synth) function(name string, fn *ir.Function, doc string) error {
	args := make([]argument, 0, len(fn.Params))
	inputs := []goblockly.Input{{Kind: goblockly.InputDummy, Fields: []goblockly.Field{goblockly.Label(name)}}}
	for _, p := range fn.Params {
		a := ir.Visit[argument](p.Type, argVisitor{s: s, param: p, path: name})
		if a.err != nil {
			return a.err
		}
		args = append(args, a)
		inputs = append(inputs, a.input)
	}

	def := goblockly.Definition{Inputs: inputs, Tooltip: doc}
	kind := goblockly.KindStatement
	if ret, ok := fn.Return.(*ir.Simple); !ok || !ret.IsVoid() {
		check, err := s.check(fn.Return, name)
		if err != nil {
			return err
		}
		def.Output = check
		kind = goblockly.KindExpression
	}
	def.Type = s.reg.Unique(name)
	s.add(def, kind, callGenerator(name, args, kind == goblockly.KindStatement))
	return nil
}

func callGenerator(name string, args []argument, statement bool) goblockly.Generator {
	return func(b *goblockly.Block, c *goblockly.Context) (string, error) {
		parts := make([]string, 0, len(args))
		last := -1
		for i, a := range args {
			code, omitted, err := a.emit(b, c)
			if err != nil {
				return "", err
			}
			parts = append(parts, code)
			if !omitted {
				last = i
			}
		}
		// Trailing optional arguments left empty are dropped from the call.
		call := name + "(" + strings.Join(parts[:last+1], ", ") + ")"
		if statement {
			return call + ";\n", nil
		}
		return call, nil
	}
}

// argument is the visual input and code contribution of one parameter.
// emit reports omitted when an optional input was left empty.
type argument struct {
	input goblockly.Input
	emit  func(b *goblockly.Block, c *goblockly.Context) (code string, omitted bool, err error)
	err   error
}

type argVisitor struct {
	s     *synth
	param ir.Param
	path  string
}

func (v argVisitor) Simple(t *ir.Simple) argument {
	check, err := v.s.check(t, v.path+"("+v.param.Name+")")
	if err != nil {
		return argument{err: err}
	}
	return v.socket(check)
}

func (v argVisitor) Promise(t *ir.Promise) argument { return v.socket(goblockly.Checked(ir.Describe(t))) }
func (v argVisitor) Array(t *ir.Array) argument     { return v.socket(goblockly.Checked(ir.Describe(t))) }
func (v argVisitor) Object(t *ir.Object) argument   { return v.socket(goblockly.Checked(ir.Describe(t))) }

// socket is a value input compiled to the connected child expression.
func (v argVisitor) socket(check goblockly.Check) argument {
	name, optional := v.param.Name, v.param.Optional
	return argument{
		input: goblockly.Input{
			Kind:   goblockly.InputValue,
			Name:   name,
			Check:  check,
			Fields: []goblockly.Field{goblockly.Label(name)},
		},
		emit: func(b *goblockly.Block, c *goblockly.Context) (string, bool, error) {
			if optional {
				if child := b.Input(name); child == nil || child.Disabled {
					return "undefined", true, nil
				}
			}
			code, err := c.ValueToCode(b, name)
			return code, false, err
		},
	}
}

// Function parameters become statement inputs compiled to an inline
// arrow function whose parameter names come from the signature.
func (v argVisitor) Function(t *ir.Function) argument {
	name := v.param.Name
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Name
	}
	head := "(" + strings.Join(params, ", ") + ") => {\n"
	return argument{
		input: goblockly.Input{
			Kind:   goblockly.InputStatement,
			Name:   name,
			Fields: []goblockly.Field{goblockly.Label(name)},
		},
		emit: func(b *goblockly.Block, c *goblockly.Context) (string, bool, error) {
			body, err := c.StatementToCode(b, name)
			if err != nil {
				return "", false, err
			}
			return head + body + "}", false, nil
		},
	}
}

func (v argVisitor) StrEnum(t *ir.StrEnum) argument {
	name, values := v.param.Name, t.Values
	return argument{
		input: goblockly.Input{
			Kind:   goblockly.InputDummy,
			Fields: []goblockly.Field{goblockly.Label(name), goblockly.Dropdown(name, values...)},
		},
		emit: func(b *goblockly.Block, c *goblockly.Context) (string, bool, error) {
			sel, ok := b.Field(name)
			if !ok {
				sel = values[0]
			}
			if !slices.Contains(values, sel) {
				return "", false, goblockly.Issues{{
					Code:    goblockly.CodeInvalidField,
					Kind:    b.Type,
					Path:    b.ID + "/" + name,
					Message: fmt.Sprintf("%q is not one of %s", sel, ir.Describe(t)),
					Offset:  -1,
				}}
			}
			return goblockly.QuoteJS(sel), false, nil
		},
	}
}

func (v argVisitor) Literal(t *ir.Literal) argument {
	code := t.Value
	if t.LitKind == ir.LitString {
		code = goblockly.QuoteJS(t.Value)
	}
	return argument{
		input: goblockly.Input{
			Kind:   goblockly.InputDummy,
			Fields: []goblockly.Field{goblockly.Label(t.Value)},
		},
		emit: func(*goblockly.Block, *goblockly.Context) (string, bool, error) {
			return code, false, nil
		},
	}
}

// check resolves the connection check of a value socket or output. Both
// sides use the same naming so that outputs and sockets agree.
func (s *synth) check(t ir.Type, path string) (goblockly.Check, error) {
	r := ir.Visit[checkResult](t, checkVisitor{})
	if r.void {
		return nil, s.policy("VoidKeyword", path, "void cannot be used as a value")
	}
	return r.check, nil
}

type checkResult struct {
	check goblockly.Check
	void  bool
}

type checkVisitor struct{}

func (checkVisitor) Simple(t *ir.Simple) checkResult {
	switch t.Name {
	case ir.Void:
		return checkResult{void: true}
	case ir.Any:
		return checkResult{}
	}
	return checkResult{check: goblockly.Checked(ir.DisplayName(t.Name))}
}

func (checkVisitor) Promise(t *ir.Promise) checkResult   { return described(t) }
func (checkVisitor) Array(t *ir.Array) checkResult       { return described(t) }
func (checkVisitor) Object(t *ir.Object) checkResult     { return described(t) }
func (checkVisitor) Function(t *ir.Function) checkResult { return described(t) }

func (checkVisitor) Literal(t *ir.Literal) checkResult {
	switch t.LitKind {
	case ir.LitNumber:
		return checkResult{check: goblockly.Checked("Number")}
	case ir.LitBoolean:
		return checkResult{check: goblockly.Checked("Boolean")}
	}
	return checkResult{check: goblockly.Checked("String")}
}

func (checkVisitor) StrEnum(*ir.StrEnum) checkResult {
	return checkResult{check: goblockly.Checked("String")}
}

func described(t ir.Type) checkResult {
	return checkResult{check: goblockly.Checked(ir.Describe(t))}
}
