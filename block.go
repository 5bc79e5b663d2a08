package goblockly

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Check lists the type names a connection accepts. A nil Check accepts any
// block. Value sockets and value outputs use the same naming, so a block
// whose output check is "Promise<void>" plugs into sockets checked with
// "Promise<void>" (or unchecked ones).
type Check []string

// Checked returns a Check for the given type names.
func Checked(names ...string) Check { return Check(names) }

func (c Check) raw() json.RawMessage {
	switch len(c) {
	case 0:
		return json.RawMessage("null")
	case 1:
		return json.RawMessage(strconv.Quote(c[0]))
	}
	b, err := json.Marshal([]string(c))
	if err != nil {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}

// InputKind distinguishes the input rows of a block.
type InputKind int

const (
	InputDummy     InputKind = iota // fields only, no connection
	InputValue                      // socket for one expression block
	InputStatement                  // socket for a sequence of statement blocks
)

// FieldKind distinguishes the fields placed on an input row.
type FieldKind int

const (
	FieldLabel    FieldKind = iota // fixed, non-editable text
	FieldDropdown                  // one of Options
)

// Field is an editable or fixed element of an input row.
type Field struct {
	Kind    FieldKind
	Name    string   // dropdown field name; empty for labels
	Text    string   // label text
	Options []string // dropdown values; display text equals the value
}

// Label returns a fixed text field.
func Label(text string) Field { return Field{Kind: FieldLabel, Text: text} }

// Dropdown returns a named dropdown field over options.
func Dropdown(name string, options ...string) Field {
	return Field{Kind: FieldDropdown, Name: name, Options: options}
}

// Input is one row of a block: its fields, in order, followed by the
// connection (none for dummy inputs).
type Input struct {
	Kind   InputKind
	Name   string
	Check  Check
	Fields []Field
}

// Definition is the palette schema of one block type. Type is the unique
// identifier shared with the generator table.
type Definition struct {
	Type   string
	Inputs []Input
	Kind   Kind
	// Output is the check annotation of the value output of expression
	// blocks.
	Output  Check
	Colour  string
	Tooltip string
}

// Input returns the input row with the given name.
func (d Definition) Input(name string) (Input, bool) {
	for _, in := range d.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Field returns the named field (dropdowns) across all inputs.
func (d Definition) Field(name string) (Field, bool) {
	for _, in := range d.Inputs {
		for _, f := range in.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return Field{}, false
}

// definitionJSON is the Blockly JSON block definition format.
type definitionJSON struct {
	Type              string          `json:"type"`
	Message0          string          `json:"message0"`
	Args0             []argJSON       `json:"args0,omitempty"`
	Output            json.RawMessage `json:"output,omitempty"`
	PreviousStatement json.RawMessage `json:"previousStatement,omitempty"`
	NextStatement     json.RawMessage `json:"nextStatement,omitempty"`
	Colour            string          `json:"colour,omitempty"`
	Tooltip           string          `json:"tooltip,omitempty"`
}

type argJSON struct {
	Type    string          `json:"type"`
	Name    string          `json:"name,omitempty"`
	Text    string          `json:"text,omitempty"`
	Check   json.RawMessage `json:"check,omitempty"`
	Options [][2]string     `json:"options,omitempty"`
}

// MarshalJSON renders the definition in Blockly's JSON definition format
// (message0/args0 with one interpolation token per field and input).
func (d Definition) MarshalJSON() ([]byte, error) {
	out := definitionJSON{Type: d.Type, Colour: d.Colour, Tooltip: d.Tooltip}
	for _, in := range d.Inputs {
		for _, f := range in.Fields {
			out.Args0 = append(out.Args0, fieldJSON(f))
		}
		arg := argJSON{Name: in.Name}
		switch in.Kind {
		case InputDummy:
			arg.Type = "input_dummy"
		case InputValue:
			arg.Type = "input_value"
			if in.Check != nil {
				arg.Check = in.Check.raw()
			}
		case InputStatement:
			arg.Type = "input_statement"
			if in.Check != nil {
				arg.Check = in.Check.raw()
			}
		}
		out.Args0 = append(out.Args0, arg)
	}

	tokens := make([]string, len(out.Args0))
	for i := range out.Args0 {
		tokens[i] = "%" + strconv.Itoa(i+1)
	}
	out.Message0 = strings.Join(tokens, " ")

	if d.Kind == KindExpression {
		out.Output = d.Output.raw()
	} else {
		out.PreviousStatement = json.RawMessage("null")
		out.NextStatement = json.RawMessage("null")
	}
	return json.Marshal(out)
}

func fieldJSON(f Field) argJSON {
	if f.Kind == FieldDropdown {
		opts := make([][2]string, len(f.Options))
		for i, o := range f.Options {
			opts[i] = [2]string{o, o}
		}
		return argJSON{Type: "field_dropdown", Name: f.Name, Options: opts}
	}
	return argJSON{Type: "field_label", Text: f.Text}
}
