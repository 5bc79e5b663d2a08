// Package toolbox assembles synthesized and fixed blocks into a
// categorized palette in Blockly's categoryToolbox JSON format.
package toolbox

import (
	json "github.com/goccy/go-json"
)

// Item is a toolbox entry: a *Category or a Separator.
type Item interface {
	isItem()
}

// Category is a named palette section.
type Category struct {
	Name   string
	ID     string
	Colour string
	Blocks []string
}

func (*Category) isItem() {}

// Separator is a gap between categories.
type Separator struct{}

func (Separator) isItem() {}

// Toolbox is an ordered palette.
type Toolbox struct {
	Contents []Item
}

// Categories returns the categories of the toolbox in order.
func (t *Toolbox) Categories() []*Category {
	var out []*Category
	for _, it := range t.Contents {
		if c, ok := it.(*Category); ok {
			out = append(out, c)
		}
	}
	return out
}

// Category returns the category with the given toolbox item id.
func (t *Toolbox) Category(id string) (*Category, bool) {
	for _, c := range t.Categories() {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

type blockRef struct {
	Kind string `json:"kind"`
	Type string `json:"type"`
}

type categoryJSON struct {
	Kind          string     `json:"kind"`
	Name          string     `json:"name"`
	ToolboxItemID string     `json:"toolboxitemid,omitempty"`
	Colour        string     `json:"colour,omitempty"`
	Contents      []blockRef `json:"contents,omitempty"`
}

type separatorJSON struct {
	Kind string `json:"kind"`
}

// MarshalJSON renders {"kind":"categoryToolbox","contents":[...]}.
func (t *Toolbox) MarshalJSON() ([]byte, error) {
	contents := make([]any, 0, len(t.Contents))
	for _, it := range t.Contents {
		switch it := it.(type) {
		case *Category:
			c := categoryJSON{Kind: "category", Name: it.Name, ToolboxItemID: it.ID, Colour: it.Colour}
			c.Contents = make([]blockRef, len(it.Blocks))
			for i, b := range it.Blocks {
				c.Contents[i] = blockRef{Kind: "block", Type: b}
			}
			contents = append(contents, c)
		case Separator:
			contents = append(contents, separatorJSON{Kind: "sep"})
		}
	}
	return json.Marshal(struct {
		Kind     string `json:"kind"`
		Contents []any  `json:"contents"`
	}{Kind: "categoryToolbox", Contents: contents})
}

// Builtins returns the editor's standard categories followed by a
// separator. Only blocks with a generator in stdblocks.Core are listed.
func Builtins() []Item {
	return []Item{
		&Category{Name: "Loops", ID: "loops", Colour: "#57834b", Blocks: []string{
			"controls_repeat_ext", "controls_whileUntil", "controls_for", "controls_flow_statements",
		}},
		&Category{Name: "Logic", ID: "logic", Colour: "#496682", Blocks: []string{
			"logic_boolean", "controls_if", "controls_ifelse", "logic_compare", "logic_operation", "logic_negate", "logic_ternary",
		}},
		&Category{Name: "Math", ID: "math", Colour: "#475180", Blocks: []string{
			"math_number", "math_arithmetic",
		}},
		&Category{Name: "Variables", ID: "variables", Colour: "#a55b80", Blocks: []string{
			"variables_get", "variables_set",
		}},
		&Category{Name: "Text", ID: "text", Colour: "#498374", Blocks: []string{
			"text", "text_join", "text_length",
		}},
		Separator{},
	}
}
