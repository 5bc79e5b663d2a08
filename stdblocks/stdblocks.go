// Package stdblocks provides the fixed blocks that do not come from
// declarations: the statement wrapper, star-import blocks and generators
// for the built-in literal and control-flow blocks of the editor.
package stdblocks

import (
	"fmt"

	goblockly "github.com/reoring/goblockly"
)

// Colour of the fixed blocks (a Blockly hue).
const Colour = "160"

// DefaultImports lists the runtime modules offered as star-import blocks.
var DefaultImports = []string{"adc", "gpio", "i2c", "ledc", "simpleradio", "wifi"}

// Set is a group of fixed blocks. Built-in editor blocks carry only
// generators; their shapes are owned by the editor runtime.
type Set struct {
	Definitions []goblockly.Definition
	Entries     []goblockly.Entry
}

// IDs returns the block identifiers of the set in order.
func (s Set) IDs() []string {
	ids := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		ids[i] = e.ID
	}
	return ids
}

// Merge concatenates sets.
func Merge(sets ...Set) Set {
	var out Set
	for _, s := range sets {
		out.Definitions = append(out.Definitions, s.Definitions...)
		out.Entries = append(out.Entries, s.Entries...)
	}
	return out
}

// Registrar accepts fixed blocks; *dts.Session implements it.
type Registrar interface {
	Register(defs []goblockly.Definition, entries ...goblockly.Entry) error
}

// RegisterInto adds the set to r.
func (s Set) RegisterInto(r Registrar) error { return r.Register(s.Definitions, s.Entries...) }

// Core is the statement wrapper plus the generators of every built-in
// editor block offered by the toolbox.
func Core() Set { return Merge(ExprStatement(), Literals(), Controls(), Operators(), Variables()) }

func invalidField(b *goblockly.Block, name, format string, args ...any) error {
	return goblockly.Issues{{
		Code:    goblockly.CodeInvalidField,
		Kind:    b.Type,
		Path:    b.ID + "/" + name,
		Message: fmt.Sprintf(format, args...),
		Offset:  -1,
	}}
}

func statementConnectors(def goblockly.Definition) goblockly.Definition {
	def.Kind = goblockly.KindStatement
	def.Colour = Colour
	return def
}
