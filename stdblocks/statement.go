package stdblocks

import (
	"strings"

	goblockly "github.com/reoring/goblockly"
)

// ExprStatementType is the block type of the statement wrapper.
const ExprStatementType = "exprStatement"

// Sequencing policies of the statement wrapper.
const (
	BehaviourAwait  = "await"
	BehaviourIgnore = "ignore"
)

// ExprStatement is the only way to place an expression block in a
// statement sequence. Its behaviour field decides whether the value is
// awaited or discarded.
func ExprStatement() Set {
	def := statementConnectors(goblockly.Definition{
		Type: ExprStatementType,
		Inputs: []goblockly.Input{{
			Kind:   goblockly.InputValue,
			Name:   "expr",
			Fields: []goblockly.Field{goblockly.Dropdown("behaviour", BehaviourAwait, BehaviourIgnore)},
		}},
		Tooltip: "Run an expression as a statement, awaiting or ignoring its result.",
	})
	return Set{
		Definitions: []goblockly.Definition{def},
		Entries:     []goblockly.Entry{{ID: ExprStatementType, Kind: goblockly.KindStatement, Gen: exprStatement}},
	}
}

func exprStatement(b *goblockly.Block, c *goblockly.Context) (string, error) {
	behaviour, ok := b.Field("behaviour")
	if !ok {
		behaviour = BehaviourAwait
	}
	if behaviour != BehaviourAwait && behaviour != BehaviourIgnore {
		return "", invalidField(b, "behaviour", "behaviour %q is neither %s nor %s", behaviour, BehaviourAwait, BehaviourIgnore)
	}
	expr, err := c.ValueToCode(b, "expr")
	if err != nil {
		return "", err
	}
	if behaviour == BehaviourAwait {
		return "(await " + expr + ");\n", nil
	}
	return "(" + expr + ");\n", nil
}

// ImportType returns the block type of the star import of module.
func ImportType(module string) string { return "import_" + module }

// Imports returns one star-import block per module.
func Imports(modules ...string) Set {
	var s Set
	for _, m := range modules {
		line := "import * as " + identifier(m) + " from " + goblockly.QuoteJS(m) + ";\n"
		s.Definitions = append(s.Definitions, statementConnectors(goblockly.Definition{
			Type:   ImportType(m),
			Inputs: []goblockly.Input{{Kind: goblockly.InputDummy, Fields: []goblockly.Field{goblockly.Label(strings.TrimSuffix(line, ";\n"))}}},
		}))
		s.Entries = append(s.Entries, goblockly.Entry{
			ID:   ImportType(m),
			Kind: goblockly.KindStatement,
			Gen: func(*goblockly.Block, *goblockly.Context) (string, error) {
				return line, nil
			},
		})
	}
	return s
}

// identifier turns a module name such as "simple-radio" into a binding
// name.
func identifier(module string) string {
	var sb strings.Builder
	for i, r := range module {
		switch {
		case r == '_' || r == '$' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
