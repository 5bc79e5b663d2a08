package stdblocks

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	goblockly "github.com/reoring/goblockly"
)

// Operators returns generators for the editor's comparison, boolean,
// arithmetic and text blocks. Every binary result is parenthesized.
func Operators() Set {
	return Set{Entries: []goblockly.Entry{
		{ID: "logic_compare", Kind: goblockly.KindExpression, Gen: binary("0", map[string]string{
			"EQ": "==", "NEQ": "!=", "LT": "<", "LTE": "<=", "GT": ">", "GTE": ">=",
		})},
		{ID: "logic_operation", Kind: goblockly.KindExpression, Gen: binary("false", map[string]string{
			"AND": "&&", "OR": "||",
		})},
		{ID: "logic_negate", Kind: goblockly.KindExpression, Gen: negate},
		{ID: "logic_ternary", Kind: goblockly.KindExpression, Gen: ternary},
		{ID: "math_arithmetic", Kind: goblockly.KindExpression, Gen: binary("0", map[string]string{
			"ADD": "+", "MINUS": "-", "MULTIPLY": "*", "DIVIDE": "/", "POWER": "**",
		})},
		{ID: "text_join", Kind: goblockly.KindExpression, Gen: textJoin},
		{ID: "text_length", Kind: goblockly.KindExpression, Gen: textLength},
	}}
}

func binary(def string, ops map[string]string) goblockly.Generator {
	return func(b *goblockly.Block, c *goblockly.Context) (string, error) {
		opName, _ := b.Field("OP")
		op, ok := ops[opName]
		if !ok {
			return "", invalidField(b, "OP", "unknown operator %q", opName)
		}
		l, err := c.OptionalValueToCode(b, "A", def)
		if err != nil {
			return "", err
		}
		r, err := c.OptionalValueToCode(b, "B", def)
		if err != nil {
			return "", err
		}
		return "(" + l + " " + op + " " + r + ")", nil
	}
}

func negate(b *goblockly.Block, c *goblockly.Context) (string, error) {
	v, err := c.OptionalValueToCode(b, "BOOL", "true")
	if err != nil {
		return "", err
	}
	return "!(" + v + ")", nil
}

func ternary(b *goblockly.Block, c *goblockly.Context) (string, error) {
	cond, err := c.OptionalValueToCode(b, "IF", "false")
	if err != nil {
		return "", err
	}
	then, err := c.OptionalValueToCode(b, "THEN", "null")
	if err != nil {
		return "", err
	}
	els, err := c.OptionalValueToCode(b, "ELSE", "null")
	if err != nil {
		return "", err
	}
	return "(" + cond + " ? " + then + " : " + els + ")", nil
}

// textJoin concatenates the ADDn inputs; empty slots become "".
func textJoin(b *goblockly.Block, c *goblockly.Context) (string, error) {
	var idx []int
	for name := range b.Inputs {
		if n, err := strconv.Atoi(strings.TrimPrefix(name, "ADD")); err == nil && strings.HasPrefix(name, "ADD") {
			idx = append(idx, n)
		}
	}
	if len(idx) == 0 {
		return `""`, nil
	}
	sort.Ints(idx)
	parts := make([]string, 0, idx[len(idx)-1]+1)
	for n := 0; n <= idx[len(idx)-1]; n++ {
		v, err := c.OptionalValueToCode(b, "ADD"+strconv.Itoa(n), `""`)
		if err != nil {
			return "", err
		}
		parts = append(parts, "String("+v+")")
	}
	return "(" + strings.Join(parts, " + ") + ")", nil
}

func textLength(b *goblockly.Block, c *goblockly.Context) (string, error) {
	v, err := c.OptionalValueToCode(b, "VALUE", `""`)
	if err != nil {
		return "", err
	}
	return "String(" + v + ").length", nil
}

// Variables returns generators for variables_get and variables_set.
// Assignments use var so that a name may be set in several places.
func Variables() Set {
	return Set{Entries: []goblockly.Entry{
		{ID: "variables_get", Kind: goblockly.KindExpression, Gen: variableGet},
		{ID: "variables_set", Kind: goblockly.KindStatement, Gen: variableSet},
	}}
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func variableName(b *goblockly.Block) (string, error) {
	name, _ := b.Field("VAR")
	if !identifierRE.MatchString(name) {
		return "", invalidField(b, "VAR", "%q is not a valid variable name", name)
	}
	return name, nil
}

func variableGet(b *goblockly.Block, _ *goblockly.Context) (string, error) {
	return variableName(b)
}

func variableSet(b *goblockly.Block, c *goblockly.Context) (string, error) {
	name, err := variableName(b)
	if err != nil {
		return "", err
	}
	v, err := c.OptionalValueToCode(b, "VALUE", "undefined")
	if err != nil {
		return "", err
	}
	return "var " + name + " = " + v + ";\n", nil
}
