package stdblocks

import (
	"strconv"
	"strings"

	goblockly "github.com/reoring/goblockly"
)

// Literals returns generators for the editor's math_number, text and
// logic_boolean blocks.
func Literals() Set {
	return Set{Entries: []goblockly.Entry{
		{ID: "math_number", Kind: goblockly.KindExpression, Gen: mathNumber},
		{ID: "text", Kind: goblockly.KindExpression, Gen: text},
		{ID: "logic_boolean", Kind: goblockly.KindExpression, Gen: logicBoolean},
	}}
}

func mathNumber(b *goblockly.Block, c *goblockly.Context) (string, error) {
	v, err := c.FieldValue(b, "NUM")
	if err != nil {
		return "", err
	}
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return "", invalidField(b, "NUM", "%q is not a number", v)
	}
	if strings.HasPrefix(v, "-") {
		return "(" + v + ")", nil
	}
	return v, nil
}

func text(b *goblockly.Block, _ *goblockly.Context) (string, error) {
	v, _ := b.Field("TEXT")
	return goblockly.QuoteJS(v), nil
}

func logicBoolean(b *goblockly.Block, _ *goblockly.Context) (string, error) {
	switch v, _ := b.Field("BOOL"); v {
	case "TRUE", "true":
		return "true", nil
	case "FALSE", "false", "":
		return "false", nil
	default:
		return "", invalidField(b, "BOOL", "%q is not TRUE or FALSE", v)
	}
}

// Controls returns generators for the loop and conditional blocks.
func Controls() Set {
	return Set{Entries: []goblockly.Entry{
		{ID: "controls_repeat_ext", Kind: goblockly.KindStatement, Gen: repeat},
		{ID: "controls_whileUntil", Kind: goblockly.KindStatement, Gen: whileUntil},
		{ID: "controls_for", Kind: goblockly.KindStatement, Gen: forRange},
		{ID: "controls_flow_statements", Kind: goblockly.KindStatement, Gen: flow},
		{ID: "controls_if", Kind: goblockly.KindStatement, Gen: ifElse},
		{ID: "controls_ifelse", Kind: goblockly.KindStatement, Gen: ifElse},
	}}
}

func repeat(b *goblockly.Block, c *goblockly.Context) (string, error) {
	times, err := c.OptionalValueToCode(b, "TIMES", "0")
	if err != nil {
		return "", err
	}
	body, err := c.StatementToCode(b, "DO")
	if err != nil {
		return "", err
	}
	return "for (let count = 0; count < " + times + "; count++) {\n" + body + "}\n", nil
}

func whileUntil(b *goblockly.Block, c *goblockly.Context) (string, error) {
	cond, err := c.OptionalValueToCode(b, "BOOL", "false")
	if err != nil {
		return "", err
	}
	switch mode, _ := b.Field("MODE"); mode {
	case "", "WHILE":
	case "UNTIL":
		cond = "!(" + cond + ")"
	default:
		return "", invalidField(b, "MODE", "%q is not WHILE or UNTIL", mode)
	}
	body, err := c.StatementToCode(b, "DO")
	if err != nil {
		return "", err
	}
	return "while (" + cond + ") {\n" + body + "}\n", nil
}

// forRange counts VAR from FROM to TO inclusive, stepping by BY.
func forRange(b *goblockly.Block, c *goblockly.Context) (string, error) {
	name, err := variableName(b)
	if err != nil {
		return "", err
	}
	from, err := c.OptionalValueToCode(b, "FROM", "0")
	if err != nil {
		return "", err
	}
	to, err := c.OptionalValueToCode(b, "TO", "0")
	if err != nil {
		return "", err
	}
	by, err := c.OptionalValueToCode(b, "BY", "1")
	if err != nil {
		return "", err
	}
	body, err := c.StatementToCode(b, "DO")
	if err != nil {
		return "", err
	}
	return "for (let " + name + " = " + from + "; " + name + " <= " + to + "; " + name + " += " + by + ") {\n" + body + "}\n", nil
}

func flow(b *goblockly.Block, _ *goblockly.Context) (string, error) {
	switch v, _ := b.Field("FLOW"); v {
	case "BREAK", "":
		return "break;\n", nil
	case "CONTINUE":
		return "continue;\n", nil
	default:
		return "", invalidField(b, "FLOW", "%q is not BREAK or CONTINUE", v)
	}
}

// ifElse renders IF0/DO0, any IFn/DOn else-if branches and ELSE.
func ifElse(b *goblockly.Block, c *goblockly.Context) (string, error) {
	var sb strings.Builder
	for n := 0; n == 0 || b.Input("IF"+strconv.Itoa(n)) != nil || b.Input("DO"+strconv.Itoa(n)) != nil; n++ {
		idx := strconv.Itoa(n)
		cond, err := c.OptionalValueToCode(b, "IF"+idx, "false")
		if err != nil {
			return "", err
		}
		body, err := c.StatementToCode(b, "DO"+idx)
		if err != nil {
			return "", err
		}
		if n > 0 {
			sb.WriteString(" else ")
		}
		sb.WriteString("if (" + cond + ") {\n" + body + "}")
	}
	if b.Input("ELSE") != nil {
		body, err := c.StatementToCode(b, "ELSE")
		if err != nil {
			return "", err
		}
		sb.WriteString(" else {\n" + body + "}")
	}
	sb.WriteString("\n")
	return sb.String(), nil
}
