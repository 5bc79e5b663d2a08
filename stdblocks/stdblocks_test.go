package stdblocks

import (
	"testing"

	goblockly "github.com/reoring/goblockly"
)

func coreTable(t *testing.T) *goblockly.Table {
	t.Helper()
	tbl := goblockly.NewTable()
	s := Merge(Core(), Imports("gpio", "simple-radio"))
	if err := tbl.RegisterAll(s.Entries...); err != nil {
		t.Fatalf("register: %v", err)
	}
	return tbl
}

func compile(t *testing.T, tbl *goblockly.Table, blocks ...*goblockly.Block) string {
	t.Helper()
	code, _, err := goblockly.Compile(tbl, goblockly.NewWorkspace(blocks...))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return code
}

func number(v string) *goblockly.Block {
	return goblockly.NewBlock("math_number").SetField("NUM", v)
}

func TestExprStatement_Behaviours(t *testing.T) {
	tbl := coreTable(t)
	ignore := goblockly.NewBlock(ExprStatementType).SetField("behaviour", BehaviourIgnore).Connect("expr", number("1"))
	if code := compile(t, tbl, ignore); code != "(1);\n" {
		t.Fatalf("ignore = %q", code)
	}
	await := goblockly.NewBlock(ExprStatementType).SetField("behaviour", BehaviourAwait).Connect("expr", number("2"))
	if code := compile(t, tbl, await); code != "(await 2);\n" {
		t.Fatalf("await = %q", code)
	}
	unset := goblockly.NewBlock(ExprStatementType).Connect("expr", number("3"))
	if code := compile(t, tbl, unset); code != "(await 3);\n" {
		t.Fatalf("default behaviour must be await, got %q", code)
	}
}

func TestExprStatement_Failures(t *testing.T) {
	tbl := coreTable(t)
	_, _, err := goblockly.Compile(tbl, goblockly.NewWorkspace(goblockly.NewBlock(ExprStatementType)))
	if !goblockly.HasCode(err, goblockly.CodeMissingInput) {
		t.Fatalf("expected missing_input, got %v", err)
	}
	bad := goblockly.NewBlock(ExprStatementType).SetField("behaviour", "later").Connect("expr", number("1"))
	_, _, err = goblockly.Compile(tbl, goblockly.NewWorkspace(bad))
	if !goblockly.HasCode(err, goblockly.CodeInvalidField) {
		t.Fatalf("expected invalid_field, got %v", err)
	}
}

func TestExprStatement_Definition(t *testing.T) {
	def := ExprStatement().Definitions[0]
	if def.Kind != goblockly.KindStatement {
		t.Fatalf("wrapper must be a statement block")
	}
	in, ok := def.Input("expr")
	if !ok || in.Kind != goblockly.InputValue || in.Check != nil {
		t.Fatalf("expr input = %+v", in)
	}
	if f, ok := def.Field("behaviour"); !ok || len(f.Options) != 2 {
		t.Fatalf("behaviour field = %+v", f)
	}
}

func TestImports(t *testing.T) {
	tbl := coreTable(t)
	code := compile(t, tbl, goblockly.NewBlock(ImportType("gpio")))
	if code != "import * as gpio from \"gpio\";\n" {
		t.Fatalf("code = %q", code)
	}
	code = compile(t, tbl, goblockly.NewBlock(ImportType("simple-radio")))
	if code != "import * as simple_radio from \"simple-radio\";\n" {
		t.Fatalf("code = %q", code)
	}
	if ids := Imports(DefaultImports...).IDs(); len(ids) != len(DefaultImports) || ids[0] != "import_adc" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestLiterals(t *testing.T) {
	tbl := coreTable(t)
	wrap := func(expr *goblockly.Block) *goblockly.Block {
		return goblockly.NewBlock(ExprStatementType).SetField("behaviour", BehaviourIgnore).Connect("expr", expr)
	}
	cases := []struct {
		blk  *goblockly.Block
		want string
	}{
		{number("1.5"), "(1.5);\n"},
		{number("-2"), "((-2));\n"},
		{goblockly.NewBlock("text").SetField("TEXT", `say "hi"`), "(\"say \\\"hi\\\"\");\n"},
		{goblockly.NewBlock("logic_boolean").SetField("BOOL", "TRUE"), "(true);\n"},
	}
	for _, c := range cases {
		if code := compile(t, tbl, wrap(c.blk)); code != c.want {
			t.Fatalf("%s = %q, want %q", c.blk.Type, code, c.want)
		}
	}
	_, _, err := goblockly.Compile(tbl, goblockly.NewWorkspace(wrap(number("abc"))))
	if !goblockly.HasCode(err, goblockly.CodeInvalidField) {
		t.Fatalf("expected invalid_field, got %v", err)
	}
}

func TestControls(t *testing.T) {
	tbl := coreTable(t)
	imp := goblockly.NewBlock(ImportType("gpio"))

	loop := goblockly.NewBlock("controls_repeat_ext").Connect("TIMES", number("3")).Connect("DO", imp)
	if code := compile(t, tbl, loop); code != "for (let count = 0; count < 3; count++) {\n  import * as gpio from \"gpio\";\n}\n" {
		t.Fatalf("repeat = %q", code)
	}

	until := goblockly.NewBlock("controls_whileUntil").SetField("MODE", "UNTIL").
		Connect("BOOL", goblockly.NewBlock("logic_boolean").SetField("BOOL", "TRUE"))
	if code := compile(t, tbl, until); code != "while (!(true)) {\n}\n" {
		t.Fatalf("until = %q", code)
	}

	cond := goblockly.NewBlock("controls_if").
		Connect("IF0", goblockly.NewBlock("logic_boolean").SetField("BOOL", "FALSE")).
		Connect("DO0", goblockly.NewBlock(ImportType("gpio"))).
		Connect("IF1", goblockly.NewBlock("logic_boolean").SetField("BOOL", "TRUE")).
		Connect("ELSE", goblockly.NewBlock(ImportType("simple-radio")))
	want := "if (false) {\n  import * as gpio from \"gpio\";\n} else if (true) {\n} else {\n  import * as simple_radio from \"simple-radio\";\n}\n"
	if code := compile(t, tbl, cond); code != want {
		t.Fatalf("if = %q, want %q", code, want)
	}
}

type recorder struct {
	defs    int
	entries []string
}

func (r *recorder) Register(defs []goblockly.Definition, entries ...goblockly.Entry) error {
	r.defs += len(defs)
	for _, e := range entries {
		r.entries = append(r.entries, e.ID)
	}
	return nil
}

func TestSet_RegisterInto(t *testing.T) {
	r := &recorder{}
	if err := Core().RegisterInto(r); err != nil {
		t.Fatalf("register: %v", err)
	}
	if r.defs != 1 || len(r.entries) != 19 || r.entries[0] != ExprStatementType {
		t.Fatalf("recorded %d defs, entries %v", r.defs, r.entries)
	}
}

func TestOperators(t *testing.T) {
	tbl := coreTable(t)
	get := func(name string) *goblockly.Block { return goblockly.NewBlock("variables_get").SetField("VAR", name) }
	set := func(name string, v *goblockly.Block) *goblockly.Block {
		return goblockly.NewBlock("variables_set").SetField("VAR", name).Connect("VALUE", v)
	}
	sum := goblockly.NewBlock("math_arithmetic").SetField("OP", "ADD").Connect("A", get("n")).Connect("B", number("1"))
	cmp := goblockly.NewBlock("logic_compare").SetField("OP", "LT").Connect("A", get("n")).Connect("B", number("10"))
	and := goblockly.NewBlock("logic_operation").SetField("OP", "AND").Connect("A", cmp).
		Connect("B", goblockly.NewBlock("logic_negate").Connect("BOOL", goblockly.NewBlock("logic_boolean").SetField("BOOL", "FALSE")))
	join := goblockly.NewBlock("text_join").
		Connect("ADD0", goblockly.NewBlock("text").SetField("TEXT", "n=")).
		Connect("ADD2", get("n"))
	pick := goblockly.NewBlock("logic_ternary").Connect("IF", and).Connect("THEN", join)

	head := set("n", number("0"))
	head.Then(set("n", sum)).Then(set("s", pick)).Then(set("l", goblockly.NewBlock("text_length").Connect("VALUE", get("s"))))
	want := "var n = 0;\n" +
		"var n = (n + 1);\n" +
		"var s = (((n < 10) && !(false)) ? (String(\"n=\") + String(\"\") + String(n)) : null);\n" +
		"var l = String(s).length;\n"
	if code := compile(t, tbl, head); code != want {
		t.Fatalf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestForAndFlow(t *testing.T) {
	tbl := coreTable(t)
	loop := goblockly.NewBlock("controls_for").SetField("VAR", "i").
		Connect("FROM", number("1")).Connect("TO", number("3")).
		Connect("DO", goblockly.NewBlock("controls_flow_statements").SetField("FLOW", "CONTINUE"))
	want := "for (let i = 1; i <= 3; i += 1) {\n  continue;\n}\n"
	if code := compile(t, tbl, loop); code != want {
		t.Fatalf("code = %q", code)
	}
}

func TestOperators_InvalidFields(t *testing.T) {
	tbl := coreTable(t)
	cases := map[string]*goblockly.Block{
		"unknown operator": goblockly.NewBlock(ExprStatementType).SetField("behaviour", BehaviourIgnore).
			Connect("expr", goblockly.NewBlock("math_arithmetic").SetField("OP", "MOD")),
		"bad variable name": goblockly.NewBlock("variables_set").SetField("VAR", "two words"),
		"bad flow":          goblockly.NewBlock("controls_flow_statements").SetField("FLOW", "RETURN"),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := goblockly.Compile(tbl, goblockly.NewWorkspace(b))
			if !goblockly.HasCode(err, goblockly.CodeInvalidField) {
				t.Fatalf("expected invalid_field, got %v", err)
			}
		})
	}
}
