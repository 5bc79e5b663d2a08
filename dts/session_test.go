package dts_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	goblockly "github.com/reoring/goblockly"
	"github.com/reoring/goblockly/dts"
	"github.com/reoring/goblockly/internal/decl"
	"github.com/reoring/goblockly/stdblocks"
)

func newSession(t *testing.T) *dts.Session {
	t.Helper()
	s := dts.NewSession(nil)
	if err := stdblocks.Core().RegisterInto(s); err != nil {
		t.Fatalf("register core: %v", err)
	}
	return s
}

func load(t *testing.T, s *dts.Session, src string) *dts.Batch {
	t.Helper()
	b, err := s.Load(src, goblockly.Options{Category: "test"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return b
}

func compile(t *testing.T, s *dts.Session, blocks ...*goblockly.Block) string {
	t.Helper()
	code, _, err := goblockly.Compile(s.Table(), goblockly.NewWorkspace(blocks...))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return code
}

func number(v string) *goblockly.Block {
	return goblockly.NewBlock("math_number").SetField("NUM", v)
}

func wrap(behaviour string, expr *goblockly.Block) *goblockly.Block {
	return goblockly.NewBlock(stdblocks.ExprStatementType).SetField("behaviour", behaviour).Connect("expr", expr)
}

func TestLoad_RepeatedNamesAreDisambiguatedInOrder(t *testing.T) {
	s := newSession(t)
	b := load(t, s, `
declare function on(event: "rising" | "falling" | "change", pin: number): void;
declare function on(pin: number): void;
declare function on(): void;
`)
	if got := strings.Join(b.IDs(), ","); got != "on,on_1,on_2" {
		t.Fatalf("ids = %s", got)
	}
	code := compile(t, s,
		goblockly.NewBlock("on").SetField("event", "falling").Connect("pin", number("5")),
	)
	if code != "on(\"falling\", 5);\n" {
		t.Fatalf("on = %q", code)
	}
	for _, id := range []string{"on_1", "on_2"} {
		blk := goblockly.NewBlock(id).Connect("pin", number("1"))
		if code := compile(t, s, blk); !strings.HasPrefix(code, "on(") {
			t.Fatalf("%s must call on(...), emitted %q", id, code)
		}
	}
}

func TestLoad_IdentifiersStayUniqueAcrossBatches(t *testing.T) {
	s := newSession(t)
	load(t, s, `declare function on(): void;`)
	b := load(t, s, `declare function on(): void; declare function exprStatement(): void;`)
	if got := strings.Join(b.IDs(), ","); got != "on_1,exprStatement_1" {
		t.Fatalf("ids = %s", got)
	}
	seen := map[string]bool{}
	for _, id := range s.Table().IDs() {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestLoad_EndStatement(t *testing.T) {
	s := newSession(t)
	load(t, s, `declare function end(): void;`)
	if code := compile(t, s, goblockly.NewBlock("end")); code != "end();\n" {
		t.Fatalf("code = %q", code)
	}
}

func TestLoad_StatementWrapperSequencing(t *testing.T) {
	s := newSession(t)
	b := load(t, s, `
declare function read(pin: number): number;
declare function sleep(ms: number): Promise<void>;
`)
	read := b.Definitions[0]
	if read.Kind != goblockly.KindExpression {
		t.Fatalf("read must have a value output")
	}
	if pin, ok := read.Input("pin"); !ok || pin.Check[0] != "Number" {
		t.Fatalf("read must have one numeric input, got %+v", read.Inputs)
	}

	first := wrap(stdblocks.BehaviourIgnore, goblockly.NewBlock("read").Connect("pin", number("13")))
	first.Then(wrap(stdblocks.BehaviourAwait, goblockly.NewBlock("sleep").Connect("ms", number("500"))))
	code := compile(t, s, first)
	if code != "(read(13));\n(await sleep(500));\n" {
		t.Fatalf("code = %q", code)
	}
}

func TestLoad_NamespaceMember(t *testing.T) {
	s := newSession(t)
	b := load(t, s, `declare module "m" { function f(x: number): void; }`)
	if got := b.IDs(); len(got) != 1 || got[0] != "m.f" {
		t.Fatalf("ids = %v", got)
	}
	if code := compile(t, s, goblockly.NewBlock("m.f").Connect("x", number("9"))); code != "m.f(9);\n" {
		t.Fatalf("code = %q", code)
	}
}

func TestLoad_FailedBatchLeavesTableUnchanged(t *testing.T) {
	s := newSession(t)
	load(t, s, `declare function ok(): void;`)
	before := strings.Join(s.Table().IDs(), ",")
	defs := len(s.Definitions())

	_, err := s.Load(`
declare function fine(a: number): void;
declare function bad({ a }: Options): void;
`, goblockly.Options{Category: "broken"})
	iss, ok := goblockly.AsIssues(err)
	if !ok || iss[0].Code != goblockly.CodeUnsupportedSyntax || iss[0].Kind != "ObjectBindingPattern" {
		t.Fatalf("expected unsupported_syntax ObjectBindingPattern, got %v", err)
	}
	if iss[0].Line != 3 || iss[0].Path != "broken" || iss[0].Hint == "" {
		t.Fatalf("issue = %+v", iss[0])
	}
	var se *decl.SyntaxError
	if !errors.As(err, &se) || se.Kind != "ObjectBindingPattern" {
		t.Fatalf("syntax error cause not reachable through errors.As: %v", err)
	}
	if after := strings.Join(s.Table().IDs(), ","); after != before {
		t.Fatalf("table changed: %s -> %s", before, after)
	}
	if len(s.Definitions()) != defs {
		t.Fatalf("definitions changed")
	}

	// A policy failure after some members synthesized must not consume names.
	_, err = s.Load(`declare function ok(): void; declare function v(a: void): void;`, goblockly.Options{Category: "policy"})
	if !goblockly.HasCode(err, goblockly.CodeSynthesisPolicy) {
		t.Fatalf("expected synthesis_policy, got %v", err)
	}
	if after := strings.Join(s.Table().IDs(), ","); after != before {
		t.Fatalf("table changed after policy failure: %s", after)
	}
	b := load(t, s, `declare function ok(): void;`)
	if b.IDs()[0] != "ok_1" {
		t.Fatalf("failed batch consumed a name: %v", b.IDs())
	}
}

func TestLoad_CollisionWithRegisteredBlockFails(t *testing.T) {
	tbl := goblockly.NewTable()
	s := dts.NewSession(tbl)
	load(t, s, `declare function tone(): void;`)
	// A block registered behind the session's back is still honoured.
	if err := tbl.Register("beep", goblockly.KindStatement, func(*goblockly.Block, *goblockly.Context) (string, error) { return "", nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	b := load(t, s, `declare function beep(): void;`)
	if b.IDs()[0] != "beep_1" {
		t.Fatalf("ids = %v", b.IDs())
	}
}

func TestLoad_WarningsAndFS(t *testing.T) {
	fsys := fstest.MapFS{"gpio.d.ts": {Data: []byte(`
declare module "gpio" {
    type Mode = number;
    function write(pin: number, value: number): void;
}`)}}
	s := newSession(t)
	b, err := s.LoadFS(fsys, "gpio.d.ts", goblockly.Options{Category: "GPIO"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !b.Diag().HasWarnings() || !strings.Contains(b.Warnings[0], "TypeAliasDeclaration") {
		t.Fatalf("warnings = %v", b.Warnings)
	}
	if b.Category != "GPIO" || b.IDs()[0] != "gpio.write" {
		t.Fatalf("batch = %+v", b)
	}
	if _, err := s.LoadFS(fsys, "missing.d.ts", goblockly.Options{}); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestLoad_MalformedDeclaration(t *testing.T) {
	s := newSession(t)
	_, err := s.Load(`declare const a: Foo, b: Foo;`, goblockly.Options{})
	if !goblockly.HasCode(err, goblockly.CodeMalformedDeclaration) {
		t.Fatalf("expected malformed_declaration, got %v", err)
	}
}
