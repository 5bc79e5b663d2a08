package toolbox

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	json "github.com/goccy/go-json"

	goblockly "github.com/reoring/goblockly"
	"github.com/reoring/goblockly/stdblocks"
)

func TestJaculus_Build(t *testing.T) {
	res, err := Jaculus()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	gpio, ok := res.Toolbox.Category("gpio")
	if !ok {
		t.Fatalf("gpio category missing")
	}
	for _, id := range []string{"gpio.PinMode.OUTPUT", "gpio.pinMode", "gpio.write", "gpio.read", "gpio.on", "gpio.off"} {
		if !slices.Contains(gpio.Blocks, id) {
			t.Fatalf("gpio blocks %v lack %s", gpio.Blocks, id)
		}
	}
	radio, _ := res.Toolbox.Category("simpleradio")
	for _, id := range []string{"simpleradio.on", "simpleradio.on_1", "simpleradio.on_2"} {
		if !slices.Contains(radio.Blocks, id) {
			t.Fatalf("simpleradio blocks %v lack %s", radio.Blocks, id)
		}
	}
	util, _ := res.Toolbox.Category("util")
	if len(util.Blocks) != 1 || util.Blocks[0] != stdblocks.ExprStatementType {
		t.Fatalf("util blocks = %v", util.Blocks)
	}
	imports, _ := res.Toolbox.Category("imports")
	if len(imports.Blocks) != 6 || imports.Blocks[1] != "import_gpio" {
		t.Fatalf("imports blocks = %v", imports.Blocks)
	}
	if !res.Warnings.HasWarnings() {
		t.Fatalf("skipped type aliases and interfaces must be reported")
	}
	for _, c := range res.Toolbox.Categories() {
		for _, id := range c.Blocks {
			if !res.Table().Has(id) {
				t.Fatalf("category %s lists %s without a generator", c.Name, id)
			}
		}
	}
}

func TestJaculus_CompilesProgram(t *testing.T) {
	res, err := Jaculus()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	num := func(v string) *goblockly.Block { return goblockly.NewBlock("math_number").SetField("NUM", v) }

	head := goblockly.NewBlock("import_gpio")
	tail := head.Then(goblockly.NewBlock("gpio.pinMode").
		Connect("pin", num("2")).
		Connect("mode", goblockly.NewBlock("gpio.PinMode.OUTPUT")))
	loop := goblockly.NewBlock("controls_whileUntil").
		Connect("BOOL", goblockly.NewBlock("logic_boolean").SetField("BOOL", "TRUE"))
	body := goblockly.NewBlock("gpio.write").Connect("pin", num("2")).Connect("value", num("1"))
	body.Then(goblockly.NewBlock(stdblocks.ExprStatementType).
		SetField("behaviour", stdblocks.BehaviourAwait).
		Connect("expr", goblockly.NewBlock("sleep").Connect("ms", num("500"))))
	loop.Connect("DO", body)
	tail.Then(loop)

	code, _, err := goblockly.Compile(res.Table(), goblockly.NewWorkspace(head))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := strings.Join([]string{
		`import * as gpio from "gpio";`,
		`gpio.pinMode(2, gpio.PinMode.OUTPUT);`,
		`while (true) {`,
		`  gpio.write(2, 1);`,
		`  (await sleep(500));`,
		`}`,
		``,
	}, "\n")
	if code != want {
		t.Fatalf("code =\n%s\nwant\n%s", code, want)
	}
}

func TestToolbox_MarshalJSON(t *testing.T) {
	tb := &Toolbox{Contents: append(Builtins(), &Category{Name: "GPIO", ID: "gpio", Colour: "#FFD500", Blocks: []string{"gpio.read"}})}
	b, err := json.Marshal(tb)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got struct {
		Kind     string `json:"kind"`
		Contents []struct {
			Kind     string `json:"kind"`
			Name     string `json:"name"`
			Contents []struct {
				Kind string `json:"kind"`
				Type string `json:"type"`
			} `json:"contents"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != "categoryToolbox" || len(got.Contents) != 7 {
		t.Fatalf("toolbox = %+v", got)
	}
	if got.Contents[0].Name != "Loops" || got.Contents[3].Name != "Variables" || got.Contents[5].Kind != "sep" {
		t.Fatalf("unexpected builtin layout: %s", b)
	}
	last := got.Contents[6]
	if last.Name != "GPIO" || len(last.Contents) != 1 || last.Contents[0].Type != "gpio.read" || last.Contents[0].Kind != "block" {
		t.Fatalf("custom category = %+v", last)
	}
}

const tomlManifest = `
name = "demo"
skipBuiltins = true

[[toolbox]]
name = "Core"
core = true

[[toolbox]]
kind = "sep"

[[toolbox]]
name = "Pins"
id = "pins"
colour = "#123456"
blockColour = "#654321"
declarations = "pins.d.ts"
`

func TestLoadManifest_TOML(t *testing.T) {
	m, err := LoadManifest("demo.toml", []byte(tomlManifest))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Name != "demo" || !m.SkipBuiltins || len(m.Entries) != 3 {
		t.Fatalf("manifest = %+v", m)
	}
	if m.Entries[0].ID != "core" || m.Entries[1].Kind != "sep" {
		t.Fatalf("entries = %+v", m.Entries)
	}

	fsys := fstest.MapFS{"pins.d.ts": {Data: []byte(`declare function read(pin: number): number;`)}}
	res, err := Build(m, fsys)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(res.Toolbox.Contents) != 3 {
		t.Fatalf("contents = %d, want 3 without builtins", len(res.Toolbox.Contents))
	}
	defs := res.Definitions()
	last := defs[len(defs)-1]
	if last.Type != "read" || last.Colour != "#654321" {
		t.Fatalf("definition = %+v", last)
	}
}

func TestLoadManifest_Rejections(t *testing.T) {
	cases := []struct {
		name string
		file string
		src  string
	}{
		{"duplicate yaml key", "m.yaml", "name: a\nname: b\n"},
		{"unknown yaml key", "m.yaml", "name: a\ncolor: red\n"},
		{"unknown toml key", "m.toml", "name = \"a\"\ncolor = \"red\"\n"},
		{"unknown extension", "m.json", "{}"},
		{"nameless category", "m.yaml", "toolbox:\n  - core: true\n"},
		{"empty category", "m.yaml", "toolbox:\n  - name: Empty\n"},
		{"unknown kind", "m.yaml", "toolbox:\n  - kind: button\n"},
		{"duplicate ids", "m.yaml", "toolbox:\n  - name: A\n    core: true\n  - name: a\n    core: true\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadManifest(c.file, []byte(c.src))
			if !goblockly.HasCode(err, goblockly.CodeInvalidManifest) {
				t.Fatalf("expected invalid_manifest, got %v", err)
			}
		})
	}

	_, err := LoadManifest("m.yaml", []byte("name: a\nname: b\n"))
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) || dup.Key != "name" || dup.Line != 2 {
		t.Fatalf("expected DuplicateKeyError for name at line 2, got %v", err)
	}
}

func TestBuild_FailingCategoryAborts(t *testing.T) {
	fsys := fstest.MapFS{
		"good.d.ts": {Data: []byte(`declare function ok(): void;`)},
		"bad.d.ts":  {Data: []byte(`declare function f(a: number[]): void;`)},
	}
	m := &Manifest{Entries: []Entry{
		{Name: "Good", Declarations: "good.d.ts"},
		{Name: "Bad", Declarations: "bad.d.ts"},
	}}
	_, err := Build(m, fsys)
	iss, ok := goblockly.AsIssues(err)
	if !ok || iss[0].Kind != "ArrayType" || iss[0].Path != "Bad" {
		t.Fatalf("expected ArrayType issue for category Bad, got %v", err)
	}

	m = &Manifest{Entries: []Entry{{Name: "Text", Core: true}}}
	if _, err := Build(m, fsys); !goblockly.HasCode(err, goblockly.CodeInvalidManifest) {
		t.Fatalf("category id clashing with a builtin must be rejected, got %v", err)
	}
}
