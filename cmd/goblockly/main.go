package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	goblockly "github.com/reoring/goblockly"
	"github.com/reoring/goblockly/i18n"
	"github.com/reoring/goblockly/toolbox"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "blocks":
		blocksCmd(os.Args[2:])
	case "toolbox":
		toolboxCmd(os.Args[2:])
	case "compile":
		compileCmd(os.Args[2:])
	case "explore":
		exploreCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `goblockly CLI

Usage:
  goblockly blocks  [-manifest toolbox.yaml] [-dts extra.d.ts ...] [-o blocks.json]
  goblockly toolbox [-manifest toolbox.yaml] [-dts extra.d.ts ...] [-o toolbox.json]
  goblockly compile -workspace program.json [-manifest toolbox.yaml] [-dts extra.d.ts ...] [-o program.js]
  goblockly explore [-manifest toolbox.yaml]

Notes:
  - Without -manifest the embedded Jaculus palette is used.
  - Manifests may be YAML (.yaml, .yml) or TOML (.toml).
  - Built-in categories list only the editor blocks goblockly can compile:
    loops, conditionals, comparisons, boolean and arithmetic operators,
    variables, text literals, join and length.`)
}

// paletteFlags are shared by every subcommand that needs a palette.
type paletteFlags struct {
	manifest string
	dts      stringList
	lang     string
	verbose  bool
}

func (p *paletteFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.manifest, "manifest", "", "toolbox manifest (.yaml, .yml or .toml); default: embedded Jaculus palette")
	fs.Var(&p.dts, "dts", "additional declaration file loaded into a \"Custom\" category (repeatable)")
	fs.StringVar(&p.lang, "lang", "en", "message language (en, ja)")
	fs.BoolVar(&p.verbose, "v", false, "enable verbose logs")
}

func (p *paletteFlags) logf(format string, a ...any) {
	if p.verbose {
		printInfo("goblockly", fmt.Sprintf(format, a...))
	}
}

// load builds the palette described by the flags.
func (p *paletteFlags) load() *toolbox.Result {
	i18n.SetLanguage(p.lang)

	var (
		res *toolbox.Result
		err error
	)
	if p.manifest == "" {
		p.logf("using embedded Jaculus palette")
		res, err = toolbox.Jaculus()
	} else {
		dir, name := filepath.Split(p.manifest)
		if dir == "" {
			dir = "."
		}
		fsys := os.DirFS(dir)
		p.logf("loading manifest %s", p.manifest)
		var m *toolbox.Manifest
		m, err = toolbox.LoadManifestFS(fsys, name)
		if err == nil {
			res, err = toolbox.Build(m, fsys)
		}
	}
	if err != nil {
		fatalIssues("palette", err)
	}

	if len(p.dts) > 0 {
		custom := &toolbox.Category{Name: "Custom", ID: "custom", Colour: goblockly.DefaultColour}
		for _, path := range p.dts {
			p.logf("loading declarations %s", path)
			src, err := os.ReadFile(path)
			if err != nil {
				fatalf("reading %s: %v", path, err)
			}
			b, err := res.Session.Load(string(src), goblockly.Options{Category: filepath.Base(path)})
			if err != nil {
				fatalIssues(path, err)
			}
			custom.Blocks = append(custom.Blocks, b.IDs()...)
			for _, w := range b.Warnings {
				res.Warnings = append(res.Warnings, filepath.Base(path)+": "+w)
			}
		}
		res.Toolbox.Contents = append(res.Toolbox.Contents, custom)
	}

	for _, w := range res.Warnings {
		printWarning("skipped", w)
	}
	p.logf("palette ready: %d categories, %d generators", len(res.Toolbox.Categories()), res.Table().Len())
	return res
}

func blocksCmd(args []string) {
	fs := flag.NewFlagSet("blocks", flag.ExitOnError)
	var pf paletteFlags
	var out string
	pf.register(fs)
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)

	res := pf.load()
	writeJSON(out, res.Definitions())
	if out != "" {
		printSuccess("blocks", fmt.Sprintf("%d block definitions written to %s", len(res.Definitions()), out))
	}
}

func toolboxCmd(args []string) {
	fs := flag.NewFlagSet("toolbox", flag.ExitOnError)
	var pf paletteFlags
	var out string
	pf.register(fs)
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)

	res := pf.load()
	writeJSON(out, res.Toolbox)
	if out != "" {
		printSuccess("toolbox", fmt.Sprintf("%d categories written to %s", len(res.Toolbox.Categories()), out))
	}
}

func compileCmd(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var pf paletteFlags
	var wsPath, out string
	pf.register(fs)
	fs.StringVar(&wsPath, "workspace", "", "Blockly workspace JSON to compile")
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)
	if wsPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	res := pf.load()
	data, err := os.ReadFile(wsPath)
	if err != nil {
		fatalf("reading workspace: %v", err)
	}
	ws, err := goblockly.DecodeWorkspace(data)
	if err != nil {
		fatalIssues(wsPath, err)
	}
	pf.logf("compiling %d top-level blocks", len(ws.Blocks))
	code, diag, err := goblockly.Compile(res.Table(), ws)
	for _, w := range diag.Warnings() {
		printWarning("compile", w)
	}
	if err != nil {
		fatalIssues(wsPath, err)
	}
	writeText(out, code)
	if out != "" {
		printSuccess("compile", fmt.Sprintf("program written to %s", out))
	}
}

func writeJSON(out string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("encoding output: %v", err)
	}
	writeText(out, string(b)+"\n")
}

func writeText(out, text string) {
	if out == "" {
		fmt.Print(text)
		return
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fatalf("creating output dir: %v", err)
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
