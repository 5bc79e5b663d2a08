package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/peterh/liner"

	goblockly "github.com/reoring/goblockly"
	"github.com/reoring/goblockly/internal/decl"
)

const (
	historyFile = ".goblockly_history"
	promptMain  = "d.ts> "
	promptCont  = "....> "
)

const exploreHelp = `Enter declarations; each complete input becomes one batch.
  :blocks      list every block id in the session
  :show <id>   print the Blockly JSON of a block
  :quit        leave`

// exploreCmd is an interactive loop that synthesizes blocks from typed
// declarations on top of the selected palette.
func exploreCmd(args []string) {
	fs := flag.NewFlagSet("explore", flag.ExitOnError)
	var pf paletteFlags
	pf.register(fs)
	_ = fs.Parse(args)

	res := pf.load()
	sess := res.Session
	fmt.Println(exploreHelp)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for n := 1; ; {
		src, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(src)
		if line == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(line, ":") {
			cmd, arg, _ := strings.Cut(line, " ")
			switch cmd {
			case ":quit", ":q":
				return
			case ":blocks":
				for _, d := range sess.Definitions() {
					fmt.Printf("%-32s %s\n", d.Type, d.Kind)
				}
			case ":show":
				showDefinition(sess.Definitions(), strings.TrimSpace(arg))
			case ":help":
				fmt.Println(exploreHelp)
			default:
				printWarning("explore", "unknown command, type :help")
			}
			continue
		}

		b, err := sess.Load(src, goblockly.Options{Category: fmt.Sprintf("input%d", n)})
		if err != nil {
			printIssues("input", err)
			continue
		}
		n++
		for _, w := range b.Warnings {
			printWarning("skipped", w)
		}
		for _, d := range b.Definitions {
			printSuccess(d.Kind.String(), d.Type)
		}
	}
}

func showDefinition(defs []goblockly.Definition, id string) {
	for _, d := range defs {
		if d.Type != id {
			continue
		}
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			printError("show", err)
			return
		}
		fmt.Println(string(out))
		return
	}
	printWarning("show", fmt.Sprintf("no block %q", id))
}

// readByParseProbe reads lines until the accumulated text parses or fails
// for a reason other than ending early.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := decl.Parse(src); err != nil && decl.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}
