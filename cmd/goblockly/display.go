package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	goblockly "github.com/reoring/goblockly"
)

var (
	successColorFG = pterm.FgLightGreen
	successStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	warnColorFG    = pterm.FgYellow
	warnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorColorFG   = pterm.FgRed
	errorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	infoColorFG    = pterm.FgLightCyan
	infoStyleBG    = pterm.NewStyle(pterm.BgLightCyan, pterm.FgBlack)
)

// Messages go to stderr so that generated output on stdout stays clean.
func init() {
	pterm.SetDefaultOutput(os.Stderr)
}

func printError(tag string, err error) {
	errorStyleBG.Print(" " + tag + " ")
	errorColorFG.Println(" " + err.Error())
}

func printWarning(tag, msg string) {
	warnStyleBG.Print(" " + tag + " ")
	warnColorFG.Println(" " + msg)
}

func printInfo(tag, msg string) {
	infoStyleBG.Print(" " + tag + " ")
	infoColorFG.Println(" " + msg)
}

func printSuccess(tag, msg string) {
	successStyleBG.Print(" " + tag + " ")
	successColorFG.Println(" " + msg)
}

// printIssues prints one line per issue, localized, with its location and
// hint.
func printIssues(source string, err error) {
	iss, ok := goblockly.AsIssues(err)
	if !ok {
		printError(source, err)
		return
	}
	for _, it := range iss {
		loc := source
		switch {
		case it.Line > 0:
			loc = fmt.Sprintf("%s:%d:%d", source, it.Line, it.Col)
		case it.Path != "":
			loc = source + " " + it.Path
		}
		printError(it.Code, errors.New(loc+": "+it.Localized()))
		if it.Hint != "" {
			infoColorFG.Println("    " + it.Hint)
		}
	}
}

func fatalIssues(source string, err error) {
	printIssues(source, err)
	os.Exit(1)
}

func fatalf(format string, a ...any) {
	printError("fatal", fmt.Errorf(format, a...))
	os.Exit(1)
}
