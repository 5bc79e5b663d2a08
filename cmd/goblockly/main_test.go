package main

import (
	"flag"
	"testing"
)

func TestPaletteFlags_RepeatableDTS(t *testing.T) {
	fs := flag.NewFlagSet("blocks", flag.ContinueOnError)
	var pf paletteFlags
	pf.register(fs)
	if err := fs.Parse([]string{"-dts", "a.d.ts", "-dts", "b.d.ts", "-lang", "ja", "-v"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pf.dts) != 2 || pf.dts[1] != "b.d.ts" {
		t.Fatalf("dts = %v", pf.dts)
	}
	if pf.dts.String() != "a.d.ts,b.d.ts" || pf.lang != "ja" || !pf.verbose {
		t.Fatalf("flags = %+v", pf)
	}
}
