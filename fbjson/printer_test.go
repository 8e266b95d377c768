// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flatcc-go/flatcc/flatbuf"
)

func TestParserAndPrinterRoundTrip(t *testing.T) {
	root := monsterSchema()
	const text = `{ "name":"MyMonster", "hp":80, "color":"Green Blue", "pos":{"x":1,"y":2,"z":3}, "inventory":[1,2,3] }`

	b := flatbuf.New(flatbuf.Options{})
	p := NewParser(NewTextLexer([]byte(text)), root, b, Options{})
	buf, err := p.ParseAsRoot("MONS", root.RootType)
	if err != nil {
		t.Fatalf("ParseAsRoot: %v", err)
	}

	var out bytes.Buffer
	printer := NewPrinter(root, PrintOptions{SymbolicEnums: true})
	if err := printer.PrintAsRoot(&out, buf, root.RootType); err != nil {
		t.Fatalf("PrintAsRoot: %v", err)
	}
	printed := out.String()

	for _, want := range []string{`"name":"MyMonster"`, `"hp":80`, `"x":1`, `"y":2`, `"z":3`, `"inventory":[1,2,3]`} {
		if !strings.Contains(printed, want) {
			t.Errorf("printed JSON %q missing %q", printed, want)
		}
	}

	// Re-parse the printed text and confirm idempotence: parse(print(buf))
	// yields a buffer whose reader-visible field values equal the original.
	b2 := flatbuf.New(flatbuf.Options{})
	p2 := NewParser(NewTextLexer([]byte(printed)), root, b2, Options{})
	buf2, err := p2.ParseAsRoot("MONS", root.RootType)
	if err != nil {
		t.Fatalf("re-parse of printed output failed: %v", err)
	}

	var out2 bytes.Buffer
	if err := printer.PrintAsRoot(&out2, buf2, root.RootType); err != nil {
		t.Fatalf("second PrintAsRoot: %v", err)
	}
	if out2.String() != printed {
		t.Fatalf("print(parse(print(buf))) != print(buf):\n%q\nvs\n%q", out2.String(), printed)
	}
}

func TestPrinterSkipDefaultIsCanonical(t *testing.T) {
	root := monsterSchema()
	b := flatbuf.New(flatbuf.Options{})
	p := NewParser(NewTextLexer([]byte(`{ "name":"MyMonster", "hp":100 }`)), root, b, Options{})
	buf, err := p.ParseAsRoot("MONS", root.RootType)
	if err != nil {
		t.Fatalf("ParseAsRoot: %v", err)
	}

	var out bytes.Buffer
	printer := NewPrinter(root, PrintOptions{SkipDefaults: true})
	if err := printer.PrintAsRoot(&out, buf, root.RootType); err != nil {
		t.Fatalf("PrintAsRoot: %v", err)
	}
	if strings.Contains(out.String(), "hp") {
		t.Fatalf("expected hp (== default 100) to be skipped, got %q", out.String())
	}
	if !strings.Contains(out.String(), `"name":"MyMonster"`) {
		t.Fatalf("expected name to still print, got %q", out.String())
	}
}

func TestPrinterBitFlagUnion(t *testing.T) {
	root := monsterSchema()
	b := flatbuf.New(flatbuf.Options{})
	p := NewParser(NewTextLexer([]byte(`{ "name":"Monster", "color":"Green Blue Red Blue" }`)), root, b, Options{})
	buf, err := p.ParseAsRoot("MONS", root.RootType)
	if err != nil {
		t.Fatalf("ParseAsRoot: %v", err)
	}
	var out bytes.Buffer
	printer := NewPrinter(root, PrintOptions{SymbolicEnums: true})
	if err := printer.PrintAsRoot(&out, buf, root.RootType); err != nil {
		t.Fatalf("PrintAsRoot: %v", err)
	}
	// Red|Green|Blue decomposes back to all three names, space-joined.
	if !strings.Contains(out.String(), `"color":"Red Green Blue"`) {
		t.Fatalf("got %q", out.String())
	}
}
