// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "testing"

func TestEnumAutoIncrement(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindEnum, "Color")
	c.Members = []*Member{
		{Name: "Red"},
		{Name: "Green"},
		{Name: "Blue", Default: &Value{I: 10}},
		{Name: "Pink"},
	}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	want := map[string]int64{"Red": 0, "Green": 1, "Blue": 10, "Pink": 11}
	for _, m := range c.Members {
		if m.IntValue != want[m.Name] {
			t.Errorf("%s = %d, want %d", m.Name, m.IntValue, want[m.Name])
		}
	}
}

func TestEnumBitFlags(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindEnum, "Color")
	c.Underlying = ScalarUByte
	c.Metadata.Set("bit_flags", "")
	c.Members = []*Member{
		{Name: "Red", Default: &Value{I: 0}},
		{Name: "Green", Default: &Value{I: 1}},
		{Name: "Blue", Default: &Value{I: 2}},
	}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	want := map[string]int64{"Red": 1, "Green": 2, "Blue": 4}
	for _, m := range c.Members {
		if m.IntValue != want[m.Name] {
			t.Errorf("%s = %d, want %d", m.Name, m.IntValue, want[m.Name])
		}
	}

	// Red|Green|Blue == 0b111 == 7; fbjson's flag parser ORs tokens, so a
	// repeated Blue (Red|Green|Blue|Blue) also gives 7.
	sum := int64(0)
	for _, m := range c.Members {
		sum |= m.IntValue
	}
	if sum != 7 {
		t.Fatalf("Red|Green|Blue = %d, want 7", sum)
	}
}

func TestEnumDuplicateValueFlagged(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindEnum, "E")
	c.Members = []*Member{
		{Name: "A", Default: &Value{I: 1}},
		{Name: "B", Default: &Value{I: 1}},
	}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if c.Members[0].Duplicate {
		t.Fatal("first occurrence should not be flagged duplicate")
	}
	if !c.Members[1].Duplicate {
		t.Fatal("second occurrence should be flagged duplicate")
	}
	if c.Invalid {
		t.Fatal("duplicate non-bit-flag values are allowed, not an error")
	}
}
