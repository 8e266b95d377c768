// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "testing"

func TestUnionNoneInjectedAndAscending(t *testing.T) {
	r := newTestRoot()
	sword := mustCompound(t, r, KindTable, "Sword")
	axe := mustCompound(t, r, KindTable, "Axe")
	u := mustCompound(t, r, KindUnion, "Equipment")
	u.Members = []*Member{
		structField("Sword", sword.ID),
		structField("Axe", axe.ID),
	}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(u.Members) != 3 {
		t.Fatalf("len(Members) = %d, want 3 (NONE + 2)", len(u.Members))
	}
	if u.Members[0].Name != "NONE" || u.Members[0].IntValue != 0 {
		t.Fatalf("Members[0] = %+v, want NONE=0", u.Members[0])
	}
	if u.Members[1].IntValue != 1 || u.Members[2].IntValue != 2 {
		t.Fatalf("ascending values = %d,%d, want 1,2", u.Members[1].IntValue, u.Members[2].IntValue)
	}
	if u.Underlying != ScalarUByte {
		t.Fatalf("union underlying = %v, want ubyte", u.Underlying)
	}
}

func TestUnionNonAscendingRejected(t *testing.T) {
	r := newTestRoot()
	a := mustCompound(t, r, KindTable, "A")
	b := mustCompound(t, r, KindTable, "B")
	u := mustCompound(t, r, KindUnion, "U")
	u.Members = []*Member{
		{Name: "A", Type: TypeDescriptor{Tag: TypeCompoundRef, Compound: a.ID}, Default: &Value{I: 5}},
		{Name: "B", Type: TypeDescriptor{Tag: TypeCompoundRef, Compound: b.ID}, Default: &Value{I: 3}},
	}

	if err := Analyze(r, Options{}); err == nil {
		t.Fatal("expected error for non-ascending union values")
	}
}
