// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "testing"

// TestVec3StructLayout covers a struct with three floats, a double, a
// byte, and a nested struct, matching the classic FlatBuffers Monster.fbs
// Vec3 (x,y,z float32; test1 float64; test2 int8 color enum; test3
// struct{a:int16,b:int8}).
func TestVec3StructLayout(t *testing.T) {
	r := newTestRoot()
	inner := mustCompound(t, r, KindStruct, "Test3")
	inner.Members = []*Member{
		scalarField("a", ScalarShort),
		scalarField("b", ScalarByte),
	}

	vec3 := mustCompound(t, r, KindStruct, "Vec3")
	vec3.Members = []*Member{
		scalarField("x", ScalarFloat),
		scalarField("y", ScalarFloat),
		scalarField("z", ScalarFloat),
		scalarField("test1", ScalarDouble),
		scalarField("test2", ScalarByte),
		structField("test3", inner.ID),
	}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if inner.Size != 4 || inner.Align != 2 {
		t.Fatalf("Test3 size/align = %d/%d, want 4/2", inner.Size, inner.Align)
	}

	// x,y,z,test1: 4+4+4 padded to 8 then +8 = 24; test2 at 24 (+1=25);
	// test3 needs align 2, so offset 26, size 4 -> 30; final align 8 ->
	// size padded up to 32.
	if vec3.Align != 8 {
		t.Fatalf("Vec3 align = %d, want 8", vec3.Align)
	}
	if vec3.Size%vec3.Align != 0 {
		t.Fatalf("Vec3 size %d is not a multiple of its alignment %d", vec3.Size, vec3.Align)
	}
	if !isPow2(vec3.Align) || vec3.Align > 256 {
		t.Fatalf("Vec3 align %d is not a power of two <= 256", vec3.Align)
	}
}

// TestCircularStructDetection asserts that a struct cycle fails analysis
// with a circular-reference error naming both endpoints, and both
// compounds end up marked invalid.
func TestCircularStructDetection(t *testing.T) {
	r := newTestRoot()
	a := mustCompound(t, r, KindStruct, "A")
	b := mustCompound(t, r, KindStruct, "B")
	a.Members = []*Member{structField("b", b.ID)}
	b.Members = []*Member{structField("a", a.ID)}

	err := Analyze(r, Options{})
	if err == nil {
		t.Fatal("Analyze: expected circular-reference error, got nil")
	}
	serr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Analyze error type = %T, want *schema.Error", err)
	}
	found := false
	for _, d := range serr.Diagnostics {
		if d.Phase == PhaseResolveStructs {
			found = true
		}
	}
	if !found {
		t.Fatalf("no PhaseResolveStructs diagnostic in %v", serr.Diagnostics)
	}
	if !a.Invalid || !b.Invalid {
		t.Fatalf("both cycle endpoints should be invalid: a=%v b=%v", a.Invalid, b.Invalid)
	}
}

// TestEmptyStructRejected covers the "empty structs are an error" rule.
func TestEmptyStructRejected(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindStruct, "Empty")

	err := Analyze(r, Options{})
	if err == nil {
		t.Fatal("expected error for empty struct")
	}
	if !c.Invalid {
		t.Fatal("empty struct should be marked invalid")
	}
}

// TestForceAlignSmallerThanNaturalRejected covers force_align smaller
// than natural alignment being rejected.
func TestForceAlignSmallerThanNaturalRejected(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindStruct, "S")
	c.Members = []*Member{scalarField("v", ScalarLong)}
	c.Metadata.Set("force_align", "4")

	err := Analyze(r, Options{})
	if err == nil {
		t.Fatal("expected force_align error")
	}
	if !c.Invalid {
		t.Fatal("struct with invalid force_align should be marked invalid")
	}
}
