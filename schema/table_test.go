// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "testing"

// TestMonsterTableDefaults covers the classic "empty table" scenario:
// building Monster{name:"MyMonster"} should leave hp defaulting to 100 and
// pos absent. This test only checks the analyzer's default-value handling;
// the actual build/verify round trip is covered in the flatbuf and verify
// packages.
func TestMonsterTableDefaults(t *testing.T) {
	r := newTestRoot()
	vec3 := mustCompound(t, r, KindStruct, "Vec3")
	vec3.Members = []*Member{scalarField("x", ScalarFloat)}

	monster := mustCompound(t, r, KindTable, "Monster")
	monster.Members = []*Member{
		structField("pos", vec3.ID),
		{Name: "hp", Type: TypeDescriptor{Tag: TypeScalar, Scalar: ScalarShort}, Default: &Value{Scalar: ScalarShort, I: 100}},
		{Name: "name", Type: TypeDescriptor{Tag: TypeString}},
	}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, m := range monster.Members {
		if m.Name == "hp" && m.Default.I != 100 {
			t.Errorf("hp default = %d, want 100", m.Default.I)
		}
	}
}

func TestAutoFieldIDsWithUnion(t *testing.T) {
	r := newTestRoot()
	weapon := mustCompound(t, r, KindTable, "Weapon")
	union := mustCompound(t, r, KindUnion, "Equipment")
	union.Members = []*Member{structField("Weapon", weapon.ID)}

	monster := mustCompound(t, r, KindTable, "Monster")
	monster.Members = []*Member{
		scalarField("hp", ScalarShort),
		structField("equipped", union.ID),
		scalarField("mana", ScalarShort),
	}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	ids := map[string]CompoundFieldID{}
	for _, m := range monster.Members {
		ids[m.Name] = m.ID
	}
	if ids["hp"] != 0 {
		t.Errorf("hp id = %d, want 0", ids["hp"])
	}
	// equipped is a union field: it occupies id 2 (payload), with its
	// implicit type tag at id 1.
	if ids["equipped"] != 2 {
		t.Errorf("equipped id = %d, want 2", ids["equipped"])
	}
	if ids["mana"] != 3 {
		t.Errorf("mana id = %d, want 3", ids["mana"])
	}
}

func TestMixedExplicitAndAutoFieldIDsRejected(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindTable, "T")
	explicitField := scalarField("a", ScalarInt)
	explicitField.Metadata.Set("id", "0")
	c.Members = []*Member{explicitField, scalarField("b", ScalarInt)}

	if err := Analyze(r, Options{}); err == nil {
		t.Fatal("expected error for mixed field id assignment")
	}
}

func TestRequiredOnScalarRejected(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindTable, "T")
	f := scalarField("a", ScalarInt)
	f.Metadata.Set("required", "")
	c.Members = []*Member{f}

	if err := Analyze(r, Options{}); err == nil {
		t.Fatal("expected error for required on scalar field")
	}
}

func TestKeyOnNonKeyTypeRejected(t *testing.T) {
	r := newTestRoot()
	vec3 := mustCompound(t, r, KindStruct, "Vec3")
	vec3.Members = []*Member{scalarField("x", ScalarFloat)}
	c := mustCompound(t, r, KindTable, "T")
	f := structField("v", vec3.ID)
	f.Metadata.Set("key", "")
	c.Members = []*Member{f}

	if err := Analyze(r, Options{}); err == nil {
		t.Fatal("expected error for key on non-scalar, non-string field")
	}
}

func TestPrimaryKeySelection(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindTable, "T")
	idField := scalarField("id", ScalarLong)
	idField.Metadata.Set("key", "")
	nameField := &Member{Name: "name", Type: TypeDescriptor{Tag: TypeString}}
	c.Members = []*Member{idField, nameField}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if c.PrimaryKey != 0 || c.Members[c.PrimaryKey].Name != "id" {
		t.Fatalf("primary key = %d, want index of id field", c.PrimaryKey)
	}
}

func TestMultiplePrimaryKeysRejected(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindTable, "T")
	a := scalarField("a", ScalarInt)
	a.Metadata.Set("primary_key", "")
	b := scalarField("b", ScalarInt)
	b.Metadata.Set("primary_key", "")
	c.Members = []*Member{a, b}

	if err := Analyze(r, Options{}); err == nil {
		t.Fatal("expected error for multiple primary keys")
	}
}

func TestSortedVectorOfTableWithoutKeyRejected(t *testing.T) {
	r := newTestRoot()
	weapon := mustCompound(t, r, KindTable, "Weapon")
	weapon.Members = []*Member{scalarField("damage", ScalarInt)}

	c := mustCompound(t, r, KindTable, "T")
	f := &Member{Name: "weapons", Type: TypeDescriptor{Tag: TypeVectorOfCompound, Compound: weapon.ID}}
	f.Metadata.Set("sorted", "")
	c.Members = []*Member{f}

	if err := Analyze(r, Options{}); err == nil {
		t.Fatal("expected error for sorted vector-of-table with no key field on the element type")
	}
}

func TestSortedVectorOfTableWithKeyAccepted(t *testing.T) {
	r := newTestRoot()
	weapon := mustCompound(t, r, KindTable, "Weapon")
	nameField := &Member{Name: "name", Type: TypeDescriptor{Tag: TypeString}}
	nameField.Metadata.Set("key", "")
	weapon.Members = []*Member{nameField}

	c := mustCompound(t, r, KindTable, "T")
	f := &Member{Name: "weapons", Type: TypeDescriptor{Tag: TypeVectorOfCompound, Compound: weapon.ID}}
	f.Metadata.Set("sorted", "")
	c.Members = []*Member{f}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
}

func TestFieldOrderAlignDescending(t *testing.T) {
	r := newTestRoot()
	c := mustCompound(t, r, KindTable, "T")
	c.Members = []*Member{
		scalarField("byteField", ScalarByte),
		scalarField("longField", ScalarLong),
		scalarField("shortField", ScalarShort),
	}

	if err := Analyze(r, Options{}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if c.Members[0].Name != "longField" {
		t.Fatalf("first field = %s, want longField (align-descending order)", c.Members[0].Name)
	}
	if c.Members[len(c.Members)-1].Name != "byteField" {
		t.Fatalf("last field = %s, want byteField", c.Members[len(c.Members)-1].Name)
	}
}
