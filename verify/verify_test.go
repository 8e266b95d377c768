// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package verify

import (
	"testing"

	"github.com/flatcc-go/flatcc/flatbuf"
	"github.com/flatcc-go/flatcc/schema"
)

// monsterSchema builds a small RootSchema by hand: a Monster table with a
// required hitpoints field and a name string, mirroring the tutorial
// fixture every FlatBuffers implementation tests against.
func monsterSchema() *schema.RootSchema {
	root := schema.NewRootSchema()
	global := root.Scope(nil)

	monster, _ := root.NewCompound(global, schema.KindTable, "Monster", "monster_test.fbs")
	hp := schema.Member{
		Name: "hp",
		Type: schema.TypeDescriptor{Tag: schema.TypeScalar, Scalar: schema.ScalarShort},
		ID:   0,
	}
	hp.Metadata.Set("required", "")
	monster.Members = []*schema.Member{
		&hp,
		{
			Name: "name",
			Type: schema.TypeDescriptor{Tag: schema.TypeString},
			ID:   1,
		},
	}
	root.RootType = monster.ID
	root.FileIdentifier = "MONS"
	return root
}

func putU16(dst []byte, v uint16) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}

func buildMonster(t *testing.T, hp int16, withName bool) []byte {
	t.Helper()
	b := flatbuf.New(flatbuf.Options{})
	if err := b.StartBuffer("MONS", false); err != nil {
		t.Fatal(err)
	}

	var name flatbuf.Ref
	if withName {
		name = b.CreateString("Orc")
	}

	if err := b.StartTable(2); err != nil {
		t.Fatal(err)
	}
	var hpBytes [2]byte
	putU16(hpBytes[:], uint16(hp))
	if err := b.TableAdd(0, hpBytes[:], 2); err != nil {
		t.Fatal(err)
	}
	if withName {
		if err := b.TableAddOffset(1, name); err != nil {
			t.Fatal(err)
		}
	}
	root, err := b.EndTable()
	if err != nil {
		t.Fatal(err)
	}
	buf, err := b.EndBuffer(root)
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestAsRootAcceptsWellFormedMonster(t *testing.T) {
	root := monsterSchema()
	buf := buildMonster(t, 10, true)
	if err := AsRoot(buf, root); err != nil {
		t.Fatalf("AsRoot rejected a well-formed buffer: %v", err)
	}
}

func TestAsRootRejectsIdentifierMismatch(t *testing.T) {
	root := monsterSchema()
	buf := buildMonster(t, 10, true)
	root.FileIdentifier = "NOPE"
	err := AsRoot(buf, root)
	if err == nil {
		t.Fatal("expected identifier mismatch error")
	}
	v, ok := err.(*Violation)
	if !ok || v.Err != ErrIdentifierMiss {
		t.Fatalf("got %v, want ErrIdentifierMiss", err)
	}
}

func TestAsRootRejectsTruncatedBuffer(t *testing.T) {
	root := monsterSchema()
	buf := buildMonster(t, 10, true)
	if err := AsRoot(buf[:2], root); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestAsRootRejectsMissingRequiredField(t *testing.T) {
	root := monsterSchema()
	b := flatbuf.New(flatbuf.Options{})
	if err := b.StartBuffer("MONS", false); err != nil {
		t.Fatal(err)
	}
	name := b.CreateString("Orc")
	if err := b.StartTable(2); err != nil {
		t.Fatal(err)
	}
	// Field 0 (hp, required) is never added.
	if err := b.TableAddOffset(1, name); err != nil {
		t.Fatal(err)
	}
	tableRef, err := b.EndTable()
	if err != nil {
		t.Fatal(err)
	}
	buf, err := b.EndBuffer(tableRef)
	if err != nil {
		t.Fatal(err)
	}

	err = AsRoot(buf, root)
	if err == nil {
		t.Fatal("expected required-field violation")
	}
	v, ok := err.(*Violation)
	if !ok || v.Err != ErrRequiredMissing {
		t.Fatalf("got %v, want ErrRequiredMissing", err)
	}
}

func TestAsRootRejectsUndersizedVTable(t *testing.T) {
	root := monsterSchema()
	buf := buildMonster(t, 10, true)
	uoff := readU32(buf, 0)
	soffset := readI32(buf, uoff)
	vtAddr := uint32(int64(uoff) - int64(soffset))
	putU16(buf[vtAddr:vtAddr+2], 2)

	if err := AsRoot(buf, root); err == nil {
		t.Fatal("expected vtable-too-small violation")
	}
}

func TestVTableCacheReusedAcrossSameShapeTables(t *testing.T) {
	c := NewContext(nil, nil)
	for i := 0; i < vtableCacheSize*2; i++ {
		if c.seenVTable(100) {
			continue
		}
		c.rememberVTable(100)
	}
	if !c.seenVTable(100) {
		t.Fatal("expected vtable address 100 to remain in the cache")
	}
}
