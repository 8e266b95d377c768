// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

import (
	"bytes"
	"testing"
)

// readTable mirrors the reading convention the builder's writes satisfy:
// a table's own Ref is the address its soffset lives at; subtracting the
// stored soffset reaches the vtable; adding a field's voffset reaches the
// field. Kept local to the test so flatbuf's round trip is verified
// without depending on the verify package.
type readTable struct {
	buf     []byte
	addr    uint32
	vtAddr  uint32
	vtSize  uint16
	entries []uint16
}

func readRootTable(buf []byte) readTable {
	uoff := readFromPE32(buf[0:4])
	addr := uoff
	soffset := int32(readFromPE32(buf[addr : addr+4]))
	vtAddr := uint32(int64(addr) - int64(soffset))
	vtSize := readFromPE16(buf[vtAddr : vtAddr+2])
	n := (vtSize - 4) / 2
	entries := make([]uint16, n)
	for i := uint16(0); i < n; i++ {
		entries[i] = readFromPE16(buf[vtAddr+4+uint32(i)*2 : vtAddr+4+uint32(i)*2+2])
	}
	return readTable{buf: buf, addr: addr, vtAddr: vtAddr, vtSize: vtSize, entries: entries}
}

func (t readTable) fieldPresent(id int) bool {
	return id < len(t.entries) && t.entries[id] != 0
}

func (t readTable) fieldAddr(id int) uint32 {
	return t.addr + uint32(t.entries[id])
}

func TestBuilderScalarFieldRoundTrip(t *testing.T) {
	b := New(Options{})
	if err := b.StartBuffer("", false); err != nil {
		t.Fatal(err)
	}
	if err := b.StartTable(2); err != nil {
		t.Fatal(err)
	}
	var v [4]byte
	writeToPE32(v[:], 42)
	if err := b.TableAdd(0, v[:], 4); err != nil {
		t.Fatal(err)
	}
	root, err := b.EndTable()
	if err != nil {
		t.Fatal(err)
	}
	buf, err := b.EndBuffer(root)
	if err != nil {
		t.Fatal(err)
	}

	rt := readRootTable(buf)
	if !rt.fieldPresent(0) {
		t.Fatalf("field 0 not present; vtable entries: %v", rt.entries)
	}
	got := readFromPE32(buf[rt.fieldAddr(0) : rt.fieldAddr(0)+4])
	if got != 42 {
		t.Fatalf("field 0 = %d, want 42", got)
	}
	if rt.fieldPresent(1) {
		t.Fatalf("field 1 should be absent")
	}
}

func TestBuilderStringFieldRoundTrip(t *testing.T) {
	b := New(Options{})
	if err := b.StartBuffer("", false); err != nil {
		t.Fatal(err)
	}
	name := b.CreateString("Orc")

	if err := b.StartTable(1); err != nil {
		t.Fatal(err)
	}
	if err := b.TableAddOffset(0, name); err != nil {
		t.Fatal(err)
	}
	root, err := b.EndTable()
	if err != nil {
		t.Fatal(err)
	}
	buf, err := b.EndBuffer(root)
	if err != nil {
		t.Fatal(err)
	}

	rt := readRootTable(buf)
	strAddr := rt.fieldAddr(0) + readFromPE32(buf[rt.fieldAddr(0):rt.fieldAddr(0)+4])
	n := readFromPE32(buf[strAddr : strAddr+4])
	got := string(buf[strAddr+4 : strAddr+4+n])
	if got != "Orc" {
		t.Fatalf("string field = %q, want %q", got, "Orc")
	}
	if buf[strAddr+4+n] != 0 {
		t.Fatalf("string missing trailing NUL")
	}
}

func TestBuilderVTableInterning(t *testing.T) {
	b := New(Options{})
	if err := b.StartBuffer("", false); err != nil {
		t.Fatal(err)
	}

	build := func(x uint32) Ref {
		if err := b.StartTable(1); err != nil {
			t.Fatal(err)
		}
		var v [4]byte
		writeToPE32(v[:], x)
		if err := b.TableAdd(0, v[:], 4); err != nil {
			t.Fatal(err)
		}
		ref, err := b.EndTable()
		if err != nil {
			t.Fatal(err)
		}
		return ref
	}

	a := build(1)
	c := build(2)

	if len(b.vtables) != 1 {
		t.Fatalf("expected exactly one interned vtable, got %d", len(b.vtables))
	}

	if err := b.StartTable(2); err != nil {
		t.Fatal(err)
	}
	if err := b.TableAddOffset(0, a); err != nil {
		t.Fatal(err)
	}
	if err := b.TableAddOffset(1, c); err != nil {
		t.Fatal(err)
	}
	root, err := b.EndTable()
	if err != nil {
		t.Fatal(err)
	}
	buf, err := b.EndBuffer(root)
	if err != nil {
		t.Fatal(err)
	}

	rt := readRootTable(buf)
	aAddr := rt.fieldAddr(0) + readFromPE32(buf[rt.fieldAddr(0):rt.fieldAddr(0)+4])
	cAddr := rt.fieldAddr(1) + readFromPE32(buf[rt.fieldAddr(1):rt.fieldAddr(1)+4])
	aTbl := readRootTableAt(buf, aAddr)
	cTbl := readRootTableAt(buf, cAddr)
	if !bytes.Equal(
		buf[aTbl.vtAddr:aTbl.vtAddr+uint32(aTbl.vtSize)],
		buf[cTbl.vtAddr:cTbl.vtAddr+uint32(cTbl.vtSize)],
	) {
		t.Fatalf("expected a and c to share one vtable")
	}
	gotA := readFromPE32(buf[aTbl.fieldAddr(0) : aTbl.fieldAddr(0)+4])
	gotC := readFromPE32(buf[cTbl.fieldAddr(0) : cTbl.fieldAddr(0)+4])
	if gotA != 1 || gotC != 2 {
		t.Fatalf("got a=%d c=%d, want a=1 c=2", gotA, gotC)
	}
}

func readRootTableAt(buf []byte, addr uint32) readTable {
	soffset := int32(readFromPE32(buf[addr : addr+4]))
	vtAddr := uint32(int64(addr) - int64(soffset))
	vtSize := readFromPE16(buf[vtAddr : vtAddr+2])
	n := (vtSize - 4) / 2
	entries := make([]uint16, n)
	for i := uint16(0); i < n; i++ {
		entries[i] = readFromPE16(buf[vtAddr+4+uint32(i)*2 : vtAddr+4+uint32(i)*2+2])
	}
	return readTable{buf: buf, addr: addr, vtAddr: vtAddr, vtSize: vtSize, entries: entries}
}
