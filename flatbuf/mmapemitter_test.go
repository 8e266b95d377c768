// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

import (
	"path/filepath"
	"testing"
)

func TestFileEmitterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	emitter, err := NewFileEmitter(path, 64)
	if err != nil {
		t.Fatalf("NewFileEmitter: %v", err)
	}

	b := New(Options{Emitter: emitter})
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
	if len(buf) == 0 {
		t.Fatal("expected a non-empty finished buffer")
	}

	rt := readRootTable(buf)
	if !rt.fieldPresent(0) {
		t.Fatalf("field 0 not present; vtable entries: %v", rt.entries)
	}
	got := readFromPE32(buf[rt.fieldAddr(0) : rt.fieldAddr(0)+4])
	if got != 42 {
		t.Fatalf("field 0 = %d, want 42", got)
	}
}

func TestFileEmitterResetZeroesOpenMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	emitter, err := NewFileEmitter(path, 16)
	if err != nil {
		t.Fatalf("NewFileEmitter: %v", err)
	}

	if err := emitter.Emit(0, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	emitter.Reset()
	if emitter.total != 0 {
		t.Fatalf("Reset: total = %d, want 0", emitter.total)
	}
	for i, bt := range emitter.data {
		if bt != 0 {
			t.Fatalf("Reset: byte %d = %d, want 0", i, bt)
		}
	}

	if err := emitter.Emit(0, []byte{9, 9}); err != nil {
		t.Fatalf("Emit after reset: %v", err)
	}
	out, err := emitter.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(out) != 2 || out[0] != 9 || out[1] != 9 {
		t.Fatalf("Finalize after reset = %v, want [9 9]", out)
	}
}

func TestFileEmitterSizeOverflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	emitter, err := NewFileEmitter(path, 4)
	if err != nil {
		t.Fatalf("NewFileEmitter: %v", err)
	}
	if err := emitter.Emit(0, []byte{1, 2, 3, 4, 5}); err != ErrSizeOverflow {
		t.Fatalf("Emit past size: got %v, want ErrSizeOverflow", err)
	}
}
