// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// StartStruct opens a struct frame of the given total size and alignment,
// both dictated by the schema's struct layout.
// Structs are fixed-size and inline, so unlike tables they need no vtable:
// callers assemble the struct's bytes in wire (little-endian) byte order
// field by field via StructSet, then EndStruct places the whole block as
// one contiguous, correctly aligned write. No byte swapping happens at
// EndStruct; the bytes are placed exactly as assembled.
func (b *Builder) StartStruct(size, align uint32) error {
	if len(b.frames) == 0 {
		return ErrNotInBuffer
	}
	b.pushFrame(frame{
		kind:      frameStruct,
		elemSize:  size,
		elemAlign: align,
		scratch:   make([]byte, size),
	})
	return nil
}

// StructSet writes value at byte offset within the struct frame's scratch
// block; the caller is responsible for encoding value in wire byte order
// beforehand (see writeToPE16/32/64).
func (b *Builder) StructSet(offset uint32, value []byte) error {
	f := b.topFrame()
	if f == nil || f.kind != frameStruct {
		return ErrNoOpenFrame
	}
	copy(f.scratch[offset:], value)
	return nil
}

// EndStruct closes the struct frame and places its bytes.
func (b *Builder) EndStruct() (Ref, error) {
	f, err := b.popFrame(frameStruct)
	if err != nil {
		return 0, err
	}
	b.prep(f.elemAlign, f.elemSize)
	b.place(f.scratch)
	return Ref(b.offset()), nil
}

// WriteStruct writes a complete, already-assembled struct block in one
// call — the convenience path used when the caller built the wire-order
// bytes itself rather than through StructSet.
func (b *Builder) WriteStruct(data []byte, align uint32) Ref {
	b.prep(align, uint32(len(data)))
	b.place(data)
	return Ref(b.offset())
}
