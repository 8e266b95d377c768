// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// StartTable opens a table frame with room for numFields vtable slots.
// Fields are recorded by TableAdd /
// TableAddOffset in any order; absent fields simply never set their slot.
func (b *Builder) StartTable(numFields int) error {
	if len(b.frames) == 0 {
		return ErrNotInBuffer
	}
	b.pushFrame(frame{
		kind:     frameTable,
		start:    b.offset(),
		fieldPos: make([]uint32, numFields),
	})
	return nil
}

func (b *Builder) ensureFieldCapacity(f *frame, fieldID int) {
	if fieldID < len(f.fieldPos) {
		return
	}
	grown := make([]uint32, fieldID+1)
	copy(grown, f.fieldPos)
	f.fieldPos = grown
}

// TableAdd places an already-encoded scalar or struct value for fieldID and
// records its position in the open table frame's vtable template. align is
// the value's natural alignment (1, 2, 4, or 8 for scalars; a struct's own
// alignment for inline struct fields).
func (b *Builder) TableAdd(fieldID int, value []byte, align uint32) error {
	f := b.topFrame()
	if f == nil || f.kind != frameTable {
		return ErrNoOpenFrame
	}
	b.prep(align, uint32(len(value)))
	if f.count == 0 {
		f.start = b.offset() // padding before the first field is not part of the table
	}
	f.count++
	b.place(value)
	b.ensureFieldCapacity(f, fieldID)
	f.fieldPos[fieldID] = b.offset()
	return nil
}

// TableAddOffset places a uoffset field referencing an already-finished
// string, vector, or table.
func (b *Builder) TableAddOffset(fieldID int, target Ref) error {
	f := b.topFrame()
	if f == nil || f.kind != frameTable {
		return ErrNoOpenFrame
	}
	b.prep(4, 4)
	if f.count == 0 {
		f.start = b.offset() // padding before the first field is not part of the table
	}
	f.count++
	uoffsetAt := b.offset() + 4
	b.placeUOffset(uoffsetAt - uint32(target))
	b.ensureFieldCapacity(f, fieldID)
	f.fieldPos[fieldID] = b.offset()
	return nil
}

// EndTable finalizes the open table frame: it writes (or reuses, via
// interning) the vtable, and patches the table's leading soffset to point
// to it.
//
// Every distance recorded in the vtable — each field's voffset and the
// table_size header field — is measured against objectOffset, the
// Builder.offset() value captured right after a 4-byte soffset placeholder
// is placed. Because that reference point depends only on this table's own
// shape and never on where the table or its vtable land in the finished
// buffer, two tables built with identical field layouts always produce
// byte-identical vtables, which is what makes interning possible.
func (b *Builder) EndTable() (Ref, error) {
	f, err := b.popFrame(frameTable)
	if err != nil {
		return 0, err
	}

	b.prep(4, 4)
	b.placeSOffset(0) // soffset placeholder, patched in below
	objectOffset := b.offset()

	n := len(f.fieldPos)
	for n > 0 && f.fieldPos[n-1] == 0 {
		n--
	}
	entries := f.fieldPos[:n]

	voffsets := make([]uint16, len(entries))
	for i, fc := range entries {
		if fc != 0 {
			voffsets[i] = uint16(objectOffset - fc)
		}
	}
	tableSize := uint16(objectOffset - f.start)
	vtSize := uint16(4 + 2*len(voffsets))

	b.prep(2, uint32(vtSize))
	for i := len(voffsets) - 1; i >= 0; i-- {
		b.placeVOffset(voffsets[i])
	}
	b.placeVOffset(tableSize)
	b.placeVOffset(vtSize)

	newVT := append([]byte(nil), b.bytes()[:vtSize]...)
	vtRef := b.offset()

	soffsetValue := int32(vtRef) - int32(objectOffset)
	if existing, ok := b.internVTable(newVT); ok {
		b.head += uint32(vtSize) // discard; reuse the matching vtable instead
		soffsetValue = int32(existing) - int32(objectOffset)
	} else {
		b.vtables = append(b.vtables, vtRef)
	}

	b.patchSOffsetAt(objectOffset, soffsetValue)
	return Ref(objectOffset), nil
}
