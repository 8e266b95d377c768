// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// Clone support reads directly out of the buffer bound via
// BindCloneSource. A full recursive table clone needs to know which
// fields are offsets and which are scalars, which only the schema
// package's compiled table descriptor can say — so the recursive walk
// lives one layer up (driven by generated or descriptor-guided code),
// calling back into these primitives for each field: CloneString/
// CloneByteVector for the leaves, Builder.Cloned/MarkCloned to preserve
// sharing, and CloneTableVerbatim for the common case of a table whose
// fields are entirely scalar (no recursion needed at all).

func (b *Builder) sourceU32(at uint32) uint32 { return readFromPE32(b.cloneSrc[at : at+4]) }
func (b *Builder) sourceU16(at uint32) uint16 { return readFromPE16(b.cloneSrc[at : at+2]) }

// vtableEntries reads and trims the vtable for the table at src, returning
// its voffsets (index 0 is field id 0) and the table's own byte size
// (including its leading soffset, matching flatcc's convention).
func (b *Builder) vtableEntries(src SourceRef) (voffsets []uint16, tableSize uint16) {
	soffset := int32(b.sourceU32(uint32(src)))
	vtOff := uint32(int64(src) - int64(soffset))
	vtSize := b.sourceU16(vtOff)
	tableSize = b.sourceU16(vtOff + 2)
	n := (uint32(vtSize) - 4) / 2
	voffsets = make([]uint16, n)
	for i := uint32(0); i < n; i++ {
		voffsets[i] = b.sourceU16(vtOff + 4 + i*2)
	}
	return voffsets, tableSize
}

// CloneString copies the string at src into the destination buffer,
// memoizing the result in the bound RefMap.
func (b *Builder) CloneString(src SourceRef) Ref {
	if dst, ok := b.Cloned(src); ok {
		return dst
	}
	n := b.sourceU32(uint32(src))
	start := uint32(src) + 4
	dst := b.writeString(b.cloneSrc[start : start+n])
	b.MarkCloned(src, dst)
	return dst
}

// CloneByteVector copies the ubyte vector at src into the destination
// buffer, memoizing the result.
func (b *Builder) CloneByteVector(src SourceRef) Ref {
	if dst, ok := b.Cloned(src); ok {
		return dst
	}
	n := b.sourceU32(uint32(src))
	start := uint32(src) + 4
	dst := b.CreateByteVector(b.cloneSrc[start : start+n])
	b.MarkCloned(src, dst)
	return dst
}

// CloneTableVerbatim copies a table made entirely of scalar and inline
// struct fields (no uoffset fields anywhere in it) by replaying its
// vtable's field positions directly, without any recursive work.
// fieldWidths gives each field id's byte width (0 for a field the caller
// knows is never present, e.g. past the schema's current field count);
// scalar fields are naturally aligned to their own width. Tables holding
// at least one offset field must be rebuilt field-by-field by the caller
// instead, resolving each nested offset (recursively through Clone* or a
// fresh build) before calling TableAddOffset.
func (b *Builder) CloneTableVerbatim(src SourceRef, fieldWidths []uint32) (Ref, error) {
	if dst, ok := b.Cloned(src); ok {
		return dst, nil
	}
	voffsets, _ := b.vtableEntries(src)

	if err := b.StartTable(len(voffsets)); err != nil {
		return 0, err
	}
	for id, vo := range voffsets {
		if vo == 0 || id >= len(fieldWidths) || fieldWidths[id] == 0 {
			continue
		}
		width := fieldWidths[id]
		fieldAddr := uint32(src) + uint32(vo)
		raw := b.cloneSrc[fieldAddr : fieldAddr+width]
		if err := b.TableAdd(id, raw, width); err != nil {
			return 0, err
		}
	}
	dst, err := b.EndTable()
	if err != nil {
		return 0, err
	}
	b.MarkCloned(src, dst)
	return dst, nil
}
