// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// Slice copies the half-open element range [start, end) of the scalar or
// struct vector at src into a brand new vector in the destination buffer.
// It is always a fresh copy — flatbuffers
// offers no way to alias a sub-range of an existing vector, since every
// vector must carry its own length prefix immediately before its data.
func (b *Builder) Slice(src SourceRef, elemSize, start, end uint32) (Ref, error) {
	if start > end {
		return 0, ErrBadSliceRange
	}
	dataStart := uint32(src) + 4 + start*elemSize
	dataEnd := uint32(src) + 4 + end*elemSize
	b.prep(4, dataEnd-dataStart)
	b.place(b.cloneSrc[dataStart:dataEnd])
	b.placeUOffset(end - start) // length prefix counts elements, not bytes
	return Ref(b.offset()), nil
}
