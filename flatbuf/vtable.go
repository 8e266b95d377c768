// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

import "bytes"

// internVTable searches previously written vtables for byte-identical
// content and returns the matching one's Builder.offset() value if found,
// so two tables with the same field layout share a single vtable.
// candidate is compared byte-for-byte only, so it may be a copy of the
// freshly written vtable (EndTable passes one).
func (b *Builder) internVTable(candidate []byte) (uint32, bool) {
	finalLen := uint32(len(b.buf))
	for _, vtOff := range b.vtables {
		head := finalLen - vtOff
		if head+uint32(len(candidate)) > finalLen {
			continue
		}
		existing := b.buf[head : head+uint32(len(candidate))]
		if bytes.Equal(existing, candidate) {
			return vtOff, true
		}
	}
	return 0, false
}

// patchSOffsetAt overwrites the 4-byte placeholder soffset recorded at
// Builder.offset() value objectOffset with its final value, once the
// vtable it points to (fresh or interned) is known. Recomputing the raw
// scratch index from objectOffset rather than caching one up front keeps
// this correct even if grow() reallocated the buffer in between.
func (b *Builder) patchSOffsetAt(objectOffset uint32, value int32) {
	idx := uint32(len(b.buf)) - objectOffset
	writeToPE32(b.buf[idx:idx+4], uint32(value))
}
