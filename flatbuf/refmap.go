// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// RefMap memoizes source-buffer offsets already cloned into the
// destination buffer, which is what lets Clone preserve DAG sharing: an
// object referenced twice from the source is written once into the
// destination and pointed at twice, instead of being duplicated.
type RefMap map[uint32]Ref

// SourceRef identifies a table, vector, or string living in the buffer
// bound as this Builder's clone source, as an absolute byte offset from
// the start of that buffer.
type SourceRef uint32

// BindCloneSource attaches the buffer Clone operations read from and
// resets the RefMap, so sharing is tracked per clone session rather than
// leaking across unrelated ones.
func (b *Builder) BindCloneSource(src []byte) {
	b.cloneSrc = src
	b.refmap = make(RefMap)
}

// Cloned reports a previously cloned object's destination Ref, if any.
func (b *Builder) Cloned(src SourceRef) (Ref, bool) {
	r, ok := b.refmap[uint32(src)]
	return r, ok
}

// MarkCloned records that src has been cloned to dst, so a later Clone of
// the same source object reuses dst instead of duplicating it.
func (b *Builder) MarkCloned(src SourceRef, dst Ref) {
	if b.refmap == nil {
		b.refmap = make(RefMap)
	}
	b.refmap[uint32(src)] = dst
}
