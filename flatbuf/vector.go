// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// StartVector opens a vector frame of count elements, each elemSize bytes
// wide and aligned to elemAlign. It reserves
// space for the whole element run up front so later element pushes never
// need to grow the scratch buffer mid-vector, matching flatcc's own
// two-phase Prep-then-push discipline.
//
// Elements must be pushed in descending index order — push the element
// destined for the highest index first. Because the scratch buffer is
// filled from its tail backward, whatever is pushed last ends up at the
// lowest address, immediately after the length field; pushing in index
// order would silently reverse the vector.
func (b *Builder) StartVector(elemSize, count, elemAlign uint32) error {
	if len(b.frames) == 0 {
		return ErrNotInBuffer
	}
	b.prep(4, elemSize*count)
	b.prep(elemAlign, elemSize*count)
	b.pushFrame(frame{
		kind:      frameVector,
		start:     b.offset(),
		elemAlign: elemAlign,
		elemSize:  elemSize,
		count:     count,
	})
	return nil
}

// VectorPush places one already-encoded element of a scalar or struct
// vector. Callers push in descending index order; see StartVector.
func (b *Builder) VectorPush(value []byte) error {
	f := b.topFrame()
	if f == nil || f.kind != frameVector {
		return ErrNoOpenFrame
	}
	b.place(value)
	return nil
}

// VectorPushOffset places one uoffset element of a vector of strings,
// tables, or nested vectors, referencing an already-finished target.
func (b *Builder) VectorPushOffset(target Ref) error {
	f := b.topFrame()
	if f == nil || f.kind != frameVector {
		return ErrNoOpenFrame
	}
	uoffsetAt := b.offset() + 4
	b.placeUOffset(uoffsetAt - uint32(target))
	return nil
}

// EndVector closes the vector frame, writing its length prefix, and
// returns a Ref to it.
func (b *Builder) EndVector() (Ref, error) {
	f, err := b.popFrame(frameVector)
	if err != nil {
		return 0, err
	}
	b.placeUOffset(f.count)
	return Ref(b.offset()), nil
}

// CreateByteVector writes a ubyte vector in one shot — the common case
// where every element is already known, with no need for the push
// discipline StartVector/VectorPush require.
func (b *Builder) CreateByteVector(data []byte) Ref {
	n := uint32(len(data))
	b.prep(4, n)
	b.place(data)
	b.placeUOffset(n)
	return Ref(b.offset())
}
