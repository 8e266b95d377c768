// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// StartString opens a string frame; StringAppend accumulates the content
// in an ordinary Go byte slice (no scratch-buffer writes happen until
// EndString), since unlike vectors a string's bytes are emitted in their
// natural left-to-right order in one place() call — there is no push
// reversal to get right.
func (b *Builder) StartString() error {
	if len(b.frames) == 0 {
		return ErrNotInBuffer
	}
	b.pushFrame(frame{kind: frameString})
	return nil
}

// StringAppend appends more bytes to the string frame opened by
// StartString.
func (b *Builder) StringAppend(p []byte) error {
	f := b.topFrame()
	if f == nil || f.kind != frameString {
		return ErrNoOpenFrame
	}
	f.scratch = append(f.scratch, p...)
	return nil
}

// EndString closes the string frame and writes it: length prefix, then
// bytes, then a trailing NUL not counted in the length, matching C's
// string convention.
func (b *Builder) EndString() (Ref, error) {
	f, err := b.popFrame(frameString)
	if err != nil {
		return 0, err
	}
	return b.writeString(f.scratch), nil
}

// CreateString writes a complete Go string in one call.
func (b *Builder) CreateString(s string) Ref {
	return b.writeString([]byte(s))
}

func (b *Builder) writeString(content []byte) Ref {
	n := uint32(len(content))
	b.prep(4, n+1)
	payload := make([]byte, n+1)
	copy(payload, content)
	payload[n] = 0
	b.place(payload)
	b.placeUOffset(n)
	return Ref(b.offset())
}
