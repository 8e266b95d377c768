// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// StartBuffer opens the outermost frame of a build. fid, if non-empty,
// must be exactly 4 bytes and is emitted as the file identifier at byte
// offset 4 of the finished buffer.
// sizePrefixed requests an additional leading uint32 holding the total
// buffer length, for size-prefixed framing over a stream.
func (b *Builder) StartBuffer(fid string, sizePrefixed bool) error {
	if b.finished {
		return ErrAlreadyFinished
	}
	if len(b.frames) != 0 {
		return ErrFrameMismatch
	}
	b.minalign = 1
	b.pushFrame(frame{kind: frameBuffer, fid: fid, sizePrefixed: sizePrefixed})
	return nil
}

// EndBuffer finalizes the buffer around root, aligns the whole thing to
// the largest alignment used anywhere in the build, and hands the result
// to the Emitter. It returns the finished buffer as the Emitter's Finalize
// produced it, with the root uoffset (or the size prefix, if requested)
// at byte 0.
func (b *Builder) EndBuffer(root Ref) ([]byte, error) {
	f, err := b.popFrame(frameBuffer)
	if err != nil {
		return nil, err
	}

	prep := uint32(4)
	if f.fid != "" {
		prep += 4
	}
	b.prep(b.minalign, prep)

	if f.fid != "" {
		b.place([]byte(f.fid))
	}
	uoffsetAt := b.offset() + 4
	b.placeUOffset(uoffsetAt - uint32(root))

	if f.sizePrefixed {
		b.placeUOffset(b.offset())
	}

	if err := b.emitter.Emit(0, b.bytes()); err != nil {
		return nil, err
	}
	out, err := b.emitter.Finalize()
	if err != nil {
		return nil, err
	}
	b.finished = true
	return out, nil
}
