// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// Emitter is the pluggable sink the Builder hands finished buffer pages to,
// in strict reverse buffer order. The default emitter keeps each page in
// memory keyed by position and concatenates them in Finalize, but a
// custom Emitter can stream pages to disk or a network socket instead.
type Emitter interface {
	// Emit receives the bytes for the page starting at the given absolute
	// position within the final buffer (position counted from the start
	// of the finished buffer, i.e. the lowest address the page occupies).
	Emit(position uint32, data []byte) error

	// Finalize concatenates every emitted page into one contiguous,
	// correctly aligned buffer and returns ownership of it to the
	// caller. After Finalize, the Emitter must not be reused without a
	// Reset.
	Finalize() ([]byte, error)

	// Reset releases any pages buffered so far so the Emitter can be
	// reused for the next buffer.
	Reset()
}

// pageSize records flatcc's C default emitter page size, 1024 bytes.
// defaultEmitter does not split data by it: each Emit call is stored as
// one page keyed by its position, whatever its length.
const pageSize = 1024

// defaultEmitter is the emitter every Builder uses unless the caller
// supplies a different one via Options.Emitter.
type defaultEmitter struct {
	pages map[uint32][]byte
	total uint32
}

// NewDefaultEmitter returns the page-accumulating Emitter the Builder uses
// by default.
func NewDefaultEmitter() Emitter {
	return &defaultEmitter{pages: make(map[uint32][]byte)}
}

func (e *defaultEmitter) Emit(position uint32, data []byte) error {
	if e.pages == nil {
		e.pages = make(map[uint32][]byte)
	}
	page := make([]byte, len(data))
	copy(page, data)
	e.pages[position] = page
	end := position + uint32(len(data))
	if end > e.total {
		e.total = end
	}
	return nil
}

func (e *defaultEmitter) Finalize() ([]byte, error) {
	out := make([]byte, e.total)
	for pos, page := range e.pages {
		copy(out[pos:], page)
	}
	return out, nil
}

func (e *defaultEmitter) Reset() {
	e.pages = make(map[uint32][]byte)
	e.total = 0
}
