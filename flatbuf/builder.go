// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

import (
	"github.com/flatcc-go/flatcc/internal/felog"
)

// Ref is a reference into the conceptual buffer: a handle for strings,
// vectors, tables, structs, and union pointer pairs, stable for the
// lifetime of the current buffer. Its
// numeric value is the distance from the object's first byte to the end
// of the (eventually) finished buffer, i.e. Builder.offset() at the
// moment the object finished.
type Ref uint32

// minBufferSize is the initial scratch-buffer capacity; it doubles on
// overflow the same way append-based growth would, but the Builder needs
// manual control because data is written from the tail backward.
const minBufferSize = 256

// Options configures a Builder the way pe.Options configures pe.New.
type Options struct {
	// Emitter receives finished pages; defaults to NewDefaultEmitter.
	Emitter Emitter
	// Logger receives soft diagnostics; defaults to a filtered stdout logger.
	Logger felog.Logger
	// InitialSize seeds the scratch buffer capacity; defaults to minBufferSize.
	InitialSize int
}

// Builder is the stack-based incremental wire-format encoder. It owns a
// growable scratch buffer (built backward from its tail), a
// frame stack, a vtable index for interning, an optional RefMap for
// DAG-preserving clone, and an Emitter.
type Builder struct {
	buf  []byte // scratch array; live data occupies buf[head:]
	head uint32 // index where live data starts, shrinking toward 0 as more is written

	minalign uint32
	frames   []frame

	// vtables holds the scratch-buffer offset (Builder.offset() value)
	// of every distinct vtable written so far, for interning.
	vtables []uint32

	finished bool
	emitter  Emitter
	log      *felog.Helper

	refmap RefMap

	// cloneSrc is the buffer the Clone* methods and Slice read from, set by
	// BindCloneSource.
	cloneSrc []byte
}

// New returns a Builder ready to start a buffer.
func New(opts Options) *Builder {
	size := opts.InitialSize
	if size <= 0 {
		size = minBufferSize
	}
	emitter := opts.Emitter
	if emitter == nil {
		emitter = NewDefaultEmitter()
	}
	log := felog.NewHelper(opts.Logger)
	if opts.Logger == nil {
		log = felog.Default()
	}
	return &Builder{
		buf:      make([]byte, size),
		head:     uint32(size),
		minalign: 1,
		emitter:  emitter,
		log:      log,
	}
}

// Reset restores the Builder to a clean, reusable state: a typed error
// from any operation leaves the builder resettable rather than corrupt.
func (b *Builder) Reset() {
	b.head = uint32(len(b.buf))
	b.minalign = 1
	b.frames = b.frames[:0]
	b.vtables = b.vtables[:0]
	b.finished = false
	b.emitter.Reset()
	b.refmap = nil
	b.cloneSrc = nil
}

// Clear releases the scratch buffer's backing memory entirely, for callers
// that won't reuse the Builder soon.
func (b *Builder) Clear() {
	b.buf = nil
	b.Reset()
	b.buf = make([]byte, minBufferSize)
	b.head = minBufferSize
}

// offset returns the number of bytes written so far — equivalently, the
// position the next-finished object will be assigned if it starts right
// here.
func (b *Builder) offset() uint32 {
	return uint32(len(b.buf)) - b.head
}

// InBuffer reports whether a buffer frame is currently open.
func (b *Builder) InBuffer() bool {
	for _, f := range b.frames {
		if f.kind == frameBuffer {
			return true
		}
	}
	return len(b.frames) > 0 && b.frames[0].kind == frameBuffer
}

// grow doubles the scratch buffer until it can hold at least needed more
// bytes, preserving the already-written suffix at the new buffer's tail —
// the manual equivalent of append()'s growth, necessary here because data
// grows from the end backward rather than the start forward.
func (b *Builder) grow(needed uint32) {
	cur := uint32(len(b.buf))
	used := cur - b.head
	newSize := cur
	if newSize == 0 {
		newSize = minBufferSize
	}
	for newSize < cur+needed {
		newSize *= 2
	}
	newBuf := make([]byte, newSize)
	copy(newBuf[newSize-used:], b.buf[b.head:])
	b.buf = newBuf
	b.head = newSize - used
}

// pad writes n zero bytes directly below head.
func (b *Builder) pad(n uint32) {
	if n == 0 {
		return
	}
	if b.head < n {
		b.grow(n)
	}
	b.head -= n
	for i := uint32(0); i < n; i++ {
		b.buf[b.head+i] = 0
	}
}

// prep ensures `size` bytes can be placed aligned to `align`, optionally
// reserving `additionalBytes` more beyond the aligned region (used before
// writing a uoffset field so the *target* object, not the uoffset itself,
// ends up aligned). This is the alignment discipline threaded through
// every Start*/table_add operation.
func (b *Builder) prep(align, additionalBytes uint32) {
	if align > b.minalign {
		b.minalign = align
	}
	// Bytes used so far plus the additional bytes being reserved must
	// land on an `align` boundary once padding is inserted. This only
	// has to be computed relative to the running "bytes used" counter
	// (not the not-yet-known final buffer start) because EndBuffer pads
	// the finished buffer's total length to minalign, the largest
	// alignment requested here, so a position aligned relative to the
	// buffer's end is also aligned relative to its start.
	alignSize := (align - ((b.offset() + additionalBytes) % align)) % align

	needed := alignSize + additionalBytes
	if b.head < needed {
		b.grow(needed - b.head)
	}
	if alignSize > 0 {
		b.pad(alignSize)
	}
}

// place writes data directly below head without any alignment handling;
// callers must have called prep first.
func (b *Builder) place(data []byte) {
	n := uint32(len(data))
	if b.head < n {
		b.grow(n)
	}
	b.head -= n
	copy(b.buf[b.head:], data)
}

func (b *Builder) placeUOffset(v uint32) {
	var tmp [4]byte
	writeToPE32(tmp[:], v)
	b.place(tmp[:])
}

func (b *Builder) placeSOffset(v int32) {
	var tmp [4]byte
	writeToPE32(tmp[:], uint32(v))
	b.place(tmp[:])
}

func (b *Builder) placeVOffset(v uint16) {
	var tmp [2]byte
	writeToPE16(tmp[:], v)
	b.place(tmp[:])
}

// bytes returns the live portion of the scratch buffer: everything from
// head to the end.
func (b *Builder) bytes() []byte {
	return b.buf[b.head:]
}
