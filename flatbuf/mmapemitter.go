// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// FileEmitter is an Emitter that streams finished pages straight into a
// memory-mapped backing file instead of an in-process page map, the way
// pe.File memory-maps its input with mmap-go rather than buffering it with
// read/write. It exists for buffers too large to comfortably double-buffer
// in the default emitter's page map before Finalize concatenates them.
type FileEmitter struct {
	f      *os.File
	data   mmap.MMap
	total  uint32
	err    error
	opened bool
}

// NewFileEmitter creates (or truncates) path and prepares it to receive up
// to size bytes of finished buffer pages. size must be an upper bound on
// the final buffer length; Finalize trims the mapping down to the
// high-water mark actually written.
func NewFileEmitter(path string, size uint32) (*FileEmitter, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileEmitter{f: f, data: data, opened: true}, nil
}

// Emit copies data into the mapped region at position, growing the
// recorded high-water mark.
func (e *FileEmitter) Emit(position uint32, data []byte) error {
	if e.err != nil {
		return e.err
	}
	end := position + uint32(len(data))
	if end > uint32(len(e.data)) {
		return ErrSizeOverflow
	}
	copy(e.data[position:end], data)
	if end > e.total {
		e.total = end
	}
	return nil
}

// Finalize flushes the mapping to disk, unmaps it, truncates the backing
// file down to the high-water mark, and returns a private copy of the
// finished buffer (ownership of that slice passes to the caller; the mmap
// region itself is not returned since it is tied to the file's lifetime).
func (e *FileEmitter) Finalize() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.data.Flush(); err != nil {
		return nil, err
	}
	out := make([]byte, e.total)
	copy(out, e.data[:e.total])
	if err := e.data.Unmap(); err != nil {
		return nil, err
	}
	e.opened = false
	if err := e.f.Truncate(int64(e.total)); err != nil {
		return nil, err
	}
	return out, e.f.Close()
}

// Reset zeroes the current mapping's contents, if it is still mapped, and
// clears the high-water mark so the same mapping can receive a fresh
// buffer. It does not re-map a file that Finalize has already unmapped
// and closed.
func (e *FileEmitter) Reset() {
	if e.opened {
		for i := range e.data {
			e.data[i] = 0
		}
	}
	e.total = 0
}
