// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package verify

import "github.com/flatcc-go/flatcc/schema"

// verifyScalarVector verifies a vector-of-scalar field: the 4-byte uoffset
// at addr, the length prefix it resolves to, and that length*elemSize
// elements fit in the buffer afterward. Scalar vector elements need no
// further per-element walk.
func (c *Context) verifyScalarVector(addr uint32, elem *schema.TypeDescriptor) error {
	elemSize := elem.Scalar.Size()
	return c.verifyVector(addr, elemSize, func(elemAddr uint32) error {
		if !verifyURange(c.size(), elemAddr, elemSize) || !verifyAligned(elemAddr, elemSize) {
			return c.fail(ErrOutOfBounds)
		}
		return nil
	})
}

// verifyVectorOfOffsets verifies a vector whose elements are 4-byte
// uoffsets (vectors of strings or tables), resolving each element's
// target address before handing it to verifyElem.
func (c *Context) verifyVectorOfOffsets(addr uint32, verifyElem func(elemAddr uint32) error) error {
	return c.verifyVector(addr, 4, func(slot uint32) error {
		return c.verifyOffsetRef(slot, verifyElem)
	})
}

// verifyVectorOfStructs verifies a vector whose elements are fixed-size
// structs packed inline (no per-element indirection), each elemSize apart.
func (c *Context) verifyVectorOfStructs(addr uint32, elemSize uint32, verifyElem func(elemAddr uint32) error) error {
	return c.verifyVector(addr, elemSize, verifyElem)
}

// verifyVector verifies the 4-byte uoffset at addr, the length prefix the
// vector it resolves to carries, and that n*elemSize element bytes fit in
// the buffer; it then calls verifyElem once per element with that
// element's own starting address.
func (c *Context) verifyVector(addr uint32, elemSize uint32, verifyElem func(elemAddr uint32) error) error {
	return c.verifyOffsetRef(addr, func(vec uint32) error {
		if !verifyURange(c.size(), vec, 4) {
			return c.fail(ErrOutOfBounds)
		}
		n := readU32(c.buf, vec)
		total, ok := mulOverflowU32(n, elemSize)
		if !ok {
			return c.fail(ErrSizeOverflow)
		}
		if !verifyURange(c.size(), vec+4, total) {
			return c.fail(ErrOutOfBounds)
		}
		for i := uint32(0); i < n; i++ {
			if err := verifyElem(vec + 4 + i*elemSize); err != nil {
				return err
			}
		}
		return nil
	})
}

func mulOverflowU32(a, b uint32) (uint32, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := uint64(a) * uint64(b)
	if p > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(p), true
}
