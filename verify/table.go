// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package verify

import "github.com/flatcc-go/flatcc/schema"

// VerifyTable checks that the table at addr is a well-formed instance of
// compound: its vtable is in bounds and large enough, every present field
// it declares resolves to an in-bounds, aligned value, and every field the
// schema marks `required` is present. It recurses into nested tables,
// structs, strings, and vectors as it goes, so one outermost call verifies
// the reachable object graph; a union field's offset is bounds-checked but
// the payload it points to is not verified.
func (c *Context) VerifyTable(addr uint32, compound *schema.Compound) error {
	if compound == nil || compound.Kind != schema.KindTable {
		return c.failf("%w: not a table compound", ErrUnknownUnion)
	}
	if !verifyURange(c.size(), addr, 4) || !verifyAligned(addr, 4) {
		return c.fail(ErrOutOfBounds)
	}
	soffset := readI32(c.buf, addr)
	vtAddr, ok := verifySRange(c.size(), addr, int64(soffset), 4)
	if !ok {
		return c.fail(ErrOutOfBounds)
	}

	if !c.seenVTable(vtAddr) {
		if !verifyURange(c.size(), vtAddr, 4) {
			return c.fail(ErrOutOfBounds)
		}
		vtSize := readU16(c.buf, vtAddr)
		if vtSize < 4 {
			return c.fail(ErrVTableTooSmall)
		}
		if !verifyURange(c.size(), vtAddr, uint32(vtSize)) {
			return c.fail(ErrOutOfBounds)
		}
		c.rememberVTable(vtAddr)
	}
	vtSize := readU16(c.buf, vtAddr)
	numEntries := (uint32(vtSize) - 4) / 2

	for _, m := range compound.Members {
		fieldID := uint32(m.ID)
		c.push(m.Name)
		if fieldID >= numEntries {
			if err := c.checkAbsent(m); err != nil {
				c.pop()
				return err
			}
			c.pop()
			continue
		}
		voffset := readU16(c.buf, vtAddr+4+fieldID*2)
		if voffset == 0 {
			if err := c.checkAbsent(m); err != nil {
				c.pop()
				return err
			}
			c.pop()
			continue
		}
		fieldAddr := addr + uint32(voffset)
		if err := c.verifyField(fieldAddr, &m.Type); err != nil {
			c.pop()
			return err
		}
		c.pop()
	}
	return nil
}

func (c *Context) checkAbsent(m *schema.Member) error {
	if m.Metadata.Has("required") {
		return c.fail(ErrRequiredMissing)
	}
	return nil
}

// verifyField dispatches on t.Tag, checking bounds/alignment for the
// field's own storage and recursing for anything indirect (offsets,
// vectors, nested compounds).
func (c *Context) verifyField(addr uint32, t *schema.TypeDescriptor) error {
	switch t.Tag {
	case schema.TypeScalar:
		n := t.Scalar.Size()
		if !verifyURange(c.size(), addr, n) || !verifyAligned(addr, n) {
			return c.fail(ErrOutOfBounds)
		}
		return nil

	case schema.TypeString:
		return c.verifyStringRef(addr)

	case schema.TypeVectorOfString:
		return c.verifyVectorOfOffsets(addr, func(elemAddr uint32) error {
			return c.verifyStringRef(elemAddr)
		})

	case schema.TypeVector:
		return c.verifyScalarVector(addr, t.Element)

	case schema.TypeVectorOfCompound:
		target := c.root.Compound(t.Compound)
		if target != nil && target.Kind == schema.KindStruct {
			return c.verifyVectorOfStructs(addr, target.Size, func(elemAddr uint32) error {
				return c.verifyStructInline(elemAddr, target)
			})
		}
		return c.verifyVectorOfOffsets(addr, func(elemAddr uint32) error {
			return c.VerifyTable(elemAddr, target)
		})

	case schema.TypeCompoundRef:
		target := c.root.Compound(t.Compound)
		if target == nil {
			return c.failf("%w: unresolved compound reference", ErrUnknownUnion)
		}
		switch target.Kind {
		case schema.KindStruct:
			return c.verifyStructInline(addr, target)
		case schema.KindTable:
			return c.verifyOffsetRef(addr, func(target2 uint32) error {
				return c.VerifyTable(target2, target)
			})
		case schema.KindUnion:
			// Union field storage is the tag byte's sibling uoffset.
			// Only the uoffset itself is checked: the tag is not read,
			// and the payload table, struct or string is not verified.
			return c.verifyOffsetRef(addr, func(target2 uint32) error {
				return nil
			})
		default:
			return nil
		}

	case schema.TypeFixedArray:
		n := t.Element.Size(c.structSize)
		total := n * uint32(t.Length)
		if !verifyURange(c.size(), addr, total) || !verifyAligned(addr, t.Element.Scalar.Size()) {
			return c.fail(ErrOutOfBounds)
		}
		return nil

	default:
		return nil
	}
}

func (c *Context) structSize(id schema.CompoundID) uint32 {
	cmp := c.root.Compound(id)
	if cmp == nil {
		return 0
	}
	return cmp.Size
}

// verifyOffsetRef verifies the 4-byte uoffset at addr resolves in-bounds,
// then calls verify on the address it resolves to.
func (c *Context) verifyOffsetRef(addr uint32, verify func(target uint32) error) error {
	if !verifyURange(c.size(), addr, 4) || !verifyAligned(addr, 4) {
		return c.fail(ErrOutOfBounds)
	}
	uoff := readU32(c.buf, addr)
	target := addr + uoff
	if target < addr || !verifyURange(c.size(), target, 0) {
		return c.fail(ErrOutOfBounds)
	}
	return verify(target)
}

func (c *Context) verifyStringRef(addr uint32) error {
	return c.verifyOffsetRef(addr, func(target uint32) error {
		if !verifyURange(c.size(), target, 4) {
			return c.fail(ErrOutOfBounds)
		}
		n := readU32(c.buf, target)
		if n == ^uint32(0) {
			return c.fail(ErrSizeOverflow) // n+1 below would wrap to 0
		}
		if !verifyURange(c.size(), target+4, n+1) { // +1 for the trailing NUL
			return c.fail(ErrOutOfBounds)
		}
		return nil
	})
}

func (c *Context) verifyStructInline(addr uint32, compound *schema.Compound) error {
	if !verifyURange(c.size(), addr, compound.Size) || !verifyAligned(addr, compound.Align) {
		return c.fail(ErrOutOfBounds)
	}
	return nil
}
