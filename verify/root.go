// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package verify

import "github.com/flatcc-go/flatcc/schema"

// AsRoot verifies buf as a complete buffer rooted at root.RootType: the
// header (and file identifier, if root declares one) must fit, the root
// uoffset must resolve in-bounds, and the resulting table must pass
// VerifyTable against the root compound and everything it reaches.
//
// A nil error means buf is safe to read with unchecked accessors: every
// offset, length, and alignment a reader would trust has already been
// checked once here, except inside union payloads, which VerifyTable does
// not verify.
func AsRoot(buf []byte, root *schema.RootSchema) error {
	return AsTypedRoot(buf, root, root.RootType)
}

// AsTypedRoot is AsRoot but against an explicit compound rather than the
// schema's declared root type, for callers that verify a buffer as one of
// several possible message types (e.g. a dispatch table keyed by file
// identifier).
func AsTypedRoot(buf []byte, root *schema.RootSchema, rootType schema.CompoundID) error {
	compound := root.Compound(rootType)
	if compound == nil || compound.Kind != schema.KindTable {
		return &Violation{Path: "<root>", Err: ErrUnknownUnion}
	}

	wantIdentifier := root.FileIdentifier != ""
	if !verifyHeader(uint32(len(buf)), wantIdentifier) {
		return &Violation{Path: "<root>", Err: ErrTruncated}
	}
	if wantIdentifier {
		id := buf[4:8]
		if string(id) != root.FileIdentifier {
			return &Violation{Path: "<root>", Err: ErrIdentifierMiss}
		}
	}

	c := NewContext(buf, root)
	c.push(compound.Name)
	defer c.pop()

	uoff := readU32(buf, 0)
	tableAddr := uoff
	if !verifyURange(c.size(), tableAddr, 0) {
		return c.fail(ErrOutOfBounds)
	}
	return c.VerifyTable(tableAddr, compound)
}

// AsSizePrefixedRoot verifies a size-prefixed buffer: a leading 4-byte
// total-size field precedes the usual root layout. The size field itself
// is checked against the buffer's actual length before delegating to
// AsTypedRoot on the remaining bytes.
func AsSizePrefixedRoot(buf []byte, root *schema.RootSchema, rootType schema.CompoundID) error {
	if !verifyURange(uint32(len(buf)), 0, 4) {
		return &Violation{Path: "<root>", Err: ErrTruncated}
	}
	declared := readU32(buf, 0)
	if declared != uint32(len(buf))-4 {
		return &Violation{Path: "<root>", Err: ErrSizeOverflow}
	}
	return AsTypedRoot(buf[4:], root, rootType)
}
