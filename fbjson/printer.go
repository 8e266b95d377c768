// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import (
	"io"
	"math"
	"strconv"

	"github.com/flatcc-go/flatcc/schema"
)

// PrintOptions configures a Printer the way Options configures a Parser.
type PrintOptions struct {
	// Indent, when non-empty, pretty-prints with this string repeated
	// per nesting level; empty means compact (no inter-token whitespace
	// beyond what JSON requires).
	Indent string

	// UnquotedKeys emits object keys without surrounding quotes (valid
	// flatc-dialect JSON, not strict JSON) instead of the default quoted
	// form.
	UnquotedKeys bool

	// SymbolicEnums renders enum and flag fields by their declared names
	// instead of the raw underlying integer.
	SymbolicEnums bool

	// SkipDefaults omits a scalar or enum field from the output when its
	// wire value equals the field's declared default (0 when no default
	// is given), producing the canonical compact form the round-trip
	// idempotence property relies on. ForceDefaults overrides this so
	// every field present in the buffer is printed, including a NONE
	// union tag; fields absent from the buffer are not printed either way.
	SkipDefaults  bool
	ForceDefaults bool
}

// Printer walks a verified wire buffer and emits JSON text, the mirror
// image of Parser's trie dispatch: a straightforward recursive walk that
// mirrors the trie in reverse.
//
// Printer assumes buf has already passed verify.AsRoot or
// verify.AsTypedRoot; it does no bounds checking of its own, the same
// division of labor the FlatBuffers C runtime's generated json printers
// assume of flatcc_verify before printing.
type Printer struct {
	root *schema.RootSchema
	opts PrintOptions
}

// NewPrinter returns a Printer bound to root.
func NewPrinter(root *schema.RootSchema, opts PrintOptions) *Printer {
	return &Printer{root: root, opts: opts}
}

// PrintAsRoot writes buf, rooted at rootType, to w as JSON text.
// PrintAsRoot does not read or check the file identifier in buf's bytes
// 4..7 — callers that care pair this with verify.AsRoot first.
func (p *Printer) PrintAsRoot(w io.Writer, buf []byte, rootType schema.CompoundID) error {
	compound := p.root.Compound(rootType)
	if compound == nil || compound.Kind != schema.KindTable {
		return ErrUnknownField
	}
	pw := &printWriter{w: w, opts: p.opts}
	uoff := leU32(buf, 0)
	return p.printTable(pw, buf, uoff, compound)
}

// printWriter tracks the small amount of state pretty-printing needs:
// whether a comma is owed before the next token, and the current
// indentation depth.
type printWriter struct {
	w       io.Writer
	opts    PrintOptions
	err     error
	pending bool
	depth   int
}

func (pw *printWriter) raw(s string) {
	if pw.err != nil {
		return
	}
	_, pw.err = io.WriteString(pw.w, s)
}

func (pw *printWriter) newlineIndent() {
	if pw.opts.Indent == "" {
		return
	}
	pw.raw("\n")
	for i := 0; i < pw.depth; i++ {
		pw.raw(pw.opts.Indent)
	}
}

func (pw *printWriter) open(brace string) {
	pw.raw(brace)
	pw.depth++
	pw.pending = false
}

func (pw *printWriter) close(brace string) {
	pw.depth--
	if pw.pending {
		pw.newlineIndent()
	}
	pw.raw(brace)
	pw.pending = true
}

func (pw *printWriter) item() {
	if pw.pending {
		pw.raw(",")
	}
	pw.newlineIndent()
	pw.pending = true
}

func (pw *printWriter) key(name string) {
	pw.item()
	if pw.opts.UnquotedKeys {
		pw.raw(name)
	} else {
		pw.raw(strconv.Quote(name))
	}
	pw.raw(":")
}

// printTable reads the table at addr and emits one JSON object, one field
// per present vtable entry, in declaration (field-id) order.
func (p *Printer) printTable(pw *printWriter, buf []byte, addr uint32, c *schema.Compound) error {
	soffset := int32(leU32(buf, addr))
	vtAddr := uint32(int64(addr) - int64(soffset))
	vtSize := leU16(buf, vtAddr)
	numEntries := (uint32(vtSize) - 4) / 2

	pw.open("{")
	for _, m := range c.Members {
		fid := uint32(m.ID)
		if m.Type.Tag == schema.TypeCompoundRef {
			if target := p.root.Compound(m.Type.Compound); target != nil && target.Kind == schema.KindUnion {
				// The tag occupies fid-1; printUnionField prints it as
				// <name>_type before the payload, matching the parser's
				// _type split.
				if err := p.printUnionField(pw, buf, addr, vtAddr, numEntries, m, target); err != nil {
					return err
				}
				continue
			}
		}
		voffset := uint16(0)
		if fid < numEntries {
			voffset = leU16(buf, vtAddr+4+fid*2)
		}
		if voffset == 0 {
			continue
		}
		if err := p.printField(pw, buf, addr+uint32(voffset), m); err != nil {
			return err
		}
	}
	pw.close("}")
	return pw.err
}

func (p *Printer) printUnionField(pw *printWriter, buf []byte, tableAddr, vtAddr uint32, numEntries uint32, m *schema.Member, union *schema.Compound) error {
	tagID := int(m.ID) - 1
	if tagID < 0 || uint32(tagID) >= numEntries {
		return nil
	}
	tagVoff := leU16(buf, vtAddr+4+uint32(tagID)*2)
	if tagVoff == 0 {
		return nil
	}
	tagValue := int64(buf[tableAddr+uint32(tagVoff)])
	variant := unionVariant(union, tagValue)
	if variant == nil {
		return nil
	}
	if tagValue == 0 && !p.opts.ForceDefaults {
		return nil
	}

	payloadVoff := uint16(0)
	if uint32(m.ID) < numEntries {
		payloadVoff = leU16(buf, vtAddr+4+uint32(m.ID)*2)
	}

	pw.key(m.Name + "_type")
	pw.raw(strconv.Quote(variant.Name))
	if payloadVoff == 0 {
		return pw.err
	}

	pw.key(m.Name)
	payloadAddr := tableAddr + uint32(payloadVoff)
	if variant.Type.Tag == schema.TypeString {
		return p.printString(pw, buf, payloadAddr)
	}
	target := p.root.Compound(variant.Type.Compound)
	uoff := leU32(buf, payloadAddr)
	return p.printTable(pw, buf, payloadAddr+uoff, target)
}

func (p *Printer) printField(pw *printWriter, buf []byte, fieldAddr uint32, m *schema.Member) error {
	switch m.Type.Tag {
	case schema.TypeScalar:
		return p.printScalar(pw, buf, fieldAddr, m)
	case schema.TypeString:
		pw.key(m.Name)
		return p.printString(pw, buf, fieldAddr)
	case schema.TypeCompoundRef:
		target := p.root.Compound(m.Type.Compound)
		switch target.Kind {
		case schema.KindEnum:
			return p.printEnumScalar(pw, buf, fieldAddr, m, target)
		case schema.KindStruct:
			pw.key(m.Name)
			return p.printStructBody(pw, buf, fieldAddr, target)
		case schema.KindTable:
			pw.key(m.Name)
			uoff := leU32(buf, fieldAddr)
			return p.printTable(pw, buf, fieldAddr+uoff, target)
		default:
			return nil
		}
	case schema.TypeVector:
		pw.key(m.Name)
		return p.printScalarVector(pw, buf, fieldAddr, m)
	case schema.TypeVectorOfString:
		pw.key(m.Name)
		return p.printStringVector(pw, buf, fieldAddr)
	case schema.TypeVectorOfCompound:
		pw.key(m.Name)
		return p.printCompoundVector(pw, buf, fieldAddr, m)
	default:
		return nil
	}
}

func (p *Printer) printScalar(pw *printWriter, buf []byte, addr uint32, m *schema.Member) error {
	v := decodeScalar(m.Type.Scalar, buf, addr)
	if p.shouldSkip(m, v) {
		return pw.err
	}
	pw.key(m.Name)
	pw.raw(formatScalar(m.Type.Scalar, v))
	return pw.err
}

func (p *Printer) printEnumScalar(pw *printWriter, buf []byte, addr uint32, m *schema.Member, enum *schema.Compound) error {
	v := decodeScalar(enum.Underlying, buf, addr)
	if p.shouldSkip(m, v) {
		return pw.err
	}
	pw.key(m.Name)
	if p.opts.SymbolicEnums {
		pw.raw(strconv.Quote(printEnumValue(enum, int64(v))))
	} else {
		pw.raw(formatScalar(enum.Underlying, v))
	}
	return pw.err
}

// shouldSkip reports whether a scalar/enum field equals its declared (or
// implicit zero) default and SkipDefaults is set, so compact printing
// with skip_default=true stays canonical.
func (p *Printer) shouldSkip(m *schema.Member, v float64) bool {
	if p.opts.ForceDefaults || !p.opts.SkipDefaults {
		return false
	}
	def := 0.0
	if m.Default != nil {
		if m.Default.F != 0 {
			def = m.Default.F
		} else {
			def = float64(m.Default.I)
		}
	}
	return v == def
}

func (p *Printer) printString(pw *printWriter, buf []byte, fieldAddr uint32) error {
	uoff := leU32(buf, fieldAddr)
	strAddr := fieldAddr + uoff
	length := leU32(buf, strAddr)
	pw.raw(strconv.Quote(string(buf[strAddr+4 : strAddr+4+length])))
	return pw.err
}

func (p *Printer) printStructBody(pw *printWriter, buf []byte, addr uint32, target *schema.Compound) error {
	pw.open("{")
	for _, m := range target.Members {
		base := addr + m.Offset
		if m.Type.Tag == schema.TypeCompoundRef {
			if nested := p.root.Compound(m.Type.Compound); nested != nil && nested.Kind == schema.KindStruct {
				pw.key(m.Name)
				if err := p.printStructBody(pw, buf, base, nested); err != nil {
					return err
				}
				continue
			}
		}
		v := decodeScalar(m.Type.Scalar, buf, base)
		pw.key(m.Name)
		pw.raw(formatScalar(m.Type.Scalar, v))
	}
	pw.close("}")
	return pw.err
}

func (p *Printer) printScalarVector(pw *printWriter, buf []byte, fieldAddr uint32, m *schema.Member) error {
	uoff := leU32(buf, fieldAddr)
	vecAddr := fieldAddr + uoff
	length := leU32(buf, vecAddr)
	elemSize := m.Type.Element.Scalar.Size()
	pw.open("[")
	for i := uint32(0); i < length; i++ {
		pw.item()
		v := decodeScalar(m.Type.Element.Scalar, buf, vecAddr+4+i*elemSize)
		pw.raw(formatScalar(m.Type.Element.Scalar, v))
	}
	pw.close("]")
	return pw.err
}

func (p *Printer) printStringVector(pw *printWriter, buf []byte, fieldAddr uint32) error {
	uoff := leU32(buf, fieldAddr)
	vecAddr := fieldAddr + uoff
	length := leU32(buf, vecAddr)
	pw.open("[")
	for i := uint32(0); i < length; i++ {
		pw.item()
		elemOff := vecAddr + 4 + i*4
		if err := p.printString(pw, buf, elemOff); err != nil {
			return err
		}
	}
	pw.close("]")
	return pw.err
}

func (p *Printer) printCompoundVector(pw *printWriter, buf []byte, fieldAddr uint32, m *schema.Member) error {
	target := p.root.Compound(m.Type.Compound)
	uoff := leU32(buf, fieldAddr)
	vecAddr := fieldAddr + uoff
	length := leU32(buf, vecAddr)
	pw.open("[")
	if target.Kind == schema.KindStruct {
		for i := uint32(0); i < length; i++ {
			pw.item()
			if err := p.printStructBody(pw, buf, vecAddr+4+i*target.Size, target); err != nil {
				return err
			}
		}
	} else {
		for i := uint32(0); i < length; i++ {
			pw.item()
			elemOff := vecAddr + 4 + i*4
			elemUoff := leU32(buf, elemOff)
			if err := p.printTable(pw, buf, elemOff+elemUoff, target); err != nil {
				return err
			}
		}
	}
	pw.close("]")
	return pw.err
}

// decodeScalar reads st's wire encoding at addr and widens it to float64,
// the inverse of encodeScalar.
func decodeScalar(st schema.ScalarType, buf []byte, addr uint32) float64 {
	switch st {
	case schema.ScalarBool, schema.ScalarUByte:
		return float64(buf[addr])
	case schema.ScalarByte:
		return float64(int8(buf[addr]))
	case schema.ScalarUShort:
		return float64(leU16(buf, addr))
	case schema.ScalarShort:
		return float64(int16(leU16(buf, addr)))
	case schema.ScalarUInt:
		return float64(leU32(buf, addr))
	case schema.ScalarInt:
		return float64(int32(leU32(buf, addr)))
	case schema.ScalarULong:
		return float64(leU64(buf, addr))
	case schema.ScalarLong:
		return float64(int64(leU64(buf, addr)))
	case schema.ScalarFloat:
		return float64(math.Float32frombits(leU32(buf, addr)))
	case schema.ScalarDouble:
		return math.Float64frombits(leU64(buf, addr))
	default:
		return 0
	}
}

// formatScalar renders a decoded scalar the way the parser's numeric
// literal grammar expects to read it back (plain decimal, booleans as
// 0/1 the way the C runtime's default json printer does).
func formatScalar(st schema.ScalarType, v float64) string {
	switch st {
	case schema.ScalarFloat:
		return strconv.FormatFloat(v, 'g', -1, 32)
	case schema.ScalarDouble:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case schema.ScalarBool:
		return itoa64(int64(v))
	default:
		return itoa64(int64(v))
	}
}

func leU16(buf []byte, at uint32) uint16 {
	return uint16(buf[at]) | uint16(buf[at+1])<<8
}

func leU32(buf []byte, at uint32) uint32 {
	return uint32(buf[at]) | uint32(buf[at+1])<<8 | uint32(buf[at+2])<<16 | uint32(buf[at+3])<<24
}

func leU64(buf []byte, at uint32) uint64 {
	return uint64(leU32(buf, at)) | uint64(leU32(buf, at+4))<<32
}
