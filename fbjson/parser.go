// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import (
	"fmt"
	"strconv"

	"github.com/flatcc-go/flatcc/flatbuf"
	"github.com/flatcc-go/flatcc/schema"
)

// Options configures a Parser.
type Options struct {
	// StrictEnumInit rejects a flag-enum token list containing a name
	// that isn't one of the enum's declared constants, instead of
	// silently ignoring it.
	StrictEnumInit bool
}

// Parser drives a flatbuf.Builder from JSON text using a trie dispatch
// per table. The lexer is a pluggable collaborator behind the Lexer
// interface; NewTextLexer is the implementation this package provides.
type Parser struct {
	lex  Lexer
	root *schema.RootSchema
	b    *flatbuf.Builder
	opts Options

	cur   Token
	tries map[schema.CompoundID]*TrieNode
	index map[schema.CompoundID]map[string]*schema.Member
}

// NewParser returns a Parser reading from lex against root, writing into b.
func NewParser(lex Lexer, root *schema.RootSchema, b *flatbuf.Builder, opts Options) *Parser {
	return &Parser{
		lex:   lex,
		root:  root,
		b:     b,
		opts:  opts,
		tries: make(map[schema.CompoundID]*TrieNode),
		index: make(map[schema.CompoundID]map[string]*schema.Member),
	}
}

func (p *Parser) trieFor(c *schema.Compound) *TrieNode {
	if t, ok := p.tries[c.ID]; ok {
		return t
	}
	t := BuildTrie(c.Members)
	p.tries[c.ID] = t
	return t
}

// nameIndex is the exact-match fallback the trie defers to for keys the
// dispatch protocol doesn't model directly (synthesized union "_type"
// companion keys alongside a union's own field).
func (p *Parser) nameIndex(c *schema.Compound) map[string]*schema.Member {
	if idx, ok := p.index[c.ID]; ok {
		return idx
	}
	idx := make(map[string]*schema.Member, len(c.Members))
	for _, m := range c.Members {
		idx[m.Name] = m
	}
	p.index[c.ID] = idx
	return idx
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) expect(kind TokenKind) error {
	if p.cur.Kind != kind {
		return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
	}
	return p.advance()
}

// ParseAsRoot parses the lexer's input as a JSON object rooted at
// rootType, stamping fid as the file identifier, and returns
// the finished FlatBuffer.
func (p *Parser) ParseAsRoot(fid string, rootType schema.CompoundID) ([]byte, error) {
	compound := p.root.Compound(rootType)
	if compound == nil || compound.Kind != schema.KindTable {
		return nil, fmt.Errorf("fbjson: root type is not a table")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.b.StartBuffer(fid, false); err != nil {
		return nil, err
	}
	ref, err := p.parseTable(compound)
	if err != nil {
		return nil, err
	}
	return p.b.EndBuffer(ref)
}

// parseTable parses a `{ ... }` object into a table of the given compound,
// using BuildTrie/Lookup to dispatch each key before falling back to an
// exact-match index for union "_type" companion keys.
func (p *Parser) parseTable(c *schema.Compound) (flatbuf.Ref, error) {
	if err := p.expect(TokLBrace); err != nil {
		return 0, err
	}
	if err := p.b.StartTable(len(c.Members) + 1); err != nil {
		return 0, err
	}
	trie := p.trieFor(c)
	index := p.nameIndex(c)

	unionTags := make(map[int]int64) // fieldID-1 (tag slot) -> resolved tag value

	for p.cur.Kind != TokRBrace {
		if p.cur.Kind != TokString && p.cur.Kind != TokIdent {
			return 0, &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
		}
		key := p.cur.Text
		if err := p.advance(); err != nil {
			return 0, err
		}
		if err := p.expect(TokColon); err != nil {
			return 0, err
		}

		member := Lookup(trie, key)
		if member == nil {
			if m, ok := index[key]; ok {
				member = m
			}
		}
		if member == nil {
			if tagMember, tagValue, ok, err := p.tryParseUnionTagKey(key, index); err != nil {
				return 0, err
			} else if ok {
				unionTags[int(tagMember.ID)-1] = tagValue
				if p.cur.Kind == TokComma {
					if err := p.advance(); err != nil {
						return 0, err
					}
				}
				continue
			}
			return 0, &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnknownField}
		}

		if err := p.parseField(member, unionTags); err != nil {
			return 0, err
		}
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return 0, err
			}
		}
	}
	if err := p.advance(); err != nil { // consume '}'
		return 0, err
	}
	return p.b.EndTable()
}

// tryParseUnionTagKey recognizes a `<name>_type` key for a union-typed
// member named `name`, parsing its string value (the variant name) into
// the union compound's declared integer tag.
func (p *Parser) tryParseUnionTagKey(key string, index map[string]*schema.Member) (*schema.Member, int64, bool, error) {
	const suffix = "_type"
	if len(key) <= len(suffix) || key[len(key)-len(suffix):] != suffix {
		return nil, 0, false, nil
	}
	base := key[:len(key)-len(suffix)]
	member, ok := index[base]
	if !ok || member.Type.Tag != schema.TypeCompoundRef {
		return nil, 0, false, nil
	}
	union := p.root.Compound(member.Type.Compound)
	if union == nil || union.Kind != schema.KindUnion {
		return nil, 0, false, nil
	}
	if p.cur.Kind != TokString && p.cur.Kind != TokIdent {
		return nil, 0, false, &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
	}
	name := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, 0, false, err
	}
	for _, v := range union.Members {
		if v.Name == name {
			return member, v.IntValue, true, nil
		}
	}
	return nil, 0, false, ErrUnknownUnionType
}

func (p *Parser) parseField(m *schema.Member, unionTags map[int]int64) error {
	switch m.Type.Tag {
	case schema.TypeScalar:
		return p.parseScalarField(m)
	case schema.TypeString:
		return p.parseStringField(m)
	case schema.TypeVectorOfString:
		return p.parseVectorOfStringField(m)
	case schema.TypeVector:
		return p.parseScalarVectorField(m)
	case schema.TypeVectorOfCompound:
		return p.parseVectorOfCompoundField(m)
	case schema.TypeCompoundRef:
		return p.parseCompoundRefField(m, unionTags)
	default:
		return fmt.Errorf("fbjson: field %s has an unsupported type for JSON parsing", m.Name)
	}
}

func (p *Parser) parseScalarField(m *schema.Member) error {
	var raw float64
	switch p.cur.Kind {
	case TokNumber:
		v, err := strconv.ParseFloat(p.cur.Text, 64)
		if err != nil {
			return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrBadNumber}
		}
		raw = v
	case TokTrue:
		raw = 1
	case TokFalse:
		raw = 0
	default:
		return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
	}
	if err := p.advance(); err != nil {
		return err
	}
	buf := encodeScalar(m.Type.Scalar, raw)
	return p.b.TableAdd(int(m.ID), buf, m.Type.Scalar.Size())
}

func (p *Parser) parseStringField(m *schema.Member) error {
	if p.cur.Kind != TokString {
		return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
	}
	ref := p.b.CreateString(p.cur.Text)
	if err := p.advance(); err != nil {
		return err
	}
	return p.b.TableAddOffset(int(m.ID), ref)
}

func (p *Parser) parseCompoundRefField(m *schema.Member, unionTags map[int]int64) error {
	target := p.root.Compound(m.Type.Compound)
	if target == nil {
		return fmt.Errorf("fbjson: field %s references an unresolved type", m.Name)
	}
	switch target.Kind {
	case schema.KindEnum:
		return p.parseEnumField(m, target)
	case schema.KindStruct:
		return p.parseStructField(m, target)
	case schema.KindTable:
		ref, err := p.parseTable(target)
		if err != nil {
			return err
		}
		return p.b.TableAddOffset(int(m.ID), ref)
	case schema.KindUnion:
		tagValue, buffered := unionTags[int(m.ID)-1]
		if !buffered {
			return fmt.Errorf("fbjson: union field %s value arrived before its %s_type tag", m.Name, m.Name)
		}
		variant := unionVariant(target, tagValue)
		if variant == nil {
			return ErrUnknownUnionType
		}
		if err := p.b.TableAdd(int(m.ID)-1, encodeScalar(schema.ScalarUByte, float64(tagValue)), 1); err != nil {
			return err
		}
		if variant.Type.Tag == schema.TypeString {
			return p.parseStringField(m)
		}
		payloadTarget := p.root.Compound(variant.Type.Compound)
		ref, err := p.parseTable(payloadTarget)
		if err != nil {
			return err
		}
		return p.b.TableAddOffset(int(m.ID), ref)
	default:
		return fmt.Errorf("fbjson: field %s has unsupported compound kind %s", m.Name, target.Kind)
	}
}

func unionVariant(union *schema.Compound, tagValue int64) *schema.Member {
	for _, v := range union.Members {
		if v.IntValue == tagValue {
			return v
		}
	}
	return nil
}

func (p *Parser) parseEnumField(m *schema.Member, enum *schema.Compound) error {
	var value int64
	switch p.cur.Kind {
	case TokString:
		v, err := parseFlagString(enum, p.cur.Text, p.opts.StrictEnumInit)
		if err != nil {
			return err
		}
		value = v
	case TokIdent:
		v, ok := parseEnumScalar(enum, p.cur.Text)
		if !ok {
			return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrBadEnumToken}
		}
		value = v
	case TokNumber:
		v, err := strconv.ParseInt(p.cur.Text, 10, 64)
		if err != nil {
			return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrBadNumber}
		}
		value = v
	default:
		return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
	}
	if err := p.advance(); err != nil {
		return err
	}
	buf := encodeScalar(enum.Underlying, float64(value))
	return p.b.TableAdd(int(m.ID), buf, enum.Underlying.Size())
}

func (p *Parser) parseStructField(m *schema.Member, target *schema.Compound) error {
	data := make([]byte, target.Size)
	if err := p.parseStructBody(target, data); err != nil {
		return err
	}
	return p.b.TableAdd(int(m.ID), data, target.Align)
}

func (p *Parser) parseStructBody(target *schema.Compound, data []byte) error {
	if err := p.expect(TokLBrace); err != nil {
		return err
	}
	index := p.nameIndex(target)
	for p.cur.Kind != TokRBrace {
		if p.cur.Kind != TokString && p.cur.Kind != TokIdent {
			return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
		}
		key := p.cur.Text
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expect(TokColon); err != nil {
			return err
		}
		field, ok := index[key]
		if !ok {
			return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnknownField}
		}
		if field.Type.Tag == schema.TypeCompoundRef {
			nested := p.root.Compound(field.Type.Compound)
			if nested != nil && nested.Kind == schema.KindStruct {
				if err := p.parseStructBody(nested, data[field.Offset:field.Offset+field.Size]); err != nil {
					return err
				}
				if p.cur.Kind == TokComma {
					if err := p.advance(); err != nil {
						return err
					}
				}
				continue
			}
		}
		if p.cur.Kind != TokNumber && p.cur.Kind != TokTrue && p.cur.Kind != TokFalse {
			return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
		}
		var raw float64
		if p.cur.Kind == TokNumber {
			v, err := strconv.ParseFloat(p.cur.Text, 64)
			if err != nil {
				return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrBadNumber}
			}
			raw = v
		} else if p.cur.Kind == TokTrue {
			raw = 1
		}
		if err := p.advance(); err != nil {
			return err
		}
		scalar := field.Type.Scalar
		encoded := encodeScalar(scalar, raw)
		copy(data[field.Offset:field.Offset+uint32(len(encoded))], encoded)
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	return p.advance() // consume '}'
}

func (p *Parser) parseScalarVectorField(m *schema.Member) error {
	elem := m.Type.Element
	if err := p.expect(TokLBracket); err != nil {
		return err
	}
	var values []float64
	for p.cur.Kind != TokRBracket {
		var raw float64
		switch p.cur.Kind {
		case TokNumber:
			v, err := strconv.ParseFloat(p.cur.Text, 64)
			if err != nil {
				return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrBadNumber}
			}
			raw = v
		case TokTrue:
			raw = 1
		case TokFalse:
			raw = 0
		default:
			return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
		}
		if err := p.advance(); err != nil {
			return err
		}
		values = append(values, raw)
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	if err := p.advance(); err != nil { // consume ']'
		return err
	}
	size := elem.Scalar.Size()
	if err := p.b.StartVector(size, uint32(len(values)), size); err != nil {
		return err
	}
	for i := len(values) - 1; i >= 0; i-- {
		if err := p.b.VectorPush(encodeScalar(elem.Scalar, values[i])); err != nil {
			return err
		}
	}
	ref, err := p.b.EndVector()
	if err != nil {
		return err
	}
	return p.b.TableAddOffset(int(m.ID), ref)
}

func (p *Parser) parseVectorOfStringField(m *schema.Member) error {
	if err := p.expect(TokLBracket); err != nil {
		return err
	}
	var refs []flatbuf.Ref
	for p.cur.Kind != TokRBracket {
		if p.cur.Kind != TokString {
			return &PositionedError{Line: p.cur.Line, Column: p.cur.Col, Err: ErrUnexpectedToken}
		}
		refs = append(refs, p.b.CreateString(p.cur.Text))
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.b.StartVector(4, uint32(len(refs)), 4); err != nil {
		return err
	}
	for i := len(refs) - 1; i >= 0; i-- {
		if err := p.b.VectorPushOffset(refs[i]); err != nil {
			return err
		}
	}
	ref, err := p.b.EndVector()
	if err != nil {
		return err
	}
	return p.b.TableAddOffset(int(m.ID), ref)
}

func (p *Parser) parseVectorOfCompoundField(m *schema.Member) error {
	target := p.root.Compound(m.Type.Compound)
	if err := p.expect(TokLBracket); err != nil {
		return err
	}
	if target.Kind == schema.KindStruct {
		return p.parseStructVectorElements(m, target)
	}
	return p.parseTableVectorElements(m, target)
}

// parseStructVectorElements handles a vector of struct elements, which are
// packed inline (no per-element indirection), the same inline layout a
// struct-typed table field gets from parseStructField.
func (p *Parser) parseStructVectorElements(m *schema.Member, target *schema.Compound) error {
	var elems [][]byte
	for p.cur.Kind != TokRBracket {
		data := make([]byte, target.Size)
		if err := p.parseStructBody(target, data); err != nil {
			return err
		}
		elems = append(elems, data)
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.b.StartVector(target.Size, uint32(len(elems)), target.Align); err != nil {
		return err
	}
	for i := len(elems) - 1; i >= 0; i-- {
		if err := p.b.VectorPush(elems[i]); err != nil {
			return err
		}
	}
	ref, err := p.b.EndVector()
	if err != nil {
		return err
	}
	return p.b.TableAddOffset(int(m.ID), ref)
}

// parseTableVectorElements handles a vector of nested tables, each
// indirected through its own uoffset the way vectors of strings are.
func (p *Parser) parseTableVectorElements(m *schema.Member, target *schema.Compound) error {
	var refs []flatbuf.Ref
	for p.cur.Kind != TokRBracket {
		ref, err := p.parseTable(target)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.b.StartVector(4, uint32(len(refs)), 4); err != nil {
		return err
	}
	for i := len(refs) - 1; i >= 0; i-- {
		if err := p.b.VectorPushOffset(refs[i]); err != nil {
			return err
		}
	}
	ref, err := p.b.EndVector()
	if err != nil {
		return err
	}
	return p.b.TableAddOffset(int(m.ID), ref)
}

// encodeScalar renders v (already coerced to float64 by the caller) into
// the little-endian byte width st declares.
func encodeScalar(st schema.ScalarType, v float64) []byte {
	switch st {
	case schema.ScalarFloat:
		return le32(uint32frombits(float32(v)))
	case schema.ScalarDouble:
		return le64(uint64frombits(v))
	case schema.ScalarBool, schema.ScalarByte, schema.ScalarUByte:
		return []byte{byte(int64(v))}
	case schema.ScalarShort, schema.ScalarUShort:
		return le16(uint16(int64(v)))
	case schema.ScalarLong, schema.ScalarULong:
		return le64(uint64(int64(v)))
	default:
		return le32(uint32(int64(v)))
	}
}
