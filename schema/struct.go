// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "fmt"

// structColor is the three-color DFS marker used to detect cycles in the
// struct-contains-struct graph.
type structColor uint8

const (
	colorWhite structColor = iota // unvisited
	colorGray                     // on the current DFS stack
	colorBlack                    // fully resolved
)

// maxStructSize is the implementation's struct-size ceiling: growth beyond
// it is an error. flatcc itself caps at 2^31; this module uses the same figure.
const maxStructSize = 1 << 31

// resolveStructs walks every struct compound in topological order via
// three-color DFS (back edges are circular-reference errors), then
// computes per-struct field offset/size/align.
func (a *Analyzer) resolveStructs() {
	colors := make(map[CompoundID]structColor)
	for _, c := range a.root.Compounds() {
		if c.Kind != KindStruct || c.Invalid {
			continue
		}
		if colors[c.ID] == colorWhite {
			a.visitStruct(c, colors, nil)
		}
	}
}

// visitStruct performs the DFS walk. path accumulates the current stack of
// struct ids but is not otherwise read; the circular-reference diagnostic
// names the two structs joined by the back edge.
func (a *Analyzer) visitStruct(c *Compound, colors map[CompoundID]structColor, path []CompoundID) {
	colors[c.ID] = colorGray
	path = append(path, c.ID)

	for _, m := range c.Members {
		if err := a.resolveMemberRefs(c.Scope, &m.Type); err != nil {
			a.fail(c, PhaseResolveStructs, err)
			c.Invalid = true
			continue
		}
		if m.Type.Tag != TypeCompoundRef {
			continue
		}
		dep := a.root.Compound(m.Type.Compound)
		if dep.Kind != KindStruct {
			continue
		}
		switch colors[dep.ID] {
		case colorWhite:
			a.visitStruct(dep, colors, path)
		case colorGray:
			a.fail(c, PhaseResolveStructs, fmt.Errorf(
				"%w: %s -> %s", ErrCircularStruct, c.FQName(), dep.FQName()))
			dep.Invalid = true
			c.Invalid = true
		case colorBlack:
			// already resolved, no cycle through this edge
		}
	}

	if !c.Invalid {
		a.layoutStruct(c)
	}
	colors[c.ID] = colorBlack
}

// layoutStruct computes offset/size/align for every field of c and the
// struct's own size/align.
func (a *Analyzer) layoutStruct(c *Compound) {
	if len(c.Members) == 0 {
		a.fail(c, PhaseResolveStructs, fmt.Errorf("%w: %s", ErrEmptyStruct, c.FQName()))
		return
	}

	var size, align uint32 = 0, 1
	for _, m := range c.Members {
		fieldAlign, fieldSize := a.scalarOrStructLayout(&m.Type)
		if fieldAlign == 0 {
			a.fail(c, PhaseResolveStructs, fmt.Errorf(
				"schema: struct %s field %s has non-inlineable type", c.FQName(), m.Name))
			return
		}
		m.Align = fieldAlign
		m.Size = fieldSize
		m.Offset = alignUp(size, fieldAlign)
		if m.Offset < size {
			a.fail(c, PhaseResolveStructs, fmt.Errorf("%w: %s", ErrStructSizeOverflow, c.FQName()))
			return
		}
		size = m.Offset + m.Size
		if size > maxStructSize {
			a.fail(c, PhaseResolveStructs, fmt.Errorf("%w: %s", ErrStructSizeOverflow, c.FQName()))
			return
		}
		if fieldAlign > align {
			align = fieldAlign
		}
	}

	if forceArg, ok := c.Metadata.Arg("force_align"); ok {
		forceAlign := parseUintArg(forceArg)
		if forceAlign < align {
			a.fail(c, PhaseResolveStructs, fmt.Errorf(
				"%w: %s force_align %d smaller than natural alignment %d",
				ErrAlignmentOutOfRange, c.FQName(), forceAlign, align))
			return
		}
		if !isPow2(forceAlign) || forceAlign > 256 {
			a.fail(c, PhaseResolveStructs, fmt.Errorf("%w: %s", ErrAlignmentOutOfRange, c.FQName()))
			return
		}
		align = forceAlign
	}

	c.Align = align
	c.Size = alignUp(size, align)
}

// scalarOrStructLayout returns (align, size) for a struct field's type: the
// natural size for scalars, the underlying type's size for fields that
// reference an enum compound, the struct's own computed size/align for
// nested structs, and elem_size*len for fixed arrays. Any other type
// yields (0, 0).
func (a *Analyzer) scalarOrStructLayout(t *TypeDescriptor) (align, size uint32) {
	switch t.Tag {
	case TypeScalar:
		s := t.Scalar.Size()
		return s, s
	case TypeCompoundRef:
		dep := a.root.Compound(t.Compound)
		if dep.Kind == KindEnum {
			s := dep.Underlying.Size()
			return s, s
		}
		if dep.Kind == KindStruct {
			return dep.Align, dep.Size
		}
		return 0, 0
	case TypeFixedArray:
		elemAlign, elemSize := a.scalarOrStructLayout(t.Element)
		return elemAlign, elemSize * uint32(t.Length)
	default:
		return 0, 0
	}
}

func alignUp(v, align uint32) uint32 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

func isPow2(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}

func parseUintArg(s string) uint32 {
	var v uint32
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		v = v*10 + uint32(s[i]-'0')
	}
	return v
}
