// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"sort"
)

// resolveTable resolves one table compound: field id assignment,
// type-reference resolution, default-value and attribute validation,
// field emission order, and primary-key selection.
func (a *Analyzer) resolveTable(c *Compound) {
	for _, m := range c.Members {
		if err := a.resolveMemberRefs(c.Scope, &m.Type); err != nil {
			a.fail(c, PhaseResolveTables, err)
			c.Invalid = true
			return
		}
	}

	if err := a.assignFieldIDs(c); err != nil {
		a.fail(c, PhaseResolveTables, err)
		c.Invalid = true
		return
	}

	for _, m := range c.Members {
		if err := a.validateField(c, m); err != nil {
			a.fail(c, PhaseResolveTables, err)
		}
	}

	a.orderFields(c)
	a.pickPrimaryKey(c)
}

// assignFieldIDs implements the "either all auto-assigned ... or all
// explicitly given via id metadata; mixing is an error" rule, plus the
// union-field rule that a union payload field at id N implicitly
// occupies id N-1 for its type tag, with the tag emitted first when
// auto-assigning.
func (a *Analyzer) assignFieldIDs(c *Compound) error {
	anyExplicit, anyImplicit := false, false
	for _, m := range c.Members {
		if _, ok := m.Metadata.Arg("id"); ok {
			anyExplicit = true
		} else {
			anyImplicit = true
		}
	}
	if anyExplicit && anyImplicit {
		return fmt.Errorf("%w: %s mixes explicit and auto-assigned field ids", ErrFieldIDConflict, c.FQName())
	}

	if anyExplicit {
		seen := make(map[CompoundFieldID]bool, len(c.Members))
		for _, m := range c.Members {
			arg, _ := m.Metadata.Arg("id")
			id := CompoundFieldID(parseUintArg(arg))
			if seen[id] {
				return fmt.Errorf("%w: %s field %s reuses id %d", ErrFieldIDConflict, c.FQName(), m.Name, id)
			}
			seen[id] = true
			m.ID = id
		}
		return nil
	}

	next := CompoundFieldID(0)
	for _, m := range c.Members {
		if m.Type.Tag == TypeCompoundRef && a.isUnion(m.Type.Compound) {
			// Tag occupies the lower id, payload the one above it.
			m.ID = next + 1
			next += 2
		} else {
			m.ID = next
			next++
		}
	}
	return nil
}

func (a *Analyzer) isUnion(id CompoundID) bool {
	if id == InvalidCompoundID {
		return false
	}
	return a.root.Compound(id).Kind == KindUnion
}

// validateField implements the attribute-validation rules:
// key/required/nested_flatbuffer/sorted/base64 constraints and
// default-value legality.
func (a *Analyzer) validateField(c *Compound, m *Member) error {
	isScalarOrEnum := m.Type.Tag == TypeScalar ||
		(m.Type.Tag == TypeCompoundRef && a.root.Compound(m.Type.Compound).Kind == KindEnum)

	if m.Default != nil && !isScalarOrEnum {
		return fmt.Errorf("%w: %s.%s: non-scalar fields may not have a default", ErrInvalidDefault, c.FQName(), m.Name)
	}
	if m.Type.Tag == TypeCompoundRef && a.root.Compound(m.Type.Compound).Kind == KindEnum && m.Default == nil {
		enumDep := a.root.Compound(m.Type.Compound)
		if !enumHasZero(enumDep) {
			return fmt.Errorf("%w: %s.%s: enum %s has no 0-valued element for implicit default",
				ErrInvalidDefault, c.FQName(), m.Name, enumDep.FQName())
		}
	}

	if m.Metadata.Has("key") {
		isString := m.Type.Tag == TypeString
		if !isScalarOrEnum && !isString {
			return fmt.Errorf("%w: %s.%s", ErrKeyOnNonKeyType, c.FQName(), m.Name)
		}
	}
	if m.Metadata.Has("required") && isScalarOrEnum {
		return fmt.Errorf("%w: %s.%s", ErrRequiredOnScalar, c.FQName(), m.Name)
	}
	if m.Metadata.Has("nested_flatbuffer") {
		if !isUByteVector(&m.Type) {
			return fmt.Errorf("schema: %s.%s: nested_flatbuffer requires [ubyte]", c.FQName(), m.Name)
		}
	}
	if m.Metadata.Has("sorted") {
		switch m.Type.Tag {
		case TypeVector, TypeVectorOfString:
			// scalars and strings compare by value; no declared key needed.
		case TypeVectorOfCompound:
			target := a.root.Compound(m.Type.Compound)
			if target != nil && target.Kind == KindTable && !hasKeyMember(target) {
				return fmt.Errorf("%w: %s.%s: sorted vector of %s has no key field",
					ErrSortedVectorNoKey, c.FQName(), m.Name, target.FQName())
			}
		default:
			return fmt.Errorf("schema: %s.%s: sorted requires a vector", c.FQName(), m.Name)
		}
	}
	if m.Metadata.Has("base64") && m.Metadata.Has("base64url") {
		return fmt.Errorf("schema: %s.%s: base64 and base64url are mutually exclusive", c.FQName(), m.Name)
	}
	if (m.Metadata.Has("base64") || m.Metadata.Has("base64url")) && !isUByteVector(&m.Type) {
		return fmt.Errorf("schema: %s.%s: base64/base64url requires [ubyte]", c.FQName(), m.Name)
	}
	if m.Metadata.Has("primary_key") {
		if !isScalarOrEnum && m.Type.Tag != TypeString {
			return fmt.Errorf("%w: %s.%s", ErrKeyOnNonKeyType, c.FQName(), m.Name)
		}
	}
	return nil
}

// hasKeyMember reports whether any field of c carries the key attribute,
// the requirement a sorted vector-of-table field places on its element
// type: a sorted vector whose element type declares no key member fails
// at analysis time rather than silently skipping the sort obligation.
func hasKeyMember(c *Compound) bool {
	for _, m := range c.Members {
		if m.Metadata.Has("key") {
			return true
		}
	}
	return false
}

func enumHasZero(c *Compound) bool {
	for _, m := range c.Members {
		if m.IntValue == 0 {
			return true
		}
	}
	return false
}

func isUByteVector(t *TypeDescriptor) bool {
	return t.Tag == TypeVector && t.Element != nil && t.Element.Tag == TypeScalar && t.Element.Scalar == ScalarUByte
}

// alignClass groups an alignment into the bucket orderFields sorts by
// (1, 2, 4, 8, 16+), the same grouping flatcc's vtable-packing codegen
// uses to minimize padding.
func alignClass(align uint32) int {
	switch {
	case align <= 1:
		return 0
	case align <= 2:
		return 1
	case align <= 4:
		return 2
	case align <= 8:
		return 3
	default:
		return 4
	}
}

// orderFields chooses the table's field emission order: align-descending
// by default to minimize vtable/table padding, or declaration order when
// `original_order` is set.
func (a *Analyzer) orderFields(c *Compound) {
	if c.Metadata.Has("original_order") {
		return
	}
	order := make([]*Member, len(c.Members))
	copy(order, c.Members)
	sort.SliceStable(order, func(i, j int) bool {
		return alignClass(a.fieldAlign(order[i])) > alignClass(a.fieldAlign(order[j]))
	})
	c.Members = order
}

func (a *Analyzer) fieldAlign(m *Member) uint32 {
	switch m.Type.Tag {
	case TypeScalar:
		return m.Type.Scalar.Size()
	case TypeCompoundRef:
		dep := a.root.Compound(m.Type.Compound)
		if dep.Kind == KindEnum {
			return dep.Underlying.Size()
		}
		if dep.Kind == KindStruct {
			return dep.Align
		}
		return 4 // uoffset to table/union
	default:
		return 4 // uoffset to string/vector
	}
}

// pickPrimaryKey marks the table's primary key: the field with
// primary_key, else the lowest-id field with key, else none.
func (a *Analyzer) pickPrimaryKey(c *Compound) {
	c.PrimaryKey = -1
	explicitCount := 0
	for i, m := range c.Members {
		if m.Metadata.Has("primary_key") {
			explicitCount++
			c.PrimaryKey = i
		}
	}
	if explicitCount > 1 {
		a.fail(c, PhaseResolveTables, fmt.Errorf("%w: %s", ErrMultiplePrimaryKeys, c.FQName()))
		return
	}
	if explicitCount == 1 {
		return
	}

	best := -1
	for i, m := range c.Members {
		if !m.Metadata.Has("key") {
			continue
		}
		if best == -1 || c.Members[i].ID < c.Members[best].ID {
			best = i
		}
	}
	c.PrimaryKey = best
}
