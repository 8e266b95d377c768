// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "fmt"

// resolveUnion resolves a union compound: unions use the same
// enumeration logic as enums with underlying type ubyte, but each member
// additionally resolves to a table, a struct, or the string type, value 0
// is reserved for an auto-injected NONE, and declared values must be
// strictly ascending positive integers.
func (a *Analyzer) resolveUnion(c *Compound) {
	c.Underlying = ScalarUByte

	none := &Member{Name: "NONE", IntValue: 0}
	members := make([]*Member, 0, len(c.Members)+1)
	members = append(members, none)

	last := int64(0)
	for _, m := range c.Members {
		if err := a.resolveRef(c.Scope, &m.Type); err != nil {
			a.fail(c, PhaseResolveUnions, err)
			continue
		}
		if m.Type.Tag != TypeCompoundRef && m.Type.Tag != TypeString {
			a.fail(c, PhaseResolveUnions, fmt.Errorf(
				"schema: union %s member %s must be a table, struct, or string",
				c.FQName(), m.Name))
			continue
		}
		if m.Type.Tag == TypeCompoundRef {
			dep := a.root.Compound(m.Type.Compound)
			if dep.Kind != KindTable && dep.Kind != KindStruct {
				a.fail(c, PhaseResolveUnions, fmt.Errorf(
					"schema: union %s member %s must reference a table or struct",
					c.FQName(), m.Name))
				continue
			}
		}

		if m.Default != nil {
			m.IntValue = m.Default.I
		} else {
			m.IntValue = last + 1
		}
		if m.IntValue <= 0 {
			a.fail(c, PhaseResolveUnions, fmt.Errorf(
				"schema: union %s member %s value %d must be a positive integer",
				c.FQName(), m.Name, m.IntValue))
			continue
		}
		if m.IntValue <= last {
			a.fail(c, PhaseResolveUnions, fmt.Errorf(
				"schema: union %s member %s value %d must exceed previous value %d",
				c.FQName(), m.Name, m.IntValue, last))
			continue
		}
		last = m.IntValue
		members = append(members, m)
	}
	c.Members = members
}
