// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import "github.com/flatcc-go/flatcc/schema"

// monsterSchema builds, by hand, the small schema every JSON dispatcher
// test in this package parses and prints against: a Color bit-flag enum,
// a Vec3 struct, and a Monster table with a scalar, a string, an enum, a
// struct and a scalar-vector field. A real .fbs parser is out of scope
// here; tests assemble the already-resolved schema directly, the same
// shortcut schema's own test suite and verify's take.
func monsterSchema() *schema.RootSchema {
	root := schema.NewRootSchema()
	global := root.Scope(nil)

	color, _ := root.NewCompound(global, schema.KindEnum, "Color", "monster_test.fbs")
	color.Underlying = schema.ScalarUByte
	color.BitFlags = true
	color.Members = []*schema.Member{
		{Name: "Red", IntValue: 1},
		{Name: "Green", IntValue: 2},
		{Name: "Blue", IntValue: 4},
	}

	vec3, _ := root.NewCompound(global, schema.KindStruct, "Vec3", "monster_test.fbs")
	vec3.Align = 4
	vec3.Size = 12
	vec3.Members = []*schema.Member{
		{Name: "x", Type: schema.TypeDescriptor{Tag: schema.TypeScalar, Scalar: schema.ScalarFloat}, Offset: 0, Size: 4},
		{Name: "y", Type: schema.TypeDescriptor{Tag: schema.TypeScalar, Scalar: schema.ScalarFloat}, Offset: 4, Size: 4},
		{Name: "z", Type: schema.TypeDescriptor{Tag: schema.TypeScalar, Scalar: schema.ScalarFloat}, Offset: 8, Size: 4},
	}

	monster, _ := root.NewCompound(global, schema.KindTable, "Monster", "monster_test.fbs")
	hpDefault := &schema.Value{I: 100}
	monster.Members = []*schema.Member{
		{Name: "pos", Type: schema.TypeDescriptor{Tag: schema.TypeCompoundRef, Compound: vec3.ID}, ID: 0},
		{Name: "hp", Type: schema.TypeDescriptor{Tag: schema.TypeScalar, Scalar: schema.ScalarShort}, ID: 1, Default: hpDefault},
		{Name: "name", Type: schema.TypeDescriptor{Tag: schema.TypeString}, ID: 2},
		{Name: "color", Type: schema.TypeDescriptor{Tag: schema.TypeCompoundRef, Compound: color.ID}, ID: 3},
		{Name: "inventory", Type: schema.TypeDescriptor{Tag: schema.TypeVector, Element: &schema.TypeDescriptor{Tag: schema.TypeScalar, Scalar: schema.ScalarUByte}}, ID: 4},
	}

	root.RootType = monster.ID
	root.FileIdentifier = "MONS"
	return root
}
