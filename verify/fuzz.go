// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package verify

import "github.com/flatcc-go/flatcc/schema"

// Fuzz is a go-fuzz entry point for the go-fuzz-build toolchain. It verifies
// arbitrary bytes against a minimal one-field fixture schema, exercising the
// bounds-checking walk itself rather than any one application's schema.
func Fuzz(data []byte) int {
	if err := AsRoot(data, fixtureSchema()); err != nil {
		return 0
	}
	return 1
}

func fixtureSchema() *schema.RootSchema {
	root := schema.NewRootSchema()
	global := root.Scope(nil)
	cmp, err := root.NewCompound(global, schema.KindTable, "FuzzRoot", "fuzz")
	if err != nil {
		return root
	}
	cmp.Members = []*schema.Member{
		{Name: "value", Type: schema.TypeDescriptor{Tag: schema.TypeScalar, Scalar: schema.ScalarInt}, ID: 0},
	}
	root.RootType = cmp.ID
	return root
}
