// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

// Small builders used only by tests to assemble compounds without a real
// .fbs parser.

func newTestRoot() *RootSchema {
	return NewRootSchema()
}

func mustCompound(t interface {
	Fatalf(string, ...interface{})
}, r *RootSchema, kind Kind, name string) *Compound {
	c, err := r.NewCompound(r.Scope(nil), kind, name, "test.fbs")
	if err != nil {
		t.Fatalf("NewCompound(%s): %v", name, err)
	}
	return c
}

func scalarField(name string, st ScalarType) *Member {
	return &Member{Name: name, Type: TypeDescriptor{Tag: TypeScalar, Scalar: st}}
}

func structField(name string, id CompoundID) *Member {
	return &Member{Name: name, Type: TypeDescriptor{Tag: TypeCompoundRef, Compound: id}}
}
