// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "fmt"

// resolveRPCService resolves an rpc service compound: each method's
// request and response must resolve to a table (no other types allowed).
func (a *Analyzer) resolveRPCService(c *Compound) {
	for i := range c.Methods {
		meth := &c.Methods[i]
		if err := a.requireTable(c.Scope, meth.Request); err != nil {
			a.fail(c, PhaseResolveRPC, fmt.Errorf("schema: rpc %s method %s request: %w", c.FQName(), meth.Name, err))
		}
		if err := a.requireTable(c.Scope, meth.Response); err != nil {
			a.fail(c, PhaseResolveRPC, fmt.Errorf("schema: rpc %s method %s response: %w", c.FQName(), meth.Name, err))
		}
	}
}

func (a *Analyzer) requireTable(scope *Scope, id CompoundID) error {
	if id == InvalidCompoundID {
		return ErrUndefinedReference
	}
	dep := a.root.Compound(id)
	if dep.Kind != KindTable {
		return fmt.Errorf("schema: %s is not a table", dep.FQName())
	}
	return nil
}
