// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "fmt"

// resolveRef resolves t's PendingRef (if any) against scope's scope chain —
// local scope first, then parent scopes outward, then global. It is
// shared by every phase that encounters a compound-typed reference
// (struct fields, union members, table fields), since forward references
// can appear in any of them.
func (a *Analyzer) resolveRef(scope *Scope, t *TypeDescriptor) error {
	if t.PendingRef == "" {
		return nil
	}
	id, ok := a.root.Resolve(scope, t.PendingRef)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedReference, t.PendingRef)
	}
	t.Compound = id
	t.PendingRef = ""
	return nil
}

// resolveMemberRefs walks t and its Element chain, resolving every pending
// reference reachable from it (vectors and fixed arrays of compounds).
func (a *Analyzer) resolveMemberRefs(scope *Scope, t *TypeDescriptor) error {
	if err := a.resolveRef(scope, t); err != nil {
		return err
	}
	if t.Element != nil {
		return a.resolveMemberRefs(scope, t.Element)
	}
	return nil
}
