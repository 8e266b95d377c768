// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

// RootSchema is the process-wide container for one analysis run: the
// compound arena, the scope index, the user-declared attribute set and the
// include set. It is the explicit context threaded through the analyzer
// in place of global mutable state.
type RootSchema struct {
	compounds []*Compound
	scopes    map[string]*Scope // keyed by joined namespace, "" for global
	userAttrs map[string]AttributeArgKind
	includes  map[string]struct{}

	// RootType is the schema's declared root type, resolved in phase 8.
	RootType CompoundID
	// FileIdentifier is the optional 4-byte file identifier literal.
	FileIdentifier string
	// FileExtension is the optional declared output file extension.
	FileExtension string
}

// NewRootSchema returns an empty RootSchema ready to accept compounds.
func NewRootSchema() *RootSchema {
	return &RootSchema{
		scopes:    map[string]*Scope{"": newScope(nil)},
		userAttrs: make(map[string]AttributeArgKind),
		includes:  make(map[string]struct{}),
		RootType:  InvalidCompoundID,
	}
}

// AddInclude records that another schema file is visible from this one.
func (r *RootSchema) AddInclude(path string) {
	r.includes[path] = struct{}{}
}

// DeclareAttribute registers a user-defined attribute name (from
// `attribute "name";`), required before it can be used.
func (r *RootSchema) DeclareAttribute(name string) {
	r.userAttrs[name] = ArgString
}

// IsDeclaredAttribute reports whether name is known, either built in or
// user-declared.
func (r *RootSchema) IsDeclaredAttribute(name string) bool {
	if IsKnownAttribute(name) {
		return true
	}
	_, ok := r.userAttrs[name]
	return ok
}

// Scope returns (creating if necessary) the Scope for the given namespace
// path, e.g. []string{"a", "b"} for `namespace a.b;`.
func (r *RootSchema) Scope(namespace []string) *Scope {
	key := joinNamespace(namespace)
	if s, ok := r.scopes[key]; ok {
		return s
	}
	s := newScope(namespace)
	r.scopes[key] = s
	return s
}

func joinNamespace(ns []string) string {
	if len(ns) == 0 {
		return ""
	}
	out := ns[0]
	for _, n := range ns[1:] {
		out += "." + n
	}
	return out
}

// NewCompound allocates a Compound in the arena, assigns it the next
// CompoundID, and inserts it into scope's symbol table. It does not compute
// type hashes or validate layout; those happen in later phases. Returns
// ErrDuplicateSymbol if name already exists in scope.
func (r *RootSchema) NewCompound(scope *Scope, kind Kind, name, file string) (*Compound, error) {
	if _, exists := scope.symbols[name]; exists {
		return nil, ErrDuplicateSymbol
	}
	id := CompoundID(len(r.compounds))
	c := &Compound{
		ID:         id,
		Kind:       kind,
		Name:       name,
		Scope:      scope,
		File:       file,
		PrimaryKey: -1,
	}
	r.compounds = append(r.compounds, c)
	scope.symbols[name] = id
	return c, nil
}

// Compound looks up a compound by id. Panics if id is out of range, since a
// valid CompoundID is only ever handed out by this RootSchema.
func (r *RootSchema) Compound(id CompoundID) *Compound {
	return r.compounds[id]
}

// Compounds returns every compound in declaration order.
func (r *RootSchema) Compounds() []*Compound {
	return r.compounds
}

// Resolve looks up name against scope, then each enclosing scope outward,
// then the global scope: local scope first, then parent scopes outward,
// then global.
func (r *RootSchema) Resolve(scope *Scope, name string) (CompoundID, bool) {
	ns := append([]string(nil), scope.Namespace...)
	for {
		key := joinNamespace(ns)
		if s, ok := r.scopes[key]; ok {
			if id, ok := s.symbols[name]; ok {
				return id, true
			}
		}
		if len(ns) == 0 {
			break
		}
		ns = ns[:len(ns)-1]
	}
	return InvalidCompoundID, false
}
