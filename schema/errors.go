// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by single-shot helpers that don't need a source
// position (the Analyzer itself reports positioned Diagnostics instead).
var (
	ErrDuplicateSymbol     = errors.New("schema: duplicate symbol in scope")
	ErrUndefinedReference  = errors.New("schema: undefined type reference")
	ErrCircularStruct      = errors.New("schema: circular struct reference")
	ErrInvalidAttribute    = errors.New("schema: invalid or undeclared attribute")
	ErrInvalidDefault      = errors.New("schema: invalid default value")
	ErrFieldIDConflict     = errors.New("schema: table field id assignment is inconsistent")
	ErrAlignmentOutOfRange = errors.New("schema: alignment is not a power of two <= 256")
	ErrRequiredOnScalar    = errors.New("schema: required attribute on scalar or enum field")
	ErrKeyOnNonKeyType     = errors.New("schema: key attribute on non-scalar, non-string field")
	ErrMultiplePrimaryKeys = errors.New("schema: more than one primary_key field")
	ErrEmptyStruct         = errors.New("schema: struct has no fields")
	ErrStructSizeOverflow  = errors.New("schema: struct size exceeds implementation ceiling")
	ErrSortedVectorNoKey   = errors.New("schema: sorted vector-of-table field requires a key field on the element type")
)

// Phase identifies which analyzer phase produced a Diagnostic.
type Phase uint8

// Phases, in the order the analyzer runs them.
const (
	PhaseIndexSymbols Phase = iota
	PhaseSeedAttributes
	PhaseResolveEnums
	PhaseResolveStructs
	PhaseResolveUnions
	PhaseResolveTables
	PhaseResolveRPC
	PhaseResolveRoot
)

func (p Phase) String() string {
	names := [...]string{
		"index-symbols", "seed-attributes", "resolve-enums", "resolve-structs",
		"resolve-unions", "resolve-tables", "resolve-rpc", "resolve-root",
	}
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown-phase"
}

// Pos is a source position within a schema file, for diagnostic reporting.
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Diagnostic is one analyzer error, carrying the phase and source position
// that produced it; the analyzer continues past a Diagnostic where possible.
type Diagnostic struct {
	Phase    Phase
	Pos      Pos
	Compound CompoundID
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %v", d.Phase, d.Pos, d.Err)
}

// Error aggregates every Diagnostic emitted across all phases of one
// Analyze call. The zero value has no diagnostics and is never returned;
// Analyze returns nil when there were no errors.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	var b strings.Builder
	for i, d := range e.Diagnostics {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.String())
	}
	return b.String()
}
