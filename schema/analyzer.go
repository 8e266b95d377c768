// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/flatcc-go/flatcc/internal/felog"
)

// Options configures an Analyzer the way pe.Options configures pe.New.
type Options struct {
	// Logger receives soft diagnostics (e.g. concurrency scheduling
	// notices); defaults to a filtered stdout logger when nil.
	Logger felog.Logger

	// StrictForceAlign is not read by the analyzer: a force_align value
	// smaller than a struct's natural alignment is always rejected,
	// whether this is true or false.
	StrictForceAlign bool

	// MaxConcurrency bounds how many independent compounds phases 3, 5,
	// 6 and 7 resolve at once. Zero means unbounded (one goroutine per
	// compound).
	MaxConcurrency int
}

// Analyzer runs eight ordered resolution phases over a RootSchema,
// collecting Diagnostics instead of aborting on the first error so that
// downstream phases can still run over every compound they are able to.
type Analyzer struct {
	root *RootSchema
	opts Options
	log  *felog.Helper

	mu    sync.Mutex
	diags []Diagnostic
}

// NewAnalyzer returns an Analyzer bound to root.
func NewAnalyzer(root *RootSchema, opts Options) *Analyzer {
	log := felog.NewHelper(opts.Logger)
	if opts.Logger == nil {
		log = felog.Default()
	}
	return &Analyzer{root: root, opts: opts, log: log}
}

// fail records a Diagnostic and marks c invalid so later phases skip it,
// suppressing cascading errors from a single bad compound.
func (a *Analyzer) fail(c *Compound, phase Phase, err error) {
	a.mu.Lock()
	a.diags = append(a.diags, Diagnostic{Phase: phase, Pos: Pos{File: c.File}, Compound: c.ID, Err: err})
	a.mu.Unlock()
	c.Invalid = true
	a.log.Debugf("phase %s: compound %s: %v", phase, c.FQName(), err)
}

// Analyze runs all eight phases in order and returns an aggregating *Error
// if any diagnostic was emitted, or nil otherwise.
func Analyze(root *RootSchema, opts Options) error {
	a := NewAnalyzer(root, opts)

	a.indexSymbols()   // phase 1
	a.seedAttributes() // phase 2
	a.concurrentPhase(PhaseResolveEnums, KindEnum, a.resolveEnum)
	a.resolveStructs() // phase 4, sequential: topological order required
	a.concurrentPhase(PhaseResolveUnions, KindUnion, a.resolveUnion)
	a.concurrentPhase(PhaseResolveTables, KindTable, a.resolveTable)
	a.concurrentPhase(PhaseResolveRPC, KindRPCService, a.resolveRPCService)
	a.resolveRootType() // phase 8

	if len(a.diags) == 0 {
		return nil
	}
	return &Error{Diagnostics: a.diags}
}

// concurrentPhase resolves every non-invalid compound of the given kind
// concurrently via an errgroup.Group: enums, unions, tables and rpc
// services are
// independent of their siblings once their dependencies (structs, or each
// other's symbols) are already indexed, so the continue-after-each-error
// policy is naturally expressed as a best-effort fan-out rather than a
// sequential loop. errgroup.Group.Wait's error is always nil here because resolve*
// records failures as Diagnostics rather than returning errors; the group
// is used purely for its bounded, synchronized fan-out.
func (a *Analyzer) concurrentPhase(phase Phase, kind Kind, resolve func(*Compound)) {
	var g errgroup.Group
	if a.opts.MaxConcurrency > 0 {
		g.SetLimit(a.opts.MaxConcurrency)
	}
	for _, c := range a.root.Compounds() {
		c := c
		if c.Kind != kind || c.Invalid {
			continue
		}
		g.Go(func() error {
			resolve(c)
			return nil
		})
	}
	_ = g.Wait()
}

// indexSymbols implements phase 1: assign every compound's type hash.
// Symbol-table insertion (and its duplicate-name check) already happened at
// RootSchema.NewCompound time, so this phase only computes hashes and
// checks for hash collisions across distinct fully-qualified names — an
// extremely unlikely but possible FNV-1a-32 collision.
func (a *Analyzer) indexSymbols() {
	seen := make(map[uint32]CompoundID, len(a.root.Compounds()))
	for _, c := range a.root.Compounds() {
		c.TypeHash = FNV1a32(c.FQName())
		if other, exists := seen[c.TypeHash]; exists && other != c.ID {
			a.fail(c, PhaseIndexSymbols, ErrDuplicateSymbol)
			continue
		}
		seen[c.TypeHash] = c.ID
	}
}

// seedAttributes implements phase 2: every attribute used on a compound or
// member must be either a known built-in or pre-declared via
// `attribute "name";`.
func (a *Analyzer) seedAttributes() {
	check := func(c *Compound, md Metadata) {
		for name := range md.set {
			if !a.root.IsDeclaredAttribute(name) {
				a.fail(c, PhaseSeedAttributes, ErrInvalidAttribute)
			}
		}
	}
	for _, c := range a.root.Compounds() {
		check(c, c.Metadata)
		for _, m := range c.Members {
			check(c, m.Metadata)
		}
	}
}

// resolveRootType implements phase 8: the root type must be a table (or a
// struct, if that extension is enabled — this module does not enable it).
func (a *Analyzer) resolveRootType() {
	if a.root.RootType == InvalidCompoundID {
		return
	}
	root := a.root.Compound(a.root.RootType)
	if root.Kind != KindTable {
		a.fail(root, PhaseResolveRoot, ErrInvalidDefault)
	}
}
