// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package schema implements the FlatBuffers schema semantic analyzer: it
// ingests a parsed AST of one or more .fbs files (ASTs are produced by a
// collaborator lexer/parser that is out of scope for this package) and
// produces a validated, layout-resolved schema — vtable field ids, struct
// sizes and alignments, union discriminants, circular-reference detection
// and attribute validation.
//
// Compounds never hold pointers to one another. Every cross reference is a
// CompoundID, an index into the RootSchema's arena, so the compound graph
// can contain cycles (which the struct-resolution phase must detect and
// reject) without requiring a garbage collector to reason about liveness.
package schema
