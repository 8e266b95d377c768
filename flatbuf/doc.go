// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package flatbuf implements the FlatBuffers wire-format builder: a
// stack-based incremental encoder that produces a little-endian buffer
// conforming to the FlatBuffers binary layout, with vtable interning,
// DAG-preserving cloning via a reference map, nested buffers, and scoped
// emitter I/O.
//
// The Builder grows its scratch buffer backward: the first object finished
// (always a leaf, since a child must exist before a table can reference it)
// lands at the highest address of the eventual buffer, and the root —
// finished last — lands at the lowest. This is exactly the reverse-buffer-order
// contract the Emitter relies on: nothing needs to be rewritten or relocated
// once placed.
package flatbuf
