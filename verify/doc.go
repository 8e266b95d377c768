// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package verify walks an untrusted FlatBuffers-encoded byte slice against
// a compiled schema.Compound descriptor and reports, once, whether every
// offset, vtable, and vector inside it resolves to an in-bounds, correctly
// aligned region — the read-side counterpart to package flatbuf's writer.
package verify
