// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

// CreateNestedBuffer builds a complete, independent, self-contained
// FlatBuffer and embeds it as a ubyte vector field of the buffer currently
// under construction. build runs
// against a fresh Builder created with default Options (its own default
// Emitter and logger, nothing shared with this one); its return value is
// the Ref CreateNestedBuffer passes as the nested buffer's root to
// EndBuffer. The returned Ref is the ubyte vector holding the nested
// buffer; it is aligned to 4 bytes like any other vector.
func (b *Builder) CreateNestedBuffer(fid string, build func(nb *Builder) (Ref, error)) (Ref, error) {
	nb := New(Options{Logger: nil})
	if err := nb.StartBuffer(fid, false); err != nil {
		return 0, err
	}
	root, err := build(nb)
	if err != nil {
		return 0, err
	}
	payload, err := nb.EndBuffer(root)
	if err != nil {
		return 0, err
	}
	return b.CreateByteVector(payload), nil
}
