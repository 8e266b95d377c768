// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package verify

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated       = errors.New("verify: buffer too small for the header it claims to hold")
	ErrOutOfBounds     = errors.New("verify: computed address falls outside the buffer")
	ErrMisaligned      = errors.New("verify: address is not aligned to its type's requirement")
	ErrSizeOverflow    = errors.New("verify: size computation overflowed uint32")
	ErrIdentifierMiss  = errors.New("verify: buffer identifier does not match the expected root type")
	ErrUnknownUnion    = errors.New("verify: union tag has no corresponding schema member")
	ErrVTableTooSmall  = errors.New("verify: vtable header claims fewer bytes than its own fixed fields")
	ErrNestedFlatbuf   = errors.New("verify: nested buffer failed its own verification")
	ErrRequiredMissing = errors.New("verify: required field is absent")
)

// Violation pinpoints one failed check, carrying enough context for a
// caller to render a useful diagnostic without re-deriving the walk.
type Violation struct {
	Path string // dotted field path, e.g. "Monster.enemy.name"
	Err  error
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %v", v.Path, v.Err)
}

func (v *Violation) Unwrap() error { return v.Err }
