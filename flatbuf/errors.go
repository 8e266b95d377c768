// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package flatbuf

import "errors"

// Builder errors.
var (
	ErrFrameMismatch   = errors.New("flatbuf: end() does not match the currently open frame")
	ErrNoOpenFrame     = errors.New("flatbuf: no frame is currently open")
	ErrNotInBuffer     = errors.New("flatbuf: operation requires an open buffer")
	ErrAlreadyFinished = errors.New("flatbuf: buffer already finished; call Reset before starting a new one")
	ErrSizeOverflow    = errors.New("flatbuf: object size exceeds uoffset range")
	ErrAllocFailure    = errors.New("flatbuf: allocation failure")
	ErrBadSliceRange   = errors.New("flatbuf: slice start must not exceed end")
	ErrUnknownSource   = errors.New("flatbuf: clone source reference is not from the bound source buffer")
)
