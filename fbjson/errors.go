// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import (
	"errors"
	"fmt"
)

var (
	ErrUnterminatedString = errors.New("fbjson: unterminated string literal")
	ErrUnexpectedToken    = errors.New("fbjson: unexpected token")
	ErrUnknownField       = errors.New("fbjson: key does not name a field on this table")
	ErrBadEnumToken       = errors.New("fbjson: identifier does not name a declared enum value")
	ErrBadNumber          = errors.New("fbjson: malformed numeric literal")
	ErrValueOutOfRange    = errors.New("fbjson: value does not fit the field's declared type")
	ErrUnknownUnionType   = errors.New("fbjson: union type tag does not resolve to a declared member")
)

// PositionedError pins a parse failure to the line/column the lexer had
// reached when it failed, so callers can render "line 4, column 12: ..."
// diagnostics without threading position through every call site.
type PositionedError struct {
	Line, Column int
	Err          error
}

func (e *PositionedError) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *PositionedError) Unwrap() error { return e.Err }
