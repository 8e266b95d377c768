// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import "fmt"

// resolveEnum resolves a single enum compound: it
// resolves the underlying scalar type (default int), walks declared values
// in order auto-incrementing missing initializers, applies the bit_flags
// `1 << value` transform, and flags (but does not reject) duplicate integer
// values.
func (a *Analyzer) resolveEnum(c *Compound) {
	if c.Underlying == 0 && !hasExplicitUnderlying(c) {
		c.Underlying = ScalarInt
	}
	bitWidth := c.Underlying.Size() * 8
	c.BitFlags = c.Metadata.Has("bit_flags")

	seen := make(map[int64]bool, len(c.Members))
	var next int64
	for _, m := range c.Members {
		if m.Default == nil {
			m.IntValue = next
		} else {
			m.IntValue = m.Default.I
		}
		next = m.IntValue + 1

		if c.BitFlags {
			if m.IntValue < 0 || uint64(m.IntValue) >= uint64(bitWidth) {
				a.fail(c, PhaseResolveEnums, fmt.Errorf(
					"%w: enum %s value %q: bit position %d exceeds bit width %d",
					ErrInvalidDefault, c.FQName(), m.Name, m.IntValue, bitWidth))
				continue
			}
			m.IntValue = 1 << uint(m.IntValue)
		} else if !fitsScalar(m.IntValue, c.Underlying) {
			a.fail(c, PhaseResolveEnums, fmt.Errorf(
				"%w: enum %s value %q: %d does not fit in %v",
				ErrInvalidDefault, c.FQName(), m.Name, m.IntValue, c.Underlying))
			continue
		}

		if seen[m.IntValue] {
			m.Duplicate = true
		}
		seen[m.IntValue] = true
	}
}

// hasExplicitUnderlying reports whether the caller (AST adapter) already
// set c.Underlying to a non-zero scalar before the enum reached this phase.
// ScalarBool is the zero value of ScalarType, so a sentinel flag on the
// compound's metadata distinguishes "unset" from "explicitly bool".
func hasExplicitUnderlying(c *Compound) bool {
	return c.Metadata.Has("__underlying_set")
}

func fitsScalar(v int64, t ScalarType) bool {
	switch t {
	case ScalarByte:
		return v >= -128 && v <= 127
	case ScalarUByte, ScalarBool:
		return v >= 0 && v <= 255
	case ScalarShort:
		return v >= -32768 && v <= 32767
	case ScalarUShort:
		return v >= 0 && v <= 65535
	case ScalarInt:
		return v >= -2147483648 && v <= 2147483647
	case ScalarUInt:
		return v >= 0 && v <= 4294967295
	case ScalarLong, ScalarULong:
		return true // int64 always fits its own width or the unsigned 64-bit range modulo sign
	default:
		return false
	}
}
