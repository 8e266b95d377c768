// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import (
	"strings"

	"github.com/flatcc-go/flatcc/schema"
)

// enumNameIndex builds the name->value table a single enum constant or
// flag token list is resolved against.
func enumNameIndex(enum *schema.Compound) map[string]int64 {
	idx := make(map[string]int64, len(enum.Members))
	for _, m := range enum.Members {
		idx[m.Name] = m.IntValue
	}
	return idx
}

// parseEnumScalar resolves a single bare identifier against enum's values.
func parseEnumScalar(enum *schema.Compound, name string) (int64, bool) {
	idx := enumNameIndex(enum)
	v, ok := idx[name]
	return v, ok
}

// parseFlagString resolves a space-separated list of flag names (spec's
// `"Green Blue Red Blue"` -> Red|Green|Blue) by OR-ing each token's value;
// duplicate tokens are harmless since OR is idempotent. strictEnumInit
// rejects any token that doesn't resolve to a declared value.
func parseFlagString(enum *schema.Compound, text string, strictEnumInit bool) (int64, error) {
	idx := enumNameIndex(enum)
	var acc int64
	for _, tok := range strings.Fields(text) {
		v, ok := idx[tok]
		if !ok {
			if strictEnumInit {
				return 0, ErrBadEnumToken
			}
			continue
		}
		acc |= v
	}
	return acc, nil
}

// printEnumValue renders value symbolically against enum's declared
// constants. For bit-flag enums it decomposes value into the set of
// declared flags whose bits are all present, space-joined; for ordinary
// enums it looks up the single matching constant, falling back to the
// bare integer when nothing matches (an unnamed or synthesized value).
func printEnumValue(enum *schema.Compound, value int64) string {
	if !enum.BitFlags {
		for _, m := range enum.Members {
			if m.IntValue == value {
				return m.Name
			}
		}
		return itoa64(value)
	}
	var names []string
	remaining := value
	for _, m := range enum.Members {
		if m.IntValue == 0 {
			continue
		}
		if remaining&m.IntValue == m.IntValue {
			names = append(names, m.Name)
			remaining &^= m.IntValue
		}
	}
	if len(names) == 0 {
		return itoa64(value)
	}
	return strings.Join(names, " ")
}

func itoa64(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
