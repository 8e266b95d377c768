// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

// fnv1a32Init and fnv1a32Prime are the standard FNV-1a 32-bit constants.
const (
	fnv1a32Init  uint32 = 0x811c9dc5
	fnv1a32Prime uint32 = 0x01000193
)

// FNV1a32 computes the FNV-1a 32-bit hash of name, the type hash used as an
// alternative file identifier (GLOSSARY: "Type hash"). A hash that would
// come out to 0 is remapped to the FNV-1a initial value instead, so that 0
// is always free to mean "no type hash computed yet".
func FNV1a32(name string) uint32 {
	h := fnv1a32Init
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= fnv1a32Prime
	}
	if h == 0 {
		return fnv1a32Init
	}
	return h
}

// TypeHashIdentifier renders a type hash as a 4-byte, low-byte-first
// identifier string, the form used for typed-root verification: hash
// 0x330ef481 becomes the 4 identifier bytes 0x81,0xf4,0x0e,0x33.
func TypeHashIdentifier(hash uint32) string {
	return string([]byte{
		byte(hash),
		byte(hash >> 8),
		byte(hash >> 16),
		byte(hash >> 24),
	})
}
