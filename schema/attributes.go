// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

// AttributeArgKind describes what shape of argument a known attribute
// accepts.
type AttributeArgKind uint8

// Attribute argument kinds.
const (
	ArgNone AttributeArgKind = iota
	ArgUint
	ArgString
)

// knownAttributes is the recognized built-in attribute set. It is
// process-wide and read-only, alongside the known type maps.
var knownAttributes = map[string]AttributeArgKind{
	"id":                 ArgUint,
	"deprecated":         ArgNone,
	"original_order":     ArgNone,
	"force_align":        ArgUint,
	"bit_flags":          ArgNone,
	"nested_flatbuffer":  ArgString,
	"key":                ArgNone,
	"required":           ArgNone,
	"hash":               ArgString,
	"base64":             ArgNone,
	"base64url":          ArgNone,
	"primary_key":        ArgNone,
	"sorted":             ArgNone,
}

// IsKnownAttribute reports whether name is one of the built-in attributes.
func IsKnownAttribute(name string) bool {
	_, ok := knownAttributes[name]
	return ok
}

// AttributeArg returns the argument kind a known attribute expects.
func AttributeArg(name string) (AttributeArgKind, bool) {
	k, ok := knownAttributes[name]
	return k, ok
}
