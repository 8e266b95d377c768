// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// CheckVersionCompatible validates an optional `root_schema_version`
// metadata string (e.g. carried in a .bfbs reflection schema) against the
// minimum version this analyzer supports, using strict semver ordering.
// Entirely optional: schemas that omit the metadata are always accepted.
func CheckVersionCompatible(root *RootSchema, minVersion string) error {
	declared, ok := root.userAttrVersion()
	if !ok {
		return nil
	}
	if !semver.IsValid(declared) {
		return fmt.Errorf("schema: root_schema_version %q is not valid semver", declared)
	}
	if !semver.IsValid(minVersion) {
		return fmt.Errorf("schema: internal error: minVersion %q is not valid semver", minVersion)
	}
	if semver.Compare(declared, minVersion) < 0 {
		return fmt.Errorf("schema: root_schema_version %s predates minimum supported version %s", declared, minVersion)
	}
	return nil
}

// userAttrVersion retrieves the declared root_schema_version, if any, from
// the file-identifier-adjacent metadata attribute a .bfbs reflection schema
// carries on its root table.
func (r *RootSchema) userAttrVersion() (string, bool) {
	if r.RootType == InvalidCompoundID {
		return "", false
	}
	return r.Compound(r.RootType).Metadata.Arg("root_schema_version")
}
