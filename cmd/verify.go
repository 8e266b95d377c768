// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flatcc-go/flatcc/schema"
	"github.com/flatcc-go/flatcc/verify"
)

func newVerifyCmd() *cobra.Command {
	var (
		schemaPath string
		rootType   string
	)
	cmd := &cobra.Command{
		Use:   "verify <buffer.bin>",
		Short: "Verify an untrusted FlatBuffer against a schema without deserializing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0], schemaPath, rootType)
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema description driving verification (required)")
	cmd.Flags().StringVar(&rootType, "root", "", "root compound name; defaults to the schema's declared root_type")
	cmd.MarkFlagRequired("schema")
	return cmd
}

func runVerify(bufPath, schemaPath, rootType string) error {
	doc, err := loadSchemaDoc(schemaPath)
	if err != nil {
		return err
	}
	root, err := buildRootSchema(doc, schemaPath)
	if err != nil {
		return err
	}
	if err := schema.Analyze(root, schema.Options{}); err != nil {
		return fmt.Errorf("schema invalid: %w", err)
	}

	rootID := root.RootType
	if rootType != "" {
		id, ok := root.Resolve(root.Scope(nil), rootType)
		if !ok {
			return fmt.Errorf("verify: root type %q not found", rootType)
		}
		rootID = id
	}

	buf, err := os.ReadFile(bufPath)
	if err != nil {
		return err
	}
	if err := verify.AsTypedRoot(buf, root, rootID); err != nil {
		return fmt.Errorf("verify: %s: %w", bufPath, err)
	}
	fmt.Printf("%s: ok (%d bytes)\n", bufPath, len(buf))
	return nil
}
