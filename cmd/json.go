// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flatcc-go/flatcc/fbjson"
	"github.com/flatcc-go/flatcc/flatbuf"
	"github.com/flatcc-go/flatcc/schema"
	"github.com/flatcc-go/flatcc/verify"
)

func newJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Bridge JSON text and the FlatBuffers wire format",
	}
	cmd.AddCommand(newJSONToBinCmd())
	cmd.AddCommand(newBinToJSONCmd())
	return cmd
}

func loadAndAnalyze(schemaPath, rootType string) (*schema.RootSchema, schema.CompoundID, error) {
	doc, err := loadSchemaDoc(schemaPath)
	if err != nil {
		return nil, schema.InvalidCompoundID, err
	}
	root, err := buildRootSchema(doc, schemaPath)
	if err != nil {
		return nil, schema.InvalidCompoundID, err
	}
	if err := schema.Analyze(root, schema.Options{}); err != nil {
		return nil, schema.InvalidCompoundID, fmt.Errorf("schema invalid: %w", err)
	}
	rootID := root.RootType
	if rootType != "" {
		id, ok := root.Resolve(root.Scope(nil), rootType)
		if !ok {
			return nil, schema.InvalidCompoundID, fmt.Errorf("json: root type %q not found", rootType)
		}
		rootID = id
	}
	return root, rootID, nil
}

func newJSONToBinCmd() *cobra.Command {
	var (
		schemaPath string
		rootType   string
		identifier string
	)
	cmd := &cobra.Command{
		Use:   "to-bin <input.json>",
		Short: "Parse JSON text and write a FlatBuffer to --output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, rootID, err := loadAndAnalyze(schemaPath, rootType)
			if err != nil {
				return err
			}
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			b := flatbuf.New(flatbuf.Options{})
			p := fbjson.NewParser(fbjson.NewTextLexer(text), root, b, fbjson.Options{})
			buf, err := p.ParseAsRoot(identifier, rootID)
			if err != nil {
				return fmt.Errorf("json: %s: %w", args[0], err)
			}
			if err := os.WriteFile(outputPath, buf, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %d bytes to %s\n", len(buf), outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema description to parse against (required)")
	cmd.Flags().StringVar(&rootType, "root", "", "root compound name; defaults to the schema's declared root_type")
	cmd.Flags().StringVar(&identifier, "identifier", "", "4-byte file identifier to stamp into the buffer")
	cmd.MarkFlagRequired("schema")
	return cmd
}

func newBinToJSONCmd() *cobra.Command {
	var (
		schemaPath string
		rootType   string
		pretty     bool
		skipDef    bool
	)
	cmd := &cobra.Command{
		Use:   "to-json <input.bin>",
		Short: "Verify then print a FlatBuffer as JSON text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, rootID, err := loadAndAnalyze(schemaPath, rootType)
			if err != nil {
				return err
			}
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := verify.AsTypedRoot(buf, root, rootID); err != nil {
				return fmt.Errorf("json: refusing to print an unverified buffer: %w", err)
			}
			opts := fbjson.PrintOptions{SymbolicEnums: true, SkipDefaults: skipDef}
			if pretty {
				opts.Indent = "  "
			}
			printer := fbjson.NewPrinter(root, opts)
			if err := printer.PrintAsRoot(os.Stdout, buf, rootID); err != nil {
				return fmt.Errorf("json: %s: %w", args[0], err)
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema description to print against (required)")
	cmd.Flags().StringVar(&rootType, "root", "", "root compound name; defaults to the schema's declared root_type")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
	cmd.Flags().BoolVar(&skipDef, "skip-default", false, "omit fields whose value equals their declared default")
	cmd.MarkFlagRequired("schema")
	return cmd
}
