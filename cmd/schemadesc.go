// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flatcc-go/flatcc/schema"
)

// schemaDoc is the on-disk shape this CLI accepts in place of a `.fbs` file.
// The lexer and recursive-descent AST parser that would normally produce
// this are an external collaborator kept out of scope here; this document
// is the pre-parsed AST that collaborator would hand the analyzer,
// serialized as JSON instead of FlatBuffers' own `.bfbs` reflection schema
// so this tool has no bootstrap dependency on a reflection-schema decoder
// to read its own input.
type schemaDoc struct {
	FileIdentifier string          `json:"file_identifier"`
	FileExtension  string          `json:"file_extension"`
	RootType       string          `json:"root_type"`
	Compounds      []compoundDoc   `json:"compounds"`
	Attributes     []string        `json:"attributes"` // user-declared via attribute "name";
}

type compoundDoc struct {
	Kind     string       `json:"kind"` // table | struct | enum | union | rpc_service
	Name     string       `json:"name"`
	Metadata []metaDoc    `json:"metadata,omitempty"`
	Fields   []fieldDoc   `json:"fields,omitempty"`   // table/struct members
	Values   []valueDoc   `json:"values,omitempty"`   // enum/union members
	Methods  []methodDoc  `json:"methods,omitempty"`  // rpc_service members
}

type metaDoc struct {
	Name string `json:"name"`
	Arg  string `json:"arg,omitempty"`
}

type fieldDoc struct {
	Name     string       `json:"name"`
	Type     typeDoc      `json:"type"`
	Default  *valueLitDoc `json:"default,omitempty"`
	Optional bool         `json:"optional,omitempty"`
	Metadata []metaDoc    `json:"metadata,omitempty"`
}

type valueLitDoc struct {
	I int64   `json:"i,omitempty"`
	F float64 `json:"f,omitempty"`
}

type valueDoc struct {
	Name  string `json:"name"`
	Value *int64 `json:"value,omitempty"` // nil means auto-increment
}

type methodDoc struct {
	Name     string `json:"name"`
	Request  string `json:"request"`
	Response string `json:"response"`
}

// typeDoc mirrors schema.TypeDescriptor's tagged union in a JSON-friendly
// shape: Tag selects which of the remaining fields are meaningful.
type typeDoc struct {
	Tag      string   `json:"tag"` // scalar|vector|string|vector_of_string|ref|vector_of_ref|fixed_array
	Scalar   string   `json:"scalar,omitempty"`
	Element  *typeDoc `json:"element,omitempty"`
	Length   uint16   `json:"length,omitempty"`
	RefName  string   `json:"ref,omitempty"`
}

var scalarNames = map[string]schema.ScalarType{
	"bool": schema.ScalarBool, "byte": schema.ScalarByte, "ubyte": schema.ScalarUByte,
	"short": schema.ScalarShort, "ushort": schema.ScalarUShort,
	"int": schema.ScalarInt, "uint": schema.ScalarUInt,
	"long": schema.ScalarLong, "ulong": schema.ScalarULong,
	"float": schema.ScalarFloat, "double": schema.ScalarDouble,
}

var kindNames = map[string]schema.Kind{
	"table": schema.KindTable, "struct": schema.KindStruct,
	"enum": schema.KindEnum, "union": schema.KindUnion,
	"rpc_service": schema.KindRPCService,
}

// loadSchemaDoc reads and decodes a schemaDoc from path.
func loadSchemaDoc(path string) (*schemaDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc schemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemadesc: %s: %w", path, err)
	}
	return &doc, nil
}

// buildRootSchema adapts doc into a *schema.RootSchema ready for
// schema.Analyze, playing the role an AST-to-analyzer adapter would:
// filling CompoundID/TypeDescriptor.PendingRef fields for the analyzer's
// resolve phases to settle.
func buildRootSchema(doc *schemaDoc, file string) (*schema.RootSchema, error) {
	root := schema.NewRootSchema()
	for _, name := range doc.Attributes {
		root.DeclareAttribute(name)
	}
	root.FileIdentifier = doc.FileIdentifier
	root.FileExtension = doc.FileExtension

	global := root.Scope(nil)
	byName := make(map[string]*compoundDoc, len(doc.Compounds))
	created := make(map[string]*schema.Compound, len(doc.Compounds))

	for i := range doc.Compounds {
		cd := &doc.Compounds[i]
		kind, ok := kindNames[cd.Kind]
		if !ok {
			return nil, fmt.Errorf("schemadesc: %s: unknown compound kind %q", cd.Name, cd.Kind)
		}
		c, err := root.NewCompound(global, kind, cd.Name, file)
		if err != nil {
			return nil, fmt.Errorf("schemadesc: %w: %s", err, cd.Name)
		}
		byName[cd.Name] = cd
		created[cd.Name] = c
	}

	for name, c := range created {
		cd := byName[name]
		for _, md := range cd.Metadata {
			c.Metadata.Set(md.Name, md.Arg)
		}
		switch c.Kind {
		case schema.KindTable, schema.KindStruct:
			for _, fd := range cd.Fields {
				m := &schema.Member{Name: fd.Name, Optional: fd.Optional}
				for _, md := range fd.Metadata {
					m.Metadata.Set(md.Name, md.Arg)
				}
				t, err := buildType(fd.Type)
				if err != nil {
					return nil, fmt.Errorf("schemadesc: %s.%s: %w", name, fd.Name, err)
				}
				m.Type = t
				if fd.Default != nil {
					m.Default = &schema.Value{I: fd.Default.I, F: fd.Default.F}
				}
				c.Members = append(c.Members, m)
			}
		case schema.KindEnum, schema.KindUnion:
			next := int64(0)
			for _, vd := range cd.Values {
				v := next
				if vd.Value != nil {
					v = *vd.Value
				}
				c.Members = append(c.Members, &schema.Member{Name: vd.Name, IntValue: v})
				next = v + 1
			}
		case schema.KindRPCService:
			for _, md := range cd.Methods {
				reqID, _ := root.Resolve(global, md.Request)
				respID, _ := root.Resolve(global, md.Response)
				c.Methods = append(c.Methods, schema.RPCMethod{
					Name: md.Name, Request: reqID, Response: respID,
				})
			}
		}
	}

	if doc.RootType != "" {
		id, ok := root.Resolve(global, doc.RootType)
		if !ok {
			return nil, fmt.Errorf("schemadesc: root_type %q not found", doc.RootType)
		}
		root.RootType = id
	}
	return root, nil
}

func buildType(td typeDoc) (schema.TypeDescriptor, error) {
	switch td.Tag {
	case "scalar":
		st, ok := scalarNames[td.Scalar]
		if !ok {
			return schema.TypeDescriptor{}, fmt.Errorf("unknown scalar %q", td.Scalar)
		}
		return schema.TypeDescriptor{Tag: schema.TypeScalar, Scalar: st}, nil
	case "string":
		return schema.TypeDescriptor{Tag: schema.TypeString}, nil
	case "vector_of_string":
		return schema.TypeDescriptor{Tag: schema.TypeVectorOfString}, nil
	case "ref":
		return schema.TypeDescriptor{Tag: schema.TypeCompoundRef, PendingRef: td.RefName}, nil
	case "vector_of_ref":
		return schema.TypeDescriptor{Tag: schema.TypeVectorOfCompound, PendingRef: td.RefName}, nil
	case "vector":
		if td.Element == nil {
			return schema.TypeDescriptor{}, fmt.Errorf("vector type missing element")
		}
		elem, err := buildType(*td.Element)
		if err != nil {
			return schema.TypeDescriptor{}, err
		}
		return schema.TypeDescriptor{Tag: schema.TypeVector, Element: &elem}, nil
	case "fixed_array":
		if td.Element == nil {
			return schema.TypeDescriptor{}, fmt.Errorf("fixed_array type missing element")
		}
		elem, err := buildType(*td.Element)
		if err != nil {
			return schema.TypeDescriptor{}, err
		}
		return schema.TypeDescriptor{Tag: schema.TypeFixedArray, Element: &elem, Length: td.Length}, nil
	default:
		return schema.TypeDescriptor{}, fmt.Errorf("unknown type tag %q", td.Tag)
	}
}
