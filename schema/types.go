// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package schema

// CompoundID is a stable index into a RootSchema's compound arena. Using an
// index instead of a pointer lets the struct-contains-struct graph hold
// cycles transiently (before the analyzer rejects them) without any unsafe
// aliasing, and makes the refmap-free equivalent of object identity trivial:
// two CompoundIDs are the same compound iff they compare equal.
type CompoundID int32

// InvalidCompoundID is returned by lookups that fail to resolve a name.
const InvalidCompoundID CompoundID = -1

// Kind distinguishes the five compound categories a .fbs file can declare.
type Kind uint8

// Compound kinds.
const (
	KindTable Kind = iota
	KindStruct
	KindEnum
	KindUnion
	KindRPCService
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindRPCService:
		return "rpc_service"
	default:
		return "unknown"
	}
}

// ScalarType is one of the FlatBuffers primitive scalar types.
type ScalarType uint8

// Scalar types, sized from 1 to 8 bytes.
const (
	ScalarBool ScalarType = iota
	ScalarByte
	ScalarUByte
	ScalarShort
	ScalarUShort
	ScalarInt
	ScalarUInt
	ScalarLong
	ScalarULong
	ScalarFloat
	ScalarDouble
)

// Size returns the natural size in bytes of the scalar type.
func (s ScalarType) Size() uint32 {
	switch s {
	case ScalarBool, ScalarByte, ScalarUByte:
		return 1
	case ScalarShort, ScalarUShort:
		return 2
	case ScalarInt, ScalarUInt, ScalarFloat:
		return 4
	case ScalarLong, ScalarULong, ScalarDouble:
		return 8
	default:
		return 0
	}
}

// TypeTag discriminates the TypeDescriptor tagged union.
type TypeTag uint8

// Type tags.
const (
	TypeScalar TypeTag = iota
	TypeVector
	TypeString
	TypeVectorOfString
	TypeCompoundRef
	TypeVectorOfCompound
	TypeFixedArray
)

// TypeDescriptor is a tagged variant over the seven shapes a field or value
// can take. Only the fields relevant to Tag are meaningful; this is how a
// tagged union looks in a language without sum types.
type TypeDescriptor struct {
	Tag TypeTag

	Scalar ScalarType // valid when Tag == TypeScalar or TypeVector's element is scalar

	Element *TypeDescriptor // valid when Tag == TypeVector or TypeFixedArray
	Length  uint16          // valid when Tag == TypeFixedArray

	Compound CompoundID // valid when Tag == TypeCompoundRef or TypeVectorOfCompound

	// PendingRef is the unresolved dotted symbol name an AST adapter
	// fills in when it cannot yet resolve a compound-typed reference
	// (forward references within or across files). The analyzer resolves
	// it against the declaring scope's scope chain and clears it, setting
	// Compound, the first time the type is visited by a layout phase.
	PendingRef string
}

// Size returns the natural size in bytes for scalar and fixed-array types
// whose element size is statically known without consulting the schema
// (struct/compound sizes are resolved separately by the caller).
func (t *TypeDescriptor) Size(structSize func(CompoundID) uint32) uint32 {
	switch t.Tag {
	case TypeScalar:
		return t.Scalar.Size()
	case TypeFixedArray:
		return t.Element.Size(structSize) * uint32(t.Length)
	case TypeCompoundRef:
		if structSize != nil {
			return structSize(t.Compound)
		}
		return 0
	default:
		return 4 // uoffset
	}
}

// Scope is a namespace identifier: an ordered, possibly empty list of name
// components plus the symbol table for names declared directly in it.
type Scope struct {
	Namespace []string
	symbols   map[string]CompoundID
}

func newScope(namespace []string) *Scope {
	return &Scope{Namespace: namespace, symbols: make(map[string]CompoundID)}
}

// Qualify joins the scope's namespace components with '.' and appends name,
// producing a fully-qualified name the way flatcc joins namespace.symbol.
func (s *Scope) Qualify(name string) string {
	fq := name
	for i := len(s.Namespace) - 1; i >= 0; i-- {
		fq = s.Namespace[i] + "." + fq
	}
	return fq
}

// Member is a field in a table/struct, a value in an enum/union, or a
// method in an rpc service.
type Member struct {
	Name     string
	Type     TypeDescriptor
	Default  *Value // nil when absent
	Optional bool   // `= null` on a scalar field
	Metadata Metadata

	ID CompoundFieldID // table field id; meaningless for struct/enum/union members

	// Struct-field layout, populated by phase 4.
	Offset uint32
	Size   uint32
	Align  uint32

	// Enum/union value.
	IntValue  int64
	Duplicate bool // fb_duplicate: true if this integer value repeats a prior one
}

// CompoundFieldID is a table field id.
type CompoundFieldID int32

// Value is a scalar default value, tagged by the scalar type it was parsed
// against (enum defaults carry the enum's underlying scalar type).
type Value struct {
	Scalar ScalarType
	I      int64
	F      float64
}

// Metadata is the parsed attribute list attached to a compound or member.
// Keys are attribute names; Args holds the (at most one) argument text an
// attribute carries, e.g. `id: 3` -> Args["id"] == "3".
type Metadata struct {
	set  map[string]struct{}
	args map[string]string
}

// Has reports whether the attribute name is present.
func (m Metadata) Has(name string) bool {
	if m.set == nil {
		return false
	}
	_, ok := m.set[name]
	return ok
}

// Arg returns the attribute's argument text and whether it was present.
func (m Metadata) Arg(name string) (string, bool) {
	if m.args == nil {
		return "", false
	}
	v, ok := m.args[name]
	return v, ok
}

// Set records name (with an optional argument) as present. Used by the AST
// adapter that builds Metadata from parsed attribute lists.
func (m *Metadata) Set(name, arg string) {
	if m.set == nil {
		m.set = make(map[string]struct{})
	}
	m.set[name] = struct{}{}
	if arg != "" {
		if m.args == nil {
			m.args = make(map[string]string)
		}
		m.args[name] = arg
	}
}

// Compound is one compiled table/struct/enum/union/rpc_service.
type Compound struct {
	ID       CompoundID
	Kind     Kind
	Name     string // unqualified
	Scope    *Scope
	Members  []*Member
	Metadata Metadata
	File     string // originating schema file, for diagnostics

	TypeHash uint32 // FNV-1a-32 of the fully qualified name

	// Struct-only layout, populated by phase 4.
	Size  uint32
	Align uint32

	// Enum/union-only.
	Underlying ScalarType
	BitFlags   bool

	// Table/struct-only: index into Members of the primary key field, or -1.
	PrimaryKey int

	// RPC-service-only.
	Methods []RPCMethod

	Invalid bool // set when any phase rejects this compound
}

// FQName returns the compound's fully qualified dotted name.
func (c *Compound) FQName() string {
	return c.Scope.Qualify(c.Name)
}

// RPCMethod is one method of an rpc_service compound.
type RPCMethod struct {
	Name     string
	Request  CompoundID
	Response CompoundID
	Metadata Metadata
}
