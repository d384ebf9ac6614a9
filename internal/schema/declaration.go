package schema

import "fmt"

// DeclKind is the syntactic category of a native header declaration.
type DeclKind string

const (
	// KindTypeAlias is a typedef of a scalar or pointer type.
	KindTypeAlias DeclKind = "type-alias"

	// KindStruct is an aggregate type with named fields.
	KindStruct DeclKind = "struct"

	// KindEnum is an integer-backed enumeration type.
	KindEnum DeclKind = "enum"

	// KindConstant is a global constant (object-like macro).
	KindConstant DeclKind = "constant"

	// KindFunction is an exported function signature.
	KindFunction DeclKind = "function"
)

// Location points at the source position a declaration was parsed from.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// CType is the parsed form of a native type reference.
type CType struct {
	Name       string
	IsPointer  bool
	IsConst    bool
	IsUnsigned bool
	IsArray    bool
	ArrayLen   int
}

// StructField is one member of a [KindStruct] declaration.
type StructField struct {
	Name string
	Type CType
}

// EnumMember is one named value of a [KindEnum] declaration. Value holds the
// literal expression as written in the header, empty for implicit values.
type EnumMember struct {
	Name  string
	Value string
}

// Param is one parameter of a [KindFunction] declaration.
type Param struct {
	Name string
	Type CType
}

// Declaration is one parsed native header entry. It is created during the
// parse pass, immutable thereafter and discarded after emission.
type Declaration struct {
	Kind     DeclKind
	Name     string
	Location Location

	// Underlying is the aliased type for [KindTypeAlias], the value type for
	// [KindConstant] and the return type for [KindFunction].
	Underlying CType

	// Value is the literal expression of a [KindConstant].
	Value string

	Fields   []StructField
	Members  []EnumMember
	Params   []Param
	Variadic bool
}

// Key identifies a declaration for de-duplication purposes. Two declarations
// reached via different include paths share one key.
type Key struct {
	Name string
	Kind DeclKind
}

// DedupKey returns the de-duplication [Key] of the declaration.
func (d *Declaration) DedupKey() Key {
	return Key{Name: d.Name, Kind: d.Kind}
}
