// Package mapping translates retained native declarations into their Go
// renderings through a fixed type table. The mapping preserves binary layout
// exactly; any native type without a table entry is a fatal error reported
// with the declaration's name and source location, never a silent omission.
package mapping

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mxtools/mxgen/internal/schema"
)

// Mapped is the Go-side rendering of one retained declaration, ready for
// emission. Records are one-to-one with retained declarations.
type Mapped struct {
	Decl   *schema.Declaration
	GoName string

	// GoType is the mapped underlying type for aliases, the return type for
	// functions and the backing type for enums.
	GoType string

	// Value is the normalized Go constant expression for constants.
	Value string

	Layout  *StructLayout
	Members []MappedMember
	Params  []MappedParam
}

// MappedMember is one mapped enum member.
type MappedMember struct {
	GoName string
	Value  string
}

// MappedParam is one mapped function parameter.
type MappedParam struct {
	GoName string
	GoType string
}

// Handler is the principal implementation for declaration mapping. Type
// references are resolved against the full parsed declaration set, since a
// retained struct may legitimately reference a typedef that matched no
// filter rule itself.
type Handler struct {
	Options schema.EmitOptions

	aliases map[string]schema.CType
	structs map[string]*schema.Declaration
	enums   map[string]bool
}

// NewHandler returns a pointer to a new mapping [Handler], indexing the full
// declaration set for type reference resolution.
func NewHandler(options schema.EmitOptions, all []*schema.Declaration) *Handler {
	h := &Handler{
		Options: options,
		aliases: make(map[string]schema.CType),
		structs: make(map[string]*schema.Declaration),
		enums:   make(map[string]bool),
	}

	if h.Options.WordSize == 0 {
		h.Options.WordSize = 8
	}

	for _, decl := range all {
		switch decl.Kind {
		case schema.KindTypeAlias:
			h.aliases[decl.Name] = decl.Underlying
		case schema.KindStruct:
			h.structs[decl.Name] = decl
		case schema.KindEnum:
			h.enums[decl.Name] = true
		case schema.KindConstant, schema.KindFunction:
		}
	}

	return h
}

// MapDeclarations maps all retained declarations in order. The first
// declaration referencing an unmappable native type aborts the pass.
func (h *Handler) MapDeclarations(retained []*schema.Declaration) ([]*Mapped, error) {
	mapped := make([]*Mapped, 0, len(retained))

	for _, decl := range retained {
		m, err := h.mapDeclaration(decl)
		if err != nil {
			return nil, fmt.Errorf("(mapping) %w", err)
		}

		mapped = append(mapped, m)
	}

	return mapped, nil
}

func (h *Handler) mapDeclaration(decl *schema.Declaration) (*Mapped, error) {
	switch decl.Kind {
	case schema.KindTypeAlias:
		return h.mapAlias(decl)
	case schema.KindStruct:
		return h.mapStruct(decl)
	case schema.KindEnum:
		return h.mapEnum(decl)
	case schema.KindConstant:
		return h.mapConstant(decl)
	case schema.KindFunction:
		return h.mapFunction(decl)
	}

	return nil, fmt.Errorf("%w: %q (declaration %s at %s)", ErrUnknownKind, decl.Kind, decl.Name, decl.Location)
}

func (h *Handler) mapAlias(decl *schema.Declaration) (*Mapped, error) {
	goType, err := h.goType(decl.Underlying, decl)
	if err != nil {
		return nil, err
	}

	return &Mapped{
		Decl:   decl,
		GoName: goName(decl.Name),
		GoType: goType,
	}, nil
}

func (h *Handler) mapEnum(decl *schema.Declaration) (*Mapped, error) {
	m := &Mapped{
		Decl:   decl,
		GoName: goName(decl.Name),
		GoType: "int32",
	}

	for _, member := range decl.Members {
		value, err := h.normalizeValue(member.Value)
		if err != nil {
			return nil, fmt.Errorf("%w (member %s of %s at %s)", err, member.Name, decl.Name, decl.Location)
		}

		m.Members = append(m.Members, MappedMember{
			GoName: member.Name,
			Value:  value,
		})
	}

	return m, nil
}

func (h *Handler) mapConstant(decl *schema.Declaration) (*Mapped, error) {
	value, err := h.normalizeValue(decl.Value)
	if err != nil {
		return nil, fmt.Errorf("%w (declaration %s at %s)", err, decl.Name, decl.Location)
	}

	return &Mapped{
		Decl:   decl,
		GoName: decl.Name,
		Value:  value,
	}, nil
}

func (h *Handler) mapFunction(decl *schema.Declaration) (*Mapped, error) {
	if decl.Variadic {
		return nil, fmt.Errorf("%w (declaration %s at %s)", ErrVariadicFunction, decl.Name, decl.Location)
	}

	m := &Mapped{
		Decl:   decl,
		GoName: goName(decl.Name),
	}

	if decl.Underlying.Name != "void" || decl.Underlying.IsPointer {
		goType, err := h.goType(decl.Underlying, decl)
		if err != nil {
			return nil, err
		}
		m.GoType = goType
	}

	for i, param := range decl.Params {
		goType, err := h.goType(param.Type, decl)
		if err != nil {
			return nil, err
		}

		m.Params = append(m.Params, MappedParam{
			GoName: paramName(param.Name, i),
			GoType: goType,
		})
	}

	return m, nil
}

// goType maps one native type reference to its Go spelling. Aliased names
// map to their own emitted alias name, struct names to the emitted struct
// type, enum names to the enum's backing alias.
func (h *Handler) goType(ct schema.CType, decl *schema.Declaration) (string, error) {
	if ct.IsArray {
		element, err := h.goType(withoutArray(ct), decl)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("[%d]%s", ct.ArrayLen, element), nil
	}

	if ct.IsPointer {
		if ct.Name == "void" {
			return "unsafe.Pointer", nil
		}
		element, err := h.goType(withoutPointer(ct), decl)
		if err != nil {
			return "", err
		}

		return "*" + element, nil
	}

	if scalar, ok := h.scalarType(ct); ok {
		return scalar, nil
	}

	if _, ok := h.aliases[ct.Name]; ok {
		return goName(ct.Name), nil
	}
	if _, ok := h.structs[ct.Name]; ok {
		return goName(ct.Name), nil
	}
	if h.enums[ct.Name] {
		return goName(ct.Name), nil
	}

	return "", fmt.Errorf("%w: %q (declaration %s at %s)", ErrUnmappedType, ct.Name, decl.Name, decl.Location)
}

// scalarType is the fixed native-to-Go scalar table. Word-sized native types
// map to fixed-width types per the configured word size under the
// freestanding option, and to platform-width Go types otherwise.
func (h *Handler) scalarType(ct schema.CType) (string, bool) {
	switch ct.Name {
	case "int8_t":
		return "int8", true
	case "uint8_t":
		return "uint8", true
	case "int16_t":
		return "int16", true
	case "uint16_t":
		return "uint16", true
	case "int32_t":
		return "int32", true
	case "uint32_t":
		return "uint32", true
	case "int64_t":
		return "int64", true
	case "uint64_t":
		return "uint64", true
	case "bool", "_Bool":
		return "bool", true
	case "float":
		return "float32", true
	case "double":
		return "float64", true
	case "char":
		if ct.IsUnsigned {
			return "uint8", true
		}

		return "int8", true
	case "short":
		if ct.IsUnsigned {
			return "uint16", true
		}

		return "int16", true
	case "int":
		if ct.IsUnsigned {
			return "uint32", true
		}

		return "int32", true
	case "long", "intptr_t", "ssize_t", "ptrdiff_t":
		if ct.IsUnsigned {
			return h.wordType(false), true
		}

		return h.wordType(true), true
	case "size_t", "uintptr_t":
		return h.wordType(false), true
	}

	return "", false
}

func (h *Handler) wordType(signed bool) string {
	if h.Options.Freestanding {
		if h.Options.WordSize == 4 {
			if signed {
				return "int32"
			}

			return "uint32"
		}
		if signed {
			return "int64"
		}

		return "uint64"
	}

	if signed {
		return "int"
	}

	return "uint"
}

func withoutPointer(ct schema.CType) schema.CType {
	ct.IsPointer = false

	return ct
}

func withoutArray(ct schema.CType) schema.CType {
	ct.IsArray = false
	ct.ArrayLen = 0

	return ct
}

// goName converts a native snake_case identifier into an exported Go name,
// dropping the conventional _t suffix of native type names.
func goName(name string) string {
	name = strings.TrimSuffix(name, "_t")

	var result strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}

		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		result.WriteString(string(runes))
	}

	return result.String()
}

// paramName converts a native parameter name into a non-exported Go name.
// Unnamed parameters take their position, since repeating one placeholder
// name would redeclare it in the emitted function type.
func paramName(name string, index int) string {
	if name == "" {
		return fmt.Sprintf("arg%d", index)
	}

	goized := goName(name)
	runes := []rune(goized)
	runes[0] = unicode.ToLower(runes[0])

	switch result := string(runes); result {
	case "type", "func", "len", "cap", "map", "range":
		return result + "_"
	default:
		return result
	}
}
