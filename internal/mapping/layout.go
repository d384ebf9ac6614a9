package mapping

import (
	"fmt"

	"github.com/mxtools/mxgen/internal/schema"
)

// FieldLayout is the computed placement of one struct field.
type FieldLayout struct {
	GoName string
	GoType string
	Offset int
	Size   int
	Align  int
}

// StructLayout is the computed memory layout of one emitted struct. Offsets
// and total size follow the native compiler's natural alignment rules for
// the configured word size, which is the component's core correctness
// obligation: the emitted declarations are later linked against a binary
// compiled from the original headers.
type StructLayout struct {
	Size   int
	Align  int
	Fields []FieldLayout
}

func (h *Handler) mapStruct(decl *schema.Declaration) (*Mapped, error) {
	layout, err := h.structLayout(decl, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	return &Mapped{
		Decl:   decl,
		GoName: goName(decl.Name),
		Layout: layout,
	}, nil
}

func (h *Handler) structLayout(decl *schema.Declaration, inProgress map[string]bool) (*StructLayout, error) {
	if inProgress[decl.Name] {
		return nil, fmt.Errorf("%w: %s (at %s)", ErrRecursiveType, decl.Name, decl.Location)
	}
	inProgress[decl.Name] = true
	defer delete(inProgress, decl.Name)

	layout := &StructLayout{Align: 1}

	offset := 0
	for _, field := range decl.Fields {
		size, align, err := h.typeExtent(field.Type, decl, inProgress)
		if err != nil {
			return nil, err
		}

		goType, err := h.goType(field.Type, decl)
		if err != nil {
			return nil, err
		}

		offset = roundUp(offset, align)

		layout.Fields = append(layout.Fields, FieldLayout{
			GoName: goName(field.Name),
			GoType: goType,
			Offset: offset,
			Size:   size,
			Align:  align,
		})

		offset += size
		if align > layout.Align {
			layout.Align = align
		}
	}

	layout.Size = roundUp(offset, layout.Align)

	return layout, nil
}

// typeExtent computes the size and alignment of one native type reference,
// resolving alias chains and nested aggregates against the full declaration
// set.
func (h *Handler) typeExtent(ct schema.CType, decl *schema.Declaration, inProgress map[string]bool) (size, align int, err error) {
	if ct.IsArray {
		elemSize, elemAlign, err := h.typeExtent(withoutArray(ct), decl, inProgress)
		if err != nil {
			return 0, 0, err
		}

		return elemSize * ct.ArrayLen, elemAlign, nil
	}

	if ct.IsPointer {
		return h.Options.WordSize, h.Options.WordSize, nil
	}

	if size, ok := h.scalarSize(ct.Name); ok {
		return size, size, nil
	}

	if underlying, ok := h.aliases[ct.Name]; ok {
		return h.typeExtent(underlying, decl, inProgress)
	}

	if nested, ok := h.structs[ct.Name]; ok {
		layout, err := h.structLayout(nested, inProgress)
		if err != nil {
			return 0, 0, err
		}

		return layout.Size, layout.Align, nil
	}

	if h.enums[ct.Name] {
		return 4, 4, nil
	}

	return 0, 0, fmt.Errorf("%w: %q (declaration %s at %s)", ErrUnmappedType, ct.Name, decl.Name, decl.Location)
}

// scalarSize is the byte width of one native scalar; alignment equals size
// for all scalars under natural alignment.
func (h *Handler) scalarSize(name string) (int, bool) {
	switch name {
	case "int8_t", "uint8_t", "char", "bool", "_Bool":
		return 1, true
	case "int16_t", "uint16_t", "short":
		return 2, true
	case "int32_t", "uint32_t", "int", "float":
		return 4, true
	case "int64_t", "uint64_t", "double":
		return 8, true
	case "long", "size_t", "ssize_t", "intptr_t", "uintptr_t", "ptrdiff_t":
		return h.Options.WordSize, true
	}

	return 0, false
}

func roundUp(value, multiple int) int {
	if multiple <= 1 {
		return value
	}

	remainder := value % multiple
	if remainder == 0 {
		return value
	}

	return value + multiple - remainder
}
