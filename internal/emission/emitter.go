// Package emission renders mapped declarations into one Go source file. One
// emission record is produced per retained declaration, in the order the
// declarations were encountered in the source headers, so repeated runs over
// unchanged headers produce byte-identical output.
package emission

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/mxtools/mxgen/internal/mapping"
	"github.com/mxtools/mxgen/internal/schema"
)

const prologueTmpl = `// Code generated by mxgen. DO NOT EDIT.
//
// FFI surface extracted from native system headers; the declared types
// preserve the binary layout of their native counterparts.
{{if .SourceDigest}}//
// Source digest: {{.SourceDigest}}
{{end}}
package {{.Package}}
{{if or .NeedsUnsafe .NeedsPurego}}
import ({{if .NeedsPurego}}
	"fmt"
{{end}}{{if .NeedsUnsafe}}	"unsafe"
{{end}}{{if .NeedsPurego}}
	"github.com/ebitengine/purego"
{{end}})
{{end}}
`

// Handler is the principal implementation for source emission.
type Handler struct {
	Options schema.EmitOptions
}

// NewHandler returns a pointer to a new emission [Handler].
func NewHandler(options schema.EmitOptions) *Handler {
	return &Handler{
		Options: options,
	}
}

// Render emits all mapped declarations in order and returns the unformatted
// source text alongside the emission records it is composed of. The source
// digest, when non-empty, lands in the generated header comment.
func (h *Handler) Render(mapped []*mapping.Mapped, sourceDigest string) (string, []schema.Emission, error) {
	var buf bytes.Buffer

	if err := h.renderPrologue(&buf, mapped, sourceDigest); err != nil {
		return "", nil, fmt.Errorf("(emission) %w", err)
	}

	records := make([]schema.Emission, 0, len(mapped))

	for _, m := range mapped {
		text, err := h.renderRecord(m)
		if err != nil {
			return "", nil, fmt.Errorf("(emission) %w", err)
		}

		records = append(records, schema.Emission{Decl: m.Decl, Text: text})
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	if h.hasFunctions(mapped) {
		h.renderLoader(&buf, mapped)
	}

	return buf.String(), records, nil
}

func (h *Handler) renderPrologue(buf *bytes.Buffer, mapped []*mapping.Mapped, sourceDigest string) error {
	t, err := template.New("prologue").Parse(prologueTmpl)
	if err != nil {
		return err
	}

	return t.Execute(buf, map[string]any{
		"Package":      h.Options.PackageName,
		"SourceDigest": sourceDigest,
		"NeedsUnsafe":  h.needsUnsafe(mapped),
		"NeedsPurego":  h.hasFunctions(mapped),
	})
}

func (h *Handler) renderRecord(m *mapping.Mapped) (string, error) {
	switch m.Decl.Kind {
	case schema.KindTypeAlias:
		return h.renderAlias(m), nil
	case schema.KindStruct:
		return h.renderStruct(m), nil
	case schema.KindEnum:
		return h.renderEnum(m), nil
	case schema.KindConstant:
		return h.renderConstant(m), nil
	case schema.KindFunction:
		return h.renderFunction(m), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, m.Decl.Kind)
}

func (h *Handler) renderAlias(m *mapping.Mapped) string {
	return fmt.Sprintf("type %s %s\n", m.GoName, m.GoType)
}

func (h *Handler) renderConstant(m *mapping.Mapped) string {
	return fmt.Sprintf("const %s = %s\n", m.GoName, m.Value)
}

func (h *Handler) renderEnum(m *mapping.Mapped) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "type %s %s\n\n", m.GoName, m.GoType)
	fmt.Fprintf(&buf, "const (\n")

	for i, member := range m.Members {
		switch {
		case member.Value != "":
			fmt.Fprintf(&buf, "\t%s %s = %s\n", member.GoName, m.GoName, member.Value)
		case i == 0:
			fmt.Fprintf(&buf, "\t%s %s = 0\n", member.GoName, m.GoName)
		default:
			fmt.Fprintf(&buf, "\t%s %s = %s + 1\n", member.GoName, m.GoName, m.Members[i-1].GoName)
		}
	}

	fmt.Fprintf(&buf, ")\n")

	return buf.String()
}

func (h *Handler) renderStruct(m *mapping.Mapped) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "type %s struct {\n", m.GoName)
	for _, field := range m.Layout.Fields {
		fmt.Fprintf(&buf, "\t%s %s\n", field.GoName, field.GoType)
	}
	fmt.Fprintf(&buf, "}\n")

	if h.Options.OffsetAsserts {
		buf.WriteString("\n")
		for _, field := range m.Layout.Fields {
			fmt.Fprintf(&buf, "const _ = -(unsafe.Offsetof(%s{}.%s) - %d)\n", m.GoName, field.GoName, field.Offset)
		}
		fmt.Fprintf(&buf, "const _ = -(unsafe.Sizeof(%s{}) - %d)\n", m.GoName, m.Layout.Size)
	}

	if h.Options.DeriveDefaults {
		fmt.Fprintf(&buf, "\n// New%s returns a zero-initialized %s.\n", m.GoName, m.GoName)
		fmt.Fprintf(&buf, "func New%s() %s {\n\treturn %s{}\n}\n", m.GoName, m.GoName, m.GoName)
	}

	return buf.String()
}

func (h *Handler) renderFunction(m *mapping.Mapped) string {
	var params []string
	for _, param := range m.Params {
		params = append(params, fmt.Sprintf("%s %s", param.GoName, param.GoType))
	}

	signature := fmt.Sprintf("func(%s)", strings.Join(params, ", "))
	if m.GoType != "" {
		signature += " " + m.GoType
	}

	return fmt.Sprintf("var %s %s\n", m.GoName, signature)
}

// renderLoader emits the Load function registering every bound function
// against the native library resolved at the given path.
func (h *Handler) renderLoader(buf *bytes.Buffer, mapped []*mapping.Mapped) {
	fmt.Fprintf(buf, "// Load resolves all bound functions against the %s library at path.\n", h.Options.LibName)
	fmt.Fprintf(buf, "func Load(path string) error {\n")
	fmt.Fprintf(buf, "\tlib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)\n")
	fmt.Fprintf(buf, "\tif err != nil {\n")
	fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"failed to load %s: %%w\", err)\n", h.Options.LibName)
	fmt.Fprintf(buf, "\t}\n\n")

	for _, m := range mapped {
		if m.Decl.Kind != schema.KindFunction {
			continue
		}
		fmt.Fprintf(buf, "\tpurego.RegisterLibFunc(&%s, lib, %q)\n", m.GoName, m.Decl.Name)
	}

	fmt.Fprintf(buf, "\n\treturn nil\n}\n")
}

func (h *Handler) hasFunctions(mapped []*mapping.Mapped) bool {
	for _, m := range mapped {
		if m.Decl.Kind == schema.KindFunction {
			return true
		}
	}

	return false
}

func (h *Handler) needsUnsafe(mapped []*mapping.Mapped) bool {
	for _, m := range mapped {
		if m.Decl.Kind == schema.KindStruct && h.Options.OffsetAsserts {
			return true
		}

		if strings.Contains(m.GoType, "unsafe.Pointer") {
			return true
		}

		for _, param := range m.Params {
			if strings.Contains(param.GoType, "unsafe.Pointer") {
				return true
			}
		}

		if m.Layout != nil {
			for _, field := range m.Layout.Fields {
				if strings.Contains(field.GoType, "unsafe.Pointer") {
					return true
				}
			}
		}
	}

	return false
}
