package header

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mxtools/mxgen/internal/schema"
)

var arraySuffixRe = regexp.MustCompile(`^(\w+)\[(\d+)\]$`)

// parseCType decomposes a native type reference into its qualifiers and base
// name. Qualifier order is not significant in the native grammar, so the
// decomposition is keyword-based rather than positional.
func parseCType(typeStr string) schema.CType {
	typeStr = strings.TrimSpace(typeStr)

	ct := schema.CType{}

	if strings.Contains(typeStr, "const") {
		ct.IsConst = true
		typeStr = strings.ReplaceAll(typeStr, "const", "")
		typeStr = strings.TrimSpace(typeStr)
	}

	if strings.Contains(typeStr, "unsigned") {
		ct.IsUnsigned = true
		typeStr = strings.ReplaceAll(typeStr, "unsigned", "")
		typeStr = strings.TrimSpace(typeStr)
	}

	if strings.Contains(typeStr, "struct") {
		typeStr = strings.ReplaceAll(typeStr, "struct", "")
		typeStr = strings.TrimSpace(typeStr)
	}

	if strings.Contains(typeStr, "*") {
		ct.IsPointer = true
		typeStr = strings.ReplaceAll(typeStr, "*", "")
		typeStr = strings.TrimSpace(typeStr)
	}

	ct.Name = strings.TrimSpace(typeStr)

	return ct
}

func parseStructFields(body string) []schema.StructField {
	var fields []schema.StructField

	for _, line := range strings.Split(body, ";") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		name := parts[len(parts)-1]
		typeParts := parts[:len(parts)-1]

		if strings.HasPrefix(name, "*") {
			typeParts = append(typeParts, "*")
			name = strings.TrimPrefix(name, "*")
		}

		field := schema.StructField{Name: name}

		if m := arraySuffixRe.FindStringSubmatch(name); m != nil {
			field.Name = m[1]
			field.Type.IsArray = true
			field.Type.ArrayLen, _ = strconv.Atoi(m[2])
		}

		ctype := parseCType(strings.Join(typeParts, " "))
		ctype.IsArray = field.Type.IsArray
		ctype.ArrayLen = field.Type.ArrayLen
		field.Type = ctype

		fields = append(fields, field)
	}

	return fields
}

func parseEnumMembers(body string) []schema.EnumMember {
	var members []schema.EnumMember

	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if idx := strings.Index(part, "="); idx != -1 {
			members = append(members, schema.EnumMember{
				Name:  strings.TrimSpace(part[:idx]),
				Value: strings.TrimSpace(part[idx+1:]),
			})
		} else {
			members = append(members, schema.EnumMember{Name: part})
		}
	}

	return members
}

func parseParams(paramsStr string) ([]schema.Param, bool) {
	var params []schema.Param
	isVariadic := false

	if paramsStr == "void" || paramsStr == "" {
		return nil, false
	}

	for _, part := range strings.Split(paramsStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if part == "..." {
			isVariadic = true

			continue
		}

		tokens := strings.Fields(part)
		if len(tokens) < 2 {
			params = append(params, schema.Param{
				Type: parseCType(part),
			})

			continue
		}

		name := tokens[len(tokens)-1]
		typeParts := tokens[:len(tokens)-1]

		if strings.HasPrefix(name, "*") {
			typeParts = append(typeParts, "*")
			name = strings.TrimPrefix(name, "*")
		}

		params = append(params, schema.Param{
			Name: name,
			Type: parseCType(strings.Join(typeParts, " ")),
		})
	}

	return params, isVariadic
}
