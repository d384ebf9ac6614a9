package mapping

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	intSuffixRe = regexp.MustCompile(`\b(0[xX][0-9a-fA-F]+|\d+)[uUlL]+\b`)
	castRe      = regexp.MustCompile(`^\(\s*(\w+)\s*\)\s*(.+)$`)
	valueOkRe   = regexp.MustCompile(`^[\w\s()<>|&~^+\-*/]+$`)
)

// limitMacros are the freestanding <stdint.h> limit macros that appear as
// constant values in kernel headers; everything else must be a plain
// integer expression.
var limitMacros = map[string]string{
	"UINT8_MAX":  "1<<8 - 1",
	"UINT16_MAX": "1<<16 - 1",
	"UINT32_MAX": "1<<32 - 1",
	"UINT64_MAX": "1<<64 - 1",
	"INT8_MAX":   "1<<7 - 1",
	"INT16_MAX":  "1<<15 - 1",
	"INT32_MAX":  "1<<31 - 1",
	"INT64_MAX":  "1<<63 - 1",
}

// normalizeValue rewrites a native constant expression into a Go constant
// expression: integer literal suffixes are dropped, limit macros expanded
// and leading casts converted to Go conversions. Casts to an emitted alias
// or enum type become conversions to the emitted Go type. Identifier
// references to other emitted constants survive as-is.
func (h *Handler) normalizeValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if expanded, ok := limitMacros[value]; ok {
		return expanded, nil
	}

	// Header macros conventionally wrap cast expressions in one more
	// parenthesis pair; unwrap so the cast is recognizable.
	if inner, ok := unwrapParens(value); ok && castRe.MatchString(inner) {
		value = inner
	}

	if m := castRe.FindStringSubmatch(value); m != nil {
		if goType, ok := h.castType(m[1]); ok {
			inner, err := h.normalizeValue(m[2])
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("%s(%s)", goType, inner), nil
		}
	}

	value = intSuffixRe.ReplaceAllString(value, "$1")

	if !valueOkRe.MatchString(value) {
		return "", fmt.Errorf("%w: %q", ErrBadConstantExpr, value)
	}

	return value, nil
}

// castType maps a native cast target to its Go type: the fixed-width scalar
// table first, then any emitted alias or enum name.
func (h *Handler) castType(name string) (string, bool) {
	switch name {
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
	}

	if _, ok := h.aliases[name]; ok {
		return goName(name), true
	}
	if h.enums[name] {
		return goName(name), true
	}

	return "", false
}

// unwrapParens strips one enclosing parenthesis pair, reporting whether the
// first and last characters really close over the whole expression.
func unwrapParens(value string) (string, bool) {
	if len(value) < 2 || value[0] != '(' || value[len(value)-1] != ')' {
		return value, false
	}

	depth := 0
	for i, r := range value {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}

		if depth == 0 && i < len(value)-1 {
			return value, false
		}
	}

	return strings.TrimSpace(value[1 : len(value)-1]), true
}
