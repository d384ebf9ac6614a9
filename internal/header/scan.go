package header

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mxtools/mxgen/internal/schema"
)

var (
	blockCommentRe = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)

	includeRe = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*include[ \t]+(?:"([^"]+)"|<([^>]+)>)`)
	defineRe  = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]+([A-Za-z_]\w*)[ \t]+([^\n]+)`)
	aliasRe   = regexp.MustCompile(`(?m)^[ \t]*typedef[ \t]+((?:const[ \t]+)?(?:unsigned[ \t]+)?(?:struct[ \t]+)?\w+(?:[ \t]*\*)?)[ \t]+(\w+)(?:\[(\d+)\])?[ \t]*;`)
	structRe  = regexp.MustCompile(`typedef[ \t]+struct(?:[ \t]+\w+)?[ \t\n]*\{([^}]*)\}[ \t\n]*(\w+)[ \t]*;`)
	enumRe    = regexp.MustCompile(`typedef[ \t]+enum(?:[ \t]+\w+)?[ \t\n]*\{([^}]*)\}[ \t\n]*(\w+)[ \t]*;`)
	funcRe    = regexp.MustCompile(`(?m)^[ \t]*(?:extern[ \t]+)?((?:const[ \t]+)?(?:unsigned[ \t]+)?\w+(?:[ \t]*\*)?)[ \t]+(\w+)[ \t]*\(([^)]*)\)[ \t]*;`)

	unionRe = regexp.MustCompile(`(?m)^[ \t]*(?:typedef[ \t]+)?union\b`)
)

// scanEvent is one positional finding within a header file: either an include
// to descend into or a parsed declaration.
type scanEvent struct {
	offset   int
	location schema.Location

	include string
	angled  bool

	decl *schema.Declaration
}

// scanFile extracts all scan events from one header, sorted back into source
// order after the per-category passes.
func scanFile(path, content string) ([]scanEvent, error) {
	content = stripComments(content)

	if m := unionRe.FindStringIndex(content); m != nil {
		return nil, fmt.Errorf("%w: union (at %s)", ErrUnsupportedSyntax, locationAt(path, content, m[0]))
	}

	var events []scanEvent

	events = append(events, scanIncludes(path, content)...)
	events = append(events, scanConstants(path, content)...)
	events = append(events, scanAliases(path, content)...)
	events = append(events, scanStructs(path, content)...)
	events = append(events, scanEnums(path, content)...)
	events = append(events, scanFunctions(path, content)...)

	sortEvents(events)

	return events, nil
}

// stripComments removes block and line comments while preserving the newline
// count, so byte offsets still map to the original line numbers.
func stripComments(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	content = blockCommentRe.ReplaceAllStringFunc(content, func(match string) string {
		return strings.Repeat("\n", strings.Count(match, "\n"))
	})
	content = lineCommentRe.ReplaceAllString(content, "")

	return content
}

func locationAt(path, content string, offset int) schema.Location {
	return schema.Location{
		File: path,
		Line: 1 + strings.Count(content[:offset], "\n"),
	}
}

func scanIncludes(path, content string) []scanEvent {
	var events []scanEvent

	for _, m := range includeRe.FindAllStringSubmatchIndex(content, -1) {
		ev := scanEvent{
			offset:   m[0],
			location: locationAt(path, content, m[0]),
		}

		if m[2] >= 0 {
			ev.include = content[m[2]:m[3]]
		} else {
			ev.include = content[m[4]:m[5]]
			ev.angled = true
		}

		events = append(events, ev)
	}

	return events
}

func scanConstants(path, content string) []scanEvent {
	var events []scanEvent

	for _, m := range defineRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		value := strings.TrimSpace(content[m[4]:m[5]])

		events = append(events, scanEvent{
			offset:   m[0],
			location: locationAt(path, content, m[0]),
			decl: &schema.Declaration{
				Kind:     schema.KindConstant,
				Name:     name,
				Value:    value,
				Location: locationAt(path, content, m[0]),
			},
		})
	}

	return events
}

func scanAliases(path, content string) []scanEvent {
	var events []scanEvent

	for _, m := range aliasRe.FindAllStringSubmatchIndex(content, -1) {
		underlying := parseCType(content[m[2]:m[3]])
		name := content[m[4]:m[5]]

		decl := &schema.Declaration{
			Kind:       schema.KindTypeAlias,
			Name:       name,
			Underlying: underlying,
			Location:   locationAt(path, content, m[0]),
		}

		if m[6] >= 0 {
			arrayLen, _ := strconv.Atoi(content[m[6]:m[7]])
			decl.Underlying.IsArray = true
			decl.Underlying.ArrayLen = arrayLen
		}

		events = append(events, scanEvent{
			offset:   m[0],
			location: decl.Location,
			decl:     decl,
		})
	}

	return events
}

func scanStructs(path, content string) []scanEvent {
	var events []scanEvent

	for _, m := range structRe.FindAllStringSubmatchIndex(content, -1) {
		body := content[m[2]:m[3]]
		name := content[m[4]:m[5]]

		events = append(events, scanEvent{
			offset:   m[0],
			location: locationAt(path, content, m[0]),
			decl: &schema.Declaration{
				Kind:     schema.KindStruct,
				Name:     name,
				Fields:   parseStructFields(body),
				Location: locationAt(path, content, m[0]),
			},
		})
	}

	return events
}

func scanEnums(path, content string) []scanEvent {
	var events []scanEvent

	for _, m := range enumRe.FindAllStringSubmatchIndex(content, -1) {
		body := content[m[2]:m[3]]
		name := content[m[4]:m[5]]

		events = append(events, scanEvent{
			offset:   m[0],
			location: locationAt(path, content, m[0]),
			decl: &schema.Declaration{
				Kind:     schema.KindEnum,
				Name:     name,
				Members:  parseEnumMembers(body),
				Location: locationAt(path, content, m[0]),
			},
		})
	}

	return events
}

func scanFunctions(path, content string) []scanEvent {
	var events []scanEvent

	for _, m := range funcRe.FindAllStringSubmatchIndex(content, -1) {
		returns := strings.TrimSpace(content[m[2]:m[3]])
		name := content[m[4]:m[5]]
		params := strings.TrimSpace(content[m[6]:m[7]])

		// The alias pass owns typedef lines.
		if strings.HasPrefix(strings.TrimSpace(content[m[0]:m[2]]), "typedef") || returns == "typedef" {
			continue
		}

		decl := &schema.Declaration{
			Kind:       schema.KindFunction,
			Name:       name,
			Underlying: parseCType(returns),
			Location:   locationAt(path, content, m[0]),
		}
		decl.Params, decl.Variadic = parseParams(params)

		events = append(events, scanEvent{
			offset:   m[0],
			location: decl.Location,
			decl:     decl,
		})
	}

	return events
}
