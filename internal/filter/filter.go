// Package filter applies the configured prefix rules to parsed declarations
// and de-duplicates declarations reachable through multiple include paths.
package filter

import (
	"log/slog"

	"github.com/mxtools/mxgen/internal/schema"
)

// Handler is the principal implementation for declaration filtering.
type Handler struct {
	Rules []schema.FilterRule
}

// NewHandler returns a pointer to a new filter [Handler].
func NewHandler(rules []schema.FilterRule) *Handler {
	return &Handler{
		Rules: rules,
	}
}

// Dedupe removes declarations already seen under the same (name, kind) key.
// The first occurrence wins and encounter order is preserved, so a header
// reachable via two include paths contributes each declaration exactly once.
func (h *Handler) Dedupe(decls []*schema.Declaration) []*schema.Declaration {
	seen := make(map[schema.Key]bool, len(decls))
	deduped := make([]*schema.Declaration, 0, len(decls))

	for _, decl := range decls {
		key := decl.DedupKey()
		if seen[key] {
			slog.Debug("Dropped duplicate declaration.",
				"name", decl.Name,
				"kind", decl.Kind,
				"location", decl.Location,
			)

			continue
		}
		seen[key] = true

		deduped = append(deduped, decl)
	}

	return deduped
}

// Retain keeps every declaration matching at least one configured rule,
// testing rules in order and retaining on the first match. Declarations
// matching no rule are dropped silently, which is the expected outcome for
// the bulk of a system header.
func (h *Handler) Retain(decls []*schema.Declaration) []*schema.Declaration {
	retained := make([]*schema.Declaration, 0, len(decls))

	for _, decl := range decls {
		if h.matches(decl) {
			retained = append(retained, decl)
		}
	}

	return retained
}

func (h *Handler) matches(decl *schema.Declaration) bool {
	for _, rule := range h.Rules {
		if rule.Matches(decl) {
			return true
		}
	}

	return false
}
