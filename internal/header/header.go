// Package header parses native C system headers into the declaration model.
// Parsing covers the declaration grammar of kernel interface headers:
// typedefs, struct and enum typedefs, object-like constant macros and
// function prototypes, with includes resolved against a configured search
// path. A failure to read or resolve any input is fatal for the run, since a
// partially parsed header would yield an incomplete and misleading FFI
// surface.
package header

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mxtools/mxgen/internal/schema"
	"github.com/zeebo/blake3"
)

type osProvider interface {
	ReadFile(name string) ([]byte, error)
	Stat(name string) (os.FileInfo, error)
}

// Handler is the principal implementation for header parsing.
type Handler struct {
	OSOps       osProvider
	IncludeDirs []string

	hasher *blake3.Hasher
}

// NewHandler returns a pointer to a new header [Handler].
func NewHandler(osOps osProvider, includeDirs []string) *Handler {
	return &Handler{
		OSOps:       osOps,
		IncludeDirs: includeDirs,
		hasher:      blake3.New(),
	}
}

// ParseHeaders parses the given header files and everything they include,
// returning all declarations in encounter order. Headers already visited
// through another include path are not parsed twice.
func (h *Handler) ParseHeaders(paths []string) ([]*schema.Declaration, error) {
	var decls []*schema.Declaration
	visited := make(map[string]bool)

	for _, path := range paths {
		if err := h.parseFile(path, visited, &decls); err != nil {
			return nil, fmt.Errorf("(header) %w", err)
		}
	}

	return decls, nil
}

// parseFile parses a single header depth-first: includes are descended into
// at their position in the file, so the declaration order across files
// matches the order a native compiler would encounter them in.
func (h *Handler) parseFile(path string, visited map[string]bool, decls *[]*schema.Declaration) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve header path %s: %w", path, err)
	}

	if visited[abs] {
		return nil
	}
	visited[abs] = true

	data, err := h.OSOps.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("%w (%s): %w", ErrHeaderUnreadable, abs, err)
	}
	h.hasher.Write(data) //nolint:errcheck

	events, err := scanFile(abs, string(data))
	if err != nil {
		return err
	}

	for _, ev := range events {
		if ev.include != "" {
			if builtinInclude(ev.include) {
				continue
			}

			resolved, err := h.resolveInclude(ev.include, filepath.Dir(abs), ev.angled)
			if err != nil {
				return fmt.Errorf("%w: %s (at %s)", ErrUnresolvedInclude, ev.include, ev.location)
			}

			if err := h.parseFile(resolved, visited, decls); err != nil {
				return err
			}

			continue
		}

		*decls = append(*decls, ev.decl)
	}

	return nil
}

// SourceDigest returns the hex-encoded BLAKE3 digest over the content of all
// headers parsed so far, in the order they were read. It identifies the input
// surface a generated file was produced from.
func (h *Handler) SourceDigest() string {
	return hex.EncodeToString(h.hasher.Sum(nil))
}

// resolveInclude searches the configured include directories for the named
// header. Quoted includes additionally search the directory of the including
// file first, matching native preprocessor behavior.
func (h *Handler) resolveInclude(name, fromDir string, angled bool) (string, error) {
	searchDirs := h.IncludeDirs
	if !angled {
		searchDirs = append([]string{fromDir}, h.IncludeDirs...)
	}

	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, name)
		if info, err := h.OSOps.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", ErrUnresolvedInclude
}

// builtinInclude reports whether the include names a freestanding standard
// header whose types are covered by the fixed mapping table and need no
// parsing of their own.
func builtinInclude(name string) bool {
	switch name {
	case "stdint.h", "stdbool.h", "stddef.h":
		return true
	}

	return false
}

// sortEvents orders scan events by their byte offset within the file, which
// restores source order after the per-category scan passes.
func sortEvents(events []scanEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].offset < events[j].offset
	})
}
