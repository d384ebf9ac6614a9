// Package output writes the generated source file. Writes are atomic: the
// text lands in a temporary file first and is renamed into place only once
// fully written, so no fatal error can leave a partial surface behind. A
// check mode compares content digests instead of writing, supporting the
// regenerate-and-diff review workflow.
package output

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/blake3"
)

type osProvider interface {
	ReadFile(name string) ([]byte, error)
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	Stat(name string) (os.FileInfo, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// Handler is the principal implementation for output writing.
type Handler struct {
	OSOps osProvider
}

// NewHandler returns a pointer to a new output [Handler].
func NewHandler(osOps osProvider) *Handler {
	return &Handler{
		OSOps: osOps,
	}
}

// Digest returns the hex-encoded BLAKE3 digest of the given content.
func Digest(content []byte) string {
	hasher := blake3.New()
	hasher.Write(content) //nolint:errcheck

	return hex.EncodeToString(hasher.Sum(nil))
}

// Check compares the digest of the given content against the file already at
// path. It returns [ErrOutputDrift] when the regenerated surface differs from
// the committed one, without touching the file.
func (h *Handler) Check(path string, content []byte) error {
	existing, err := h.OSOps.ReadFile(path)
	if err != nil {
		return fmt.Errorf("(output) %w (%s): %w", ErrNoExistingOutput, path, err)
	}

	haveDigest := Digest(existing)
	wantDigest := Digest(content)

	if haveDigest != wantDigest {
		return fmt.Errorf("(output) %w: %s (have) != %s (want)", ErrOutputDrift, haveDigest, wantDigest)
	}

	slog.Info("Output is up to date.", "path", path, "digest", wantDigest)

	return nil
}

// Write atomically writes the content to path through a temporary file in
// the same directory. The temporary file is removed on every failure path.
func (h *Handler) Write(path string, content []byte) error {
	var writeComplete bool

	tmpPath := path + ".mxgen"
	defer func() {
		if !writeComplete {
			h.OSOps.Remove(tmpPath) //nolint:errcheck
		}
	}()

	tmpFile, err := h.OSOps.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("(output) failed to open temporary file %s: %w", tmpPath, err)
	}
	defer tmpFile.Close()

	if _, err := tmpFile.Write(content); err != nil {
		return fmt.Errorf("(output) failed to write temporary file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("(output) failed to sync temporary file: %w", err)
	}

	if err := h.OSOps.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("(output) failed to rename temporary file to output file: %w", err)
	}

	writeComplete = true

	slog.Info("Wrote generated output.",
		"path", path,
		"size", humanize.Bytes(uint64(len(content))),
		"digest", Digest(content),
	)

	return nil
}
