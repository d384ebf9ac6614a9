// Package validation checks the resolved run configuration before extraction
// starts. Environment problems (missing directories, unreadable headers) are
// reported here and abort the run before any output is produced.
package validation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mxtools/mxgen/internal/configuration"
	"golang.org/x/sys/unix"
)

type osProvider interface {
	Stat(name string) (os.FileInfo, error)
}

type unixProvider interface {
	Access(path string, mode uint32) error
}

// Handler is the principal implementation for configuration validation.
type Handler struct {
	OSOps   osProvider
	UnixOps unixProvider
}

// NewHandler returns a pointer to a new validation [Handler].
func NewHandler(osOps osProvider, unixOps unixProvider) *Handler {
	return &Handler{
		OSOps:   osOps,
		UnixOps: unixOps,
	}
}

// ValidateConfig checks every path and setting of the resolved configuration.
// The first failed check aborts, so the diagnostic always names the exact
// missing path or failing setting.
func (v *Handler) ValidateConfig(config *configuration.Config) error {
	if config.ProjectRoot == "" {
		return fmt.Errorf("(validation) %w", ErrNoProjectRoot)
	}

	if err := v.validateDirectory(config.ProjectRoot); err != nil {
		return fmt.Errorf("(validation) project root: %w", err)
	}

	if err := v.validateDirectory(config.Sysroot); err != nil {
		return fmt.Errorf("(validation) sysroot: %w", err)
	}

	if len(config.Headers) == 0 {
		return fmt.Errorf("(validation) %w", ErrNoHeaders)
	}

	for _, header := range config.Headers {
		if err := v.validateHeader(header); err != nil {
			return fmt.Errorf("(validation) %w", err)
		}
	}

	for _, dir := range config.IncludeDirs {
		if err := v.validateDirectory(dir); err != nil {
			return fmt.Errorf("(validation) include dir: %w", err)
		}
	}

	if err := v.validateDirectory(filepath.Dir(config.OutputPath)); err != nil {
		return fmt.Errorf("(validation) output dir: %w", err)
	}

	if len(config.Rules) == 0 {
		return fmt.Errorf("(validation) %w", ErrNoRules)
	}

	return nil
}

func (v *Handler) validateDirectory(path string) error {
	info, err := v.OSOps.Stat(path)
	if err != nil {
		return fmt.Errorf("%w (%s): %w", ErrDirNotExist, path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w (%s)", ErrNotADirectory, path)
	}

	return nil
}

func (v *Handler) validateHeader(path string) error {
	info, err := v.OSOps.Stat(path)
	if err != nil {
		return fmt.Errorf("%w (%s): %w", ErrHeaderNotExist, path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w (%s)", ErrHeaderIsDirectory, path)
	}

	if err := v.UnixOps.Access(path, unix.R_OK); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrHeaderNotReadable, path, err)
	}

	return nil
}
