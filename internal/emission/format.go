package emission

import (
	"fmt"
	"go/format"
)

// Format normalizes the emitted source through the canonical Go formatter.
// The pass changes whitespace and indentation only, never semantics. Callers
// must keep the unformatted input when Format fails: a correct-but-unformatted
// surface is still worth writing.
func (h *Handler) Format(src string) (string, error) {
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return "", fmt.Errorf("(emission) %w: %w", ErrFormatFailed, err)
	}

	return string(formatted), nil
}
