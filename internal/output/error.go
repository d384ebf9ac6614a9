package output

import "errors"

var (
	// ErrOutputDrift occurs in check mode when the regenerated surface no
	// longer matches the committed output file.
	ErrOutputDrift = errors.New("generated output differs from existing file")

	// ErrNoExistingOutput occurs in check mode when there is no committed
	// output file to compare against.
	ErrNoExistingOutput = errors.New("no existing output file")
)
