package header

import "errors"

var (
	// ErrHeaderUnreadable occurs when a header file is missing or cannot be
	// read; this is fatal for the whole run before any output is written.
	ErrHeaderUnreadable = errors.New("header file is missing or unreadable")

	// ErrUnresolvedInclude occurs when an included header cannot be found
	// in any configured include directory.
	ErrUnresolvedInclude = errors.New("include not found in search path")

	// ErrUnsupportedSyntax occurs when a header contains a construct the
	// parser cannot represent faithfully; skipping it would silently
	// misstate the FFI surface, so parsing aborts instead.
	ErrUnsupportedSyntax = errors.New("unsupported header syntax")
)
