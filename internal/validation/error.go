package validation

import "errors"

var (
	// ErrNoProjectRoot occurs when no project root could be resolved from
	// the environment or working directory.
	ErrNoProjectRoot = errors.New("no project root resolved")

	// ErrNoHeaders occurs when the configuration names no header files to
	// extract from.
	ErrNoHeaders = errors.New("no header files configured")

	// ErrNoRules occurs when the configuration contains an empty filter
	// rule set, which would retain nothing.
	ErrNoRules = errors.New("no filter rules configured")

	// ErrDirNotExist occurs when a configured directory does not exist.
	ErrDirNotExist = errors.New("directory does not exist")

	// ErrNotADirectory occurs when a configured directory path points at a
	// non-directory.
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrHeaderNotExist occurs when a configured header file does not
	// exist.
	ErrHeaderNotExist = errors.New("header file does not exist")

	// ErrHeaderIsDirectory occurs when a configured header path points at
	// a directory.
	ErrHeaderIsDirectory = errors.New("header path is a directory")

	// ErrHeaderNotReadable occurs when a configured header file exists but
	// is not readable by the current user.
	ErrHeaderNotReadable = errors.New("header file is not readable")
)
