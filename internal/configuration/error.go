package configuration

import "errors"

var (
	// ErrBadWordSize occurs when the configured target word size is neither
	// 4 nor 8 bytes.
	ErrBadWordSize = errors.New("word size must be 4 or 8 bytes")
)
