package emission

import "errors"

var (
	// ErrUnknownKind occurs when a mapped declaration carries a kind the
	// emitter does not know; this indicates a mapper defect.
	ErrUnknownKind = errors.New("unknown declaration kind")

	// ErrFormatFailed occurs when the canonical formatter rejects the
	// emitted source; the unformatted text is still preserved.
	ErrFormatFailed = errors.New("formatting of emitted source failed")
)
