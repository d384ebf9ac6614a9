package mapping

import "errors"

var (
	// ErrUnmappedType occurs when a native type has no entry in the fixed
	// mapping table and resolves to no parsed declaration. Silent omission
	// would surface as a confusing link-time or runtime failure far from
	// its cause, so the run aborts instead.
	ErrUnmappedType = errors.New("native type has no mapping")

	// ErrUnknownKind occurs when a declaration carries a kind the mapper
	// does not know; this indicates a parser defect.
	ErrUnknownKind = errors.New("unknown declaration kind")

	// ErrRecursiveType occurs when a struct embeds itself by value, which
	// has no finite layout.
	ErrRecursiveType = errors.New("recursive struct layout")

	// ErrBadConstantExpr occurs when a constant value cannot be rewritten
	// into a Go constant expression.
	ErrBadConstantExpr = errors.New("constant expression not mappable")

	// ErrVariadicFunction occurs when a function signature is variadic,
	// which has no layout-faithful Go binding.
	ErrVariadicFunction = errors.New("variadic function not bindable")
)
