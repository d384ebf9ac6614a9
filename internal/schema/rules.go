package schema

import "strings"

// FilterRule selects declarations for retention by case-sensitive name prefix
// and declaration kind. Rules are fixed configuration, not derived state.
type FilterRule struct {
	Prefix string
	Kind   DeclKind
}

// Matches reports whether the declaration is retained by this rule. Matching
// is exact-prefix on the fully qualified native name, not glob or regex.
func (r FilterRule) Matches(d *Declaration) bool {
	return d.Kind == r.Kind && strings.HasPrefix(d.Name, r.Prefix)
}

// EmitOptions are the target-language emission options of one run.
type EmitOptions struct {
	// PackageName is the package clause of the generated file.
	PackageName string

	// LibName is the native library the generated bindings resolve against.
	LibName string

	// DeriveDefaults emits a zero-value constructor for every struct.
	DeriveDefaults bool

	// Freestanding restricts the numeric basis to fixed-width types,
	// mapping word-sized native types explicitly instead of through
	// platform-dependent aliases.
	Freestanding bool

	// OffsetAsserts embeds compile-time field offset and size assertions
	// for every emitted struct.
	OffsetAsserts bool

	// WordSize is the target pointer width in bytes, 8 unless set.
	WordSize int
}

// Emission is the target-language rendering of one retained declaration.
// Records are one-to-one with retained declarations and independently
// renderable.
type Emission struct {
	Decl *Declaration
	Text string
}
