// Package schema provides the principal schematics for all other packages. It
// defines the declaration model extracted from native headers, the filtering
// and emission structures derived from it, and implementations for handling
// (Unix-based) operating system syscalls. The package serves as a foundational
// layer for the extraction pipeline throughout the codebase.
package schema
