package expr

import "github.com/giucamp/djup/internal/diagnostics"

// Metadata carries the per-Expression flags and optional source location
// from spec.md §3. Children are never mutated, so Metadata is copied by
// value into every node and never touched again after construction.
type Metadata struct {
	IsConstant     bool
	IsLiteral      bool
	SourceLocation *diagnostics.Location
}
