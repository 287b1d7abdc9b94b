// Package config holds the small set of typed constants shared across
// the matching core, the way the teacher's internal/config/constants.go
// holds recognized source-file extensions rather than scattering magic
// strings through the analyzer.
package config

// Version is the current Djup version.
var Version = "0.1.0"

// Builtin scalar-type names. The root Namespace declares int ⊆ rational ⊆
// real ⊆ complex, and bool disjoint from all of them (spec.md §3).
const (
	ScalarInt      = "int"
	ScalarRational = "rational"
	ScalarReal     = "real"
	ScalarComplex  = "complex"
	ScalarBool     = "bool"
)

// BuiltinScalarChain describes the default lattice chain installed on the
// root Namespace: each entry is declared a subset of the one after it.
// ScalarBool is declared separately with no parents (disjoint).
var BuiltinScalarChain = []string{ScalarInt, ScalarRational, ScalarReal, ScalarComplex}

// RootNamespaceName is the name of the immutable singleton returned by
// Namespace.Root().
const RootNamespaceName = "root"

// Infinity is the saturating sentinel used by Range for an unbounded
// cardinality maximum (x..., x..).
const Infinity = ^uint32(0)

// DefaultCanonicalizeBound is the iteration cap used by
// namespace.CanonicalizeBounded when the caller passes 0.
const DefaultCanonicalizeBound = 10000
