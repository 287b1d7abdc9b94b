// Package expr implements the immutable, hash-consed expression DAG
// (spec.md §3, §4.1). It follows the source design's "polymorphic
// expression node": one concrete struct covers literals, identifiers,
// and composites, and callers classify a node through predicate methods
// (IsLiteral, IsIdentifier, IsComposite) rather than a type switch over a
// sum type — this keeps the discrimination tree (internal/discrim)
// uniform over a single node shape, exactly as spec.md §9 calls for.
package expr

import (
	"github.com/giucamp/djup/internal/symbol"
	"github.com/giucamp/djup/internal/types"
)

// kind tags which predicate shape an Expression takes. It is an
// implementation detail: no exported accessor returns it directly.
type kind int

const (
	kindComposite kind = iota
	kindIdentifier
	kindLiteralBool
	kindLiteralInt
	kindLiteralOpaque
)

// Expression is the only first-class value in the data model (spec.md
// §3). It is immutable after construction: Arguments, Name, Type and
// Metadata never change, so an *Expression can be freely shared across
// threads for read (spec.md §5).
type Expression struct {
	name      symbol.Name
	typ       *types.TensorType
	arguments []*Expression
	metadata  Metadata
	hash      uint64

	k           kind
	literalBool bool
	literalInt  int64
	literalText string // printed form; also the opaque constant's identity
}

// Name returns the expression's interned function/identifier name, or
// the anonymous Name for an unnamed tuple-like composite.
func (e *Expression) Name() symbol.Name { return e.name }

// Type returns the expression's TensorType, or nil if untyped.
func (e *Expression) Type() *types.TensorType { return e.typ }

// Arguments returns the ordered, shared, immutable child list. Callers
// must not mutate the returned slice.
func (e *Expression) Arguments() []*Expression { return e.arguments }

// Metadata returns the expression's flags and optional source location.
func (e *Expression) Metadata() Metadata { return e.metadata }

// ContentHash returns the 64-bit content hash computed once at
// construction (spec.md §3, invariant 3).
func (e *Expression) ContentHash() uint64 { return e.hash }

// IsLiteral reports whether e is a literal (bool, int, or opaque
// constant).
func (e *Expression) IsLiteral() bool {
	return e.k == kindLiteralBool || e.k == kindLiteralInt || e.k == kindLiteralOpaque
}

// IsIdentifier reports whether e is an identifier (a named typed
// variable used only in patterns and substitution results).
func (e *Expression) IsIdentifier() bool { return e.k == kindIdentifier }

// IsComposite reports whether e is a composite (function-name call or
// anonymous tuple).
func (e *Expression) IsComposite() bool { return e.k == kindComposite }

// IsCall is an alias for IsComposite using the discrimination tree's own
// vocabulary (spec.md §4.4: "name-call edge").
func (e *Expression) IsCall() bool { return e.IsComposite() }

// BoolValue returns the literal's bool value; valid only when
// e.IsLiteral() and the literal is a bool.
func (e *Expression) BoolValue() (bool, bool) {
	if e.k != kindLiteralBool {
		return false, false
	}
	return e.literalBool, true
}

// IntValue returns the literal's int64 value; valid only when
// e.IsLiteral() and the literal is an int.
func (e *Expression) IntValue() (int64, bool) {
	if e.k != kindLiteralInt {
		return 0, false
	}
	return e.literalInt, true
}

// LiteralInt is IntValue's single-result form, for callers that have
// already checked IsLiteral and just want the value (0 if not an int
// literal).
func (e *Expression) LiteralInt() int64 {
	v, _ := e.IntValue()
	return v
}

// OpaqueText returns the literal's printed form; valid only when
// e.IsLiteral() and the literal is an opaque constant.
func (e *Expression) OpaqueText() (string, bool) {
	if e.k != kindLiteralOpaque {
		return "", false
	}
	return e.literalText, true
}

// PrintedForm returns the literal's printed form regardless of kind,
// used by internal/printer for diagnostics; empty for non-literals.
func (e *Expression) PrintedForm() string { return e.literalText }
