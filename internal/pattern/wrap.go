// Package pattern implements the static PatternInfo classification of a
// composite pattern (spec.md §4.3), grounded in the original djup
// source's pattern_info.cpp: a pattern argument's repetition is encoded
// as a wrapping composite whose function name selects the cardinality
// (the teacher's surface syntax "...", "..", "?" all lower to one of
// three builtin wrapper composites — here reconstructed without a
// parser, since spec.md §1 keeps the surface parser out of scope).
package pattern

import (
	"github.com/giucamp/djup/internal/diagnostics"
	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/types"
)

// Wrapper function names. A pattern argument built with one of these
// names is a variadic repetition of its single child.
const (
	WrapZeroOrMore = "$zero_or_more" // x... : [0, Inf]
	WrapOneOrMore  = "$one_or_more"  // x..  : [1, Inf]
	WrapOptional   = "$optional"     // x?   : [0, 1]

	// Group wraps k>1 sibling sub-patterns repeated as one unit, e.g.
	// f(a, b)... where each repetition consumes a matching (a,b) pair.
	Group = "$group"
)

// WrapZeroOrMoreExpr builds the x... wrapper around inner.
func WrapZeroOrMoreExpr(inner *expr.Expression) (*expr.Expression, error) {
	return expr.MakeComposite(nil, WrapZeroOrMore, []*expr.Expression{inner}, nil)
}

// WrapOneOrMoreExpr builds the x.. wrapper around inner.
func WrapOneOrMoreExpr(inner *expr.Expression) (*expr.Expression, error) {
	return expr.MakeComposite(nil, WrapOneOrMore, []*expr.Expression{inner}, nil)
}

// WrapOptionalExpr builds the x? wrapper around inner.
func WrapOptionalExpr(inner *expr.Expression) (*expr.Expression, error) {
	return expr.MakeComposite(nil, WrapOptional, []*expr.Expression{inner}, nil)
}

// WrapGroupExpr builds a k>1 repeated group, e.g. f(a,b)....
func WrapGroupExpr(elems []*expr.Expression) (*expr.Expression, error) {
	if len(elems) == 0 {
		return nil, diagnostics.New(diagnostics.ErrStructEmptyRepetition, "repetition group has no elements")
	}
	return expr.MakeComposite(nil, Group, elems, nil)
}

// WrapperCardinality reports the cardinality a wrapper function name
// denotes, and whether name is a recognized wrapper at all.
func WrapperCardinality(name string) (types.Range, bool) {
	switch name {
	case WrapZeroOrMore:
		return types.ZeroOrMore, true
	case WrapOneOrMore:
		return types.OneOrMore, true
	case WrapOptional:
		return types.Optional, true
	}
	return types.Range{}, false
}

func wrapperCardinality(name string) (types.Range, bool) { return WrapperCardinality(name) }

// UnwrapVariadic returns the inner sub-pattern elements of a variadic
// argument: the flattened per-repetition element list (k = len(elements)).
// A non-Group inner pattern yields a single-element slice (k=1).
func UnwrapVariadic(wrapped *expr.Expression) ([]*expr.Expression, error) {
	return unwrapVariadic(wrapped)
}

func unwrapVariadic(wrapped *expr.Expression) ([]*expr.Expression, error) {
	args := wrapped.Arguments()
	if len(args) != 1 {
		return nil, diagnostics.New(diagnostics.ErrStructEmptyRepetition, "repetition wrapper %q must have exactly one child", wrapped.Name().String())
	}
	inner := args[0]
	if inner.IsComposite() && inner.Name().String() == Group {
		if len(inner.Arguments()) == 0 {
			return nil, diagnostics.New(diagnostics.ErrStructEmptyRepetition, "empty repetition group")
		}
		return inner.Arguments(), nil
	}
	return []*expr.Expression{inner}, nil
}
