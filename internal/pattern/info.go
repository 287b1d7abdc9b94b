package pattern

import (
	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/types"
)

// ChildKind classifies an immediate child of a composite pattern
// (spec.md §4.3).
type ChildKind int

const (
	ChildLiteral ChildKind = iota
	ChildIdentifier
	ChildCompositeCall
	ChildVariadic
)

// FunctionFlags records the Associative/Commutative bits driven by a
// function's name (spec.md §3 PatternInfo.flags). Matching only honors
// these for bookkeeping; actual associative/commutative reordering is an
// acknowledged open issue left as an extension point (spec.md §9).
type FunctionFlags struct {
	Associative bool
	Commutative bool
}

// ArgumentInfo is one composite pattern child's static classification:
// its cardinality, how much cardinality remains to its right (for O(1)
// pruning), its kind, and — for variadic children — the flattened
// per-repetition sub-pattern elements (k = len(Elements)).
type ArgumentInfo struct {
	Kind        ChildKind
	Cardinality types.Range
	Remaining   types.Range
	Pattern     *expr.Expression   // the argument itself (wrapper included for variadic)
	Elements    []*expr.Expression // k sub-patterns per repetition; len==1 unless ChildVariadic wraps a Group
}

// Info is the stateless classification of a composite pattern (spec.md
// §4.3). Build computes it afresh on every call; no cache keyed by
// pattern identity is kept.
type Info struct {
	Flags         FunctionFlags
	ArgumentsRange types.Range
	Arguments     []ArgumentInfo
}

// Build classifies every immediate child of pattern (which must be a
// composite) and accumulates cardinalities left-to-right then
// Remaining right-to-left, maintaining the invariants of spec.md §3.5:
// sum(child.cardinality) == ArgumentsRange, and
// Remaining[i] == sum(Cardinality[j] for j>i).
func Build(pattern *expr.Expression, flags FunctionFlags) (*Info, error) {
	children := pattern.Arguments()
	info := &Info{
		Flags:     flags,
		Arguments: make([]ArgumentInfo, len(children)),
	}

	for i, child := range children {
		kind, card, elements, err := classify(child)
		if err != nil {
			return nil, err
		}
		info.Arguments[i] = ArgumentInfo{
			Kind:        kind,
			Cardinality: card,
			Pattern:     child,
			Elements:    elements,
		}
		info.ArgumentsRange = info.ArgumentsRange.Add(card)
	}

	remaining := types.Range{Min: 0, Max: 0}
	for i := len(children) - 1; i >= 0; i-- {
		info.Arguments[i].Remaining = remaining
		remaining = remaining.Add(info.Arguments[i].Cardinality)
	}

	return info, nil
}

func classify(child *expr.Expression) (ChildKind, types.Range, []*expr.Expression, error) {
	if child.IsComposite() {
		if card, ok := wrapperCardinality(child.Name().String()); ok {
			elements, err := unwrapVariadic(child)
			if err != nil {
				return 0, types.Range{}, nil, err
			}
			return ChildVariadic, card, elements, nil
		}
		return ChildCompositeCall, types.One, []*expr.Expression{child}, nil
	}
	if child.IsIdentifier() {
		return ChildIdentifier, types.One, []*expr.Expression{child}, nil
	}
	return ChildLiteral, types.One, []*expr.Expression{child}, nil
}
