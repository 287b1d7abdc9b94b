// Package subst implements the substitution graph matching engine
// (spec.md §4.5): given a discrimination tree of registered pattern
// axioms and a target expression, it finds every way the target can be
// decomposed against every registered pattern, producing one Solution
// per successful binding set (spec.md §3: "a single target may yield
// more than one Solution, e.g. f(x..., y...) applied to an n-ary call
// yields n+1 solutions, one per split point").
//
// The discrimination tree (internal/discrim) already flattens a
// pattern's literal/name-call/typed-identifier/variadic structure into
// shared edges at every nesting level except inside a repetition body:
// a repetition's own sub-pattern elements (spec.md §4.4 "Elements") are
// matched by a separate, general recursive matcher (matchExpr below)
// rather than by further tree edges, the same way gokando's Substitution
// (pkg/minikanren/core.go) walks one term against another directly once
// a goal has committed to trying it. This keeps the tree a genuine
// multi-pattern prefilter while leaving full recursive matching —
// including nested variadics inside a repeated group — to ordinary Go
// recursion.
package subst

import (
	"github.com/giucamp/djup/internal/config"
	"github.com/giucamp/djup/internal/discrim"
	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/pattern"
	"github.com/giucamp/djup/internal/types"
)

// Bindings is the accumulated name -> value map built while walking a
// candidate's elements (spec.md §4.5 "SubstitutionsBuilder"). It is
// copy-on-write: binding a fresh name clones the map so sibling
// candidates sharing a discrimination prefix never see each other's
// bindings (spec.md §4.5 "candidates... processed independently").
//
// capture is a stack of per-variadic-scope maps, the innermost (still
// open) scope last (spec.md §4.5 "per-variadic-scope stacks"): a name
// bound while one or more scopes are open accumulates into the
// innermost scope's list rather than settling into scalars directly,
// and closing a scope (closeCapture) either folds its tuple-wrapped
// result into the next-enclosing scope's list — so a doubly-nested
// repetition (spec.md §8 scenario 6, g(f(1, real x...)...)) produces a
// Tuple of Tuples, one level of nesting per open scope — or, once the
// stack is empty again, installs it as the identifier's final scalar
// value.
type Bindings struct {
	scalars map[string]*expr.Expression
	capture []map[string][]*expr.Expression
}

func newBindings() Bindings {
	return Bindings{scalars: map[string]*expr.Expression{}}
}

// clone deep-copies scalars and the whole capture stack (each scope map
// gets a fresh map) so that two Bindings values forked from a common
// ancestor (a fan-out branch point) never alias the same mutable
// capture state — appending to one branch's captured list must never
// be visible to a sibling branch that shares the same ancestor
// (spec.md §4.5 "candidates... processed independently").
func (b Bindings) clone() Bindings {
	nb := Bindings{scalars: make(map[string]*expr.Expression, len(b.scalars)+1)}
	for k, v := range b.scalars {
		nb.scalars[k] = v
	}
	if b.capture != nil {
		nb.capture = make([]map[string][]*expr.Expression, len(b.capture))
		for i, scope := range b.capture {
			cp := make(map[string][]*expr.Expression, len(scope))
			for k, v := range scope {
				cp[k] = v
			}
			nb.capture[i] = cp
		}
	}
	return nb
}

// withCapture opens a new, nested variadic repetition scope (spec.md
// §4.5 "open(d)"): identifier bindings made while any scope is open
// accumulate into the innermost one's list instead of settling directly
// into scalars.
func (b Bindings) withCapture() Bindings {
	nb := b.clone()
	nb.capture = append(nb.capture, map[string][]*expr.Expression{})
	return nb
}

// closeCapture ends the innermost open repetition scope (spec.md §4.5
// "close(d)"): every name captured during it is wrapped into one
// anonymous tuple expression ("Tuple-wrapping on scope close") and
// either pushed onto the next-enclosing scope's list — if one is still
// open, so an outer repetition keeps accumulating one tuple per
// iteration — or, once the stack is empty again, installed as the
// identifier's final scalar value (with a contradiction check against
// any existing binding of the same name).
func (b Bindings) closeCapture() (Bindings, bool) {
	if len(b.capture) == 0 {
		return b, true
	}
	nb := b.clone()
	top := nb.capture[len(nb.capture)-1]
	nb.capture = nb.capture[:len(nb.capture)-1]
	for name, values := range top {
		tuple, err := expr.MakeComposite(nil, "", values, nil)
		if err != nil {
			return Bindings{}, false
		}
		if len(nb.capture) > 0 {
			enclosing := nb.capture[len(nb.capture)-1]
			enclosing[name] = append(append([]*expr.Expression{}, enclosing[name]...), tuple)
			continue
		}
		if existing, ok := nb.scalars[name]; ok {
			if !expr.AlwaysEqual(existing, tuple) {
				return Bindings{}, false
			}
			continue
		}
		nb.scalars[name] = tuple
	}
	return nb, true
}

// snapshot returns the immutable map a caller can keep: the Bindings
// machinery never mutates a map once handed out this way.
func (b Bindings) snapshot() map[string]*expr.Expression {
	out := make(map[string]*expr.Expression, len(b.scalars))
	for k, v := range b.scalars {
		out[k] = v
	}
	return out
}

func bindIdentifier(b Bindings, name string, value *expr.Expression) (Bindings, bool) {
	if len(b.capture) > 0 {
		nb := b.clone()
		top := nb.capture[len(nb.capture)-1]
		top[name] = append(append([]*expr.Expression{}, top[name]...), value)
		return nb, true
	}
	if existing, ok := b.scalars[name]; ok {
		return b, expr.AlwaysEqual(existing, value)
	}
	nb := b.clone()
	nb.scalars[name] = value
	return nb, true
}

// typeCompatible reports whether target's type belongs to the pattern
// declared type want, treating an empty-scalar want as an unconstrained
// (untyped) identifier (spec.md §4.3: an identifier without a declared
// type matches any value). An untyped int or bool literal is taken to
// have the builtin int or bool scalar type.
func typeCompatible(target *expr.Expression, want types.TensorType, lattice *types.Lattice) bool {
	if want.Scalar == "" {
		return true
	}
	t := target.Type()
	if t == nil {
		if _, ok := target.IntValue(); ok {
			t = &types.TensorType{Scalar: config.ScalarInt}
		} else if _, ok := target.BoolValue(); ok {
			t = &types.TensorType{Scalar: config.ScalarBool}
		} else {
			return false
		}
	}
	return types.BelongsTo(*t, want, lattice)
}

// Solution is one complete, internally-consistent way a target matched
// a registered pattern (spec.md §4.5).
type Solution struct {
	PatternID uint32
	Bindings  map[string]*expr.Expression
}

// StepEvent is emitted, if a caller supplies a callback, once per
// discrimination edge visited and once per solution reached, for
// internal/trace to record a step-by-step matching trace (spec.md §7).
type StepEvent struct {
	Kind      discrim.EdgeKind
	Reached   bool // true for a leaf reached, Kind is then ignored
	PatternID uint32
}

// frontier is one pending (node, remaining target elements, bindings so
// far) triple (spec.md §4.5 "pool of candidates" / "FIFO work queue").
type frontier struct {
	node     *discrim.Node
	elements []*expr.Expression
	bindings Bindings
}

// FindMatches walks tree against target breadth-first: every candidate
// sharing a discrimination prefix is advanced one edge at a time before
// any one candidate races ahead, so patterns with a common prefix never
// pay for the shared work twice (spec.md §4.5 point 2, "candidates
// prioritized over discrimination-node expansion").
func FindMatches(tree *discrim.Tree, target *expr.Expression, lattice *types.Lattice, onStep func(StepEvent)) []Solution {
	queue := []frontier{{node: tree.Root(), elements: []*expr.Expression{target}, bindings: newBindings()}}
	var solutions []Solution

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if id := item.node.LeafPatternID; id != nil && len(item.elements) == 0 {
			if onStep != nil {
				onStep(StepEvent{Reached: true, PatternID: *id})
			}
			solutions = append(solutions, Solution{PatternID: *id, Bindings: item.bindings.snapshot()})
		}

		// hasNext is false once a candidate has run out of target
		// elements. The only edge kind still reachable from there is a
		// trailing EdgeVariadic with Cardinality.Min==0: it consumes zero
		// elements (w==0 within the loop below) and still needs to bind
		// an empty tuple and advance toward its Dest, exactly as
		// matchChildren already does for a repetition body's tail
		// (spec.md §4.5: variadic arguments bind even when they match
		// nothing). Every other edge kind requires a concrete next
		// element and is skipped.
		var t0 *expr.Expression
		var rest []*expr.Expression
		hasNext := len(item.elements) > 0
		if hasNext {
			t0, rest = item.elements[0], item.elements[1:]
		}

		for _, edge := range item.node.Edges {
			if onStep != nil {
				onStep(StepEvent{Kind: edge.Kind})
			}
			switch edge.Kind {
			case discrim.EdgeLiteral:
				if hasNext && t0.IsLiteral() && expr.AlwaysEqual(edge.Literal, t0) {
					queue = append(queue, frontier{edge.Dest, rest, item.bindings})
				}

			case discrim.EdgeNameCall:
				if hasNext && t0.IsComposite() && t0.Name().String() == edge.Name {
					merged := make([]*expr.Expression, 0, len(t0.Arguments())+len(rest))
					merged = append(merged, t0.Arguments()...)
					merged = append(merged, rest...)
					queue = append(queue, frontier{edge.Dest, merged, item.bindings})
				}

			case discrim.EdgeTypedIdentifier:
				if !hasNext {
					continue
				}
				want := types.TensorType{}
				if edge.IdentifierType != nil {
					want = *edge.IdentifierType
				}
				if typeCompatible(t0, want, lattice) {
					if b2, ok := bindIdentifier(item.bindings, edge.IdentifierName, t0); ok {
						queue = append(queue, frontier{edge.Dest, rest, b2})
					}
				}

			case discrim.EdgeVariadic:
				k := uint32(len(edge.Elements))
				if k == 0 {
					continue
				}
				maxW := edge.Cardinality.SaturatedMax()
				for w := edge.Cardinality.Min; w <= maxW; w++ {
					consumed := w * k
					if consumed > uint32(len(item.elements)) {
						break
					}
					group, groupRest := item.elements[:consumed], item.elements[consumed:]
					for _, b2 := range matchRepetitions(edge.Elements, group, int(w), item.bindings, lattice) {
						queue = append(queue, frontier{edge.Dest, groupRest, b2})
					}
				}
			}
		}
	}

	return solutions
}

// matchExpr matches one pattern expression against one target
// expression, fanning out across every valid width choice a nested
// variadic child admits (spec.md §4.3, §4.5).
func matchExpr(patternExpr, target *expr.Expression, bindings Bindings, lattice *types.Lattice) []Bindings {
	switch {
	case patternExpr.IsLiteral():
		if target.IsLiteral() && expr.AlwaysEqual(patternExpr, target) {
			return []Bindings{bindings}
		}
		return nil

	case patternExpr.IsIdentifier():
		want := types.TensorType{}
		if t := patternExpr.Type(); t != nil {
			want = *t
		}
		if !typeCompatible(target, want, lattice) {
			return nil
		}
		b2, ok := bindIdentifier(bindings, patternExpr.Name().String(), target)
		if !ok {
			return nil
		}
		return []Bindings{b2}

	case patternExpr.IsComposite():
		if !target.IsComposite() || !patternExpr.Name().Equal(target.Name()) {
			return nil
		}
		info, err := pattern.Build(patternExpr, pattern.FunctionFlags{})
		if err != nil {
			return nil
		}
		return matchChildren(info.Arguments, target.Arguments(), bindings, lattice)
	}
	return nil
}

// matchChildren matches a composite pattern's classified arguments
// against a composite target's actual argument list (spec.md §4.3
// "ArgumentsRange", §4.5 candidate rules), recursing through variadic
// width choices exactly as FindMatches does for the top-level edges.
func matchChildren(infos []pattern.ArgumentInfo, targets []*expr.Expression, bindings Bindings, lattice *types.Lattice) []Bindings {
	if len(infos) == 0 {
		if len(targets) == 0 {
			return []Bindings{bindings}
		}
		return nil
	}
	info, rest := infos[0], infos[1:]

	if info.Kind == pattern.ChildVariadic {
		k := uint32(len(info.Elements))
		if k == 0 {
			return nil
		}
		var results []Bindings
		maxW := info.Cardinality.SaturatedMax()
		for w := info.Cardinality.Min; w <= maxW; w++ {
			consumed := w * k
			if consumed > uint32(len(targets)) {
				break
			}
			group, groupRest := targets[:consumed], targets[consumed:]
			for _, b2 := range matchRepetitions(info.Elements, group, int(w), bindings, lattice) {
				results = append(results, matchChildren(rest, groupRest, b2, lattice)...)
			}
		}
		return results
	}

	if len(targets) == 0 {
		return nil
	}
	t0, trest := targets[0], targets[1:]
	var results []Bindings
	for _, b2 := range matchExpr(info.Pattern, t0, bindings, lattice) {
		results = append(results, matchChildren(rest, trest, b2, lattice)...)
	}
	return results
}

// matchRepetitions matches w consecutive repetitions of a k-element
// sub-pattern (k==1 for a bare x..., k>1 for a $group such as
// f(a,b)...) against group, a w*k-long slice of targets, capturing each
// repetition's bindings into a list per name and tuple-wrapping them on
// return (spec.md §4.5). It fans out across every nested variadic width
// choice inside each repetition's own sub-pattern, not only the widths
// of the repetition itself: a repeated group whose own elements contain
// a further variadic child (e.g. g(f(1, real x...)...), spec.md §8
// scenario 6) must consider every width that inner variadic admits at
// every repetition, not just the first one that happens to match,
// otherwise the outer capture could pick up the wrong per-repetition
// value.
func matchRepetitions(elements []*expr.Expression, group []*expr.Expression, w int, bindings Bindings, lattice *types.Lattice) []Bindings {
	k := len(elements)
	seed := bindings.withCapture()
	// A zero-width repetition (w==0) still binds each directly-named
	// identifier to an empty tuple, rather than leaving it unbound, so a
	// caller can always look up x... (spec.md §4.5: variadic arguments
	// bind even when they match nothing).
	top := seed.capture[len(seed.capture)-1]
	for _, el := range elements {
		if el.IsIdentifier() {
			if _, ok := top[el.Name().String()]; !ok {
				top[el.Name().String()] = []*expr.Expression{}
			}
		}
	}

	states := []Bindings{seed}
	for i := 0; i < w && len(states) > 0; i++ {
		for j := 0; j < k && len(states) > 0; j++ {
			target := group[i*k+j]
			next := make([]Bindings, 0, len(states))
			for _, st := range states {
				next = append(next, matchExpr(elements[j], target, st, lattice)...)
			}
			states = next
		}
	}

	results := make([]Bindings, 0, len(states))
	for _, st := range states {
		if closed, ok := st.closeCapture(); ok {
			results = append(results, closed)
		}
	}
	return results
}
