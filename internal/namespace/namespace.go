// Package namespace ties the matching core together (spec.md §4.6): a
// Namespace owns a scalar-type Lattice, two discrimination trees (one
// for substitution axioms, one for type-inference axioms) and the
// parallel RHS-expression vectors the trees' leaf pattern ids index
// into, and exposes the canonicalize fixpoint loop that repeatedly
// applies type-inference then substitution rewrites until an
// expression's content hash stops changing.
//
// Namespaces chain by parent pointer the way the teacher's
// internal/symbols scope chain does: a child namespace's axioms are
// tried first, falling back to its ancestors, and its Lattice is built
// on top of its parent's so a scalar-type declaration in a child never
// has to repeat the root chain.
package namespace

import (
	"sync"

	"github.com/giucamp/djup/internal/config"
	"github.com/giucamp/djup/internal/diagnostics"
	"github.com/giucamp/djup/internal/discrim"
	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/pattern"
	"github.com/giucamp/djup/internal/subst"
	"github.com/giucamp/djup/internal/types"
)

// Namespace is one scope of declared scalar types and axioms (spec.md
// §3, §4.6).
type Namespace struct {
	parent  *Namespace
	name    string
	lattice *types.Lattice

	substTree  *discrim.Tree
	substRHS   map[uint32]*expr.Expression
	substFlags map[uint32]pattern.FunctionFlags

	typeTree *discrim.Tree
	typeRHS  map[uint32]*expr.Expression

	nextID uint32
}

var (
	rootOnce     sync.Once
	rootInstance *Namespace
)

// Root returns the immutable singleton root Namespace, with the builtin
// scalar lattice installed (spec.md §3: int ⊆ rational ⊆ real ⊆ complex,
// bool disjoint).
func Root() *Namespace {
	rootOnce.Do(func() {
		lat := types.NewLattice(nil)
		chain := config.BuiltinScalarChain
		for i := 0; i < len(chain)-1; i++ {
			lat.Declare(chain[i], []string{chain[i+1]})
		}
		lat.Declare(config.ScalarBool, nil)
		rootInstance = newEmpty(nil, config.RootNamespaceName, lat)
	})
	return rootInstance
}

// New creates a child namespace of parent (Root() if nil), with its own
// fresh Lattice chained to the parent's.
func New(parent *Namespace, name string) *Namespace {
	if parent == nil {
		parent = Root()
	}
	return newEmpty(parent, name, types.NewLattice(parent.lattice))
}

func newEmpty(parent *Namespace, name string, lattice *types.Lattice) *Namespace {
	return &Namespace{
		parent:     parent,
		name:       name,
		lattice:    lattice,
		substTree:  discrim.New(),
		substRHS:   map[uint32]*expr.Expression{},
		substFlags: map[uint32]pattern.FunctionFlags{},
		typeTree:   discrim.New(),
		typeRHS:    map[uint32]*expr.Expression{},
	}
}

// Name returns the namespace's own (non-qualified) name.
func (n *Namespace) Name() string { return n.name }

// Lattice returns this namespace's scalar-type lattice.
func (n *Namespace) Lattice() *types.Lattice { return n.lattice }

// AddScalarType declares name as a subset of each of supersets in this
// namespace's own lattice (spec.md §3).
func (n *Namespace) AddScalarType(name string, supersets []string) error {
	return n.lattice.Declare(name, supersets)
}

// AddSubstitutionAxiom registers lhs -> rhs as a rewrite rule (spec.md
// §4.6): whenever canonicalize finds a subexpression matching lhs, it is
// replaced by rhs with the match's bindings substituted in.
func (n *Namespace) AddSubstitutionAxiom(lhs, rhs *expr.Expression, flags pattern.FunctionFlags) (uint32, error) {
	id := n.nextID
	n.nextID++
	if err := n.substTree.Add(id, lhs, flags); err != nil {
		return 0, err
	}
	n.substRHS[id] = rhs
	n.substFlags[id] = flags
	return id, nil
}

// AddTypeInferenceAxiom registers lhs -> rhs as a type-inference rule
// (spec.md §4.6): these run before substitution axioms on each
// canonicalize pass, letting a rewrite rule rely on a freshly-inferred
// type. A match installs rhs's type (after bindings substitution) onto
// the matched expression itself; it never replaces the expression the
// way a substitution axiom does.
func (n *Namespace) AddTypeInferenceAxiom(lhs, rhs *expr.Expression, flags pattern.FunctionFlags) (uint32, error) {
	id := n.nextID
	n.nextID++
	if err := n.typeTree.Add(id, lhs, flags); err != nil {
		return 0, err
	}
	n.typeRHS[id] = rhs
	return id, nil
}

// ruleKind selects which of a namespace's two discrimination trees a
// rewrite pass consults.
type ruleKind int

const (
	ruleType ruleKind = iota
	ruleSubst
)

// Canonicalize repeatedly applies type-inference then substitution
// rewrites, innermost subexpression first, until the expression's
// content hash stops changing (spec.md §4.6, invariant: "canonicalize is
// idempotent once it returns"). It has no step cap: an axiom set that
// never reaches a fixpoint keeps it looping, and it never returns
// diagnostics.ErrDivergeNoFixpoint; CanonicalizeBounded is the capped form.
func (n *Namespace) Canonicalize(e *expr.Expression) (*expr.Expression, error) {
	cur := e
	for {
		next, err := n.rewriteOnce(cur, ruleType)
		if err == nil {
			next, err = n.rewriteOnce(next, ruleSubst)
		}
		if err != nil {
			return cur, err
		}
		if expr.AlwaysEqual(next, cur) {
			return next, nil
		}
		cur = next
	}
}

// CanonicalizeBounded is Canonicalize with an explicit step cap; 0
// selects config.DefaultCanonicalizeBound. It returns
// diagnostics.ErrDivergeNoFixpoint, along with the last intermediate
// result, if the cap is reached without the hash stabilizing, or
// diagnostics.ErrStructTypeConflict if a type-inference axiom disagrees
// with a type already installed on the expression it matched.
func (n *Namespace) CanonicalizeBounded(e *expr.Expression, maxSteps int) (*expr.Expression, error) {
	if maxSteps <= 0 {
		maxSteps = config.DefaultCanonicalizeBound
	}
	cur := e
	for step := 0; step < maxSteps; step++ {
		next, err := n.rewriteOnce(cur, ruleType)
		if err != nil {
			return cur, err
		}
		next, err = n.rewriteOnce(next, ruleSubst)
		if err != nil {
			return cur, err
		}
		if expr.AlwaysEqual(next, cur) {
			return next, nil
		}
		cur = next
	}
	return cur, diagnostics.New(diagnostics.ErrDivergeNoFixpoint,
		"canonicalization of %s did not reach a fixpoint within %d steps", cur.PrintedForm(), maxSteps)
}

// rewriteOnce rewrites e's children first (innermost-first, the order
// spec.md §4.6 requires so an outer axiom sees already-canonical
// arguments), then tries a rewrite at e itself.
func (n *Namespace) rewriteOnce(e *expr.Expression, kind ruleKind) (*expr.Expression, error) {
	if e.IsComposite() {
		args := e.Arguments()
		newArgs := make([]*expr.Expression, len(args))
		changed := false
		for i, a := range args {
			na, err := n.rewriteOnce(a, kind)
			if err != nil {
				return nil, err
			}
			newArgs[i] = na
			if na != a {
				changed = true
			}
		}
		cur := e
		if changed {
			if rebuilt, err := expr.MakeComposite(e.Type(), e.Name().String(), newArgs, nil); err == nil {
				cur = rebuilt
			}
		}
		return n.tryRewriteAt(cur, kind)
	}
	return n.tryRewriteAt(e, kind)
}

// tryRewriteAt searches this namespace then its ancestors, most specific
// first, for an axiom matching e, applying the first one found (spec.md
// §4.6 does not require trying every matching axiom at one site — one
// rewrite per visit is enough to make progress toward a fixpoint).
//
// A substitution axiom (ruleSubst) replaces e outright with the
// bindings-applied RHS. A type-inference axiom (ruleType) never
// replaces e: spec.md §4.6 step 1 requires its RHS's type to be
// "installed as the expression's type", so only e.Type() changes, via
// installType, while e's name/arguments/literal value are untouched.
// The other type-inference solutions found in the same namespace are
// checked as well: one inferring a different type is reported as
// diagnostics.ErrStructTypeConflict.
func (n *Namespace) tryRewriteAt(e *expr.Expression, kind ruleKind) (*expr.Expression, error) {
	for ns := n; ns != nil; ns = ns.parent {
		tree, rhsMap := ns.substTree, ns.substRHS
		if kind == ruleType {
			tree, rhsMap = ns.typeTree, ns.typeRHS
		}
		solutions := subst.FindMatches(tree, e, n.lattice, nil)
		if len(solutions) == 0 {
			continue
		}
		template, ok := rhsMap[solutions[0].PatternID]
		if !ok {
			continue
		}
		out, err := ApplySubstitutions(template, solutions[0].Bindings)
		if err != nil {
			continue
		}
		if kind == ruleType {
			for _, s := range solutions[1:] {
				other, ok := rhsMap[s.PatternID]
				if !ok {
					continue
				}
				if o, err := ApplySubstitutions(other, s.Bindings); err == nil && o.Type() != nil && out.Type() != nil && !o.Type().Equal(*out.Type()) {
					return nil, diagnostics.New(diagnostics.ErrStructTypeConflict,
						"type-inference axioms %d and %d infer conflicting types for %s", solutions[0].PatternID, s.PatternID, e.PrintedForm())
				}
			}
			return installType(e, out.Type())
		}
		return out, nil
	}
	return e, nil
}

// installType sets inferred as e's type without discarding e the way a
// substitution axiom discards its match (spec.md §4.6 step 1). A nil
// inferred type (the RHS template carries no type annotation) is a
// no-op; a non-nil inferred type that disagrees with one e already
// carries is rejected as diagnostics.ErrStructTypeConflict (spec.md §9
// Open Question 2: the first-installed type wins, a later conflicting
// match is an error).
func installType(e *expr.Expression, inferred *types.TensorType) (*expr.Expression, error) {
	if inferred == nil {
		return e, nil
	}
	if existing := e.Type(); existing != nil && !existing.Equal(*inferred) {
		return nil, diagnostics.New(diagnostics.ErrStructTypeConflict,
			"conflicting inferred types for %s", e.PrintedForm())
	}
	return expr.WithType(e, inferred), nil
}

// ApplySubstitutions rewrites template by replacing every identifier
// whose name appears in bindings with its bound value (spec.md §4.6
// apply_substitutions). An identifier bound to an anonymous tuple
// expression (the captured repetition of a variadic pattern argument,
// spec.md §4.5 "Tuple-wrapping on scope close") and appearing as a
// direct argument of a composite is flattened back into that composite's
// argument list rather than substituted as one nested tuple value, so
// real x... on the LHS turns back into a flat, variable-length argument
// run on the RHS.
func ApplySubstitutions(template *expr.Expression, bindings map[string]*expr.Expression) (*expr.Expression, error) {
	if template.IsIdentifier() {
		if bound, ok := bindings[template.Name().String()]; ok {
			return bound, nil
		}
		return template, nil
	}
	if !template.IsComposite() {
		return template, nil
	}

	args := template.Arguments()
	newArgs := make([]*expr.Expression, 0, len(args))
	for _, a := range args {
		if a.IsIdentifier() {
			if bound, ok := bindings[a.Name().String()]; ok {
				if bound.IsComposite() && bound.Name().IsAnonymous() {
					newArgs = append(newArgs, bound.Arguments()...)
					continue
				}
				newArgs = append(newArgs, bound)
				continue
			}
		}
		sub, err := ApplySubstitutions(a, bindings)
		if err != nil {
			return nil, err
		}
		newArgs = append(newArgs, sub)
	}
	return expr.MakeComposite(template.Type(), template.Name().String(), newArgs, nil)
}
