// Package djup is the public embedding API for the symbolic matching
// core, mirroring the shape of the teacher's pkg/embed VM wrapper: a
// small facade over the internal packages (expression DAG, namespace,
// pattern matching) that a host program links against directly, with no
// parser or CLI surface (spec.md §1 non-goals).
package djup

import (
	"github.com/giucamp/djup/internal/diagnostics"
	"github.com/giucamp/djup/internal/discrim"
	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/namespace"
	"github.com/giucamp/djup/internal/pattern"
	"github.com/giucamp/djup/internal/subst"
	"github.com/giucamp/djup/internal/trace"
	"github.com/giucamp/djup/internal/types"
)

// Expression is the DAG node type callers build terms from and receive
// results as. It is a thin alias so host code never imports
// internal/expr directly.
type Expression = expr.Expression

// Scalar builds a TensorType with no shape constraint for the named
// scalar (e.g. djup.Scalar("int")).
func Scalar(name string) types.TensorType {
	return types.TensorType{Scalar: name, Shape: types.UnknownShape}
}

// Int, Bool and Opaque build literal expressions.
func Int(v int64) *Expression       { return expr.MakeLiteralInt(v) }
func Bool(v bool) *Expression       { return expr.MakeLiteralBool(v) }
func Opaque(printed string) *Expression { return expr.MakeOpaqueConstant(printed) }

// Identifier builds a typed pattern variable.
func Identifier(typ types.TensorType, name string) *Expression {
	t := typ
	return expr.MakeIdentifier(&t, name)
}

// Call builds a composite expression (a named function call, or an
// anonymous tuple if name is "").
func Call(name string, args ...*Expression) (*Expression, error) {
	return expr.MakeComposite(nil, name, args, nil)
}

// Namespace is the public handle to a scope of declared scalar types and
// rewrite axioms (spec.md §3, §4.6).
type Namespace struct {
	ns *namespace.Namespace
}

// RootNamespace returns the shared immutable root namespace, with the
// builtin int/rational/real/complex/bool lattice installed.
func RootNamespace() *Namespace {
	return &Namespace{ns: namespace.Root()}
}

// NewNamespace creates a child namespace of parent (the root namespace
// if parent is nil).
func NewNamespace(parent *Namespace, name string) *Namespace {
	var p *namespace.Namespace
	if parent != nil {
		p = parent.ns
	}
	return &Namespace{ns: namespace.New(p, name)}
}

// AddScalarType declares a new scalar type as a subset of supersets.
func (n *Namespace) AddScalarType(name string, supersets ...string) error {
	return n.ns.AddScalarType(name, supersets)
}

// AddSubstitutionAxiom registers lhs -> rhs as a rewrite rule.
func (n *Namespace) AddSubstitutionAxiom(lhs, rhs *Expression, commutative, associative bool) (uint32, error) {
	return n.ns.AddSubstitutionAxiom(lhs, rhs, pattern.FunctionFlags{Commutative: commutative, Associative: associative})
}

// AddTypeInferenceAxiom registers lhs -> rhs as a type-inference rule,
// applied before substitution axioms on every canonicalize pass. Unlike
// a substitution axiom, a match never replaces the matched expression:
// only rhs's type is installed onto it, rejecting a contradiction with
// any type the expression already carries.
func (n *Namespace) AddTypeInferenceAxiom(lhs, rhs *Expression) (uint32, error) {
	return n.ns.AddTypeInferenceAxiom(lhs, rhs, pattern.FunctionFlags{})
}

// Canonicalize rewrites e to a fixpoint under this namespace's axioms.
func (n *Namespace) Canonicalize(e *Expression) (*Expression, error) {
	return n.ns.Canonicalize(e)
}

// CanonicalizeBounded is Canonicalize with an explicit step cap.
func (n *Namespace) CanonicalizeBounded(e *Expression, maxSteps int) (*Expression, error) {
	return n.ns.CanonicalizeBounded(e, maxSteps)
}

// Pattern is a single compiled pattern over its own private
// discrimination tree, for callers that want to match one expression
// against one pattern without registering a whole namespace axiom
// (spec.md §4.4, §4.5).
type Pattern struct {
	tree    *discrim.Tree
	lattice *types.Lattice
}

// NewPattern compiles lhs (a composite, identifier or literal) into a
// one-pattern discrimination tree, classified under flags and checked
// against ns's scalar lattice.
func NewPattern(ns *Namespace, lhs *Expression, commutative, associative bool) (*Pattern, error) {
	if ns == nil {
		ns = RootNamespace()
	}
	tree := discrim.New()
	if err := tree.Add(0, lhs, pattern.FunctionFlags{Commutative: commutative, Associative: associative}); err != nil {
		return nil, err
	}
	return &Pattern{tree: tree, lattice: ns.ns.Lattice()}, nil
}

// MatchResult is one successful match: the bound value for each named
// pattern variable.
type MatchResult struct {
	Bindings map[string]*Expression
}

// MatchOne returns the first Solution matching target, or ok=false if
// none exists.
func (p *Pattern) MatchOne(target *Expression) (MatchResult, bool) {
	all := p.MatchAll(target, "")
	if len(all) == 0 {
		return MatchResult{}, false
	}
	return all[0], true
}

// MatchAll returns every Solution matching target (spec.md §3: a single
// target may yield more than one Solution when a variadic argument
// admits more than one width). If artifactDir is non-empty, the match
// is also recorded through internal/trace as a step-by-step artifact
// (spec.md §7).
func (p *Pattern) MatchAll(target *Expression, artifactDir string) []MatchResult {
	var recorder *trace.Recorder
	var onStep func(subst.StepEvent)
	if artifactDir != "" {
		recorder = trace.NewRecorder(artifactDir)
		onStep = recorder.OnStep
	}

	solutions := subst.FindMatches(p.tree, target, p.lattice, onStep)

	if recorder != nil {
		recorder.Flush()
	}

	results := make([]MatchResult, len(solutions))
	for i, s := range solutions {
		results[i] = MatchResult{Bindings: s.Bindings}
	}
	return results
}

// Diagnostic re-exports the internal diagnostics.Diagnostic type so
// callers can type-assert on errors returned by this package without
// importing internal/diagnostics directly.
type Diagnostic = diagnostics.Diagnostic
