package types

import "github.com/giucamp/djup/internal/diagnostics"

// Lattice is a per-Namespace scalar-type partial order induced by a
// user-declared subset relation (spec.md §3: "int ⊆ rational ⊆ real ⊆
// complex, bool disjoint"). Lookup walks the parent chain the way a
// teacher SymbolTable walks its outer scope chain (internal/symbols),
// except here the edges are declared subset relations rather than
// lexical scoping.
type Lattice struct {
	parent  *Lattice
	parents map[string][]string // name -> immediate declared supersets
}

// NewLattice creates a lattice chained to an optional parent (nil for a
// root Namespace's own fresh lattice).
func NewLattice(parent *Lattice) *Lattice {
	return &Lattice{parent: parent, parents: make(map[string][]string)}
}

// Declare records that name is a subset of each of supersets. It rejects
// a declaration that would introduce a cycle (spec.md invariant 6).
func (l *Lattice) Declare(name string, supersets []string) error {
	for _, sup := range supersets {
		if sup == name || l.isSubsetOf(sup, name) {
			return diagnostics.New(diagnostics.ErrStructLatticeCycle,
				"declaring %q as subset of %q would create a cycle", name, sup)
		}
	}
	l.parents[name] = append(l.parents[name], supersets...)
	return nil
}

// IsSubsetOf reports whether candidate is a reflexive-transitive subset
// of target, per spec.md invariant 6 ("reflexive and transitive").
func (l *Lattice) IsSubsetOf(candidate, target string) bool {
	return l.isSubsetOf(candidate, target)
}

func (l *Lattice) isSubsetOf(candidate, target string) bool {
	if candidate == target {
		return true
	}
	visited := make(map[string]bool)
	return l.reaches(candidate, target, visited)
}

func (l *Lattice) reaches(from, target string, visited map[string]bool) bool {
	if from == target {
		return true
	}
	if visited[from] {
		return false
	}
	visited[from] = true
	for _, sup := range l.directParents(from) {
		if l.reaches(sup, target, visited) {
			return true
		}
	}
	return false
}

// directParents returns the immediate declared supersets of name,
// searching this lattice then its parent chain — the first lattice
// declaring any edges for name wins, matching a lexical-scope lookup.
func (l *Lattice) directParents(name string) []string {
	for cur := l; cur != nil; cur = cur.parent {
		if ps, ok := cur.parents[name]; ok {
			return ps
		}
	}
	return nil
}
