// Package discrim implements the discrimination tree (spec.md §4.4): a
// multi-pattern index whose edges are labeled by pattern prefixes so
// Namespace can prefilter which registered patterns could possibly match
// a target before internal/subst does the real work.
//
// Grounded on the original djup source's pattern/discrimination_net.cpp
// shared-prefix trie idea, reconstructed for Go using a recursive,
// structurally-deduplicating builder (addSequence below) rather than
// porting the C++ pointer graph directly.
package discrim

import (
	"github.com/giucamp/djup/internal/diagnostics"
	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/pattern"
	"github.com/giucamp/djup/internal/types"
)

// NodeID is a stable 32-bit node identifier (spec.md §4.4).
type NodeID uint32

// EdgeKind discriminates the four edge shapes spec.md §4.4 names.
type EdgeKind int

const (
	EdgeLiteral EdgeKind = iota
	EdgeNameCall
	EdgeTypedIdentifier
	EdgeVariadic
)

// Edge is one discriminating step out of a Node.
type Edge struct {
	Kind EdgeKind

	Literal        *expr.Expression  // EdgeLiteral: the literal to match exactly
	Name           string            // EdgeNameCall: the function name
	IdentifierType *types.TensorType // EdgeTypedIdentifier: declared type
	IdentifierName string            // EdgeTypedIdentifier: the pattern variable's name
	Cardinality    types.Range       // EdgeVariadic: repetition cardinality
	Elements       []*expr.Expression // EdgeVariadic: the k sub-pattern elements of one repetition
	SubEdges       []*Edge            // EdgeVariadic: edges of one repetition body, for prefix sharing

	// Commutative is a per-call-edge extension point for the
	// acknowledged-open associative/commutative matching feature
	// (spec.md §9 Design Notes). It is never set to true by Add today.
	Commutative bool

	Dest *Node // continuation: the node for whatever the pattern has after this element
}

// Node is one point in the tree. LeafPatternID is non-nil when some
// registered pattern's prefix ends exactly here.
type Node struct {
	ID            NodeID
	Edges         []*Edge
	LeafPatternID *uint32
}

// Tree is the discrimination tree itself: a root Node plus bookkeeping
// to reject duplicate pattern ids (spec.md §4.4: "duplicate pattern_id is
// an error").
type Tree struct {
	root    *Node
	nodes   []*Node
	usedIDs map[uint32]bool
}

// New creates an empty discrimination tree with just a root node.
func New() *Tree {
	t := &Tree{usedIDs: make(map[uint32]bool)}
	t.root = t.newNode()
	return t
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

func (t *Tree) newNode() *Node {
	n := &Node{ID: NodeID(len(t.nodes))}
	t.nodes = append(t.nodes, n)
	return n
}

// Add indexes patternExpr under patternID (spec.md §4.4). patternExpr is
// normally a composite (the pattern's LHS call); literals and bare
// identifiers are accepted too and simply produce a one-edge path.
func (t *Tree) Add(patternID uint32, patternExpr *expr.Expression, flags pattern.FunctionFlags) error {
	if t.usedIDs[patternID] {
		return diagnostics.New(diagnostics.ErrStructDuplicatePatternID, "pattern id %d already registered", patternID)
	}
	final, err := t.addSequence(t.root, []*expr.Expression{patternExpr})
	if err != nil {
		return err
	}
	if final.LeafPatternID != nil {
		return diagnostics.New(diagnostics.ErrStructDuplicatePatternID,
			"pattern id %d collides with pattern id %d: identical pattern already registered", patternID, *final.LeafPatternID)
	}
	id := patternID
	final.LeafPatternID = &id
	t.usedIDs[patternID] = true
	return nil
}

// addSequence walks a sibling list of pattern elements in order starting
// at node, reusing structurally-identical edges and creating new ones as
// needed, and returns the node reached after the whole list is consumed.
// Descending into a composite-call's own children, or into a variadic's
// repetition body, happens inline and then control returns to continue
// the outer sequence — this single recursive walk is what gives the tree
// shared structure across prefixes of different registered patterns.
func (t *Tree) addSequence(node *Node, elements []*expr.Expression) (*Node, error) {
	if len(elements) == 0 {
		return node, nil
	}
	el := elements[0]
	rest := elements[1:]

	if el.IsComposite() {
		if card, ok := pattern.WrapperCardinality(el.Name().String()); ok {
			subElems, err := pattern.UnwrapVariadic(el)
			if err != nil {
				return nil, err
			}
			edge := t.findOrCreateVariadicEdge(node, card, subElems)
			return t.addSequence(edge.Dest, rest)
		}
		edge := t.findOrCreateNameEdge(node, el.Name().String())
		innerEnd, err := t.addSequence(edge.Dest, el.Arguments())
		if err != nil {
			return nil, err
		}
		return t.addSequence(innerEnd, rest)
	}

	if el.IsIdentifier() {
		var typ types.TensorType
		if t := el.Type(); t != nil {
			typ = *t
		}
		edge := t.findOrCreateTypedIdentifierEdge(node, typ, el.Name().String())
		return t.addSequence(edge.Dest, rest)
	}

	// Literal.
	edge := t.findOrCreateLiteralEdge(node, el)
	return t.addSequence(edge.Dest, rest)
}

func (t *Tree) findOrCreateLiteralEdge(node *Node, lit *expr.Expression) *Edge {
	for _, e := range node.Edges {
		if e.Kind == EdgeLiteral && expr.AlwaysEqual(e.Literal, lit) {
			return e
		}
	}
	e := &Edge{Kind: EdgeLiteral, Literal: lit, Dest: t.newNode()}
	node.Edges = append(node.Edges, e)
	return e
}

func (t *Tree) findOrCreateNameEdge(node *Node, name string) *Edge {
	for _, e := range node.Edges {
		if e.Kind == EdgeNameCall && e.Name == name {
			return e
		}
	}
	e := &Edge{Kind: EdgeNameCall, Name: name, Dest: t.newNode()}
	node.Edges = append(node.Edges, e)
	return e
}

func (t *Tree) findOrCreateTypedIdentifierEdge(node *Node, typ types.TensorType, name string) *Edge {
	for _, e := range node.Edges {
		if e.Kind == EdgeTypedIdentifier && e.IdentifierName == name && e.IdentifierType != nil && e.IdentifierType.Equal(typ) {
			return e
		}
	}
	typCopy := typ
	e := &Edge{Kind: EdgeTypedIdentifier, IdentifierType: &typCopy, IdentifierName: name, Dest: t.newNode()}
	node.Edges = append(node.Edges, e)
	return e
}

func (t *Tree) findOrCreateVariadicEdge(node *Node, card types.Range, elements []*expr.Expression) *Edge {
	for _, e := range node.Edges {
		if e.Kind == EdgeVariadic && e.Cardinality == card && sameElements(e.Elements, elements) {
			return e
		}
	}
	bodyRoot := t.newNode()
	t.addSequence(bodyRoot, elements)
	e := &Edge{Kind: EdgeVariadic, Cardinality: card, Elements: elements, SubEdges: bodyRoot.Edges, Dest: t.newNode()}
	node.Edges = append(node.Edges, e)
	return e
}

func sameElements(a, b []*expr.Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !expr.AlwaysEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
