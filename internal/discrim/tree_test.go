package discrim

import (
	"testing"

	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/pattern"
)

func TestAddSharesPrefix(t *testing.T) {
	tree := New()
	x := expr.MakeIdentifier(nil, "x")
	y := expr.MakeIdentifier(nil, "y")

	lhs1, err := expr.MakeComposite(nil, "f", []*expr.Expression{x, expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	lhs2, err := expr.MakeComposite(nil, "f", []*expr.Expression{y, expr.MakeLiteralInt(1)}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := tree.Add(0, lhs1, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}
	if err := tree.Add(1, lhs2, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}

	root := tree.Root()
	if len(root.Edges) != 1 {
		t.Fatalf("both patterns start with the same name-call edge, want 1 root edge, got %d", len(root.Edges))
	}
	nameEdge := root.Edges[0]
	if nameEdge.Kind != EdgeNameCall || nameEdge.Name != "f" {
		t.Fatalf("expected a shared f(...) name-call edge")
	}
}

func TestAddRejectsDuplicatePatternID(t *testing.T) {
	tree := New()
	lhs, err := expr.MakeComposite(nil, "f", []*expr.Expression{expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Add(0, lhs, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}
	other, err := expr.MakeComposite(nil, "g", []*expr.Expression{expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Add(0, other, pattern.FunctionFlags{}); err == nil {
		t.Fatalf("expected an error re-registering pattern id 0")
	}
}

func TestAddRejectsDuplicatePattern(t *testing.T) {
	tree := New()
	lhs1, err := expr.MakeComposite(nil, "f", []*expr.Expression{expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	lhs2, err := expr.MakeComposite(nil, "f", []*expr.Expression{expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Add(0, lhs1, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}
	if err := tree.Add(1, lhs2, pattern.FunctionFlags{}); err == nil {
		t.Fatalf("expected an error registering a structurally identical pattern under a new id")
	}
}
