package subst

import (
	"testing"

	"github.com/giucamp/djup/internal/discrim"
	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/pattern"
	"github.com/giucamp/djup/internal/types"
)

func buildTree(t *testing.T, lhs *expr.Expression) *discrim.Tree {
	t.Helper()
	tree := discrim.New()
	if err := tree.Add(0, lhs, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestFindMatchesLiteral(t *testing.T) {
	lat := types.NewLattice(nil)
	tree := buildTree(t, expr.MakeLiteralInt(7))

	hits := FindMatches(tree, expr.MakeLiteralInt(7), lat, nil)
	if len(hits) != 1 {
		t.Fatalf("got %d solutions, want 1", len(hits))
	}

	miss := FindMatches(tree, expr.MakeLiteralInt(8), lat, nil)
	if len(miss) != 0 {
		t.Fatalf("got %d solutions for a non-matching literal, want 0", len(miss))
	}
}

func TestFindMatchesTypedIdentifier(t *testing.T) {
	lat := types.NewLattice(nil)
	if err := lat.Declare("int", []string{"real"}); err != nil {
		t.Fatal(err)
	}

	typ := &types.TensorType{Scalar: "real"}
	x := expr.MakeIdentifier(typ, "x")
	tree := buildTree(t, x)

	target, err := expr.MakeComposite(&types.TensorType{Scalar: "int"}, "v", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	hits := FindMatches(tree, target, lat, nil)
	if len(hits) != 1 {
		t.Fatalf("got %d solutions matching x:real against an int-typed value, want 1", len(hits))
	}
	if hits[0].Bindings["x"] != target {
		t.Fatalf("x should be bound to the target expression")
	}

	mismatch, err := expr.MakeComposite(&types.TensorType{Scalar: "bool"}, "v", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if misses := FindMatches(tree, mismatch, lat, nil); len(misses) != 0 {
		t.Fatalf("x:real should not match a bool-typed value, got %d solutions", len(misses))
	}
}

func TestFindMatchesVariadicSplitCount(t *testing.T) {
	lat := types.NewLattice(nil)
	xs := expr.MakeIdentifier(nil, "xs")
	ys := expr.MakeIdentifier(nil, "ys")
	xsRep, err := pattern.WrapZeroOrMoreExpr(xs)
	if err != nil {
		t.Fatal(err)
	}
	ysRep, err := pattern.WrapZeroOrMoreExpr(ys)
	if err != nil {
		t.Fatal(err)
	}
	lhs, err := expr.MakeComposite(nil, "f", []*expr.Expression{xsRep, ysRep}, nil)
	if err != nil {
		t.Fatal(err)
	}
	tree := buildTree(t, lhs)

	target, err := expr.MakeComposite(nil, "f", []*expr.Expression{
		expr.MakeLiteralInt(1), expr.MakeLiteralInt(2), expr.MakeLiteralInt(3),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	hits := FindMatches(tree, target, lat, nil)
	if len(hits) != 4 {
		t.Fatalf("f(xs...,ys...) against a 3-ary call should yield 4 (n+1) solutions, got %d", len(hits))
	}
}

func TestFindMatchesNameCallArityMismatch(t *testing.T) {
	lat := types.NewLattice(nil)
	x := expr.MakeIdentifier(nil, "x")
	lhs, err := expr.MakeComposite(nil, "f", []*expr.Expression{x}, nil)
	if err != nil {
		t.Fatal(err)
	}
	tree := buildTree(t, lhs)

	target, err := expr.MakeComposite(nil, "f", []*expr.Expression{
		expr.MakeLiteralInt(1), expr.MakeLiteralInt(2),
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	hits := FindMatches(tree, target, lat, nil)
	if len(hits) != 0 {
		t.Fatalf("f(x) should not match a 2-ary call, got %d solutions", len(hits))
	}
}
