package namespace

import (
	"testing"

	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/pattern"
)

func TestCanonicalizeAppliesSubstitutionToFixpoint(t *testing.T) {
	ns := New(nil, "test")

	x := expr.MakeIdentifier(nil, "x")
	lhs, err := expr.MakeComposite(nil, "add", []*expr.Expression{x, expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ns.AddSubstitutionAxiom(lhs, x, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}

	start, err := expr.MakeComposite(nil, "add", []*expr.Expression{expr.MakeLiteralInt(5), expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err := ns.Canonicalize(start)
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsLiteral() || out.LiteralInt() != 5 {
		t.Fatalf("add(5,0) should canonicalize to the literal 5, got %s", out.PrintedForm())
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	ns := New(nil, "test")
	x := expr.MakeIdentifier(nil, "x")
	lhs, err := expr.MakeComposite(nil, "add", []*expr.Expression{x, expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ns.AddSubstitutionAxiom(lhs, x, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}

	start, err := expr.MakeComposite(nil, "add", []*expr.Expression{expr.MakeLiteralInt(5), expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}

	once, err := ns.Canonicalize(start)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := ns.Canonicalize(once)
	if err != nil {
		t.Fatal(err)
	}
	if !expr.AlwaysEqual(once, twice) {
		t.Fatalf("canonicalizing an already-canonical expression should be a no-op")
	}
}

func TestCanonicalizeRewritesNestedSubexpressionFirst(t *testing.T) {
	ns := New(nil, "test")
	x := expr.MakeIdentifier(nil, "x")
	lhs, err := expr.MakeComposite(nil, "add", []*expr.Expression{x, expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ns.AddSubstitutionAxiom(lhs, x, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}

	inner, err := expr.MakeComposite(nil, "add", []*expr.Expression{expr.MakeLiteralInt(5), expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := expr.MakeComposite(nil, "wrap", []*expr.Expression{inner}, nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err := ns.Canonicalize(outer)
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsComposite() || out.Name().String() != "wrap" || len(out.Arguments()) != 1 {
		t.Fatalf("expected wrap(5), got %s", out.PrintedForm())
	}
	if !out.Arguments()[0].IsLiteral() || out.Arguments()[0].LiteralInt() != 5 {
		t.Fatalf("nested add(5,0) should have been rewritten to 5, got %s", out.PrintedForm())
	}
}

func TestCanonicalizeBoundedDivergesWithoutFixpoint(t *testing.T) {
	ns := New(nil, "test")
	x := expr.MakeIdentifier(nil, "x")
	lhs, err := expr.MakeComposite(nil, "loop", []*expr.Expression{x}, nil)
	if err != nil {
		t.Fatal(err)
	}
	succ, err := expr.MakeComposite(nil, "s", []*expr.Expression{x}, nil)
	if err != nil {
		t.Fatal(err)
	}
	rhs, err := expr.MakeComposite(nil, "loop", []*expr.Expression{succ}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ns.AddSubstitutionAxiom(lhs, rhs, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}

	start, err := expr.MakeComposite(nil, "loop", []*expr.Expression{expr.MakeLiteralInt(1)}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ns.CanonicalizeBounded(start, 4); err == nil {
		t.Fatalf("expected a diverge-without-fixpoint error, rule rewrites loop(x) to a strictly larger loop(s(x)) forever")
	}
}

func TestChildNamespaceFallsBackToParentAxiom(t *testing.T) {
	parent := New(nil, "parent")
	x := expr.MakeIdentifier(nil, "x")
	lhs, err := expr.MakeComposite(nil, "add", []*expr.Expression{x, expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parent.AddSubstitutionAxiom(lhs, x, pattern.FunctionFlags{}); err != nil {
		t.Fatal(err)
	}

	child := New(parent, "child")
	start, err := expr.MakeComposite(nil, "add", []*expr.Expression{expr.MakeLiteralInt(9), expr.MakeLiteralInt(0)}, nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err := child.Canonicalize(start)
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsLiteral() || out.LiteralInt() != 9 {
		t.Fatalf("child namespace should inherit the parent's add(x,0)->x axiom, got %s", out.PrintedForm())
	}
}
