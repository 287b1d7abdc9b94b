package pattern

import (
	"testing"

	"github.com/giucamp/djup/internal/expr"
	"github.com/giucamp/djup/internal/types"
)

func TestBuildOrdinaryArguments(t *testing.T) {
	x := expr.MakeIdentifier(nil, "x")
	y := expr.MakeIdentifier(nil, "y")
	pat, err := expr.MakeComposite(nil, "f", []*expr.Expression{x, y}, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, err := Build(pat, FunctionFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if info.ArgumentsRange != types.One.Add(types.One) {
		t.Fatalf("ArgumentsRange = %+v, want {2,2}", info.ArgumentsRange)
	}
	if info.Arguments[0].Kind != ChildIdentifier || info.Arguments[1].Kind != ChildIdentifier {
		t.Fatalf("expected both arguments classified as identifiers")
	}
	if info.Arguments[0].Remaining != types.One {
		t.Fatalf("Remaining of first argument = %+v, want {1,1}", info.Arguments[0].Remaining)
	}
	if info.Arguments[1].Remaining != (types.Range{}) {
		t.Fatalf("Remaining of last argument = %+v, want {0,0}", info.Arguments[1].Remaining)
	}
}

func TestBuildVariadicArgument(t *testing.T) {
	xs := expr.MakeIdentifier(nil, "xs")
	wrapped, err := WrapZeroOrMoreExpr(xs)
	if err != nil {
		t.Fatal(err)
	}
	pat, err := expr.MakeComposite(nil, "f", []*expr.Expression{wrapped}, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, err := Build(pat, FunctionFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if info.Arguments[0].Kind != ChildVariadic {
		t.Fatalf("wrapped argument should classify as ChildVariadic")
	}
	if info.Arguments[0].Cardinality != types.ZeroOrMore {
		t.Fatalf("cardinality = %+v, want ZeroOrMore", info.Arguments[0].Cardinality)
	}
	if len(info.Arguments[0].Elements) != 1 {
		t.Fatalf("expected a single sub-pattern element, got %d", len(info.Arguments[0].Elements))
	}
}

func TestBuildGroupRepetition(t *testing.T) {
	a := expr.MakeIdentifier(nil, "a")
	b := expr.MakeIdentifier(nil, "b")
	group, err := WrapGroupExpr([]*expr.Expression{a, b})
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := WrapOneOrMoreExpr(group)
	if err != nil {
		t.Fatal(err)
	}
	pat, err := expr.MakeComposite(nil, "f", []*expr.Expression{wrapped}, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, err := Build(pat, FunctionFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if len(info.Arguments[0].Elements) != 2 {
		t.Fatalf("group repetition should flatten to k=2 sub-pattern elements, got %d", len(info.Arguments[0].Elements))
	}
}

func TestWrapGroupExprRejectsEmpty(t *testing.T) {
	if _, err := WrapGroupExpr(nil); err == nil {
		t.Fatalf("expected an error wrapping an empty repetition group")
	}
}
