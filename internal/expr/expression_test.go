package expr

import "testing"

func TestLiteralHashIntegrity(t *testing.T) {
	a := MakeLiteralInt(42)
	b := MakeLiteralInt(42)
	if a.ContentHash() != b.ContentHash() {
		t.Fatalf("identical int literals hashed differently: %d vs %d", a.ContentHash(), b.ContentHash())
	}
	if !AlwaysEqual(a, b) {
		t.Fatalf("identical int literals should be AlwaysEqual")
	}

	c := MakeLiteralInt(43)
	if a.ContentHash() == c.ContentHash() {
		t.Fatalf("distinct int literals hashed the same")
	}
	if AlwaysEqual(a, c) {
		t.Fatalf("distinct int literals should not be AlwaysEqual")
	}
}

func TestCompositeHashOrderSensitive(t *testing.T) {
	one := MakeLiteralInt(1)
	two := MakeLiteralInt(2)

	ab, err := MakeComposite(nil, "f", []*Expression{one, two}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := MakeComposite(nil, "f", []*Expression{two, one}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if AlwaysEqual(ab, ba) {
		t.Fatalf("f(1,2) and f(2,1) must not be equal")
	}

	ab2, err := MakeComposite(nil, "f", []*Expression{one, two}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !AlwaysEqual(ab, ab2) {
		t.Fatalf("structurally identical composites must be AlwaysEqual")
	}
}

func TestMakeCompositeRejectsNilChild(t *testing.T) {
	_, err := MakeComposite(nil, "f", []*Expression{nil}, nil)
	if err == nil {
		t.Fatalf("expected an error for a nil composite argument")
	}
}

func TestIsConstantPropagation(t *testing.T) {
	one := MakeLiteralInt(1)
	two := MakeLiteralInt(2)
	composite, err := MakeComposite(nil, "f", []*Expression{one, two}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !composite.Metadata().IsConstant {
		t.Fatalf("composite of two constants should be constant")
	}

	x := MakeIdentifier(nil, "x")
	withVar, err := MakeComposite(nil, "f", []*Expression{one, x}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if withVar.Metadata().IsConstant {
		t.Fatalf("composite with an identifier child should not be constant")
	}
}

func TestPredicates(t *testing.T) {
	lit := MakeLiteralBool(true)
	if !lit.IsLiteral() || lit.IsIdentifier() || lit.IsComposite() {
		t.Fatalf("literal predicate mismatch")
	}
	ident := MakeIdentifier(nil, "y")
	if !ident.IsIdentifier() || ident.IsLiteral() || ident.IsComposite() {
		t.Fatalf("identifier predicate mismatch")
	}
	call, err := MakeComposite(nil, "g", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !call.IsComposite() || !call.IsCall() || call.IsLiteral() {
		t.Fatalf("composite predicate mismatch")
	}
}
