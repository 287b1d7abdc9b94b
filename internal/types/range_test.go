package types

import (
	"testing"

	"github.com/giucamp/djup/internal/config"
)

func TestRangeAddSaturates(t *testing.T) {
	sum := OneOrMore.Add(One)
	if sum.Min != 2 || sum.Max != config.Infinity {
		t.Fatalf("OneOrMore.Add(One) = %+v, want min=2 max=Infinity", sum)
	}

	finite := One.Add(One)
	if finite.Min != 2 || finite.Max != 2 {
		t.Fatalf("One.Add(One) = %+v, want {2,2}", finite)
	}
}

func TestRangeContains(t *testing.T) {
	if !ZeroOrMore.Contains(0) || !ZeroOrMore.Contains(1000) {
		t.Fatalf("ZeroOrMore should contain 0 and any large value")
	}
	if Optional.Contains(2) {
		t.Fatalf("Optional [0,1] should not contain 2")
	}
}

func TestRangeIsEmpty(t *testing.T) {
	if !Empty.IsEmpty() {
		t.Fatalf("Empty range should report IsEmpty")
	}
	if One.IsEmpty() {
		t.Fatalf("One should not report IsEmpty")
	}
}
