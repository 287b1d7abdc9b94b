package expr

import "github.com/giucamp/djup/internal/types"

// AlwaysEqual implements structural equality (spec.md §4.1): O(1) on
// hash, falling back to a structural walk only to rule out a collision
// (spec.md invariant 3: "hash collisions imply structural equality,
// verified lazily on lookup").
func AlwaysEqual(a, b *Expression) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.hash != b.hash {
		return false
	}
	return structurallyEqual(a, b)
}

// AlwaysEqual on *Expression implements types.HashableTerm so a
// VariableShape can wrap an expression without internal/types importing
// internal/expr.
func (e *Expression) AlwaysEqual(other types.HashableTerm) bool {
	o, ok := other.(*Expression)
	if !ok {
		return false
	}
	return AlwaysEqual(e, o)
}

func structurallyEqual(a, b *Expression) bool {
	if a.k != b.k {
		return false
	}
	if !a.name.Equal(b.name) {
		return false
	}
	if !typesEqual(a.typ, b.typ) {
		return false
	}
	if a.metadata.IsConstant != b.metadata.IsConstant {
		return false
	}
	switch a.k {
	case kindLiteralBool:
		return a.literalBool == b.literalBool
	case kindLiteralInt:
		return a.literalInt == b.literalInt
	case kindLiteralOpaque:
		return a.literalText == b.literalText
	case kindIdentifier:
		return true
	case kindComposite:
		if len(a.arguments) != len(b.arguments) {
			return false
		}
		for i := range a.arguments {
			if !AlwaysEqual(a.arguments[i], b.arguments[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func typesEqual(a, b *types.TensorType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
