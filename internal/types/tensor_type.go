package types

import (
	"github.com/giucamp/djup/internal/diagnostics"
	"github.com/giucamp/djup/internal/hashutil"
)

// TensorType is (scalar_type, shape) per spec.md §3.
type TensorType struct {
	Scalar string
	Shape  Shape
}

// Hash folds the scalar name and shape into a single 64-bit value for
// the expression content hash (spec.md §3: "hash combining name, type,
// all child hashes, and flags").
func (t TensorType) Hash() uint64 {
	h := hashutil.String(t.Scalar)
	h = hashutil.Combine(h, uint64(t.Shape.Kind))
	switch t.Shape.Kind {
	case ShapeConstant:
		for _, d := range t.Shape.Dims {
			h = hashutil.Combine(h, d)
		}
	case ShapeVariable:
		h = hashutil.Combine(h, t.Shape.Variable.ContentHash())
	}
	return h
}

// Equal reports structural TensorType equality (spec.md §4.2): both
// scalar names equal and both shapes structurally equal.
func (t TensorType) Equal(other TensorType) bool {
	return t.Scalar == other.Scalar && t.Shape.Equal(other.Shape)
}

// BelongsTo implements type_belongs_to(t_candidate, t_set, lattice)
// (spec.md §4.2): scalar must be a declared subset, and shape must
// either be unconstrained, structurally equal, or (for variable shapes)
// AlwaysEqual on the shape expressions.
func BelongsTo(candidate, set TensorType, lattice *Lattice) bool {
	if !lattice.IsSubsetOf(candidate.Scalar, set.Scalar) {
		return false
	}
	if set.Shape.Kind == ShapeUnknown {
		return true
	}
	return candidate.Shape.Equal(set.Shape)
}

// Broadcast returns the smallest ConstantShape that dimensionwise equals
// or unit-broadcasts each input shape, failing when two non-unit
// dimensions disagree (spec.md §4.2). All inputs must be ConstantShape;
// broadcasting a VariableShape or Unknown is a structural error since the
// rank/dimensions aren't known statically.
func Broadcast(shapes []Shape) (Shape, error) {
	if len(shapes) == 0 {
		return UnknownShape, diagnostics.New(diagnostics.ErrStructBadCardinality, "broadcast requires at least one shape")
	}
	rank := 0
	for _, s := range shapes {
		if s.Kind != ShapeConstant {
			return UnknownShape, diagnostics.New(diagnostics.ErrStructBadCardinality, "broadcast requires constant shapes, got kind %v", s.Kind)
		}
		if len(s.Dims) > rank {
			rank = len(s.Dims)
		}
	}
	result := make([]uint64, rank)
	for i := range result {
		result[i] = 1
	}
	for _, s := range shapes {
		offset := rank - len(s.Dims)
		for i, d := range s.Dims {
			pos := offset + i
			switch {
			case result[pos] == 1:
				result[pos] = d
			case d == 1:
				// unit-broadcasts into result[pos]
			case d != result[pos]:
				return UnknownShape, diagnostics.New(diagnostics.ErrStructBadCardinality,
					"incompatible dimensions at position %d: %d vs %d", pos, d, result[pos])
			}
		}
	}
	return NewConstantShape(result), nil
}
