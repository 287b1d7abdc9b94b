package expr

import (
	"strconv"

	"github.com/giucamp/djup/internal/diagnostics"
	"github.com/giucamp/djup/internal/hashutil"
	"github.com/giucamp/djup/internal/symbol"
	"github.com/giucamp/djup/internal/types"
)

// MakeLiteralBool builds a bool literal (spec.md §4.1: make_literal).
func MakeLiteralBool(v bool) *Expression {
	h := hashutil.Seed()
	h = hashutil.Combine(h, uint64(kindLiteralBool))
	h = hashutil.Bool(h, v)
	return &Expression{
		k:           kindLiteralBool,
		literalBool: v,
		literalText: boolText(v),
		hash:        h,
		metadata:    Metadata{IsConstant: true, IsLiteral: true},
	}
}

// MakeLiteralInt builds a signed 64-bit int literal.
func MakeLiteralInt(v int64) *Expression {
	h := hashutil.Seed()
	h = hashutil.Combine(h, uint64(kindLiteralInt))
	h = hashutil.Combine(h, uint64(v))
	return &Expression{
		k:           kindLiteralInt,
		literalInt:  v,
		literalText: intText(v),
		hash:        h,
		metadata:    Metadata{IsConstant: true, IsLiteral: true},
	}
}

// MakeOpaqueConstant builds an opaque literal carrying only its printed
// form and an equality predicate (spec.md §1 non-goals: arbitrary
// precision values are opaque canonical values here).
func MakeOpaqueConstant(printed string) *Expression {
	h := hashutil.Seed()
	h = hashutil.Combine(h, uint64(kindLiteralOpaque))
	h = hashutil.Combine(h, hashutil.String(printed))
	return &Expression{
		k:           kindLiteralOpaque,
		literalText: printed,
		hash:        h,
		metadata:    Metadata{IsConstant: true, IsLiteral: true},
	}
}

// MakeIdentifier builds a named typed variable used only in patterns and
// in substitution results. Identifiers are never constant (spec.md
// §4.1).
func MakeIdentifier(typ *types.TensorType, name string) *Expression {
	n := symbol.Intern(name)
	h := hashutil.Seed()
	h = hashutil.Combine(h, uint64(kindIdentifier))
	h = hashutil.Combine(h, hashutil.String(n.String()))
	if typ != nil {
		h = hashutil.Combine(h, typ.Hash())
	}
	return &Expression{
		k:        kindIdentifier,
		name:     n,
		typ:      typ,
		hash:     h,
		metadata: Metadata{IsConstant: false, IsLiteral: false},
	}
}

// MakeComposite builds a composite with a function name (possibly
// anonymous, for tuples) and an ordered argument list. Arguments are
// validated for nil children; empty repetitions must be rejected by the
// pattern layer before reaching here (spec.md §4.1: "Failure: factory
// calls report a structural error ... never silently normalize").
//
// The hash is folded in the fixed order name, type, arg-hashes in order,
// flags (spec.md §4.1). is_constant defaults to the AND of children's
// is_constant unless overridden.
func MakeComposite(typ *types.TensorType, name string, args []*Expression, overrideConstant *bool) (*Expression, error) {
	for i, a := range args {
		if a == nil {
			return nil, diagnostics.New(diagnostics.ErrStructNullChild, "argument %d of composite %q is nil", i, name)
		}
	}
	n := symbol.Intern(name)

	h := hashutil.Seed()
	h = hashutil.Combine(h, uint64(kindComposite))
	h = hashutil.Combine(h, hashutil.String(n.String()))
	if typ != nil {
		h = hashutil.Combine(h, typ.Hash())
	}
	for _, a := range args {
		h = hashutil.Combine(h, a.ContentHash())
	}

	constant := true
	for _, a := range args {
		if !a.metadata.IsConstant {
			constant = false
			break
		}
	}
	if overrideConstant != nil {
		constant = *overrideConstant
	}
	h = hashutil.Bool(h, constant)

	return &Expression{
		k:         kindComposite,
		name:      n,
		typ:       typ,
		arguments: args,
		hash:      h,
		metadata:  Metadata{IsConstant: constant, IsLiteral: false},
	}, nil
}

// WithType rebuilds e with its type replaced by typ, preserving its
// kind, name, arguments and literal value and recomputing the content
// hash to fold in the new type (spec.md §4.6 step 1: a type-inference
// axiom "installs" its inferred type onto the matched expression rather
// than replacing it outright, unlike a substitution axiom).
func WithType(e *Expression, typ *types.TensorType) *Expression {
	h := hashutil.Seed()
	h = hashutil.Combine(h, uint64(e.k))
	if e.k == kindIdentifier || e.k == kindComposite {
		h = hashutil.Combine(h, hashutil.String(e.name.String()))
	}
	if typ != nil {
		h = hashutil.Combine(h, typ.Hash())
	}
	switch e.k {
	case kindLiteralBool:
		h = hashutil.Bool(h, e.literalBool)
	case kindLiteralInt:
		h = hashutil.Combine(h, uint64(e.literalInt))
	case kindLiteralOpaque:
		h = hashutil.Combine(h, hashutil.String(e.literalText))
	case kindComposite:
		for _, a := range e.arguments {
			h = hashutil.Combine(h, a.ContentHash())
		}
		h = hashutil.Bool(h, e.metadata.IsConstant)
	}
	nb := *e
	nb.typ = typ
	nb.hash = h
	return &nb
}

func boolText(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func intText(v int64) string {
	return strconv.FormatInt(v, 10)
}
