package types

import "github.com/giucamp/djup/internal/config"

// Range is an inclusive cardinality interval with a saturating infinity
// sentinel, matching spec.md §3: ordinary arguments are [1,1], x? is
// [0,1], x.. is [1,Inf], x... is [0,Inf].
type Range struct {
	Min uint32
	Max uint32 // config.Infinity means unbounded
}

// One is the cardinality of an ordinary (non-repeated) pattern argument.
var One = Range{Min: 1, Max: 1}

// Optional is the cardinality of x?.
var Optional = Range{Min: 0, Max: 1}

// OneOrMore is the cardinality of x..
var OneOrMore = Range{Min: 1, Max: config.Infinity}

// ZeroOrMore is the cardinality of x...
var ZeroOrMore = Range{Min: 0, Max: config.Infinity}

// Empty is used to mark an exhausted span: a range no width can satisfy.
var Empty = Range{Min: 1, Max: 0}

// IsEmpty reports whether r can never be satisfied (Min > Max).
func (r Range) IsEmpty() bool { return r.Min > r.Max }

// Add combines two ranges additively with saturation at Infinity,
// matching spec.md §3's "saturating + at Infinity".
func (r Range) Add(other Range) Range {
	min := r.Min + other.Min
	var max uint32
	if r.Max == config.Infinity || other.Max == config.Infinity {
		max = config.Infinity
	} else {
		max = r.Max + other.Max
	}
	return Range{Min: min, Max: max}
}

// Contains reports whether w falls within [Min, Max].
func (r Range) Contains(w uint32) bool {
	return w >= r.Min && (r.Max == config.Infinity || w <= r.Max)
}

// SaturatedMax returns r.Max, the upper bound of a variadic width loop;
// it is config.Infinity for an unbounded range.
func (r Range) SaturatedMax() uint32 { return r.Max }
