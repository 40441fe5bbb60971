// Package arbitrary provides value generators for property-based tests.
//
// A generator produces random example values from a caller-supplied Source and,
// given a failing value, lists simpler candidates to retest so a harness can
// minimize the counterexample. Generators are immutable and safe to share;
// sources are not.
package arbitrary

// Arbitrary generates and shrinks values of type T.
type Arbitrary[T any] interface {
	// Generate draws one value from src. The only side effect is advancing src.
	Generate(src Source) T

	// Shrink returns candidates no larger than atMost, ordered from simplest
	// to most complex. The result is never empty.
	Shrink(atMost T) []T
}

// Domain is implemented by generators that can report whether a value lies
// inside their configured constraint.
type Domain[T any] interface {
	Contains(v T) bool
}

// Generator is an Arbitrary that also knows its domain.
type Generator[T any] interface {
	Arbitrary[T]
	Domain[T]
}

var (
	_ Generator[uint64]  = UintGenerator{}
	_ Generator[int64]   = IntGenerator{}
	_ Generator[[]int64] = IntSliceGenerator{}
)

// halveTowardZero returns 0 followed by v, v/2, v/4, ... in ascending order.
// v must not be negative.
func halveTowardZero[N ~int64 | ~uint64](v N) []N {
	var chain []N
	for ; v > 0; v /= 2 {
		chain = append(chain, v)
	}

	out := make([]N, 0, len(chain)+1)
	out = append(out, 0)
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i])
	}
	return out
}
