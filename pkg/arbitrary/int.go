package arbitrary

// Default bounds used by DefaultIntGenerator.
const (
	DefaultIntMin = -100
	DefaultIntMax = 100
)

// IntGenerator generates signed integers in an inclusive range.
// The zero value always generates 0.
type IntGenerator struct {
	lo, hi int64
}

// NewIntGenerator returns a generator for the inclusive range [lo, hi].
func NewIntGenerator(lo, hi int64) (IntGenerator, error) {
	if lo > hi {
		return IntGenerator{}, &RangeError{Field: "integer", Min: lo, Max: hi}
	}
	return IntGenerator{lo: lo, hi: hi}, nil
}

// DefaultIntGenerator returns a generator for [-100, 100].
func DefaultIntGenerator() IntGenerator {
	return IntGenerator{lo: DefaultIntMin, hi: DefaultIntMax}
}

// Range returns the inclusive bounds.
func (g IntGenerator) Range() (lo, hi int64) {
	return g.lo, g.hi
}

// Generate draws a value uniformly from the configured range.
func (g IntGenerator) Generate(src Source) int64 {
	return Int64Range(src, g.lo, g.hi)
}

// Contains reports whether v lies in the configured range.
func (g IntGenerator) Contains(v int64) bool {
	return v >= g.lo && v <= g.hi
}

// Shrink shrinks toward zero. Non-negative values halve like UintGenerator.
// Negative values yield [atMost 0]: the input comes first, unlike every other
// case. Candidates outside the range are dropped and atMost itself is clamped
// into the range, so the result is never empty.
func (g IntGenerator) Shrink(atMost int64) []int64 {
	v := g.clamp(atMost)

	var candidates []int64
	if v < 0 {
		candidates = []int64{v, 0}
	} else {
		candidates = halveTowardZero(v)
	}

	out := candidates[:0]
	for _, c := range candidates {
		if g.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

func (g IntGenerator) clamp(v int64) int64 {
	return max(g.lo, min(v, g.hi))
}
