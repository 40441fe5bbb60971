package arbitrary

// DefaultUintMaximum is the upper bound used by DefaultUintGenerator.
const DefaultUintMaximum = 100

// UintGenerator generates unsigned integers in [0, Maximum()].
// The zero value always generates 0.
type UintGenerator struct {
	maximum uint64
}

// NewUintGenerator returns a generator for the inclusive range [0, maximum].
func NewUintGenerator(maximum uint64) UintGenerator {
	return UintGenerator{maximum: maximum}
}

// DefaultUintGenerator returns a generator for [0, 100].
func DefaultUintGenerator() UintGenerator {
	return NewUintGenerator(DefaultUintMaximum)
}

// Maximum returns the inclusive upper bound.
func (g UintGenerator) Maximum() uint64 {
	return g.maximum
}

// Generate draws a value uniformly from [0, Maximum()].
func (g UintGenerator) Generate(src Source) uint64 {
	return Uint64Range(src, 0, g.maximum)
}

// Contains reports whether v is at most Maximum().
func (g UintGenerator) Contains(v uint64) bool {
	return v <= g.maximum
}

// Shrink halves atMost toward zero: Shrink(32) is [0 1 2 4 8 16 32].
// Values above Maximum() are clamped first.
func (g UintGenerator) Shrink(atMost uint64) []uint64 {
	return halveTowardZero(min(atMost, g.maximum))
}
