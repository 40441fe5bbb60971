package arbitrary

import "slices"

// DefaultMaxSize is the longest slice produced by DefaultIntSliceGenerator.
const DefaultMaxSize = 100

// IntSliceGenerator generates slices of integers whose length lies in
// [0, MaxSize()] and whose elements come from an IntGenerator.
type IntSliceGenerator struct {
	elements IntGenerator
	maxSize  int
}

// NewIntSliceGenerator returns a generator of slices up to maxSize long with
// elements drawn from elements.
func NewIntSliceGenerator(elements IntGenerator, maxSize int) (IntSliceGenerator, error) {
	if maxSize < 0 {
		return IntSliceGenerator{}, &RangeError{Field: "size", Min: 0, Max: int64(maxSize)}
	}
	return IntSliceGenerator{elements: elements, maxSize: maxSize}, nil
}

// DefaultIntSliceGenerator returns a generator of up to 100 elements in [-100, 100].
func DefaultIntSliceGenerator() IntSliceGenerator {
	return IntSliceGenerator{elements: DefaultIntGenerator(), maxSize: DefaultMaxSize}
}

// MaxSize returns the longest length the generator produces.
func (g IntSliceGenerator) MaxSize() int {
	return g.maxSize
}

// Elements returns the generator used for individual elements.
func (g IntSliceGenerator) Elements() IntGenerator {
	return g.elements
}

// Generate draws a length, then that many elements in draw order.
func (g IntSliceGenerator) Generate(src Source) []int64 {
	n := int(Uint64Range(src, 0, uint64(g.maxSize)))
	xs := make([]int64, n)
	for i := range xs {
		xs[i] = g.elements.Generate(src)
	}
	return xs
}

// Contains reports whether xs fits the length bound and every element is in range.
func (g IntSliceGenerator) Contains(xs []int64) bool {
	if len(xs) > g.maxSize {
		return false
	}
	for _, x := range xs {
		if !g.elements.Contains(x) {
			return false
		}
	}
	return true
}

// Shrink lists shorter slices built from atMost.
//
// Slices of length zero or one are already minimal and shrink to themselves.
// Longer slices yield each distinct element on its own, followed by the
// suffixes of length two or more that remain after dropping leading elements,
// shortest first. The input itself is not repeated:
//
//	Shrink([])      = [[]]
//	Shrink([1 2 3]) = [[1] [2] [3] [2 3]]
//
// The empty slice is never offered for a non-empty input: candidates keep at
// least one element so a failing counterexample stays visible after shrinking.
//
// Candidate lengths never decrease from left to right. Inputs that are too
// long or hold out-of-range elements are clamped first.
func (g IntSliceGenerator) Shrink(atMost []int64) [][]int64 {
	xs := g.clamp(atMost)
	if len(xs) <= 1 {
		return [][]int64{xs}
	}

	out := make([][]int64, 0, 2*len(xs))
	seen := make(map[int64]struct{}, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, []int64{x})
	}
	return append(out, suffixes(xs[1:])...)
}

// suffixes applies the drop-head recursion: suffixes(ys) = suffixes(ys[1:]) ++ [ys],
// stopping below length two.
func suffixes(ys []int64) [][]int64 {
	if len(ys) < 2 {
		return nil
	}
	return append(suffixes(ys[1:]), slices.Clone(ys))
}

// clamp returns a copy of xs truncated to MaxSize with elements clamped into range.
func (g IntSliceGenerator) clamp(xs []int64) []int64 {
	n := min(len(xs), g.maxSize)
	out := make([]int64, n)
	for i := range out {
		out[i] = g.elements.clamp(xs[i])
	}
	return out
}
