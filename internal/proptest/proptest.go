// Package proptest provides property-based testing infrastructure and generators.
package proptest

import (
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

// TestParameters returns the standard test parameters for property tests.
// Default: 1000 iterations for a good balance between coverage and speed.
func TestParameters() *gopter.TestParameters {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 1000
	return params
}

// FastTestParameters returns lighter parameters for properties that do more
// work per iteration.
func FastTestParameters() *gopter.TestParameters {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	return params
}

// Int64Range generates integers in a range.
func Int64Range(lo, hi int64) gopter.Gen {
	return gen.Int64Range(lo, hi)
}

// UInt64 generates any unsigned 64-bit integer.
func UInt64() gopter.Gen {
	return gen.UInt64()
}

// SliceOf generates slices of elements from the given generator.
func SliceOf(elementGen gopter.Gen) gopter.Gen {
	return gen.SliceOf(elementGen)
}
