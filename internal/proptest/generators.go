package proptest

import (
	"reflect"

	"github.com/leanovate/gopter"
	"github.com/nomagicln/arbitrary/pkg/arbitrary"
)

// FromArbitrary adapts an arbitrary.Arbitrary into a gopter generator. Values
// are drawn from the gopter parameters' random source and shrink through
// Shrinker.
func FromArbitrary[T any](a arbitrary.Arbitrary[T]) gopter.Gen {
	shrinker := Shrinker(a)
	return func(params *gopter.GenParameters) *gopter.GenResult {
		return gopter.NewGenResult(a.Generate(params.Rng), shrinker)
	}
}

// Shrinker walks the candidates of a.Shrink in order. The input value itself is
// skipped so gopter never revisits a value it already knows fails.
func Shrinker[T any](a arbitrary.Arbitrary[T]) gopter.Shrinker {
	return func(value interface{}) gopter.Shrink {
		v, ok := value.(T)
		if !ok {
			return gopter.NoShrink
		}

		var candidates []T
		for _, c := range a.Shrink(v) {
			if !reflect.DeepEqual(c, v) {
				candidates = append(candidates, c)
			}
		}

		next := 0
		return func() (interface{}, bool) {
			if next >= len(candidates) {
				return nil, false
			}
			c := candidates[next]
			next++
			return c, true
		}
	}
}

// Uint generates values with arbitrary.DefaultUintGenerator.
func Uint() gopter.Gen {
	return FromArbitrary[uint64](arbitrary.DefaultUintGenerator())
}

// Int generates values with arbitrary.DefaultIntGenerator.
func Int() gopter.Gen {
	return FromArbitrary[int64](arbitrary.DefaultIntGenerator())
}

// IntSlice generates values with arbitrary.DefaultIntSliceGenerator.
func IntSlice() gopter.Gen {
	return FromArbitrary[[]int64](arbitrary.DefaultIntSliceGenerator())
}
