package arbitrary

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"
)

// Source is the entropy consumed by generators. Both math/rand and
// math/rand/v2 *rand.Rand satisfy it.
//
// A Source is not safe for concurrent use; each worker needs its own.
type Source interface {
	Uint64() uint64
}

// NewSource returns a deterministic source seeded with seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Uint64N returns a uniform value in [0, n). It panics if n is zero.
func Uint64N(src Source, n uint64) uint64 {
	if n == 0 {
		panic("arbitrary: Uint64N called with zero bound")
	}
	if n&(n-1) == 0 {
		return src.Uint64() & (n - 1)
	}

	// Lemire's multiply-and-reject; rejection only happens in the biased tail.
	hi, lo := bits.Mul64(src.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(src.Uint64(), n)
		}
	}
	return hi
}

// Uint64Range returns a uniform value in the inclusive range [lo, hi].
// It panics if lo > hi.
func Uint64Range(src Source, lo, hi uint64) uint64 {
	if lo > hi {
		panic(fmt.Sprintf("arbitrary: empty range [%d, %d]", lo, hi))
	}
	width := hi - lo
	if width == math.MaxUint64 {
		return src.Uint64()
	}
	return lo + Uint64N(src, width+1)
}

// Int64Range returns a uniform value in the inclusive range [lo, hi].
// It panics if lo > hi.
func Int64Range(src Source, lo, hi int64) int64 {
	if lo > hi {
		panic(fmt.Sprintf("arbitrary: empty range [%d, %d]", lo, hi))
	}
	width := uint64(hi) - uint64(lo)
	if width == math.MaxUint64 {
		return int64(src.Uint64())
	}
	return int64(uint64(lo) + Uint64N(src, width+1))
}
