package arbitrary

import (
	"math"
	"testing"

	"github.com/nomagicln/arbitrary/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource_Deterministic(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64(), "draw %d", i)
	}

	c := NewSource(43)
	d := NewSource(42)
	same := true
	for i := 0; i < 10; i++ {
		if c.Uint64() != d.Uint64() {
			same = false
		}
	}
	assert.False(t, same, "different seeds should diverge")
}

func TestUint64N(t *testing.T) {
	src := NewSource(1)

	t.Run("stays below bound", func(t *testing.T) {
		for _, n := range []uint64{1, 2, 3, 7, 10, 100, 1 << 40, math.MaxUint64} {
			for i := 0; i < 200; i++ {
				assert.Less(t, Uint64N(src, n), n)
			}
		}
	})

	t.Run("bound of one", func(t *testing.T) {
		assert.Equal(t, uint64(0), Uint64N(src, 1))
	})

	t.Run("zero bound panics", func(t *testing.T) {
		assert.Panics(t, func() { Uint64N(src, 0) })
	})

	t.Run("power of two masks", func(t *testing.T) {
		s := testutil.NewSequenceSource(0xff)
		assert.Equal(t, uint64(0xf), Uint64N(s, 16))
	})
}

func TestUint64Range(t *testing.T) {
	src := NewSource(2)

	for i := 0; i < 500; i++ {
		v := Uint64Range(src, 10, 20)
		assert.GreaterOrEqual(t, v, uint64(10))
		assert.LessOrEqual(t, v, uint64(20))
	}

	assert.Equal(t, uint64(5), Uint64Range(src, 5, 5))

	full := testutil.NewSequenceSource(math.MaxUint64)
	assert.Equal(t, uint64(math.MaxUint64), Uint64Range(full, 0, math.MaxUint64))

	assert.Panics(t, func() { Uint64Range(src, 2, 1) })
}

func TestInt64Range(t *testing.T) {
	src := NewSource(3)

	t.Run("inclusive bounds", func(t *testing.T) {
		seenLo, seenHi := false, false
		for i := 0; i < 2000; i++ {
			v := Int64Range(src, -3, 3)
			require.GreaterOrEqual(t, v, int64(-3))
			require.LessOrEqual(t, v, int64(3))
			seenLo = seenLo || v == -3
			seenHi = seenHi || v == 3
		}
		assert.True(t, seenLo, "lower bound never drawn")
		assert.True(t, seenHi, "upper bound never drawn")
	})

	t.Run("single point at the extremes", func(t *testing.T) {
		assert.Equal(t, int64(math.MinInt64), Int64Range(src, math.MinInt64, math.MinInt64))
		assert.Equal(t, int64(math.MaxInt64), Int64Range(src, math.MaxInt64, math.MaxInt64))
	})

	t.Run("full range uses raw draw", func(t *testing.T) {
		s := testutil.NewSequenceSource(1 << 63)
		assert.Equal(t, int64(math.MinInt64), Int64Range(s, math.MinInt64, math.MaxInt64))
	})

	t.Run("wide range does not overflow", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			v := Int64Range(src, math.MinInt64+1, math.MaxInt64)
			assert.Greater(t, v, int64(math.MinInt64))
		}
	})

	t.Run("inverted range panics", func(t *testing.T) {
		assert.Panics(t, func() { Int64Range(src, 1, -1) })
	})
}

func TestGenerate_DrawsFromSource(t *testing.T) {
	// A small draw maps to length zero, so only the length is drawn.
	s := testutil.NewSequenceSource(3)
	assert.Empty(t, DefaultIntSliceGenerator().Generate(s))
	assert.Equal(t, 1, s.Draws())

	u := testutil.NewSequenceSource(7)
	assert.Equal(t, uint64(0), DefaultUintGenerator().Generate(u))
	assert.Equal(t, 1, u.Draws())
}
