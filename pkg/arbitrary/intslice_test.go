package arbitrary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntSliceGenerator_ShrinkFixtures(t *testing.T) {
	g := DefaultIntSliceGenerator()

	tests := []struct {
		name  string
		input []int64
		want  [][]int64
	}{
		{
			name:  "empty",
			input: []int64{},
			want:  [][]int64{{}},
		},
		{
			name:  "nil",
			input: nil,
			want:  [][]int64{{}},
		},
		{
			name:  "single element",
			input: []int64{4},
			want:  [][]int64{{4}},
		},
		{
			name:  "two elements",
			input: []int64{1, 2},
			want:  [][]int64{{1}, {2}},
		},
		{
			name:  "three elements",
			input: []int64{1, 2, 3},
			want:  [][]int64{{1}, {2}, {3}, {2, 3}},
		},
		{
			name:  "four elements",
			input: []int64{1, 2, 3, 4},
			want:  [][]int64{{1}, {2}, {3}, {4}, {3, 4}, {2, 3, 4}},
		},
		{
			name:  "duplicate elements",
			input: []int64{5, 5, 5},
			want:  [][]int64{{5}, {5, 5}},
		},
		{
			name:  "negative elements",
			input: []int64{-3, 0, -3, 9},
			want:  [][]int64{{-3}, {0}, {9}, {-3, 9}, {0, -3, 9}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Shrink(tt.input))
		})
	}
}

func TestIntSliceGenerator_ShrinkLengthsNonDecreasing(t *testing.T) {
	g := DefaultIntSliceGenerator()
	src := NewSource(5)

	for i := 0; i < 200; i++ {
		xs := g.Generate(src)
		got := g.Shrink(xs)
		require.NotEmpty(t, got)
		for j := 1; j < len(got); j++ {
			require.LessOrEqual(t, len(got[j-1]), len(got[j]), "input %v", xs)
		}
		if len(xs) > 1 {
			assert.Less(t, len(got[len(got)-1]), len(xs))
		}
	}
}

func TestIntSliceGenerator_ShrinkNeverOffersEmpty(t *testing.T) {
	g := DefaultIntSliceGenerator()

	assert.Equal(t, [][]int64{{1}, {2}}, g.Shrink([]int64{1, 2}))
	assert.Equal(t, [][]int64{{7}}, g.Shrink([]int64{7}))
	assert.Equal(t, [][]int64{{}}, g.Shrink([]int64{}))

	src := NewSource(9)
	for i := 0; i < 200; i++ {
		xs := g.Generate(src)
		if len(xs) == 0 {
			continue
		}
		for _, c := range g.Shrink(xs) {
			require.NotEmpty(t, c, "input %v", xs)
		}
	}
}

func TestIntSliceGenerator_ShrinkDoesNotAlias(t *testing.T) {
	g := DefaultIntSliceGenerator()
	input := []int64{1, 2, 3, 4}

	got := g.Shrink(input)
	for _, c := range got {
		for i := range c {
			c[i] = 99
		}
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, input)
}

func TestIntSliceGenerator_ShrinkClampsOutOfDomain(t *testing.T) {
	elems, err := NewIntGenerator(0, 10)
	require.NoError(t, err)
	g, err := NewIntSliceGenerator(elems, 3)
	require.NoError(t, err)

	got := g.Shrink([]int64{-4, 50, 2, 8, 9})
	assert.Equal(t, [][]int64{{0}, {10}, {2}, {10, 2}}, got)
	for _, c := range got {
		assert.True(t, g.Contains(c), "candidate %v outside domain", c)
	}
}

func TestIntSliceGenerator_Generate(t *testing.T) {
	src := NewSource(13)

	t.Run("default bounds", func(t *testing.T) {
		g := DefaultIntSliceGenerator()
		assert.Equal(t, 100, g.MaxSize())
		for i := 0; i < 300; i++ {
			xs := g.Generate(src)
			require.True(t, g.Contains(xs), "generated %v outside domain", xs)
		}
	})

	t.Run("zero max size", func(t *testing.T) {
		g, err := NewIntSliceGenerator(DefaultIntGenerator(), 0)
		require.NoError(t, err)
		assert.Empty(t, g.Generate(src))
	})

	t.Run("same seed same slices", func(t *testing.T) {
		g := DefaultIntSliceGenerator()
		a, b := NewSource(1234), NewSource(1234)
		for i := 0; i < 20; i++ {
			assert.Equal(t, g.Generate(a), g.Generate(b))
		}
	})
}

func TestNewIntSliceGenerator_InvalidSize(t *testing.T) {
	_, err := NewIntSliceGenerator(DefaultIntGenerator(), -1)
	require.Error(t, err)
	var rangeErr *RangeError
	assert.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "size", rangeErr.Field)
}

func TestIntSliceGenerator_Contains(t *testing.T) {
	elems, err := NewIntGenerator(-1, 1)
	require.NoError(t, err)
	g, err := NewIntSliceGenerator(elems, 2)
	require.NoError(t, err)

	assert.True(t, g.Contains(nil))
	assert.True(t, g.Contains([]int64{-1, 1}))
	assert.False(t, g.Contains([]int64{0, 0, 0}))
	assert.False(t, g.Contains([]int64{2}))
}
