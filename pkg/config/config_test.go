package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nomagicln/arbitrary/pkg/arbitrary"
	"github.com/nomagicln/arbitrary/pkg/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestGeneratorConfig_Build(t *testing.T) {
	t.Run("uint default", func(t *testing.T) {
		gen, err := GeneratorConfig{Kind: KindUint}.Build("u")
		require.NoError(t, err)
		assert.Equal(t, arbitrary.DefaultUintGenerator(), gen)
	})

	t.Run("uint with max", func(t *testing.T) {
		gen, err := GeneratorConfig{Kind: KindUint, Max: int64Ptr(7)}.Build("u")
		require.NoError(t, err)
		assert.Equal(t, uint64(7), gen.(arbitrary.UintGenerator).Maximum())
	})

	t.Run("uint with negative max", func(t *testing.T) {
		_, err := GeneratorConfig{Kind: KindUint, Max: int64Ptr(-1)}.Build("u")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "max", vErr.Field)
	})

	t.Run("int range", func(t *testing.T) {
		gen, err := GeneratorConfig{Kind: KindInt, Min: int64Ptr(-3), Max: int64Ptr(3)}.Build("i")
		require.NoError(t, err)
		lo, hi := gen.(arbitrary.IntGenerator).Range()
		assert.Equal(t, int64(-3), lo)
		assert.Equal(t, int64(3), hi)
	})

	t.Run("int inverted range", func(t *testing.T) {
		_, err := GeneratorConfig{Kind: KindInt, Min: int64Ptr(3), Max: int64Ptr(-3)}.Build("i")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		var rangeErr *arbitrary.RangeError
		assert.ErrorAs(t, err, &rangeErr)
		assert.Contains(t, err.Error(), "invalid generator 'i'")
	})

	t.Run("int-slice", func(t *testing.T) {
		gen, err := GeneratorConfig{Kind: KindIntSlice, Min: int64Ptr(0), Max: int64Ptr(9), MaxSize: intPtr(4)}.Build("s")
		require.NoError(t, err)
		slices := gen.(arbitrary.IntSliceGenerator)
		assert.Equal(t, 4, slices.MaxSize())
		lo, hi := slices.Elements().Range()
		assert.Equal(t, int64(0), lo)
		assert.Equal(t, int64(9), hi)
	})

	t.Run("int-slice negative size", func(t *testing.T) {
		_, err := GeneratorConfig{Kind: KindIntSlice, MaxSize: intPtr(-1)}.Build("s")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "max_size", vErr.Field)
	})

	t.Run("int-slice size at limit", func(t *testing.T) {
		gen, err := GeneratorConfig{Kind: KindIntSlice, MaxSize: intPtr(MaxSliceSize)}.Build("s")
		require.NoError(t, err)
		assert.Equal(t, MaxSliceSize, gen.(arbitrary.IntSliceGenerator).MaxSize())
	})

	t.Run("int-slice size too large", func(t *testing.T) {
		_, err := GeneratorConfig{Kind: KindIntSlice, MaxSize: intPtr(1 << 30)}.Build("s")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "max_size", vErr.Field)
		assert.Contains(t, err.Error(), "must not exceed 65536")
	})

	t.Run("missing kind", func(t *testing.T) {
		_, err := GeneratorConfig{}.Build("x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kind is required")
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := GeneratorConfig{Kind: "float"}.Build("x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown kind")
	})
}

func TestLoad(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
generators:
  small:
    kind: uint
    max: 10
  lists:
    kind: int-slice
    max_size: 5
run:
  trials: 50
  seed: 42
  max_shrink_steps: 10
  workers: 2
`)
		file, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, file.Generators, 2)
		assert.Equal(t, KindUint, file.Generators["small"].Kind)
		require.NotNil(t, file.Run.Seed)
		assert.Equal(t, uint64(42), *file.Run.Seed)
	})

	t.Run("empty file", func(t *testing.T) {
		file, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Empty(t, file.Generators)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(writeConfig(t, "generators:\n  a:\n    kind: uint\n    maximum: 3\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("invalid generator", func(t *testing.T) {
		_, err := Load(writeConfig(t, "generators:\n  a:\n    kind: int\n    min: 5\n    max: 1\n"))
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "a", vErr.Generator)
	})

	t.Run("negative trials", func(t *testing.T) {
		_, err := Load(writeConfig(t, "run:\n  trials: -1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run.trials")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestRunConfig_CheckConfig(t *testing.T) {
	base := check.Config{Trials: 100, Seed: 1, MaxShrinkSteps: 1000, Workers: 1}

	assert.Equal(t, base, RunConfig{}.CheckConfig(base))

	seed := uint64(9)
	steps := 0
	got := RunConfig{Trials: 5, Seed: &seed, MaxShrinkSteps: &steps, Workers: 3}.CheckConfig(base)
	assert.Equal(t, check.Config{Trials: 5, Seed: 9, MaxShrinkSteps: 0, Workers: 3}, got)
}

func TestNewManager(t *testing.T) {
	t.Run("builtins without file", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Chdir(t.TempDir())

		m, err := NewManager()
		require.NoError(t, err)
		assert.False(t, m.Loaded())
		assert.Equal(t, []string{"int", "int-slice", "uint"}, m.Names())

		gen, def, err := m.Generator("int-slice")
		require.NoError(t, err)
		assert.Equal(t, KindIntSlice, def.Kind)
		assert.Equal(t, arbitrary.DefaultIntSliceGenerator(), gen)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := NewManager(WithConfigPath(filepath.Join(t.TempDir(), "nope.yaml")))
		require.Error(t, err)
	})

	t.Run("env path", func(t *testing.T) {
		path := writeConfig(t, "generators:\n  tiny:\n    kind: uint\n    max: 1\n")
		t.Setenv(EnvConfigPath, path)

		m, err := NewManager()
		require.NoError(t, err)
		assert.True(t, m.Loaded())
		assert.Equal(t, path, m.Path())
		assert.Contains(t, m.Names(), "tiny")
	})

	t.Run("file overrides builtin", func(t *testing.T) {
		path := writeConfig(t, "generators:\n  uint:\n    kind: uint\n    max: 3\n")
		m, err := NewManager(WithConfigPath(path))
		require.NoError(t, err)

		gen, _, err := m.Generator("uint")
		require.NoError(t, err)
		assert.Equal(t, arbitrary.NewUintGenerator(3), gen)
	})

	t.Run("unknown generator", func(t *testing.T) {
		path := writeConfig(t, "")
		m, err := NewManager(WithConfigPath(path))
		require.NoError(t, err)

		_, _, err = m.Generator("missing")
		var notFound *GeneratorNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "generator 'missing' is not defined", err.Error())
	})
}

func TestWriteStarter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "arb.yaml")

	require.NoError(t, WriteStarter(path, false))
	file, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, file.Generators, "lists")
	assert.Equal(t, 100, file.Run.Trials)

	err = WriteStarter(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteStarter(path, true))
}
