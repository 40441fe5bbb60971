// Package testutil provides testing utilities for arb.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SequenceSource replays fixed draws, then repeats the last one.
// It satisfies arbitrary.Source.
type SequenceSource struct {
	Values []uint64
	next   int
}

// NewSequenceSource creates a source replaying values.
func NewSequenceSource(values ...uint64) *SequenceSource {
	if len(values) == 0 {
		panic("testutil: sequence source needs at least one value")
	}
	return &SequenceSource{Values: values}
}

// Uint64 returns the next recorded draw.
func (s *SequenceSource) Uint64() uint64 {
	v := s.Values[min(s.next, len(s.Values)-1)]
	s.next++
	return v
}

// Draws reports how many values have been consumed.
func (s *SequenceSource) Draws() int {
	return s.next
}

// TempConfig writes content to arb.yaml in a fresh temporary directory and
// returns its path.
func TempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "arb.yaml")
	if err := writeFile(path, content); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	return path
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// SmallConfig defines a narrow generator of each kind and fixed run settings.
const SmallConfig = `
generators:
  tiny:
    kind: uint
    max: 3
    description: very small numbers
  window:
    kind: int
    min: 5
    max: 10
  pairs:
    kind: int-slice
    min: 0
    max: 9
    max_size: 2
run:
  trials: 40
  seed: 11
`
