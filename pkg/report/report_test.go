package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "[]", FormatValue([]int64{}))
	assert.Equal(t, "[1, -2, 3]", FormatValue([]int64{1, -2, 3}))
	assert.Equal(t, "42", FormatValue(uint64(42)))
	assert.Equal(t, "-7", FormatValue(int64(-7)))
}

func TestPrinter_Table(t *testing.T) {
	t.Run("samples", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewPrinter(&buf, FormatTable).PrintSamples(&Samples{
			Generator: "uint", Kind: "uint", Seed: 3, Values: []any{uint64(1), uint64(2)},
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "uint (uint), seed 3")
		assert.Contains(t, buf.String(), "1  2")
	})

	t.Run("shrink", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewPrinter(&buf, FormatTable).PrintShrink(&ShrinkList{
			Generator: "int-slice", Kind: "int-slice",
			Input:      []int64{1, 2, 3},
			Candidates: []any{[]int64{1}, []int64{2}, []int64{3}, []int64{2, 3}},
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "shrinking [1, 2, 3]")
		assert.Contains(t, buf.String(), "3  [2, 3]")
	})

	t.Run("passing check", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewPrinter(&buf, FormatTable).PrintCheck(&CheckReport{
			Generator: "uint", Property: "Below(101)", Passed: true, Trials: 100, Seed: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "PASS Below(101) held for 100 trials of uint (seed 1)\n", buf.String())
	})

	t.Run("failing check", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewPrinter(&buf, FormatTable).PrintCheck(&CheckReport{
			Generator: "uint", Property: "Below(20)", Trials: 4, Seed: 1, FailingTrial: intPtr(3),
			Original: uint64(87), Shrunk: uint64(21), ShrinkSteps: 1, Evaluations: 5, Panic: "boom",
		})
		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "FAIL Below(20) failed on trial 3")
		assert.Contains(t, out, "original: 87")
		assert.Contains(t, out, "shrunk:   21 (1 steps, 5 evaluations)")
		assert.Contains(t, out, "panic:    boom")
	})

	t.Run("generators", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewPrinter(&buf, FormatTable).PrintGenerators([]GeneratorInfo{
			{Name: "uint", Kind: "uint", Domain: "[0, 100]", Description: "a very long description that will certainly be cut short"},
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "NAME")
		assert.Contains(t, buf.String(), "...")
	})
}

func TestPrinter_Color(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)
	assert.False(t, p.color, "buffers are never terminals")

	p.WithColor(false)
	require.NoError(t, p.PrintCheck(&CheckReport{Property: "Even()", Passed: true}))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := NewPrinter(&buf, FormatJSON).PrintShrink(&ShrinkList{
		Generator: "uint", Kind: "uint", Input: uint64(3), Candidates: []any{uint64(0), uint64(1), uint64(3)},
	})
	require.NoError(t, err)

	var decoded struct {
		Input      uint64   `json:"input"`
		Candidates []uint64 `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, uint64(3), decoded.Input)
	assert.Equal(t, []uint64{0, 1, 3}, decoded.Candidates)
}

func TestPrinter_FailingTrialZero(t *testing.T) {
	failed := &CheckReport{
		Generator: "uint", Property: "Below(0)", Trials: 1, Seed: 2, FailingTrial: intPtr(0),
		Original: uint64(0), Shrunk: uint64(0),
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON).PrintCheck(failed))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Contains(t, decoded, "failing_trial")
		assert.EqualValues(t, 0, decoded["failing_trial"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatYAML).PrintCheck(failed))
		assert.Contains(t, buf.String(), "failing_trial: 0")
	})

	t.Run("passed reports omit it", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON).PrintCheck(&CheckReport{Property: "Even()", Passed: true}))
		assert.NotContains(t, buf.String(), "failing_trial")
	})
}

func intPtr(n int) *int { return &n }

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	err := NewPrinter(&buf, FormatYAML).PrintCheck(&CheckReport{
		Generator: "int-slice", Property: "Sorted()", Trials: 2, Seed: 5,
		Original: []int64{3, 1}, Shrunk: []int64{3, 1},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Sorted()", decoded["property"])
	assert.Equal(t, false, decoded["passed"])
	assert.Equal(t, []any{3, 1}, decoded["shrunk"])
}
