// Package report renders generator output for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected table, json or yaml)", s)
	}
}

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true) // Green
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// GeneratorInfo summarises a named generator.
type GeneratorInfo struct {
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	Domain      string `json:"domain" yaml:"domain"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Samples holds generated values.
type Samples struct {
	Generator string `json:"generator" yaml:"generator"`
	Kind      string `json:"kind" yaml:"kind"`
	Seed      uint64 `json:"seed" yaml:"seed"`
	Values    []any  `json:"values" yaml:"values"`
}

// ShrinkList holds the candidates for one input.
type ShrinkList struct {
	Generator  string `json:"generator" yaml:"generator"`
	Kind       string `json:"kind" yaml:"kind"`
	Input      any    `json:"input" yaml:"input"`
	Candidates []any  `json:"candidates" yaml:"candidates"`
}

// CheckReport is the outcome of checking a property.
type CheckReport struct {
	Generator    string `json:"generator" yaml:"generator"`
	Kind         string `json:"kind" yaml:"kind"`
	Property     string `json:"property" yaml:"property"`
	Passed       bool   `json:"passed" yaml:"passed"`
	Trials       int    `json:"trials" yaml:"trials"`
	Seed         uint64 `json:"seed" yaml:"seed"`
	FailingTrial *int   `json:"failing_trial,omitempty" yaml:"failing_trial,omitempty"` // nil when passed; trial 0 is a valid index
	Original     any    `json:"original,omitempty" yaml:"original,omitempty"`
	Shrunk       any    `json:"shrunk,omitempty" yaml:"shrunk,omitempty"`
	ShrinkSteps  int    `json:"shrink_steps,omitempty" yaml:"shrink_steps,omitempty"`
	Evaluations  int    `json:"evaluations,omitempty" yaml:"evaluations,omitempty"`
	Panic        string `json:"panic,omitempty" yaml:"panic,omitempty"`
}

// Printer writes reports in one format.
type Printer struct {
	out    io.Writer
	format Format
	color  bool
}

// NewPrinter creates a printer. Color is enabled when out is a terminal.
func NewPrinter(out io.Writer, format Format) *Printer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{out: out, format: format, color: color}
}

// WithColor forces color on or off.
func (p *Printer) WithColor(enabled bool) *Printer {
	p.color = enabled
	return p
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// encode writes v as JSON or YAML. It reports false for the table format.
func (p *Printer) encode(v any) (bool, error) {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// PrintGenerators lists generator definitions.
func (p *Printer) PrintGenerators(infos []GeneratorInfo) error {
	if done, err := p.encode(infos); done {
		return err
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tKIND\tDOMAIN\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t----\t------\t-----------")
	for _, info := range infos {
		desc := info.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Kind, info.Domain, desc)
	}
	return w.Flush()
}

// PrintSamples writes generated values, one per line in table format.
func (p *Printer) PrintSamples(s *Samples) error {
	if done, err := p.encode(s); done {
		return err
	}

	_, _ = fmt.Fprintln(p.out, p.style(headerStyle, fmt.Sprintf("%s (%s), seed %d", s.Generator, s.Kind, s.Seed)))
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	for i, v := range s.Values {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", p.style(dimStyle, fmt.Sprintf("%d", i)), FormatValue(v))
	}
	return w.Flush()
}

// PrintShrink writes a candidate list, simplest first.
func (p *Printer) PrintShrink(s *ShrinkList) error {
	if done, err := p.encode(s); done {
		return err
	}

	_, _ = fmt.Fprintln(p.out, p.style(headerStyle, fmt.Sprintf("shrinking %s with %s (%s)", FormatValue(s.Input), s.Generator, s.Kind)))
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	for i, c := range s.Candidates {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", p.style(dimStyle, fmt.Sprintf("%d", i)), FormatValue(c))
	}
	return w.Flush()
}

// PrintCheck writes a check outcome.
func (p *Printer) PrintCheck(r *CheckReport) error {
	if done, err := p.encode(r); done {
		return err
	}

	if r.Passed {
		_, err := fmt.Fprintf(p.out, "%s %s held for %d trials of %s (seed %d)\n",
			p.style(passStyle, "PASS"), r.Property, r.Trials, r.Generator, r.Seed)
		return err
	}

	trial := 0
	if r.FailingTrial != nil {
		trial = *r.FailingTrial
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s failed on trial %d of %s (seed %d)\n",
		p.style(failStyle, "FAIL"), r.Property, trial, r.Generator, r.Seed)
	fmt.Fprintf(&sb, "  original: %s\n", FormatValue(r.Original))
	fmt.Fprintf(&sb, "  shrunk:   %s (%d steps, %d evaluations)\n", FormatValue(r.Shrunk), r.ShrinkSteps, r.Evaluations)
	if r.Panic != "" {
		fmt.Fprintf(&sb, "  panic:    %s\n", r.Panic)
	}
	_, err := io.WriteString(p.out, sb.String())
	return err
}

// FormatValue renders a generated value. Slices use brackets and commas.
func FormatValue(v any) string {
	xs, ok := v.([]int64)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
