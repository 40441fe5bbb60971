// Package session resolves named generators and runs generate, shrink and
// check requests against them. Both the CLI and the MCP server use it.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/nomagicln/arbitrary/pkg/arbitrary"
	"github.com/nomagicln/arbitrary/pkg/check"
	"github.com/nomagicln/arbitrary/pkg/config"
	"github.com/nomagicln/arbitrary/pkg/property"
	"github.com/nomagicln/arbitrary/pkg/report"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// MaxSamples caps a single Generate request.
const MaxSamples = 10000

// Session serves requests for the generators known to a config.Manager.
type Session struct {
	configs *config.Manager
	logger  zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger passed to check runs.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a session backed by configs.
func New(configs *config.Manager, opts ...Option) *Session {
	s := &Session{configs: configs, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckDefaults overlays the configured run settings on base.
func (s *Session) CheckDefaults(base check.Config) check.Config {
	return s.configs.Run().CheckConfig(base)
}

// Generators describes every known generator.
func (s *Session) Generators() ([]report.GeneratorInfo, error) {
	var infos []report.GeneratorInfo
	for _, name := range s.configs.Names() {
		gen, def, err := s.configs.Generator(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, report.GeneratorInfo{
			Name:        name,
			Kind:        string(def.Kind),
			Domain:      DescribeDomain(gen),
			Description: def.Description,
		})
	}
	return infos, nil
}

// Generate draws count values from a fresh source seeded with seed.
func (s *Session) Generate(name string, count int, seed uint64) (*report.Samples, error) {
	if count < 1 || count > MaxSamples {
		return nil, fmt.Errorf("count must be between 1 and %d, got %d", MaxSamples, count)
	}
	gen, def, err := s.configs.Generator(name)
	if err != nil {
		return nil, err
	}

	var values []any
	switch g := gen.(type) {
	case arbitrary.UintGenerator:
		values = sample[uint64](g, count, seed)
	case arbitrary.IntGenerator:
		values = sample[int64](g, count, seed)
	case arbitrary.IntSliceGenerator:
		values = sample[[]int64](g, count, seed)
	default:
		return nil, fmt.Errorf("unsupported generator type %T", gen)
	}

	return &report.Samples{Generator: name, Kind: string(def.Kind), Seed: seed, Values: values}, nil
}

// Shrink parses text as a value of the generator's kind and lists its
// candidates. Values outside the generator's domain are rejected.
func (s *Session) Shrink(name, text string) (*report.ShrinkList, error) {
	gen, def, err := s.configs.Generator(name)
	if err != nil {
		return nil, err
	}
	value, err := ParseValue(def.Kind, text)
	if err != nil {
		return nil, err
	}

	var candidates []any
	switch g := gen.(type) {
	case arbitrary.UintGenerator:
		candidates, err = shrink[uint64](g, value.(uint64))
	case arbitrary.IntGenerator:
		candidates, err = shrink[int64](g, value.(int64))
	case arbitrary.IntSliceGenerator:
		candidates, err = shrink[[]int64](g, value.([]int64))
	default:
		return nil, fmt.Errorf("unsupported generator type %T", gen)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot shrink with '%s': %w", name, err)
	}

	return &report.ShrinkList{Generator: name, Kind: string(def.Kind), Input: value, Candidates: candidates}, nil
}

// Check runs the property expression against the named generator.
func (s *Session) Check(ctx context.Context, name, expr string, cfg check.Config) (*report.CheckReport, error) {
	gen, def, err := s.configs.Generator(name)
	if err != nil {
		return nil, err
	}

	target := property.Number
	if def.Kind == config.KindIntSlice {
		target = property.Sequence
	}
	pred, err := property.Compile(expr, target)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("generator", name).Str("property", expr).Logger()
	opts := []check.Option{check.WithLogger(logger)}

	var out *report.CheckReport
	switch g := gen.(type) {
	case arbitrary.UintGenerator:
		out, err = runCheck[uint64](ctx, g, pred, cfg, opts)
	case arbitrary.IntGenerator:
		out, err = runCheck[int64](ctx, g, pred, cfg, opts)
	case arbitrary.IntSliceGenerator:
		out, err = runCheck[[]int64](ctx, g, pred, cfg, opts)
	default:
		return nil, fmt.Errorf("unsupported generator type %T", gen)
	}
	if err != nil {
		return nil, err
	}

	out.Generator = name
	out.Kind = string(def.Kind)
	out.Property = expr
	return out, nil
}

func sample[T any](gen arbitrary.Arbitrary[T], count int, seed uint64) []any {
	src := arbitrary.NewSource(seed)
	values := make([]any, count)
	for i := range values {
		values[i] = gen.Generate(src)
	}
	return values
}

func shrink[T any](gen arbitrary.Generator[T], value T) ([]any, error) {
	if !gen.Contains(value) {
		return nil, &arbitrary.DomainError{Value: report.FormatValue(value)}
	}
	shrunk := gen.Shrink(value)
	candidates := make([]any, len(shrunk))
	for i, c := range shrunk {
		candidates[i] = c
	}
	return candidates, nil
}

func runCheck[T any](ctx context.Context, gen arbitrary.Arbitrary[T], pred property.Predicate, cfg check.Config, opts []check.Option) (*report.CheckReport, error) {
	result, err := check.Run(ctx, gen, func(v T) bool { return pred(v) }, cfg, opts...)
	if err != nil {
		return nil, err
	}

	out := &report.CheckReport{
		Passed: result.Passed,
		Trials: result.Trials,
		Seed:   result.Seed,
	}
	if result.Passed {
		return out, nil
	}
	trial := result.FailingTrial
	out.FailingTrial = &trial
	out.Original = result.Original
	out.Shrunk = result.Shrunk
	out.ShrinkSteps = result.ShrinkSteps
	out.Evaluations = result.Evaluations
	if result.Panic != nil {
		out.Panic = fmt.Sprint(result.Panic)
	}
	return out, nil
}

// ParseValue decodes text as a value of kind. Slices accept YAML flow syntax
// ("[1, 2, 3]") or a bare comma-separated list ("1,2,3"). Null values are
// rejected, including null elements.
func ParseValue(kind config.Kind, text string) (any, error) {
	text = strings.TrimSpace(text)

	switch kind {
	case config.KindUint, config.KindInt:
	case config.KindIntSlice:
		if !strings.HasPrefix(text, "[") {
			text = "[" + text + "]"
		}
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("missing %s value", kind)
	}
	if containsNull(&node) {
		return nil, fmt.Errorf("invalid %s value %q: null is not a value", kind, text)
	}

	var (
		value any
		err   error
	)
	switch kind {
	case config.KindUint:
		var v uint64
		err = node.Decode(&v)
		value = v
	case config.KindInt:
		var v int64
		err = node.Decode(&v)
		value = v
	default:
		v := []int64{}
		err = node.Decode(&v)
		value = v
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", kind, text, err)
	}
	return value, nil
}

func containsNull(n *yaml.Node) bool {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return true
	}
	for _, c := range n.Content {
		if containsNull(c) {
			return true
		}
	}
	return false
}

// DescribeDomain renders a generator's constraint.
func DescribeDomain(gen any) string {
	switch g := gen.(type) {
	case arbitrary.UintGenerator:
		return fmt.Sprintf("[0, %d]", g.Maximum())
	case arbitrary.IntGenerator:
		lo, hi := g.Range()
		return fmt.Sprintf("[%d, %d]", lo, hi)
	case arbitrary.IntSliceGenerator:
		lo, hi := g.Elements().Range()
		return fmt.Sprintf("len [0, %d] of [%d, %d]", g.MaxSize(), lo, hi)
	default:
		return "unknown"
	}
}
