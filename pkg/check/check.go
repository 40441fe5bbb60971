// Package check runs properties against generated values and minimizes the
// counterexamples it finds.
//
// The generators in package arbitrary only produce values and shrink
// candidates. This package owns the rest: how many trials to run, which
// candidate to adopt, and when to stop shrinking.
package check

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nomagicln/arbitrary/pkg/arbitrary"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Predicate is the property under test. Returning false, or panicking, marks
// the value as a counterexample.
type Predicate[T any] func(T) bool

// Config controls a Run.
type Config struct {
	// Trials is the number of generated values to test.
	Trials int

	// Seed seeds the random sources. Worker i uses Seed+i.
	Seed uint64

	// MaxShrinkSteps bounds how many times a counterexample is replaced by a
	// smaller one. Zero disables shrinking.
	MaxShrinkSteps int

	// Workers is the number of goroutines running trials. Each owns its own source.
	Workers int
}

// DefaultConfig returns 100 trials on one worker with a time-based seed.
func DefaultConfig() Config {
	return Config{
		Trials:         100,
		Seed:           uint64(time.Now().UnixNano()),
		MaxShrinkSteps: 1000,
		Workers:        1,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", c.Trials)
	}
	if c.MaxShrinkSteps < 0 {
		return fmt.Errorf("max shrink steps cannot be negative, got %d", c.MaxShrinkSteps)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", c.Workers)
	}
	return nil
}

// Result describes the outcome of a Run.
type Result[T any] struct {
	Passed bool

	// Trials is the number of values tested before stopping.
	Trials int
	Seed   uint64

	// FailingTrial is the index of the trial that produced Original.
	FailingTrial int

	// Original is the first counterexample found, Shrunk its minimized form.
	Original T
	Shrunk   T

	// ShrinkSteps counts adopted candidates; Evaluations counts predicate calls
	// made while shrinking.
	ShrinkSteps int
	Evaluations int

	// Panic holds the recovered value when the predicate panicked on Original.
	Panic any
}

type options struct {
	logger zerolog.Logger
}

// Option configures Run and Minimize.
type Option func(*options)

// WithLogger sets the logger used for trial and shrink events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type failure[T any] struct {
	trial int
	value T
	panic any
}

// Run generates cfg.Trials values, stops at the first counterexample and
// minimizes it. With one worker the outcome depends only on cfg.Seed.
func Run[T any](ctx context.Context, gen arbitrary.Arbitrary[T], pred Predicate[T], cfg Config, opts ...Option) (*Result[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	workers := max(1, min(cfg.Workers, cfg.Trials))

	var (
		executed atomic.Int64
		earliest atomic.Int64
		mu       sync.Mutex
		found    *failure[T]
	)
	earliest.Store(int64(cfg.Trials))

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			src := arbitrary.NewSource(cfg.Seed + uint64(w))
			for trial := w; trial < cfg.Trials; trial += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				if int64(trial) > earliest.Load() {
					return nil
				}

				value := gen.Generate(src)
				executed.Add(1)

				ok, recovered := evaluate(pred, value)
				if ok {
					continue
				}

				o.logger.Debug().
					Int("trial", trial).
					Interface("value", value).
					Msg("counterexample found")

				mu.Lock()
				if found == nil || trial < found.trial {
					found = &failure[T]{trial: trial, value: value, panic: recovered}
					earliest.Store(int64(trial))
				}
				mu.Unlock()
				return nil
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result[T]{
		Passed: found == nil,
		Trials: int(executed.Load()),
		Seed:   cfg.Seed,
	}
	if found == nil {
		o.logger.Debug().Int("trials", result.Trials).Msg("property held")
		return result, nil
	}

	result.FailingTrial = found.trial
	result.Original = found.value
	result.Panic = found.panic

	shrunk, err := minimize(ctx, gen, pred, found.value, cfg.MaxShrinkSteps, o.logger)
	if err != nil {
		return nil, err
	}
	result.Shrunk = shrunk.value
	result.ShrinkSteps = shrunk.steps
	result.Evaluations = shrunk.evaluations
	return result, nil
}

// Minimized is the outcome of Minimize.
type Minimized[T any] struct {
	Value       T
	Steps       int
	Evaluations int
}

// Minimize shrinks a known counterexample. It returns an
// *arbitrary.DomainError when gen reports that failing lies outside its domain.
func Minimize[T any](ctx context.Context, gen arbitrary.Arbitrary[T], pred Predicate[T], failing T, maxSteps int, opts ...Option) (*Minimized[T], error) {
	if maxSteps < 0 {
		return nil, fmt.Errorf("max shrink steps cannot be negative, got %d", maxSteps)
	}
	if d, ok := gen.(arbitrary.Domain[T]); ok && !d.Contains(failing) {
		return nil, &arbitrary.DomainError{Value: failing}
	}
	o := buildOptions(opts)

	shrunk, err := minimize(ctx, gen, pred, failing, maxSteps, o.logger)
	if err != nil {
		return nil, err
	}
	return &Minimized[T]{Value: shrunk.value, Steps: shrunk.steps, Evaluations: shrunk.evaluations}, nil
}

type shrinkOutcome[T any] struct {
	value       T
	steps       int
	evaluations int
}

// minimize adopts the first failing candidate of each shrink list until none
// fails or maxSteps is reached. Candidates equal to the current value are
// skipped; every generator returns the value itself among its candidates.
func minimize[T any](ctx context.Context, gen arbitrary.Arbitrary[T], pred Predicate[T], failing T, maxSteps int, logger zerolog.Logger) (shrinkOutcome[T], error) {
	out := shrinkOutcome[T]{value: failing}

	for out.steps < maxSteps {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		adopted := false
		for _, candidate := range gen.Shrink(out.value) {
			if reflect.DeepEqual(candidate, out.value) {
				continue
			}
			out.evaluations++
			if ok, _ := evaluate(pred, candidate); ok {
				continue
			}
			out.value = candidate
			out.steps++
			adopted = true
			logger.Debug().
				Int("step", out.steps).
				Interface("value", candidate).
				Msg("shrunk counterexample")
			break
		}
		if !adopted {
			break
		}
	}
	return out, nil
}

// evaluate runs pred, treating a panic as a failure.
func evaluate[T any](pred Predicate[T], value T) (ok bool, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			recovered = r
		}
	}()
	return pred(value), nil
}

// IsCanceled reports whether err came from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
