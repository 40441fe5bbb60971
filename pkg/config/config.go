// Package config provides generator and run configuration for arb.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/nomagicln/arbitrary/pkg/arbitrary"
	"github.com/nomagicln/arbitrary/pkg/check"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default configuration file location.
const EnvConfigPath = "ARB_CONFIG"

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "arb.yaml"

// MaxSliceSize bounds max_size for configured int-slice generators.
const MaxSliceSize = 1 << 16

// Kind names a generator implementation.
type Kind string

// Supported generator kinds.
const (
	KindUint     Kind = "uint"
	KindInt      Kind = "int"
	KindIntSlice Kind = "int-slice"
)

// Kinds lists the supported generator kinds.
func Kinds() []Kind {
	return []Kind{KindUint, KindInt, KindIntSlice}
}

// File is the on-disk configuration.
type File struct {
	// Generators maps a name to a generator definition.
	Generators map[string]GeneratorConfig `yaml:"generators"`

	// Run holds defaults for check runs.
	Run RunConfig `yaml:"run,omitempty"`
}

// GeneratorConfig defines one named generator.
type GeneratorConfig struct {
	// Kind selects the generator: "uint", "int" or "int-slice".
	Kind Kind `yaml:"kind"`

	// Description is an optional human-readable note.
	Description string `yaml:"description,omitempty"`

	// Min is the lower bound for int and int-slice elements. Ignored for uint.
	Min *int64 `yaml:"min,omitempty"`

	// Max is the upper bound. For uint it must not be negative.
	Max *int64 `yaml:"max,omitempty"`

	// MaxSize is the longest slice an int-slice generator produces.
	MaxSize *int `yaml:"max_size,omitempty"`
}

// RunConfig holds check defaults. Zero values fall back to check.DefaultConfig.
type RunConfig struct {
	// Trials is the number of generated values per check.
	Trials int `yaml:"trials,omitempty"`

	// Seed fixes the random seed. Unset means a time-based seed.
	Seed *uint64 `yaml:"seed,omitempty"`

	// MaxShrinkSteps bounds minimization.
	MaxShrinkSteps *int `yaml:"max_shrink_steps,omitempty"`

	// Workers is the number of concurrent trial workers.
	Workers int `yaml:"workers,omitempty"`
}

// CheckConfig merges r over base.
func (r RunConfig) CheckConfig(base check.Config) check.Config {
	cfg := base
	if r.Trials > 0 {
		cfg.Trials = r.Trials
	}
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	if r.MaxShrinkSteps != nil {
		cfg.MaxShrinkSteps = *r.MaxShrinkSteps
	}
	if r.Workers > 0 {
		cfg.Workers = r.Workers
	}
	return cfg
}

// Validate checks the definition without building it.
func (g GeneratorConfig) Validate(name string) error {
	_, err := g.Build(name)
	return err
}

// Build returns the configured generator: an arbitrary.UintGenerator,
// arbitrary.IntGenerator or arbitrary.IntSliceGenerator.
func (g GeneratorConfig) Build(name string) (any, error) {
	switch g.Kind {
	case KindUint:
		if g.Max == nil {
			return arbitrary.DefaultUintGenerator(), nil
		}
		if *g.Max < 0 {
			return nil, &ValidationError{Generator: name, Field: "max", Reason: "must not be negative for uint"}
		}
		return arbitrary.NewUintGenerator(uint64(*g.Max)), nil

	case KindInt:
		return g.buildInt(name)

	case KindIntSlice:
		elements, err := g.buildInt(name)
		if err != nil {
			return nil, err
		}
		maxSize := arbitrary.DefaultMaxSize
		if g.MaxSize != nil {
			maxSize = *g.MaxSize
		}
		if maxSize > MaxSliceSize {
			return nil, &ValidationError{
				Generator: name,
				Field:     "max_size",
				Reason:    fmt.Sprintf("must not exceed %d, got %d", MaxSliceSize, maxSize),
			}
		}
		gen, err := arbitrary.NewIntSliceGenerator(elements, maxSize)
		if err != nil {
			return nil, &ValidationError{Generator: name, Field: "max_size", Reason: "must not be negative", Wrapped: err}
		}
		return gen, nil

	case "":
		return nil, &ValidationError{Generator: name, Field: "kind", Reason: "is required"}

	default:
		return nil, &ValidationError{
			Generator: name,
			Field:     "kind",
			Reason:    fmt.Sprintf("unknown kind %q (expected uint, int or int-slice)", g.Kind),
		}
	}
}

func (g GeneratorConfig) buildInt(name string) (arbitrary.IntGenerator, error) {
	lo, hi := int64(arbitrary.DefaultIntMin), int64(arbitrary.DefaultIntMax)
	if g.Min != nil {
		lo = *g.Min
	}
	if g.Max != nil {
		hi = *g.Max
	}
	gen, err := arbitrary.NewIntGenerator(lo, hi)
	if err != nil {
		return arbitrary.IntGenerator{}, &ValidationError{Generator: name, Field: "min", Reason: "must not exceed max", Wrapped: err}
	}
	return gen, nil
}

// Builtins returns the generators available without a configuration file.
func Builtins() map[string]GeneratorConfig {
	return map[string]GeneratorConfig{
		string(KindUint):     {Kind: KindUint, Description: "unsigned integers in [0, 100]"},
		string(KindInt):      {Kind: KindInt, Description: "integers in [-100, 100]"},
		string(KindIntSlice): {Kind: KindIntSlice, Description: "up to 100 integers in [-100, 100]"},
	}
}

// Load reads and validates a configuration file. Unknown fields are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates configuration data. source names the data in errors.
func Parse(data []byte, source string) (*File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", source, err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate checks every generator definition and the run settings.
func (f *File) Validate() error {
	names := make([]string, 0, len(f.Generators))
	for name := range f.Generators {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "" {
			return &ValidationError{Field: "generators", Reason: "generator name cannot be empty"}
		}
		if err := f.Generators[name].Validate(name); err != nil {
			return err
		}
	}

	if f.Run.Trials < 0 {
		return &ValidationError{Field: "run.trials", Reason: "must not be negative"}
	}
	if f.Run.Workers < 0 {
		return &ValidationError{Field: "run.workers", Reason: "must not be negative"}
	}
	if f.Run.MaxShrinkSteps != nil && *f.Run.MaxShrinkSteps < 0 {
		return &ValidationError{Field: "run.max_shrink_steps", Reason: "must not be negative"}
	}
	return nil
}

// Manager resolves named generators from built-ins and an optional file.
type Manager struct {
	path     string
	explicit bool
	loaded   bool
	file     *File
}

// ManagerOption is a function that configures a Manager.
type ManagerOption func(*Manager)

// WithConfigPath sets the configuration file. The file must exist.
func WithConfigPath(path string) ManagerOption {
	return func(m *Manager) {
		if path != "" {
			m.path = path
			m.explicit = true
		}
	}
}

// NewManager creates a manager. The file location is taken from options, then
// $ARB_CONFIG, then ./arb.yaml. Only an explicitly chosen file must exist.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{path: DefaultFileName}
	if p := os.Getenv(EnvConfigPath); p != "" {
		m.path = p
		m.explicit = true
	}

	// Apply options
	for _, opt := range opts {
		opt(m)
	}

	file, err := Load(m.path)
	switch {
	case err == nil:
		m.file = file
		m.loaded = true
	case !m.explicit && errors.Is(err, fs.ErrNotExist):
		m.file = &File{}
	default:
		return nil, err
	}

	return m, nil
}

// Path returns the configuration file path, whether or not it exists.
func (m *Manager) Path() string {
	return m.path
}

// Loaded reports whether a configuration file was read.
func (m *Manager) Loaded() bool {
	return m.loaded
}

// Names returns all generator names, sorted.
func (m *Manager) Names() []string {
	all := m.definitions()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition returns the definition of a named generator.
func (m *Manager) Definition(name string) (GeneratorConfig, error) {
	def, ok := m.definitions()[name]
	if !ok {
		return GeneratorConfig{}, &GeneratorNotFoundError{Name: name}
	}
	return def, nil
}

// Generator builds a named generator.
func (m *Manager) Generator(name string) (any, GeneratorConfig, error) {
	def, err := m.Definition(name)
	if err != nil {
		return nil, GeneratorConfig{}, err
	}
	gen, err := def.Build(name)
	if err != nil {
		return nil, GeneratorConfig{}, err
	}
	return gen, def, nil
}

// Run returns the run settings from the file.
func (m *Manager) Run() RunConfig {
	return m.file.Run
}

// definitions overlays file generators on the built-ins.
func (m *Manager) definitions() map[string]GeneratorConfig {
	all := Builtins()
	for name, def := range m.file.Generators {
		all[name] = def
	}
	return all
}

// WriteStarter writes an example configuration to path. Existing files are
// only replaced when force is set.
func WriteStarter(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file '%s' already exists (use --force to overwrite)", path)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	// Write atomically by writing to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(starterConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

const starterConfig = `# arb configuration
generators:
  small:
    kind: uint
    description: unsigned integers in [0, 100]
    max: 100
  ints:
    kind: int
    min: -100
    max: 100
  lists:
    kind: int-slice
    description: up to 100 integers in [-100, 100]
    min: -100
    max: 100
    max_size: 100

run:
  trials: 100
  max_shrink_steps: 1000
  workers: 1
`
