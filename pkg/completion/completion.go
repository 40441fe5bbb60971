// Package completion provides shell completion support for arb.
package completion

import (
	"sort"
	"strings"

	"github.com/nomagicln/arbitrary/pkg/config"
	"github.com/nomagicln/arbitrary/pkg/property"
	"github.com/nomagicln/arbitrary/pkg/report"
)

// Provider provides completion suggestions for commands and arguments.
type Provider struct {
	configs *config.Manager
}

// NewProvider creates a new completion provider.
func NewProvider(configs *config.Manager) *Provider {
	return &Provider{configs: configs}
}

// CompleteGenerators returns the generator names matching prefix.
func (p *Provider) CompleteGenerators(prefix string) []string {
	var matches []string
	for _, name := range p.configs.Names() {
		if matchesPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}

// CompleteProperties returns property functions applicable to the generator,
// each followed by an opening parenthesis.
func (p *Provider) CompleteProperties(generator, prefix string) []string {
	def, err := p.configs.Definition(generator)
	if err != nil {
		return nil
	}

	target := property.Number
	if def.Kind == config.KindIntSlice {
		target = property.Sequence
	}

	var matches []string
	for _, fn := range property.Functions(target) {
		if matchesPrefix(fn, prefix) {
			matches = append(matches, fn+"(")
		}
	}
	return matches
}

// CompleteFormats returns the output formats matching prefix.
func CompleteFormats(prefix string) []string {
	formats := map[string]bool{
		string(report.FormatTable): true,
		string(report.FormatJSON):  true,
		string(report.FormatYAML):  true,
	}

	var matches []string
	for _, f := range sortedKeys(formats) {
		if matchesPrefix(f, prefix) {
			matches = append(matches, f)
		}
	}
	return matches
}

// matchesPrefix checks if a string matches the given prefix.
func matchesPrefix(s, prefix string) bool {
	return prefix == "" || strings.HasPrefix(s, prefix)
}

// sortedKeys converts a map's keys to a sorted slice.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
