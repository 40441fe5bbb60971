// Package cli provides user-facing error formatting for the arb command line.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nomagicln/arbitrary/pkg/arbitrary"
	"github.com/nomagicln/arbitrary/pkg/config"
	"github.com/nomagicln/arbitrary/pkg/property"
)

// ErrorFormatter provides user-friendly error messages.
type ErrorFormatter struct{}

// NewErrorFormatter creates a new error formatter.
func NewErrorFormatter() *ErrorFormatter {
	return &ErrorFormatter{}
}

// FormatError formats an error into a user-friendly message.
func (f *ErrorFormatter) FormatError(err error) string {
	return f.FormatErrorWithContext(err, nil)
}

// FormatErrorWithContext formats an error with the names of the known
// generators, which are used for suggestions.
func (f *ErrorFormatter) FormatErrorWithContext(err error, generators []string) string {
	if err == nil {
		return ""
	}

	var notFound *config.GeneratorNotFoundError
	var domainErr *arbitrary.DomainError
	var validationErr *config.ValidationError
	var rangeErr *arbitrary.RangeError

	switch {
	case errors.As(err, &notFound):
		return f.formatGeneratorNotFoundError(notFound, generators)
	case errors.As(err, &domainErr):
		return f.formatDomainError(err)
	case errors.As(err, &validationErr), errors.As(err, &rangeErr):
		return f.formatConfigError(err)
	default:
		errMsg := err.Error()
		if strings.Contains(errMsg, "property") {
			return f.formatPropertyError(errMsg)
		}
		return fmt.Sprintf("Error: %s", errMsg)
	}
}

// formatGeneratorNotFoundError formats unknown generator errors with suggestions.
func (f *ErrorFormatter) formatGeneratorNotFoundError(err *config.GeneratorNotFoundError, generators []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: Generator '%s' is not defined.\n\n", err.Name)

	if suggestions := f.SuggestSimilarGenerators(err.Name, generators); len(suggestions) > 0 {
		sb.WriteString("Did you mean:\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(&sb, "  %s\n", suggestion)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("To see all generators, use:\n")
	sb.WriteString("  arb list")
	return sb.String()
}

// formatDomainError formats values outside a generator's domain.
func (f *ErrorFormatter) formatDomainError(err error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n\n", err)
	sb.WriteString("Only values the generator can produce can be shrunk.\n")
	sb.WriteString("To see each generator's domain, use:\n")
	sb.WriteString("  arb list")
	return sb.String()
}

// formatConfigError formats invalid generator definitions.
func (f *ErrorFormatter) formatConfigError(err error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: Invalid configuration.\n\n%s\n\n", err)
	sb.WriteString("Fix the file, or write a fresh starter with:\n")
	sb.WriteString("  arb init --force")
	return sb.String()
}

// formatPropertyError formats property expression errors with the available functions.
func (f *ErrorFormatter) formatPropertyError(errMsg string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n\n", errMsg)
	fmt.Fprintf(&sb, "Number functions:   %s\n", strings.Join(property.Functions(property.Number), ", "))
	fmt.Fprintf(&sb, "Sequence functions: %s\n", strings.Join(property.Functions(property.Sequence), ", "))
	sb.WriteString("Combine them with &&, || and !.")
	return sb.String()
}

// SuggestSimilarGenerators returns known generator names close to name.
func (f *ErrorFormatter) SuggestSimilarGenerators(name string, generators []string) []string {
	if len(generators) == 0 {
		return nil
	}

	var suggestions []string
	nameLower := strings.ToLower(name)

	for _, known := range generators {
		knownLower := strings.ToLower(known)

		// Exact match (case-insensitive)
		if nameLower == knownLower {
			return []string{known}
		}

		if strings.HasPrefix(knownLower, nameLower) || strings.Contains(knownLower, nameLower) {
			suggestions = append(suggestions, known)
			continue
		}

		if f.levenshteinDistance(nameLower, knownLower) <= 2 {
			suggestions = append(suggestions, known)
		}
	}

	return suggestions
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func (f *ErrorFormatter) levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
