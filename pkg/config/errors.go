package config

import "fmt"

// GeneratorNotFoundError indicates a generator name is not defined.
type GeneratorNotFoundError struct {
	Name string
}

func (e *GeneratorNotFoundError) Error() string {
	return fmt.Sprintf("generator '%s' is not defined", e.Name)
}

// ValidationError describes an invalid configuration value.
type ValidationError struct {
	Generator string
	Field     string
	Reason    string
	Wrapped   error
}

func (e *ValidationError) Error() string {
	if e.Generator == "" {
		return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid generator '%s': %s %s", e.Generator, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}
