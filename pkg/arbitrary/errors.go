package arbitrary

import "fmt"

// RangeError reports an inverted range passed to a generator constructor.
type RangeError struct {
	Field string
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid %s range [%d, %d]: minimum exceeds maximum", e.Field, e.Min, e.Max)
}

// DomainError reports a value that lies outside a generator's domain.
type DomainError struct {
	Value any
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("value %v is outside the generator's domain", e.Value)
}
