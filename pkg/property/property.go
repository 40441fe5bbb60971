// Package property compiles property expressions into predicates over
// generated values.
//
// Expressions combine named checks with && (and), || (or), ! (not) and
// parentheses. Integer arguments are decimal literals and may be negative.
//
// Checks on integers:
//   - Below(n), AtMost(n), Above(n), AtLeast(n), Equals(n)
//   - AbsBelow(n): |v| < n
//   - Even(), Odd(), Negative(), Positive(), Zero()
//
// Checks on integer slices:
//   - LenBelow(n), LenAtMost(n), LenAtLeast(n), Empty()
//   - AllBelow(n), AllAbsBelow(n), AnyEquals(n)
//   - SumBelow(n), SumAbsBelow(n)
//   - Sorted(), Distinct()
package property

import (
	"fmt"
	"math"
	"regexp"
	"slices"

	"github.com/vulcand/predicate"
)

// Target selects which family of checks an expression may use.
type Target int

const (
	// Number expressions test uint64 and int64 values.
	Number Target = iota
	// Sequence expressions test []int64 values.
	Sequence
)

func (t Target) String() string {
	switch t {
	case Number:
		return "number"
	case Sequence:
		return "sequence"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Predicate reports whether a value satisfies the compiled property.
type Predicate func(value any) bool

// valuePredicate is the intermediate type produced by the parser.
type valuePredicate func(any) bool

// negativeArgument matches a negated literal in argument position. The
// predicate parser rejects unary minus, so "-5" is rewritten to "neg(5)".
var negativeArgument = regexp.MustCompile(`([(,]\s*)-\s*(\d+)`)

// negateFunction is registered with the parser but not listed by Functions.
const negateFunction = "neg"

// Compile parses expr for the given target.
func Compile(expr string, target Target) (Predicate, error) {
	if expr == "" {
		return nil, fmt.Errorf("property expression cannot be empty")
	}

	var functions map[string]any
	switch target {
	case Number:
		functions = numberFunctions()
	case Sequence:
		functions = sequenceFunctions()
	default:
		return nil, fmt.Errorf("unknown target %v", target)
	}
	functions[negateFunction] = func(n int) int { return -n }

	parser, err := predicate.NewParser(predicate.Def{
		Functions: functions,
		Operators: predicate.Operators{
			AND: andOperator,
			OR:  orOperator,
			NOT: notOperator,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}

	parsed, err := parser.Parse(negativeArgument.ReplaceAllString(expr, "${1}"+negateFunction+"(${2})"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s property %q: %w", target, expr, err)
	}

	fn, ok := parsed.(valuePredicate)
	if !ok {
		return nil, fmt.Errorf("property must evaluate to boolean, got %T", parsed)
	}
	return Predicate(fn), nil
}

// Functions lists the check names available for target.
func Functions(target Target) []string {
	var functions map[string]any
	if target == Sequence {
		functions = sequenceFunctions()
	} else {
		functions = numberFunctions()
	}

	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Logical operators
func andOperator(a, b valuePredicate) valuePredicate {
	return func(v any) bool {
		return a(v) && b(v)
	}
}

func orOperator(a, b valuePredicate) valuePredicate {
	return func(v any) bool {
		return a(v) || b(v)
	}
}

func notOperator(a valuePredicate) valuePredicate {
	return func(v any) bool {
		return !a(v)
	}
}

// number holds an integer value of either signedness.
type number struct {
	signed   int64
	unsigned uint64
	isSigned bool
}

func asNumber(v any) (number, bool) {
	switch n := v.(type) {
	case int64:
		return number{signed: n, isSigned: true}, true
	case uint64:
		return number{unsigned: n}, true
	case int:
		return number{signed: int64(n), isSigned: true}, true
	default:
		return number{}, false
	}
}

// compare returns -1, 0 or 1 as n is less than, equal to or greater than bound.
func (n number) compare(bound int64) int {
	if !n.isSigned {
		switch {
		case bound < 0 || n.unsigned > uint64(bound):
			return 1
		case n.unsigned < uint64(bound):
			return -1
		default:
			return 0
		}
	}
	switch {
	case n.signed < bound:
		return -1
	case n.signed > bound:
		return 1
	default:
		return 0
	}
}

func (n number) abs() uint64 {
	if !n.isSigned {
		return n.unsigned
	}
	if n.signed < 0 {
		return uint64(-(n.signed + 1)) + 1
	}
	return uint64(n.signed)
}

func (n number) sign() int {
	return n.compare(0)
}

func numberCheck(check func(number) bool) valuePredicate {
	return func(v any) bool {
		n, ok := asNumber(v)
		return ok && check(n)
	}
}

func numberFunctions() map[string]any {
	return map[string]any{
		"Below": func(bound int) valuePredicate {
			return numberCheck(func(n number) bool { return n.compare(int64(bound)) < 0 })
		},
		"AtMost": func(bound int) valuePredicate {
			return numberCheck(func(n number) bool { return n.compare(int64(bound)) <= 0 })
		},
		"Above": func(bound int) valuePredicate {
			return numberCheck(func(n number) bool { return n.compare(int64(bound)) > 0 })
		},
		"AtLeast": func(bound int) valuePredicate {
			return numberCheck(func(n number) bool { return n.compare(int64(bound)) >= 0 })
		},
		"Equals": func(want int) valuePredicate {
			return numberCheck(func(n number) bool { return n.compare(int64(want)) == 0 })
		},
		"AbsBelow": func(bound int) valuePredicate {
			return numberCheck(func(n number) bool { return bound > 0 && n.abs() < uint64(bound) })
		},
		"Even": func() valuePredicate {
			return numberCheck(func(n number) bool { return n.abs()%2 == 0 })
		},
		"Odd": func() valuePredicate {
			return numberCheck(func(n number) bool { return n.abs()%2 == 1 })
		},
		"Negative": func() valuePredicate {
			return numberCheck(func(n number) bool { return n.sign() < 0 })
		},
		"Positive": func() valuePredicate {
			return numberCheck(func(n number) bool { return n.sign() > 0 })
		},
		"Zero": func() valuePredicate {
			return numberCheck(func(n number) bool { return n.sign() == 0 })
		},
	}
}

func sequenceCheck(check func([]int64) bool) valuePredicate {
	return func(v any) bool {
		xs, ok := v.([]int64)
		return ok && check(xs)
	}
}

func absInt64(x int64) uint64 {
	n, _ := asNumber(x)
	return n.abs()
}

func sequenceFunctions() map[string]any {
	return map[string]any{
		"LenBelow": func(bound int) valuePredicate {
			return sequenceCheck(func(xs []int64) bool { return len(xs) < bound })
		},
		"LenAtMost": func(bound int) valuePredicate {
			return sequenceCheck(func(xs []int64) bool { return len(xs) <= bound })
		},
		"LenAtLeast": func(bound int) valuePredicate {
			return sequenceCheck(func(xs []int64) bool { return len(xs) >= bound })
		},
		"Empty": func() valuePredicate {
			return sequenceCheck(func(xs []int64) bool { return len(xs) == 0 })
		},
		"AllBelow": func(bound int) valuePredicate {
			return sequenceCheck(func(xs []int64) bool {
				for _, x := range xs {
					if x >= int64(bound) {
						return false
					}
				}
				return true
			})
		},
		"AllAbsBelow": func(bound int) valuePredicate {
			return sequenceCheck(func(xs []int64) bool {
				for _, x := range xs {
					if bound <= 0 || absInt64(x) >= uint64(bound) {
						return false
					}
				}
				return true
			})
		},
		"AnyEquals": func(want int) valuePredicate {
			return sequenceCheck(func(xs []int64) bool {
				return slices.Contains(xs, int64(want))
			})
		},
		"SumBelow": func(bound int) valuePredicate {
			return sequenceCheck(func(xs []int64) bool {
				sum, ok := checkedSum(xs)
				return ok && sum < int64(bound)
			})
		},
		"SumAbsBelow": func(bound int) valuePredicate {
			return sequenceCheck(func(xs []int64) bool {
				sum, ok := checkedSum(xs)
				return ok && bound > 0 && absInt64(sum) < uint64(bound)
			})
		},
		"Sorted": func() valuePredicate {
			return sequenceCheck(func(xs []int64) bool { return slices.IsSorted(xs) })
		},
		"Distinct": func() valuePredicate {
			return sequenceCheck(func(xs []int64) bool {
				seen := make(map[int64]struct{}, len(xs))
				for _, x := range xs {
					if _, dup := seen[x]; dup {
						return false
					}
					seen[x] = struct{}{}
				}
				return true
			})
		},
	}
}

// checkedSum adds xs, reporting false on overflow.
func checkedSum(xs []int64) (int64, bool) {
	var sum int64
	for _, x := range xs {
		if (x > 0 && sum > math.MaxInt64-x) || (x < 0 && sum < math.MinInt64-x) {
			return 0, false
		}
		sum += x
	}
	return sum, true
}
