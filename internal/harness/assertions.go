package harness

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/roach88/randseq/internal/engine"
	"github.com/roach88/randseq/internal/rule"
)

// AssertionError is returned when an assertion fails.
// It includes the offending trial to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Trial    int    // 1-based trial number, 0 when the check spans all trials
	Trials   []Trial
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	if e.Trial > 0 {
		fmt.Fprintf(&buf, "  Trial: %d\n", e.Trial)
	}
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nTrials:\n")
	for i, t := range e.Trials {
		fmt.Fprintf(&buf, "  [%d] %s %v\n", i+1, t.Status, t.Numbers)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns one message per
// failure, in assertion order.
func EvaluateAssertions(trials []Trial, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(trials, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(trials []Trial, a Assertion) error {
	switch a.Type {
	case AssertStatus:
		return assertStatus(trials, a)
	case AssertLength:
		return assertLength(trials, a)
	case AssertUnique:
		return assertUnique(trials)
	case AssertRange:
		return assertRange(trials, a)
	case AssertParity:
		return assertParity(trials, a)
	case AssertNotEqual:
		return assertNotEqual(trials, a)
	case AssertDuplicateOccurs:
		return assertDuplicateOccurs(trials)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertStatus(trials []Trial, a Assertion) error {
	for i, t := range trials {
		if t.Status != a.Status {
			return &AssertionError{
				Type:     AssertStatus,
				Expected: a.Status,
				Actual:   t.Status,
				Trial:    i + 1,
				Trials:   trials,
			}
		}
	}
	return nil
}

func assertLength(trials []Trial, a Assertion) error {
	for i, t := range successful(trials) {
		if len(t.Numbers) != a.Length {
			return &AssertionError{
				Type:     AssertLength,
				Expected: fmt.Sprintf("%d numbers", a.Length),
				Actual:   fmt.Sprintf("%d numbers: %v", len(t.Numbers), t.Numbers),
				Trial:    i + 1,
				Trials:   trials,
			}
		}
	}
	return nil
}

func assertUnique(trials []Trial) error {
	for i, t := range successful(trials) {
		if v, ok := firstDuplicate(t.Numbers); ok {
			return &AssertionError{
				Type:     AssertUnique,
				Expected: "no repeated values",
				Actual:   fmt.Sprintf("%d repeats in %v", v, t.Numbers),
				Trial:    i + 1,
				Trials:   trials,
			}
		}
	}
	return nil
}

func assertRange(trials []Trial, a Assertion) error {
	for i, t := range successful(trials) {
		for idx, n := range t.Numbers {
			if a.Index != nil && *a.Index != idx {
				continue
			}
			if n < *a.Min || n > *a.Max {
				return &AssertionError{
					Type:     AssertRange,
					Expected: fmt.Sprintf("values in [%d, %d]", *a.Min, *a.Max),
					Actual:   fmt.Sprintf("%d at index %d", n, idx),
					Trial:    i + 1,
					Trials:   trials,
				}
			}
		}
	}
	return nil
}

func assertParity(trials []Trial, a Assertion) error {
	want := rule.Even
	if a.Parity == "odd" {
		want = rule.Odd
	}
	for i, t := range successful(trials) {
		for idx, n := range t.Numbers {
			if a.Index != nil && *a.Index != idx {
				continue
			}
			if rule.ParityOf(n) != want {
				return &AssertionError{
					Type:     AssertParity,
					Expected: fmt.Sprintf("%s values", want),
					Actual:   fmt.Sprintf("%d at index %d", n, idx),
					Trial:    i + 1,
					Trials:   trials,
				}
			}
		}
	}
	return nil
}

func assertNotEqual(trials []Trial, a Assertion) error {
	for i, t := range successful(trials) {
		if slices.Equal(t.Numbers, a.Values) {
			return &AssertionError{
				Type:     AssertNotEqual,
				Expected: fmt.Sprintf("never %v", a.Values),
				Actual:   fmt.Sprintf("%v", t.Numbers),
				Trial:    i + 1,
				Trials:   trials,
			}
		}
	}
	return nil
}

func assertDuplicateOccurs(trials []Trial) error {
	for _, t := range successful(trials) {
		if _, ok := firstDuplicate(t.Numbers); ok {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertDuplicateOccurs,
		Expected: "at least one trial with a repeated value",
		Actual:   "every trial was duplicate-free",
		Trials:   trials,
	}
}

// successful yields only the trials that produced numbers. Index i stays
// the position in the full slice.
func successful(trials []Trial) iter.Seq2[int, Trial] {
	return func(yield func(int, Trial) bool) {
		for i, t := range trials {
			if t.Status != engine.StatusSuccess.String() {
				continue
			}
			if !yield(i, t) {
				return
			}
		}
	}
}

func firstDuplicate(numbers []int) (int, bool) {
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if _, ok := seen[n]; ok {
			return n, true
		}
		seen[n] = struct{}{}
	}
	return 0, false
}
