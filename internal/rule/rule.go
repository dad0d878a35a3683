package rule

import (
	"errors"
	"fmt"
)

// ErrSkip is returned by Numbers when a rule has nothing to contribute this
// round. It is not an error: the engine never logs or tracks it.
var ErrSkip = errors.New("skip")

// Severity classifies a WithinRange failure.
type Severity int

const (
	// Regular is an ordinary constraint violation.
	Regular Severity = iota

	// MakePriority signals that the rule is at risk of becoming
	// unsatisfiable with the remaining slots and should run first next round.
	MakePriority
)

// String returns the severity name used in logs.
func (s Severity) String() string {
	switch s {
	case Regular:
		return "Regular"
	case MakePriority:
		return "MakePriority"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// RangeError is returned by WithinRange when a partial sequence violates a
// rule.
type RangeError struct {
	Severity Severity
	Message  string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Severity, e.Message)
}

// Violation creates a Regular RangeError.
func Violation(format string, args ...any) *RangeError {
	return &RangeError{Severity: Regular, Message: fmt.Sprintf(format, args...)}
}

// Priority creates a MakePriority RangeError.
func Priority(format string, args ...any) *RangeError {
	return &RangeError{Severity: MakePriority, Message: fmt.Sprintf(format, args...)}
}

// SeverityOf reports the severity of a WithinRange error.
// Errors that are not a RangeError count as Regular.
func SeverityOf(err error) Severity {
	var re *RangeError
	if errors.As(err, &re) {
		return re.Severity
	}
	return Regular
}

// IsPriority reports whether err is a MakePriority RangeError.
func IsPriority(err error) bool {
	return err != nil && SeverityOf(err) == MakePriority
}

// Rule is a unit of constraint logic evaluated by the engine.
//
// Implementations must be immutable after construction: the engine shares
// a single Rule value across rounds and, via GenerateBatch, across
// goroutines.
type Rule interface {
	// Name identifies the rule. It keys SharedData and the error tracker.
	Name() string

	// ShareData returns facts for other rules to read this round, or nil.
	// Must be a pure function of cd.
	ShareData(cd *CurrentData) Facts

	// Numbers proposes zero or more values to append to the sequence.
	// Returns ErrSkip when the rule has nothing to contribute.
	Numbers(cd *CurrentData) ([]int, error)

	// WithinRange validates a partial sequence. Returns nil or an error,
	// usually a *RangeError.
	WithinRange(cd *CurrentData) error

	// Match validates a sequence of full length.
	Match(cd *CurrentData) error

	// CheckCount reports whether the rule can be satisfied by a sequence of
	// the given length. Must be idempotent.
	CheckCount(length int) error
}

// ExcludeRule requires the negation of a rule on the finished sequence.
type ExcludeRule interface {
	// Name identifies the exclusion in logs and the error tracker.
	Name() string

	// WithinExcludedRange validates a partial sequence.
	WithinExcludedRange(cd *CurrentData) error

	// Excluded fails when the full sequence satisfies the excluded rule.
	Excluded(cd *CurrentData) error
}

// InvertedRanger is implemented by rules whose partial check can be
// inverted element by element (for example a numeric range: no element may
// fall inside it).
type InvertedRanger interface {
	WithinInvertedRange(cd *CurrentData) error
}

// matchFromRange adapts a WithinRange result for use as a Match result.
func matchFromRange(err error) error {
	var re *RangeError
	if errors.As(err, &re) {
		return errors.New(re.Message)
	}
	return err
}
