package rule

import (
	"fmt"
	"slices"
)

// Default tuning constants.
const (
	// DefaultMaxAttempts bounds the engine loop for one generation.
	DefaultMaxAttempts = 1000

	// DefaultMaxMatchAttempts is how many failed full-length checks are
	// tolerated before the sequence is forcibly cleared.
	DefaultMaxMatchAttempts = 25

	// ErrorThresholdMultiplier scales the target length into the default
	// per-discriminator error threshold.
	ErrorThresholdMultiplier = 6
)

// ConfigError is a fatal configuration error: a rule cannot be satisfied
// for the requested length, or the settings themselves are invalid. It can
// never be resolved by further attempts.
type ConfigError struct {
	Rule    string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("invalid configuration for %s: %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

// Settings is the immutable generation configuration.
//
// INVARIANTS:
//   - Every rule's CheckCount(Count()) succeeded at construction
//   - Exactly one RandomNumber rule is present (auto-injected when absent)
//   - Rule slices are copied; callers cannot mutate them afterwards
type Settings struct {
	rules            []Rule
	excludeRules     []ExcludeRule
	count            int
	maxAttempts      int
	maxMatchAttempts int
	errorThreshold   int
}

// SettingsOption configures optional Settings parameters.
type SettingsOption func(*Settings)

// WithExcludeRules sets the exclusion rules checked after the regular rules.
func WithExcludeRules(rules ...ExcludeRule) SettingsOption {
	return func(s *Settings) {
		s.excludeRules = append(s.excludeRules, rules...)
	}
}

// WithMaxAttempts sets the attempt ceiling.
//
// Default: 1000 (DefaultMaxAttempts)
func WithMaxAttempts(n int) SettingsOption {
	return func(s *Settings) {
		s.maxAttempts = n
	}
}

// WithMaxMatchAttempts sets how many failed full-length checks force a
// reset.
//
// Default: 25 (DefaultMaxMatchAttempts)
func WithMaxMatchAttempts(n int) SettingsOption {
	return func(s *Settings) {
		s.maxMatchAttempts = n
	}
}

// WithErrorThreshold sets the per-discriminator count above which the
// engine resets.
//
// Default: 6 * length
func WithErrorThreshold(n int) SettingsOption {
	return func(s *Settings) {
		s.errorThreshold = n
	}
}

// NewSettings builds Settings for sequences of the given length.
//
// A RandomNumber rule is appended when none is present. Returns a
// *ConfigError if the length or a tuning constant is invalid, or if any
// rule's CheckCount fails.
func NewSettings(rules []Rule, length int, opts ...SettingsOption) (*Settings, error) {
	if length <= 0 {
		return nil, &ConfigError{Message: fmt.Sprintf("length must be positive, got %d", length)}
	}

	cloned := slices.Clone(rules)
	if !slices.ContainsFunc(cloned, func(r Rule) bool { return r.Name() == NameRandomNumber }) {
		cloned = append(cloned, RandomNumber())
	}

	s := &Settings{
		rules:            cloned,
		count:            length,
		maxAttempts:      DefaultMaxAttempts,
		maxMatchAttempts: DefaultMaxMatchAttempts,
		errorThreshold:   ErrorThresholdMultiplier * length,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.maxAttempts <= 0 {
		return nil, &ConfigError{Message: fmt.Sprintf("max attempts must be positive, got %d", s.maxAttempts)}
	}
	if s.maxMatchAttempts <= 0 {
		return nil, &ConfigError{Message: fmt.Sprintf("max match attempts must be positive, got %d", s.maxMatchAttempts)}
	}
	if s.errorThreshold <= 0 {
		return nil, &ConfigError{Message: fmt.Sprintf("error threshold must be positive, got %d", s.errorThreshold)}
	}

	for _, r := range s.rules {
		if err := r.CheckCount(length); err != nil {
			return nil, &ConfigError{Rule: r.Name(), Message: err.Error()}
		}
	}

	return s, nil
}

// MustSettings is like NewSettings but panics on a configuration error.
func MustSettings(rules []Rule, length int, opts ...SettingsOption) *Settings {
	s, err := NewSettings(rules, length, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Rules returns a copy of the rule list, in configuration order.
func (s *Settings) Rules() []Rule { return slices.Clone(s.rules) }

// ExcludeRules returns a copy of the exclusion list.
func (s *Settings) ExcludeRules() []ExcludeRule { return slices.Clone(s.excludeRules) }

// Count returns the target sequence length.
func (s *Settings) Count() int { return s.count }

// MaxAttempts returns the attempt ceiling.
func (s *Settings) MaxAttempts() int { return s.maxAttempts }

// MaxMatchAttempts returns the failed full-length check cap.
func (s *Settings) MaxMatchAttempts() int { return s.maxMatchAttempts }

// ErrorThreshold returns the per-discriminator reset threshold.
func (s *Settings) ErrorThreshold() int { return s.errorThreshold }

// NumberWithinRange asks the RandomNumber fallback for a value inside the
// range published this round.
func (s *Settings) NumberWithinRange(cd *CurrentData) (int, error) {
	for _, r := range s.rules {
		if r.Name() != NameRandomNumber {
			continue
		}
		nums, err := r.Numbers(cd)
		if err != nil {
			return 0, err
		}
		if len(nums) == 0 {
			return 0, fmt.Errorf("%s proposed no numbers", NameRandomNumber)
		}
		return nums[0], nil
	}
	return 0, fmt.Errorf("%s rule not configured", NameRandomNumber)
}
