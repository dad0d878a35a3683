package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Rule kinds accepted in configs.
const (
	KindRandomNumber      = "random_number"
	KindNumberRange       = "number_range"
	KindNoDuplicate       = "no_duplicate"
	KindNumberPool        = "number_pool"
	KindNumberPoolByIndex = "number_pool_by_index"
	KindOddEven           = "odd_even"
	KindOddEvenByIndex    = "odd_even_by_index"
	KindSequential        = "sequential"
	KindNumberSpace       = "number_space"
	KindExcludeNumberSets = "exclude_number_sets"
	KindAlphanumeric      = "alphanumeric"
)

// Config is one generation request.
type Config struct {
	// Name labels the config in CLI output. Optional.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Length is the target sequence length.
	Length int `yaml:"length" json:"length" validate:"required,min=1"`

	// Tuning overrides; zero keeps the rule package defaults.
	MaxAttempts      int `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty" validate:"omitempty,min=1"`
	MaxMatchAttempts int `yaml:"max_match_attempts,omitempty" json:"max_match_attempts,omitempty" validate:"omitempty,min=1"`
	ErrorThreshold   int `yaml:"error_threshold,omitempty" json:"error_threshold,omitempty" validate:"omitempty,min=1"`

	// Rules are evaluated in a shuffled order every attempt.
	Rules []RuleSpec `yaml:"rules,omitempty" json:"rules,omitempty" validate:"dive"`

	// Exclude rules are negated: a full sequence they match is rejected.
	Exclude []RuleSpec `yaml:"exclude,omitempty" json:"exclude,omitempty" validate:"dive"`
}

// RuleSpec describes one rule. Which fields apply depends on Kind.
type RuleSpec struct {
	Kind string `yaml:"kind" json:"kind" validate:"required,oneof=random_number number_range no_duplicate number_pool number_pool_by_index odd_even odd_even_by_index sequential number_space exclude_number_sets alphanumeric"`

	// number_range: either Min/Max for every position or Ranges.
	Min    *int        `yaml:"min,omitempty" json:"min,omitempty"`
	Max    *int        `yaml:"max,omitempty" json:"max,omitempty"`
	Ranges []RangeSpec `yaml:"ranges,omitempty" json:"ranges,omitempty" validate:"dive"`

	// number_pool, number_pool_by_index
	Pools []PoolSpec `yaml:"pools,omitempty" json:"pools,omitempty" validate:"dive"`

	// odd_even
	Odd  *int `yaml:"odd,omitempty" json:"odd,omitempty" validate:"omitempty,min=0"`
	Even *int `yaml:"even,omitempty" json:"even,omitempty" validate:"omitempty,min=0"`

	// odd_even_by_index
	OddIndexes  []int `yaml:"odd_indexes,omitempty" json:"odd_indexes,omitempty" validate:"dive,min=0"`
	EvenIndexes []int `yaml:"even_indexes,omitempty" json:"even_indexes,omitempty" validate:"dive,min=0"`

	// sequential
	Not  int   `yaml:"not,omitempty" json:"not,omitempty" validate:"min=0"`
	Runs []int `yaml:"runs,omitempty" json:"runs,omitempty" validate:"dive,min=2"`

	// number_space
	Spaces []SpaceSpec `yaml:"spaces,omitempty" json:"spaces,omitempty" validate:"dive"`

	// exclude_number_sets
	Sets    [][]int  `yaml:"sets,omitempty" json:"sets,omitempty"`
	Strings []string `yaml:"strings,omitempty" json:"strings,omitempty"`

	// alphanumeric: Counts fixes the split, otherwise it is drawn from the
	// length and Special.
	Special bool    `yaml:"special,omitempty" json:"special,omitempty"`
	Counts  *Counts `yaml:"counts,omitempty" json:"counts,omitempty"`
}

// RangeSpec bounds the listed positions to [Min, Max].
type RangeSpec struct {
	Indexes []int `yaml:"indexes" json:"indexes" validate:"required,min=1,dive,min=0"`
	Min     int   `yaml:"min" json:"min"`
	Max     int   `yaml:"max" json:"max" validate:"gtefield=Min"`
}

// PoolSpec is one pool. Exactly one of Values, Chars, Builtin or Min/Max
// defines the members.
type PoolSpec struct {
	Key     string `yaml:"key" json:"key" validate:"required"`
	Needs   int    `yaml:"needs,omitempty" json:"needs,omitempty" validate:"min=0"`
	Values  []int  `yaml:"values,omitempty" json:"values,omitempty"`
	Chars   string `yaml:"chars,omitempty" json:"chars,omitempty"`
	Builtin string `yaml:"builtin,omitempty" json:"builtin,omitempty" validate:"omitempty,oneof=alpha numeric special"`
	Min     *int   `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *int   `yaml:"max,omitempty" json:"max,omitempty"`
	Indexes []int  `yaml:"indexes,omitempty" json:"indexes,omitempty" validate:"dive,min=0"`
}

// SpaceSpec is one gap class.
type SpaceSpec struct {
	Kind  string `yaml:"kind" json:"kind" validate:"required,oneof=lt lte eq gte gt between"`
	Value int    `yaml:"value" json:"value"`
	Upper int    `yaml:"upper,omitempty" json:"upper,omitempty"`
	Needs int    `yaml:"needs" json:"needs" validate:"min=0"`
}

// Counts fixes the alphanumeric split.
type Counts struct {
	Alpha   int `yaml:"alpha" json:"alpha" validate:"min=0"`
	Numeric int `yaml:"numeric" json:"numeric" validate:"min=0"`
	Special int `yaml:"special" json:"special" validate:"min=0"`
}

// structValidate is shared; validator caches struct metadata per instance.
var structValidate = validator.New()

// Validate checks the structural constraints declared in struct tags.
// Every failing field becomes a *CompileError; they are joined.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &CompileError{Field: "config", Message: "config is nil"}
	}
	err := structValidate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, &CompileError{Field: fe.Namespace(), Message: describeTag(fe)})
	}
	return errors.Join(errs...)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "gtefield":
		return fmt.Sprintf("must be >= %s", fe.Param())
	}
	return fmt.Sprintf("failed %q", fe.Tag())
}
