package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/randseq/internal/config"
)

// Scenario defines a reproducible generation test.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names its golden file.
	Name string `yaml:"name" validate:"required"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" validate:"required"`

	// Seed feeds the engine's source. Same seed, same trials.
	Seed uint64 `yaml:"seed"`

	// Trials is how many generations to run. Defaults to 1.
	Trials int `yaml:"trials,omitempty" validate:"min=0"`

	// Config is the generation config, inline.
	Config config.Config `yaml:"config"`

	// Assertions are checked against every trial.
	Assertions []Assertion `yaml:"assertions" validate:"required,min=1,dive"`
}

// Assertion checks a property of the trials.
type Assertion struct {
	// Type specifies the assertion type:
	// - "status": every trial ended with Status
	// - "length": every successful trial has Length numbers
	// - "unique": no successful trial repeats a value
	// - "range": values (at Index, or all) lie in [Min, Max]
	// - "parity": values (at Index, or all) are Parity
	// - "not_equal": no trial produced Values
	// - "duplicate_occurs": at least one trial repeats a value
	Type string `yaml:"type" validate:"required,oneof=status length unique range parity not_equal duplicate_occurs"`

	// Status is the expected status name (used by status).
	Status string `yaml:"status,omitempty" validate:"omitempty,oneof=Success BadRequest Failed"`

	// Length is the expected sequence length (used by length).
	Length int `yaml:"length,omitempty" validate:"min=0"`

	// Min and Max bound values (used by range).
	Min *int `yaml:"min,omitempty"`
	Max *int `yaml:"max,omitempty"`

	// Index restricts range and parity to one position.
	Index *int `yaml:"index,omitempty" validate:"omitempty,min=0"`

	// Parity is "odd" or "even" (used by parity).
	Parity string `yaml:"parity,omitempty" validate:"omitempty,oneof=odd even"`

	// Values is the forbidden sequence (used by not_equal).
	Values []int `yaml:"values,omitempty"`
}

// Assertion type constants.
const (
	AssertStatus          = "status"
	AssertLength          = "length"
	AssertUnique          = "unique"
	AssertRange           = "range"
	AssertParity          = "parity"
	AssertNotEqual        = "not_equal"
	AssertDuplicateOccurs = "duplicate_occurs"
)

var scenarioValidate = validator.New()

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.Trials == 0 {
		scenario.Trials = 1
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks struct tags, the inline config, then the fields
// each assertion type requires.
func validateScenario(s *Scenario) error {
	if err := scenarioValidate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag())
		}
		return err
	}
	if err := config.Validate(&s.Config); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion checks the fields required by an assertion's type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertStatus:
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: status is required for status", index)
		}
	case AssertLength:
		if a.Length <= 0 {
			return fmt.Errorf("assertions[%d]: length must be positive for length", index)
		}
	case AssertRange:
		if a.Min == nil || a.Max == nil {
			return fmt.Errorf("assertions[%d]: min and max are required for range", index)
		}
		if *a.Min > *a.Max {
			return fmt.Errorf("assertions[%d]: min %d > max %d", index, *a.Min, *a.Max)
		}
	case AssertParity:
		if a.Parity == "" {
			return fmt.Errorf("assertions[%d]: parity is required for parity", index)
		}
	case AssertNotEqual:
		if len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: values are required for not_equal", index)
		}
	}
	return nil
}
