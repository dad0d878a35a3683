package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures the trials of a scenario execution. Run ids are left
// out so snapshots are stable for a seed.
type Snapshot struct {
	ScenarioName string  `json:"scenario_name"`
	Seed         uint64  `json:"seed"`
	Trials       []Trial `json:"trials"`
}

// NewSnapshot captures the trials of result.
func NewSnapshot(scenarioName string, seed uint64, result *Result) Snapshot {
	return Snapshot{ScenarioName: scenarioName, Seed: seed, Trials: result.Trials}
}

// Marshal renders the snapshot as indented JSON, the golden file format.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// RunWithGolden executes a scenario and compares its trials against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the trials don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return assertSnapshot(t, NewSnapshot(scenario.Name, scenario.Seed, result))
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, seed uint64, result *Result) error {
	t.Helper()

	return assertSnapshot(t, NewSnapshot(scenarioName, seed, result))
}

func assertSnapshot(t *testing.T, snap Snapshot) error {
	t.Helper()

	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, snap.ScenarioName, data)
	return nil
}
