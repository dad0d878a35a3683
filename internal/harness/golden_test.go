package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_AllSevens(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/all_sevens.yaml")
	require.NoError(t, err)

	// Regenerate with:
	//   go test ./internal/harness -run TestRunWithGolden_AllSevens -update
	require.NoError(t, RunWithGolden(t, sc))
}

func TestAssertGolden_ReusesResult(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/all_sevens.yaml")
	require.NoError(t, err)

	result, err := Run(sc)
	require.NoError(t, err)

	require.NoError(t, AssertGolden(t, sc.Name, sc.Seed, result))
}
