package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/randseq/internal/random"
)

// newCD builds a CurrentData over numbers for a sequence of the given
// length, publishing the facts each rule shares.
func newCD(t *testing.T, numbers []int, length int, rules []Rule, src random.Source) *CurrentData {
	t.Helper()
	settings, err := NewSettings(rules, length)
	require.NoError(t, err)

	cd := NewCurrentData(numbers, settings, nil, src)
	shared := SharedData{}
	for _, r := range settings.Rules() {
		if facts := r.ShareData(cd); facts != nil {
			shared[r.Name()] = facts
		}
	}
	return cd.WithSharedData(shared)
}
