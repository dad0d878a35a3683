package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/randseq/internal/rule"
)

// stubRule is a scriptable rule for driving the loop deterministically.
// Nil callbacks skip (Numbers) or pass (everything else).
type stubRule struct {
	name    string
	share   func(cd *rule.CurrentData)
	numbers func(cd *rule.CurrentData) ([]int, error)
	within  func(cd *rule.CurrentData) error
	match   func(cd *rule.CurrentData) error
}

func (s *stubRule) Name() string { return s.name }

func (s *stubRule) ShareData(cd *rule.CurrentData) rule.Facts {
	if s.share != nil {
		s.share(cd)
	}
	return nil
}

func (s *stubRule) Numbers(cd *rule.CurrentData) ([]int, error) {
	if s.numbers == nil {
		return nil, rule.ErrSkip
	}
	return s.numbers(cd)
}

func (s *stubRule) WithinRange(cd *rule.CurrentData) error {
	if s.within == nil {
		return nil
	}
	return s.within(cd)
}

func (s *stubRule) Match(cd *rule.CurrentData) error {
	if s.match == nil {
		return nil
	}
	return s.match(cd)
}

func (s *stubRule) CheckCount(int) error { return nil }

func mustSettings(t *testing.T, rules []rule.Rule, length int, opts ...rule.SettingsOption) *rule.Settings {
	t.Helper()
	s, err := rule.NewSettings(rules, length, opts...)
	require.NoError(t, err)
	return s
}

func fixedIDs(n int) *FixedGenerator {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "run-" + string(rune('a'+i))
	}
	return NewFixedGenerator(ids...)
}
