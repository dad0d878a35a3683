package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/randseq/internal/random"
)

func TestProfileOf(t *testing.T) {
	tests := []struct {
		name         string
		numbers      []int
		orderMatters bool
		want         Profile
	}{
		{"empty", nil, false, Profile{Not: 0}},
		{"no runs", []int{1, 5, 9}, false, Profile{Not: 3}},
		{"two runs sorted", []int{10, 1, 2, 3, 5, 9}, false, Profile{Not: 1, Runs: []int{2, 3}}},
		{"two runs in order", []int{10, 1, 2, 3, 5, 9}, true, Profile{Not: 1, Runs: []int{3, 2}}},
		{"duplicate breaks nothing", []int{1, 1, 2}, false, Profile{Not: 1, Runs: []int{2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileOf(tt.numbers, tt.orderMatters))
		})
	}
}

func TestProfile_String(t *testing.T) {
	assert.Equal(t, "NOT:1,SEQ1:2,SEQ2:3", Profile{Not: 1, Runs: []int{2, 3}}.String())
	assert.Equal(t, "NOT:4", Profile{Not: 4}.String())
}

func TestSequential_CheckCount(t *testing.T) {
	assert.NoError(t, NewSequential(1, 2, 3).CheckCount(6))
	assert.Error(t, NewSequential(1, 2, 3).CheckCount(5))
	assert.Error(t, NewSequential(2, 1).CheckCount(3))
	assert.Error(t, NewSequential(-1, 2).CheckCount(1))
}

func TestSequential_WithinRange(t *testing.T) {
	seq := NewSequential(1, 2)
	rules := []Rule{seq}

	tests := []struct {
		name    string
		numbers []int
		wantErr bool
	}{
		{"empty", nil, false},
		{"one pair", []int{1, 2}, false},
		{"too many singles", []int{1, 5, 9}, true},
		{"run too long", []int{1, 2, 3}, true},
		{"two runs where one allowed", []int{1, 2, 8, 9}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := seq.WithinRange(newCD(t, tt.numbers, 3, rules, nil))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSequential_NumbersSeedsFromRange(t *testing.T) {
	seq := NewSequential(0, 3)
	rules := []Rule{seq, NumberRangeAll(10, 10)}

	nums, err := seq.Numbers(newCD(t, nil, 3, rules, random.NewFixed(0)))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, nums)
}

func TestSequential_NumbersExtendsSelected(t *testing.T) {
	seq := NewSequential(1, 2)

	nums, err := seq.Numbers(newCD(t, []int{20}, 3, []Rule{seq}, random.NewFixed(0)))
	require.NoError(t, err)
	assert.Equal(t, []int{21}, nums)
}

func TestSequential_NumbersSkip(t *testing.T) {
	seq := NewSequential(1, 2)
	_, err := seq.Numbers(newCD(t, []int{1, 2}, 3, []Rule{seq}, nil))
	assert.ErrorIs(t, err, ErrSkip)

	noRuns := NewSequential(3)
	_, err = noRuns.Numbers(newCD(t, nil, 3, []Rule{noRuns}, nil))
	assert.ErrorIs(t, err, ErrSkip)
}

func TestSequential_Match(t *testing.T) {
	seq := NewSequential(1, 2, 3)
	rules := []Rule{seq}

	assert.NoError(t, seq.Match(newCD(t, []int{20, 5, 6, 7, 1, 2}, 6, rules, nil)))
	assert.Error(t, seq.Match(newCD(t, []int{1, 2, 3, 4, 9, 11}, 6, rules, nil)))
}

func TestSequentialFromNumbers_RoundTrip(t *testing.T) {
	numbers := []int{4, 5, 9, 30, 31, 32}
	seq := SequentialFromNumbers(numbers)
	assert.Equal(t, Profile{Not: 1, Runs: []int{2, 3}}, seq.Target())
	assert.NoError(t, seq.Match(newCD(t, numbers, 6, []Rule{seq}, nil)))
}
