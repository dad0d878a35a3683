package rule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/randseq/internal/random"
)

func smallPool() *NumberPool {
	return NewNumberPool(
		PoolItem{Key: "a", Pool: NewSetPool(1, 2, 3), Needs: 2},
		PoolItem{Key: "b", Pool: RangePool{Min: 10, Max: 20}, Needs: 1},
	)
}

func TestNumberPool_State(t *testing.T) {
	states := smallPool().State([]int{1, 1, 15, 99})
	require.Len(t, states, 2)

	assert.Equal(t, "a", states[0].Key)
	assert.Equal(t, 2, states[0].Has)
	assert.Equal(t, 0, states[0].Missing)

	assert.Equal(t, 1, states[1].Has)
	assert.Equal(t, 0, states[1].Missing)
}

func TestNumberPool_WithinRange(t *testing.T) {
	p := smallPool()

	tests := []struct {
		name     string
		numbers  []int
		length   int
		wantErr  bool
		severity Severity
	}{
		{"empty", nil, 3, false, Regular},
		{"on track", []int{1, 15}, 3, false, Regular},
		{"too many from a", []int{1, 2, 3}, 4, true, Regular},
		{"running out of slots", []int{30}, 3, true, MakePriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.WithinRange(newCD(t, tt.numbers, tt.length, []Rule{p}, nil))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.severity, SeverityOf(err))
		})
	}
}

func TestNumberPool_NumbersDeterministicRemainder(t *testing.T) {
	p := NewNumberPool(PoolItem{Key: "d", Pool: NewSetPool(5, 6), Needs: 2})
	cd := newCD(t, []int{5}, 3, []Rule{p}, random.NewFixed())

	nums, err := p.Numbers(cd)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, nums)
}

func TestNumberPool_NumbersRandomMember(t *testing.T) {
	p := NewNumberPool(PoolItem{Key: "a", Pool: NewSetPool(1, 2, 3), Needs: 1})
	cd := newCD(t, nil, 2, []Rule{p}, random.NewFixed(1))

	nums, err := p.Numbers(cd)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, nums)
}

func TestNumberPool_NumbersOnePerUnmetPool(t *testing.T) {
	p := smallPool()
	cd := newCD(t, nil, 3, []Rule{p}, random.NewFixed(0))

	nums, err := p.Numbers(cd)
	require.NoError(t, err)
	require.Len(t, nums, 2)
	assert.True(t, NewSetPool(1, 2, 3).Contains(nums[0]))
	assert.True(t, RangePool{Min: 10, Max: 20}.Contains(nums[1]))
}

func TestNumberPool_NumbersSkipWhenSatisfied(t *testing.T) {
	p := smallPool()
	_, err := p.Numbers(newCD(t, []int{1, 2, 11}, 3, []Rule{p}, nil))
	assert.True(t, errors.Is(err, ErrSkip))
}

func TestNumberPool_Match(t *testing.T) {
	p := smallPool()
	assert.NoError(t, p.Match(newCD(t, []int{1, 2, 11}, 3, []Rule{p}, nil)))
	assert.Error(t, p.Match(newCD(t, []int{1, 11, 12}, 3, []Rule{p}, nil)))
}

func TestNumberPool_CheckCount(t *testing.T) {
	p := smallPool()
	assert.NoError(t, p.CheckCount(3))
	assert.Error(t, p.CheckCount(2))

	empty := NewNumberPool(PoolItem{Key: "e", Pool: NewSetPool(), Needs: 1})
	assert.Error(t, empty.CheckCount(5))

	negative := NewNumberPool(PoolItem{Key: "n", Pool: NewSetPool(1), Needs: -1})
	assert.Error(t, negative.CheckCount(5))
}

func TestNumberPoolFromNumbers(t *testing.T) {
	pools := smallPool().Items()
	p := NumberPoolFromNumbers([]int{1, 12, 13, 14}, pools...)

	items := p.Items()
	assert.Equal(t, 1, items[0].Needs)
	assert.Equal(t, 3, items[1].Needs)
	assert.Equal(t, "a:1,b:3", p.String())
}

func TestAlphanumeric(t *testing.T) {
	_, err := Alphanumeric(1, false, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = Alphanumeric(2, true, nil)
	require.Error(t, err)

	p, err := Alphanumeric(8, true, random.NewFixed())
	require.NoError(t, err)
	assert.Equal(t, "alpha_set:6,numeric_set:1,special_char_set:1", p.String())

	// Long passwords draw 1-3 digits and 1-2 specials
	p, err = Alphanumeric(12, true, random.NewFixed(1, 0))
	require.NoError(t, err)
	assert.Equal(t, "alpha_set:9,numeric_set:2,special_char_set:1", p.String())

	p, err = Alphanumeric(12, false, random.NewFixed(2))
	require.NoError(t, err)
	assert.Equal(t, "alpha_set:9,numeric_set:3,special_char_set:0", p.String())
}

func TestAlphanumericSpecs_NumbersAreCharacters(t *testing.T) {
	p := AlphanumericSpecs(2, 1, 1)
	cd := newCD(t, nil, 4, []Rule{p}, random.NewSeeded(3))

	nums, err := p.Numbers(cd)
	require.NoError(t, err)
	require.Len(t, nums, 3)
	assert.Contains(t, AlphabetChars, string(rune(nums[0])))
	assert.Contains(t, NumericChars, string(rune(nums[1])))
	assert.Contains(t, SpecialChars, string(rune(nums[2])))
}

func TestNumberPoolByIndex(t *testing.T) {
	p := NewNumberPoolByIndex(
		IndexedPool{Key: "vowels", Pool: PoolFromChars("aeiou"), Indexes: []int{0, 2}},
		IndexedPool{Key: "digits", Pool: RangePool{Min: '0', Max: '9'}, Indexes: []int{1}},
	)
	rules := []Rule{p}

	nums, err := p.Numbers(newCD(t, nil, 4, rules, random.NewFixed(0)))
	require.NoError(t, err)
	assert.Equal(t, []int{'a'}, nums)

	nums, err = p.Numbers(newCD(t, []int{'a'}, 4, rules, random.NewFixed(3)))
	require.NoError(t, err)
	assert.Equal(t, []int{'3'}, nums)

	_, err = p.Numbers(newCD(t, []int{'a', '3', 'e'}, 4, rules, nil))
	assert.ErrorIs(t, err, ErrSkip)

	assert.NoError(t, p.WithinRange(newCD(t, []int{'a', '3', 'e', 'z'}, 4, rules, nil)))
	assert.Error(t, p.WithinRange(newCD(t, []int{'a', 'b'}, 4, rules, nil)))
	assert.Error(t, p.Match(newCD(t, []int{'b', '1', 'e', 'z'}, 4, rules, nil)))

	ex := Exclude(p)
	assert.Error(t, ex.WithinExcludedRange(newCD(t, []int{'a'}, 4, rules, nil)))
	assert.NoError(t, ex.WithinExcludedRange(newCD(t, []int{'b', 'c'}, 4, rules, nil)))
}

func TestNumberPoolByIndex_CheckCount(t *testing.T) {
	p := NewNumberPoolByIndex(IndexedPool{Key: "x", Pool: NewSetPool(1), Indexes: []int{3}})
	assert.NoError(t, p.CheckCount(4))
	assert.Error(t, p.CheckCount(3))

	empty := NewNumberPoolByIndex(IndexedPool{Key: "x", Pool: NewSetPool(), Indexes: []int{0}})
	assert.Error(t, empty.CheckCount(4))
}
