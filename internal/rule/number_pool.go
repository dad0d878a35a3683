package rule

import (
	"fmt"
	"strings"

	"github.com/roach88/randseq/internal/random"
)

// Pool keys used by the alphanumeric constructors.
const (
	PoolAlpha   = "alpha_set"
	PoolNumeric = "numeric_set"
	PoolSpecial = "special_char_set"
)

// PoolItem requires exactly Needs values drawn from Pool.
type PoolItem struct {
	Key   string
	Pool  Pool
	Needs int
}

// PoolState is the accounting of one pool against a sequence.
type PoolState struct {
	Key     string
	Pool    Pool
	Needs   int
	Has     int
	Missing int
}

// NumberPool requires fixed counts of values from each of several pools.
//
// Items are kept in configuration order, so Numbers is deterministic for a
// given source.
type NumberPool struct {
	items []PoolItem
}

// NewNumberPool creates a NumberPool rule.
func NewNumberPool(items ...PoolItem) *NumberPool {
	return &NumberPool{items: append([]PoolItem(nil), items...)}
}

// Alphanumeric builds a password-style pool for a sequence of the given
// length: mostly letters, at least one digit and, when special is set, at
// least one special character. Lengths of 10 or more draw 1-3 digits and
// 1-2 specials from src.
func Alphanumeric(length int, special bool, src random.Source) (*NumberPool, error) {
	minLen := 2
	if special {
		minLen = 3
	}
	if length < minLen {
		return nil, &ConfigError{Rule: NameNumberPool, Message: fmt.Sprintf("alphanumeric length must be %d or more, got %d", minLen, length)}
	}
	if src == nil {
		src = random.Default()
	}

	numeric, specials := 1, 0
	if special {
		specials = 1
	}
	if length >= 10 {
		numeric = src.Intn(1, 3)
		if special {
			specials = src.Intn(1, 2)
		}
	}
	return AlphanumericSpecs(length-numeric-specials, numeric, specials), nil
}

// AlphanumericSpecs builds a pool requiring the exact letter, digit and
// special-character counts.
func AlphanumericSpecs(alpha, numeric, special int) *NumberPool {
	return NewNumberPool(
		PoolItem{Key: PoolAlpha, Pool: PoolFromChars(AlphabetChars), Needs: alpha},
		PoolItem{Key: PoolNumeric, Pool: PoolFromChars(NumericChars), Needs: numeric},
		PoolItem{Key: PoolSpecial, Pool: PoolFromChars(SpecialChars), Needs: special},
	)
}

// Items returns a copy of the configured items.
func (p *NumberPool) Items() []PoolItem {
	return append([]PoolItem(nil), p.items...)
}

// State computes per-pool accounting for numbers. has counts every
// occurrence, so duplicates count toward a pool more than once.
func (p *NumberPool) State(numbers []int) []PoolState {
	states := make([]PoolState, len(p.items))
	for i, item := range p.items {
		has := countIn(item.Pool, numbers)
		states[i] = PoolState{
			Key:     item.Key,
			Pool:    item.Pool,
			Needs:   item.Needs,
			Has:     has,
			Missing: max(item.Needs-has, 0),
		}
	}
	return states
}

// NumberPoolFromNumbers describes numbers in terms of the given pools: the
// result requires exactly as many values per pool as numbers has.
func NumberPoolFromNumbers(numbers []int, pools ...PoolItem) *NumberPool {
	items := make([]PoolItem, len(pools))
	for i, item := range pools {
		item.Needs = countIn(item.Pool, numbers)
		items[i] = item
	}
	return NewNumberPool(items...)
}

func (p *NumberPool) Name() string { return NameNumberPool }

func (p *NumberPool) String() string {
	parts := make([]string, len(p.items))
	for i, item := range p.items {
		parts[i] = fmt.Sprintf("%s:%d", item.Key, item.Needs)
	}
	return strings.Join(parts, ",")
}

func (p *NumberPool) ShareData(*CurrentData) Facts { return nil }

func (p *NumberPool) Numbers(cd *CurrentData) ([]int, error) {
	var out []int
	for _, st := range p.State(cd.Numbers()) {
		if st.Missing == 0 {
			continue
		}
		if st.Pool.Len() == st.Needs {
			out = append(out, st.Pool.Unused(cd.Set())...)
			continue
		}
		out = append(out, st.Pool.Draw(cd.Random(), cd.Set()))
	}
	if len(out) == 0 {
		return nil, ErrSkip
	}
	return out, nil
}

func (p *NumberPool) WithinRange(cd *CurrentData) error {
	missing := 0
	for _, st := range p.State(cd.Numbers()) {
		if st.Has > st.Needs {
			return Violation("too many from pool %q, needs %d and has %d", st.Key, st.Needs, st.Has)
		}
		missing += st.Missing
	}
	if remaining := cd.Remaining(); missing > remaining {
		return Priority("pools are missing %d numbers and only %d slots remain", missing, remaining)
	}
	return nil
}

func (p *NumberPool) Match(cd *CurrentData) error {
	for _, st := range p.State(cd.Numbers()) {
		if st.Has != st.Needs {
			return fmt.Errorf("pool %q %s needs %d, has %d", st.Key, st.Pool, st.Needs, st.Has)
		}
	}
	return nil
}

func (p *NumberPool) CheckCount(length int) error {
	total := 0
	for _, item := range p.items {
		if item.Needs < 0 {
			return fmt.Errorf("pool %q needs %d, must not be negative", item.Key, item.Needs)
		}
		if item.Pool == nil || item.Pool.Len() == 0 {
			if item.Needs > 0 {
				return fmt.Errorf("pool %q is empty but needs %d", item.Key, item.Needs)
			}
			continue
		}
		total += item.Needs
	}
	if total > length {
		return fmt.Errorf("pools need %d numbers, more than length %d", total, length)
	}
	return nil
}
