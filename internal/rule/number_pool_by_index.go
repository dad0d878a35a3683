package rule

import (
	"fmt"
	"slices"
	"strings"
)

// IndexedPool requires the listed positions to hold members of Pool.
type IndexedPool struct {
	Key     string
	Pool    Pool
	Indexes []int
}

// NumberPoolByIndex constrains positions to pools.
type NumberPoolByIndex struct {
	items []IndexedPool
}

// NewNumberPoolByIndex creates the rule. When several items list the same
// position, every one of their pools must contain the value; proposals use
// the first.
func NewNumberPoolByIndex(items ...IndexedPool) *NumberPoolByIndex {
	cloned := make([]IndexedPool, len(items))
	for i, item := range items {
		item.Indexes = slices.Clone(item.Indexes)
		cloned[i] = item
	}
	return &NumberPoolByIndex{items: cloned}
}

func (p *NumberPoolByIndex) Name() string { return NameNumberPoolByIndex }

func (p *NumberPoolByIndex) String() string {
	parts := make([]string, len(p.items))
	for i, item := range p.items {
		parts[i] = fmt.Sprintf("%s%v:%s", item.Key, item.Indexes, item.Pool)
	}
	return strings.Join(parts, ",")
}

func (p *NumberPoolByIndex) ShareData(*CurrentData) Facts { return nil }

func (p *NumberPoolByIndex) Numbers(cd *CurrentData) ([]int, error) {
	next := cd.Len()
	for _, item := range p.items {
		if slices.Contains(item.Indexes, next) {
			return []int{item.Pool.Draw(cd.Random(), cd.Set())}, nil
		}
	}
	return nil, ErrSkip
}

func (p *NumberPoolByIndex) WithinRange(cd *CurrentData) error {
	return p.check(cd, false)
}

func (p *NumberPoolByIndex) Match(cd *CurrentData) error {
	return matchFromRange(p.check(cd, false))
}

// WithinInvertedRange fails when any constrained position holds a member
// of its pool.
func (p *NumberPoolByIndex) WithinInvertedRange(cd *CurrentData) error {
	return p.check(cd, true)
}

func (p *NumberPoolByIndex) check(cd *CurrentData, invert bool) error {
	for idx, n := range cd.Numbers() {
		for _, item := range p.items {
			if !slices.Contains(item.Indexes, idx) {
				continue
			}
			if item.Pool.Contains(n) == invert {
				return Violation("invert: %t - selected number %d at index %d against pool %q %s. numbers: %v",
					invert, n, idx, item.Key, item.Pool, cd.Numbers())
			}
		}
	}
	return nil
}

func (p *NumberPoolByIndex) CheckCount(length int) error {
	for _, item := range p.items {
		if item.Pool == nil || item.Pool.Len() == 0 {
			return fmt.Errorf("pool %q is empty", item.Key)
		}
		for _, idx := range item.Indexes {
			if idx < 0 || idx >= length {
				return fmt.Errorf("pool %q index %d is outside sequence length %d", item.Key, idx, length)
			}
		}
	}
	return nil
}
