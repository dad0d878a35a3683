package rule

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Bounds is an inclusive [Min, Max] interval.
type Bounds struct {
	Min int
	Max int
}

// Contains reports whether n lies in the interval.
func (b Bounds) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// IndexRange applies Bounds to a set of positions.
type IndexRange struct {
	Indexes []int
	Bounds  Bounds
}

// NumberRange constrains values to inclusive ranges, either for every
// position or per position. It publishes the range for the next position as
// FactMin/FactMax so proposers draw inside it.
type NumberRange struct {
	ranges map[int]Bounds
	all    bool
}

// NumberRangeAll constrains every position to [min, max].
func NumberRangeAll(min, max int) *NumberRange {
	return &NumberRange{
		ranges: map[int]Bounds{0: {Min: min, Max: max}},
		all:    true,
	}
}

// NumberRangeByIndex constrains the listed positions. Positions not listed
// are unconstrained. Later entries override earlier ones for the same index.
func NumberRangeByIndex(ranges ...IndexRange) *NumberRange {
	m := make(map[int]Bounds)
	for _, r := range ranges {
		for _, idx := range r.Indexes {
			m[idx] = r.Bounds
		}
	}
	return &NumberRange{ranges: m}
}

// Len returns the number of configured positions.
func (r *NumberRange) Len() int { return len(r.ranges) }

// BoundsAt returns the bounds applying to position idx.
func (r *NumberRange) BoundsAt(idx int) (Bounds, bool) {
	if r.all {
		idx = 0
	}
	b, ok := r.ranges[idx]
	return b, ok
}

func (r *NumberRange) Name() string { return NameNumberRange }

// String lists the configured ranges sorted by index.
func (r *NumberRange) String() string {
	keys := slices.Sorted(maps.Keys(r.ranges))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		b := r.ranges[k]
		parts = append(parts, fmt.Sprintf("(%d, (%d, %d))", k, b.Min, b.Max))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (r *NumberRange) ShareData(cd *CurrentData) Facts {
	b, ok := r.BoundsAt(cd.Len())
	if !ok {
		return nil
	}
	return Facts{
		FactMin: IntFact(b.Min),
		FactMax: IntFact(b.Max),
	}
}

func (r *NumberRange) Numbers(*CurrentData) ([]int, error) { return nil, ErrSkip }

func (r *NumberRange) WithinRange(cd *CurrentData) error {
	return r.check(cd, false)
}

func (r *NumberRange) Match(cd *CurrentData) error {
	return matchFromRange(r.check(cd, false))
}

// WithinInvertedRange fails when any element falls inside its range.
func (r *NumberRange) WithinInvertedRange(cd *CurrentData) error {
	return r.check(cd, true)
}

func (r *NumberRange) check(cd *CurrentData, invert bool) error {
	for idx, n := range cd.Numbers() {
		b, ok := r.BoundsAt(idx)
		if !ok {
			continue
		}
		if b.Contains(n) == invert {
			return Violation("invert: %t - selected number %d at index %d is not within range of min: %d and max: %d. numbers: %v",
				invert, n, idx, b.Min, b.Max, cd.Numbers())
		}
	}
	return nil
}

func (r *NumberRange) CheckCount(length int) error {
	for idx, b := range r.ranges {
		if b.Min > b.Max {
			return fmt.Errorf("range at index %d has min %d greater than max %d", idx, b.Min, b.Max)
		}
		if !r.all && (idx < 0 || idx >= length) {
			return fmt.Errorf("range index %d is outside sequence length %d", idx, length)
		}
	}
	return nil
}
