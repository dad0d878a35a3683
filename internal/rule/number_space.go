package rule

import (
	"fmt"
	"strings"
)

// SpaceKind classifies a gap between neighbouring sorted values.
type SpaceKind int

const (
	SpaceLt SpaceKind = iota
	SpaceLte
	SpaceEq
	SpaceGte
	SpaceGt
	SpaceBetween
)

// SpaceItem requires Needs gaps matching the class. Upper is only used by
// SpaceBetween, which is inclusive on both ends.
type SpaceItem struct {
	Kind  SpaceKind
	Value int
	Upper int
	Needs int
}

// Matches reports whether gap falls in the class.
func (s SpaceItem) Matches(gap int) bool {
	switch s.Kind {
	case SpaceLt:
		return gap < s.Value
	case SpaceLte:
		return gap <= s.Value
	case SpaceEq:
		return gap == s.Value
	case SpaceGte:
		return gap >= s.Value
	case SpaceGt:
		return gap > s.Value
	case SpaceBetween:
		return gap >= s.Value && gap <= s.Upper
	default:
		return false
	}
}

// gapBounds returns the inclusive gap interval the class allows, clipped so
// that base+gap stays within max.
func (s SpaceItem) gapBounds(base, max int) (int, int, bool) {
	var lo, hi int
	switch s.Kind {
	case SpaceLt:
		lo, hi = 1, s.Value-1
		if hi < 1 {
			lo, hi = 0, 0
		}
	case SpaceLte:
		lo, hi = 1, s.Value
		if hi < 1 {
			lo, hi = 0, 0
		}
	case SpaceEq:
		lo, hi = s.Value, s.Value
	case SpaceGte:
		lo, hi = s.Value, max-base
	case SpaceGt:
		lo, hi = s.Value+1, max-base
	case SpaceBetween:
		lo, hi = s.Value, s.Upper
	}
	return lo, hi, lo <= hi
}

func (s SpaceItem) String() string {
	switch s.Kind {
	case SpaceLt:
		return fmt.Sprintf("Lt:%d", s.Value)
	case SpaceLte:
		return fmt.Sprintf("Lte:%d", s.Value)
	case SpaceEq:
		return fmt.Sprintf("Eq:%d", s.Value)
	case SpaceGte:
		return fmt.Sprintf("Gte:%d", s.Value)
	case SpaceGt:
		return fmt.Sprintf("Gt:%d", s.Value)
	case SpaceBetween:
		return fmt.Sprintf("Gte:%d-Lte:%d", s.Value, s.Upper)
	default:
		return fmt.Sprintf("SpaceKind(%d)", int(s.Kind))
	}
}

// Gaps returns the differences between neighbouring values of sorted.
func Gaps(sorted []int) []int {
	if len(sorted) < 2 {
		return nil
	}
	out := make([]int, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		out[i-1] = sorted[i] - sorted[i-1]
	}
	return out
}

// NumberSpace requires counts of gaps between sorted values in each class.
// It uses the same need accounting as NumberPool.
type NumberSpace struct {
	items []SpaceItem
}

// NewNumberSpace creates the rule.
func NewNumberSpace(items ...SpaceItem) *NumberSpace {
	return &NumberSpace{items: append([]SpaceItem(nil), items...)}
}

type spaceState struct {
	item    SpaceItem
	has     int
	missing int
}

func (n *NumberSpace) state(sorted []int) []spaceState {
	gaps := Gaps(sorted)
	states := make([]spaceState, len(n.items))
	for i, item := range n.items {
		has := 0
		for _, g := range gaps {
			if item.Matches(g) {
				has++
			}
		}
		states[i] = spaceState{item: item, has: has, missing: max(item.Needs-has, 0)}
	}
	return states
}

func (n *NumberSpace) Name() string { return NameNumberSpace }

func (n *NumberSpace) String() string {
	parts := make([]string, len(n.items))
	for i, item := range n.items {
		parts[i] = fmt.Sprintf("%s=%d", item, item.Needs)
	}
	return strings.Join(parts, ";")
}

func (n *NumberSpace) ShareData(*CurrentData) Facts { return nil }

// Numbers appends one value per unmet class, each spaced from the previous
// one (or from the largest selected value) by a gap of that class.
func (n *NumberSpace) Numbers(cd *CurrentData) ([]int, error) {
	min, max := cd.Shared().MinMax(NameNumberRange)
	sorted := cd.Sorted()

	var out []int
	for _, st := range n.state(sorted) {
		if st.missing == 0 {
			continue
		}
		var base int
		switch {
		case len(out) > 0:
			base = out[len(out)-1]
		case len(sorted) > 0:
			base = sorted[len(sorted)-1]
		default:
			base = cd.Random().Intn(min, max)
		}
		lo, hi, ok := st.item.gapBounds(base, max)
		if !ok {
			return nil, fmt.Errorf("no room for gap %s after %d within max %d", st.item, base, max)
		}
		out = append(out, base+cd.Random().Intn(lo, hi))
	}
	if len(out) == 0 {
		return nil, ErrSkip
	}
	return out, nil
}

func (n *NumberSpace) WithinRange(cd *CurrentData) error {
	missing := 0
	for _, st := range n.state(cd.Sorted()) {
		if st.has > st.item.Needs {
			return Violation("too many gaps of %s, needs %d and has %d", st.item, st.item.Needs, st.has)
		}
		missing += st.missing
	}
	if remaining := cd.Remaining(); missing > remaining {
		return Priority("gap classes are missing %d and only %d slots remain", missing, remaining)
	}
	return nil
}

func (n *NumberSpace) Match(cd *CurrentData) error {
	for _, st := range n.state(cd.Sorted()) {
		if st.has != st.item.Needs {
			return fmt.Errorf("gap class %s needs %d, has %d", st.item, st.item.Needs, st.has)
		}
	}
	return nil
}

func (n *NumberSpace) CheckCount(length int) error {
	total := 0
	for _, item := range n.items {
		if item.Needs < 0 {
			return fmt.Errorf("gap class %s needs %d, must not be negative", item, item.Needs)
		}
		if item.Kind == SpaceBetween && item.Value > item.Upper {
			return fmt.Errorf("gap class %s has lower bound above upper bound", item)
		}
		if item.Kind < SpaceLt || item.Kind > SpaceBetween {
			return fmt.Errorf("unknown gap class %s", item)
		}
		total += item.Needs
	}
	if total > length-1 {
		return fmt.Errorf("gap classes need %d gaps, a sequence of %d has only %d", total, length, length-1)
	}
	return nil
}
