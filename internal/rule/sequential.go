package rule

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/randseq/internal/random"
)

// Profile is the run shape of a sequence: how many values belong to no
// run, and the length of every run of consecutive integers.
type Profile struct {
	Not  int
	Runs []int
}

// String renders the profile as NOT:n,SEQ1:a,SEQ2:b.
func (p Profile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NOT:%d", p.Not)
	for i, r := range p.Runs {
		fmt.Fprintf(&b, ",SEQ%d:%d", i+1, r)
	}
	return b.String()
}

// ProfileOf computes the run profile of numbers. Runs are found on the
// sorted values; a run of k consecutive integers counts k. When
// orderMatters is false the runs are sorted ascending, otherwise they stay
// in the order they appear.
func ProfileOf(numbers []int, orderMatters bool) Profile {
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)
	return profileSorted(sorted, orderMatters)
}

func profileSorted(sorted []int, orderMatters bool) Profile {
	var runs []int
	run := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] == 1 {
			if run == 0 {
				run = 2
			} else {
				run++
			}
			continue
		}
		if run > 0 {
			runs = append(runs, run)
			run = 0
		}
	}
	if run > 0 {
		runs = append(runs, run)
	}
	if !orderMatters {
		slices.Sort(runs)
	}
	total := 0
	for _, r := range runs {
		total += r
	}
	return Profile{Not: len(sorted) - total, Runs: runs}
}

// Sequential requires an exact run profile.
type Sequential struct {
	target Profile
}

// NewSequential creates the rule: not values outside any run plus one run
// per entry of runs.
func NewSequential(not int, runs ...int) *Sequential {
	r := slices.Clone(runs)
	slices.Sort(r)
	return &Sequential{target: Profile{Not: not, Runs: r}}
}

// SequentialFromNumbers describes numbers as a Sequential rule.
func SequentialFromNumbers(numbers []int) *Sequential {
	p := ProfileOf(numbers, false)
	return NewSequential(p.Not, p.Runs...)
}

// Target returns a copy of the required profile.
func (s *Sequential) Target() Profile {
	return Profile{Not: s.target.Not, Runs: slices.Clone(s.target.Runs)}
}

func (s *Sequential) Name() string { return NameSequential }

func (s *Sequential) String() string { return s.target.String() }

func (s *Sequential) ShareData(*CurrentData) Facts { return nil }

// unmet returns the target runs not yet present in actual, matching equal
// lengths one for one.
func (s *Sequential) unmet(actual Profile) []int {
	remaining := slices.Clone(s.target.Runs)
	for _, r := range actual.Runs {
		if i := slices.Index(remaining, r); i >= 0 {
			remaining = slices.Delete(remaining, i, i+1)
		}
	}
	return remaining
}

func (s *Sequential) Numbers(cd *CurrentData) ([]int, error) {
	if len(s.target.Runs) == 0 {
		return nil, ErrSkip
	}
	needed := s.unmet(profileSorted(cd.Sorted(), false))
	if len(needed) == 0 {
		return nil, ErrSkip
	}
	k := random.Pick(cd.Random(), needed)

	if cd.Len() == 0 {
		start, err := cd.Settings().NumberWithinRange(cd)
		if err != nil {
			return nil, fmt.Errorf("seed run of %d: %w", k, err)
		}
		return span(start, k), nil
	}
	n := random.Pick(cd.Random(), cd.Numbers())
	return span(n+1, k-1), nil
}

// span returns k consecutive integers starting at start.
func span(start, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = start + i
	}
	return out
}

func (s *Sequential) WithinRange(cd *CurrentData) error {
	actual := profileSorted(cd.Sorted(), false)
	if actual.Not > s.target.Not {
		return Violation("expected %s, actual %s", s.target, actual)
	}
	got := slices.SortedFunc(slices.Values(actual.Runs), descending)
	want := slices.SortedFunc(slices.Values(s.target.Runs), descending)
	for i, r := range got {
		limit := 0
		if i < len(want) {
			limit = want[i]
		}
		if r > limit {
			return Violation("expected %s, actual %s: run %d exceeds %d", s.target, actual, r, limit)
		}
	}
	return nil
}

func descending(a, b int) int { return cmp.Compare(b, a) }

func (s *Sequential) Match(cd *CurrentData) error {
	actual := profileSorted(cd.Sorted(), false)
	if actual.Not != s.target.Not || !slices.Equal(actual.Runs, s.target.Runs) {
		return fmt.Errorf("expected %s, actual %s", s.target, actual)
	}
	return nil
}

func (s *Sequential) CheckCount(length int) error {
	if s.target.Not < 0 {
		return fmt.Errorf("not count %d must not be negative", s.target.Not)
	}
	total := s.target.Not
	for _, r := range s.target.Runs {
		if r < 2 {
			return fmt.Errorf("run length %d must be at least 2", r)
		}
		total += r
	}
	if total != length {
		return fmt.Errorf("profile %s covers %d values, length is %d", s.target, total, length)
	}
	return nil
}
