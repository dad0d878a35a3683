package rule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ExcludeNumberSets forbids whole sequences. Order matters: [1 2] and
// [2 1] are different sets.
type ExcludeNumberSets struct {
	sets map[string]struct{}
}

// NewExcludeNumberSets creates the rule from forbidden sequences.
func NewExcludeNumberSets(sets ...[]int) *ExcludeNumberSets {
	m := make(map[string]struct{}, len(sets))
	for _, s := range sets {
		m[setKey(s)] = struct{}{}
	}
	return &ExcludeNumberSets{sets: m}
}

// ExcludeStrings forbids the code-point sequences of strs, after NFC
// normalization.
func ExcludeStrings(strs ...string) *ExcludeNumberSets {
	sets := make([][]int, len(strs))
	for i, s := range strs {
		sets[i] = CodePoints(s)
	}
	return NewExcludeNumberSets(sets...)
}

// CodePoints returns the code points of s after NFC normalization.
func CodePoints(s string) []int {
	s = norm.NFC.String(s)
	out := make([]int, 0, len(s))
	for _, r := range s {
		out = append(out, int(r))
	}
	return out
}

func setKey(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// Len returns the number of forbidden sequences.
func (e *ExcludeNumberSets) Len() int { return len(e.sets) }

// Contains reports whether numbers is forbidden.
func (e *ExcludeNumberSets) Contains(numbers []int) bool {
	_, ok := e.sets[setKey(numbers)]
	return ok
}

func (e *ExcludeNumberSets) Name() string { return NameExcludeNumberSets }

func (e *ExcludeNumberSets) String() string {
	keys := make([]string, 0, len(e.sets))
	for k := range e.sets {
		keys = append(keys, "["+k+"]")
	}
	slices.Sort(keys)
	return strings.Join(keys, " ")
}

func (e *ExcludeNumberSets) ShareData(*CurrentData) Facts { return nil }

func (e *ExcludeNumberSets) Numbers(*CurrentData) ([]int, error) { return nil, ErrSkip }

func (e *ExcludeNumberSets) WithinRange(*CurrentData) error { return nil }

func (e *ExcludeNumberSets) Match(cd *CurrentData) error {
	if e.Contains(cd.Numbers()) {
		return fmt.Errorf("excluded number set found: %v", cd.Numbers())
	}
	return nil
}

func (e *ExcludeNumberSets) CheckCount(int) error { return nil }
