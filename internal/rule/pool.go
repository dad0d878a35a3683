package rule

import (
	"fmt"
	"math"
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/randseq/internal/random"
)

// Built-in character sets for Alphanumeric pools.
const (
	AlphabetChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	NumericChars  = "0123456789"
	SpecialChars  = "!@#$%^&*()-+="
)

// rangeSampleTries bounds rejection sampling in RangePool.Draw.
const rangeSampleTries = 64

// Pool is a set of candidate values.
type Pool interface {
	// Len returns the number of members.
	Len() int

	// Contains reports membership.
	Contains(n int) bool

	// Unused returns the members absent from used, ascending.
	Unused(used map[int]struct{}) []int

	// Draw returns a random member absent from used, or any member when
	// every member is used.
	Draw(src random.Source, used map[int]struct{}) int

	String() string
}

// SetPool is an explicit set of values, stored sorted so that draws depend
// only on the source.
type SetPool struct {
	members []int
}

// NewSetPool creates a pool from values. Duplicates are removed.
func NewSetPool(values ...int) SetPool {
	members := slices.Clone(values)
	slices.Sort(members)
	return SetPool{members: slices.Compact(members)}
}

// PoolFromChars creates a pool of the code points of s after NFC
// normalization.
func PoolFromChars(s string) SetPool {
	s = norm.NFC.String(s)
	values := make([]int, 0, len(s))
	for _, r := range s {
		values = append(values, int(r))
	}
	return NewSetPool(values...)
}

func (p SetPool) Len() int { return len(p.members) }

func (p SetPool) Contains(n int) bool {
	_, ok := slices.BinarySearch(p.members, n)
	return ok
}

// Members returns a copy of the sorted members.
func (p SetPool) Members() []int { return slices.Clone(p.members) }

func (p SetPool) Unused(used map[int]struct{}) []int {
	var out []int
	for _, m := range p.members {
		if _, ok := used[m]; !ok {
			out = append(out, m)
		}
	}
	return out
}

func (p SetPool) Draw(src random.Source, used map[int]struct{}) int {
	if unused := p.Unused(used); len(unused) > 0 {
		return random.Pick(src, unused)
	}
	return random.Pick(src, p.members)
}

func (p SetPool) String() string {
	return fmt.Sprint(p.members)
}

// RangePool is the inclusive interval [Min, Max].
type RangePool struct {
	Min int
	Max int
}

// Len saturates at math.MaxInt for intervals wider than int.
func (p RangePool) Len() int {
	if p.Max < p.Min {
		return 0
	}
	if size := p.Max - p.Min + 1; size > 0 {
		return size
	}
	return math.MaxInt
}

func (p RangePool) Contains(n int) bool {
	return n >= p.Min && n <= p.Max
}

func (p RangePool) Unused(used map[int]struct{}) []int {
	var out []int
	for n := p.Min; n <= p.Max; n++ {
		if _, ok := used[n]; !ok {
			out = append(out, n)
		}
		if n == math.MaxInt {
			break
		}
	}
	return out
}

// Draw samples by rejection. Small intervals fall back to enumerating the
// unused members.
func (p RangePool) Draw(src random.Source, used map[int]struct{}) int {
	for range rangeSampleTries {
		n := src.Intn(p.Min, p.Max)
		if _, ok := used[n]; !ok {
			return n
		}
	}
	if p.Len() <= 4*rangeSampleTries {
		if unused := p.Unused(used); len(unused) > 0 {
			return random.Pick(src, unused)
		}
	}
	return src.Intn(p.Min, p.Max)
}

func (p RangePool) String() string {
	return fmt.Sprintf("%d..=%d", p.Min, p.Max)
}

// countIn counts the numbers, with multiplicity, that are members of p.
func countIn(p Pool, numbers []int) int {
	has := 0
	for _, n := range numbers {
		if p.Contains(n) {
			has++
		}
	}
	return has
}
