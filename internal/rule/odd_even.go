package rule

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/randseq/internal/random"
)

// Parity of an integer.
type Parity int

const (
	Even Parity = iota
	Odd
)

// ParityOf returns the parity of n. Negative numbers follow the usual
// definition: -3 is odd.
func ParityOf(n int) Parity {
	if n&1 == 1 {
		return Odd
	}
	return Even
}

func (p Parity) String() string {
	if p == Odd {
		return "Odd"
	}
	return "Even"
}

// errNoParity is returned when [min, max] holds no value of the wanted
// parity, which only happens when min == max.
var errNoParity = errors.New("no number of the requested parity in range")

// drawParity returns a uniform-ish value of parity p within [min, max]
// using a single draw: a value of the wrong parity is moved one step
// toward the inside of the interval.
func drawParity(src random.Source, p Parity, min, max int) (int, error) {
	n := src.Intn(min, max)
	if ParityOf(n) == p {
		return n, nil
	}
	if n+1 <= max {
		return n + 1, nil
	}
	if n-1 >= min {
		return n - 1, nil
	}
	return 0, fmt.Errorf("%w: want %s in [%d, %d]", errNoParity, p, min, max)
}

// OddEven requires exact counts of odd and even values.
type OddEven struct {
	odd  int
	even int
}

// NewOddEven creates the rule.
func NewOddEven(odd, even int) *OddEven {
	return &OddEven{odd: odd, even: even}
}

// OddEvenFromNumbers counts the parities of numbers.
func OddEvenFromNumbers(numbers []int) *OddEven {
	oe := &OddEven{}
	for _, n := range numbers {
		if ParityOf(n) == Odd {
			oe.odd++
		} else {
			oe.even++
		}
	}
	return oe
}

// Odd returns the odd count.
func (o *OddEven) Odd() int { return o.odd }

// Even returns the even count.
func (o *OddEven) Even() int { return o.even }

func (o *OddEven) Name() string { return NameOddEven }

func (o *OddEven) String() string {
	return fmt.Sprintf("ODD:%d,EVEN:%d", o.odd, o.even)
}

func (o *OddEven) ShareData(*CurrentData) Facts { return nil }

func (o *OddEven) Numbers(cd *CurrentData) ([]int, error) {
	actual := OddEvenFromNumbers(cd.Numbers())
	var wanted []Parity
	if actual.even < o.even {
		wanted = append(wanted, Even)
	}
	if actual.odd < o.odd {
		wanted = append(wanted, Odd)
	}
	if len(wanted) == 0 {
		return nil, ErrSkip
	}
	min, max := cd.Shared().MinMax(NameNumberRange)
	n, err := drawParity(cd.Random(), random.Pick(cd.Random(), wanted), min, max)
	if err != nil {
		return nil, err
	}
	return []int{n}, nil
}

func (o *OddEven) WithinRange(cd *CurrentData) error {
	actual := OddEvenFromNumbers(cd.Numbers())
	if actual.odd > o.odd {
		return Violation("too many odds: want %d, have %d", o.odd, actual.odd)
	}
	if actual.even > o.even {
		return Violation("too many evens: want %d, have %d", o.even, actual.even)
	}
	return nil
}

func (o *OddEven) Match(cd *CurrentData) error {
	actual := OddEvenFromNumbers(cd.Numbers())
	if actual.odd != o.odd || actual.even != o.even {
		return fmt.Errorf("expected odd %d and even %d, actual odd %d and even %d",
			o.odd, o.even, actual.odd, actual.even)
	}
	return nil
}

func (o *OddEven) CheckCount(length int) error {
	if o.odd < 0 || o.even < 0 {
		return fmt.Errorf("odd %d and even %d must not be negative", o.odd, o.even)
	}
	if o.odd+o.even != length {
		return fmt.Errorf("odd %d plus even %d does not equal length %d", o.odd, o.even, length)
	}
	return nil
}

// OddEvenByIndex fixes the parity of individual positions.
type OddEvenByIndex struct {
	parity map[int]Parity
}

// NewOddEvenByIndex creates the rule. An index listed in both slices is
// even.
func NewOddEvenByIndex(odd, even []int) *OddEvenByIndex {
	m := make(map[int]Parity, len(odd)+len(even))
	for _, idx := range odd {
		m[idx] = Odd
	}
	for _, idx := range even {
		m[idx] = Even
	}
	return &OddEvenByIndex{parity: m}
}

// OddEvenByIndexFromNumbers records the parity at every position.
func OddEvenByIndexFromNumbers(numbers []int) *OddEvenByIndex {
	m := make(map[int]Parity, len(numbers))
	for idx, n := range numbers {
		m[idx] = ParityOf(n)
	}
	return &OddEvenByIndex{parity: m}
}

// ParityAt returns the required parity at idx, if any.
func (o *OddEvenByIndex) ParityAt(idx int) (Parity, bool) {
	p, ok := o.parity[idx]
	return p, ok
}

func (o *OddEvenByIndex) Name() string { return NameOddEvenByIndex }

func (o *OddEvenByIndex) String() string {
	keys := slices.Sorted(maps.Keys(o.parity))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d:%s", k, o.parity[k])
	}
	return strings.Join(parts, ",")
}

func (o *OddEvenByIndex) ShareData(*CurrentData) Facts { return nil }

func (o *OddEvenByIndex) Numbers(cd *CurrentData) ([]int, error) {
	p, ok := o.parity[cd.Len()]
	if !ok {
		return nil, ErrSkip
	}
	min, max := cd.Shared().MinMax(NameNumberRange)
	n, err := drawParity(cd.Random(), p, min, max)
	if err != nil {
		return nil, err
	}
	return []int{n}, nil
}

func (o *OddEvenByIndex) WithinRange(cd *CurrentData) error {
	return o.check(cd, false)
}

func (o *OddEvenByIndex) Match(cd *CurrentData) error {
	return matchFromRange(o.check(cd, false))
}

// WithinInvertedRange fails when any constrained position has the
// configured parity.
func (o *OddEvenByIndex) WithinInvertedRange(cd *CurrentData) error {
	return o.check(cd, true)
}

func (o *OddEvenByIndex) check(cd *CurrentData, invert bool) error {
	for idx, n := range cd.Numbers() {
		p, ok := o.parity[idx]
		if !ok {
			continue
		}
		if (ParityOf(n) == p) == invert {
			return Violation("invert: %t - selected number %d at index %d against %s. numbers: %v",
				invert, n, idx, p, cd.Numbers())
		}
	}
	return nil
}

func (o *OddEvenByIndex) CheckCount(length int) error {
	for idx := range o.parity {
		if idx < 0 || idx >= length {
			return fmt.Errorf("parity index %d is outside sequence length %d", idx, length)
		}
	}
	return nil
}
