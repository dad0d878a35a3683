package rule

import (
	"slices"

	"github.com/roach88/randseq/internal/random"
)

// CurrentData is the immutable view handed to every rule call within one
// round: the numbers selected so far, the settings, the facts shared this
// round and the randomness source.
//
// The set and sorted views are computed once at construction and reflect
// exactly the numbers slice they were built from. The engine never mutates
// a slice after handing it to a CurrentData; commits allocate a new slice.
type CurrentData struct {
	numbers  []int
	settings *Settings
	shared   SharedData
	src      random.Source

	set    map[int]struct{}
	sorted []int
}

// NewCurrentData builds a view over numbers. shared may be nil.
func NewCurrentData(numbers []int, settings *Settings, shared SharedData, src random.Source) *CurrentData {
	set := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)

	if shared == nil {
		shared = SharedData{}
	}
	if src == nil {
		src = random.Default()
	}

	return &CurrentData{
		numbers:  numbers,
		settings: settings,
		shared:   shared,
		src:      src,
		set:      set,
		sorted:   sorted,
	}
}

// WithSharedData returns a view over the same numbers with shared swapped
// in. The derived views are reused, not recomputed.
func (cd *CurrentData) WithSharedData(shared SharedData) *CurrentData {
	if shared == nil {
		shared = SharedData{}
	}
	return &CurrentData{
		numbers:  cd.numbers,
		settings: cd.settings,
		shared:   shared,
		src:      cd.src,
		set:      cd.set,
		sorted:   cd.sorted,
	}
}

// Numbers returns the selected numbers. Callers must not modify the slice.
func (cd *CurrentData) Numbers() []int { return cd.numbers }

// Settings returns the generation settings.
func (cd *CurrentData) Settings() *Settings { return cd.settings }

// Shared returns the facts published this round.
func (cd *CurrentData) Shared() SharedData { return cd.shared }

// Random returns the randomness source for this generation.
func (cd *CurrentData) Random() random.Source { return cd.src }

// Set returns the selected numbers as a set. Callers must not modify it.
func (cd *CurrentData) Set() map[int]struct{} { return cd.set }

// Sorted returns the selected numbers in ascending order. Callers must not
// modify the slice.
func (cd *CurrentData) Sorted() []int { return cd.sorted }

// Contains reports whether n has been selected.
func (cd *CurrentData) Contains(n int) bool {
	_, ok := cd.set[n]
	return ok
}

// Len returns the number of selected values.
func (cd *CurrentData) Len() int { return len(cd.numbers) }

// Remaining returns the number of slots still to fill, never negative.
func (cd *CurrentData) Remaining() int {
	if cd.settings == nil {
		return 0
	}
	if r := cd.settings.Count() - len(cd.numbers); r > 0 {
		return r
	}
	return 0
}
