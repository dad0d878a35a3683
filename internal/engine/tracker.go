package engine

import (
	"maps"
	"slices"
)

// Discriminators for failures raised by the engine itself.
const (
	DiscOverflow = "engine/overflow"
)

// Phase suffixes combined with a rule name to form a discriminator.
const (
	PhaseNumbers     = "numbers"
	PhaseWithinRange = "within_range"
	PhaseMatch       = "match"
	PhaseExcluded    = "excluded"
)

// Discriminator names a failure category: a rule and the phase it failed
// in.
func Discriminator(ruleName, phase string) string {
	return ruleName + "/" + phase
}

// ErrorTracker counts failures per discriminator and reports when any of
// them crosses the threshold.
//
// One ErrorTracker lives for a single generation and is cleared on every
// reset. It is not safe for concurrent use; the generation loop is
// single-threaded.
type ErrorTracker struct {
	threshold int
	counts    map[string]int
}

// NewErrorTracker creates a tracker that trips when a count exceeds
// threshold.
func NewErrorTracker(threshold int) *ErrorTracker {
	return &ErrorTracker{
		threshold: threshold,
		counts:    make(map[string]int),
	}
}

// Record increments the count for disc and reports whether it now exceeds
// the threshold.
func (t *ErrorTracker) Record(disc string) bool {
	t.counts[disc]++
	return t.counts[disc] > t.threshold
}

// Count returns the current count for disc.
func (t *ErrorTracker) Count(disc string) int {
	return t.counts[disc]
}

// Reset clears every count.
func (t *ErrorTracker) Reset() {
	clear(t.counts)
}

// Threshold returns the configured threshold.
func (t *ErrorTracker) Threshold() int {
	return t.threshold
}

// Discriminators returns the tracked discriminators, sorted.
// Used for logging and diagnostics.
func (t *ErrorTracker) Discriminators() []string {
	return slices.Sorted(maps.Keys(t.counts))
}
