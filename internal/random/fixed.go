package random

import "sync"

// FixedSource replays a predetermined sequence of values.
//
// This enables deterministic rule and engine tests: each call to Intn
// consumes the next value v and returns min + (v mod (max-min+1)), so a
// scripted value lands inside any requested range. Bool consumes the next
// value and reports whether it is odd. The sequence wraps around when
// exhausted; an empty FixedSource always returns min and false.
//
// Thread-safety: FixedSource is safe for concurrent use via internal mutex.
type FixedSource struct {
	mu     sync.Mutex
	values []int
	idx    int
	calls  int
}

// NewFixed creates a source that replays values in order.
//
// Example:
//
//	src := NewFixed(0, 3)
//	src.Intn(10, 20) // 10
//	src.Intn(10, 20) // 13
//	src.Intn(10, 20) // 10 (wrapped)
func NewFixed(values ...int) *FixedSource {
	return &FixedSource{values: values}
}

func (f *FixedSource) next() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[f.idx%len(f.values)]
	f.idx++
	if v < 0 {
		v = -v
	}
	return v
}

// Intn returns the next scripted value folded into [min, max].
func (f *FixedSource) Intn(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return between(min, max, func() uint64 { return uint64(f.next()) }, func(n uint64) uint64 {
		return uint64(f.next()) % n
	})
}

// Bool returns true when the next scripted value is odd.
func (f *FixedSource) Bool() bool {
	return f.next()%2 == 1
}

// Calls returns how many values have been consumed.
func (f *FixedSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
