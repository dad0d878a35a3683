package rule

import (
	"fmt"
	"math"
)

// DefaultMin and DefaultMax bound RandomNumber proposals when no rule
// shares a numeric range.
const (
	DefaultMin = 0
	DefaultMax = math.MaxInt32
)

// FactKey identifies a fact within a rule's Facts.
type FactKey int

const (
	// FactMin is the inclusive lower bound for the next position.
	FactMin FactKey = iota
	// FactMax is the inclusive upper bound for the next position.
	FactMax
	// FactLabel is a free-form descriptive label.
	FactLabel
)

// String returns the key name.
func (k FactKey) String() string {
	switch k {
	case FactMin:
		return "min"
	case FactMax:
		return "max"
	case FactLabel:
		return "label"
	default:
		return fmt.Sprintf("FactKey(%d)", int(k))
	}
}

// FactValue is a typed scalar: either an integer or a string.
type FactValue struct {
	isString bool
	i        int
	s        string
}

// IntFact creates an integer fact.
func IntFact(v int) FactValue {
	return FactValue{i: v}
}

// StringFact creates a string fact.
func StringFact(v string) FactValue {
	return FactValue{isString: true, s: v}
}

// Int returns the integer value and whether the fact holds one.
func (v FactValue) Int() (int, bool) {
	return v.i, !v.isString
}

// Str returns the string value and whether the fact holds one.
func (v FactValue) Str() (string, bool) {
	return v.s, v.isString
}

// String renders the fact for logs.
func (v FactValue) String() string {
	if v.isString {
		return v.s
	}
	return fmt.Sprintf("%d", v.i)
}

// Facts maps fact keys to values published by one rule.
type Facts map[FactKey]FactValue

// SharedData maps rule name to the facts that rule published this round.
type SharedData map[string]Facts

// Int looks up an integer fact published by ruleName.
func (d SharedData) Int(ruleName string, key FactKey) (int, bool) {
	facts, ok := d[ruleName]
	if !ok {
		return 0, false
	}
	v, ok := facts[key]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// MinMax returns the [min, max] bounds published by ruleName, falling back
// to DefaultMin and DefaultMax for absent facts.
func (d SharedData) MinMax(ruleName string) (int, int) {
	min, max := DefaultMin, DefaultMax
	if v, ok := d.Int(ruleName, FactMin); ok {
		min = v
	}
	if v, ok := d.Int(ruleName, FactMax); ok {
		max = v
	}
	return min, max
}
