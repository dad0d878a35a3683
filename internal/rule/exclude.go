package rule

import "fmt"

// excluded adapts a Rule into an ExcludeRule by negating it.
type excluded struct {
	rule Rule
}

// Exclude wraps r so that the finished sequence must NOT satisfy it.
//
// Excluded fails when r.Match succeeds and succeeds when it fails. For
// partial sequences, WithinExcludedRange delegates to r when r implements
// InvertedRanger and passes otherwise: an unfinished sequence can rarely
// be proven to end up matching.
func Exclude(r Rule) ExcludeRule {
	return excluded{rule: r}
}

func (e excluded) Name() string {
	return "Exclude" + e.rule.Name()
}

func (e excluded) WithinExcludedRange(cd *CurrentData) error {
	if inv, ok := e.rule.(InvertedRanger); ok {
		return inv.WithinInvertedRange(cd)
	}
	return nil
}

func (e excluded) Excluded(cd *CurrentData) error {
	if err := e.rule.Match(cd); err != nil {
		return nil
	}
	return fmt.Errorf("sequence %v satisfies %s, which should be excluded", cd.Numbers(), describe(e.rule))
}

// describe renders a rule for messages, using its String method if any.
func describe(r Rule) string {
	if s, ok := r.(fmt.Stringer); ok {
		return fmt.Sprintf("%s(%s)", r.Name(), s.String())
	}
	return r.Name()
}
