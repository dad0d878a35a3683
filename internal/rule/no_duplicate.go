package rule

// noDuplicate requires every selected value to be distinct.
type noDuplicate struct{}

// NoDuplicate returns a rule that forbids repeated values.
func NoDuplicate() Rule {
	return noDuplicate{}
}

func (noDuplicate) Name() string { return NameNoDuplicate }

func (noDuplicate) String() string { return "No Duplicate" }

func (noDuplicate) ShareData(*CurrentData) Facts { return nil }

func (noDuplicate) Numbers(*CurrentData) ([]int, error) { return nil, ErrSkip }

func (noDuplicate) WithinRange(cd *CurrentData) error {
	if len(cd.Set()) != cd.Len() {
		return Violation("duplicate found in %v", cd.Numbers())
	}
	return nil
}

func (n noDuplicate) Match(cd *CurrentData) error {
	return matchFromRange(n.WithinRange(cd))
}

func (noDuplicate) CheckCount(int) error { return nil }
