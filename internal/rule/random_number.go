package rule

// randomNumber is the unconstrained fallback rule. Settings injects it when
// absent so that every round has at least one proposer.
type randomNumber struct{}

// RandomNumber returns the fallback rule: one value drawn uniformly from
// the range the NumberRange rule shares this round.
func RandomNumber() Rule {
	return randomNumber{}
}

func (randomNumber) Name() string { return NameRandomNumber }

func (randomNumber) ShareData(*CurrentData) Facts { return nil }

func (randomNumber) Numbers(cd *CurrentData) ([]int, error) {
	min, max := cd.Shared().MinMax(NameNumberRange)
	return []int{cd.Random().Intn(min, max)}, nil
}

func (randomNumber) WithinRange(*CurrentData) error { return nil }

func (randomNumber) Match(*CurrentData) error { return nil }

func (randomNumber) CheckCount(int) error { return nil }
