package rule

// Rule names. They key SharedData and prefix error-tracker discriminators.
const (
	NameRandomNumber      = "RandomNumber"
	NameNumberRange       = "NumberRange"
	NameNoDuplicate       = "NoDuplicate"
	NameNumberPool        = "NumberPool"
	NameNumberPoolByIndex = "NumberPoolByIndex"
	NameOddEven           = "OddEven"
	NameOddEvenByIndex    = "OddEvenByIndex"
	NameSequential        = "Sequential"
	NameNumberSpace       = "NumberSpace"
	NameExcludeNumberSets = "ExcludeNumberSets"
)
