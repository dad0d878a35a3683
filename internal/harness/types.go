package harness

import "github.com/roach88/randseq/internal/engine"

// Trial is the recorded outcome of one generation.
type Trial struct {
	Status   string `json:"status"`
	Numbers  []int  `json:"numbers"`
	Attempts int    `json:"attempts"`
	Resets   []int  `json:"resets"`
}

// trialFrom copies the parts of a Result that are stable for a seed.
// The run id is left out.
func trialFrom(res *engine.Result) Trial {
	numbers, err := res.Numbers()
	if err != nil {
		numbers = []int{}
	}
	resets := res.Resets()
	if resets == nil {
		resets = []int{}
	}
	return Trial{
		Status:   res.Status().String(),
		Numbers:  numbers,
		Attempts: res.Attempts(),
		Resets:   resets,
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trials holds one entry per generation, in order.
	Trials []Trial `json:"trials"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trials: []Trial{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrial appends a trial.
func (r *Result) AddTrial(t Trial) {
	r.Trials = append(r.Trials, t)
}
