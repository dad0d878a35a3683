package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/randseq/internal/config"
	"github.com/roach88/randseq/internal/engine"
	"github.com/roach88/randseq/internal/random"
)

// Option configures a scenario run.
type Option func(*runOptions)

type runOptions struct {
	logger  *slog.Logger
	metrics *engine.Metrics
}

// WithLogger routes engine logs to logger. Default: discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// WithMetrics records every trial in m.
func WithMetrics(m *engine.Metrics) Option {
	return func(o *runOptions) {
		o.metrics = m
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Seed a source from the scenario
// 2. Build settings from the inline config
// 3. Run the trials sequentially on one engine
// 4. Evaluate assertions against the trials
//
// A config that cannot be built is an error, not a failed result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := &runOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(o)
	}

	src := random.NewSeeded(scenario.Seed)
	settings, err := config.Build(&scenario.Config, src)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	trials := scenario.Trials
	if trials <= 0 {
		trials = 1
	}

	ids := make([]string, trials)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", scenario.Name, i+1)
	}

	eng := engine.New(
		engine.WithSource(src),
		engine.WithLogger(o.logger),
		engine.WithMetrics(o.metrics),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(ids...)),
	)

	result := NewResult()
	for range trials {
		result.AddTrial(trialFrom(eng.Generate(settings)))
	}

	for _, msg := range EvaluateAssertions(result.Trials, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
