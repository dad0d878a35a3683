package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/randseq/internal/random"
	"github.com/roach88/randseq/internal/rule"
)

// Engine runs generations. It holds no per-generation state, so one Engine
// may serve concurrent Generate calls provided its source is goroutine-safe.
type Engine struct {
	src     random.Source
	logger  *slog.Logger
	metrics *Metrics
	runIDs  RunIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the randomness source.
//
// Default: random.Default()
// Use random.NewSeeded(seed) for reproducible output.
func WithSource(src random.Source) Option {
	return func(e *Engine) {
		e.src = src
	}
}

// WithLogger sets the structured logger.
//
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records every generation in m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRunIDGenerator sets the run id generator.
//
// Default: UUIDv7Generator
func WithRunIDGenerator(gen RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = gen
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		src:    random.Default(),
		logger: slog.Default(),
		runIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.runIDs == nil {
		e.runIDs = UUIDv7Generator{}
	}
	return e
}

// Generate is shorthand for New(opts...).Generate(settings).
func Generate(settings *rule.Settings, opts ...Option) *Result {
	return New(opts...).Generate(settings)
}

// Generate searches for a sequence satisfying settings.
//
// Rule failures never escape: they are logged on the Result and drive the
// search. The returned Result is StatusBadRequest when settings or the
// source is nil, StatusFailed when the attempt ceiling is reached, and
// StatusSuccess otherwise.
func (e *Engine) Generate(settings *rule.Settings) *Result {
	runID := e.runIDs.Generate()
	logger := e.logger.With("run_id", runID)

	var res *Result
	switch {
	case settings == nil:
		res = badRequest(runID, "settings are required")
	case e.src == nil:
		res = badRequest(runID, "random source is required")
	default:
		g := newGeneration(settings, e.src, logger)
		res = g.run(runID)
	}

	e.metrics.observe(res)
	logger.Info("generation finished",
		"status", res.status,
		"attempts", res.attempts,
		"resets", len(res.resets))
	return res
}

func badRequest(runID, message string) *Result {
	return &Result{
		status: StatusBadRequest,
		logs:   []Log{{Level: LevelError, Message: message}},
		runID:  runID,
		err:    NewBadRequestError(runID, message),
	}
}

// generation is the mutable state of one Generate call.
type generation struct {
	settings *rule.Settings
	rules    []rule.Rule
	excludes []rule.ExcludeRule
	src      random.Source
	logger   *slog.Logger

	numbers       []int
	tracker       *ErrorTracker
	matchAttempts int
	priority      string
	attempt       int
	logs          []Log
	resets        []int
}

func newGeneration(settings *rule.Settings, src random.Source, logger *slog.Logger) *generation {
	return &generation{
		settings: settings,
		rules:    settings.Rules(),
		excludes: settings.ExcludeRules(),
		src:      src,
		logger:   logger,
		tracker:  NewErrorTracker(settings.ErrorThreshold()),
	}
}

func (g *generation) run(runID string) *Result {
	for g.attempt = 1; g.attempt <= g.settings.MaxAttempts(); g.attempt++ {
		g.info("%s%d", attemptPrefix, g.attempt)
		if g.round() {
			return &Result{
				status:   StatusSuccess,
				numbers:  g.numbers,
				attempts: g.attempt,
				logs:     g.logs,
				resets:   g.resets,
				runID:    runID,
				src:      g.src,
			}
		}
	}

	attempts := g.settings.MaxAttempts()
	return &Result{
		status:   StatusFailed,
		attempts: attempts,
		logs:     g.logs,
		resets:   g.resets,
		runID:    runID,
		err:      NewAttemptsExhaustedError(runID, attempts, len(g.resets)),
		src:      g.src,
	}
}

// round runs one attempt and reports whether the sequence is complete.
func (g *generation) round() bool {
	order := g.order()

	cd := rule.NewCurrentData(g.numbers, g.settings, nil, g.src)
	shared := rule.SharedData{}
	for _, r := range order {
		if facts := r.ShareData(cd); facts != nil {
			shared[r.Name()] = facts
		}
	}
	cd = cd.WithSharedData(shared)

	proposer, proposal, abandoned := g.propose(order, cd)
	if abandoned {
		return false
	}
	if proposal == nil {
		g.logger.Debug("no proposal", "attempt", g.attempt)
		return false
	}

	combined := make([]int, 0, len(g.numbers)+len(proposal))
	combined = append(combined, g.numbers...)
	combined = append(combined, proposal...)
	g.info("GEN_TYPE - %s; P - %v; A&P - %v", proposer, proposal, combined)

	target := g.settings.Count()
	if len(combined) > target {
		g.fail(DiscOverflow, fmt.Errorf("too many numbers selected: %d > %d", len(combined), target))
		return false
	}

	next := rule.NewCurrentData(combined, g.settings, shared, g.src)
	if len(combined) == target {
		return g.finish(order, next, combined)
	}
	if g.within(order, next) {
		g.numbers = combined
	}
	return false
}

// order shuffles the rules and moves a pending priority rule to the front.
func (g *generation) order() []rule.Rule {
	order := slices.Clone(g.rules)
	random.Shuffle(g.src, len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	if g.priority != "" {
		if idx := slices.IndexFunc(order, func(r rule.Rule) bool { return r.Name() == g.priority }); idx > 0 {
			order[0], order[idx] = order[idx], order[0]
		}
		g.logger.Debug("priority rule", "attempt", g.attempt, "rule", g.priority)
		g.priority = ""
	}
	return order
}

// propose asks each rule for numbers until one contributes. abandoned is
// set when a tracked failure reset the search mid-round.
func (g *generation) propose(order []rule.Rule, cd *rule.CurrentData) (string, []int, bool) {
	for _, r := range order {
		nums, err := r.Numbers(cd)
		if errors.Is(err, rule.ErrSkip) {
			continue
		}
		if err != nil {
			if g.fail(Discriminator(r.Name(), PhaseNumbers), err) {
				return "", nil, true
			}
			continue
		}
		if len(nums) == 0 {
			continue
		}
		return r.Name(), nums, false
	}
	return "", nil, false
}

// finish runs the full-length checks and commits on success.
func (g *generation) finish(order []rule.Rule, cd *rule.CurrentData, combined []int) bool {
	disc, err := g.match(order, cd)
	if err == nil {
		g.numbers = combined
		return true
	}
	if g.fail(disc, err) {
		return false
	}

	g.matchAttempts++
	if g.matchAttempts >= g.settings.MaxMatchAttempts() {
		g.reset(fmt.Sprintf("full-length checks failed %d times", g.matchAttempts))
	}
	return false
}

// match returns the discriminator and error of the first failing Match or
// Excluded check.
func (g *generation) match(order []rule.Rule, cd *rule.CurrentData) (string, error) {
	for _, r := range order {
		if err := r.Match(cd); err != nil {
			return Discriminator(r.Name(), PhaseMatch), err
		}
	}
	for _, ex := range g.excludes {
		if err := ex.Excluded(cd); err != nil {
			return Discriminator(ex.Name(), PhaseExcluded), err
		}
	}
	return "", nil
}

// within runs the partial checks across every rule. The first failure is
// tracked; the first MakePriority failure, wherever it falls in the order,
// schedules its rule first for the next attempt.
func (g *generation) within(order []rule.Rule, cd *rule.CurrentData) bool {
	var (
		firstDisc string
		firstErr  error
		priority  string
	)
	for _, r := range order {
		err := r.WithinRange(cd)
		if err == nil {
			continue
		}
		if priority == "" && rule.IsPriority(err) {
			priority = r.Name()
		}
		if firstErr == nil {
			firstDisc, firstErr = Discriminator(r.Name(), PhaseWithinRange), err
		}
	}
	if priority != "" {
		g.priority = priority
	}
	if firstErr == nil {
		for _, ex := range g.excludes {
			if err := ex.WithinExcludedRange(cd); err != nil {
				firstDisc, firstErr = Discriminator(ex.Name(), PhaseWithinRange), err
				break
			}
		}
	}
	if firstErr != nil {
		g.fail(firstDisc, firstErr)
		return false
	}
	return true
}

// fail logs and tracks a failure. It reports whether the failure tripped
// the tracker and reset the search.
func (g *generation) fail(disc string, err error) bool {
	g.logs = append(g.logs, Log{Level: LevelError, Message: fmt.Sprintf("%s: %v", disc, err)})
	g.logger.Debug("rule failure", "attempt", g.attempt, "discriminator", disc, "error", err)

	if !g.tracker.Record(disc) {
		return false
	}
	g.reset(fmt.Sprintf("too many %s errors (%d > %d)", disc, g.tracker.Count(disc), g.tracker.Threshold()))
	return true
}

// reset clears the sequence, the tracker and the match counter.
func (g *generation) reset(reason string) {
	g.logs = append(g.logs, Log{Level: LevelError, Message: "Reset - " + reason})
	g.logger.Debug("reset", "attempt", g.attempt, "reason", reason, "discarded", len(g.numbers))

	g.numbers = nil
	g.tracker.Reset()
	g.matchAttempts = 0
	g.resets = append(g.resets, g.attempt)
}

func (g *generation) info(format string, args ...any) {
	g.logs = append(g.logs, Log{Level: LevelInfo, Message: fmt.Sprintf(format, args...)})
}
