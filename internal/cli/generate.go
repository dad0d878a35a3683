package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/roach88/randseq/internal/config"
	"github.com/roach88/randseq/internal/engine"
	"github.com/roach88/randseq/internal/random"
	"github.com/roach88/randseq/internal/rule"
	"github.com/roach88/randseq/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Seed      uint64 // only used when the flag is set
	Count     int    // number of sequences
	Parallel  int    // concurrent generations
	String    bool   // render numbers as code points
	Shuffle   bool   // permute the rendered string
	ExcludeDB string // exclusion registry path
	Record    bool   // add successful sequences to the registry
	Metrics   bool   // dump Prometheus metrics to stderr
}

// GeneratedSequence is one generation in command output.
type GeneratedSequence struct {
	RunID    string `json:"run_id"`
	Status   string `json:"status"`
	Numbers  []int  `json:"numbers"`
	Text     string `json:"text,omitempty"`
	Attempts int    `json:"attempts"`
	Resets   []int  `json:"resets"`
	Error    string `json:"error,omitempty"`
}

// GenerateResult holds the overall generate output.
type GenerateResult struct {
	Config    string              `json:"config"`
	Sequences []GeneratedSequence `json:"sequences"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Recorded  int                 `json:"recorded,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <config>",
		Short: "Generate sequences from a config",
		Long: `Generate one or more sequences satisfying the rules in a YAML or CUE config.

With --exclude-db every sequence already in the registry is forbidden, and
--record adds each new sequence to it (not with --shuffle). A fixed --seed makes sequential
runs reproducible; with --parallel above 1 the order in which generations
draw from the seeded source is not fixed.

Exit codes:
  0 - Every generation succeeded
  1 - Invalid config, or at least one generation failed
  2 - Command error (missing file, unreadable registry, etc.)

Examples:
  randseq generate pin.yaml
  randseq generate pin.yaml --count 100 --parallel 8
  randseq generate password.yaml --string --shuffle
  randseq generate licence.cue --exclude-db issued.db --record
  randseq generate pin.yaml --seed 42 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for reproducible output")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of sequences to generate")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 1, "number of concurrent generations")
	cmd.Flags().BoolVar(&opts.String, "string", false, "print sequences as strings of code points")
	cmd.Flags().BoolVar(&opts.Shuffle, "shuffle", false, "shuffle the characters of --string output")
	cmd.Flags().StringVar(&opts.ExcludeDB, "exclude-db", "", "exclusion registry (SQLite) of forbidden sequences")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "add generated sequences to the --exclude-db registry")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "write Prometheus metrics to stderr")

	return cmd
}

func runGenerate(opts *GenerateOptions, configPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Count < 1 {
		return outputCommandError(formatter, ErrCodeInput, fmt.Sprintf("--count must be at least 1, got %d", opts.Count))
	}
	if opts.Shuffle && !opts.String {
		return outputCommandError(formatter, ErrCodeInput, "--shuffle requires --string")
	}
	if opts.Record && opts.ExcludeDB == "" {
		return outputCommandError(formatter, ErrCodeInput, "--record requires --exclude-db")
	}
	// The registry excludes sequences in generation order, so a shuffled
	// rendering could never be matched against later runs.
	if opts.Record && opts.Shuffle {
		return outputCommandError(formatter, ErrCodeInput, "--record cannot be combined with --shuffle")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return outputLoadError(formatter, configPath, err)
	}

	var src random.Source = random.Default()
	if cmd.Flags().Changed("seed") {
		src = random.NewSeeded(opts.Seed)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		st    *store.Store
		extra []rule.Rule
	)
	if opts.ExcludeDB != "" {
		st, err = store.Open(opts.ExcludeDB)
		if err != nil {
			return outputStoreError(formatter, "failed to open exclusion registry", err)
		}
		defer st.Close()

		seqs, err := st.Sequences(ctx)
		if err != nil {
			return outputStoreError(formatter, "failed to read exclusion registry", err)
		}
		if len(seqs) > 0 {
			extra = append(extra, rule.NewExcludeNumberSets(seqs...))
		}
		formatter.VerboseLog("Loaded %d excluded sequence(s) from %s", len(seqs), opts.ExcludeDB)
	}

	settings, err := config.Build(cfg, src, extra...)
	if err != nil {
		if formatErr := formatter.Error(ErrCodeConfig, err.Error(), nil); formatErr != nil {
			return formatErr
		}
		return WrapExitError(ExitFailure, "invalid config", err)
	}

	var (
		reg     *prometheus.Registry
		metrics *engine.Metrics
	)
	if opts.Metrics {
		reg = prometheus.NewRegistry()
		metrics = engine.NewMetrics(reg)
	}

	eng := engine.New(
		engine.WithSource(src),
		engine.WithLogger(newLogger(cmd.ErrOrStderr(), opts.Verbose)),
		engine.WithMetrics(metrics),
	)

	results, err := eng.GenerateBatch(ctx, settings, opts.Count, opts.Parallel)
	if err != nil {
		return WrapExitError(ExitCommandError, "generation interrupted", err)
	}

	out := GenerateResult{
		Config:    cfg.Name,
		Sequences: make([]GeneratedSequence, 0, len(results)),
	}
	for _, res := range results {
		seq, err := sequenceFrom(res, opts)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render sequence", err)
		}
		if res.Status() != engine.StatusSuccess {
			formatter.VerboseLog("%s", strings.TrimSpace(res.String()))
			out.Failed++
			out.Sequences = append(out.Sequences, seq)
			continue
		}
		out.Succeeded++
		if opts.Record {
			added, err := record(ctx, st, seq, opts.String)
			if err != nil {
				return outputStoreError(formatter, "failed to record sequence", err)
			}
			if added {
				out.Recorded++
			}
		}
		out.Sequences = append(out.Sequences, seq)
	}

	if opts.Format == "json" {
		err = outputGenerateJSON(cmd.OutOrStdout(), out)
	} else {
		err = outputGenerateText(formatter, out, opts)
	}
	if err != nil {
		return err
	}

	if reg != nil {
		if err := writeMetrics(formatter.GetErrWriter(), reg); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
	}

	if out.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d generation(s) failed", out.Failed, len(results)))
	}
	return nil
}

func sequenceFrom(res *engine.Result, opts *GenerateOptions) (GeneratedSequence, error) {
	seq := GeneratedSequence{
		RunID:    res.RunID(),
		Status:   res.Status().String(),
		Numbers:  []int{},
		Attempts: res.Attempts(),
		Resets:   res.Resets(),
	}
	if seq.Resets == nil {
		seq.Resets = []int{}
	}

	nums, err := res.Numbers()
	if err != nil {
		seq.Error = err.Error()
		return seq, nil
	}
	seq.Numbers = nums

	if opts.String {
		text, err := res.Text(opts.Shuffle)
		if err != nil {
			return seq, err
		}
		seq.Text = text
	}
	return seq, nil
}

// record stores the text in string mode and the numbers otherwise. Both
// carry the same code points, so either form excludes the sequence.
func record(ctx context.Context, st *store.Store, seq GeneratedSequence, asString bool) (bool, error) {
	note := "run " + seq.RunID
	if asString {
		return st.AddString(ctx, seq.Text, note)
	}
	return st.AddNumbers(ctx, seq.Numbers, note)
}

func outputGenerateJSON(w io.Writer, out GenerateResult) error {
	response := CLIResponse{Status: "ok", Data: out}
	if out.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeGenerate,
			Message: fmt.Sprintf("%d generation(s) failed", out.Failed),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

func outputGenerateText(f *OutputFormatter, out GenerateResult, opts *GenerateOptions) error {
	for _, seq := range out.Sequences {
		f.VerboseLog("run %s: %s after %d attempt(s), resets %v", seq.RunID, seq.Status, seq.Attempts, seq.Resets)
		if seq.Error != "" {
			fmt.Fprintf(f.Writer, "✗ %s after %d attempt(s): %s\n", seq.Status, seq.Attempts, seq.Error)
			continue
		}
		if opts.String {
			fmt.Fprintln(f.Writer, seq.Text)
			continue
		}
		fmt.Fprintln(f.Writer, formatNumbers(seq.Numbers))
	}
	if opts.Record {
		f.VerboseLog("Recorded %d new sequence(s) in %s", out.Recorded, opts.ExcludeDB)
	}
	return nil
}

// formatNumbers joins numbers with commas, the format exclude add reads.
func formatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// parseNumbers reads a comma-separated list of integers.
func parseNumbers(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	numbers := make([]int, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("empty value in %q", s)
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in %q", field, s)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// outputLoadError reports a config that could not be loaded. A missing
// file is a command error; anything else is an invalid config.
func outputLoadError(f *OutputFormatter, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return outputCommandError(f, ErrCodeNotFound, fmt.Sprintf("config file not found: %s", path))
	}
	if formatErr := f.Error(ErrCodeConfig, err.Error(), nil); formatErr != nil {
		return formatErr
	}
	return WrapExitError(ExitFailure, "invalid config", err)
}

func outputStoreError(f *OutputFormatter, message string, err error) error {
	if formatErr := f.Error(ErrCodeStore, fmt.Sprintf("%s: %v", message, err), nil); formatErr != nil {
		return formatErr
	}
	return WrapExitError(ExitCommandError, message, err)
}

func outputCommandError(f *OutputFormatter, code, message string) error {
	if err := f.Error(code, message, nil); err != nil {
		return err
	}
	return NewExitError(ExitCommandError, message)
}
