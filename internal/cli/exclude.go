package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/randseq/internal/rule"
	"github.com/roach88/randseq/internal/store"
)

// ExcludeOptions holds flags shared by the exclude subcommands.
type ExcludeOptions struct {
	*RootOptions
	DB string // registry path
}

// ExcludeAddOptions holds flags for exclude add.
type ExcludeAddOptions struct {
	*ExcludeOptions
	String bool   // values are strings, not number lists
	Note   string // free-form note stored with each entry
}

// ExcludeAddResult reports what exclude add stored.
type ExcludeAddResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Total   int      `json:"total"`
	IDs     []string `json:"ids"`
}

// ExclusionOutput is one registry entry in command output.
type ExclusionOutput struct {
	ID      string `json:"id"`
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	Numbers []int  `json:"numbers"`
	Note    string `json:"note,omitempty"`
}

// NewExcludeCommand creates the exclude command and its subcommands.
func NewExcludeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExcludeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exclude",
		Short: "Manage the exclusion registry",
		Long: `Manage the SQLite registry of sequences that generate --exclude-db
must never produce again.

Numbers are given as comma-separated lists (1,2,3). With --string each
value is stored as the code points of the string after NFC normalization,
so a string and its number list are the same entry.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to the exclusion registry (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newExcludeAddCommand(opts))
	cmd.AddCommand(newExcludeListCommand(opts))

	return cmd
}

func newExcludeAddCommand(parent *ExcludeOptions) *cobra.Command {
	opts := &ExcludeAddOptions{ExcludeOptions: parent}

	cmd := &cobra.Command{
		Use:   "add <value>...",
		Short: "Add sequences to the registry",
		Long: `Add one or more sequences to the exclusion registry.

Entries already present are skipped.

Examples:
  randseq exclude add --db issued.db 1,2,3,4 4,3,2,1
  randseq exclude add --db issued.db --string AB12CD --note "batch 7"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExcludeAdd(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.String, "string", false, "treat values as strings")
	cmd.Flags().StringVar(&opts.Note, "note", "", "note stored with each entry")

	return cmd
}

func newExcludeListCommand(parent *ExcludeOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the registry in insertion order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExcludeList(parent, kind, cmd)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list entries of this kind (numbers|string)")

	return cmd
}

func runExcludeAdd(opts *ExcludeAddOptions, values []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Parse everything before touching the registry so a typo adds nothing.
	var parsed [][]int
	if !opts.String {
		parsed = make([][]int, len(values))
		for i, v := range values {
			numbers, err := parseNumbers(v)
			if err != nil {
				return outputCommandError(formatter, ErrCodeInput, err.Error())
			}
			parsed[i] = numbers
		}
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return outputStoreError(formatter, "failed to open exclusion registry", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	result := ExcludeAddResult{IDs: make([]string, 0, len(values))}
	for i, v := range values {
		var (
			added bool
			id    string
		)
		if opts.String {
			added, err = st.AddString(ctx, v, opts.Note)
			if err == nil {
				id, err = store.ExclusionID(rule.CodePoints(v))
			}
		} else {
			added, err = st.AddNumbers(ctx, parsed[i], opts.Note)
			if err == nil {
				id, err = store.ExclusionID(parsed[i])
			}
		}
		if err != nil {
			return outputStoreError(formatter, fmt.Sprintf("failed to add %q", v), err)
		}

		result.IDs = append(result.IDs, id)
		if added {
			result.Added++
			formatter.VerboseLog("added %s", v)
		} else {
			result.Skipped++
			formatter.VerboseLog("skipped %s (already present)", v)
		}
	}

	result.Total, err = st.Count(ctx)
	if err != nil {
		return outputStoreError(formatter, "failed to count exclusion registry", err)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %d, skipped %d (already present)\n", result.Added, result.Skipped)
	formatter.VerboseLog("Registry now holds %d sequence(s)", result.Total)
	return nil
}

func runExcludeList(opts *ExcludeOptions, kind string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if kind != "" && kind != string(store.KindNumbers) && kind != string(store.KindString) {
		return outputCommandError(formatter, ErrCodeInput, fmt.Sprintf("invalid kind %q: must be numbers or string", kind))
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return outputStoreError(formatter, "failed to open exclusion registry", err)
	}
	defer st.Close()

	var entries []store.Exclusion
	if kind == "" {
		entries, err = st.List(cmd.Context())
	} else {
		entries, err = st.ListKind(cmd.Context(), store.Kind(kind))
	}
	if err != nil {
		return outputStoreError(formatter, "failed to list exclusion registry", err)
	}

	out := make([]ExclusionOutput, len(entries))
	for i, e := range entries {
		out[i] = ExclusionOutput{
			ID:      e.ID,
			Seq:     e.Seq,
			Kind:    string(e.Kind),
			Value:   e.Value,
			Numbers: e.Numbers,
			Note:    e.Note,
		}
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: out})
	}

	if len(out) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Registry is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tKIND\tVALUE\tNOTE")
	for _, e := range out {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Seq, e.Kind, displayValue(e), e.Note)
	}
	return tw.Flush()
}

func displayValue(e ExclusionOutput) string {
	if e.Kind == string(store.KindString) {
		return fmt.Sprintf("%q", e.Value)
	}
	return formatNumbers(e.Numbers)
}
