package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/randseq/internal/config"
	"github.com/roach88/randseq/internal/random"
	"github.com/roach88/randseq/internal/rule"
)

// ValidationError is one problem found in a config.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Name   string            `json:"name,omitempty"`
	Length int               `json:"length,omitempty"`
	Rules  int               `json:"rules,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a config without generating",
		Long: `Validate a YAML or CUE config without generating anything.

Checks the schema, field constraints and that every rule can be built
for the configured length.

Exit codes:
  0 - Config is valid
  1 - Config is invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("config file not found: %s", configPath))
		}
		return outputValidationFailure(formatter, cmd.OutOrStdout(), err)
	}
	formatter.VerboseLog("Loaded %s: %d rule(s), %d exclude rule(s)", configPath, len(cfg.Rules), len(cfg.Exclude))

	// Alphanumeric rules without counts draw their split at build time;
	// a fixed seed keeps validation deterministic.
	settings, err := config.Build(cfg, random.NewSeeded(0))
	if err != nil {
		return outputValidationFailure(formatter, cmd.OutOrStdout(), err)
	}

	result := ValidationResult{
		Valid:  true,
		Name:   cfg.Name,
		Length: settings.Count(),
		Rules:  len(cfg.Rules) + len(cfg.Exclude),
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	name := result.Name
	if name == "" {
		name = configPath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Config valid: %s (length %d, %d rule(s))\n", name, result.Length, result.Rules)
	return nil
}

// validationErrors flattens a load or build error into reportable items.
// Joined errors (validator output) become one item each.
func validationErrors(err error) []ValidationError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []ValidationError
		for _, e := range joined.Unwrap() {
			out = append(out, validationErrors(e)...)
		}
		return out
	}

	var compileErr *config.CompileError
	if errors.As(err, &compileErr) {
		ve := ValidationError{Field: compileErr.Field, Message: compileErr.Message}
		if compileErr.Pos.IsValid() {
			ve.Line = compileErr.Pos.Line()
			ve.Column = compileErr.Pos.Column()
		}
		return []ValidationError{ve}
	}

	var configErr *rule.ConfigError
	if errors.As(err, &configErr) {
		return []ValidationError{{Rule: configErr.Rule, Message: err.Error()}}
	}

	return []ValidationError{{Message: err.Error()}}
}

func outputValidationFailure(f *OutputFormatter, w io.Writer, err error) error {
	result := ValidationResult{Valid: false, Errors: validationErrors(err)}

	if f.Format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if encErr := encoder.Encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeConfig,
				Message: fmt.Sprintf("%d validation error(s)", len(result.Errors)),
			},
		}); encErr != nil {
			return encErr
		}
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	fmt.Fprintln(w, "✗ Validation failed")
	for _, ve := range result.Errors {
		switch {
		case ve.Line > 0:
			fmt.Fprintf(w, "  line %d:%d: %s: %s\n", ve.Line, ve.Column, ve.Field, ve.Message)
		case ve.Field != "":
			fmt.Fprintf(w, "  %s: %s\n", ve.Field, ve.Message)
		default:
			fmt.Fprintf(w, "  %s\n", ve.Message)
		}
	}
	return WrapExitError(ExitFailure, "validation failed", err)
}
