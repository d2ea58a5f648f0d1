package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dovetail-ui/dovetail/internal/harness"
	"github.com/dovetail-ui/dovetail/internal/schema"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate component definitions and scenario files",
		Long: `Validate dovetail input files without resolving anything.

CUE files are compiled as component definitions; YAML files are parsed as
scenarios (including their referenced definitions). Exit code 1 means at
least one file failed validation.

Example:
  dovetail validate defs/button.cue scenarios/button.yaml
  dovetail validate defs/*.cue`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

type validateResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	var results []validateResult
	failures := 0
	for _, path := range paths {
		res := validateResult{File: path, Valid: true}
		if err := validateFile(path); err != nil {
			res.Valid = false
			res.Error = err.Error()
			failures++
		}
		results = append(results, res)
	}

	var text strings.Builder
	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(&text, "ok   %s\n", res.File)
		} else {
			fmt.Fprintf(&text, "FAIL %s: %s\n", res.File, res.Error)
		}
	}
	if err := out.PrintData(results, strings.TrimRight(text.String(), "\n")); err != nil {
		return err
	}

	if failures > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) failed validation", failures, len(paths)))
	}
	return nil
}

func validateFile(path string) error {
	switch filepath.Ext(path) {
	case ".cue":
		_, err := schema.LoadDefinition(path)
		return err
	case ".yaml", ".yml":
		_, err := harness.LoadScenario(path)
		return err
	default:
		return fmt.Errorf("unsupported file type %q: expected .cue, .yaml, or .yml", filepath.Ext(path))
	}
}
