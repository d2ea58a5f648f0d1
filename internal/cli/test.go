package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dovetail-ui/dovetail/internal/harness"
)

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run all scenarios in a directory",
		Long: `Run every scenario YAML file in a directory and report pass/fail.

Scenario files are discovered by the .yaml/.yml extension, sorted by name
for deterministic ordering, and executed independently. Exit code 1 means
at least one scenario failed.

Example:
  dovetail test ./scenarios
  dovetail test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

type scenarioResult struct {
	File   string   `json:"file"`
	Name   string   `json:"name,omitempty"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

func runTest(opts *RootOptions, dir string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	files, err := findScenarioFiles(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to discover scenarios", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scenario files found in %s", dir))
	}

	var results []scenarioResult
	failures := 0
	for _, file := range files {
		res := runOneScenario(file)
		if !res.Pass {
			failures++
		}
		results = append(results, res)
	}

	var text strings.Builder
	for _, res := range results {
		status := "PASS"
		if !res.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&text, "%s %s", status, res.File)
		if res.Name != "" {
			fmt.Fprintf(&text, " (%s)", res.Name)
		}
		text.WriteByte('\n')
		for _, msg := range res.Errors {
			fmt.Fprintf(&text, "  %s\n", strings.ReplaceAll(msg, "\n", "\n  "))
		}
	}
	fmt.Fprintf(&text, "%d scenario(s), %d failure(s)", len(results), failures)

	if err := out.PrintData(results, text.String()); err != nil {
		return err
	}

	if failures > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", failures, len(results)))
	}
	return nil
}

func runOneScenario(file string) scenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return scenarioResult{File: file, Pass: false, Errors: []string{err.Error()}}
	}
	result, err := harness.Run(scenario)
	if err != nil {
		return scenarioResult{File: file, Name: scenario.Name, Pass: false, Errors: []string{err.Error()}}
	}
	return scenarioResult{File: file, Name: scenario.Name, Pass: result.Pass, Errors: result.Errors}
}

func findScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
