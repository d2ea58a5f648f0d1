package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dovetail-ui/dovetail/internal/harness"
	"github.com/dovetail-ui/dovetail/internal/node"
	"github.com/dovetail-ui/dovetail/internal/trace"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Database string

	// Tokens overrides the pass token generator (for testing).
	Tokens trace.TokenGenerator
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <scenario.yaml>",
		Short: "Resolve a scenario and print each slot's output",
		Long: `Resolve a component scenario and print the canonical output per slot.

The scenario file names a component definition (CUE), the raw children,
and the slot invocations the component body makes. With --db, the full
resolution trace is recorded to a SQLite database for later inspection
with "dovetail trace".

Example:
  dovetail resolve scenarios/button.yaml
  dovetail resolve scenarios/button.yaml --db ./trace.db --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (optional)")

	return cmd
}

func runResolve(opts *ResolveOptions, scenarioPath string, cmd *cobra.Command) error {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	scenario, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	logger.Debug("scenario loaded", "name", scenario.Name, "definition", scenario.Definition)

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	if opts.Database != "" {
		if err := recordTrace(opts, scenario, result, logger); err != nil {
			return WrapExitError(ExitCommandError, "failed to record trace", err)
		}
	}

	type slotOutput struct {
		Slot   string          `json:"slot"`
		Output json.RawMessage `json:"output,omitempty"`
		Error  string          `json:"error,omitempty"`
	}
	var data []slotOutput
	var text strings.Builder
	for _, inv := range result.Invocations {
		if inv.Err != nil {
			data = append(data, slotOutput{Slot: inv.Slot, Error: inv.Err.Error()})
			fmt.Fprintf(&text, "slot %s -> error: %v\n", inv.Slot, inv.Err)
			continue
		}
		encoded, err := node.MarshalCanonicalList(inv.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to encode output", err)
		}
		data = append(data, slotOutput{Slot: inv.Slot, Output: encoded})
		fmt.Fprintf(&text, "slot %s -> %s\n", inv.Slot, encoded)
	}
	for _, adv := range result.Advisories {
		fmt.Fprintf(&text, "advisory %s slot=%s: %s\n", adv.Code, adv.Slot, adv.Message)
	}

	if err := out.PrintData(data, strings.TrimRight(text.String(), "\n")); err != nil {
		return err
	}

	if !result.Pass {
		for _, msg := range result.Errors {
			logger.Warn("expectation failed", "detail", msg)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d expectation(s) failed", len(result.Errors)))
	}
	return nil
}

func recordTrace(opts *ResolveOptions, scenario *harness.Scenario, result *harness.Result, logger *slog.Logger) error {
	store, err := trace.Open(opts.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	gen := opts.Tokens
	if gen == nil {
		gen = trace.UUIDv7Generator{}
	}
	token := gen.Generate()

	rec, err := trace.NewStoreRecorder(context.Background(), store, token, scenario.Name)
	if err != nil {
		return err
	}
	for _, ev := range result.Events {
		rec.Record(ev)
	}
	if err := rec.Err(); err != nil {
		return err
	}
	logger.Debug("trace recorded", "token", token, "events", len(result.Events))
	fmt.Fprintf(os.Stderr, "trace recorded: %s\n", token)
	return nil
}
