package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dovetail-ui/dovetail/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [pass-token]",
		Short: "Inspect recorded resolution traces",
		Long: `Inspect resolution traces recorded by "dovetail resolve --db".

Without arguments, lists the recorded passes. With a pass token, dumps
that pass's events in seq order.

Example:
  dovetail trace --db ./trace.db
  dovetail trace --db ./trace.db 0190d5a0-4b2e-7cc0-b000-000000000000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			return runTrace(opts, token, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *TraceOptions, token string, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	store, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer store.Close()

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	ctx := context.Background()

	if token == "" {
		passes, err := store.Passes(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list passes", err)
		}
		var text strings.Builder
		for _, p := range passes {
			fmt.Fprintf(&text, "%s %s\n", p.Token, p.Component)
		}
		fmt.Fprintf(&text, "%d pass(es)", len(passes))
		return out.PrintData(passes, text.String())
	}

	events, err := store.Pass(ctx, token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read pass", err)
	}
	if len(events) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no events recorded for pass %s", token))
	}

	type eventJSON struct {
		Seq    int64  `json:"seq"`
		Kind   string `json:"kind"`
		Slot   string `json:"slot,omitempty"`
		Detail string `json:"detail,omitempty"`
	}
	var data []eventJSON
	var text strings.Builder
	for _, ev := range events {
		data = append(data, eventJSON{Seq: ev.Seq, Kind: ev.Kind, Slot: ev.Slot, Detail: ev.Detail})
		fmt.Fprintf(&text, "%6d %-17s %-12s %s\n", ev.Seq, ev.Kind, ev.Slot, ev.Detail)
	}
	return out.PrintData(data, strings.TrimRight(text.String(), "\n"))
}
