package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxgraph/fluxgraph/internal/audit"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	From     uint64
	To       uint64
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay the tick journal",
		Long: `Replay reads the audit log's tick journal and prints each recorded
generation's sim time, config hash, and drained commands in order.

Examples:
  fluxgraphctl replay --db ./fluxgraph.db
  fluxgraphctl replay --db ./fluxgraph.db --from 100 --to 200`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the audit SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().Uint64Var(&opts.From, "from", 0, "first generation to replay, inclusive")
	cmd.Flags().Uint64Var(&opts.To, "to", 0, "last generation to replay, inclusive (0 means unbounded)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	log, err := audit.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open audit database", err)
	}
	defer log.Close()

	to := opts.To
	if to == 0 {
		to = ^uint64(0)
	}
	records, err := log.Replay(ctx, opts.From, to)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to replay tick journal", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	fmt.Fprintf(formatter.Writer, "replayed %d tick(s)\n", len(records))
	for _, r := range records {
		fmt.Fprintf(formatter.Writer, "gen=%d sim_time=%.6f config_hash=%s commands=%d\n",
			r.Generation, r.SimTime, r.ConfigHash, len(r.Commands))
		if opts.Verbose {
			for _, c := range r.Commands {
				fmt.Fprintf(formatter.Writer, "  %s.%s(%v)\n", c.Device, c.Function, c.Args)
			}
		}
	}
	return nil
}
