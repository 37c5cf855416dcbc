package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fluxgraph/fluxgraph/internal/audit"
	"github.com/fluxgraph/fluxgraph/internal/coordinator"
	"github.com/fluxgraph/fluxgraph/internal/config"
	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Dt       float64
	Ticks    uint64
	Initial  string
}

// initialSignal is one entry of an --initial fixture: a constant value
// (and optional unit) written to the store ahead of every tick, standing
// in for a provider that never changes its inputs.
type initialSignal struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <config-file>",
		Short: "Run the tick coordinator against a config, driven by constant inputs",
		Long: `Run loads a GraphSpec, registers a single embedded provider, and drives
the tick coordinator forward either for a fixed number of ticks or until
interrupted. Inputs held constant across every tick can be supplied with
--initial; anything not listed there stays at its zero value except for
model outputs, which the physics owns.

Examples:
  fluxgraphctl run plant.yaml --ticks 100
  fluxgraphctl run plant.yaml --db ./fluxgraph.db --initial inputs.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to an audit SQLite database (optional, ticks are not recorded when omitted)")
	cmd.Flags().Float64Var(&opts.Dt, "dt", 0.01, "fixed tick interval in seconds")
	cmd.Flags().Uint64Var(&opts.Ticks, "ticks", 0, "number of ticks to run (0 means run until interrupted)")
	cmd.Flags().StringVar(&opts.Initial, "initial", "", "YAML file of path -> {value, unit} held constant across every tick")

	return cmd
}

func runSimulation(opts *RunOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)

	content, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read config", err)
	}
	format := formatForPath(path)

	inputs, err := loadInitialSignals(opts.Initial)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read --initial", err)
	}

	coord := coordinator.New(config.Loader{}, opts.Dt, coordinator.WithLogger(logger))

	spec, err := config.Loader{}.Load(content, format)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to parse config", err)
	}
	hash, err := ir.ConfigHash(spec)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash config", err)
	}
	if _, err := coord.LoadConfig(content, format, hash); err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	logger.Info("config loaded", "path", path, "models", len(spec.Models), "edges", len(spec.Edges), "rules", len(spec.Rules))

	var log *audit.Log
	if opts.Database != "" {
		log, err = audit.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open audit database", err)
		}
		defer log.Close()
		if _, err := log.RecordConfigLoad(cmd.Context(), spec, time.Now().Unix()); err != nil {
			return WrapExitError(ExitCommandError, "failed to record config load", err)
		}
	}

	sessionID, err := coord.RegisterProvider("cli", nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to register provider", err)
	}
	defer coord.UnregisterProvider(sessionID)

	updates := make([]coordinator.SignalUpdate, 0, len(inputs))
	for path, sig := range inputs {
		updates = append(updates, coordinator.SignalUpdate{Path: path, Value: sig.Value, Unit: sig.Unit})
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "running %s (dt=%g)\n", path, opts.Dt)
	if opts.Ticks == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "press Ctrl-C to stop")
	}

	var generation uint64
	for opts.Ticks == 0 || generation < opts.Ticks {
		select {
		case <-ctx.Done():
			logger.Info("run stopped", "ticks_completed", generation)
			return nil
		default:
		}

		result, err := coord.UpdateSignals(sessionID, updates)
		if err != nil {
			return WrapExitError(ExitFailure, "tick failed", err)
		}
		if !result.TickOccurred {
			continue
		}
		generation++

		if opts.Verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "tick %d sim_time=%.6f commands=%d\n", generation, result.SimTime, len(result.Commands))
		}

		if log != nil {
			records := make([]audit.CommandRecord, len(result.Commands))
			for i, c := range result.Commands {
				records[i] = audit.NewCommandRecord(c, coord.DeviceName(c.Device), coord.FunctionName(c.Function))
			}
			if err := log.RecordTick(ctx, generation, result.SimTime, hash, records, time.Now().Unix()); err != nil {
				return WrapExitError(ExitCommandError, "failed to record tick", err)
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "completed %d tick(s)\n", generation)
	return nil
}

func loadInitialSignals(path string) (map[string]initialSignal, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inputs map[string]initialSignal
	if err := yaml.Unmarshal(content, &inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}
