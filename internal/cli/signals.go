package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fluxgraph/fluxgraph/internal/config"
	"github.com/fluxgraph/fluxgraph/internal/coordinator"
	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// SignalsOptions holds flags for the signals command.
type SignalsOptions struct {
	*RootOptions
	Dt   float64
	Set  []string
	Read []string
}

// NewSignalsCommand creates the signals command.
func NewSignalsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignalsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "signals <config-file>",
		Short: "Write inputs, run one tick, and read back signals",
		Long: `Signals loads a GraphSpec, registers a single provider, writes each
--set value, drains one tick, and prints the resulting commands and any
--read signal values. Useful for probing a model's response to a single
input without scripting a full run.

Example:
  fluxgraphctl signals plant.yaml --set plant/power=500:W --read plant/temp`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignals(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Dt, "dt", 0.01, "fixed tick interval in seconds")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "path=value[:unit] to write before ticking (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Read, "read", nil, "signal path to read after ticking (repeatable)")

	return cmd
}

func runSignals(opts *SignalsOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return outputCLIError(formatter, "load_error", err.Error())
	}
	format := formatForPath(path)

	updates, err := parseSetFlags(opts.Set)
	if err != nil {
		return outputCLIError(formatter, "invalid_argument", err.Error())
	}

	coord := coordinator.New(config.Loader{}, opts.Dt)
	spec, err := config.Loader{}.Load(content, format)
	if err != nil {
		return outputCLIError(formatter, "load_error", err.Error())
	}
	hash, err := ir.ConfigHash(spec)
	if err != nil {
		return outputCLIError(formatter, "hash_error", err.Error())
	}
	if _, err := coord.LoadConfig(content, format, hash); err != nil {
		return outputCLIError(formatter, "load_error", err.Error())
	}

	sessionID, err := coord.RegisterProvider("cli", nil)
	if err != nil {
		return outputCLIError(formatter, "register_error", err.Error())
	}
	defer coord.UnregisterProvider(sessionID)

	result, err := coord.UpdateSignals(sessionID, updates)
	if err != nil {
		return outputCLIError(formatter, "tick_error", err.Error())
	}

	readings := coord.ReadSignals(opts.Read)

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"tick_occurred": result.TickOccurred,
			"sim_time":      result.SimTime,
			"commands":      result.Commands,
			"signals":       readings,
		})
	}

	fmt.Fprintf(formatter.Writer, "tick_occurred=%v sim_time=%.6f\n", result.TickOccurred, result.SimTime)
	for _, c := range result.Commands {
		fmt.Fprintf(formatter.Writer, "command: %s.%s(%v)\n", coord.DeviceName(c.Device), coord.FunctionName(c.Function), c.Args)
	}
	for _, r := range readings {
		fmt.Fprintf(formatter.Writer, "%s = %g %s (physics_driven=%v)\n", r.Path, r.Value, r.Unit, r.PhysicsDriven)
	}
	return nil
}

// parseSetFlags parses "path=value" or "path=value:unit" entries.
func parseSetFlags(entries []string) ([]coordinator.SignalUpdate, error) {
	updates := make([]coordinator.SignalUpdate, 0, len(entries))
	for _, e := range entries {
		path, rest, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: expected path=value[:unit]", e)
		}
		valueStr, unit, _ := strings.Cut(rest, ":")
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("--set %q: invalid value: %w", e, err)
		}
		updates = append(updates, coordinator.SignalUpdate{Path: path, Value: value, Unit: unit})
	}
	return updates, nil
}
