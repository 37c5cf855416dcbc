package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fluxgraph/fluxgraph/internal/compiler"
	"github.com/fluxgraph/fluxgraph/internal/config"
	"github.com/fluxgraph/fluxgraph/internal/ir"
	"github.com/fluxgraph/fluxgraph/internal/namespace"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string
	Dt     float64
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <config-file>",
		Short: "Compile a GraphSpec to a checked, ordered program",
		Long: `Compile parses a YAML or JSON GraphSpec, instantiates every model and
transform, checks for algebraic loops and multiple writers, and produces
a topologically ordered program ready for the engine.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical JSON to this file")
	cmd.Flags().Float64Var(&opts.Dt, "dt", 0.01, "expected tick interval in seconds, for stability checking")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	spec, _, err := LoadGraphSpecFile(path)
	if err != nil {
		return outputCLIError(formatter, "load_error", err.Error())
	}
	formatter.VerboseLog("loaded %s: %d model(s), %d edge(s), %d rule(s)",
		path, len(spec.Models), len(spec.Edges), len(spec.Rules))

	if err := config.ValidateSchema(spec); err != nil {
		return outputCLIError(formatter, "schema_error", err.Error())
	}

	signalNS := namespace.New[ir.SignalId]()
	deviceNS := namespace.New[ir.DeviceId]()
	functionNS := namespace.New[ir.FunctionId]()

	program, err := compiler.Compile(spec, signalNS, deviceNS, functionNS, opts.Dt)
	if err != nil {
		return outputCompileFailure(formatter, err)
	}

	diagnostics := compiler.Lint(spec)
	for _, d := range diagnostics {
		formatter.VerboseLog("lint [%s]: %s (%s)", d.Level, d.Message, d.Path)
	}

	if opts.Output != "" {
		canonical, err := ir.MarshalCanonical(spec)
		if err != nil {
			return outputCLIError(formatter, "marshal_error", err.Error())
		}
		if err := os.WriteFile(opts.Output, canonical, 0644); err != nil {
			return outputCLIError(formatter, "write_error", err.Error())
		}
	}

	return outputCompileSuccess(formatter, program, diagnostics, opts.Output)
}

func outputCompileSuccess(formatter *OutputFormatter, program *ir.CompiledProgram, diagnostics []compiler.Diagnostic, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"models":      len(program.Models),
			"edges":       len(program.Edges),
			"rules":       len(program.Rules),
			"diagnostics": diagnostics,
		})
	}

	fmt.Fprintf(formatter.Writer, "compiled: %d model(s), %d edge(s), %d rule(s)\n",
		len(program.Models), len(program.Edges), len(program.Rules))
	for _, d := range diagnostics {
		fmt.Fprintf(formatter.Writer, "warning: %s (%s)\n", d.Message, d.Path)
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "wrote canonical JSON to %s\n", outputFile)
	}
	return nil
}

func outputCLIError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, message, nil)
}

func outputCompileFailure(formatter *OutputFormatter, err error) error {
	code := "compile_error"
	var compileErr *ir.CompileError
	if errors.As(err, &compileErr) {
		code = string(compileErr.Kind)
	}
	_ = formatter.Error(code, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}
