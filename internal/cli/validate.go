package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxgraph/fluxgraph/internal/compiler"
	"github.com/fluxgraph/fluxgraph/internal/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Lint a GraphSpec without compiling it",
		Long: `Validate parses a YAML or JSON GraphSpec and runs the non-fatal lint
pass (orphan writers, unbounded linear clamps) without instantiating
models, checking stability, or ordering the graph. Faster than compile
for quick development feedback; run compile to catch structural errors
like algebraic loops or multiple writers.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	spec, format, err := LoadGraphSpecFile(path)
	if err != nil {
		return outputCLIError(formatter, "load_error", err.Error())
	}
	formatter.VerboseLog("parsed %s as %s", path, format)

	if err := config.ValidateSchema(spec); err != nil {
		return outputCLIError(formatter, "schema_error", err.Error())
	}

	diagnostics := compiler.Lint(spec)

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"valid":       true,
			"diagnostics": diagnostics,
		})
	}

	if len(diagnostics) == 0 {
		fmt.Fprintln(formatter.Writer, "no lint findings")
		return nil
	}
	for _, d := range diagnostics {
		fmt.Fprintf(formatter.Writer, "%s [%s]: %s\n", d.Path, d.Level, d.Message)
	}
	return nil
}
