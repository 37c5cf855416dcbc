// Command fluxgraphctl compiles and drives FluxGraph GraphSpecs from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/fluxgraph/fluxgraph/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
