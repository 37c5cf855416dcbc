package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fluxgraph/fluxgraph/internal/config"
	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// LoadGraphSpecFile reads path from disk and parses it as a GraphSpec,
// picking YAML or JSON by file extension. It is the single place every
// subcommand goes through to turn a config file into an ir.GraphSpec, so
// they all report load errors (and pick a format) the same way.
func LoadGraphSpecFile(path string) (ir.GraphSpec, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ir.GraphSpec{}, "", fmt.Errorf("reading %s: %w", path, err)
	}

	format := formatForPath(path)
	var loader config.Loader
	spec, err := loader.Load(content, format)
	if err != nil {
		return ir.GraphSpec{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return spec, format, nil
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return ""
	}
}
