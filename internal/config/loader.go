package config

import "github.com/fluxgraph/fluxgraph/internal/ir"

// Loader dispatches to LoadYAML or LoadJSON by a caller-supplied format
// string, giving the coordinator a single ConfigLoader implementation that
// covers both wire formats of spec.md §6.
type Loader struct{}

func (Loader) Load(content []byte, format string) (ir.GraphSpec, error) {
	switch format {
	case "yaml", "yml":
		return LoadYAML(content)
	case "json":
		return LoadJSON(content)
	default:
		return ir.GraphSpec{}, errAt("/", "unsupported config format: "+format)
	}
}
