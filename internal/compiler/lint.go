package compiler

import (
	"fmt"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// Diagnostic is a non-fatal warning Lint reports. Unlike a CompileError, a
// Diagnostic never blocks Compile.
type Diagnostic struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Level   string `json:"level"` // "warning" or "info"
}

// Lint runs a set of non-fatal static checks over spec: signals written by
// an edge but never read by any model, edge, or rule condition ("orphan
// writer"), and linear edges that declare neither clamp_min nor clamp_max
// and therefore silently clamp to +/-Inf (a no-op clamp, likely a typo).
// Lint never fails Compile; it exists purely to surface likely authoring
// mistakes to the CLI.
func Lint(spec ir.GraphSpec) []Diagnostic {
	diagnostics := []Diagnostic{}

	diagnostics = append(diagnostics, findOrphanWriters(spec)...)
	diagnostics = append(diagnostics, findUnboundedClamps(spec)...)

	return diagnostics
}

// findOrphanWriters flags every edge target that no model input, edge
// source, or rule condition ever reads.
func findOrphanWriters(spec ir.GraphSpec) []Diagnostic {
	read := make(map[string]bool)
	for _, m := range spec.Models {
		for role, path := range m.Signals {
			if role == "temp_signal" {
				continue // an output role, not an input
			}
			read[path] = true
		}
	}
	for _, e := range spec.Edges {
		read[e.SourcePath] = true
	}
	for _, r := range spec.Rules {
		if path := conditionSignalPath(r.Condition); path != "" {
			read[path] = true
		}
	}

	var diagnostics []Diagnostic
	for _, e := range spec.Edges {
		if !read[e.TargetPath] {
			diagnostics = append(diagnostics, Diagnostic{
				Path:    e.TargetPath,
				Message: fmt.Sprintf("signal %q is written by an edge but never read by any model, edge, or rule", e.TargetPath),
				Level:   "warning",
			})
		}
	}
	return diagnostics
}

// conditionSignalPath extracts the signal path from a raw condition string
// without fully compiling it (an already-invalid condition is reported by
// Compile itself, not Lint).
func conditionSignalPath(expr string) string {
	matches := conditionPattern.FindStringSubmatch(expr)
	if matches == nil {
		return ""
	}
	return matches[1]
}

// findUnboundedClamps flags linear edges that specify neither clamp_min nor
// clamp_max, which silently default to +/-Inf and make the clamp a no-op.
func findUnboundedClamps(spec ir.GraphSpec) []Diagnostic {
	var diagnostics []Diagnostic
	for _, e := range spec.Edges {
		if e.Transform.Kind != "linear" {
			continue
		}
		_, hasMin := e.Transform.Params["clamp_min"]
		_, hasMax := e.Transform.Params["clamp_max"]
		if !hasMin && !hasMax {
			diagnostics = append(diagnostics, Diagnostic{
				Path:    e.TargetPath,
				Message: fmt.Sprintf("linear edge into %q declares neither clamp_min nor clamp_max; the clamp is a no-op", e.TargetPath),
				Level:   "info",
			})
		}
	}
	return diagnostics
}
