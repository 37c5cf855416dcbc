package model

import "github.com/fluxgraph/fluxgraph/internal/ir"

// New instantiates a Model for the given kind, declared parameters, and
// resolved signal roles (already interned by the compiler). Returns an
// *ir.CompileError of kind ErrUnknownKind for any kind other than
// "thermal_mass", the only model kind spec.md §4.4 requires.
func New(name, kind string, params map[string]ir.Variant, signals map[string]ir.SignalId) (ir.Model, error) {
	switch kind {
	case "thermal_mass":
		return NewThermalMass(name, params, signals)
	default:
		return nil, ir.NewCompileError(ir.ErrUnknownKind, kind, "unknown model kind")
	}
}
