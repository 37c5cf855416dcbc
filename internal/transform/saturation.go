package transform

import "github.com/fluxgraph/fluxgraph/internal/ir"

// Saturation implements y = clamp(x, min, max). Accepts either min/max or
// the min_value/max_value aliases.
type Saturation struct {
	Min, Max float64
}

// NewSaturation builds a Saturation transform from its declared parameters.
func NewSaturation(params map[string]ir.Variant) (*Saturation, error) {
	min, err := requireAliasedF64("saturation", params, "min", "min_value")
	if err != nil {
		return nil, err
	}
	max, err := requireAliasedF64("saturation", params, "max", "max_value")
	if err != nil {
		return nil, err
	}
	return &Saturation{Min: min, Max: max}, nil
}

func requireAliasedF64(kind string, params map[string]ir.Variant, primary, alias string) (float64, error) {
	if v, ok := params[primary]; ok {
		f, ok := ir.AsF64(v)
		if !ok {
			return 0, ir.NewTypeError(kind+"."+primary, "f64", ir.TypeName(v))
		}
		return f, nil
	}
	if v, ok := params[alias]; ok {
		f, ok := ir.AsF64(v)
		if !ok {
			return 0, ir.NewTypeError(kind+"."+alias, "f64", ir.TypeName(v))
		}
		return f, nil
	}
	return 0, ir.NewCompileError(ir.ErrMissingParam, kind, "missing parameter "+primary+" (or "+alias+")")
}

// Apply implements ir.Transform.
func (s *Saturation) Apply(input, _ float64) float64 {
	return clamp(input, s.Min, s.Max)
}

// Reset implements ir.Transform. Saturation has no state to reset.
func (s *Saturation) Reset() {}

// Clone implements ir.Transform.
func (s *Saturation) Clone() ir.Transform {
	cp := *s
	return &cp
}
