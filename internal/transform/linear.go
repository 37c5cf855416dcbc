package transform

import "github.com/fluxgraph/fluxgraph/internal/ir"

// Linear implements y = clamp(scale*x + offset, clampMin, clampMax). It
// carries no internal state, so Reset is a no-op and Clone only needs to
// copy the configuration.
type Linear struct {
	Scale, Offset       float64
	ClampMin, ClampMax float64
}

// NewLinear builds a Linear transform from its declared parameters.
func NewLinear(params map[string]ir.Variant) (*Linear, error) {
	scale, err := requireF64("linear", params, "scale")
	if err != nil {
		return nil, err
	}
	offset, err := requireF64("linear", params, "offset")
	if err != nil {
		return nil, err
	}
	clampMin, err := optionalF64("linear", params, negInf, "clamp_min")
	if err != nil {
		return nil, err
	}
	clampMax, err := optionalF64("linear", params, posInf, "clamp_max")
	if err != nil {
		return nil, err
	}
	return &Linear{Scale: scale, Offset: offset, ClampMin: clampMin, ClampMax: clampMax}, nil
}

// Apply implements ir.Transform.
func (l *Linear) Apply(input, _ float64) float64 {
	return clamp(l.Scale*input+l.Offset, l.ClampMin, l.ClampMax)
}

// Reset implements ir.Transform. Linear has no state to reset.
func (l *Linear) Reset() {}

// Clone implements ir.Transform.
func (l *Linear) Clone() ir.Transform {
	cp := *l
	return &cp
}
