package transform

import (
	"math"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// Deadband implements y = 0 if |x| < threshold else x.
type Deadband struct {
	Threshold float64
}

// NewDeadband builds a Deadband transform from its declared parameters.
func NewDeadband(params map[string]ir.Variant) (*Deadband, error) {
	threshold, err := requireF64("deadband", params, "threshold")
	if err != nil {
		return nil, err
	}
	return &Deadband{Threshold: threshold}, nil
}

// Apply implements ir.Transform.
func (d *Deadband) Apply(input, _ float64) float64 {
	if math.Abs(input) < d.Threshold {
		return 0
	}
	return input
}

// Reset implements ir.Transform. Deadband has no state to reset.
func (d *Deadband) Reset() {}

// Clone implements ir.Transform.
func (d *Deadband) Clone() ir.Transform {
	cp := *d
	return &cp
}
