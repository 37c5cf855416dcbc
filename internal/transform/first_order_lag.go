package transform

import (
	"math"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// FirstOrderLag implements a discretized first-order lag: the first call
// sets y = x; subsequent calls apply y += alpha*(x-y) with
// alpha = 1 - exp(-dt/tau). A non-positive tau degenerates to passthrough.
type FirstOrderLag struct {
	TauS float64

	initialized bool
	y           float64
}

// NewFirstOrderLag builds a FirstOrderLag transform from its declared
// parameters.
func NewFirstOrderLag(params map[string]ir.Variant) (*FirstOrderLag, error) {
	tau, err := requireF64("first_order_lag", params, "tau_s")
	if err != nil {
		return nil, err
	}
	return &FirstOrderLag{TauS: tau}, nil
}

// Apply implements ir.Transform.
func (f *FirstOrderLag) Apply(input, dt float64) float64 {
	if !f.initialized {
		f.y = input
		f.initialized = true
		return f.y
	}
	if f.TauS <= 0 {
		f.y = input
		return f.y
	}
	alpha := 1 - math.Exp(-dt/f.TauS)
	f.y += alpha * (input - f.y)
	return f.y
}

// Reset implements ir.Transform.
func (f *FirstOrderLag) Reset() {
	f.initialized = false
	f.y = 0
}

// Clone implements ir.Transform.
func (f *FirstOrderLag) Clone() ir.Transform {
	cp := *f
	return &cp
}
