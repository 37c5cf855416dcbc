package transform

import "github.com/fluxgraph/fluxgraph/internal/ir"

// New instantiates a Transform for the given kind and declared parameters,
// per the table in spec.md §4.3. Returns an *ir.CompileError of kind
// ErrUnknownKind for any kind not in the required set.
func New(kind string, params map[string]ir.Variant) (ir.Transform, error) {
	switch kind {
	case "linear":
		return NewLinear(params)
	case "first_order_lag":
		return NewFirstOrderLag(params)
	case "delay":
		return NewDelay(params)
	case "noise":
		return NewNoise(params)
	case "saturation":
		return NewSaturation(params)
	case "deadband":
		return NewDeadband(params)
	case "rate_limiter":
		return NewRateLimiter(params)
	case "moving_average":
		return NewMovingAverage(params)
	default:
		return nil, ir.NewCompileError(ir.ErrUnknownKind, kind, "unknown transform kind")
	}
}
