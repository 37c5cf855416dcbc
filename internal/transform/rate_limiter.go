package transform

import "github.com/fluxgraph/fluxgraph/internal/ir"

// RateLimiter implements a slew-rate limit: the first call sets y = x;
// subsequent calls clamp the per-tick change to +/- maxRatePerSec*dt. A
// non-positive rate or dt degenerates to passthrough.
type RateLimiter struct {
	MaxRatePerSec float64

	initialized bool
	y           float64
}

// NewRateLimiter builds a RateLimiter transform from its declared
// parameters. Accepts max_rate_per_sec or the max_rate alias.
func NewRateLimiter(params map[string]ir.Variant) (*RateLimiter, error) {
	rate, err := requireAliasedF64("rate_limiter", params, "max_rate_per_sec", "max_rate")
	if err != nil {
		return nil, err
	}
	return &RateLimiter{MaxRatePerSec: rate}, nil
}

// Apply implements ir.Transform.
func (r *RateLimiter) Apply(input, dt float64) float64 {
	if !r.initialized {
		r.y = input
		r.initialized = true
		return r.y
	}
	if r.MaxRatePerSec <= 0 || dt <= 0 {
		r.y = input
		return r.y
	}
	limit := r.MaxRatePerSec * dt
	delta := clamp(input-r.y, -limit, limit)
	r.y += delta
	return r.y
}

// Reset implements ir.Transform.
func (r *RateLimiter) Reset() {
	r.initialized = false
	r.y = 0
}

// Clone implements ir.Transform.
func (r *RateLimiter) Clone() ir.Transform {
	cp := *r
	return &cp
}
