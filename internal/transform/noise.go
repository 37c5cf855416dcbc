package transform

import (
	"math"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// Noise implements additive Gaussian noise: y = x + N(0, amplitude), using
// a Box-Muller transform driven by the local MT19937 generator. A
// non-positive amplitude degenerates to passthrough.
type Noise struct {
	Amplitude float64
	Seed      uint32

	rng      *mt19937
	haveSpare bool
	spare     float64
}

// NewNoise builds a Noise transform from its declared parameters. seed
// defaults to 0 when absent.
func NewNoise(params map[string]ir.Variant) (*Noise, error) {
	amplitude, err := requireF64("noise", params, "amplitude")
	if err != nil {
		return nil, err
	}
	seedF, err := optionalF64("noise", params, 0, "seed")
	if err != nil {
		return nil, err
	}
	n := &Noise{Amplitude: amplitude, Seed: uint32(int64(seedF))}
	n.rng = newMT19937(n.Seed)
	return n, nil
}

// Apply implements ir.Transform.
func (n *Noise) Apply(input, _ float64) float64 {
	if n.Amplitude <= 0 {
		return input
	}
	return input + n.Amplitude*n.gaussian()
}

// gaussian returns one standard-normal sample using the polar Box-Muller
// method, caching the second sample each pair produces.
func (n *Noise) gaussian() float64 {
	if n.haveSpare {
		n.haveSpare = false
		return n.spare
	}
	var u, v, s float64
	for {
		u = 2*n.rng.Float64() - 1
		v = 2*n.rng.Float64() - 1
		s = u*u + v*v
		if s > 0 && s < 1 {
			break
		}
	}
	mul := math.Sqrt(-2 * math.Log(s) / s)
	n.spare = v * mul
	n.haveSpare = true
	return u * mul
}

// Reset implements ir.Transform: restores the RNG to its original seed.
func (n *Noise) Reset() {
	n.rng.Seed(n.Seed)
	n.haveSpare = false
	n.spare = 0
}

// Clone implements ir.Transform, carrying the current RNG state (not the
// original seed's fresh state) so a checkpoint clone continues the exact
// same noise sequence.
func (n *Noise) Clone() ir.Transform {
	return &Noise{
		Amplitude: n.Amplitude,
		Seed:      n.Seed,
		rng:       n.rng.clone(),
		haveSpare: n.haveSpare,
		spare:     n.spare,
	}
}
