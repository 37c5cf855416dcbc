package transform

import (
	"math"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// Delay implements a FIFO ring buffer delay of a fixed sample count,
// N = round(delay_sec/dt) with a minimum of 1. N is derived from dt on the
// first Apply call since dt is not known at construction time; every
// subsequent call is expected to use the same dt (the engine ticks at a
// fixed rate). A non-positive delay_sec degenerates to passthrough.
type Delay struct {
	DelaySec float64

	nInitialized bool
	n            int
	buf          []float64
}

// NewDelay builds a Delay transform from its declared parameters.
func NewDelay(params map[string]ir.Variant) (*Delay, error) {
	delaySec, err := requireF64("delay", params, "delay_sec")
	if err != nil {
		return nil, err
	}
	return &Delay{DelaySec: delaySec}, nil
}

// Apply implements ir.Transform.
func (d *Delay) Apply(input, dt float64) float64 {
	if d.DelaySec <= 0 {
		return input
	}
	if !d.nInitialized {
		d.n = int(math.Round(d.DelaySec / dt))
		if d.n < 1 {
			d.n = 1
		}
		d.nInitialized = true
	}

	d.buf = append(d.buf, input)
	if len(d.buf) > d.n {
		head := d.buf[0]
		d.buf = d.buf[1:]
		return head
	}
	return d.buf[0]
}

// Reset implements ir.Transform.
func (d *Delay) Reset() {
	d.nInitialized = false
	d.n = 0
	d.buf = nil
}

// Clone implements ir.Transform.
func (d *Delay) Clone() ir.Transform {
	cp := &Delay{
		DelaySec:     d.DelaySec,
		nInitialized: d.nInitialized,
		n:            d.n,
	}
	cp.buf = make([]float64, len(d.buf))
	copy(cp.buf, d.buf)
	return cp
}
