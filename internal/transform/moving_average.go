package transform

import (
	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// MovingAverage implements a fixed-size sliding window mean. dt is ignored.
type MovingAverage struct {
	WindowSize int

	buf []float64
	sum float64
}

// NewMovingAverage builds a MovingAverage transform from its declared
// parameters. window_size must be >= 1.
func NewMovingAverage(params map[string]ir.Variant) (*MovingAverage, error) {
	sizeF, err := requireF64("moving_average", params, "window_size")
	if err != nil {
		return nil, err
	}
	size := int(sizeF)
	if size < 1 {
		return nil, ir.NewCompileError(ir.ErrMissingParam, "moving_average", "window_size must be >= 1")
	}
	return &MovingAverage{WindowSize: size}, nil
}

// Apply implements ir.Transform.
func (m *MovingAverage) Apply(input, _ float64) float64 {
	m.buf = append(m.buf, input)
	m.sum += input
	if len(m.buf) > m.WindowSize {
		m.sum -= m.buf[0]
		m.buf = m.buf[1:]
	}
	return m.sum / float64(len(m.buf))
}

// Reset implements ir.Transform.
func (m *MovingAverage) Reset() {
	m.buf = nil
	m.sum = 0
}

// Clone implements ir.Transform.
func (m *MovingAverage) Clone() ir.Transform {
	cp := &MovingAverage{WindowSize: m.WindowSize, sum: m.sum}
	cp.buf = make([]float64, len(m.buf))
	copy(cp.buf, m.buf)
	return cp
}
