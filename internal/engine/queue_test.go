package engine

import (
	"testing"

	"github.com/fluxgraph/fluxgraph/internal/ir"
	"github.com/stretchr/testify/assert"
)

func TestCommandQueuePushDrainOrder(t *testing.T) {
	q := newCommandQueue()
	q.Push(ir.Command{Device: 1})
	q.Push(ir.Command{Device: 2})

	drained := q.Drain()
	assert.Equal(t, []ir.Command{{Device: 1}, {Device: 2}}, drained)
	assert.Zero(t, q.Len())
}

func TestCommandQueueDrainEmptyReturnsNil(t *testing.T) {
	q := newCommandQueue()
	assert.Nil(t, q.Drain())
}

func TestCommandQueueClear(t *testing.T) {
	q := newCommandQueue()
	q.Push(ir.Command{Device: 1})
	q.Clear()
	assert.Zero(t, q.Len())
	assert.Nil(t, q.Drain())
}
