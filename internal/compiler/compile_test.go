package compiler

import (
	"testing"

	"github.com/fluxgraph/fluxgraph/internal/ir"
	"github.com/fluxgraph/fluxgraph/internal/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) ir.Variant { return ir.VariantF64(v) }

func thermalMassSpec(tempPath, powerPath, ambientPath string) ir.ModelSpec {
	return ir.ModelSpec{
		Kind: "thermal_mass",
		Params: map[string]ir.Variant{
			"mass_j_per_k":                f64(100),
			"heat_transfer_coeff_w_per_k": f64(1),
			"initial_temp_c":              f64(20),
		},
		Signals: map[string]string{
			"temp_signal":    tempPath,
			"power_signal":   powerPath,
			"ambient_signal": ambientPath,
		},
	}
}

func newNS() (*namespace.Namespace[ir.SignalId], *namespace.Namespace[ir.DeviceId], *namespace.Namespace[ir.FunctionId]) {
	return namespace.New[ir.SignalId](), namespace.New[ir.DeviceId](), namespace.New[ir.FunctionId]()
}

func TestCompileSimpleProgram(t *testing.T) {
	spec := ir.GraphSpec{
		Models: []ir.ModelSpec{thermalMassSpec("plant/temp", "plant/power", "plant/ambient")},
		Edges: []ir.EdgeSpec{
			{
				SourcePath: "plant/temp",
				TargetPath: "controller/temp_filtered",
				Transform:  ir.TransformSpec{Kind: "linear", Params: map[string]ir.Variant{"scale": f64(1), "offset": f64(0)}},
			},
		},
		Rules: []ir.RuleSpec{
			{
				ID:        "overheat",
				Condition: "controller/temp_filtered > 90",
				Actions: []ir.ActionSpec{
					{Device: "heater", Function: "shutoff", Args: map[string]ir.Variant{}},
				},
			},
		},
	}

	signalNS, deviceNS, functionNS := newNS()
	program, err := Compile(spec, signalNS, deviceNS, functionNS, 0)
	require.NoError(t, err)
	assert.Len(t, program.Models, 1)
	assert.Len(t, program.Edges, 1)
	assert.Len(t, program.Rules, 1)
	assert.False(t, program.Edges[0].IsDelay)
}

func TestCompileFailsOnUnknownModelKind(t *testing.T) {
	spec := ir.GraphSpec{
		Models: []ir.ModelSpec{{Kind: "warp_core", Signals: map[string]string{}}},
	}
	signalNS, deviceNS, functionNS := newNS()
	_, err := Compile(spec, signalNS, deviceNS, functionNS, 0)
	require.Error(t, err)
	var ce *ir.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ir.ErrUnknownKind, ce.Kind)
}

func TestCompileFailsOnStabilityViolation(t *testing.T) {
	spec := ir.GraphSpec{
		Models: []ir.ModelSpec{thermalMassSpec("plant/temp", "plant/power", "plant/ambient")},
	}
	signalNS, deviceNS, functionNS := newNS()
	// stability limit is 2*C/h = 200; expected_dt of 1000 exceeds it.
	_, err := Compile(spec, signalNS, deviceNS, functionNS, 1000)
	require.Error(t, err)
	var ce *ir.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ir.ErrStabilityViolation, ce.Kind)
}

func TestCompilePassesStabilityCheckUnderLimit(t *testing.T) {
	spec := ir.GraphSpec{
		Models: []ir.ModelSpec{thermalMassSpec("plant/temp", "plant/power", "plant/ambient")},
	}
	signalNS, deviceNS, functionNS := newNS()
	_, err := Compile(spec, signalNS, deviceNS, functionNS, 1.0)
	require.NoError(t, err)
}

func TestCompileFailsOnMultipleWriters(t *testing.T) {
	spec := ir.GraphSpec{
		Models: []ir.ModelSpec{thermalMassSpec("shared", "plant/power", "plant/ambient")},
		Edges: []ir.EdgeSpec{
			{
				SourcePath: "plant/power",
				TargetPath: "shared",
				Transform:  ir.TransformSpec{Kind: "linear", Params: map[string]ir.Variant{"scale": f64(1), "offset": f64(0)}},
			},
		},
	}
	signalNS, deviceNS, functionNS := newNS()
	_, err := Compile(spec, signalNS, deviceNS, functionNS, 0)
	require.Error(t, err)
	var ce *ir.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ir.ErrMultipleWriters, ce.Kind)
}

func TestCompileFailsOnAlgebraicLoop(t *testing.T) {
	linear := func() ir.TransformSpec {
		return ir.TransformSpec{Kind: "linear", Params: map[string]ir.Variant{"scale": f64(1), "offset": f64(0)}}
	}
	spec := ir.GraphSpec{
		Edges: []ir.EdgeSpec{
			{SourcePath: "a", TargetPath: "b", Transform: linear()},
			{SourcePath: "b", TargetPath: "a", Transform: linear()},
		},
	}
	signalNS, deviceNS, functionNS := newNS()
	_, err := Compile(spec, signalNS, deviceNS, functionNS, 0)
	require.Error(t, err)
	var ce *ir.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ir.ErrAlgebraicLoop, ce.Kind)
	assert.NotEmpty(t, ce.Cycle)
}

func TestCompileAllowsDelayEdgeInFeedbackLoop(t *testing.T) {
	spec := ir.GraphSpec{
		Edges: []ir.EdgeSpec{
			{SourcePath: "a", TargetPath: "b", Transform: ir.TransformSpec{Kind: "linear", Params: map[string]ir.Variant{"scale": f64(1), "offset": f64(0)}}},
			{SourcePath: "b", TargetPath: "a", Transform: ir.TransformSpec{Kind: "delay", Params: map[string]ir.Variant{"delay_sec": f64(1)}}},
		},
	}
	signalNS, deviceNS, functionNS := newNS()
	program, err := Compile(spec, signalNS, deviceNS, functionNS, 0)
	require.NoError(t, err)
	require.Len(t, program.Edges, 2)
	// the delay edge is placed first even though it comes second in the spec.
	assert.True(t, program.Edges[0].IsDelay)
}

func TestCompileOrdersDelayEdgesFirst(t *testing.T) {
	linear := func() ir.TransformSpec {
		return ir.TransformSpec{Kind: "linear", Params: map[string]ir.Variant{"scale": f64(1), "offset": f64(0)}}
	}
	delay := ir.TransformSpec{Kind: "delay", Params: map[string]ir.Variant{"delay_sec": f64(1)}}
	spec := ir.GraphSpec{
		Edges: []ir.EdgeSpec{
			{SourcePath: "x", TargetPath: "y", Transform: linear()},
			{SourcePath: "p", TargetPath: "q", Transform: delay},
		},
	}
	signalNS, deviceNS, functionNS := newNS()
	program, err := Compile(spec, signalNS, deviceNS, functionNS, 0)
	require.NoError(t, err)
	require.Len(t, program.Edges, 2)
	assert.True(t, program.Edges[0].IsDelay)
	assert.False(t, program.Edges[1].IsDelay)
}

func TestCompileFailsOnInvalidCondition(t *testing.T) {
	spec := ir.GraphSpec{
		Rules: []ir.RuleSpec{{ID: "bad", Condition: "not a valid condition"}},
	}
	signalNS, deviceNS, functionNS := newNS()
	_, err := Compile(spec, signalNS, deviceNS, functionNS, 0)
	require.Error(t, err)
	var ce *ir.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ir.ErrInvalidCondition, ce.Kind)
}

func TestCompileInternsInSpecWalkOrder(t *testing.T) {
	spec := ir.GraphSpec{
		Edges: []ir.EdgeSpec{
			{SourcePath: "first", TargetPath: "second", Transform: ir.TransformSpec{Kind: "linear", Params: map[string]ir.Variant{"scale": f64(1), "offset": f64(0)}}},
		},
	}
	signalNS, deviceNS, functionNS := newNS()
	_, err := Compile(spec, signalNS, deviceNS, functionNS, 0)
	require.NoError(t, err)

	firstID, ok := signalNS.Resolve("first")
	require.True(t, ok)
	secondID, ok := signalNS.Resolve("second")
	require.True(t, ok)
	assert.Less(t, firstID, secondID)
}
