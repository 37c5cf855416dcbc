package store

import (
	"testing"

	"github.com/fluxgraph/fluxgraph/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.Write(1, 42.0, "degC"))

	sig := s.Read(1)
	assert.Equal(t, 42.0, sig.Value)
	assert.Equal(t, "degC", sig.Unit)
	assert.Equal(t, 42.0, s.ReadValue(1))
}

func TestReadUnknownReturnsZeroDimensionless(t *testing.T) {
	s := New()
	sig := s.Read(99)
	assert.Equal(t, 0.0, sig.Value)
	assert.Equal(t, ir.DimensionlessUnit, sig.Unit)
}

func TestWriteEmptyUnitNormalizesToDimensionless(t *testing.T) {
	s := New()
	require.NoError(t, s.Write(1, 1.0, ""))
	assert.Equal(t, ir.DimensionlessUnit, s.Read(1).Unit)
}

func TestWriteSentinelIsNoOp(t *testing.T) {
	s := New()
	require.NoError(t, s.Write(ir.InvalidSignalId, 1.0, "degC"))
	assert.Equal(t, 0.0, s.ReadValue(ir.InvalidSignalId))
}

func TestWriteEstablishesDeclaredUnitOnFirstNonDimensionlessWrite(t *testing.T) {
	s := New()
	require.NoError(t, s.Write(1, 1.0, "degC"))

	err := s.Write(1, 2.0, "kelvin")
	require.Error(t, err)
	var umErr *UnitMismatchError
	require.ErrorAs(t, err, &umErr)
	assert.Equal(t, "degC", umErr.Declared)
	assert.Equal(t, "kelvin", umErr.Got)
}

func TestWriteDimensionlessDoesNotEstablishDeclaredUnit(t *testing.T) {
	s := New()
	require.NoError(t, s.Write(1, 1.0, ""))    // dimensionless, no declaration
	require.NoError(t, s.Write(1, 2.0, "degC")) // now establishes
	require.Error(t, s.Write(1, 3.0, "kelvin"))
}

func TestDeclareUnitEstablishesContractBeforeAnyWrite(t *testing.T) {
	s := New()
	require.NoError(t, s.DeclareUnit(1, "degC"))

	err := s.Write(1, 1.0, "kelvin")
	require.Error(t, err)
}

func TestMarkPhysicsDriven(t *testing.T) {
	s := New()
	assert.False(t, s.IsPhysicsDriven(1))
	s.MarkPhysicsDriven(1, true)
	assert.True(t, s.IsPhysicsDriven(1))
	s.MarkPhysicsDriven(1, false)
	assert.False(t, s.IsPhysicsDriven(1))
}

func TestClearPreservesDeclaredUnits(t *testing.T) {
	s := New()
	require.NoError(t, s.Write(1, 1.0, "degC"))
	s.MarkPhysicsDriven(1, true)

	s.Clear()

	assert.Equal(t, 0.0, s.ReadValue(1))
	assert.False(t, s.IsPhysicsDriven(1))
	// Declared unit contract survives clear: a write in another unit must
	// still be rejected once degC has been established.
	err := s.Write(1, 2.0, "kelvin")
	require.Error(t, err)
}

func TestSentinelOperationsAreNoOps(t *testing.T) {
	s := New()
	s.MarkPhysicsDriven(ir.InvalidSignalId, true)
	assert.False(t, s.IsPhysicsDriven(ir.InvalidSignalId))
	require.NoError(t, s.DeclareUnit(ir.InvalidSignalId, "degC"))
}
