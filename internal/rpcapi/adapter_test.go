package rpcapi

import (
	"testing"

	"github.com/fluxgraph/fluxgraph/internal/config"
	"github.com/fluxgraph/fluxgraph/internal/coordinator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plantConfig = `
models:
  - type: thermal_mass
    params:
      mass_j_per_k: 100.0
      heat_transfer_coeff_w_per_k: 1.0
      initial_temp_c: 20.0
    signals:
      temp_signal: plant/temp
      power_signal: plant/power
      ambient_signal: plant/ambient
edges:
  - source: plant/temp
    target: plant/filtered_temp
    transform:
      type: linear
      params:
        scale: 1.0
        offset: 0.0
`

func newAdapter(t *testing.T) Adapter {
	t.Helper()
	c := coordinator.New(config.Loader{}, 1.0)
	resp := Adapter{Coordinator: c}.LoadConfig(LoadConfigRequest{
		ConfigContent: []byte(plantConfig),
		Format:        "yaml",
		ConfigHash:    "hash-1",
	})
	require.True(t, resp.Success, resp.Error)
	require.True(t, resp.ConfigChanged)
	return Adapter{Coordinator: c}
}

func TestAdapterLoadConfigReportsFailureAsResponseNotPanic(t *testing.T) {
	c := coordinator.New(config.Loader{}, 1.0)
	resp := Adapter{Coordinator: c}.LoadConfig(LoadConfigRequest{
		ConfigContent: []byte("not: [valid"),
		Format:        "yaml",
		ConfigHash:    "hash-1",
	})
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestAdapterRegisterUpdateReadRoundTrip(t *testing.T) {
	a := newAdapter(t)

	reg := a.RegisterProvider(RegisterProviderRequest{ProviderID: "plant-sim", DeviceIDs: []string{"heater"}})
	require.True(t, reg.Success, reg.Error)
	require.NotEmpty(t, reg.SessionID)

	tick := a.UpdateSignals(UpdateSignalsRequest{
		SessionID: reg.SessionID,
		Signals: []SignalValue{
			{Path: "plant/power", Value: 5, Unit: "W"},
			{Path: "plant/ambient", Value: 20, Unit: "degC"},
		},
	})
	assert.Empty(t, tick.Error)
	assert.True(t, tick.TickOccurred)
	assert.InDelta(t, 1.0, tick.SimTimeSec, 1e-9)

	read := a.ReadSignals(ReadSignalsRequest{Paths: []string{"plant/temp", "plant/filtered_temp"}})
	require.Len(t, read.Signals, 2)
	for _, s := range read.Signals {
		if s.Path == "plant/temp" {
			assert.True(t, s.PhysicsDriven)
		}
	}
}

func TestAdapterUnregisterProviderAlwaysSucceeds(t *testing.T) {
	a := newAdapter(t)
	resp := a.UnregisterProvider(UnregisterProviderRequest{SessionID: "does-not-exist"})
	assert.True(t, resp.Success)
}

func TestAdapterResetSucceedsWhenLoaded(t *testing.T) {
	a := newAdapter(t)
	resp := a.Reset(ResetRequest{})
	assert.True(t, resp.Success)
}

func TestAdapterResetFailsWhenNotLoaded(t *testing.T) {
	c := coordinator.New(config.Loader{}, 1.0)
	resp := Adapter{Coordinator: c}.Reset(ResetRequest{})
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestAdapterCheckServesEmptyServiceName(t *testing.T) {
	a := newAdapter(t)
	resp := a.Check(CheckRequest{})
	assert.Equal(t, StatusServing, resp.Status)

	unknown := a.Check(CheckRequest{Service: "not-this-coordinator"})
	assert.Equal(t, StatusServiceUnknown, unknown.Status)
}
