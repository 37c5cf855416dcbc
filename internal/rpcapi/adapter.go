package rpcapi

import "github.com/fluxgraph/fluxgraph/internal/coordinator"

// Adapter satisfies Service by translating each DTO to and from
// internal/coordinator's idiomatic (value, error) method signatures. The
// coordinator itself keeps plain Go error returns rather than an
// embedded-error-field convention; Adapter is the one place that
// reconciles the two.
type Adapter struct {
	Coordinator *coordinator.Coordinator
}

func (a Adapter) LoadConfig(req LoadConfigRequest) LoadConfigResponse {
	changed, err := a.Coordinator.LoadConfig(req.ConfigContent, req.Format, req.ConfigHash)
	if err != nil {
		return LoadConfigResponse{Error: err.Error()}
	}
	return LoadConfigResponse{Success: true, ConfigChanged: changed}
}

func (a Adapter) RegisterProvider(req RegisterProviderRequest) RegisterProviderResponse {
	id, err := a.Coordinator.RegisterProvider(req.ProviderID, req.DeviceIDs)
	if err != nil {
		return RegisterProviderResponse{Error: err.Error()}
	}
	return RegisterProviderResponse{Success: true, SessionID: id}
}

func (a Adapter) UnregisterProvider(req UnregisterProviderRequest) UnregisterProviderResponse {
	if err := a.Coordinator.UnregisterProvider(req.SessionID); err != nil {
		return UnregisterProviderResponse{Error: err.Error()}
	}
	return UnregisterProviderResponse{Success: true}
}

func (a Adapter) UpdateSignals(req UpdateSignalsRequest) UpdateSignalsResponse {
	updates := make([]coordinator.SignalUpdate, len(req.Signals))
	for i, s := range req.Signals {
		updates[i] = coordinator.SignalUpdate{Path: s.Path, Value: s.Value, Unit: s.Unit}
	}
	result, err := a.Coordinator.UpdateSignals(req.SessionID, updates)
	if err != nil {
		return UpdateSignalsResponse{Error: err.Error()}
	}
	return UpdateSignalsResponse{
		TickOccurred: result.TickOccurred,
		SimTimeSec:   result.SimTime,
		Commands:     result.Commands,
	}
}

func (a Adapter) ReadSignals(req ReadSignalsRequest) ReadSignalsResponse {
	readings := a.Coordinator.ReadSignals(req.Paths)
	out := make([]SignalReading, len(readings))
	for i, r := range readings {
		out[i] = SignalReading{Path: r.Path, Value: r.Value, Unit: r.Unit, PhysicsDriven: r.PhysicsDriven}
	}
	return ReadSignalsResponse{Signals: out}
}

func (a Adapter) Reset(ResetRequest) ResetResponse {
	if err := a.Coordinator.Reset(); err != nil {
		return ResetResponse{Error: err.Error()}
	}
	return ResetResponse{Success: true}
}

func (a Adapter) Check(req CheckRequest) CheckResponse {
	if a.Coordinator.Check(req.Service) {
		return CheckResponse{Status: StatusServing}
	}
	return CheckResponse{Status: StatusServiceUnknown}
}

var _ Service = Adapter{}
