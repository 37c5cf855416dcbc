package model

import (
	"fmt"
	"math"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// ThermalMass implements dT/dt = (P_in - h*(T - T_amb)) / C via forward
// Euler integration: a simple heat capacity with a power input and ambient
// cooling.
type ThermalMass struct {
	Name string

	ThermalMassJPerK     float64 // C
	HeatTransferCoeffWPerK float64 // h
	InitialTempC         float64

	TempSignal    ir.SignalId
	PowerSignal   ir.SignalId
	AmbientSignal ir.SignalId

	temperature float64
}

// NewThermalMass builds a ThermalMass model from its declared parameters
// and resolved signal roles. signals must contain "temp_signal",
// "power_signal", and "ambient_signal" already interned by the compiler.
func NewThermalMass(name string, params map[string]ir.Variant, signals map[string]ir.SignalId) (*ThermalMass, error) {
	mass, err := requireF64("thermal_mass", "mass_j_per_k", params)
	if err != nil {
		return nil, err
	}
	h, err := requireF64("thermal_mass", "heat_transfer_coeff_w_per_k", params)
	if err != nil {
		return nil, err
	}
	initial, err := requireF64("thermal_mass", "initial_temp_c", params)
	if err != nil {
		return nil, err
	}

	temp, ok := signals["temp_signal"]
	if !ok {
		return nil, ir.NewCompileError(ir.ErrMissingParam, name, "thermal_mass requires a temp_signal role")
	}
	power, ok := signals["power_signal"]
	if !ok {
		return nil, ir.NewCompileError(ir.ErrMissingParam, name, "thermal_mass requires a power_signal role")
	}
	ambient, ok := signals["ambient_signal"]
	if !ok {
		return nil, ir.NewCompileError(ir.ErrMissingParam, name, "thermal_mass requires an ambient_signal role")
	}

	return &ThermalMass{
		Name:                   name,
		ThermalMassJPerK:       mass,
		HeatTransferCoeffWPerK: h,
		InitialTempC:           initial,
		TempSignal:             temp,
		PowerSignal:            power,
		AmbientSignal:          ambient,
		temperature:            initial,
	}, nil
}

func requireF64(kind, name string, params map[string]ir.Variant) (float64, error) {
	v, ok := params[name]
	if !ok {
		return 0, ir.NewCompileError(ir.ErrMissingParam, kind, "missing parameter "+name)
	}
	f, ok := ir.AsF64(v)
	if !ok {
		return 0, ir.NewTypeError(kind+"."+name, "f64", ir.TypeName(v))
	}
	return f, nil
}

// Tick implements ir.Model.
func (m *ThermalMass) Tick(dt float64, store ir.Store) error {
	netPower := store.ReadValue(m.PowerSignal)
	ambient := store.ReadValue(m.AmbientSignal)

	heatLoss := m.HeatTransferCoeffWPerK * (m.temperature - ambient)
	dT := (netPower - heatLoss) / m.ThermalMassJPerK * dt
	m.temperature += dT

	if err := store.Write(m.TempSignal, m.temperature, "degC"); err != nil {
		return err
	}
	store.MarkPhysicsDriven(m.TempSignal, true)
	return nil
}

// ComputeStabilityLimit implements ir.Model. Forward Euler applied to the
// linear cooling term dT/dt = -k*T is stable for dt < 2/k; here
// k = h/C, so the limit is 2*C/h. A non-positive h means no cooling term,
// which is unconditionally stable.
func (m *ThermalMass) ComputeStabilityLimit() float64 {
	if m.HeatTransferCoeffWPerK <= 0 {
		return math.Inf(1)
	}
	return 2 * m.ThermalMassJPerK / m.HeatTransferCoeffWPerK
}

// Reset implements ir.Model.
func (m *ThermalMass) Reset() {
	m.temperature = m.InitialTempC
}

// OutputUnit implements ir.UnitDeclaring: ThermalMass always writes its
// temp_signal in degrees Celsius.
func (m *ThermalMass) OutputUnit() string { return "degC" }

// Describe implements ir.Model.
func (m *ThermalMass) Describe() string {
	return fmt.Sprintf("ThermalMass(id=%s, C=%g J/K, h=%g W/K, T0=%g degC)",
		m.Name, m.ThermalMassJPerK, m.HeatTransferCoeffWPerK, m.InitialTempC)
}
