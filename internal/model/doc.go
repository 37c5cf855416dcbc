// Package model implements the physics model kinds FluxGraph ticks each
// generation: currently just ThermalMass, the reference forward-Euler heat
// capacity model. Every kind satisfies ir.Model (Tick/ComputeStabilityLimit/
// Reset/Describe).
package model
