// Package audit provides a SQLite-backed journal of tick executions and
// config loads for offline replay and inspection. This is an ambient
// side-artifact: losing the audit database never affects simulation
// correctness, only observability. Live simulation state (signal values,
// tick_generation, sim_time) lives entirely in memory in store/engine/
// coordinator; nothing here is read back into a running simulation.
package audit
