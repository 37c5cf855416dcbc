// Package store implements SignalStore, the value|unit map every model,
// transform edge, and rule condition reads and writes through during a
// tick. It enforces the declared-unit-on-first-write invariant and tracks
// which signals are currently physics-driven. SignalStore satisfies
// ir.Store.
package store
