// Package engine implements tick execution: given a compiled program and a
// signal store, it advances models, then edges, then rules in the fixed
// stage order spec.md §4.6 defines, and accumulates the resulting commands
// on a FIFO queue for the coordinator to drain between ticks.
//
// ARCHITECTURE:
//
// Single-writer tick loop:
// the coordinator holds one mutex around every call into the engine, so
// Tick, Load, and Reset never race with each other or with DrainCommands.
// This mirrors the teacher's single-writer event loop design, except there
// is no background goroutine here: the coordinator calls Tick synchronously
// from whichever provider's UpdateSignals call completes the rendezvous.
package engine
