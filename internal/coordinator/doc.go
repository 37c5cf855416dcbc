// Package coordinator implements the tick coordinator: the single-writer
// rendezvous point that advances a compiled program by exactly one dt per
// generation once every registered provider has submitted its updates.
//
// All coordinator state is guarded by one mutex. Providers call in from
// arbitrary goroutines; the coordinator serializes them internally and the
// engine itself never blocks. The only suspension point is inside
// UpdateSignals, where an early arriver waits on a condition variable for
// the rendezvous completer to run the tick.
package coordinator
