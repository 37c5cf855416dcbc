// Package namespace implements the bi-directional name-to-id interning
// tables shared by the compiler, store, and coordinator: one for signal
// paths, one for device/function names. Assignment order follows first-seen
// order, which downstream determinism (topological tie-breaking, spec-walk
// evaluation order) depends on.
package namespace

import (
	"sync"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// Namespace is a mutex-guarded bi-directional interning table mapping
// strings to dense, monotonically assigned uint32 ids. It is generic over
// the id type so the compiler can hold one Namespace[ir.SignalId] and one
// Namespace[ir.DeviceId]/Namespace[ir.FunctionId] pairing without
// duplicating the bookkeeping.
type Namespace[ID ~uint32] struct {
	mu        sync.Mutex
	byName    map[string]ID
	byID      []string
	nextID    ID
}

// New returns an empty Namespace.
func New[ID ~uint32]() *Namespace[ID] {
	return &Namespace[ID]{
		byName: make(map[string]ID),
	}
}

// Intern returns name's id, assigning the next sequential id on first
// sight (first-seen order). Idempotent: interning the same name twice
// returns the same id both times. name is NFC-normalized before lookup so
// Unicode-equivalent names always collide to a single id.
func (n *Namespace[ID]) Intern(name string) ID {
	name = ir.NormalizeName(name)

	n.mu.Lock()
	defer n.mu.Unlock()

	if id, ok := n.byName[name]; ok {
		return id
	}
	id := n.nextID
	n.nextID++
	n.byName[name] = id
	n.byID = append(n.byID, name)
	return id
}

// Resolve returns name's id without interning it. Returns
// (id, false) with id set to the ID zero value's InvalidID-equivalent
// sentinel — callers compare via the id's own IsValid() — when name is
// unknown.
func (n *Namespace[ID]) Resolve(name string) (ID, bool) {
	name = ir.NormalizeName(name)

	n.mu.Lock()
	defer n.mu.Unlock()

	id, ok := n.byName[name]
	if !ok {
		return ID(ir.InvalidID), false
	}
	return id, true
}

// Lookup returns the name assigned to id, or "" if id was never assigned.
func (n *Namespace[ID]) Lookup(id ID) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	idx := int(id)
	if idx < 0 || idx >= len(n.byID) {
		return ""
	}
	return n.byID[idx]
}

// Len returns the number of interned names.
func (n *Namespace[ID]) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.byID)
}

// Clear resets the namespace to empty, as LoadConfig does before
// recompiling against a new GraphSpec.
func (n *Namespace[ID]) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.byName = make(map[string]ID)
	n.byID = nil
	n.nextID = 0
}

// Snapshot returns every interned name in assignment order (index i is the
// name for id i).
func (n *Namespace[ID]) Snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.byID))
	copy(out, n.byID)
	return out
}
