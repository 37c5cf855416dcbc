package coordinator

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionIDGenerator produces session ids for RegisterProvider. Injectable
// so tests can supply deterministic ids instead of a wall-clock timestamp
// and random suffix.
type SessionIDGenerator interface {
	Generate(providerID string) string
}

// UUIDSessionIDGenerator generates ids of the form
// "{provider_id}_{wall_ms}_{random4}" per spec.md §4.7, sourcing the
// random component from a UUIDv4 rather than a hand-rolled RNG.
type UUIDSessionIDGenerator struct{}

// Generate returns a new session id for providerID.
func (UUIDSessionIDGenerator) Generate(providerID string) string {
	wallMs := time.Now().UnixMilli()
	random4 := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return fmt.Sprintf("%s_%d_%s", providerID, wallMs, random4)
}

// FixedSessionIDGenerator returns predetermined session ids in order, for
// deterministic tests.
type FixedSessionIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedSessionIDGenerator returns a generator that yields ids in order.
func NewFixedSessionIDGenerator(ids ...string) *FixedSessionIDGenerator {
	return &FixedSessionIDGenerator{ids: ids}
}

// Generate returns the next predetermined id, ignoring providerID. Panics
// once every id has been consumed.
func (g *FixedSessionIDGenerator) Generate(string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedSessionIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
