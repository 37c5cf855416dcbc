package coordinator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fluxgraph/fluxgraph/internal/compiler"
	"github.com/fluxgraph/fluxgraph/internal/engine"
	"github.com/fluxgraph/fluxgraph/internal/ir"
	"github.com/fluxgraph/fluxgraph/internal/namespace"
	"github.com/fluxgraph/fluxgraph/internal/store"
)

// rendezvousTimeout bounds how long UpdateSignals blocks an early arriver
// waiting for the tick generation to advance. A var, not a const, so tests
// can shrink it instead of waiting out the real 2 seconds.
var rendezvousTimeout = 2 * time.Second

// ConfigLoader parses raw configuration content into a GraphSpec. format is
// one of "yaml" or "json". Injected so the coordinator stays independent of
// any particular loader implementation.
type ConfigLoader interface {
	Load(content []byte, format string) (ir.GraphSpec, error)
}

// SignalUpdate is one (path, value, unit) triple submitted to UpdateSignals.
type SignalUpdate struct {
	Path  string
	Value float64
	Unit  string
}

// SignalReading is one (path, value, unit, physics_driven) tuple returned
// by ReadSignals.
type SignalReading struct {
	Path          string
	Value         float64
	Unit          string
	PhysicsDriven bool
}

// TickResult is UpdateSignals' response: whether this call caused or
// observed a tick, the resulting sim time, and the commands fanned out to
// the calling session.
type TickResult struct {
	TickOccurred bool
	SimTime      float64
	Commands     []ir.Command
}

// Coordinator is the tick coordinator of spec.md §4.7: it owns the engine,
// the signal store, and the three interning namespaces, and rendezvouses
// concurrent providers onto a single tick per generation. All state is
// guarded by mu; cond signals tick completion and session unregistration.
type Coordinator struct {
	mu   sync.Mutex
	cond *sync.Cond

	loader ConfigLoader
	dt     float64

	sessionTimeout time.Duration
	sessionIDGen   SessionIDGenerator
	logger         *slog.Logger
	name           string

	engine     *engine.Engine
	store      *store.SignalStore
	signalNS   *namespace.Namespace[ir.SignalId]
	deviceNS   *namespace.Namespace[ir.DeviceId]
	functionNS *namespace.Namespace[ir.FunctionId]

	loaded     bool
	configHash string

	simTime        float64
	tickGeneration uint64

	completedGeneration uint64
	completedSimTime    float64
	completedCommands   []ir.Command

	sessions map[string]*ProviderSession

	protectedWriteSignals map[ir.SignalId]bool
	physicsOwnedSignals   map[ir.SignalId]bool
}

// Option configures a Coordinator at construction time.
type Option func(*Coordinator)

// WithSessionTimeout overrides the default 5-second stale-session timeout.
func WithSessionTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.sessionTimeout = d }
}

// WithSessionIDGenerator overrides the default UUID-backed session id
// generator, for deterministic tests.
func WithSessionIDGenerator(g SessionIDGenerator) Option {
	return func(c *Coordinator) { c.sessionIDGen = g }
}

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithServiceName overrides the name Check() matches against.
func WithServiceName(name string) Option {
	return func(c *Coordinator) { c.name = name }
}

// New returns an unloaded Coordinator. dt is the fixed tick period passed
// to the compiler as expected_dt on every LoadConfig.
func New(loader ConfigLoader, dt float64, opts ...Option) *Coordinator {
	c := &Coordinator{
		loader:         loader,
		dt:             dt,
		sessionTimeout: 5 * time.Second,
		sessionIDGen:   UUIDSessionIDGenerator{},
		logger:         slog.Default(),
		name:           "fluxgraph.coordinator",
		engine:         engine.New(),
		store:          store.New(),
		signalNS:       namespace.New[ir.SignalId](),
		deviceNS:       namespace.New[ir.DeviceId](),
		functionNS:     namespace.New[ir.FunctionId](),
		sessions:       make(map[string]*ProviderSession),

		protectedWriteSignals: make(map[ir.SignalId]bool),
		physicsOwnedSignals:   make(map[ir.SignalId]bool),
	}
	c.cond = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Loaded reports whether a program is currently loaded.
func (c *Coordinator) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// LoadConfig parses content (in format "yaml" or "json"), compiles it
// against fresh namespaces, and loads the result into the engine. hash
// matching the already-loaded config's hash is a no-op. A parse failure
// before the clearing phase leaves the coordinator's existing state
// untouched; a compile failure after clearing starts leaves it unloaded.
func (c *Coordinator) LoadConfig(content []byte, format, hash string) (configChanged bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && hash == c.configHash {
		return false, nil
	}

	spec, loadErr := c.loader.Load(content, format)
	if loadErr != nil {
		return false, loadErr
	}

	// Clearing begins here: from this point, a failure leaves the
	// coordinator unloaded rather than restoring the previous program.
	c.loaded = false
	c.signalNS.Clear()
	c.deviceNS.Clear()
	c.functionNS.Clear()

	program, compileErr := compiler.Compile(spec, c.signalNS, c.deviceNS, c.functionNS, c.dt)
	if compileErr != nil {
		return false, compileErr
	}

	c.engine.Load(program)
	c.store = store.New()
	c.sessions = make(map[string]*ProviderSession)
	c.simTime = 0
	c.tickGeneration = 0
	c.completedGeneration = 0
	c.completedSimTime = 0
	c.completedCommands = nil

	c.protectedWriteSignals = make(map[ir.SignalId]bool)
	c.physicsOwnedSignals = make(map[ir.SignalId]bool)
	for _, e := range program.Edges {
		c.protectedWriteSignals[e.Target] = true
	}
	for i, modelSpec := range spec.Models {
		path, ok := compiler.ModelOutputSignalPath(modelSpec)
		if !ok {
			continue
		}
		id, _ := c.signalNS.Resolve(path)
		c.protectedWriteSignals[id] = true
		c.physicsOwnedSignals[id] = true
		c.store.MarkPhysicsDriven(id, true)
		if declaring, ok := program.Models[i].Model.(ir.UnitDeclaring); ok {
			_ = c.store.DeclareUnit(id, declaring.OutputUnit())
		}
	}

	c.configHash = hash
	c.loaded = true
	return true, nil
}

// RegisterProvider admits a new provider session, evicting stale sessions
// first. Fails NotLoaded, InvalidArgument, AlreadyExists, or
// OwnershipConflict per spec.md §4.7.
func (c *Coordinator) RegisterProvider(providerID string, deviceIDs []string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return "", errNotLoaded()
	}
	if providerID == "" {
		return "", errInvalidArgument("provider_id", "provider id must not be empty")
	}

	c.evictStaleSessions(time.Now(), "")

	for _, s := range c.sessions {
		if s.ProviderID == providerID {
			return "", errAlreadyExists(providerID)
		}
	}
	for _, want := range deviceIDs {
		for _, s := range c.sessions {
			if s.ownsDevice(want) {
				return "", errOwnershipConflict(want)
			}
		}
	}

	id := c.sessionIDGen.Generate(providerID)
	c.sessions[id] = newProviderSession(id, providerID, deviceIDs, time.Now())
	return id, nil
}

// UnregisterProvider removes sessionID if present and wakes any provider
// blocked in UpdateSignals. A woken waiter only re-checks whether the tick
// generation has advanced, so unregistering never runs a tick. Never fails:
// an unknown session id is a silent no-op.
func (c *Coordinator) UnregisterProvider(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
	c.cond.Broadcast()
	return nil
}

// UpdateSignals writes updates to the store on behalf of sessionID, then
// either runs the tick (this call is the rendezvous completer, because
// every registered session has now submitted for the current generation)
// or blocks up to rendezvousTimeout waiting for another session to
// complete it. A timeout is reported as TickResult{TickOccurred: false},
// never as an error.
func (c *Coordinator) UpdateSignals(sessionID string, updates []SignalUpdate) (TickResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return TickResult{}, errNotLoaded()
	}
	sess, ok := c.sessions[sessionID]
	if !ok {
		return TickResult{}, errUnknownSession(sessionID)
	}

	now := time.Now()
	sess.LastUpdate = now
	c.evictStaleSessions(now, sessionID)

	resolved := make([]ir.SignalId, len(updates))
	for i, u := range updates {
		id, ok := c.signalNS.Resolve(u.Path)
		if !ok {
			return TickResult{}, errUnknownSignal(u.Path)
		}
		if c.protectedWriteSignals[id] {
			return TickResult{}, errPermissionDenied(u.Path)
		}
		resolved[i] = id
	}

	generation := c.tickGeneration
	for i, u := range updates {
		if err := c.store.Write(resolved[i], u.Value, u.Unit); err != nil {
			return TickResult{}, err
		}
	}
	sess.LastTickGeneration = &generation

	if c.allSessionsAtGeneration(generation) {
		return c.completeRendezvous(sess, generation)
	}

	return c.waitForRendezvous(sess, generation), nil
}

// completeRendezvous runs the engine tick, advances sim_time and the tick
// generation, snapshots the drained commands, and wakes every waiter. The
// mutex is held by the caller throughout.
func (c *Coordinator) completeRendezvous(sess *ProviderSession, generation uint64) (TickResult, error) {
	if err := c.engine.Tick(c.dt, c.store); err != nil {
		// The tick never committed: generation and sim_time are unchanged,
		// and no waiter is woken, matching "leaving state unchanged."
		return TickResult{}, err
	}

	c.simTime += c.dt
	c.tickGeneration = generation + 1
	drained := c.engine.DrainCommands()
	c.completedGeneration = c.tickGeneration
	c.completedSimTime = c.simTime
	c.completedCommands = drained
	c.cond.Broadcast()

	return TickResult{
		TickOccurred: true,
		SimTime:      c.simTime,
		Commands:     c.filterCommandsForSession(sess, drained),
	}, nil
}

// waitForRendezvous blocks the caller on cond until tick_generation
// advances past generation or rendezvousTimeout elapses. Called with the
// mutex held; cond.Wait releases and reacquires it.
func (c *Coordinator) waitForRendezvous(sess *ProviderSession, generation uint64) TickResult {
	timer := time.AfterFunc(rendezvousTimeout, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer timer.Stop()

	deadline := time.Now().Add(rendezvousTimeout)
	for c.tickGeneration <= generation && time.Now().Before(deadline) {
		c.cond.Wait()
	}

	if c.tickGeneration <= generation {
		return TickResult{TickOccurred: false, SimTime: c.simTime}
	}
	return TickResult{
		TickOccurred: true,
		SimTime:      c.completedSimTime,
		Commands:     c.filterCommandsForSession(sess, c.completedCommands),
	}
}

func (c *Coordinator) allSessionsAtGeneration(generation uint64) bool {
	for _, s := range c.sessions {
		if s.LastTickGeneration == nil || *s.LastTickGeneration != generation {
			return false
		}
	}
	return true
}

func (c *Coordinator) filterCommandsForSession(sess *ProviderSession, commands []ir.Command) []ir.Command {
	var out []ir.Command
	for _, cmd := range commands {
		if sess.ownsDevice(c.deviceNS.Lookup(cmd.Device)) {
			out = append(out, cmd)
		}
	}
	return out
}

// ReadSignals returns the current (value, unit, physics_driven) for each
// known path in paths. Unknown paths are silently skipped.
func (c *Coordinator) ReadSignals(paths []string) []SignalReading {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]SignalReading, 0, len(paths))
	for _, p := range paths {
		id, ok := c.signalNS.Resolve(p)
		if !ok {
			continue
		}
		sig := c.store.Read(id)
		out = append(out, SignalReading{
			Path:          p,
			Value:         sig.Value,
			Unit:          sig.Unit,
			PhysicsDriven: c.store.IsPhysicsDriven(id),
		})
	}
	return out
}

// Reset zeroes sim_time and every generation counter, clears the store and
// completed-tick snapshot, re-marks physics-driven signals, and forces
// every session back to "must submit generation 0" by clearing its
// last_tick_generation.
func (c *Coordinator) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return errNotLoaded()
	}

	c.engine.Reset()
	c.store.Clear()
	for id := range c.physicsOwnedSignals {
		c.store.MarkPhysicsDriven(id, true)
	}

	c.simTime = 0
	c.tickGeneration = 0
	c.completedGeneration = 0
	c.completedSimTime = 0
	c.completedCommands = nil
	for _, s := range c.sessions {
		s.LastTickGeneration = nil
	}

	c.cond.Broadcast()
	return nil
}

// Check reports whether service is serving: true when service is empty or
// matches the coordinator's own configured name.
func (c *Coordinator) Check(service string) bool {
	return service == "" || service == c.name
}

// DeviceName returns the interned name for id, or "" if id was never
// assigned. Exposed so callers translating ir.Command into a durable or
// human-readable record (the audit log, CLI output) don't need their own
// copy of the device namespace.
func (c *Coordinator) DeviceName(id ir.DeviceId) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deviceNS.Lookup(id)
}

// FunctionName returns the interned name for id, or "" if id was never
// assigned.
func (c *Coordinator) FunctionName(id ir.FunctionId) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.functionNS.Lookup(id)
}
