package engine

import (
	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// Engine executes ticks against a compiled program, per spec.md §4.6. It
// owns the program's edges, models, and rules exclusively for the lifetime
// of a Load: nothing outside a Tick's own stages may mutate them.
type Engine struct {
	loaded bool

	edges  []ir.CompiledEdge
	models []ir.ModelInstance
	rules  []ir.CompiledRule

	queue *commandQueue
}

// New returns an unloaded Engine.
func New() *Engine {
	return &Engine{queue: newCommandQueue()}
}

// Load moves program's edges, models, and rules into the engine, discarding
// any previously loaded program, and marks the engine loaded. The command
// queue is cleared: commands from a prior program must never leak into a
// newly loaded one.
func (e *Engine) Load(program *ir.CompiledProgram) {
	e.edges = program.Edges
	e.models = program.Models
	e.rules = program.Rules
	e.loaded = true
	e.queue.Clear()
}

// Loaded reports whether a program is currently loaded.
func (e *Engine) Loaded() bool { return e.loaded }

// ProgramSize returns the loaded program's edge, model, and rule counts, for
// CLI and audit-log introspection. All zero when nothing is loaded.
func (e *Engine) ProgramSize() (edges, models, rules int) {
	return len(e.edges), len(e.models), len(e.rules)
}

// Tick advances the loaded program by dt against store, running the five
// stages of spec.md §4.6 in order: input-boundary freeze (a no-op by
// contract), models, edges, commit (a no-op reserved for future
// validation/dirty-flag work), and rules. Rule actions enqueue commands on
// the engine's queue rather than executing anything themselves.
func (e *Engine) Tick(dt float64, store ir.Store) error {
	if !e.loaded {
		return errNotLoaded()
	}
	if dt <= 0 {
		return errInvalidDt(dt)
	}

	for _, inst := range e.models {
		if limit := inst.Model.ComputeStabilityLimit(); dt > limit {
			return errStabilityViolation(inst.Model.Describe(), dt, limit)
		}
	}

	// Stage 1: input boundary freeze. No-op by contract; external writers
	// must have completed before Tick is called.

	// Stage 2: models, in spec order.
	for _, inst := range e.models {
		if err := inst.Model.Tick(dt, store); err != nil {
			return err
		}
	}

	// Stage 3: edges, delay edges first then topological order (already
	// baked into e.edges by the compiler).
	for _, edge := range e.edges {
		signal := store.Read(edge.Source)
		output := edge.Transform.Apply(signal.Value, dt)
		if err := store.Write(edge.Target, output, signal.Unit); err != nil {
			return err
		}
	}

	// Stage 4: commit. No-op, reserved for validation/dirty-flag work.

	// Stage 5: rules, in spec order; actions within a rule in spec order.
	for _, rule := range e.rules {
		if !rule.Condition(store) {
			continue
		}
		for _, action := range rule.Actions {
			e.queue.Push(ir.Command{
				Device:   action.Device,
				Function: action.Function,
				Args:     action.Args,
			})
		}
	}

	return nil
}

// DrainCommands returns every command accumulated since the last drain and
// empties the queue. Only the coordinator calls this, between ticks.
func (e *Engine) DrainCommands() []ir.Command {
	return e.queue.Drain()
}

// Reset calls Reset on every model and every edge's transform, and clears
// the command queue. It does not unload the program.
func (e *Engine) Reset() {
	for _, inst := range e.models {
		inst.Model.Reset()
	}
	for _, edge := range e.edges {
		edge.Transform.Reset()
	}
	e.queue.Clear()
}
