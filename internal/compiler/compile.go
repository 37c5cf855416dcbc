package compiler

import (
	"fmt"

	"github.com/fluxgraph/fluxgraph/internal/ir"
	"github.com/fluxgraph/fluxgraph/internal/model"
	"github.com/fluxgraph/fluxgraph/internal/namespace"
	"github.com/fluxgraph/fluxgraph/internal/transform"
)

// Compile turns spec into a CompiledProgram, interning every signal path
// into signalNS and every device/function name into deviceNS/functionNS.
// expectedDt, when positive, is validated against every model's stability
// limit (spec.md §4.5 step 2); pass 0 to skip the check. The `compile` CLI
// command passes its --dt flag here; `validate` does not call Compile.
//
// The steps below follow spec.md §4.5 in order: model instantiation,
// stability check, edge instantiation, writer-ownership check, cycle
// detection over the non-delay subgraph, topological ordering, then rule
// compilation.
func Compile(spec ir.GraphSpec, signalNS *namespace.Namespace[ir.SignalId], deviceNS *namespace.Namespace[ir.DeviceId], functionNS *namespace.Namespace[ir.FunctionId], expectedDt float64) (*ir.CompiledProgram, error) {
	models, err := instantiateModels(spec.Models, signalNS)
	if err != nil {
		return nil, err
	}

	if expectedDt > 0 {
		if err := validateStability(models, expectedDt); err != nil {
			return nil, err
		}
	}

	edges, err := instantiateEdges(spec.Edges, signalNS)
	if err != nil {
		return nil, err
	}

	if err := checkWriterOwnership(spec.Models, edges, signalNS); err != nil {
		return nil, err
	}

	if cycle := detectCycle(edges, signalNS); cycle != nil {
		return nil, ir.NewAlgebraicLoopError(cycle)
	}

	edges = topologicalSort(edges)

	rules, err := compileRules(spec.Rules, signalNS, deviceNS, functionNS)
	if err != nil {
		return nil, err
	}

	return &ir.CompiledProgram{
		Edges:  edges,
		Models: models,
		Rules:  rules,
	}, nil
}

func instantiateModels(specs []ir.ModelSpec, signalNS *namespace.Namespace[ir.SignalId]) ([]ir.ModelInstance, error) {
	instances := make([]ir.ModelInstance, 0, len(specs))
	for _, spec := range specs {
		signals := make(map[string]ir.SignalId, len(spec.Signals))
		for role, path := range spec.Signals {
			signals[role] = signalNS.Intern(path)
		}

		name := modelName(spec)
		m, err := model.New(name, spec.Kind, spec.Params, signals)
		if err != nil {
			return nil, err
		}
		instances = append(instances, ir.ModelInstance{Model: m})
	}
	return instances, nil
}

// modelName derives a stable identifying label for error messages: the
// model's "temp_signal" path if present (models don't carry a dedicated id
// field in ir.ModelSpec), falling back to the kind.
func modelName(spec ir.ModelSpec) string {
	if path, ok := spec.Signals["temp_signal"]; ok {
		return path
	}
	return spec.Kind
}

func validateStability(models []ir.ModelInstance, expectedDt float64) error {
	for _, inst := range models {
		limit := inst.Model.ComputeStabilityLimit()
		if expectedDt > limit {
			return ir.NewStabilityViolationError(inst.Model.Describe(), expectedDt, limit)
		}
	}
	return nil
}

func instantiateEdges(specs []ir.EdgeSpec, signalNS *namespace.Namespace[ir.SignalId]) ([]ir.CompiledEdge, error) {
	edges := make([]ir.CompiledEdge, 0, len(specs))
	for _, spec := range specs {
		tf, err := transform.New(spec.Transform.Kind, spec.Transform.Params)
		if err != nil {
			return nil, err
		}
		edges = append(edges, ir.CompiledEdge{
			Source:    signalNS.Intern(spec.SourcePath),
			Target:    signalNS.Intern(spec.TargetPath),
			Transform: tf,
			IsDelay:   spec.Transform.Kind == "delay",
		})
	}
	return edges, nil
}

// checkWriterOwnership enforces that every edge target and every model
// output signal (thermal_mass's temp_signal) appears at most once across the
// whole program.
func checkWriterOwnership(modelSpecs []ir.ModelSpec, edges []ir.CompiledEdge, signalNS *namespace.Namespace[ir.SignalId]) error {
	owner := make(map[ir.SignalId]string)

	register := func(id ir.SignalId, desc string) error {
		if existing, ok := owner[id]; ok {
			return ir.NewCompileError(ir.ErrMultipleWriters, signalNS.Lookup(id),
				fmt.Sprintf("multiple writers for signal: %q conflicts with %q", existing, desc))
		}
		owner[id] = desc
		return nil
	}

	for _, e := range edges {
		if err := register(e.Target, "edge_target"); err != nil {
			return err
		}
	}

	for _, spec := range modelSpecs {
		path, ok := ModelOutputSignalPath(spec)
		if !ok {
			continue // model.New already rejected this as MissingParam
		}
		if err := register(signalNS.Intern(path), "model_output"); err != nil {
			return err
		}
	}

	return nil
}

// ModelOutputSignalPath returns the signal path a model spec writes to, if
// its kind declares one. Used both by writer-ownership checking and by the
// coordinator to populate its protected-write and physics-owned sets at
// LoadConfig time. thermal_mass is the only model kind so far, writing
// through its "temp_signal" role.
func ModelOutputSignalPath(spec ir.ModelSpec) (string, bool) {
	if spec.Kind != "thermal_mass" {
		return "", false
	}
	path, ok := spec.Signals["temp_signal"]
	return path, ok
}

func compileRules(specs []ir.RuleSpec, signalNS *namespace.Namespace[ir.SignalId], deviceNS *namespace.Namespace[ir.DeviceId], functionNS *namespace.Namespace[ir.FunctionId]) ([]ir.CompiledRule, error) {
	rules := make([]ir.CompiledRule, 0, len(specs))
	for _, spec := range specs {
		condition, _, err := compileCondition(spec.ID, spec.Condition, signalNS)
		if err != nil {
			return nil, err
		}

		actions := make([]ir.CompiledAction, 0, len(spec.Actions))
		for _, a := range spec.Actions {
			actions = append(actions, ir.CompiledAction{
				Device:   deviceNS.Intern(a.Device),
				Function: functionNS.Intern(a.Function),
				Args:     a.Args,
			})
		}

		rules = append(rules, ir.CompiledRule{
			ID:        spec.ID,
			Condition: condition,
			Actions:   actions,
			OnError:   spec.OnError,
		})
	}
	return rules, nil
}
