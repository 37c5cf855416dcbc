package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// structuralSchema catches shape mistakes -- an empty model kind, a rule
// with no id, a transform with no kind -- before they reach the
// compiler's factories, where the same mistake surfaces as a less
// specific "unknown_kind" or "missing_param" error with no indication the
// field was simply left blank.
const structuralSchema = `
models: [...{
	kind: string & !=""
	params: {...}
	signals: {...}
}]
edges: [...{
	source_path: string & !=""
	target_path: string & !=""
	transform: {
		kind: string & !=""
		params: {...}
	}
}]
rules: [...{
	id:        string & !=""
	condition: string & !=""
	on_error:  string
	actions: [...{
		device:   string & !=""
		function: string & !=""
		args: {...}
	}]
}]
`

// ValidateSchema checks spec's shape against structuralSchema: every model
// declares a kind, every edge has both endpoints and a transform kind,
// every rule has an id/condition and well-formed actions. Intended to run
// ahead of compiler.Compile so a blank-field typo in a hand-edited config
// reports as a schema violation naming the exact field, rather than
// surfacing later as whatever compiler error the blank field happens to
// trigger.
func ValidateSchema(spec ir.GraphSpec) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(structuralSchema)
	if schema.Err() != nil {
		return fmt.Errorf("internal schema error: %w", schema.Err())
	}

	value := ctx.Encode(toPlainSpec(spec))
	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func toPlainSpec(spec ir.GraphSpec) map[string]any {
	models := make([]any, len(spec.Models))
	for i, m := range spec.Models {
		models[i] = map[string]any{
			"kind":    m.Kind,
			"params":  toPlainParams(m.Params),
			"signals": toPlainSignals(m.Signals),
		}
	}
	edges := make([]any, len(spec.Edges))
	for i, e := range spec.Edges {
		edges[i] = map[string]any{
			"source_path": e.SourcePath,
			"target_path": e.TargetPath,
			"transform": map[string]any{
				"kind":   e.Transform.Kind,
				"params": toPlainParams(e.Transform.Params),
			},
		}
	}
	rules := make([]any, len(spec.Rules))
	for i, r := range spec.Rules {
		actions := make([]any, len(r.Actions))
		for j, a := range r.Actions {
			actions[j] = map[string]any{
				"device":   a.Device,
				"function": a.Function,
				"args":     toPlainParams(a.Args),
			}
		}
		rules[i] = map[string]any{
			"id":        r.ID,
			"condition": r.Condition,
			"on_error":  string(r.OnError),
			"actions":   actions,
		}
	}
	return map[string]any{"models": models, "edges": edges, "rules": rules}
}

func toPlainParams(params map[string]ir.Variant) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = ir.ToAny(v)
	}
	return out
}

func toPlainSignals(signals map[string]string) map[string]any {
	out := make(map[string]any, len(signals))
	for k, v := range signals {
		out[k] = v
	}
	return out
}
