package ir

import (
	"bytes"
	"encoding/json"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName applies NFC normalization to a signal path or device/function
// name before it is interned. Two names that render identically but arrive
// in different Unicode normalization forms (a real risk when configs are
// authored on different platforms or copy-pasted from rendered documents)
// must intern to the same id; without this, namespace.intern would silently
// create two distinct ids for what a human reading the config considers one
// signal.
func NormalizeName(s string) string {
	return norm.NFC.String(s)
}

func canonicalParams(params map[string]Variant) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[NormalizeName(k)] = ToAny(v)
	}
	return out
}

// canonicalGraphSpec is a deterministic, field-ordered projection of
// GraphSpec suitable for stable hashing: Go's encoding/json already sorts
// map keys, so the only remaining nondeterminism to remove is Unicode
// normalization of names, handled by canonicalParams/NormalizeName.
type canonicalGraphSpec struct {
	Models []canonicalModelSpec `json:"models"`
	Edges  []canonicalEdgeSpec  `json:"edges"`
	Rules  []canonicalRuleSpec  `json:"rules"`
}

type canonicalModelSpec struct {
	Kind    string            `json:"kind"`
	Params  map[string]any    `json:"params"`
	Signals map[string]string `json:"signals"`
}

type canonicalEdgeSpec struct {
	SourcePath string               `json:"source_path"`
	TargetPath string               `json:"target_path"`
	Transform  canonicalTransform   `json:"transform"`
}

type canonicalTransform struct {
	Kind   string         `json:"kind"`
	Params map[string]any `json:"params"`
}

type canonicalRuleSpec struct {
	ID        string                `json:"id"`
	Condition string                `json:"condition"`
	OnError   string                `json:"on_error"`
	Actions   []canonicalActionSpec `json:"actions"`
}

type canonicalActionSpec struct {
	Device   string         `json:"device"`
	Function string         `json:"function"`
	Args     map[string]any `json:"args"`
}

func toCanonicalGraphSpec(spec GraphSpec) canonicalGraphSpec {
	out := canonicalGraphSpec{
		Models: make([]canonicalModelSpec, len(spec.Models)),
		Edges:  make([]canonicalEdgeSpec, len(spec.Edges)),
		Rules:  make([]canonicalRuleSpec, len(spec.Rules)),
	}
	for i, m := range spec.Models {
		signals := make(map[string]string, len(m.Signals))
		for k, v := range m.Signals {
			signals[NormalizeName(k)] = NormalizeName(v)
		}
		out.Models[i] = canonicalModelSpec{
			Kind:    m.Kind,
			Params:  canonicalParams(m.Params),
			Signals: signals,
		}
	}
	for i, e := range spec.Edges {
		out.Edges[i] = canonicalEdgeSpec{
			SourcePath: NormalizeName(e.SourcePath),
			TargetPath: NormalizeName(e.TargetPath),
			Transform: canonicalTransform{
				Kind:   e.Transform.Kind,
				Params: canonicalParams(e.Transform.Params),
			},
		}
	}
	for i, r := range spec.Rules {
		actions := make([]canonicalActionSpec, len(r.Actions))
		for j, a := range r.Actions {
			actions[j] = canonicalActionSpec{
				Device:   NormalizeName(a.Device),
				Function: NormalizeName(a.Function),
				Args:     canonicalParams(a.Args),
			}
		}
		out.Rules[i] = canonicalRuleSpec{
			ID:        r.ID,
			Condition: r.Condition,
			OnError:   string(r.OnError),
			Actions:   actions,
		}
	}
	return out
}

// MarshalCanonical produces deterministic JSON for a GraphSpec, suitable
// for content hashing (config_hash defaulting, audit-log keys). Map key
// order is Go's stable ascending-string order (encoding/json's default for
// map[string]any) and every name is NFC-normalized first.
func MarshalCanonical(spec GraphSpec) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toCanonicalGraphSpec(spec)); err != nil {
		return nil, err
	}
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}

// sortedStrings returns a sorted copy of ss.
func sortedStrings(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	sort.Strings(out)
	return out
}
