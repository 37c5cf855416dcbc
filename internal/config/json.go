package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

type wireTransform struct {
	Type   string                     `json:"type"`
	Params map[string]json.RawMessage `json:"params"`
}

type wireEdge struct {
	Source    string        `json:"source"`
	Target    string        `json:"target"`
	Transform wireTransform `json:"transform"`
}

type wireModel struct {
	Type    string                     `json:"type"`
	Params  map[string]json.RawMessage `json:"params"`
	Signals map[string]string          `json:"signals"`
}

type wireAction struct {
	Device   string                     `json:"device"`
	Function string                     `json:"function"`
	Args     map[string]json.RawMessage `json:"args"`
}

type wireRule struct {
	ID        string       `json:"id"`
	Condition string       `json:"condition"`
	Actions   []wireAction `json:"actions"`
	OnError   string       `json:"on_error"`
}

type wireGraph struct {
	Models []wireModel `json:"models"`
	Edges  []wireEdge  `json:"edges"`
	Rules  []wireRule  `json:"rules"`
}

// LoadJSON parses content as a JSON GraphSpec document, matching
// original_source's json_loader.cpp field walk. As in the YAML loader,
// every edge requires an explicit "transform" object with a "type".
func LoadJSON(content []byte) (ir.GraphSpec, error) {
	var doc wireGraph
	if err := json.Unmarshal(content, &doc); err != nil {
		return ir.GraphSpec{}, jsonSyntaxError(content, err)
	}

	var spec ir.GraphSpec

	for i, m := range doc.Models {
		path := fmt.Sprintf("/models/%d", i)
		if m.Type == "" {
			return ir.GraphSpec{}, errAt(path+"/type", `missing required field "type"`)
		}
		params, err := convertVariantMap(path+"/params", m.Params)
		if err != nil {
			return ir.GraphSpec{}, err
		}
		spec.Models = append(spec.Models, ir.ModelSpec{Kind: m.Type, Params: params, Signals: m.Signals})
	}

	for i, e := range doc.Edges {
		path := fmt.Sprintf("/edges/%d", i)
		if e.Source == "" {
			return ir.GraphSpec{}, errAt(path+"/source", `missing required field "source"`)
		}
		if e.Target == "" {
			return ir.GraphSpec{}, errAt(path+"/target", `missing required field "target"`)
		}
		if e.Transform.Type == "" {
			return ir.GraphSpec{}, errAt(path+"/transform/type", `missing required field "type"`)
		}
		tparams, err := convertVariantMap(path+"/transform/params", e.Transform.Params)
		if err != nil {
			return ir.GraphSpec{}, err
		}
		spec.Edges = append(spec.Edges, ir.EdgeSpec{
			SourcePath: e.Source,
			TargetPath: e.Target,
			Transform:  ir.TransformSpec{Kind: e.Transform.Type, Params: tparams},
		})
	}

	for i, r := range doc.Rules {
		path := fmt.Sprintf("/rules/%d", i)
		if r.ID == "" {
			return ir.GraphSpec{}, errAt(path+"/id", `missing required field "id"`)
		}
		if r.Condition == "" {
			return ir.GraphSpec{}, errAt(path+"/condition", `missing required field "condition"`)
		}
		onError := ir.OnErrorLogAndContinue
		if ir.OnErrorPolicy(r.OnError) == ir.OnErrorAbortTick {
			onError = ir.OnErrorAbortTick
		}
		var actions []ir.ActionSpec
		for j, a := range r.Actions {
			apath := fmt.Sprintf("%s/actions/%d", path, j)
			if a.Device == "" {
				return ir.GraphSpec{}, errAt(apath+"/device", `missing required field "device"`)
			}
			if a.Function == "" {
				return ir.GraphSpec{}, errAt(apath+"/function", `missing required field "function"`)
			}
			args, err := convertVariantMap(apath+"/args", a.Args)
			if err != nil {
				return ir.GraphSpec{}, err
			}
			actions = append(actions, ir.ActionSpec{Device: a.Device, Function: a.Function, Args: args})
		}
		spec.Rules = append(spec.Rules, ir.RuleSpec{ID: r.ID, Condition: r.Condition, Actions: actions, OnError: onError})
	}

	return spec, nil
}

// convertVariantMap reuses ir.UnmarshalVariant's own JSON-based inference
// rule (json.Number int-then-float sniffing) for every scalar, so JSON and
// YAML infer Variant types identically without duplicating that logic.
func convertVariantMap(basePath string, raw map[string]json.RawMessage) (map[string]ir.Variant, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]ir.Variant, len(raw))
	for k, v := range raw {
		variant, err := ir.UnmarshalVariant(v)
		if err != nil {
			return nil, errAt(basePath+"/"+k, err.Error())
		}
		out[k] = variant
	}
	return out, nil
}

func jsonSyntaxError(content []byte, err error) *LoadError {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return errAt(jsonPathAtOffset(content), fmt.Sprintf("JSON syntax error: %s", se.Error()))
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return errAt("/"+ute.Field, ute.Error())
	}
	return errAt("/", err.Error())
}

// jsonPathAtOffset walks tok = dec.Token() the way original_source's
// recursive-descent parser threads a path down through nested objects and
// arrays, stopping at the point the standard decoder itself rejects the
// input, and using the last open container as the error's location.
func jsonPathAtOffset(content []byte) string {
	dec := json.NewDecoder(bytes.NewReader(content))

	var segs []string
	var isArray []bool
	var arrayIdx []int
	pendingKey := ""
	haveKey := false

	nextSegment := func() (string, bool) {
		if len(isArray) == 0 {
			return "", false
		}
		top := len(isArray) - 1
		if isArray[top] {
			seg := strconv.Itoa(arrayIdx[top])
			arrayIdx[top]++
			return seg, true
		}
		if haveKey {
			haveKey = false
			return pendingKey, true
		}
		return "", false
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				if seg, ok := nextSegment(); ok {
					segs = append(segs, seg)
				}
				isArray = append(isArray, v == '[')
				arrayIdx = append(arrayIdx, 0)
			case '}', ']':
				if len(isArray) > 0 {
					isArray = isArray[:len(isArray)-1]
					arrayIdx = arrayIdx[:len(arrayIdx)-1]
				}
				if len(segs) > 0 {
					segs = segs[:len(segs)-1]
				}
			}
		default:
			if len(isArray) > 0 && !isArray[len(isArray)-1] && !haveKey {
				pendingKey = fmt.Sprint(v)
				haveKey = true
			} else {
				nextSegment()
			}
		}
	}

	if haveKey {
		segs = append(segs, pendingKey)
	}
	if len(segs) == 0 {
		return "/"
	}
	path := "/"
	for i, s := range segs {
		if i > 0 {
			path += "/"
		}
		path += s
	}
	return path
}
