package config

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/fluxgraph/fluxgraph/internal/ir"
	"gopkg.in/yaml.v3"
)

var yamlLinePattern = regexp.MustCompile(`line (\d+): (.*)`)

// LoadYAML parses content as a YAML GraphSpec document, matching
// original_source's load_yaml_string field-by-field walk but decoding
// into a *yaml.Node tree so every structural error carries the offending
// node's (line, column).
func LoadYAML(content []byte) (ir.GraphSpec, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return ir.GraphSpec{}, yamlSyntaxError(err)
	}
	if len(root.Content) == 0 {
		return ir.GraphSpec{}, nil
	}
	doc := root.Content[0]

	var spec ir.GraphSpec

	if modelsNode := mapLookup(doc, "models"); modelsNode != nil {
		if modelsNode.Kind != yaml.SequenceNode {
			return ir.GraphSpec{}, errAtLine("/models", modelsNode.Line, modelsNode.Column, "expected a sequence")
		}
		for i, mn := range modelsNode.Content {
			m, err := parseYAMLModel(mn, i)
			if err != nil {
				return ir.GraphSpec{}, err
			}
			spec.Models = append(spec.Models, m)
		}
	}

	if edgesNode := mapLookup(doc, "edges"); edgesNode != nil {
		if edgesNode.Kind != yaml.SequenceNode {
			return ir.GraphSpec{}, errAtLine("/edges", edgesNode.Line, edgesNode.Column, "expected a sequence")
		}
		for i, en := range edgesNode.Content {
			e, err := parseYAMLEdge(en, i)
			if err != nil {
				return ir.GraphSpec{}, err
			}
			spec.Edges = append(spec.Edges, e)
		}
	}

	if rulesNode := mapLookup(doc, "rules"); rulesNode != nil {
		if rulesNode.Kind != yaml.SequenceNode {
			return ir.GraphSpec{}, errAtLine("/rules", rulesNode.Line, rulesNode.Column, "expected a sequence")
		}
		for i, rn := range rulesNode.Content {
			r, err := parseYAMLRule(rn, i)
			if err != nil {
				return ir.GraphSpec{}, err
			}
			spec.Rules = append(spec.Rules, r)
		}
	}

	return spec, nil
}

func mapLookup(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func scalarToVariant(node *yaml.Node) (ir.Variant, error) {
	switch node.Tag {
	case "!!bool":
		var v bool
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return ir.VariantBool(v), nil
	case "!!int":
		var v int64
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return ir.VariantI64(v), nil
	case "!!float":
		var v float64
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return ir.VariantF64(v), nil
	default:
		var v string
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return ir.VariantString(v), nil
	}
}

func requireString(node *yaml.Node, path, field string) (string, error) {
	v := mapLookup(node, field)
	if v == nil {
		line, col := 0, 0
		if node != nil {
			line, col = node.Line, node.Column
		}
		return "", errAtLine(path, line, col, fmt.Sprintf("missing required field %q", field))
	}
	var s string
	if err := v.Decode(&s); err != nil {
		return "", errAtLine(path+"/"+field, v.Line, v.Column, err.Error())
	}
	return s, nil
}

func parseVariantMap(node *yaml.Node, key, path string) (map[string]ir.Variant, error) {
	m := mapLookup(node, key)
	if m == nil {
		return nil, nil
	}
	out := make(map[string]ir.Variant, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i].Value
		val, err := scalarToVariant(m.Content[i+1])
		if err != nil {
			return nil, errAtLine(fmt.Sprintf("%s/%s/%s", path, key, k), m.Content[i+1].Line, m.Content[i+1].Column, err.Error())
		}
		out[k] = val
	}
	return out, nil
}

func parseYAMLSignals(node *yaml.Node, path string) (map[string]string, error) {
	m := mapLookup(node, "signals")
	if m == nil {
		return nil, nil
	}
	out := make(map[string]string, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i].Value
		var v string
		if err := m.Content[i+1].Decode(&v); err != nil {
			return nil, errAtLine(fmt.Sprintf("%s/signals/%s", path, k), m.Content[i+1].Line, m.Content[i+1].Column, err.Error())
		}
		out[k] = v
	}
	return out, nil
}

func parseYAMLTransform(node *yaml.Node, path string) (ir.TransformSpec, error) {
	tnode := mapLookup(node, "transform")
	if tnode == nil {
		return ir.TransformSpec{}, errAtLine(path, node.Line, node.Column, `missing required field "transform"`)
	}
	tpath := path + "/transform"
	kind, err := requireString(tnode, tpath, "type")
	if err != nil {
		return ir.TransformSpec{}, err
	}
	params, err := parseVariantMap(tnode, "params", tpath)
	if err != nil {
		return ir.TransformSpec{}, err
	}
	return ir.TransformSpec{Kind: kind, Params: params}, nil
}

func parseYAMLEdge(node *yaml.Node, index int) (ir.EdgeSpec, error) {
	path := fmt.Sprintf("/edges/%d", index)
	source, err := requireString(node, path, "source")
	if err != nil {
		return ir.EdgeSpec{}, err
	}
	target, err := requireString(node, path, "target")
	if err != nil {
		return ir.EdgeSpec{}, err
	}
	transform, err := parseYAMLTransform(node, path)
	if err != nil {
		return ir.EdgeSpec{}, err
	}
	return ir.EdgeSpec{SourcePath: source, TargetPath: target, Transform: transform}, nil
}

// parseYAMLModel places signal-role paths (temp_signal, power_signal,
// ambient_signal) under a dedicated "signals:" map rather than folding
// them into "params:" the way original_source does — ir.ModelSpec keeps
// signal roles separate from Variant params, since Variant's sealed set
// has no path/reference member.
func parseYAMLModel(node *yaml.Node, index int) (ir.ModelSpec, error) {
	path := fmt.Sprintf("/models/%d", index)
	kind, err := requireString(node, path, "type")
	if err != nil {
		return ir.ModelSpec{}, err
	}
	params, err := parseVariantMap(node, "params", path)
	if err != nil {
		return ir.ModelSpec{}, err
	}
	signals, err := parseYAMLSignals(node, path)
	if err != nil {
		return ir.ModelSpec{}, err
	}
	return ir.ModelSpec{Kind: kind, Params: params, Signals: signals}, nil
}

func parseYAMLRule(node *yaml.Node, index int) (ir.RuleSpec, error) {
	path := fmt.Sprintf("/rules/%d", index)
	id, err := requireString(node, path, "id")
	if err != nil {
		return ir.RuleSpec{}, err
	}
	condition, err := requireString(node, path, "condition")
	if err != nil {
		return ir.RuleSpec{}, err
	}

	onError := ir.OnErrorLogAndContinue
	if v := mapLookup(node, "on_error"); v != nil {
		var s string
		if err := v.Decode(&s); err != nil {
			return ir.RuleSpec{}, errAtLine(path+"/on_error", v.Line, v.Column, err.Error())
		}
		if ir.OnErrorPolicy(s) == ir.OnErrorAbortTick {
			onError = ir.OnErrorAbortTick
		}
	}

	var actions []ir.ActionSpec
	if actionsNode := mapLookup(node, "actions"); actionsNode != nil {
		if actionsNode.Kind != yaml.SequenceNode {
			return ir.RuleSpec{}, errAtLine(path+"/actions", actionsNode.Line, actionsNode.Column, "expected a sequence")
		}
		for i, an := range actionsNode.Content {
			apath := fmt.Sprintf("%s/actions/%d", path, i)
			device, err := requireString(an, apath, "device")
			if err != nil {
				return ir.RuleSpec{}, err
			}
			function, err := requireString(an, apath, "function")
			if err != nil {
				return ir.RuleSpec{}, err
			}
			args, err := parseVariantMap(an, "args", apath)
			if err != nil {
				return ir.RuleSpec{}, err
			}
			actions = append(actions, ir.ActionSpec{Device: device, Function: function, Args: args})
		}
	}

	return ir.RuleSpec{ID: id, Condition: condition, Actions: actions, OnError: onError}, nil
}

// yamlSyntaxError extracts a (line, message) pair from yaml.v3's own error
// text, which already embeds "line N:" for both parse-time syntax errors
// and *yaml.TypeError decode failures.
func yamlSyntaxError(err error) *LoadError {
	var te *yaml.TypeError
	if ok := asYAMLTypeError(err, &te); ok && len(te.Errors) > 0 {
		return yamlLineError(te.Errors[0])
	}
	return yamlLineError(err.Error())
}

func asYAMLTypeError(err error, target **yaml.TypeError) bool {
	te, ok := err.(*yaml.TypeError)
	if ok {
		*target = te
	}
	return ok
}

func yamlLineError(msg string) *LoadError {
	if m := yamlLinePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return errAtLine("/", line, 0, m[2])
	}
	return errAt("/", msg)
}
