package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Variant is a sealed interface over the closed set of parameter/argument
// value types FluxGraph carries through configuration: f64, i64, bool, and
// string. Only the four concrete types in this file implement it.
//
// The sealed-interface shape mirrors the teacher corpus's tagged-union
// pattern (a private marker method preventing external implementations),
// adapted to retain floating point since FluxGraph's numeric domain is
// physical quantities, not the teacher's integer-only IR.
type Variant interface {
	variant()
}

// VariantF64 holds a floating point parameter or argument value.
type VariantF64 float64

func (VariantF64) variant() {}

// VariantI64 holds an integer parameter or argument value.
type VariantI64 int64

func (VariantI64) variant() {}

// VariantBool holds a boolean parameter or argument value.
type VariantBool bool

func (VariantBool) variant() {}

// VariantString holds a string parameter or argument value.
type VariantString string

func (VariantString) variant() {}

// AsF64 coerces a Variant to float64, widening VariantI64 per the
// compiler's numeric parameter coercion rule. Returns false for bool/string.
func AsF64(v Variant) (float64, bool) {
	switch val := v.(type) {
	case VariantF64:
		return float64(val), true
	case VariantI64:
		return float64(val), true
	default:
		return 0, false
	}
}

// AsString coerces a Variant to string. Returns false for non-string variants.
func AsString(v Variant) (string, bool) {
	s, ok := v.(VariantString)
	return string(s), ok
}

// AsBool coerces a Variant to bool. Returns false for non-bool variants.
func AsBool(v Variant) (bool, bool) {
	b, ok := v.(VariantBool)
	return bool(b), ok
}

// ToAny converts a Variant to its underlying Go value (float64, int64,
// bool, or string), for callers that need to hand a Variant to a generic
// JSON encoder or template (audit log records, CLI --format json output).
func ToAny(v Variant) any {
	switch val := v.(type) {
	case VariantF64:
		return float64(val)
	case VariantI64:
		return int64(val)
	case VariantBool:
		return bool(val)
	case VariantString:
		return string(val)
	default:
		return nil
	}
}

// TypeName returns a human-readable type name for error messages
// ("TypeError(context/path, expected, got)" per the compiler contract).
func TypeName(v Variant) string {
	switch v.(type) {
	case VariantF64:
		return "f64"
	case VariantI64:
		return "i64"
	case VariantBool:
		return "bool"
	case VariantString:
		return "string"
	case nil:
		return "missing"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// MarshalVariant encodes a Variant as a bare JSON scalar, the inverse of
// UnmarshalVariant, so values round-trip without a discriminator field: the
// JSON value's own shape (string/number/bool) carries the type, matching
// the loader contract's Variant-inference rule in spec.md §6.
func MarshalVariant(v Variant) ([]byte, error) {
	switch val := v.(type) {
	case VariantF64:
		return json.Marshal(float64(val))
	case VariantI64:
		return json.Marshal(int64(val))
	case VariantBool:
		return json.Marshal(bool(val))
	case VariantString:
		return json.Marshal(string(val))
	default:
		return nil, fmt.Errorf("unknown Variant type: %T", v)
	}
}

// UnmarshalVariant decodes a JSON scalar into a Variant using the loader
// contract's inference rule: integers become VariantI64, floating point
// becomes VariantF64, true/false becomes VariantBool, everything else is a
// VariantString.
func UnmarshalVariant(data []byte) (Variant, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode variant: %w", err)
	}
	return goValueToVariant(raw)
}

func goValueToVariant(v any) (Variant, error) {
	switch val := v.(type) {
	case bool:
		return VariantBool(val), nil
	case string:
		return VariantString(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return VariantI64(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("variant number %q is neither int64 nor float64", val.String())
		}
		return VariantF64(f), nil
	default:
		return nil, fmt.Errorf("unsupported variant value: %T", v)
	}
}
