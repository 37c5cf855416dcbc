package transform

import (
	"math"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// requireF64 fetches a required numeric parameter, returning a CompileError
// if absent or of the wrong Variant type.
func requireF64(kind string, params map[string]ir.Variant, name string) (float64, error) {
	v, ok := params[name]
	if !ok {
		return 0, ir.NewCompileError(ir.ErrMissingParam, kind, "missing parameter "+name)
	}
	f, ok := ir.AsF64(v)
	if !ok {
		return 0, ir.NewTypeError(kind+"."+name, "f64", ir.TypeName(v))
	}
	return f, nil
}

// optionalF64 fetches an optional numeric parameter under any of the given
// aliases (checked in order), falling back to def if none are present.
func optionalF64(kind string, params map[string]ir.Variant, def float64, names ...string) (float64, error) {
	for _, name := range names {
		v, ok := params[name]
		if !ok {
			continue
		}
		f, ok := ir.AsF64(v)
		if !ok {
			return 0, ir.NewTypeError(kind+"."+name, "f64", ir.TypeName(v))
		}
		return f, nil
	}
	return def, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)
