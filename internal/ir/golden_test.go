package ir

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TestMarshalCanonicalGolden pins the exact byte layout MarshalCanonical
// produces for a representative GraphSpec. Canonical JSON is what gets
// hashed for config identity and written to audit records, so a change
// to key ordering or field naming here is a wire-format break, not a
// refactor: run with -update only after confirming every consumer of
// ConfigHash and the audit log intends the new layout.
func TestMarshalCanonicalGolden(t *testing.T) {
	spec := GraphSpec{
		Models: []ModelSpec{
			{
				Kind:    "thermal_mass",
				Params:  map[string]Variant{"mass_j_per_k": VariantF64(100), "heat_transfer_coeff_w_per_k": VariantF64(1)},
				Signals: map[string]string{"temp_signal": "plant/temp", "power_signal": "plant/power", "ambient_signal": "plant/ambient"},
			},
		},
		Edges: []EdgeSpec{
			{SourcePath: "plant/temp", TargetPath: "plant/filtered_temp", Transform: TransformSpec{Kind: "linear", Params: map[string]Variant{"scale": VariantF64(1), "offset": VariantF64(0)}}},
		},
		Rules: []RuleSpec{
			{ID: "overheat", Condition: "plant/temp > 90", OnError: OnErrorLogAndContinue, Actions: []ActionSpec{{Device: "heater", Function: "shutoff"}}},
		},
	}

	out, err := MarshalCanonical(spec)
	if err != nil {
		t.Fatalf("MarshalCanonical: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden.json"),
	)
	g.Assert(t, "canonical_graphspec", out)
}
