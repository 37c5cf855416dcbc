package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() GraphSpec {
	return GraphSpec{
		Models: []ModelSpec{
			{Kind: "thermal_mass", Params: map[string]Variant{"mass_kg": VariantF64(10)}, Signals: map[string]string{"temp_signal": "plant.temp"}},
		},
		Edges: []EdgeSpec{
			{SourcePath: "plant.temp", TargetPath: "controller.temp_in", Transform: TransformSpec{Kind: "linear"}},
		},
		Rules: []RuleSpec{
			{ID: "overheat", Condition: "plant.temp > 100"},
		},
	}
}

func TestConfigHashDeterministic(t *testing.T) {
	spec := testSpec()

	a, err := ConfigHash(spec)
	require.NoError(t, err)
	b, err := ConfigHash(spec)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex-encoded SHA-256
}

func TestConfigHashChangesWithContent(t *testing.T) {
	a := testSpec()
	b := testSpec()
	b.Rules[0].Condition = "plant.temp > 200"

	hashA, err := ConfigHash(a)
	require.NoError(t, err)
	hashB, err := ConfigHash(b)
	require.NoError(t, err)

	assert.NotEqual(t, hashA, hashB)
}

func TestConfigHashIsDomainSeparated(t *testing.T) {
	spec := testSpec()
	canonical, err := MarshalCanonical(spec)
	require.NoError(t, err)

	hash, err := ConfigHash(spec)
	require.NoError(t, err)

	// The raw canonical bytes hashed without the domain tag must differ
	// from ConfigHash's output.
	plain := hashWithDomain("", canonical)
	assert.NotEqual(t, plain, hash)
}

func TestMustConfigHashPanicsNever(t *testing.T) {
	assert.NotPanics(t, func() {
		MustConfigHash(testSpec())
	})
}
