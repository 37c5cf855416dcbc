package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantSealed(t *testing.T) {
	var _ Variant = VariantF64(1.5)
	var _ Variant = VariantI64(1)
	var _ Variant = VariantBool(true)
	var _ Variant = VariantString("x")
}

func TestAsF64WidensInt(t *testing.T) {
	f, ok := AsF64(VariantI64(7))
	require.True(t, ok)
	assert.Equal(t, 7.0, f)

	f, ok = AsF64(VariantF64(2.5))
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = AsF64(VariantBool(true))
	assert.False(t, ok)

	_, ok = AsF64(VariantString("nope"))
	assert.False(t, ok)
}

func TestAsStringAndAsBool(t *testing.T) {
	s, ok := AsString(VariantString("hello"))
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = AsString(VariantF64(1))
	assert.False(t, ok)

	b, ok := AsBool(VariantBool(false))
	require.True(t, ok)
	assert.False(t, b)

	_, ok = AsBool(VariantI64(0))
	assert.False(t, ok)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "f64", TypeName(VariantF64(1)))
	assert.Equal(t, "i64", TypeName(VariantI64(1)))
	assert.Equal(t, "bool", TypeName(VariantBool(true)))
	assert.Equal(t, "string", TypeName(VariantString("s")))
	assert.Equal(t, "missing", TypeName(nil))
}

func TestMarshalVariantRoundTrip(t *testing.T) {
	cases := []Variant{
		VariantF64(3.25),
		VariantI64(42),
		VariantBool(true),
		VariantString("device.function"),
	}
	for _, v := range cases {
		data, err := MarshalVariant(v)
		require.NoError(t, err)

		got, err := UnmarshalVariant(data)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestUnmarshalVariantInfersIntBeforeFloat(t *testing.T) {
	v, err := UnmarshalVariant([]byte("5"))
	require.NoError(t, err)
	assert.Equal(t, VariantI64(5), v)

	v, err = UnmarshalVariant([]byte("5.5"))
	require.NoError(t, err)
	assert.Equal(t, VariantF64(5.5), v)

	v, err = UnmarshalVariant([]byte(`"5"`))
	require.NoError(t, err)
	assert.Equal(t, VariantString("5"), v)
}

func TestUnmarshalVariantRejectsUnsupportedShapes(t *testing.T) {
	_, err := UnmarshalVariant([]byte(`null`))
	assert.Error(t, err)

	_, err = UnmarshalVariant([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = UnmarshalVariant([]byte(`{"a":1}`))
	assert.Error(t, err)
}
