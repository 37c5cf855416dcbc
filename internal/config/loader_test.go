package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderDispatchesByFormat(t *testing.T) {
	var l Loader

	specYAML, err := l.Load([]byte("models: []\n"), "yaml")
	require.NoError(t, err)
	assert.Empty(t, specYAML.Models)

	specJSON, err := l.Load([]byte(`{"models": []}`), "json")
	require.NoError(t, err)
	assert.Empty(t, specJSON.Models)
}

func TestLoaderRejectsUnknownFormat(t *testing.T) {
	var l Loader
	_, err := l.Load([]byte("{}"), "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}
