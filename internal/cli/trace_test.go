package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceRequiresWatch(t *testing.T) {
	path := writePlantConfig(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "invalid_argument", resp.Error.Code)
}

func TestTracePrintsPerTickTable(t *testing.T) {
	path := writePlantConfig(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--ticks", "3", "--watch", "plant/temp,plant/filtered_temp"})

	require.NoError(t, cmd.Execute())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header + 3 ticks
	assert.Contains(t, lines[0], "plant/filtered_temp")
	assert.Contains(t, lines[0], "plant/temp")
}

func TestTraceJSONOutput(t *testing.T) {
	path := writePlantConfig(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--ticks", "2", "--watch", "plant/temp"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTraceWithInitialInputs(t *testing.T) {
	path := writePlantConfig(t)
	initialPath := filepath.Join(t.TempDir(), "initial.yaml")
	require.NoError(t, writeFile(t, initialPath, `
plant/power:
  value: 100
  unit: W
plant/ambient:
  value: 20
  unit: degC
`))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--ticks", "5", "--watch", "plant/temp", "--initial", initialPath})

	require.NoError(t, cmd.Execute())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
}
