package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsLintFindings(t *testing.T) {
	path := writePlantConfig(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "plant/filtered_temp")
}

func TestValidateJSONReportsLintFindings(t *testing.T) {
	path := writePlantConfig(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateCleanConfigHasNoFindings(t *testing.T) {
	clean := `
models:
  - type: thermal_mass
    params:
      mass_j_per_k: 100.0
      heat_transfer_coeff_w_per_k: 1.0
      initial_temp_c: 20.0
    signals:
      temp_signal: plant/temp
      power_signal: plant/power
      ambient_signal: plant/ambient
edges:
  - source: plant/temp
    target: plant/filtered_temp
    transform:
      type: linear
      params:
        scale: 1.0
        offset: 0.0
        clamp_min: 0.0
        clamp_max: 200.0
rules:
  - id: watch-filtered
    condition: "plant/filtered_temp > 90"
    actions:
      - device: heater
        function: shutoff
`
	path := filepath.Join(t.TempDir(), "clean.yaml")
	require.NoError(t, writeFile(t, path, clean))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "no lint findings")
}

func TestValidateMissingFileReportsLoadError(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "load_error", resp.Error.Code)
}
