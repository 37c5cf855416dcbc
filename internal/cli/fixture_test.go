package cli

import (
	"os"
	"testing"
)

// plantConfigFixture is a small thermal_mass plant used across cli tests,
// grounded on the same shape internal/coordinator's own tests and
// internal/rpcapi's adapter tests use.
const plantConfigFixture = `
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
rules:
  - id: overheat
    condition: "plant/temp > 90"
    actions:
      - device: heater
        function: shutoff
`

func writeFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0644)
}
