package cli

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fluxgraph/fluxgraph/internal/config"
	"github.com/fluxgraph/fluxgraph/internal/coordinator"
	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string
}

// expectation is one final-value assertion in a scenario fixture.
type expectation struct {
	Value     float64 `yaml:"value"`
	Tolerance float64 `yaml:"tolerance"`
}

// scenario is a fixture file describing a config, the constant inputs to
// hold across every tick, how many ticks to run, and the final signal
// values the run is expected to converge to.
type scenario struct {
	Name    string                   `yaml:"name"`
	Config  string                   `yaml:"config"`
	Dt      float64                  `yaml:"dt"`
	Ticks   uint64                   `yaml:"ticks"`
	Initial map[string]initialSignal `yaml:"initial"`
	Expect  map[string]expectation   `yaml:"expect"`
}

// scenarioResult holds the outcome of running a single scenario.
type scenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// testResult holds the overall test run outcome.
type testResult struct {
	Scenarios []scenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario fixtures against the tick coordinator",
		Long: `Test loads every YAML scenario fixture in a directory, each naming a
config, the constant inputs to drive it with, a tick count, and the final
signal values it should converge to within tolerance. YAML files that name
no config are skipped. It reports which scenarios passed and exits non-zero
if any failed; a fixture that cannot be read or parsed counts as failed.

Exit codes:
  0 - all scenarios passed
  1 - one or more scenarios failed
  2 - command error (missing directory, invalid filter pattern)

Examples:
  fluxgraphctl test ./scenarios
  fluxgraphctl test ./scenarios --filter "s1-*"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern against file base name")

	return cmd
}

func runScenarios(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := testResult{Scenarios: make([]scenarioResult, 0, len(files)), Total: len(files)}
	for _, f := range files {
		r := runOneScenario(f)
		result.Scenarios = append(result.Scenarios, r)
		if r.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

func findScenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		// A YAML file that parses but names no config (such as the graph
		// config a scenario points at) is not a scenario fixture.
		if content, err := os.ReadFile(path); err == nil {
			var s scenario
			if yaml.Unmarshal(content, &s) == nil && s.Config == "" {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func runOneScenario(scenarioFile string) scenarioResult {
	name := strings.TrimSuffix(filepath.Base(scenarioFile), filepath.Ext(scenarioFile))

	content, err := os.ReadFile(scenarioFile)
	if err != nil {
		return scenarioResult{Name: name, Errors: []string{fmt.Sprintf("failed to read scenario: %v", err)}}
	}
	var s scenario
	if err := yaml.Unmarshal(content, &s); err != nil {
		return scenarioResult{Name: name, Errors: []string{fmt.Sprintf("failed to parse scenario: %v", err)}}
	}
	if s.Name != "" {
		name = s.Name
	}
	if s.Dt == 0 {
		s.Dt = 0.01
	}
	if s.Ticks == 0 {
		s.Ticks = 1
	}

	configPath := s.Config
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(filepath.Dir(scenarioFile), configPath)
	}
	configContent, err := os.ReadFile(configPath)
	if err != nil {
		return scenarioResult{Name: name, Errors: []string{fmt.Sprintf("failed to read config %s: %v", configPath, err)}}
	}
	format := formatForPath(configPath)

	coord := coordinator.New(config.Loader{}, s.Dt)
	spec, err := config.Loader{}.Load(configContent, format)
	if err != nil {
		return scenarioResult{Name: name, Errors: []string{fmt.Sprintf("failed to parse config: %v", err)}}
	}
	hash, err := ir.ConfigHash(spec)
	if err != nil {
		return scenarioResult{Name: name, Errors: []string{fmt.Sprintf("failed to hash config: %v", err)}}
	}
	if _, err := coord.LoadConfig(configContent, format, hash); err != nil {
		return scenarioResult{Name: name, Errors: []string{fmt.Sprintf("failed to load config: %v", err)}}
	}

	sessionID, err := coord.RegisterProvider("test", nil)
	if err != nil {
		return scenarioResult{Name: name, Errors: []string{fmt.Sprintf("failed to register provider: %v", err)}}
	}
	defer coord.UnregisterProvider(sessionID)

	updates := make([]coordinator.SignalUpdate, 0, len(s.Initial))
	for path, sig := range s.Initial {
		updates = append(updates, coordinator.SignalUpdate{Path: path, Value: sig.Value, Unit: sig.Unit})
	}

	for i := uint64(0); i < s.Ticks; i++ {
		if _, err := coord.UpdateSignals(sessionID, updates); err != nil {
			return scenarioResult{Name: name, Errors: []string{fmt.Sprintf("tick %d failed: %v", i+1, err)}}
		}
	}

	paths := make([]string, 0, len(s.Expect))
	for path := range s.Expect {
		paths = append(paths, path)
	}
	readings := coord.ReadSignals(paths)
	byPath := make(map[string]coordinator.SignalReading, len(readings))
	for _, r := range readings {
		byPath[r.Path] = r
	}

	var errs []string
	for path, want := range s.Expect {
		got, ok := byPath[path]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown signal", path))
			continue
		}
		if math.Abs(got.Value-want.Value) > want.Tolerance {
			errs = append(errs, fmt.Sprintf("%s: want %g +/- %g, got %g", path, want.Value, want.Tolerance, got.Value))
		}
	}

	return scenarioResult{Name: name, Pass: len(errs) == 0, Errors: errs}
}

func outputTestJSON(cmd *cobra.Command, result testResult) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	if err := formatter.Success(result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

func outputTestText(cmd *cobra.Command, result testResult) error {
	w := cmd.OutOrStdout()
	for _, s := range result.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "PASS %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "FAIL %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
