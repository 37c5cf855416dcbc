package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "fluxgraphctl", cmd.Use)
	assert.Contains(t, cmd.Long, "tick coordinator")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "run", "signals", "replay", "test", "trace"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	dtFlag := compileCmd.Flags().Lookup("dt")
	require.NotNil(t, dtFlag)
	assert.Equal(t, "0.01", dtFlag.DefValue)
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	dbFlag := runCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)

	ticksFlag := runCmd.Flags().Lookup("ticks")
	require.NotNil(t, ticksFlag)
}

func TestSignalsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	signalsCmd, _, err := cmd.Find([]string{"signals"})
	require.NoError(t, err)

	setFlag := signalsCmd.Flags().Lookup("set")
	require.NotNil(t, setFlag)

	readFlag := signalsCmd.Flags().Lookup("read")
	require.NotNil(t, readFlag)
}

func TestReplayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	replayCmd, _, err := cmd.Find([]string{"replay"})
	require.NoError(t, err)

	dbFlag := replayCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)

	fromFlag := replayCmd.Flags().Lookup("from")
	require.NotNil(t, fromFlag)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestTraceCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	traceCmd, _, err := cmd.Find([]string{"trace"})
	require.NoError(t, err)

	watchFlag := traceCmd.Flags().Lookup("watch")
	require.NotNil(t, watchFlag)

	ticksFlag := traceCmd.Flags().Lookup("ticks")
	require.NotNil(t, ticksFlag)
	assert.Equal(t, "10", ticksFlag.DefValue)
}

func TestCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	assert.Contains(t, cmd.Short, "fluxgraphctl")
	assert.Contains(t, cmd.Long, "GraphSpecs")
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	tmp := t.TempDir() + "/plant.yaml"
	require.NoError(t, writeFile(t, tmp, plantConfigFixture))
	cmd.SetArgs([]string{"--format", "invalid", "compile", tmp})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
