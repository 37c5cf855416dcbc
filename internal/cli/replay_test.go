package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxgraph/fluxgraph/internal/audit"
	"github.com/fluxgraph/fluxgraph/internal/ir"
)

func TestReplayMissingDatabaseFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	l, err := audit.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "replayed 0 tick(s)")
}

func TestReplayWithTicks(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	l, err := audit.Open(dbPath)
	require.NoError(t, err)
	spec := ir.GraphSpec{Rules: []ir.RuleSpec{{ID: "overheat", Condition: "plant/temp > 90"}}}
	hash, err := l.RecordConfigLoad(ctx, spec, 1000)
	require.NoError(t, err)
	require.NoError(t, l.RecordTick(ctx, 1, 0.01, hash, []audit.CommandRecord{
		{Device: "heater", Function: "shutoff", Args: map[string]any{}},
	}, 1001))
	require.NoError(t, l.RecordTick(ctx, 2, 0.02, hash, nil, 1002))
	require.NoError(t, l.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())
	output := buf.String()
	assert.Contains(t, output, "gen=1 sim_time=0.010000")
	assert.Contains(t, output, "heater.shutoff")
	assert.Contains(t, output, "gen=2 sim_time=0.020000")
}

func TestReplayJSONOutput(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	l, err := audit.Open(dbPath)
	require.NoError(t, err)
	hash, err := l.RecordConfigLoad(ctx, ir.GraphSpec{}, 1000)
	require.NoError(t, err)
	require.NoError(t, l.RecordTick(ctx, 1, 0.01, hash, nil, 1001))
	require.NoError(t, l.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestReplayRespectsFromTo(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	l, err := audit.Open(dbPath)
	require.NoError(t, err)
	hash, err := l.RecordConfigLoad(ctx, ir.GraphSpec{}, 1000)
	require.NoError(t, err)
	for gen := uint64(1); gen <= 5; gen++ {
		require.NoError(t, l.RecordTick(ctx, gen, float64(gen)*0.1, hash, nil, 1000+int64(gen)))
	}
	require.NoError(t, l.Close())

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewReplayCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--from", "2", "--to", "4"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "replayed 3 tick(s)")
}
