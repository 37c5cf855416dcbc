package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// RecordConfigLoad inserts a config-load record, keyed by content hash.
// ON CONFLICT DO NOTHING makes this idempotent: reloading the identical
// config the coordinator already has loaded (a LoadConfig no-op per
// spec.md §6) never produces a duplicate row.
func (l *Log) RecordConfigLoad(ctx context.Context, spec ir.GraphSpec, loadedAtUnix int64) (string, error) {
	hash, err := ir.ConfigHash(spec)
	if err != nil {
		return "", fmt.Errorf("record config load: %w", err)
	}
	canonical, err := ir.MarshalCanonical(spec)
	if err != nil {
		return "", fmt.Errorf("record config load: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO config_loads (config_hash, loaded_at, graph_spec, engine_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(config_hash) DO NOTHING
	`, hash, loadedAtUnix, string(canonical), ir.EngineVersion)
	if err != nil {
		return "", fmt.Errorf("record config load: %w", err)
	}
	return hash, nil
}

// RecordTick inserts one completed-tick record: the generation, sim_time,
// the config hash it ran against, and the commands the tick's rules
// emitted. generation is the primary key, so replaying a duplicate
// generation (should never happen — tick_generation only increases) would
// surface as a constraint error rather than silently overwriting history.
func (l *Log) RecordTick(ctx context.Context, generation uint64, simTime float64, configHash string, commands []CommandRecord, recordedAtUnix int64) error {
	commandsJSON, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("record tick: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO tick_records (generation, sim_time, config_hash, commands_json, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, generation, simTime, configHash, string(commandsJSON), recordedAtUnix)
	if err != nil {
		return fmt.Errorf("record tick: %w", err)
	}
	return nil
}
