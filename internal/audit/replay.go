package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Replay returns every tick record with generation in [from, to], ordered
// by generation ascending, for fluxgraphctl's `replay` subcommand.
func (l *Log) Replay(ctx context.Context, from, to uint64) ([]TickRecord, error) {
	// SQLite integers are signed 64-bit and database/sql refuses to bind a
	// uint64 with the high bit set, so bounds past MaxInt64 (such as the
	// ^uint64(0) "unbounded" sentinel) are clamped to it.
	if from > math.MaxInt64 {
		from = math.MaxInt64
	}
	if to > math.MaxInt64 {
		to = math.MaxInt64
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT generation, sim_time, config_hash, commands_json, recorded_at
		FROM tick_records
		WHERE generation >= ? AND generation <= ?
		ORDER BY generation ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer rows.Close()

	var records []TickRecord
	for rows.Next() {
		var (
			rec          TickRecord
			commandsJSON string
		)
		if err := rows.Scan(&rec.Generation, &rec.SimTime, &rec.ConfigHash, &commandsJSON, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("replay: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(commandsJSON), &rec.Commands); err != nil {
			return nil, fmt.Errorf("replay: decode commands for generation %d: %w", rec.Generation, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return records, nil
}

// LatestConfigHash returns the config_hash of the most recently loaded
// config, or "" if none has been recorded.
func (l *Log) LatestConfigHash(ctx context.Context) (string, error) {
	var hash string
	err := l.db.QueryRowContext(ctx, `
		SELECT config_hash FROM config_loads ORDER BY loaded_at DESC LIMIT 1
	`).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest config hash: %w", err)
	}
	return hash, nil
}
