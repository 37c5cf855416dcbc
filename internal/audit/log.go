package audit

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Log provides durable storage for FluxGraph's tick and config-load
// journal. It uses SQLite in WAL mode; since only the coordinator's single
// tick loop ever writes, one connection is sufficient.
type Log struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path and applies the schema.
// Idempotent: safe to call multiple times against the same path.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect audit log: %w", err)
	}

	// SQLite allows only one writer; the coordinator's tick loop is the
	// sole writer, so a single connection avoids SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply audit schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}
