// Package store persists last known sensor values so entities can restore
// them after a restart, before the first poll completes.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gs108e2mqtt/internal/core/service"
)

// RestoreStore is a SQLite backed key-value store keyed by entity unique id.
// Values are JSON encoded. Safe for concurrent use (SQLite serializes writes).
type RestoreStore struct {
	db *sql.DB
}

func NewRestoreStore(dbPath string) (*RestoreStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &RestoreStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *RestoreStore) Close() error {
	return s.db.Close()
}

func (s *RestoreStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS restored_values (
		unique_id  TEXT NOT NULL PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the stored value for a unique id. The boolean reports
// whether a value existed.
func (s *RestoreStore) Load(uniqueID string) (any, bool, error) {
	var encoded string
	err := s.db.QueryRow(
		`SELECT value FROM restored_values WHERE unique_id = ?`, uniqueID,
	).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", uniqueID, err)
	}
	var value any
	if err := json.Unmarshal([]byte(encoded), &value); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", uniqueID, err)
	}
	return value, true, nil
}

// Save upserts the value for a unique id, refreshing its timestamp.
func (s *RestoreStore) Save(uniqueID string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", uniqueID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO restored_values (unique_id, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(unique_id) DO UPDATE SET
		   value = excluded.value,
		   updated_at = excluded.updated_at`,
		uniqueID, string(encoded), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", uniqueID, err)
	}
	return nil
}

// ensure interface compliance
var _ service.ValueStore = (*RestoreStore)(nil)
