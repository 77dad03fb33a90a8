// Package store persists parsed model snapshots in SQLite so the UI shell
// can reload earlier uploads by id. Each snapshot keeps the original source
// text alongside the serialized model; re-parsing the source on load would
// produce a structurally identical model, but the stored JSON preserves the
// exact ids the snapshot was served with.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/david-basis/archmodel/model"
)

// Store handles SQLite operations for model snapshots.
type Store struct {
	db *sql.DB
}

// Snapshot is one persisted parse result.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	source     TEXT NOT NULL,
	model_json TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
`

// Open opens (creating if needed) the snapshot database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save persists a parsed model under a display name and returns the
// generated snapshot id.
func (s *Store) Save(name, source string, m *model.Model) (string, error) {
	data, err := m.ToJSON()
	if err != nil {
		return "", fmt.Errorf("serialize model: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO snapshots (id, name, source, model_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, source, string(data), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// Load retrieves a snapshot and its model by id.
func (s *Store) Load(id string) (*Snapshot, *model.Model, error) {
	var snap Snapshot
	var modelJSON string
	err := s.db.QueryRow(
		`SELECT id, name, source, model_json, created_at FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.Name, &snap.Source, &modelJSON, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("snapshot %s: not found", id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query snapshot: %w", err)
	}

	m, err := model.FromJSON([]byte(modelJSON))
	if err != nil {
		return nil, nil, fmt.Errorf("decode model: %w", err)
	}
	return &snap, m, nil
}

// List returns snapshot metadata, newest first. Source text is omitted.
func (s *Store) List() ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT id, name, created_at FROM snapshots ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Delete removes a snapshot by id.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: not found", id)
	}
	return nil
}
