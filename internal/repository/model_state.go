package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// ModelStateStore persists the trained model blob in the database, as an
// alternative to the file-backed store. It satisfies the engine's
// StateStore contract.
type ModelStateStore struct {
	db *sql.DB
}

// ModelState returns the database-backed model blob store.
func (r *Repository) ModelState() *ModelStateStore {
	return &ModelStateStore{db: r.db}
}

// Save replaces the stored blob in one statement, so readers never see a
// partial state.
func (s *ModelStateStore) Save(blob []byte) error {
	query := `
		INSERT INTO model_state (id, blob, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.Exec(query, blob, time.Now().UTC().Unix()); err != nil {
		return fmt.Errorf("failed to save model state: %w", err)
	}
	return nil
}

// Load returns the stored blob, or found=false when no training ever
// completed.
func (s *ModelStateStore) Load() ([]byte, bool, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT blob FROM model_state WHERE id = 1`).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load model state: %w", err)
	}
	return blob, true, nil
}
