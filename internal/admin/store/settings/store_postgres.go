package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gatehouse/internal/admin/models"
)

// PostgresStore keeps the settings document as JSONB in a single-row table.
// A missing row reads as the defaults it was constructed with.
type PostgresStore struct {
	db       *sql.DB
	defaults models.Settings
}

func NewPostgres(db *sql.DB, defaults models.Settings) *PostgresStore {
	return &PostgresStore{db: db, defaults: defaults}
}

func (s *PostgresStore) Get(ctx context.Context) (*models.Settings, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		out := clone(s.defaults)
		return &out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return s.decode(raw)
}

// Update reads the document under FOR UPDATE, applies mutate and writes it back.
func (s *PostgresStore) Update(ctx context.Context, mutate func(*models.Settings)) (*models.Settings, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Seed the row so there is something to lock on first write.
	seed, err := json.Marshal(s.defaults)
	if err != nil {
		return nil, fmt.Errorf("encode default settings: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings (id, document, updated_at) VALUES (1, $1, NOW()) ON CONFLICT (id) DO NOTHING`, string(seed),
	); err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}

	var raw []byte
	if err := tx.QueryRowContext(ctx, `SELECT document FROM settings WHERE id = 1 FOR UPDATE`).Scan(&raw); err != nil {
		return nil, fmt.Errorf("lock settings: %w", err)
	}
	current, err := s.decode(raw)
	if err != nil {
		return nil, err
	}
	mutate(current)

	doc, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE settings SET document = $1, updated_at = $2 WHERE id = 1`, string(doc), current.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settings: %w", err)
	}
	return current, nil
}

// decode overlays the stored document on the defaults so fields added after
// the row was written keep their default values.
func (s *PostgresStore) decode(raw []byte) (*models.Settings, error) {
	out := clone(s.defaults)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &out, nil
}
