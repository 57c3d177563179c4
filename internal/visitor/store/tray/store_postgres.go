package tray

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gatehouse/internal/visitor/models"
	"gatehouse/pkg/platform/sentinel"
)

// PostgresStore keeps the tray pool in the trays table. Acquire uses
// FOR UPDATE SKIP LOCKED so concurrent check-ins never share a tray.
type PostgresStore struct {
	db   *sql.DB
	size int
}

func NewPostgres(db *sql.DB, size int) *PostgresStore {
	return &PostgresStore{db: db, size: size}
}

// Seed inserts missing trays up to the pool size.
func (s *PostgresStore) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := 1; i <= s.size; i++ {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO trays (number, ordinal, available) VALUES ($1, $2, TRUE) ON CONFLICT (number) DO NOTHING`,
			models.TrayNumber(i), i,
		)
		if err != nil {
			return fmt.Errorf("seed tray %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tray seed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Acquire(ctx context.Context, assignee string, at time.Time) (*models.Tray, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE trays SET available = FALSE, assigned_to = $1, assigned_at = $2
		WHERE number = (
			SELECT number FROM trays WHERE available AND ordinal <= $3
			ORDER BY ordinal LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING number, ordinal, available, assigned_to, assigned_at`,
		assignee, at, s.size,
	)
	t, err := scanTray(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrExhausted
		}
		return nil, fmt.Errorf("acquire tray: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Release(ctx context.Context, number string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trays SET available = TRUE, assigned_to = '', assigned_at = NULL
		WHERE number = $1 AND NOT available`, number)
	if err != nil {
		return fmt.Errorf("release tray: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release tray rows: %w", err)
	}
	if n == 1 {
		return nil
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM trays WHERE number = $1)`, number).Scan(&exists); err != nil {
		return fmt.Errorf("check tray: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrInvalidState
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Tray, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, ordinal, available, assigned_to, assigned_at
		FROM trays WHERE ordinal <= $1 ORDER BY ordinal`, s.size)
	if err != nil {
		return nil, fmt.Errorf("list trays: %w", err)
	}
	defer rows.Close()

	var out []*models.Tray
	for rows.Next() {
		t, err := scanTray(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tray: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trays: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTray(row rowScanner) (*models.Tray, error) {
	var (
		t          models.Tray
		assignedAt sql.NullTime
	)
	if err := row.Scan(&t.Number, &t.Ordinal, &t.Available, &t.AssignedTo, &assignedAt); err != nil {
		return nil, err
	}
	if assignedAt.Valid {
		at := assignedAt.Time
		t.AssignedAt = &at
	}
	return &t, nil
}
