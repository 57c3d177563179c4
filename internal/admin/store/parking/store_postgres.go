package parking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gatehouse/internal/admin/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

const spaceColumns = `id, number, type, is_occupied, occupied_by, occupied_at, location, notes`

// PostgresStore persists parking spaces in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, sp *models.ParkingSpace) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO parking_spaces (`+spaceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sp.ID, sp.Number, sp.Type, sp.IsOccupied, sp.OccupiedBy, sp.OccupiedAt, sp.Location, sp.Notes,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert parking space: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.ParkingSpace, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+spaceColumns+` FROM parking_spaces ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list parking spaces: %w", err)
	}
	defer rows.Close()

	var out []*models.ParkingSpace
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan parking space: %w", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parking spaces: %w", err)
	}
	return out, nil
}

// Execute locks the row with FOR UPDATE for the validate-then-mutate callback.
func (s *PostgresStore) Execute(ctx context.Context, spaceID id.SpaceID, validate func(*models.ParkingSpace) error, mutate func(*models.ParkingSpace)) (*models.ParkingSpace, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sp, err := scanSpace(tx.QueryRowContext(ctx, `SELECT `+spaceColumns+` FROM parking_spaces WHERE id = $1 FOR UPDATE`, spaceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock parking space: %w", err)
	}
	if err := validate(sp); err != nil {
		return nil, err
	}
	mutate(sp)

	_, err = tx.ExecContext(ctx, `UPDATE parking_spaces SET
		number = $2, type = $3, is_occupied = $4, occupied_by = $5, occupied_at = $6, location = $7, notes = $8
		WHERE id = $1`,
		sp.ID, sp.Number, sp.Type, sp.IsOccupied, sp.OccupiedBy, sp.OccupiedAt, sp.Location, sp.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("update parking space: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit parking space update: %w", err)
	}
	return sp, nil
}

func (s *PostgresStore) Delete(ctx context.Context, spaceID id.SpaceID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM parking_spaces WHERE id = $1`, spaceID)
	if err != nil {
		return fmt.Errorf("delete parking space: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete parking space rows: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpace(row rowScanner) (*models.ParkingSpace, error) {
	var (
		sp         models.ParkingSpace
		occupiedAt sql.NullTime
	)
	if err := row.Scan(&sp.ID, &sp.Number, &sp.Type, &sp.IsOccupied, &sp.OccupiedBy, &occupiedAt, &sp.Location, &sp.Notes); err != nil {
		return nil, err
	}
	if occupiedAt.Valid {
		at := occupiedAt.Time
		sp.OccupiedAt = &at
	}
	return &sp, nil
}
