package invitation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gatehouse/internal/invitation/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

const invitationColumns = `id, code, visitor_name, visitor_email, visitor_phone, visit_date, visit_time,
	scheduled_at, purpose, resident_id, resident_name, status, parking_reserved, parking_spot,
	document_attached, document_url, notes, created_at, updated_at`

var outstandingStatuses = []string{string(models.StatusPending), string(models.StatusActive)}

// PostgresStore persists invitations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed invitation store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) Create(ctx context.Context, inv *models.Invitation) error {
	return insertInvitation(ctx, s.db, inv)
}

// CreateWithinLimit counts and inserts under a per-resident advisory lock so
// concurrent creates cannot overshoot limit. A limit of zero or less disables
// the check.
func (s *PostgresStore) CreateWithinLimit(ctx context.Context, inv *models.Invitation, limit int) error {
	if limit <= 0 {
		return s.Create(ctx, inv)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, inv.ResidentID); err != nil {
		return fmt.Errorf("lock resident invitations: %w", err)
	}
	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invitations WHERE resident_id = $1 AND status = ANY($2)`,
		inv.ResidentID, pq.Array(outstandingStatuses),
	).Scan(&count); err != nil {
		return fmt.Errorf("count outstanding invitations: %w", err)
	}
	if count >= limit {
		return sentinel.ErrExhausted
	}
	if err := insertInvitation(ctx, tx, inv); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invitation: %w", err)
	}
	return nil
}

func insertInvitation(ctx context.Context, db execer, inv *models.Invitation) error {
	query := `INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := db.ExecContext(ctx, query,
		inv.ID, inv.Code, inv.VisitorName, inv.VisitorEmail, inv.VisitorPhone, inv.VisitDate, inv.VisitTime,
		inv.ScheduledAt, inv.Purpose, inv.ResidentID, inv.ResidentName, inv.Status, inv.ParkingReserved,
		inv.ParkingSpot, inv.DocumentAttached, inv.DocumentURL, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, invitationID id.InvitationID) (*models.Invitation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, invitationID)
	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find invitation by id: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Invitation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE code = $1`, code)
	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find invitation by code: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) List(ctx context.Context, residentID string) ([]*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations
		WHERE ($1 = '' OR resident_id = $1) ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, residentID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var out []*models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountOutstanding(ctx context.Context, residentID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invitations WHERE resident_id = $1 AND status = ANY($2)`,
		residentID, pq.Array(outstandingStatuses),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count outstanding invitations: %w", err)
	}
	return count, nil
}

// Execute locks the row with FOR UPDATE for the validate-then-mutate callback.
func (s *PostgresStore) Execute(ctx context.Context, invitationID id.InvitationID, validate func(*models.Invitation) error, mutate func(*models.Invitation)) (*models.Invitation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1 FOR UPDATE`, invitationID)
	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock invitation: %w", err)
	}
	if err := validate(inv); err != nil {
		return nil, err
	}
	mutate(inv)

	_, err = tx.ExecContext(ctx, `UPDATE invitations SET
		visitor_name = $2, visitor_email = $3, visitor_phone = $4, purpose = $5, status = $6,
		parking_reserved = $7, parking_spot = $8, document_attached = $9, document_url = $10,
		notes = $11, updated_at = $12
		WHERE id = $1`,
		inv.ID, inv.VisitorName, inv.VisitorEmail, inv.VisitorPhone, inv.Purpose, inv.Status,
		inv.ParkingReserved, inv.ParkingSpot, inv.DocumentAttached, inv.DocumentURL, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update invitation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invitation update: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) ExpireScheduledBefore(ctx context.Context, cutoff, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE invitations SET status = $1, updated_at = $2
		WHERE status = ANY($3) AND scheduled_at < $4`,
		models.StatusExpired, now,
		pq.Array([]string{string(models.StatusPending), string(models.StatusActive)}),
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("expire invitations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire invitations rows: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(
		&inv.ID, &inv.Code, &inv.VisitorName, &inv.VisitorEmail, &inv.VisitorPhone, &inv.VisitDate,
		&inv.VisitTime, &inv.ScheduledAt, &inv.Purpose, &inv.ResidentID, &inv.ResidentName, &inv.Status,
		&inv.ParkingReserved, &inv.ParkingSpot, &inv.DocumentAttached, &inv.DocumentURL, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
