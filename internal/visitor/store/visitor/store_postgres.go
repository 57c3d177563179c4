package visitor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

const visitorColumns = `id, name, email, phone, company, purpose, host_name, host_id, invitation_id,
	has_invitation, check_in_time, check_out_time, status, tray_number, notes, group_size,
	document_verified, parking_spot, created_at, updated_at`

// PostgresStore persists visitors in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, v *models.Visitor) error {
	query := `INSERT INTO visitors (` + visitorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := s.db.ExecContext(ctx, query,
		v.ID, v.Name, v.Email, v.Phone, v.Company, v.Purpose, v.HostName, v.HostID, v.InvitationID,
		v.HasInvitation, v.CheckInTime, v.CheckOutTime, v.Status, v.TrayNumber, v.Notes, v.GroupSize,
		v.DocumentVerified, v.ParkingSpot, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert visitor: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, visitorID id.VisitorID) (*models.Visitor, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+visitorColumns+` FROM visitors WHERE id = $1`, visitorID)
	v, err := scanVisitor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find visitor by id: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) List(ctx context.Context, status models.Status) ([]*models.Visitor, error) {
	query := `SELECT ` + visitorColumns + ` FROM visitors
		WHERE ($1 = '' OR status = $1) ORDER BY check_in_time DESC, id`
	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var out []*models.Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visitors: %w", err)
	}
	return out, nil
}

// Execute locks the row with FOR UPDATE for the validate-then-mutate callback.
func (s *PostgresStore) Execute(ctx context.Context, visitorID id.VisitorID, validate func(*models.Visitor) error, mutate func(*models.Visitor)) (*models.Visitor, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+visitorColumns+` FROM visitors WHERE id = $1 FOR UPDATE`, visitorID)
	v, err := scanVisitor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock visitor: %w", err)
	}
	if err := validate(v); err != nil {
		return nil, err
	}
	mutate(v)

	_, err = tx.ExecContext(ctx, `UPDATE visitors SET
		email = $2, phone = $3, company = $4, check_out_time = $5, status = $6, tray_number = $7,
		notes = $8, document_verified = $9, parking_spot = $10, updated_at = $11
		WHERE id = $1`,
		v.ID, v.Email, v.Phone, v.Company, v.CheckOutTime, v.Status, v.TrayNumber,
		v.Notes, v.DocumentVerified, v.ParkingSpot, v.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update visitor: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit visitor update: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) MarkCheckedOut(ctx context.Context, visitorID id.VisitorID, now time.Time) (*models.Visitor, error) {
	return s.Execute(ctx, visitorID, rejectCheckedOut, func(v *models.Visitor) {
		v.ApplyCheckOut(now)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisitor(row rowScanner) (*models.Visitor, error) {
	var (
		v            models.Visitor
		checkInTime  sql.NullTime
		checkOutTime sql.NullTime
	)
	err := row.Scan(
		&v.ID, &v.Name, &v.Email, &v.Phone, &v.Company, &v.Purpose, &v.HostName, &v.HostID,
		&v.InvitationID, &v.HasInvitation, &checkInTime, &checkOutTime, &v.Status, &v.TrayNumber,
		&v.Notes, &v.GroupSize, &v.DocumentVerified, &v.ParkingSpot, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if checkInTime.Valid {
		v.CheckInTime = checkInTime.Time
	}
	if checkOutTime.Valid {
		t := checkOutTime.Time
		v.CheckOutTime = &t
	}
	return &v, nil
}
