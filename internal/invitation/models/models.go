package models

import (
	"fmt"
	"strings"
	"time"

	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Status is the lifecycle state of an invitation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusExpired, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsOutstanding reports whether the invitation can still be presented at the desk.
func (s Status) IsOutstanding() bool {
	return s == StatusPending || s == StatusActive
}

// Invitation is a resident-issued authorization for a named visitor.
//
// Invariants:
//   - Code is derived from ID at creation and never changes
//   - ScheduledAt is VisitDate + VisitTime interpreted in the service location
//   - Status only leaves pending/active, except that cancel is unconditional
type Invitation struct {
	ID               id.InvitationID `json:"id"`
	Code             string          `json:"qr_code"`
	VisitorName      string          `json:"visitor_name"`
	VisitorEmail     string          `json:"visitor_email"`
	VisitorPhone     string          `json:"visitor_phone"`
	VisitDate        string          `json:"visit_date"`
	VisitTime        string          `json:"visit_time"`
	ScheduledAt      time.Time       `json:"scheduled_at"`
	Purpose          string          `json:"purpose"`
	ResidentID       string          `json:"resident_id"`
	ResidentName     string          `json:"resident_name"`
	Status           Status          `json:"status"`
	ParkingReserved  bool            `json:"parking_reserved"`
	ParkingSpot      string          `json:"parking_spot,omitempty"`
	DocumentAttached bool            `json:"document_attached"`
	DocumentURL      string          `json:"document_url,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ValidationCode derives the printed code for an invitation.
func ValidationCode(invitationID id.InvitationID, year int) string {
	return fmt.Sprintf("QR-%s-%d", strings.ToUpper(invitationID.String()), year)
}

// ScheduleAt combines a visit date and time in loc.
func ScheduleAt(visitDate, visitTime string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, visitDate+" "+visitTime, loc)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "visit_date must be YYYY-MM-DD and visit_time HH:MM")
	}
	return t, nil
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsExpired reports whether the visit day lies before now's calendar day.
// A visit earlier on the same day is still honoured at the desk.
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ScheduledAt.Before(StartOfDay(now))
}

// ApplyCancel marks the invitation cancelled, recording the reason in notes.
func (i *Invitation) ApplyCancel(reason string, now time.Time) {
	i.Status = StatusCancelled
	i.UpdatedAt = now
	if reason != "" {
		i.Notes = "Cancelled: " + reason
	}
}

// ApplyExpiry marks the invitation expired.
func (i *Invitation) ApplyExpiry(now time.Time) {
	i.Status = StatusExpired
	i.UpdatedAt = now
}

// ValidationResult is the answer given to the front desk for a presented code.
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Message    string      `json:"message"`
	Invitation *Invitation `json:"invitation,omitempty"`
}

const (
	MsgInvalidCode     = "Invalid QR code"
	MsgCancelled       = "Invitation has been cancelled"
	MsgExpired         = "Invitation has expired"
	MsgAlreadyUsed     = "Invitation has already been used"
	MsgValidInvitation = "Valid invitation"
)

// Decide applies the validation decision table to inv at now, mutating the
// status for outstanding invitations. Activation changes only the status;
// expiry also stamps UpdatedAt. Returns the result to hand back.
func Decide(inv *Invitation, now time.Time) ValidationResult {
	switch inv.Status {
	case StatusCancelled:
		return ValidationResult{Message: MsgCancelled, Invitation: inv}
	case StatusExpired:
		return ValidationResult{Message: MsgExpired, Invitation: inv}
	case StatusCompleted:
		return ValidationResult{Message: MsgAlreadyUsed, Invitation: inv}
	}
	if inv.IsExpired(now) {
		inv.ApplyExpiry(now)
		return ValidationResult{Message: MsgExpired, Invitation: inv}
	}
	inv.Status = StatusActive
	return ValidationResult{Valid: true, Message: MsgValidInvitation, Invitation: inv}
}

// Policy is the subset of system settings that constrains invitations.
type Policy struct {
	MaxOutstandingPerResident int
	ValidityDays              int
	ParkingReservationEnabled bool
	NotificationsEnabled      bool
}

// DefaultPolicy mirrors the default system settings.
func DefaultPolicy() Policy {
	return Policy{
		MaxOutstandingPerResident: 5,
		ValidityDays:              7,
		ParkingReservationEnabled: true,
		NotificationsEnabled:      true,
	}
}
