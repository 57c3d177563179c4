package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	id "gatehouse/pkg/domain"
)

// Status is the presence state of a visitor.
type Status string

const (
	StatusCheckedIn  Status = "checked-in"
	StatusCheckedOut Status = "checked-out"
	StatusWaiting    Status = "waiting"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCheckedIn, StatusCheckedOut, StatusWaiting:
		return true
	}
	return false
}

// Visitor is a person currently or previously on the premises.
//
// Invariants:
//   - A checked-in visitor holds at most one tray (TrayNumber)
//   - CheckOutTime is set exactly when Status is checked-out
type Visitor struct {
	ID               id.VisitorID `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Company          string       `json:"company,omitempty"`
	Purpose          string       `json:"purpose"`
	HostName         string       `json:"host_name"`
	HostID           string       `json:"host_id,omitempty"`
	InvitationID     string       `json:"invitation_id,omitempty"`
	HasInvitation    bool         `json:"has_invitation"`
	CheckInTime      time.Time    `json:"check_in_time"`
	CheckOutTime     *time.Time   `json:"check_out_time,omitempty"`
	Status           Status       `json:"status"`
	TrayNumber       string       `json:"tray_number,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	GroupSize        int          `json:"group_size"`
	DocumentVerified bool         `json:"document_verified"`
	ParkingSpot      string       `json:"parking_spot,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// IsCheckedOut reports whether the visitor has already left.
func (v *Visitor) IsCheckedOut() bool {
	return v.Status == StatusCheckedOut
}

// ApplyCheckOut marks the visitor as departed at now.
func (v *Visitor) ApplyCheckOut(now time.Time) {
	v.Status = StatusCheckedOut
	v.CheckOutTime = &now
	v.UpdatedAt = now
}

// Tray is a numbered belongings tray handed to a visitor on arrival.
type Tray struct {
	Number     string     `json:"number"`
	Ordinal    int        `json:"-"`
	Available  bool       `json:"is_available"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
}

// TrayStats summarises pool occupancy.
type TrayStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Assigned  int `json:"assigned"`
}

// ComputeTrayStats counts trays by availability.
func ComputeTrayStats(trays []*Tray) TrayStats {
	stats := TrayStats{Total: len(trays)}
	for _, t := range trays {
		if t.Available {
			stats.Available++
		} else {
			stats.Assigned++
		}
	}
	return stats
}

// TrayNumber formats the tray label for a 1-based ordinal.
func TrayNumber(ordinal int) string {
	return fmt.Sprintf("T-%03d", ordinal)
}

// TrayOrdinal parses a tray label back into its ordinal.
func TrayOrdinal(number string) (int, bool) {
	rest, ok := strings.CutPrefix(number, "T-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// BulkFailure records why one visitor in a bulk checkout was skipped.
type BulkFailure struct {
	VisitorID string `json:"visitor_id"`
	Reason    string `json:"reason"`
}

// BulkCheckOutResult lists the visitors checked out and the ids that were skipped.
type BulkCheckOutResult struct {
	CheckedOut []*Visitor    `json:"checked_out"`
	Failures   []BulkFailure `json:"failures"`
}

const (
	MsgNoTrays           = "No trays available"
	MsgVisitorNotFound   = "Visitor not found"
	MsgAlreadyCheckedOut = "Visitor already checked out"
)

// Policy is the subset of system settings that constrains check-in.
type Policy struct {
	AllowWalkIns bool
	MaxGroupSize int
}

func DefaultPolicy() Policy {
	return Policy{AllowWalkIns: true, MaxGroupSize: 10}
}
