package models

import (
	"time"

	id "gatehouse/pkg/domain"
)

// SpaceType classifies a parking space.
type SpaceType string

const (
	SpaceStandard SpaceType = "standard"
	SpaceHandicap SpaceType = "handicap"
	SpaceVisitor  SpaceType = "visitor"
	SpaceReserved SpaceType = "reserved"
)

func (t SpaceType) IsValid() bool {
	switch t {
	case SpaceStandard, SpaceHandicap, SpaceVisitor, SpaceReserved:
		return true
	}
	return false
}

// ParkingSpace is a managed parking bay.
// Invariant: OccupiedBy and OccupiedAt are empty unless IsOccupied.
type ParkingSpace struct {
	ID         id.SpaceID `json:"id"`
	Number     string     `json:"number"`
	Type       SpaceType  `json:"type"`
	IsOccupied bool       `json:"is_occupied"`
	OccupiedBy string     `json:"occupied_by,omitempty"`
	OccupiedAt *time.Time `json:"occupied_at,omitempty"`
	Location   string     `json:"location"`
	Notes      string     `json:"notes,omitempty"`
}

// Vacate clears the occupant.
func (p *ParkingSpace) Vacate() {
	p.IsOccupied = false
	p.OccupiedBy = ""
	p.OccupiedAt = nil
}

const MsgSpaceNotFound = "Parking space not found"

// TypeStats counts spaces of one type.
type TypeStats struct {
	Total    int `json:"total"`
	Occupied int `json:"occupied"`
}

// ParkingStats summarises occupancy across all spaces.
type ParkingStats struct {
	Total     int                     `json:"total"`
	Occupied  int                     `json:"occupied"`
	Available int                     `json:"available"`
	ByType    map[SpaceType]TypeStats `json:"by_type"`
}

// ComputeParkingStats aggregates occupancy over spaces.
func ComputeParkingStats(spaces []*ParkingSpace) ParkingStats {
	stats := ParkingStats{Total: len(spaces), ByType: make(map[SpaceType]TypeStats)}
	for _, sp := range spaces {
		ts := stats.ByType[sp.Type]
		ts.Total++
		if sp.IsOccupied {
			stats.Occupied++
			ts.Occupied++
		}
		stats.ByType[sp.Type] = ts
	}
	stats.Available = stats.Total - stats.Occupied
	return stats
}

// BusinessHours is the window in which the front desk is staffed.
type BusinessHours struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	Days  []string `json:"days"`
}

// Settings are the system-wide policy knobs an administrator controls.
type Settings struct {
	MaxVisitorInvitations       int           `json:"max_visitor_invitations"`
	InvitationValidityDays      int           `json:"invitation_validity_days"`
	RequireDocumentVerification bool          `json:"require_document_verification"`
	AllowWalkInVisitors         bool          `json:"allow_walk_in_visitors"`
	ParkingReservationEnabled   bool          `json:"parking_reservation_enabled"`
	FaceRecognitionEnabled      bool          `json:"face_recognition_enabled"`
	EmailNotificationsEnabled   bool          `json:"email_notifications_enabled"`
	MaxGroupSize                int           `json:"max_group_size"`
	BusinessHours               BusinessHours `json:"business_hours"`
	UpdatedAt                   time.Time     `json:"updated_at"`
}

// DefaultSettings is the configuration a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		MaxVisitorInvitations:       5,
		InvitationValidityDays:      7,
		RequireDocumentVerification: true,
		AllowWalkInVisitors:         true,
		ParkingReservationEnabled:   true,
		FaceRecognitionEnabled:      false,
		EmailNotificationsEnabled:   true,
		MaxGroupSize:                10,
		BusinessHours: BusinessHours{
			Start: "08:00",
			End:   "18:00",
			Days:  []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		},
	}
}
