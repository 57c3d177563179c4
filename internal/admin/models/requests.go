package models

import (
	"strings"
	"time"

	dErrors "gatehouse/pkg/domain-errors"
	platformstrings "gatehouse/pkg/platform/strings"
)

const (
	maxNumberLength   = 32
	maxLocationLength = 256
	maxNotesLength    = 2000
	maxValidityDays   = 365
	maxInvitations    = 1000
	maxGroupSizeLimit = 500
)

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// AddSpaceRequest describes a new parking space.
type AddSpaceRequest struct {
	Number     string    `json:"number"`
	Type       SpaceType `json:"type"`
	IsOccupied bool      `json:"is_occupied"`
	OccupiedBy string    `json:"occupied_by"`
	Location   string    `json:"location"`
	Notes      string    `json:"notes"`
}

func (r *AddSpaceRequest) Normalize() {
	if r == nil {
		return
	}
	r.Number = strings.ToUpper(strings.TrimSpace(r.Number))
	r.Type = SpaceType(strings.ToLower(strings.TrimSpace(string(r.Type))))
	r.OccupiedBy = strings.TrimSpace(r.OccupiedBy)
	r.Location = strings.TrimSpace(r.Location)
	r.Notes = strings.TrimSpace(r.Notes)
	if r.Type == "" {
		r.Type = SpaceStandard
	}
}

func (r *AddSpaceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.Number) > maxNumberLength {
		return dErrors.New(dErrors.CodeValidation, "number must be 32 characters or less")
	}
	if len(r.Location) > maxLocationLength || len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "location or notes too long")
	}
	if r.Number == "" {
		return dErrors.New(dErrors.CodeValidation, "number is required")
	}
	if !r.Type.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "type must be standard, handicap, visitor, or reserved")
	}
	if r.OccupiedBy != "" && !r.IsOccupied {
		return dErrors.New(dErrors.CodeValidation, "occupied_by requires is_occupied")
	}
	return nil
}

// UpdateSpaceRequest carries a partial update; nil fields are untouched.
type UpdateSpaceRequest struct {
	Number     *string    `json:"number,omitempty"`
	Type       *SpaceType `json:"type,omitempty"`
	IsOccupied *bool      `json:"is_occupied,omitempty"`
	OccupiedBy *string    `json:"occupied_by,omitempty"`
	Location   *string    `json:"location,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

func (r *UpdateSpaceRequest) Normalize() {
	if r == nil {
		return
	}
	if r.Number != nil {
		*r.Number = strings.ToUpper(strings.TrimSpace(*r.Number))
	}
	if r.Type != nil {
		*r.Type = SpaceType(strings.ToLower(strings.TrimSpace(string(*r.Type))))
	}
	for _, f := range []*string{r.OccupiedBy, r.Location, r.Notes} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateSpaceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Number != nil && (*r.Number == "" || len(*r.Number) > maxNumberLength) {
		return dErrors.New(dErrors.CodeValidation, "number must be 1-32 characters")
	}
	if r.Type != nil && !r.Type.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "type must be standard, handicap, visitor, or reserved")
	}
	if (r.Location != nil && len(*r.Location) > maxLocationLength) || (r.Notes != nil && len(*r.Notes) > maxNotesLength) {
		return dErrors.New(dErrors.CodeValidation, "location or notes too long")
	}
	return nil
}

// Occupies reports whether the update claims the space for someone.
func (r *UpdateSpaceRequest) Occupies() bool {
	return r.IsOccupied != nil && *r.IsOccupied
}

// Apply copies the set fields onto sp. Vacating clears the occupant; occupying
// stamps the occupancy time.
func (r *UpdateSpaceRequest) Apply(sp *ParkingSpace, now time.Time) {
	if r.Number != nil {
		sp.Number = *r.Number
	}
	if r.Type != nil {
		sp.Type = *r.Type
	}
	if r.Location != nil {
		sp.Location = *r.Location
	}
	if r.Notes != nil {
		sp.Notes = *r.Notes
	}
	if r.IsOccupied != nil {
		if !*r.IsOccupied {
			sp.Vacate()
			return
		}
		if !sp.IsOccupied {
			at := now
			sp.OccupiedAt = &at
		}
		sp.IsOccupied = true
	}
	if r.OccupiedBy != nil && sp.IsOccupied {
		sp.OccupiedBy = *r.OccupiedBy
	}
}

// UpdateSettingsRequest carries a partial settings update.
type UpdateSettingsRequest struct {
	MaxVisitorInvitations       *int           `json:"max_visitor_invitations,omitempty"`
	InvitationValidityDays      *int           `json:"invitation_validity_days,omitempty"`
	RequireDocumentVerification *bool          `json:"require_document_verification,omitempty"`
	AllowWalkInVisitors         *bool          `json:"allow_walk_in_visitors,omitempty"`
	ParkingReservationEnabled   *bool          `json:"parking_reservation_enabled,omitempty"`
	FaceRecognitionEnabled      *bool          `json:"face_recognition_enabled,omitempty"`
	EmailNotificationsEnabled   *bool          `json:"email_notifications_enabled,omitempty"`
	MaxGroupSize                *int           `json:"max_group_size,omitempty"`
	BusinessHours               *BusinessHours `json:"business_hours,omitempty"`
}

// Normalize drops blank and repeated business days.
func (r *UpdateSettingsRequest) Normalize() {
	if r == nil || r.BusinessHours == nil {
		return
	}
	r.BusinessHours.Start = strings.TrimSpace(r.BusinessHours.Start)
	r.BusinessHours.End = strings.TrimSpace(r.BusinessHours.End)
	r.BusinessHours.Days = platformstrings.DedupeAndTrim(r.BusinessHours.Days)
}

func (r *UpdateSettingsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.MaxVisitorInvitations != nil && (*r.MaxVisitorInvitations < 1 || *r.MaxVisitorInvitations > maxInvitations) {
		return dErrors.New(dErrors.CodeValidation, "max_visitor_invitations must be between 1 and 1000")
	}
	if r.InvitationValidityDays != nil && (*r.InvitationValidityDays < 1 || *r.InvitationValidityDays > maxValidityDays) {
		return dErrors.New(dErrors.CodeValidation, "invitation_validity_days must be between 1 and 365")
	}
	if r.MaxGroupSize != nil && (*r.MaxGroupSize < 1 || *r.MaxGroupSize > maxGroupSizeLimit) {
		return dErrors.New(dErrors.CodeValidation, "max_group_size must be between 1 and 500")
	}
	if r.BusinessHours != nil {
		return validateBusinessHours(r.BusinessHours)
	}
	return nil
}

func validateBusinessHours(h *BusinessHours) error {
	start, err := time.Parse("15:04", h.Start)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "business_hours.start must be HH:MM")
	}
	end, err := time.Parse("15:04", h.End)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "business_hours.end must be HH:MM")
	}
	if !end.After(start) {
		return dErrors.New(dErrors.CodeValidation, "business_hours.end must be after start")
	}
	for _, d := range h.Days {
		if !weekdays[d] {
			return dErrors.New(dErrors.CodeValidation, "business_hours.days must be weekday names")
		}
	}
	return nil
}

// Apply copies the set fields onto s.
func (r *UpdateSettingsRequest) Apply(s *Settings) {
	setInt(&s.MaxVisitorInvitations, r.MaxVisitorInvitations)
	setInt(&s.InvitationValidityDays, r.InvitationValidityDays)
	setInt(&s.MaxGroupSize, r.MaxGroupSize)
	setBool(&s.RequireDocumentVerification, r.RequireDocumentVerification)
	setBool(&s.AllowWalkInVisitors, r.AllowWalkInVisitors)
	setBool(&s.ParkingReservationEnabled, r.ParkingReservationEnabled)
	setBool(&s.FaceRecognitionEnabled, r.FaceRecognitionEnabled)
	setBool(&s.EmailNotificationsEnabled, r.EmailNotificationsEnabled)
	if r.BusinessHours != nil {
		s.BusinessHours = BusinessHours{
			Start: r.BusinessHours.Start,
			End:   r.BusinessHours.End,
			Days:  append([]string(nil), r.BusinessHours.Days...),
		}
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
