package models

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	dErrors "gatehouse/pkg/domain-errors"
)

const (
	maxNameLength   = 128
	maxFieldLength  = 256
	maxNotesLength  = 2000
	maxBulkCheckOut = 200
)

// CheckInRequest is the front-desk check-in form.
type CheckInRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Company          string `json:"company"`
	Purpose          string `json:"purpose"`
	HostName         string `json:"host_name"`
	HostID           string `json:"host_id"`
	InvitationID     string `json:"invitation_id"`
	HasInvitation    bool   `json:"has_invitation"`
	Notes            string `json:"notes"`
	GroupSize        int    `json:"group_size"`
	DocumentVerified bool   `json:"document_verified"`
	ParkingSpot      string `json:"parking_spot"`
}

func (r *CheckInRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.Purpose = strings.TrimSpace(r.Purpose)
	r.HostName = strings.TrimSpace(r.HostName)
	r.HostID = strings.TrimSpace(r.HostID)
	r.InvitationID = strings.TrimSpace(r.InvitationID)
	r.Notes = strings.TrimSpace(r.Notes)
	r.ParkingSpot = strings.TrimSpace(r.ParkingSpot)
	if r.InvitationID != "" {
		r.HasInvitation = true
	}
	if r.GroupSize == 0 {
		r.GroupSize = 1
	}
}

// Validate checks size, then presence, then syntax.
func (r *CheckInRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if utf8.RuneCountInString(r.Name) > maxNameLength || utf8.RuneCountInString(r.HostName) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "names must be 128 characters or less")
	}
	if len(r.Email) > maxFieldLength || len(r.Phone) > maxFieldLength || len(r.Company) > maxFieldLength || len(r.Purpose) > maxFieldLength {
		return dErrors.New(dErrors.CodeValidation, "contact fields must be 256 characters or less")
	}
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.HostName == "" {
		return dErrors.New(dErrors.CodeValidation, "host_name is required")
	}
	if r.Purpose == "" {
		return dErrors.New(dErrors.CodeValidation, "purpose is required")
	}
	if r.GroupSize < 1 {
		return dErrors.New(dErrors.CodeValidation, "group_size must be at least 1")
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return dErrors.New(dErrors.CodeValidation, "email is not a valid email address")
		}
	}
	return nil
}

// UpdateVisitorRequest carries a partial update; nil fields are untouched.
type UpdateVisitorRequest struct {
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Company          *string `json:"company,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	ParkingSpot      *string `json:"parking_spot,omitempty"`
	DocumentVerified *bool   `json:"document_verified,omitempty"`
}

func (r *UpdateVisitorRequest) Normalize() {
	if r == nil {
		return
	}
	for _, f := range []*string{r.Phone, r.Company, r.Notes, r.ParkingSpot} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
}

func (r *UpdateVisitorRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Notes != nil && len(*r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less")
	}
	if r.Email != nil && *r.Email != "" {
		if _, err := mail.ParseAddress(*r.Email); err != nil {
			return dErrors.New(dErrors.CodeValidation, "email is not a valid email address")
		}
	}
	return nil
}

// Apply copies the set fields onto v.
func (r *UpdateVisitorRequest) Apply(v *Visitor) {
	if r.Email != nil {
		v.Email = *r.Email
	}
	if r.Phone != nil {
		v.Phone = *r.Phone
	}
	if r.Company != nil {
		v.Company = *r.Company
	}
	if r.Notes != nil {
		v.Notes = *r.Notes
	}
	if r.ParkingSpot != nil {
		v.ParkingSpot = *r.ParkingSpot
	}
	if r.DocumentVerified != nil {
		v.DocumentVerified = *r.DocumentVerified
	}
}

// BulkCheckOutRequest names the visitors to check out together.
type BulkCheckOutRequest struct {
	VisitorIDs []string `json:"visitor_ids"`
}

// Normalize trims each id. Blanks and repeats are kept so every submitted
// id gets its own result.
func (r *BulkCheckOutRequest) Normalize() {
	if r == nil {
		return
	}
	for i, raw := range r.VisitorIDs {
		r.VisitorIDs[i] = strings.TrimSpace(raw)
	}
}

// Validate accepts an empty list; only the batch size is bounded.
func (r *BulkCheckOutRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.VisitorIDs) > maxBulkCheckOut {
		return dErrors.New(dErrors.CodeValidation, "visitor_ids must list 200 ids or fewer")
	}
	return nil
}
