package models

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	dErrors "gatehouse/pkg/domain-errors"
)

const (
	maxNameLength  = 128
	maxFieldLength = 256
	maxNotesLength = 2000
)

// CreateInvitationRequest is the payload residents submit.
type CreateInvitationRequest struct {
	VisitorName      string `json:"visitor_name"`
	VisitorEmail     string `json:"visitor_email"`
	VisitorPhone     string `json:"visitor_phone"`
	VisitDate        string `json:"visit_date"`
	VisitTime        string `json:"visit_time"`
	Purpose          string `json:"purpose"`
	ResidentID       string `json:"resident_id"`
	ResidentName     string `json:"resident_name"`
	ParkingReserved  bool   `json:"parking_reserved"`
	ParkingSpot      string `json:"parking_spot"`
	DocumentAttached bool   `json:"document_attached"`
	DocumentURL      string `json:"document_url"`
	Notes            string `json:"notes"`
}

func (r *CreateInvitationRequest) Normalize() {
	if r == nil {
		return
	}
	r.VisitorName = strings.TrimSpace(r.VisitorName)
	r.VisitorEmail = strings.ToLower(strings.TrimSpace(r.VisitorEmail))
	r.VisitorPhone = strings.TrimSpace(r.VisitorPhone)
	r.VisitDate = strings.TrimSpace(r.VisitDate)
	r.VisitTime = strings.TrimSpace(r.VisitTime)
	r.Purpose = strings.TrimSpace(r.Purpose)
	r.ResidentID = strings.TrimSpace(r.ResidentID)
	r.ResidentName = strings.TrimSpace(r.ResidentName)
	r.ParkingSpot = strings.TrimSpace(r.ParkingSpot)
	r.DocumentURL = strings.TrimSpace(r.DocumentURL)
	r.Notes = strings.TrimSpace(r.Notes)
}

// Validate checks size, then presence, then syntax.
func (r *CreateInvitationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	// Phase 1: Size validation
	if utf8.RuneCountInString(r.VisitorName) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "visitor_name must be 128 characters or less")
	}
	if len(r.VisitorEmail) > maxFieldLength || len(r.VisitorPhone) > maxFieldLength || len(r.Purpose) > maxFieldLength {
		return dErrors.New(dErrors.CodeValidation, "contact fields must be 256 characters or less")
	}
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less")
	}
	// Phase 2: Required fields
	if r.VisitorName == "" {
		return dErrors.New(dErrors.CodeValidation, "visitor_name is required")
	}
	if r.VisitDate == "" || r.VisitTime == "" {
		return dErrors.New(dErrors.CodeValidation, "visit_date and visit_time are required")
	}
	if r.ResidentID == "" {
		return dErrors.New(dErrors.CodeValidation, "resident_id is required")
	}
	// Phase 3: Syntax
	if r.VisitorEmail != "" {
		if _, err := mail.ParseAddress(r.VisitorEmail); err != nil {
			return dErrors.New(dErrors.CodeValidation, "visitor_email is not a valid email address")
		}
	}
	if r.ParkingSpot != "" && !r.ParkingReserved {
		return dErrors.New(dErrors.CodeValidation, "parking_spot requires parking_reserved")
	}
	return nil
}

// UpdateInvitationRequest carries a partial update; nil fields are untouched.
type UpdateInvitationRequest struct {
	VisitorName      *string `json:"visitor_name,omitempty"`
	VisitorEmail     *string `json:"visitor_email,omitempty"`
	VisitorPhone     *string `json:"visitor_phone,omitempty"`
	Purpose          *string `json:"purpose,omitempty"`
	ParkingReserved  *bool   `json:"parking_reserved,omitempty"`
	ParkingSpot      *string `json:"parking_spot,omitempty"`
	DocumentAttached *bool   `json:"document_attached,omitempty"`
	DocumentURL      *string `json:"document_url,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

func (r *UpdateInvitationRequest) Normalize() {
	if r == nil {
		return
	}
	for _, f := range []*string{r.VisitorName, r.VisitorPhone, r.Purpose, r.ParkingSpot, r.DocumentURL, r.Notes} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if r.VisitorEmail != nil {
		*r.VisitorEmail = strings.ToLower(strings.TrimSpace(*r.VisitorEmail))
	}
}

func (r *UpdateInvitationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.VisitorName != nil {
		if *r.VisitorName == "" {
			return dErrors.New(dErrors.CodeValidation, "visitor_name cannot be empty")
		}
		if utf8.RuneCountInString(*r.VisitorName) > maxNameLength {
			return dErrors.New(dErrors.CodeValidation, "visitor_name must be 128 characters or less")
		}
	}
	if r.Notes != nil && len(*r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less")
	}
	if r.VisitorEmail != nil && *r.VisitorEmail != "" {
		if _, err := mail.ParseAddress(*r.VisitorEmail); err != nil {
			return dErrors.New(dErrors.CodeValidation, "visitor_email is not a valid email address")
		}
	}
	return nil
}

// Apply copies the set fields onto inv.
func (r *UpdateInvitationRequest) Apply(inv *Invitation) {
	setString(&inv.VisitorName, r.VisitorName)
	setString(&inv.VisitorEmail, r.VisitorEmail)
	setString(&inv.VisitorPhone, r.VisitorPhone)
	setString(&inv.Purpose, r.Purpose)
	setString(&inv.ParkingSpot, r.ParkingSpot)
	setString(&inv.DocumentURL, r.DocumentURL)
	setString(&inv.Notes, r.Notes)
	if r.ParkingReserved != nil {
		inv.ParkingReserved = *r.ParkingReserved
		if !inv.ParkingReserved {
			inv.ParkingSpot = ""
		}
	}
	if r.DocumentAttached != nil {
		inv.DocumentAttached = *r.DocumentAttached
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// CancelInvitationRequest carries the optional cancellation reason.
type CancelInvitationRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelInvitationRequest) Normalize() {
	if r != nil {
		r.Reason = strings.TrimSpace(r.Reason)
	}
}

func (r *CancelInvitationRequest) Validate() error {
	if r != nil && len(r.Reason) > maxFieldLength {
		return dErrors.New(dErrors.CodeValidation, "reason must be 256 characters or less")
	}
	return nil
}

// ValidateInvitationRequest is the code presented at the front desk.
type ValidateInvitationRequest struct {
	Code string `json:"code"`
}

func (r *ValidateInvitationRequest) Normalize() {
	if r != nil {
		r.Code = strings.TrimSpace(r.Code)
	}
}

func (r *ValidateInvitationRequest) Validate() error {
	if r == nil || r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	if len(r.Code) > maxFieldLength {
		return dErrors.New(dErrors.CodeValidation, "code must be 256 characters or less")
	}
	return nil
}
