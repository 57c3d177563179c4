package audit

import "time"

// EventCategory separates security-relevant events from routine front-desk activity.
type EventCategory string

const (
	CategorySecurity   EventCategory = "security"
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	ActorID   string        `json:"actor_id,omitempty"`
	ActorRole string        `json:"actor_role,omitempty"`
	Subject   string        `json:"subject"`
	Reason    string        `json:"reason,omitempty"`
	Resource  string        `json:"resource,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	ClientIP  string        `json:"client_ip,omitempty"`
}

type AuditEvent string

const (
	// Invitation events
	EventInvitationCreated   AuditEvent = "invitation_created"
	EventInvitationUpdated   AuditEvent = "invitation_updated"
	EventInvitationCancelled AuditEvent = "invitation_cancelled"
	EventInvitationValidated AuditEvent = "invitation_validated"
	EventInvitationRejected  AuditEvent = "invitation_rejected"
	EventInvitationsExpired  AuditEvent = "invitations_expired"

	// Visitor events
	EventVisitorCheckedIn  AuditEvent = "visitor_checked_in"
	EventVisitorCheckedOut AuditEvent = "visitor_checked_out"
	EventVisitorUpdated    AuditEvent = "visitor_updated"

	// Admin events
	EventParkingSpaceAdded   AuditEvent = "parking_space_added"
	EventParkingSpaceUpdated AuditEvent = "parking_space_updated"
	EventParkingSpaceDeleted AuditEvent = "parking_space_deleted"
	EventSettingsUpdated     AuditEvent = "settings_updated"

	// User events
	EventUserRegistered AuditEvent = "user_registered"
	EventUserLoggedIn   AuditEvent = "user_logged_in"
	EventAuthFailed     AuditEvent = "auth_failed"
	EventUserApproved   AuditEvent = "user_approved"
	EventUserRejected   AuditEvent = "user_rejected"
	EventUserSuspended  AuditEvent = "user_suspended"
	EventUserDeleted    AuditEvent = "user_deleted"
)

func (e AuditEvent) String() string { return string(e) }

// Category returns the category an action is filed under.
func (e AuditEvent) Category() EventCategory {
	switch e {
	case EventAuthFailed, EventUserApproved, EventUserRejected, EventUserSuspended,
		EventUserDeleted, EventSettingsUpdated, EventInvitationRejected:
		return CategorySecurity
	default:
		return CategoryOperations
	}
}
