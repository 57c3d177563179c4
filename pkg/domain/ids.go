package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "gatehouse/pkg/domain-errors"
)

// Record identities are opaque prefixed UUIDs ("inv-…", "vis-…", "p-…") so an
// operator can tell them apart in logs, while user ids are bare UUIDs.
//
// Construct via the New* functions; parse external input with the Parse*
// functions at trust boundaries. Direct casting bypasses validation.
type (
	InvitationID string
	VisitorID    string
	SpaceID      string
	UserID       uuid.UUID
)

const (
	invitationPrefix = "inv-"
	visitorPrefix    = "vis-"
	spacePrefix      = "p-"

	maxIDLength = 64
)

func NewInvitationID() InvitationID { return InvitationID(invitationPrefix + uuid.NewString()) }
func NewVisitorID() VisitorID       { return VisitorID(visitorPrefix + uuid.NewString()) }
func NewSpaceID() SpaceID           { return SpaceID(spacePrefix + uuid.NewString()) }
func NewUserID() UserID             { return UserID(uuid.New()) }

// ParseInvitationID validates an invitation id from external input.
func ParseInvitationID(s string) (InvitationID, error) {
	v, err := parsePrefixed(s, invitationPrefix, "invitation id")
	return InvitationID(v), err
}

// ParseVisitorID validates a visitor id from external input.
func ParseVisitorID(s string) (VisitorID, error) {
	v, err := parsePrefixed(s, visitorPrefix, "visitor id")
	return VisitorID(v), err
}

// ParseSpaceID validates a parking space id from external input.
func ParseSpaceID(s string) (SpaceID, error) {
	v, err := parsePrefixed(s, spacePrefix, "parking space id")
	return SpaceID(v), err
}

// ParseUserID validates a user id from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

func parsePrefixed(s, prefix, label string) (string, error) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	u, err := parseUUID(rest, label)
	if err != nil {
		return "", err
	}
	return prefix + u.String(), nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	u, err := uuid.Parse(s)
	if err != nil || u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return u, nil
}

func (id InvitationID) String() string { return string(id) }
func (id VisitorID) String() string    { return string(id) }
func (id SpaceID) String() string      { return string(id) }

func (id UserID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the user id is the zero value.
func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets UserID serialize as its UUID string.
func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText parses a UUID string into a UserID.
func (id *UserID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}
