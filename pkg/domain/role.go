package domain

import dErrors "gatehouse/pkg/domain-errors"

// Role is the access role of an authenticated user.
// Invariant: the value must be one of the supported roles.
type Role string

const (
	RoleResident     Role = "resident"
	RoleReceptionist Role = "receptionist"
	RoleAdmin        Role = "admin"
)

var validRoles = map[Role]bool{
	RoleResident:     true,
	RoleReceptionist: true,
	RoleAdmin:        true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be 'resident', 'receptionist', or 'admin'")
	}
	return r, nil
}

func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}
