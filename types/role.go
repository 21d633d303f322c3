package types

import "fmt"

// Role is the closed set of account roles. Free-form role strings from the
// transport layer are parsed into a Role before they reach the services.
type Role string

const (
	RoleMentee Role = "mentee"
	RoleMentor Role = "mentor"
	RoleAdmin  Role = "admin"
)

// Authority name constants matching the stored grant names.
const (
	AuthorityMentee = "ROLE_MENTEE"
	AuthorityMentor = "ROLE_MENTOR"
	AuthorityAdmin  = "ROLE_ADMIN"
)

// ParseRole maps a role string to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMentee, RoleMentor, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Authority returns the grant name for the role.
func (r Role) Authority() string {
	switch r {
	case RoleMentor:
		return AuthorityMentor
	case RoleAdmin:
		return AuthorityAdmin
	default:
		return AuthorityMentee
	}
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleMentee, RoleMentor, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
