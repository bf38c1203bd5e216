package domain

// Role represents an account's permission level
type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// AllRoles contains all valid roles in ascending privilege order
var AllRoles = []Role{RoleUser, RoleEditor, RoleAdmin}

// IsValid checks if a role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// RoleSet is a fixed set of roles allowed to call a route.
type RoleSet map[Role]struct{}

// Roles builds a RoleSet. Invalid roles are ignored.
func Roles(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.IsValid() {
			set[r] = struct{}{}
		}
	}
	return set
}

// Contains reports whether r is a member of the set
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}
