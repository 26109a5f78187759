package models

// Role is the privilege level stored on a user. Ordering matters:
// user < moderator < admin.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleUser:      1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r is at least as privileged as min.
// Unknown roles (including the empty string for anonymous callers) rank below user.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}
