package models

import "strings"

// Role is a coarse permission tier. Higher roles are permitted everywhere lower ones are.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleAnonymous: 0,
	RoleUser:      1,
	RoleStaff:     2,
	RoleAdmin:     3,
}

// AtLeast reports whether r is min or higher. Unknown roles rank as anonymous.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// ParseProfileRole maps a stored profile role to a Role; anything unrecognised is a plain user.
func ParseProfileRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleStaff:
		return RoleStaff
	default:
		return RoleUser
	}
}
