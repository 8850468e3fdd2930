package user

import "time"

// Role is the authorization role carried by a user record and its tokens.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleUser      Role = "User"
	RoleEditor    Role = "Editor"
	RoleModerator Role = "Moderator"
)

// Roles lists every valid role in schema order.
var Roles = []Role{RoleAdmin, RoleUser, RoleEditor, RoleModerator}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a user entity in the domain
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHashed string
	Avatar         string
	Role           Role
	DialCode       string
	Phone          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
