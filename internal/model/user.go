package model

import "time"

// Role is one of the three fixed dashboard roles. Only admin may delete
// records; the two named user roles see the same data without the delete
// affordance.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDeepak  Role = "deepak"
	RoleShivaji Role = "shivaji"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDeepak, RoleShivaji:
		return true
	}
	return false
}

// CanDelete reports whether the role holds delete permission.
func (r Role) CanDelete() bool {
	return r == RoleAdmin
}

// User is a dashboard account. The three accounts are seeded at bootstrap
// and passwords are stored as plain text.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Lookup is one row of a dropdown source table (plants, departments).
type Lookup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
