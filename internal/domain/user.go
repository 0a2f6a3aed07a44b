package domain

import "time"

// Role is one of the fixed back-office roles.
type Role string

const (
	// RoleAdmin has full access to every resource.
	RoleAdmin Role = "ADMIN"
	// RoleDepot manages the depot and delivery assignments.
	RoleDepot Role = "DEPOT"
	// RoleCommercial handles complaints on the commercial side.
	RoleCommercial Role = "COMMERCIAL"
	// RoleGerant is a station manager placing orders and filing complaints.
	RoleGerant Role = "GERANT"
)

// KnownRole reports whether r belongs to the fixed role set.
func KnownRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleDepot, RoleCommercial, RoleGerant:
		return true
	}
	return false
}

// User is a back-office account. Referenced by ownership fields on orders
// and complaints.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
}
