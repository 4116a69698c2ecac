package user

import (
	"github.com/google/uuid"
)

type Role string

const (
	// RoleAdmin manages the catalog and allocates stock to coordinators.
	RoleAdmin Role = "admin"
	// RoleCoordinator conducts workshops and distributes allocated materials.
	RoleCoordinator Role = "coordinator"
	// RoleViewer has read-only access to reports.
	RoleViewer Role = "viewer"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCoordinator, RoleViewer:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Principal is the authenticated caller handed to every mutation; the
// capability checks in the command layer run against it.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}
