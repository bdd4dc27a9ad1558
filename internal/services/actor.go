package services

import "github.com/taskhub/task-hub-api/internal/models"

// Actor is the authenticated identity performing an operation. Every service
// operation takes an explicit Actor; there is no ambient current-user state.
type Actor struct {
	UserID uint64
	Role   models.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}
