package repository

import (
	"github.com/taskhub/task-hub-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task together with its team, activities and
	// sub-tasks in one transaction.
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// UpdateWithActivity saves the task's scalar fields, replaces its team
	// and appends an activity record atomically.
	UpdateWithActivity(task *models.Task, team []uint64, activity *models.Activity) error

	// SetTrashed flips the soft-delete flag
	SetTrashed(id uint64, trashed bool) error

	// AppendSubTask appends a sub-task and its activity record atomically
	AppendSubTask(sub *models.SubTask, activity *models.Activity) error

	// AppendActivity appends a single activity record
	AppendActivity(activity *models.Activity) error

	// Delete permanently removes a task and its embedded records
	Delete(id uint64) error

	// DeleteTrashed permanently removes every trashed task
	DeleteTrashed() (int64, error)

	// RestoreTrashed untrashes every trashed task
	RestoreTrashed() (int64, error)
}

// TaskFilter holds filtering options for listing tasks. MemberOrCreatorID
// restricts to tasks the user is assigned to or created (the listing rule);
// MemberID restricts to assignment only (the dashboard rule).
type TaskFilter struct {
	Trashed           bool
	Stage             *models.TaskStage
	MemberOrCreatorID *uint64
	MemberID          *uint64
	Page              int
	PageSize          int
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification with its recipient rows
	Create(n *models.Notification) error

	// FindByID finds a notification by ID
	FindByID(id uint64) (*models.Notification, error)

	// ListByRecipient lists notifications addressed to a user, newest first
	ListByRecipient(userID uint64) ([]models.Notification, error)

	// MarkRead marks one notification read for a user; a no-op when already
	// read or when the user is not a recipient.
	MarkRead(notificationID, userID uint64) error

	// MarkAllRead marks every unread notification read for a user
	MarkAllRead(userID uint64) (int64, error)
}

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	// Create creates a note
	Create(note *models.Note) error

	// FindByID finds a note by ID
	FindByID(id uint64) (*models.Note, error)

	// ListByOwner lists a user's notes, newest first, optionally filtered by
	// a content substring
	ListByOwner(userID uint64, search string) ([]models.Note, error)

	// Save persists changes to a note
	Save(note *models.Note) error

	// Delete permanently removes a note
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Search lists users whose name matches the query (all users when empty)
	Search(query string) ([]models.User, error)

	// ListRecentActive lists the most recently created active users
	ListRecentActive(limit int) ([]models.User, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ids []uint64) (int64, error)

	// Save persists changes to a user
	Save(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error
}
