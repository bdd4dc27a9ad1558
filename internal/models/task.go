package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type TaskStage string

const (
	StageTodo       TaskStage = "todo"
	StageInProgress TaskStage = "in progress"
	StageCompleted  TaskStage = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// NormalizeStage lower-cases the input and falls back to todo when empty or
// unknown.
func NormalizeStage(s string) TaskStage {
	switch TaskStage(strings.ToLower(strings.TrimSpace(s))) {
	case StageInProgress:
		return StageInProgress
	case StageCompleted:
		return StageCompleted
	default:
		return StageTodo
	}
}

// NormalizePriority lower-cases the input and falls back to normal when empty
// or unknown.
func NormalizePriority(p string) TaskPriority {
	switch TaskPriority(strings.ToLower(strings.TrimSpace(p))) {
	case PriorityLow:
		return PriorityLow
	case PriorityMedium:
		return PriorityMedium
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// Task is the aggregate root. CreatedByRole is a snapshot of the creator's
// role at creation time and is never re-derived from the user record: it
// drives the admin-authored edit protection even if the creator's role
// changes later.
type Task struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Date          time.Time      `gorm:"not null" json:"date"`
	Stage         TaskStage      `gorm:"type:varchar(20);not null;default:'todo'" json:"stage"`
	Priority      TaskPriority   `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	Assets        string         `gorm:"type:text" json:"assets"`
	CreatedByID   uint64         `gorm:"not null" json:"created_by_id"`
	CreatedByRole Role           `gorm:"type:varchar(20);not null" json:"created_by_role"`
	IsTrashed     bool           `gorm:"not null;default:false;index" json:"is_trashed"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedBy  User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Team       []TaskMember `gorm:"foreignKey:TaskID" json:"team,omitempty"`
	SubTasks   []SubTask    `gorm:"foreignKey:TaskID" json:"sub_tasks,omitempty"`
	Activities []Activity   `gorm:"foreignKey:TaskID" json:"activities,omitempty"`
}

// HasMember reports whether the user is on the task's team. Requires the Team
// relation to be loaded.
func (t *Task) HasMember(userID uint64) bool {
	for _, m := range t.Team {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TeamIDs returns the user ids on the task's team in insertion order.
func (t *Task) TeamIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Team))
	for _, m := range t.Team {
		ids = append(ids, m.UserID)
	}
	return ids
}

type TaskMember struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
