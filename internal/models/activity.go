package models

import "time"

type ActivityType string

const (
	ActivityAssigned  ActivityType = "assigned"
	ActivityStarted   ActivityType = "started"
	ActivityBug       ActivityType = "bug"
	ActivityCompleted ActivityType = "completed"
	ActivityCommented ActivityType = "commented"
	ActivityUpdate    ActivityType = "update"
	ActivitySubTask   ActivityType = "subtask"
)

// Activity is the per-task audit trail. Rows are only ever inserted, never
// updated or removed; append order follows transaction commit order.
type Activity struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	TaskID    uint64       `gorm:"not null;index" json:"task_id"`
	Type      ActivityType `gorm:"type:varchar(20);not null" json:"type"`
	Activity  string       `gorm:"type:text;not null" json:"activity"`
	ByID      uint64       `gorm:"not null" json:"by_id"`
	CreatedAt time.Time    `json:"created_at"`

	// Relations
	By User `gorm:"foreignKey:ByID" json:"by,omitempty"`
}
