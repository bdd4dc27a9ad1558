package models

import "time"

// SubTask rows are append-only: the API surface offers no edit or delete of
// an individual sub-task.
type SubTask struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	Title     string    `gorm:"not null" json:"title"`
	Tag       string    `gorm:"type:varchar(100)" json:"tag"`
	Date      time.Time `gorm:"not null" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
