package models

import (
	"strings"
	"time"
)

type NotePriority string

const (
	NotePriorityLow    NotePriority = "low"
	NotePriorityMedium NotePriority = "medium"
	NotePriorityHigh   NotePriority = "high"
)

// NormalizeNotePriority lower-cases the input and falls back to low when
// empty or unknown.
func NormalizeNotePriority(p string) NotePriority {
	switch NotePriority(strings.ToLower(strings.TrimSpace(p))) {
	case NotePriorityMedium:
		return NotePriorityMedium
	case NotePriorityHigh:
		return NotePriorityHigh
	default:
		return NotePriorityLow
	}
}

// Note is a private free-form note. Notes are strictly owner-scoped: no role
// grants access to another user's notes, and deletion is permanent.
type Note struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	Priority  NotePriority `gorm:"type:varchar(20);not null;default:'low'" json:"priority"`
	Tags      []string     `gorm:"serializer:json;type:text" json:"tags"`
	UserID    uint64       `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
