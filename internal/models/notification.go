package models

import "time"

// Notification records a task-assignment event fanned out to a set of
// recipients. The task reference is weak: hard-deleting a task does not
// cascade to its notifications.
type Notification struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task       Task                    `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Recipients []NotificationRecipient `gorm:"foreignKey:NotificationID" json:"recipients,omitempty"`
}

// NotificationRecipient is one row per recipient. A row existing means the
// user is in the notification's team; ReadAt being set means the user has
// acknowledged it. Marking read twice is a no-op.
type NotificationRecipient struct {
	NotificationID uint64     `gorm:"primarykey" json:"notification_id"`
	UserID         uint64     `gorm:"primarykey" json:"user_id"`
	ReadAt         *time.Time `json:"read_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsReadBy reports whether the user has acknowledged the notification.
// Requires the Recipients relation to be loaded.
func (n *Notification) IsReadBy(userID uint64) bool {
	for _, r := range n.Recipients {
		if r.UserID == userID {
			return r.ReadAt != nil
		}
	}
	return false
}
