package dto

import (
	"time"

	"github.com/taskhub/task-hub-api/internal/models"
)

// NotificationDTO represents a notification in API responses, with the read
// flag resolved for the requesting user.
type NotificationDTO struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	TaskID    uint64    `json:"task_id"`
	TaskTitle string    `json:"task_title,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToNotificationDTO converts a Notification for one recipient
func ToNotificationDTO(n models.Notification, userID uint64) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Text:      n.Text,
		TaskID:    n.TaskID,
		TaskTitle: n.Task.Title,
		IsRead:    n.IsReadBy(userID),
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationDTOs converts a slice of notifications for one recipient
func ToNotificationDTOs(notifications []models.Notification, userID uint64) []NotificationDTO {
	out := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		out[i] = ToNotificationDTO(n, userID)
	}
	return out
}
