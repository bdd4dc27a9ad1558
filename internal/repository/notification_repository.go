package repository

import (
	"time"

	"github.com/taskhub/task-hub-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a notification; recipient rows set on the struct are
// inserted in the same transaction by the association writer.
func (r *GormNotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(id uint64) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.Preload("Recipients").First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByRecipient lists notifications addressed to a user, newest first
func (r *GormNotificationRepository) ListByRecipient(userID uint64) ([]models.Notification, error) {
	var notifications []models.Notification

	recipientSubQuery := r.db.Model(&models.NotificationRecipient{}).
		Select("1").
		Where("notification_recipients.notification_id = notifications.id").
		Where("notification_recipients.user_id = ?", userID)

	err := r.db.Model(&models.Notification{}).
		Where("EXISTS (?)", recipientSubQuery).
		Order("notifications.created_at DESC, notifications.id DESC").
		Preload("Recipients").
		Preload("Task").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead stamps the recipient row if it is still unread. Already-read rows
// and non-recipients are a no-op, which makes the operation idempotent.
func (r *GormNotificationRepository) MarkRead(notificationID, userID uint64) error {
	now := time.Now()
	return r.db.Model(&models.NotificationRecipient{}).
		Where("notification_id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", &now).Error
}

// MarkAllRead stamps every unread recipient row for the user
func (r *GormNotificationRepository) MarkAllRead(userID uint64) (int64, error) {
	now := time.Now()
	res := r.db.Model(&models.NotificationRecipient{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", &now)
	return res.RowsAffected, res.Error
}
