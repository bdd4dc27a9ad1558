package services

import (
	"errors"
	"fmt"

	"github.com/taskhub/task-hub-api/internal/models"
	"github.com/taskhub/task-hub-api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService exposes the pull-based notification read surface.
// Fan-out creation happens inside TaskService as part of task creation.
type NotificationService struct {
	noticeRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(noticeRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{noticeRepo: noticeRepo}
}

// List returns all notifications addressed to the actor, newest first.
func (s *NotificationService) List(actor Actor) ([]models.Notification, error) {
	notifications, err := s.noticeRepo.ListByRecipient(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead acknowledges one notification for the actor. Idempotent: marking
// an already-read notification succeeds without effect.
func (s *NotificationService) MarkRead(actor Actor, notificationID uint64) error {
	if _, err := s.noticeRepo.FindByID(notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}

	if err := s.noticeRepo.MarkRead(notificationID, actor.UserID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead acknowledges every unread notification for the actor. Each
// row update is independently idempotent, so partial progress on failure is
// safe to retry.
func (s *NotificationService) MarkAllRead(actor Actor) (int64, error) {
	marked, err := s.noticeRepo.MarkAllRead(actor.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return marked, nil
}
