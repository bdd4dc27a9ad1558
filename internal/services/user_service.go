package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskhub/task-hub-api/internal/models"
	"github.com/taskhub/task-hub-api/internal/repository"
	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("invalid role")

// UserService covers the user directory surface: team picking, profile
// maintenance and the admin-only role/removal operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// TeamList returns users matching the optional name query, for team-member
// picking.
func (s *UserService) TeamList(query string) ([]models.User, error) {
	users, err := s.userRepo.Search(strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// UpdateProfileInput holds the editable profile fields.
type UpdateProfileInput struct {
	Name  string
	Title string
}

// UpdateProfile updates the actor's own profile, or another user's when the
// actor is an admin and targetID is set.
func (s *UserService) UpdateProfile(actor Actor, targetID uint64, input UpdateProfileInput) (*models.User, error) {
	id := actor.UserID
	if targetID != 0 && actor.IsAdmin() {
		id = targetID
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		user.Title = title
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return user, nil
}

// UpdateRole flips a user between the user and admin roles. Admin only; the
// change does not rewrite createdByRole snapshots on existing tasks.
func (s *UserService) UpdateRole(actor Actor, userID uint64, role string) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	newRole := models.Role(strings.ToLower(strings.TrimSpace(role)))
	if !newRole.IsValid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Role = newRole
	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to save role: %w", err)
	}
	return user, nil
}

// Delete removes a user account. Admin only.
func (s *UserService) Delete(actor Actor, userID uint64) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
