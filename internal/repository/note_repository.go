package repository

import (
	"github.com/taskhub/task-hub-api/internal/models"
	"gorm.io/gorm"
)

// GormNoteRepository is a GORM implementation of NoteRepository
type GormNoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &GormNoteRepository{db: db}
}

// Create creates a note
func (r *GormNoteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

// FindByID finds a note by ID
func (r *GormNoteRepository) FindByID(id uint64) (*models.Note, error) {
	var note models.Note
	if err := r.db.First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// ListByOwner lists a user's notes, newest first, optionally filtered by a
// content substring.
func (r *GormNoteRepository) ListByOwner(userID uint64, search string) ([]models.Note, error) {
	var notes []models.Note
	q := r.db.Model(&models.Note{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if search != "" {
		q = q.Where("content LIKE ?", "%"+search+"%")
	}
	if err := q.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// Save persists changes to a note
func (r *GormNoteRepository) Save(note *models.Note) error {
	return r.db.Save(note).Error
}

// Delete permanently removes a note
func (r *GormNoteRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Note{}, id).Error
}
