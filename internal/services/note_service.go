package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskhub/task-hub-api/internal/models"
	"github.com/taskhub/task-hub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNoteNotFound        = errors.New("note not found")
	ErrNoteContentRequired = errors.New("note content is required")
	ErrNoteAccessDenied    = errors.New("user does not have access to this note")
)

// NoteService covers the private notes surface. Notes never participate in
// the task authorization rules: the owner is the only user who can read or
// mutate them, admins included.
type NoteService struct {
	noteRepo repository.NoteRepository
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo repository.NoteRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo}
}

// CreateNoteInput represents input for creating a note
type CreateNoteInput struct {
	Content  string
	Priority string
	Tags     []string
}

// UpdateNoteInput represents input for updating a note. Unlike task updates,
// note updates merge: fields left empty keep their previous value.
type UpdateNoteInput struct {
	Content  string
	Priority string
	Tags     []string
}

// CreateNote validates and creates a note owned by the actor.
func (s *NoteService) CreateNote(actor Actor, input CreateNoteInput) (*models.Note, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrNoteContentRequired
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	note := &models.Note{
		Content:  input.Content,
		Priority: models.NormalizeNotePriority(input.Priority),
		Tags:     tags,
		UserID:   actor.UserID,
	}

	if err := s.noteRepo.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// UpdateNote merges the provided fields into the actor's note.
func (s *NoteService) UpdateNote(actor Actor, noteID uint64, input UpdateNoteInput) (*models.Note, error) {
	note, err := s.findOwnedNote(actor, noteID)
	if err != nil {
		return nil, err
	}

	if content := strings.TrimSpace(input.Content); content != "" {
		note.Content = input.Content
	}
	if strings.TrimSpace(input.Priority) != "" {
		note.Priority = models.NormalizeNotePriority(input.Priority)
	}
	if input.Tags != nil {
		note.Tags = input.Tags
	}

	if err := s.noteRepo.Save(note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	return note, nil
}

// ListNotes returns the actor's notes, newest first, optionally filtered by a
// content search term.
func (s *NoteService) ListNotes(actor Actor, search string) ([]models.Note, error) {
	notes, err := s.noteRepo.ListByOwner(actor.UserID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// DeleteNote permanently removes the actor's note.
func (s *NoteService) DeleteNote(actor Actor, noteID uint64) error {
	if _, err := s.findOwnedNote(actor, noteID); err != nil {
		return err
	}

	if err := s.noteRepo.Delete(noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *NoteService) findOwnedNote(actor Actor, noteID uint64) (*models.Note, error) {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	if note.UserID != actor.UserID {
		return nil, ErrNoteAccessDenied
	}
	return note, nil
}
