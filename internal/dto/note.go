package dto

import (
	"time"

	"github.com/taskhub/task-hub-api/internal/models"
)

// NoteDTO represents a note in API responses
type NoteDTO struct {
	ID        uint64              `json:"id"`
	Content   string              `json:"content"`
	Priority  models.NotePriority `json:"priority"`
	Tags      []string            `json:"tags"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ToNoteDTO converts a Note model to NoteDTO
func ToNoteDTO(note models.Note) NoteDTO {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteDTO{
		ID:        note.ID,
		Content:   note.Content,
		Priority:  note.Priority,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// ToNoteDTOs converts a slice of notes
func ToNoteDTOs(notes []models.Note) []NoteDTO {
	out := make([]NoteDTO, len(notes))
	for i, n := range notes {
		out[i] = ToNoteDTO(n)
	}
	return out
}
