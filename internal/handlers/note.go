package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/task-hub-api/internal/dto"
	apierrors "github.com/taskhub/task-hub-api/internal/errors"
	"github.com/taskhub/task-hub-api/internal/middleware"
	"github.com/taskhub/task-hub-api/internal/services"
)

// NoteHandler exposes the private notes surface over HTTP.
type NoteHandler struct {
	noteService *services.NoteService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// CreateNote creates a note owned by the current user
func (h *NoteHandler) CreateNote(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateNoteRequest struct {
		Content  string   `json:"content" binding:"required"`
		Priority string   `json:"priority"`
		Tags     []string `json:"tags"`
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.CreateNote(actor, services.CreateNoteInput{
		Content:  req.Content,
		Priority: req.Priority,
		Tags:     req.Tags,
	})
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": dto.ToNoteDTO(*note)})
}

// ListNotes lists the current user's notes, optionally filtered by content
func (h *NoteHandler) ListNotes(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	notes, err := h.noteService.ListNotes(actor, c.Query("search"))
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": dto.ToNoteDTOs(notes)})
}

// UpdateNote merges changes into one of the current user's notes
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	noteID, ok := parseNoteIDParam(c)
	if !ok {
		return
	}

	type UpdateNoteRequest struct {
		Content  string   `json:"content"`
		Priority string   `json:"priority"`
		Tags     []string `json:"tags"`
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.UpdateNote(actor, noteID, services.UpdateNoteInput{
		Content:  req.Content,
		Priority: req.Priority,
		Tags:     req.Tags,
	})
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": dto.ToNoteDTO(*note)})
}

// DeleteNote permanently removes one of the current user's notes
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	noteID, ok := parseNoteIDParam(c)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(actor, noteID); err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note removed"})
}

func parseNoteIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid note ID")
		return 0, false
	}
	return id, true
}

func respondNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoteNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNoteAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNoteContentRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
