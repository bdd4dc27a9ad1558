package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/task-hub-api/internal/dto"
	apierrors "github.com/taskhub/task-hub-api/internal/errors"
	"github.com/taskhub/task-hub-api/internal/middleware"
	"github.com/taskhub/task-hub-api/internal/services"
	"github.com/taskhub/task-hub-api/internal/utils"
)

// TaskHandler exposes the task lifecycle and dashboard over HTTP.
type TaskHandler struct {
	taskService      *services.TaskService
	dashboardService *services.DashboardService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, dashboardService *services.DashboardService) *TaskHandler {
	return &TaskHandler{
		taskService:      taskService,
		dashboardService: dashboardService,
	}
}

// CreateTask creates a new task and fans out assignment notifications
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title    string    `json:"title" binding:"required"`
		Date     time.Time `json:"date" binding:"required"`
		Team     []uint64  `json:"team" binding:"required"`
		Stage    string    `json:"stage"`
		Priority string    `json:"priority"`
		Assets   string    `json:"assets"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:    req.Title,
		Date:     req.Date,
		Team:     req.Team,
		Stage:    req.Stage,
		Priority: req.Priority,
		Assets:   req.Assets,
	})
	if err != nil {
		// Partial success: the task committed but the fan-out failed. Report
		// it so the caller can retry delivery instead of losing it silently.
		if errors.Is(err, services.ErrNotificationFanOut) && task != nil {
			c.JSON(http.StatusCreated, gin.H{
				"task":    dto.ToTaskDTO(*task),
				"warning": apierrors.NewAPIError(apierrors.ErrCodeFanOutFailed, err.Error()),
			})
			return
		}
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskDTO(*task)})
}

// ListTasks lists tasks the current user is assigned to or created
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(actor, services.ListTasksInput{
		Trashed:  c.Query("trashed") == "true",
		Stage:    c.Query("stage"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks: dto.ToTaskDTOs(tasks),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a single task with team, sub-tasks and activity log
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(actor, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask overwrites the mutable fields of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	// Full overwrite: all mutable fields are required so a partial payload
	// cannot silently clear assignees.
	type UpdateTaskRequest struct {
		Title    string    `json:"title" binding:"required"`
		Date     time.Time `json:"date" binding:"required"`
		Team     []uint64  `json:"team" binding:"required"`
		Stage    string    `json:"stage" binding:"required"`
		Priority string    `json:"priority" binding:"required"`
		Assets   string    `json:"assets"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(actor, taskID, services.UpdateTaskInput{
		Title:    req.Title,
		Date:     req.Date,
		Team:     req.Team,
		Stage:    req.Stage,
		Priority: req.Priority,
		Assets:   req.Assets,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// TrashTask moves a task to the trash
func (h *TaskHandler) TrashTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.TrashTask(actor, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task trashed successfully"})
}

// DeleteRestoreTask handles delete, deleteAll, restore and restoreAll
func (h *TaskHandler) DeleteRestoreTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	actionType := c.Query("action_type")

	var taskID uint64
	if idStr := c.Query("id"); idStr != "" {
		parsed, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}
		taskID = parsed
	}

	if err := h.taskService.DeleteRestoreTask(actor, actionType, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Operation '" + actionType + "' performed successfully"})
}

// CreateSubTask appends a sub-task to a task
func (h *TaskHandler) CreateSubTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type SubTaskRequest struct {
		Title string    `json:"title" binding:"required"`
		Tag   string    `json:"tag"`
		Date  time.Time `json:"date" binding:"required"`
	}

	var req SubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.taskService.CreateSubTask(actor, taskID, services.SubTaskInput{
		Title: req.Title,
		Tag:   req.Tag,
		Date:  req.Date,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sub_task": dto.ToSubTaskDTO(*sub)})
}

// PostActivity appends an activity entry to a task's audit trail
func (h *TaskHandler) PostActivity(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type ActivityRequest struct {
		Type     string `json:"type"`
		Activity string `json:"activity" binding:"required"`
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.PostActivity(actor, taskID, services.ActivityInput{
		Type:     req.Type,
		Activity: req.Activity,
	}); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Activity posted successfully"})
}

// Dashboard returns the derived summary statistics
func (h *TaskHandler) Dashboard(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	summary, err := h.dashboardService.Summary(actor)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute dashboard")
		return
	}

	pairs := make([]dto.PriorityCountDTO, len(summary.TasksByPriority))
	for i, p := range summary.TasksByPriority {
		pairs[i] = dto.PriorityCountDTO{Name: p.Name, Total: p.Total}
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		TotalTasks:      summary.TotalTasks,
		TasksByStage:    summary.TasksByStage,
		TasksByPriority: pairs,
		Last10Tasks:     dto.ToTaskDTOs(summary.Last10Tasks),
		Users:           dto.ToUserDTOs(summary.Users),
	})
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return id, true
}

// respondTaskError maps service sentinels onto the API error envelope.
// Authorization failures are surfaced as 403, distinct from 404, so callers
// can tell permission from existence.
func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAdminTaskProtected),
		errors.Is(err, services.ErrTaskAccessDenied),
		errors.Is(err, services.ErrAdminOnly):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleDateRequired),
		errors.Is(err, services.ErrTeamRequired),
		errors.Is(err, services.ErrUnknownTeamMember),
		errors.Is(err, services.ErrSubTaskFieldsRequired),
		errors.Is(err, services.ErrActivityTextRequired),
		errors.Is(err, services.ErrUnknownActionType):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
