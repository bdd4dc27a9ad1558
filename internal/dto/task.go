package dto

import (
	"time"

	"github.com/taskhub/task-hub-api/internal/models"
	"github.com/taskhub/task-hub-api/internal/utils"
)

// SubTaskDTO represents a sub-task in API responses
type SubTaskDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Tag       string    `json:"tag,omitempty"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityDTO represents one audit-trail entry in API responses
type ActivityDTO struct {
	Type      models.ActivityType `json:"type"`
	Activity  string              `json:"activity"`
	ByID      uint64              `json:"by_id"`
	By        *UserDTO            `json:"by,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64              `json:"id"`
	Title         string              `json:"title"`
	Date          time.Time           `json:"date"`
	Stage         models.TaskStage    `json:"stage"`
	Priority      models.TaskPriority `json:"priority"`
	Assets        string              `json:"assets,omitempty"`
	CreatedByID   uint64              `json:"created_by_id"`
	CreatedByRole models.Role         `json:"created_by_role"`
	IsTrashed     bool                `json:"is_trashed"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	CreatedBy     *UserDTO            `json:"created_by,omitempty"`
	Team          []UserDTO           `json:"team"`
	SubTasks      []SubTaskDTO        `json:"sub_tasks,omitempty"`
	Activities    []ActivityDTO       `json:"activities,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// DashboardResponse is the serialized dashboard summary
type DashboardResponse struct {
	TotalTasks      int                      `json:"total_tasks"`
	TasksByStage    map[models.TaskStage]int `json:"tasks_by_stage"`
	TasksByPriority []PriorityCountDTO       `json:"tasks_by_priority"`
	Last10Tasks     []TaskDTO                `json:"last_10_tasks"`
	Users           []UserDTO                `json:"users"`
}

// PriorityCountDTO is one {name, total} pair of the priority breakdown
type PriorityCountDTO struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// ToSubTaskDTO converts a SubTask model
func ToSubTaskDTO(sub models.SubTask) SubTaskDTO {
	return SubTaskDTO{
		ID:        sub.ID,
		Title:     sub.Title,
		Tag:       sub.Tag,
		Date:      sub.Date,
		CreatedAt: sub.CreatedAt,
	}
}

// ToActivityDTO converts an Activity model
func ToActivityDTO(a models.Activity) ActivityDTO {
	dto := ActivityDTO{
		Type:      a.Type,
		Activity:  a.Activity,
		ByID:      a.ByID,
		CreatedAt: a.CreatedAt,
	}
	if a.By.ID != 0 {
		by := ToUserDTO(a.By)
		dto.By = &by
	}
	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		Title:         task.Title,
		Date:          task.Date,
		Stage:         task.Stage,
		Priority:      task.Priority,
		Assets:        task.Assets,
		CreatedByID:   task.CreatedByID,
		CreatedByRole: task.CreatedByRole,
		IsTrashed:     task.IsTrashed,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
		Team:          []UserDTO{},
	}

	if task.CreatedBy.ID != 0 {
		creator := ToUserDTO(task.CreatedBy)
		dto.CreatedBy = &creator
	}

	for _, m := range task.Team {
		if m.User.ID != 0 {
			dto.Team = append(dto.Team, ToUserDTO(m.User))
		} else {
			dto.Team = append(dto.Team, UserDTO{ID: m.UserID})
		}
	}

	if len(task.SubTasks) > 0 {
		dto.SubTasks = make([]SubTaskDTO, len(task.SubTasks))
		for i, sub := range task.SubTasks {
			dto.SubTasks[i] = ToSubTaskDTO(sub)
		}
	}

	if len(task.Activities) > 0 {
		dto.Activities = make([]ActivityDTO, len(task.Activities))
		for i, a := range task.Activities {
			dto.Activities[i] = ToActivityDTO(a)
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}
