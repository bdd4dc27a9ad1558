package services

import (
	"fmt"

	"github.com/taskhub/task-hub-api/internal/constants"
	"github.com/taskhub/task-hub-api/internal/models"
	"github.com/taskhub/task-hub-api/internal/repository"
)

// PriorityCount is one {name, total} pair of the priority breakdown.
type PriorityCount struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// DashboardSummary is the derived, read-only aggregate view.
type DashboardSummary struct {
	TotalTasks      int                      `json:"total_tasks"`
	TasksByStage    map[models.TaskStage]int `json:"tasks_by_stage"`
	TasksByPriority []PriorityCount          `json:"tasks_by_priority"`
	Last10Tasks     []models.Task            `json:"last_10_tasks"`
	Users           []models.User            `json:"users"`
}

// DashboardService derives summary statistics from the task store. It never
// mutates anything.
type DashboardService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *DashboardService {
	return &DashboardService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// Summary aggregates the actor's visible non-trashed tasks: everything for
// admins, assigned tasks for everyone else. Recent users are included only
// for admins.
func (s *DashboardService) Summary(actor Actor) (*DashboardSummary, error) {
	filter := repository.TaskFilter{Trashed: false}
	if !actor.IsAdmin() {
		filter.MemberID = &actor.UserID
	}

	tasks, _, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	byStage := make(map[models.TaskStage]int)
	byPriority := make(map[models.TaskPriority]int)
	for _, t := range tasks {
		byStage[t.Stage]++
		byPriority[t.Priority]++
	}

	// Stable ordering for the priority pairs
	priorityOrder := []models.TaskPriority{
		models.PriorityHigh,
		models.PriorityMedium,
		models.PriorityNormal,
		models.PriorityLow,
	}
	pairs := make([]PriorityCount, 0, len(byPriority))
	for _, p := range priorityOrder {
		if total, ok := byPriority[p]; ok {
			pairs = append(pairs, PriorityCount{Name: string(p), Total: total})
		}
	}

	recent := tasks
	if len(recent) > constants.DashboardRecentTasks {
		recent = recent[:constants.DashboardRecentTasks]
	}

	users := []models.User{}
	if actor.IsAdmin() {
		users, err = s.userRepo.ListRecentActive(constants.DashboardRecentUsers)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent users: %w", err)
		}
	}

	return &DashboardSummary{
		TotalTasks:      len(tasks),
		TasksByStage:    byStage,
		TasksByPriority: pairs,
		Last10Tasks:     recent,
		Users:           users,
	}, nil
}
