package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/taskhub/task-hub-api/internal/models"
	"github.com/taskhub/task-hub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrTitleDateRequired     = errors.New("title and date are required")
	ErrTeamRequired          = errors.New("at least one team member must be assigned")
	ErrUnknownTeamMember     = errors.New("one or more team members do not exist")
	ErrSubTaskFieldsRequired = errors.New("subtask title and date are required")
	ErrActivityTextRequired  = errors.New("activity text is required")
	ErrAdminTaskProtected    = errors.New("admin-created tasks can only be modified by admins")
	ErrTaskAccessDenied      = errors.New("user does not have access to this task")
	ErrAdminOnly             = errors.New("only admins can perform this action")
	ErrUnknownActionType     = errors.New("unknown action type")

	// ErrNotificationFanOut signals a partial success: the task committed but
	// the notification fan-out failed. The created task is still returned so
	// the caller can retry delivery.
	ErrNotificationFanOut = errors.New("task created but notification delivery failed")
)

// Delete/restore action types accepted by DeleteRestoreTask.
const (
	ActionDelete     = "delete"
	ActionDeleteAll  = "deleteAll"
	ActionRestore    = "restore"
	ActionRestoreAll = "restoreAll"
)

// TaskService is the task lifecycle engine: it validates intents, enforces
// the role-based access rules and applies mutations against the task store,
// fanning out notifications on assignment.
type TaskService struct {
	taskRepo   repository.TaskRepository
	noticeRepo repository.NotificationRepository
	userRepo   repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, noticeRepo repository.NotificationRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		noticeRepo: noticeRepo,
		userRepo:   userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title    string
	Date     time.Time
	Team     []uint64
	Stage    string
	Priority string
	Assets   string
}

// UpdateTaskInput represents input for updating a task. Updates are a full
// overwrite: every field must be supplied, there is no keep-previous-value
// merging. This avoids silently clearing assignees on partial payloads.
type UpdateTaskInput struct {
	Title    string
	Date     time.Time
	Team     []uint64
	Stage    string
	Priority string
	Assets   string
}

// SubTaskInput represents input for appending a sub-task
type SubTaskInput struct {
	Title string
	Tag   string
	Date  time.Time
}

// ActivityInput represents input for posting an activity entry
type ActivityInput struct {
	Type     string
	Activity string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Trashed  bool
	Stage    string
	Page     int
	PageSize int
}

// CreateTask validates and creates a task, snapshots the creator's role,
// appends the assignment activity and fans out one notification to the team.
// A fan-out failure after the task commit returns the created task together
// with ErrNotificationFanOut.
func (s *TaskService) CreateTask(actor Actor, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" || input.Date.IsZero() {
		return nil, ErrTitleDateRequired
	}

	team := uniqueUint64(input.Team)
	if len(team) == 0 {
		return nil, ErrTeamRequired
	}
	if err := s.verifyUsersExist(team); err != nil {
		return nil, err
	}

	stage := models.NormalizeStage(input.Stage)
	priority := models.NormalizePriority(input.Priority)
	text := assignmentText(len(team), priority, input.Date)

	members := make([]models.TaskMember, len(team))
	for i, userID := range team {
		members[i] = models.TaskMember{UserID: userID}
	}

	task := &models.Task{
		Title:         input.Title,
		Date:          input.Date,
		Stage:         stage,
		Priority:      priority,
		Assets:        input.Assets,
		CreatedByID:   actor.UserID,
		CreatedByRole: actor.Role,
		Team:          members,
		Activities: []models.Activity{{
			Type:     models.ActivityAssigned,
			Activity: text,
			ByID:     actor.UserID,
		}},
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	recipients := make([]models.NotificationRecipient, len(team))
	for i, userID := range team {
		recipients[i] = models.NotificationRecipient{UserID: userID}
	}
	notice := &models.Notification{
		Text:       text,
		TaskID:     task.ID,
		Recipients: recipients,
	}

	if err := s.noticeRepo.Create(notice); err != nil {
		logrus.WithError(err).WithField("task_id", task.ID).
			Warn("notification fan-out failed after task commit")
		return task, fmt.Errorf("%w: %v", ErrNotificationFanOut, err)
	}

	return task, nil
}

// UpdateTask overwrites the mutable fields of a task and appends an update
// activity. Non-admins may never edit a task whose creator was an admin,
// regardless of current team membership.
func (s *TaskService) UpdateTask(actor Actor, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.CreatedByRole == models.RoleAdmin && !actor.IsAdmin() {
		return nil, ErrAdminTaskProtected
	}

	if strings.TrimSpace(input.Title) == "" || input.Date.IsZero() {
		return nil, ErrTitleDateRequired
	}
	team := uniqueUint64(input.Team)
	if len(team) == 0 {
		return nil, ErrTeamRequired
	}
	if err := s.verifyUsersExist(team); err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Date = input.Date
	task.Stage = models.NormalizeStage(input.Stage)
	task.Priority = models.NormalizePriority(input.Priority)
	task.Assets = input.Assets

	activity := &models.Activity{
		Type:     models.ActivityUpdate,
		Activity: "Task updated by user",
		ByID:     actor.UserID,
	}

	if err := s.taskRepo.UpdateWithActivity(task, team, activity); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "Team", "Team.User", "SubTasks", "Activities")
}

// TrashTask soft-deletes a task. Trashing an already-trashed task is a no-op
// success.
func (s *TaskService) TrashTask(actor Actor, taskID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if task.CreatedByRole == models.RoleAdmin && !actor.IsAdmin() {
		return ErrAdminTaskProtected
	}

	if err := s.taskRepo.SetTrashed(taskID, true); err != nil {
		return fmt.Errorf("failed to trash task: %w", err)
	}
	return nil
}

// DeleteRestoreTask is the trash state machine: delete and restore act on a
// single task, deleteAll and restoreAll act on every trashed task. Permanent
// deletion is unrecoverable.
func (s *TaskService) DeleteRestoreTask(actor Actor, actionType string, taskID uint64) error {
	switch actionType {
	case ActionDelete:
		task, err := s.findTask(taskID)
		if err != nil {
			return err
		}
		if task.CreatedByRole == models.RoleAdmin && !actor.IsAdmin() {
			return ErrAdminTaskProtected
		}
		if err := s.taskRepo.Delete(taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil

	case ActionDeleteAll:
		if !actor.IsAdmin() {
			return ErrAdminOnly
		}
		removed, err := s.taskRepo.DeleteTrashed()
		if err != nil {
			return fmt.Errorf("failed to delete trashed tasks: %w", err)
		}
		logrus.WithField("removed", removed).Info("emptied trash")
		return nil

	case ActionRestore:
		if _, err := s.findTask(taskID); err != nil {
			return err
		}
		if err := s.taskRepo.SetTrashed(taskID, false); err != nil {
			return fmt.Errorf("failed to restore task: %w", err)
		}
		return nil

	case ActionRestoreAll:
		if _, err := s.taskRepo.RestoreTrashed(); err != nil {
			return fmt.Errorf("failed to restore trashed tasks: %w", err)
		}
		return nil

	default:
		return ErrUnknownActionType
	}
}

// CreateSubTask appends a sub-task for admins, team members and the creator.
func (s *TaskService) CreateSubTask(actor Actor, taskID uint64, input SubTaskInput) (*models.SubTask, error) {
	if strings.TrimSpace(input.Title) == "" || input.Date.IsZero() {
		return nil, ErrSubTaskFieldsRequired
	}

	task, err := s.taskRepo.FindByID(taskID, "Team")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !s.canTouch(actor, task) {
		return nil, ErrTaskAccessDenied
	}

	sub := &models.SubTask{
		TaskID: taskID,
		Title:  input.Title,
		Tag:    input.Tag,
		Date:   input.Date,
	}
	activity := &models.Activity{
		TaskID:   taskID,
		Type:     models.ActivitySubTask,
		Activity: fmt.Sprintf("Added a subtask %q", input.Title),
		ByID:     actor.UserID,
	}

	if err := s.taskRepo.AppendSubTask(sub, activity); err != nil {
		return nil, fmt.Errorf("failed to append subtask: %w", err)
	}

	return sub, nil
}

// PostActivity appends an activity entry attributed to the actor. The same
// admin/member/creator check as CreateSubTask applies.
func (s *TaskService) PostActivity(actor Actor, taskID uint64, input ActivityInput) error {
	if strings.TrimSpace(input.Activity) == "" {
		return ErrActivityTextRequired
	}

	task, err := s.taskRepo.FindByID(taskID, "Team")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !s.canTouch(actor, task) {
		return ErrTaskAccessDenied
	}

	actType := models.ActivityType(strings.ToLower(strings.TrimSpace(input.Type)))
	if actType == "" {
		actType = models.ActivityCommented
	}

	activity := &models.Activity{
		TaskID:   taskID,
		Type:     actType,
		Activity: input.Activity,
		ByID:     actor.UserID,
	}

	if err := s.taskRepo.AppendActivity(activity); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// GetTask returns a single task. Admin-created tasks are visible to every
// user; otherwise the actor must be on the team, the creator, or an admin.
func (s *TaskService) GetTask(actor Actor, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "CreatedBy", "Team", "Team.User", "SubTasks", "Activities", "Activities.By")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.CreatedByRole == models.RoleAdmin || s.canTouch(actor, task) {
		return task, nil
	}
	return nil, ErrTaskAccessDenied
}

// ListTasks lists tasks the actor is assigned to or created, filtered by the
// trashed flag and an optional stage. Deliberately narrower than GetTask's
// visibility rule.
func (s *TaskService) ListTasks(actor Actor, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Trashed:           input.Trashed,
		MemberOrCreatorID: &actor.UserID,
		Page:              input.Page,
		PageSize:          input.PageSize,
	}
	if strings.TrimSpace(input.Stage) != "" {
		stage := models.NormalizeStage(input.Stage)
		filter.Stage = &stage
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// canTouch is the shared mutation/visibility check: admin, team member or
// creator.
func (s *TaskService) canTouch(actor Actor, task *models.Task) bool {
	return actor.IsAdmin() || task.HasMember(actor.UserID) || task.CreatedByID == actor.UserID
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) verifyUsersExist(ids []uint64) error {
	count, err := s.userRepo.CountByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to verify team members: %w", err)
	}
	if int(count) != len(ids) {
		return ErrUnknownTeamMember
	}
	return nil
}

// assignmentText builds the notification/activity message for a new task.
func assignmentText(teamSize int, priority models.TaskPriority, date time.Time) string {
	text := "New task has been assigned to you"
	if teamSize > 1 {
		text += fmt.Sprintf(" and %d others.", teamSize-1)
	}
	text += fmt.Sprintf(" The task priority is set at %s priority. The task date is %s.",
		strings.ToUpper(string(priority)), date.Format("Mon Jan 02 2006"))
	return text
}

// uniqueUint64 removes duplicate values while preserving order
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
