package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskhub/task-hub-api/internal/constants"
	"github.com/taskhub/task-hub-api/internal/database"
	"github.com/taskhub/task-hub-api/internal/dto"
	apierrors "github.com/taskhub/task-hub-api/internal/errors"
	"github.com/taskhub/task-hub-api/internal/models"
	"github.com/taskhub/task-hub-api/internal/repository"
	"github.com/taskhub/task-hub-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fanOutFailRepo simulates a broken notification store so the handler's
// partial-success envelope can be exercised end to end.
type fanOutFailRepo struct {
	repository.NotificationRepository
}

func (r *fanOutFailRepo) Create(n *models.Notification) error {
	return errors.New("notification store unavailable")
}

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	taskService *services.TaskService
	handler     *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskMember{},
		&models.SubTask{},
		&models.Activity{},
		&models.Notification{},
		&models.NotificationRecipient{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	noticeRepo := repository.NewNotificationRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)

	suite.taskService = services.NewTaskService(taskRepo, noticeRepo, userRepo)
	dashboardService := services.NewDashboardService(taskRepo, userRepo)
	suite.handler = NewTaskHandler(suite.taskService, dashboardService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(name, email string, role models.Role) *models.User {
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(creator *models.User, title string, team ...uint64) *models.Task {
	task, err := suite.taskService.CreateTask(
		services.Actor{UserID: creator.ID, Role: creator.Role},
		services.CreateTaskInput{
			Title: title,
			Date:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Team:  team,
		},
	)
	suite.Require().NoError(err)
	return task
}

func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyActor, services.Actor{UserID: user.ID, Role: user.Role})

	return c, w
}

func (suite *TaskHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
}

func (suite *TaskHandlerTestSuite) countActivities(taskID uint64) int64 {
	var count int64
	suite.db.Model(&models.Activity{}).Where("task_id = ?", taskID).Count(&count)
	return count
}

// TestCreateTask_Defaults verifies stage/priority defaults, the role
// snapshot, the assignment activity and the notification fan-out.
func (suite *TaskHandlerTestSuite) TestCreateTask_Defaults() {
	admin := suite.createTestUser("Alice", "alice@example.com", models.RoleAdmin)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	carol := suite.createTestUser("Carol", "carol@example.com", models.RoleUser)

	requestBody := map[string]interface{}{
		"title": "Ship report",
		"date":  "2024-05-01T00:00:00Z",
		"team":  []uint64{bob.ID, carol.ID},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, admin)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]json.RawMessage
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.NotContains(suite.T(), response, "warning")

	var task models.Task
	err = suite.db.Preload("Team").Preload("Activities").First(&task).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StageTodo, task.Stage)
	assert.Equal(suite.T(), models.PriorityNormal, task.Priority)
	assert.Equal(suite.T(), admin.ID, task.CreatedByID)
	assert.Equal(suite.T(), models.RoleAdmin, task.CreatedByRole)
	assert.Len(suite.T(), task.Team, 2)

	// Exactly one assigned activity mentioning the extra assignee
	assert.Len(suite.T(), task.Activities, 1)
	assert.Equal(suite.T(), models.ActivityAssigned, task.Activities[0].Type)
	assert.Contains(suite.T(), task.Activities[0].Activity, "1 others")
	assert.Contains(suite.T(), task.Activities[0].Activity, "NORMAL")

	// One notification, fanned out to both assignees, unread for each
	var notifications []models.Notification
	suite.db.Preload("Recipients").Find(&notifications)
	assert.Len(suite.T(), notifications, 1)
	assert.Equal(suite.T(), task.ID, notifications[0].TaskID)
	assert.Len(suite.T(), notifications[0].Recipients, 2)
	assert.False(suite.T(), notifications[0].IsReadBy(bob.ID))
	assert.False(suite.T(), notifications[0].IsReadBy(carol.ID))
}

// TestCreateTask_MissingFields tests creation without title or date
func (suite *TaskHandlerTestSuite) TestCreateTask_MissingFields() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	requestBody := map[string]interface{}{
		"team": []uint64{user.ID},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_EmptyTeam tests creation with no assignees
func (suite *TaskHandlerTestSuite) TestCreateTask_EmptyTeam() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	requestBody := map[string]interface{}{
		"title": "No team",
		"date":  "2024-05-01T00:00:00Z",
		"team":  []uint64{},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)
}

// TestCreateTask_UnknownTeamMember tests creation with a non-existent user
func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownTeamMember() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	requestBody := map[string]interface{}{
		"title": "Ghost team",
		"date":  "2024-05-01T00:00:00Z",
		"team":  []uint64{user.ID, 9999},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_NormalizesEnums tests lower-casing of stage and priority
func (suite *TaskHandlerTestSuite) TestCreateTask_NormalizesEnums() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	requestBody := map[string]interface{}{
		"title":    "Mixed case",
		"date":     "2024-05-01T00:00:00Z",
		"team":     []uint64{user.ID},
		"stage":    "In Progress",
		"priority": "HIGH",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var task models.Task
	suite.db.First(&task)
	assert.Equal(suite.T(), models.StageInProgress, task.Stage)
	assert.Equal(suite.T(), models.PriorityHigh, task.Priority)
}

// TestCreateTask_FanOutWarning tests that a failed notification delivery
// still returns the committed task plus a warning envelope
func (suite *TaskHandlerTestSuite) TestCreateTask_FanOutWarning() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	broken := services.NewTaskService(
		repository.NewTaskRepository(suite.db),
		&fanOutFailRepo{},
		repository.NewUserRepository(suite.db),
	)
	handler := NewTaskHandler(broken, services.NewDashboardService(
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
	))

	requestBody := map[string]interface{}{
		"title": "Delivered despite outage",
		"date":  "2024-05-01T00:00:00Z",
		"team":  []uint64{user.ID},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user)
	handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response struct {
		Task    dto.TaskDTO         `json:"task"`
		Warning *apierrors.APIError `json:"warning"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Delivered despite outage", response.Task.Title)
	suite.Require().NotNil(response.Warning)
	assert.Equal(suite.T(), apierrors.ErrCodeFanOutFailed, response.Warning.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestUpdateTask_Success verifies the full overwrite and the appended
// update activity
func (suite *TaskHandlerTestSuite) TestUpdateTask_Success() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	task := suite.createTestTask(user, "Original", user.ID)

	requestBody := map[string]interface{}{
		"title":    "Updated title",
		"date":     "2024-06-01T00:00:00Z",
		"team":     []uint64{bob.ID},
		"stage":    "completed",
		"priority": "high",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Task
	suite.db.Preload("Team").Preload("Activities").First(&updated, task.ID)
	assert.Equal(suite.T(), "Updated title", updated.Title)
	assert.Equal(suite.T(), models.StageCompleted, updated.Stage)
	assert.Equal(suite.T(), models.PriorityHigh, updated.Priority)
	assert.Len(suite.T(), updated.Team, 1)
	assert.Equal(suite.T(), bob.ID, updated.Team[0].UserID)

	// Role snapshot unchanged, activity appended
	assert.Equal(suite.T(), models.RoleUser, updated.CreatedByRole)
	assert.Len(suite.T(), updated.Activities, 2)
	assert.Equal(suite.T(), models.ActivityUpdate, updated.Activities[1].Type)
}

// TestUpdateTask_AdminProtected tests that a team member cannot edit an
// admin-authored task
func (suite *TaskHandlerTestSuite) TestUpdateTask_AdminProtected() {
	admin := suite.createTestUser("Alice", "alice@example.com", models.RoleAdmin)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	task := suite.createTestTask(admin, "Ship report", bob.ID)

	requestBody := map[string]interface{}{
		"title":    "Hijacked",
		"date":     "2024-06-01T00:00:00Z",
		"team":     []uint64{bob.ID},
		"stage":    "todo",
		"priority": "low",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, bob)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var unchanged models.Task
	suite.db.First(&unchanged, task.ID)
	assert.Equal(suite.T(), "Ship report", unchanged.Title)
}

// TestUpdateTask_NotFound tests updating an unknown task
func (suite *TaskHandlerTestSuite) TestUpdateTask_NotFound() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	requestBody := map[string]interface{}{
		"title":    "Nothing here",
		"date":     "2024-06-01T00:00:00Z",
		"team":     []uint64{user.ID},
		"stage":    "todo",
		"priority": "low",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/42", body, user)
	suite.setIDParam(c, 42)
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestTrashTask_Idempotent tests that trashing twice succeeds
func (suite *TaskHandlerTestSuite) TestTrashTask_Idempotent() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	task := suite.createTestTask(user, "Trash me", user.ID)

	for i := 0; i < 2; i++ {
		c, w := suite.createAuthContext("PATCH", "/api/tasks/1/trash", nil, user)
		suite.setIDParam(c, task.ID)
		suite.handler.TrashTask(c)
		assert.Equal(suite.T(), http.StatusOK, w.Code)
	}

	var trashed models.Task
	suite.db.First(&trashed, task.ID)
	assert.True(suite.T(), trashed.IsTrashed)
}

// TestTrashTask_AdminProtected tests the owner-role rule on trash
func (suite *TaskHandlerTestSuite) TestTrashTask_AdminProtected() {
	admin := suite.createTestUser("Alice", "alice@example.com", models.RoleAdmin)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	task := suite.createTestTask(admin, "Protected", bob.ID)

	c, w := suite.createAuthContext("PATCH", "/api/tasks/1/trash", nil, bob)
	suite.setIDParam(c, task.ID)
	suite.handler.TrashTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListTasks_ExcludesTrashed tests the trashed flag filter
func (suite *TaskHandlerTestSuite) TestListTasks_ExcludesTrashed() {
	admin := suite.createTestUser("Alice", "alice@example.com", models.RoleAdmin)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	task := suite.createTestTask(admin, "Going away", bob.ID)

	c, _ := suite.createAuthContext("PATCH", "/api/tasks/1/trash", nil, admin)
	suite.setIDParam(c, task.ID)
	suite.handler.TrashTask(c)

	// Bob's default listing no longer contains it
	c, w := suite.createAuthContext("GET", "/api/tasks", nil, bob)
	suite.handler.ListTasks(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []map[string]interface{} `json:"tasks"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), response.Tasks)

	// The trash listing shows it
	c, w = suite.createAuthContext("GET", "/api/tasks?trashed=true", nil, bob)
	suite.handler.ListTasks(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Tasks, 1)
}

// TestListTasks_StageFilter tests filtering by stage
func (suite *TaskHandlerTestSuite) TestListTasks_StageFilter() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	suite.createTestTask(user, "First", user.ID)

	task2, err := suite.taskService.CreateTask(
		services.Actor{UserID: user.ID, Role: user.Role},
		services.CreateTaskInput{
			Title: "Second",
			Date:  time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Team:  []uint64{user.ID},
			Stage: "completed",
		},
	)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("GET", "/api/tasks?stage=completed", nil, user)
	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []struct {
			ID uint64 `json:"id"`
		} `json:"tasks"`
	}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Tasks, 1)
	assert.Equal(suite.T(), task2.ID, response.Tasks[0].ID)
}

// TestListTasks_MemberOrCreatorOnly tests that listings never include
// unrelated tasks, even admin-authored ones
func (suite *TaskHandlerTestSuite) TestListTasks_MemberOrCreatorOnly() {
	admin := suite.createTestUser("Alice", "alice@example.com", models.RoleAdmin)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	dave := suite.createTestUser("Dave", "dave@example.com", models.RoleUser)
	suite.createTestTask(admin, "Not yours", bob.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, dave)
	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []map[string]interface{} `json:"tasks"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), response.Tasks)
}

// TestGetTask_AdminAuthoredVisibleToAll tests the broad single-task
// visibility rule for admin-authored tasks
func (suite *TaskHandlerTestSuite) TestGetTask_AdminAuthoredVisibleToAll() {
	admin := suite.createTestUser("Alice", "alice@example.com", models.RoleAdmin)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	dave := suite.createTestUser("Dave", "dave@example.com", models.RoleUser)
	task := suite.createTestTask(admin, "Everyone may look", bob.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, dave)
	suite.setIDParam(c, task.ID)
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestGetTask_AccessDenied tests that outsiders cannot view user-authored
// tasks
func (suite *TaskHandlerTestSuite) TestGetTask_AccessDenied() {
	alice := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	dave := suite.createTestUser("Dave", "dave@example.com", models.RoleUser)
	task := suite.createTestTask(alice, "Private", alice.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, dave)
	suite.setIDParam(c, task.ID)
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestGetTask_NotFound tests fetching an unknown task
func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	c, w := suite.createAuthContext("GET", "/api/tasks/42", nil, user)
	suite.setIDParam(c, 42)
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteRestore_Delete tests permanent removal of one task
func (suite *TaskHandlerTestSuite) TestDeleteRestore_Delete() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	task := suite.createTestTask(user, "Doomed", user.ID)

	url := fmt.Sprintf("/api/tasks/delete-restore?action_type=delete&id=%d", task.ID)
	c, w := suite.createAuthContext("DELETE", url, nil, user)
	suite.handler.DeleteRestoreTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Unscoped().Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)
	assert.Zero(suite.T(), suite.countActivities(task.ID))
}

// TestDeleteRestore_DeleteAdminProtected tests that a non-admin cannot
// permanently delete an admin-authored task
func (suite *TaskHandlerTestSuite) TestDeleteRestore_DeleteAdminProtected() {
	admin := suite.createTestUser("Alice", "alice@example.com", models.RoleAdmin)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	task := suite.createTestTask(admin, "Protected", bob.ID)

	url := fmt.Sprintf("/api/tasks/delete-restore?action_type=delete&id=%d", task.ID)
	c, w := suite.createAuthContext("DELETE", url, nil, bob)
	suite.handler.DeleteRestoreTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteRestore_DeleteAllRequiresAdmin tests the admin gate on deleteAll
func (suite *TaskHandlerTestSuite) TestDeleteRestore_DeleteAllRequiresAdmin() {
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/delete-restore?action_type=deleteAll", nil, bob)
	suite.handler.DeleteRestoreTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteRestore_DeleteAll tests that only trashed tasks are removed
func (suite *TaskHandlerTestSuite) TestDeleteRestore_DeleteAll() {
	admin := suite.createTestUser("Alice", "alice@example.com", models.RoleAdmin)
	keep := suite.createTestTask(admin, "Keep", admin.ID)
	toss := suite.createTestTask(admin, "Toss", admin.ID)

	suite.Require().NoError(suite.taskService.TrashTask(
		services.Actor{UserID: admin.ID, Role: admin.Role}, toss.ID))

	c, w := suite.createAuthContext("DELETE", "/api/tasks/delete-restore?action_type=deleteAll", nil, admin)
	suite.handler.DeleteRestoreTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var remaining []models.Task
	suite.db.Find(&remaining)
	assert.Len(suite.T(), remaining, 1)
	assert.Equal(suite.T(), keep.ID, remaining[0].ID)
}

// TestDeleteRestore_RestoreAll tests that restoreAll untrashes everything
// and leaves non-trashed tasks untouched
func (suite *TaskHandlerTestSuite) TestDeleteRestore_RestoreAll() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	actor := services.Actor{UserID: user.ID, Role: user.Role}

	t1 := suite.createTestTask(user, "One", user.ID)
	t2 := suite.createTestTask(user, "Two", user.ID)
	suite.createTestTask(user, "Three", user.ID)

	suite.Require().NoError(suite.taskService.TrashTask(actor, t1.ID))
	suite.Require().NoError(suite.taskService.TrashTask(actor, t2.ID))

	c, w := suite.createAuthContext("DELETE", "/api/tasks/delete-restore?action_type=restoreAll", nil, user)
	suite.handler.DeleteRestoreTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var trashedCount int64
	suite.db.Model(&models.Task{}).Where("is_trashed = ?", true).Count(&trashedCount)
	assert.Zero(suite.T(), trashedCount)

	var total int64
	suite.db.Model(&models.Task{}).Count(&total)
	assert.Equal(suite.T(), int64(3), total)
}

// TestDeleteRestore_RestoreNotFound tests restoring an unknown task
func (suite *TaskHandlerTestSuite) TestDeleteRestore_RestoreNotFound() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/delete-restore?action_type=restore&id=42", nil, user)
	suite.handler.DeleteRestoreTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestDeleteRestore_UnknownAction tests rejecting unknown action types
func (suite *TaskHandlerTestSuite) TestDeleteRestore_UnknownAction() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/delete-restore?action_type=explode", nil, user)
	suite.handler.DeleteRestoreTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateSubTask_Success tests appending a sub-task with its activity
func (suite *TaskHandlerTestSuite) TestCreateSubTask_Success() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	task := suite.createTestTask(user, "Parent", user.ID)

	requestBody := map[string]interface{}{
		"title": "Collect figures",
		"tag":   "research",
		"date":  "2024-05-02T00:00:00Z",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/subtasks", body, user)
	suite.setIDParam(c, task.ID)
	suite.handler.CreateSubTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var subTasks []models.SubTask
	suite.db.Where("task_id = ?", task.ID).Find(&subTasks)
	assert.Len(suite.T(), subTasks, 1)
	assert.Equal(suite.T(), "Collect figures", subTasks[0].Title)

	assert.Equal(suite.T(), int64(2), suite.countActivities(task.ID))
}

// TestCreateSubTask_AccessDenied tests that an outsider cannot append a
// sub-task and that nothing is written on failure
func (suite *TaskHandlerTestSuite) TestCreateSubTask_AccessDenied() {
	alice := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	dave := suite.createTestUser("Dave", "dave@example.com", models.RoleUser)
	task := suite.createTestTask(alice, "Parent", alice.ID)

	requestBody := map[string]interface{}{
		"title": "Sneaky",
		"date":  "2024-05-02T00:00:00Z",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/subtasks", body, dave)
	suite.setIDParam(c, task.ID)
	suite.handler.CreateSubTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var subCount int64
	suite.db.Model(&models.SubTask{}).Where("task_id = ?", task.ID).Count(&subCount)
	assert.Zero(suite.T(), subCount)
	assert.Equal(suite.T(), int64(1), suite.countActivities(task.ID))
}

// TestCreateSubTask_MissingFields tests validation of title and date
func (suite *TaskHandlerTestSuite) TestCreateSubTask_MissingFields() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	task := suite.createTestTask(user, "Parent", user.ID)

	requestBody := map[string]interface{}{
		"tag": "no title or date",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/subtasks", body, user)
	suite.setIDParam(c, task.ID)
	suite.handler.CreateSubTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestPostActivity_Success tests appending a free-form activity entry
func (suite *TaskHandlerTestSuite) TestPostActivity_Success() {
	user := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	bob := suite.createTestUser("Bob", "bob@example.com", models.RoleUser)
	task := suite.createTestTask(user, "Parent", bob.ID)

	requestBody := map[string]interface{}{
		"type":     "commented",
		"activity": "Waiting on the design review",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/activities", body, bob)
	suite.setIDParam(c, task.ID)
	suite.handler.PostActivity(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), int64(2), suite.countActivities(task.ID))
}

// TestPostActivity_AccessDenied tests that outsiders cannot post activity
func (suite *TaskHandlerTestSuite) TestPostActivity_AccessDenied() {
	alice := suite.createTestUser("Alice", "alice@example.com", models.RoleUser)
	dave := suite.createTestUser("Dave", "dave@example.com", models.RoleUser)
	task := suite.createTestTask(alice, "Parent", alice.ID)

	requestBody := map[string]interface{}{
		"activity": "Outsider note",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/activities", body, dave)
	suite.setIDParam(c, task.ID)
	suite.handler.PostActivity(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Equal(suite.T(), int64(1), suite.countActivities(task.ID))
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
