package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskhub/task-hub-api/internal/constants"
	"github.com/taskhub/task-hub-api/internal/database"
	"github.com/taskhub/task-hub-api/internal/dto"
	"github.com/taskhub/task-hub-api/internal/models"
	"github.com/taskhub/task-hub-api/internal/repository"
	"github.com/taskhub/task-hub-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type userTestEnv struct {
	db      *gorm.DB
	handler *UserHandler
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userRepo)
	handler := NewUserHandler(userService, authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{db: db, handler: handler}
}

func createUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func userContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
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

func TestUserHandler_TeamList_Search(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := createUser(t, env.db, "Alice", "alice@example.com", models.RoleUser)
	createUser(t, env.db, "Bob", "bob@example.com", models.RoleUser)
	createUser(t, env.db, "Alina", "alina@example.com", models.RoleUser)

	c, w := userContext(http.MethodGet, "/api/users/team?search=Al", nil, alice)
	env.handler.TeamList(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Users []dto.UserDTO `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Users, 2)
}

func TestUserHandler_UpdateProfile_Self(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := createUser(t, env.db, "Alice", "alice@example.com", models.RoleUser)

	body, _ := json.Marshal(map[string]interface{}{
		"name":  "Alice Cooper",
		"title": "Staff Engineer",
	})
	c, w := userContext(http.MethodPut, "/api/users/profile", body, alice)
	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, env.db.First(&updated, alice.ID).Error)
	require.Equal(t, "Alice Cooper", updated.Name)
	require.Equal(t, "Staff Engineer", updated.Title)
}

func TestUserHandler_UpdateProfile_AdminTargetsOther(t *testing.T) {
	env := setupUserTestEnv(t)

	admin := createUser(t, env.db, "Admin", "admin@example.com", models.RoleAdmin)
	bob := createUser(t, env.db, "Bob", "bob@example.com", models.RoleUser)

	body, _ := json.Marshal(map[string]interface{}{
		"id":   bob.ID,
		"name": "Robert",
	})
	c, w := userContext(http.MethodPut, "/api/users/profile", body, admin)
	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, env.db.First(&updated, bob.ID).Error)
	require.Equal(t, "Robert", updated.Name)
}

func TestUserHandler_UpdateProfile_NonAdminCannotTargetOther(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := createUser(t, env.db, "Alice", "alice@example.com", models.RoleUser)
	bob := createUser(t, env.db, "Bob", "bob@example.com", models.RoleUser)

	// A non-admin supplying someone else's id still edits their own profile
	body, _ := json.Marshal(map[string]interface{}{
		"id":   bob.ID,
		"name": "Hijacked",
	})
	c, w := userContext(http.MethodPut, "/api/users/profile", body, alice)
	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var target models.User
	require.NoError(t, env.db.First(&target, bob.ID).Error)
	require.Equal(t, "Bob", target.Name)

	var self models.User
	require.NoError(t, env.db.First(&self, alice.ID).Error)
	require.Equal(t, "Hijacked", self.Name)
}

func TestUserHandler_UpdateRole(t *testing.T) {
	env := setupUserTestEnv(t)

	admin := createUser(t, env.db, "Admin", "admin@example.com", models.RoleAdmin)
	bob := createUser(t, env.db, "Bob", "bob@example.com", models.RoleUser)

	body, _ := json.Marshal(map[string]string{"role": "admin"})
	c, w := userContext(http.MethodPut, fmt.Sprintf("/api/users/%d/role", bob.ID), body, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", bob.ID)}}
	env.handler.UpdateRole(c)

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, env.db.First(&updated, bob.ID).Error)
	require.Equal(t, models.RoleAdmin, updated.Role)
}

func TestUserHandler_UpdateRole_InvalidRole(t *testing.T) {
	env := setupUserTestEnv(t)

	admin := createUser(t, env.db, "Admin", "admin@example.com", models.RoleAdmin)
	bob := createUser(t, env.db, "Bob", "bob@example.com", models.RoleUser)

	body, _ := json.Marshal(map[string]string{"role": "superuser"})
	c, w := userContext(http.MethodPut, fmt.Sprintf("/api/users/%d/role", bob.ID), body, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", bob.ID)}}
	env.handler.UpdateRole(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_DeleteUser(t *testing.T) {
	env := setupUserTestEnv(t)

	admin := createUser(t, env.db, "Admin", "admin@example.com", models.RoleAdmin)
	bob := createUser(t, env.db, "Bob", "bob@example.com", models.RoleUser)

	c, w := userContext(http.MethodDelete, fmt.Sprintf("/api/users/%d", bob.ID), nil, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", bob.ID)}}
	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	err := env.db.First(&models.User{}, bob.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserHandler_DeleteUser_NotFound(t *testing.T) {
	env := setupUserTestEnv(t)

	admin := createUser(t, env.db, "Admin", "admin@example.com", models.RoleAdmin)

	c, w := userContext(http.MethodDelete, "/api/users/999", nil, admin)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	env.handler.DeleteUser(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
