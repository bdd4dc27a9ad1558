package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/taskhub/task-hub-api/internal/config"
	"github.com/taskhub/task-hub-api/internal/constants"
	"github.com/taskhub/task-hub-api/internal/database"
	"github.com/taskhub/task-hub-api/internal/handlers"
	"github.com/taskhub/task-hub-api/internal/middleware"
	"github.com/taskhub/task-hub-api/internal/repository"
	"github.com/taskhub/task-hub-api/internal/services"
)

func main() {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)
	if cfg.GinMode == "release" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := database.Connect(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	r := gin.Default()

	// Session middleware backed by Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"", // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create redis session store")
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Repositories
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	noticeRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, noticeRepo, userRepo)
	notificationService := services.NewNotificationService(noticeRepo)
	dashboardService := services.NewDashboardService(taskRepo, userRepo)
	noteService := services.NewNoteService(noteRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	taskHandler := handlers.NewTaskHandler(taskService, dashboardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	noteHandler := handlers.NewNoteHandler(noteService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Hub API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/team", userHandler.TeamList)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/change-password", userHandler.ChangePassword)
			users.PUT("/:id/role", middleware.RequireAdmin(), userHandler.UpdateRole)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/dashboard", taskHandler.Dashboard)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/trash", taskHandler.TrashTask)
			tasks.DELETE("/delete-restore", taskHandler.DeleteRestoreTask)
			tasks.POST("/:id/subtasks", taskHandler.CreateSubTask)
			tasks.POST("/:id/activities", taskHandler.PostActivity)
		}

		notes := api.Group("/notes")
		notes.Use(middleware.RequireAuth())
		{
			notes.POST("", noteHandler.CreateNote)
			notes.GET("", noteHandler.ListNotes)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		}
	}

	logrus.WithField("addr", cfg.ServerAddr).Info("server starting")
	if err := r.Run(cfg.ServerAddr); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
