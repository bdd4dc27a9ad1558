package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyActor  = "actor"
)

// Authentication
const (
	MinPasswordLength = 8
	SessionName       = "taskhub_session"
	SessionMaxAge     = 86400 * 7 // 7 days
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Dashboard
const (
	DashboardRecentTasks = 10
	DashboardRecentUsers = 10
)
