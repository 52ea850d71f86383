package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Roles
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Project statuses
const (
	ProjectActive    = "ACTIVE"
	ProjectOnHold    = "ON_HOLD"
	ProjectCompleted = "COMPLETED"
)

// Task statuses
const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
)

// Task priorities
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
