package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/types"
	"github.com/taskdeck/taskdeck/internal/utils"
)

type TasksSummary struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

type ProjectTaskCount struct {
	Project string `json:"project"`
	Count   int    `json:"count"`
}

type DashboardResponse struct {
	TasksSummary TasksSummary       `json:"tasks_summary"`
	ByProject    []ProjectTaskCount `json:"by_project"`
	Tasks        []TaskResponse     `json:"tasks"`
}

// GetDashboard aggregates the caller's visible tasks: status counts
// and a per-project breakdown. Admins see everything, members only
// their own assignments.
func (h *Handler) GetDashboard(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var tasks []models.Task

	query := h.DB.Preload("Project").Order("created_at DESC")

	if currentUser.Role == types.RoleAdmin {
		query = query.Preload("AssignedTo")
	} else {
		query = query.Where("assigned_to_id = ?", currentUser.ID)
	}

	if err := query.Find(&tasks).Error; err != nil {
		log.Printf("Failed to load dashboard tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	summary := TasksSummary{Total: len(tasks)}
	projectCounts := make(map[string]int)
	projectOrder := []string{}
	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		switch task.Status {
		case types.TaskTodo:
			summary.Todo++
		case types.TaskInProgress:
			summary.InProgress++
		case types.TaskDone:
			summary.Done++
		}

		if _, seen := projectCounts[task.Project.Name]; !seen {
			projectOrder = append(projectOrder, task.Project.Name)
		}
		projectCounts[task.Project.Name]++

		response = append(response, toTaskResponse(task))
	}

	byProject := make([]ProjectTaskCount, 0, len(projectOrder))

	for _, name := range projectOrder {
		byProject = append(byProject, ProjectTaskCount{Project: name, Count: projectCounts[name]})
	}

	ctx.JSON(http.StatusOK, DashboardResponse{
		TasksSummary: summary,
		ByProject:    byProject,
		Tasks:        response,
	})
}
