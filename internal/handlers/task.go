package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/types"
	"github.com/taskdeck/taskdeck/internal/utils"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	ProjectID    uint       `json:"project_id"`
	AssignedToID uint       `json:"assigned_to_id"`
}

type UpdateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority"`
	Status       *string    `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID *uint      `json:"assigned_to_id"`
}

type TaskResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     string              `json:"priority"`
	Status       string              `json:"status"`
	DueDate      *time.Time          `json:"due_date"`
	ProjectID    uint                `json:"project_id"`
	AssignedToID uint                `json:"assigned_to_id"`
	CreatedAt    time.Time           `json:"created_at"`
	Project      *ProjectResponse    `json:"project,omitempty"`
	AssignedTo   *types.UserResponse `json:"assigned_to,omitempty"`
}

func toTaskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Priority:     task.Priority,
		Status:       task.Status,
		DueDate:      task.DueDate,
		ProjectID:    task.ProjectID,
		AssignedToID: task.AssignedToID,
		CreatedAt:    task.CreatedAt,
	}

	if task.Project.ID != 0 {
		project := toProjectResponse(task.Project)
		response.Project = &project
	}

	if task.AssignedTo.ID != 0 {
		response.AssignedTo = &types.UserResponse{
			ID:    task.AssignedTo.ID,
			Name:  task.AssignedTo.Name,
			Email: task.AssignedTo.Email,
			Role:  task.AssignedTo.Role,
		}
	}

	return response
}

// CreateTask requires the assignee to already be a member of the
// target project.
func (h *Handler) CreateTask(ctx *gin.Context) {
	var req CreateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Title == "" || req.ProjectID == 0 || req.AssignedToID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if req.Priority == "" {
		req.Priority = types.PriorityMedium
	}

	if req.Status == "" {
		req.Status = types.TaskTodo
	}

	if !types.ValidPriority(req.Priority) || !types.ValidTaskStatus(req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority or status"})
		return
	}

	var membership models.ProjectMember

	err := h.DB.Where("user_id = ? AND project_id = ?", req.AssignedToID, req.ProjectID).First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Assigned user is not a member of this project"})
		} else {
			log.Printf("Failed to check project membership: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       req.Status,
		DueDate:      req.DueDate,
		ProjectID:    req.ProjectID,
		AssignedToID: req.AssignedToID,
	}

	if err := h.DB.Create(&task).Error; err != nil {
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

// ListTasks returns every task for admins, with project and assignee
// included, and only the caller's own tasks for members.
func (h *Handler) ListTasks(ctx *gin.Context) {
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
		log.Printf("Failed to list tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateTask lets an admin change any field. A member may only change
// the status of a task assigned to them; other fields in the request
// are ignored for members, and any other requester is forbidden.
func (h *Handler) UpdateTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var task models.Task

	if err := h.DB.Where("id = ?", ctx.Param("task_id")).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to retrieve task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	var req UpdateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Status != nil && !types.ValidTaskStatus(*req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if currentUser.Role == types.RoleAdmin {
		if req.Priority != nil && !types.ValidPriority(*req.Priority) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}

		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Priority != nil {
			task.Priority = *req.Priority
		}
		if req.Status != nil {
			task.Status = *req.Status
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate
		}
		if req.AssignedToID != nil {
			// Membership is only validated at creation time;
			// reassignment takes the id as given.
			task.AssignedToID = *req.AssignedToID
		}
	} else if task.AssignedToID == currentUser.ID {
		if req.Status != nil {
			task.Status = *req.Status
		}
	} else {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := h.DB.Save(&task).Error; err != nil {
		log.Printf("Failed to update task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	var task models.Task

	if err := h.DB.Where("id = ?", ctx.Param("task_id")).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			log.Printf("Failed to retrieve task: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	if err := h.DB.Delete(&task).Error; err != nil {
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
