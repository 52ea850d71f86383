package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/types"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Status string `json:"status"`
}

type ProjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProjectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt,
	}
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      types.ProjectActive,
	}

	if err := h.DB.Create(&project).Error; err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	var projects []models.Project

	if err := h.DB.Order("created_at DESC").Find(&projects).Error; err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, toProjectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateProject changes the project status, the only mutable field.
func (h *Handler) UpdateProject(ctx *gin.Context) {
	var req UpdateProjectRequest

	if err := ctx.BindJSON(&req); err != nil || !types.ValidProjectStatus(req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	var project models.Project

	if err := h.DB.Where("id = ?", ctx.Param("project_id")).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	project.Status = req.Status

	if err := h.DB.Save(&project).Error; err != nil {
		log.Printf("Failed to update project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(project))
}

// DeleteProject removes the project and its children inside one
// transaction: tasks first, then member links, then the project
// itself, so no reader observes a half-deleted project.
func (h *Handler) DeleteProject(ctx *gin.Context) {
	var project models.Project

	if err := h.DB.Where("id = ?", ctx.Param("project_id")).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to retrieve project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
