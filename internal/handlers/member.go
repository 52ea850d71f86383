package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/types"
	"gorm.io/gorm"
)

type AddMemberRequest struct {
	Email string `json:"email"`
}

func (h *Handler) ListProjectMembers(ctx *gin.Context) {
	var members []models.ProjectMember

	if err := h.DB.Preload("User").Where("project_id = ?", ctx.Param("project_id")).Find(&members).Error; err != nil {
		log.Printf("Failed to list project members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]types.UserResponse, 0, len(members))

	for _, member := range members {
		response = append(response, types.UserResponse{
			ID:    member.User.ID,
			Name:  member.User.Name,
			Email: member.User.Email,
			Role:  member.User.Role,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// AddProjectMember joins a user to a project by email. Re-adding an
// existing member is a no-op success.
func (h *Handler) AddProjectMember(ctx *gin.Context) {
	var req AddMemberRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	email := normalizeEmail(req.Email)

	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
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

	var user models.User

	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			log.Printf("Failed to retrieve user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	member := models.ProjectMember{UserID: user.ID, ProjectID: project.ID}

	if err := h.DB.Where("user_id = ? AND project_id = ?", user.ID, project.ID).FirstOrCreate(&member).Error; err != nil {
		log.Printf("Failed to add project member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	ctx.JSON(http.StatusCreated, types.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}
