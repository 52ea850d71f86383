package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/authz"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/handlers"
	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/types"
	"gorm.io/gorm"
)

func New(database *gorm.DB, tokens *auth.TokenManager, cfg config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.New(database, tokens, cfg.Domain)
	authenticate := middleware.Authenticate(database, tokens)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.POST("/register", h.Register)

		session := api.Group("/auth")
		{
			session.POST("/login", h.Login)
			session.POST("/logout", authenticate, middleware.Require(authz.ResourceAuth, authz.ActionSession), h.Logout)
			session.GET("/me", authenticate, middleware.Require(authz.ResourceAuth, authz.ActionSession), h.Me)
		}

		projects := api.Group("/projects", authenticate)
		{
			projects.GET("", middleware.Require(authz.ResourceProject, authz.ActionList), h.ListProjects)
			projects.POST("", middleware.Require(authz.ResourceProject, authz.ActionCreate), h.CreateProject)
			projects.PATCH("/:project_id", middleware.Require(authz.ResourceProject, authz.ActionUpdate), h.UpdateProject)
			projects.DELETE("/:project_id", middleware.Require(authz.ResourceProject, authz.ActionDelete), h.DeleteProject)

			projects.GET("/:project_id/members", middleware.Require(authz.ResourceMember, authz.ActionList), h.ListProjectMembers)
			projects.POST("/:project_id/members", middleware.Require(authz.ResourceMember, authz.ActionAdd), h.AddProjectMember)
		}

		tasks := api.Group("/tasks", authenticate)
		{
			tasks.GET("", middleware.Require(authz.ResourceTask, authz.ActionList), h.ListTasks)
			tasks.POST("", middleware.Require(authz.ResourceTask, authz.ActionCreate), h.CreateTask)
			tasks.PATCH("/:task_id", middleware.Require(authz.ResourceTask, authz.ActionUpdate), h.UpdateTask)
			tasks.DELETE("/:task_id", middleware.Require(authz.ResourceTask, authz.ActionDelete), h.DeleteTask)
		}

		api.GET("/dashboard", authenticate, middleware.Require(authz.ResourceDashboard, authz.ActionView), h.GetDashboard)
	}

	return r
}
