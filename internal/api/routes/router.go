package routes

import (
	"github.com/atelier-studio/atelier-go/internal/api/handlers"
	"github.com/atelier-studio/atelier-go/internal/api/middleware"
	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/internal/notify"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, repos *repository.Repos, svc *application.Services, hub *notify.Hub) {
	h := handlers.New(svc, hub, r)
	authMiddleware := middleware.NewAuth(repos)

	r.POST("/register", h.User.Register)
	r.POST("/login", h.User.Login)
	r.GET("/ws/notifications", h.WS.Stream)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		users := auth.Group("/users")
		{
			users.GET("", authMiddleware.Admin(), h.User.ListUsers)
			users.GET("/:id", h.User.GetUser)
			users.PUT("/:id", authMiddleware.UserOrAdmin(), h.User.UpdateUser)
			users.DELETE("/:id", authMiddleware.Admin(), h.User.DeleteUser)
		}

		projects := auth.Group("/projects")
		{
			projects.GET("", h.Project.ListProjects)
			projects.GET("/presets", h.Project.ListPresets)
			projects.GET("/:id", authMiddleware.ProjectMember(), h.Project.GetProject)
			projects.GET("/:id/logs", authMiddleware.ProjectMember(), h.Project.ListLogs)
			projects.POST("", authMiddleware.Admin(), h.Project.CreateProject)
			projects.PUT("/:id", authMiddleware.Admin(), h.Project.UpdateProject)
			projects.DELETE("/:id", authMiddleware.Admin(), h.Lifecycle.Delete)

			// Pipeline transitions. The client side starts, reviews and
			// pauses; the creator side submits; admins override.
			projects.PUT("/:id/start", authMiddleware.ProjectClient(), h.Lifecycle.Start)
			projects.PUT("/:id/upload", authMiddleware.ProjectCreator(), h.Lifecycle.Upload)
			projects.PUT("/:id/feedback", authMiddleware.ProjectClient(), h.Lifecycle.Feedback)
			projects.PUT("/:id/stage", authMiddleware.Admin(), h.Lifecycle.ChangeStage)
			projects.PUT("/:id/discard", authMiddleware.Admin(), h.Lifecycle.Discard)
			projects.PUT("/:id/recover", authMiddleware.Admin(), h.Lifecycle.Recover)
			projects.PUT("/:id/pause", authMiddleware.ProjectClient(), h.Lifecycle.Pause)
			projects.PUT("/:id/resume", authMiddleware.ProjectClient(), h.Lifecycle.Resume)
			projects.PUT("/:id/deadline", authMiddleware.Admin(), h.Lifecycle.ChangeDeadline)
		}

		files := auth.Group("/files")
		{
			files.POST("", h.File.Upload)
			files.GET("/:id", h.File.Download)
			files.DELETE("/:id", authMiddleware.Admin(), h.File.Delete)
		}

		notifications := auth.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}

		audit := auth.Group("/audit/logs")
		{
			audit.GET("", authMiddleware.Admin(), h.Audit.Query)
		}
	}
}
