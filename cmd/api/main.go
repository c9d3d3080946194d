package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/atelier-studio/atelier-go/internal/api/middleware"
	"github.com/atelier-studio/atelier-go/internal/api/routes"
	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/internal/config"
	"github.com/atelier-studio/atelier-go/internal/config/db"
	"github.com/atelier-studio/atelier-go/internal/cron"
	"github.com/atelier-studio/atelier-go/internal/domain/audit"
	"github.com/atelier-studio/atelier-go/internal/domain/file"
	"github.com/atelier-studio/atelier-go/internal/domain/notification"
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	domaintimer "github.com/atelier-studio/atelier-go/internal/domain/timer"
	"github.com/atelier-studio/atelier-go/internal/domain/user"
	"github.com/atelier-studio/atelier-go/internal/notify"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/atelier-studio/atelier-go/internal/storage"
	"github.com/atelier-studio/atelier-go/internal/timer"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()

	// Initialize JWT signing key
	middleware.Init()

	// Initialize database connection
	db.Init()
	storage.InitMinio()

	if err := config.LoadStagePresets(config.StagePresetsPath); err != nil {
		log.Printf("Warning: failed to load stage presets: %v", err)
	}

	// Auto migrate database schemas
	if err := db.DB.AutoMigrate(
		&user.User{},
		&project.Project{},
		&project.Stage{},
		&project.Phase{},
		&project.ProjectPause{},
		&project.ProjectLog{},
		&project.Tag{},
		&file.File{},
		&domaintimer.DeadlineTimer{},
		&notification.Notification{},
		&audit.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	repos := repository.NewRepositories(db.DB)
	hub := notify.NewHub()
	gateway := notify.NewWSGateway(hub, repos.Notification)

	timerSvc := timer.New(repos.Timer, config.TimerTick, config.TimerGrace)
	services := application.New(repos, timerSvc, gateway)
	timerSvc.SetHandler(services.Lifecycle.HandleDeadline)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := timerSvc.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("timer loop exited: %v", err)
		}
	}()

	cron.StartCleanupTask(services.Audit)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())

	routes.RegisterRoutes(router, repos, services, hub)

	port := ":" + config.ServerPort
	log.Printf("Starting API server on %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
}
