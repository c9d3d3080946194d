package application

import (
	"github.com/atelier-studio/atelier-go/internal/notify"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/atelier-studio/atelier-go/internal/timer"
)

type Services struct {
	User         *UserService
	Project      *ProjectService
	Lifecycle    *LifecycleService
	File         *FileService
	Audit        *AuditService
	Notification *NotificationService
}

func New(repos *repository.Repos, timerSvc timer.Service, gateway notify.Gateway) *Services {
	return &Services{
		User:         NewUserService(repos),
		Project:      NewProjectService(repos),
		Lifecycle:    NewLifecycleService(repos, timerSvc, gateway),
		File:         NewFileService(repos),
		Audit:        NewAuditService(repos),
		Notification: NewNotificationService(repos),
	}
}
