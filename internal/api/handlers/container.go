package handlers

import (
	"github.com/atelier-studio/atelier-go/internal/application"
	"github.com/atelier-studio/atelier-go/internal/notify"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User         *UserHandler
	Project      *ProjectHandler
	Lifecycle    *LifecycleHandler
	File         *FileHandler
	Audit        *AuditHandler
	Notification *NotificationHandler
	WS           *WSHandler
	Router       *gin.Engine
}

func New(svc *application.Services, hub *notify.Hub, router *gin.Engine) *Handlers {
	return &Handlers{
		User:         NewUserHandler(svc.User),
		Project:      NewProjectHandler(svc.Project),
		Lifecycle:    NewLifecycleHandler(svc.Lifecycle),
		File:         NewFileHandler(svc.File),
		Audit:        NewAuditHandler(svc.Audit),
		Notification: NewNotificationHandler(svc.Notification),
		WS:           NewWSHandler(hub),
		Router:       router,
	}
}
