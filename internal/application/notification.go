package application

import (
	"github.com/atelier-studio/atelier-go/internal/domain/notification"
	"github.com/atelier-studio/atelier-go/internal/repository"
)

type NotificationService struct {
	Repos *repository.Repos
}

func NewNotificationService(repos *repository.Repos) *NotificationService {
	return &NotificationService{
		Repos: repos,
	}
}

func (s *NotificationService) ListForUser(userID uint, unreadOnly bool) ([]notification.Notification, error) {
	return s.Repos.Notification.ListNotificationsByRecipient(userID, unreadOnly)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.Repos.Notification.MarkNotificationRead(id, userID)
}
