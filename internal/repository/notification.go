package repository

import (
	"github.com/atelier-studio/atelier-go/internal/domain/notification"
	"gorm.io/gorm"
)

type NotificationRepo interface {
	CreateNotification(n *notification.Notification) error
	ListNotificationsByRecipient(recipientID uint, unreadOnly bool) ([]notification.Notification, error)
	MarkNotificationRead(id, recipientID uint) error
	WithTx(tx *gorm.DB) NotificationRepo
}

type DBNotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *DBNotificationRepo {
	return &DBNotificationRepo{db: db}
}

func (r *DBNotificationRepo) WithTx(tx *gorm.DB) NotificationRepo {
	if tx == nil {
		return r
	}
	return &DBNotificationRepo{db: tx}
}

func (r *DBNotificationRepo) CreateNotification(n *notification.Notification) error {
	return r.db.Create(n).Error
}

func (r *DBNotificationRepo) ListNotificationsByRecipient(recipientID uint, unreadOnly bool) ([]notification.Notification, error) {
	var list []notification.Notification
	q := r.db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	err := q.Order("n_id DESC").Find(&list).Error
	return list, err
}

func (r *DBNotificationRepo) MarkNotificationRead(id, recipientID uint) error {
	return r.db.Model(&notification.Notification{}).
		Where("n_id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true).Error
}
