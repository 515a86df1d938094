package repository

import (
	"greenquest_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) FindByUser(userID uint, limit int) ([]model.Notification, error) {
	var ns []model.Notification
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&ns).Error
	return ns, err
}

// MarkRead flips the read flag; scoped to the owner so users cannot touch
// someone else's notifications.
func (r *NotificationRepository) MarkRead(id, userID uint) error {
	return r.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).Error
}
