package services

import (
	"errors"
	"time"

	"vaultbank-backend/internal/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create records a notification from a manager to one of its clients.
func (s *NotificationService) Create(managerID, clientID uint, title, message, notifType string) (*models.Notification, error) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.ManagerID != managerID {
		return nil, ErrNotYourClient
	}
	if client.DeletedAt != nil {
		return nil, ErrClientDeleted
	}

	n := &models.Notification{
		ClientID:  clientID,
		ManagerID: &managerID,
		Title:     title,
		Message:   message,
		Type:      notifType,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// List returns a page of the client's notifications, newest first, plus
// the unread count across all of them.
func (s *NotificationService) List(clientID uint, page, limit int) ([]models.Notification, int64, int64, error) {
	var notifications []models.Notification
	var total, unread int64

	base := s.db.Model(&models.Notification{}).Where("client_id = ?", clientID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}
	if err := s.db.Model(&models.Notification{}).
		Where("client_id = ? AND is_read = ?", clientID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, 0, err
	}

	offset := (page - 1) * limit
	if err := s.db.Where("client_id = ?", clientID).
		Order("created_at desc").Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unread, nil
}

// MarkRead marks the given notifications of the client as read; with no
// ids it marks everything unread. Ids belonging to other clients are
// ignored by the scope, never touched.
func (s *NotificationService) MarkRead(clientID uint, ids []uint) (int64, error) {
	now := time.Now()
	query := s.db.Model(&models.Notification{}).
		Where("client_id = ? AND is_read = ?", clientID, false)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}

	res := query.Updates(map[string]interface{}{
		"is_read": true,
		"read_at": &now,
	})
	return res.RowsAffected, res.Error
}
