package services

import (
	"testing"
	"time"

	"vaultbank-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNotificationCreate(t *testing.T) {
	db := setupTestDB()
	svc := NewNotificationService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	other := seedManager(db, "other@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)

	n, err := svc.Create(manager.ID, client.ID, "Welcome", "Your account is ready", "info")
	assert.NoError(t, err)
	assert.Equal(t, client.ID, n.ClientID)
	assert.False(t, n.IsRead)

	_, err = svc.Create(other.ID, client.ID, "Nope", "", "info")
	assert.ErrorIs(t, err, ErrNotYourClient)

	now := time.Now()
	db.Model(&models.Client{}).Where("id = ?", client.ID).Update("deleted_at", &now)
	_, err = svc.Create(manager.ID, client.ID, "Too late", "", "info")
	assert.ErrorIs(t, err, ErrClientDeleted)
}

func TestNotificationList(t *testing.T) {
	db := setupTestDB()
	svc := NewNotificationService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)
	stranger := seedClient(db, manager.ID, "stranger@example.com", 0, true)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(manager.ID, client.ID, "Notice", "body", "info")
		assert.NoError(t, err)
	}
	_, err := svc.Create(manager.ID, stranger.ID, "Other", "body", "info")
	assert.NoError(t, err)

	notifications, total, unread, err := svc.List(client.ID, 1, 20)
	assert.NoError(t, err)
	assert.Len(t, notifications, 3)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(3), unread)
}

func TestNotificationMarkRead(t *testing.T) {
	db := setupTestDB()
	svc := NewNotificationService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)
	stranger := seedClient(db, manager.ID, "stranger@example.com", 0, true)

	a, _ := svc.Create(manager.ID, client.ID, "First", "", "info")
	b, _ := svc.Create(manager.ID, client.ID, "Second", "", "info")
	foreign, _ := svc.Create(manager.ID, stranger.ID, "Foreign", "", "info")

	// Subset marking only touches the listed ids; foreign ids are
	// filtered out by the client scope
	affected, err := svc.MarkRead(client.ID, []uint{a.ID, foreign.ID})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var marked models.Notification
	assert.NoError(t, db.First(&marked, a.ID).Error)
	assert.True(t, marked.IsRead)
	assert.NotNil(t, marked.ReadAt)

	var untouched models.Notification
	assert.NoError(t, db.First(&untouched, foreign.ID).Error)
	assert.False(t, untouched.IsRead)

	// No ids marks everything still unread
	affected, err = svc.MarkRead(client.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var remaining models.Notification
	assert.NoError(t, db.First(&remaining, b.ID).Error)
	assert.True(t, remaining.IsRead)
}
