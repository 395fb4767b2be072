package services

import (
	"testing"
	"time"

	"vaultbank-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEnsureConversation(t *testing.T) {
	db := setupTestDB()
	svc := NewChatService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)

	conv, err := svc.EnsureConversation(&client)
	assert.NoError(t, err)
	assert.Equal(t, client.ID, conv.ClientID)
	assert.Equal(t, manager.ID, conv.ManagerID)
	assert.Equal(t, models.ConversationStatusActive, conv.Status)

	// Second call reuses the open channel
	again, err := svc.EnsureConversation(&client)
	assert.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	var count int64
	db.Model(&models.ChatConversation{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnsureConversation_InactiveClient(t *testing.T) {
	db := setupTestDB()
	svc := NewChatService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)
	client.IsBlocked = true

	_, err := svc.EnsureConversation(&client)
	assert.ErrorIs(t, err, ErrClientInactive)

	client.IsBlocked = false
	now := time.Now()
	client.DeletedAt = &now
	_, err = svc.EnsureConversation(&client)
	assert.ErrorIs(t, err, ErrClientInactive)
}

func TestSendMessage_ClosedConversation(t *testing.T) {
	db := setupTestDB()
	svc := NewChatService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)

	conv, err := svc.EnsureConversation(&client)
	assert.NoError(t, err)

	_, err = svc.SendMessage(conv.ID, client.ID, models.RoleClient, client.UserID, "hello")
	assert.NoError(t, err)

	_, err = svc.CloseConversation(conv.ID, manager.ID)
	assert.NoError(t, err)

	_, err = svc.SendMessage(conv.ID, client.ID, models.RoleClient, client.UserID, "still there?")
	assert.ErrorIs(t, err, ErrConversationClosed)

	_, err = svc.SendMessage(conv.ID, manager.ID, models.RoleManager, manager.UserID, "no")
	assert.ErrorIs(t, err, ErrConversationClosed)

	var count int64
	db.Model(&models.ChatMessage{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestConversationScoping(t *testing.T) {
	db := setupTestDB()
	svc := NewChatService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	intruder := seedManager(db, "intruder@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)
	otherClient := seedClient(db, manager.ID, "other@example.com", 0, true)

	conv, err := svc.EnsureConversation(&client)
	assert.NoError(t, err)

	// A non-participant sees no conversation at all
	_, err = svc.GetConversation(conv.ID, intruder.ID, models.RoleManager)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, _, err = svc.ListMessages(conv.ID, otherClient.ID, models.RoleClient, 1, 20)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = svc.SendMessage(conv.ID, otherClient.ID, models.RoleClient, otherClient.UserID, "hi")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = svc.CloseConversation(conv.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestMarkRead_SkipsOwnMessages(t *testing.T) {
	db := setupTestDB()
	svc := NewChatService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)

	conv, err := svc.EnsureConversation(&client)
	assert.NoError(t, err)

	m1, err := svc.SendMessage(conv.ID, client.ID, models.RoleClient, client.UserID, "question")
	assert.NoError(t, err)
	m2, err := svc.SendMessage(conv.ID, manager.ID, models.RoleManager, manager.UserID, "answer")
	assert.NoError(t, err)

	// Manager reads up to the latest message
	err = svc.MarkRead(conv.ID, manager.ID, models.RoleManager, m2.ID, manager.UserID)
	assert.NoError(t, err)

	var r1, r2 models.ChatMessage
	db.First(&r1, m1.ID)
	db.First(&r2, m2.ID)
	assert.True(t, r1.IsRead)
	// The manager's own message stays unread for the client
	assert.False(t, r2.IsRead)
}

func TestListConversations(t *testing.T) {
	db := setupTestDB()
	svc := NewChatService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	first := seedClient(db, manager.ID, "first@example.com", 0, true)
	second := seedClient(db, manager.ID, "second@example.com", 0, true)

	convA, err := svc.EnsureConversation(&first)
	assert.NoError(t, err)
	convB, err := svc.EnsureConversation(&second)
	assert.NoError(t, err)

	_, err = svc.SendMessage(convA.ID, first.ID, models.RoleClient, first.User.ID, "one")
	assert.NoError(t, err)
	_, err = svc.SendMessage(convA.ID, first.ID, models.RoleClient, first.User.ID, "two")
	assert.NoError(t, err)
	last, err := svc.SendMessage(convB.ID, second.ID, models.RoleClient, second.User.ID, "later")
	assert.NoError(t, err)

	summaries, err := svc.ListConversations(manager.ID, manager.UserID)
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)

	// Sorted by latest activity
	assert.Equal(t, convB.ID, summaries[0].Conversation.ID)
	assert.Equal(t, last.ID, summaries[0].LastMessage.ID)
	assert.Equal(t, int64(1), summaries[0].UnreadCount)
	assert.Equal(t, int64(2), summaries[1].UnreadCount)
}

func TestCloseConversation_Idempotent(t *testing.T) {
	db := setupTestDB()
	svc := NewChatService(db)

	manager := seedManager(db, "advisor@example.com", 0)
	client := seedClient(db, manager.ID, "client@example.com", 0, true)

	conv, err := svc.EnsureConversation(&client)
	assert.NoError(t, err)

	closed, err := svc.CloseConversation(conv.ID, manager.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ConversationStatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	again, err := svc.CloseConversation(conv.ID, manager.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ConversationStatusClosed, again.Status)
}
