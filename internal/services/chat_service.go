package services

import (
	"errors"
	"time"

	"vaultbank-backend/internal/models"

	"gorm.io/gorm"
)

// ChatService is the support channel between clients and their managers.
// Every lookup is scoped to the requesting participant: a conversation
// the caller is not part of behaves exactly like one that does not
// exist.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// GetConversation returns the conversation only when the given
// participant id matches its client or manager side for the given role.
func (s *ChatService) GetConversation(conversationID, participantID uint, role string) (*models.ChatConversation, error) {
	var conv models.ChatConversation
	if err := s.db.First(&conv, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	switch role {
	case models.RoleClient:
		if conv.ClientID != participantID {
			return nil, ErrConversationNotFound
		}
	case models.RoleManager:
		if conv.ManagerID != participantID {
			return nil, ErrConversationNotFound
		}
	default:
		return nil, ErrConversationNotFound
	}

	return &conv, nil
}

// EnsureConversation returns the client's ACTIVE conversation with its
// manager, opening one if none exists. Blocked or deleted clients get
// no new channel.
func (s *ChatService) EnsureConversation(client *models.Client) (*models.ChatConversation, error) {
	if client.IsBlocked || client.DeletedAt != nil {
		return nil, ErrClientInactive
	}

	var conv models.ChatConversation
	err := s.db.Where("client_id = ? AND status = ?", client.ID, models.ConversationStatusActive).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.ChatConversation{
		ClientID:  client.ID,
		ManagerID: client.ManagerID,
		Status:    models.ConversationStatusActive,
	}
	if err := s.db.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns the manager's conversations with last
// message and unread count for each, most recently updated first.
func (s *ChatService) ListConversations(managerID uint, viewerUserID uint) ([]models.ConversationSummary, error) {
	var convs []models.ChatConversation
	if err := s.db.Where("manager_id = ?", managerID).
		Order("updated_at desc").Find(&convs).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		var last models.ChatMessage
		var lastPtr *models.ChatMessage
		err := s.db.Where("conversation_id = ?", conv.ID).
			Order("id desc").First(&last).Error
		if err == nil {
			lastPtr = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		var unread int64
		if err := s.db.Model(&models.ChatMessage{}).
			Where("conversation_id = ? AND is_read = ? AND sender_id <> ?", conv.ID, false, viewerUserID).
			Count(&unread).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, models.ConversationSummary{
			Conversation: conv,
			LastMessage:  lastPtr,
			UnreadCount:  unread,
		})
	}
	return summaries, nil
}

// SendMessage appends a message to an ACTIVE conversation the sender
// participates in.
func (s *ChatService) SendMessage(conversationID, participantID uint, role string, senderUserID uint, content string) (*models.ChatMessage, error) {
	conv, err := s.GetConversation(conversationID, participantID, role)
	if err != nil {
		return nil, err
	}
	if conv.Status != models.ConversationStatusActive {
		return nil, ErrConversationClosed
	}

	msg := &models.ChatMessage{
		ConversationID: conv.ID,
		SenderID:       senderUserID,
		Content:        content,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		// Bump the conversation so listings sort by latest activity.
		return tx.Model(conv).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns a page of the conversation's messages, oldest
// first, for a participant.
func (s *ChatService) ListMessages(conversationID, participantID uint, role string, page, limit int) ([]models.ChatMessage, int64, error) {
	conv, err := s.GetConversation(conversationID, participantID, role)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.Model(&models.ChatMessage{}).
		Where("conversation_id = ?", conv.ID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ChatMessage
	offset := (page - 1) * limit
	if err := s.db.Where("conversation_id = ?", conv.ID).
		Order("id").Limit(limit).Offset(offset).Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead marks every message up to and including upToMessageID as
// read, except those the reader wrote.
func (s *ChatService) MarkRead(conversationID, participantID uint, role string, upToMessageID, readerUserID uint) error {
	conv, err := s.GetConversation(conversationID, participantID, role)
	if err != nil {
		return err
	}

	return s.db.Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND id <= ? AND sender_id <> ? AND is_read = ?",
			conv.ID, upToMessageID, readerUserID, false).
		Update("is_read", true).Error
}

// CloseConversation closes the conversation; only the owning manager
// may do so. Closed conversations reject further messages.
func (s *ChatService) CloseConversation(conversationID, managerID uint) (*models.ChatConversation, error) {
	conv, err := s.GetConversation(conversationID, managerID, models.RoleManager)
	if err != nil {
		return nil, err
	}
	if conv.Status == models.ConversationStatusClosed {
		return conv, nil
	}

	now := time.Now()
	if err := s.db.Model(conv).Updates(map[string]interface{}{
		"status":    models.ConversationStatusClosed,
		"closed_at": &now,
	}).Error; err != nil {
		return nil, err
	}
	conv.Status = models.ConversationStatusClosed
	conv.ClosedAt = &now
	return conv, nil
}
