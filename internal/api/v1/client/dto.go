package client

import (
	"time"

	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/utils"
)

type ActivateInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type TransferInput struct {
	RecipientEmail string `json:"recipientEmail" binding:"required,email"`
	Amount         string `json:"amount" binding:"required"`
	Description    string `json:"description"`
}

type MarkNotificationsInput struct {
	NotificationIDs []uint `json:"notificationIds"`
}

type SendMessageInput struct {
	ConversationID uint   `json:"conversationId" binding:"required"`
	Content        string `json:"content" binding:"required,max=4000"`
}

type MarkReadInput struct {
	ConversationID uint `json:"conversationId" binding:"required"`
	MessageID      uint `json:"messageId" binding:"required"`
}

// ClientProfile is the identity summary returned on activation.
type ClientProfile struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsActivated bool   `json:"is_activated"`
	Balance     string `json:"balance"`
}

// TransactionResponse serializes a movement with amounts as decimal
// strings.
type TransactionResponse struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Amount      string    `json:"amount"`
	FromUserID  *uint     `json:"from_user_id,omitempty"`
	ToUserID    *uint     `json:"to_user_id,omitempty"`
	Description string    `json:"description,omitempty"`
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		CreatedAt:   t.CreatedAt,
		Type:        string(t.Type),
		Status:      string(t.Status),
		Amount:      utils.FormatCents(t.Amount),
		FromUserID:  t.FromUserID,
		ToUserID:    t.ToUserID,
		Description: t.Description,
	}
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	UnreadCount   int64                 `json:"unread_count"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
}

type MessageListResponse struct {
	Messages []models.ChatMessage `json:"messages"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	Limit    int                  `json:"limit"`
}
