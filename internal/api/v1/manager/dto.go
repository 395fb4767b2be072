package manager

import (
	"time"

	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/utils"
)

type CreateClientInput struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

type CreditClientInput struct {
	ClientID    uint   `json:"clientId" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

type BuyCreditsInput struct {
	Amount      string `json:"amount" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type BlockClientInput struct {
	ClientID uint   `json:"clientId" binding:"required"`
	Action   string `json:"action" binding:"required,oneof=block unblock"`
	Reason   string `json:"reason"`
}

type DeleteClientInput struct {
	ClientID      uint `json:"clientId" binding:"required"`
	ConfirmDelete bool `json:"confirmDelete" binding:"required"`
}

type SendNotificationInput struct {
	ClientID uint   `json:"clientId" binding:"required"`
	Title    string `json:"title" binding:"required,max=200"`
	Message  string `json:"message" binding:"required,max=2000"`
	Type     string `json:"type" binding:"omitempty,oneof=info warning account"`
}

type SendMessageInput struct {
	ConversationID uint   `json:"conversationId" binding:"required"`
	Content        string `json:"content" binding:"required,max=4000"`
}

type MarkReadInput struct {
	ConversationID uint `json:"conversationId" binding:"required"`
	MessageID      uint `json:"messageId" binding:"required"`
}

type CloseConversationInput struct {
	ConversationID uint `json:"conversationId" binding:"required"`
}

// ClientItem is the manager-facing view of a client.
type ClientItem struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone,omitempty"`
	Balance     string     `json:"balance"`
	IsActivated bool       `json:"is_activated"`
	IsBlocked   bool       `json:"is_blocked"`
	BlockedAt   *time.Time `json:"blocked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toClientItem(cl *models.Client) ClientItem {
	return ClientItem{
		ID:          cl.ID,
		Email:       cl.User.Email,
		FirstName:   cl.User.FirstName,
		LastName:    cl.User.LastName,
		Phone:       cl.User.Phone,
		Balance:     utils.FormatCents(cl.AccountBalance),
		IsActivated: cl.IsActivated,
		IsBlocked:   cl.IsBlocked,
		BlockedAt:   cl.BlockedAt,
		CreatedAt:   cl.CreatedAt,
	}
}

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

type PaymentResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	PhoneNumber string `json:"phone_number"`
	Provider    string `json:"provider"`
	ExternalRef string `json:"external_ref"`
	Status      string `json:"status"`
}
