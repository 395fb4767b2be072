package models

import "time"

const (
	ConversationStatusActive = "ACTIVE"
	ConversationStatusClosed = "CLOSED"
)

// ChatConversation is the support channel between one client and its
// manager. No message may be added once the status is CLOSED.
type ChatConversation struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	ClientID  uint   `gorm:"index;not null"`
	ManagerID uint   `gorm:"index;not null"`
	Status    string `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	ClosedAt  *time.Time
}

type ChatMessage struct {
	ID             uint `gorm:"primarykey"`
	CreatedAt      time.Time
	ConversationID uint   `gorm:"index;not null"`
	SenderID       uint   `gorm:"not null"` // user id of the author
	Content        string `gorm:"type:text;not null"`
	IsRead         bool   `gorm:"default:false"`
}

// ConversationSummary pairs a conversation with its latest message and
// the number of messages the viewer has not read yet.
type ConversationSummary struct {
	Conversation ChatConversation `json:"conversation"`
	LastMessage  *ChatMessage     `json:"last_message,omitempty"`
	UnreadCount  int64            `json:"unread_count"`
}
