package admin

import (
	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/utils"
)

type UpdateUserInput struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	FirstName *string `json:"firstName" binding:"omitempty"`
	LastName  *string `json:"lastName" binding:"omitempty"`
	Phone     *string `json:"phone" binding:"omitempty"`
	Role      *string `json:"role" binding:"omitempty,oneof=ADMIN MANAGER CLIENT"`
}

type UserItem struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
	CreatedAt     string `json:"createdAt"`
}

func toUserItem(u models.User) UserItem {
	return UserItem{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type TransactionItem struct {
	ID          uint   `json:"id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
	FromUserID  *uint  `json:"fromUserId"`
	ToUserID    *uint  `json:"toUserId"`
	Description string `json:"description"`
	Hash        string `json:"hash"`
	CreatedAt   string `json:"createdAt"`
}

func toTransactionItem(t models.Transaction) TransactionItem {
	return TransactionItem{
		ID:          t.ID,
		Type:        string(t.Type),
		Status:      string(t.Status),
		Amount:      utils.FormatCents(t.Amount),
		FromUserID:  t.FromUserID,
		ToUserID:    t.ToUserID,
		Description: t.Description,
		Hash:        t.Hash,
		CreatedAt:   t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
