package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type TransactionType string

const (
	TransactionTypeCreditPurchase TransactionType = "CREDIT_PURCHASE"
	TransactionTypeManagerCredit  TransactionType = "MANAGER_CREDIT"
	TransactionTypeTransfer       TransactionType = "TRANSFER"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is the immutable log record of a balance movement. Amount
// is always positive, in the smallest currency unit; direction comes from
// the from/to user references. Once written with status SUCCESS only the
// Metadata column may grow (e.g. an attached document reference).
type Transaction struct {
	ID          uint              `gorm:"primarykey"`
	CreatedAt   time.Time         `gorm:"precision:3"`
	Type        TransactionType   `gorm:"type:varchar(50);index;not null"`
	Status      TransactionStatus `gorm:"type:varchar(20);index;not null;default:'PENDING'"`
	Amount      int64             `gorm:"not null"`
	FromUserID  *uint             `gorm:"index"`
	ToUserID    *uint             `gorm:"index"`
	Description string            `gorm:"type:text"`
	Metadata    datatypes.JSON
	Hash        string `gorm:"type:varchar(64);default:''"` // HMAC SHA256
}

// GenerateHash generates a tamper-proof hash for the transaction
func (t *Transaction) GenerateHash(secret string) string {
	var from, to uint
	if t.FromUserID != nil {
		from = *t.FromUserID
	}
	if t.ToUserID != nil {
		to = *t.ToUserID
	}
	data := fmt.Sprintf("%d|%d|%d|%s|%s|%d|%d",
		t.ID, t.CreatedAt.UnixNano(), t.Amount, t.Type, t.Status, from, to)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// Payment records an external credit-purchase attempt, one-to-one with
// its CREDIT_PURCHASE transaction.
type Payment struct {
	ID            string `gorm:"primarykey;type:varchar(32)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	TransactionID uint  `gorm:"uniqueIndex;not null"`
	Amount        int64 `gorm:"not null"`
	PhoneNumber   string
	Provider      string
	ExternalRef   string
	Status        string `gorm:"type:varchar(20);not null;default:'pending'"`
}
