package services

import (
	"strings"
	"testing"
	"time"

	"vaultbank-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedTransaction(db *gorm.DB, txnType models.TransactionType, amount int64, from, to uint) models.Transaction {
	txn := models.Transaction{
		Type:        txnType,
		Status:      models.TransactionStatusSuccess,
		Amount:      amount,
		FromUserID:  &from,
		ToUserID:    &to,
		Description: "seed",
	}
	db.Create(&txn)
	return txn
}

func TestTransactionFind(t *testing.T) {
	db := setupTestDB()
	svc := NewTransactionService(db)

	seedTransaction(db, models.TransactionTypeTransfer, 1000, 1, 2)
	seedTransaction(db, models.TransactionTypeTransfer, 5000, 2, 3)
	seedTransaction(db, models.TransactionTypeManagerCredit, 2500, 4, 1)

	// UserID matches either side of the movement
	userID := uint(1)
	txns, total, err := svc.Find(TransactionFilter{UserID: &userID, Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, txns, 2)

	txnType := models.TransactionTypeManagerCredit
	txns, total, err = svc.Find(TransactionFilter{Type: &txnType, Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(2500), txns[0].Amount)

	min := int64(2000)
	max := int64(4000)
	txns, total, err = svc.Find(TransactionFilter{MinAmount: &min, MaxAmount: &max, Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(2500), txns[0].Amount)

	future := time.Now().Add(time.Hour)
	txns, total, err = svc.Find(TransactionFilter{StartTime: &future, Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, txns)
}

func TestHistoryForUser(t *testing.T) {
	db := setupTestDB()
	svc := NewTransactionService(db)

	seedTransaction(db, models.TransactionTypeTransfer, 1000, 7, 8)
	seedTransaction(db, models.TransactionTypeTransfer, 2000, 9, 7)
	seedTransaction(db, models.TransactionTypeTransfer, 3000, 8, 9)

	txns, total, err := svc.HistoryForUser(7, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, txns, 2)
}

func TestGenerateCSV(t *testing.T) {
	db := setupTestDB()
	svc := NewTransactionService(db)

	txn := seedTransaction(db, models.TransactionTypeTransfer, 123456, 1, 2)
	txn.Hash = "abc123"
	db.Save(&txn)

	data, err := svc.GenerateCSV([]models.Transaction{txn})
	assert.NoError(t, err)

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Amount")
	// Amounts render as decimal strings
	assert.Contains(t, lines[1], "1234.56")
	assert.Contains(t, lines[1], "TRANSFER")
	assert.Contains(t, lines[1], "abc123")
}
