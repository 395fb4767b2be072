package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vaultbank-backend/internal/database"
	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/payment"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BalanceService owns every mutation of Manager.CreditBalance and
// Client.AccountBalance. Each operation is one storage transaction:
// the balance updates and the Transaction record commit together or not
// at all. Debits are guarded in the WHERE clause (balance >= amount)
// with a RowsAffected check, so concurrent operations against the same
// balance serialize to some order and can never drive it negative.
type BalanceService struct {
	db     *gorm.DB
	rdb    *redis.Client
	users  *UserService
	driver payment.Driver
	secret string // keys the transaction tamper hash
}

func NewBalanceService(db *gorm.DB, rdb *redis.Client, users *UserService, driver payment.Driver, secret string) *BalanceService {
	return &BalanceService{db: db, rdb: rdb, users: users, driver: driver, secret: secret}
}

const balanceCacheTTL = 5 * time.Minute

func balanceCacheKey(userID uint) string {
	return fmt.Sprintf("balance:user:%d", userID)
}

// AccountBalance returns the client's current balance, served from the
// redis cache when a fresh copy exists. Every balance mutation drops
// the cached entry, so a hit is never older than the last movement.
func (s *BalanceService) AccountBalance(client *models.Client) (int64, error) {
	key := balanceCacheKey(client.UserID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(database.Ctx, key).Int64(); err == nil {
			return cached, nil
		}
	}

	var fresh models.Client
	if err := s.db.Select("account_balance").First(&fresh, client.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrClientNotFound
		}
		return 0, err
	}

	if s.rdb != nil {
		s.rdb.Set(database.Ctx, key, fresh.AccountBalance, balanceCacheTTL)
	}
	return fresh.AccountBalance, nil
}

// invalidateBalances drops cached user rows and balance entries for the
// parties of a finished movement.
func (s *BalanceService) invalidateBalances(userIDs ...uint) {
	for _, id := range userIDs {
		s.users.InvalidateUser(id)
		if s.rdb != nil {
			s.rdb.Del(database.Ctx, balanceCacheKey(id))
		}
	}
}

// sealTransaction stamps the tamper hash once the row has its ID.
func (s *BalanceService) sealTransaction(tx *gorm.DB, t *models.Transaction) error {
	t.Hash = t.GenerateHash(s.secret)
	return tx.Model(t).Update("hash", t.Hash).Error
}

// BuyCredits charges the external provider for the given amount and, on
// success, credits the manager's float and records a CREDIT_PURCHASE
// transaction plus its Payment row as one unit.
func (s *BalanceService) BuyCredits(managerID uint, amount int64, phoneNumber string) (*models.Transaction, *models.Payment, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var manager models.Manager
	if err := s.db.Preload("User").First(&manager, managerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrManagerNotFound
		}
		return nil, nil, err
	}

	reference := strings.ReplaceAll(uuid.NewString(), "-", "")
	externalRef, err := s.driver.Charge(reference, amount, phoneNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("payment provider: %w", err)
	}

	userID := manager.UserID
	txn := &models.Transaction{
		Type:        models.TransactionTypeCreditPurchase,
		Status:      models.TransactionStatusSuccess,
		Amount:      amount,
		ToUserID:    &userID,
		Description: fmt.Sprintf("Credit purchase via %s", s.driver.Name()),
	}
	pay := &models.Payment{
		ID:          reference,
		Amount:      amount,
		PhoneNumber: phoneNumber,
		Provider:    s.driver.Name(),
		ExternalRef: externalRef,
		Status:      "completed",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Manager{}).Where("id = ?", manager.ID).
			Update("credit_balance", gorm.Expr("credit_balance + ?", amount)).Error; err != nil {
			return err
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		pay.TransactionID = txn.ID
		if err := tx.Create(pay).Error; err != nil {
			return err
		}
		return s.sealTransaction(tx, txn)
	})
	if err != nil {
		return nil, nil, err
	}

	s.invalidateBalances(manager.UserID)
	return txn, pay, nil
}

// CreditClient moves amount from the manager's credit float to the
// client's account balance and records a MANAGER_CREDIT transaction.
// The debit is guarded: if the manager's float is short, nothing moves.
func (s *BalanceService) CreditClient(managerID, clientID uint, amount int64, description string) (*models.Transaction, *models.Client, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var manager models.Manager
	if err := s.db.First(&manager, managerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrManagerNotFound
		}
		return nil, nil, err
	}

	var client models.Client
	if err := s.db.Preload("User").First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrClientNotFound
		}
		return nil, nil, err
	}
	if client.ManagerID != managerID {
		return nil, nil, ErrNotYourClient
	}
	if client.DeletedAt != nil {
		return nil, nil, ErrClientDeleted
	}
	if client.IsBlocked {
		return nil, nil, ErrClientInactive
	}

	fromUser := manager.UserID
	toUser := client.UserID
	txn := &models.Transaction{
		Type:        models.TransactionTypeManagerCredit,
		Status:      models.TransactionStatusSuccess,
		Amount:      amount,
		FromUserID:  &fromUser,
		ToUserID:    &toUser,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Manager{}).
			Where("id = ? AND credit_balance >= ?", manager.ID, amount).
			Update("credit_balance", gorm.Expr("credit_balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredit
		}

		if err := tx.Model(&models.Client{}).Where("id = ?", client.ID).
			Update("account_balance", gorm.Expr("account_balance + ?", amount)).Error; err != nil {
			return err
		}

		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return s.sealTransaction(tx, txn)
	})
	if err != nil {
		return nil, nil, err
	}

	s.invalidateBalances(manager.UserID, client.UserID)

	if err := s.db.Preload("User").First(&client, client.ID).Error; err != nil {
		return nil, nil, err
	}
	return txn, &client, nil
}

// Transfer moves amount between two client accounts, resolved by the
// recipient's email. Blocked, deleted and unactivated clients can
// neither send nor receive.
func (s *BalanceService) Transfer(senderClientID uint, recipientEmail string, amount int64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var sender models.Client
	if err := s.db.Preload("User").First(&sender, senderClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !sender.Active() {
		return nil, ErrClientInactive
	}

	var recipient models.Client
	err := s.db.Preload("User").
		Joins("JOIN users ON users.id = clients.user_id").
		Where("users.email = ?", recipientEmail).
		First(&recipient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	if !recipient.Active() {
		return nil, ErrRecipientNotFound
	}
	if recipient.ID == sender.ID {
		return nil, ErrSelfTransfer
	}

	fromUser := sender.UserID
	toUser := recipient.UserID
	txn := &models.Transaction{
		Type:        models.TransactionTypeTransfer,
		Status:      models.TransactionStatusSuccess,
		Amount:      amount,
		FromUserID:  &fromUser,
		ToUserID:    &toUser,
		Description: description,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Client{}).
			Where("id = ? AND account_balance >= ?", sender.ID, amount).
			Update("account_balance", gorm.Expr("account_balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		if err := tx.Model(&models.Client{}).Where("id = ?", recipient.ID).
			Update("account_balance", gorm.Expr("account_balance + ?", amount)).Error; err != nil {
			return err
		}

		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return s.sealTransaction(tx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalances(sender.UserID, recipient.UserID)
	return txn, nil
}

// AppendTransactionMetadata merges extra metadata keys into a SUCCESS
// transaction without touching any monetary field (e.g. a document
// reference attached after the fact).
func (s *BalanceService) AppendTransactionMetadata(transactionID uint, extra map[string]interface{}) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.First(&txn, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	merged := map[string]interface{}{}
	if len(txn.Metadata) > 0 {
		_ = json.Unmarshal(txn.Metadata, &merged)
	}
	for k, v := range extra {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&txn).Update("metadata", datatypes.JSON(raw)).Error; err != nil {
		return nil, err
	}
	txn.Metadata = datatypes.JSON(raw)
	return &txn, nil
}
