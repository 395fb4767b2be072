package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/utils"

	"gorm.io/gorm"
)

type TransactionService struct {
	db *gorm.DB
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// TransactionFilter defines criteria for filtering transactions
type TransactionFilter struct {
	UserID    *uint
	Type      *models.TransactionType
	Status    *models.TransactionStatus
	StartTime *time.Time
	EndTime   *time.Time
	MinAmount *int64
	MaxAmount *int64
	Page      int
	Limit     int
}

// Find retrieves a paginated list of transactions with filtering. The
// UserID filter matches either side of the movement.
func (s *TransactionService) Find(filter TransactionFilter) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := s.db.Model(&models.Transaction{})

	if filter.UserID != nil {
		query = query.Where("from_user_id = ? OR to_user_id = ?", *filter.UserID, *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at desc").Limit(filter.Limit).Offset(offset).Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// HistoryForUser returns the movements a user took part in, either side.
func (s *TransactionService) HistoryForUser(userID uint, page, limit int) ([]models.Transaction, int64, error) {
	return s.Find(TransactionFilter{UserID: &userID, Page: page, Limit: limit})
}

// GenerateCSV renders transactions as CSV for export. Amounts use the
// same decimal-string form as the HTTP boundary.
func (s *TransactionService) GenerateCSV(transactions []models.Transaction) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{
		"ID", "Time", "Type", "Status", "Amount",
		"From User", "To User", "Description", "Hash",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, t := range transactions {
		from, to := "", ""
		if t.FromUserID != nil {
			from = fmt.Sprintf("%d", *t.FromUserID)
		}
		if t.ToUserID != nil {
			to = fmt.Sprintf("%d", *t.ToUserID)
		}
		record := []string{
			fmt.Sprintf("%d", t.ID),
			t.CreatedAt.Format(time.RFC3339Nano),
			string(t.Type),
			string(t.Status),
			utils.FormatCents(t.Amount),
			from,
			to,
			t.Description,
			t.Hash,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
