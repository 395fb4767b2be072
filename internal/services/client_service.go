package services

import (
	"errors"
	"fmt"
	"time"

	"vaultbank-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activation tokens are single use and expire if the client never sets
// a password.
const activationTokenTTL = 7 * 24 * time.Hour

type ClientService struct {
	db    *gorm.DB
	users *UserService

	// activationBaseURL is where the activation token is appended when
	// building the link handed back to the manager for delivery.
	activationBaseURL string
}

func NewClientService(db *gorm.DB, users *UserService, activationBaseURL string) *ClientService {
	return &ClientService{db: db, users: users, activationBaseURL: activationBaseURL}
}

type CreateClientInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// CreateClient registers a new client under the given manager: a CLIENT
// user with a placeholder password, a Client row with zero balance and a
// fresh single-use activation token. The returned link is delivered out
// of band; the account stays unusable until activation.
func (s *ClientService) CreateClient(managerID uint, input CreateClientInput) (*models.Client, string, error) {
	var existing models.User
	result := s.db.Where("email = ?", input.Email).First(&existing)
	if result.Error == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, "", result.Error
	}

	// Unusable placeholder until the client activates; bcrypt of a
	// random uuid can never be matched by CompareHashAndPassword.
	placeholder, err := HashPassword(uuid.NewString())
	if err != nil {
		return nil, "", err
	}

	token := uuid.NewString()
	expires := time.Now().Add(activationTokenTTL)

	user := &models.User{
		Email:     input.Email,
		Password:  placeholder,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      models.RoleClient,
	}
	client := &models.Client{
		ManagerID:           managerID,
		AccountBalance:      0,
		ActivationToken:     &token,
		ActivationExpiresAt: &expires,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		client.UserID = user.ID
		return tx.Create(client).Error
	})
	if err != nil {
		return nil, "", err
	}

	client.User = *user
	link := fmt.Sprintf("%s?token=%s", s.activationBaseURL, token)
	return client, link, nil
}

// ActivateAccount consumes an activation token: it sets the user's
// password, flips the client to activated and clears the token, all in
// one unit. A second call with the same token finds nothing.
func (s *ClientService) ActivateAccount(token, password string) (*models.Client, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var client models.Client
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activation_token = ? AND is_activated = ?", token, false).
			First(&client).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidActivation
			}
			return err
		}
		if client.ActivationExpiresAt != nil && time.Now().After(*client.ActivationExpiresAt) {
			return ErrInvalidActivation
		}

		if err := tx.Model(&models.User{}).Where("id = ?", client.UserID).
			Updates(map[string]interface{}{
				"password":       hashed,
				"email_verified": true,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&client).Updates(map[string]interface{}{
			"is_activated":          true,
			"activation_token":      nil,
			"activation_expires_at": nil,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.users.InvalidateUser(client.UserID)

	if err := s.db.Preload("User").First(&client, client.ID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// ownedClient loads a client and checks it belongs to the manager and is
// not soft-deleted. Both failure modes surface as typed errors so the
// handlers can map them to 403 versus 404.
func (s *ClientService) ownedClient(managerID, clientID uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.Preload("User").First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.ManagerID != managerID {
		return nil, ErrNotYourClient
	}
	if client.DeletedAt != nil {
		return nil, ErrClientDeleted
	}
	return &client, nil
}

// SetBlocked blocks or unblocks a client of the given manager.
func (s *ClientService) SetBlocked(managerID, clientID uint, blocked bool, reason string) (*models.Client, error) {
	client, err := s.ownedClient(managerID, clientID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"is_blocked":     blocked,
		"blocked_reason": "",
		"blocked_at":     nil,
	}
	if blocked {
		now := time.Now()
		updates["blocked_reason"] = reason
		updates["blocked_at"] = &now
	}

	if err := s.db.Model(client).Updates(updates).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// SoftDelete marks the client deleted, forces the blocked flag and
// closes any ACTIVE conversation of that client, atomically. Once
// deleted a client never reappears in listings, searches or transfers.
func (s *ClientService) SoftDelete(managerID, clientID uint) error {
	client, err := s.ownedClient(managerID, clientID)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(client).Updates(map[string]interface{}{
			"deleted_at": &now,
			"is_blocked": true,
			"blocked_at": &now,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.ChatConversation{}).
			Where("client_id = ? AND status = ?", client.ID, models.ConversationStatusActive).
			Updates(map[string]interface{}{
				"status":    models.ConversationStatusClosed,
				"closed_at": &now,
			}).Error
	})
}

// ClientSummary is the search-result shape used when picking a transfer
// recipient; balances are deliberately absent.
type ClientSummary struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SearchClients returns activated, unblocked, undeleted clients matching
// the query by name or email, excluding the requesting client itself.
func (s *ClientService) SearchClients(requestingClientID uint, query string) ([]ClientSummary, error) {
	like := "%" + query + "%"

	var clients []models.Client
	err := s.db.Preload("User").
		Joins("JOIN users ON users.id = clients.user_id").
		Where("clients.id <> ?", requestingClientID).
		Where("clients.is_activated = ?", true).
		Where("clients.is_blocked = ?", false).
		Where("clients.deleted_at IS NULL").
		Where("users.email LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ?", like, like, like).
		Limit(20).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		summaries = append(summaries, ClientSummary{
			ID:        c.ID,
			Email:     c.User.Email,
			FirstName: c.User.FirstName,
			LastName:  c.User.LastName,
		})
	}
	return summaries, nil
}

// ListByManager returns the manager's non-deleted clients, newest first.
func (s *ClientService) ListByManager(managerID uint, page, limit int) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	base := s.db.Model(&models.Client{}).
		Where("manager_id = ? AND deleted_at IS NULL", managerID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := base.Preload("User").Order("created_at desc").
		Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}
