package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vaultbank-backend/internal/database"
	"vaultbank-backend/internal/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// UserService resolves user identities and the manager/client rows that
// hang off them. Lookups by id go through redis when a client is
// configured; balance-mutating services call InvalidateUser after a
// write so no stale balance is served.
type UserService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewUserService(db *gorm.DB, rdb *redis.Client) *UserService {
	return &UserService{db: db, rdb: rdb}
}

func userCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func (s *UserService) FindUserByID(userID uint) (models.User, error) {
	// Try cache
	if s.rdb != nil {
		val, err := s.rdb.Get(database.Ctx, userCacheKey(userID)).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}

	// Set cache
	if s.rdb != nil {
		if data, err := json.Marshal(user); err == nil {
			s.rdb.Set(database.Ctx, userCacheKey(user.ID), data, time.Hour)
		}
	}

	return user, nil
}

// InvalidateUser drops the cached copy of a user, if any.
func (s *UserService) InvalidateUser(userID uint) {
	if s.rdb != nil {
		s.rdb.Del(database.Ctx, userCacheKey(userID))
	}
}

func (s *UserService) FindUserByEmail(email string) (models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

func (s *UserService) FindManagerByUserID(userID uint) (models.Manager, error) {
	var manager models.Manager
	if err := s.db.Where("user_id = ?", userID).First(&manager).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return manager, ErrManagerNotFound
		}
		return manager, err
	}
	return manager, nil
}

func (s *UserService) FindClientByUserID(userID uint) (models.Client, error) {
	var client models.Client
	if err := s.db.Where("user_id = ?", userID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return client, ErrClientNotFound
		}
		return client, err
	}
	return client, nil
}

// FindUsers retrieves a paginated list of users.
func (s *UserService) FindUsers(page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	offset := (page - 1) * limit

	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Limit(limit).Offset(offset).Order("id").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateUser applies selective field updates to a user row. Passwords
// arrive plain and are hashed before they touch storage.
func (s *UserService) UpdateUser(id uint, updates map[string]interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if password, ok := updates["password"].(string); ok && password != "" {
		hashed, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.InvalidateUser(id)

	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
