package services

import (
	"fmt"
	"time"

	"vaultbank-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB() *gorm.DB {
	// Use in-memory SQLite for testing
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	// Drop tables if exist to ensure clean state and schema update
	db.Migrator().DropTable(
		&models.User{}, &models.Manager{}, &models.Client{},
		&models.Transaction{}, &models.Payment{}, &models.Notification{},
		&models.ChatConversation{}, &models.ChatMessage{},
	)

	err = db.AutoMigrate(
		&models.User{}, &models.Manager{}, &models.Client{},
		&models.Transaction{}, &models.Payment{}, &models.Notification{},
		&models.ChatConversation{}, &models.ChatMessage{},
	)
	if err != nil {
		panic("failed to migrate database")
	}

	return db
}

func setupTestRedis() (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func seedManager(db *gorm.DB, email string, creditBalance int64) models.Manager {
	user := models.User{
		Email:         email,
		Password:      "hashedpassword",
		FirstName:     "Test",
		LastName:      "Manager",
		Role:          models.RoleManager,
		EmailVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		panic(err)
	}
	manager := models.Manager{UserID: user.ID, CreditBalance: creditBalance}
	if err := db.Create(&manager).Error; err != nil {
		panic(err)
	}
	manager.User = user
	return manager
}

func seedClient(db *gorm.DB, managerID uint, email string, balance int64, activated bool) models.Client {
	user := models.User{
		Email:         email,
		Password:      "hashedpassword",
		FirstName:     "Test",
		LastName:      "Client",
		Role:          models.RoleClient,
		EmailVerified: activated,
	}
	if err := db.Create(&user).Error; err != nil {
		panic(err)
	}
	client := models.Client{
		UserID:         user.ID,
		ManagerID:      managerID,
		AccountBalance: balance,
		IsActivated:    activated,
	}
	if !activated {
		token := fmt.Sprintf("token-%d", user.ID)
		expires := time.Now().Add(24 * time.Hour)
		client.ActivationToken = &token
		client.ActivationExpiresAt = &expires
	}
	if err := db.Create(&client).Error; err != nil {
		panic(err)
	}
	client.User = user
	return client
}
