package main

import (
	"errors"
	"log"

	"vaultbank-backend/config"
	"vaultbank-backend/internal/api"
	"vaultbank-backend/internal/database"
	"vaultbank-backend/internal/models"
	"vaultbank-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @title vaultbank-backend API
// @version 1.0
// @description Virtual banking backend: manager credit purchases, client credits and transfers.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}
	if err := logger.InitLogger(logCfg); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	// Migrate the schema
	err = db.AutoMigrate(
		&models.User{},
		&models.Manager{},
		&models.Client{},
		&models.Transaction{},
		&models.Payment{},
		&models.Notification{},
		&models.ChatConversation{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	initAdminUser(db)

	router := api.NewRouter(cfg, db, rdb)
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func initAdminUser(db *gorm.DB) {
	adminEmail := "admin@vaultbank.local"
	adminPassword := "ChangeMe1234"

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("failed to hash admin password: %v", err)
			}

			adminUser = models.User{
				Email:         adminEmail,
				Password:      string(hashedPassword),
				FirstName:     "System",
				LastName:      "Admin",
				Role:          models.RoleAdmin,
				EmailVerified: true,
			}

			if err := db.Create(&adminUser).Error; err != nil {
				log.Fatalf("failed to create admin user: %v", err)
			}
			log.Println("Admin user created successfully!")
		} else {
			log.Fatalf("failed to check for admin user: %v", result.Error)
		}
	} else {
		log.Println("Admin user already exists.")
	}
}
