package api

import (
	"vaultbank-backend/config"
	"vaultbank-backend/internal/api/v1/admin"
	"vaultbank-backend/internal/api/v1/auth"
	"vaultbank-backend/internal/api/v1/client"
	"vaultbank-backend/internal/api/v1/manager"
	"vaultbank-backend/internal/middleware"
	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/payment/mobilepay"
	"vaultbank-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// NewRouter builds the gin engine with all middleware, services and
// route groups wired together.
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	userService := services.NewUserService(db, rdb)
	authService := services.NewAuthService(db, rdb)
	clientService := services.NewClientService(db, userService, cfg.ActivationBaseURL)
	payDriver := mobilepay.New(cfg.PayMerchantID, cfg.PayKey)
	balanceService := services.NewBalanceService(db, rdb, userService, payDriver, cfg.JWTSecret)
	chatService := services.NewChatService(db)
	notificationService := services.NewNotificationService(db)
	transactionService := services.NewTransactionService(db)

	authHandler := auth.NewHandler(authService)
	clientHandler := client.NewHandler(userService, clientService, balanceService, chatService, notificationService, transactionService)
	managerHandler := manager.NewHandler(userService, clientService, balanceService, chatService, notificationService)
	adminHandler := admin.NewHandler(userService, transactionService)

	v1 := router.Group("/api/v1")

	auth.RegisterRoutes(v1, authHandler)
	client.RegisterPublicRoutes(v1, clientHandler)

	authed := v1.Group("")
	authed.Use(middleware.Auth(authService, userService))

	clientGroup := authed.Group("")
	clientGroup.Use(middleware.RequireRole(models.RoleClient))
	client.RegisterRoutes(clientGroup, clientHandler)

	managerGroup := authed.Group("")
	managerGroup.Use(middleware.RequireRole(models.RoleManager))
	manager.RegisterRoutes(managerGroup, managerHandler)

	adminGroup := authed.Group("")
	adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
	admin.RegisterRoutes(adminGroup, adminHandler)

	return router
}
