package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vaultbank-backend/internal/api/v1/auth"
	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/services"
	"vaultbank-backend/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	// Use in-memory SQLite for testing
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.Migrator().DropTable(&models.User{}, &models.Manager{})
	if err := db.AutoMigrate(&models.User{}, &models.Manager{}); err != nil {
		panic("failed to migrate database")
	}

	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	router := gin.New()
	h := auth.NewHandler(services.NewAuthService(db, rdb))
	group := router.Group("/api/v1")
	auth.RegisterRoutes(group, h)
	return router, db
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupEndpoint(t *testing.T) {
	router, db := setupRouter(t)

	w := postJSON(router, "/api/v1/auth/signup", gin.H{
		"email":           "advisor@example.com",
		"password":        "S3curePass!",
		"confirmPassword": "S3curePass!",
		"firstName":       "Ada",
		"lastName":        "Advisor",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status  int               `json:"status"`
		Message string            `json:"message"`
		Data    auth.UserResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleManager, resp.Data.Role)
	assert.NotEmpty(t, resp.Data.Token)

	var manager models.Manager
	assert.NoError(t, db.Where("user_id = ?", resp.Data.ID).First(&manager).Error)

	// Duplicate email conflicts
	w = postJSON(router, "/api/v1/auth/signup", gin.H{
		"email":           "advisor@example.com",
		"password":        "S3curePass!",
		"confirmPassword": "S3curePass!",
		"firstName":       "Ada",
		"lastName":        "Advisor",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Mismatched confirmation is a bad request
	w = postJSON(router, "/api/v1/auth/signup", gin.H{
		"email":           "second@example.com",
		"password":        "S3curePass!",
		"confirmPassword": "different",
		"firstName":       "Bob",
		"lastName":        "Backup",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing fields fail validation
	w = postJSON(router, "/api/v1/auth/signup", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := postJSON(router, "/api/v1/auth/signup", gin.H{
		"email":           "advisor@example.com",
		"password":        "S3curePass!",
		"confirmPassword": "S3curePass!",
		"firstName":       "Ada",
		"lastName":        "Advisor",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/api/v1/auth/login", gin.H{
		"email":    "advisor@example.com",
		"password": "S3curePass!",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data auth.UserResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)

	w = postJSON(router, "/api/v1/auth/login", gin.H{
		"email":    "advisor@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := postJSON(router, "/api/v1/auth/signup", gin.H{
		"email":           "advisor@example.com",
		"password":        "S3curePass!",
		"confirmPassword": "S3curePass!",
		"firstName":       "Ada",
		"lastName":        "Advisor",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data auth.UserResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Data.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Without a token logout is unauthorized
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
