package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vaultbank-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func roleTestRouter(user *models.User, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Set("user", *user)
			c.Next()
		})
	}
	router.GET("/guarded", RequireRole(roles...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		user           *models.User
		allowed        []string
		expectedStatus int
	}{
		{
			name:           "matching role passes",
			user:           &models.User{ID: 1, Role: models.RoleManager},
			allowed:        []string{models.RoleManager},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "any of several roles passes",
			user:           &models.User{ID: 1, Role: models.RoleAdmin},
			allowed:        []string{models.RoleManager, models.RoleAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong role is forbidden",
			user:           &models.User{ID: 1, Role: models.RoleClient},
			allowed:        []string{models.RoleManager},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing user is unauthorized",
			user:           nil,
			allowed:        []string{models.RoleManager},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := roleTestRouter(tt.user, tt.allowed...)
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)

	c.Set("user", models.User{ID: 7, Role: models.RoleClient})
	user, ok := CurrentUser(c)
	assert.True(t, ok)
	assert.Equal(t, uint(7), user.ID)
}
