package middleware

import (
	"net/http"

	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group on the authenticated user's role.
// It must run after Auth. Role is the only authority signal here; no
// email or id comparisons.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		v, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		user, ok := v.(models.User)
		if !ok || !allowed[user.Role] {
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "Forbidden"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
