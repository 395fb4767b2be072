package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the admin endpoints on an already
// authenticated and role-checked route group.
func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	admin := router.Group("/admin")
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.GET("/transactions", h.ListTransactions)
		admin.GET("/transactions/export", h.ExportTransactions)
	}
}
