package client

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers the unauthenticated activation
// endpoints.
func RegisterPublicRoutes(router *gin.RouterGroup, h *Handler) {
	router.POST("/activate-account", h.ActivateAccount)
	router.POST("/client/activate", h.Activate)
}

// RegisterRoutes registers the client-role endpoints; the caller wires
// auth and role middleware on the group.
func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	client := router.Group("/client")
	{
		client.POST("/transfer", h.Transfer)
		client.GET("/search", h.Search)
		client.GET("/transactions", h.History)
		client.GET("/notifications", h.ListNotifications)
		client.POST("/notifications", h.MarkNotifications)

		chat := client.Group("/chat")
		{
			chat.GET("/conversation", h.Conversation)
			chat.GET("/messages", h.Messages)
			chat.POST("/send", h.SendMessage)
			chat.POST("/read", h.MarkRead)
		}
	}
}
