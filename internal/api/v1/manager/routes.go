package manager

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the manager endpoints on an already
// authenticated and role-checked route group.
func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	manager := router.Group("/manager")
	{
		manager.POST("/create-client", h.CreateClient)
		manager.GET("/clients", h.ListClients)
		manager.POST("/credit-client", h.CreditClient)
		manager.POST("/buy-credits", h.BuyCredits)
		manager.POST("/block-client", h.BlockClient)
		manager.POST("/delete-client", h.DeleteClient)
		manager.POST("/send-notification", h.SendNotification)

		chat := manager.Group("/chat")
		{
			chat.GET("/conversations", h.Conversations)
			chat.GET("/messages", h.Messages)
			chat.POST("/send", h.SendMessage)
			chat.POST("/read", h.MarkRead)
			chat.POST("/close", h.CloseConversation)
		}
	}
}
