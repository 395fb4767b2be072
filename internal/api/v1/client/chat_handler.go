package client

import (
	"errors"
	"net/http"

	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/services"
	"vaultbank-backend/internal/utils"
	"vaultbank-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrConversationClosed),
		errors.Is(err, services.ErrClientInactive):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	default:
		logger.Log.Error("chat operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Chat operation failed"))
	}
}

// Conversation godoc
// @Summary Get (or open) the support conversation
// @Tags client
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Router /client/chat/conversation [get]
func (h *Handler) Conversation(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}

	conv, err := h.chats.EnsureConversation(&client)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Conversation retrieved", gin.H{"conversation": conv}))
}

// Messages godoc
// @Summary List conversation messages
// @Tags client
// @Produce  json
// @Security ApiKeyAuth
// @Param conversationId query int true "Conversation id"
// @Success 200 {object} utils.Response{data=MessageListResponse}
// @Failure 404 {object} utils.Response
// @Router /client/chat/messages [get]
func (h *Handler) Messages(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}

	conversationID, ok := uintQuery(c, "conversationId")
	if !ok {
		return
	}

	page, limit := pageParams(c)
	messages, total, err := h.chats.ListMessages(conversationID, client.ID, models.RoleClient, page, limit)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Messages retrieved", MessageListResponse{
		Messages: messages,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}))
}

// SendMessage godoc
// @Summary Send a chat message
// @Tags client
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   SendMessageInput  true  "Message"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /client/chat/send [post]
func (h *Handler) SendMessage(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}
	if client.IsBlocked || client.DeletedAt != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, services.ErrClientInactive.Error()))
		return
	}

	var input SendMessageInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	msg, err := h.chats.SendMessage(input.ConversationID, client.ID, models.RoleClient, client.UserID, input.Content)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Message sent", gin.H{"message": msg}))
}

// MarkRead godoc
// @Summary Mark messages as read
// @Tags client
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   MarkReadInput  true  "Read marker"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /client/chat/read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}

	var input MarkReadInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	if err := h.chats.MarkRead(input.ConversationID, client.ID, models.RoleClient, input.MessageID, client.UserID); err != nil {
		h.respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Messages marked as read", nil))
}
