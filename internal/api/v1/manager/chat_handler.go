package manager

import (
	"errors"
	"net/http"
	"strconv"

	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/services"
	"vaultbank-backend/internal/utils"
	"vaultbank-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrConversationClosed):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	default:
		logger.Log.Error("chat operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Chat operation failed"))
	}
}

// Conversations godoc
// @Summary List own conversations
// @Description Conversations with last message and unread count, latest activity first
// @Tags manager
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Router /manager/chat/conversations [get]
func (h *Handler) Conversations(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	summaries, err := h.chats.ListConversations(manager.ID, manager.UserID)
	if err != nil {
		logger.Log.Error("conversation list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch conversations"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Conversations retrieved", gin.H{"conversations": summaries}))
}

// Messages godoc
// @Summary List conversation messages
// @Tags manager
// @Produce  json
// @Security ApiKeyAuth
// @Param conversationId query int true "Conversation id"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /manager/chat/messages [get]
func (h *Handler) Messages(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	conversationID, err := strconv.ParseUint(c.Query("conversationId"), 10, 32)
	if err != nil || conversationID == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid conversationId"))
		return
	}

	page, limit := pageParams(c)
	messages, total, err := h.chats.ListMessages(uint(conversationID), manager.ID, models.RoleManager, page, limit)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Messages retrieved", gin.H{
		"messages": messages,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}))
}

// SendMessage godoc
// @Summary Send a chat message
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   SendMessageInput  true  "Message"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /manager/chat/send [post]
func (h *Handler) SendMessage(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input SendMessageInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	msg, err := h.chats.SendMessage(input.ConversationID, manager.ID, models.RoleManager, manager.UserID, input.Content)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Message sent", gin.H{"message": msg}))
}

// MarkRead godoc
// @Summary Mark messages as read
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   MarkReadInput  true  "Read marker"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /manager/chat/read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input MarkReadInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	if err := h.chats.MarkRead(input.ConversationID, manager.ID, models.RoleManager, input.MessageID, manager.UserID); err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Messages marked as read", nil))
}

// CloseConversation godoc
// @Summary Close a conversation
// @Description Closed conversations reject further messages
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   CloseConversationInput  true  "Conversation"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /manager/chat/close [post]
func (h *Handler) CloseConversation(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input CloseConversationInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	conv, err := h.chats.CloseConversation(input.ConversationID, manager.ID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Conversation closed", gin.H{"conversation": conv}))
}
