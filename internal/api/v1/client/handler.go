package client

import (
	"errors"
	"net/http"
	"strconv"

	"vaultbank-backend/internal/middleware"
	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/services"
	"vaultbank-backend/internal/utils"
	"vaultbank-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	users         *services.UserService
	clients       *services.ClientService
	balances      *services.BalanceService
	chats         *services.ChatService
	notifications *services.NotificationService
	transactions  *services.TransactionService
}

func NewHandler(
	users *services.UserService,
	clients *services.ClientService,
	balances *services.BalanceService,
	chats *services.ChatService,
	notifications *services.NotificationService,
	transactions *services.TransactionService,
) *Handler {
	return &Handler{
		users:         users,
		clients:       clients,
		balances:      balances,
		chats:         chats,
		notifications: notifications,
		transactions:  transactions,
	}
}

// currentClient resolves the Client row of the authenticated user, or
// writes the error response and returns false.
func (h *Handler) currentClient(c *gin.Context) (models.Client, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return models.Client{}, false
	}
	client, err := h.users.FindClientByUserID(user.ID)
	if err != nil {
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "No client account for this user"))
		return models.Client{}, false
	}
	return client, true
}

// uintQuery parses a required positive integer query parameter, writing
// the 400 response itself on failure.
func uintQuery(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid "+name))
		return 0, false
	}
	return uint(v), true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// ActivateAccount godoc
// @Summary Activate an account by token
// @Description Consume an activation token and set the account password
// @Tags client
// @Accept  json
// @Produce  json
// @Param   input     body   ActivateInput  true  "Activation Input"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /activate-account [post]
func (h *Handler) ActivateAccount(c *gin.Context) {
	var input ActivateInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	if _, err := h.clients.ActivateAccount(input.Token, input.Password); err != nil {
		h.respondActivationError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Account activated", gin.H{"activated": true}))
}

// Activate godoc
// @Summary Activate a client account
// @Description Consume an activation token and return the client identity
// @Tags client
// @Accept  json
// @Produce  json
// @Param   input     body   ActivateInput  true  "Activation Input"
// @Success 200 {object} utils.Response{data=ClientProfile}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /client/activate [post]
func (h *Handler) Activate(c *gin.Context) {
	var input ActivateInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	client, err := h.clients.ActivateAccount(input.Token, input.Password)
	if err != nil {
		h.respondActivationError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Account activated", ClientProfile{
		ID:          client.ID,
		Email:       client.User.Email,
		FirstName:   client.User.FirstName,
		LastName:    client.User.LastName,
		IsActivated: client.IsActivated,
		Balance:     utils.FormatCents(client.AccountBalance),
	}))
}

func (h *Handler) respondActivationError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidActivation) {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		return
	}
	logger.Log.Error("activation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to activate account"))
}

// Transfer godoc
// @Summary Transfer funds to another client
// @Description Move funds from the authenticated client to the recipient resolved by email
// @Tags client
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   TransferInput  true  "Transfer Input"
// @Success 200 {object} utils.Response{data=TransactionResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /client/transfer [post]
func (h *Handler) Transfer(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}

	var input TransferInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	amount, err := utils.ParseCents(input.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	txn, err := h.balances.Transfer(client.ID, input.RecipientEmail, amount, input.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrInsufficientBalance),
			errors.Is(err, services.ErrSelfTransfer),
			errors.Is(err, services.ErrClientInactive):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		case errors.Is(err, services.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		default:
			logger.Log.Error("transfer failed",
				zap.Uint("sender_client_id", client.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Transfer failed"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Transfer successful", toTransactionResponse(txn)))
}

// Search godoc
// @Summary Search transfer recipients
// @Description Search active clients by name or email
// @Tags client
// @Produce  json
// @Security ApiKeyAuth
// @Param q query string false "Substring to match"
// @Success 200 {object} utils.Response
// @Router /client/search [get]
func (h *Handler) Search(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}

	results, err := h.clients.SearchClients(client.ID, c.Query("q"))
	if err != nil {
		logger.Log.Error("client search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Search failed"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Clients retrieved", gin.H{"clients": results}))
}

// ListNotifications godoc
// @Summary List notifications
// @Tags client
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=NotificationListResponse}
// @Router /client/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	notifications, total, unread, err := h.notifications.List(client.ID, page, limit)
	if err != nil {
		logger.Log.Error("notification list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch notifications"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Notifications retrieved", NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}))
}

// MarkNotifications godoc
// @Summary Mark notifications as read
// @Description Mark the given notifications as read, or all unread when no ids are sent
// @Tags client
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   MarkNotificationsInput  false  "Notification ids"
// @Success 200 {object} utils.Response
// @Router /client/notifications [post]
func (h *Handler) MarkNotifications(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}

	// Body is optional: an empty body means "mark everything".
	var input MarkNotificationsInput
	if c.Request.ContentLength > 0 {
		if !utils.BindAndValidate(c, &input) {
			return
		}
	}

	updated, err := h.notifications.MarkRead(client.ID, input.NotificationIDs)
	if err != nil {
		logger.Log.Error("notification mark-read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update notifications"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Notifications updated", gin.H{"updated": updated}))
}

// History godoc
// @Summary Own transaction history
// @Tags client
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Router /client/transactions [get]
func (h *Handler) History(c *gin.Context) {
	client, ok := h.currentClient(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	transactions, total, err := h.transactions.HistoryForUser(client.UserID, page, limit)
	if err != nil {
		logger.Log.Error("transaction history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch transactions"))
		return
	}

	balance, err := h.balances.AccountBalance(&client)
	if err != nil {
		logger.Log.Error("balance lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch transactions"))
		return
	}

	items := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, toTransactionResponse(&transactions[i]))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Transactions retrieved", gin.H{
		"transactions": items,
		"total":        total,
		"page":         page,
		"limit":        limit,
		"balance":      utils.FormatCents(balance),
	}))
}
