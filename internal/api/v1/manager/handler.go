package manager

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
}

func NewHandler(
	users *services.UserService,
	clients *services.ClientService,
	balances *services.BalanceService,
	chats *services.ChatService,
	notifications *services.NotificationService,
) *Handler {
	return &Handler{
		users:         users,
		clients:       clients,
		balances:      balances,
		chats:         chats,
		notifications: notifications,
	}
}

// currentManager resolves the Manager row of the authenticated user, or
// writes the error response and returns false.
func (h *Handler) currentManager(c *gin.Context) (models.Manager, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return models.Manager{}, false
	}
	manager, err := h.users.FindManagerByUserID(user.ID)
	if err != nil {
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "No manager account for this user"))
		return models.Manager{}, false
	}
	return manager, true
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

// respondClientError maps the client-ownership error set shared by most
// manager endpoints.
func respondClientError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrNotYourClient):
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
	case errors.Is(err, services.ErrClientDeleted),
		errors.Is(err, services.ErrClientInactive):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	default:
		return false
	}
	return true
}

// CreateClient godoc
// @Summary Create a client account
// @Description Create a pending client and return its activation link for out-of-band delivery
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   CreateClientInput  true  "Client Input"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /manager/create-client [post]
func (h *Handler) CreateClient(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input CreateClientInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	client, link, err := h.clients.CreateClient(manager.ID, services.CreateClientInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
			return
		}
		logger.Log.Error("create client failed",
			zap.Uint("manager_id", manager.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to create client"))
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Client created", gin.H{
		"client":          toClientItem(client),
		"activation_link": link,
	}))
}

// ListClients godoc
// @Summary List own clients
// @Tags manager
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response
// @Router /manager/clients [get]
func (h *Handler) ListClients(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	clients, total, err := h.clients.ListByManager(manager.ID, page, limit)
	if err != nil {
		logger.Log.Error("client list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch clients"))
		return
	}

	items := make([]ClientItem, 0, len(clients))
	for i := range clients {
		items = append(items, toClientItem(&clients[i]))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Clients retrieved", gin.H{
		"clients":        items,
		"total":          total,
		"page":           page,
		"limit":          limit,
		"credit_balance": utils.FormatCents(manager.CreditBalance),
	}))
}

// CreditClient godoc
// @Summary Credit a client from the manager float
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   CreditClientInput  true  "Credit Input"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /manager/credit-client [post]
func (h *Handler) CreditClient(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input CreditClientInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	amount, err := utils.ParseCents(input.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	txn, client, err := h.balances.CreditClient(manager.ID, input.ClientID, amount, input.Description)
	if err != nil {
		if respondClientError(c, err) {
			return
		}
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrInsufficientCredit):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		default:
			logger.Log.Error("credit client failed",
				zap.Uint("manager_id", manager.ID),
				zap.Uint("client_id", input.ClientID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to credit client"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Client credited", gin.H{
		"transaction":    toTransactionResponse(txn),
		"client_balance": utils.FormatCents(client.AccountBalance),
	}))
}

// BuyCredits godoc
// @Summary Buy manager credit via the payment provider
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   BuyCreditsInput  true  "Purchase Input"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /manager/buy-credits [post]
func (h *Handler) BuyCredits(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input BuyCreditsInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	amount, err := utils.ParseCents(input.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	txn, pay, err := h.balances.BuyCredits(manager.ID, amount, input.PhoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
			return
		}
		logger.Log.Error("buy credits failed",
			zap.Uint("manager_id", manager.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Credit purchase failed"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Credits purchased", gin.H{
		"transaction": toTransactionResponse(txn),
		"payment": PaymentResponse{
			ID:          pay.ID,
			Amount:      utils.FormatCents(pay.Amount),
			PhoneNumber: pay.PhoneNumber,
			Provider:    pay.Provider,
			ExternalRef: pay.ExternalRef,
			Status:      pay.Status,
		},
	}))
}

// BlockClient godoc
// @Summary Block or unblock a client
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   BlockClientInput  true  "Block Input"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /manager/block-client [post]
func (h *Handler) BlockClient(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input BlockClientInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	blocked := input.Action == "block"
	client, err := h.clients.SetBlocked(manager.ID, input.ClientID, blocked, input.Reason)
	if err != nil {
		if respondClientError(c, err) {
			return
		}
		logger.Log.Error("block client failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update client"))
		return
	}

	message := "Client unblocked"
	if blocked {
		message = "Client blocked"
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse(message, gin.H{"client": toClientItem(client)}))
}

// DeleteClient godoc
// @Summary Soft-delete a client
// @Description Marks the client deleted, blocks it and closes its active conversations
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   DeleteClientInput  true  "Delete Input"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /manager/delete-client [post]
func (h *Handler) DeleteClient(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input DeleteClientInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	if !input.ConfirmDelete {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Deletion must be confirmed"))
		return
	}

	if err := h.clients.SoftDelete(manager.ID, input.ClientID); err != nil {
		if respondClientError(c, err) {
			return
		}
		logger.Log.Error("delete client failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to delete client"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Client deleted", nil))
}

// SendNotification godoc
// @Summary Send a notification to a client
// @Tags manager
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   input     body   SendNotificationInput  true  "Notification Input"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /manager/send-notification [post]
func (h *Handler) SendNotification(c *gin.Context) {
	manager, ok := h.currentManager(c)
	if !ok {
		return
	}

	var input SendNotificationInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	notifType := input.Type
	if notifType == "" {
		notifType = "info"
	}

	n, err := h.notifications.Create(manager.ID, input.ClientID, input.Title, input.Message, notifType)
	if err != nil {
		if respondClientError(c, err) {
			return
		}
		logger.Log.Error("send notification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to send notification"))
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Notification sent", gin.H{"id": n.ID}))
}
