package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/services"
	"vaultbank-backend/internal/utils"
	"vaultbank-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	users        *services.UserService
	transactions *services.TransactionService
}

func NewHandler(users *services.UserService, transactions *services.TransactionService) *Handler {
	return &Handler{users: users, transactions: transactions}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.Response
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	users, total, err := h.users.FindUsers(page, limit)
	if err != nil {
		logger.Log.Error("user list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch users"))
		return
	}

	items := make([]UserItem, 0, len(users))
	for _, u := range users {
		items = append(items, toUserItem(u))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Users retrieved", gin.H{
		"users": items,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// UpdateUser godoc
// @Summary Update a user
// @Description Selective field update, including role changes
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param id path int true "User id"
// @Param   input     body   UpdateUserInput  true  "Fields to update"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user id"))
		return
	}

	var input UpdateUserInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	updates := map[string]interface{}{}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Password != nil {
		updates["password"] = *input.Password
	}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Role != nil {
		updates["role"] = *input.Role
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "No fields to update"))
		return
	}

	user, err := h.users.UpdateUser(uint(id), updates)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
			return
		}
		logger.Log.Error("user update failed", zap.Uint("user_id", uint(id)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update user"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("User updated", gin.H{"user": toUserItem(*user)}))
}

// parseTransactionFilter reads filter criteria off the query string.
// Amount bounds arrive as decimal strings, times as RFC3339.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	filter.Page, filter.Limit = pageParams(c)

	if v := c.Query("userId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, fmt.Errorf("invalid userId")
		}
		userID := uint(id)
		filter.UserID = &userID
	}
	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		filter.Type = &t
	}
	if v := c.Query("status"); v != "" {
		s := models.TransactionStatus(v)
		filter.Status = &s
	}
	if v := c.Query("startTime"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid startTime")
		}
		filter.StartTime = &t
	}
	if v := c.Query("endTime"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid endTime")
		}
		filter.EndTime = &t
	}
	if v := c.Query("minAmount"); v != "" {
		cents, err := utils.ParseCents(v)
		if err != nil {
			return filter, fmt.Errorf("invalid minAmount")
		}
		filter.MinAmount = &cents
	}
	if v := c.Query("maxAmount"); v != "" {
		cents, err := utils.ParseCents(v)
		if err != nil {
			return filter, fmt.Errorf("invalid maxAmount")
		}
		filter.MaxAmount = &cents
	}

	return filter, nil
}

// ListTransactions godoc
// @Summary List transactions
// @Description Paginated transaction log with optional filters
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param userId query int false "Either side of the movement"
// @Param type query string false "Transaction type"
// @Param status query string false "Transaction status"
// @Param startTime query string false "RFC3339 lower bound"
// @Param endTime query string false "RFC3339 upper bound"
// @Param minAmount query string false "Minimum amount"
// @Param maxAmount query string false "Maximum amount"
// @Success 200 {object} utils.Response
// @Router /admin/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	transactions, total, err := h.transactions.Find(filter)
	if err != nil {
		logger.Log.Error("transaction list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch transactions"))
		return
	}

	items := make([]TransactionItem, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, toTransactionItem(t))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Transactions retrieved", gin.H{
		"transactions": items,
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	}))
}

// ExportTransactions godoc
// @Summary Export transactions as CSV
// @Tags admin
// @Produce  text/csv
// @Security ApiKeyAuth
// @Success 200 {string} string "CSV file"
// @Router /admin/transactions/export [get]
func (h *Handler) ExportTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}
	// export ignores pagination, capped to keep response bounded
	filter.Page = 1
	filter.Limit = 10000

	transactions, _, err := h.transactions.Find(filter)
	if err != nil {
		logger.Log.Error("transaction export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to export transactions"))
		return
	}

	csvData, err := h.transactions.GenerateCSV(transactions)
	if err != nil {
		logger.Log.Error("csv generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to generate CSV"))
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", csvData)
}
