package handlers

import (
	"net/http"

	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ExpenseHandlers struct {
	expenseService services.ExpenseService
}

func NewExpenseHandlers(expenseService services.ExpenseService) *ExpenseHandlers {
	return &ExpenseHandlers{expenseService: expenseService}
}

type expenseRequest struct {
	UserID      string          `json:"user_id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
}

func (h *ExpenseHandlers) ListExpenses(c echo.Context) error {
	limit, offset := common.ParsePagination(c)
	status := c.QueryParam("status")
	if status != "" && !models.ExpenseStatus(status).Valid() {
		return common.SendFieldError(c, "status", "unknown status")
	}

	expenses, err := h.expenseService.List(c.Request().Context(), c.QueryParam("user_id"), status, limit, offset)
	if err != nil {
		return respondServiceError(c, err, "expense")
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return c.JSON(http.StatusOK, map[string]any{"expenses": expenses})
}

func (h *ExpenseHandlers) CreateExpense(c echo.Context) error {
	ctx := c.Request().Context()

	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return common.SendFieldError(c, "date", err.Error())
	}

	expense := &models.Expense{
		UserID:      req.UserID,
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    models.ExpenseCategory(req.Category),
		Status:      models.ExpenseStatus(req.Status),
	}
	if expense.UserID == "" {
		if userID, ok := common.GetUserIDFromContext(ctx); ok {
			expense.UserID = userID
		}
	}

	if err := h.expenseService.Create(ctx, expense, services.WriteOptions{}); err != nil {
		return respondServiceError(c, err, "expense")
	}
	return c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandlers) GetExpense(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	expense, err := h.expenseService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err, "expense")
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandlers) UpdateExpense(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	expense, err := h.expenseService.GetByID(ctx, id)
	if err != nil {
		return respondServiceError(c, err, "expense")
	}

	var req struct {
		Date        *string          `json:"date"`
		Description *string          `json:"description"`
		Amount      *decimal.Decimal `json:"amount"`
		Category    *string          `json:"category"`
		Status      *string          `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.Date != nil {
		date, err := common.ParseDate(*req.Date, "date")
		if err != nil {
			return common.SendFieldError(c, "date", err.Error())
		}
		expense.Date = date
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = models.ExpenseCategory(*req.Category)
	}
	if req.Status != nil {
		expense.Status = models.ExpenseStatus(*req.Status)
	}

	if err := h.expenseService.Update(ctx, expense, services.WriteOptions{}); err != nil {
		return respondServiceError(c, err, "expense")
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandlers) DeleteExpense(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.expenseService.Delete(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err, "expense")
	}
	return c.NoContent(http.StatusNoContent)
}
