package handlers

import (
	"net/http"

	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type BudgetHandlers struct {
	budgetService services.BudgetService
}

func NewBudgetHandlers(budgetService services.BudgetService) *BudgetHandlers {
	return &BudgetHandlers{budgetService: budgetService}
}

type budgetRequest struct {
	ProjectID     string          `json:"project_id"`
	BudgetDate    string          `json:"budget_date"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
}

func (h *BudgetHandlers) ListBudgets(c echo.Context) error {
	limit, offset := common.ParsePagination(c)
	status := c.QueryParam("status")
	if status != "" && !models.BudgetStatus(status).Valid() {
		return common.SendFieldError(c, "status", "unknown status")
	}

	budgets, err := h.budgetService.List(c.Request().Context(), c.QueryParam("project_id"), status, limit, offset)
	if err != nil {
		return respondServiceError(c, err, "budget")
	}
	if budgets == nil {
		budgets = []*models.Budget{}
	}
	return c.JSON(http.StatusOK, map[string]any{"budgets": budgets})
}

func (h *BudgetHandlers) CreateBudget(c echo.Context) error {
	var req budgetRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	budgetDate, err := common.ParseDate(req.BudgetDate, "budget_date")
	if err != nil {
		return common.SendFieldError(c, "budget_date", err.Error())
	}

	budget := &models.Budget{
		ProjectID:     req.ProjectID,
		BudgetDate:    budgetDate,
		Amount:        req.Amount,
		PaymentMethod: models.BudgetPaymentMethod(req.PaymentMethod),
		Status:        models.BudgetStatus(req.Status),
	}

	if err := h.budgetService.Create(c.Request().Context(), budget); err != nil {
		return respondServiceError(c, err, "budget")
	}
	return c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandlers) GetBudget(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	budget, err := h.budgetService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err, "budget")
	}
	return c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandlers) UpdateBudget(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	budget, err := h.budgetService.GetByID(ctx, id)
	if err != nil {
		return respondServiceError(c, err, "budget")
	}

	var req struct {
		ProjectID     *string          `json:"project_id"`
		BudgetDate    *string          `json:"budget_date"`
		Amount        *decimal.Decimal `json:"amount"`
		PaymentMethod *string          `json:"payment_method"`
		Status        *string          `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.ProjectID != nil {
		budget.ProjectID = *req.ProjectID
	}
	if req.BudgetDate != nil {
		budgetDate, err := common.ParseDate(*req.BudgetDate, "budget_date")
		if err != nil {
			return common.SendFieldError(c, "budget_date", err.Error())
		}
		budget.BudgetDate = budgetDate
	}
	if req.Amount != nil {
		budget.Amount = *req.Amount
	}
	if req.PaymentMethod != nil {
		budget.PaymentMethod = models.BudgetPaymentMethod(*req.PaymentMethod)
	}
	if req.Status != nil {
		budget.Status = models.BudgetStatus(*req.Status)
	}

	if err := h.budgetService.Update(ctx, budget); err != nil {
		return respondServiceError(c, err, "budget")
	}
	return c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandlers) DeleteBudget(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.budgetService.Delete(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err, "budget")
	}
	return c.NoContent(http.StatusNoContent)
}
