package handlers

import (
	"net/http"

	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

type orderRequest struct {
	ClientID    string          `json:"client_id"`
	QuoteID     *string         `json:"quote_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	OrderStatus string          `json:"order_status"`
	ValidUntil  string          `json:"valid_until"`
	CreatedBy   string          `json:"created_by"`
	AssignedTo  string          `json:"assigned_to"`
}

func (h *OrderHandlers) ListOrders(c echo.Context) error {
	limit, offset := common.ParsePagination(c)
	status := c.QueryParam("status")
	if status != "" && !models.OrderStatus(status).Valid() {
		return common.SendFieldError(c, "status", "unknown status")
	}

	orders, err := h.orderService.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return respondServiceError(c, err, "order")
	}
	if orders == nil {
		orders = []*models.ServiceOrder{}
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	validUntil, err := common.ParseDate(req.ValidUntil, "valid_until")
	if err != nil {
		return common.SendFieldError(c, "valid_until", err.Error())
	}

	order := &models.ServiceOrder{
		ClientID:    req.ClientID,
		Description: req.Description,
		Amount:      req.Amount,
		OrderStatus: models.OrderStatus(req.OrderStatus),
		ValidUntil:  validUntil,
		CreatedBy:   req.CreatedBy,
		AssignedTo:  req.AssignedTo,
	}
	if req.QuoteID != nil && *req.QuoteID != "" {
		quoteID, err := common.ValidateUUID(*req.QuoteID, "quote_id")
		if err != nil {
			return common.SendFieldError(c, "quote_id", err.Error())
		}
		order.QuoteID = &quoteID
	}
	if order.CreatedBy == "" {
		if userID, ok := common.GetUserIDFromContext(ctx); ok {
			order.CreatedBy = userID
		}
	}

	if err := h.orderService.Create(ctx, order, services.WriteOptions{}); err != nil {
		return respondServiceError(c, err, "order")
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err, "order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandlers) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.GetByID(ctx, id)
	if err != nil {
		return respondServiceError(c, err, "order")
	}

	var req struct {
		ClientID      *string          `json:"client_id"`
		Description   *string          `json:"description"`
		Amount        *decimal.Decimal `json:"amount"`
		OrderStatus   *string          `json:"order_status"`
		PaymentStatus *string          `json:"payment_status"`
		ValidUntil    *string          `json:"valid_until"`
		AssignedTo    *string          `json:"assigned_to"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.ClientID != nil {
		order.ClientID = *req.ClientID
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Amount != nil {
		order.Amount = *req.Amount
	}
	if req.OrderStatus != nil {
		order.OrderStatus = models.OrderStatus(*req.OrderStatus)
	}
	if req.PaymentStatus != nil {
		order.PaymentStatus = models.OrderPaymentStatus(*req.PaymentStatus)
	}
	if req.ValidUntil != nil {
		validUntil, err := common.ParseDate(*req.ValidUntil, "valid_until")
		if err != nil {
			return common.SendFieldError(c, "valid_until", err.Error())
		}
		order.ValidUntil = validUntil
	}
	if req.AssignedTo != nil {
		order.AssignedTo = *req.AssignedTo
	}

	if err := h.orderService.Update(ctx, order, services.WriteOptions{}); err != nil {
		return respondServiceError(c, err, "order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.orderService.Delete(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err, "order")
	}
	return c.NoContent(http.StatusNoContent)
}
