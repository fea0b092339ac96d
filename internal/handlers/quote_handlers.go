package handlers

import (
	"net/http"

	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type QuoteHandlers struct {
	quoteService services.QuoteService
}

func NewQuoteHandlers(quoteService services.QuoteService) *QuoteHandlers {
	return &QuoteHandlers{quoteService: quoteService}
}

type quoteRequest struct {
	ClientID    string          `json:"client_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ValidUntil  string          `json:"valid_until"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by"`
}

func (h *QuoteHandlers) ListQuotes(c echo.Context) error {
	limit, offset := common.ParsePagination(c)
	status := c.QueryParam("status")
	if status != "" && !models.QuoteStatus(status).Valid() {
		return common.SendFieldError(c, "status", "unknown status")
	}

	quotes, err := h.quoteService.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return respondServiceError(c, err, "quote")
	}
	if quotes == nil {
		quotes = []*models.Quote{}
	}
	return c.JSON(http.StatusOK, map[string]any{"quotes": quotes})
}

func (h *QuoteHandlers) CreateQuote(c echo.Context) error {
	ctx := c.Request().Context()

	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	validUntil, err := common.ParseDate(req.ValidUntil, "valid_until")
	if err != nil {
		return common.SendFieldError(c, "valid_until", err.Error())
	}

	quote := &models.Quote{
		ClientID:    req.ClientID,
		Description: req.Description,
		Amount:      req.Amount,
		ValidUntil:  validUntil,
		Status:      models.QuoteStatus(req.Status),
		CreatedBy:   req.CreatedBy,
	}
	if quote.CreatedBy == "" {
		if userID, ok := common.GetUserIDFromContext(ctx); ok {
			quote.CreatedBy = userID
		}
	}

	if err := h.quoteService.Create(ctx, quote, services.WriteOptions{}); err != nil {
		return respondServiceError(c, err, "quote")
	}
	return c.JSON(http.StatusCreated, quote)
}

func (h *QuoteHandlers) GetQuote(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	quote, err := h.quoteService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err, "quote")
	}
	return c.JSON(http.StatusOK, quote)
}

func (h *QuoteHandlers) UpdateQuote(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	quote, err := h.quoteService.GetByID(ctx, id)
	if err != nil {
		return respondServiceError(c, err, "quote")
	}

	var req struct {
		ClientID    *string          `json:"client_id"`
		Description *string          `json:"description"`
		Amount      *decimal.Decimal `json:"amount"`
		ValidUntil  *string          `json:"valid_until"`
		Status      *string          `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.ClientID != nil {
		quote.ClientID = *req.ClientID
	}
	if req.Description != nil {
		quote.Description = *req.Description
	}
	if req.Amount != nil {
		quote.Amount = *req.Amount
	}
	if req.ValidUntil != nil {
		validUntil, err := common.ParseDate(*req.ValidUntil, "valid_until")
		if err != nil {
			return common.SendFieldError(c, "valid_until", err.Error())
		}
		quote.ValidUntil = validUntil
	}
	if req.Status != nil {
		quote.Status = models.QuoteStatus(*req.Status)
	}

	if err := h.quoteService.Update(ctx, quote, services.WriteOptions{}); err != nil {
		return respondServiceError(c, err, "quote")
	}
	return c.JSON(http.StatusOK, quote)
}

func (h *QuoteHandlers) DeleteQuote(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.quoteService.Delete(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err, "quote")
	}
	return c.NoContent(http.StatusNoContent)
}
