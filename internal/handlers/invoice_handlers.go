package handlers

import (
	"net/http"

	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/repositories"
	"servicehub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// InvoiceHandlers handles HTTP requests for invoices.
type InvoiceHandlers struct {
	invoiceService  services.InvoiceService
	documentService services.DocumentService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService, documentService services.DocumentService) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

type invoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type createInvoiceRequest struct {
	ClientID  string               `json:"client_id"`
	OrderID   *string              `json:"order_id"`
	QuoteID   *string              `json:"quote_id"`
	IssueDate string               `json:"issue_date"`
	DueDate   string               `json:"due_date"`
	Subtotal  decimal.Decimal      `json:"subtotal"`
	TaxRate   *decimal.Decimal     `json:"tax_rate"`
	Status    string               `json:"status"`
	Notes     string               `json:"notes"`
	CreatedBy string               `json:"created_by"`
	Items     []invoiceItemRequest `json:"items"`
}

type invoiceResponse struct {
	Invoice *models.Invoice       `json:"invoice"`
	Items   []*models.InvoiceItem `json:"items"`
}

// ListInvoices handles GET /v1/invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	limit, offset := common.ParsePagination(c)
	filter := repositories.InvoiceFilter{
		Status:   c.QueryParam("status"),
		ClientID: c.QueryParam("client_id"),
		Search:   c.QueryParam("search"),
		Limit:    limit,
		Offset:   offset,
	}
	if filter.Status != "" && !models.InvoiceStatus(filter.Status).Valid() {
		return common.SendFieldError(c, "status", "unknown status")
	}

	invoices, err := h.invoiceService.List(c.Request().Context(), filter)
	if err != nil {
		return respondServiceError(c, err, "invoice")
	}
	if invoices == nil {
		invoices = []*models.Invoice{}
	}
	return c.JSON(http.StatusOK, map[string]any{"invoices": invoices})
}

// CreateInvoice handles POST /v1/invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	issueDate, err := common.ParseDate(req.IssueDate, "issue_date")
	if err != nil {
		return common.SendFieldError(c, "issue_date", err.Error())
	}
	dueDate, err := common.ParseDate(req.DueDate, "due_date")
	if err != nil {
		return common.SendFieldError(c, "due_date", err.Error())
	}

	invoice := &models.Invoice{
		ClientID:  req.ClientID,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Subtotal:  req.Subtotal,
		TaxRate:   models.DefaultTaxRate,
		Status:    models.InvoiceStatus(req.Status),
		Notes:     req.Notes,
		CreatedBy: req.CreatedBy,
	}
	if req.TaxRate != nil {
		invoice.TaxRate = *req.TaxRate
	}
	if invoice.CreatedBy == "" {
		if userID, ok := common.GetUserIDFromContext(ctx); ok {
			invoice.CreatedBy = userID
		}
	}

	if req.OrderID != nil && *req.OrderID != "" {
		orderID, err := common.ValidateUUID(*req.OrderID, "order_id")
		if err != nil {
			return common.SendFieldError(c, "order_id", err.Error())
		}
		invoice.OrderID = &orderID
	}
	if req.QuoteID != nil && *req.QuoteID != "" {
		quoteID, err := common.ValidateUUID(*req.QuoteID, "quote_id")
		if err != nil {
			return common.SendFieldError(c, "quote_id", err.Error())
		}
		invoice.QuoteID = &quoteID
	}

	items := make([]*models.InvoiceItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		items = append(items, &models.InvoiceItem{
			Description: itemReq.Description,
			Quantity:    itemReq.Quantity,
			UnitPrice:   itemReq.UnitPrice,
		})
	}

	if err := h.invoiceService.Create(ctx, invoice, items, services.WriteOptions{}); err != nil {
		return respondServiceError(c, err, "invoice")
	}
	return c.JSON(http.StatusCreated, invoiceResponse{Invoice: invoice, Items: items})
}

// GetInvoice handles GET /v1/invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, items, err := h.invoiceService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err, "invoice")
	}
	if items == nil {
		items = []*models.InvoiceItem{}
	}
	return c.JSON(http.StatusOK, invoiceResponse{Invoice: invoice, Items: items})
}

type updateInvoiceRequest struct {
	ClientID  *string          `json:"client_id"`
	IssueDate *string          `json:"issue_date"`
	DueDate   *string          `json:"due_date"`
	Subtotal  *decimal.Decimal `json:"subtotal"`
	TaxRate   *decimal.Decimal `json:"tax_rate"`
	Status    *string          `json:"status"`
	Notes     *string          `json:"notes"`
}

// UpdateInvoice handles PATCH /v1/invoices/:id. Only the supplied fields
// change; tax and total are recomputed afterwards. amount_paid is not
// updatable here.
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req updateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, items, err := h.invoiceService.GetByID(ctx, id)
	if err != nil {
		return respondServiceError(c, err, "invoice")
	}

	if req.ClientID != nil {
		invoice.ClientID = *req.ClientID
	}
	if req.IssueDate != nil {
		issueDate, err := common.ParseDate(*req.IssueDate, "issue_date")
		if err != nil {
			return common.SendFieldError(c, "issue_date", err.Error())
		}
		invoice.IssueDate = issueDate
	}
	if req.DueDate != nil {
		dueDate, err := common.ParseDate(*req.DueDate, "due_date")
		if err != nil {
			return common.SendFieldError(c, "due_date", err.Error())
		}
		invoice.DueDate = dueDate
	}
	if req.Subtotal != nil {
		invoice.Subtotal = *req.Subtotal
	}
	if req.TaxRate != nil {
		invoice.TaxRate = *req.TaxRate
	}
	if req.Status != nil {
		invoice.Status = models.InvoiceStatus(*req.Status)
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}

	if err := h.invoiceService.Update(ctx, invoice, services.WriteOptions{}); err != nil {
		return respondServiceError(c, err, "invoice")
	}
	return c.JSON(http.StatusOK, invoiceResponse{Invoice: invoice, Items: items})
}

// DeleteInvoice handles DELETE /v1/invoices/:id
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.invoiceService.Delete(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err, "invoice")
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateInvoicePDF handles POST /v1/invoices/:id/pdf
func (h *InvoiceHandlers) GenerateInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, items, err := h.invoiceService.GetByID(ctx, id)
	if err != nil {
		return respondServiceError(c, err, "invoice")
	}

	url, err := h.documentService.GenerateInvoicePDF(ctx, invoice, items)
	if err != nil {
		return common.SendServerError(c, "Failed to generate invoice PDF")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
