package handlers

import (
	"net/http"

	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PaymentHandlers handles HTTP requests for payments.
type PaymentHandlers struct {
	paymentService services.PaymentService
}

func NewPaymentHandlers(paymentService services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService}
}

type createPaymentRequest struct {
	InvoiceID            string          `json:"invoice_id"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        string          `json:"payment_method"`
	PaymentDate          string          `json:"payment_date"`
	TransactionReference string          `json:"transaction_reference"`
	Notes                string          `json:"notes"`
	CreatedBy            string          `json:"created_by"`
}

// paymentResponse carries the posted payment together with the invoice
// as reconciled inside the posting transaction.
type paymentResponse struct {
	Payment *models.Payment `json:"payment"`
	Invoice *models.Invoice `json:"invoice"`
}

// ListPayments handles GET /v1/payments?invoice_id=
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	var invoiceID *uuid.UUID
	if raw := c.QueryParam("invoice_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "invoice_id")
		if err != nil {
			return common.SendFieldError(c, "invoice_id", err.Error())
		}
		invoiceID = &id
	}

	payments, err := h.paymentService.List(c.Request().Context(), invoiceID)
	if err != nil {
		return respondServiceError(c, err, "payment")
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return c.JSON(http.StatusOK, map[string]any{"payments": payments})
}

// CreatePayment handles POST /v1/payments
func (h *PaymentHandlers) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoiceID, err := common.ValidateUUID(req.InvoiceID, "invoice_id")
	if err != nil {
		return common.SendFieldError(c, "invoice_id", err.Error())
	}
	paymentDate, err := common.ParseDate(req.PaymentDate, "payment_date")
	if err != nil {
		return common.SendFieldError(c, "payment_date", err.Error())
	}

	payment := &models.Payment{
		InvoiceID:            invoiceID,
		Amount:               req.Amount,
		PaymentMethod:        models.PaymentMethod(req.PaymentMethod),
		PaymentDate:          paymentDate,
		TransactionReference: req.TransactionReference,
		Notes:                req.Notes,
		CreatedBy:            req.CreatedBy,
	}
	if payment.CreatedBy == "" {
		if userID, ok := common.GetUserIDFromContext(ctx); ok {
			payment.CreatedBy = userID
		}
	}

	invoice, err := h.paymentService.Post(ctx, payment, services.WriteOptions{})
	if err != nil {
		return respondServiceError(c, err, "invoice")
	}
	return c.JSON(http.StatusCreated, paymentResponse{Payment: payment, Invoice: invoice})
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandlers) GetPayment(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	payment, err := h.paymentService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err, "payment")
	}
	return c.JSON(http.StatusOK, payment)
}

// DeletePayment handles DELETE /v1/payments/:id. The invoice is returned
// as reconciled from the remaining ledger.
func (h *PaymentHandlers) DeletePayment(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.paymentService.Delete(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err, "payment")
	}
	return c.JSON(http.StatusOK, map[string]any{"invoice": invoice})
}
