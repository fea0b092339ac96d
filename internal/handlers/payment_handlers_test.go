package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"servicehub/internal/models"
	"servicehub/internal/repositories"
	"servicehub/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Post(ctx context.Context, payment *models.Payment, opts services.WriteOptions) (*models.Invoice, error) {
	args := m.Called(ctx, payment, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockPaymentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) List(ctx context.Context, invoiceID *uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentService) Delete(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func TestCreatePayment_ReturnsReconciledInvoice(t *testing.T) {
	paymentSvc := new(MockPaymentService)
	h := NewPaymentHandlers(paymentSvc)

	invoiceID := uuid.New()
	reconciled := &models.Invoice{
		ID:          invoiceID,
		Status:      models.InvoiceStatusPaid,
		TotalAmount: decimal.RequireFromString("107.50"),
		AmountPaid:  decimal.RequireFromString("107.50"),
	}
	paymentSvc.On("Post", mock.Anything, mock.AnythingOfType("*models.Payment"), services.WriteOptions{}).Return(reconciled, nil)

	body := `{
		"invoice_id": "` + invoiceID.String() + `",
		"amount": "107.50",
		"payment_method": "bank_transfer",
		"payment_date": "2026-03-10",
		"created_by": "emp-1"
	}`
	c, rec := newInvoiceContext(http.MethodPost, "/v1/payments", body)

	assert.NoError(t, h.CreatePayment(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Invoice struct {
			Status string `json:"status"`
		} `json:"invoice"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "paid", resp.Invoice.Status)
}

func TestCreatePayment_InvalidInvoiceID(t *testing.T) {
	paymentSvc := new(MockPaymentService)
	h := NewPaymentHandlers(paymentSvc)

	body := `{"invoice_id": "not-a-uuid", "amount": "10.00", "payment_method": "cash", "payment_date": "2026-03-10"}`
	c, rec := newInvoiceContext(http.MethodPost, "/v1/payments", body)

	assert.NoError(t, h.CreatePayment(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	paymentSvc.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePayment_MissingInvoice(t *testing.T) {
	paymentSvc := new(MockPaymentService)
	h := NewPaymentHandlers(paymentSvc)

	invoiceID := uuid.New()
	paymentSvc.On("Post", mock.Anything, mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound)

	body := `{"invoice_id": "` + invoiceID.String() + `", "amount": "10.00", "payment_method": "cash", "payment_date": "2026-03-10"}`
	c, rec := newInvoiceContext(http.MethodPost, "/v1/payments", body)

	assert.NoError(t, h.CreatePayment(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePayment_ReturnsReconciledInvoice(t *testing.T) {
	paymentSvc := new(MockPaymentService)
	h := NewPaymentHandlers(paymentSvc)

	paymentID := uuid.New()
	reconciled := &models.Invoice{ID: uuid.New(), Status: models.InvoiceStatusPartiallyPaid}
	paymentSvc.On("Delete", mock.Anything, paymentID).Return(reconciled, nil)

	c, rec := newInvoiceContext(http.MethodDelete, "/v1/payments/"+paymentID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(paymentID.String())

	assert.NoError(t, h.DeletePayment(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListPayments_FiltersByInvoice(t *testing.T) {
	paymentSvc := new(MockPaymentService)
	h := NewPaymentHandlers(paymentSvc)

	invoiceID := uuid.New()
	paymentSvc.On("List", mock.Anything, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == invoiceID
	})).Return([]*models.Payment{}, nil)

	c, rec := newInvoiceContext(http.MethodGet, "/v1/payments?invoice_id="+invoiceID.String(), "")

	assert.NoError(t, h.ListPayments(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	paymentSvc.AssertExpectations(t)
}
