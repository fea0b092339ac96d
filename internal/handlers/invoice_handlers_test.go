package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"servicehub/internal/common"
	"servicehub/internal/models"
	"servicehub/internal/repositories"
	"servicehub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem, opts services.WriteOptions) error {
	args := m.Called(ctx, invoice, items, opts)
	return args.Error(0)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, []*models.InvoiceItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Invoice), args.Get(1).([]*models.InvoiceItem), args.Error(2)
}

func (m *MockInvoiceService) List(ctx context.Context, filter repositories.InvoiceFilter) ([]*models.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, invoice *models.Invoice, opts services.WriteOptions) error {
	args := m.Called(ctx, invoice, opts)
	return args.Error(0)
}

func (m *MockInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceService) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GenerateInvoicePDF(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem) (string, error) {
	args := m.Called(ctx, invoice, items)
	return args.String(0), args.Error(1)
}

func newInvoiceContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateInvoice_Created(t *testing.T) {
	invoiceSvc := new(MockInvoiceService)
	docSvc := new(MockDocumentService)
	h := NewInvoiceHandlers(invoiceSvc, docSvc)

	invoiceSvc.On("Create", mock.Anything, mock.AnythingOfType("*models.Invoice"), mock.Anything, services.WriteOptions{}).
		Return(nil)

	body := `{
		"client_id": "client-1",
		"issue_date": "2026-03-01",
		"due_date": "2026-03-31",
		"subtotal": "100.00",
		"tax_rate": "7.50",
		"created_by": "emp-1",
		"items": [{"description": "Site survey", "quantity": "2", "unit_price": "50.00"}]
	}`
	c, rec := newInvoiceContext(http.MethodPost, "/v1/invoices", body)

	assert.NoError(t, h.CreateInvoice(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	invoiceSvc.AssertExpectations(t)
}

func TestCreateInvoice_BadIssueDate(t *testing.T) {
	invoiceSvc := new(MockInvoiceService)
	h := NewInvoiceHandlers(invoiceSvc, new(MockDocumentService))

	body := `{"client_id": "client-1", "issue_date": "01/03/2026", "due_date": "2026-03-31"}`
	c, rec := newInvoiceContext(http.MethodPost, "/v1/invoices", body)

	assert.NoError(t, h.CreateInvoice(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	invoiceSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateInvoice_ValidationFailureEnvelope(t *testing.T) {
	invoiceSvc := new(MockInvoiceService)
	h := NewInvoiceHandlers(invoiceSvc, new(MockDocumentService))

	invoiceSvc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(common.FieldErrors{"client_id": "does not exist", "created_by": "is not active"})

	body := `{"client_id": "ghost", "issue_date": "2026-03-01", "due_date": "2026-03-31", "created_by": "emp-9"}`
	c, rec := newInvoiceContext(http.MethodPost, "/v1/invoices", body)

	assert.NoError(t, h.CreateInvoice(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp common.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "client_id")
	assert.Contains(t, resp.Error.Details, "created_by")
}

func TestGetInvoice_NotFound(t *testing.T) {
	invoiceSvc := new(MockInvoiceService)
	h := NewInvoiceHandlers(invoiceSvc, new(MockDocumentService))

	id := uuid.New()
	invoiceSvc.On("GetByID", mock.Anything, id).Return(nil, nil, repositories.ErrNotFound)

	c, rec := newInvoiceContext(http.MethodGet, "/v1/invoices/"+id.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	assert.NoError(t, h.GetInvoice(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInvoice_InvalidUUID(t *testing.T) {
	h := NewInvoiceHandlers(new(MockInvoiceService), new(MockDocumentService))

	c, rec := newInvoiceContext(http.MethodGet, "/v1/invoices/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	assert.NoError(t, h.GetInvoice(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInvoices_RejectsUnknownStatus(t *testing.T) {
	invoiceSvc := new(MockInvoiceService)
	h := NewInvoiceHandlers(invoiceSvc, new(MockDocumentService))

	c, rec := newInvoiceContext(http.MethodGet, "/v1/invoices?status=bogus", "")

	assert.NoError(t, h.ListInvoices(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	invoiceSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGenerateInvoicePDF_ReturnsURL(t *testing.T) {
	invoiceSvc := new(MockInvoiceService)
	docSvc := new(MockDocumentService)
	h := NewInvoiceHandlers(invoiceSvc, docSvc)

	id := uuid.New()
	invoice := &models.Invoice{
		ID:            id,
		InvoiceNumber: "SRV-2026-03-0A1B2C3D4E5F6A7B8C9D0E1F",
		Subtotal:      decimal.RequireFromString("100.00"),
	}
	items := []*models.InvoiceItem{}
	invoiceSvc.On("GetByID", mock.Anything, id).Return(invoice, items, nil)
	docSvc.On("GenerateInvoicePDF", mock.Anything, invoice, items).
		Return("https://storage.test/invoices/"+id.String()+".pdf", nil)

	c, rec := newInvoiceContext(http.MethodPost, "/v1/invoices/"+id.String()+"/pdf", "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	assert.NoError(t, h.GenerateInvoicePDF(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["url"], id.String())
}
