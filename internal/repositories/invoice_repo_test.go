package repositories

import (
	"context"
	"testing"
	"time"

	"servicehub/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InvoiceRepository
	context context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) newInvoice() *models.Invoice {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	invoice := &models.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "SRV-2026-03-0A1B2C3D4E5F6A7B8C9D0E1F",
		ClientID:      "client-1",
		ClientName:    "Acme Ltd",
		ClientEmail:   "billing@acme.test",
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, 30),
		Subtotal:      decimal.RequireFromString("100.00"),
		TaxRate:       decimal.RequireFromString("7.50"),
		Status:        models.InvoiceStatusDraft,
		CreatedBy:     "emp-1",
	}
	invoice.ComputeTotals()
	return invoice
}

func (suite *InvoiceRepoTestSuite) expectInsertInvoice(invoice *models.Invoice) *pgxmock.ExpectedExec {
	return suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(invoice.ID, invoice.InvoiceNumber, invoice.ClientID, invoice.ClientName,
			invoice.ClientEmail, invoice.OrderID, invoice.QuoteID, invoice.IssueDate,
			invoice.DueDate, invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount,
			invoice.TotalAmount, invoice.AmountPaid, invoice.Status, invoice.Notes,
			invoice.CreatedBy)
}

func (suite *InvoiceRepoTestSuite) TestCreate_WithItems() {
	invoice := suite.newInvoice()
	item := &models.InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoice.ID,
		Description: "Site survey",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.RequireFromString("50.00"),
	}
	item.ComputeTotal()

	suite.mock.ExpectBegin()
	suite.expectInsertInvoice(invoice).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO invoice_items`).
		WithArgs(item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Total).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, invoice, []*models.InvoiceItem{item})
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestCreate_DuplicateNumberRollsBack() {
	invoice := suite.newInvoice()

	suite.mock.ExpectBegin()
	suite.expectInsertInvoice(invoice).WillReturnError(&pgconn.PgError{Code: "23505"})
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, invoice, nil)
	assert.ErrorIs(suite.T(), err, ErrDuplicateReference)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestCreate_ItemInsertFailureRollsBack() {
	invoice := suite.newInvoice()
	item := &models.InvoiceItem{ID: uuid.New(), InvoiceID: invoice.ID, Description: "Labour"}

	suite.mock.ExpectBegin()
	suite.expectInsertInvoice(invoice).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO invoice_items`).
		WithArgs(item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Total).
		WillReturnError(&pgconn.PgError{Code: "23502"})
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, invoice, []*models.InvoiceItem{item})
	assert.Error(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestGetByID_Success() {
	invoice := suite.newInvoice()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(invoiceRowColumns()).AddRow(
		invoice.ID, invoice.InvoiceNumber, invoice.ClientID, invoice.ClientName,
		invoice.ClientEmail, invoice.OrderID, invoice.QuoteID, invoice.IssueDate,
		invoice.DueDate, invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount,
		invoice.TotalAmount, invoice.AmountPaid, invoice.Status, invoice.Notes,
		invoice.CreatedBy, now, now,
	)

	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM invoices WHERE id = \$1`).
		WithArgs(invoice.ID).
		WillReturnRows(rows)

	result, err := suite.repo.GetByID(suite.context, invoice.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), invoice.InvoiceNumber, result.InvoiceNumber)
	assert.True(suite.T(), result.TotalAmount.Equal(decimal.RequireFromString("107.50")))
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM invoices WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *InvoiceRepoTestSuite) TestList_StatusFilter() {
	invoice := suite.newInvoice()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(invoiceRowColumns()).AddRow(
		invoice.ID, invoice.InvoiceNumber, invoice.ClientID, invoice.ClientName,
		invoice.ClientEmail, invoice.OrderID, invoice.QuoteID, invoice.IssueDate,
		invoice.DueDate, invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount,
		invoice.TotalAmount, invoice.AmountPaid, invoice.Status, invoice.Notes,
		invoice.CreatedBy, now, now,
	)

	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM invoices WHERE 1=1 AND status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("draft", 50, 0).
		WillReturnRows(rows)

	result, err := suite.repo.List(suite.context, InvoiceFilter{Status: "draft", Limit: 50, Offset: 0})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), models.InvoiceStatusDraft, result[0].Status)
}

func (suite *InvoiceRepoTestSuite) TestUpdate_NeverTouchesAmountPaid() {
	invoice := suite.newInvoice()

	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(invoice.ClientID, invoice.ClientName, invoice.ClientEmail, invoice.OrderID,
			invoice.QuoteID, invoice.IssueDate, invoice.DueDate, invoice.Subtotal,
			invoice.TaxRate, invoice.TaxAmount, invoice.TotalAmount, invoice.Status,
			invoice.Notes, invoice.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, invoice)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestUpdate_NotFound() {
	invoice := suite.newInvoice()

	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(invoice.ClientID, invoice.ClientName, invoice.ClientEmail, invoice.OrderID,
			invoice.QuoteID, invoice.IssueDate, invoice.DueDate, invoice.Subtotal,
			invoice.TaxRate, invoice.TaxAmount, invoice.TotalAmount, invoice.Status,
			invoice.Notes, invoice.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, invoice)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *InvoiceRepoTestSuite) TestDelete_NotFound() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *InvoiceRepoTestSuite) TestMarkOverdue_CountsUpdatedRows() {
	asOf := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectExec(`UPDATE invoices SET status = 'overdue', updated_at = NOW\(\) WHERE status IN \('sent', 'viewed', 'partially_paid'\) AND due_date < \$1`).
		WithArgs(asOf).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := suite.repo.MarkOverdue(suite.context, asOf)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), count)
}
